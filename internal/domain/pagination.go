package domain

// PaginatedResult is a generic page of results
type PaginatedResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// Page normalizes page/pageSize and exposes the store offset
type Page struct {
	Page     int
	PageSize int
}

// Normalize clamps the page to sane bounds
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 10
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// NewPaginatedResult builds a result page from a slice and a total count
func NewPaginatedResult[T any](data []T, total int64, p Page) *PaginatedResult[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := int(total) / p.PageSize
	if int(total)%p.PageSize > 0 {
		totalPages++
	}
	return &PaginatedResult[T]{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
	}
}
