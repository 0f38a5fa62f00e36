package domain

import (
	"context"
	"time"
)

// Company size brackets
const (
	CompanySize1To10      = "1-10"
	CompanySize11To50     = "11-50"
	CompanySize51To200    = "51-200"
	CompanySize201To500   = "201-500"
	CompanySize501To1000  = "501-1000"
	CompanySizeOver1000   = "1000+"
	MinCompanyFoundedYear = 1800
)

// Company is an employer's organization. Each owner has at most one.
type Company struct {
	ID           string    `json:"id" bson:"_id"`
	OwnerID      string    `json:"owner_id" bson:"owner_id"`
	Name         string    `json:"name" bson:"name"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty"`
	Website      string    `json:"website,omitempty" bson:"website,omitempty"`
	Industry     string    `json:"industry" bson:"industry"`
	Size         string    `json:"size" bson:"size"`
	Founded      int       `json:"founded,omitempty" bson:"founded,omitempty"`
	Headquarters *Location `json:"headquarters,omitempty" bson:"headquarters,omitempty"`
	Verified     bool      `json:"verified" bson:"verified"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// CompanyInput is the payload for creating or updating a company
type CompanyInput struct {
	Name         string    `json:"name" binding:"required,max=100"`
	Description  string    `json:"description" binding:"max=2000"`
	Website      string    `json:"website" binding:"omitempty,url"`
	Industry     string    `json:"industry" binding:"required,max=100"`
	Size         string    `json:"size" binding:"required,oneof=1-10 11-50 51-200 201-500 501-1000 1000+"`
	Founded      int       `json:"founded" binding:"omitempty,min=1800,max_current_year"`
	Headquarters *Location `json:"headquarters"`
}

// ApplyTo copies the input onto c
func (in CompanyInput) ApplyTo(c *Company) {
	c.Name = in.Name
	c.Description = in.Description
	c.Website = in.Website
	c.Industry = in.Industry
	c.Size = in.Size
	c.Founded = in.Founded
	c.Headquarters = nil
	if in.Headquarters != nil && !in.Headquarters.IsZero() {
		hq := *in.Headquarters
		c.Headquarters = &hq
	}
}

type CompanyFilter struct {
	Industry string
	Size     string
	Search   string
	// IncludeInactive lists deactivated companies too (admin views)
	IncludeInactive bool
}

type CompanyRepository interface {
	Create(ctx context.Context, company *Company) error
	GetByID(ctx context.Context, id string) (*Company, error)
	GetByOwnerID(ctx context.Context, ownerID string) (*Company, error)
	List(ctx context.Context, filter CompanyFilter, page Page) ([]Company, int64, error)
	Update(ctx context.Context, company *Company) error
	// Delete removes the company together with its jobs and their applications
	Delete(ctx context.Context, id string) error
}

type CompanyUsecase interface {
	ListCompanies(ctx context.Context, filter CompanyFilter, page Page) (*PaginatedResult[Company], error)
	GetCompany(ctx context.Context, id string) (*Company, error)
	CreateCompany(ctx context.Context, actor Actor, input CompanyInput) (*Company, error)
	UpdateCompany(ctx context.Context, actor Actor, id string, input CompanyInput) (*Company, error)
	DeleteCompany(ctx context.Context, actor Actor, id string) error

	// Admin moderation
	VerifyCompany(ctx context.Context, actor Actor, id string, verified bool) (*Company, error)
	SetCompanyActive(ctx context.Context, actor Actor, id string, active bool) (*Company, error)
}
