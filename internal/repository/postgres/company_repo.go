package postgres

import (
	"context"
	"fmt"

	"job-board-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const companyColumns = `id, owner_id, name, description, website, industry, size, founded,
	headquarters, verified, is_active, created_at, updated_at`

type companyRepo struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) domain.CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Create(ctx context.Context, company *domain.Company) error {
	hq, err := jsonArg(company.Headquarters)
	if err != nil {
		return fmt.Errorf("encode headquarters: %w", err)
	}

	query := `INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10, $11, $12, $13)`
	_, err = r.db.Exec(ctx, query,
		company.ID, company.OwnerID, company.Name, company.Description, company.Website,
		company.Industry, company.Size, nullableYear(company.Founded), hq,
		company.Verified, company.IsActive, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if uniqueViolation(err, "companies_owner_id_key") {
			return fmt.Errorf("%w: owner %s already has a company", domain.ErrConflict, company.OwnerID)
		}
		return err
	}
	return nil
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	company, err := scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		return nil, noRows(err)
	}
	return company, nil
}

func (r *companyRepo) GetByOwnerID(ctx context.Context, ownerID string) (*domain.Company, error) {
	company, err := scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE owner_id = $1`, ownerID))
	if err != nil {
		return nil, noRows(err)
	}
	return company, nil
}

func (r *companyRepo) List(ctx context.Context, filter domain.CompanyFilter, page domain.Page) ([]domain.Company, int64, error) {
	var w where
	if !filter.IncludeInactive {
		w.add("is_active = TRUE")
	}
	if filter.Industry != "" {
		w.add("industry ILIKE ?", likePattern(filter.Industry))
	}
	if filter.Size != "" {
		w.add("size = ?", filter.Size)
	}
	if filter.Search != "" {
		p := w.next(likePattern(filter.Search))
		w.add(fmt.Sprintf("(name ILIKE %[1]s OR description ILIKE %[1]s)", p))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM companies`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM companies%s ORDER BY verified DESC, created_at DESC LIMIT %s OFFSET %s`,
		companyColumns, w.String(), w.next(page.PageSize), w.next(page.Offset()))
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, *company)
	}
	return companies, total, rows.Err()
}

func (r *companyRepo) Update(ctx context.Context, company *domain.Company) error {
	hq, err := jsonArg(company.Headquarters)
	if err != nil {
		return fmt.Errorf("encode headquarters: %w", err)
	}

	query := `UPDATE companies SET
		name = $2, description = $3, website = $4, industry = $5, size = $6, founded = $7,
		headquarters = $8::jsonb, verified = $9, is_active = $10, updated_at = $11
		WHERE id = $1`
	result, err := r.db.Exec(ctx, query,
		company.ID, company.Name, company.Description, company.Website, company.Industry, company.Size,
		nullableYear(company.Founded), hq, company.Verified, company.IsActive, company.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the company; its jobs and their applications cascade
func (r *companyRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullableYear(year int) *int {
	if year == 0 {
		return nil
	}
	return &year
}

func scanCompany(row pgx.Row) (*domain.Company, error) {
	var (
		company domain.Company
		founded *int
		hq      []byte
	)
	err := row.Scan(
		&company.ID, &company.OwnerID, &company.Name, &company.Description, &company.Website,
		&company.Industry, &company.Size, &founded, &hq,
		&company.Verified, &company.IsActive, &company.CreatedAt, &company.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if founded != nil {
		company.Founded = *founded
	}
	if err := decodeJSON(hq, &company.Headquarters); err != nil {
		return nil, fmt.Errorf("decode headquarters: %w", err)
	}
	return &company, nil
}
