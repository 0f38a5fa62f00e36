package usecase

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/audit"

	"github.com/google/uuid"
)

type companyUsecase struct {
	companyRepo domain.CompanyRepository
	audit       *audit.Logger
	now         func() time.Time
}

// NewCompanyUsecase creates a new company usecase
func NewCompanyUsecase(companyRepo domain.CompanyRepository, auditLog *audit.Logger) domain.CompanyUsecase {
	return &companyUsecase{
		companyRepo: companyRepo,
		audit:       auditLog,
		now:         time.Now,
	}
}

// ListCompanies returns active companies only
func (u *companyUsecase) ListCompanies(ctx context.Context, filter domain.CompanyFilter, page domain.Page) (*domain.PaginatedResult[domain.Company], error) {
	filter.IncludeInactive = false
	page = page.Normalize()

	companies, total, err := u.companyRepo.List(ctx, filter, page)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return domain.NewPaginatedResult(companies, total, page), nil
}

func (u *companyUsecase) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	company, err := u.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Company not found")
	}
	return company, nil
}

func (u *companyUsecase) CreateCompany(ctx context.Context, actor domain.Actor, input domain.CompanyInput) (*domain.Company, error) {
	if err := authorize(ctx, u.audit, actor, domain.Resource{Kind: domain.ResourceCompany}, domain.ActionCompanyCreate); err != nil {
		return nil, err
	}

	now := u.now()
	company := &domain.Company{
		ID:        uuid.NewString(),
		OwnerID:   actor.ID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.ApplyTo(company)

	// The unique owner index is authoritative; this only shapes the message
	if err := u.companyRepo.Create(ctx, company); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperror.Wrap(http.StatusConflict, apperror.KindConflict, "You already have a company profile", err)
		}
		return nil, translate(err)
	}
	return company, nil
}

func (u *companyUsecase) UpdateCompany(ctx context.Context, actor domain.Actor, id string, input domain.CompanyInput) (*domain.Company, error) {
	company, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, u.audit, actor, domain.CompanyResource(company), domain.ActionCompanyUpdate); err != nil {
		return nil, err
	}

	input.ApplyTo(company)
	company.UpdatedAt = u.now()
	if err := u.companyRepo.Update(ctx, company); err != nil {
		return nil, translate(err)
	}
	return company, nil
}

// DeleteCompany removes the company with its jobs and their applications
func (u *companyUsecase) DeleteCompany(ctx context.Context, actor domain.Actor, id string) error {
	company, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(ctx, u.audit, actor, domain.CompanyResource(company), domain.ActionCompanyDelete); err != nil {
		return err
	}
	if err := u.companyRepo.Delete(ctx, id); err != nil {
		return notFound(err, "Company not found")
	}
	return nil
}

func (u *companyUsecase) VerifyCompany(ctx context.Context, actor domain.Actor, id string, verified bool) (*domain.Company, error) {
	return u.moderate(ctx, actor, id, domain.ActionCompanyVerify, "company.verified", func(c *domain.Company) (string, string) {
		before := strconv.FormatBool(c.Verified)
		c.Verified = verified
		return before, strconv.FormatBool(verified)
	})
}

func (u *companyUsecase) SetCompanyActive(ctx context.Context, actor domain.Actor, id string, active bool) (*domain.Company, error) {
	return u.moderate(ctx, actor, id, domain.ActionCompanyStatus, "company.active", func(c *domain.Company) (string, string) {
		before := strconv.FormatBool(c.IsActive)
		c.IsActive = active
		return before, strconv.FormatBool(active)
	})
}

func (u *companyUsecase) moderate(ctx context.Context, actor domain.Actor, id string, action domain.Action, resource string, apply func(*domain.Company) (string, string)) (*domain.Company, error) {
	company, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, u.audit, actor, domain.CompanyResource(company), action); err != nil {
		return nil, err
	}

	from, to := apply(company)
	company.UpdatedAt = u.now()
	if err := u.companyRepo.Update(ctx, company); err != nil {
		return nil, translate(err)
	}
	u.audit.Transition(ctx, actor.ID, string(actor.Role), resource, company.ID, from, to)
	return company, nil
}

func (u *companyUsecase) load(ctx context.Context, id string) (*domain.Company, error) {
	company, err := u.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Company not found")
	}
	return company, nil
}
