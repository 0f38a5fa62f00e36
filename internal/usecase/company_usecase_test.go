package usecase_test

import (
	"context"
	"errors"
	"testing"

	"job-board-backend/internal/domain"
	"job-board-backend/internal/usecase"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func companyInput() domain.CompanyInput {
	return domain.CompanyInput{
		Name:         "Analytical Engines",
		Industry:     "Software",
		Size:         domain.CompanySize11To50,
		Founded:      1843,
		Headquarters: &domain.Location{City: "London", Country: "UK"},
	}
}

func TestCreateCompany(t *testing.T) {
	ctx := context.Background()

	t.Run("employer creates an active company", func(t *testing.T) {
		repo := new(MockCompanyRepo)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Company")).Return(nil)
		uc := usecase.NewCompanyUsecase(repo, audit.Nop())

		company, err := uc.CreateCompany(ctx, employer, companyInput())
		require.NoError(t, err)
		assert.Equal(t, employer.ID, company.OwnerID)
		assert.True(t, company.IsActive)
		assert.False(t, company.Verified)
	})

	t.Run("second company for the same owner conflicts", func(t *testing.T) {
		repo := new(MockCompanyRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict)
		uc := usecase.NewCompanyUsecase(repo, audit.Nop())

		_, err := uc.CreateCompany(ctx, employer, companyInput())
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})

	t.Run("job seekers cannot create companies", func(t *testing.T) {
		uc := usecase.NewCompanyUsecase(new(MockCompanyRepo), audit.Nop())
		_, err := uc.CreateCompany(ctx, jobseeker, companyInput())
		assert.Equal(t, apperror.KindAccessDenied, apperror.KindOf(err))
	})
}

func TestCompanyOwnership(t *testing.T) {
	ctx := context.Background()
	stored := &domain.Company{ID: "company-1", OwnerID: employer.ID, IsActive: true}

	repo := new(MockCompanyRepo)
	repo.On("GetByID", mock.Anything, "company-1").Return(stored, nil)
	repo.On("Update", mock.Anything, stored).Return(nil)
	repo.On("Delete", mock.Anything, "company-1").Return(nil)
	uc := usecase.NewCompanyUsecase(repo, audit.Nop())

	_, err := uc.UpdateCompany(ctx, intruder, "company-1", companyInput())
	assert.Equal(t, apperror.KindAccessDenied, apperror.KindOf(err))

	err = uc.DeleteCompany(ctx, intruder, "company-1")
	assert.Equal(t, apperror.KindAccessDenied, apperror.KindOf(err))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	_, err = uc.VerifyCompany(ctx, employer, "company-1", true)
	assert.Equal(t, apperror.KindAccessDenied, apperror.KindOf(err))

	company, err := uc.VerifyCompany(ctx, admin, "company-1", true)
	require.NoError(t, err)
	assert.True(t, company.Verified)

	company, err = uc.SetCompanyActive(ctx, admin, "company-1", false)
	require.NoError(t, err)
	assert.False(t, company.IsActive)

	require.NoError(t, uc.DeleteCompany(ctx, employer, "company-1"))
}

func TestListCompaniesHidesInactive(t *testing.T) {
	repo := new(MockCompanyRepo)
	repo.On("List", mock.Anything, domain.CompanyFilter{Industry: "Software"}, domain.Page{Page: 1, PageSize: 10}).Return([]domain.Company{}, 0, nil)
	uc := usecase.NewCompanyUsecase(repo, audit.Nop())

	result, err := uc.ListCompanies(context.Background(), domain.CompanyFilter{Industry: "Software", IncludeInactive: true}, domain.Page{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalPages)
	repo.AssertExpectations(t)
}
