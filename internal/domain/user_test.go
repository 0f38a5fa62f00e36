package domain_test

import (
	"testing"

	"job-board-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProfileUpdateApplyTo(t *testing.T) {
	profile := domain.Profile{
		Title:             "Old title",
		Phone:             "+100",
		Skills:            []string{"Java"},
		Location:          &domain.Location{City: "Oslo"},
		ProfileVisibility: domain.VisibilityPublic,
	}

	update := domain.ProfileUpdate{
		Title:  strPtr("  Backend Engineer "),
		Skills: []string{"Go", "Go", " ", "SQL"},
		Experience: []domain.ExperienceInput{
			{Company: "Acme", Position: "Engineer", Current: true},
			{Company: "", Position: "Ghost"},
		},
		Education: []domain.EducationInput{
			{Institution: "MIT"},
			{Institution: "ETH", Degree: "MSc"},
		},
		Location: &domain.Location{},
	}
	require.False(t, update.IsEmpty())

	update.ApplyTo(&profile)

	assert.Equal(t, "Backend Engineer", profile.Title)
	assert.Equal(t, "+100", profile.Phone, "keys absent from the update stay unchanged")
	assert.Equal(t, []string{"Go", "SQL"}, profile.Skills)
	require.Len(t, profile.Experience, 1)
	assert.Equal(t, "Acme", profile.Experience[0].Company)
	require.Len(t, profile.Education, 1)
	assert.Equal(t, "ETH", profile.Education[0].Institution)
	assert.Nil(t, profile.Location, "empty location is dropped")
	assert.Equal(t, domain.VisibilityPublic, profile.ProfileVisibility)
}

func TestProfileUpdateIsEmpty(t *testing.T) {
	assert.True(t, domain.ProfileUpdate{}.IsEmpty())
	assert.False(t, domain.ProfileUpdate{Website: strPtr("")}.IsEmpty())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, domain.RoleVolunteer.Valid())
	assert.False(t, domain.Role("candidate").Valid())
}

func TestPageNormalize(t *testing.T) {
	p := domain.Page{Page: 0, PageSize: 500}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 0, p.Offset())

	res := domain.NewPaginatedResult([]int(nil), 21, domain.Page{Page: 3, PageSize: 10})
	assert.Equal(t, 3, res.TotalPages)
	assert.NotNil(t, res.Data)
}
