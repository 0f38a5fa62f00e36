package mongo

import (
	"testing"
	"time"

	"job-board-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestJobQuery_PublicFilter(t *testing.T) {
	q := jobQuery(domain.JobFilter{
		Status:         domain.JobStatusActive,
		ApprovalStatus: domain.ApprovalApproved,
		SalaryMin:      1000,
		Remote:         true,
	})

	assert.Equal(t, domain.JobStatusActive, q["status"])
	assert.Equal(t, domain.ApprovalApproved, q["approval_status"])
	assert.Equal(t, bson.M{"$gte": float64(1000)}, q["salary.min"])
	assert.Equal(t, true, q["locations.remote"])
	assert.NotContains(t, q, "salary.max")
	assert.NotContains(t, q, "$and")
}

func TestJobQuery_SearchEscapesRegex(t *testing.T) {
	q := jobQuery(domain.JobFilter{Search: "c++", Location: "berlin"})

	and, ok := q["$and"].(bson.A)
	require.True(t, ok)
	require.Len(t, and, 2)

	search := and[1].(bson.M)["$or"].(bson.A)
	assert.Contains(t, search, bson.M{"company_name": bson.Regex{Pattern: `c\+\+`, Options: "i"}})
}

func TestStoredApplication_DropsJoinedFields(t *testing.T) {
	app := &domain.Application{
		ID:             "app-1",
		JobID:          "job-1",
		Status:         domain.ApplicationPending,
		JobTitle:       "Engineer",
		ApplicantEmail: "a@b.c",
		CreatedAt:      time.Now(),
	}

	doc := storedApplication(app)

	assert.Empty(t, doc.JobTitle)
	assert.Empty(t, doc.ApplicantEmail)
	assert.NotNil(t, doc.Notes)
	assert.Equal(t, "Engineer", app.JobTitle, "input must not be mutated")
}

func TestMigrationIndexes_UniqueConstraints(t *testing.T) {
	indexes := migrationIndexes()

	for _, col := range []string{colUsers, colCompanies, colJobs, colApplications} {
		assert.NotEmpty(t, indexes[col], col)
	}
	unique := indexes[colApplications][0]
	assert.Equal(t, bson.D{{Key: "job_id", Value: 1}, {Key: "applicant_id", Value: 1}}, unique.Keys)
	assert.NotNil(t, unique.Options)
}
