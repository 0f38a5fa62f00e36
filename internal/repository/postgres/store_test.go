package postgres

import (
	"errors"
	"testing"

	"job-board-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhere_NumbersPlaceholders(t *testing.T) {
	var w where
	assert.Equal(t, "", w.String())

	w.add("role = ?", "admin")
	p := w.next("%x%")
	w.add("(first_name ILIKE " + p + " OR email ILIKE " + p + ")")
	w.add("is_active = TRUE")

	assert.Equal(t, " WHERE role = $1 AND (first_name ILIKE $2 OR email ILIKE $2) AND is_active = TRUE", w.String())
	assert.Equal(t, []any{"admin", "%x%"}, w.args)
	assert.Equal(t, "$3", w.next(10))
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\%\_off%`, likePattern(" 50%_off "))
}

func TestJobConditions_SearchJoinsCompany(t *testing.T) {
	w := jobConditions(domain.JobFilter{
		Status:         domain.JobStatusActive,
		ApprovalStatus: domain.ApprovalApproved,
		Search:         "go",
	})

	assert.Contains(t, w.String(), "j.status = $1")
	assert.Contains(t, w.String(), "j.approval_status = $2")
	assert.Contains(t, w.String(), "c.name ILIKE $3")
	assert.Len(t, w.args, 3)
}

func TestJSONArg_NullBecomesSQLNull(t *testing.T) {
	var resume *domain.FileRef
	v, err := jsonArg(resume)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = jsonArg([]domain.Note{})
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestErrorMapping(t *testing.T) {
	assert.ErrorIs(t, noRows(pgx.ErrNoRows), domain.ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, noRows(other))

	dup := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"}
	assert.True(t, uniqueViolation(dup, "users_email_key"))
	assert.False(t, uniqueViolation(dup, "companies_owner_id_key"))
	assert.False(t, uniqueViolation(other, "users_email_key"))
}
