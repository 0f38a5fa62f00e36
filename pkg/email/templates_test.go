package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPEmail(t *testing.T) {
	subject, body, err := OTPEmail("Ada", "123456", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "Your login code", subject)
	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "10 minutes")
}

func TestJobDecisionEmail(t *testing.T) {
	_, body, err := JobDecisionEmail("Ada", "Go Engineer", false, "budget <cut>")
	require.NoError(t, err)
	assert.Contains(t, body, "budget &lt;cut&gt;")

	subject, _, err := JobDecisionEmail("Ada", "Go Engineer", true, "")
	require.NoError(t, err)
	assert.Contains(t, subject, "approved")
}

func TestInterviewEmailOmitsEmptyLocation(t *testing.T) {
	_, body, err := InterviewEmail("Ada", "Go Engineer", "2024-06-01", "14:00", "video", "", "")
	require.NoError(t, err)
	assert.Contains(t, body, "2024-06-01")
	assert.NotContains(t, body, "Location:")
}
