package domain_test

import (
	"testing"

	"job-board-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	owner := domain.Actor{ID: "employer-1", Role: domain.RoleEmployer}
	otherEmployer := domain.Actor{ID: "employer-2", Role: domain.RoleEmployer}
	seeker := domain.Actor{ID: "seeker-1", Role: domain.RoleJobSeeker}
	volunteer := domain.Actor{ID: "volunteer-1", Role: domain.RoleVolunteer}

	job := &domain.Job{ID: "job-1", PostedBy: owner.ID}
	app := &domain.Application{ID: "app-1", JobID: job.ID, ApplicantID: seeker.ID}
	company := &domain.Company{ID: "company-1", OwnerID: owner.ID}

	jobRes := domain.JobResource(job)
	appRes := domain.ApplicationResource(app, job)
	companyRes := domain.CompanyResource(company)

	cases := []struct {
		name     string
		actor    domain.Actor
		resource domain.Resource
		action   domain.Action
		allowed  bool
	}{
		{"admin updates any job", admin, jobRes, domain.ActionJobUpdate, true},
		{"owner updates job", owner, jobRes, domain.ActionJobUpdate, true},
		{"other employer cannot update job", otherEmployer, jobRes, domain.ActionJobDelete, false},
		{"owner sets status", owner, jobRes, domain.ActionJobSetStatus, true},
		{"owner cannot approve", owner, jobRes, domain.ActionJobApprove, false},
		{"owner cannot feature", owner, jobRes, domain.ActionJobFeature, false},
		{"admin approves", admin, jobRes, domain.ActionJobApprove, true},
		{"admin rejects", admin, jobRes, domain.ActionJobReject, true},

		{"owner updates application status", owner, appRes, domain.ActionApplicationStatus, true},
		{"admin adds note", admin, appRes, domain.ActionApplicationNote, true},
		{"other employer cannot add note", otherEmployer, appRes, domain.ActionApplicationNote, false},
		{"applicant cannot update own status", seeker, appRes, domain.ActionApplicationStatus, false},
		{"volunteer cannot schedule interview", volunteer, appRes, domain.ActionApplicationInterview, false},
		{"owner lists job applications", owner, jobRes, domain.ActionApplicationList, true},
		{"other employer cannot list job applications", otherEmployer, jobRes, domain.ActionApplicationList, false},

		{"applicant withdraws", seeker, appRes, domain.ActionApplicationWithdraw, true},
		{"admin cannot withdraw for candidate", admin, appRes, domain.ActionApplicationWithdraw, false},
		{"job owner cannot withdraw", owner, appRes, domain.ActionApplicationWithdraw, false},

		{"seeker applies", seeker, jobRes, domain.ActionJobApply, true},
		{"volunteer applies", volunteer, jobRes, domain.ActionJobApply, true},
		{"employer cannot apply", owner, jobRes, domain.ActionJobApply, false},

		{"owner updates company", owner, companyRes, domain.ActionCompanyUpdate, true},
		{"admin cannot edit company content", admin, companyRes, domain.ActionCompanyUpdate, false},
		{"other employer cannot delete company", otherEmployer, companyRes, domain.ActionCompanyDelete, false},
		{"admin verifies company", admin, companyRes, domain.ActionCompanyVerify, true},
		{"owner cannot verify company", owner, companyRes, domain.ActionCompanyVerify, false},

		{"admin manages users", admin, domain.UserResource("u"), domain.ActionUserManage, true},
		{"employer cannot manage users", owner, domain.UserResource("u"), domain.ActionUserManage, false},
		{"unknown action denies", admin, jobRes, domain.Action("job.teleport"), false},
		{"anonymous denied", domain.Actor{}, jobRes, domain.ActionJobUpdate, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.CanTransition(tc.actor, tc.resource, tc.action)
			if tc.allowed {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrAccessDenied)
			var accessErr *domain.AccessError
			assert.ErrorAs(t, err, &accessErr)
			assert.NotEmpty(t, accessErr.Reason)
		})
	}
}

func TestCanTransitionNeverMatchesEmptyOwner(t *testing.T) {
	orphan := domain.Resource{Kind: domain.ResourceJob, ID: "job-x"}
	err := domain.CanTransition(domain.Actor{ID: "employer-1", Role: domain.RoleEmployer}, orphan, domain.ActionJobUpdate)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}
