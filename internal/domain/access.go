package domain

// Actor is the authenticated caller
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) owns(ownerID string) bool {
	return a.ID != "" && a.ID == ownerID
}

type ResourceKind string

const (
	ResourceJob         ResourceKind = "job"
	ResourceApplication ResourceKind = "application"
	ResourceCompany     ResourceKind = "company"
	ResourceUser        ResourceKind = "user"
)

// Resource carries the ownership facts the gate decides on
type Resource struct {
	Kind ResourceKind
	ID   string
	// OwnerID is the job poster for jobs and applications, the owner for companies
	OwnerID string
	// ApplicantID is set for applications only
	ApplicantID string
}

func JobResource(job *Job) Resource {
	return Resource{Kind: ResourceJob, ID: job.ID, OwnerID: job.PostedBy}
}

// ApplicationResource describes app, which is managed by whoever posted job
func ApplicationResource(app *Application, job *Job) Resource {
	r := Resource{Kind: ResourceApplication, ID: app.ID, ApplicantID: app.ApplicantID}
	if job != nil {
		r.OwnerID = job.PostedBy
	}
	return r
}

func CompanyResource(company *Company) Resource {
	return Resource{Kind: ResourceCompany, ID: company.ID, OwnerID: company.OwnerID}
}

func UserResource(id string) Resource {
	return Resource{Kind: ResourceUser, ID: id}
}

type Action string

const (
	ActionJobCreate    Action = "job.create"
	ActionJobUpdate    Action = "job.update"
	ActionJobDelete    Action = "job.delete"
	ActionJobSetStatus Action = "job.status"
	ActionJobApprove   Action = "job.approve"
	ActionJobReject    Action = "job.reject"
	ActionJobFeature   Action = "job.feature"
	ActionJobModerate  Action = "job.moderate"
	ActionJobApply     Action = "job.apply"

	ActionApplicationList      Action = "application.list"
	ActionApplicationStatus    Action = "application.status"
	ActionApplicationNote      Action = "application.note"
	ActionApplicationInterview Action = "application.interview"
	ActionApplicationWithdraw  Action = "application.withdraw"
	ActionApplicationListAll   Action = "application.list_all"

	ActionCompanyCreate Action = "company.create"
	ActionCompanyUpdate Action = "company.update"
	ActionCompanyDelete Action = "company.delete"
	ActionCompanyVerify Action = "company.verify"
	ActionCompanyStatus Action = "company.status"

	ActionUserManage Action = "user.manage"
)

// AccessError is returned when the gate denies an action
type AccessError struct {
	Action Action
	Reason string
}

func (e *AccessError) Error() string {
	return e.Reason
}

func (e *AccessError) Unwrap() error {
	return ErrAccessDenied
}

func deny(action Action, reason string) error {
	return &AccessError{Action: action, Reason: reason}
}

// adminManaged lists the actions an admin may perform on anyone's resources
var adminManaged = map[Action]bool{
	ActionJobCreate:            true,
	ActionJobUpdate:            true,
	ActionJobDelete:            true,
	ActionJobSetStatus:         true,
	ActionJobApprove:           true,
	ActionJobReject:            true,
	ActionJobFeature:           true,
	ActionJobModerate:          true,
	ActionApplicationList:      true,
	ActionApplicationStatus:    true,
	ActionApplicationNote:      true,
	ActionApplicationInterview: true,
	ActionApplicationListAll:   true,
	ActionCompanyVerify:        true,
	ActionCompanyStatus:        true,
	ActionUserManage:           true,
}

// CanTransition decides whether actor may perform action on resource.
// It returns nil when allowed and an *AccessError otherwise. Unknown combinations deny.
func CanTransition(actor Actor, resource Resource, action Action) error {
	if actor.ID == "" {
		return deny(action, "authentication required")
	}

	// Candidate-side actions are never delegated to admins
	switch action {
	case ActionApplicationWithdraw:
		if resource.Kind == ResourceApplication && actor.owns(resource.ApplicantID) {
			return nil
		}
		return deny(action, "only the applicant can withdraw this application")
	case ActionJobApply:
		if actor.Role == RoleJobSeeker || actor.Role == RoleVolunteer {
			return nil
		}
		return deny(action, "only job seekers and volunteers can apply to jobs")
	case ActionCompanyCreate:
		if actor.Role == RoleEmployer {
			return nil
		}
		return deny(action, "only employers can create a company")
	}

	if actor.IsAdmin() && adminManaged[action] {
		return nil
	}

	switch action {
	case ActionJobCreate:
		if actor.Role == RoleEmployer {
			return nil
		}
		return deny(action, "only employers can post jobs")

	case ActionJobUpdate, ActionJobDelete, ActionJobSetStatus:
		if resource.Kind == ResourceJob && actor.owns(resource.OwnerID) {
			return nil
		}
		return deny(action, "you can only manage jobs you posted")

	case ActionJobApprove, ActionJobReject, ActionJobFeature, ActionJobModerate:
		return deny(action, "only admins can moderate jobs")

	case ActionApplicationList, ActionApplicationStatus, ActionApplicationNote, ActionApplicationInterview:
		if (resource.Kind == ResourceApplication || resource.Kind == ResourceJob) && actor.owns(resource.OwnerID) {
			return nil
		}
		return deny(action, "you can only manage applications to jobs you posted")

	case ActionCompanyUpdate, ActionCompanyDelete:
		if resource.Kind == ResourceCompany && actor.owns(resource.OwnerID) {
			return nil
		}
		return deny(action, "you can only manage your own company")

	case ActionCompanyVerify, ActionCompanyStatus:
		return deny(action, "only admins can moderate companies")

	case ActionUserManage, ActionApplicationListAll:
		return deny(action, "admin access required")
	}

	return deny(action, "action not permitted")
}
