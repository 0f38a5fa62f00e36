package domain

import (
	"context"
	"strings"
	"time"
)

type Role string

const (
	RoleJobSeeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
	RoleVolunteer Role = "volunteer"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleEmployer, RoleAdmin, RoleVolunteer:
		return true
	}
	return false
}

// Profile visibility values
const (
	VisibilityPublic          = "public"
	VisibilityPrivate         = "private"
	VisibilityFreelanceHidden = "freelance-hidden"
)

type Location struct {
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

func (l Location) IsZero() bool {
	return l.City == "" && l.State == "" && l.Country == ""
}

type Experience struct {
	Company     string     `json:"company" bson:"company"`
	Position    string     `json:"position" bson:"position"`
	StartDate   *time.Time `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty" bson:"end_date,omitempty"`
	Current     bool       `json:"current" bson:"current"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
}

type Education struct {
	Institution string     `json:"institution" bson:"institution"`
	Degree      string     `json:"degree" bson:"degree"`
	Field       string     `json:"field,omitempty" bson:"field,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty" bson:"end_date,omitempty"`
	Current     bool       `json:"current" bson:"current"`
}

type Profile struct {
	Title             string       `json:"title,omitempty" bson:"title,omitempty"`
	Summary           string       `json:"summary,omitempty" bson:"summary,omitempty"`
	Experience        []Experience `json:"experience" bson:"experience"`
	Education         []Education  `json:"education" bson:"education"`
	Skills            []string     `json:"skills" bson:"skills"`
	Location          *Location    `json:"location,omitempty" bson:"location,omitempty"`
	Phone             string       `json:"phone,omitempty" bson:"phone,omitempty"`
	Website           string       `json:"website,omitempty" bson:"website,omitempty"`
	LinkedIn          string       `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	GitHub            string       `json:"github,omitempty" bson:"github,omitempty"`
	YouTube           string       `json:"youtube,omitempty" bson:"youtube,omitempty"`
	IsFreelancer      bool         `json:"is_freelancer" bson:"is_freelancer"`
	FreelanceCompany  string       `json:"freelance_company,omitempty" bson:"freelance_company,omitempty"`
	ProfileVisibility string       `json:"profile_visibility" bson:"profile_visibility"`
}

// FileRef points at a stored file; the bytes live outside this service
type FileRef struct {
	Filename   string    `json:"filename" bson:"filename"`
	Path       string    `json:"path" bson:"path"`
	UploadDate time.Time `json:"upload_date" bson:"upload_date"`
}

type User struct {
	ID                  string     `json:"id" bson:"_id"`
	FirstName           string     `json:"first_name" bson:"first_name"`
	LastName            string     `json:"last_name" bson:"last_name"`
	Email               string     `json:"email" bson:"email"`
	PasswordHash        string     `json:"-" bson:"password_hash"`
	Role                Role       `json:"role" bson:"role"`
	IsVolunteerApproved bool       `json:"is_volunteer_approved" bson:"is_volunteer_approved"`
	Profile             Profile    `json:"profile" bson:"profile"`
	Resume              *FileRef   `json:"resume,omitempty" bson:"resume,omitempty"`
	IsActive            bool       `json:"is_active" bson:"is_active"`
	EmailVerified       bool       `json:"email_verified" bson:"email_verified"`
	LastLogin           *time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt           time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" bson:"updated_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Actor returns the authorization identity of u
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// ExperienceInput is a raw experience entry; entries missing company or position are dropped
type ExperienceInput struct {
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

// EducationInput is a raw education entry; entries missing institution or degree are dropped
type EducationInput struct {
	Institution string     `json:"institution"`
	Degree      string     `json:"degree"`
	Field       string     `json:"field"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Current     bool       `json:"current"`
}

// ProfileUpdate lists every profile key a user may change about themselves.
// Keys not declared here never reach the stored profile.
type ProfileUpdate struct {
	Title             *string           `json:"title" binding:"omitempty,max=100"`
	Summary           *string           `json:"summary" binding:"omitempty,max=1000"`
	Experience        []ExperienceInput `json:"experience"`
	Education         []EducationInput  `json:"education"`
	Skills            []string          `json:"skills"`
	Location          *Location         `json:"location"`
	Phone             *string           `json:"phone" binding:"omitempty,valid_phone"`
	Website           *string           `json:"website" binding:"omitempty,url"`
	LinkedIn          *string           `json:"linkedin" binding:"omitempty,url"`
	GitHub            *string           `json:"github" binding:"omitempty,url"`
	YouTube           *string           `json:"youtube" binding:"omitempty,url"`
	IsFreelancer      *bool             `json:"is_freelancer"`
	FreelanceCompany  *string           `json:"freelance_company" binding:"omitempty,max=100"`
	ProfileVisibility *string           `json:"profile_visibility" binding:"omitempty,oneof=public private freelance-hidden"`
}

// IsEmpty reports whether the update carries no recognized key
func (u ProfileUpdate) IsEmpty() bool {
	return u.Title == nil && u.Summary == nil && u.Experience == nil && u.Education == nil &&
		u.Skills == nil && u.Location == nil && u.Phone == nil && u.Website == nil &&
		u.LinkedIn == nil && u.GitHub == nil && u.YouTube == nil && u.IsFreelancer == nil &&
		u.FreelanceCompany == nil && u.ProfileVisibility == nil
}

// ApplyTo copies the recognized keys onto p, normalizing list entries
func (u ProfileUpdate) ApplyTo(p *Profile) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&p.Title, u.Title)
	setString(&p.Summary, u.Summary)
	setString(&p.Phone, u.Phone)
	setString(&p.Website, u.Website)
	setString(&p.LinkedIn, u.LinkedIn)
	setString(&p.GitHub, u.GitHub)
	setString(&p.YouTube, u.YouTube)
	setString(&p.FreelanceCompany, u.FreelanceCompany)
	setString(&p.ProfileVisibility, u.ProfileVisibility)

	if u.IsFreelancer != nil {
		p.IsFreelancer = *u.IsFreelancer
	}
	if u.Skills != nil {
		p.Skills = normalizeList(u.Skills)
	}
	if u.Location != nil {
		if u.Location.IsZero() {
			p.Location = nil
		} else {
			loc := *u.Location
			p.Location = &loc
		}
	}
	if u.Experience != nil {
		p.Experience = make([]Experience, 0, len(u.Experience))
		for _, e := range u.Experience {
			if e.Company == "" || e.Position == "" {
				continue
			}
			entry := Experience{
				Company:     e.Company,
				Position:    e.Position,
				StartDate:   e.StartDate,
				EndDate:     e.EndDate,
				Current:     e.Current,
				Description: e.Description,
			}
			if entry.Current {
				entry.EndDate = nil
			}
			p.Experience = append(p.Experience, entry)
		}
	}
	if u.Education != nil {
		p.Education = make([]Education, 0, len(u.Education))
		for _, e := range u.Education {
			if e.Institution == "" || e.Degree == "" {
				continue
			}
			entry := Education{
				Institution: e.Institution,
				Degree:      e.Degree,
				Field:       e.Field,
				StartDate:   e.StartDate,
				EndDate:     e.EndDate,
				Current:     e.Current,
			}
			if entry.Current {
				entry.EndDate = nil
			}
			p.Education = append(p.Education, entry)
		}
	}
}

// VisibilityUpdate is the payload of the profile visibility endpoint
type VisibilityUpdate struct {
	Visibility       string `json:"visibility" binding:"required,oneof=public private freelance-hidden"`
	IsFreelancer     bool   `json:"is_freelancer"`
	FreelanceCompany string `json:"freelance_company" binding:"max=100"`
}

// RegisterInput is the payload of the registration endpoint
type RegisterInput struct {
	FirstName string `json:"first_name" binding:"required,max=50,valid_name"`
	LastName  string `json:"last_name" binding:"required,max=50,valid_name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Role      Role   `json:"role" binding:"omitempty,oneof=jobseeker employer volunteer"`
}

// AuthResult is returned by every successful sign-in flow
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UserFilter struct {
	Role   Role
	Search string
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter UserFilter, page Page) ([]User, int64, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
	// RefreshToken trades a still-valid token of an active user for a fresh one
	RefreshToken(ctx context.Context, token string) (*AuthResult, error)
}

type UserUsecase interface {
	GetProfile(ctx context.Context, actor Actor) (*User, error)
	UpdateProfile(ctx context.Context, actor Actor, update ProfileUpdate) (*User, error)
	UpdateVisibility(ctx context.Context, actor Actor, update VisibilityUpdate) (*Profile, error)
	UpdateResume(ctx context.Context, actor Actor, filename, path string) (*FileRef, error)

	// Admin operations
	ListUsers(ctx context.Context, actor Actor, filter UserFilter, page Page) (*PaginatedResult[User], error)
	ListVolunteers(ctx context.Context, actor Actor) ([]User, error)
	ApproveVolunteer(ctx context.Context, actor Actor, userID string, approved bool) (*User, error)
	UpdateRole(ctx context.Context, actor Actor, userID string, role Role) (*User, error)
	SetActive(ctx context.Context, actor Actor, userID string, active bool) (*User, error)
	DeleteUser(ctx context.Context, actor Actor, userID string) error
}

func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
