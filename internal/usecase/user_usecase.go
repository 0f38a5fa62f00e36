package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/audit"
)

const volunteerListLimit = 100

type userUsecase struct {
	userRepo domain.UserRepository
	audit    *audit.Logger
	now      func() time.Time
}

func NewUserUsecase(userRepo domain.UserRepository, auditLog *audit.Logger) domain.UserUsecase {
	return &userUsecase{
		userRepo: userRepo,
		audit:    auditLog,
		now:      time.Now,
	}
}

func (u *userUsecase) GetProfile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	return u.load(ctx, actor.ID)
}

// UpdateProfile merges whitelisted keys into the caller's profile
func (u *userUsecase) UpdateProfile(ctx context.Context, actor domain.Actor, update domain.ProfileUpdate) (*domain.User, error) {
	if update.IsEmpty() {
		return nil, apperror.BadRequest("No profile fields to update")
	}

	user, err := u.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	update.ApplyTo(&user.Profile)
	if err := u.save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userUsecase) UpdateVisibility(ctx context.Context, actor domain.Actor, update domain.VisibilityUpdate) (*domain.Profile, error) {
	user, err := u.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	user.Profile.ProfileVisibility = update.Visibility
	user.Profile.IsFreelancer = update.IsFreelancer
	user.Profile.FreelanceCompany = ""
	if update.IsFreelancer {
		user.Profile.FreelanceCompany = strings.TrimSpace(update.FreelanceCompany)
	}

	if err := u.save(ctx, user); err != nil {
		return nil, err
	}
	return &user.Profile, nil
}

// UpdateResume records a reference to an already stored resume file
func (u *userUsecase) UpdateResume(ctx context.Context, actor domain.Actor, filename, path string) (*domain.FileRef, error) {
	filename = strings.TrimSpace(filename)
	path = strings.TrimSpace(path)
	var fields []string
	if filename == "" {
		fields = append(fields, "filename: filename is required")
	}
	if path == "" {
		fields = append(fields, "path: path is required")
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("Invalid resume reference", fields)
	}

	user, err := u.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	user.Resume = &domain.FileRef{Filename: filename, Path: path, UploadDate: u.now()}
	if err := u.save(ctx, user); err != nil {
		return nil, err
	}
	return user.Resume, nil
}

func (u *userUsecase) ListUsers(ctx context.Context, actor domain.Actor, filter domain.UserFilter, page domain.Page) (*domain.PaginatedResult[domain.User], error) {
	if err := u.requireAdmin(ctx, actor, ""); err != nil {
		return nil, err
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, apperror.Validation("Invalid role filter", []string{"role: must be one of jobseeker, employer, admin, volunteer"})
	}

	page = page.Normalize()
	users, total, err := u.userRepo.List(ctx, filter, page)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return domain.NewPaginatedResult(users, total, page), nil
}

func (u *userUsecase) ListVolunteers(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if err := u.requireAdmin(ctx, actor, ""); err != nil {
		return nil, err
	}

	users, _, err := u.userRepo.List(ctx, domain.UserFilter{Role: domain.RoleVolunteer}, domain.Page{Page: 1, PageSize: volunteerListLimit})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (u *userUsecase) ApproveVolunteer(ctx context.Context, actor domain.Actor, userID string, approved bool) (*domain.User, error) {
	if err := u.requireAdmin(ctx, actor, userID); err != nil {
		return nil, err
	}

	user, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleVolunteer {
		return nil, apperror.InvalidState("User is not a volunteer")
	}

	before := strconv.FormatBool(user.IsVolunteerApproved)
	user.IsVolunteerApproved = approved
	if err := u.save(ctx, user); err != nil {
		return nil, err
	}
	u.audit.Transition(ctx, actor.ID, string(actor.Role), "user.volunteer_approved", user.ID, before, strconv.FormatBool(approved))
	return user, nil
}

func (u *userUsecase) UpdateRole(ctx context.Context, actor domain.Actor, userID string, role domain.Role) (*domain.User, error) {
	if err := u.requireAdmin(ctx, actor, userID); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperror.Validation("Invalid role", []string{"role: must be one of jobseeker, employer, admin, volunteer"})
	}
	if actor.ID == userID {
		return nil, apperror.InvalidState("You cannot change your own role")
	}

	user, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	before := user.Role
	if before == role {
		return user, nil
	}
	user.Role = role
	if role != domain.RoleVolunteer {
		user.IsVolunteerApproved = false
	}
	if err := u.save(ctx, user); err != nil {
		return nil, err
	}
	u.audit.Transition(ctx, actor.ID, string(actor.Role), "user.role", user.ID, string(before), string(role))
	return user, nil
}

func (u *userUsecase) SetActive(ctx context.Context, actor domain.Actor, userID string, active bool) (*domain.User, error) {
	if err := u.requireAdmin(ctx, actor, userID); err != nil {
		return nil, err
	}
	if actor.ID == userID && !active {
		return nil, apperror.InvalidState("You cannot deactivate your own account")
	}

	user, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	before := strconv.FormatBool(user.IsActive)
	user.IsActive = active
	if err := u.save(ctx, user); err != nil {
		return nil, err
	}
	u.audit.Transition(ctx, actor.ID, string(actor.Role), "user.active", user.ID, before, strconv.FormatBool(active))
	return user, nil
}

func (u *userUsecase) DeleteUser(ctx context.Context, actor domain.Actor, userID string) error {
	if err := u.requireAdmin(ctx, actor, userID); err != nil {
		return err
	}
	if actor.ID == userID {
		return apperror.InvalidState("You cannot delete your own account")
	}

	if err := u.userRepo.Delete(ctx, userID); err != nil {
		return notFound(err, "User not found")
	}
	u.audit.Transition(ctx, actor.ID, string(actor.Role), "user", userID, "exists", "deleted")
	return nil
}

func (u *userUsecase) requireAdmin(ctx context.Context, actor domain.Actor, userID string) error {
	return authorize(ctx, u.audit, actor, domain.UserResource(userID), domain.ActionUserManage)
}

func (u *userUsecase) load(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return user, nil
}

func (u *userUsecase) save(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = u.now()
	if err := u.userRepo.Update(ctx, user); err != nil {
		return notFound(err, "User not found")
	}
	return nil
}
