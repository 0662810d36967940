package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fitify-app/fitify-api/internal/models"
	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
)

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRoleByID(ctx context.Context, id string, role models.UserRole) error
	UpdateProfile(ctx context.Context, email, fullName string, profilePic *string) error
}

// UpdateProfileRequest carries editable account fields.
type UpdateProfileRequest struct {
	FullName   string  `json:"full_name" validate:"required"`
	ProfilePic *string `json:"profile_pic" validate:"omitempty,url"`
}

// UserService manages account lookups and admin user management.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// GetByEmail returns a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// RoleByEmail resolves the role for an email. Unknown emails report the
// member role so that front-end gating degrades gracefully.
func (s *UserService) RoleByEmail(ctx context.Context, email string) (models.UserRole, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RoleMember, nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve role")
	}
	return user.Role, nil
}

// List returns all users for the admin dashboard.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, nil
}

// PromoteAdmin grants the admin role to a user. Only the main admin account
// may change admin membership.
func (s *UserService) PromoteAdmin(ctx context.Context, actorEmail, targetID string) (*models.User, error) {
	return s.setAdminRole(ctx, actorEmail, targetID, models.RoleAdmin)
}

// DemoteAdmin revokes the admin role, returning the user to member. The main
// admin account itself can never be demoted.
func (s *UserService) DemoteAdmin(ctx context.Context, actorEmail, targetID string) (*models.User, error) {
	return s.setAdminRole(ctx, actorEmail, targetID, models.RoleMember)
}

func (s *UserService) setAdminRole(ctx context.Context, actorEmail, targetID string, role models.UserRole) (*models.User, error) {
	actor, err := s.GetByEmail(ctx, actorEmail)
	if err != nil {
		return nil, err
	}
	if !actor.IsMainAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the main admin can manage admin roles")
	}

	target, err := s.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.IsMainAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "the main admin role cannot be changed")
	}
	if target.Role == role {
		return target, nil
	}

	if err := s.repo.UpdateRoleByID(ctx, target.ID, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update role")
	}

	s.logger.Info("admin role changed",
		zap.String("actor", actorEmail),
		zap.String("target", target.Email),
		zap.String("role", string(role)))

	target.Role = role
	return target, nil
}

// UpdateProfile updates the caller's own display fields.
func (s *UserService) UpdateProfile(ctx context.Context, email string, req UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.repo.UpdateProfile(ctx, email, strings.TrimSpace(req.FullName), req.ProfilePic); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	return s.GetByEmail(ctx, email)
}
