package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitify-app/fitify-api/internal/models"
	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
)

type mockUserAdminRepo struct {
	findByEmailFn    func(ctx context.Context, email string) (*models.User, error)
	findByIDFn       func(ctx context.Context, id string) (*models.User, error)
	updateRoleByIDFn func(ctx context.Context, id string, role models.UserRole) error
}

func (m *mockUserAdminRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findByEmailFn(ctx, email)
}

func (m *mockUserAdminRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockUserAdminRepo) List(ctx context.Context) ([]models.User, error) {
	return nil, nil
}

func (m *mockUserAdminRepo) UpdateRoleByID(ctx context.Context, id string, role models.UserRole) error {
	return m.updateRoleByIDFn(ctx, id, role)
}

func (m *mockUserAdminRepo) UpdateProfile(ctx context.Context, email, fullName string, profilePic *string) error {
	return nil
}

func TestUserServicePromoteAdmin(t *testing.T) {
	var gotRole models.UserRole
	repo := &mockUserAdminRepo{
		findByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: "u-main", Email: email, Role: models.RoleAdmin, IsMainAdmin: true}, nil
		},
		findByIDFn: func(_ context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, Email: "bob@example.com", Role: models.RoleMember}, nil
		},
		updateRoleByIDFn: func(_ context.Context, _ string, role models.UserRole) error {
			gotRole = role
			return nil
		},
	}

	svc := NewUserService(repo, nil, zap.NewNop())
	user, err := svc.PromoteAdmin(context.Background(), "main@example.com", "u-2")

	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, gotRole)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestUserServicePromoteAdminForbiddenForRegularAdmin(t *testing.T) {
	repo := &mockUserAdminRepo{
		findByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: "u-1", Email: email, Role: models.RoleAdmin, IsMainAdmin: false}, nil
		},
	}

	svc := NewUserService(repo, nil, zap.NewNop())
	_, err := svc.PromoteAdmin(context.Background(), "admin@example.com", "u-2")

	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestUserServiceDemoteMainAdminForbidden(t *testing.T) {
	repo := &mockUserAdminRepo{
		findByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: "u-main", Email: email, Role: models.RoleAdmin, IsMainAdmin: true}, nil
		},
		findByIDFn: func(_ context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, Email: "main@example.com", Role: models.RoleAdmin, IsMainAdmin: true}, nil
		},
	}

	svc := NewUserService(repo, nil, zap.NewNop())
	_, err := svc.DemoteAdmin(context.Background(), "main@example.com", "u-main")

	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestUserServiceRoleByEmailDefaultsToMember(t *testing.T) {
	repo := &mockUserAdminRepo{
		findByEmailFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, sql.ErrNoRows
		},
	}

	svc := NewUserService(repo, nil, zap.NewNop())
	role, err := svc.RoleByEmail(context.Background(), "ghost@example.com")

	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, role)
}
