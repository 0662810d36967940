package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fitify-app/fitify-api/internal/models"
	"github.com/fitify-app/fitify-api/pkg/config"
	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
)

type mockAuthUserRepo struct {
	findByEmailFn func(ctx context.Context, email string) (*models.User, error)
	createFn      func(ctx context.Context, user *models.User) error
}

func (m *mockAuthUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findByEmailFn(ctx, email)
}

func (m *mockAuthUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.createFn(ctx, user)
}

func (m *mockAuthUserRepo) UpdateLastLogin(ctx context.Context, email string, ts time.Time) error {
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "fitify-api"}
}

func TestAuthServiceLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2-hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockAuthUserRepo{
		findByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: "u-1", Email: email, PasswordHash: string(hash), FullName: "Bob", Role: models.RoleMember}, nil
		},
	}

	svc := NewAuthService(repo, nil, zap.NewNop(), testJWTConfig())
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "bob@example.com", Password: "hunter2-hunter2"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bob@example.com", resp.User.Email)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleMember, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockAuthUserRepo{
		findByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: "u-1", Email: email, PasswordHash: string(hash)}, nil
		},
	}

	svc := NewAuthService(repo, nil, zap.NewNop(), testJWTConfig())
	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "bob@example.com", Password: "wrong-password"})

	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	repo := &mockAuthUserRepo{
		findByEmailFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, sql.ErrNoRows
		},
	}

	svc := NewAuthService(repo, nil, zap.NewNop(), testJWTConfig())
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "whatever1"})

	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceSocialLoginCreatesAccount(t *testing.T) {
	var created *models.User
	repo := &mockAuthUserRepo{
		findByEmailFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, sql.ErrNoRows
		},
		createFn: func(_ context.Context, user *models.User) error {
			created = user
			return nil
		},
	}

	svc := NewAuthService(repo, nil, zap.NewNop(), testJWTConfig())
	resp, err := svc.SocialLogin(context.Background(), SocialLoginRequest{Email: "Ana@Example.com", FullName: "Ana Silva"})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "ana@example.com", created.Email)
	assert.Equal(t, models.RoleMember, created.Role)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestAuthServiceSocialLoginKeepsExistingRole(t *testing.T) {
	repo := &mockAuthUserRepo{
		findByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: "u-1", Email: email, FullName: "Ana Silva", Role: models.RoleTrainer}, nil
		},
		createFn: func(_ context.Context, _ *models.User) error {
			t.Fatal("no account creation expected for a known email")
			return nil
		},
	}

	svc := NewAuthService(repo, nil, zap.NewNop(), testJWTConfig())
	resp, err := svc.SocialLogin(context.Background(), SocialLoginRequest{Email: "ana@example.com", FullName: "Ana Silva"})

	require.NoError(t, err)
	assert.Equal(t, models.RoleTrainer, resp.User.Role)
}

func TestAuthServiceValidateTokenBadSecret(t *testing.T) {
	svc := NewAuthService(&mockAuthUserRepo{}, nil, zap.NewNop(), testJWTConfig())

	other := NewAuthService(&mockAuthUserRepo{
		findByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: "u-1", Email: email, FullName: "Bob", Role: models.RoleMember}, nil
		},
	}, nil, zap.NewNop(), config.JWTConfig{Secret: "other-secret", Expiration: time.Hour, Issuer: "fitify-api"})

	resp, err := other.SocialLogin(context.Background(), SocialLoginRequest{Email: "bob@example.com", FullName: "Bob"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
