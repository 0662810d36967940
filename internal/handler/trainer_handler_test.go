package handler

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitify-app/fitify-api/internal/middleware"
	"github.com/fitify-app/fitify-api/internal/models"
	"github.com/fitify-app/fitify-api/internal/service"
)

type trainerRepoStub struct {
	trainer   *models.Trainer
	statusSet models.ApplicationStatus
}

func (s *trainerRepoStub) FindByID(ctx context.Context, id string) (*models.Trainer, error) {
	if s.trainer == nil || s.trainer.ID != id {
		return nil, sql.ErrNoRows
	}
	copy := *s.trainer
	return &copy, nil
}

func (s *trainerRepoStub) FindByEmail(ctx context.Context, email string) (*models.Trainer, error) {
	if s.trainer == nil || s.trainer.Email != email {
		return nil, sql.ErrNoRows
	}
	copy := *s.trainer
	return &copy, nil
}

func (s *trainerRepoStub) ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.Trainer, error) {
	return nil, nil
}

func (s *trainerRepoStub) List(ctx context.Context, page, pageSize int) ([]models.Trainer, int, error) {
	return nil, 0, nil
}

func (s *trainerRepoStub) ListApplicationsByEmail(ctx context.Context, email string) ([]models.Trainer, error) {
	return nil, nil
}

func (s *trainerRepoStub) Random(ctx context.Context, limit int) ([]models.Trainer, error) {
	return nil, nil
}

func (s *trainerRepoStub) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.trainer != nil && s.trainer.Email == email, nil
}

func (s *trainerRepoStub) Create(ctx context.Context, trainer *models.Trainer) error {
	trainer.ID = "t-new"
	s.trainer = trainer
	return nil
}

func (s *trainerRepoStub) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, feedback *string) error {
	s.statusSet = status
	s.trainer.ApplicationStatus = status
	s.trainer.RejectionFeedback = feedback
	return nil
}

func (s *trainerRepoStub) UpdateSlots(ctx context.Context, id string, slots models.StructuredSlots) error {
	s.trainer.StructuredSlots = slots
	return nil
}

type userRepoStub struct {
	role       models.UserRole
	roleWrites int
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return &models.User{Email: email, Role: s.role}, nil
}

func (s *userRepoStub) UpdateRoleByEmail(ctx context.Context, email string, role models.UserRole) error {
	s.role = role
	s.roleWrites++
	return nil
}

func newTrainerHandlerFixture(t *testing.T) (*TrainerHandler, *trainerRepoStub, *userRepoStub) {
	t.Helper()
	repo := &trainerRepoStub{
		trainer: &models.Trainer{
			ID:                "t-1",
			Email:             "ana@example.com",
			FullName:          "Ana Silva",
			Expertise:         []string{"yoga"},
			ApplicationStatus: models.StatusPending,
			StructuredSlots:   models.StructuredSlots{},
		},
	}
	users := &userRepoStub{role: models.RoleMember}
	svc := service.NewTrainerService(repo, users, nil, nil, zap.NewNop(), service.TrainerQueueConfig{}, time.Minute)
	return NewTrainerHandler(svc), repo, users
}

func TestTrainerHandlerApprove(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo, users := newTrainerHandlerFixture(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/trainers/t-1/approve", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "t-1"}}

	handler.Approve(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusApproved, repo.statusSet)
	assert.Equal(t, models.RoleTrainer, users.role)
	assert.Contains(t, w.Body.String(), `"role_synced":true`)
}

func TestTrainerHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := newTrainerHandlerFixture(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/trainers/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrainerHandlerApplyInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := newTrainerHandlerFixture(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/trainers/apply", bytes.NewBufferString(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Apply(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrainerHandlerAddSlotUsesTokenEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo, _ := newTrainerHandlerFixture(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := bytes.NewBufferString(`{"email":"other@example.com","day":"Monday","label":"morning","times":["08:00"]}`)
	req, _ := http.NewRequest(http.MethodPost, "/trainers/slots", body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Email: "ana@example.com", Role: models.RoleTrainer})

	handler.AddSlot(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"08:00"}, repo.trainer.StructuredSlots.TimesFor(models.Monday, "morning"))
}

func TestTrainerHandlerRemoveSlotForeignTrainer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo, _ := newTrainerHandlerFixture(t)
	slots, err := models.StructuredSlots{}.Add(models.Monday, "morning", []string{"08:00"})
	require.NoError(t, err)
	repo.trainer.StructuredSlots = slots

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := bytes.NewBufferString(`{"day":"Monday","label":"morning","time":"08:00"}`)
	req, _ := http.NewRequest(http.MethodDelete, "/trainers/t-1/slots", body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "t-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Email: "rui@example.com", Role: models.RoleTrainer})

	handler.RemoveSlot(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, []string{"08:00"}, repo.trainer.StructuredSlots.TimesFor(models.Monday, "morning"))
}

func TestTrainerHandlerRemoveSlotMissingTime(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo, _ := newTrainerHandlerFixture(t)
	slots, err := models.StructuredSlots{}.Add(models.Monday, "morning", []string{"08:00"})
	require.NoError(t, err)
	repo.trainer.StructuredSlots = slots

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := bytes.NewBufferString(`{"day":"Monday","label":"morning","time":"10:00"}`)
	req, _ := http.NewRequest(http.MethodDelete, "/trainers/t-1/slots", body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "t-1"}}

	handler.RemoveSlot(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "time not found")
}
