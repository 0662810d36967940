package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fitify-app/fitify-api/internal/models"
	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
	"github.com/fitify-app/fitify-api/pkg/jobs"
)

const approvedTrainersCacheKey = "trainers:approved"

type trainerRepository interface {
	FindByID(ctx context.Context, id string) (*models.Trainer, error)
	FindByEmail(ctx context.Context, email string) (*models.Trainer, error)
	ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.Trainer, error)
	List(ctx context.Context, page, pageSize int) ([]models.Trainer, int, error)
	ListApplicationsByEmail(ctx context.Context, email string) ([]models.Trainer, error)
	Random(ctx context.Context, limit int) ([]models.Trainer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, trainer *models.Trainer) error
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, feedback *string) error
	UpdateSlots(ctx context.Context, id string, slots models.StructuredSlots) error
}

// roleSyncUserRepository is the single write path the trainer workflow is
// allowed to use on user accounts.
type roleSyncUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateRoleByEmail(ctx context.Context, email string, role models.UserRole) error
}

type trainerCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ApplyTrainerRequest represents payload for submitting a trainer application.
type ApplyTrainerRequest struct {
	Email      string   `json:"email" validate:"required,email"`
	FullName   string   `json:"full_name" validate:"required"`
	ProfilePic *string  `json:"profile_pic" validate:"omitempty,url"`
	Expertise  []string `json:"expertise" validate:"required,min=1,dive,required"`
}

// AddSlotRequest represents payload for merging availability into a trainer's
// slot tree.
type AddSlotRequest struct {
	Email string   `json:"email" validate:"required,email"`
	Day   string   `json:"day" validate:"required"`
	Label string   `json:"label" validate:"required"`
	Times []string `json:"times" validate:"required,min=1,dive,required"`
}

// RemoveSlotRequest addresses a single time entry by its natural key.
type RemoveSlotRequest struct {
	Day   string `json:"day" validate:"required"`
	Label string `json:"label" validate:"required"`
	Time  string `json:"time" validate:"required"`
}

// RejectTrainerRequest carries admin feedback on a rejected application.
type RejectTrainerRequest struct {
	Feedback string `json:"feedback" validate:"required"`
}

// TrainerService orchestrates the trainer application lifecycle: slot tree
// edits, status transitions, and the role synchronization that keeps the
// joined user account consistent with the application status. Status and role
// are never written from anywhere else.
type TrainerService struct {
	repo      trainerRepository
	users     roleSyncUserRepository
	cache     trainerCache
	validator *validator.Validate
	logger    *zap.Logger

	locks     keyedMutex
	reconcile *jobs.Queue
	cacheTTL  time.Duration
	metrics   *MetricsService
}

// TrainerQueueConfig tunes the asynchronous reconcile worker.
type TrainerQueueConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

// NewTrainerService constructs a TrainerService.
func NewTrainerService(repo trainerRepository, users roleSyncUserRepository, cache trainerCache, validate *validator.Validate, logger *zap.Logger, queueCfg TrainerQueueConfig, cacheTTL time.Duration) *TrainerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &TrainerService{
		repo:      repo,
		users:     users,
		cache:     cache,
		validator: validate,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
	s.reconcile = jobs.NewQueue("trainer-reconcile", s.handleReconcileJob, jobs.QueueConfig{
		Workers:    queueCfg.Workers,
		MaxRetries: queueCfg.Retries,
		RetryDelay: queueCfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// SetMetrics attaches instrumentation. Safe to leave unset in tests.
func (s *TrainerService) SetMetrics(m *MetricsService) {
	s.metrics = m
}

// Start launches the reconcile worker.
func (s *TrainerService) Start(ctx context.Context) {
	s.reconcile.Start(ctx)
}

// Stop drains the reconcile worker.
func (s *TrainerService) Stop() {
	s.reconcile.Stop()
}

// Apply submits a new trainer application. The record starts pending; the
// joined user account keeps its member role until an admin approves.
func (s *TrainerService) Apply(ctx context.Context, req ApplyTrainerRequest) (*models.Trainer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing application")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "an application for this email already exists")
	}

	trainer := &models.Trainer{
		Email:             email,
		FullName:          strings.TrimSpace(req.FullName),
		ProfilePic:        req.ProfilePic,
		Expertise:         req.Expertise,
		ApplicationStatus: models.StatusPending,
		StructuredSlots:   models.StructuredSlots{},
	}
	if err := s.repo.Create(ctx, trainer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create application")
	}
	return trainer, nil
}

// Get returns a trainer by id.
func (s *TrainerService) Get(ctx context.Context, id string) (*models.Trainer, error) {
	trainer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
	}
	return trainer, nil
}

// GetByEmail returns a trainer by email.
func (s *TrainerService) GetByEmail(ctx context.Context, email string) (*models.Trainer, error) {
	trainer, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
	}
	return trainer, nil
}

// List returns trainers plus pagination data.
func (s *TrainerService) List(ctx context.Context, page, pageSize int) ([]models.Trainer, *models.Pagination, error) {
	trainers, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trainers")
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return trainers, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// ListPending returns open applications, newest first.
func (s *TrainerService) ListPending(ctx context.Context) ([]models.Trainer, error) {
	trainers, err := s.repo.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending applications")
	}
	return trainers, nil
}

// ListApproved returns approved trainers, newest first. The list is cached
// because it backs several public pages.
func (s *TrainerService) ListApproved(ctx context.Context) ([]models.Trainer, error) {
	if s.cache != nil {
		var cached []models.Trainer
		if err := s.cache.Get(ctx, approvedTrainersCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("approved trainers cache read failed", zap.Error(err))
		}
	}

	trainers, err := s.repo.ListByStatus(ctx, models.StatusApproved)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list approved trainers")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, approvedTrainersCacheKey, trainers, s.cacheTTL); err != nil {
			s.logger.Warn("approved trainers cache write failed", zap.Error(err))
		}
	}
	return trainers, nil
}

// MyApplications returns a member's pending or rejected applications.
func (s *TrainerService) MyApplications(ctx context.Context, email string) ([]models.Trainer, error) {
	if strings.TrimSpace(email) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email is required")
	}
	trainers, err := s.repo.ListApplicationsByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return trainers, nil
}

// Random samples approved trainers for landing-page teasers.
func (s *TrainerService) Random(ctx context.Context, limit int) ([]models.Trainer, error) {
	trainers, err := s.repo.Random(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sample trainers")
	}
	return trainers, nil
}

// Approve moves an application to approved and promotes the joined user
// account to the trainer role.
func (s *TrainerService) Approve(ctx context.Context, id string) (*models.TransitionResult, error) {
	return s.transition(ctx, id, models.TransitionApprove, nil)
}

// Reject moves a pending application to rejected and stores the admin
// feedback. The user role is untouched.
func (s *TrainerService) Reject(ctx context.Context, id string, req RejectTrainerRequest) (*models.TransitionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "rejection feedback is required")
	}
	feedback := strings.TrimSpace(req.Feedback)
	return s.transition(ctx, id, models.TransitionReject, &feedback)
}

// Demote moves an approved trainer back to pending and returns the joined
// user account to the member role. Stale rejection feedback is cleared.
func (s *TrainerService) Demote(ctx context.Context, id string) (*models.TransitionResult, error) {
	return s.transition(ctx, id, models.TransitionDemote, nil)
}

// transition runs the two ordered writes behind every lifecycle change: the
// trainer status commits first, then the user role is synchronized. A failed
// role sync never rolls the status back; it is logged, queued for reconcile,
// and reported through RoleSynced=false.
func (s *TrainerService) transition(ctx context.Context, id string, action models.Transition, feedback *string) (*models.TransitionResult, error) {
	peek, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(strings.ToLower(peek.Email))
	defer unlock()

	trainer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, changed, err := trainer.ApplicationStatus.Next(action)
	if err != nil {
		return nil, err
	}
	if !changed && action != models.TransitionReject {
		// idempotent re-application, nothing to write
		return &models.TransitionResult{Trainer: trainer, RoleSynced: true}, nil
	}

	if action != models.TransitionReject {
		feedback = nil
	}
	if err := s.repo.UpdateStatus(ctx, trainer.ID, next, feedback); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application status")
	}
	trainer.ApplicationStatus = next
	trainer.RejectionFeedback = feedback

	s.invalidateTrainerCaches(ctx)

	synced := true
	if action != models.TransitionReject {
		synced = s.syncRole(ctx, trainer.Email, next.RoleFor())
	}
	return &models.TransitionResult{Trainer: trainer, RoleSynced: synced}, nil
}

// syncRole applies the role implied by the new status. Returns false when the
// write did not land; drift is repaired via the reconcile queue.
func (s *TrainerService) syncRole(ctx context.Context, email string, role models.UserRole) bool {
	err := s.users.UpdateRoleByEmail(ctx, email, role)
	if err == nil {
		return true
	}

	if errors.Is(err, sql.ErrNoRows) {
		// trainer applied before ever registering an account; the role will
		// be derived from the application status once reconcile finds a user
		s.logger.Warn("role sync skipped, no user account for trainer email",
			zap.String("email", email), zap.String("role", string(role)))
		return false
	}

	s.logger.Error("role sync failed, scheduling reconcile",
		zap.String("email", email), zap.String("role", string(role)), zap.Error(err))
	if qErr := s.reconcile.Enqueue(jobs.Job{Type: "reconcile", Payload: email}); qErr != nil {
		s.logger.Error("failed to enqueue reconcile", zap.String("email", email), zap.Error(qErr))
	}
	return false
}

// Reconcile re-derives the user role from the trainer's current application
// status. It is idempotent and safe to run at any time; admin accounts are
// never downgraded.
func (s *TrainerService) Reconcile(ctx context.Context, email string) error {
	trainer, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if user.Role == models.RoleAdmin {
		return nil
	}

	desired := trainer.ApplicationStatus.RoleFor()
	if user.Role == desired {
		return nil
	}

	if err := s.users.UpdateRoleByEmail(ctx, email, desired); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to repair user role")
	}
	s.metrics.RecordRoleRepair()
	s.logger.Info("repaired role drift",
		zap.String("email", email),
		zap.String("status", string(trainer.ApplicationStatus)),
		zap.String("role", string(desired)))
	return nil
}

func (s *TrainerService) handleReconcileJob(ctx context.Context, job jobs.Job) error {
	email, ok := job.Payload.(string)
	if !ok {
		s.logger.Error("reconcile job with unexpected payload", zap.Any("payload", job.Payload))
		return nil
	}
	err := s.Reconcile(ctx, email)
	if errors.Is(err, appErrors.ErrNotFound) {
		// nothing to converge yet; next transition or manual reconcile retries
		return nil
	}
	return err
}

// AddSlot merges a labeled time set into the trainer's availability tree and
// writes the whole document back. Mutations for the same email are serialized.
func (s *TrainerService) AddSlot(ctx context.Context, req AddSlotRequest) (models.StructuredSlots, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	day, err := models.ParseWeekday(req.Day)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	unlock := s.locks.Lock(email)
	defer unlock()

	trainer, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	updated, err := trainer.StructuredSlots.Add(day, req.Label, req.Times)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateSlots(ctx, trainer.ID, updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store slots")
	}
	return updated, nil
}

// RemoveSlot deletes one time entry addressed by (day, label, time), pruning
// emptied slot groups and day blocks. A non-empty actorEmail restricts the
// edit to the trainer's own record; admins pass an empty actor.
func (s *TrainerService) RemoveSlot(ctx context.Context, trainerID, actorEmail string, req RemoveSlotRequest) (models.StructuredSlots, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	day, err := models.ParseWeekday(req.Day)
	if err != nil {
		return nil, err
	}

	peek, err := s.Get(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if actorEmail != "" && !strings.EqualFold(actorEmail, peek.Email) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot edit another trainer's slots")
	}

	unlock := s.locks.Lock(strings.ToLower(peek.Email))
	defer unlock()

	trainer, err := s.Get(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	updated, err := trainer.StructuredSlots.Remove(day, req.Label, req.Time)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateSlots(ctx, trainer.ID, updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store slots")
	}
	return updated, nil
}

func (s *TrainerService) invalidateTrainerCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "trainers:*"); err != nil {
		s.logger.Warn("failed to invalidate trainer caches", zap.Error(err))
	}
}
