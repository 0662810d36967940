package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fitify-app/fitify-api/internal/models"
)

const trainerColumns = "id, email, full_name, profile_pic, expertise, application_status, rejection_feedback, structured_slots, joined_at, created_at, updated_at"

// TrainerRepository manages persistence for trainer applications.
type TrainerRepository struct {
	db *sqlx.DB
}

// NewTrainerRepository constructs a TrainerRepository.
func NewTrainerRepository(db *sqlx.DB) *TrainerRepository {
	return &TrainerRepository{db: db}
}

// FindByID fetches a trainer by ID.
func (r *TrainerRepository) FindByID(ctx context.Context, id string) (*models.Trainer, error) {
	query := fmt.Sprintf("SELECT %s FROM trainers WHERE id = $1", trainerColumns)
	var trainer models.Trainer
	if err := r.db.GetContext(ctx, &trainer, query, id); err != nil {
		return nil, err
	}
	return &trainer, nil
}

// FindByEmail fetches a trainer by email.
func (r *TrainerRepository) FindByEmail(ctx context.Context, email string) (*models.Trainer, error) {
	query := fmt.Sprintf("SELECT %s FROM trainers WHERE LOWER(email) = LOWER($1)", trainerColumns)
	var trainer models.Trainer
	if err := r.db.GetContext(ctx, &trainer, query, email); err != nil {
		return nil, err
	}
	return &trainer, nil
}

// ListByStatus returns trainers in the given application status, most recent
// applicants first.
func (r *TrainerRepository) ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.Trainer, error) {
	query := fmt.Sprintf("SELECT %s FROM trainers WHERE application_status = $1 ORDER BY joined_at DESC", trainerColumns)
	var trainers []models.Trainer
	if err := r.db.SelectContext(ctx, &trainers, query, status); err != nil {
		return nil, fmt.Errorf("list trainers by status: %w", err)
	}
	return trainers, nil
}

// List returns all trainers with pagination plus the total count.
func (r *TrainerRepository) List(ctx context.Context, page, pageSize int) ([]models.Trainer, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf("SELECT %s FROM trainers ORDER BY joined_at DESC LIMIT %d OFFSET %d", trainerColumns, pageSize, offset)
	var trainers []models.Trainer
	if err := r.db.SelectContext(ctx, &trainers, query); err != nil {
		return nil, 0, fmt.Errorf("list trainers: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM trainers"); err != nil {
		return nil, 0, fmt.Errorf("count trainers: %w", err)
	}
	return trainers, total, nil
}

// ListApplicationsByEmail returns a member's open or rejected applications.
func (r *TrainerRepository) ListApplicationsByEmail(ctx context.Context, email string) ([]models.Trainer, error) {
	query := fmt.Sprintf("SELECT %s FROM trainers WHERE LOWER(email) = LOWER($1) AND application_status IN ($2, $3)", trainerColumns)
	var trainers []models.Trainer
	if err := r.db.SelectContext(ctx, &trainers, query, email, models.StatusPending, models.StatusRejected); err != nil {
		return nil, fmt.Errorf("list applications by email: %w", err)
	}
	return trainers, nil
}

// Random samples up to limit trainers for landing-page teasers.
func (r *TrainerRepository) Random(ctx context.Context, limit int) ([]models.Trainer, error) {
	if limit <= 0 {
		limit = 3
	}
	query := fmt.Sprintf("SELECT %s FROM trainers WHERE application_status = $1 ORDER BY RANDOM() LIMIT %d", trainerColumns, limit)
	var trainers []models.Trainer
	if err := r.db.SelectContext(ctx, &trainers, query, models.StatusApproved); err != nil {
		return nil, fmt.Errorf("sample trainers: %w", err)
	}
	return trainers, nil
}

// ExistsByEmail reports whether a trainer record uses the email.
func (r *TrainerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM trainers WHERE LOWER(email) = LOWER($1) LIMIT 1", email)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check trainer email: %w", err)
	}
	return true, nil
}

// Create inserts a new trainer application.
func (r *TrainerRepository) Create(ctx context.Context, trainer *models.Trainer) error {
	if trainer.ID == "" {
		trainer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if trainer.JoinedAt.IsZero() {
		trainer.JoinedAt = now
	}
	if trainer.CreatedAt.IsZero() {
		trainer.CreatedAt = now
	}
	trainer.UpdatedAt = now
	if trainer.StructuredSlots == nil {
		trainer.StructuredSlots = models.StructuredSlots{}
	}

	const query = `INSERT INTO trainers (id, email, full_name, profile_pic, expertise, application_status, rejection_feedback, structured_slots, joined_at, created_at, updated_at)
		VALUES (:id, :email, :full_name, :profile_pic, :expertise, :application_status, :rejection_feedback, :structured_slots, :joined_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, trainer); err != nil {
		return fmt.Errorf("create trainer: %w", err)
	}
	return nil
}

// UpdateStatus writes the application status and rejection feedback in a
// single statement. A nil feedback clears the stored value.
func (r *TrainerRepository) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, feedback *string) error {
	const query = `UPDATE trainers SET application_status = $2, rejection_feedback = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, feedback, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update trainer status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateSlots replaces the whole structured_slots document for a trainer.
func (r *TrainerRepository) UpdateSlots(ctx context.Context, id string, slots models.StructuredSlots) error {
	const query = `UPDATE trainers SET structured_slots = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, slots, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update trainer slots: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
