package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fitify-app/fitify-api/internal/models"
)

const classColumns = "id, name, category, description, image, booked_count, created_at"

// ClassRepository manages persistence for fitness classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes with pagination plus the total count.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 6
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM classes ORDER BY created_at DESC LIMIT %d OFFSET %d", classColumns, size, offset)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM classes"); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}
	return classes, total, nil
}

// Featured returns the most-booked classes.
func (r *ClassRepository) Featured(ctx context.Context, limit int) ([]models.Class, error) {
	if limit <= 0 {
		limit = 6
	}
	query := fmt.Sprintf("SELECT %s FROM classes ORDER BY booked_count DESC LIMIT %d", classColumns, limit)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("featured classes: %w", err)
	}
	return classes, nil
}

// MatchingCategories returns classes whose category is in the given set.
func (r *ClassRepository) MatchingCategories(ctx context.Context, categories []string) ([]models.Class, error) {
	if len(categories) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM classes WHERE category = ANY($1)", classColumns)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, pq.Array(categories)); err != nil {
		return nil, fmt.Errorf("match classes: %w", err)
	}
	return classes, nil
}

// FindByID fetches a class by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE id = $1", classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	if class.CreatedAt.IsZero() {
		class.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO classes (id, name, category, description, image, booked_count, created_at)
		VALUES (:id, :name, :category, :description, :image, :booked_count, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// IncrementBooked bumps the booked counter for a class.
func (r *ClassRepository) IncrementBooked(ctx context.Context, id string) error {
	const query = `UPDATE classes SET booked_count = booked_count + 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("increment booked count: %w", err)
	}
	return nil
}
