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

// ReviewRepository manages persistence for trainer reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository constructs a ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// List returns reviews, newest first.
func (r *ReviewRepository) List(ctx context.Context) ([]models.Review, error) {
	const query = `SELECT id, trainer_id, reviewer_email, reviewer_name, rating, comment, reviewed_at FROM reviews ORDER BY reviewed_at DESC`
	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, query); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.ReviewedAt.IsZero() {
		review.ReviewedAt = time.Now().UTC()
	}
	const query = `INSERT INTO reviews (id, trainer_id, reviewer_email, reviewer_name, rating, comment, reviewed_at)
		VALUES (:id, :trainer_id, :reviewer_email, :reviewer_name, :rating, :comment, :reviewed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// SubscriptionRepository manages persistence for newsletter signups.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository constructs a SubscriptionRepository.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// List returns subscriptions, newest first.
func (r *SubscriptionRepository) List(ctx context.Context) ([]models.Subscription, error) {
	const query = `SELECT id, name, email, subscribed_at FROM subscriptions ORDER BY subscribed_at DESC`
	var subs []models.Subscription
	if err := r.db.SelectContext(ctx, &subs, query); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// Count returns the subscriber total.
func (r *SubscriptionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM subscriptions"); err != nil {
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}
	return count, nil
}

// ExistsByEmail reports whether the email is already subscribed.
func (r *SubscriptionRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM subscriptions WHERE LOWER(email) = LOWER($1) LIMIT 1", email)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subscription email: %w", err)
	}
	return true, nil
}

// Create inserts a new subscription.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.SubscribedAt.IsZero() {
		sub.SubscribedAt = time.Now().UTC()
	}
	const query = `INSERT INTO subscriptions (id, name, email, subscribed_at) VALUES (:id, :name, :email, :subscribed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}
