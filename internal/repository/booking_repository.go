package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fitify-app/fitify-api/internal/models"
)

const bookingColumns = "id, trainer_id, class_id, member_email, slot_day, slot_label, slot_time, amount_paid, transaction_id, payment_time, created_at"

// BookingRepository manages persistence for slot bookings.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	if booking.PaymentTime.IsZero() {
		booking.PaymentTime = now
	}
	const query = `INSERT INTO bookings (id, trainer_id, class_id, member_email, slot_day, slot_label, slot_time, amount_paid, transaction_id, payment_time, created_at)
		VALUES (:id, :trainer_id, :class_id, :member_email, :slot_day, :slot_label, :slot_time, :amount_paid, :transaction_id, :payment_time, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// ListByTrainer returns bookings taken against one trainer.
func (r *BookingRepository) ListByTrainer(ctx context.Context, trainerID string) ([]models.Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE trainer_id = $1 ORDER BY payment_time DESC", bookingColumns)
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, trainerID); err != nil {
		return nil, fmt.Errorf("list bookings by trainer: %w", err)
	}
	return bookings, nil
}

// ListByMember returns a member's bookings, most recent payment first.
func (r *BookingRepository) ListByMember(ctx context.Context, email string) ([]models.Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE LOWER(member_email) = LOWER($1) ORDER BY payment_time DESC", bookingColumns)
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, email); err != nil {
		return nil, fmt.Errorf("list bookings by member: %w", err)
	}
	return bookings, nil
}

// TotalBalance sums all recorded payments.
func (r *BookingRepository) TotalBalance(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COALESCE(SUM(amount_paid), 0) FROM bookings"); err != nil {
		return 0, fmt.Errorf("total balance: %w", err)
	}
	return total, nil
}

// LastPayments returns the most recent bookings.
func (r *BookingRepository) LastPayments(ctx context.Context, limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 6
	}
	query := fmt.Sprintf("SELECT %s FROM bookings ORDER BY payment_time DESC LIMIT %d", bookingColumns, limit)
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query); err != nil {
		return nil, fmt.Errorf("last payments: %w", err)
	}
	return bookings, nil
}

// DistinctMemberCount counts unique paying members.
func (r *BookingRepository) DistinctMemberCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(DISTINCT LOWER(member_email)) FROM bookings"); err != nil {
		return 0, fmt.Errorf("distinct member count: %w", err)
	}
	return count, nil
}
