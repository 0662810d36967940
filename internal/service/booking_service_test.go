package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitify-app/fitify-api/internal/models"
	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
)

type mockBookingRepo struct {
	createFn       func(ctx context.Context, booking *models.Booking) error
	totalBalanceFn func(ctx context.Context) (int64, error)
	lastPaymentsFn func(ctx context.Context, limit int) ([]models.Booking, error)
	memberCountFn  func(ctx context.Context) (int, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	return m.createFn(ctx, booking)
}

func (m *mockBookingRepo) ListByTrainer(ctx context.Context, trainerID string) ([]models.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepo) ListByMember(ctx context.Context, email string) ([]models.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepo) TotalBalance(ctx context.Context) (int64, error) {
	return m.totalBalanceFn(ctx)
}

func (m *mockBookingRepo) LastPayments(ctx context.Context, limit int) ([]models.Booking, error) {
	return m.lastPaymentsFn(ctx, limit)
}

func (m *mockBookingRepo) DistinctMemberCount(ctx context.Context) (int, error) {
	return m.memberCountFn(ctx)
}

type mockTrainerReader struct {
	findByIDFn func(ctx context.Context, id string) (*models.Trainer, error)
}

func (m *mockTrainerReader) FindByID(ctx context.Context, id string) (*models.Trainer, error) {
	return m.findByIDFn(ctx, id)
}

type mockClassWriter struct {
	findByIDFn        func(ctx context.Context, id string) (*models.Class, error)
	incrementBookedFn func(ctx context.Context, id string) error
}

func (m *mockClassWriter) FindByID(ctx context.Context, id string) (*models.Class, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockClassWriter) IncrementBooked(ctx context.Context, id string) error {
	return m.incrementBookedFn(ctx, id)
}

type mockSubCounter struct {
	countFn func(ctx context.Context) (int, error)
}

func (m *mockSubCounter) Count(ctx context.Context) (int, error) {
	return m.countFn(ctx)
}

func bookableTrainer() *models.Trainer {
	slots, _ := models.StructuredSlots{}.Add(models.Monday, "morning", []string{"08:00"})
	return &models.Trainer{
		ID:                "t-1",
		Email:             "ana@example.com",
		ApplicationStatus: models.StatusApproved,
		StructuredSlots:   slots,
	}
}

func validBookingRequest() CreateBookingRequest {
	return CreateBookingRequest{
		TrainerID:     "t-1",
		ClassID:       "c-1",
		MemberEmail:   "Bob@Example.com",
		SlotDay:       "Monday",
		SlotLabel:     "morning",
		SlotTime:      "08:00",
		AmountPaid:    4900,
		TransactionID: "txn-1",
	}
}

func TestBookingServiceCreate(t *testing.T) {
	var created *models.Booking
	incremented := false

	repo := &mockBookingRepo{
		createFn: func(_ context.Context, booking *models.Booking) error {
			created = booking
			return nil
		},
	}
	trainers := &mockTrainerReader{
		findByIDFn: func(_ context.Context, _ string) (*models.Trainer, error) {
			return bookableTrainer(), nil
		},
	}
	classes := &mockClassWriter{
		findByIDFn: func(_ context.Context, _ string) (*models.Class, error) {
			return &models.Class{ID: "c-1", Name: "Power Yoga"}, nil
		},
		incrementBookedFn: func(_ context.Context, id string) error {
			assert.Equal(t, "c-1", id)
			incremented = true
			return nil
		},
	}

	svc := NewBookingService(repo, trainers, classes, &mockSubCounter{}, nil, zap.NewNop())
	booking, err := svc.Create(context.Background(), validBookingRequest())

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, incremented)
	assert.Equal(t, "bob@example.com", booking.MemberEmail)
	assert.Equal(t, models.Monday, booking.SlotDay)
	assert.False(t, booking.PaymentTime.IsZero())
}

func TestBookingServiceCreateUnpublishedSlot(t *testing.T) {
	trainers := &mockTrainerReader{
		findByIDFn: func(_ context.Context, _ string) (*models.Trainer, error) {
			return bookableTrainer(), nil
		},
	}

	svc := NewBookingService(&mockBookingRepo{}, trainers, &mockClassWriter{}, &mockSubCounter{}, nil, zap.NewNop())
	req := validBookingRequest()
	req.SlotTime = "21:00"
	_, err := svc.Create(context.Background(), req)

	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestBookingServiceCreatePendingTrainerConflicts(t *testing.T) {
	trainers := &mockTrainerReader{
		findByIDFn: func(_ context.Context, _ string) (*models.Trainer, error) {
			trainer := bookableTrainer()
			trainer.ApplicationStatus = models.StatusPending
			return trainer, nil
		},
	}

	svc := NewBookingService(&mockBookingRepo{}, trainers, &mockClassWriter{}, &mockSubCounter{}, nil, zap.NewNop())
	_, err := svc.Create(context.Background(), validBookingRequest())

	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestBookingServiceBalanceOverview(t *testing.T) {
	repo := &mockBookingRepo{
		totalBalanceFn: func(_ context.Context) (int64, error) {
			return 12300, nil
		},
		lastPaymentsFn: func(_ context.Context, limit int) ([]models.Booking, error) {
			assert.Equal(t, 6, limit)
			return []models.Booking{{ID: "b-1", AmountPaid: 4900}}, nil
		},
	}

	svc := NewBookingService(repo, &mockTrainerReader{}, &mockClassWriter{}, &mockSubCounter{}, nil, zap.NewNop())
	overview, err := svc.BalanceOverview(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, int64(12300), overview.TotalBalance)
	assert.Len(t, overview.LastPayments, 1)
}

func TestBookingServiceMembershipStats(t *testing.T) {
	repo := &mockBookingRepo{
		memberCountFn: func(_ context.Context) (int, error) {
			return 4, nil
		},
	}
	subs := &mockSubCounter{
		countFn: func(_ context.Context) (int, error) {
			return 10, nil
		},
	}

	svc := NewBookingService(repo, &mockTrainerReader{}, &mockClassWriter{}, subs, nil, zap.NewNop())
	stats, err := svc.MembershipStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 10, stats.SubscriberCount)
	assert.Equal(t, 4, stats.PaidMemberCount)
}
