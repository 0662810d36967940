package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fitify-app/fitify-api/internal/models"
	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
)

type bookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	ListByTrainer(ctx context.Context, trainerID string) ([]models.Booking, error)
	ListByMember(ctx context.Context, email string) ([]models.Booking, error)
	TotalBalance(ctx context.Context) (int64, error)
	LastPayments(ctx context.Context, limit int) ([]models.Booking, error)
	DistinctMemberCount(ctx context.Context) (int, error)
}

type bookingTrainerReader interface {
	FindByID(ctx context.Context, id string) (*models.Trainer, error)
}

type bookingClassWriter interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
	IncrementBooked(ctx context.Context, id string) error
}

type subscriptionCounter interface {
	Count(ctx context.Context) (int, error)
}

// CreateBookingRequest holds payload for recording a paid booking.
type CreateBookingRequest struct {
	TrainerID     string `json:"trainer_id" validate:"required"`
	ClassID       string `json:"class_id" validate:"required"`
	MemberEmail   string `json:"member_email" validate:"required,email"`
	SlotDay       string `json:"slot_day" validate:"required"`
	SlotLabel     string `json:"slot_label" validate:"required"`
	SlotTime      string `json:"slot_time" validate:"required"`
	AmountPaid    int64  `json:"amount_paid" validate:"required,gt=0"`
	TransactionID string `json:"transaction_id" validate:"required"`
}

// BookingService records paid slot reservations and powers the admin balance
// dashboard.
type BookingService struct {
	repo      bookingRepository
	trainers  bookingTrainerReader
	classes   bookingClassWriter
	subs      subscriptionCounter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(repo bookingRepository, trainers bookingTrainerReader, classes bookingClassWriter, subs subscriptionCounter, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{repo: repo, trainers: trainers, classes: classes, subs: subs, validator: validate, logger: logger}
}

// Create records a booking against an approved trainer's published slot and
// bumps the class popularity counter.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	day, err := models.ParseWeekday(req.SlotDay)
	if err != nil {
		return nil, err
	}

	trainer, err := s.trainers.FindByID(ctx, req.TrainerID)
	if err != nil {
		return nil, mapNotFound(err, "trainer not found")
	}
	if trainer.ApplicationStatus != models.StatusApproved {
		return nil, appErrors.Clone(appErrors.ErrConflict, "trainer is not accepting bookings")
	}
	times := trainer.StructuredSlots.TimesFor(day, req.SlotLabel)
	booked := false
	for _, t := range times {
		if t == req.SlotTime {
			booked = true
			break
		}
	}
	if !booked {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "time not found")
	}

	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		return nil, mapNotFound(err, "class not found")
	}

	booking := &models.Booking{
		TrainerID:     req.TrainerID,
		ClassID:       req.ClassID,
		MemberEmail:   strings.ToLower(strings.TrimSpace(req.MemberEmail)),
		SlotDay:       day,
		SlotLabel:     req.SlotLabel,
		SlotTime:      req.SlotTime,
		AmountPaid:    req.AmountPaid,
		TransactionID: req.TransactionID,
		PaymentTime:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record booking")
	}

	if err := s.classes.IncrementBooked(ctx, req.ClassID); err != nil {
		// the booking is already recorded; the popularity counter catches up
		// on the next booking of this class
		s.logger.Warn("failed to bump class booking counter",
			zap.String("class_id", req.ClassID), zap.Error(err))
	}
	return booking, nil
}

// ForTrainer lists bookings against one trainer.
func (s *BookingService) ForTrainer(ctx context.Context, trainerID string) ([]models.Booking, error) {
	bookings, err := s.repo.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	return bookings, nil
}

// ForMember lists a member's own bookings.
func (s *BookingService) ForMember(ctx context.Context, email string) ([]models.Booking, error) {
	bookings, err := s.repo.ListByMember(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	return bookings, nil
}

// BalanceOverview aggregates total revenue with the most recent payments.
func (s *BookingService) BalanceOverview(ctx context.Context, lastN int) (*models.BalanceOverview, error) {
	if lastN <= 0 {
		lastN = 6
	}

	total, err := s.repo.TotalBalance(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute balance")
	}
	payments, err := s.repo.LastPayments(ctx, lastN)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payments")
	}

	return &models.BalanceOverview{TotalBalance: total, LastPayments: payments}, nil
}

// MembershipStats compares newsletter subscribers against distinct paying
// members.
func (s *BookingService) MembershipStats(ctx context.Context) (*models.MembershipStats, error) {
	subscribers, err := s.subs.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count subscribers")
	}
	paid, err := s.repo.DistinctMemberCount(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count paying members")
	}
	return &models.MembershipStats{SubscriberCount: subscribers, PaidMemberCount: paid}, nil
}
