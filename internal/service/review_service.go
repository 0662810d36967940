package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fitify-app/fitify-api/internal/models"
	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
)

type reviewRepository interface {
	List(ctx context.Context) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) error
}

type reviewTrainerReader interface {
	FindByID(ctx context.Context, id string) (*models.Trainer, error)
}

// CreateReviewRequest holds payload for reviewing a trainer.
type CreateReviewRequest struct {
	TrainerID     string `json:"trainer_id" validate:"required"`
	ReviewerEmail string `json:"reviewer_email" validate:"required,email"`
	ReviewerName  string `json:"reviewer_name" validate:"required"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Comment       string `json:"comment" validate:"required"`
}

// ReviewService manages trainer reviews.
type ReviewService struct {
	repo      reviewRepository
	trainers  reviewTrainerReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReviewService constructs a ReviewService.
func NewReviewService(repo reviewRepository, trainers reviewTrainerReader, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{repo: repo, trainers: trainers, validator: validate, logger: logger}
}

// List returns all reviews, newest first.
func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	reviews, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	return reviews, nil
}

// Create stores a review against an existing trainer.
func (s *ReviewService) Create(ctx context.Context, req CreateReviewRequest) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	if _, err := s.trainers.FindByID(ctx, req.TrainerID); err != nil {
		return nil, mapNotFound(err, "trainer not found")
	}

	review := &models.Review{
		TrainerID:     req.TrainerID,
		ReviewerEmail: strings.ToLower(strings.TrimSpace(req.ReviewerEmail)),
		ReviewerName:  strings.TrimSpace(req.ReviewerName),
		Rating:        req.Rating,
		Comment:       req.Comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create review")
	}
	return review, nil
}
