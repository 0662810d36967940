package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fitify-app/fitify-api/internal/models"
	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
)

const featuredClassesCacheKey = "classes:featured"

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error)
	Featured(ctx context.Context, limit int) ([]models.Class, error)
	MatchingCategories(ctx context.Context, categories []string) ([]models.Class, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
}

type classCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateClassRequest holds payload for adding a class.
type CreateClassRequest struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Image       *string `json:"image" validate:"omitempty,url"`
}

// ClassService manages the class catalogue.
type ClassService struct {
	repo      classRepository
	cache     classCache
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, cache classCache, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, cache: cache, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// List returns classes plus pagination data.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 6
	}

	classes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Featured returns the most-booked classes, served from cache when warm.
func (s *ClassService) Featured(ctx context.Context, limit int) ([]models.Class, error) {
	if limit <= 0 {
		limit = 6
	}

	if s.cache != nil {
		var cached []models.Class
		if err := s.cache.Get(ctx, featuredClassesCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("featured classes cache read failed", zap.Error(err))
		}
	}

	classes, err := s.repo.Featured(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load featured classes")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, featuredClassesCacheKey, classes, s.cacheTTL); err != nil {
			s.logger.Warn("featured classes cache write failed", zap.Error(err))
		}
	}
	return classes, nil
}

// ForTrainer returns classes whose category matches one of the trainer's
// areas of expertise.
func (s *ClassService) ForTrainer(ctx context.Context, expertise []string) ([]models.Class, error) {
	if len(expertise) == 0 {
		return []models.Class{}, nil
	}
	classes, err := s.repo.MatchingCategories(ctx, expertise)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to match classes")
	}
	return classes, nil
}

// Get returns a class by id.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Create adds a class to the catalogue and invalidates the featured cache.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class := &models.Class{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "classes:*"); err != nil {
			s.logger.Warn("failed to invalidate class caches", zap.Error(err))
		}
	}
	return class, nil
}
