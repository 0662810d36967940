package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/fitify-app/fitify-api/internal/models"
	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
)

type forumRepository interface {
	List(ctx context.Context, filter models.ForumFilter) ([]models.ForumPost, int, error)
	Latest(ctx context.Context, limit int) ([]models.ForumPost, error)
	FindByID(ctx context.Context, id string) (*models.ForumPost, error)
	Create(ctx context.Context, post *models.ForumPost) error
	SetVotes(ctx context.Context, id string, upVotes, downVotes pq.StringArray) error
}

// CreateForumPostRequest holds payload for publishing a community post.
type CreateForumPostRequest struct {
	Title       string          `json:"title" validate:"required"`
	Content     string          `json:"content" validate:"required"`
	AuthorEmail string          `json:"author_email" validate:"required,email"`
	AuthorRole  models.UserRole `json:"author_role" validate:"required,oneof=member trainer admin"`
}

// VoteRequest holds payload for casting or retracting a vote.
type VoteRequest struct {
	VoterEmail string          `json:"voter_email" validate:"required,email"`
	Vote       models.VoteType `json:"vote" validate:"required,oneof=up down remove"`
}

// ForumService manages community posts and their voting state.
type ForumService struct {
	repo      forumRepository
	validator *validator.Validate
	logger    *zap.Logger
	locks     keyedMutex
}

// NewForumService constructs a ForumService.
func NewForumService(repo forumRepository, validate *validator.Validate, logger *zap.Logger) *ForumService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ForumService{repo: repo, validator: validate, logger: logger}
}

// List returns forum posts plus pagination data.
func (s *ForumService) List(ctx context.Context, filter models.ForumFilter) ([]models.ForumPost, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 6
	}

	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list posts")
	}
	return posts, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Latest returns the most recent posts for the landing page.
func (s *ForumService) Latest(ctx context.Context, limit int) ([]models.ForumPost, error) {
	if limit <= 0 {
		limit = 6
	}
	posts, err := s.repo.Latest(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load posts")
	}
	return posts, nil
}

// Get returns a post by id.
func (s *ForumService) Get(ctx context.Context, id string) (*models.ForumPost, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "post not found")
	}
	return post, nil
}

// Create publishes a new post with empty vote sets.
func (s *ForumService) Create(ctx context.Context, req CreateForumPostRequest) (*models.ForumPost, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid post payload")
	}

	post := &models.ForumPost{
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		AuthorEmail: strings.ToLower(strings.TrimSpace(req.AuthorEmail)),
		AuthorRole:  req.AuthorRole,
		UpVotes:     pq.StringArray{},
		DownVotes:   pq.StringArray{},
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create post")
	}
	return post, nil
}

// Vote applies one member's voting action to a post. A voter appears in at
// most one of the two vote sets; re-casting the same vote is a no-op and
// "remove" clears the voter from both sets. Votes on the same post are
// serialized so concurrent casts cannot drop each other.
func (s *ForumService) Vote(ctx context.Context, postID string, req VoteRequest) (*models.ForumPost, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vote payload")
	}

	unlock := s.locks.Lock(postID)
	defer unlock()

	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	voter := strings.ToLower(strings.TrimSpace(req.VoterEmail))
	up := removeVoter(post.UpVotes, voter)
	down := removeVoter(post.DownVotes, voter)

	switch req.Vote {
	case models.VoteUp:
		up = append(up, voter)
	case models.VoteDown:
		down = append(down, voter)
	case models.VoteRemove:
		// voter already cleared from both sets
	}

	if err := s.repo.SetVotes(ctx, postID, up, down); err != nil {
		return nil, mapNotFound(err, "post not found")
	}

	post.UpVotes = up
	post.DownVotes = down
	return post, nil
}

func removeVoter(votes pq.StringArray, voter string) pq.StringArray {
	out := make(pq.StringArray, 0, len(votes))
	for _, v := range votes {
		if v != voter {
			out = append(out, v)
		}
	}
	return out
}
