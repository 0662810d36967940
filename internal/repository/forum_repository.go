package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fitify-app/fitify-api/internal/models"
)

const forumColumns = "id, title, content, author_email, author_role, up_votes, down_votes, added_at"

// ForumRepository manages persistence for community posts.
type ForumRepository struct {
	db *sqlx.DB
}

// NewForumRepository constructs a ForumRepository.
func NewForumRepository(db *sqlx.DB) *ForumRepository {
	return &ForumRepository{db: db}
}

// List returns forum posts with pagination plus the total count.
func (r *ForumRepository) List(ctx context.Context, filter models.ForumFilter) ([]models.ForumPost, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 10
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM forums ORDER BY added_at DESC LIMIT %d OFFSET %d", forumColumns, size, offset)
	var posts []models.ForumPost
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, 0, fmt.Errorf("list forums: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM forums"); err != nil {
		return nil, 0, fmt.Errorf("count forums: %w", err)
	}
	return posts, total, nil
}

// Latest returns the newest posts.
func (r *ForumRepository) Latest(ctx context.Context, limit int) ([]models.ForumPost, error) {
	if limit <= 0 {
		limit = 6
	}
	query := fmt.Sprintf("SELECT %s FROM forums ORDER BY added_at DESC LIMIT %d", forumColumns, limit)
	var posts []models.ForumPost
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("latest forums: %w", err)
	}
	return posts, nil
}

// FindByID fetches a post by ID.
func (r *ForumRepository) FindByID(ctx context.Context, id string) (*models.ForumPost, error) {
	query := fmt.Sprintf("SELECT %s FROM forums WHERE id = $1", forumColumns)
	var post models.ForumPost
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts a new post.
func (r *ForumRepository) Create(ctx context.Context, post *models.ForumPost) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.AddedAt.IsZero() {
		post.AddedAt = time.Now().UTC()
	}
	if post.UpVotes == nil {
		post.UpVotes = pq.StringArray{}
	}
	if post.DownVotes == nil {
		post.DownVotes = pq.StringArray{}
	}
	const query = `INSERT INTO forums (id, title, content, author_email, author_role, up_votes, down_votes, added_at)
		VALUES (:id, :title, :content, :author_email, :author_role, :up_votes, :down_votes, :added_at)`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("create forum post: %w", err)
	}
	return nil
}

// SetVotes replaces the vote sets for a post.
func (r *ForumRepository) SetVotes(ctx context.Context, id string, upVotes, downVotes pq.StringArray) error {
	const query = `UPDATE forums SET up_votes = $2, down_votes = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, upVotes, downVotes)
	if err != nil {
		return fmt.Errorf("set forum votes: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
