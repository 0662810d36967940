package models

import (
	"time"

	"github.com/lib/pq"
)

// ForumPost is a community post with member voting.
type ForumPost struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Content     string         `db:"content" json:"content"`
	AuthorEmail string         `db:"author_email" json:"author_email"`
	AuthorRole  UserRole       `db:"author_role" json:"author_role"`
	UpVotes     pq.StringArray `db:"up_votes" json:"up_votes"`
	DownVotes   pq.StringArray `db:"down_votes" json:"down_votes"`
	AddedAt     time.Time      `db:"added_at" json:"added_at"`
}

// VoteType enumerates forum vote actions.
type VoteType string

const (
	VoteUp     VoteType = "up"
	VoteDown   VoteType = "down"
	VoteRemove VoteType = "remove"
)

// ForumFilter captures listing options for forum posts.
type ForumFilter struct {
	Page     int
	PageSize int
}
