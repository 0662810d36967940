package models

import "time"

// UserRole represents the available account roles.
type UserRole string

const (
	RoleMember  UserRole = "member"
	RoleTrainer UserRole = "trainer"
	RoleAdmin   UserRole = "admin"
)

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	ProfilePic   *string    `db:"profile_pic" json:"profile_pic,omitempty"`
	Role         UserRole   `db:"role" json:"role"`
	IsMainAdmin  bool       `db:"is_main_admin" json:"is_main_admin"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
