package models

import "time"

// Class represents a bookable fitness class.
type Class struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	Image       *string   `db:"image" json:"image,omitempty"`
	BookedCount int       `db:"booked_count" json:"booked_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ClassFilter captures listing options for classes.
type ClassFilter struct {
	Page     int
	PageSize int
}
