package models

import "time"

// Review is member feedback on a trainer.
type Review struct {
	ID            string    `db:"id" json:"id"`
	TrainerID     string    `db:"trainer_id" json:"trainer_id"`
	ReviewerEmail string    `db:"reviewer_email" json:"reviewer_email"`
	ReviewerName  string    `db:"reviewer_name" json:"reviewer_name"`
	Rating        int       `db:"rating" json:"rating"`
	Comment       string    `db:"comment" json:"comment"`
	ReviewedAt    time.Time `db:"reviewed_at" json:"reviewed_at"`
}

// Subscription is a newsletter signup.
type Subscription struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	SubscribedAt time.Time `db:"subscribed_at" json:"subscribed_at"`
}
