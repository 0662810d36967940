package models

import "time"

// Booking records a paid reservation of a trainer slot for a class.
type Booking struct {
	ID            string    `db:"id" json:"id"`
	TrainerID     string    `db:"trainer_id" json:"trainer_id"`
	ClassID       string    `db:"class_id" json:"class_id"`
	MemberEmail   string    `db:"member_email" json:"member_email"`
	SlotDay       Weekday   `db:"slot_day" json:"slot_day"`
	SlotLabel     string    `db:"slot_label" json:"slot_label"`
	SlotTime      string    `db:"slot_time" json:"slot_time"`
	AmountPaid    int64     `db:"amount_paid" json:"amount_paid"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	PaymentTime   time.Time `db:"payment_time" json:"payment_time"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// BalanceOverview summarises booking revenue for the admin dashboard.
type BalanceOverview struct {
	TotalBalance int64     `json:"total_balance"`
	LastPayments []Booking `json:"last_payments"`
}

// MembershipStats compares newsletter subscribers against paying members.
type MembershipStats struct {
	SubscriberCount int `json:"subscriber_count"`
	PaidMemberCount int `json:"paid_member_count"`
}
