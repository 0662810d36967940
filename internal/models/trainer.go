package models

import (
	"fmt"
	"time"

	"github.com/lib/pq"

	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
)

// ApplicationStatus enumerates the trainer application lifecycle states.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

// Transition names an admin action on a trainer application.
type Transition string

const (
	TransitionApprove Transition = "approve"
	TransitionReject  Transition = "reject"
	TransitionDemote  Transition = "demote"
)

// Next resolves a transition against the current status. It returns the
// resulting status and whether the status actually changes. Re-applying a
// transition whose target state already holds is accepted as a no-op; a
// transition with no edge from the current state is a conflict.
func (s ApplicationStatus) Next(t Transition) (ApplicationStatus, bool, error) {
	switch t {
	case TransitionApprove:
		// rejected applications may be re-approved
		return StatusApproved, s != StatusApproved, nil
	case TransitionReject:
		switch s {
		case StatusPending:
			return StatusRejected, true, nil
		case StatusRejected:
			return StatusRejected, false, nil
		}
	case TransitionDemote:
		switch s {
		case StatusApproved:
			return StatusPending, true, nil
		case StatusPending:
			return StatusPending, false, nil
		}
	}
	return s, false, appErrors.Clone(appErrors.ErrConflict,
		fmt.Sprintf("cannot %s a trainer with status %s", t, s))
}

// RoleFor derives the user role implied by an application status. This is the
// rule the reconcile repair re-applies after partial failures.
func (s ApplicationStatus) RoleFor() UserRole {
	if s == StatusApproved {
		return RoleTrainer
	}
	return RoleMember
}

// Trainer represents a trainer application record. The email is the join key
// to the user account whose role mirrors the application status.
type Trainer struct {
	ID                string            `db:"id" json:"id"`
	Email             string            `db:"email" json:"email"`
	FullName          string            `db:"full_name" json:"full_name"`
	ProfilePic        *string           `db:"profile_pic" json:"profile_pic,omitempty"`
	Expertise         pq.StringArray    `db:"expertise" json:"expertise"`
	ApplicationStatus ApplicationStatus `db:"application_status" json:"application_status"`
	RejectionFeedback *string           `db:"rejection_feedback" json:"rejection_feedback,omitempty"`
	StructuredSlots   StructuredSlots   `db:"structured_slots" json:"structured_slots"`
	JoinedAt          time.Time         `db:"joined_at" json:"joined_at"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

// TransitionResult reports the outcome of an application transition. RoleSynced
// is false when the trainer-side write committed but the user role update did
// not; the drift is repaired asynchronously via reconcile.
type TransitionResult struct {
	Trainer    *Trainer `json:"trainer"`
	RoleSynced bool     `json:"role_synced"`
}
