// Package entities contains core business entities.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus enumerates review lifecycle states.
type ReviewStatus string

const (
	// ReviewPending marks a review awaiting its decision.
	ReviewPending ReviewStatus = "pending"
	// ReviewApproved marks an approved review.
	ReviewApproved ReviewStatus = "approved"
	// ReviewRejected marks a rejected review.
	ReviewRejected ReviewStatus = "rejected"
	// ReviewChangesRequested marks a review returned for rework.
	ReviewChangesRequested ReviewStatus = "changes_requested"
)

// ParticipantRole enumerates roles a user can hold on a review.
type ParticipantRole string

const (
	RoleLead     ParticipantRole = "lead"
	RoleReviewer ParticipantRole = "reviewer"
	RoleObserver ParticipantRole = "observer"
)

// Valid reports whether r is a known participant role.
func (r ParticipantRole) Valid() bool {
	switch r {
	case RoleLead, RoleReviewer, RoleObserver:
		return true
	}
	return false
}

// IsDecision reports whether s is a submittable decision (anything but pending).
func (s ReviewStatus) IsDecision() bool {
	switch s {
	case ReviewApproved, ReviewRejected, ReviewChangesRequested:
		return true
	}
	return false
}

// Review is a single approval round opened against a draft entry.
type Review struct {
	ID           uuid.UUID
	EntryID      uuid.UUID
	Status       ReviewStatus
	RCAText      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Participants []ReviewParticipant
}

// ReviewParticipant is a user attached to a review with a role.
type ReviewParticipant struct {
	ID         uuid.UUID
	ReviewID   uuid.UUID
	UserID     string
	Role       ParticipantRole
	ApprovedAt *time.Time
}

// HasParticipant reports whether userID belongs to the review.
func (r *Review) HasParticipant(userID string) bool {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
