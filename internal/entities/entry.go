// Package entities contains core business entities.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowState enumerates entry lifecycle states.
type WorkflowState string

const (
	// StateDraft marks an entry under authoring.
	StateDraft WorkflowState = "draft"
	// StateInReview marks an entry with an open review.
	StateInReview WorkflowState = "in_review"
	// StatePublished marks an approved entry.
	StatePublished WorkflowState = "published"
	// StateRetired marks a soft-deleted entry (terminal).
	StateRetired WorkflowState = "retired"
	// StateMerged marks an entry folded into another one (terminal).
	StateMerged WorkflowState = "merged"
)

// Severity enumerates entry severity levels.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	}
	return false
}

// Valid reports whether w is a known workflow state.
func (w WorkflowState) Valid() bool {
	switch w {
	case StateDraft, StateInReview, StatePublished, StateRetired, StateMerged:
		return true
	}
	return false
}

// Entry is a domain model of a diagnosed incident record.
type Entry struct {
	ID            uuid.UUID
	Title         string
	Description   string
	Severity      Severity
	RootCause     *string
	Environment   *string
	WorkflowState WorkflowState
	CreatedBy     string
	ApprovedBy    *string
	ApprovedAt    *time.Time
	MergedIntoID  *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Symptoms      []EntrySymptom
	Incidents     []EntryIncident
}

// EntrySummary is a compact projection for listings.
type EntrySummary struct {
	ID            uuid.UUID
	Title         string
	Severity      Severity
	WorkflowState WorkflowState
	CreatedBy     string
	CreatedAt     time.Time
}

// EntrySymptom is an observable symptom attached to an entry.
type EntrySymptom struct {
	ID          uuid.UUID
	EntryID     uuid.UUID
	Description string
	OrderIndex  int
}

// EntryIncident links an external incident to an entry.
type EntryIncident struct {
	ID             uuid.UUID
	EntryID        uuid.UUID
	IncidentID     string
	IncidentSource string
}

// EntryFilter limits entry listings.
type EntryFilter struct {
	WorkflowState *WorkflowState
	Severity      *Severity
	CreatedBy     *string
	Skip          int
	Limit         int
}

// EntryPatch carries the mutable entry fields; nil means leave unchanged.
type EntryPatch struct {
	Title       *string
	Description *string
	Severity    *Severity
	RootCause   *string
	Environment *string
}

// EntryEmbedding is a stored vector for semantic search over entries.
type EntryEmbedding struct {
	EntryID   uuid.UUID
	ModelName string
	Dimension int
	Embedding []float32
}
