// Package models declares the HTTP transport DTOs.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ErrorCode classifies API failures for clients.
type ErrorCode string

const (
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeValidation        ErrorCode = "VALIDATION"
	CodeConflict          ErrorCode = "CONFLICT"
	CodeWorkflowViolation ErrorCode = "WORKFLOW_VIOLATION"
	CodeInternal          ErrorCode = "INTERNAL"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the code and message of a failed request.
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// CreateEntryRequest is the payload for creating an entry.
type CreateEntryRequest struct {
	Title       string                 `json:"title" validate:"required,min=3,max=500"`
	Description string                 `json:"description" validate:"required,min=10"`
	Severity    string                 `json:"severity" validate:"required,oneof=critical high medium low info"`
	RootCause   *string                `json:"root_cause,omitempty"`
	Environment *string                `json:"environment,omitempty" validate:"omitempty,max=255"`
	Symptoms    []CreateSymptomRequest `json:"symptoms,omitempty" validate:"dive"`
	Incidents   []LinkIncidentRequest  `json:"incidents,omitempty" validate:"dive"`
}

// UpdateEntryRequest is the payload for patching an entry.
type UpdateEntryRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=3,max=500"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=10"`
	Severity    *string `json:"severity,omitempty" validate:"omitempty,oneof=critical high medium low info"`
	RootCause   *string `json:"root_cause,omitempty"`
	Environment *string `json:"environment,omitempty" validate:"omitempty,max=255"`
}

// CreateSymptomRequest adds a symptom to an entry.
type CreateSymptomRequest struct {
	Description string `json:"description" validate:"required,min=1,max=1000"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

// LinkIncidentRequest links an external incident to an entry.
type LinkIncidentRequest struct {
	IncidentID     string `json:"incident_id" validate:"required,min=1,max=255"`
	IncidentSource string `json:"incident_source" validate:"required,min=1,max=100"`
}

// TransitionEntryRequest asks for an explicit workflow transition.
type TransitionEntryRequest struct {
	TargetState  string     `json:"target_state" validate:"required,oneof=draft in_review published retired merged"`
	MergedIntoID *uuid.UUID `json:"merged_into_id,omitempty"`
}

// Entry is the transport representation of an entry.
type Entry struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Severity      string     `json:"severity"`
	RootCause     *string    `json:"root_cause,omitempty"`
	Environment   *string    `json:"environment,omitempty"`
	WorkflowState string     `json:"workflow_state"`
	CreatedBy     string     `json:"created_by"`
	ApprovedBy    *string    `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	MergedIntoID  *uuid.UUID `json:"merged_into_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Symptoms      []Symptom  `json:"symptoms"`
	Incidents     []Incident `json:"incidents"`
}

// EntrySummary is the compact entry representation used by listings.
type EntrySummary struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Severity      string    `json:"severity"`
	WorkflowState string    `json:"workflow_state"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// Symptom is the transport representation of an entry symptom.
type Symptom struct {
	ID          uuid.UUID `json:"id"`
	EntryID     uuid.UUID `json:"entry_id"`
	Description string    `json:"description"`
	OrderIndex  int       `json:"order_index"`
}

// Incident is the transport representation of a linked incident.
type Incident struct {
	ID             uuid.UUID `json:"id"`
	EntryID        uuid.UUID `json:"entry_id"`
	IncidentID     string    `json:"incident_id"`
	IncidentSource string    `json:"incident_source"`
}

// CreateReviewRequest opens a review against a draft entry.
type CreateReviewRequest struct {
	RCAText      *string                 `json:"rca_text,omitempty"`
	Participants []AddParticipantRequest `json:"participants,omitempty" validate:"dive"`
}

// AddParticipantRequest attaches a user to a review.
type AddParticipantRequest struct {
	UserID string `json:"user_id" validate:"required,min=1,max=255"`
	Role   string `json:"role" validate:"required,oneof=lead reviewer observer"`
}

// DecisionRequest submits the review's one decision.
type DecisionRequest struct {
	Status  string  `json:"status" validate:"required,oneof=approved rejected changes_requested"`
	Comment *string `json:"comment,omitempty"`
}

// Review is the transport representation of a review.
type Review struct {
	ID           uuid.UUID     `json:"id"`
	EntryID      uuid.UUID     `json:"entry_id"`
	Status       string        `json:"status"`
	RCAText      *string       `json:"rca_text,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Participants []Participant `json:"participants"`
}

// Participant is the transport representation of a review participant.
type Participant struct {
	ID         uuid.UUID  `json:"id"`
	ReviewID   uuid.UUID  `json:"review_id"`
	UserID     string     `json:"user_id"`
	Role       string     `json:"role"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

// CreateSolutionRequest attaches a solution to an entry.
type CreateSolutionRequest struct {
	Title                string              `json:"title" validate:"required,min=1,max=255"`
	Description          string              `json:"description" validate:"required,min=10"`
	SolutionType         string              `json:"solution_type" validate:"required,oneof=workaround resolution"`
	EstimatedTimeMinutes *int                `json:"estimated_time_minutes,omitempty" validate:"omitempty,gte=0"`
	Steps                []CreateStepRequest `json:"steps,omitempty" validate:"dive"`
}

// UpdateSolutionRequest patches a solution.
type UpdateSolutionRequest struct {
	Title                *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description          *string `json:"description,omitempty" validate:"omitempty,min=10"`
	SolutionType         *string `json:"solution_type,omitempty" validate:"omitempty,oneof=workaround resolution"`
	EstimatedTimeMinutes *int    `json:"estimated_time_minutes,omitempty" validate:"omitempty,gte=0"`
}

// CreateStepRequest adds a step to a solution.
type CreateStepRequest struct {
	OrderIndex      int            `json:"order_index" validate:"gte=0"`
	Action          string         `json:"action" validate:"required,min=1"`
	ExpectedResult  *string        `json:"expected_result,omitempty"`
	Command         *string        `json:"command,omitempty"`
	RollbackAction  *string        `json:"rollback_action,omitempty"`
	RollbackCommand *string        `json:"rollback_command,omitempty"`
	StepMetadata    map[string]any `json:"step_metadata,omitempty"`
}

// UpdateStepRequest patches a solution step.
type UpdateStepRequest struct {
	OrderIndex      *int           `json:"order_index,omitempty" validate:"omitempty,gte=0"`
	Action          *string        `json:"action,omitempty" validate:"omitempty,min=1"`
	ExpectedResult  *string        `json:"expected_result,omitempty"`
	Command         *string        `json:"command,omitempty"`
	RollbackAction  *string        `json:"rollback_action,omitempty"`
	RollbackCommand *string        `json:"rollback_command,omitempty"`
	StepMetadata    map[string]any `json:"step_metadata,omitempty"`
}

// Solution is the transport representation of a solution.
type Solution struct {
	ID                   uuid.UUID `json:"id"`
	EntryID              uuid.UUID `json:"entry_id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	SolutionType         string    `json:"solution_type"`
	EstimatedTimeMinutes *int      `json:"estimated_time_minutes,omitempty"`
	CreatedBy            string    `json:"created_by"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
	Steps                []Step    `json:"steps"`
}

// Step is the transport representation of a solution step.
type Step struct {
	ID              uuid.UUID      `json:"id"`
	SolutionID      uuid.UUID      `json:"solution_id"`
	OrderIndex      int            `json:"order_index"`
	Action          string         `json:"action"`
	ExpectedResult  *string        `json:"expected_result,omitempty"`
	Command         *string        `json:"command,omitempty"`
	RollbackAction  *string        `json:"rollback_action,omitempty"`
	RollbackCommand *string        `json:"rollback_command,omitempty"`
	StepMetadata    map[string]any `json:"step_metadata,omitempty"`
}

// CreateTagRequest creates a tag.
type CreateTagRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// UpdateTagRequest patches a tag.
type UpdateTagRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// TagEntryRequest links a tag to an entry.
type TagEntryRequest struct {
	TagID uuid.UUID `json:"tag_id" validate:"required"`
}

// Tag is the transport representation of a tag.
type Tag struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    *string   `json:"category,omitempty"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"`
}

// EntryTag is the transport representation of an entry-tag link.
type EntryTag struct {
	ID      uuid.UUID `json:"id"`
	EntryID uuid.UUID `json:"entry_id"`
	TagID   uuid.UUID `json:"tag_id"`
	AddedBy string    `json:"added_by"`
	AddedAt time.Time `json:"added_at"`
	Tag     *Tag      `json:"tag,omitempty"`
}
