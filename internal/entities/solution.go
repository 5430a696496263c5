// Package entities contains core business entities.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// SolutionType distinguishes workarounds from permanent resolutions.
type SolutionType string

const (
	SolutionWorkaround SolutionType = "workaround"
	SolutionResolution SolutionType = "resolution"
)

// Solution is a proposed fix attached to an entry.
type Solution struct {
	ID                   uuid.UUID
	EntryID              uuid.UUID
	Title                string
	Description          string
	SolutionType         SolutionType
	EstimatedTimeMinutes *int
	CreatedBy            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	Steps                []SolutionStep
}

// SolutionStep is one ordered action within a solution.
type SolutionStep struct {
	ID              uuid.UUID
	SolutionID      uuid.UUID
	OrderIndex      int
	Action          string
	ExpectedResult  *string
	Command         *string
	RollbackAction  *string
	RollbackCommand *string
	StepMetadata    map[string]any
}

// SolutionPatch carries mutable solution fields; nil means leave unchanged.
type SolutionPatch struct {
	Title                *string
	Description          *string
	SolutionType         *SolutionType
	EstimatedTimeMinutes *int
}

// SolutionStepPatch carries mutable step fields; nil means leave unchanged.
type SolutionStepPatch struct {
	OrderIndex      *int
	Action          *string
	ExpectedResult  *string
	Command         *string
	RollbackAction  *string
	RollbackCommand *string
	StepMetadata    map[string]any
}
