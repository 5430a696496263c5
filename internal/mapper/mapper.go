// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"github.com/Tahskajuha/KEDB-capstone/internal/entities"
	"github.com/Tahskajuha/KEDB-capstone/internal/transport/http/models"
)

// FromCreateSymptoms builds entry symptoms from transport DTOs.
func FromCreateSymptoms(src []models.CreateSymptomRequest) []entities.EntrySymptom {
	res := make([]entities.EntrySymptom, 0, len(src))
	for _, s := range src {
		res = append(res, entities.EntrySymptom{
			Description: s.Description,
			OrderIndex:  s.OrderIndex,
		})
	}
	return res
}

// FromLinkIncidents builds entry incidents from transport DTOs.
func FromLinkIncidents(src []models.LinkIncidentRequest) []entities.EntryIncident {
	res := make([]entities.EntryIncident, 0, len(src))
	for _, i := range src {
		res = append(res, entities.EntryIncident{
			IncidentID:     i.IncidentID,
			IncidentSource: i.IncidentSource,
		})
	}
	return res
}

// FromAddParticipants builds review participants from transport DTOs.
func FromAddParticipants(src []models.AddParticipantRequest) []entities.ReviewParticipant {
	res := make([]entities.ReviewParticipant, 0, len(src))
	for _, p := range src {
		res = append(res, entities.ReviewParticipant{
			UserID: p.UserID,
			Role:   entities.ParticipantRole(p.Role),
		})
	}
	return res
}

// FromCreateSteps builds solution steps from transport DTOs.
func FromCreateSteps(src []models.CreateStepRequest) []entities.SolutionStep {
	res := make([]entities.SolutionStep, 0, len(src))
	for _, s := range src {
		res = append(res, entities.SolutionStep{
			OrderIndex:      s.OrderIndex,
			Action:          s.Action,
			ExpectedResult:  s.ExpectedResult,
			Command:         s.Command,
			RollbackAction:  s.RollbackAction,
			RollbackCommand: s.RollbackCommand,
			StepMetadata:    s.StepMetadata,
		})
	}
	return res
}

// ToModelEntry maps entities.Entry to transport model.
func ToModelEntry(e entities.Entry) models.Entry {
	symptoms := make([]models.Symptom, 0, len(e.Symptoms))
	for _, s := range e.Symptoms {
		symptoms = append(symptoms, ToModelSymptom(s))
	}
	incidents := make([]models.Incident, 0, len(e.Incidents))
	for _, i := range e.Incidents {
		incidents = append(incidents, ToModelIncident(i))
	}

	return models.Entry{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		Severity:      string(e.Severity),
		RootCause:     e.RootCause,
		Environment:   e.Environment,
		WorkflowState: string(e.WorkflowState),
		CreatedBy:     e.CreatedBy,
		ApprovedBy:    e.ApprovedBy,
		ApprovedAt:    e.ApprovedAt,
		MergedIntoID:  e.MergedIntoID,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		Symptoms:      symptoms,
		Incidents:     incidents,
	}
}

// ToModelEntrySummaryList maps a slice of entry summaries to transport slice.
func ToModelEntrySummaryList(list []entities.EntrySummary) []models.EntrySummary {
	res := make([]models.EntrySummary, 0, len(list))
	for _, e := range list {
		res = append(res, models.EntrySummary{
			ID:            e.ID,
			Title:         e.Title,
			Severity:      string(e.Severity),
			WorkflowState: string(e.WorkflowState),
			CreatedBy:     e.CreatedBy,
			CreatedAt:     e.CreatedAt,
		})
	}
	return res
}

// ToModelSymptom maps an entry symptom to transport model.
func ToModelSymptom(s entities.EntrySymptom) models.Symptom {
	return models.Symptom{
		ID:          s.ID,
		EntryID:     s.EntryID,
		Description: s.Description,
		OrderIndex:  s.OrderIndex,
	}
}

// ToModelIncident maps an entry incident to transport model.
func ToModelIncident(i entities.EntryIncident) models.Incident {
	return models.Incident{
		ID:             i.ID,
		EntryID:        i.EntryID,
		IncidentID:     i.IncidentID,
		IncidentSource: i.IncidentSource,
	}
}

// ToModelReview maps entities.Review to transport model.
func ToModelReview(r entities.Review) models.Review {
	participants := make([]models.Participant, 0, len(r.Participants))
	for _, p := range r.Participants {
		participants = append(participants, ToModelParticipant(p))
	}

	return models.Review{
		ID:           r.ID,
		EntryID:      r.EntryID,
		Status:       string(r.Status),
		RCAText:      r.RCAText,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Participants: participants,
	}
}

// ToModelReviewList maps a slice of reviews to transport slice.
func ToModelReviewList(list []entities.Review) []models.Review {
	res := make([]models.Review, 0, len(list))
	for _, r := range list {
		res = append(res, ToModelReview(r))
	}
	return res
}

// ToModelParticipant maps a review participant to transport model.
func ToModelParticipant(p entities.ReviewParticipant) models.Participant {
	return models.Participant{
		ID:         p.ID,
		ReviewID:   p.ReviewID,
		UserID:     p.UserID,
		Role:       string(p.Role),
		ApprovedAt: p.ApprovedAt,
	}
}

// ToModelSolution maps entities.Solution to transport model.
func ToModelSolution(s entities.Solution) models.Solution {
	steps := make([]models.Step, 0, len(s.Steps))
	for _, st := range s.Steps {
		steps = append(steps, ToModelStep(st))
	}

	return models.Solution{
		ID:                   s.ID,
		EntryID:              s.EntryID,
		Title:                s.Title,
		Description:          s.Description,
		SolutionType:         string(s.SolutionType),
		EstimatedTimeMinutes: s.EstimatedTimeMinutes,
		CreatedBy:            s.CreatedBy,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
		Steps:                steps,
	}
}

// ToModelSolutionList maps a slice of solutions to transport slice.
func ToModelSolutionList(list []entities.Solution) []models.Solution {
	res := make([]models.Solution, 0, len(list))
	for _, s := range list {
		res = append(res, ToModelSolution(s))
	}
	return res
}

// ToModelStep maps a solution step to transport model.
func ToModelStep(s entities.SolutionStep) models.Step {
	return models.Step{
		ID:              s.ID,
		SolutionID:      s.SolutionID,
		OrderIndex:      s.OrderIndex,
		Action:          s.Action,
		ExpectedResult:  s.ExpectedResult,
		Command:         s.Command,
		RollbackAction:  s.RollbackAction,
		RollbackCommand: s.RollbackCommand,
		StepMetadata:    s.StepMetadata,
	}
}

// ToModelTag maps entities.Tag to transport model.
func ToModelTag(t entities.Tag) models.Tag {
	return models.Tag{
		ID:          t.ID,
		Name:        t.Name,
		Category:    t.Category,
		Description: t.Description,
		Color:       t.Color,
	}
}

// ToModelTagList maps a slice of tags to transport slice.
func ToModelTagList(list []entities.Tag) []models.Tag {
	res := make([]models.Tag, 0, len(list))
	for _, t := range list {
		res = append(res, ToModelTag(t))
	}
	return res
}

// ToModelEntryTag maps an entry-tag link to transport model.
func ToModelEntryTag(et entities.EntryTag) models.EntryTag {
	res := models.EntryTag{
		ID:      et.ID,
		EntryID: et.EntryID,
		TagID:   et.TagID,
		AddedBy: et.AddedBy,
		AddedAt: et.AddedAt,
	}
	if et.Tag != nil {
		tag := ToModelTag(*et.Tag)
		res.Tag = &tag
	}
	return res
}

// ToModelEntryTagList maps a slice of entry-tag links to transport slice.
func ToModelEntryTagList(list []entities.EntryTag) []models.EntryTag {
	res := make([]models.EntryTag, 0, len(list))
	for _, et := range list {
		res = append(res, ToModelEntryTag(et))
	}
	return res
}
