// Package entities contains core business entities.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// Tag classifies entries; names are unique across the knowledge base.
type Tag struct {
	ID          uuid.UUID
	Name        string
	Category    *string
	Description *string
	Color       *string
}

// EntryTag is the entry-to-tag association.
type EntryTag struct {
	ID      uuid.UUID
	EntryID uuid.UUID
	TagID   uuid.UUID
	AddedBy string
	AddedAt time.Time
	Tag     *Tag
}

// TagPatch carries mutable tag fields; nil means leave unchanged.
type TagPatch struct {
	Name        *string
	Category    *string
	Description *string
	Color       *string
}
