// Package domain contains application services orchestrating domain logic by tag.
package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"

	"github.com/google/uuid"
)

// CreateTag creates a tag; names are unique.
func (u *Usecase) CreateTag(ctx context.Context, tag entities.Tag) (*entities.Tag, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if tag.Name == "" {
		u.log.Errorw("failed to create tag: missing name")
		return nil, fmt.Errorf("%w: name is required", entities.ErrInvalidArgument)
	}
	return u.repo.CreateTag(ctx, tag)
}

// Tag returns a tag by id.
func (u *Usecase) Tag(ctx context.Context, id uuid.UUID) (*entities.Tag, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.GetTag(ctx, id)
}

// ListTags returns tags with pagination, optionally by category.
func (u *Usecase) ListTags(ctx context.Context, skip, limit int, category *string) (entities.Page[entities.Tag], error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if limit <= 0 {
		limit = maxPageLimit
	}
	if skip < 0 {
		skip = 0
	}

	items, total, err := u.repo.ListTags(ctx, skip, limit, category)
	if err != nil {
		return entities.Page[entities.Tag]{}, err
	}
	return entities.Page[entities.Tag]{Total: total, Skip: skip, Limit: limit, Items: items}, nil
}

// UpdateTag edits tag fields; renaming to a taken name conflicts.
func (u *Usecase) UpdateTag(ctx context.Context, id uuid.UUID, patch entities.TagPatch) (*entities.Tag, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if patch.Name != nil {
		existing, err := u.repo.GetTagByName(ctx, *patch.Name)
		if err != nil && !errors.Is(err, entities.ErrTagNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, entities.ErrTagExists
		}
	}
	return u.repo.UpdateTag(ctx, id, patch)
}

// DeleteTag removes a tag everywhere.
func (u *Usecase) DeleteTag(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.DeleteTag(ctx, id)
}

// TagEntry links a tag to an entry.
func (u *Usecase) TagEntry(ctx context.Context, entryID, tagID uuid.UUID, addedBy string) (*entities.EntryTag, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if addedBy == "" {
		addedBy = "system"
	}
	if _, err := u.repo.GetEntry(ctx, entryID); err != nil {
		return nil, err
	}
	if _, err := u.repo.GetTag(ctx, tagID); err != nil {
		return nil, err
	}

	res, err := u.repo.TagEntry(ctx, entryID, tagID, addedBy)
	if err != nil {
		return nil, err
	}
	u.index.EnqueueIndex(entryID)
	return res, nil
}

// UntagEntry removes a tag from an entry.
func (u *Usecase) UntagEntry(ctx context.Context, entryID, tagID uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.repo.UntagEntry(ctx, entryID, tagID); err != nil {
		return err
	}
	u.index.EnqueueIndex(entryID)
	return nil
}

// EntryTags returns the tags linked to an entry.
func (u *Usecase) EntryTags(ctx context.Context, entryID uuid.UUID) ([]entities.EntryTag, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.repo.GetEntry(ctx, entryID); err != nil {
		return nil, err
	}
	return u.repo.ListEntryTags(ctx, entryID)
}
