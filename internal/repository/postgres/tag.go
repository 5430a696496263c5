package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	insertTagQuery = `INSERT INTO tags(id, name, category, description, color) VALUES ($1,$2,$3,$4,$5)`
	selectTagQuery = `SELECT id, name, category, description, color FROM tags WHERE id=$1`
	insertEntryTagQuery = `INSERT INTO entry_tags(id, entry_id, tag_id, added_by) VALUES ($1,$2,$3,$4) RETURNING added_at`
)

// CreateTag inserts a tag; duplicate names map to ErrTagExists.
func (p *Postgres) CreateTag(ctx context.Context, tag entities.Tag) (*entities.Tag, error) {
	tag.ID = uuid.New()
	if _, err := p.db.Exec(ctx, insertTagQuery, tag.ID, tag.Name, tag.Category, tag.Description, tag.Color); err != nil {
		if isUniqueViolation(err) {
			return nil, entities.ErrTagExists
		}
		p.log.Errorw("failed to insert tag", "error", err, "name", tag.Name)
		return nil, fmt.Errorf("insert tag: %w", err)
	}
	p.log.Infow("tag created", "tag_id", tag.ID, "name", tag.Name)
	return &tag, nil
}

// GetTag returns a tag by id.
func (p *Postgres) GetTag(ctx context.Context, id uuid.UUID) (*entities.Tag, error) {
	tag, err := scanTag(p.db.QueryRow(ctx, selectTagQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTagNotFound
		}
		p.log.Errorw("failed to select tag", "error", err, "tag_id", id)
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// GetTagByName returns a tag by its unique name.
func (p *Postgres) GetTagByName(ctx context.Context, name string) (*entities.Tag, error) {
	tag, err := scanTag(p.db.QueryRow(ctx, `SELECT id, name, category, description, color FROM tags WHERE name=$1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTagNotFound
		}
		return nil, fmt.Errorf("get tag by name: %w", err)
	}
	return tag, nil
}

// ListTags returns tags with pagination, optionally restricted to a category.
func (p *Postgres) ListTags(ctx context.Context, skip, limit int, category *string) ([]entities.Tag, int64, error) {
	cond := ""
	args := []any{}
	if category != nil {
		cond = " WHERE category=$1"
		args = append(args, *category)
	}

	var total int64
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM tags`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tags: %w", err)
	}

	args = append(args, limit, skip)
	query := fmt.Sprintf(`SELECT id, name, category, description, color FROM tags%s ORDER BY name LIMIT $%d OFFSET $%d`,
		cond, len(args)-1, len(args))
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		p.log.Errorw("failed to list tags", "error", err)
		return nil, 0, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := make([]entities.Tag, 0)
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, 0, err
		}
		tags = append(tags, *t)
	}
	return tags, total, rows.Err()
}

// UpdateTag applies the patch; duplicate names map to ErrTagExists.
func (p *Postgres) UpdateTag(ctx context.Context, id uuid.UUID, patch entities.TagPatch) (*entities.Tag, error) {
	tag, err := p.db.Exec(ctx, `UPDATE tags SET
		name=COALESCE($2, name),
		category=COALESCE($3, category),
		description=COALESCE($4, description),
		color=COALESCE($5, color)
		WHERE id=$1`,
		id, patch.Name, patch.Category, patch.Description, patch.Color)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entities.ErrTagExists
		}
		p.log.Errorw("failed to update tag", "error", err, "tag_id", id)
		return nil, fmt.Errorf("update tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, entities.ErrTagNotFound
	}
	return p.GetTag(ctx, id)
}

// DeleteTag removes the tag and its entry links via cascade.
func (p *Postgres) DeleteTag(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM tags WHERE id=$1`, id)
	if err != nil {
		p.log.Errorw("failed to delete tag", "error", err, "tag_id", id)
		return fmt.Errorf("delete tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrTagNotFound
	}
	return nil
}

// TagEntry links a tag to an entry; the pair is unique.
func (p *Postgres) TagEntry(ctx context.Context, entryID, tagID uuid.UUID, addedBy string) (*entities.EntryTag, error) {
	link := entities.EntryTag{
		ID:      uuid.New(),
		EntryID: entryID,
		TagID:   tagID,
		AddedBy: addedBy,
	}
	if err := p.db.QueryRow(ctx, insertEntryTagQuery, link.ID, entryID, tagID, addedBy).Scan(&link.AddedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, entities.ErrEntryTagged
		}
		if isForeignKeyViolation(err) {
			return nil, entities.ErrEntryNotFound
		}
		p.log.Errorw("failed to tag entry", "error", err, "entry_id", entryID, "tag_id", tagID)
		return nil, fmt.Errorf("tag entry: %w", err)
	}

	tag, err := p.GetTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	link.Tag = tag
	return &link, nil
}

// UntagEntry removes the entry-tag link.
func (p *Postgres) UntagEntry(ctx context.Context, entryID, tagID uuid.UUID) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM entry_tags WHERE entry_id=$1 AND tag_id=$2`, entryID, tagID)
	if err != nil {
		p.log.Errorw("failed to untag entry", "error", err, "entry_id", entryID, "tag_id", tagID)
		return fmt.Errorf("untag entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrEntryNotTagged
	}
	return nil
}

// ListEntryTags returns the tags linked to an entry.
func (p *Postgres) ListEntryTags(ctx context.Context, entryID uuid.UUID) ([]entities.EntryTag, error) {
	rows, err := p.db.Query(ctx, `SELECT et.id, et.entry_id, et.tag_id, et.added_by, et.added_at,
		t.id, t.name, t.category, t.description, t.color
		FROM entry_tags et JOIN tags t ON t.id = et.tag_id
		WHERE et.entry_id=$1 ORDER BY t.name`, entryID)
	if err != nil {
		p.log.Errorw("failed to list entry tags", "error", err, "entry_id", entryID)
		return nil, fmt.Errorf("list entry tags: %w", err)
	}
	defer rows.Close()

	links := make([]entities.EntryTag, 0)
	for rows.Next() {
		var link entities.EntryTag
		var tag entities.Tag
		if err := rows.Scan(&link.ID, &link.EntryID, &link.TagID, &link.AddedBy, &link.AddedAt,
			&tag.ID, &tag.Name, &tag.Category, &tag.Description, &tag.Color); err != nil {
			return nil, err
		}
		link.Tag = &tag
		links = append(links, link)
	}
	return links, rows.Err()
}

func scanTag(row rowScanner) (*entities.Tag, error) {
	var t entities.Tag
	if err := row.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.Color); err != nil {
		return nil, err
	}
	return &t, nil
}
