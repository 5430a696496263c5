package handlers_fiber

import (
	"net/http"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"
	"github.com/Tahskajuha/KEDB-capstone/internal/mapper"
	"github.com/Tahskajuha/KEDB-capstone/internal/transport/http/models"

	"github.com/gofiber/fiber/v2"
)

// CreateTag creates a tag; names are unique.
func (h *Handler) CreateTag(c *fiber.Ctx) error {
	var body models.CreateTagRequest
	if !h.parseBody(c, &body) {
		return nil
	}

	res, err := h.uc.CreateTag(c.Context(), entities.Tag{
		Name:        body.Name,
		Category:    body.Category,
		Description: body.Description,
		Color:       body.Color,
	})
	if err != nil {
		h.log.Errorw("failed to create tag", "name", body.Name, "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(mapper.ToModelTag(*res))
}

// GetTag returns one tag.
func (h *Handler) GetTag(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	res, err := h.uc.Tag(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(mapper.ToModelTag(*res))
}

// ListTags returns a page of tags, optionally filtered by category.
func (h *Handler) ListTags(c *fiber.Ctx) error {
	var category *string
	if v := c.Query("category"); v != "" {
		category = &v
	}

	page, err := h.uc.ListTags(c.Context(), queryInt(c, "skip", 0), queryInt(c, "limit", 0), category)
	if err != nil {
		h.log.Errorw("failed to list tags", "error", err.Error())
		return writeError(c, err)
	}

	resp := struct {
		Total int64        `json:"total"`
		Skip  int          `json:"skip"`
		Limit int          `json:"limit"`
		Items []models.Tag `json:"items"`
	}{
		Total: page.Total,
		Skip:  page.Skip,
		Limit: page.Limit,
		Items: mapper.ToModelTagList(page.Items),
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// UpdateTag edits tag fields.
func (h *Handler) UpdateTag(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}
	var body models.UpdateTagRequest
	if !h.parseBody(c, &body) {
		return nil
	}

	res, err := h.uc.UpdateTag(c.Context(), id, entities.TagPatch{
		Name:        body.Name,
		Category:    body.Category,
		Description: body.Description,
		Color:       body.Color,
	})
	if err != nil {
		h.log.Errorw("failed to update tag", "tag_id", id, "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(mapper.ToModelTag(*res))
}

// DeleteTag removes a tag everywhere.
func (h *Handler) DeleteTag(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	if err := h.uc.DeleteTag(c.Context(), id); err != nil {
		h.log.Errorw("failed to delete tag", "tag_id", id, "error", err.Error())
		return writeError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}

// TagEntry links a tag to an entry.
func (h *Handler) TagEntry(c *fiber.Ctx) error {
	entryID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}
	var body models.TagEntryRequest
	if !h.parseBody(c, &body) {
		return nil
	}

	res, err := h.uc.TagEntry(c.Context(), entryID, body.TagID, actor(c))
	if err != nil {
		h.log.Errorw("failed to tag entry", "entry_id", entryID, "tag_id", body.TagID, "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(mapper.ToModelEntryTag(*res))
}

// UntagEntry removes a tag from an entry.
func (h *Handler) UntagEntry(c *fiber.Ctx) error {
	entryID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}
	tagID, ok := parseUUIDParam(c, "tagID")
	if !ok {
		return nil
	}

	if err := h.uc.UntagEntry(c.Context(), entryID, tagID); err != nil {
		h.log.Errorw("failed to untag entry", "entry_id", entryID, "tag_id", tagID, "error", err.Error())
		return writeError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}

// ListEntryTags returns the tags linked to an entry.
func (h *Handler) ListEntryTags(c *fiber.Ctx) error {
	entryID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	tags, err := h.uc.EntryTags(c.Context(), entryID)
	if err != nil {
		return writeError(c, err)
	}

	resp := struct {
		EntryID string            `json:"entry_id"`
		Tags    []models.EntryTag `json:"tags"`
	}{
		EntryID: entryID.String(),
		Tags:    mapper.ToModelEntryTagList(tags),
	}
	return c.Status(http.StatusOK).JSON(resp)
}
