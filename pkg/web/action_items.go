package web

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/vitgar/business-coach-sub001/pkg/persistence"
	"github.com/vitgar/business-coach-sub001/pkg/services"
)

func (h *APIHandlers) GetActionItems(c fiber.Ctx) error {
	req, err := h.parseListItemsRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	items, err := h.itemService.List(c.Context(), *req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"action_items": items,
		"count":        len(items),
	})
}

func (h *APIHandlers) parseListItemsRequest(c fiber.Ctx) (*services.ListItemsRequest, error) {
	req := &services.ListItemsRequest{
		Owner:          c.Query("owner"),
		ConversationID: c.Query("conversation_id"),
		MessageID:      c.Query("message_id"),
		Category:       c.Query("category"),
	}

	if v := c.Query("parent_id"); v != "" {
		req.ParentID = &v
	}

	if v := c.Query("list_id"); v != "" {
		req.ListID = &v
	}

	if v := c.Query("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}

		req.Completed = &completed
	}

	if v := c.Query("include_children"); v != "" {
		includeChildren, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}

		req.IncludeChildren = includeChildren
	}

	return req, nil
}

func (h *APIHandlers) GetActionItem(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Action item ID is required")
	}

	item, err := h.itemService.GetByID(c.Context(), id)
	if err != nil {
		if persistence.IsActionItemNotFound(err) {
			return notFound(c, "Action item not found")
		}

		return internalError(c, err)
	}

	return c.JSON(item)
}

func (h *APIHandlers) CreateActionItem(c fiber.Ctx) error {
	var req CreateActionItemRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.itemService.Create(c.Context(), services.CreateItemRequest{
		Content:        req.Content,
		Category:       req.Category,
		Owner:          req.Owner,
		Ordinal:        req.Ordinal,
		Notes:          req.Notes,
		ParentID:       req.ParentID,
		ListID:         req.ListID,
		ConversationID: req.ConversationID,
		MessageID:      req.MessageID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateActionItem(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Action item ID is required")
	}

	var req UpdateActionItemRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.itemService.Update(c.Context(), id, services.UpdateItemRequest{
		Content:  req.Content,
		Category: req.Category,
		Ordinal:  req.Ordinal,
		ListID:   req.ListID,
		ParentID: req.ParentID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) ToggleActionItem(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Action item ID is required")
	}

	updated, err := h.itemService.ToggleComplete(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) SetActionItemNotes(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Action item ID is required")
	}

	var req SetNotesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	updated, err := h.itemService.SetNotes(c.Context(), id, req.Notes)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteActionItem(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Action item ID is required")
	}

	err := h.itemService.Delete(c.Context(), id)
	if err != nil {
		if persistence.IsActionItemNotFound(err) {
			return notFound(c, "Action item not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetActionLists(c fiber.Ctx) error {
	lists, err := h.itemService.ListLists(c.Context(), c.Query("owner"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"action_lists": lists,
		"count":        len(lists),
	})
}

func (h *APIHandlers) CreateActionList(c fiber.Ctx) error {
	var req CreateActionListRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.itemService.CreateList(c.Context(), req.Name, req.Owner)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) RenameActionList(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Action list ID is required")
	}

	var req RenameActionListRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	renamed, err := h.itemService.RenameList(c.Context(), id, req.Name)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(renamed)
}
