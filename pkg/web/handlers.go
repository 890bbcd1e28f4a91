// Package web provides HTTP handlers and REST API endpoints for the
// business coaching service.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/vitgar/business-coach-sub001/pkg/models"
	"github.com/vitgar/business-coach-sub001/pkg/persistence"
	"github.com/vitgar/business-coach-sub001/pkg/sections"
	"github.com/vitgar/business-coach-sub001/pkg/services"
)

type APIHandlers struct {
	planService         *services.Plan
	itemService         *services.ActionItems
	conversationService *services.Conversation
	migrationService    *services.Migration
	validator           *validator.Validate
}

func NewAPIHandlers(
	planService *services.Plan,
	itemService *services.ActionItems,
	conversationService *services.Conversation,
	migrationService *services.Migration,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		planService:         planService,
		itemService:         itemService,
		conversationService: conversationService,
		migrationService:    migrationService,
		validator:           validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.planService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Coach API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Coach API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// GetSections returns the section registry metadata, grouped listing
// included.
func (h *APIHandlers) GetSections(c fiber.Ctx) error {
	out := make([]SectionResponse, 0)

	for _, id := range sections.IDs() {
		cfg, err := sections.Get(id)
		if err != nil {
			return internalError(c, err)
		}

		out = append(out, TransformSectionResponse(cfg))
	}

	groupList := make([]sections.Group, 0)

	for _, id := range sections.GroupIDs() {
		g, err := sections.GetGroup(id)
		if err != nil {
			return internalError(c, err)
		}

		groupList = append(groupList, g)
	}

	return c.JSON(fiber.Map{
		"sections": out,
		"groups":   groupList,
	})
}

func (h *APIHandlers) GetSection(c fiber.Ctx) error {
	cfg, err := sections.Get(c.Params("sectionID"))
	if err != nil {
		return notFound(c, "Section not found")
	}

	return c.JSON(TransformSectionResponse(cfg))
}

func (h *APIHandlers) GetBusinessPlans(c fiber.Ctx) error {
	req, err := h.parseListPlansRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.planService.List(c.Context(), *req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"business_plans": result.Plans,
		"total_count":    result.TotalCount,
		"has_next_page":  result.HasNextPage,
		"pagination": fiber.Map{
			"limit":  req.Limit,
			"offset": req.Offset,
		},
		"sorting": fiber.Map{
			"sort_by":    req.SortBy,
			"sort_order": req.SortOrder,
		},
	})
}

func (h *APIHandlers) parseListPlansRequest(c fiber.Ctx) (*services.ListPlansRequest, error) {
	req := &services.ListPlansRequest{}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}

		req.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, err
		}

		req.Offset = offset
	}

	req.Owner = c.Query("owner")

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.PlanStatus(statusStr)
		req.Status = &status
	}

	req.SortBy = c.Query("sort_by")
	req.SortOrder = c.Query("sort_order")

	return req, nil
}

func (h *APIHandlers) GetBusinessPlan(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Business plan ID is required")
	}

	plan, err := h.planService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsPlanNotFound(err) {
			return notFound(c, "Business plan not found")
		}

		return internalError(c, err)
	}

	return c.JSON(plan)
}

func (h *APIHandlers) CreateBusinessPlan(c fiber.Ctx) error {
	var req CreateBusinessPlanRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	plan := &models.BusinessPlan{
		Title:    req.Title,
		Owner:    req.Owner,
		Metadata: req.Metadata,
	}

	created, err := h.planService.Create(c.Context(), plan)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateBusinessPlan(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Business plan ID is required")
	}

	var req UpdateBusinessPlanRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.planService.Update(c.Context(), id, services.UpdatePlanRequest{
		Title:    req.Title,
		Status:   req.Status,
		Metadata: req.Metadata,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteBusinessPlan(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Business plan ID is required")
	}

	err := h.planService.Delete(c.Context(), id)
	if err != nil {
		if persistence.IsPlanNotFound(err) {
			return notFound(c, "Business plan not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetPlanSection(c fiber.Ctx) error {
	state, err := h.planService.GetSection(c.Context(), c.Params("id"), c.Params("sectionID"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(state)
}

func (h *APIHandlers) SavePlanSection(c fiber.Ctx) error {
	var req SaveSectionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	state, err := h.planService.SaveSection(c.Context(), c.Params("id"), c.Params("sectionID"), req.Markdown, req.Data)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(state)
}

func (h *APIHandlers) CompileGroup(c fiber.Ctx) error {
	result, err := h.planService.CompileGroup(c.Context(), c.Params("id"), c.Params("groupID"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

// Chat runs one conversational turn against the completion backend.
// Nothing is persisted; clients save the section explicitly.
func (h *APIHandlers) Chat(c fiber.Ctx) error {
	var req ChatRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.conversationService.Converse(c.Context(), services.ConverseRequest{
		PlanID:    c.Params("id"),
		SectionID: c.Params("sectionID"),
		Messages:  req.Messages,
		Help:      req.Help,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) MigrateUser(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "User ID is required")
	}

	var req MigrateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.migrationService.MigrateUser(c.Context(), id, req.TargetUserID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}
