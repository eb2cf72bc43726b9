package handlers

import (
	"errors"
	"fmt"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/studyforge/studyforge/internal/db/models"
	"github.com/studyforge/studyforge/internal/services"
	"github.com/studyforge/studyforge/pkg/api/v1/middleware"
	"github.com/studyforge/studyforge/pkg/types"
)

// GenerationHandler handles the owner-facing generation endpoints
type GenerationHandler struct {
	service *services.Generation
}

// NewGenerationHandler creates a new generation handler instance
func NewGenerationHandler(service *services.Generation) *GenerationHandler {
	return &GenerationHandler{service: service}
}

// SubmitGeneration handles the request to submit a new generation job
func (h *GenerationHandler) SubmitGeneration(c *fiber.Ctx) error {
	var req types.SubmitGenerationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}

	gen, err := h.service.Submit(c.Context(), middleware.OwnerID(c), req.SourceURL)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSource) {
			return c.Status(fiber.StatusBadRequest).
				JSON(types.ErrInvalidInput(ErrMsgInvalidSource))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("%s: %v", ErrMsgGenSubmitFailed, err),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(types.SubmitGenerationResponse{
		ID:     gen.ID,
		Status: gen.Status,
	})
}

// ListGenerations handles the request to list the owner's generation jobs
func (h *GenerationHandler) ListGenerations(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", DefaultPageSize)
	opts := getPaginationOptions(page, limit)

	if statusStr := c.Query("status"); statusStr != "" {
		status, err := models.ParseGenerationStatus(statusStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(types.ErrInvalidInput(ErrMsgInvalidStatus))
		}
		opts.GenerationStatus = &status
	}

	gens, err := h.service.List(c.Context(), middleware.OwnerID(c), opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("%s: %v", ErrMsgGenListFailed, err),
		})
	}

	rows := make([]types.GenerationResponse, len(gens))
	for i := range gens {
		rows[i] = types.NewGenerationResponse(&gens[i])
	}

	return c.JSON(types.ListResponse[types.GenerationResponse]{
		Rows: rows,
		Pagination: types.PaginationResponse{
			Total:  len(rows),
			Page:   page,
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	})
}

// GetGeneration handles the request to get a single generation job
func (h *GenerationHandler) GetGeneration(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		// A malformed ID gets the same answer as a missing one.
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound(ErrMsgGenNotFound))
	}

	gen, err := h.service.Get(c.Context(), middleware.OwnerID(c), id)
	if err != nil {
		if errors.Is(err, services.ErrGenerationNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(types.ErrNotFound(ErrMsgGenNotFound))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("%s: %v", ErrMsgGenGetFailed, err),
		})
	}

	return c.JSON(types.NewGenerationResponse(gen))
}

// CancelGeneration handles the owner's request to cancel a job. Absent,
// foreign, and already-terminal jobs all return the same 404.
func (h *GenerationHandler) CancelGeneration(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound(ErrMsgGenNotFound))
	}

	gen, err := h.service.Cancel(c.Context(), middleware.OwnerID(c), id)
	if err != nil {
		if errors.Is(err, services.ErrGenerationNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(types.ErrNotFound(ErrMsgGenNotFound))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("%s: %v", ErrMsgGenCancelFailed, err),
		})
	}

	return c.JSON(types.CancelGenerationResponse{
		ID:     gen.ID,
		Status: gen.Status,
	})
}
