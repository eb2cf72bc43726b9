package handlers

import (
	"errors"
	"fmt"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/studyforge/studyforge/internal/services"
	"github.com/studyforge/studyforge/pkg/types"
)

// WorkerHandler handles the pipeline worker endpoints. These act with
// system authority: no owner constraint, conditional updates only. A
// no-op outcome is reported as applied=false, never as an error, because
// it is the worker's signal to abandon the job.
type WorkerHandler struct {
	service *services.Generation
}

// NewWorkerHandler creates a new worker handler instance
func NewWorkerHandler(service *services.Generation) *WorkerHandler {
	return &WorkerHandler{service: service}
}

// ClaimGeneration moves a queued job to processing
func (h *WorkerHandler) ClaimGeneration(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgInvalidID))
	}

	applied, err := h.service.Claim(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to claim generation: %v", err),
		})
	}
	return c.JSON(types.ApplyResponse{Applied: applied})
}

// ReportProgress advances a processing job's progress
func (h *WorkerHandler) ReportProgress(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgInvalidID))
	}

	var req types.ProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}

	applied, err := h.service.ReportProgress(c.Context(), id, req.Progress, req.Metadata)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidProgress):
			return c.Status(fiber.StatusBadRequest).
				JSON(types.ErrInvalidInput(ErrMsgInvalidProgress))
		case errors.Is(err, services.ErrProgressRegression):
			return c.Status(fiber.StatusBadRequest).
				JSON(types.ErrInvalidInput(ErrMsgProgressBackward))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to report progress: %v", err),
		})
	}
	return c.JSON(types.ApplyResponse{Applied: applied})
}

// CompleteGeneration finishes a processing job with its result reference
func (h *WorkerHandler) CompleteGeneration(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgInvalidID))
	}

	var req types.CompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgResultRefReqd))
	}

	applied, err := h.service.Complete(c.Context(), id, req.ResultRef, req.Metadata)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to complete generation: %v", err),
		})
	}
	return c.JSON(types.ApplyResponse{Applied: applied})
}

// FailGeneration marks a queued or processing job as failed
func (h *WorkerHandler) FailGeneration(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgInvalidID))
	}

	var req types.FailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgErrorReqd))
	}

	applied, err := h.service.Fail(c.Context(), id, req.Error)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to fail generation: %v", err),
		})
	}
	return c.JSON(types.ApplyResponse{Applied: applied})
}
