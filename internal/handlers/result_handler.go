package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"talentscreen/job-screening/internal/middleware"
	"talentscreen/job-screening/internal/models"
	"talentscreen/job-screening/internal/repositories"
)

type ResultHandler struct {
	evalRepo repositories.EvaluationRepository
}

func NewResultHandler(evalRepo repositories.EvaluationRepository) *ResultHandler {
	return &ResultHandler{
		evalRepo: evalRepo,
	}
}

// HandleGetResult handles GET /result/:id, the polling interface. The
// response is a snapshot of the evaluation job's current state: result is
// present iff completed, error iff failed, finished_at iff terminal.
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid evaluation job ID format")
	}

	job, err := h.evalRepo.FindOwnedByID(jobID, middleware.UserID(c))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Evaluation job not found")
	}

	response := models.StatusResponse{
		ID:        job.ID.String(),
		Status:    string(job.Status),
		QueuedAt:  job.CreatedAt,
		StartedAt: job.StartedAt(),
	}

	if job.Status == models.StatusCompleted {
		response.Result = job.Result
	}
	if job.Status == models.StatusFailed {
		response.Error = job.Error
	}
	if job.Status.Terminal() {
		finishedAt := job.UpdatedAt
		response.FinishedAt = &finishedAt
	}

	return c.JSON(response)
}
