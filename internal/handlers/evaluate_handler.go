package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"talentscreen/job-screening/internal/middleware"
	"talentscreen/job-screening/internal/models"
	"talentscreen/job-screening/internal/repositories"
	"talentscreen/job-screening/internal/services"
)

type EvaluateHandler struct {
	evalRepo repositories.EvaluationRepository
	appRepo  repositories.ApplicationRepository
	docRepo  repositories.DocumentRepository
	jobRepo  repositories.JobRepository
	queue    services.TaskQueue
}

func NewEvaluateHandler(
	evalRepo repositories.EvaluationRepository,
	appRepo repositories.ApplicationRepository,
	docRepo repositories.DocumentRepository,
	jobRepo repositories.JobRepository,
	queue services.TaskQueue,
) *EvaluateHandler {
	return &EvaluateHandler{
		evalRepo: evalRepo,
		appRepo:  appRepo,
		docRepo:  docRepo,
		jobRepo:  jobRepo,
		queue:    queue,
	}
}

// HandleEvaluate handles POST /evaluate. All validation happens before any
// record is created; once the application and evaluation job exist the
// request always succeeds and failures are only visible via polling.
func (h *EvaluateHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}

	if req.JobTitle == "" {
		return fiber.NewError(fiber.StatusBadRequest, "job_title is required")
	}

	cvDocID, err := uuid.Parse(req.CVDocumentID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid cv_document_id format")
	}
	projectDocID, err := uuid.Parse(req.ProjectDocumentID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid project_document_id format")
	}

	userID := middleware.UserID(c)

	cvDoc, err := h.docRepo.FindOwnedByID(cvDocID, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "CV document not found")
	}
	projectDoc, err := h.docRepo.FindOwnedByID(projectDocID, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Project document not found")
	}

	if cvDoc.DocType != models.DocTypeCandidateCV {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Document type mismatch. Expected '%s'.", models.DocTypeCandidateCV))
	}
	if projectDoc.DocType != models.DocTypeCandidateProject {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Document type mismatch. Expected '%s'.", models.DocTypeCandidateProject))
	}

	if req.JobID != nil {
		if _, err := h.jobRepo.FindByID(*req.JobID); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Job not found")
		}
	}

	application := &models.Application{
		UserID:            userID,
		JobID:             req.JobID,
		JobTitle:          req.JobTitle,
		CVDocumentID:      cvDocID,
		ProjectDocumentID: projectDocID,
		Status:            models.StatusQueued,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	if err := h.appRepo.Create(application); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create application")
	}

	evalJob := &models.EvaluationJob{
		ID:            uuid.New(),
		ApplicationID: application.ID,
		Status:        models.StatusQueued,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := h.evalRepo.Create(evalJob); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create evaluation job")
	}

	h.queue.Enqueue(services.TaskRunEvaluation, evalJob.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.EvaluateResponse{
		ID:       evalJob.ID.String(),
		Status:   string(models.StatusQueued),
		QueuedAt: evalJob.CreatedAt,
	})
}
