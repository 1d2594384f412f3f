package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"talentscreen/job-screening/internal/middleware"
	"talentscreen/job-screening/internal/models"
	"talentscreen/job-screening/internal/repositories"
)

type JobHandler struct {
	jobRepo repositories.JobRepository
}

func NewJobHandler(jobRepo repositories.JobRepository) *JobHandler {
	return &JobHandler{
		jobRepo: jobRepo,
	}
}

// HandleListJobs handles GET /jobs
func (h *JobHandler) HandleListJobs(c *fiber.Ctx) error {
	jobs, err := h.jobRepo.List()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list jobs")
	}
	return c.JSON(fiber.Map{"jobs": jobs})
}

// HandleGetJob handles GET /jobs/:id
func (h *JobHandler) HandleGetJob(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid job ID format")
	}

	job, err := h.jobRepo.FindByID(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Job not found")
	}
	return c.JSON(job)
}

// HandleCreateJob handles POST /jobs. Creating jobs is an admin-only
// privileged action.
func (h *JobHandler) HandleCreateJob(c *fiber.Ctx) error {
	if !middleware.IsAdmin(c) {
		return fiber.NewError(fiber.StatusForbidden, "Only admin users can create jobs")
	}

	var req models.JobCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}

	if req.JobCode == "" || req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "job_code and title are required")
	}

	job := &models.Job{
		JobCode:      req.JobCode,
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		SalaryRange:  req.SalaryRange,
		Location:     req.Location,
	}

	if err := h.jobRepo.Create(job); err != nil {
		if errors.Is(err, repositories.ErrDuplicateJobCode) {
			return fiber.NewError(fiber.StatusConflict, "Job code already exists")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create job")
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}
