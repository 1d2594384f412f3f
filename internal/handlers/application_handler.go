package handlers

import (
	"github.com/gofiber/fiber/v2"

	"talentscreen/job-screening/internal/middleware"
	"talentscreen/job-screening/internal/repositories"
)

type ApplicationHandler struct {
	appRepo repositories.ApplicationRepository
}

func NewApplicationHandler(appRepo repositories.ApplicationRepository) *ApplicationHandler {
	return &ApplicationHandler{
		appRepo: appRepo,
	}
}

// HandleListApplications handles GET /applications. The denormalized status
// and evaluation_result fields on each application come straight from the
// row, no join through evaluation_jobs.
func (h *ApplicationHandler) HandleListApplications(c *fiber.Ctx) error {
	apps, err := h.appRepo.ListByUser(middleware.UserID(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list applications")
	}
	return c.JSON(fiber.Map{"applications": apps})
}
