package handlers

import (
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"talentscreen/job-screening/internal/middleware"
	"talentscreen/job-screening/internal/models"
	"talentscreen/job-screening/internal/repositories"
	"talentscreen/job-screening/internal/services"
)

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /upload. Both files are required: one CV and
// one project report, each stored with its SHA-256 checksum and typed so
// the evaluate endpoint can reject swapped ids.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to parse multipart form")
	}

	cvFile := firstFile(form, "cv")
	projectFile := firstFile(form, "project_report")
	if cvFile == nil || projectFile == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Both 'cv' and 'project_report' PDF files are required")
	}

	userID := middleware.UserID(c)

	cvStored, err := h.storeFile(cvFile)
	if err != nil {
		return err
	}

	projectStored, err := h.storeFile(projectFile)
	if err != nil {
		// Orphaned CV file is cleaned up so a half-failed upload leaves no
		// referencable document behind.
		h.storageService.DeleteFile(cvStored.Filename)
		return err
	}

	cvDoc := &models.Document{
		OwnerID:      userID,
		DocType:      models.DocTypeCandidateCV,
		Checksum:     cvStored.Checksum,
		FilePath:     cvStored.FilePath,
		OriginalName: cvFile.Filename,
	}
	projectDoc := &models.Document{
		OwnerID:      userID,
		DocType:      models.DocTypeCandidateProject,
		Checksum:     projectStored.Checksum,
		FilePath:     projectStored.FilePath,
		OriginalName: projectFile.Filename,
	}

	if err := h.docRepo.Create(cvDoc); err != nil {
		h.storageService.DeleteFile(cvStored.Filename)
		h.storageService.DeleteFile(projectStored.Filename)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save CV document record")
	}
	if err := h.docRepo.Create(projectDoc); err != nil {
		h.storageService.DeleteFile(projectStored.Filename)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save project report document record")
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		CVDocumentID:      cvDoc.ID.String(),
		ProjectDocumentID: projectDoc.ID.String(),
	})
}

func (h *UploadHandler) storeFile(file *multipart.FileHeader) (*services.StoredFile, error) {
	if file.Size > h.maxFileSize {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize))
	}

	stored, err := h.storageService.SaveFile(file, "document")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("failed to save file: %v", err))
	}
	return stored, nil
}

func firstFile(form *multipart.Form, key string) *multipart.FileHeader {
	files, ok := form.File[key]
	if !ok || len(files) == 0 {
		return nil
	}
	return files[0]
}
