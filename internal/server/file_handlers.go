package server

import (
	"io"

	"folio/internal/middleware"
	"folio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadFile handles POST /api/files/upload
// @Summary Upload a file
// @Description Stores the file under a random name. Images also get a WebP preview.
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File"
// @Success 201 {object} service.StoredFile
// @Failure 400 {object} models.ErrorResponse
// @Router /files/upload [post]
func (s *Server) UploadFile(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithAppError(c, models.NewValidationError("No file uploaded"))
	}
	if header.Size > s.fileService.MaxSizeBytes() {
		return models.RespondWithAppError(c, models.NewValidationError("File too large"))
	}

	f, err := header.Open()
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, s.fileService.MaxSizeBytes()+1))
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}

	stored, err := s.fileService.Store(c.UserContext(), middleware.CurrentIdentity(c), header.Filename, content)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stored)
}

// ServeFile handles GET /files/:filename and GET /api/files/:filename
func (s *Server) ServeFile(c *fiber.Ctx) error {
	path, err := s.fileService.Resolve(c.Params("filename"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.SendFile(path)
}
