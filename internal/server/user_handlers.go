package server

import (
	"folio/internal/middleware"
	"folio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetAdminProfile handles GET /api/users/admin-profile
func (s *Server) GetAdminProfile(c *fiber.Ctx) error {
	profile, err := s.userService.AdminProfile(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// UpdateAvatar handles PUT /api/users/avatar
func (s *Server) UpdateAvatar(c *fiber.Ctx) error {
	var req struct {
		Avatar string `json:"avatar"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateAvatar(c.UserContext(), middleware.CurrentIdentity(c), req.Avatar)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}
