package server

import (
	"time"

	"folio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// labelCount is a label with the number of posts or projects using it.
type labelCount struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	PostCount    *int64    `json:"post_count,omitempty"`
	ProjectCount *int64    `json:"project_count,omitempty"`
}

func toLabelCounts(usage []models.LabelUsage, projects bool) []labelCount {
	out := make([]labelCount, len(usage))
	for i, u := range usage {
		n := u.Usage
		out[i] = labelCount{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}
		if projects {
			out[i].ProjectCount = &n
		} else {
			out[i].PostCount = &n
		}
	}
	return out
}

// ListTags handles GET /api/tags
// @Summary List tags
// @Description Every tag with its post count, newest first
// @Tags labels
// @Produce json
// @Success 200 {array} labelCount
// @Router /tags [get]
func (s *Server) ListTags(c *fiber.Ctx) error {
	usage, err := s.tagService.ListTags(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(toLabelCounts(usage, false))
}

// ListTechnologies handles GET /api/technologies
func (s *Server) ListTechnologies(c *fiber.Ctx) error {
	usage, err := s.tagService.ListTechnologies(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(toLabelCounts(usage, true))
}
