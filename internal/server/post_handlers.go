package server

import (
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListPosts handles GET /api/blogs
// @Summary List posts
// @Description Newest first. Anonymous callers only see published posts.
// @Tags blogs
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param size query int false "Page size"
// @Param status query string false "published, hidden or draft"
// @Param tag query string false "Only posts with this tag"
// @Success 200 {object} models.PostPage
// @Router /blogs [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	page, err := s.blogService.ListPosts(c.UserContext(), middleware.CurrentIdentity(c), service.ListPostsInput{
		Status: models.PostStatus(c.Query("status")),
		Tag:    c.Query("tag"),
		Page:   c.QueryInt("page", 1),
		Size:   c.QueryInt("size", service.DefaultPageSize),
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(page)
}

// GetPost handles GET /api/blogs/:id
// @Summary Get a post
// @Tags blogs
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.blogService.GetPost(c.UserContext(), middleware.CurrentIdentity(c), id, true)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/blogs
// @Summary Create a post
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.PostInput true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /blogs [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.PostInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.blogService.CreatePost(c.UserContext(), middleware.CurrentIdentity(c), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/blogs/:id
// @Summary Update a post
// @Description Replaces content, tags and content images in one transaction
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body service.PostInput true "Post"
// @Success 200 {object} models.Post
// @Router /blogs/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.PostInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.blogService.UpdatePost(c.UserContext(), middleware.CurrentIdentity(c), id, req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/blogs/:id
// @Summary Delete a post
// @Tags blogs
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Router /blogs/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.blogService.DeletePost(c.UserContext(), middleware.CurrentIdentity(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// TogglePostStatus handles PUT /api/blogs/:id/status
func (s *Server) TogglePostStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.blogService.TogglePostStatus(c.UserContext(), middleware.CurrentIdentity(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}
