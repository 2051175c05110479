package server

import (
	"strconv"

	"verse/internal/models"
	"verse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPoem handles GET /api/poem?id=. The poem ID travels as a query
// parameter rather than a route segment, matching what the frontend sends.
func (s *Server) GetPoem(c *fiber.Ctx) error {
	idStr := c.Query("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Invalid poem ID"))
	}

	poem, getErr := s.poemService.GetPoem(c.Context(), uint(id))
	if getErr != nil {
		return respondServiceError(c, getErr)
	}

	return c.JSON(fiber.Map{"poem": poem})
}

// ListPoems handles GET /api/poem/list. Parameter presence matters here:
// an absent search and an empty search are different requests, so the raw
// query args are inspected before values are read.
func (s *Server) ListPoems(c *fiber.Ctx) error {
	args := c.Context().QueryArgs()

	in := service.ListPoemsInput{
		Username:    c.Query("username"),
		UsernameSet: args.Has("username"),
		Search:      c.Query("search"),
		SearchSet:   args.Has("search"),
		LikedOnly:   c.Query("likes") == "true",
	}

	if args.Has("page") {
		page, err := strconv.Atoi(c.Query("page"))
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
				models.NewValidationError("page must be a number"))
		}
		in.Page = page
		in.PageSet = true
	}

	items, err := s.poemService.ListPoems(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"poems": items})
}

// CreatePoem handles POST /api/poem
func (s *Server) CreatePoem(c *fiber.Ctx) error {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Invalid request body"))
	}

	username, _ := callerIdentity(c)
	poem, err := s.poemService.CreatePoem(c.Context(), service.CreatePoemInput{
		Username: username,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"poem": poem})
}

// UpdatePoem handles PUT /api/poem/:id
func (s *Server) UpdatePoem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Invalid request body"))
	}

	username, _ := callerIdentity(c)
	if err := s.poemService.UpdatePoem(c.Context(), service.UpdatePoemInput{
		Username: username,
		PoemID:   id,
		Title:    req.Title,
		Content:  req.Content,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DeletePoem handles DELETE /api/poem/:id
func (s *Server) DeletePoem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	username, _ := callerIdentity(c)
	if err := s.poemService.DeletePoem(c.Context(), username, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// LikePoem handles PUT /api/poem/like/:id. The same request both likes and
// unlikes: whichever state the caller is in, it flips.
func (s *Server) LikePoem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	username, _ := callerIdentity(c)
	if err := s.poemService.ToggleLike(c.Context(), username, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
