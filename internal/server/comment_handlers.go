package server

import (
	"verse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /api/poem/comment. The poem ID rides in the body.
func (s *Server) AddComment(c *fiber.Ctx) error {
	var req struct {
		PoemID  uint   `json:"poem_id"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Invalid request body"))
	}
	if req.PoemID == 0 {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Invalid poem ID"))
	}

	username, displayName := callerIdentity(c)
	comment, err := s.poemService.AddComment(c.Context(), username, displayName, req.PoemID, req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": comment})
}

// AddReply handles POST /api/poem/comment/reply. Both the poem and comment
// IDs are required; a comment ID under a different poem is rejected.
func (s *Server) AddReply(c *fiber.Ctx) error {
	var req struct {
		PoemID    uint   `json:"poem_id"`
		CommentID uint   `json:"comment_id"`
		Content   string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Invalid request body"))
	}
	if req.PoemID == 0 || req.CommentID == 0 {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Invalid poem or comment ID"))
	}

	username, displayName := callerIdentity(c)
	reply, err := s.poemService.AddReply(c.Context(), username, displayName, req.PoemID, req.CommentID, req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"reply": reply})
}
