package server

import (
	"verse/internal/models"
	"verse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/user
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.Context(), req)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user.Basics())
}

// AccountLog handles GET /api/user/log. It returns the basics of the account
// behind the presented token.
func (s *Server) AccountLog(c *fiber.Ctx) error {
	username, _ := callerIdentity(c)

	user, err := s.userService.Account(c.Context(), username)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user.Basics())
}

// Likes handles GET /api/user/likes. It returns the IDs of every poem the
// caller has liked, for the frontend to mark like buttons.
func (s *Server) Likes(c *fiber.Ctx) error {
	username, _ := callerIdentity(c)

	ids, err := s.userService.LikedPoemIDs(c.Context(), username)
	if err != nil {
		return respondServiceError(c, err)
	}
	if ids == nil {
		ids = []uint{}
	}

	return c.JSON(fiber.Map{"likes": ids})
}

// DeleteUser handles DELETE /api/user/:id
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	username, _ := callerIdentity(c)
	if err := s.userService.DeleteAccount(c.Context(), username, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
