package server

import (
	"errors"

	"verse/internal/middleware"
	"verse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	return param
}

// respondServiceError maps an error from the service layer onto the HTTP
// status the frontend expects. Validation failures, missing resources and
// ownership rejections all surface as 422; authentication failures as 401;
// everything else is a 500 whose details stay server-side.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeValidation, models.CodeNotFound, models.CodeForbidden:
			return models.RespondWithError(c, fiber.StatusUnprocessableEntity, appErr)
		case models.CodeUnauthorized:
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		}
	}

	middleware.Logger.ErrorContext(c.UserContext(), "request handling failed", "error", err.Error())
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// callerIdentity reads the authenticated identity placed in locals by
// AuthRequired.
func callerIdentity(c *fiber.Ctx) (username, displayName string) {
	if v, ok := c.Locals("username").(string); ok {
		username = v
	}
	if v, ok := c.Locals("displayName").(string); ok {
		displayName = v
	}
	return username, displayName
}
