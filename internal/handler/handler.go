package handler

import (
	"errors"

	"go-helpdesk-api/internal/errs"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helpers to pull user info out of the JWT context (set by auth middleware).
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// fail maps the error taxonomy onto HTTP statuses in one place.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errs.IsValidation(err):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, errs.ErrTicketNotFound), errors.Is(err, errs.ErrMovementNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, errs.ErrInsufficientStock):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
