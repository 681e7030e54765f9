package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/smartschool/admin-backend/internal/dto"
	"github.com/smartschool/admin-backend/internal/services"
)

func respondError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Code: code, Message: message})
}

// respondServerError logs the underlying cause and returns a generic body so
// internal details never leak to clients.
func respondServerError(c *fiber.Ctx, err error) error {
	slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
	return respondError(c, fiber.StatusInternalServerError, dto.CodeServerError, "Internal server error")
}

// respondValidation maps service-level validation failures; returns false
// when err is not a validation error.
func respondValidation(c *fiber.Ctx, err error) (bool, error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return true, respondError(c, fiber.StatusBadRequest, dto.CodeValidation, ve.Error())
	}
	return false, nil
}
