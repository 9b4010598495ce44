package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	validatorlib "github.com/go-playground/validator/v10"

	"ecotrack/internal/emission"
	"ecotrack/internal/repository"
	"ecotrack/internal/service"
)

// writeError maps the error taxonomy to a transport status and a stable
// machine-readable code. Anything unclassified is logged and surfaced as a
// generic server error, with no internal detail leaked.
func writeError(c *fiber.Ctx, err error) error {
	var validationErr *emission.ValidationError
	var fieldErrs validatorlib.ValidationErrors

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":  "validation_error",
			"error": validationErr.Error(),
		})
	case errors.As(err, &fieldErrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":  "validation_error",
			"error": fieldErrs.Error(),
		})
	case errors.Is(err, service.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":  "validation_error",
			"error": err.Error(),
		})
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrParticipationNotFound),
		errors.Is(err, repository.ErrTargetNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"code":  "not_found",
			"error": err.Error(),
		})
	case errors.Is(err, repository.ErrAlreadyRegistered),
		errors.Is(err, repository.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":  "conflict",
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"code":  "invalid_credentials",
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrTooManyAttempts):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"code":  "too_many_attempts",
			"error": "too many attempts, please try again later",
		})
	}

	slog.Error("Request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"code":  "store_error",
		"error": "internal server error",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"code":  "validation_error",
		"error": message,
	})
}
