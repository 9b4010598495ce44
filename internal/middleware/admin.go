package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"ecotrack/internal/repository"
)

// RequireAdmin gates the admin endpoints. Runs after CurrentActor and
// RequireAuth, so the actor is a known session user.
func RequireAdmin(repo repository.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := repo.GetUserByID(c.Context(), ActorID(c))
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"code":  "unauthorized",
					"error": "authentication required",
				})
			}
			slog.Error("Failed to load user for admin check", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"code":  "store_error",
				"error": "internal server error",
			})
		}

		if !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"code":  "forbidden",
				"error": "admin access required",
			})
		}
		return c.Next()
	}
}
