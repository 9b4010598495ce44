package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"ecotrack/internal/config"
)

// Locals keys set by the actor middleware.
const (
	ActorIDKey       = "actorID"
	AuthenticatedKey = "authenticated"
)

// CurrentActor resolves the acting user for the request: the session user
// when one is logged in, otherwise the configured default actor. Write
// handlers read the actor from locals and never hardcode an identity.
func CurrentActor(store *session.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			slog.Error("Failed to get session", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"code":  "store_error",
				"error": "internal server error",
			})
		}

		if raw, ok := sess.Get("user_id").(string); ok {
			if id, err := uuid.Parse(raw); err == nil {
				c.Locals(ActorIDKey, id)
				c.Locals(AuthenticatedKey, true)
				return c.Next()
			}
		}

		c.Locals(ActorIDKey, cfg.App.DefaultActorID)
		c.Locals(AuthenticatedKey, false)
		return c.Next()
	}
}

// ActorID reads the resolved actor from locals. uuid.Nil means no session
// user and no configured default.
func ActorID(c *fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals(ActorIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// IsAuthenticated reports whether the actor came from a live session rather
// than the configured fallback.
func IsAuthenticated(c *fiber.Ctx) bool {
	authenticated, ok := c.Locals(AuthenticatedKey).(bool)
	return ok && authenticated
}

// RequireActor rejects requests that resolved to no actor at all: no
// session user and no configured default. Without it an activity write
// would reach the store with a nil user id and fail the foreign key.
func RequireActor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ActorID(c) == uuid.Nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":  "unauthorized",
				"error": "authentication required",
			})
		}
		return c.Next()
	}
}

// RequireAuth rejects requests that are not backed by a session user.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsAuthenticated(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":  "unauthorized",
				"error": "authentication required",
			})
		}
		return c.Next()
	}
}
