package api

import (
	"github.com/gofiber/fiber/v2"

	"ecotrack/internal/middleware"
	"ecotrack/internal/service"
)

// Register handles POST /api/auth/register. A fresh account is logged in
// immediately so the client does not need a second round trip.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Validate(req); err != nil {
		return writeError(c, err)
	}

	user, err := h.auth.Register(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return writeError(c, err)
	}
	sess.Set("user_id", user.ID.String())
	if err := sess.Save(); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user.Public())
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Validate(req); err != nil {
		return writeError(c, err)
	}

	user, err := h.auth.Login(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return writeError(c, err)
	}
	sess.Set("user_id", user.ID.String())
	if err := sess.Save(); err != nil {
		return writeError(c, err)
	}

	return c.JSON(user.Public())
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := sess.Destroy(); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.auth.GetUser(c.Context(), middleware.ActorID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(user.Public())
}
