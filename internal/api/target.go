package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"ecotrack/internal/middleware"
	"ecotrack/internal/period"
	"ecotrack/internal/service"
)

// GetMonthlyTarget handles GET /api/targets?month=YYYY-MM. The month
// defaults to the current one.
func (h *Handler) GetMonthlyTarget(c *fiber.Ctx) error {
	month := time.Now()
	if raw := c.Query("month"); raw != "" {
		parsed, err := period.ParseMonth(raw)
		if err != nil {
			return badRequest(c, "invalid month, expected YYYY-MM")
		}
		month = parsed
	}

	target, err := h.targets.GetMonthlyTarget(c.Context(), middleware.ActorID(c), month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(target)
}

func (h *Handler) SetMonthlyTarget(c *fiber.Ctx) error {
	var input service.MonthlyTargetInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Validate(input); err != nil {
		return writeError(c, err)
	}

	target, err := h.targets.SetMonthlyTarget(c.Context(), middleware.ActorID(c), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(target)
}
