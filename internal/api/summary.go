package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ecotrack/internal/middleware"
	"ecotrack/internal/period"
)

// GetDailySummary handles GET /api/daily-summary. Defaults to today;
// ?date=YYYY-MM-DD selects another day.
func (h *Handler) GetDailySummary(c *fiber.Ctx) error {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return badRequest(c, "invalid date, expected YYYY-MM-DD")
		}
		date = parsed
	}

	summary, err := h.summary.DailySummary(c.Context(), middleware.ActorID(c), date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// GetCO2Records handles GET /api/co2-records?userId=&month=YYYY-MM,
// returning the raw records of one user's month. userId defaults to the
// current actor.
func (h *Handler) GetCO2Records(c *fiber.Ctx) error {
	userID := middleware.ActorID(c)
	if raw := c.Query("userId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "invalid userId")
		}
		userID = parsed
	}

	month, err := period.ParseMonth(c.Query("month"))
	if err != nil {
		return badRequest(c, "month is required, expected YYYY-MM")
	}

	records, err := h.summary.MonthRecords(c.Context(), userID, month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(records)
}
