package api

import (
	"github.com/gofiber/fiber/v2"

	"ecotrack/internal/middleware"
	"ecotrack/internal/model"
	"ecotrack/internal/service"
)

// CreateCarRecord handles POST /api/car-co2. One record per month bucket:
// resubmitting within the same month updates the stored record in place.
func (h *Handler) CreateCarRecord(c *fiber.Ctx) error {
	var input service.CarUsageInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Validate(input); err != nil {
		return writeError(c, err)
	}

	record, err := h.activity.RecordCarUsage(c.Context(), middleware.ActorID(c), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(record)
}

func (h *Handler) GetCarRecords(c *fiber.Ctx) error {
	records, err := h.activity.CurrentMonthCarRecords(c.Context(), middleware.ActorID(c))
	if err != nil {
		return writeError(c, err)
	}
	if records == nil {
		records = []model.CarRecord{}
	}
	return c.JSON(records)
}

// CreateACRecord handles POST /api/ac-co2, merging into the day bucket.
func (h *Handler) CreateACRecord(c *fiber.Ctx) error {
	var input service.ACUsageInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Validate(input); err != nil {
		return writeError(c, err)
	}

	record, err := h.activity.RecordACUsage(c.Context(), middleware.ActorID(c), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(record)
}

func (h *Handler) GetACRecords(c *fiber.Ctx) error {
	records, err := h.activity.TodayACRecords(c.Context(), middleware.ActorID(c))
	if err != nil {
		return writeError(c, err)
	}
	if records == nil {
		records = []model.ACRecord{}
	}
	return c.JSON(records)
}

// CreateSnowRemovalRecord handles POST /api/snow-removal. Append-only:
// every submission creates a new record.
func (h *Handler) CreateSnowRemovalRecord(c *fiber.Ctx) error {
	var input service.SnowRemovalInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Validate(input); err != nil {
		return writeError(c, err)
	}

	record, err := h.activity.RecordSnowRemoval(c.Context(), middleware.ActorID(c), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(record)
}

func (h *Handler) GetSnowRemovalRecords(c *fiber.Ctx) error {
	records, err := h.activity.TodaySnowRemovalRecords(c.Context(), middleware.ActorID(c))
	if err != nil {
		return writeError(c, err)
	}
	if records == nil {
		records = []model.SnowRemovalRecord{}
	}
	return c.JSON(records)
}
