package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ecotrack/internal/middleware"
	"ecotrack/internal/model"
	"ecotrack/internal/service"
)

func (h *Handler) ListEvents(c *fiber.Ctx) error {
	events, err := h.events.ListEvents(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	if events == nil {
		events = []model.Event{}
	}
	return c.JSON(events)
}

func (h *Handler) CreateEvent(c *fiber.Ctx) error {
	var input service.CreateEventInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Validate(input); err != nil {
		return writeError(c, err)
	}

	event, err := h.events.CreateEvent(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(event)
}

type registerParticipationRequest struct {
	EventID string `json:"eventId"`
}

// RegisterParticipation handles POST /api/events/participation. Duplicate
// registrations for the same event yield a conflict.
func (h *Handler) RegisterParticipation(c *fiber.Ctx) error {
	var req registerParticipationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return badRequest(c, "invalid event ID")
	}

	participation, err := h.events.Register(c.Context(), eventID, middleware.ActorID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(participation)
}

// CancelParticipation handles DELETE /api/events/participation/:eventId for
// the logged-in user.
func (h *Handler) CancelParticipation(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return badRequest(c, "invalid event ID")
	}

	if err := h.events.Cancel(c.Context(), eventID, middleware.ActorID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
