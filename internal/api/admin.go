package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ecotrack/internal/model"
	"ecotrack/internal/period"
)

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.repo.ListUsers(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	if users == nil {
		users = []model.PublicUser{}
	}
	return c.JSON(users)
}

// GetUserSummaries handles GET /api/admin/user-summaries?month=YYYY-MM,
// the net monthly rollup for every known user.
func (h *Handler) GetUserSummaries(c *fiber.Ctx) error {
	month, err := period.ParseMonth(c.Query("month"))
	if err != nil {
		return badRequest(c, "month is required, expected YYYY-MM")
	}

	summaries, err := h.summary.MonthlySummaryPerUser(c.Context(), month)
	if err != nil {
		return writeError(c, err)
	}
	if summaries == nil {
		summaries = []model.UserMonthlySummary{}
	}
	return c.JSON(summaries)
}

// GetUserSummary handles GET /api/admin/user-summaries/:userId?month=YYYY-MM.
func (h *Handler) GetUserSummary(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return badRequest(c, "invalid user ID")
	}

	month, err := period.ParseMonth(c.Query("month"))
	if err != nil {
		return badRequest(c, "month is required, expected YYYY-MM")
	}

	summary, err := h.summary.SingleUserMonthlySummary(c.Context(), userID, month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

func (h *Handler) ListParticipations(c *fiber.Ctx) error {
	participations, err := h.events.ListParticipations(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	if participations == nil {
		participations = []model.ParticipationDetail{}
	}
	return c.JSON(participations)
}

type updateParticipationRequest struct {
	ParticipationID string `json:"participationId"`
	Status          string `json:"status"`
}

// UpdateParticipationStatus handles PUT /api/admin/event-participations,
// approving or rejecting a pending registration.
func (h *Handler) UpdateParticipationStatus(c *fiber.Ctx) error {
	var req updateParticipationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	id, err := uuid.Parse(req.ParticipationID)
	if err != nil {
		return badRequest(c, "invalid participation ID")
	}

	detail, err := h.events.UpdateParticipationStatus(c.Context(), id, model.ParticipationStatus(req.Status))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(detail)
}
