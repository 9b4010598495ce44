package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ecotrack/internal/emission"
	"ecotrack/internal/model"
	"ecotrack/internal/period"
	"ecotrack/internal/repository"
)

type TargetService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewTargetService(repo repository.Repository) *TargetService {
	return &TargetService{repo: repo, now: time.Now}
}

type MonthlyTargetInput struct {
	Month     string  `json:"month" validate:"required"`
	CarTarget float64 `json:"carTarget" validate:"required,gt=0"`
	ACTarget  float64 `json:"acTarget" validate:"required,gt=0"`
}

// SetMonthlyTarget upserts the user's reduction goal for the given month
// bucket; one row per (user, month).
func (s *TargetService) SetMonthlyTarget(ctx context.Context, userID uuid.UUID, input MonthlyTargetInput) (model.MonthlyTarget, error) {
	month, err := period.ParseMonth(input.Month)
	if err != nil {
		return model.MonthlyTarget{}, &emission.ValidationError{Field: "month", Message: "expected YYYY-MM"}
	}

	target := model.MonthlyTarget{
		ID:          uuid.New(),
		UserID:      userID,
		TargetMonth: month,
		CarTarget:   input.CarTarget,
		ACTarget:    input.ACTarget,
		CreatedAt:   s.now(),
	}
	return s.repo.UpsertMonthlyTarget(ctx, target)
}

func (s *TargetService) GetMonthlyTarget(ctx context.Context, userID uuid.UUID, month time.Time) (model.MonthlyTarget, error) {
	return s.repo.GetMonthlyTarget(ctx, userID, period.MonthOf(month))
}
