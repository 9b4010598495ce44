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

// ActivityService records emission and reduction activities. Car and AC
// submissions merge into at most one record per (user, bucket) via the
// repository's atomic upserts; snow removal is append-only.
type ActivityService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewActivityService(repo repository.Repository) *ActivityService {
	return &ActivityService{repo: repo, now: time.Now}
}

type CarUsageInput struct {
	Distance       float64 `json:"distance" validate:"required,gt=0"`
	FuelEfficiency float64 `json:"fuelEfficiency" validate:"required,gt=0"`
	FuelType       string  `json:"fuelType" validate:"required,fuel_type"`
}

type ACUsageInput struct {
	UsageHours       float64 `json:"usageHours" validate:"required,gt=0"`
	PowerConsumption float64 `json:"powerConsumption" validate:"required,gt=0"`
	Temperature      float64 `json:"temperature" validate:"required,min=16,max=32"`
}

type SnowRemovalInput struct {
	Area      float64 `json:"area" validate:"required,gt=0"`
	SnowDepth float64 `json:"snowDepth" validate:"required,gt=0"`
	TimeSpent float64 `json:"timeSpent" validate:"required,gt=0"`
}

// RecordCarUsage upserts the actor's car record for the current month
// bucket. Resubmitting within the same month overwrites the measured fields
// and recomputes the emission; the stored row keeps its identity.
func (s *ActivityService) RecordCarUsage(ctx context.Context, userID uuid.UUID, input CarUsageInput) (model.CarRecord, error) {
	co2, err := emission.CarEmission(input.Distance, input.FuelEfficiency, emission.FuelType(input.FuelType))
	if err != nil {
		return model.CarRecord{}, err
	}

	now := s.now()
	record := model.CarRecord{
		ID:              uuid.New(),
		UserID:          userID,
		TargetMonth:     period.MonthOf(now),
		MonthlyDistance: input.Distance,
		FuelEfficiency:  input.FuelEfficiency,
		FuelType:        emission.FuelType(input.FuelType),
		CO2Emission:     co2,
		CreatedAt:       now,
	}
	return s.repo.UpsertCarRecord(ctx, record)
}

// RecordACUsage upserts the actor's air-conditioner record for the current
// day bucket.
func (s *ActivityService) RecordACUsage(ctx context.Context, userID uuid.UUID, input ACUsageInput) (model.ACRecord, error) {
	co2, err := emission.ACEmission(input.UsageHours, input.PowerConsumption, input.Temperature)
	if err != nil {
		return model.ACRecord{}, err
	}

	now := s.now()
	record := model.ACRecord{
		ID:               uuid.New(),
		UserID:           userID,
		Date:             period.DayOf(now),
		UsageHours:       input.UsageHours,
		PowerConsumption: input.PowerConsumption,
		Temperature:      input.Temperature,
		CO2Emission:      co2,
		CreatedAt:        now,
	}
	return s.repo.UpsertACRecord(ctx, record)
}

// RecordSnowRemoval appends a snow-clearing session for the actor. Every
// valid submission is an independent record.
func (s *ActivityService) RecordSnowRemoval(ctx context.Context, userID uuid.UUID, input SnowRemovalInput) (model.SnowRemovalRecord, error) {
	co2, err := emission.SnowRemovalReduction(input.Area, input.SnowDepth, input.TimeSpent)
	if err != nil {
		return model.SnowRemovalRecord{}, err
	}

	now := s.now()
	record := model.SnowRemovalRecord{
		ID:           uuid.New(),
		UserID:       userID,
		Date:         period.DayOf(now),
		Area:         input.Area,
		SnowDepth:    input.SnowDepth,
		TimeSpent:    input.TimeSpent,
		CO2Reduction: co2,
		CreatedAt:    now,
	}
	if err := s.repo.CreateSnowRemovalRecord(ctx, record); err != nil {
		return model.SnowRemovalRecord{}, err
	}
	return record, nil
}

// CurrentMonthCarRecords returns the actor's car record for the running
// month bucket, if any.
func (s *ActivityService) CurrentMonthCarRecords(ctx context.Context, userID uuid.UUID) ([]model.CarRecord, error) {
	return s.repo.ListCarRecords(ctx, userID, period.Month(s.now()))
}

func (s *ActivityService) TodayACRecords(ctx context.Context, userID uuid.UUID) ([]model.ACRecord, error) {
	return s.repo.ListACRecords(ctx, userID, period.Day(s.now()))
}

func (s *ActivityService) TodaySnowRemovalRecords(ctx context.Context, userID uuid.UUID) ([]model.SnowRemovalRecord, error) {
	return s.repo.ListSnowRemovalRecords(ctx, userID, period.Day(s.now()))
}
