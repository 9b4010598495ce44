package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ecotrack/internal/emission"
	"ecotrack/internal/model"
	"ecotrack/internal/period"
	"ecotrack/internal/repository"
)

// SummaryService computes daily and monthly rollups. Aggregates are never
// persisted; every summary is computed from the records at read time. The
// independent window reads are issued concurrently since they are read-only
// and touch disjoint tables.
type SummaryService struct {
	repo repository.Repository
}

func NewSummaryService(repo repository.Repository) *SummaryService {
	return &SummaryService{repo: repo}
}

// DailySummary summarizes one user's emissions for the day containing date.
// The reference value is the seasonal household baseline for that calendar
// month; todayEmission counts emission-producing sources only, while the
// activity list also tags snow-removal credits.
func (s *SummaryService) DailySummary(ctx context.Context, userID uuid.UUID, date time.Time) (model.DailySummary, error) {
	day := period.Day(date)
	month := period.Month(date)

	var (
		carRecords  []model.CarRecord
		acRecords   []model.ACRecord
		snowRecords []model.SnowRemovalRecord
		monthCar    float64
		monthAC     float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		carRecords, err = s.repo.ListCarRecords(gctx, userID, day)
		return err
	})
	g.Go(func() (err error) {
		acRecords, err = s.repo.ListACRecords(gctx, userID, day)
		return err
	})
	g.Go(func() (err error) {
		snowRecords, err = s.repo.ListSnowRemovalRecords(gctx, userID, day)
		return err
	})
	g.Go(func() (err error) {
		monthCar, err = s.repo.SumCarEmissions(gctx, userID, month)
		return err
	})
	g.Go(func() (err error) {
		monthAC, err = s.repo.SumACEmissions(gctx, userID, month)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.DailySummary{}, err
	}

	activities := make([]model.DailyActivity, 0, len(carRecords)+len(acRecords)+len(snowRecords))
	var todayEmission float64
	for _, rec := range carRecords {
		activities = append(activities, model.DailyActivity{Source: model.SourceCar, Emission: rec.CO2Emission})
		todayEmission += rec.CO2Emission
	}
	for _, rec := range acRecords {
		activities = append(activities, model.DailyActivity{Source: model.SourceAC, Emission: rec.CO2Emission})
		todayEmission += rec.CO2Emission
	}
	for _, rec := range snowRecords {
		activities = append(activities, model.DailyActivity{Source: model.SourceSnowRemoval, Emission: rec.CO2Reduction})
	}
	todayEmission = emission.Round2(todayEmission)

	baseline := emission.SeasonalDailyBaseline(date.UTC().Month())

	return model.DailySummary{
		TodayEmission:          todayEmission,
		Activities:             activities,
		MonthlyAverageEmission: baseline,
		ComparisonPercentage:   emission.ComparisonPercentage(todayEmission, baseline),
		MonthlyTotalEmission:   emission.Round2(monthCar + monthAC),
	}, nil
}

// userSummary sums one user's month. Snow removal is a credit: the total is
// net, emissions minus reductions.
func (s *SummaryService) userSummary(ctx context.Context, userID uuid.UUID, window period.Window) (model.UserMonthlySummary, error) {
	var carCO2, acCO2, snowCO2 float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		carCO2, err = s.repo.SumCarEmissions(gctx, userID, window)
		return err
	})
	g.Go(func() (err error) {
		acCO2, err = s.repo.SumACEmissions(gctx, userID, window)
		return err
	})
	g.Go(func() (err error) {
		snowCO2, err = s.repo.SumSnowRemovalReductions(gctx, userID, window)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.UserMonthlySummary{}, err
	}

	return model.UserMonthlySummary{
		UserID:         userID,
		TotalCO2:       emission.Round2(carCO2 + acCO2 - snowCO2),
		CarCO2:         emission.Round2(carCO2),
		ACCO2:          emission.Round2(acCO2),
		SnowRemovalCO2: emission.Round2(snowCO2),
	}, nil
}

// MonthlySummaryPerUser computes the monthly rollup for every known user.
// A user without records in the month yields all-zero sums, not an error.
func (s *SummaryService) MonthlySummaryPerUser(ctx context.Context, month time.Time) ([]model.UserMonthlySummary, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	window := period.Month(month)
	summaries := make([]model.UserMonthlySummary, len(users))

	g, gctx := errgroup.WithContext(ctx)
	for i, user := range users {
		i, user := i, user
		g.Go(func() error {
			summary, err := s.userSummary(gctx, user.ID, window)
			if err != nil {
				return err
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// SingleUserMonthlySummary computes the monthly rollup for one user, with
// the user's reduction target attached when one exists for the month.
func (s *SummaryService) SingleUserMonthlySummary(ctx context.Context, userID uuid.UUID, month time.Time) (model.UserMonthlySummary, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return model.UserMonthlySummary{}, err
	}

	summary, err := s.userSummary(ctx, userID, period.Month(month))
	if err != nil {
		return model.UserMonthlySummary{}, err
	}

	target, err := s.repo.GetMonthlyTarget(ctx, userID, period.MonthOf(month))
	switch {
	case err == nil:
		summary.Target = &target
	case !errors.Is(err, repository.ErrTargetNotFound):
		return model.UserMonthlySummary{}, err
	}
	return summary, nil
}

// MonthRecords returns the raw car, AC and snow-removal records of one
// user's month, newest first.
func (s *SummaryService) MonthRecords(ctx context.Context, userID uuid.UUID, month time.Time) (model.MonthRecords, error) {
	window := period.Month(month)
	var records model.MonthRecords

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		records.CarRecords, err = s.repo.ListCarRecords(gctx, userID, window)
		return err
	})
	g.Go(func() (err error) {
		records.ACRecords, err = s.repo.ListACRecords(gctx, userID, window)
		return err
	})
	g.Go(func() (err error) {
		records.SnowRecords, err = s.repo.ListSnowRemovalRecords(gctx, userID, window)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.MonthRecords{}, err
	}

	// Empty months serialize as empty arrays, never null.
	if records.CarRecords == nil {
		records.CarRecords = []model.CarRecord{}
	}
	if records.ACRecords == nil {
		records.ACRecords = []model.ACRecord{}
	}
	if records.SnowRecords == nil {
		records.SnowRecords = []model.SnowRemovalRecord{}
	}
	return records, nil
}
