package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ecotrack/internal/model"
	"ecotrack/internal/period"
)

// Repository defines the persistence contract used by the services.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user model.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.PublicUser, error)

	// Car records (one row per user and month, atomic upsert)
	UpsertCarRecord(ctx context.Context, record model.CarRecord) (model.CarRecord, error)
	ListCarRecords(ctx context.Context, userID uuid.UUID, window period.Window) ([]model.CarRecord, error)
	SumCarEmissions(ctx context.Context, userID uuid.UUID, window period.Window) (float64, error)

	// AC records (one row per user and day, atomic upsert)
	UpsertACRecord(ctx context.Context, record model.ACRecord) (model.ACRecord, error)
	ListACRecords(ctx context.Context, userID uuid.UUID, window period.Window) ([]model.ACRecord, error)
	SumACEmissions(ctx context.Context, userID uuid.UUID, window period.Window) (float64, error)

	// Snow removal records (append-only)
	CreateSnowRemovalRecord(ctx context.Context, record model.SnowRemovalRecord) error
	ListSnowRemovalRecords(ctx context.Context, userID uuid.UUID, window period.Window) ([]model.SnowRemovalRecord, error)
	SumSnowRemovalReductions(ctx context.Context, userID uuid.UUID, window period.Window) (float64, error)

	// Events and participation
	CreateEvent(ctx context.Context, event model.Event) error
	GetEventByID(ctx context.Context, id uuid.UUID) (model.Event, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	CreateParticipation(ctx context.Context, participation model.EventParticipation) error
	DeleteParticipation(ctx context.Context, eventID, userID uuid.UUID) error
	ListParticipations(ctx context.Context) ([]model.ParticipationDetail, error)
	UpdateParticipationStatus(ctx context.Context, id uuid.UUID, status model.ParticipationStatus) (model.ParticipationDetail, error)

	// Monthly targets
	UpsertMonthlyTarget(ctx context.Context, target model.MonthlyTarget) (model.MonthlyTarget, error)
	GetMonthlyTarget(ctx context.Context, userID uuid.UUID, month time.Time) (model.MonthlyTarget, error)

	// Database operations
	Migrate(ctx context.Context) error
	HealthCheck(ctx context.Context) error
}
