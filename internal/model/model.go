package model

import (
	"time"

	"github.com/google/uuid"

	"ecotrack/internal/emission"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser is the subset of User safe to expose in listings and joins.
type PublicUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

// CarRecord stores one month of car usage for a user. TargetMonth is the
// bucket key, always the first instant of the month; at most one row exists
// per (user, month).
type CarRecord struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"userId"`
	TargetMonth     time.Time         `json:"targetMonth"`
	MonthlyDistance float64           `json:"monthlyDistance"`
	FuelEfficiency  float64           `json:"fuelEfficiency"`
	FuelType        emission.FuelType `json:"fuelType"`
	CO2Emission     float64           `json:"co2Emission"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// ACRecord stores one day of air-conditioner usage for a user. Date is the
// bucket key, always the first instant of the day; at most one row exists
// per (user, day).
type ACRecord struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"userId"`
	Date             time.Time `json:"date"`
	UsageHours       float64   `json:"usageHours"`
	PowerConsumption float64   `json:"powerConsumption"`
	Temperature      float64   `json:"temperature"`
	CO2Emission      float64   `json:"co2Emission"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// SnowRemovalRecord stores one snow-clearing session. Append-only: every
// submission creates a new row, there is no per-day merge.
type SnowRemovalRecord struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	Date         time.Time `json:"date"`
	Area         float64   `json:"area"`
	SnowDepth    float64   `json:"snowDepth"`
	TimeSpent    float64   `json:"timeSpent"`
	CO2Reduction float64   `json:"co2Reduction"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Event struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Organizer   string    `json:"organizer"`
	Contact     string    `json:"contact"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ParticipationStatus string

const (
	ParticipationPending  ParticipationStatus = "pending"
	ParticipationApproved ParticipationStatus = "approved"
	ParticipationRejected ParticipationStatus = "rejected"
)

func (s ParticipationStatus) Valid() bool {
	switch s {
	case ParticipationPending, ParticipationApproved, ParticipationRejected:
		return true
	}
	return false
}

type EventParticipation struct {
	ID        uuid.UUID           `json:"id"`
	EventID   uuid.UUID           `json:"eventId"`
	UserID    uuid.UUID           `json:"userId"`
	Status    ParticipationStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
}

// ParticipationDetail is a participation joined with its user and event, as
// returned by the admin listing.
type ParticipationDetail struct {
	EventParticipation
	User  PublicUser `json:"user"`
	Event Event      `json:"event"`
}

// MonthlyTarget is a per-user reduction goal for one month bucket.
type MonthlyTarget struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	TargetMonth time.Time `json:"targetMonth"`
	CarTarget   float64   `json:"carTarget"`
	ACTarget    float64   `json:"acTarget"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DailyActivity tags a single day's record with its source for the daily
// summary activity list.
type DailyActivity struct {
	Source   string  `json:"source"`
	Emission float64 `json:"emission"`
}

const (
	SourceCar         = "car"
	SourceAC          = "ac"
	SourceSnowRemoval = "snow_removal"
)

type DailySummary struct {
	TodayEmission          float64         `json:"todayEmission"`
	Activities             []DailyActivity `json:"activities"`
	MonthlyAverageEmission float64         `json:"monthlyAverageEmission"`
	ComparisonPercentage   float64         `json:"comparisonPercentage"`
	MonthlyTotalEmission   float64         `json:"monthlyTotalEmission"`
}

// UserMonthlySummary is the per-user monthly rollup. TotalCO2 is net:
// emissions minus snow-removal credits.
type UserMonthlySummary struct {
	UserID         uuid.UUID      `json:"userId"`
	TotalCO2       float64        `json:"totalCO2"`
	CarCO2         float64        `json:"carCO2"`
	ACCO2          float64        `json:"acCO2"`
	SnowRemovalCO2 float64        `json:"snowRemovalCO2"`
	Target         *MonthlyTarget `json:"target,omitempty"`
}

// MonthRecords bundles the raw records of one user's month.
type MonthRecords struct {
	CarRecords  []CarRecord         `json:"carRecords"`
	ACRecords   []ACRecord          `json:"acRecords"`
	SnowRecords []SnowRemovalRecord `json:"snowRecords"`
}
