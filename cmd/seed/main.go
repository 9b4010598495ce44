package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"ecotrack/internal/config"
	"ecotrack/internal/database"
	"ecotrack/internal/emission"
	"ecotrack/internal/model"
	"ecotrack/internal/period"
	"ecotrack/internal/repository"
)

// Seeds the database with a couple of households and a month of activity,
// enough to exercise every endpoint by hand.
func main() {
	ctx := context.Background()

	_ = godotenv.Load()
	cfg := config.NewConfig()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := repository.NewPostgresRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now().UTC()

	adminUser := model.User{
		ID:           uuid.New(),
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: string(hashedPassword),
		IsAdmin:      true,
		CreatedAt:    now,
	}
	regularUser := model.User{
		ID:           uuid.New(),
		Username:     "taro",
		Email:        "taro@example.com",
		PasswordHash: string(hashedPassword),
		CreatedAt:    now.Add(-24 * time.Hour),
	}

	for _, user := range []model.User{adminUser, regularUser} {
		if err := repo.CreateUser(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", user.Email, err)
		}
		log.Printf("Created user %s (%s)", user.Username, user.Email)
	}

	carEmission, err := emission.CarEmission(500, 15, emission.FuelRegular)
	if err != nil {
		log.Fatalf("Failed to compute car emission: %v", err)
	}
	if _, err := repo.UpsertCarRecord(ctx, model.CarRecord{
		ID:              uuid.New(),
		UserID:          regularUser.ID,
		TargetMonth:     period.MonthOf(now),
		MonthlyDistance: 500,
		FuelEfficiency:  15,
		FuelType:        emission.FuelRegular,
		CO2Emission:     carEmission,
		CreatedAt:       now,
		UpdatedAt:       now,
	}); err != nil {
		log.Fatalf("Failed to create car record: %v", err)
	}

	acEmission, err := emission.ACEmission(8, 1.5, 26)
	if err != nil {
		log.Fatalf("Failed to compute AC emission: %v", err)
	}
	if _, err := repo.UpsertACRecord(ctx, model.ACRecord{
		ID:               uuid.New(),
		UserID:           regularUser.ID,
		Date:             period.DayOf(now),
		UsageHours:       8,
		PowerConsumption: 1.5,
		Temperature:      26,
		CO2Emission:      acEmission,
		CreatedAt:        now,
		UpdatedAt:        now,
	}); err != nil {
		log.Fatalf("Failed to create AC record: %v", err)
	}

	snowReduction, err := emission.SnowRemovalReduction(50, 15, 60)
	if err != nil {
		log.Fatalf("Failed to compute snow removal reduction: %v", err)
	}
	if err := repo.CreateSnowRemovalRecord(ctx, model.SnowRemovalRecord{
		ID:           uuid.New(),
		UserID:       regularUser.ID,
		Date:         now,
		Area:         50,
		SnowDepth:    15,
		TimeSpent:    60,
		CO2Reduction: snowReduction,
		CreatedAt:    now,
	}); err != nil {
		log.Fatalf("Failed to create snow removal record: %v", err)
	}

	if _, err := repo.UpsertMonthlyTarget(ctx, model.MonthlyTarget{
		ID:          uuid.New(),
		UserID:      regularUser.ID,
		TargetMonth: period.MonthOf(now),
		CarTarget:   80,
		ACTarget:    30,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		log.Fatalf("Failed to create monthly target: %v", err)
	}
	log.Printf("Created activity and target for %s", period.FormatMonth(now))

	event := model.Event{
		ID:          uuid.New(),
		Title:       "Neighborhood tree planting",
		Description: "Plant saplings along the riverside path. Tools provided.",
		Date:        now.AddDate(0, 0, 14),
		Location:    "Riverside park, north entrance",
		Organizer:   "Green Blocks Association",
		Contact:     "events@greenblocks.example.com",
		CreatedAt:   now,
	}
	if err := repo.CreateEvent(ctx, event); err != nil {
		log.Fatalf("Failed to create event: %v", err)
	}

	if err := repo.CreateParticipation(ctx, model.EventParticipation{
		ID:        uuid.New(),
		EventID:   event.ID,
		UserID:    regularUser.ID,
		Status:    model.ParticipationPending,
		CreatedAt: now,
	}); err != nil {
		log.Fatalf("Failed to create participation: %v", err)
	}

	log.Println("Seed data created successfully")
	log.Printf("Admin login:   admin@example.com / password123")
	log.Printf("Regular login: taro@example.com / password123")
}
