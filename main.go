package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"ecotrack/internal/api"
	"ecotrack/internal/config"
	"ecotrack/internal/database"
	"ecotrack/internal/middleware"
	"ecotrack/internal/repository"
	"ecotrack/internal/service"
	"ecotrack/internal/telemetry"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Missing .env is fine; the environment itself is authoritative.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.NewConfig()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Error("Failed to shut down telemetry", "error", err)
		}
	}()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.NewPostgresRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		return err
	}

	// Sessions live in postgres next to the application data, so a restart
	// does not log anyone out.
	sessionStorage := postgres.New(postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.Name,
		Username: cfg.Database.User,
		Password: cfg.Database.Password,
		Table:    "sessions",
		Reset:    false,
	})

	store := session.New(session.Config{
		Storage:        sessionStorage,
		KeyLookup:      "cookie:" + cfg.Session.CookieName,
		CookiePath:     "/",
		CookieSecure:   cfg.Server.Environment == "production",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		Expiration:     cfg.Session.Expiration,
	})

	var limiter service.AttemptLimiter
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
		defer redisClient.Close()
		limiter = service.NewRateLimiter(redisClient)
	}

	handler := api.NewHandler(cfg, store, repo, limiter)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.Logger())
	if cfg.Telemetry.Enabled {
		app.Use(telemetry.Middleware(cfg.Telemetry.ServiceName))
	}

	handler.RegisterRoutes(app)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("Received signal, shutting down", "signal", sig.String())
		if err := app.Shutdown(); err != nil {
			slog.Error("Failed to shut down server", "error", err)
		}
		cancel()
	}()

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	slog.Info("Starting server", "addr", addr)
	return app.Listen(addr)
}
