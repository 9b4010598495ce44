package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"ecotrack/internal/config"
	"ecotrack/internal/middleware"
	"ecotrack/internal/repository"
	"ecotrack/internal/service"
	"ecotrack/internal/validator"
)

type Handler struct {
	cfg      *config.Config
	store    *session.Store
	validate *validator.Validator
	repo     repository.Repository
	activity *service.ActivityService
	summary  *service.SummaryService
	events   *service.EventService
	auth     *service.AuthService
	targets  *service.TargetService
}

func NewHandler(cfg *config.Config, store *session.Store, repo repository.Repository, limiter service.AttemptLimiter) *Handler {
	return &Handler{
		cfg:      cfg,
		store:    store,
		validate: validator.New(),
		repo:     repo,
		activity: service.NewActivityService(repo),
		summary:  service.NewSummaryService(repo),
		events:   service.NewEventService(repo),
		auth:     service.NewAuthService(repo, limiter),
		targets:  service.NewTargetService(repo),
	}
}

// RegisterRoutes wires all endpoints. Every /api route runs behind the
// actor-resolving middleware; admin routes additionally require a session
// user with the admin flag.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.Health)

	api := app.Group("/api", middleware.CurrentActor(h.store, h.cfg))

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", middleware.RequireAuth(), h.Me)

	// Activity and summary routes act on behalf of someone; they refuse
	// when neither a session user nor a default actor is available.
	actor := middleware.RequireActor()
	api.Get("/car-co2", actor, h.GetCarRecords)
	api.Post("/car-co2", actor, h.CreateCarRecord)
	api.Get("/ac-co2", actor, h.GetACRecords)
	api.Post("/ac-co2", actor, h.CreateACRecord)
	api.Get("/snow-removal", actor, h.GetSnowRemovalRecords)
	api.Post("/snow-removal", actor, h.CreateSnowRemovalRecord)

	api.Get("/daily-summary", actor, h.GetDailySummary)
	api.Get("/co2-records", actor, h.GetCO2Records)

	api.Get("/events", h.ListEvents)
	api.Post("/events", h.CreateEvent)
	api.Post("/events/participation", actor, h.RegisterParticipation)
	api.Delete("/events/participation/:eventId", middleware.RequireAuth(), h.CancelParticipation)

	api.Get("/targets", middleware.RequireAuth(), h.GetMonthlyTarget)
	api.Put("/targets", middleware.RequireAuth(), h.SetMonthlyTarget)

	admin := api.Group("/admin", middleware.RequireAuth(), middleware.RequireAdmin(h.repo))
	admin.Get("/users", h.ListUsers)
	admin.Get("/user-summaries", h.GetUserSummaries)
	admin.Get("/user-summaries/:userId", h.GetUserSummary)
	admin.Get("/event-participations", h.ListParticipations)
	admin.Put("/event-participations", h.UpdateParticipationStatus)
}
