package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ecotrack/internal/api"
	"ecotrack/internal/config"
	"ecotrack/internal/model"
	"ecotrack/internal/period"
	"ecotrack/internal/testutil"
)

type testServer struct {
	app  *fiber.App
	repo *testutil.FakeRepository
	cfg  *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.DefaultActorID = uuid.New()

	repo := testutil.NewFakeRepository()
	store := session.New()

	app := fiber.New()
	handler := api.NewHandler(cfg, store, repo, nil)
	handler.RegisterRoutes(app)

	return &testServer{app: app, repo: repo, cfg: cfg}
}

func (s *testServer) request(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCreateCarRecord(t *testing.T) {
	s := newTestServer(t)

	resp := s.request(t, http.MethodPost, "/api/car-co2", fiber.Map{
		"distance":       500,
		"fuelEfficiency": 15,
		"fuelType":       "regular",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	record := decode[model.CarRecord](t, resp)
	assert.Equal(t, 77.33, record.CO2Emission)
	assert.Equal(t, s.cfg.App.DefaultActorID, record.UserID, "unauthenticated writes go to the default actor")

	// The GET surfaces the record for the running month.
	resp = s.request(t, http.MethodGet, "/api/car-co2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	records := decode[[]model.CarRecord](t, resp)
	require.Len(t, records, 1)
}

func TestCreateCarRecordInvalidFuel(t *testing.T) {
	s := newTestServer(t)

	resp := s.request(t, http.MethodPost, "/api/car-co2", fiber.Map{
		"distance":       500,
		"fuelEfficiency": 15,
		"fuelType":       "electric",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Equal(t, "validation_error", body["code"])
}

func TestCreateACRecordRejectsTemperature(t *testing.T) {
	s := newTestServer(t)

	resp := s.request(t, http.MethodPost, "/api/ac-co2", fiber.Map{
		"usageHours":       8,
		"powerConsumption": 1.5,
		"temperature":      15,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Equal(t, "validation_error", body["code"])
}

func TestCreateSnowRemovalRecord(t *testing.T) {
	s := newTestServer(t)

	resp := s.request(t, http.MethodPost, "/api/snow-removal", fiber.Map{
		"area":      50,
		"snowDepth": 15,
		"timeSpent": 60,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	record := decode[model.SnowRemovalRecord](t, resp)
	assert.Equal(t, 45.0, record.CO2Reduction)
}

func TestDailySummaryEndpoint(t *testing.T) {
	s := newTestServer(t)

	resp := s.request(t, http.MethodPost, "/api/ac-co2", fiber.Map{
		"usageHours":       8,
		"powerConsumption": 1.5,
		"temperature":      25,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.request(t, http.MethodGet, "/api/daily-summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summary := decode[model.DailySummary](t, resp)
	assert.Equal(t, 5.48, summary.TodayEmission)
	require.Len(t, summary.Activities, 1)
	assert.Equal(t, model.SourceAC, summary.Activities[0].Source)
	assert.Greater(t, summary.MonthlyAverageEmission, 0.0)
}

func TestDailySummaryRejectsBadDate(t *testing.T) {
	s := newTestServer(t)

	resp := s.request(t, http.MethodGet, "/api/daily-summary?date=15-01-2024", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCO2RecordsRequiresMonth(t *testing.T) {
	s := newTestServer(t)

	resp := s.request(t, http.MethodGet, "/api/co2-records", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.request(t, http.MethodGet, "/api/co2-records?month="+period.FormatMonth(time.Now()), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	records := decode[model.MonthRecords](t, resp)
	assert.NotNil(t, records.CarRecords)
}

func TestEventLifecycle(t *testing.T) {
	s := newTestServer(t)

	resp := s.request(t, http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]model.Event](t, resp))

	resp = s.request(t, http.MethodPost, "/api/events", fiber.Map{
		"title":       "River cleanup",
		"description": "Monthly riverside litter pick.",
		"date":        time.Now().AddDate(0, 0, 7).Format(time.RFC3339),
		"location":    "East bank",
		"organizer":   "Green Blocks",
		"contact":     "green@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	event := decode[model.Event](t, resp)

	resp = s.request(t, http.MethodPost, "/api/events/participation", fiber.Map{
		"eventId": event.ID.String(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	participation := decode[model.EventParticipation](t, resp)
	assert.Equal(t, model.ParticipationPending, participation.Status)

	// Registering twice for the same event conflicts.
	resp = s.request(t, http.MethodPost, "/api/events/participation", fiber.Map{
		"eventId": event.ID.String(),
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "conflict", body["code"])
}

func TestRegisterParticipationUnknownEvent(t *testing.T) {
	s := newTestServer(t)

	resp := s.request(t, http.MethodPost, "/api/events/participation", fiber.Map{
		"eventId": uuid.New().String(),
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	resp := s.request(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"username": "taro",
		"email":    "taro@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	cookie := sessionCookie(t, resp)

	resp = s.request(t, http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[model.PublicUser](t, resp)
	assert.Equal(t, "taro@example.com", me.Email)

	// Without the session cookie the protected endpoint refuses.
	resp = s.request(t, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginInvalidCredentials(t *testing.T) {
	s := newTestServer(t)

	resp := s.request(t, http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Equal(t, "invalid_credentials", body["code"])
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	s := newTestServer(t)

	// Anonymous requests are rejected before the admin check.
	resp := s.request(t, http.MethodGet, "/api/admin/users", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A plain user is authenticated but not authorized.
	resp = s.request(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"username": "taro",
		"email":    "taro@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cookie := sessionCookie(t, resp)

	resp = s.request(t, http.MethodGet, "/api/admin/users", nil, cookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminUserSummaries(t *testing.T) {
	s := newTestServer(t)
	cookie := loginAsAdmin(t, s)

	month := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	user := model.User{ID: uuid.New(), Username: "taro", Email: "taro@example.com"}
	require.NoError(t, s.repo.CreateUser(context.Background(), user))
	_, err := s.repo.UpsertCarRecord(context.Background(), model.CarRecord{
		ID: uuid.New(), UserID: user.ID, TargetMonth: month, CO2Emission: 50,
	})
	require.NoError(t, err)

	resp := s.request(t, http.MethodGet, "/api/admin/user-summaries?month=2024-01", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summaries := decode[[]model.UserMonthlySummary](t, resp)
	require.Len(t, summaries, 2, "admin and the regular user")

	resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/admin/user-summaries/%s?month=2024-01", user.ID), nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[model.UserMonthlySummary](t, resp)
	assert.Equal(t, 50.0, summary.TotalCO2)

	// Month is mandatory for the rollups.
	resp = s.request(t, http.MethodGet, "/api/admin/user-summaries", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminParticipationDecision(t *testing.T) {
	s := newTestServer(t)
	cookie := loginAsAdmin(t, s)

	event := model.Event{ID: uuid.New(), Title: "Cleanup", Date: time.Now(), CreatedAt: time.Now()}
	require.NoError(t, s.repo.CreateEvent(context.Background(), event))

	user := model.User{ID: uuid.New(), Username: "taro", Email: "taro@example.com"}
	require.NoError(t, s.repo.CreateUser(context.Background(), user))

	participation := model.EventParticipation{
		ID: uuid.New(), EventID: event.ID, UserID: user.ID,
		Status: model.ParticipationPending, CreatedAt: time.Now(),
	}
	require.NoError(t, s.repo.CreateParticipation(context.Background(), participation))

	resp := s.request(t, http.MethodPut, "/api/admin/event-participations", fiber.Map{
		"participationId": participation.ID.String(),
		"status":          "approved",
	}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[model.ParticipationDetail](t, resp)
	assert.Equal(t, model.ParticipationApproved, detail.Status)

	// Pending is not a decision.
	resp = s.request(t, http.MethodPut, "/api/admin/event-participations", fiber.Map{
		"participationId": participation.ID.String(),
		"status":          "pending",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMonthlyTargetEndpoints(t *testing.T) {
	s := newTestServer(t)

	// Targets are tied to a session user.
	resp := s.request(t, http.MethodPut, "/api/targets", fiber.Map{
		"month": "2024-03", "carTarget": 80, "acTarget": 30,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	registerResp := s.request(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"username": "taro",
		"email":    "taro@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, registerResp.StatusCode)
	cookie := sessionCookie(t, registerResp)

	resp = s.request(t, http.MethodPut, "/api/targets", fiber.Map{
		"month": "2024-03", "carTarget": 80, "acTarget": 30,
	}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.request(t, http.MethodGet, "/api/targets?month=2024-03", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	target := decode[model.MonthlyTarget](t, resp)
	assert.Equal(t, 80.0, target.CarTarget)

	resp = s.request(t, http.MethodGet, "/api/targets?month=2024-04", nil, cookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// A malformed month is the client's fault, never a server error.
	resp = s.request(t, http.MethodPut, "/api/targets", fiber.Map{
		"month": "March 2024", "carTarget": 80, "acTarget": 30,
	}, cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "validation_error", body["code"])
}

func TestActivityRoutesRequireActor(t *testing.T) {
	s := newTestServer(t)
	// No default actor configured, no session: there is nobody to
	// attribute the activity to.
	s.cfg.App.DefaultActorID = uuid.Nil

	resp := s.request(t, http.MethodPost, "/api/car-co2", fiber.Map{
		"distance":       500,
		"fuelEfficiency": 15,
		"fuelType":       "regular",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "unauthorized", body["code"])

	resp = s.request(t, http.MethodGet, "/api/daily-summary", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A logged-in user is an actor regardless of the default.
	registerResp := s.request(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"username": "taro",
		"email":    "taro@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, registerResp.StatusCode)
	cookie := sessionCookie(t, registerResp)

	resp = s.request(t, http.MethodPost, "/api/car-co2", fiber.Map{
		"distance":       500,
		"fuelEfficiency": 15,
		"fuelType":       "regular",
	}, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	resp := s.request(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "healthy", body["status"])
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "session_id" {
			return cookie
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func loginAsAdmin(t *testing.T, s *testServer) *http.Cookie {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := model.User{
		ID: uuid.New(), Username: "admin", Email: "admin@example.com",
		PasswordHash: string(hash), IsAdmin: true, CreatedAt: time.Now(),
	}
	require.NoError(t, s.repo.CreateUser(context.Background(), admin))

	resp := s.request(t, http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "admin@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return sessionCookie(t, resp)
}
