package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"ecotrack/internal/database"
	"ecotrack/internal/model"
	"ecotrack/internal/period"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailTaken            = errors.New("email already registered")
	ErrEventNotFound         = errors.New("event not found")
	ErrParticipationNotFound = errors.New("participation not found")
	ErrAlreadyRegistered     = errors.New("already registered for this event")
	ErrTargetNotFound        = errors.New("monthly target not found")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

type PostgresRepository struct {
	db *database.PostgresDatabase
}

func NewPostgresRepository(db *database.PostgresDatabase) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Migrate creates the schema if it does not exist. The unique indexes on
// (user_id, bucket) back the atomic upserts: without them two concurrent
// submissions for the same bucket could produce two rows.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tbl_user (
			id UUID PRIMARY KEY,
			username VARCHAR(100) NOT NULL,
			email VARCHAR(100) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tbl_car_record (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES tbl_user(id),
			target_month TIMESTAMPTZ NOT NULL,
			monthly_distance DOUBLE PRECISION NOT NULL,
			fuel_efficiency DOUBLE PRECISION NOT NULL,
			fuel_type VARCHAR(20) NOT NULL,
			co2_emission DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, target_month)
		);`,
		`CREATE TABLE IF NOT EXISTS tbl_ac_record (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES tbl_user(id),
			date TIMESTAMPTZ NOT NULL,
			usage_hours DOUBLE PRECISION NOT NULL,
			power_consumption DOUBLE PRECISION NOT NULL,
			temperature DOUBLE PRECISION NOT NULL,
			co2_emission DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, date)
		);`,
		`CREATE TABLE IF NOT EXISTS tbl_snow_removal_record (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES tbl_user(id),
			date TIMESTAMPTZ NOT NULL,
			area DOUBLE PRECISION NOT NULL,
			snow_depth DOUBLE PRECISION NOT NULL,
			time_spent DOUBLE PRECISION NOT NULL,
			co2_reduction DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tbl_event (
			id UUID PRIMARY KEY,
			title VARCHAR(200) NOT NULL,
			description TEXT NOT NULL,
			event_date TIMESTAMPTZ NOT NULL,
			location VARCHAR(200) NOT NULL,
			organizer VARCHAR(100) NOT NULL,
			contact VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tbl_event_participation (
			id UUID PRIMARY KEY,
			event_id UUID NOT NULL REFERENCES tbl_event(id),
			user_id UUID NOT NULL REFERENCES tbl_user(id),
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (event_id, user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS tbl_monthly_target (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES tbl_user(id),
			target_month TIMESTAMPTZ NOT NULL,
			car_target DOUBLE PRECISION NOT NULL,
			ac_target DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, target_month)
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			k VARCHAR(255) PRIMARY KEY,
			v BYTEA,
			e BIGINT
		);`,
	}

	for _, stmt := range statements {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	slog.Info("Database migration completed")
	return nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user model.User) error {
	_, err := r.db.Exec(ctx, `INSERT INTO tbl_user (id, username, email, password_hash, is_admin, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.IsAdmin, user.CreatedAt)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var user model.User
	err := r.db.QueryRow(ctx, `SELECT id, username, email, password_hash, is_admin, created_at FROM tbl_user WHERE id = $1`, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := r.db.QueryRow(ctx, `SELECT id, username, email, password_hash, is_admin, created_at FROM tbl_user WHERE email = $1`, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]model.PublicUser, error) {
	rows, err := r.db.Query(ctx, `SELECT id, username, email FROM tbl_user ORDER BY username ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.PublicUser
	for rows.Next() {
		var user model.PublicUser
		if err := rows.Scan(&user.ID, &user.Username, &user.Email); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

const carRecordColumns = `id, user_id, target_month, monthly_distance, fuel_efficiency, fuel_type, co2_emission, created_at, updated_at`

func scanCarRecord(row pgx.Row) (model.CarRecord, error) {
	var rec model.CarRecord
	err := row.Scan(&rec.ID, &rec.UserID, &rec.TargetMonth, &rec.MonthlyDistance, &rec.FuelEfficiency,
		&rec.FuelType, &rec.CO2Emission, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

// UpsertCarRecord inserts the record or, when a row for the same
// (user, month) bucket exists, overwrites its measured fields in a single
// statement. The existing row keeps its id and created_at.
func (r *PostgresRepository) UpsertCarRecord(ctx context.Context, record model.CarRecord) (model.CarRecord, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO tbl_car_record (`+carRecordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (user_id, target_month) DO UPDATE SET
			monthly_distance = EXCLUDED.monthly_distance,
			fuel_efficiency = EXCLUDED.fuel_efficiency,
			fuel_type = EXCLUDED.fuel_type,
			co2_emission = EXCLUDED.co2_emission,
			updated_at = EXCLUDED.updated_at
		RETURNING `+carRecordColumns,
		record.ID, record.UserID, record.TargetMonth, record.MonthlyDistance,
		record.FuelEfficiency, record.FuelType, record.CO2Emission, record.CreatedAt)
	return scanCarRecord(row)
}

func (r *PostgresRepository) ListCarRecords(ctx context.Context, userID uuid.UUID, window period.Window) ([]model.CarRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+carRecordColumns+` FROM tbl_car_record
		WHERE user_id = $1 AND target_month >= $2 AND target_month < $3
		ORDER BY target_month DESC`,
		userID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.CarRecord
	for rows.Next() {
		rec, err := scanCarRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PostgresRepository) SumCarEmissions(ctx context.Context, userID uuid.UUID, window period.Window) (float64, error) {
	var sum float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(co2_emission), 0) FROM tbl_car_record
		WHERE user_id = $1 AND target_month >= $2 AND target_month < $3`,
		userID, window.Start, window.End).Scan(&sum)
	return sum, err
}

const acRecordColumns = `id, user_id, date, usage_hours, power_consumption, temperature, co2_emission, created_at, updated_at`

func scanACRecord(row pgx.Row) (model.ACRecord, error) {
	var rec model.ACRecord
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.UsageHours, &rec.PowerConsumption,
		&rec.Temperature, &rec.CO2Emission, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

func (r *PostgresRepository) UpsertACRecord(ctx context.Context, record model.ACRecord) (model.ACRecord, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO tbl_ac_record (`+acRecordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (user_id, date) DO UPDATE SET
			usage_hours = EXCLUDED.usage_hours,
			power_consumption = EXCLUDED.power_consumption,
			temperature = EXCLUDED.temperature,
			co2_emission = EXCLUDED.co2_emission,
			updated_at = EXCLUDED.updated_at
		RETURNING `+acRecordColumns,
		record.ID, record.UserID, record.Date, record.UsageHours,
		record.PowerConsumption, record.Temperature, record.CO2Emission, record.CreatedAt)
	return scanACRecord(row)
}

func (r *PostgresRepository) ListACRecords(ctx context.Context, userID uuid.UUID, window period.Window) ([]model.ACRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+acRecordColumns+` FROM tbl_ac_record
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date DESC`,
		userID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.ACRecord
	for rows.Next() {
		rec, err := scanACRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PostgresRepository) SumACEmissions(ctx context.Context, userID uuid.UUID, window period.Window) (float64, error) {
	var sum float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(co2_emission), 0) FROM tbl_ac_record
		WHERE user_id = $1 AND date >= $2 AND date < $3`,
		userID, window.Start, window.End).Scan(&sum)
	return sum, err
}

func (r *PostgresRepository) CreateSnowRemovalRecord(ctx context.Context, record model.SnowRemovalRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tbl_snow_removal_record (id, user_id, date, area, snow_depth, time_spent, co2_reduction, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.ID, record.UserID, record.Date, record.Area, record.SnowDepth,
		record.TimeSpent, record.CO2Reduction, record.CreatedAt)
	return err
}

func (r *PostgresRepository) ListSnowRemovalRecords(ctx context.Context, userID uuid.UUID, window period.Window) ([]model.SnowRemovalRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, date, area, snow_depth, time_spent, co2_reduction, created_at
		FROM tbl_snow_removal_record
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date DESC`,
		userID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.SnowRemovalRecord
	for rows.Next() {
		var rec model.SnowRemovalRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.Area, &rec.SnowDepth,
			&rec.TimeSpent, &rec.CO2Reduction, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PostgresRepository) SumSnowRemovalReductions(ctx context.Context, userID uuid.UUID, window period.Window) (float64, error) {
	var sum float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(co2_reduction), 0) FROM tbl_snow_removal_record
		WHERE user_id = $1 AND date >= $2 AND date < $3`,
		userID, window.Start, window.End).Scan(&sum)
	return sum, err
}

func (r *PostgresRepository) CreateEvent(ctx context.Context, event model.Event) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tbl_event (id, title, description, event_date, location, organizer, contact, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID, event.Title, event.Description, event.Date, event.Location,
		event.Organizer, event.Contact, event.CreatedAt)
	return err
}

func (r *PostgresRepository) GetEventByID(ctx context.Context, id uuid.UUID) (model.Event, error) {
	var event model.Event
	err := r.db.QueryRow(ctx, `
		SELECT id, title, description, event_date, location, organizer, contact, created_at
		FROM tbl_event WHERE id = $1`, id).
		Scan(&event.ID, &event.Title, &event.Description, &event.Date, &event.Location,
			&event.Organizer, &event.Contact, &event.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Event{}, ErrEventNotFound
		}
		return model.Event{}, err
	}
	return event, nil
}

func (r *PostgresRepository) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, description, event_date, location, organizer, contact, created_at
		FROM tbl_event ORDER BY event_date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var event model.Event
		if err := rows.Scan(&event.ID, &event.Title, &event.Description, &event.Date,
			&event.Location, &event.Organizer, &event.Contact, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *PostgresRepository) CreateParticipation(ctx context.Context, participation model.EventParticipation) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tbl_event_participation (id, event_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		participation.ID, participation.EventID, participation.UserID,
		participation.Status, participation.CreatedAt)
	if err != nil {
		switch pgErrCode(err) {
		case pgUniqueViolation:
			return ErrAlreadyRegistered
		case pgForeignKeyViolation:
			return ErrEventNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) DeleteParticipation(ctx context.Context, eventID, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tbl_event_participation WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrParticipationNotFound
	}
	return nil
}

const participationDetailQuery = `
	SELECT p.id, p.event_id, p.user_id, p.status, p.created_at,
		u.id, u.username, u.email,
		e.id, e.title, e.description, e.event_date, e.location, e.organizer, e.contact, e.created_at
	FROM tbl_event_participation p
	JOIN tbl_user u ON p.user_id = u.id
	JOIN tbl_event e ON p.event_id = e.id`

func scanParticipationDetail(row pgx.Row) (model.ParticipationDetail, error) {
	var d model.ParticipationDetail
	err := row.Scan(&d.ID, &d.EventID, &d.UserID, &d.Status, &d.CreatedAt,
		&d.User.ID, &d.User.Username, &d.User.Email,
		&d.Event.ID, &d.Event.Title, &d.Event.Description, &d.Event.Date,
		&d.Event.Location, &d.Event.Organizer, &d.Event.Contact, &d.Event.CreatedAt)
	return d, err
}

func (r *PostgresRepository) ListParticipations(ctx context.Context) ([]model.ParticipationDetail, error) {
	rows, err := r.db.Query(ctx, participationDetailQuery+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []model.ParticipationDetail
	for rows.Next() {
		d, err := scanParticipationDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *PostgresRepository) UpdateParticipationStatus(ctx context.Context, id uuid.UUID, status model.ParticipationStatus) (model.ParticipationDetail, error) {
	tag, err := r.db.Exec(ctx, `UPDATE tbl_event_participation SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return model.ParticipationDetail{}, err
	}
	if tag.RowsAffected() == 0 {
		return model.ParticipationDetail{}, ErrParticipationNotFound
	}

	detail, err := scanParticipationDetail(r.db.QueryRow(ctx, participationDetailQuery+` WHERE p.id = $1`, id))
	if err != nil {
		return model.ParticipationDetail{}, err
	}
	return detail, nil
}

const monthlyTargetColumns = `id, user_id, target_month, car_target, ac_target, created_at, updated_at`

func (r *PostgresRepository) UpsertMonthlyTarget(ctx context.Context, target model.MonthlyTarget) (model.MonthlyTarget, error) {
	var t model.MonthlyTarget
	err := r.db.QueryRow(ctx, `
		INSERT INTO tbl_monthly_target (`+monthlyTargetColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id, target_month) DO UPDATE SET
			car_target = EXCLUDED.car_target,
			ac_target = EXCLUDED.ac_target,
			updated_at = EXCLUDED.updated_at
		RETURNING `+monthlyTargetColumns,
		target.ID, target.UserID, target.TargetMonth, target.CarTarget, target.ACTarget, target.CreatedAt).
		Scan(&t.ID, &t.UserID, &t.TargetMonth, &t.CarTarget, &t.ACTarget, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PostgresRepository) GetMonthlyTarget(ctx context.Context, userID uuid.UUID, month time.Time) (model.MonthlyTarget, error) {
	var t model.MonthlyTarget
	err := r.db.QueryRow(ctx, `
		SELECT `+monthlyTargetColumns+` FROM tbl_monthly_target
		WHERE user_id = $1 AND target_month = $2`, userID, month).
		Scan(&t.ID, &t.UserID, &t.TargetMonth, &t.CarTarget, &t.ACTarget, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MonthlyTarget{}, ErrTargetNotFound
		}
		return model.MonthlyTarget{}, err
	}
	return t, nil
}

func (r *PostgresRepository) HealthCheck(ctx context.Context) error {
	return r.db.Ping(ctx)
}
