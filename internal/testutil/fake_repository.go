// Package testutil provides in-memory test doubles shared by the service
// and api test suites.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ecotrack/internal/model"
	"ecotrack/internal/period"
	"ecotrack/internal/repository"
)

// FakeRepository is an in-memory repository.Repository honoring the same
// contract as the postgres implementation: bucket upserts preserve row
// identity, uniqueness violations map to the repository sentinels, and
// aggregate queries treat windows as half-open.
type FakeRepository struct {
	mu             sync.Mutex
	users          map[uuid.UUID]model.User
	carRecords     map[string]model.CarRecord
	acRecords      map[string]model.ACRecord
	snowRecords    []model.SnowRemovalRecord
	events         map[uuid.UUID]model.Event
	participations map[uuid.UUID]model.EventParticipation
	targets        map[string]model.MonthlyTarget

	// ForcedErr, when set, fails every call. Simulates a store outage.
	ForcedErr error
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		users:          make(map[uuid.UUID]model.User),
		carRecords:     make(map[string]model.CarRecord),
		acRecords:      make(map[string]model.ACRecord),
		events:         make(map[uuid.UUID]model.Event),
		participations: make(map[uuid.UUID]model.EventParticipation),
		targets:        make(map[string]model.MonthlyTarget),
	}
}

var _ repository.Repository = (*FakeRepository)(nil)

func bucketKey(userID uuid.UUID, bucket time.Time) string {
	return userID.String() + "|" + bucket.UTC().Format(time.RFC3339)
}

func (f *FakeRepository) CreateUser(_ context.Context, user model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return f.ForcedErr
	}
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *FakeRepository) GetUserByID(_ context.Context, id uuid.UUID) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return model.User{}, f.ForcedErr
	}
	user, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *FakeRepository) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return model.User{}, f.ForcedErr
	}
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (f *FakeRepository) ListUsers(_ context.Context) ([]model.PublicUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	users := make([]model.PublicUser, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, user.Public())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (f *FakeRepository) UpsertCarRecord(_ context.Context, record model.CarRecord) (model.CarRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return model.CarRecord{}, f.ForcedErr
	}
	key := bucketKey(record.UserID, record.TargetMonth)
	if existing, ok := f.carRecords[key]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		record.UpdatedAt = time.Now()
	} else {
		record.UpdatedAt = record.CreatedAt
	}
	f.carRecords[key] = record
	return record, nil
}

func (f *FakeRepository) ListCarRecords(_ context.Context, userID uuid.UUID, window period.Window) ([]model.CarRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	var records []model.CarRecord
	for _, record := range f.carRecords {
		if record.UserID == userID && window.Contains(record.TargetMonth) {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].TargetMonth.After(records[j].TargetMonth) })
	return records, nil
}

func (f *FakeRepository) SumCarEmissions(_ context.Context, userID uuid.UUID, window period.Window) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return 0, f.ForcedErr
	}
	var sum float64
	for _, record := range f.carRecords {
		if record.UserID == userID && window.Contains(record.TargetMonth) {
			sum += record.CO2Emission
		}
	}
	return sum, nil
}

func (f *FakeRepository) UpsertACRecord(_ context.Context, record model.ACRecord) (model.ACRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return model.ACRecord{}, f.ForcedErr
	}
	key := bucketKey(record.UserID, record.Date)
	if existing, ok := f.acRecords[key]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		record.UpdatedAt = time.Now()
	} else {
		record.UpdatedAt = record.CreatedAt
	}
	f.acRecords[key] = record
	return record, nil
}

func (f *FakeRepository) ListACRecords(_ context.Context, userID uuid.UUID, window period.Window) ([]model.ACRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	var records []model.ACRecord
	for _, record := range f.acRecords {
		if record.UserID == userID && window.Contains(record.Date) {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.After(records[j].Date) })
	return records, nil
}

func (f *FakeRepository) SumACEmissions(_ context.Context, userID uuid.UUID, window period.Window) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return 0, f.ForcedErr
	}
	var sum float64
	for _, record := range f.acRecords {
		if record.UserID == userID && window.Contains(record.Date) {
			sum += record.CO2Emission
		}
	}
	return sum, nil
}

func (f *FakeRepository) CreateSnowRemovalRecord(_ context.Context, record model.SnowRemovalRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return f.ForcedErr
	}
	f.snowRecords = append(f.snowRecords, record)
	return nil
}

func (f *FakeRepository) ListSnowRemovalRecords(_ context.Context, userID uuid.UUID, window period.Window) ([]model.SnowRemovalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	var records []model.SnowRemovalRecord
	for _, record := range f.snowRecords {
		if record.UserID == userID && window.Contains(record.Date) {
			records = append(records, record)
		}
	}
	return records, nil
}

func (f *FakeRepository) SumSnowRemovalReductions(_ context.Context, userID uuid.UUID, window period.Window) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return 0, f.ForcedErr
	}
	var sum float64
	for _, record := range f.snowRecords {
		if record.UserID == userID && window.Contains(record.Date) {
			sum += record.CO2Reduction
		}
	}
	return sum, nil
}

func (f *FakeRepository) CreateEvent(_ context.Context, event model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return f.ForcedErr
	}
	f.events[event.ID] = event
	return nil
}

func (f *FakeRepository) GetEventByID(_ context.Context, id uuid.UUID) (model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return model.Event{}, f.ForcedErr
	}
	event, ok := f.events[id]
	if !ok {
		return model.Event{}, repository.ErrEventNotFound
	}
	return event, nil
}

func (f *FakeRepository) ListEvents(_ context.Context) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	events := make([]model.Event, 0, len(f.events))
	for _, event := range f.events {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events, nil
}

func (f *FakeRepository) CreateParticipation(_ context.Context, participation model.EventParticipation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return f.ForcedErr
	}
	for _, existing := range f.participations {
		if existing.EventID == participation.EventID && existing.UserID == participation.UserID {
			return repository.ErrAlreadyRegistered
		}
	}
	f.participations[participation.ID] = participation
	return nil
}

func (f *FakeRepository) DeleteParticipation(_ context.Context, eventID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return f.ForcedErr
	}
	for id, existing := range f.participations {
		if existing.EventID == eventID && existing.UserID == userID {
			delete(f.participations, id)
			return nil
		}
	}
	return repository.ErrParticipationNotFound
}

func (f *FakeRepository) ListParticipations(_ context.Context) ([]model.ParticipationDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	details := make([]model.ParticipationDetail, 0, len(f.participations))
	for _, participation := range f.participations {
		details = append(details, f.detailLocked(participation))
	}
	sort.Slice(details, func(i, j int) bool { return details[i].CreatedAt.Before(details[j].CreatedAt) })
	return details, nil
}

func (f *FakeRepository) UpdateParticipationStatus(_ context.Context, id uuid.UUID, status model.ParticipationStatus) (model.ParticipationDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return model.ParticipationDetail{}, f.ForcedErr
	}
	participation, ok := f.participations[id]
	if !ok {
		return model.ParticipationDetail{}, repository.ErrParticipationNotFound
	}
	participation.Status = status
	f.participations[id] = participation
	return f.detailLocked(participation), nil
}

func (f *FakeRepository) detailLocked(participation model.EventParticipation) model.ParticipationDetail {
	return model.ParticipationDetail{
		EventParticipation: participation,
		User:               f.users[participation.UserID].Public(),
		Event:              f.events[participation.EventID],
	}
}

func (f *FakeRepository) UpsertMonthlyTarget(_ context.Context, target model.MonthlyTarget) (model.MonthlyTarget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return model.MonthlyTarget{}, f.ForcedErr
	}
	key := bucketKey(target.UserID, target.TargetMonth)
	if existing, ok := f.targets[key]; ok {
		target.ID = existing.ID
		target.CreatedAt = existing.CreatedAt
		target.UpdatedAt = time.Now()
	} else {
		target.UpdatedAt = target.CreatedAt
	}
	f.targets[key] = target
	return target, nil
}

func (f *FakeRepository) GetMonthlyTarget(_ context.Context, userID uuid.UUID, month time.Time) (model.MonthlyTarget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForcedErr != nil {
		return model.MonthlyTarget{}, f.ForcedErr
	}
	target, ok := f.targets[bucketKey(userID, month)]
	if !ok {
		return model.MonthlyTarget{}, repository.ErrTargetNotFound
	}
	return target, nil
}

func (f *FakeRepository) Migrate(_ context.Context) error {
	return f.ForcedErr
}

func (f *FakeRepository) HealthCheck(_ context.Context) error {
	return f.ForcedErr
}
