package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ecotrack/internal/model"
	"ecotrack/internal/repository"
)

var ErrInvalidStatus = errors.New("status must be approved or rejected")

type EventService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewEventService(repo repository.Repository) *EventService {
	return &EventService{repo: repo, now: time.Now}
}

type CreateEventInput struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	Location    string    `json:"location" validate:"required,max=200"`
	Organizer   string    `json:"organizer" validate:"required,max=100"`
	Contact     string    `json:"contact" validate:"required,max=100"`
}

func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (model.Event, error) {
	event := model.Event{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Location:    input.Location,
		Organizer:   input.Organizer,
		Contact:     input.Contact,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return model.Event{}, err
	}
	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.repo.ListEvents(ctx)
}

// Register signs the user up for an event with pending status. The unique
// (event, user) constraint turns a duplicate registration into
// ErrAlreadyRegistered even under concurrent submissions.
func (s *EventService) Register(ctx context.Context, eventID, userID uuid.UUID) (model.EventParticipation, error) {
	if _, err := s.repo.GetEventByID(ctx, eventID); err != nil {
		return model.EventParticipation{}, err
	}

	participation := model.EventParticipation{
		ID:        uuid.New(),
		EventID:   eventID,
		UserID:    userID,
		Status:    model.ParticipationPending,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateParticipation(ctx, participation); err != nil {
		return model.EventParticipation{}, err
	}
	return participation, nil
}

func (s *EventService) Cancel(ctx context.Context, eventID, userID uuid.UUID) error {
	return s.repo.DeleteParticipation(ctx, eventID, userID)
}

func (s *EventService) ListParticipations(ctx context.Context) ([]model.ParticipationDetail, error) {
	return s.repo.ListParticipations(ctx)
}

// UpdateParticipationStatus resolves a pending registration. Only approved
// and rejected are accepted as decisions.
func (s *EventService) UpdateParticipationStatus(ctx context.Context, id uuid.UUID, status model.ParticipationStatus) (model.ParticipationDetail, error) {
	if status != model.ParticipationApproved && status != model.ParticipationRejected {
		return model.ParticipationDetail{}, ErrInvalidStatus
	}
	return s.repo.UpdateParticipationStatus(ctx, id, status)
}
