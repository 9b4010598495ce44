package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecotrack/internal/model"
	"ecotrack/internal/repository"
	"ecotrack/internal/service"
	"ecotrack/internal/testutil"
)

func TestCreateAndListEvents(t *testing.T) {
	repo := testutil.NewFakeRepository()
	svc := service.NewEventService(repo)

	event, err := svc.CreateEvent(context.Background(), service.CreateEventInput{
		Title:       "River cleanup",
		Description: "Monthly riverside litter pick.",
		Date:        time.Now().AddDate(0, 0, 7),
		Location:    "East bank",
		Organizer:   "Green Blocks",
		Contact:     "green@example.com",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)

	events, err := svc.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "River cleanup", events[0].Title)
}

func TestRegisterStartsPending(t *testing.T) {
	repo := testutil.NewFakeRepository()
	svc := service.NewEventService(repo)
	userID := uuid.New()

	event, err := svc.CreateEvent(context.Background(), service.CreateEventInput{
		Title: "Cleanup", Description: "d", Date: time.Now(),
		Location: "l", Organizer: "o", Contact: "c",
	})
	require.NoError(t, err)

	participation, err := svc.Register(context.Background(), event.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, model.ParticipationPending, participation.Status)
}

func TestRegisterUnknownEvent(t *testing.T) {
	repo := testutil.NewFakeRepository()
	svc := service.NewEventService(repo)

	_, err := svc.Register(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
}

func TestRegisterTwiceConflicts(t *testing.T) {
	repo := testutil.NewFakeRepository()
	svc := service.NewEventService(repo)
	userID := uuid.New()

	event, err := svc.CreateEvent(context.Background(), service.CreateEventInput{
		Title: "Cleanup", Description: "d", Date: time.Now(),
		Location: "l", Organizer: "o", Contact: "c",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), event.ID, userID)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), event.ID, userID)
	assert.ErrorIs(t, err, repository.ErrAlreadyRegistered)
}

func TestCancel(t *testing.T) {
	repo := testutil.NewFakeRepository()
	svc := service.NewEventService(repo)
	userID := uuid.New()

	event, err := svc.CreateEvent(context.Background(), service.CreateEventInput{
		Title: "Cleanup", Description: "d", Date: time.Now(),
		Location: "l", Organizer: "o", Contact: "c",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), event.ID, userID)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), event.ID, userID))

	// Cancelling again reports that nothing was registered.
	err = svc.Cancel(context.Background(), event.ID, userID)
	assert.ErrorIs(t, err, repository.ErrParticipationNotFound)
}

func TestUpdateParticipationStatus(t *testing.T) {
	repo := testutil.NewFakeRepository()
	svc := service.NewEventService(repo)

	user := model.User{ID: uuid.New(), Username: "taro", Email: "taro@example.com"}
	require.NoError(t, repo.CreateUser(context.Background(), user))

	event, err := svc.CreateEvent(context.Background(), service.CreateEventInput{
		Title: "Cleanup", Description: "d", Date: time.Now(),
		Location: "l", Organizer: "o", Contact: "c",
	})
	require.NoError(t, err)

	participation, err := svc.Register(context.Background(), event.ID, user.ID)
	require.NoError(t, err)

	detail, err := svc.UpdateParticipationStatus(context.Background(), participation.ID, model.ParticipationApproved)
	require.NoError(t, err)
	assert.Equal(t, model.ParticipationApproved, detail.Status)
	assert.Equal(t, user.Username, detail.User.Username)
	assert.Equal(t, event.Title, detail.Event.Title)
}

func TestUpdateParticipationStatusRejectsInvalid(t *testing.T) {
	repo := testutil.NewFakeRepository()
	svc := service.NewEventService(repo)

	// Pending is the initial state, not a decision an admin can set.
	for _, status := range []model.ParticipationStatus{"pending", "maybe", ""} {
		_, err := svc.UpdateParticipationStatus(context.Background(), uuid.New(), status)
		assert.ErrorIs(t, err, service.ErrInvalidStatus, "status %q", status)
	}
}

func TestUpdateParticipationStatusUnknownID(t *testing.T) {
	repo := testutil.NewFakeRepository()
	svc := service.NewEventService(repo)

	_, err := svc.UpdateParticipationStatus(context.Background(), uuid.New(), model.ParticipationRejected)
	assert.ErrorIs(t, err, repository.ErrParticipationNotFound)
}
