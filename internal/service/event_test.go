package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ojass-festival/ojass-api/internal/domain"
)

func newEventFixture() (*EventService, *mockRegistrationRepo) {
	users := map[uint]domain.User{
		1: {ID: 1, Role: domain.RoleUser, IsPaid: true},
	}
	regRepo := newMockRegistrationRepo(users)
	svc := NewEventService(&mockEventRepo{events: map[uint]domain.Event{
		1: {ID: 1, Name: "RoboWars", IsTeamEvent: true, TeamSizeMin: 2, TeamSizeMax: 4},
	}}, regRepo)

	return svc, regRepo
}

var (
	eventAdmin = domain.User{ID: 9, Role: domain.RoleAdmin}
	eventUser  = domain.User{ID: 1, Role: domain.RoleUser}
)

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("admin only", func(t *testing.T) {
		svc, _ := newEventFixture()

		_, err := svc.CreateEvent(ctx, eventUser, domain.Event{Name: "Quiz", TeamSizeMin: 1, TeamSizeMax: 1})
		assert.ErrorIs(t, err, ErrAdminRequired)
	})

	t.Run("valid team event", func(t *testing.T) {
		svc, _ := newEventFixture()

		created, err := svc.CreateEvent(ctx, eventAdmin, domain.Event{
			Name:        "Hackathon",
			IsTeamEvent: true,
			TeamSizeMin: 2,
			TeamSizeMax: 5,
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
	})

	t.Run("min below one", func(t *testing.T) {
		svc, _ := newEventFixture()

		_, err := svc.CreateEvent(ctx, eventAdmin, domain.Event{Name: "Quiz", TeamSizeMin: 0, TeamSizeMax: 2})
		assert.ErrorIs(t, err, ErrInvalidTeamBounds)
	})

	t.Run("max below min", func(t *testing.T) {
		svc, _ := newEventFixture()

		_, err := svc.CreateEvent(ctx, eventAdmin, domain.Event{Name: "Quiz", IsTeamEvent: true, TeamSizeMin: 3, TeamSizeMax: 2})
		assert.ErrorIs(t, err, ErrInvalidTeamBounds)
	})

	t.Run("solo event cannot allow teams", func(t *testing.T) {
		svc, _ := newEventFixture()

		_, err := svc.CreateEvent(ctx, eventAdmin, domain.Event{Name: "Quiz", TeamSizeMin: 1, TeamSizeMax: 3})
		assert.ErrorIs(t, err, ErrInvalidTeamBounds)
	})
}

func TestUpdateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("admin only", func(t *testing.T) {
		svc, _ := newEventFixture()

		_, err := svc.UpdateEvent(ctx, eventUser, domain.Event{ID: 1, Name: "RoboWars II", IsTeamEvent: true, TeamSizeMin: 2, TeamSizeMax: 4})
		assert.ErrorIs(t, err, ErrAdminRequired)
	})

	t.Run("unknown event", func(t *testing.T) {
		svc, _ := newEventFixture()

		_, err := svc.UpdateEvent(ctx, eventAdmin, domain.Event{ID: 404, Name: "Ghost", TeamSizeMin: 1, TeamSizeMax: 1})
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("updates bounds", func(t *testing.T) {
		svc, _ := newEventFixture()

		updated, err := svc.UpdateEvent(ctx, eventAdmin, domain.Event{ID: 1, Name: "RoboWars", IsTeamEvent: true, TeamSizeMin: 3, TeamSizeMax: 6})
		require.NoError(t, err)
		assert.Equal(t, 3, updated.TeamSizeMin)
		assert.Equal(t, 6, updated.TeamSizeMax)
	})
}

func TestDeleteEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("admin only", func(t *testing.T) {
		svc, _ := newEventFixture()

		err := svc.DeleteEvent(ctx, eventUser, 1)
		assert.ErrorIs(t, err, ErrAdminRequired)
	})

	t.Run("deletes an event without verified teams", func(t *testing.T) {
		svc, regRepo := newEventFixture()

		_, err := regRepo.Create(ctx, 1, 1, nil)
		require.NoError(t, err)

		err = svc.DeleteEvent(ctx, eventAdmin, 1)
		assert.NoError(t, err)
	})

	t.Run("refuses when verified teams remain", func(t *testing.T) {
		svc, regRepo := newEventFixture()

		created, err := regRepo.Create(ctx, 1, 1, nil)
		require.NoError(t, err)
		require.NoError(t, regRepo.SetVerified(ctx, created.ID, true))

		err = svc.DeleteEvent(ctx, eventAdmin, 1)
		assert.ErrorIs(t, err, ErrEventHasVerifiedTeams)
	})

	t.Run("unknown event", func(t *testing.T) {
		svc, _ := newEventFixture()

		err := svc.DeleteEvent(ctx, eventAdmin, 404)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}
