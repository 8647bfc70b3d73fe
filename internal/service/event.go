package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ojass-festival/ojass-api/internal/domain"
	"github.com/ojass-festival/ojass-api/internal/repository"
)

var (
	ErrInvalidTeamBounds     = errors.New("team size bounds are invalid")
	ErrEventHasVerifiedTeams = errors.New("event still has verified registrations")
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
}

type EventRegistrationRepository interface {
	CountVerifiedByEventID(ctx context.Context, eventID uint) (int64, error)
}

type EventService struct {
	repo    EventRepository
	regRepo EventRegistrationRepository
}

func NewEventService(repo EventRepository, regRepo EventRegistrationRepository) *EventService {
	return &EventService{
		repo:    repo,
		regRepo: regRepo,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, actor domain.User, event domain.Event) (domain.Event, error) {
	if !actor.IsAdmin() {
		return domain.Event{}, ErrAdminRequired
	}

	if err := validateTeamBounds(event); err != nil {
		return domain.Event{}, err
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, actor domain.User, event domain.Event) (domain.Event, error) {
	if !actor.IsAdmin() {
		return domain.Event{}, ErrAdminRequired
	}

	if err := validateTeamBounds(event); err != nil {
		return domain.Event{}, err
	}

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// DeleteEvent refuses to drop an event that still has verified teams;
// those registrations are the festival's attendance record.
func (s *EventService) DeleteEvent(ctx context.Context, actor domain.User, id uint) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}

	verified, err := s.regRepo.CountVerifiedByEventID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.regRepo.CountVerifiedByEventID -> %w", err)
	}
	if verified > 0 {
		return ErrEventHasVerifiedTeams
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func validateTeamBounds(event domain.Event) error {
	if event.TeamSizeMin < 1 || event.TeamSizeMax < event.TeamSizeMin {
		return ErrInvalidTeamBounds
	}
	if !event.IsTeamEvent && event.TeamSizeMax != 1 {
		return ErrInvalidTeamBounds
	}
	return nil
}
