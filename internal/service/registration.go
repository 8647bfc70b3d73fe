package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ojass-festival/ojass-api/internal/domain"
	"github.com/ojass-festival/ojass-api/internal/repository"
)

var (
	ErrEventNotFound        = repository.ErrEventNotFound
	ErrRegistrationNotFound = repository.ErrRegistrationNotFound
	ErrAlreadyRegistered    = repository.ErrAlreadyRegistered
	ErrPaymentRequired      = errors.New("user has not paid the registration fee")
	ErrTeamSizeViolation    = errors.New("team size is outside the event bounds")
	ErrInvalidMember        = errors.New("team member is invalid")
	ErrAdminRequired        = errors.New("admin role required")
)

type RegistrationRepository interface {
	Create(ctx context.Context, eventID, leaderID uint, memberIDs []uint) (domain.Registration, error)
	FindByID(ctx context.Context, id uint) (domain.Registration, error)
	SetVerified(ctx context.Context, id uint, verified bool) error
	FindByEventID(ctx context.Context, eventID uint, verifiedOnly bool) ([]domain.Registration, error)
	FindByUserID(ctx context.Context, userID, eventID uint) ([]domain.Registration, error)
	ExistsForUser(ctx context.Context, eventID, userID uint) (bool, error)
}

type RegistrationEventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

type RegistrationUserRepository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindReferrals(ctx context.Context, ojassID string) ([]domain.User, error)
}

type RegistrationService struct {
	repo      RegistrationRepository
	eventRepo RegistrationEventRepository
	userRepo  RegistrationUserRepository
}

func NewRegistrationService(repo RegistrationRepository, eventRepo RegistrationEventRepository, userRepo RegistrationUserRepository) *RegistrationService {
	return &RegistrationService{
		repo:      repo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
	}
}

// Register creates a pending team registration led by the caller.
// The existence pre-check gives a clean error for the common case;
// the storage-level unique index on (event, participant) is what
// actually closes the race between concurrent submissions.
func (s *RegistrationService) Register(ctx context.Context, leader domain.User, eventID uint, memberIDs []uint) (domain.Registration, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Registration{}, ErrEventNotFound
		}
		return domain.Registration{}, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	if !leader.IsPaid {
		return domain.Registration{}, ErrPaymentRequired
	}

	exists, err := s.repo.ExistsForUser(ctx, eventID, leader.ID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.ExistsForUser -> %w", err)
	}
	if exists {
		return domain.Registration{}, ErrAlreadyRegistered
	}

	if !event.FitsTeamSize(len(memberIDs) + 1) {
		return domain.Registration{}, ErrTeamSizeViolation
	}

	if err = s.validateMembers(ctx, leader.ID, memberIDs); err != nil {
		return domain.Registration{}, err
	}

	created, err := s.repo.Create(ctx, eventID, leader.ID, memberIDs)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyRegistered) {
			return domain.Registration{}, ErrAlreadyRegistered
		}
		return domain.Registration{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Verify marks a registration as present. Idempotent: verifying twice
// leaves is_verified true with no error. The admin role is re-checked
// here from the verified claims rather than trusting the route gate.
func (s *RegistrationService) Verify(ctx context.Context, actor domain.User, registrationID uint) (domain.Registration, error) {
	return s.setVerified(ctx, actor, registrationID, true)
}

// Reject marks a registration as absent. Idempotent likewise.
func (s *RegistrationService) Reject(ctx context.Context, actor domain.User, registrationID uint) (domain.Registration, error) {
	return s.setVerified(ctx, actor, registrationID, false)
}

func (s *RegistrationService) setVerified(ctx context.Context, actor domain.User, registrationID uint, verified bool) (domain.Registration, error) {
	if !actor.IsAdmin() {
		return domain.Registration{}, ErrAdminRequired
	}

	if err := s.repo.SetVerified(ctx, registrationID, verified); err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			return domain.Registration{}, ErrRegistrationNotFound
		}
		return domain.Registration{}, fmt.Errorf("s.repo.SetVerified -> %w", err)
	}

	registration, err := s.repo.FindByID(ctx, registrationID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return registration, nil
}

// ListForEvent returns an event's registrations newest first, with
// leader and member identities expanded for the admin dashboard.
func (s *RegistrationService) ListForEvent(ctx context.Context, actor domain.User, eventID uint, verifiedOnly bool) ([]domain.Registration, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}

	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	registrations, err := s.repo.FindByEventID(ctx, eventID, verifiedOnly)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEventID -> %w", err)
	}

	return registrations, nil
}

// ListForUser returns the caller's registrations (as leader or member),
// optionally narrowed to one event with a non-zero eventID.
func (s *RegistrationService) ListForUser(ctx context.Context, user domain.User, eventID uint) ([]domain.Registration, error) {
	registrations, err := s.repo.FindByUserID(ctx, user.ID, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return registrations, nil
}

// Referrals returns every user whose referred_by equals the target's
// ojass id.
func (s *RegistrationService) Referrals(ctx context.Context, actor domain.User, userID uint) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}

	target, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	referrals, err := s.userRepo.FindReferrals(ctx, target.OjassID)
	if err != nil {
		return nil, fmt.Errorf("s.userRepo.FindReferrals -> %w", err)
	}

	return referrals, nil
}

func (s *RegistrationService) validateMembers(ctx context.Context, leaderID uint, memberIDs []uint) error {
	if len(memberIDs) == 0 {
		return nil
	}

	seen := make(map[uint]struct{}, len(memberIDs)+1)
	seen[leaderID] = struct{}{}
	for _, id := range memberIDs {
		if _, dup := seen[id]; dup {
			return ErrInvalidMember
		}
		seen[id] = struct{}{}
	}

	members, err := s.userRepo.FindByIDs(ctx, memberIDs)
	if err != nil {
		return fmt.Errorf("s.userRepo.FindByIDs -> %w", err)
	}
	if len(members) != len(memberIDs) {
		return ErrInvalidMember
	}

	return nil
}
