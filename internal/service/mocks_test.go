package service

import (
	"context"
	"fmt"

	"github.com/ojass-festival/ojass-api/internal/domain"
	"github.com/ojass-festival/ojass-api/internal/repository"
)

// mockRegistrationRepo keeps registrations in memory and mimics the
// storage-level uniqueness guarantee on (event, participant).
type mockRegistrationRepo struct {
	nextID        uint
	registrations map[uint]*domain.Registration
	users         map[uint]domain.User
}

func newMockRegistrationRepo(users map[uint]domain.User) *mockRegistrationRepo {
	return &mockRegistrationRepo{
		nextID:        1,
		registrations: make(map[uint]*domain.Registration),
		users:         users,
	}
}

func (m *mockRegistrationRepo) Create(_ context.Context, eventID, leaderID uint, memberIDs []uint) (domain.Registration, error) {
	participants := append([]uint{leaderID}, memberIDs...)
	for _, id := range participants {
		for _, reg := range m.registrations {
			if reg.EventID == eventID && reg.Includes(id) {
				return domain.Registration{}, repository.ErrAlreadyRegistered
			}
		}
	}

	members := make([]domain.User, len(memberIDs))
	for i, id := range memberIDs {
		members[i] = m.users[id]
	}

	reg := &domain.Registration{
		ID:           m.nextID,
		EventID:      eventID,
		TeamLeaderID: leaderID,
		TeamLeader:   m.users[leaderID],
		TeamMembers:  members,
	}
	m.registrations[m.nextID] = reg
	m.nextID++

	return *reg, nil
}

func (m *mockRegistrationRepo) FindByID(_ context.Context, id uint) (domain.Registration, error) {
	reg, ok := m.registrations[id]
	if !ok {
		return domain.Registration{}, repository.ErrRegistrationNotFound
	}
	return *reg, nil
}

func (m *mockRegistrationRepo) SetVerified(_ context.Context, id uint, verified bool) error {
	reg, ok := m.registrations[id]
	if !ok {
		return repository.ErrRegistrationNotFound
	}
	reg.IsVerified = &verified
	return nil
}

func (m *mockRegistrationRepo) FindByEventID(_ context.Context, eventID uint, verifiedOnly bool) ([]domain.Registration, error) {
	var found []domain.Registration
	for _, reg := range m.registrations {
		if reg.EventID != eventID {
			continue
		}
		if verifiedOnly && (reg.IsVerified == nil || !*reg.IsVerified) {
			continue
		}
		found = append(found, *reg)
	}
	return found, nil
}

func (m *mockRegistrationRepo) FindByUserID(_ context.Context, userID, eventID uint) ([]domain.Registration, error) {
	var found []domain.Registration
	for _, reg := range m.registrations {
		if eventID != 0 && reg.EventID != eventID {
			continue
		}
		if reg.Includes(userID) {
			found = append(found, *reg)
		}
	}
	return found, nil
}

func (m *mockRegistrationRepo) ExistsForUser(_ context.Context, eventID, userID uint) (bool, error) {
	for _, reg := range m.registrations {
		if reg.EventID == eventID && reg.Includes(userID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRegistrationRepo) CountVerifiedByEventID(_ context.Context, eventID uint) (int64, error) {
	var count int64
	for _, reg := range m.registrations {
		if reg.EventID == eventID && reg.IsVerified != nil && *reg.IsVerified {
			count++
		}
	}
	return count, nil
}

type mockEventRepo struct {
	events map[uint]domain.Event
}

func (m *mockEventRepo) FindByID(_ context.Context, id uint) (domain.Event, error) {
	event, ok := m.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	return event, nil
}

func (m *mockEventRepo) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	event.ID = uint(len(m.events) + 1)
	m.events[event.ID] = event
	return event, nil
}

func (m *mockEventRepo) FindAll(_ context.Context) ([]domain.Event, error) {
	events := make([]domain.Event, 0, len(m.events))
	for _, e := range m.events {
		events = append(events, e)
	}
	return events, nil
}

func (m *mockEventRepo) Update(_ context.Context, event domain.Event) (domain.Event, error) {
	if _, ok := m.events[event.ID]; !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	m.events[event.ID] = event
	return event, nil
}

func (m *mockEventRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(m.events, id)
	return nil
}

type mockUserRepo struct {
	users map[uint]domain.User
}

func (m *mockUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepo) FindByIDs(_ context.Context, ids []uint) ([]domain.User, error) {
	var found []domain.User
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			found = append(found, user)
		}
	}
	return found, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *mockUserRepo) FindByOjassID(_ context.Context, ojassID string) (domain.User, error) {
	for _, user := range m.users {
		if user.OjassID == ojassID {
			return user, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *mockUserRepo) FindReferrals(_ context.Context, ojassID string) ([]domain.User, error) {
	var found []domain.User
	for _, user := range m.users {
		if user.ReferredBy == ojassID {
			found = append(found, user)
		}
	}
	return found, nil
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}
	user.ID = uint(len(m.users) + 1)
	m.users[user.ID] = user
	return user, nil
}

func (m *mockUserRepo) MarkPaid(_ context.Context, id uint) (bool, error) {
	user, ok := m.users[id]
	if !ok {
		return false, fmt.Errorf("mockUserRepo.MarkPaid -> %w", repository.ErrUserNotFound)
	}
	if user.IsPaid {
		return false, nil
	}
	user.IsPaid = true
	m.users[id] = user
	return true, nil
}
