package repository

import (
	"context"
	"fmt"

	"github.com/ojass-festival/ojass-api/internal/domain"
	"github.com/ojass-festival/ojass-api/internal/repository/dao"
)

var (
	ErrRegistrationNotFound = dao.ErrRegistrationNotFound
	ErrAlreadyRegistered    = dao.ErrAlreadyRegistered
)

type RegistrationDAO interface {
	Insert(ctx context.Context, registration dao.Registration, memberIDs []uint) (dao.Registration, error)
	FindByID(ctx context.Context, id uint) (dao.Registration, error)
	SetVerified(ctx context.Context, id uint, verified bool) error
	FindByEventID(ctx context.Context, eventID uint, verifiedOnly bool) ([]dao.Registration, error)
	FindByUserID(ctx context.Context, userID, eventID uint) ([]dao.Registration, error)
	ExistsForUser(ctx context.Context, eventID, userID uint) (bool, error)
	CountVerifiedByEventID(ctx context.Context, eventID uint) (int64, error)
}

type RegistrationRepository struct {
	dao   RegistrationDAO
	uRepo *UserRepository
}

func NewRegistrationRepository(dao RegistrationDAO, uRepo *UserRepository) *RegistrationRepository {
	return &RegistrationRepository{
		dao:   dao,
		uRepo: uRepo,
	}
}

func (r *RegistrationRepository) Create(ctx context.Context, eventID, leaderID uint, memberIDs []uint) (domain.Registration, error) {
	created, err := r.dao.Insert(ctx, dao.Registration{
		EventID:      eventID,
		TeamLeaderID: leaderID,
	}, memberIDs)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RegistrationRepository) FindByID(ctx context.Context, id uint) (domain.Registration, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RegistrationRepository) SetVerified(ctx context.Context, id uint, verified bool) error {
	if err := r.dao.SetVerified(ctx, id, verified); err != nil {
		return fmt.Errorf("r.dao.SetVerified -> %w", err)
	}

	return nil
}

func (r *RegistrationRepository) FindByEventID(ctx context.Context, eventID uint, verifiedOnly bool) ([]domain.Registration, error) {
	found, err := r.dao.FindByEventID(ctx, eventID, verifiedOnly)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *RegistrationRepository) FindByUserID(ctx context.Context, userID, eventID uint) ([]domain.Registration, error) {
	found, err := r.dao.FindByUserID(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *RegistrationRepository) ExistsForUser(ctx context.Context, eventID, userID uint) (bool, error) {
	exists, err := r.dao.ExistsForUser(ctx, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.ExistsForUser -> %w", err)
	}

	return exists, nil
}

func (r *RegistrationRepository) CountVerifiedByEventID(ctx context.Context, eventID uint) (int64, error) {
	count, err := r.dao.CountVerifiedByEventID(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountVerifiedByEventID -> %w", err)
	}

	return count, nil
}

// daoToDomain drops the leader's own member row so TeamMembers lists
// only the non-leader participants.
func (r *RegistrationRepository) daoToDomain(reg dao.Registration) domain.Registration {
	members := make([]domain.User, 0, len(reg.Members))
	for _, m := range reg.Members {
		if m.UserID == reg.TeamLeaderID {
			continue
		}
		members = append(members, r.uRepo.daoToDomain(m.User))
	}

	return domain.Registration{
		ID:           reg.ID,
		EventID:      reg.EventID,
		TeamLeaderID: reg.TeamLeaderID,
		TeamLeader:   r.uRepo.daoToDomain(reg.TeamLeader),
		TeamMembers:  members,
		IsVerified:   reg.IsVerified,
		CreatedAt:    reg.CreatedAt,
		UpdatedAt:    reg.UpdatedAt,
	}
}

func (r *RegistrationRepository) daosToDomain(regs []dao.Registration) []domain.Registration {
	converted := make([]domain.Registration, len(regs))
	for i, reg := range regs {
		converted[i] = r.daoToDomain(reg)
	}
	return converted
}
