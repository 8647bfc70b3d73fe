package repository

import (
	"context"
	"fmt"

	"github.com/ojass-festival/ojass-api/internal/domain"
	"github.com/ojass-festival/ojass-api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
	ErrOjassIDTaken    = dao.ErrOjassIDTaken
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindByOjassID(ctx context.Context, ojassID string) (dao.User, error)
	FindByReferredBy(ctx context.Context, ojassID string) ([]dao.User, error)
	MarkPaid(ctx context.Context, id uint) (bool, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Email:      user.Email,
		Password:   user.Password,
		Name:       user.Name,
		Phone:      user.Phone,
		College:    user.College,
		Role:       user.Role,
		OjassID:    user.OjassID,
		ReferredBy: user.ReferredBy,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error) {
	found, err := r.dao.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByIDs -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByOjassID(ctx context.Context, ojassID string) (domain.User, error) {
	found, err := r.dao.FindByOjassID(ctx, ojassID)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByOjassID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindReferrals(ctx context.Context, ojassID string) ([]domain.User, error) {
	found, err := r.dao.FindByReferredBy(ctx, ojassID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByReferredBy -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *UserRepository) MarkPaid(ctx context.Context, id uint) (bool, error) {
	flipped, err := r.dao.MarkPaid(ctx, id)
	if err != nil {
		return false, fmt.Errorf("r.dao.MarkPaid -> %w", err)
	}

	return flipped, nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:         u.ID,
		Email:      u.Email,
		Password:   u.Password,
		Name:       u.Name,
		Phone:      u.Phone,
		College:    u.College,
		Role:       u.Role,
		IsPaid:     u.IsPaid,
		OjassID:    u.OjassID,
		ReferredBy: u.ReferredBy,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (r *UserRepository) daosToDomain(users []dao.User) []domain.User {
	converted := make([]domain.User, len(users))
	for i, u := range users {
		converted[i] = r.daoToDomain(u)
	}
	return converted
}
