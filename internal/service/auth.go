package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ojass-festival/ojass-api/internal/domain"
	"github.com/ojass-festival/ojass-api/internal/repository"
)

var (
	ErrUserEmailExists     = repository.ErrUserEmailExists
	ErrWrongPassword       = errors.New("wrong password")
	ErrUnknownReferralCode = errors.New("referral code does not match any user")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByOjassID(ctx context.Context, ojassID string) (domain.User, error)
}

type AuthService struct {
	repo AuthUserRepository
}

func NewAuthService(repo AuthUserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

// Signup creates a user principal. The role is fixed at creation and
// the referral attribution, when present, is resolved and stored once.
func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	if user.ReferredBy != "" {
		if _, err := s.repo.FindByOjassID(ctx, user.ReferredBy); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domain.User{}, ErrUnknownReferralCode
			}
			return domain.User{}, fmt.Errorf("s.repo.FindByOjassID -> %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = string(hash)
	user.Role = domain.RoleUser

	// Collisions on the 8-char code are rare; retry a couple of times
	// before giving up.
	for attempt := 0; attempt < 3; attempt++ {
		user.OjassID = newOjassID()

		created, err := s.repo.Create(ctx, user)
		if err != nil {
			if errors.Is(err, repository.ErrOjassIDTaken) {
				continue
			}
			if errors.Is(err, repository.ErrUserEmailExists) {
				return domain.User{}, ErrUserEmailExists
			}
			return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
		}

		return created, nil
	}

	return domain.User{}, fmt.Errorf("s.repo.Create -> %w", repository.ErrOjassIDTaken)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

func newOjassID() string {
	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "OJ" + code[:8]
}
