package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/checkout/session"

	"github.com/ojass-festival/ojass-api/internal/config"
)

var (
	ErrPaymentNotCompleted = errors.New("payment has not been completed")
)

type PaymentUserRepository interface {
	MarkPaid(ctx context.Context, id uint) (bool, error)
}

// PaymentService is the thin confirmation collaborator: it checks a
// Stripe checkout session and flips is_paid exactly once.
type PaymentService struct {
	repo PaymentUserRepository
}

func NewPaymentService(repo PaymentUserRepository, conf *config.StripeConfig) *PaymentService {
	stripe.Key = conf.SecretKey

	return &PaymentService{
		repo: repo,
	}
}

// ConfirmPayment verifies the checkout session is paid and marks the
// user. Repeating the call for an already-paid user is a no-op.
func (s *PaymentService) ConfirmPayment(ctx context.Context, userID uint, sessionID string) error {
	checkoutSession, err := session.Get(sessionID, nil)
	if err != nil {
		return fmt.Errorf("session.Get -> %w", err)
	}

	if checkoutSession.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return ErrPaymentNotCompleted
	}

	if _, err = s.repo.MarkPaid(ctx, userID); err != nil {
		return fmt.Errorf("s.repo.MarkPaid -> %w", err)
	}

	return nil
}
