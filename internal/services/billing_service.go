// Package services – BillingService
//
// This file implements the billing ledger. Debits are the only way the
// balance decreases at runtime and are compare-and-decrement at the SQL
// level, so concurrent bot turns for one tenant can never overdraw past
// zero. Plan changes and top-ups arrive exclusively from the billing
// provider's webhook and go through SetPlan/AddCredits; a plan change
// resets the balance to the plan's configured allowance, never to a
// client-supplied amount.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
	"github.com/StevenSmith-code/corinna-ai/internal/repo"
)

// PlanAllowances maps each plan to the credit balance a subscription
// change grants.
type PlanAllowances struct {
	Standard int
	Pro      int
	Ultimate int
}

// For returns the allowance for plan.
func (a PlanAllowances) For(p domain.Plan) int {
	switch p {
	case domain.PlanPro:
		return a.Pro
	case domain.PlanUltimate:
		return a.Ultimate
	default:
		return a.Standard
	}
}

// BillingService meters bot usage against prepaid credits.
type BillingService struct {
	DB         *gorm.DB
	Allowances PlanAllowances
}

// NewBillingService constructs a BillingService.
func NewBillingService(db *gorm.DB, allowances PlanAllowances) *BillingService {
	return &BillingService{DB: db, Allowances: allowances}
}

// Debit atomically deducts amount credits from userID. Amounts below one
// are coerced to one (a bot turn always costs at least one credit).
// Returns ErrInsufficientCredits when the balance cannot cover the debit
// and ErrUserNotFound when no ledger exists for the user.
func (s *BillingService) Debit(ctx context.Context, userID string, amount int) error {
	if amount < 1 {
		amount = 1
	}
	ok, err := repo.DebitCredits(ctx, s.DB, userID, amount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !ok {
		return ErrInsufficientCredits
	}
	return nil
}

// Balance returns the user's current plan and credit balance.
func (s *BillingService) Balance(ctx context.Context, userID string) (*domain.Billing, error) {
	b, err := repo.GetBilling(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return b, nil
}

// SetPlan overwrites the user's plan and resets the balance to the plan's
// configured allowance (billing provider webhook).
func (s *BillingService) SetPlan(ctx context.Context, userID, plan string) error {
	p, ok := domain.ParsePlan(plan)
	if !ok {
		return ErrInvalidPlan
	}
	if err := repo.SetPlan(ctx, s.DB, userID, p, s.Allowances.For(p)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// AddCredits tops up the user's balance (billing provider webhook).
// Non-positive amounts are rejected silently as a no-op.
func (s *BillingService) AddCredits(ctx context.Context, userID string, amount int) error {
	if amount <= 0 {
		return nil
	}
	if err := repo.AddCredits(ctx, s.DB, userID, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
