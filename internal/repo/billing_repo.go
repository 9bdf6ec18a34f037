// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Billing
// model, including the atomic credit debit.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
)

// GetBilling fetches the billing record for userID, or ErrNotFound.
func GetBilling(ctx context.Context, db *gorm.DB, userID string) (*domain.Billing, error) {
	var b domain.Billing
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// DebitCredits atomically decrements the user's balance by amount. The
// guard lives in the WHERE clause, not in a prior read: concurrent debits
// for the same user can never drive the balance below zero.
//
// Returns:
//   - (true, nil) when the debit succeeded;
//   - (false, nil) when the balance was insufficient (row exists but the
//     predicate did not match);
//   - (false, ErrNotFound) when no billing row exists for userID.
func DebitCredits(ctx context.Context, db *gorm.DB, userID string, amount int) (bool, error) {
	if amount <= 0 {
		return true, nil
	}
	res := db.WithContext(ctx).
		Model(&domain.Billing{}).
		Where("user_id = ? AND credits >= ?", userID, amount).
		Update("credits", gorm.Expr("credits - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.WithContext(ctx).Model(&domain.Billing{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
			return false, err
		}
		if n == 0 {
			return false, ErrNotFound
		}
		return false, nil
	}
	return true, nil
}

// AddCredits tops up the user's balance by amount (webhook entry point).
// Returns ErrNotFound when no billing row exists.
func AddCredits(ctx context.Context, db *gorm.DB, userID string, amount int) error {
	res := db.WithContext(ctx).
		Model(&domain.Billing{}).
		Where("user_id = ?", userID).
		Update("credits", gorm.Expr("credits + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPlan overwrites the user's plan and balance in one statement (webhook
// entry point). The credit amount is the plan's configured allowance,
// decided by the caller; mid-cycle top-ups go through AddCredits.
func SetPlan(ctx context.Context, db *gorm.DB, userID string, plan domain.Plan, credits int) error {
	res := db.WithContext(ctx).
		Model(&domain.Billing{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"plan": plan, "credits": credits})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
