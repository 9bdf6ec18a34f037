// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User
// model and its one-to-one Billing record.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a user is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateUser inserts a new User plus its Billing record in one transaction.
// Exactly one billing row exists per user; creating them together keeps
// that invariant from the first write.
func CreateUser(ctx context.Context, db *gorm.DB, fullName, identityID, accountType string, starterCredits int) (*domain.User, error) {
	u := &domain.User{
		ID:         uuid.NewString(),
		FullName:   fullName,
		IdentityID: identityID,
		Type:       accountType,
		CreatedAt:  time.Now().UTC(),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		b := &domain.Billing{
			ID:        uuid.NewString(),
			Plan:      domain.PlanStandard,
			Credits:   starterCredits,
			UserID:    u.ID,
			CreatedAt: time.Now().UTC(),
		}
		return tx.Create(b).Error
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser fetches a user by primary key, or ErrNotFound if missing.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByIdentity fetches a user by its external identity id, or
// ErrNotFound if no such user exists yet.
func GetUserByIdentity(ctx context.Context, db *gorm.DB, identityID string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("identity_id = ?", identityID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
