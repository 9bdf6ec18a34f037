// Package services – AccountService
//
// This file implements the AccountService, the bridge to the external
// identity provider. Its single contract is: given an authenticated
// external identity id, find or create the corresponding tenant. New
// tenants receive a billing record on the STANDARD plan with the
// configured starter credits, written in the same transaction as the user
// row so no tenant ever exists without a ledger.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
	"github.com/StevenSmith-code/corinna-ai/internal/repo"
	"github.com/StevenSmith-code/corinna-ai/internal/sysutil"
)

// AccountService resolves external identities to platform users.
type AccountService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// StarterCredits is granted with the billing record of each new user.
	StarterCredits int
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *gorm.DB, starterCredits int) *AccountService {
	if starterCredits < 0 {
		starterCredits = 0
	}
	return &AccountService{DB: db, StarterCredits: starterCredits}
}

// FindOrCreateFromIdentity returns the user bound to identityID, creating
// it (with billing) on first sight. fullName and accountType are only used
// at creation; later sign-ins never overwrite them.
func (s *AccountService) FindOrCreateFromIdentity(ctx context.Context, identityID, fullName, accountType string) (*domain.User, error) {
	identityID = strings.TrimSpace(identityID)
	if identityID == "" {
		return nil, ErrUserNotFound
	}

	u, err := repo.GetUserByIdentity(ctx, s.DB, identityID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fullName = sysutil.FirstNonEmpty(fullName, "New user")
	accountType = sysutil.FirstNonEmpty(accountType, "owner")

	created, cerr := repo.CreateUser(ctx, s.DB, fullName, identityID, accountType, s.StarterCredits)
	if cerr != nil {
		// Concurrent first sign-in from two devices: the unique index on
		// identity_id lets exactly one insert through; the loser adopts
		// the winner's row.
		if u, gerr := repo.GetUserByIdentity(ctx, s.DB, identityID); gerr == nil {
			return u, nil
		}
		return nil, cerr
	}
	return created, nil
}

// Get returns a user by primary key.
func (s *AccountService) Get(ctx context.Context, userID string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
