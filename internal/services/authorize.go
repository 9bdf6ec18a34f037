package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
	"github.com/StevenSmith-code/corinna-ai/internal/repo"
)

// authorizeDomain resolves domainID for userID. The tenant boundary lives
// here, not in handler convention: a domain owned by someone else yields
// ErrTenantIsolation and a security log entry; a domain that does not
// exist at all yields ErrDomainNotFound.
func authorizeDomain(ctx context.Context, db *gorm.DB, domainID, userID string) (*domain.Domain, error) {
	d, err := repo.GetDomain(ctx, db, domainID, userID)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, aerr := repo.GetDomainAny(ctx, db, domainID); aerr == nil {
		log.Error().
			Str("event", "security").
			Str("domain_id", domainID).
			Str("user_id", userID).
			Msg("tenant isolation violation")
		return nil, ErrTenantIsolation
	}
	return nil, ErrDomainNotFound
}
