// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Customer
// model. Customer identity is scoped to one domain: lookups always carry
// the domainID, and the (domain_id, email) unique index backs the
// deduplication in FindOrCreateCustomer.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
)

// FindOrCreateCustomer returns the customer identified by email within
// domainID, creating it when absent. An empty email always creates an
// anonymous customer (widget visitors who never left contact details).
func FindOrCreateCustomer(ctx context.Context, db *gorm.DB, domainID, email string) (*domain.Customer, error) {
	if email != "" {
		var existing domain.Customer
		err := db.WithContext(ctx).
			Where("domain_id = ? AND email = ?", domainID, email).
			First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	c := &domain.Customer{
		ID:        uuid.NewString(),
		DomainID:  domainID,
		CreatedAt: time.Now().UTC(),
	}
	if email != "" {
		c.Email = &email
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		// Lost a create race on (domain_id, email); the winner's row is
		// the customer we wanted.
		if email != "" {
			var existing domain.Customer
			if gerr := db.WithContext(ctx).
				Where("domain_id = ? AND email = ?", domainID, email).
				First(&existing).Error; gerr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

// GetCustomer fetches a customer by ID scoped to domainID, or ErrNotFound.
func GetCustomer(ctx context.Context, db *gorm.DB, id, domainID string) (*domain.Customer, error) {
	var c domain.Customer
	err := db.WithContext(ctx).
		Where("id = ? AND domain_id = ?", id, domainID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCustomerAny fetches a customer by ID alone. Used by the conversation
// engine, which resolves the owning domain from the customer row itself.
func GetCustomerAny(ctx context.Context, db *gorm.DB, id string) (*domain.Customer, error) {
	var c domain.Customer
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCustomers returns all customers of a domain, newest first.
func ListCustomers(ctx context.Context, db *gorm.DB, domainID string) ([]domain.Customer, error) {
	var out []domain.Customer
	err := db.WithContext(ctx).
		Where("domain_id = ?", domainID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}
