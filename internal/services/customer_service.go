// Package services – CustomerService
//
// This file implements the customer directory. Customer identity is scoped
// to a domain: the same email under two domains names two distinct
// customers, and the widget path (FindOrCreate) deduplicates within one
// domain only.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
	"github.com/StevenSmith-code/corinna-ai/internal/repo"
)

// CustomerService manages end customers of a domain.
type CustomerService struct {
	DB *gorm.DB
}

// NewCustomerService constructs a CustomerService.
func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{DB: db}
}

// FindOrCreate resolves (or registers) the customer identified by email
// within domainID. Called from the public widget, so scoping is by domain
// existence rather than tenant ownership.
func (s *CustomerService) FindOrCreate(ctx context.Context, domainID, email string) (*domain.Customer, error) {
	if _, err := repo.GetDomainAny(ctx, s.DB, domainID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDomainNotFound
		}
		return nil, err
	}
	return repo.FindOrCreateCustomer(ctx, s.DB, domainID, strings.ToLower(strings.TrimSpace(email)))
}

// List returns the customers of one of the tenant's domains.
func (s *CustomerService) List(ctx context.Context, userID, domainID string) ([]domain.Customer, error) {
	if _, err := authorizeDomain(ctx, s.DB, domainID, userID); err != nil {
		return nil, err
	}
	return repo.ListCustomers(ctx, s.DB, domainID)
}

// Get returns one customer of one of the tenant's domains.
func (s *CustomerService) Get(ctx context.Context, userID, domainID, customerID string) (*domain.Customer, error) {
	if _, err := authorizeDomain(ctx, s.DB, domainID, userID); err != nil {
		return nil, err
	}
	c, err := repo.GetCustomer(ctx, s.DB, customerID, domainID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return c, nil
}
