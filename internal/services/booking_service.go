package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
	"github.com/StevenSmith-code/corinna-ai/internal/repo"
)

// BookingService manages appointment slots. A (domain, date, slot)
// combination can be booked at most once; the unique index decides races,
// so two concurrent attempts on the same slot produce exactly one booking
// and one ErrSlotTaken.
type BookingService struct {
	DB *gorm.DB
}

// NewBookingService returns a service bound to db.
func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

// Create books a slot for a customer. The customer must belong to the
// domain the slot is on.
func (s *BookingService) Create(ctx context.Context, domainID, customerID, date, slot, email string) (*domain.Booking, error) {
	date = strings.TrimSpace(date)
	slot = strings.TrimSpace(slot)
	if date == "" || slot == "" {
		return nil, ErrEmptySlot
	}
	if _, err := repo.GetDomainAny(ctx, s.DB, domainID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDomainNotFound
		}
		return nil, err
	}
	c, err := repo.GetCustomer(ctx, s.DB, customerID, domainID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" && c.Email != nil {
		email = *c.Email
	}

	b, created, err := repo.CreateBooking(ctx, s.DB, domainID, customerID, date, slot, email)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrSlotTaken
	}
	return b, nil
}

// ListForDomain returns the tenant's bookings on a domain, soonest first.
func (s *BookingService) ListForDomain(ctx context.Context, userID, domainID string) ([]domain.Booking, error) {
	if _, err := authorizeDomain(ctx, s.DB, domainID, userID); err != nil {
		return nil, err
	}
	return repo.ListBookingsForDomain(ctx, s.DB, domainID)
}

// ListForCustomer returns a customer's own bookings.
func (s *BookingService) ListForCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	if _, err := repo.GetCustomerAny(ctx, s.DB, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return repo.ListBookingsForCustomer(ctx, s.DB, customerID)
}
