// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Booking
// model. Slot uniqueness is enforced at insert time, not by a prior read:
// the unique index on (domain_id, date, slot) plus ON CONFLICT DO NOTHING
// turns a booking race into RowsAffected == 0 for the loser.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
)

// CreateBooking reserves (domainID, date, slot) for a customer.
//
// Returns:
//   - (booking, true, nil) when the slot was free and is now reserved;
//   - (nil, false, nil) when the slot was already taken;
//   - (nil, false, err) on DB failure.
func CreateBooking(ctx context.Context, db *gorm.DB, domainID, customerID, date, slot, email string) (*domain.Booking, bool, error) {
	b := &domain.Booking{
		ID:         uuid.NewString(),
		Date:       date,
		Slot:       slot,
		Email:      email,
		CustomerID: customerID,
		DomainID:   domainID,
		CreatedAt:  time.Now().UTC(),
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(b)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	return b, true, nil
}

// ListBookingsForDomain returns a domain's bookings ordered by date+slot.
func ListBookingsForDomain(ctx context.Context, db *gorm.DB, domainID string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := db.WithContext(ctx).
		Where("domain_id = ?", domainID).
		Order("date asc, slot asc").
		Find(&out).Error
	return out, err
}

// ListBookingsForCustomer returns a customer's bookings, newest date first.
func ListBookingsForCustomer(ctx context.Context, db *gorm.DB, customerID string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("date desc, slot asc").
		Find(&out).Error
	return out, err
}
