// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the ChatRoom
// model, including the compare-and-set escalation that guarantees only one
// operator wins a pickup race.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
)

// RoomForCustomer returns the customer's room, or ErrNotFound when the
// customer has never opened a conversation. Rooms are reopened rather than
// replaced, so at most one row exists per customer.
func RoomForCustomer(ctx context.Context, db *gorm.DB, customerID string) (*domain.ChatRoom, error) {
	var r domain.ChatRoom
	err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRoom inserts a fresh room for customerID with live=false. The
// unique index on customer_id makes one-room-per-customer structural: when
// a concurrent first contact already inserted a row, that row is returned
// instead of a duplicate.
func CreateRoom(ctx context.Context, db *gorm.DB, customerID string) (*domain.ChatRoom, error) {
	r := &domain.ChatRoom{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}},
			DoNothing: true,
		}).
		Create(r)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return RoomForCustomer(ctx, db, customerID)
	}
	return r, nil
}

// GetRoom fetches a room by primary key, or ErrNotFound.
func GetRoom(ctx context.Context, db *gorm.DB, id string) (*domain.ChatRoom, error) {
	var r domain.ChatRoom
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRoomsForDomain returns the rooms of all customers in a domain,
// most recently active first (tenant console view).
func ListRoomsForDomain(ctx context.Context, db *gorm.DB, domainID string) ([]domain.ChatRoom, error) {
	var out []domain.ChatRoom
	err := db.WithContext(ctx).
		Joins("JOIN customers ON customers.id = chat_rooms.customer_id").
		Where("customers.domain_id = ?", domainID).
		Order("chat_rooms.updated_at desc").
		Find(&out).Error
	return out, err
}

// EscalateRoom flips live false→true as a single compare-and-set. The
// WHERE predicate makes the transition atomic: of two concurrent calls,
// exactly one observes RowsAffected == 1. Closed rooms (mailed=true) do
// not match the predicate, so escalation can never produce the
// live-and-mailed flag combination.
//
// Returns:
//   - (true, nil) when this call won the transition;
//   - (false, nil) when the room exists but was already live or closed;
//   - (false, ErrNotFound) when the room does not exist.
func EscalateRoom(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.ChatRoom{}).
		Where("id = ? AND live = ? AND mailed = ?", id, false, false).
		Updates(map[string]any{"live": true, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.WithContext(ctx).Model(&domain.ChatRoom{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return false, err
		}
		if n == 0 {
			return false, ErrNotFound
		}
		return false, nil
	}
	return true, nil
}

// CloseRoom clears live and sets mailed as a compare-and-set on the mailed
// flag, so of two concurrent closers exactly one wins. Call only after the
// resolution notice was handed to the mailer; the flag records that the
// hand-off happened, not that delivery succeeded.
//
// Returns:
//   - (true, nil) when this call closed the room;
//   - (false, nil) when the room exists but was already closed;
//   - (false, ErrNotFound) when the room does not exist.
func CloseRoom(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.ChatRoom{}).
		Where("id = ? AND mailed = ?", id, false).
		Updates(map[string]any{"live": false, "mailed": true, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.WithContext(ctx).Model(&domain.ChatRoom{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return false, err
		}
		if n == 0 {
			return false, ErrNotFound
		}
		return false, nil
	}
	return true, nil
}

// ReopenRoom resets a closed room for a new inbound message: both flags
// cleared, history retained.
func ReopenRoom(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.ChatRoom{}).
		Where("id = ?", id).
		Updates(map[string]any{"live": false, "mailed": false, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchRoom bumps updated_at after an append so room lists sort by recency.
func TouchRoom(db *gorm.DB, id string) error {
	return db.Model(&domain.ChatRoom{}).
		Where("id = ?", id).
		Update("updated_at", time.Now().UTC()).Error
}
