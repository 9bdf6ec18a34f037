// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Domain
// and ChatBot models.
//
// Tenant scoping: every query that targets a single domain carries the
// owning userID in its WHERE clause. A domain belonging to another tenant
// is indistinguishable from a missing one at this layer (ErrNotFound); the
// service layer turns that into an isolation violation when the domain is
// known to exist.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
)

// CreateDomain inserts a new Domain owned by userID together with its
// ChatBot configuration row (one-to-one). The pair is created in a single
// transaction so a domain never exists without its bot settings.
func CreateDomain(ctx context.Context, db *gorm.DB, userID, name, icon string) (*domain.Domain, error) {
	d := &domain.Domain{
		ID:        uuid.NewString(),
		Name:      name,
		Icon:      icon,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(d).Error; err != nil {
			return err
		}
		bot := &domain.ChatBot{
			ID:             uuid.NewString(),
			WelcomeMessage: "Hey there, have a question? Text us here",
			DomainID:       d.ID,
			CreatedAt:      time.Now().UTC(),
		}
		return tx.Create(bot).Error
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetDomain fetches a domain by ID and owner, or ErrNotFound.
func GetDomain(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Domain, error) {
	var d domain.Domain
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDomainAny fetches a domain by ID regardless of owner. Reserved for
// the service layer's isolation check and for customer-facing reads that
// are scoped by domain rather than tenant.
func GetDomainAny(ctx context.Context, db *gorm.DB, id string) (*domain.Domain, error) {
	var d domain.Domain
	if err := db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDomains returns all domains owned by userID, newest first.
func ListDomains(ctx context.Context, db *gorm.DB, userID string) ([]domain.Domain, error) {
	var out []domain.Domain
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// UpdateDomain renames a domain or changes its icon, enforcing ownership.
// Returns ErrNotFound if the domain is missing or owned by someone else.
func UpdateDomain(ctx context.Context, db *gorm.DB, id, userID, name, icon string) error {
	res := db.WithContext(ctx).
		Model(&domain.Domain{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"name": name, "icon": icon})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteDomain removes a domain and all domain-scoped children in one
// transaction: chatbot, helpdesk, filter questions, and customers with
// their rooms, messages, and bookings. The explicit deletes mirror the FK
// cascade rules so behavior does not depend on the driver honoring the
// foreign_keys pragma.
func DeleteDomain(ctx context.Context, db *gorm.DB, id, userID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Domain{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var customerIDs []string
		if err := tx.Model(&domain.Customer{}).Where("domain_id = ?", id).Pluck("id", &customerIDs).Error; err != nil {
			return err
		}
		if len(customerIDs) > 0 {
			var roomIDs []string
			if err := tx.Model(&domain.ChatRoom{}).Where("customer_id IN ?", customerIDs).Pluck("id", &roomIDs).Error; err != nil {
				return err
			}
			if len(roomIDs) > 0 {
				if err := tx.Where("chat_room_id IN ?", roomIDs).Delete(&domain.ChatMessage{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", roomIDs).Delete(&domain.ChatRoom{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("customer_id IN ?", customerIDs).Delete(&domain.Booking{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", customerIDs).Delete(&domain.Customer{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("domain_id = ?", id).Delete(&domain.ChatBot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("domain_id = ?", id).Delete(&domain.HelpDesk{}).Error; err != nil {
			return err
		}
		return tx.Where("domain_id = ?", id).Delete(&domain.FilterQuestion{}).Error
	})
}

// GetChatBot fetches the bot configuration for a domain, or ErrNotFound.
func GetChatBot(ctx context.Context, db *gorm.DB, domainID string) (*domain.ChatBot, error) {
	var bot domain.ChatBot
	if err := db.WithContext(ctx).Where("domain_id = ?", domainID).First(&bot).Error; err != nil {
		return nil, err
	}
	return &bot, nil
}

// UpdateChatBot overwrites the mutable bot settings for a domain.
// Returns ErrNotFound if the domain has no bot row.
func UpdateChatBot(ctx context.Context, db *gorm.DB, domainID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := db.WithContext(ctx).
		Model(&domain.ChatBot{}).
		Where("domain_id = ?", domainID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
