// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Campaign
// model and its snapshotted recipient list.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
)

// CreateCampaign inserts a new campaign owned by userID.
func CreateCampaign(ctx context.Context, db *gorm.DB, userID, name string) (*domain.Campaign, error) {
	c := &domain.Campaign{
		ID:        uuid.NewString(),
		Name:      name,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetCampaign fetches a campaign by ID and owner, or ErrNotFound.
func GetCampaign(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Campaign, error) {
	var c domain.Campaign
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCampaigns returns all campaigns owned by userID, newest first.
func ListCampaigns(ctx context.Context, db *gorm.DB, userID string) ([]domain.Campaign, error) {
	var out []domain.Campaign
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// UpdateCampaignTemplate overwrites the outreach template. Returns
// ErrNotFound when the campaign is missing or owned by someone else.
func UpdateCampaignTemplate(ctx context.Context, db *gorm.DB, id, userID, template string) error {
	res := db.WithContext(ctx).
		Model(&domain.Campaign{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("template", template)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddCampaignCustomers snapshots the given customers into the campaign's
// recipient list, copying their email as of now. Customers already on the
// list are skipped (ON CONFLICT DO NOTHING on the unique pair index).
func AddCampaignCustomers(ctx context.Context, db *gorm.DB, campaignID string, customers []domain.Customer) (int, error) {
	added := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range customers {
			if c.Email == nil || *c.Email == "" {
				continue
			}
			row := &domain.CampaignCustomer{
				ID:         uuid.NewString(),
				CampaignID: campaignID,
				CustomerID: c.ID,
				Email:      *c.Email,
				CreatedAt:  time.Now().UTC(),
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
			if res.Error != nil {
				return res.Error
			}
			added += int(res.RowsAffected)
		}
		return nil
	})
	return added, err
}

// ListCampaignCustomers returns the snapshotted recipients in add order.
func ListCampaignCustomers(ctx context.Context, db *gorm.DB, campaignID string) ([]domain.CampaignCustomer, error) {
	var out []domain.CampaignCustomer
	err := db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}
