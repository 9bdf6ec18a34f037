package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
	"github.com/StevenSmith-code/corinna-ai/internal/repo"
)

// CampaignService manages email campaigns and their recipient lists.
// Recipients are snapshots: the customer's email at enrolment time is
// copied onto the membership row, so later edits to the customer do not
// rewrite past campaign audiences.
type CampaignService struct {
	DB *gorm.DB
}

// NewCampaignService returns a service bound to db.
func NewCampaignService(db *gorm.DB) *CampaignService {
	return &CampaignService{DB: db}
}

var campaignTitle = cases.Title(language.English)

// Create starts a new empty campaign for the tenant. Names are trimmed
// and title-cased for display.
func (s *CampaignService) Create(ctx context.Context, userID, name string) (*domain.Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return repo.CreateCampaign(ctx, s.DB, userID, campaignTitle.String(name))
}

// Get returns one of the tenant's campaigns.
func (s *CampaignService) Get(ctx context.Context, userID, id string) (*domain.Campaign, error) {
	c, err := repo.GetCampaign(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns the tenant's campaigns, newest first.
func (s *CampaignService) List(ctx context.Context, userID string) ([]domain.Campaign, error) {
	return repo.ListCampaigns(ctx, s.DB, userID)
}

// UpdateTemplate replaces the campaign's message template.
func (s *CampaignService) UpdateTemplate(ctx context.Context, userID, id, template string) error {
	err := repo.UpdateCampaignTemplate(ctx, s.DB, id, userID, template)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCampaignNotFound
	}
	return err
}

// AddCustomers enrols customers of one of the tenant's domains into a
// campaign and reports how many were newly added. Customers already
// enrolled, customers without an email, and customers outside the given
// domain are skipped.
func (s *CampaignService) AddCustomers(ctx context.Context, userID, campaignID, domainID string, customerIDs []string) (int, error) {
	if _, err := repo.GetCampaign(ctx, s.DB, campaignID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCampaignNotFound
		}
		return 0, err
	}
	if _, err := authorizeDomain(ctx, s.DB, domainID, userID); err != nil {
		return 0, err
	}

	customers := make([]domain.Customer, 0, len(customerIDs))
	for _, id := range customerIDs {
		c, err := repo.GetCustomer(ctx, s.DB, id, domainID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return 0, err
		}
		customers = append(customers, *c)
	}
	return repo.AddCampaignCustomers(ctx, s.DB, campaignID, customers)
}

// Recipients returns the campaign's enrolled audience with snapshot
// emails.
func (s *CampaignService) Recipients(ctx context.Context, userID, campaignID string) ([]domain.CampaignCustomer, error) {
	if _, err := repo.GetCampaign(ctx, s.DB, campaignID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return repo.ListCampaignCustomers(ctx, s.DB, campaignID)
}
