// Package services – RegistryService
//
// This file implements the tenant & domain registry: domain CRUD and
// chatbot configuration, always scoped to the calling tenant. The owning
// userID of a domain is fixed at creation; there is no transfer operation.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
	"github.com/StevenSmith-code/corinna-ai/internal/repo"
)

// RegistryService manages domains and their chatbot settings.
type RegistryService struct {
	DB *gorm.DB
}

// NewRegistryService constructs a RegistryService.
func NewRegistryService(db *gorm.DB) *RegistryService {
	return &RegistryService{DB: db}
}

// ChatBotSettings carries the mutable bot configuration. Nil fields are
// left untouched.
type ChatBotSettings struct {
	WelcomeMessage *string
	Icon           *string
	Background     *string
	TextColor      *string
	HelpdeskOn     *bool
}

// CreateDomain onboards a new domain (with its chatbot row) for userID.
func (s *RegistryService) CreateDomain(ctx context.Context, userID, name, icon string) (*domain.Domain, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return repo.CreateDomain(ctx, s.DB, userID, name, strings.TrimSpace(icon))
}

// Get returns one domain of the calling tenant.
func (s *RegistryService) Get(ctx context.Context, userID, domainID string) (*domain.Domain, error) {
	return authorizeDomain(ctx, s.DB, domainID, userID)
}

// List returns all domains of the calling tenant.
func (s *RegistryService) List(ctx context.Context, userID string) ([]domain.Domain, error) {
	return repo.ListDomains(ctx, s.DB, userID)
}

// Update renames a domain or changes its icon.
func (s *RegistryService) Update(ctx context.Context, userID, domainID, name, icon string) error {
	if _, err := authorizeDomain(ctx, s.DB, domainID, userID); err != nil {
		return err
	}
	name = normalizeName(name)
	if name == "" {
		return ErrEmptyName
	}
	err := repo.UpdateDomain(ctx, s.DB, domainID, userID, name, strings.TrimSpace(icon))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrDomainNotFound
	}
	return err
}

// Delete removes a domain and everything scoped under it.
func (s *RegistryService) Delete(ctx context.Context, userID, domainID string) error {
	if _, err := authorizeDomain(ctx, s.DB, domainID, userID); err != nil {
		return err
	}
	err := repo.DeleteDomain(ctx, s.DB, domainID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrDomainNotFound
	}
	return err
}

// GetChatBot returns the bot configuration of one of the tenant's domains.
func (s *RegistryService) GetChatBot(ctx context.Context, userID, domainID string) (*domain.ChatBot, error) {
	if _, err := authorizeDomain(ctx, s.DB, domainID, userID); err != nil {
		return nil, err
	}
	bot, err := repo.GetChatBot(ctx, s.DB, domainID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDomainNotFound
		}
		return nil, err
	}
	return bot, nil
}

// UpdateChatBot applies the provided settings to the domain's bot.
func (s *RegistryService) UpdateChatBot(ctx context.Context, userID, domainID string, set ChatBotSettings) error {
	if _, err := authorizeDomain(ctx, s.DB, domainID, userID); err != nil {
		return err
	}
	fields := map[string]any{}
	if set.WelcomeMessage != nil {
		fields["welcome_message"] = strings.TrimSpace(*set.WelcomeMessage)
	}
	if set.Icon != nil {
		fields["icon"] = strings.TrimSpace(*set.Icon)
	}
	if set.Background != nil {
		fields["background"] = strings.TrimSpace(*set.Background)
	}
	if set.TextColor != nil {
		fields["text_color"] = strings.TrimSpace(*set.TextColor)
	}
	if set.HelpdeskOn != nil {
		fields["helpdesk_on"] = *set.HelpdeskOn
	}
	err := repo.UpdateChatBot(ctx, s.DB, domainID, fields)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrDomainNotFound
	}
	return err
}

// normalizeName trims whitespace and collapses runs of spaces to one.
func normalizeName(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
