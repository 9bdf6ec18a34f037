// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the HelpDesk
// and FilterQuestion models (the knowledge base and its gap list).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
)

// CreateHelpDesk inserts a curated Q/A pair for a domain.
func CreateHelpDesk(ctx context.Context, db *gorm.DB, domainID, question, answer string) (*domain.HelpDesk, error) {
	h := &domain.HelpDesk{
		ID:        uuid.NewString(),
		Question:  question,
		Answer:    answer,
		DomainID:  domainID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}

// ListHelpDesk returns all Q/A pairs for a domain, oldest first so the
// curation order is stable in operator consoles.
func ListHelpDesk(ctx context.Context, db *gorm.DB, domainID string) ([]domain.HelpDesk, error) {
	var out []domain.HelpDesk
	err := db.WithContext(ctx).
		Where("domain_id = ?", domainID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// CreateFilterQuestion records an unanswered customer question for later
// operator triage. Answered starts NULL and is only ever set by
// AnswerFilterQuestion.
func CreateFilterQuestion(ctx context.Context, db *gorm.DB, domainID, question string) (*domain.FilterQuestion, error) {
	q := &domain.FilterQuestion{
		ID:        uuid.NewString(),
		Question:  question,
		DomainID:  domainID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

// GetFilterQuestion fetches a gap row by ID, or ErrNotFound.
func GetFilterQuestion(ctx context.Context, db *gorm.DB, id string) (*domain.FilterQuestion, error) {
	var q domain.FilterQuestion
	if err := db.WithContext(ctx).Where("id = ?", id).First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// ListFilterQuestions returns gap rows for a domain. When unansweredOnly is
// set, rows an operator already answered are excluded.
func ListFilterQuestions(ctx context.Context, db *gorm.DB, domainID string, unansweredOnly bool) ([]domain.FilterQuestion, error) {
	q := db.WithContext(ctx).Where("domain_id = ?", domainID)
	if unansweredOnly {
		q = q.Where("answered IS NULL")
	}
	var out []domain.FilterQuestion
	err := q.Order("created_at asc").Find(&out).Error
	return out, err
}

// AnswerFilterQuestion sets the operator's answer on a gap row. Returns
// ErrNotFound if the row does not exist in the given domain.
func AnswerFilterQuestion(ctx context.Context, db *gorm.DB, id, domainID, answer string) error {
	res := db.WithContext(ctx).
		Model(&domain.FilterQuestion{}).
		Where("id = ? AND domain_id = ?", id, domainID).
		Update("answered", answer)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountUnansweredForDomain reports how many gap rows still await an
// operator answer; the conversation layer uses it to derive room state.
func CountUnansweredForDomain(ctx context.Context, db *gorm.DB, domainID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.FilterQuestion{}).
		Where("domain_id = ? AND answered IS NULL", domainID).
		Count(&n).Error
	return n, err
}
