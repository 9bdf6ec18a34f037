// Package services – KnowledgeService
//
// This file implements the knowledge base: curated helpdesk Q/A pairs per
// domain, the deterministic answer lookup the bot consults, and the gap
// list (filter questions) operators triage later. Promotion of an answered
// gap into the helpdesk is an explicit operation; answering a gap never
// touches the helpdesk by itself.
//
// Lookup runs against an in-memory matcher built from the domain's
// helpdesk rows and cached until the next write. A lookup that exceeds its
// deadline is treated as "no match" so a slow knowledge base degrades to
// escalation instead of blocking the conversation.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
	"github.com/StevenSmith-code/corinna-ai/internal/repo"
	"github.com/StevenSmith-code/corinna-ai/internal/search"
)

// Answer is the outcome of a knowledge-base lookup.
type Answer struct {
	HelpDeskID string
	Question   string
	Text       string
	Score      float64
}

// KnowledgeService owns helpdesk curation, lookup, and gap tracking.
type KnowledgeService struct {
	DB *gorm.DB

	// Threshold is the minimum similarity for a match to count; below it
	// the lookup reports no match.
	Threshold float64

	// Timeout bounds a single lookup. Zero disables the bound.
	Timeout time.Duration

	mu       sync.Mutex
	matchers map[string]search.Matcher // domainID -> cached matcher
}

// NewKnowledgeService constructs a KnowledgeService.
func NewKnowledgeService(db *gorm.DB, threshold float64, timeout time.Duration) *KnowledgeService {
	return &KnowledgeService{
		DB:        db,
		Threshold: threshold,
		Timeout:   timeout,
		matchers:  make(map[string]search.Matcher),
	}
}

// AddHelpDesk stores a curated Q/A pair for one of the tenant's domains.
// Both question and answer must be non-empty.
func (s *KnowledgeService) AddHelpDesk(ctx context.Context, userID, domainID, question, answer string) (*domain.HelpDesk, error) {
	if _, err := authorizeDomain(ctx, s.DB, domainID, userID); err != nil {
		return nil, err
	}
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if answer == "" {
		return nil, ErrEmptyAnswer
	}
	h, err := repo.CreateHelpDesk(ctx, s.DB, domainID, question, answer)
	if err != nil {
		return nil, err
	}
	s.invalidate(domainID)
	return h, nil
}

// ListHelpDesk returns the curated pairs of one of the tenant's domains.
func (s *KnowledgeService) ListHelpDesk(ctx context.Context, userID, domainID string) ([]domain.HelpDesk, error) {
	if _, err := authorizeDomain(ctx, s.DB, domainID, userID); err != nil {
		return nil, err
	}
	return repo.ListHelpDesk(ctx, s.DB, domainID)
}

// Lookup finds at most one helpdesk answer for question within domainID.
// The contract is deterministic and domain-scoped: the same helpdesk state
// and question always select the same entry. A nil Answer with nil error
// means no confident match; the caller records the gap.
func (s *KnowledgeService) Lookup(ctx context.Context, domainID, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, nil
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	m, err := s.matcherFor(ctx, domainID)
	if err != nil {
		// A lookup that ran out of budget is a miss, not a failure.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, nil
		}
		return nil, err
	}

	type result struct {
		match search.Match
		ok    bool
	}
	ch := make(chan result, 1)
	go func() {
		best, ok := m.Best(question)
		ch <- result{best, ok}
	}()

	select {
	case <-ctx.Done():
		return nil, nil
	case r := <-ch:
		if !r.ok || r.match.Score < s.Threshold {
			return nil, nil
		}
		return &Answer{
			HelpDeskID: r.match.ID,
			Question:   r.match.Question,
			Text:       r.match.Answer,
			Score:      r.match.Score,
		}, nil
	}
}

// RecordGap stores an unanswered question for operator triage.
func (s *KnowledgeService) RecordGap(ctx context.Context, domainID, question string) (*domain.FilterQuestion, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	return repo.CreateFilterQuestion(ctx, s.DB, domainID, question)
}

// ListGaps returns the filter questions of one of the tenant's domains.
func (s *KnowledgeService) ListGaps(ctx context.Context, userID, domainID string, unansweredOnly bool) ([]domain.FilterQuestion, error) {
	if _, err := authorizeDomain(ctx, s.DB, domainID, userID); err != nil {
		return nil, err
	}
	return repo.ListFilterQuestions(ctx, s.DB, domainID, unansweredOnly)
}

// AnswerGap records the operator's answer on a filter question. Only
// operators ever set this column; the bot has no write path to it.
func (s *KnowledgeService) AnswerGap(ctx context.Context, userID, domainID, id, answer string) error {
	if _, err := authorizeDomain(ctx, s.DB, domainID, userID); err != nil {
		return err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return ErrEmptyAnswer
	}
	err := repo.AnswerFilterQuestion(ctx, s.DB, id, domainID, answer)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrFilterQuestionNotFound
	}
	return err
}

// PromoteGap copies an answered filter question into the helpdesk. It
// fails with ErrQuestionUnanswered when no operator answer exists yet;
// promotion never happens implicitly on AnswerGap.
func (s *KnowledgeService) PromoteGap(ctx context.Context, userID, domainID, id string) (*domain.HelpDesk, error) {
	if _, err := authorizeDomain(ctx, s.DB, domainID, userID); err != nil {
		return nil, err
	}
	q, err := repo.GetFilterQuestion(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFilterQuestionNotFound
		}
		return nil, err
	}
	if q.DomainID != domainID {
		return nil, ErrFilterQuestionNotFound
	}
	if q.Answered == nil || strings.TrimSpace(*q.Answered) == "" {
		return nil, ErrQuestionUnanswered
	}
	h, err := repo.CreateHelpDesk(ctx, s.DB, domainID, q.Question, *q.Answered)
	if err != nil {
		return nil, err
	}
	s.invalidate(domainID)
	return h, nil
}

// matcherFor returns the cached matcher for a domain, building it from the
// helpdesk rows on first use after a write.
func (s *KnowledgeService) matcherFor(ctx context.Context, domainID string) (search.Matcher, error) {
	s.mu.Lock()
	if m, ok := s.matchers[domainID]; ok {
		s.mu.Unlock()
		return m, nil
	}
	s.mu.Unlock()

	rows, err := repo.ListHelpDesk(ctx, s.DB, domainID)
	if err != nil {
		return nil, err
	}
	entries := make([]search.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, search.Entry{ID: r.ID, Question: r.Question, Answer: r.Answer})
	}
	m := search.NewMatcher(entries)

	s.mu.Lock()
	s.matchers[domainID] = m
	s.mu.Unlock()
	return m, nil
}

// invalidate drops the cached matcher after a helpdesk write.
func (s *KnowledgeService) invalidate(domainID string) {
	s.mu.Lock()
	delete(s.matchers, domainID)
	s.mu.Unlock()
}
