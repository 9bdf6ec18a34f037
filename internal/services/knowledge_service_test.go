package services

import (
	"context"
	"testing"
	"time"

	"github.com/StevenSmith-code/corinna-ai/internal/repo"
)

func seedKnowledge(t *testing.T) (*KnowledgeService, string, string) {
	t.Helper()
	ctx := context.Background()
	db := newServiceDB(t)

	u, err := repo.CreateUser(ctx, db, "Jane Doe", "idp|jane", "OWNER", 10)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	d, err := repo.CreateDomain(ctx, db, u.ID, "acme.com", "")
	if err != nil {
		t.Fatalf("seed domain: %v", err)
	}
	return NewKnowledgeService(db, 0.3, time.Second), u.ID, d.ID
}

func TestAddHelpDesk_Validation(t *testing.T) {
	svc, userID, domainID := seedKnowledge(t)
	ctx := context.Background()

	if _, err := svc.AddHelpDesk(ctx, userID, domainID, "  ", "an answer"); err != ErrEmptyQuestion {
		t.Fatalf("blank question: expected ErrEmptyQuestion, got %v", err)
	}
	if _, err := svc.AddHelpDesk(ctx, userID, domainID, "a question", "  "); err != ErrEmptyAnswer {
		t.Fatalf("blank answer: expected ErrEmptyAnswer, got %v", err)
	}
	if _, err := svc.AddHelpDesk(ctx, "intruder", domainID, "q", "a"); err != ErrTenantIsolation {
		t.Fatalf("foreign tenant: expected ErrTenantIsolation, got %v", err)
	}

	h, err := svc.AddHelpDesk(ctx, userID, domainID, "  What are your hours?  ", " 9 to 5 ")
	if err != nil {
		t.Fatalf("AddHelpDesk: %v", err)
	}
	if h.Question != "What are your hours?" || h.Answer != "9 to 5" {
		t.Fatalf("inputs must be trimmed: %+v", h)
	}
}

func TestLookup_ThresholdAndDeterminism(t *testing.T) {
	svc, userID, domainID := seedKnowledge(t)
	ctx := context.Background()

	if _, err := svc.AddHelpDesk(ctx, userID, domainID, "What are your opening hours?", "9 to 5"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.AddHelpDesk(ctx, userID, domainID, "Do you ship internationally?", "Yes, worldwide"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	a, err := svc.Lookup(ctx, domainID, "what are your opening hours")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if a == nil || a.Text != "9 to 5" {
		t.Fatalf("expected the hours entry, got %+v", a)
	}

	// Same state, same question, same entry.
	for i := 0; i < 5; i++ {
		b, err := svc.Lookup(ctx, domainID, "what are your opening hours")
		if err != nil {
			t.Fatalf("repeat lookup: %v", err)
		}
		if b == nil || b.HelpDeskID != a.HelpDeskID {
			t.Fatalf("lookup must be deterministic: %+v vs %+v", a, b)
		}
	}

	// Unrelated text stays below the threshold.
	miss, err := svc.Lookup(ctx, domainID, "can I pay with cryptocurrency")
	if err != nil {
		t.Fatalf("miss lookup: %v", err)
	}
	if miss != nil {
		t.Fatalf("expected no match, got %+v", miss)
	}

	// Blank questions are a silent miss.
	if got, err := svc.Lookup(ctx, domainID, "   "); err != nil || got != nil {
		t.Fatalf("blank question: got %+v, %v", got, err)
	}
}

func TestLookup_ScopedPerDomain(t *testing.T) {
	svc, userID, domainID := seedKnowledge(t)
	ctx := context.Background()

	other, err := repo.CreateDomain(ctx, svc.DB, userID, "other.com", "")
	if err != nil {
		t.Fatalf("second domain: %v", err)
	}
	if _, err := svc.AddHelpDesk(ctx, userID, domainID, "What are your opening hours?", "9 to 5"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	a, err := svc.Lookup(ctx, other.ID, "what are your opening hours")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if a != nil {
		t.Fatalf("knowledge must not leak across domains, got %+v", a)
	}
}

func TestLookup_SeesNewEntries(t *testing.T) {
	svc, userID, domainID := seedKnowledge(t)
	ctx := context.Background()

	// Prime the matcher cache on an empty knowledge base.
	if a, err := svc.Lookup(ctx, domainID, "what are your opening hours"); err != nil || a != nil {
		t.Fatalf("empty base: got %+v, %v", a, err)
	}

	if _, err := svc.AddHelpDesk(ctx, userID, domainID, "What are your opening hours?", "9 to 5"); err != nil {
		t.Fatalf("add: %v", err)
	}
	a, err := svc.Lookup(ctx, domainID, "what are your opening hours")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if a == nil {
		t.Fatalf("writes must invalidate the cached matcher")
	}
}

func TestGapLifecycle(t *testing.T) {
	svc, userID, domainID := seedKnowledge(t)
	ctx := context.Background()

	gap, err := svc.RecordGap(ctx, domainID, "Do you support SSO?")
	if err != nil {
		t.Fatalf("RecordGap: %v", err)
	}
	if _, err := svc.RecordGap(ctx, domainID, "  "); err != ErrEmptyQuestion {
		t.Fatalf("blank gap: expected ErrEmptyQuestion, got %v", err)
	}

	// Promotion requires an operator answer first.
	if _, err := svc.PromoteGap(ctx, userID, domainID, gap.ID); err != ErrQuestionUnanswered {
		t.Fatalf("premature promote: expected ErrQuestionUnanswered, got %v", err)
	}

	if err := svc.AnswerGap(ctx, userID, domainID, gap.ID, "  "); err != ErrEmptyAnswer {
		t.Fatalf("blank answer: expected ErrEmptyAnswer, got %v", err)
	}
	if err := svc.AnswerGap(ctx, userID, domainID, "missing", "yes"); err != ErrFilterQuestionNotFound {
		t.Fatalf("missing gap: expected ErrFilterQuestionNotFound, got %v", err)
	}
	if err := svc.AnswerGap(ctx, userID, domainID, gap.ID, "Yes, SAML and OIDC"); err != nil {
		t.Fatalf("AnswerGap: %v", err)
	}

	// Answering alone does not touch the helpdesk.
	entries, err := svc.ListHelpDesk(ctx, userID, domainID)
	if err != nil {
		t.Fatalf("ListHelpDesk: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("answer must not implicitly promote, helpdesk has %d entries", len(entries))
	}

	h, err := svc.PromoteGap(ctx, userID, domainID, gap.ID)
	if err != nil {
		t.Fatalf("PromoteGap: %v", err)
	}
	if h.Question != "Do you support SSO?" || h.Answer != "Yes, SAML and OIDC" {
		t.Fatalf("promoted entry wrong: %+v", h)
	}

	// The bot can answer it from now on.
	a, err := svc.Lookup(ctx, domainID, "do you support SSO")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if a == nil || a.Text != "Yes, SAML and OIDC" {
		t.Fatalf("promoted entry not matchable: %+v", a)
	}
}

func TestListGaps_UnansweredFilter(t *testing.T) {
	svc, userID, domainID := seedKnowledge(t)
	ctx := context.Background()

	open, err := svc.RecordGap(ctx, domainID, "open one")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	done, err := svc.RecordGap(ctx, domainID, "answered one")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := svc.AnswerGap(ctx, userID, domainID, done.ID, "resolved"); err != nil {
		t.Fatalf("answer: %v", err)
	}

	all, err := svc.ListGaps(ctx, userID, domainID, false)
	if err != nil {
		t.Fatalf("all gaps: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 gaps, got %d", len(all))
	}
	pending, err := svc.ListGaps(ctx, userID, domainID, true)
	if err != nil {
		t.Fatalf("pending gaps: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != open.ID {
		t.Fatalf("unanswered filter wrong: %+v", pending)
	}
}
