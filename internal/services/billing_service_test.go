package services

import (
	"context"
	"testing"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
	"github.com/StevenSmith-code/corinna-ai/internal/repo"
)

func seedLedger(t *testing.T, credits int) (*BillingService, string) {
	t.Helper()
	db := newServiceDB(t)
	u, err := repo.CreateUser(context.Background(), db, "Jane Doe", "idp|jane", "OWNER", credits)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return NewBillingService(db, PlanAllowances{Standard: 10, Pro: 100, Ultimate: 1000}), u.ID
}

func TestDebit(t *testing.T) {
	svc, userID := seedLedger(t, 3)
	ctx := context.Background()

	// A bot turn costs at least one credit even when asked for zero.
	if err := svc.Debit(ctx, userID, 0); err != nil {
		t.Fatalf("coerced debit: %v", err)
	}
	if err := svc.Debit(ctx, userID, 2); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if err := svc.Debit(ctx, userID, 1); err != ErrInsufficientCredits {
		t.Fatalf("overdraw: expected ErrInsufficientCredits, got %v", err)
	}

	b, err := svc.Balance(ctx, userID)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if b.Credits != 0 {
		t.Fatalf("expected empty balance, got %d", b.Credits)
	}

	if err := svc.Debit(ctx, "missing", 1); err != ErrUserNotFound {
		t.Fatalf("missing ledger: expected ErrUserNotFound, got %v", err)
	}
}

func TestSetPlanAndAddCredits(t *testing.T) {
	svc, userID := seedLedger(t, 5)
	ctx := context.Background()

	if err := svc.SetPlan(ctx, userID, "FREEMIUM"); err != ErrInvalidPlan {
		t.Fatalf("bad plan: expected ErrInvalidPlan, got %v", err)
	}
	if err := svc.SetPlan(ctx, userID, "PRO"); err != nil {
		t.Fatalf("SetPlan: %v", err)
	}

	// The upgrade resets the balance to the Pro allowance. The request
	// body never carries a credit amount, so a client cannot grant itself
	// an arbitrary balance through a plan change.
	b, err := svc.Balance(ctx, userID)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if b.Plan != domain.PlanPro || b.Credits != 100 {
		t.Fatalf("plan change must apply the Pro allowance: %+v", b)
	}

	if err := svc.SetPlan(ctx, userID, "ULTIMATE"); err != nil {
		t.Fatalf("SetPlan ultimate: %v", err)
	}
	b, err = svc.Balance(ctx, userID)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if b.Plan != domain.PlanUltimate || b.Credits != 1000 {
		t.Fatalf("plan change must apply the Ultimate allowance: %+v", b)
	}

	if err := svc.AddCredits(ctx, userID, 50); err != nil {
		t.Fatalf("AddCredits: %v", err)
	}
	if err := svc.AddCredits(ctx, userID, -3); err != nil {
		t.Fatalf("negative top-up must be a no-op, got %v", err)
	}

	b, err = svc.Balance(ctx, userID)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if b.Credits != 1050 {
		t.Fatalf("expected 1050 credits, got %d", b.Credits)
	}

	if err := svc.SetPlan(ctx, "missing", "PRO"); err != ErrUserNotFound {
		t.Fatalf("missing ledger: expected ErrUserNotFound, got %v", err)
	}
}
