package services

import (
	"context"
	"testing"

	"github.com/StevenSmith-code/corinna-ai/internal/repo"
)

func TestFindOrCreateFromIdentity(t *testing.T) {
	db := newServiceDB(t)
	svc := NewAccountService(db, 10)
	ctx := context.Background()

	u, err := svc.FindOrCreateFromIdentity(ctx, "idp|abc", "Jane Doe", "")
	if err != nil {
		t.Fatalf("first sign-in: %v", err)
	}
	if u.FullName != "Jane Doe" {
		t.Fatalf("full name not stored: %q", u.FullName)
	}

	// New tenants get a ledger with the starter grant.
	b, err := repo.GetBilling(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("billing: %v", err)
	}
	if b.Credits != 10 {
		t.Fatalf("starter credits: expected 10, got %d", b.Credits)
	}

	// A later sign-in resolves the same user without overwriting anything.
	again, err := svc.FindOrCreateFromIdentity(ctx, "idp|abc", "Different Name", "student")
	if err != nil {
		t.Fatalf("second sign-in: %v", err)
	}
	if again.ID != u.ID {
		t.Fatalf("identity must map to one user: %s vs %s", u.ID, again.ID)
	}
	if again.FullName != "Jane Doe" {
		t.Fatalf("later sign-ins must not overwrite the name: %q", again.FullName)
	}

	if _, err := svc.FindOrCreateFromIdentity(ctx, "   ", "", ""); err != ErrUserNotFound {
		t.Fatalf("blank identity: expected ErrUserNotFound, got %v", err)
	}
}

func TestFindOrCreateFromIdentity_Defaults(t *testing.T) {
	db := newServiceDB(t)
	svc := NewAccountService(db, 10)
	ctx := context.Background()

	u, err := svc.FindOrCreateFromIdentity(ctx, "idp|anon", "", "")
	if err != nil {
		t.Fatalf("sign-in: %v", err)
	}
	if u.FullName == "" || u.Type == "" {
		t.Fatalf("blank profile fields must get defaults: %+v", u)
	}
}

func TestAccountGet(t *testing.T) {
	db := newServiceDB(t)
	svc := NewAccountService(db, 10)
	ctx := context.Background()

	u, err := svc.FindOrCreateFromIdentity(ctx, "idp|abc", "Jane Doe", "")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Get(ctx, u.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := svc.Get(ctx, "missing"); err != ErrUserNotFound {
		t.Fatalf("missing user: expected ErrUserNotFound, got %v", err)
	}
}
