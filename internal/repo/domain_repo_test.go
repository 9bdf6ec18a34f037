package repo

import (
	"context"
	"testing"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
)

func allDomainModels() []any {
	return []any{
		&domain.User{}, &domain.Billing{}, &domain.Domain{}, &domain.ChatBot{},
		&domain.HelpDesk{}, &domain.FilterQuestion{}, &domain.Customer{},
		&domain.ChatRoom{}, &domain.ChatMessage{}, &domain.Booking{},
	}
}

func TestCreateDomain_ProvisionsChatBot(t *testing.T) {
	db := newRepoDB(t, &domain.Domain{}, &domain.ChatBot{})
	ctx := context.Background()

	d, err := CreateDomain(ctx, db, "u1", "acme.com", "")
	if err != nil {
		t.Fatalf("CreateDomain: %v", err)
	}

	bot, err := GetChatBot(ctx, db, d.ID)
	if err != nil {
		t.Fatalf("GetChatBot: %v", err)
	}
	if bot.WelcomeMessage == "" {
		t.Fatalf("new chatbot must carry a default welcome message")
	}
	if bot.HelpdeskOn {
		t.Fatalf("helpdesk must start disabled")
	}
}

func TestGetDomain_TenantScoping(t *testing.T) {
	db := newRepoDB(t, &domain.Domain{}, &domain.ChatBot{})
	ctx := context.Background()

	d, err := CreateDomain(ctx, db, "u1", "acme.com", "")
	if err != nil {
		t.Fatalf("CreateDomain: %v", err)
	}

	if _, err := GetDomain(ctx, db, d.ID, "u1"); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	// Another tenant sees nothing, same as a missing row.
	if _, err := GetDomain(ctx, db, d.ID, "u2"); err != ErrNotFound {
		t.Fatalf("cross-tenant lookup: expected ErrNotFound, got %v", err)
	}
	// Unscoped variant still resolves it.
	if _, err := GetDomainAny(ctx, db, d.ID); err != nil {
		t.Fatalf("GetDomainAny: %v", err)
	}
}

func TestUpdateDomain_OwnershipEnforced(t *testing.T) {
	db := newRepoDB(t, &domain.Domain{}, &domain.ChatBot{})
	ctx := context.Background()

	d, err := CreateDomain(ctx, db, "u1", "acme.com", "")
	if err != nil {
		t.Fatalf("CreateDomain: %v", err)
	}

	if err := UpdateDomain(ctx, db, d.ID, "u2", "evil.com", ""); err != ErrNotFound {
		t.Fatalf("cross-tenant update: expected ErrNotFound, got %v", err)
	}
	if err := UpdateDomain(ctx, db, d.ID, "u1", "acme.io", "icon.png"); err != nil {
		t.Fatalf("UpdateDomain: %v", err)
	}
	got, err := GetDomain(ctx, db, d.ID, "u1")
	if err != nil {
		t.Fatalf("GetDomain: %v", err)
	}
	if got.Name != "acme.io" || got.Icon != "icon.png" {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestDeleteDomain_CascadesEverything(t *testing.T) {
	db := newRepoDB(t, allDomainModels()...)
	ctx := context.Background()

	d, err := CreateDomain(ctx, db, "u1", "acme.com", "")
	if err != nil {
		t.Fatalf("CreateDomain: %v", err)
	}

	cust, err := FindOrCreateCustomer(ctx, db, d.ID, "a@x.com")
	if err != nil {
		t.Fatalf("FindOrCreateCustomer: %v", err)
	}
	room, err := CreateRoom(ctx, db, cust.ID)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if _, err := CreateChatMessage(db, room.ID, "user", "hi"); err != nil {
		t.Fatalf("CreateChatMessage: %v", err)
	}
	if _, created, err := CreateBooking(ctx, db, d.ID, cust.ID, "2026-09-01", "9:00am", "a@x.com"); err != nil || !created {
		t.Fatalf("CreateBooking: created=%v err=%v", created, err)
	}
	if _, err := CreateHelpDesk(ctx, db, d.ID, "q", "a"); err != nil {
		t.Fatalf("CreateHelpDesk: %v", err)
	}
	if _, err := CreateFilterQuestion(ctx, db, d.ID, "gap"); err != nil {
		t.Fatalf("CreateFilterQuestion: %v", err)
	}

	if err := DeleteDomain(ctx, db, d.ID, "u2"); err != ErrNotFound {
		t.Fatalf("cross-tenant delete: expected ErrNotFound, got %v", err)
	}
	if err := DeleteDomain(ctx, db, d.ID, "u1"); err != nil {
		t.Fatalf("DeleteDomain: %v", err)
	}

	counts := map[string]any{
		"chatbots":         &domain.ChatBot{},
		"help_desk":        &domain.HelpDesk{},
		"filter_questions": &domain.FilterQuestion{},
		"customers":        &domain.Customer{},
		"chat_rooms":       &domain.ChatRoom{},
		"chat_messages":    &domain.ChatMessage{},
		"bookings":         &domain.Booking{},
	}
	for table, model := range counts {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("expected %s emptied, found %d rows", table, n)
		}
	}
}

func TestUpdateChatBot_PartialFields(t *testing.T) {
	db := newRepoDB(t, &domain.Domain{}, &domain.ChatBot{})
	ctx := context.Background()

	d, err := CreateDomain(ctx, db, "u1", "acme.com", "")
	if err != nil {
		t.Fatalf("CreateDomain: %v", err)
	}

	err = UpdateChatBot(ctx, db, d.ID, map[string]any{
		"welcome_message": "Hello!",
		"helpdesk_on":     true,
	})
	if err != nil {
		t.Fatalf("UpdateChatBot: %v", err)
	}
	bot, err := GetChatBot(ctx, db, d.ID)
	if err != nil {
		t.Fatalf("GetChatBot: %v", err)
	}
	if bot.WelcomeMessage != "Hello!" || !bot.HelpdeskOn {
		t.Fatalf("partial update not applied: %+v", bot)
	}

	// Empty field map is a no-op, not an error.
	if err := UpdateChatBot(ctx, db, d.ID, nil); err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if err := UpdateChatBot(ctx, db, "missing", map[string]any{"icon": "x"}); err != ErrNotFound {
		t.Fatalf("missing bot: expected ErrNotFound, got %v", err)
	}
}
