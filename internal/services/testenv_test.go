package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
	"github.com/StevenSmith-code/corinna-ai/internal/repo"
)

// newServiceDB opens a throwaway file-backed SQLite database with the full
// schema migrated. One connection keeps concurrent test goroutines from
// tripping SQLITE_BUSY.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// recordMailer captures outbound mail for assertions.
type recordMailer struct {
	mu    sync.Mutex
	sends []sentMail
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *recordMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *recordMailer) sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sends...)
}

// recordPublisher captures realtime fan-out events for assertions.
type recordPublisher struct {
	mu     sync.Mutex
	events []pubEvent
}

type pubEvent struct {
	RoomID string
	Kind   string
}

func (p *recordPublisher) Publish(roomID, kind string, _ *domain.ChatMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, pubEvent{RoomID: roomID, Kind: kind})
}

func (p *recordPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

// convoEnv wires a full conversation engine over a seeded tenant with one
// domain, one customer with an email address, and an open room.
type convoEnv struct {
	db   *gorm.DB
	user *domain.User
	dom  *domain.Domain
	cust *domain.Customer
	room *domain.ChatRoom
	mail *recordMailer
	pub  *recordPublisher
	svc  *ConversationService
}

func newConvoEnv(t *testing.T) *convoEnv {
	t.Helper()
	ctx := context.Background()
	db := newServiceDB(t)

	user, err := repo.CreateUser(ctx, db, "Jane Doe", "idp|jane", "OWNER", 10)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	dom, err := repo.CreateDomain(ctx, db, user.ID, "acme.com", "")
	if err != nil {
		t.Fatalf("seed domain: %v", err)
	}
	cust, err := repo.FindOrCreateCustomer(ctx, db, dom.ID, "visitor@x.com")
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	mail := &recordMailer{}
	pub := &recordPublisher{}
	knowledge := NewKnowledgeService(db, 0.3, time.Second)
	billing := NewBillingService(db, PlanAllowances{Standard: 10, Pro: 100, Ultimate: 1000})
	svc := NewConversationService(db, knowledge, billing, mail, pub, "You have run out of credits. Please upgrade your plan to continue.")

	room, err := svc.OpenOrResumeRoom(ctx, cust.ID)
	if err != nil {
		t.Fatalf("open room: %v", err)
	}

	return &convoEnv{db: db, user: user, dom: dom, cust: cust, room: room, mail: mail, pub: pub, svc: svc}
}

// addHelpDesk seeds a curated answer directly through the repo so the test
// does not depend on the curation path it is not exercising.
func (e *convoEnv) addHelpDesk(t *testing.T, question, answer string) {
	t.Helper()
	if _, err := repo.CreateHelpDesk(context.Background(), e.db, e.dom.ID, question, answer); err != nil {
		t.Fatalf("seed helpdesk: %v", err)
	}
}

func (e *convoEnv) credits(t *testing.T) int {
	t.Helper()
	b, err := repo.GetBilling(context.Background(), e.db, e.user.ID)
	if err != nil {
		t.Fatalf("billing: %v", err)
	}
	return b.Credits
}

func (e *convoEnv) setCredits(t *testing.T, n int) {
	t.Helper()
	err := e.db.Model(&domain.Billing{}).
		Where("user_id = ?", e.user.ID).
		Update("credits", n).Error
	if err != nil {
		t.Fatalf("set credits: %v", err)
	}
}

func (e *convoEnv) gapCount(t *testing.T) int64 {
	t.Helper()
	n, err := repo.CountUnansweredForDomain(context.Background(), e.db, e.dom.ID)
	if err != nil {
		t.Fatalf("gap count: %v", err)
	}
	return n
}

func (e *convoEnv) reloadRoom(t *testing.T) *domain.ChatRoom {
	t.Helper()
	room, err := repo.GetRoom(context.Background(), e.db, e.room.ID)
	if err != nil {
		t.Fatalf("reload room: %v", err)
	}
	return room
}
