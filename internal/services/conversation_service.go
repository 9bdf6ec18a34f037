// Package services – ConversationService
//
// This file implements the conversation engine, the application-level
// component that owns chat rooms, message routing, and the bot/human
// handoff. It validates inputs, serializes appends per room, runs the bot
// turn (credit debit, knowledge lookup, gap recording), and drives the
// room state machine:
//
//	BOT_SERVED -> AWAITING_HUMAN -> HUMAN_LIVE -> CLOSED -> BOT_SERVED (reopen)
//
// Escalating a room that is already live fails with ErrRoomAlreadyLive;
// the compare-and-set on the live flag guarantees a single winner when two
// operators race for a pickup.
//
// Observability: the message path is OpenTelemetry-instrumented; spans
// include room and customer identifiers.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
	"github.com/StevenSmith-code/corinna-ai/internal/mailer"
	"github.com/StevenSmith-code/corinna-ai/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"

	// handoffMessage is what customers see while the room waits for an
	// operator; internal error kinds are never shown.
	handoffMessage = "Let me connect you to one of our team members. Someone will be with you shortly."

	resolvedSubject = "Your conversation has been resolved"
)

// Publisher receives every appended message for realtime fan-out. The
// websocket hub implements it; a nil publisher disables fan-out.
type Publisher interface {
	Publish(roomID, kind string, msg *domain.ChatMessage)
}

// ConversationService coordinates rooms, messages, and the bot turn.
type ConversationService struct {
	DB        *gorm.DB
	Knowledge *KnowledgeService
	Billing   *BillingService
	Mailer    mailer.Mailer
	Publisher Publisher

	// FallbackMessage is the reply when the tenant's credits are exhausted.
	FallbackMessage string

	// MaxMessageRunes caps inbound message length (0 disables the cap).
	MaxMessageRunes int

	// locks serializes message appends per room so concurrent writes
	// cannot interleave out of creation order.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewConversationService constructs the engine with its collaborators.
func NewConversationService(db *gorm.DB, k *KnowledgeService, b *BillingService, m mailer.Mailer, pub Publisher, fallback string) *ConversationService {
	return &ConversationService{
		DB:              db,
		Knowledge:       k,
		Billing:         b,
		Mailer:          m,
		Publisher:       pub,
		FallbackMessage: fallback,
		MaxMessageRunes: 2000,
		locks:           make(map[string]*sync.Mutex),
	}
}

// OpenOrResumeRoom returns the customer's room, creating one (live=false)
// on first contact. A closed room is returned as-is: it reopens when the
// next inbound message arrives, preserving history.
func (s *ConversationService) OpenOrResumeRoom(ctx context.Context, customerID string) (*domain.ChatRoom, error) {
	if _, err := repo.GetCustomerAny(ctx, s.DB, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	room, err := repo.RoomForCustomer(ctx, s.DB, customerID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return repo.CreateRoom(ctx, s.DB, customerID)
}

// PostMessage appends a message to a room and returns it together with the
// bot's reply when one was produced. The reply is nil for operator
// (assistant) messages and for inbound messages on a live room, which wait
// for the human instead.
//
// A user message on a closed room first reopens it (state resets to
// BOT_SERVED, history retained).
func (s *ConversationService) PostMessage(ctx context.Context, roomID, role, text string) (*domain.ChatMessage, *domain.ChatMessage, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "PostMessage",
		trace.WithAttributes(
			attribute.String("room.id", roomID),
			attribute.String("message.role", role),
		),
	)
	defer span.End()

	if role != roleUser && role != roleAssistant {
		return nil, nil, ErrInvalidRole
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, ErrEmptyMessage
	}
	if s.MaxMessageRunes > 0 && utf8.RuneCountInString(text) > s.MaxMessageRunes {
		return nil, nil, ErrMessageTooLong
	}

	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := repo.GetRoom(ctx, s.DB, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, err
	}

	// Closed rooms reopen on inbound traffic.
	if role == roleUser && room.Mailed && !room.Live {
		if err := repo.ReopenRoom(ctx, s.DB, roomID); err != nil {
			return nil, nil, err
		}
		room.Mailed = false
	}

	var msg *domain.ChatMessage
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.CreateChatMessage(tx, roomID, role, text)
		if err != nil {
			return err
		}
		msg = m
		return repo.TouchRoom(tx, roomID)
	})
	if err != nil {
		return nil, nil, err
	}
	s.publish(roomID, "message", msg)

	// Live rooms belong to the human; the bot stays out.
	if role != roleUser || room.Live {
		return msg, nil, nil
	}

	reply, err := s.botTurn(ctx, room, text)
	if err != nil {
		return nil, nil, err
	}
	s.publish(roomID, "message", reply)
	return msg, reply, nil
}

// botTurn produces the assistant reply for an inbound customer message on
// a non-live room: debit one credit, consult the knowledge base, and on a
// miss record the gap and hand off. Exhausted credits degrade to the
// fallback reply without touching knowledge-base state.
func (s *ConversationService) botTurn(ctx context.Context, room *domain.ChatRoom, question string) (*domain.ChatMessage, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "botTurn",
		trace.WithAttributes(attribute.String("room.id", room.ID)),
	)
	defer span.End()

	customer, err := repo.GetCustomerAny(ctx, s.DB, room.CustomerID)
	if err != nil {
		return nil, err
	}
	d, err := repo.GetDomainAny(ctx, s.DB, customer.DomainID)
	if err != nil {
		return nil, err
	}

	if err := s.Billing.Debit(ctx, d.UserID, 1); err != nil {
		if errors.Is(err, ErrInsufficientCredits) {
			return s.appendAssistant(ctx, room.ID, s.FallbackMessage)
		}
		return nil, err
	}

	answer, err := s.Knowledge.Lookup(ctx, d.ID, question)
	if err != nil {
		return nil, err
	}
	if answer != nil {
		return s.appendAssistant(ctx, room.ID, answer.Text)
	}

	// No confident match: record the gap and steer toward a human. The
	// room stays live=false until an operator explicitly escalates.
	if _, err := s.Knowledge.RecordGap(ctx, d.ID, question); err != nil {
		return nil, err
	}
	return s.appendAssistant(ctx, room.ID, handoffMessage)
}

// appendAssistant writes the reply inside a transaction with the room's
// recency bump.
func (s *ConversationService) appendAssistant(ctx context.Context, roomID, text string) (*domain.ChatMessage, error) {
	var msg *domain.ChatMessage
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.CreateChatMessage(tx, roomID, roleAssistant, text)
		if err != nil {
			return err
		}
		msg = m
		return repo.TouchRoom(tx, roomID)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// authorizeRoom loads a room and verifies the caller's tenant owns the
// domain the room's customer belongs to. Rooms of other tenants surface
// exactly like missing domains: authorizeDomain logs the violation and the
// HTTP layer answers 404.
func (s *ConversationService) authorizeRoom(ctx context.Context, userID, roomID string) (*domain.ChatRoom, error) {
	room, err := repo.GetRoom(ctx, s.DB, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	customer, err := repo.GetCustomerAny(ctx, s.DB, room.CustomerID)
	if err != nil {
		return nil, err
	}
	if _, err := authorizeDomain(ctx, s.DB, customer.DomainID, userID); err != nil {
		return nil, err
	}
	return room, nil
}

// PostOperatorMessage appends an operator reply to one of the tenant's own
// rooms. The assistant role is fixed here so the console surface can never
// write customer messages, and the widget surface can never write operator
// ones.
func (s *ConversationService) PostOperatorMessage(ctx context.Context, userID, roomID, text string) (*domain.ChatMessage, error) {
	if _, err := s.authorizeRoom(ctx, userID, roomID); err != nil {
		return nil, err
	}
	msg, _, err := s.PostMessage(ctx, roomID, roleAssistant, text)
	return msg, err
}

// Transcript returns a page of one of the tenant's room transcripts,
// oldest first.
func (s *ConversationService) Transcript(ctx context.Context, userID, roomID string, page, pageSize int) ([]domain.ChatMessage, int64, error) {
	if _, err := s.authorizeRoom(ctx, userID, roomID); err != nil {
		return nil, 0, err
	}
	return s.ListMessagesPage(ctx, roomID, page, pageSize)
}

// MarkSeen flips a message's seen flag in one of the tenant's own rooms.
// Idempotent: repeated calls on the same message observe the same state,
// and the flag never reverses.
func (s *ConversationService) MarkSeen(ctx context.Context, userID, messageID string) error {
	msg, err := repo.GetChatMessage(s.DB.WithContext(ctx), messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if _, err := s.authorizeRoom(ctx, userID, msg.ChatRoomID); err != nil {
		return err
	}
	_, err = repo.MarkSeen(s.DB.WithContext(ctx), messageID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMessageNotFound
	}
	return err
}

// EscalateToHuman transitions one of the tenant's rooms to HUMAN_LIVE.
// Exactly one of any number of concurrent calls wins; the rest get
// ErrRoomAlreadyLive so a second operator never silently believes the
// pickup succeeded. Closed rooms cannot be escalated: the customer must
// write again (reopening the room) first.
func (s *ConversationService) EscalateToHuman(ctx context.Context, userID, roomID string) (*domain.ChatRoom, error) {
	room, err := s.authorizeRoom(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	if _, terr := domain.Transition(domain.StateOf(room, false), domain.RoomHumanLive); terr != nil {
		if room.Mailed && !room.Live {
			return nil, ErrRoomAlreadyClosed
		}
		return nil, ErrRoomAlreadyLive
	}

	won, err := repo.EscalateRoom(ctx, s.DB, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if !won {
		return nil, ErrRoomAlreadyLive
	}
	room, err = repo.GetRoom(ctx, s.DB, roomID)
	if err != nil {
		return nil, err
	}
	s.publish(roomID, "escalated", nil)
	return room, nil
}

// ResolveAndClose ends the engagement on one of the tenant's rooms: the
// resolution notice is handed to the mailer first, and only a successful
// hand-off sets the mailed flag. The room and its history are retained; a
// later inbound message reopens it. Re-closing an already-closed room is a
// conflict. The per-room lock plus the compare-and-set in repo.CloseRoom
// guarantee a single closer, so the notice is mailed at most once.
func (s *ConversationService) ResolveAndClose(ctx context.Context, userID, roomID string) error {
	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.authorizeRoom(ctx, userID, roomID)
	if err != nil {
		return err
	}
	if _, terr := domain.Transition(domain.StateOf(room, false), domain.RoomClosed); terr != nil {
		return ErrRoomAlreadyClosed
	}

	customer, err := repo.GetCustomerAny(ctx, s.DB, room.CustomerID)
	if err != nil {
		return err
	}
	if s.Mailer != nil && customer.Email != nil && *customer.Email != "" {
		if err := s.Mailer.Send(ctx, *customer.Email, resolvedSubject,
			"Thanks for reaching out. Your conversation has been resolved. Reply any time to pick it back up."); err != nil {
			return err
		}
	}
	closed, err := repo.CloseRoom(ctx, s.DB, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	if !closed {
		return ErrRoomAlreadyClosed
	}
	s.publish(roomID, "closed", nil)
	return nil
}

// ListMessagesPage returns paginated messages for a room, oldest first.
func (s *ConversationService) ListMessagesPage(ctx context.Context, roomID string, page, pageSize int) ([]domain.ChatMessage, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	if _, err := repo.GetRoom(ctx, s.DB, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrRoomNotFound
		}
		return nil, 0, err
	}

	total, err := repo.CountChatMessages(s.DB.WithContext(ctx), roomID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.ChatMessage{}, 0, nil
	}
	items, err := repo.ListChatMessagesPage(s.DB.WithContext(ctx), roomID, offset, pageSize)
	return items, total, err
}

// RoomsForDomain lists a domain's rooms for the tenant console, most
// recently active first.
func (s *ConversationService) RoomsForDomain(ctx context.Context, userID, domainID string) ([]domain.ChatRoom, error) {
	if _, err := authorizeDomain(ctx, s.DB, domainID, userID); err != nil {
		return nil, err
	}
	return repo.ListRoomsForDomain(ctx, s.DB, domainID)
}

// UnseenCount reports unseen customer messages in one of the tenant's
// rooms.
func (s *ConversationService) UnseenCount(ctx context.Context, userID, roomID string) (int64, error) {
	if _, err := s.authorizeRoom(ctx, userID, roomID); err != nil {
		return 0, err
	}
	return repo.CountUnseen(s.DB.WithContext(ctx), roomID, roleUser)
}

// roomLock returns the append lock for a room, creating it on first use.
// Locks are never evicted; rooms are few and long-lived relative to the
// process.
func (s *ConversationService) roomLock(roomID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[roomID] = l
	}
	return l
}

func (s *ConversationService) publish(roomID, kind string, msg *domain.ChatMessage) {
	if s.Publisher != nil {
		s.Publisher.Publish(roomID, kind, msg)
	}
}
