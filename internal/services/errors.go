// Package services defines the business logic for tenants, domains,
// billing, the knowledge base, conversations, customers, campaigns, and
// bookings. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer. Customers never see these kinds: the
// conversation engine turns billing exhaustion into a fallback reply and
// missing knowledge into a human-handoff reply.
package services

import "errors"

// Not-found errors (entity missing or not visible to the caller).
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrDomainNotFound         = errors.New("domain not found")
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrRoomNotFound           = errors.New("chat room not found")
	ErrMessageNotFound        = errors.New("chat message not found")
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrFilterQuestionNotFound = errors.New("filter question not found")
)

// Conflict errors (invalid state transition or losing a race).
var (
	// ErrRoomAlreadyLive is returned when escalation hits a room that a
	// human operator already took. The second operator must not silently
	// succeed, so this is an error rather than a no-op.
	ErrRoomAlreadyLive = errors.New("room is already live")

	// ErrRoomAlreadyClosed is returned when resolving a room that was
	// already resolved and mailed.
	ErrRoomAlreadyClosed = errors.New("room is already closed")

	// ErrSlotTaken is returned when a booking loses the race for a
	// (domain, date, slot) triple.
	ErrSlotTaken = errors.New("slot already booked")
)

// ErrInsufficientCredits is returned by the billing ledger when a debit
// would drive the balance below zero. The conversation engine degrades to
// a fallback reply instead of surfacing it to customers.
var ErrInsufficientCredits = errors.New("insufficient credits")

// ErrTenantIsolation is returned when a caller references an entity owned
// by another tenant. It is never recovered: the request aborts with no
// partial effect and the attempt is logged as a security event.
var ErrTenantIsolation = errors.New("cross-tenant access denied")

// Validation errors.
var (
	ErrEmptyName          = errors.New("name is empty")
	ErrEmptySlot          = errors.New("booking date and slot are required")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrMessageTooLong     = errors.New("message too long")
	ErrInvalidRole        = errors.New("role must be user or assistant")
	ErrEmptyQuestion      = errors.New("question is empty")
	ErrEmptyAnswer        = errors.New("answer is empty")
	ErrInvalidPlan        = errors.New("unknown plan")
	ErrQuestionUnanswered = errors.New("filter question has no answer yet")
)
