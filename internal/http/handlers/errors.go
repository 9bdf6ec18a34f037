// Package handlers defines the HTTP-layer error codes used across all API
// endpoints, plus the mapping from service sentinel errors to responses.
//
// Codes are lowercase snake_case and stable: clients branch on them for
// programmatic handling while the message stays human-readable. Generic
// codes mirror HTTP status semantics; domain-specific codes carry business
// outcomes a status alone cannot (insufficient_credits, slot_taken).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StevenSmith-code/corinna-ai/internal/services"
)

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeInsufficientCredits = "insufficient_credits"
	ErrCodeSlotTaken           = "slot_taken"
	ErrCodeTenantIsolation     = "tenant_isolation"
	ErrCodeMethodNotAllowed    = "method_not_allowed"
)

// failService translates a service sentinel into the matching HTTP
// response. Unknown errors become 500 with a generic message so internal
// detail never leaks to clients.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrDomainNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrMessageNotFound),
		errors.Is(err, services.ErrCampaignNotFound),
		errors.Is(err, services.ErrFilterQuestionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())

	case errors.Is(err, services.ErrTenantIsolation):
		// Same surface as not found: the resource's existence is not
		// revealed across tenants.
		fail(c, http.StatusNotFound, ErrCodeNotFound, "domain not found")

	case errors.Is(err, services.ErrRoomAlreadyLive),
		errors.Is(err, services.ErrRoomAlreadyClosed):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())

	case errors.Is(err, services.ErrSlotTaken):
		fail(c, http.StatusConflict, ErrCodeSlotTaken, "slot already booked")

	case errors.Is(err, services.ErrInsufficientCredits):
		fail(c, http.StatusPaymentRequired, ErrCodeInsufficientCredits, "credit balance exhausted")

	case errors.Is(err, services.ErrEmptyName),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrMessageTooLong),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrEmptyQuestion),
		errors.Is(err, services.ErrEmptyAnswer),
		errors.Is(err, services.ErrInvalidPlan),
		errors.Is(err, services.ErrQuestionUnanswered),
		errors.Is(err, services.ErrEmptySlot):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())

	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
