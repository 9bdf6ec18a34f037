// Booking HTTP handlers.
//
// Slot booking is reachable from the customer widget (create, own
// bookings) and the tenant console (per-domain calendar).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateBookingRequest is the JSON payload for booking a slot.
type CreateBookingRequest struct {
	DomainID   string `json:"domain_id" binding:"required,uuid"`
	CustomerID string `json:"customer_id" binding:"required,uuid"`
	// Date is the day of the appointment, YYYY-MM-DD.
	Date string `json:"date" binding:"required"`
	// Slot is the time label within the day, e.g. "3:30pm".
	Slot  string `json:"slot" binding:"required"`
	Email string `json:"email"`
}

// CreateBooking reserves a slot. A slot already taken on that domain and
// day yields 409 with code slot_taken.
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "domain_id, customer_id, date, and slot required")
		return
	}
	b, err := h.bookings.Create(c.Request.Context(), req.DomainID, req.CustomerID, req.Date, req.Slot, req.Email)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, b)
}

// ListDomainBookings returns the tenant's bookings on a domain.
func (h *Handlers) ListDomainBookings(c *gin.Context) {
	id, okID := domainParam(c)
	if !okID {
		return
	}
	items, err := h.bookings.ListForDomain(c.Request.Context(), userID(c), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"bookings": items})
}

// ListCustomerBookings returns a customer's own bookings (widget).
func (h *Handlers) ListCustomerBookings(c *gin.Context) {
	custID := c.Param("id")
	if _, err := uuid.Parse(custID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "customer id must be a UUID")
		return
	}
	items, err := h.bookings.ListForCustomer(c.Request.Context(), custID)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"bookings": items})
}
