// Customer HTTP handlers (tenant console).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListCustomers returns a domain's captured customers, newest first.
func (h *Handlers) ListCustomers(c *gin.Context) {
	id, okID := domainParam(c)
	if !okID {
		return
	}
	items, err := h.customers.List(c.Request.Context(), userID(c), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"customers": items})
}

// GetCustomer fetches one customer on one of the tenant's domains.
func (h *Handlers) GetCustomer(c *gin.Context) {
	id, okID := domainParam(c)
	if !okID {
		return
	}
	custID := c.Param("cid")
	if _, err := uuid.Parse(custID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "customer id must be a UUID")
		return
	}
	cust, err := h.customers.Get(c.Request.Context(), userID(c), id, custID)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, cust)
}
