// Billing and account HTTP handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetPlanRequest is the JSON payload for switching plans. The granted
// credit allowance is configured per plan server-side, never taken from
// the request.
type SetPlanRequest struct {
	Plan string `json:"plan" binding:"required,oneof=STANDARD PRO ULTIMATE"`
}

// Me returns the authenticated tenant's account.
func (h *Handlers) Me(c *gin.Context) {
	u, err := h.accounts.Get(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// GetBilling returns the tenant's plan and remaining credits.
func (h *Handlers) GetBilling(c *gin.Context) {
	b, err := h.billing.Balance(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, b)
}

// SetPlan switches the tenant's plan; the new balance is the plan's
// configured allowance.
func (h *Handlers) SetPlan(c *gin.Context) {
	var req SetPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "plan must be STANDARD, PRO, or ULTIMATE")
		return
	}
	ctx := c.Request.Context()
	uid := userID(c)

	if err := h.billing.SetPlan(ctx, uid, req.Plan); err != nil {
		failService(c, err)
		return
	}
	b, err := h.billing.Balance(ctx, uid)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, b)
}

// AddCreditsRequest is the JSON payload for a mid-cycle credit top-up.
type AddCreditsRequest struct {
	Amount int `json:"amount" binding:"required,min=1"`
}

// AddCredits tops up the tenant's balance (billing provider webhook, sent
// after a successful one-off charge).
func (h *Handlers) AddCredits(c *gin.Context) {
	var req AddCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "amount must be a positive integer")
		return
	}
	ctx := c.Request.Context()
	uid := userID(c)

	if err := h.billing.AddCredits(ctx, uid, req.Amount); err != nil {
		failService(c, err)
		return
	}
	b, err := h.billing.Balance(ctx, uid)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, b)
}
