// Domain and chatbot HTTP handlers.
//
// This file exposes REST endpoints for the tenant's domain registry:
//   - POST   /domains                 (register a domain, provisions its chatbot)
//   - GET    /domains                 (list the tenant's domains)
//   - GET    /domains/{id}            (fetch one domain)
//   - PUT    /domains/{id}            (rename / re-icon)
//   - DELETE /domains/{id}            (remove the domain and everything under it)
//   - GET    /domains/{id}/chatbot    (widget settings)
//   - PUT    /domains/{id}/chatbot    (update widget settings)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/StevenSmith-code/corinna-ai/internal/services"
)

// CreateDomainRequest is the JSON payload for registering a domain.
type CreateDomainRequest struct {
	// Name is the hostname the widget will be embedded on.
	Name string `json:"name" binding:"required,min=1,max=255"`
	Icon string `json:"icon"`
}

// UpdateDomainRequest is the JSON payload for updating a domain.
type UpdateDomainRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
	Icon string `json:"icon"`
}

// UpdateChatBotRequest carries partial widget settings; absent fields are
// left unchanged.
type UpdateChatBotRequest struct {
	WelcomeMessage *string `json:"welcome_message"`
	Icon           *string `json:"icon"`
	Background     *string `json:"background"`
	TextColor      *string `json:"text_color"`
	HelpDesk       *bool   `json:"helpdesk"`
}

// domainParam validates the :id path parameter as a UUID.
func domainParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "domain id must be a UUID")
		return "", false
	}
	return id, true
}

// CreateDomain registers a new domain for the current tenant. The domain's
// chatbot is provisioned in the same operation with default settings.
func (h *Handlers) CreateDomain(c *gin.Context) {
	var req CreateDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}

	d, err := h.registry.CreateDomain(c.Request.Context(), userID(c), req.Name, strings.TrimSpace(req.Icon))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, d)
}

// ListDomains returns the tenant's domains, newest first.
func (h *Handlers) ListDomains(c *gin.Context) {
	items, err := h.registry.List(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"domains": items})
}

// GetDomain fetches one of the tenant's domains.
func (h *Handlers) GetDomain(c *gin.Context) {
	id, okID := domainParam(c)
	if !okID {
		return
	}
	d, err := h.registry.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, d)
}

// UpdateDomain renames a domain or replaces its icon.
func (h *Handlers) UpdateDomain(c *gin.Context) {
	id, okID := domainParam(c)
	if !okID {
		return
	}
	var req UpdateDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}
	if err := h.registry.Update(c.Request.Context(), userID(c), id, req.Name, strings.TrimSpace(req.Icon)); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// DeleteDomain removes a domain together with its chatbot, help desk,
// customers, rooms, messages, and bookings.
func (h *Handlers) DeleteDomain(c *gin.Context) {
	id, okID := domainParam(c)
	if !okID {
		return
	}
	if err := h.registry.Delete(c.Request.Context(), userID(c), id); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// GetChatBot returns the widget settings for a domain.
func (h *Handlers) GetChatBot(c *gin.Context) {
	id, okID := domainParam(c)
	if !okID {
		return
	}
	bot, err := h.registry.GetChatBot(c.Request.Context(), userID(c), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, bot)
}

// UpdateChatBot applies a partial update to the widget settings.
func (h *Handlers) UpdateChatBot(c *gin.Context) {
	id, okID := domainParam(c)
	if !okID {
		return
	}
	var req UpdateChatBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	set := services.ChatBotSettings{
		WelcomeMessage: req.WelcomeMessage,
		Icon:           req.Icon,
		Background:     req.Background,
		TextColor:      req.TextColor,
		HelpdeskOn:     req.HelpDesk,
	}
	if err := h.registry.UpdateChatBot(c.Request.Context(), userID(c), id, set); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}
