// Campaign HTTP handlers (tenant console).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateCampaignRequest is the JSON payload for starting a campaign.
type CreateCampaignRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

// AddCampaignCustomersRequest enrols customers from one domain.
type AddCampaignCustomersRequest struct {
	DomainID    string   `json:"domain_id" binding:"required,uuid"`
	CustomerIDs []string `json:"customer_ids" binding:"required,min=1"`
}

// UpdateTemplateRequest replaces the campaign's message template.
type UpdateTemplateRequest struct {
	Template string `json:"template" binding:"required"`
}

func campaignParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "campaign id must be a UUID")
		return "", false
	}
	return id, true
}

// CreateCampaign starts a new empty campaign.
func (h *Handlers) CreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}
	camp, err := h.campaigns.Create(c.Request.Context(), userID(c), req.Name)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, camp)
}

// ListCampaigns returns the tenant's campaigns, newest first.
func (h *Handlers) ListCampaigns(c *gin.Context) {
	items, err := h.campaigns.List(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"campaigns": items})
}

// GetCampaign fetches one campaign.
func (h *Handlers) GetCampaign(c *gin.Context) {
	id, okID := campaignParam(c)
	if !okID {
		return
	}
	camp, err := h.campaigns.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, camp)
}

// AddCampaignCustomers enrols customers into a campaign and reports how
// many were newly added. Duplicates and email-less customers are skipped.
func (h *Handlers) AddCampaignCustomers(c *gin.Context) {
	id, okID := campaignParam(c)
	if !okID {
		return
	}
	var req AddCampaignCustomersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "domain_id and customer_ids required")
		return
	}
	added, err := h.campaigns.AddCustomers(c.Request.Context(), userID(c), id, req.DomainID, req.CustomerIDs)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"added": added})
}

// UpdateCampaignTemplate replaces the campaign's message template.
func (h *Handlers) UpdateCampaignTemplate(c *gin.Context) {
	id, okID := campaignParam(c)
	if !okID {
		return
	}
	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "template required")
		return
	}
	if err := h.campaigns.UpdateTemplate(c.Request.Context(), userID(c), id, req.Template); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// ListCampaignRecipients returns the enrolled audience with the emails
// snapshotted at enrolment time.
func (h *Handlers) ListCampaignRecipients(c *gin.Context) {
	id, okID := campaignParam(c)
	if !okID {
		return
	}
	items, err := h.campaigns.Recipients(c.Request.Context(), userID(c), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"recipients": items})
}
