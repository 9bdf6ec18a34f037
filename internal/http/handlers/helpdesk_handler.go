// Help desk and filter question HTTP handlers.
//
// The help desk is the per-domain knowledge base the bot answers from.
// Filter questions are the recorded gaps: customer questions the bot had
// no confident answer for. Operators answer a gap and may promote it into
// the help desk, which makes future lookups answer it automatically.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AddHelpDeskRequest is the JSON payload for a new knowledge-base entry.
type AddHelpDeskRequest struct {
	Question string `json:"question" binding:"required,min=1"`
	Answer   string `json:"answer" binding:"required,min=1"`
}

// AnswerGapRequest is the JSON payload for answering a filter question.
type AnswerGapRequest struct {
	Answer string `json:"answer" binding:"required,min=1"`
}

// AddHelpDesk adds a question/answer pair to a domain's knowledge base.
func (h *Handlers) AddHelpDesk(c *gin.Context) {
	id, okID := domainParam(c)
	if !okID {
		return
	}
	var req AddHelpDeskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "question and answer required")
		return
	}
	entry, err := h.knowledge.AddHelpDesk(c.Request.Context(), userID(c), id, req.Question, req.Answer)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, entry)
}

// ListHelpDesk returns a domain's knowledge base, oldest first.
func (h *Handlers) ListHelpDesk(c *gin.Context) {
	id, okID := domainParam(c)
	if !okID {
		return
	}
	items, err := h.knowledge.ListHelpDesk(c.Request.Context(), userID(c), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"helpdesk": items})
}

// ListGaps returns a domain's filter questions. With ?unanswered=true only
// the gaps still waiting for an operator are returned.
func (h *Handlers) ListGaps(c *gin.Context) {
	id, okID := domainParam(c)
	if !okID {
		return
	}
	unansweredOnly := c.Query("unanswered") == "true"
	items, err := h.knowledge.ListGaps(c.Request.Context(), userID(c), id, unansweredOnly)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"filter_questions": items})
}

// AnswerGap records an operator's answer on a filter question.
func (h *Handlers) AnswerGap(c *gin.Context) {
	id, okID := domainParam(c)
	if !okID {
		return
	}
	gapID := c.Param("qid")
	if _, err := uuid.Parse(gapID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "question id must be a UUID")
		return
	}
	var req AnswerGapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "answer required")
		return
	}
	if err := h.knowledge.AnswerGap(c.Request.Context(), userID(c), id, gapID, req.Answer); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// PromoteGap copies an answered filter question into the help desk so the
// bot can answer it from then on.
func (h *Handlers) PromoteGap(c *gin.Context) {
	id, okID := domainParam(c)
	if !okID {
		return
	}
	gapID := c.Param("qid")
	if _, err := uuid.Parse(gapID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "question id must be a UUID")
		return
	}
	entry, err := h.knowledge.PromoteGap(c.Request.Context(), userID(c), id, gapID)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, entry)
}
