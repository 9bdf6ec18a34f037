// Conversation HTTP handlers.
//
// Two audiences share these endpoints. The customer-facing widget (no
// tenant auth) captures the visitor, opens or resumes their room, and
// posts messages; the bot turn runs inline and the reply comes back in the
// same response. The tenant console lists rooms, reads transcripts, marks
// messages seen, escalates to a human, and resolves conversations.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
)

// StartConversationRequest captures the visitor and opens their room.
// Email is optional: anonymous visitors get a fresh customer per session.
type StartConversationRequest struct {
	DomainID string `json:"domain_id" binding:"required,uuid"`
	Email    string `json:"email"`
}

// StartConversationResponse returns the customer and their (possibly
// resumed) chat room.
type StartConversationResponse struct {
	Customer *domain.Customer `json:"customer"`
	Room     *domain.ChatRoom `json:"room"`
}

// PostMessageRequest is the JSON payload for appending a message. The
// role is never client-supplied: the widget surface always writes "user"
// and the console surface always writes "assistant".
type PostMessageRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

// PostMessageResponse returns the stored message and, when the bot turn
// ran, its reply.
type PostMessageResponse struct {
	Message *domain.ChatMessage `json:"message"`
	Reply   *domain.ChatMessage `json:"reply,omitempty"`
}

// ListMessagesResponse contains a page of room messages, oldest first.
type ListMessagesResponse struct {
	Messages   []domain.ChatMessage `json:"messages"`
	Pagination Pagination           `json:"pagination"`
}

func roomParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "room id must be a UUID")
		return "", false
	}
	return id, true
}

// StartConversation captures the visitor on a domain and opens (or
// resumes) their chat room. Widget endpoint, no tenant auth.
func (h *Handlers) StartConversation(c *gin.Context) {
	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "domain_id required")
		return
	}
	ctx := c.Request.Context()

	cust, err := h.customers.FindOrCreate(ctx, req.DomainID, req.Email)
	if err != nil {
		failService(c, err)
		return
	}
	room, err := h.convo.OpenOrResumeRoom(ctx, cust.ID)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, StartConversationResponse{Customer: cust, Room: room})
}

// PostMessage appends a customer message to a room. Widget endpoint: the
// role is forced to "user" server-side, so a visitor can never post as the
// bot or an operator. On a bot-served room the bot turn runs and the reply
// is returned inline.
func (h *Handlers) PostMessage(c *gin.Context) {
	id, okID := roomParam(c)
	if !okID {
		return
	}
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	msg, reply, err := h.convo.PostMessage(c.Request.Context(), id, "user", req.Content)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, PostMessageResponse{Message: msg, Reply: reply})
}

// PostOperatorMessage appends an operator reply to one of the tenant's own
// rooms. Console endpoint; the role is always "assistant".
func (h *Handlers) PostOperatorMessage(c *gin.Context) {
	id, okID := roomParam(c)
	if !okID {
		return
	}
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	msg, err := h.convo.PostOperatorMessage(c.Request.Context(), userID(c), id, req.Content)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, PostMessageResponse{Message: msg})
}

// ListRoomMessages returns a paginated transcript for a room. Widget
// endpoint: the room ID acts as the visitor's capability.
func (h *Handlers) ListRoomMessages(c *gin.Context) {
	id, okID := roomParam(c)
	if !okID {
		return
	}
	page, pageSize := clampPagination(c)

	items, total, err := h.convo.ListMessagesPage(c.Request.Context(), id, page, pageSize)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ListMessagesResponse{
		Messages:   items,
		Pagination: paginationFor(page, pageSize, total),
	})
}

// ListRoomTranscript returns a paginated transcript of one of the tenant's
// own rooms for the console.
func (h *Handlers) ListRoomTranscript(c *gin.Context) {
	id, okID := roomParam(c)
	if !okID {
		return
	}
	page, pageSize := clampPagination(c)

	items, total, err := h.convo.Transcript(c.Request.Context(), userID(c), id, page, pageSize)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ListMessagesResponse{
		Messages:   items,
		Pagination: paginationFor(page, pageSize, total),
	})
}

// MarkMessageSeen flips a seen flag on a message in one of the tenant's
// rooms. Safe to repeat.
func (h *Handlers) MarkMessageSeen(c *gin.Context) {
	msgID := c.Param("id")
	if _, err := uuid.Parse(msgID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message id must be a UUID")
		return
	}
	if err := h.convo.MarkSeen(c.Request.Context(), userID(c), msgID); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// EscalateRoom switches one of the tenant's rooms to live human mode.
// Exactly one concurrent escalation wins; the rest receive 409.
func (h *Handlers) EscalateRoom(c *gin.Context) {
	id, okID := roomParam(c)
	if !okID {
		return
	}
	room, err := h.convo.EscalateToHuman(c.Request.Context(), userID(c), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, room)
}

// ResolveRoom closes one of the tenant's conversations and hands the
// resolution notice to the mailer. The room reopens automatically if the
// customer writes again.
func (h *Handlers) ResolveRoom(c *gin.Context) {
	id, okID := roomParam(c)
	if !okID {
		return
	}
	if err := h.convo.ResolveAndClose(c.Request.Context(), userID(c), id); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// ListDomainRooms returns a domain's rooms for the console inbox, most
// recently active first.
func (h *Handlers) ListDomainRooms(c *gin.Context) {
	id, okID := domainParam(c)
	if !okID {
		return
	}
	rooms, err := h.convo.RoomsForDomain(c.Request.Context(), userID(c), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"rooms": rooms})
}

// RoomUnseenCount reports how many customer messages in one of the
// tenant's rooms the operator has not yet seen.
func (h *Handlers) RoomUnseenCount(c *gin.Context) {
	id, okID := roomParam(c)
	if !okID {
		return
	}
	n, err := h.convo.UnseenCount(c.Request.Context(), userID(c), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"unseen": n})
}
