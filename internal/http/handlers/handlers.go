// Handler wiring and service contracts.
//
// Handlers are transport-thin: they validate and normalize inputs, call
// the application services through narrow interfaces, and translate
// results into HTTP responses. Keeping the contracts in this package
// (consumer-side interfaces) lets tests swap fakes without touching the
// services package.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
	"github.com/StevenSmith-code/corinna-ai/internal/http/middleware"
	"github.com/StevenSmith-code/corinna-ai/internal/services"
	"github.com/StevenSmith-code/corinna-ai/internal/utils"
)

//
// Service contracts (context-aware)
//

// AccountService exposes tenant account lookup for HTTP handlers.
type AccountService interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// RegistryService defines domain and chatbot management operations.
//
// Implementations must scope every operation to the calling tenant and
// honor the provided context for cancellation.
type RegistryService interface {
	CreateDomain(ctx context.Context, userID, name, icon string) (*domain.Domain, error)
	Get(ctx context.Context, userID, domainID string) (*domain.Domain, error)
	List(ctx context.Context, userID string) ([]domain.Domain, error)
	Update(ctx context.Context, userID, domainID, name, icon string) error
	Delete(ctx context.Context, userID, domainID string) error
	GetChatBot(ctx context.Context, userID, domainID string) (*domain.ChatBot, error)
	UpdateChatBot(ctx context.Context, userID, domainID string, set services.ChatBotSettings) error
}

// KnowledgeService defines help-desk and filter-question operations.
type KnowledgeService interface {
	AddHelpDesk(ctx context.Context, userID, domainID, question, answer string) (*domain.HelpDesk, error)
	ListHelpDesk(ctx context.Context, userID, domainID string) ([]domain.HelpDesk, error)
	ListGaps(ctx context.Context, userID, domainID string, unansweredOnly bool) ([]domain.FilterQuestion, error)
	AnswerGap(ctx context.Context, userID, domainID, id, answer string) error
	PromoteGap(ctx context.Context, userID, domainID, id string) (*domain.HelpDesk, error)
}

// CustomerService defines customer capture and lookup operations.
type CustomerService interface {
	FindOrCreate(ctx context.Context, domainID, email string) (*domain.Customer, error)
	List(ctx context.Context, userID, domainID string) ([]domain.Customer, error)
	Get(ctx context.Context, userID, domainID, customerID string) (*domain.Customer, error)
}

// ConversationService defines the chat surface consumed by both the
// customer widget and the tenant console. Widget operations address rooms
// by ID alone; console operations additionally carry the calling tenant's
// userID and must verify room ownership.
type ConversationService interface {
	OpenOrResumeRoom(ctx context.Context, customerID string) (*domain.ChatRoom, error)
	PostMessage(ctx context.Context, roomID, role, text string) (*domain.ChatMessage, *domain.ChatMessage, error)
	ListMessagesPage(ctx context.Context, roomID string, page, pageSize int) ([]domain.ChatMessage, int64, error)
	PostOperatorMessage(ctx context.Context, userID, roomID, text string) (*domain.ChatMessage, error)
	Transcript(ctx context.Context, userID, roomID string, page, pageSize int) ([]domain.ChatMessage, int64, error)
	MarkSeen(ctx context.Context, userID, messageID string) error
	EscalateToHuman(ctx context.Context, userID, roomID string) (*domain.ChatRoom, error)
	ResolveAndClose(ctx context.Context, userID, roomID string) error
	RoomsForDomain(ctx context.Context, userID, domainID string) ([]domain.ChatRoom, error)
	UnseenCount(ctx context.Context, userID, roomID string) (int64, error)
}

// BillingService defines credit and plan operations.
type BillingService interface {
	Balance(ctx context.Context, userID string) (*domain.Billing, error)
	SetPlan(ctx context.Context, userID, plan string) error
	AddCredits(ctx context.Context, userID string, amount int) error
}

// CampaignService defines email campaign operations.
type CampaignService interface {
	Create(ctx context.Context, userID, name string) (*domain.Campaign, error)
	Get(ctx context.Context, userID, id string) (*domain.Campaign, error)
	List(ctx context.Context, userID string) ([]domain.Campaign, error)
	UpdateTemplate(ctx context.Context, userID, id, template string) error
	AddCustomers(ctx context.Context, userID, campaignID, domainID string, customerIDs []string) (int, error)
	Recipients(ctx context.Context, userID, campaignID string) ([]domain.CampaignCustomer, error)
}

// BookingService defines appointment slot operations.
type BookingService interface {
	Create(ctx context.Context, domainID, customerID, date, slot, email string) (*domain.Booking, error)
	ListForDomain(ctx context.Context, userID, domainID string) ([]domain.Booking, error)
	ListForCustomer(ctx context.Context, customerID string) ([]domain.Booking, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for the tenant console and the
// customer-facing chat widget.
type Handlers struct {
	accounts  AccountService
	registry  RegistryService
	knowledge KnowledgeService
	customers CustomerService
	convo     ConversationService
	billing   BillingService
	campaigns CampaignService
	bookings  BookingService
}

// New constructs a Handlers instance bound to the given services.
func New(
	accounts AccountService,
	registry RegistryService,
	knowledge KnowledgeService,
	customers CustomerService,
	convo ConversationService,
	billing BillingService,
	campaigns CampaignService,
	bookings BookingService,
) *Handlers {
	return &Handlers{
		accounts:  accounts,
		registry:  registry,
		knowledge: knowledge,
		customers: customers,
		convo:     convo,
		billing:   billing,
		campaigns: campaigns,
		bookings:  bookings,
	}
}

// userID extracts the authenticated user ID placed in the Gin context by
// the identity middleware.
func userID(c *gin.Context) string {
	return middleware.UserIDFrom(c)
}

//
// Shared DTOs and helpers
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// clampPagination parses and bounds page and page_size query params to
// sane defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.ClampInt(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

func paginationFor(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
