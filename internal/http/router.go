// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, authentication, and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID -> logging -> recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Two surfaces: the authenticated tenant console under the API base
//     path, and the unauthenticated customer widget under /public
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/StevenSmith-code/corinna-ai/internal/config"
	"github.com/StevenSmith-code/corinna-ai/internal/http/handlers"
	"github.com/StevenSmith-code/corinna-ai/internal/http/middleware"
	"github.com/StevenSmith-code/corinna-ai/internal/mailer"
	"github.com/StevenSmith-code/corinna-ai/internal/services"
	"github.com/StevenSmith-code/corinna-ai/internal/ws"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given
// Gin engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured request logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per user/IP)
//  8. CORS and security headers
//
// Identity() runs only on the console group so the widget surface stays
// anonymous.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, hub *ws.Hub, mail mailer.Mailer, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// Response compression. Prometheus negotiates its own encoding and the
	// websocket upgrade must see the raw writer, so both are excluded.
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/metrics"}),
		gzip.WithExcludedPathsRegexs([]string{`^/public/rooms/.+/ws$`}),
	))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 8) CORS posture (safe defaults: allow all if none configured). The
	// widget is embedded on arbitrary customer sites, so an empty allowlist
	// means wildcard.
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services <- repo/db
	accounts := services.NewAccountService(db, cfg.Billing.StarterCredits)
	billing := services.NewBillingService(db, services.PlanAllowances{
		Standard: cfg.Billing.StarterCredits,
		Pro:      cfg.Billing.ProCredits,
		Ultimate: cfg.Billing.UltimateCredits,
	})
	registry := services.NewRegistryService(db)
	knowledge := services.NewKnowledgeService(db, cfg.Threshold, cfg.LookupTimeout)
	customers := services.NewCustomerService(db)
	convo := services.NewConversationService(db, knowledge, billing, mail, hub, cfg.FallbackMessage)
	campaigns := services.NewCampaignService(db)
	bookings := services.NewBookingService(db)

	h := handlers.New(accounts, registry, knowledge, customers, convo, billing, campaigns, bookings)

	// Customer widget surface: anonymous, embedded on tenant sites.
	pub := r.Group("/public")
	{
		pub.POST("/conversations", h.StartConversation)
		pub.POST("/rooms/:id/messages", h.PostMessage)
		pub.GET("/rooms/:id/messages", h.ListRoomMessages)
		pub.GET("/rooms/:id/ws", func(c *gin.Context) {
			id := c.Param("id")
			if err := ws.ServeRoom(hub, c.Writer, c.Request, id); err != nil {
				// Upgrade failures already wrote their response.
				c.Abort()
				return
			}
		})
		pub.POST("/bookings", h.CreateBooking)
		pub.GET("/customers/:id/bookings", h.ListCustomerBookings)
	}

	// Tenant console: everything behind the identity middleware.
	auth := middleware.Identity(cfg.Identity.Secret, cfg.Identity.Issuer,
		func(c *gin.Context, identityID string) (string, error) {
			u, err := accounts.FindOrCreateFromIdentity(c.Request.Context(), identityID, "", "")
			if err != nil {
				return "", err
			}
			return u.ID, nil
		})

	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(auth)
	{
		// Account and billing
		api.GET("/me", h.Me)
		api.GET("/billing", h.GetBilling)
		api.POST("/billing/plan", h.SetPlan)
		api.POST("/billing/credits", h.AddCredits)

		// Domains and chatbot settings
		api.POST("/domains", h.CreateDomain)
		api.GET("/domains", h.ListDomains)
		api.GET("/domains/:id", h.GetDomain)
		api.PUT("/domains/:id", h.UpdateDomain)
		api.DELETE("/domains/:id", h.DeleteDomain)
		api.GET("/domains/:id/chatbot", h.GetChatBot)
		api.PUT("/domains/:id/chatbot", h.UpdateChatBot)

		// Knowledge base and gaps
		api.POST("/domains/:id/helpdesk", h.AddHelpDesk)
		api.GET("/domains/:id/helpdesk", h.ListHelpDesk)
		api.GET("/domains/:id/filter-questions", h.ListGaps)
		api.PUT("/domains/:id/filter-questions/:qid", h.AnswerGap)
		api.POST("/domains/:id/filter-questions/:qid/promote", h.PromoteGap)

		// Customers
		api.GET("/domains/:id/customers", h.ListCustomers)
		api.GET("/domains/:id/customers/:cid", h.GetCustomer)

		// Conversations. Room operations verify ownership through the
		// room's customer's domain; the widget-style capability access
		// stays on /public only.
		api.GET("/domains/:id/rooms", h.ListDomainRooms)
		api.GET("/rooms/:id/messages", h.ListRoomTranscript)
		api.POST("/rooms/:id/messages", h.PostOperatorMessage)
		api.GET("/rooms/:id/unseen", h.RoomUnseenCount)
		api.POST("/rooms/:id/escalate", h.EscalateRoom)
		api.POST("/rooms/:id/resolve", h.ResolveRoom)
		api.PUT("/messages/:id/seen", h.MarkMessageSeen)

		// Bookings
		api.GET("/domains/:id/bookings", h.ListDomainBookings)

		// Campaigns
		api.POST("/campaigns", h.CreateCampaign)
		api.GET("/campaigns", h.ListCampaigns)
		api.GET("/campaigns/:id", h.GetCampaign)
		api.POST("/campaigns/:id/customers", h.AddCampaignCustomers)
		api.PUT("/campaigns/:id/template", h.UpdateCampaignTemplate)
		api.GET("/campaigns/:id/recipients", h.ListCampaignRecipients)
	}
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader. Requests exceeding the cap cause downstream body
// reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
