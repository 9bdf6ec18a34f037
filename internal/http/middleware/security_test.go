package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func securityRouter(opt SecurityOptions) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), SecurityHeaders(opt))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	r := securityRouter(SecurityOptions{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	h := w.Header()
	if h.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("nosniff missing")
	}
	if h.Get("X-Frame-Options") != "DENY" {
		t.Fatalf("frame options missing")
	}
	if h.Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("referrer policy missing")
	}
	// Optional headers stay off by default.
	if h.Get("Permissions-Policy") != "" || h.Get("Cache-Control") != "" {
		t.Fatalf("optional headers emitted without opt-in: %+v", h)
	}
	if !strings.Contains(h.Get("Access-Control-Expose-Headers"), "X-Request-ID") {
		t.Fatalf("request ID not exposed: %q", h.Get("Access-Control-Expose-Headers"))
	}
}

func TestSecurityHeaders_OptIns(t *testing.T) {
	r := securityRouter(SecurityOptions{NoStore: true, EnablePolicy: true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	h := w.Header()
	if h.Get("Cache-Control") != "no-store" || h.Get("Pragma") != "no-cache" {
		t.Fatalf("no-store headers missing: %+v", h)
	}
	if h.Get("Permissions-Policy") == "" {
		t.Fatalf("permissions policy missing")
	}
}

func TestSecurityHeaders_HSTSOnlyOverHTTPS(t *testing.T) {
	r := securityRouter(SecurityOptions{EnableHSTS: true, HSTSMaxAge: 24 * time.Hour})

	// Plain HTTP: never emit HSTS.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS emitted on plain HTTP")
	}

	// Behind a TLS-terminating proxy.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	got := w.Header().Get("Strict-Transport-Security")
	if !strings.Contains(got, "max-age=86400") {
		t.Fatalf("HSTS header wrong: %q", got)
	}
}
