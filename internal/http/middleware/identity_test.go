package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() { gin.SetMode(gin.TestMode) }

func identityRouter(secret, issuer string, resolve IdentityResolver) *gin.Engine {
	r := gin.New()
	r.Use(Identity(secret, issuer, resolve))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, UserIDFrom(c))
	})
	return r
}

func echoResolver(c *gin.Context, identityID string) (string, error) {
	return "local-" + identityID, nil
}

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestIdentity_DevHeaderMode(t *testing.T) {
	r := identityRouter("", "", echoResolver)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-User-ID", "idp|jane")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "local-idp|jane" {
		t.Fatalf("resolved user = %q", w.Body.String())
	}

	// Without the header the request is rejected.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: status = %d", w.Code)
	}
}

func TestIdentity_ValidToken(t *testing.T) {
	const secret = "s3cr3t"
	r := identityRouter(secret, "", echoResolver)

	tok := signToken(t, secret, jwt.RegisteredClaims{
		Subject:   "idp|jane",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "local-idp|jane" {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestIdentity_RejectsBadTokens(t *testing.T) {
	const secret = "s3cr3t"

	expired := signToken(t, secret, jwt.RegisteredClaims{
		Subject:   "idp|jane",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	wrongKey := signToken(t, "other-secret", jwt.RegisteredClaims{
		Subject:   "idp|jane",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noSubject := signToken(t, secret, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage", "Bearer not.a.token"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"no subject", "Bearer " + noSubject},
	}

	r := identityRouter(secret, "", echoResolver)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
			if w.Header().Get("WWW-Authenticate") == "" {
				t.Fatalf("401 must carry WWW-Authenticate")
			}
		})
	}
}

func TestIdentity_IssuerCheck(t *testing.T) {
	const secret = "s3cr3t"
	r := identityRouter(secret, "https://idp.example.com", echoResolver)

	good := signToken(t, secret, jwt.RegisteredClaims{
		Subject:   "idp|jane",
		Issuer:    "https://idp.example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	bad := signToken(t, secret, jwt.RegisteredClaims{
		Subject:   "idp|jane",
		Issuer:    "https://evil.example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+good)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("matching issuer rejected: %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+bad)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong issuer accepted: %d", w.Code)
	}
}

func TestIdentity_ResolverFailure(t *testing.T) {
	r := identityRouter("", "", func(*gin.Context, string) (string, error) {
		return "", errors.New("db down")
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-User-ID", "idp|jane")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("resolver failure: status = %d", w.Code)
	}
}
