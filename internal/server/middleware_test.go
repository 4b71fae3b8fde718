package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"openroutersidebar/internal/config"
	"openroutersidebar/internal/core"
	"openroutersidebar/internal/storage"

	"github.com/gin-gonic/gin"
)

func newTestServerForMiddleware(t *testing.T, ratePerMinute int) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	store := storage.NewMemoryStore(time.Hour)
	t.Cleanup(func() {
		cancel()
		_ = store.Close()
	})
	return &Server{
		sessions: store,
		config: config.ServerConfig{
			PublicURL:  "https://sidebar.example.com",
			SessionTTL: time.Hour,
			Logger:     &core.NopLogger{},
		},
		rateLimiter:    newRateLimiter(ctx, ratePerMinute),
		shutdownCtx:    ctx,
		shutdownCancel: cancel,
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	s := newTestServerForMiddleware(t, 2)

	if !s.rateLimiter.allow("10.0.0.1") || !s.rateLimiter.allow("10.0.0.1") {
		t.Fatal("requests within burst should pass")
	}
	if s.rateLimiter.allow("10.0.0.1") {
		t.Error("third request in the same minute should be limited")
	}
	if !s.rateLimiter.allow("10.0.0.2") {
		t.Error("other clients have their own budget")
	}
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	s := newTestServerForMiddleware(t, 5)
	s.rateLimiter.allow("10.0.0.1")

	s.rateLimiter.evictIdle(time.Now())
	if len(s.rateLimiter.visitors) != 1 {
		t.Fatalf("recent visitor should be kept, got %d", len(s.rateLimiter.visitors))
	}
	s.rateLimiter.evictIdle(time.Now().Add(time.Hour))
	if len(s.rateLimiter.visitors) != 0 {
		t.Errorf("idle visitor should be evicted, got %d", len(s.rateLimiter.visitors))
	}
}

func TestRateLimitMiddleware_Returns429(t *testing.T) {
	s := newTestServerForMiddleware(t, 1)
	handler := s.rateLimitMiddleware()

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = "192.0.2.1:1234"
		handler(c)
		if w.Code != want {
			t.Errorf("request %d: expected %d, got %d", i, want, w.Code)
		}
	}
}

func TestCorsMiddleware_SetsHeaders(t *testing.T) {
	s := newTestServerForMiddleware(t, 10)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/sidebar", nil)
	s.corsMiddleware()(c)
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected Access-Control-Allow-Origin '*', got '%s'", origin)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Error("wildcard origin must not allow credentials")
	}
}

func TestCorsMiddleware_ConfiguredOrigins(t *testing.T) {
	s := newTestServerForMiddleware(t, 10)
	s.config.CORSAllowOrigins = []string{"https://host.example.com", "https://other.example.com"}
	handler := s.corsMiddleware()

	tests := []struct {
		origin          string
		wantOrigin      string
		wantCredentials string
	}{
		{"https://other.example.com", "https://other.example.com", "true"},
		{"https://host.example.com", "https://host.example.com", "true"},
		{"https://evil.example.com", "", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/sidebar", nil)
		if tt.origin != "" {
			c.Request.Header.Set("Origin", tt.origin)
		}
		handler(c)
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
			t.Errorf("origin %q: Allow-Origin = %q, want %q", tt.origin, got, tt.wantOrigin)
		}
		if got := w.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCredentials {
			t.Errorf("origin %q: Allow-Credentials = %q, want %q", tt.origin, got, tt.wantCredentials)
		}
	}
}

func TestCorsMiddleware_OptionsRequest(t *testing.T) {
	s := newTestServerForMiddleware(t, 10)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodOptions, "/api/sidebar", nil)
	s.corsMiddleware()(c)
	if w.Code != http.StatusNoContent {
		t.Errorf("OPTIONS should return 204, got %d", w.Code)
	}
	if !c.IsAborted() {
		t.Error("OPTIONS should abort (skip handler)")
	}
}

func TestSessionMiddleware_CreatesSession(t *testing.T) {
	s := newTestServerForMiddleware(t, 10)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	s.sessionMiddleware()(c)

	sess := sessionFrom(c)
	if sess == nil || sess.ID == "" {
		t.Fatal("middleware should attach a session")
	}
	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, core.SessionCookieName+"="+sess.ID) {
		t.Errorf("cookie should carry the session id: %s", cookie)
	}
	for _, attr := range []string{"HttpOnly", "Secure", "SameSite=Lax"} {
		if !strings.Contains(cookie, attr) {
			t.Errorf("cookie missing %s: %s", attr, cookie)
		}
	}
}

func TestSessionMiddleware_LoadsExistingSession(t *testing.T) {
	s := newTestServerForMiddleware(t, 10)
	stored := core.NewSession("0b7c5f2e-6f43-4a5f-9d8e-2f3b1c9a7d10")
	stored.Model = "m2"
	if err := s.sessions.Save(context.Background(), stored); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: core.SessionCookieName, Value: stored.ID})
	s.sessionMiddleware()(c)

	sess := sessionFrom(c)
	if sess == nil || sess.ID != stored.ID || sess.Model != "m2" {
		t.Errorf("expected stored session, got %+v", sess)
	}
}

func TestSessionMiddleware_RejectsMalformedID(t *testing.T) {
	s := newTestServerForMiddleware(t, 10)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: core.SessionCookieName, Value: "../../etc/passwd"})
	s.sessionMiddleware()(c)

	if sess := sessionFrom(c); sess == nil || sess.ID == "../../etc/passwd" {
		t.Errorf("malformed id should start a fresh session, got %+v", sess)
	}
}
