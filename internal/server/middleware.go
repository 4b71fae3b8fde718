package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"openroutersidebar/internal/core"
	"openroutersidebar/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// MaxBodySize is the maximum allowed request body size (64KB). Only small forms are posted.
const MaxBodySize = 64 << 10

const sessionContextKey = "session"

func (s *Server) maxBodySizeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodySize)
		c.Next()
	}
}

type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitorInfo
	limit    rate.Limit
	burst    int
	idle     time.Duration
	cleanup  time.Duration
}

type visitorInfo struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newRateLimiter allows ratePerMinute requests per client IP, refilled evenly.
func newRateLimiter(ctx context.Context, ratePerMinute int) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitorInfo),
		limit:    rate.Limit(float64(ratePerMinute) / 60),
		burst:    ratePerMinute,
		idle:     3 * time.Minute,
		cleanup:  5 * time.Minute,
	}
	go rl.cleanupLoop(ctx)
	return rl
}

func (rl *rateLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evictIdle(time.Now())
		}
	}
}

func (rl *rateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitorInfo{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	rl.mu.Unlock()
	return v.limiter.Allow()
}

func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !s.rateLimiter.allow(ip) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// corsMiddleware answers "*" unless CORS_ALLOW_ORIGIN lists origins, in which
// case only a listed Origin is echoed back and credentials are allowed.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	allowed := make(map[string]bool, len(s.config.CORSAllowOrigins))
	wildcard := len(s.config.CORSAllowOrigins) == 0
	for _, origin := range s.config.CORSAllowOrigins {
		if origin == "*" {
			wildcard = true
		}
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		switch origin := c.GetHeader("Origin"); {
		case wildcard:
			c.Header("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Max-Age", core.CORSMaxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// sessionMiddleware loads the session named by the cookie, or starts a new
// one. Handlers persist it with saveSession before writing their response so
// that a redirected follow-up request observes the change.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		logger := s.config.Logger

		var sess *core.Session
		if id, err := c.Cookie(core.SessionCookieName); err == nil && util.IsValidSessionID(id) {
			loaded, loadErr := s.sessions.Load(ctx, id)
			switch {
			case loadErr == nil:
				sess = loaded
			case errors.Is(loadErr, core.ErrSessionNotFound):
				logger.Debug("Session %s not found, starting a new one", id)
			default:
				logger.Warn("Failed to load session %s: %v", id, loadErr)
			}
		}
		if sess == nil {
			sess = core.NewSession(util.GenerateSessionID())
		}

		s.setSessionCookie(c, sess.ID)
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// setSessionCookie replaces any session cookie already queued on the response.
func (s *Server) setSessionCookie(c *gin.Context, id string) {
	c.Writer.Header().Del("Set-Cookie")
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     core.SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.config.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   s.secureCookies(),
		SameSite: http.SameSiteLaxMode,
	})
}

// rotateSession moves sess to a fresh id and drops the old record.
func (s *Server) rotateSession(c *gin.Context, sess *core.Session) {
	oldID := sess.ID
	sess.ID = util.GenerateSessionID()
	if err := s.sessions.Delete(c.Request.Context(), oldID); err != nil {
		s.config.Logger.Warn("Failed to delete session %s: %v", oldID, err)
	}
	s.setSessionCookie(c, sess.ID)
}

func sessionFrom(c *gin.Context) *core.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if sess, ok := v.(*core.Session); ok {
			return sess
		}
	}
	return nil
}
