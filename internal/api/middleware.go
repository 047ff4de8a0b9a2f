package api

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/guard"
	"alcyxob/fitness-admin/internal/session"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// Constants for context keys
const (
	ContextSessionKey = "session"
	ContextProfileKey = "profile"
)

// RequireAdmin runs the access guard on every request. Denied browser requests are
// redirected to /login and denied API requests get a 401; the reason is never exposed.
func RequireAdmin(g *guard.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := g.Check(c.Request.Context(), session.TokenFromRequest(c.Request))
		if errors.Is(err, guard.ErrCancelled) {
			// The client is gone; nothing to write.
			c.Abort()
			return
		}
		if err != nil || !decision.Granted() {
			if isAPIRequest(c) {
				abortWithError(c, http.StatusUnauthorized, "authentication required")
				return
			}
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, decision.Session)
		c.Set(ContextProfileKey, decision.Profile)
		c.Next()
	}
}

func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

func profileFromContext(c *gin.Context) *domain.Profile {
	raw, exists := c.Get(ContextProfileKey)
	if !exists {
		return nil
	}
	profile, _ := raw.(*domain.Profile)
	return profile
}

func sessionFromContext(c *gin.Context) *session.Session {
	raw, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil
	}
	s, _ := raw.(*session.Session)
	return s
}

// RequestLogger emits one structured line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// CSRF returns a handler that protects form posts against cross-site request forgery.
// JSON API requests (Content-Type: application/json) are exempted from CSRF.
// With secure false every request is treated as plain HTTP, so the strict
// HTTPS referer check does not apply.
func CSRF(authKey []byte, secure bool, trustedOrigins []string) func(http.Handler) http.Handler {
	csrfProtect := csrf.Protect(
		authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.TrustedOrigins(trustedOrigins),
	)

	return func(next http.Handler) http.Handler {
		protected := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
				next.ServeHTTP(w, r)
				return
			}
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}
