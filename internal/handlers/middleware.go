package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"spelldaily/internal/security"
	"spelldaily/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const AdminEmailContextKey ContextKey = "adminEmail"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	rateLimiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, rateLimiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService: authService,
		rateLimiter: rateLimiter,
	}
}

// RequireAdmin is middleware that requires a valid admin bearer token.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "Missing bearer token", nil)
			return
		}

		email, err := m.authService.VerifyToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid or expired token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), AdminEmailContextKey, email)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit is middleware that throttles requests per client IP.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.ClientIP(r)
		if !m.rateLimiter.Allow(ip) {
			respondError(w, http.StatusTooManyRequests, "Too many requests", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Call next handler
		next.ServeHTTP(w, r)

		// Log request
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetAdminEmailFromContext retrieves the authenticated admin email from the
// request context.
func GetAdminEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(AdminEmailContextKey).(string)
	return email
}
