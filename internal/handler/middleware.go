package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/photoshare/backend/internal/model"
	"github.com/photoshare/backend/internal/service"
)

// AuthedHandlerFunc is a handler that runs only behind Protect and receives
// the verified identity explicitly.
type AuthedHandlerFunc func(c *gin.Context, auth *model.AuthContext)

// Protect verifies the request token and calls next with the decoded identity.
// On failure it answers 401 and next is never invoked.
func Protect(authService *service.AuthService, next AuthedHandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			writeServiceError(c, service.ErrUnauthenticated)
			c.Abort()
			return
		}

		auth, err := authService.Verify(token)
		if err != nil {
			writeServiceError(c, err)
			c.Abort()
			return
		}

		next(c, auth)
	}
}

// extractToken checks the Authorization bearer header first, then the
// auth_token cookie, then the legacy jwt cookie. A Bearer header always wins,
// even when its token is empty.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "Bearer" || strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
	}

	for _, name := range []string{service.AuthCookieName, service.LegacyCookieName} {
		if token, err := c.Cookie(name); err == nil && token != "" {
			return token
		}
	}
	return ""
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestLogger logs one line per request. Headers and cookies are never
// logged since they carry session tokens.
func RequestLogger() gin.HandlerFunc {
	logger := slog.Default().With("module", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request rejected", fields...)
		default:
			logger.Info("request handled", fields...)
		}
	}
}
