package api

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxRequestID = "request_id"
	ctxUser      = "user"

	eventsRoute = "/projects/:code/events"

	headerRequestID = "X-Request-ID"
	headerToken     = "TB_TOKEN" // Legacy token header
)

// requestID tags every request with an ID, reusing the caller's when sent.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// accessLog writes one structured line per request.
func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		logger.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", c.GetString(ctxRequestID)),
			slog.String("user", c.GetString(ctxUser)),
		)
	}
}

// timeout bounds the request context, and with it the storage transaction.
// The event stream is long-lived and exempt.
func timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 || c.FullPath() == eventsRoute {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// bearerToken extracts the token from Authorization or the legacy header.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get(headerToken))
}

// auth admits requests carrying a configured token. With no tokens
// configured every request is admitted.
func auth(tokens map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(tokens) == 0 {
			c.Next()
			return
		}

		presented := bearerToken(c.Request)
		for token, user := range tokens {
			if presented != "" && subtle.ConstantTimeCompare([]byte(presented), []byte(token)) == 1 {
				c.Set(ctxUser, user)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "UNAUTHORIZED", Message: "missing or unknown token"})
	}
}
