package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rl1809/garage-ledger/internal/core/domain"
	"github.com/rl1809/garage-ledger/internal/infra/requestid"
	"github.com/rl1809/garage-ledger/internal/pkg/logger"
)

const (
	identityKey       = "identity"
	idempotencyHeader = "Idempotency-Key"
)

// RequireAuth resolves the bearer token. A missing token is 401, one that
// fails verification is 403.
func (h *HTTPHandler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := h.auth.Authorize(bearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func identityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok
}

// Idempotency rejects a repeated Idempotency-Key on the same route. The claim
// is released when the request fails so the client can retry it.
func (h *HTTPHandler) Idempotency() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(idempotencyHeader)
		if header == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := c.Request.Method + " " + c.FullPath() + " " + header
		ok, err := h.idempotency.SetIdempotency(ctx, key)
		if err != nil {
			h.log.Error("idempotency store failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "duplicate request"})
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := h.idempotency.ClearIdempotency(ctx, key); err != nil {
				h.log.Warn("release idempotency key failed", "key", key, "error", err)
			}
		}
	}
}

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestid.FromContext(c.Request.Context()),
		}
		if identity, ok := identityFrom(c); ok {
			fields = append(fields, "user_id", identity.UserID)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", requestid.Header, idempotencyHeader},
		ExposeHeaders:    []string{requestid.Header},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
