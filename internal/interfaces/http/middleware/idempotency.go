package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader is the header clients send to deduplicate retries
const IdempotencyKeyHeader = "Idempotency-Key"

const idempotencyTTL = 24 * time.Hour

// Idempotency rejects replays of mutating requests that carry an
// Idempotency-Key header. The key is scoped per tenant, method and path so
// different operations can reuse the same client key. Requests without the
// header pass through unchanged, and store failures fail open.
func Idempotency(store shared.IdempotencyStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		scopedKey := GetJWTGarageID(c) + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key
		first, err := store.MarkProcessed(c.Request.Context(), scopedKey, idempotencyTTL)
		if err != nil {
			if log != nil {
				log.Warn("idempotency store unavailable, letting request through",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path))
			}
			c.Next()
			return
		}
		if !first {
			requestID := c.GetString(RequestIDKey)
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponse("CONFLICT", "Duplicate request: this idempotency key was already used", requestID))
			return
		}

		c.Next()
	}
}
