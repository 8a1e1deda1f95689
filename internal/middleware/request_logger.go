package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/obetrack/outcometrics/internal/pkg/logger"
)

// RequestIDKey is the context key holding the per-request ID.
const RequestIDKey = "requestId"

// RequestLogger tags each request with an ID and logs it on completion.
func RequestLogger() gin.HandlerFunc {
	log := logger.WithComponent("http")

	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= 500 {
			event = log.Error()
		}
		event.
			Str("requestId", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}
