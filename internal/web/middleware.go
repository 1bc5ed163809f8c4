package web

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stemlab/exploratorium/internal/logger"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
	sentryTimeout   = 2 * time.Second
)

// RequestTracking assigns a request ID and logs each request on completion.
func RequestTracking(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.Scope().SetTag(requestIDKey, requestID)
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"request_id", requestID,
			"duration_ms", time.Since(start).Milliseconds(),
			"status_code", status,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request failed with server error", kv...)
		case status >= http.StatusBadRequest:
			log.Warn("request failed with client error", kv...)
		default:
			log.Info("request completed", kv...)
		}
	}
}

// SentryMiddleware binds a Sentry hub to every request.
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         sentryTimeout,
	})
}

// RecoverWithSentry turns a panic into a 500 and reports it.
func RecoverWithSentry(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				if hub := sentrygin.GetHubFromContext(c); hub != nil {
					hub.WithScope(func(scope *sentry.Scope) {
						scope.SetRequest(c.Request)
						scope.SetTag(requestIDKey, c.GetString(requestIDKey))
						hub.RecoverWithContext(c.Request.Context(), rec)
					})
				}

				log.Error("panic recovered",
					"request_id", c.GetString(requestIDKey),
					"panic", rec,
					"path", c.Request.URL.Path,
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "Internal server error",
					"request_id": c.GetString(requestIDKey),
				})
			}
		}()
		c.Next()
	}
}
