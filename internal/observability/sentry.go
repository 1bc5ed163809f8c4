// Package observability wires optional Sentry error reporting.
package observability

import (
	"context"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/stemlab/exploratorium/internal/logger"
)

const flushTimeout = 2 * time.Second

// SentryOptions configures error reporting. An empty DSN disables it.
type SentryOptions struct {
	DSN         string
	Environment string
	Release     string
}

// InitSentry initialises the global Sentry client. The returned flush
// function must be called before exit; it is a no-op when Sentry is off.
func InitSentry(opts SentryOptions, log *logger.Logger) func() {
	if opts.DSN == "" {
		log.Debug("sentry not configured")
		return func() {}
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Environment: opts.Environment,
		Release:     "exploratorium@" + opts.Release,
		Debug:       opts.Environment != "production" && opts.Environment != "",
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			if event.Request != nil {
				event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
			}
			return event
		},
	})
	if err != nil {
		log.Warn("failed to initialize sentry", "error", err)
		return func() {}
	}

	log.Info("sentry initialized", "environment", opts.Environment, "release", opts.Release)
	return func() { sentry.Flush(flushTimeout) }
}

// CaptureError reports err with the given tags. It uses the hub bound to
// ctx when there is one (the gin middleware binds one per request).
func CaptureError(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		hub.CaptureException(err)
	})
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string, len(headers))
	for k, v := range headers {
		switch strings.ToLower(k) {
		case "authorization", "cookie", "x-api-key":
			filtered[k] = "[REDACTED]"
		default:
			filtered[k] = v
		}
	}
	return filtered
}
