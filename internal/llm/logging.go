package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stemlab/exploratorium/internal/logger"
	"github.com/stemlab/exploratorium/internal/store"
)

// LoggingProvider is a decorator that records every request as an event
// and writes a structured log line for it.
type LoggingProvider struct {
	inner     Provider
	name      string
	eventRepo store.EventRepo
	log       *logger.Logger
}

// WithLogging wraps a Provider with event logging. name is the provider
// name recorded on each event ("openai", "anthropic", ...).
func WithLogging(p Provider, name string, repo store.EventRepo, log *logger.Logger) Provider {
	if repo == nil {
		repo = store.Discard()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{
		inner:     p,
		name:      name,
		eventRepo: repo,
		log:       log.With("component", "llm", "provider", name),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()
	// An empty completion list is a handled outcome, not a failed call.
	success := err == nil || errors.Is(err, ErrNoCompletion)

	data := store.LLMRequestEventData{
		Provider:    l.name,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latencyMs,
		Success:     success,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = resp.Text
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	l.log.Debug("llm request",
		"purpose", purpose,
		"model", data.Model,
		"latency_ms", latencyMs,
		"input_tokens", data.InputTokens,
		"output_tokens", data.OutputTokens,
		"success", success,
	)

	// Log the event but don't fail the request if logging fails.
	if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
		l.log.Warn("failed to record LLM request event", "error", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("[max_tokens: %d]\n", req.MaxTokens))
	if req.Temperature != nil {
		b.WriteString(fmt.Sprintf("[temperature: %g]\n", *req.Temperature))
	}

	return b.String()
}
