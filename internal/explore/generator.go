package explore

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/stemlab/exploratorium/internal/llm"
	"github.com/stemlab/exploratorium/internal/logger"
	"github.com/stemlab/exploratorium/internal/store"
)

// Result is the outcome of one generation run.
type Result struct {
	RequestID string
	Prompt    string
	Text      string
	Tier      Tier

	// PrimaryWords is the word count of the primary text, recorded even
	// when the fallback replaced it.
	PrimaryWords int

	words iter.Seq[string]
}

// Words streams the result text one word at a time. It is single-use.
// A Result built by hand streams Text with the default pacing.
func (r *Result) Words() iter.Seq[string] {
	if r.words == nil {
		r.words = Stream(context.Background(), r.Text, DefaultConfig().StreamDelay)
	}
	return r.words
}

// Generator turns a GenerationRequest into text using a primary service
// and, when the primary answer is too short, a fallback service. It holds
// no per-request state and is safe for concurrent use.
type Generator struct {
	primary  llm.Provider
	fallback llm.Provider
	config   Config
	events   store.EventRepo
	log      *logger.Logger
}

// New creates a Generator over the given tiers. A nil events repo or
// logger disables recording or logging respectively.
func New(tiers llm.Tiers, cfg Config, events store.EventRepo, log *logger.Logger) *Generator {
	if events == nil {
		events = store.Discard()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{
		primary:  tiers.Primary,
		fallback: tiers.Fallback,
		config:   cfg,
		events:   events,
		log:      log.With("component", "explore"),
	}
}

// GeneratePrimary sends prompt to the primary tier with the service's
// default sampling. An empty completion list yields NoResponseText.
func (g *Generator) GeneratePrimary(ctx context.Context, prompt string) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposePrimary)
	resp, err := g.primary.Generate(ctx, llm.UserPrompt(prompt, g.config.MaxTokens, nil))
	if errors.Is(err, llm.ErrNoCompletion) {
		return NoResponseText, nil
	}
	if err != nil {
		return "", fmt.Errorf("primary tier: %w", err)
	}
	return resp.Text, nil
}

// GenerateFallback sends prompt to the fallback tier with the configured
// (zero by default) temperature. There is no further tier.
func (g *Generator) GenerateFallback(ctx context.Context, prompt string) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeFallback)
	temp := llm.Float(g.config.FallbackTemperature)
	resp, err := g.fallback.Generate(ctx, llm.UserPrompt(prompt, g.config.MaxTokens, temp))
	if errors.Is(err, llm.ErrNoCompletion) {
		return NoResponseText, nil
	}
	if err != nil {
		return "", fmt.Errorf("fallback tier: %w", err)
	}
	return resp.Text, nil
}

// NeedsFallback reports whether primary text is too short to keep.
func (g *Generator) NeedsFallback(text string) bool {
	return WordCount(text) < g.config.MinWords
}

// EvaluateAndFallback keeps primaryText when it is long enough and
// otherwise replaces it with the fallback tier's answer. The two texts are
// never merged.
func (g *Generator) EvaluateAndFallback(ctx context.Context, prompt, primaryText string) (*Result, error) {
	return g.evaluate(ctx, prompt, primaryText, nil)
}

func (g *Generator) evaluate(ctx context.Context, prompt, primaryText string, observe Observer) (*Result, error) {
	res := &Result{
		Prompt:       prompt,
		PrimaryWords: WordCount(primaryText),
	}

	if !g.NeedsFallback(primaryText) {
		observe.notify(PhaseAccepted)
		res.Text = primaryText
		res.Tier = TierPrimary
		res.words = g.Stream(ctx, res.Text)
		return res, nil
	}

	observe.notify(PhaseFallbackCalled)
	text, err := g.GenerateFallback(ctx, prompt)
	if err != nil {
		return res, err
	}
	res.Text = text
	res.Tier = TierFallback
	res.words = g.Stream(ctx, res.Text)
	return res, nil
}

// Generate runs a request without phase notifications.
func (g *Generator) Generate(ctx context.Context, req GenerationRequest) (*Result, error) {
	return g.Run(ctx, req, nil)
}

// Run executes one request end to end: build the prompt, call the
// primary tier, fall back when the answer is short, and return a Result
// whose Words stream the chosen text. observe, if non-nil, sees every
// phase including Streaming and the final Idle. A primary-tier error is
// returned as-is; the fallback is not tried.
func (g *Generator) Run(ctx context.Context, req GenerationRequest, observe Observer) (*Result, error) {
	start := time.Now()
	requestID := uuid.NewString()
	log := g.log.With("request_id", requestID, "activity", req.Activity.Slug())

	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}
	observe.notify(PhasePromptBuilt)

	primaryText, err := g.GeneratePrimary(ctx, prompt)
	observe.notify(PhasePrimaryCalled)
	if err != nil {
		observe.notify(PhaseIdle)
		log.Error("primary generation failed", "error", err)
		g.record(ctx, requestID, req, &Result{Prompt: prompt}, err, start)
		return nil, err
	}

	res, err := g.evaluate(ctx, prompt, primaryText, observe)
	res.RequestID = requestID
	if err != nil {
		observe.notify(PhaseIdle)
		log.Error("fallback generation failed", "error", err, "primary_words", res.PrimaryWords)
		g.record(ctx, requestID, req, res, err, start)
		return nil, err
	}

	log.Info("generation complete",
		"tier", string(res.Tier),
		"primary_words", res.PrimaryWords,
		"words", WordCount(res.Text),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	g.record(ctx, requestID, req, res, nil, start)

	res.words = withPhases(res.words, observe)
	return res, nil
}

// Stream yields text word by word with the configured delay.
func (g *Generator) Stream(ctx context.Context, text string) iter.Seq[string] {
	return Stream(ctx, text, g.config.StreamDelay)
}

func withPhases(words iter.Seq[string], observe Observer) iter.Seq[string] {
	return func(yield func(string) bool) {
		observe.notify(PhaseStreaming)
		defer observe.notify(PhaseIdle)
		for w := range words {
			if !yield(w) {
				return
			}
		}
	}
}

func (g *Generator) record(ctx context.Context, requestID string, req GenerationRequest, res *Result, runErr error, start time.Time) {
	data := store.GenerationEventData{
		RequestID:    requestID,
		Activity:     req.Activity.Slug(),
		Topic:        req.Topic,
		Count:        req.Count,
		Prompt:       res.Prompt,
		Tier:         string(res.Tier),
		PrimaryWords: res.PrimaryWords,
		Success:      runErr == nil,
		LatencyMs:    time.Since(start).Milliseconds(),
	}
	if runErr == nil {
		data.Words = WordCount(res.Text)
	} else {
		data.ErrorMessage = runErr.Error()
	}

	// Recording must not fail the run, and must outlive a cancelled request.
	if err := g.events.AppendGeneration(context.WithoutCancel(ctx), data); err != nil {
		g.log.Warn("failed to record generation event", "error", err)
	}
}
