package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stemlab/exploratorium/internal/explore"
	"github.com/stemlab/exploratorium/internal/llm"
	"github.com/stemlab/exploratorium/internal/logger"
	"github.com/stemlab/exploratorium/internal/observability"
	"github.com/stemlab/exploratorium/internal/store"
)

// surface selects logging defaults: the terminal UI must never log to
// stderr because it would draw over the screen.
type surface int

const (
	surfaceTUI surface = iota
	surfaceServer
	surfaceCLI
)

// runtime is everything a surface needs, built once per process.
type runtime struct {
	log       *logger.Logger
	events    store.EventRepo
	history   bool
	generator *explore.Generator
	llmConfig llm.Config

	closers []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// modelStatus names the model behind each tier, e.g. "o1-mini → claude-3-5-sonnet".
func (r *runtime) modelStatus() string {
	return modelFor(r.llmConfig, r.llmConfig.Primary) + " → " + modelFor(r.llmConfig, r.llmConfig.Fallback)
}

func modelFor(cfg llm.Config, provider string) string {
	switch provider {
	case llm.ProviderOpenAI:
		return cfg.OpenAI.Model
	case llm.ProviderAnthropic:
		return cfg.Anthropic.Model
	case llm.ProviderGemini:
		return cfg.Gemini.Model
	case llm.ProviderOpenRouter:
		return cfg.OpenRouter.Model
	}
	return provider
}

// setup builds the logger, error reporting, optional history store and the
// two generation tiers. Missing credentials fail here, before any UI.
func setup(cmd *cobra.Command, s surface) (*runtime, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt := &runtime{}

	log, err := newLogger(cmd, s)
	if err != nil {
		return nil, err
	}
	rt.log = log
	rt.closers = append(rt.closers, log.Sync)

	flush := observability.InitSentry(observability.SentryOptions{
		DSN:         firstEnv("EXPLORATORIUM_SENTRY_DSN", "SENTRY_DSN"),
		Environment: os.Getenv("EXPLORATORIUM_ENV"),
		Release:     version,
	}, log)
	rt.closers = append(rt.closers, flush)

	rt.events = store.Discard()
	dbPath, enabled, err := historyPath(cmd)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("resolve history path: %w", err)
	}
	if enabled {
		st, err := store.Open(dbPath)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("open history: %w", err)
		}
		rt.events = st.EventRepo()
		rt.history = true
		rt.closers = append(rt.closers, func() { st.Close() })
		log.Debug("history enabled", "path", dbPath)
	}

	rt.llmConfig = llm.ConfigFromEnv()
	tiers, err := llm.NewTiers(ctx, rt.llmConfig, rt.events, log)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("configure LLM: %w", err)
	}

	rt.generator = explore.New(tiers, explore.DefaultConfig(), rt.events, log)
	return rt, nil
}

// historyPath returns the store path when history is switched on with --db
// or EXPLORATORIUM_DB.
func historyPath(cmd *cobra.Command) (string, bool, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, true, store.EnsureDir(p)
	}
	if os.Getenv("EXPLORATORIUM_DB") == "" {
		return "", false, nil
	}
	p, err := store.DefaultDBPath()
	return p, err == nil, err
}

func newLogger(cmd *cobra.Command, s surface) (*logger.Logger, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	opts := logger.Options{
		Mode:  os.Getenv("EXPLORATORIUM_LOG_MODE"),
		File:  os.Getenv("EXPLORATORIUM_LOG_FILE"),
		Debug: debug,
	}
	if p, _ := cmd.Flags().GetString("log-file"); p != "" {
		opts.File = p
	}
	if opts.File == "" && s == surfaceTUI {
		p, err := defaultLogPath()
		if err != nil {
			return nil, err
		}
		opts.File = p
	}
	return logger.New(opts)
}

// defaultLogPath is $XDG_STATE_HOME/exploratorium/exploratorium.log, or
// ~/.local/state/... when XDG_STATE_HOME is unset.
func defaultLogPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "exploratorium", "exploratorium.log"), nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
