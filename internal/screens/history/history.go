package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/stemlab/exploratorium/internal/router"
	"github.com/stemlab/exploratorium/internal/screen"
	"github.com/stemlab/exploratorium/internal/store"
	"github.com/stemlab/exploratorium/internal/ui/layout"
	"github.com/stemlab/exploratorium/internal/ui/theme"
)

const pageSize = 50

type historyLoadedMsg struct {
	Generations []store.GenerationEvent
	Usage       []store.UsageByPurpose
	Err         error
}

// HistoryScreen lists past generation requests and per-tier usage.
type HistoryScreen struct {
	eventRepo   store.EventRepo
	generations []store.GenerationEvent
	usage       []store.UsageByPurpose
	selected    int
	expanded    map[int]bool
	loaded      bool
	errMsg      string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		gens, err := s.eventRepo.QueryGenerations(ctx, store.QueryOpts{Limit: pageSize})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Usage is a nice-to-have; a failure leaves the list usable.
		usage, err := s.eventRepo.LLMUsageByPurpose(ctx)
		if err != nil {
			return historyLoadedMsg{Generations: gens}
		}

		return historyLoadedMsg{Generations: gens, Usage: usage}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.generations = msg.Generations
			s.usage = msg.Usage
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.generations)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.generations) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Nothing generated yet. Pick a topic and explore!")
	}

	var b strings.Builder
	b.WriteString("\n")

	if line := usageLine(s.usage); line != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render(line)))
		b.WriteString("\n\n")
	}

	for i, g := range s.generations {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		status := fmt.Sprintf("%s, %d words", g.Tier, g.Words)
		if !g.Success {
			status = "failed"
		}
		line := fmt.Sprintf("%s%s  %-10s  %-28s  %s",
			prefix, g.Timestamp.Format("Jan 02 15:04"), g.Activity, truncate(g.Topic, 28), status)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case i == s.selected:
			style = style.Foreground(theme.Primary).Bold(true)
		case !g.Success:
			style = style.Foreground(theme.Error)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, detail := range details(g) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					theme.Hint.Render("    "+detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func details(g store.GenerationEvent) []string {
	out := []string{"Prompt: " + g.Prompt}
	if g.Tier == "fallback" {
		out = append(out, fmt.Sprintf("Primary answer had %d words; fallback used", g.PrimaryWords))
	}
	out = append(out, fmt.Sprintf("Latency: %dms  Request: %s", g.LatencyMs, g.RequestID))
	if g.ErrorMessage != "" {
		out = append(out, "Error: "+g.ErrorMessage)
	}
	return out
}

func usageLine(usage []store.UsageByPurpose) string {
	parts := make([]string, 0, len(usage))
	for _, u := range usage {
		parts = append(parts, fmt.Sprintf("%s: %d calls, %d→%d tokens",
			u.Purpose, u.Calls, u.InputTokens, u.OutputTokens))
	}
	return strings.Join(parts, "   ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
