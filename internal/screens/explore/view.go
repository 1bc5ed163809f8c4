package explore

import (
	"strings"

	"charm.land/lipgloss/v2"

	stem "github.com/stemlab/exploratorium/internal/explore"
	"github.com/stemlab/exploratorium/internal/ui/components"
	"github.com/stemlab/exploratorium/internal/ui/layout"
	"github.com/stemlab/exploratorium/internal/ui/theme"
	"github.com/stemlab/exploratorium/internal/upload"
)

const sidebarWidth = 36

var phaseStatus = map[stem.Phase]string{
	stem.PhasePromptBuilt:    "Asking the primary model…",
	stem.PhasePrimaryCalled:  "Checking the answer…",
	stem.PhaseFallbackCalled: "Asking the fallback model…",
	stem.PhaseStreaming:      "Streaming…",
}

func (s *ExploreScreen) View(width, height int) string {
	if layout.IsCompactWidth(width) {
		form := s.renderForm(width - 2)
		main := s.renderMain(width-2, height-lipgloss.Height(form)-1)
		return lipgloss.JoinVertical(lipgloss.Left, form, main)
	}

	form := s.renderForm(sidebarWidth)
	mainWidth := width - sidebarWidth - 4
	main := s.renderMain(mainWidth, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, form, "  ", main)
}

func (s *ExploreScreen) renderForm(width int) string {
	inner := width - 4

	var b strings.Builder
	b.WriteString(theme.Heading.Render(stem.SidebarHeading))
	b.WriteString("\n\n")

	b.WriteString(s.fieldLabel(fieldActivity, stem.ActivityLabel, inner))
	b.WriteString("\n")
	b.WriteString(s.activity.View())
	b.WriteString("\n\n")

	b.WriteString(s.fieldLabel(fieldTopic, stem.TopicLabel, inner))
	b.WriteString("\n")
	b.WriteString(s.topic.View())
	b.WriteString("\n\n")

	b.WriteString(s.fieldLabel(fieldCount, stem.CountLabel, inner))
	b.WriteString("\n")
	b.WriteString(s.count.View())
	b.WriteString("\n\n")

	b.WriteString(s.fieldLabel(fieldImage, stem.ImageLabel, inner))
	b.WriteString("\n")
	b.WriteString(s.image.View())
	b.WriteString("\n\n")

	b.WriteString(s.generate.View())

	style := theme.Card
	if !s.running {
		style = theme.FocusedCard
	}
	return style.Width(width).Render(b.String())
}

func (s *ExploreScreen) fieldLabel(f field, label string, width int) string {
	style := theme.Label
	if s.focus == f {
		style = theme.Selected
	}
	return style.Width(width).Render(label)
}

func (s *ExploreScreen) renderMain(width, height int) string {
	if width < 20 {
		width = 20
	}

	var top []string
	top = append(top,
		theme.Title.Width(width).Render(stem.Welcome),
		theme.Hint.Width(width).Render(stem.Tagline),
		"",
	)

	var bottom []string
	bottom = append(bottom, "", theme.Heading.Render(stem.UploadHeading))
	bottom = append(bottom, s.renderImage(width))
	bottom = append(bottom, "", theme.Hint.Width(width).Render(stem.Disclaimer))

	results := s.renderResults(width, height-lipgloss.Height(strings.Join(top, "\n"))-lipgloss.Height(strings.Join(bottom, "\n")))

	sections := append(top, results)
	sections = append(sections, bottom...)
	return strings.Join(sections, "\n")
}

func (s *ExploreScreen) renderResults(width, height int) string {
	lines := []string{theme.Heading.Render(stem.ResultsHeading)}

	if status, ok := phaseStatus[s.phase]; ok && s.running {
		lines = append(lines, theme.Hint.Render(status))
	}
	if s.notice != "" {
		lines = append(lines, theme.Notice.Width(width).Render(s.notice))
	}

	switch {
	case s.errMsg != "":
		lines = append(lines, theme.ErrorText.Width(width).Render(s.errMsg))
	case s.output.Len() == 0 && !s.running:
		lines = append(lines, theme.Hint.Render(stem.PromptForInput))
	default:
		budget := height - len(lines) - 2
		lines = append(lines, tail(theme.Body.Width(width).Render(s.output.String()), budget))
	}

	if s.wordsTotal > 0 {
		label := string(s.tier)
		if s.stopped {
			label += " (stopped)"
		}
		bar := components.NewProgressBar(label, s.wordsDone, s.wordsTotal, true, width)
		lines = append(lines, "", bar.View())
	}

	return strings.Join(lines, "\n")
}

func (s *ExploreScreen) renderImage(width int) string {
	switch {
	case s.imageErr != "":
		return theme.ErrorText.Width(width).Render(s.imageErr)
	case s.imageInfo != nil:
		return theme.Body.Width(width).Render(s.imageInfo.Summary()) + "\n" +
			theme.Hint.Render(upload.Message)
	default:
		return theme.Hint.Render("No image selected.")
	}
}

// tail keeps the last n lines of a rendered block so the newest streamed
// words stay visible.
func tail(block string, n int) string {
	if n < 1 {
		n = 1
	}
	lines := strings.Split(block, "\n")
	if len(lines) <= n {
		return block
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
