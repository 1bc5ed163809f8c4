package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/stemlab/exploratorium/internal/ui/theme"
)

// Selector is a single-choice list, the terminal stand-in for a select box.
type Selector struct {
	Options  []string
	Selected int
	Focused  bool
}

// NewSelector creates a selector with the first option chosen.
func NewSelector(options []string) Selector {
	return Selector{Options: options}
}

// Update moves the choice with the arrow keys while focused.
func (s Selector) Update(msg tea.Msg) (Selector, tea.Cmd) {
	if !s.Focused {
		return s, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k", "left", "h":
		if s.Selected > 0 {
			s.Selected--
		}
	case "down", "j", "right", "l":
		if s.Selected < len(s.Options)-1 {
			s.Selected++
		}
	}
	return s, nil
}

// View renders one line per option with a marker on the chosen one.
func (s Selector) View() string {
	lines := make([]string, len(s.Options))
	for i, opt := range s.Options {
		switch {
		case i == s.Selected && s.Focused:
			lines[i] = theme.Selected.Render("◉ " + opt)
		case i == s.Selected:
			lines[i] = theme.Unselected.Render("◉ " + opt)
		default:
			lines[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render("○ " + opt)
		}
	}
	return strings.Join(lines, "\n")
}
