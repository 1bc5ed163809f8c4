package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	stem "github.com/stemlab/exploratorium/internal/explore"
	"github.com/stemlab/exploratorium/internal/router"
	"github.com/stemlab/exploratorium/internal/screen"
	"github.com/stemlab/exploratorium/internal/screens/history"
	"github.com/stemlab/exploratorium/internal/store"
	"github.com/stemlab/exploratorium/internal/ui/components"
	"github.com/stemlab/exploratorium/internal/ui/layout"
	"github.com/stemlab/exploratorium/internal/ui/theme"
)

// HomeScreen introduces the app and links to the explorer and history.
type HomeScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. explore builds a fresh explore screen each
// time it is opened. History is disabled when events is nil.
func New(explore func() screen.Screen, events store.EventRepo) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START EXPLORING", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: explore()}
			}
		}},
		{Label: "HISTORY", Disabled: events == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(events)}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, theme.Title.Width(cw).Render(stem.Title))
	sections = append(sections, theme.Subtitle.Width(cw).Render(stem.Tagline))

	if !layout.IsCompactWidth(width) {
		about := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Foreground(theme.Text).
			Width(cw - 2).
			Padding(0, 1).
			Render(stem.Purpose)
		sections = append(sections, about)
	}

	sections = append(sections, h.menu.View(cw))

	content := strings.Join(sections, "\n\n")
	return components.Frame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
