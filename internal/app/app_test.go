package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	stem "github.com/stemlab/exploratorium/internal/explore"
	"github.com/stemlab/exploratorium/internal/llm"
	"github.com/stemlab/exploratorium/internal/router"
	"github.com/stemlab/exploratorium/internal/store"
)

func newTestApp() AppModel {
	gen := stem.New(llm.Tiers{Primary: llm.NewMockProvider(), Fallback: llm.NewMockProvider()}, stem.DefaultConfig(), nil, nil)
	return newAppModel(Options{Runner: gen, Events: store.Discard(), Status: "mock / mock", SkipWelcome: true})
}

func TestEscAtRootIsNoop(t *testing.T) {
	m := newTestApp()
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("Esc on the root screen should do nothing")
	}
}

func TestEscPopsPushedScreen(t *testing.T) {
	m := newTestApp()

	// Select START EXPLORING on the home menu.
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	m.Update(cmd())
	if m.router.Depth() != 2 || m.router.Active().Title() != "Explore" {
		t.Fatalf("expected explore screen on top, depth %d", m.router.Depth())
	}

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("Esc should pop back to home")
	}
}

func TestViewRendersHeaderStatus(t *testing.T) {
	m := newTestApp()
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	v := updated.(AppModel).View()
	if v.Content == nil {
		t.Fatal("expected content")
	}
}
