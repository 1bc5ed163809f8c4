package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/stemlab/exploratorium/internal/router"
	"github.com/stemlab/exploratorium/internal/store"
)

func newTestRepo(t *testing.T) store.EventRepo {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st.EventRepo()
}

func TestHistoryListsGenerations(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, g := range []store.GenerationEventData{
		{RequestID: "r1", Activity: "diy", Topic: "solar ovens", Prompt: "p1", Tier: "primary", Words: 120, Success: true},
		{RequestID: "r2", Activity: "challenge", Topic: "bridges", Prompt: "p2", Tier: "fallback", PrimaryWords: 4, Words: 80, Success: true},
		{RequestID: "r3", Activity: "field-trip", Topic: "the moon", Prompt: "p3", ErrorMessage: "primary tier: boom"},
	} {
		if err := repo.AppendGeneration(ctx, g); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	s := New(repo)
	s.Update(s.Init()())

	if !s.loaded || len(s.generations) != 3 {
		t.Fatalf("expected 3 generations loaded, got %d (err %q)", len(s.generations), s.errMsg)
	}
	// Newest first.
	if s.generations[0].RequestID != "r3" {
		t.Errorf("expected newest first, got %q", s.generations[0].RequestID)
	}

	view := s.View(120, 40)
	for _, want := range []string{"solar ovens", "bridges", "failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(120, 40), "Primary answer had 4 words") {
		t.Error("expanded row should explain the fallback")
	}
}

func TestHistoryEmpty(t *testing.T) {
	s := New(newTestRepo(t))
	s.Update(s.Init()())

	if !strings.Contains(s.View(100, 30), "Nothing generated yet") {
		t.Error("expected empty-state message")
	}
}

func TestHistoryEscPops(t *testing.T) {
	s := New(store.Discard())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("Esc should pop the screen")
	}
}
