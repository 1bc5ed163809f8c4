package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestSelectorMovesOnlyWhenFocused(t *testing.T) {
	s := NewSelector([]string{"DIY Project", "Virtual Field Trip", "Challenge"})

	s, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.Selected != 0 {
		t.Fatalf("blurred selector moved to %d", s.Selected)
	}

	s.Focused = true
	s, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.Selected != 2 {
		t.Errorf("expected selection clamped at 2, got %d", s.Selected)
	}

	s, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.Selected != 1 {
		t.Errorf("expected 1 after up, got %d", s.Selected)
	}

	if !strings.Contains(s.View(), "◉ Virtual Field Trip") {
		t.Errorf("view does not mark the chosen option:\n%s", s.View())
	}
}

func TestButtonPress(t *testing.T) {
	pressed := 0
	b := NewButton("Generate", func() tea.Cmd {
		pressed++
		return nil
	})

	b, _ = b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if pressed != 0 {
		t.Fatal("unfocused button fired")
	}

	b.Focused = true
	b, _ = b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if pressed != 1 {
		t.Fatalf("expected 1 press, got %d", pressed)
	}

	b.Disabled = true
	b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if pressed != 1 {
		t.Errorf("disabled button fired")
	}
}

func TestNumericInputDropsLetters(t *testing.T) {
	in := NewTextInput("3", true, 2)
	in.Focus()

	in, _ = in.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	in, _ = in.Update(tea.KeyPressMsg{Code: '7', Text: "7"})

	if in.Value() != "7" {
		t.Errorf("expected %q, got %q", "7", in.Value())
	}
	n, err := in.NumericValue()
	if err != nil || n != 7 {
		t.Errorf("NumericValue = %d, %v", n, err)
	}
}

func TestMenuSkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "A"},
		{Label: "B", Disabled: true},
		{Label: "C"},
	})

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 2 {
		t.Errorf("expected to skip disabled item, got %d", m.Selected)
	}
}

func TestProgressBarZeroTotal(t *testing.T) {
	p := NewProgressBar("", 0, 0, true, 20)
	if p.Percent != 0 {
		t.Errorf("expected 0 percent, got %v", p.Percent)
	}
	if !strings.Contains(p.View(), "0%") {
		t.Errorf("expected 0%% in view, got %q", p.View())
	}
}
