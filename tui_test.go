package main

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func update(m tuiModel, msgs ...tea.Msg) tuiModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(tuiModel)
	}
	return m
}

func TestTUIEngageCycle(t *testing.T) {
	m := update(tuiModel{}, tea.WindowSizeMsg{Width: 80, Height: 24}, ModeLineMsg{Text: "right_option | ptt"})
	if !strings.Contains(m.View(), "idle") {
		t.Errorf("expected idle view:\n%s", m.View())
	}

	m = update(m, EngagedMsg{Mode: "ptt"})
	if m.state != tuiStateEngaged || !strings.Contains(m.View(), "ENGAGED (ptt)") {
		t.Errorf("expected engaged view:\n%s", m.View())
	}

	m = update(m, DisengagedMsg{Held: 420 * time.Millisecond})
	if m.state != tuiStateIdle || m.count != 1 {
		t.Errorf("state=%v count=%d", m.state, m.count)
	}
	if !strings.Contains(m.View(), "420ms") {
		t.Errorf("hold duration missing:\n%s", m.View())
	}
}

func TestTUIHistoryBounded(t *testing.T) {
	m := tuiModel{}
	for i := 0; i < 2*maxHistory; i++ {
		m = update(m, EngagedMsg{Mode: "toggle"}, DisengagedMsg{Held: time.Duration(i) * time.Millisecond})
	}
	if len(m.history) != maxHistory {
		t.Errorf("history len = %d, want %d", len(m.history), maxHistory)
	}
	if m.history[0] != time.Duration(2*maxHistory-1)*time.Millisecond {
		t.Errorf("newest first: got %v", m.history[0])
	}
}

func TestTUIError(t *testing.T) {
	m := update(tuiModel{}, tea.WindowSizeMsg{Width: 80, Height: 24}, TapErrorMsg{Text: "re-arm failed"})
	if !strings.Contains(m.View(), "re-arm failed") {
		t.Errorf("error missing:\n%s", m.View())
	}
}

func TestTUIQuitKey(t *testing.T) {
	_, cmd := tuiModel{}.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
