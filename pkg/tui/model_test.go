package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ormasoftchile/fnol/pkg/fnol"
	"github.com/ormasoftchile/fnol/pkg/machine"
)

func newTestModel(t *testing.T, snapshotPath string) Model {
	t.Helper()
	m, err := machine.New(machine.Config{Now: func() time.Time {
		return time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	}})
	if err != nil {
		t.Fatalf("machine.New: %v", err)
	}
	s := m.CreateSession("thread-tui", "", "")
	return NewModel(m, s, snapshotPath)
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func TestNewModelStartsWithSafetyQuestion(t *testing.T) {
	m := newTestModel(t, "")
	if !m.textarea.Focused() {
		t.Fatal("textarea should start focused")
	}
	if m.session.CurrentState != fnol.StateSafetyCheck {
		t.Fatalf("state = %s", m.session.CurrentState)
	}
}

func TestWindowSizeReadiesViewport(t *testing.T) {
	m := sized(t, newTestModel(t, ""))
	if !m.ready {
		t.Fatal("model should be ready after window size")
	}
	view := m.View()
	if !strings.Contains(view, fnol.StateSafetyCheck) {
		t.Fatalf("view missing phase badge:\n%s", view)
	}
	if !strings.Contains(view, "insurance") {
		t.Fatalf("view missing welcome turn:\n%s", view)
	}
}

func TestEnterSendsTurn(t *testing.T) {
	m := sized(t, newTestModel(t, ""))
	m.textarea.SetValue("yes")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if !m.waiting {
		t.Fatal("model should be waiting on the machine")
	}
	if cmd == nil {
		t.Fatal("enter should produce a turn command")
	}

	msg := cmd()
	turn, ok := msg.(turnMsg)
	if !ok {
		t.Fatalf("cmd returned %T", msg)
	}
	if turn.err != nil {
		t.Fatalf("turn error: %v", turn.err)
	}
	if m.session.StateStep != "awaiting_injury_check" {
		t.Fatalf("step = %s", m.session.StateStep)
	}

	updated, _ = m.Update(turn)
	m = updated.(Model)
	if m.waiting {
		t.Fatal("turn completion should clear waiting")
	}
	if !strings.Contains(m.viewport.View(), "injured") {
		t.Fatal("transcript missing injury question")
	}
}

func TestEnterIgnoresEmptyInput(t *testing.T) {
	m := sized(t, newTestModel(t, ""))
	m.textarea.SetValue("   ")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if cmd != nil || m.waiting {
		t.Fatal("blank input should not start a turn")
	}
}

func TestTurnPersistsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m := sized(t, newTestModel(t, path))

	if msg := m.sendTurn("yes")(); msg.(turnMsg).err != nil {
		t.Fatalf("turn error: %v", msg.(turnMsg).err)
	}
	loaded, err := fnol.LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.StateStep != "awaiting_injury_check" {
		t.Fatalf("snapshot step = %s", loaded.StateStep)
	}
}

func TestRenderTranscriptLabelsUserTurns(t *testing.T) {
	m := sized(t, newTestModel(t, ""))
	m.session.Messages = append(m.session.Messages, fnol.Message{Role: "user", Content: "my car was hit"})
	out := m.renderTranscript(80)
	if !strings.Contains(out, "You:") || !strings.Contains(out, "my car was hit") {
		t.Fatalf("transcript = %s", out)
	}
}

func TestHeaderReflectsEscalation(t *testing.T) {
	m := sized(t, newTestModel(t, ""))
	m.session.CurrentState = fnol.StateHandoffEscalation
	if !strings.Contains(m.headerView(), fnol.StateHandoffEscalation) {
		t.Fatal("header missing escalation badge")
	}

	m.session.CurrentState = fnol.StateNextSteps
	m.session.IsComplete = true
	if !strings.Contains(m.headerView(), "COMPLETE") {
		t.Fatal("header missing completion badge")
	}
}
