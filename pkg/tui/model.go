package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ormasoftchile/fnol/pkg/fnol"
	"github.com/ormasoftchile/fnol/pkg/machine"
)

// Model is the Bubble Tea model for fnol-tui.
type Model struct {
	machine      *machine.Machine
	session      *fnol.State
	snapshotPath string

	viewport viewport.Model
	textarea textarea.Model

	width   int
	height  int
	ready   bool
	waiting bool
	err     error
}

// NewModel creates a chat model bound to an intake session. When
// snapshotPath is non-empty the session is persisted after every turn.
func NewModel(m *machine.Machine, s *fnol.State, snapshotPath string) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your answer..."
	ta.Prompt = "> "
	ta.CharLimit = 0
	ta.SetHeight(2)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	return Model{
		machine:      m,
		session:      s,
		snapshotPath: snapshotPath,
		textarea:     ta,
	}
}

// turnMsg reports a completed machine turn.
type turnMsg struct {
	err error
}

// sendTurn advances the session with one user input. Turns are single-flight,
// gated by m.waiting, so the session is never mutated concurrently.
func (m Model) sendTurn(input string) tea.Cmd {
	return func() tea.Msg {
		if err := m.machine.ProcessMessage(m.session, input); err != nil {
			return turnMsg{err: err}
		}
		if m.snapshotPath != "" {
			if err := fnol.SaveSnapshot(m.session, m.snapshotPath); err != nil {
				return turnMsg{err: err}
			}
		}
		return turnMsg{}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.waiting || m.session.IsComplete {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			m.waiting = true
			m.refreshTranscript()
			return m, m.sendTurn(input)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 1
		inputHeight := m.textarea.Height() + 1
		vpHeight := m.height - headerHeight - inputHeight - 1
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(m.width - 2)
		m.refreshTranscript()
		return m, nil

	case turnMsg:
		m.waiting = false
		m.err = msg.err
		m.refreshTranscript()
		return m, nil
	}

	var taCmd, vpCmd tea.Cmd
	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(taCmd, vpCmd)
}

func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript(m.viewport.Width))
	m.viewport.GotoBottom()
}

// renderTranscript formats the conversation for the viewport: user turns as
// plain styled lines, assistant turns through the markdown renderer.
func (m Model) renderTranscript(width int) string {
	var b strings.Builder
	for _, msg := range m.session.Messages {
		switch msg.Role {
		case "user":
			b.WriteString(userLabelStyle.Render("You: "))
			b.WriteString(userTextStyle.Render(msg.Content))
		default:
			b.WriteString(renderMarkdown(msg.Content, width))
		}
		b.WriteString("\n\n")
	}
	if m.waiting {
		b.WriteString(thinkingStyle.Render("..."))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	return b.String()
}

// headerView renders the phase badge, progress, and claim number line.
func (m Model) headerView() string {
	badge := phaseBadgeStyle.Render(m.session.CurrentState)
	switch {
	case m.session.CurrentState == fnol.StateHandoffEscalation:
		badge = escalatedBadgeStyle.Render(m.session.CurrentState)
	case m.session.IsComplete:
		badge = completeBadgeStyle.Render("COMPLETE")
	}

	parts := []string{
		headerStyle.Render("fnol intake"),
		badge,
		progressStyle.Render(fmt.Sprintf("%d%%", m.session.ProgressPercent)),
	}
	if m.session.ClaimNumber != "" {
		parts = append(parts, progressStyle.Render(m.session.ClaimNumber))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m Model) keyBar() string {
	return keyBarStyle.Render(
		keyStyle.Render("enter") + keyDescStyle.Render(" send  ") +
			keyStyle.Render("ctrl+c") + keyDescStyle.Render(" quit"),
	)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}
	return m.headerView() + "\n" +
		m.viewport.View() + "\n" +
		m.textarea.View() + "\n" +
		m.keyBar()
}
