// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/shuaib-registry/internal/assistant"
	"github.com/jeranaias/shuaib-registry/internal/ui/styles"
)

// Assistant tab labels.
const (
	UserLabel      = "أنت"
	AssistantLabel = "المساعد"
	RateLimitText  = "طلبات كثيرة، انتظر قليلاً ثم أعد المحاولة."
)

func (m *Model) initAssistant() {
	m.prompt = textinput.New()
	m.prompt.Prompt = "> "
	m.prompt.Placeholder = assistant.Placeholder
	m.prompt.CharLimit = 4000
	m.prompt.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)

	m.transcript = viewport.New(80, 12)
	m.spinner = m.theme.NewSpinner()
	m.refreshTranscript()
}

func (m *Model) handleAssistantKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDn):
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return cmd
	case key.Matches(msg, m.keys.Send):
		return m.sendPrompt()
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return cmd
}

// sendPrompt starts a request for the prompt text unless one is outstanding.
func (m *Model) sendPrompt() tea.Cmd {
	if m.ai.Busy() {
		return nil
	}
	m.aiError = ""

	text, err := m.ai.Begin(m.prompt.Value())
	switch {
	case errors.Is(err, assistant.ErrEmptyInput), errors.Is(err, assistant.ErrBusy):
		return nil
	case errors.Is(err, assistant.ErrRateLimited):
		m.aiError = RateLimitText
		return nil
	case err != nil:
		m.aiError = err.Error()
		return nil
	}

	m.prompt.Reset()
	m.refreshTranscript()

	ai, parent := m.ai, m.ctx
	request := func() tea.Msg {
		return AssistantReplyMsg{Turn: ai.Resolve(parent, text)}
	}
	return tea.Batch(m.spinner.Tick, request)
}

// refreshTranscript re-renders the turns into the viewport and scrolls to
// the newest one.
func (m *Model) refreshTranscript() {
	if m.ai == nil {
		return
	}
	t := m.theme
	width := clamp(m.transcript.Width-4, 16, 200)

	var b strings.Builder
	for i, turn := range m.ai.Transcript() {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label, bubble := AssistantLabel, t.ModelTurn
		if turn.Role == assistant.RoleUser {
			label, bubble = UserLabel, t.UserTurn
		}
		b.WriteString(t.Label.Render(label))
		b.WriteString(" ")
		b.WriteString(t.TurnTime.Render(turn.At.Format("15:04")))
		b.WriteString("\n")
		b.WriteString(bubble.Width(width).Render(turn.Text))
	}
	m.transcript.SetContent(b.String())
	m.transcript.GotoBottom()
}

// =============================================================================
// VIEW
// =============================================================================

func (m *Model) assistantView() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.CardTitle.Render(assistant.Title))
	b.WriteString("  ")
	b.WriteString(t.StatusOn.Render("● " + assistant.Status))
	b.WriteString("\n\n")
	b.WriteString(m.transcript.View())
	b.WriteString("\n\n")

	if m.ai.Busy() {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(t.Thinking.Render(assistant.Thinking))
		b.WriteString("\n")
	}
	if m.aiError != "" {
		b.WriteString(styles.RenderWarning(m.aiError))
		b.WriteString("\n")
	}
	b.WriteString(t.Field.Render(m.prompt.View()))
	return b.String()
}

func (m *Model) assistantHelp() []key.Binding {
	return []key.Binding{m.keys.Send, m.keys.ScrollUp, m.keys.ScrollDn, m.keys.NextTab, m.keys.Quit}
}
