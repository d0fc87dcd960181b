package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

func createViewport(detail sessionDetail, width, height int) viewport.Model {
	vp := viewport.New(width, height-2)
	vp.SetContent(renderConversation(detail, width))
	return vp
}

func renderConversation(detail sessionDetail, width int) string {
	var b strings.Builder

	header := detail.Session.Title
	if header == "" {
		header = detail.Session.ID
	}
	b.WriteString(titleStyle.Render("Session: "+header) + "\n")
	if detail.Session.Workspace != "" {
		b.WriteString(fmt.Sprintf("Workspace: %s\n", detail.Session.Workspace))
	}
	b.WriteString(fmt.Sprintf("Type: %s\n", detail.Session.Type))
	b.WriteString(fmt.Sprintf("Messages: %d\n", len(detail.Messages)))
	b.WriteString(strings.Repeat("─", width) + "\n\n")

	for _, msg := range detail.Messages {
		var style lipgloss.Style
		var label string

		switch msg.Role {
		case "user":
			style = userStyle
			label = "USER"
		case "assistant":
			style = assistantStyle
			label = "ASSISTANT"
		default:
			style = lipgloss.NewStyle()
			label = strings.ToUpper(msg.Role)
		}

		b.WriteString(style.Render(fmt.Sprintf("▸ %s", label)))
		if msg.Timestamp != "" {
			b.WriteString(" ")
			b.WriteString(timestampStyle.Render(formatTime(msg.Timestamp)))
		}
		b.WriteString("\n")

		wrapWidth := width - 10
		if wrapWidth < 40 {
			wrapWidth = 40
		}
		b.WriteString(wordwrap.String(msg.Content, wrapWidth))
		b.WriteString("\n\n")
		b.WriteString(strings.Repeat("─", width) + "\n\n")
	}

	return b.String()
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.mode = listView
		return m, nil

	case "c":
		// Copy plain conversation text to clipboard
		if m.currentSession != nil {
			var b strings.Builder
			for _, msg := range m.currentSession.Messages {
				b.WriteString(strings.ToUpper(msg.Role))
				b.WriteString(":\n")
				b.WriteString(msg.Content)
				b.WriteString("\n\n")
			}
			_ = clipboard.WriteAll(b.String())
		}
		return m, nil

	case "g":
		m.viewport.GotoTop()
		return m, nil

	case "G":
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) viewDetail() string {
	helpText := "↑/↓ scroll • g/G top/bottom • c copy • esc back • q list"
	return m.viewport.View() + "\n" + helpStyle.Render(helpText)
}
