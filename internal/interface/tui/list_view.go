package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

type sessionListItem struct {
	session sessionItem
}

func (i sessionListItem) FilterValue() string {
	return i.session.Title + " " + i.session.Workspace
}

func (i sessionListItem) Title() string {
	// Priority: custom title > session ID
	if i.session.Title != "" {
		return i.session.Title
	}
	if len(i.session.ID) > 12 {
		return i.session.ID[:12] + "..."
	}
	return i.session.ID
}

func (i sessionListItem) Description() string {
	workspace := i.session.Workspace
	if workspace == "" {
		workspace = "(no workspace)"
	}
	return fmt.Sprintf("%s | %s | %d messages | %s",
		workspace, i.session.Type, i.session.MessageCount, formatTime(i.session.CreatedAt))
}

type sessionDelegate struct {
	list.DefaultDelegate
}

func (d sessionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	s, ok := item.(sessionListItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	title := s.Title()
	desc := s.Description()

	if index == m.Index() {
		title = selectedItemStyle.Render(title)
		desc = selectedItemStyle.Faint(true).Render(desc)
	} else {
		title = itemStyle.Render(title)
		desc = itemStyle.Render(desc)
	}

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func createSessionList(sessions []sessionItem, width, height int) list.Model {
	items := make([]list.Item, len(sessions))
	for i, s := range sessions {
		items[i] = sessionListItem{session: s}
	}

	delegate := sessionDelegate{DefaultDelegate: list.NewDefaultDelegate()}

	l := list.New(items, delegate, width, height-1) // Reserve 1 line for help text
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(true)

	return l
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if selected, ok := m.list.SelectedItem().(sessionListItem); ok {
			return m, loadSessionDetail(m.db, selected.session.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) viewList() string {
	helpText := "↑/k up • ↓/j down • enter view • / filter • q quit • ? more"

	if len(m.sessions) == 0 {
		return "No sessions found. Run 'cophist discover --import' first.\n\n" + helpText
	}

	return m.list.View() + "\n" + helpText
}

func formatTime(t string) string {
	parsed, err := time.Parse(time.RFC3339, t)
	if err != nil {
		return t
	}
	return humanize.Time(parsed)
}
