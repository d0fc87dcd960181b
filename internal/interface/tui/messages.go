package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cophist/internal/core/db"
)

type errMsg struct {
	err error
}

type sessionsLoadedMsg struct {
	sessions []sessionItem
}

type sessionDetailLoadedMsg struct {
	detail sessionDetail
}

func loadSessions(database *db.DB) tea.Cmd {
	return func() tea.Msg {
		stored, err := database.ListSessions(db.ListOptions{Limit: 1000})
		if err != nil {
			return errMsg{err}
		}

		var sessions []sessionItem
		for _, s := range stored {
			item := sessionItem{
				ID:           s.SessionID,
				Title:        s.Title,
				Workspace:    s.Workspace,
				Type:         s.Type,
				MessageCount: s.MessageCount,
			}
			if !s.CreatedAt.IsZero() {
				item.CreatedAt = s.CreatedAt.Format(time.RFC3339)
			}
			sessions = append(sessions, item)
		}

		return sessionsLoadedMsg{sessions}
	}
}

func loadSessionDetail(database *db.DB, sessionID string) tea.Cmd {
	return func() tea.Msg {
		session, stored, err := database.GetSession(sessionID)
		if err != nil {
			return errMsg{err}
		}

		detail := sessionDetail{
			Session: sessionItem{
				ID:           session.SessionID,
				Title:        session.Title,
				Workspace:    session.Workspace,
				Type:         session.Type,
				MessageCount: len(stored),
			},
		}
		if !session.CreatedAt.IsZero() {
			detail.Session.CreatedAt = session.CreatedAt.Format(time.RFC3339)
		}
		for _, m := range stored {
			item := messageItem{
				Role:    m.Role,
				Content: m.Content,
			}
			if !m.Timestamp.IsZero() {
				item.Timestamp = m.Timestamp.Format(time.RFC3339)
			}
			detail.Messages = append(detail.Messages, item)
		}

		return sessionDetailLoadedMsg{detail}
	}
}
