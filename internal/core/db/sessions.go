package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Session is one stored session row.
type Session struct {
	ID           int64
	SessionID    string
	Agent        string
	Workspace    string
	Type         string
	Title        string
	SourceFile   string
	CreatedAt    time.Time
	MessageCount int
}

// StoredMessage is one stored message row.
type StoredMessage struct {
	MessageID string
	Role      string
	Content   string
	Timestamp time.Time
	Sequence  int
	// Metadata is the message's provenance bag as a JSON string.
	Metadata string
}

// ListOptions filter and bound ListSessions.
type ListOptions struct {
	Workspace string
	Since     time.Time
	Limit     int
}

// ListSessions returns stored sessions in reverse chronological order.
func (db *DB) ListSessions(opts ListOptions) ([]Session, error) {
	query := `
		SELECT id, session_id, agent, COALESCE(workspace, ''), COALESCE(session_type, ''),
		       COALESCE(custom_title, ''), source_file, created_at, message_count
		FROM sessions
		WHERE 1=1`
	args := []interface{}{}

	if opts.Workspace != "" {
		query += " AND workspace LIKE ?"
		args = append(args, "%"+opts.Workspace+"%")
	}
	if !opts.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, opts.Since)
	}

	query += " ORDER BY created_at DESC"
	limit := opts.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []Session
	for rows.Next() {
		var s Session
		var createdAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Agent, &s.Workspace, &s.Type,
			&s.Title, &s.SourceFile, &createdAt, &s.MessageCount); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if createdAt.Valid {
			s.CreatedAt = createdAt.Time
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// GetSession returns one session and its messages in source order. When
// the same session id exists for multiple source files (the editor can
// copy files across channels), the most recently created row wins.
func (db *DB) GetSession(sessionID string) (*Session, []StoredMessage, error) {
	var s Session
	var createdAt sql.NullTime
	err := db.QueryRow(`
		SELECT id, session_id, agent, COALESCE(workspace, ''), COALESCE(session_type, ''),
		       COALESCE(custom_title, ''), source_file, created_at, message_count
		FROM sessions
		WHERE session_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, sessionID).Scan(&s.ID, &s.SessionID, &s.Agent, &s.Workspace, &s.Type,
		&s.Title, &s.SourceFile, &createdAt, &s.MessageCount)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("session not found: %s", sessionID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}
	if createdAt.Valid {
		s.CreatedAt = createdAt.Time
	}

	rows, err := db.Query(`
		SELECT COALESCE(message_id, ''), role, COALESCE(content, ''), timestamp, sequence, COALESCE(metadata, '')
		FROM messages
		WHERE session_id = ?
		ORDER BY sequence ASC
	`, s.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []StoredMessage
	for rows.Next() {
		var m StoredMessage
		var ts sql.NullTime
		if err := rows.Scan(&m.MessageID, &m.Role, &m.Content, &ts, &m.Sequence, &m.Metadata); err != nil {
			return nil, nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if ts.Valid {
			m.Timestamp = ts.Time
		}
		messages = append(messages, m)
	}
	return &s, messages, rows.Err()
}

// DeleteSessionBySource removes the session stored for a source file,
// used when re-importing a file whose content changed.
func (db *DB) DeleteSessionBySource(tx *sql.Tx, sourceFile string) error {
	_, err := tx.Exec("DELETE FROM sessions WHERE source_file = ?", sourceFile)
	return err
}
