package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// SearchResult is one indexed message matching a query.
type SearchResult struct {
	MessageID string
	SessionID string
	Workspace string
	Role      string
	Snippet   string
	Timestamp string
}

// Search runs a full-text query over indexed message content, most
// recent first. Queries containing characters FTS5 tokenizes away fall
// back to exact LIKE substring matching.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if limit <= 0 {
		limit = 100
	}

	hasSpecialChars := strings.ContainsAny(query, "-_@#$%&/")

	var rows *sql.Rows
	var err error
	if hasSpecialChars {
		rows, err = db.Query(`
			SELECT
				COALESCE(m.message_id, ''),
				s.session_id,
				COALESCE(s.workspace, ''),
				m.role,
				m.content,
				m.timestamp
			FROM messages m
			JOIN sessions s ON s.id = m.session_id
			WHERE m.content LIKE '%' || ? || '%'
			ORDER BY m.timestamp DESC
			LIMIT ?
		`, query, limit)
	} else {
		rows, err = db.Query(`
			SELECT
				COALESCE(m.message_id, ''),
				s.session_id,
				COALESCE(s.workspace, ''),
				m.role,
				snippet(messages_fts, -1, '', '', '...', 64) as snippet,
				m.timestamp
			FROM messages_fts
			JOIN messages m ON messages_fts.rowid = m.id
			JOIN sessions s ON s.id = m.session_id
			WHERE messages_fts MATCH ?
			ORDER BY m.timestamp DESC
			LIMIT ?
		`, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.MessageID, &r.SessionID, &r.Workspace, &r.Role, &r.Snippet, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}
	return results, nil
}
