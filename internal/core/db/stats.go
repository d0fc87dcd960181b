package db

import (
	"database/sql"
	"time"
)

// Stats summarizes the stored index.
type Stats struct {
	TotalSessions            int
	TotalMessages            int
	SessionsByType           map[string]int
	OldestSession            time.Time
	NewestSession            time.Time
	MostActiveWorkspace      string
	MostActiveWorkspaceCount int
}

var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
}

func parseStoredTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// GetStats returns aggregate statistics over the stored index.
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{SessionsByType: map[string]int{}}

	if err := db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&stats.TotalSessions); err != nil {
		return nil, err
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&stats.TotalMessages); err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT COALESCE(session_type, 'unknown'), COUNT(*)
		FROM sessions
		GROUP BY session_type
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var sessionType string
		var count int
		if err := rows.Scan(&sessionType, &count); err != nil {
			return nil, err
		}
		stats.SessionsByType[sessionType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.TotalSessions == 0 {
		return stats, nil
	}

	var oldest, newest sql.NullString
	if err := db.QueryRow("SELECT MIN(created_at), MAX(created_at) FROM sessions").Scan(&oldest, &newest); err != nil {
		return nil, err
	}
	if oldest.Valid {
		stats.OldestSession = parseStoredTimestamp(oldest.String)
	}
	if newest.Valid {
		stats.NewestSession = parseStoredTimestamp(newest.String)
	}

	var workspace sql.NullString
	err = db.QueryRow(`
		SELECT workspace, COUNT(*) as count
		FROM sessions
		WHERE workspace IS NOT NULL AND workspace != ''
		GROUP BY workspace
		ORDER BY count DESC
		LIMIT 1
	`).Scan(&workspace, &stats.MostActiveWorkspaceCount)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if workspace.Valid {
		stats.MostActiveWorkspace = workspace.String
	}

	return stats, nil
}
