package db

import (
	"path/filepath"
	"testing"
	"time"
)

func setupDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

func insertSession(t *testing.T, database *DB, sessionID, workspace, sessionType, sourceFile string, createdAt time.Time) int64 {
	t.Helper()
	res, err := database.Exec(`
		INSERT INTO sessions (session_id, agent, workspace, session_type, source_file, created_at, message_count)
		VALUES (?, 'github-copilot', ?, ?, ?, ?, 0)
	`, sessionID, workspace, sessionType, sourceFile, createdAt)
	if err != nil {
		t.Fatal(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func insertMessage(t *testing.T, database *DB, sessionDBID int64, role, content string, seq int, ts time.Time) {
	t.Helper()
	_, err := database.Exec(`
		INSERT INTO messages (message_id, session_id, role, content, timestamp, sequence)
		VALUES ('', ?, ?, ?, ?, ?)
	`, sessionDBID, role, content, ts, seq)
	if err != nil {
		t.Fatal(err)
	}
}

func TestListSessions(t *testing.T) {
	database := setupDB(t)
	now := time.Now().UTC()
	insertSession(t, database, "s1", "/home/dev/api", "live", "/a.json", now.Add(-time.Hour))
	insertSession(t, database, "s2", "/home/dev/web", "live", "/b.json", now)

	sessions, err := database.ListSessions(ListOptions{})
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("session count = %d, want 2", len(sessions))
	}
	if sessions[0].SessionID != "s2" {
		t.Errorf("first session = %v, want s2 (newest first)", sessions[0].SessionID)
	}

	filtered, err := database.ListSessions(ListOptions{Workspace: "api"})
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].SessionID != "s1" {
		t.Errorf("workspace filter = %v, want just s1", filtered)
	}

	recent, err := database.ListSessions(ListOptions{Since: now.Add(-time.Minute)})
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].SessionID != "s2" {
		t.Errorf("since filter = %v, want just s2", recent)
	}
}

func TestGetSession(t *testing.T) {
	database := setupDB(t)
	now := time.Now().UTC()
	id := insertSession(t, database, "s1", "/home/dev/api", "live", "/a.json", now)
	insertMessage(t, database, id, "user", "first", 0, now)
	insertMessage(t, database, id, "assistant", "second", 1, now)

	session, messages, err := database.GetSession("s1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if session.Workspace != "/home/dev/api" {
		t.Errorf("workspace = %v, want /home/dev/api", session.Workspace)
	}
	if len(messages) != 2 {
		t.Fatalf("message count = %d, want 2", len(messages))
	}
	if messages[0].Content != "first" || messages[1].Content != "second" {
		t.Errorf("messages out of order: %v, %v", messages[0].Content, messages[1].Content)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	database := setupDB(t)
	if _, _, err := database.GetSession("missing"); err == nil {
		t.Error("GetSession() error = nil, want not-found error")
	}
}

func TestSearch_FTS(t *testing.T) {
	database := setupDB(t)
	now := time.Now().UTC()
	id := insertSession(t, database, "s1", "/home/dev/api", "live", "/a.json", now)
	insertMessage(t, database, id, "user", "how do I configure logging", 0, now)
	insertMessage(t, database, id, "assistant", "use the standard pattern", 1, now)

	results, err := database.Search("logging", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("result count = %d, want 1", len(results))
	}
	if results[0].SessionID != "s1" || results[0].Role != "user" {
		t.Errorf("result = %+v, want user message of s1", results[0])
	}
}

func TestSearch_SpecialCharsFallBackToLike(t *testing.T) {
	database := setupDB(t)
	now := time.Now().UTC()
	id := insertSession(t, database, "s1", "", "live", "/a.json", now)
	insertMessage(t, database, id, "user", "see ticket API-1234 for details", 0, now)

	results, err := database.Search("API-1234", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("result count = %d, want 1 via LIKE fallback", len(results))
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	database := setupDB(t)
	if _, err := database.Search("  ", 10); err == nil {
		t.Error("Search() error = nil, want empty-query error")
	}
}

func TestGetStats(t *testing.T) {
	database := setupDB(t)
	now := time.Now().UTC()
	id := insertSession(t, database, "s1", "/home/dev/api", "live", "/a.json", now.Add(-time.Hour))
	insertMessage(t, database, id, "user", "hello", 0, now)
	insertSession(t, database, "s2", "/home/dev/api", "editing", "/b.json", now)
	insertSession(t, database, "s3", "/home/dev/web", "live", "/c.json", now)

	stats, err := database.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalSessions != 3 {
		t.Errorf("TotalSessions = %d, want 3", stats.TotalSessions)
	}
	if stats.TotalMessages != 1 {
		t.Errorf("TotalMessages = %d, want 1", stats.TotalMessages)
	}
	if stats.SessionsByType["live"] != 2 || stats.SessionsByType["editing"] != 1 {
		t.Errorf("SessionsByType = %v", stats.SessionsByType)
	}
	if stats.MostActiveWorkspace != "/home/dev/api" || stats.MostActiveWorkspaceCount != 2 {
		t.Errorf("MostActiveWorkspace = %v (%d), want /home/dev/api (2)",
			stats.MostActiveWorkspace, stats.MostActiveWorkspaceCount)
	}
	if stats.OldestSession.IsZero() || stats.NewestSession.IsZero() {
		t.Error("date range not populated")
	}
}

func TestGetStats_Empty(t *testing.T) {
	database := setupDB(t)
	stats, err := database.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSessions != 0 || stats.TotalMessages != 0 {
		t.Errorf("stats = %+v, want zeros", stats)
	}
}
