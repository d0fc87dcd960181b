package vscopilot

import (
	"os"
	"path/filepath"
	"testing"
)

func writeStateFile(t *testing.T, sessionDir, content string) string {
	t.Helper()
	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(sessionDir, "state.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseLegacyEditingSession_HistoryOnly(t *testing.T) {
	path := writeStateFile(t, filepath.Join(t.TempDir(), "sess-9"), `{
		"linearHistory": [
			{"requestId": "r1", "workingSet": [{}, {}, {}]},
			{"requestId": "r2", "workingSet": [{}], "entries": [{}, {}]}
		]
	}`)

	session, err := ParseLegacyEditingSession(path)
	if err != nil {
		t.Fatalf("ParseLegacyEditingSession() error = %v", err)
	}
	if len(session.Messages) != 2 {
		t.Fatalf("message count = %d, want 2", len(session.Messages))
	}
	for i, msg := range session.Messages {
		if msg.Role != RoleUser {
			t.Errorf("message %d role = %v, want user", i, msg.Role)
		}
	}
	if got, want := session.Messages[0].Content, "editing session with 3 files in working set"; got != want {
		t.Errorf("first message = %q, want %q", got, want)
	}
	if got, want := session.Messages[1].Content, "editing session with 1 files in working set and 2 entries"; got != want {
		t.Errorf("second message = %q, want %q", got, want)
	}
	if session.SessionID != "sess-9" {
		t.Errorf("session id = %v, want directory name sess-9", session.SessionID)
	}
	if session.Metadata["type"] != "editing" {
		t.Errorf("type = %v, want editing", session.Metadata["type"])
	}
}

func TestParseLegacyEditingSession_RecentSnapshot(t *testing.T) {
	path := writeStateFile(t, filepath.Join(t.TempDir(), "sess-1"), `{
		"sessionId": "embedded",
		"linearHistory": [{"workingSet": [{}]}],
		"recentSnapshot": {"workingSet": [{}, {}]}
	}`)

	session, err := ParseLegacyEditingSession(path)
	if err != nil {
		t.Fatal(err)
	}
	if session.SessionID != "embedded" {
		t.Errorf("session id = %v, want embedded", session.SessionID)
	}
	if len(session.Messages) != 3 {
		t.Fatalf("message count = %d, want 3", len(session.Messages))
	}
	last := session.Messages[2]
	if last.Role != RoleAssistant {
		t.Errorf("snapshot message role = %v, want assistant", last.Role)
	}
	if got, want := last.Content, "recent snapshot with 2 files in working set"; got != want {
		t.Errorf("snapshot message = %q, want %q", got, want)
	}
}

func TestParseLegacyEditingSession_EmptySnapshotIgnored(t *testing.T) {
	path := writeStateFile(t, filepath.Join(t.TempDir(), "sess-2"), `{
		"linearHistory": [{"workingSet": []}],
		"recentSnapshot": {"workingSet": []}
	}`)
	session, err := ParseLegacyEditingSession(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Messages) != 1 {
		t.Fatalf("message count = %d, want 1 (empty snapshot contributes nothing)", len(session.Messages))
	}
}

func TestParseLegacyEditingSession_TimestampIsModTime(t *testing.T) {
	path := writeStateFile(t, filepath.Join(t.TempDir(), "sess-3"), `{"linearHistory": [{"workingSet": [{}]}]}`)
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	session, err := ParseLegacyEditingSession(path)
	if err != nil {
		t.Fatal(err)
	}
	if !session.Timestamp.Equal(info.ModTime().UTC()) {
		t.Errorf("session timestamp = %v, want file mtime %v", session.Timestamp, info.ModTime().UTC())
	}
}

func TestParseLegacyEditingSession_Malformed(t *testing.T) {
	path := writeStateFile(t, filepath.Join(t.TempDir(), "sess-4"), `{{{`)
	session, err := ParseLegacyEditingSession(path)
	if err == nil {
		t.Error("ParseLegacyEditingSession() error = nil, want parse error")
	}
	if session != nil {
		t.Error("session != nil for malformed input")
	}
}
