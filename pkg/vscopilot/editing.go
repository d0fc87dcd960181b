package vscopilot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// editingSession models the older chatEditingSessions state.json. This
// format records working-set snapshots, not dialogue, so the parser
// synthesizes structural summaries to keep old captures queryable
// alongside live sessions. The message text is a description of the
// snapshot, never actual conversation content.
type editingSession struct {
	SessionID           string            `json:"sessionId"`
	Version             int               `json:"version"`
	LinearHistory       []editingEntry    `json:"linearHistory"`
	LinearHistoryIndex  int               `json:"linearHistoryIndex"`
	RecentSnapshot      *editingSnapshot  `json:"recentSnapshot"`
	InitialFileContents []json.RawMessage `json:"initialFileContents"`
}

type editingEntry struct {
	RequestID  string            `json:"requestId"`
	WorkingSet []json.RawMessage `json:"workingSet"`
	Entries    []json.RawMessage `json:"entries"`
}

type editingSnapshot struct {
	WorkingSet []json.RawMessage `json:"workingSet"`
}

// ParseLegacyEditingSession parses one editing-session state file. Every
// history entry becomes one synthetic user message; a non-empty recent
// snapshot adds one synthetic assistant message. This format carries no
// embedded creation time, so the file's modification time is used
// throughout.
func ParseLegacyEditingSession(path string) (*ChatSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read editing session file: %w", err)
	}

	var raw editingSession
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse editing session JSON: %w", err)
	}

	// Every state file is named state.json, so the filename stem cannot
	// identify the session; the containing directory carries the id.
	sessionID := raw.SessionID
	if sessionID == "" {
		sessionID = filepath.Base(filepath.Dir(path))
	}

	sessionTime := fileModTime(path)

	session := &ChatSession{
		Agent:     AgentName,
		SessionID: sessionID,
		Timestamp: sessionTime,
		Messages:  make([]Message, 0, len(raw.LinearHistory)+1),
		Metadata: map[string]interface{}{
			"source_file":          path,
			"type":                 "editing",
			"version":              raw.Version,
			"linear_history_index": raw.LinearHistoryIndex,
			"history_count":        len(raw.LinearHistory),
		},
	}

	for _, entry := range raw.LinearHistory {
		text := fmt.Sprintf("editing session with %d files in working set", len(entry.WorkingSet))
		if len(entry.Entries) > 0 {
			text += fmt.Sprintf(" and %d entries", len(entry.Entries))
		}
		session.Messages = append(session.Messages, Message{
			ID:        entry.RequestID,
			Role:      RoleUser,
			Content:   text,
			Timestamp: sessionTime,
			Metadata: map[string]interface{}{
				"type":              "editing_summary",
				"working_set_files": len(entry.WorkingSet),
				"entry_count":       len(entry.Entries),
			},
		})
	}

	if raw.RecentSnapshot != nil && len(raw.RecentSnapshot.WorkingSet) > 0 {
		session.Messages = append(session.Messages, Message{
			Role:      RoleAssistant,
			Content:   fmt.Sprintf("recent snapshot with %d files in working set", len(raw.RecentSnapshot.WorkingSet)),
			Timestamp: sessionTime,
			Metadata: map[string]interface{}{
				"type":              "snapshot_summary",
				"working_set_files": len(raw.RecentSnapshot.WorkingSet),
			},
		})
	}

	return session, nil
}
