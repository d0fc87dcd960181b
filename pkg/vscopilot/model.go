// Package vscopilot discovers and parses GitHub Copilot chat history
// left on disk by VS Code. It locates per-channel storage roots, resolves
// opaque workspace directories to real project paths, parses both the
// current chat-session format and the older editing-session format into
// one normalized shape, and merges everything into a single corpus that
// can be searched and summarized in memory.
package vscopilot

import (
	"time"
)

// AgentName is the fixed agent identifier attached to every session.
const AgentName = "github-copilot"

// Version identifies the extraction engine, recorded on the corpus.
const Version = "1.0.0"

// Role is the normalized speaker of a message. Source-specific roles are
// remapped onto these two; there is no system or tool role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a conversation.
type Message struct {
	// ID carries the source file's request/response correlation id when
	// one exists.
	ID        string    `json:"id,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	// Metadata preserves format-specific provenance. The engine never
	// interprets these values, it only carries them.
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ChatSession is one conversation, produced by parsing exactly one
// source file. Re-parsing the same file yields the same SessionID.
type ChatSession struct {
	Agent     string    `json:"agent"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Messages  []Message `json:"messages"`
	// Workspace is the resolved workspace reference (a folder path, or an
	// opaque reference carrying the multi-root marker). Empty when the
	// workspace directory had no usable workspace.json.
	Workspace string `json:"workspace,omitempty"`
	// Metadata always includes source_file, so the originating file can
	// be re-located from any session.
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// SourceFile returns the path of the file this session was parsed from.
func (s *ChatSession) SourceFile() string {
	if p, ok := s.Metadata["source_file"].(string); ok {
		return p
	}
	return ""
}

// WorkspaceData is the merged corpus of everything found across all
// storage roots on this machine.
type WorkspaceData struct {
	Agent   string `json:"agent"`
	Version string `json:"version,omitempty"`
	// WorkspacePath is the most recently merged storage root that
	// contributed sessions. Diagnostic only; later roots overwrite it.
	WorkspacePath string                 `json:"workspace_path,omitempty"`
	ChatSessions  []ChatSession          `json:"chat_sessions"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}
