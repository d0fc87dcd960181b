package export

import (
	"fmt"
	"io"
	"time"

	"github.com/cbroglie/mustache"

	"cophist/pkg/vscopilot"
)

// markdownTemplate renders the whole corpus as one document. Mustache
// keeps the layout out of the code and lets users swap in their own
// template later if it ever matters.
const markdownTemplate = `# {{agent}} chat history

{{#workspace_path}}Extracted from {{workspace_path}}.{{/workspace_path}}
{{session_count}} session(s).

{{#sessions}}
## {{title}}

{{#workspace}}**Workspace:** {{workspace}}  {{/workspace}}
**Session:** {{session_id}}
**Date:** {{date}}
**Messages:** {{message_count}}

{{#messages}}
**{{role}}**{{#time}} ({{time}}){{/time}}:

{{{content}}}

---

{{/messages}}
{{/sessions}}
`

// MarkdownExporter exports the corpus as a readable Markdown document.
type MarkdownExporter struct{}

// Export writes the corpus to w.
func (e *MarkdownExporter) Export(corpus *vscopilot.WorkspaceData, w io.Writer) error {
	sessions := make([]map[string]interface{}, 0, len(corpus.ChatSessions))
	for _, session := range corpus.ChatSessions {
		title := session.SessionID
		if custom, ok := session.Metadata["custom_title"].(string); ok && custom != "" {
			title = custom
		}

		messages := make([]map[string]interface{}, 0, len(session.Messages))
		for _, msg := range session.Messages {
			entry := map[string]interface{}{
				"role":    string(msg.Role),
				"content": msg.Content,
			}
			if !msg.Timestamp.IsZero() {
				entry["time"] = msg.Timestamp.Format(time.RFC3339)
			}
			messages = append(messages, entry)
		}

		sessions = append(sessions, map[string]interface{}{
			"title":         title,
			"session_id":    session.SessionID,
			"workspace":     session.Workspace,
			"date":          session.Timestamp.Format("2006-01-02 15:04"),
			"message_count": len(session.Messages),
			"messages":      messages,
		})
	}

	rendered, err := mustache.Render(markdownTemplate, map[string]interface{}{
		"agent":          corpus.Agent,
		"workspace_path": corpus.WorkspacePath,
		"session_count":  len(corpus.ChatSessions),
		"sessions":       sessions,
	})
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(w, rendered)
	return err
}

// Extension returns the file extension for this format.
func (e *MarkdownExporter) Extension() string {
	return "md"
}
