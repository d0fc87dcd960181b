package vscopilot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// liveSession models the current chat-session file. Only the fields the
// engine uses are typed; everything else rides along as raw JSON so it
// can be preserved in metadata without interpretation.
type liveSession struct {
	SessionID         string        `json:"sessionId"`
	Version           int           `json:"version"`
	CreationDate      string        `json:"creationDate"`
	LastMessageDate   string        `json:"lastMessageDate"`
	CustomTitle       string        `json:"customTitle"`
	RequesterUsername string        `json:"requesterUsername"`
	ResponderUsername string        `json:"responderUsername"`
	InitialLocation   string        `json:"initialLocation"`
	IsImported        bool          `json:"isImported"`
	Requests          []liveRequest `json:"requests"`
}

type liveRequest struct {
	RequestID  string          `json:"requestId"`
	ResponseID string          `json:"responseId"`
	Timestamp  json.RawMessage `json:"timestamp"`
	ModelID    string          `json:"modelId"`
	Message    struct {
		Text string `json:"text"`
	} `json:"message"`
	Response          json.RawMessage   `json:"response"`
	IsCanceled        bool              `json:"isCanceled"`
	ContentReferences []json.RawMessage `json:"contentReferences"`
	CodeCitations     []json.RawMessage `json:"codeCitations"`
}

// liveResponseBody covers the shapes the response object has taken
// across tool versions. The same logical field has been renamed twice,
// so extraction tries value, then text, then content.
type liveResponseBody struct {
	Value   json.RawMessage `json:"value"`
	Text    json.RawMessage `json:"text"`
	Content json.RawMessage `json:"content"`
}

// ParseLiveSession parses one chat-session file into a normalized
// session. Each request contributes at most one user message followed by
// at most one assistant message; canceled or empty responses contribute
// nothing. A decode failure returns a nil session and the error.
func ParseLiveSession(path string) (*ChatSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat session file: %w", err)
	}

	var raw liveSession
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse chat session JSON: %w", err)
	}

	sessionID := raw.SessionID
	if sessionID == "" {
		sessionID = fileStem(path)
	}

	sessionTime, ok := parseEmbeddedTimestamp(raw.CreationDate)
	if !ok {
		sessionTime = fileModTime(path)
	}

	session := &ChatSession{
		Agent:     AgentName,
		SessionID: sessionID,
		Timestamp: sessionTime,
		Messages:  make([]Message, 0, 2*len(raw.Requests)),
		Metadata: map[string]interface{}{
			"source_file":        path,
			"type":               "live",
			"version":            raw.Version,
			"requester_username": raw.RequesterUsername,
			"responder_username": raw.ResponderUsername,
			"request_count":      len(raw.Requests),
		},
	}
	if raw.CustomTitle != "" {
		session.Metadata["custom_title"] = raw.CustomTitle
	}

	for _, req := range raw.Requests {
		turnTime, ok := parseRequestTimestamp(req.Timestamp)
		if !ok {
			turnTime = sessionTime
		}

		if strings.TrimSpace(req.Message.Text) != "" {
			userMeta := map[string]interface{}{}
			if req.ModelID != "" {
				userMeta["model_id"] = req.ModelID
			}
			session.Messages = append(session.Messages, Message{
				ID:        req.RequestID,
				Role:      RoleUser,
				Content:   req.Message.Text,
				Timestamp: turnTime,
				Metadata:  userMeta,
			})
		}

		if req.IsCanceled {
			continue
		}
		text, kind := extractResponseText(req.Response)
		if text == "" {
			continue
		}
		meta := map[string]interface{}{
			"response_type": kind,
		}
		if n := len(req.ContentReferences); n > 0 {
			meta["content_references"] = n
		}
		if n := len(req.CodeCitations); n > 0 {
			meta["code_citations"] = n
		}
		session.Messages = append(session.Messages, Message{
			ID:        req.ResponseID,
			Role:      RoleAssistant,
			Content:   text,
			Timestamp: turnTime,
			Metadata:  meta,
		})
	}

	return session, nil
}

// extractResponseText pulls the assistant text out of a response that is
// an object (whose payload field is value, text, or content, tried in
// that order), a plain string, or an array of such items whose text is
// concatenated. The second return names which shape matched.
func extractResponseText(raw json.RawMessage) (string, string) {
	if len(raw) == 0 {
		return "", ""
	}

	var body liveResponseBody
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, candidate := range []struct {
			name string
			raw  json.RawMessage
		}{
			{"value", body.Value},
			{"text", body.Text},
			{"content", body.Content},
		} {
			if text := flattenText(candidate.raw); text != "" {
				return text, candidate.name
			}
			// Some items nest another object here, e.g. a content
			// field carrying its own value.
			if len(candidate.raw) > 0 && candidate.raw[0] == '{' {
				if text, _ := extractResponseText(candidate.raw); text != "" {
					return text, candidate.name
				}
			}
		}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s, "string"
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		var parts []string
		for _, item := range items {
			if text, _ := extractResponseText(item); text != "" {
				parts = append(parts, text)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n"), "array"
		}
	}

	return "", ""
}

// flattenText accepts a string, an array of strings, or a mixed array
// and returns the concatenated text. Non-string array elements are
// skipped.
func flattenText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var mixed []interface{}
	if err := json.Unmarshal(raw, &mixed); err == nil {
		var parts []string
		for _, elem := range mixed {
			if str, ok := elem.(string); ok && str != "" {
				parts = append(parts, str)
			}
		}
		return strings.Join(parts, "\n")
	}

	return ""
}

// fileStem returns the file name without its extension, used as the
// session id when the file carries none of its own.
func fileStem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
