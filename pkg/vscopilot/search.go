package vscopilot

import (
	"strings"
	"time"
	"unicode/utf8"
)

// contextRadius is how many bytes of surrounding text a match carries on
// each side of the first occurrence.
const contextRadius = 100

// SearchResult is one message that contained the query, with enough
// provenance to jump back to the session it came from.
type SearchResult struct {
	SessionID string    `json:"session_id"`
	MessageID string    `json:"message_id,omitempty"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	// Offset is the byte offset of the first occurrence within Content.
	Offset  int    `json:"offset"`
	Context string `json:"context"`
	Content string `json:"content"`
	// Workspace is the session's resolved workspace reference, if any.
	Workspace string                 `json:"workspace,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Search scans every message of every session for the query as a
// substring. Matching is case-folded unless caseSensitive is set; only
// the first occurrence per message is reported.
func Search(corpus *WorkspaceData, query string, caseSensitive bool) []SearchResult {
	results := []SearchResult{}
	if corpus == nil || query == "" {
		return results
	}

	needle := query
	if !caseSensitive {
		needle = strings.ToLower(needle)
	}

	for _, session := range corpus.ChatSessions {
		for _, msg := range session.Messages {
			var offset, matchLen int
			if caseSensitive {
				offset = strings.Index(msg.Content, needle)
				matchLen = len(needle)
			} else {
				offset, matchLen = foldedIndex(msg.Content, needle)
			}
			if offset < 0 {
				continue
			}
			results = append(results, SearchResult{
				SessionID: session.SessionID,
				MessageID: msg.ID,
				Role:      msg.Role,
				Timestamp: msg.Timestamp,
				Offset:    offset,
				Context:   contextWindow(msg.Content, offset, matchLen),
				Content:   msg.Content,
				Workspace: session.Workspace,
				Metadata:  msg.Metadata,
			})
		}
	}
	return results
}

// foldedIndex finds the first case-insensitive occurrence of an
// already-lowered needle in content, returning the byte offset and byte
// length of the matched segment within the original content, or (-1, 0).
// Case folding can change a rune's byte length (U+0130 lowers from 2
// bytes to 3, the Kelvin sign from 3 to 1), so a match position in the
// folded text cannot index the original directly: every folded byte
// records the offset of the original rune it came from, and the match is
// mapped back through that table.
func foldedIndex(content, needle string) (int, int) {
	var folded strings.Builder
	folded.Grow(len(content))
	origin := make([]int, 0, len(content)+1)
	for i, r := range content {
		low := strings.ToLower(string(r))
		folded.WriteString(low)
		for range low {
			origin = append(origin, i)
		}
	}
	origin = append(origin, len(content))

	idx := strings.Index(folded.String(), needle)
	if idx < 0 {
		return -1, 0
	}

	start := origin[idx]
	end := origin[idx+len(needle)]
	if len(needle) > 0 && end == origin[idx+len(needle)-1] {
		// Needle ends inside one rune's folded expansion; the match
		// covers that whole original rune.
		_, size := utf8.DecodeRuneInString(content[end:])
		end += size
	}
	return start, end - start
}

// contextWindow clips contextRadius bytes either side of the match,
// widening the cut points to rune boundaries so the window stays valid
// UTF-8.
func contextWindow(content string, offset, matchLen int) string {
	start := offset - contextRadius
	if start < 0 {
		start = 0
	}
	for start > 0 && !utf8.RuneStart(content[start]) {
		start--
	}
	end := offset + matchLen + contextRadius
	if end > len(content) {
		end = len(content)
	}
	for end < len(content) && !utf8.RuneStart(content[end]) {
		end++
	}
	return content[start:end]
}
