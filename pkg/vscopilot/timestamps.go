package vscopilot

import (
	"encoding/json"
	"os"
	"strings"
	"time"
)

// embeddedTimestampLayouts are tried in order when parsing a creation
// date string from a session file. The format drifted across editor
// versions; newer files carry a trailing Z, older ones no zone at all.
var embeddedTimestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// parseEmbeddedTimestamp parses a session file's embedded creation date.
// Returns ok=false when the string is empty or matches no known layout.
func parseEmbeddedTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range embeddedTimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// fileModTime is the final fallback in the timestamp chain: the source
// file's modification time, or the current time if the file cannot be
// stat'd.
func fileModTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Now().UTC()
	}
	return info.ModTime().UTC()
}

// parseRequestTimestamp parses a per-request timestamp, which appears as
// either an ISO string or Unix milliseconds depending on tool version.
func parseRequestTimestamp(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 {
		return time.Time{}, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseEmbeddedTimestamp(s)
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil && ms > 0 {
		return time.Unix(0, ms*int64(time.Millisecond)).UTC(), true
	}
	return time.Time{}, false
}
