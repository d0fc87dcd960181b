package vscopilot

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseEmbeddedTimestamp(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
	}{
		{"2024-11-05T14:30:00Z", true},
		{"2024-11-05T14:30:00.123456789Z", true},
		{"2024-11-05T14:30:00", true},
		{"2024-11-05T14:30:00.123", true},
		{"", false},
		{"not a date", false},
		{"1700000000", false},
	}
	for _, tt := range tests {
		_, ok := parseEmbeddedTimestamp(tt.in)
		if ok != tt.wantOK {
			t.Errorf("parseEmbeddedTimestamp(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
		}
	}
}

func TestParseEmbeddedTimestamp_UTC(t *testing.T) {
	got, ok := parseEmbeddedTimestamp("2024-11-05T14:30:00Z")
	if !ok {
		t.Fatal("parseEmbeddedTimestamp() ok = false, want true")
	}
	want := time.Date(2024, 11, 5, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parsed = %v, want %v", got, want)
	}
}

func TestParseRequestTimestamp(t *testing.T) {
	if got, ok := parseRequestTimestamp(json.RawMessage(`"2024-11-05T14:30:00Z"`)); !ok || got.IsZero() {
		t.Errorf("string timestamp: got %v, ok %v", got, ok)
	}

	got, ok := parseRequestTimestamp(json.RawMessage(`1700000000000`))
	if !ok {
		t.Fatal("millis timestamp: ok = false, want true")
	}
	if want := time.Unix(1700000000, 0).UTC(); !got.Equal(want) {
		t.Errorf("millis timestamp = %v, want %v", got, want)
	}

	if _, ok := parseRequestTimestamp(nil); ok {
		t.Error("nil timestamp: ok = true, want false")
	}
	if _, ok := parseRequestTimestamp(json.RawMessage(`{"weird":1}`)); ok {
		t.Error("object timestamp: ok = true, want false")
	}
}

func TestFileModTime_MissingFile(t *testing.T) {
	got := fileModTime("/nonexistent/file.json")
	if got.IsZero() {
		t.Error("fileModTime() on missing file should still return a usable time")
	}
}
