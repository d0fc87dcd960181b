package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"cophist/pkg/vscopilot"
)

func exportCorpus() *vscopilot.WorkspaceData {
	ts := time.Date(2024, 11, 5, 14, 30, 0, 0, time.UTC)
	return &vscopilot.WorkspaceData{
		Agent:         vscopilot.AgentName,
		WorkspacePath: "/roots/Code/User",
		ChatSessions: []vscopilot.ChatSession{{
			Agent:     vscopilot.AgentName,
			SessionID: "s1",
			Timestamp: ts,
			Workspace: "/home/dev/api",
			Metadata:  map[string]interface{}{"type": "live", "custom_title": "fix the build"},
			Messages: []vscopilot.Message{
				{Role: vscopilot.RoleUser, Content: "hi", Timestamp: ts},
				{Role: vscopilot.RoleAssistant, Content: "hello", Timestamp: ts},
			},
		}},
	}
}

func TestNewExporter(t *testing.T) {
	for _, format := range []string{"json", "yaml", "md", "markdown"} {
		if _, err := NewExporter(format); err != nil {
			t.Errorf("NewExporter(%q) error = %v", format, err)
		}
	}
	if _, err := NewExporter("xml"); err == nil {
		t.Error("NewExporter(xml) error = nil, want unsupported-format error")
	}
}

func TestJSONExporter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(exportCorpus(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var decoded vscopilot.WorkspaceData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("exported JSON does not decode: %v", err)
	}
	if len(decoded.ChatSessions) != 1 || decoded.ChatSessions[0].SessionID != "s1" {
		t.Errorf("round trip lost data: %+v", decoded)
	}
}

func TestYAMLExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(exportCorpus(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("exported YAML does not decode: %v", err)
	}
	if decoded["agent"] != vscopilot.AgentName {
		t.Errorf("agent = %v, want %v", decoded["agent"], vscopilot.AgentName)
	}
}

func TestMarkdownExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(exportCorpus(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# github-copilot chat history",
		"## fix the build",
		"**Workspace:** /home/dev/api",
		"**user**",
		"hello",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func TestExtensions(t *testing.T) {
	tests := []struct {
		exporter Exporter
		want     string
	}{
		{&JSONExporter{}, "json"},
		{&YAMLExporter{}, "yaml"},
		{&MarkdownExporter{}, "md"},
	}
	for _, tt := range tests {
		if got := tt.exporter.Extension(); got != tt.want {
			t.Errorf("Extension() = %v, want %v", got, tt.want)
		}
	}
}
