package export

import (
	"encoding/json"
	"io"

	"cophist/pkg/vscopilot"
)

// JSONExporter exports the corpus as indented JSON.
type JSONExporter struct{}

// Export writes the corpus to w.
func (e *JSONExporter) Export(corpus *vscopilot.WorkspaceData, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(corpus)
}

// Extension returns the file extension for this format.
func (e *JSONExporter) Extension() string {
	return "json"
}
