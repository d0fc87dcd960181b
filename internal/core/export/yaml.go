package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"cophist/pkg/vscopilot"
)

// YAMLExporter exports the corpus as YAML.
type YAMLExporter struct{}

// Export writes the corpus to w.
func (e *YAMLExporter) Export(corpus *vscopilot.WorkspaceData, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	return enc.Encode(corpus)
}

// Extension returns the file extension for this format.
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
