// Package export renders a discovered corpus to portable formats.
package export

import (
	"fmt"
	"io"

	"cophist/pkg/vscopilot"
)

// Exporter writes a corpus to one output format.
type Exporter interface {
	Export(corpus *vscopilot.WorkspaceData, w io.Writer) error
	Extension() string
}

// NewExporter creates an exporter for the named format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, yaml, md)", format)
	}
}
