package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cophist/internal/core/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export discovered chat history",
	Long: `Discover Copilot chat history and export the merged corpus.

Supported formats: json, yaml, markdown. Writes to stdout unless
--output is given.

Examples:
  cophist export
  cophist export --format markdown --output history.md
  cophist export --format yaml > history.yaml`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format (json, yaml, markdown)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	exporter, err := export.NewExporter(exportFormat)
	if err != nil {
		return err
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}
	corpus, err := engine.Discover(cmd.Context())
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if exportOutput == "" {
		return exporter.Export(corpus, os.Stdout)
	}

	file, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := exporter.Export(corpus, file); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Exported %d session(s) to: %s\n", len(corpus.ChatSessions), exportOutput)
	return nil
}
