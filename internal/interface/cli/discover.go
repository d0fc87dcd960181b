package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cophist/internal/core/importer"
)

var (
	discoverJSON   bool
	discoverImport bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover [root...]",
	Short: "Discover Copilot chat sessions on disk",
	Long: `Scan VS Code storage roots for GitHub Copilot chat history.

Without arguments the per-platform candidate roots are scanned (both the
stable and Insiders channels); pass explicit roots to scan those instead.
Missing roots are skipped silently.

Examples:
  cophist discover
  cophist discover --json > corpus.json
  cophist discover --import`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "Print the merged corpus as JSON")
	discoverCmd.Flags().BoolVar(&discoverImport, "import", false, "Import discovered sessions into the local index")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		engine = newEngineForRoots(args)
	}

	corpus, err := engine.Discover(cmd.Context())
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if discoverJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(corpus)
	}

	totalMessages := 0
	for _, s := range corpus.ChatSessions {
		totalMessages += len(s.Messages)
	}

	fmt.Printf("Discovered %d session(s) with %d message(s)\n", len(corpus.ChatSessions), totalMessages)
	if corpus.WorkspacePath != "" {
		fmt.Printf("Storage root: %s\n", corpus.WorkspacePath)
	}
	if skipped, ok := corpus.Metadata["skipped_files"]; ok {
		fmt.Printf("Skipped files: %v\n", skipped)
	}

	if !discoverImport {
		return nil
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	fmt.Printf("\nImporting into: %s\n", dbPath)
	imp := importer.New(database)
	progress := importer.NewProgressReporter(os.Stdout, len(corpus.ChatSessions))
	if _, err := imp.ImportCorpus(corpus, progress); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	return nil
}
