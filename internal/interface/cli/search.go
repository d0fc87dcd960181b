package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cophist/pkg/vscopilot"
)

var (
	searchLimit         int
	searchScan          bool
	searchCaseSensitive bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search chat history",
	Long: `Search imported Copilot chat history using full-text search.

By default searches the local index with FTS5 porter stemming. With
--scan the on-disk session files are discovered and scanned directly,
using plain substring matching; no index is required.

Examples:
  cophist search "connection pool"
  cophist search "TODO" --scan --case-sensitive
  cophist search "error handling" --limit 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum number of matches to show")
	searchCmd.Flags().BoolVar(&searchScan, "scan", false, "Scan session files on disk instead of the index")
	searchCmd.Flags().BoolVar(&searchCaseSensitive, "case-sensitive", false, "Match case exactly (only with --scan)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	if searchScan {
		return runScanSearch(cmd, query)
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	results, err := database.Search(query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Printf("No results found for: %s\n", query)
		return nil
	}

	fmt.Printf("Found %d match(es) for: %s\n\n", len(results), query)
	for i, r := range results {
		fmt.Printf("[%d] %s (%s)\n", i+1, r.SessionID, r.Role)
		if r.Workspace != "" {
			fmt.Printf("    Workspace: %s\n", r.Workspace)
		}
		fmt.Printf("    %s\n\n", truncateLine(r.Snippet, 200))
	}

	return nil
}

func runScanSearch(cmd *cobra.Command, query string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	corpus, err := engine.Discover(cmd.Context())
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	results := vscopilot.Search(corpus, query, searchCaseSensitive)
	if len(results) == 0 {
		fmt.Printf("No results found for: %s\n", query)
		return nil
	}

	shown := len(results)
	if shown > searchLimit {
		shown = searchLimit
	}
	fmt.Printf("Found %d match(es) for: %s\n\n", len(results), query)
	for i, r := range results[:shown] {
		fmt.Printf("[%d] %s (%s, offset %d)\n", i+1, r.SessionID, r.Role, r.Offset)
		if r.Workspace != "" {
			fmt.Printf("    Workspace: %s\n", r.Workspace)
		}
		fmt.Printf("    ...%s...\n\n", strings.TrimSpace(r.Context))
	}
	if len(results) > shown {
		fmt.Printf("... and %d more matches (use --limit to see more)\n", len(results)-shown)
	}

	return nil
}
