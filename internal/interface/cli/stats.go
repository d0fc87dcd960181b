package cli

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cophist/pkg/vscopilot"
)

var statsScan bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show chat history statistics",
	Long: `Display statistics about imported Copilot chat history.

Shows session and message counts, per-type breakdowns, date ranges,
and storage info. With --scan the statistics are computed from the
session files on disk instead of the local index.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsScan, "scan", false, "Compute statistics from files on disk instead of the index")
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsScan {
		return runScanStats(cmd)
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	stats, err := database.GetStats()
	if err != nil {
		return fmt.Errorf("failed to gather statistics: %w", err)
	}

	fmt.Println("Index Statistics")
	fmt.Println("================")
	fmt.Println()
	fmt.Printf("Total Sessions:    %d\n", stats.TotalSessions)
	fmt.Printf("Total Messages:    %d\n", stats.TotalMessages)
	fmt.Println()

	if len(stats.SessionsByType) > 0 {
		fmt.Println("Sessions by type:")
		for _, t := range sortedKeys(stats.SessionsByType) {
			fmt.Printf("  %-10s %d\n", t, stats.SessionsByType[t])
		}
		fmt.Println()
	}

	if !stats.OldestSession.IsZero() {
		fmt.Printf("Oldest Session:    %s\n", stats.OldestSession.Format("Jan 2, 2006 3:04 PM"))
	}
	if !stats.NewestSession.IsZero() {
		fmt.Printf("Newest Session:    %s (%s)\n",
			stats.NewestSession.Format("Jan 2, 2006 3:04 PM"), humanize.Time(stats.NewestSession))
	}
	if stats.MostActiveWorkspace != "" {
		fmt.Println()
		fmt.Printf("Most Active Workspace:\n")
		fmt.Printf("  Path:     %s\n", stats.MostActiveWorkspace)
		fmt.Printf("  Sessions: %d\n", stats.MostActiveWorkspaceCount)
	}

	fmt.Println()
	fmt.Printf("Database Location: %s\n", database.Path())
	fmt.Printf("Database Size:     %s\n", humanize.Bytes(uint64(database.FileSize())))

	return nil
}

func runScanStats(cmd *cobra.Command) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	corpus, err := engine.Discover(cmd.Context())
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	report := vscopilot.Statistics(corpus)

	fmt.Println("On-Disk Statistics")
	fmt.Println("==================")
	fmt.Println()
	fmt.Printf("Total Sessions:    %d\n", report.TotalSessions)
	fmt.Printf("Total Messages:    %d\n", report.TotalMessages)
	fmt.Println()

	if len(report.SessionsByType) > 0 {
		fmt.Println("Sessions by type:")
		for _, t := range sortedKeys(report.SessionsByType) {
			fmt.Printf("  %-18s %d\n", t, report.SessionsByType[t])
		}
		fmt.Println()
	}
	if len(report.MessagesByType) > 0 {
		fmt.Println("Messages by type:")
		for _, t := range sortedKeys(report.MessagesByType) {
			fmt.Printf("  %-18s %d\n", t, report.MessagesByType[t])
		}
		fmt.Println()
	}

	if len(report.ByWorkspace) > 0 {
		fmt.Println("Workspace activity:")
		for _, ws := range sortedKeys2(report.ByWorkspace) {
			a := report.ByWorkspace[ws]
			fmt.Printf("  %s: %d session(s), %d message(s)\n", ws, a.Sessions, a.Messages)
		}
		fmt.Println()
	}

	if report.DateRange.Earliest != nil {
		fmt.Printf("Earliest Activity: %s\n", *report.DateRange.Earliest)
	}
	if report.DateRange.Latest != nil {
		fmt.Printf("Latest Activity:   %s\n", *report.DateRange.Latest)
	}

	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys2(m map[string]*vscopilot.WorkspaceActivity) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
