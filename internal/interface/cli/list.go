package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"cophist/internal/core/db"
)

var (
	listLimit     int
	listWorkspace string
	listSince     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported chat sessions",
	Long: `List imported Copilot chat sessions in reverse chronological order.

Shows session titles, workspace paths, message counts, and timestamps.
The --since flag accepts natural language dates as well as ISO dates.

Examples:
  cophist list
  cophist list --limit 10
  cophist list --workspace my-api
  cophist list --since "last week"`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of sessions to display")
	listCmd.Flags().StringVar(&listWorkspace, "workspace", "", "Filter by workspace path substring")
	listCmd.Flags().StringVar(&listSince, "since", "", "Only sessions created after this date")
}

func runList(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	opts := db.ListOptions{
		Workspace: listWorkspace,
		Limit:     listLimit,
	}
	if listSince != "" {
		since := parseNaturalDate(listSince)
		if since == nil {
			return fmt.Errorf("could not parse date: %s", listSince)
		}
		opts.Since = *since
	}

	sessions, err := database.ListSessions(opts)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		if listWorkspace != "" {
			fmt.Printf("No sessions found for workspace: %s\n", listWorkspace)
		} else {
			fmt.Println("No sessions found. Run 'cophist discover --import' to index sessions.")
		}
		return nil
	}

	fmt.Printf("Showing %d session(s)", len(sessions))
	if listWorkspace != "" {
		fmt.Printf(" for workspace: %s", listWorkspace)
	}
	fmt.Println()
	fmt.Println()

	for i, s := range sessions {
		fmt.Printf("[%d] %s\n", i+1, s.SessionID)
		if s.Title != "" {
			fmt.Printf("    Title: %s\n", truncateLine(s.Title, 80))
		}
		if s.Workspace != "" {
			fmt.Printf("    Workspace: %s\n", s.Workspace)
		}
		fmt.Printf("    Type: %s\n", s.Type)
		fmt.Printf("    Messages: %d\n", s.MessageCount)
		if !s.CreatedAt.IsZero() {
			fmt.Printf("    Created: %s\n", humanize.Time(s.CreatedAt))
		}
		fmt.Println()
	}

	return nil
}

// parseNaturalDate accepts both natural language ("yesterday", "last
// week") and standard date formats.
func parseNaturalDate(s string) *time.Time {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(s, time.Now())
	if err == nil && result != nil {
		return &result.Time
	}

	formats := []string{
		"2006-01-02",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006/01/02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return &t
		}
	}

	return nil
}

// truncateLine collapses whitespace and truncates at a word boundary.
func truncateLine(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxLen {
		return s
	}
	truncated := s[:maxLen]
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > maxLen-20 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}
