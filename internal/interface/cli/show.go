package cli

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	showRender bool
	showCopy   bool
)

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session's full conversation",
	Long: `Print every message of an imported session.

Examples:
  cophist show 4f8a2c1e-7b3d-4e5f-9a0b-1c2d3e4f5a6b
  cophist show 4f8a2c1e-7b3d-4e5f-9a0b-1c2d3e4f5a6b --render
  cophist show 4f8a2c1e-7b3d-4e5f-9a0b-1c2d3e4f5a6b --copy`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showRender, "render", false, "Render message content as markdown")
	showCmd.Flags().BoolVar(&showCopy, "copy", false, "Copy the conversation to the clipboard")
}

func runShow(cmd *cobra.Command, args []string) error {
	sessionID := args[0]

	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	session, messages, err := database.GetSession(sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}

	var b strings.Builder
	if session.Title != "" {
		b.WriteString(fmt.Sprintf("# %s\n\n", session.Title))
	} else {
		b.WriteString(fmt.Sprintf("# Session %s\n\n", session.SessionID))
	}
	if session.Workspace != "" {
		b.WriteString(fmt.Sprintf("**Workspace:** %s  \n", session.Workspace))
	}
	b.WriteString(fmt.Sprintf("**Type:** %s  \n", session.Type))
	b.WriteString(fmt.Sprintf("**Source:** %s  \n", session.SourceFile))
	b.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(messages)))

	for _, m := range messages {
		b.WriteString(fmt.Sprintf("**%s**", strings.ToUpper(m.Role)))
		if !m.Timestamp.IsZero() {
			b.WriteString(fmt.Sprintf(" _%s_", m.Timestamp.Format("Jan 02, 2006 15:04:05")))
		}
		b.WriteString("\n\n")
		if m.Content != "" {
			b.WriteString(m.Content)
			b.WriteString("\n\n")
		}
		b.WriteString("---\n\n")
	}

	output := b.String()

	if showCopy {
		if err := clipboard.WriteAll(output); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Printf("Copied session %s to clipboard (%d messages)\n", sessionID, len(messages))
		return nil
	}

	if showRender {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if rendered, rerr := renderer.Render(output); rerr == nil {
				fmt.Print(rendered)
				return nil
			}
		}
		// Fall through to plain output when rendering is unavailable
	}

	fmt.Print(output)
	return nil
}
