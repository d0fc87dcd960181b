package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"cophist/cmd/cophist/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server for assistant integration",
	Long: `Start an MCP (Model Context Protocol) server exposing the local chat
history index to MCP clients.

Configure in your client's MCP settings, for example:
  {
    "mcpServers": {
      "cophist": {
        "command": "cophist",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	if err := ensureDBDir(); err != nil {
		return err
	}
	if err := mcp.StartServer(dbPath); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
