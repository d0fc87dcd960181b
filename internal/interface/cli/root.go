package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"cophist/internal/core/config"
	"cophist/internal/core/db"
	"cophist/pkg/vscopilot"
)

var (
	cfg         *config.Config
	dbPath      string
	verbose     bool
	versionInfo string
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cophist",
	Short: "GitHub Copilot chat history browser",
	Long: `cophist - discover, search, and browse GitHub Copilot chat history

Reads the chat session files VS Code leaves under its workspaceStorage
directories, normalizes them into one corpus, and lets you search,
inspect, export, and index them locally.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.WarnLevel)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to TUI if no subcommand specified
		return tuiCmd.RunE(cmd, args)
	},
}

func init() {
	cfg, _ = config.Load()

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "Database path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// ensureDBDir creates the directory holding the database file.
func ensureDBDir() error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create db directory: %w", err)
	}
	return nil
}

// openDB opens the local index, creating its directory when needed.
func openDB() (*db.DB, error) {
	if err := ensureDBDir(); err != nil {
		return nil, err
	}
	database, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// newEngine builds a discovery engine from the loaded config.
func newEngine() (*vscopilot.Engine, error) {
	roots, err := cfg.Roots()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage roots: %w", err)
	}
	return newEngineForRoots(roots), nil
}

// newEngineForRoots builds an engine over explicit roots, keeping the
// configured tuning.
func newEngineForRoots(roots []string) *vscopilot.Engine {
	return vscopilot.NewEngine(roots,
		vscopilot.WithWorkers(cfg.Workers),
		vscopilot.WithFileTimeout(cfg.FileTimeout),
		vscopilot.WithAgent(cfg.Agent),
	)
}
