package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rtsbot",
		Short: "rtsbot - an RTS-playing bot",
		Long: `rtsbot mirrors the state of a real-time strategy match, schedules
construction against a resource budget and analyzes map terrain.

It plays live matches over a websocket bridge or replays recorded event
streams offline.

Examples:
  rtsbot play --url ws://localhost:8765/bot --record match.jsonl.zst
  rtsbot run --replay match.jsonl.zst
  rtsbot analyze --map maps/example.yaml
  rtsbot journal list
  rtsbot journal logs <match-id> --level ERROR
  rtsbot config show`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml, ./configs, /etc/rtsbot)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log at debug level")

	// Add command groups
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewPlayCommand())
	rootCmd.AddCommand(NewAnalyzeCommand())
	rootCmd.AddCommand(NewJournalCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
