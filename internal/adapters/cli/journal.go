package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/database"
)

// NewJournalCommand creates the journal command with subcommands
func NewJournalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect recorded matches",
		Long: `Read the match journal written by run and play when journal.enabled is set.

Examples:
  rtsbot journal list
  rtsbot journal logs 7f3c9c1e-2a4b-4d0e-9b8e-0c1d2e3f4a5b --level WARNING`,
	}

	cmd.AddCommand(newJournalListCommand())
	cmd.AddCommand(newJournalLogsCommand())

	return cmd
}

func openJournalRepository() (*persistence.GormMatchLogRepository, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, nil, err
	}
	repo := persistence.NewGormMatchLogRepository(db, nil, 0)
	return repo, func() { _ = database.Close(db) }, nil
}

func newJournalListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded matches, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeDB, err := openJournalRepository()
			if err != nil {
				return err
			}
			defer closeDB()

			matches, err := repo.ListMatches(context.Background(), limit)
			if err != nil {
				return fmt.Errorf("failed to list matches: %w", err)
			}
			if len(matches) == 0 {
				fmt.Println("No matches recorded")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MATCH\tMAP\tSTARTED\tENDED\tRESULT")
			for _, m := range matches {
				ended := "-"
				if m.EndedAt != nil {
					ended = m.EndedAt.Format("2006-01-02 15:04:05")
				}
				result := m.Result
				if result == "" {
					result = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					m.ID, m.MapName, m.StartedAt.Format("2006-01-02 15:04:05"), ended, result)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of matches")

	return cmd
}

func newJournalLogsCommand() *cobra.Command {
	var (
		limit int
		level string
	)

	cmd := &cobra.Command{
		Use:   "logs <match-id>",
		Short: "Show the journal of one match",
		Long: `Print a match's journal entries, oldest first.

Examples:
  rtsbot journal logs <match-id>
  rtsbot journal logs <match-id> --limit 50
  rtsbot journal logs <match-id> --level ERROR`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID := args[0]

			repo, closeDB, err := openJournalRepository()
			if err != nil {
				return err
			}
			defer closeDB()

			var levelPtr *string
			if level != "" {
				levelPtr = &level
			}
			logs, err := repo.GetLogs(context.Background(), matchID, limit, levelPtr)
			if err != nil {
				return fmt.Errorf("failed to get logs: %w", err)
			}
			if len(logs) == 0 {
				fmt.Println("No logs found for match:", matchID)
				return nil
			}

			for i := len(logs) - 1; i >= 0; i-- {
				entry := logs[i]
				fmt.Printf("[frame %6d] [%s] %s\n", entry.Frame, entry.Level, entry.Message)
			}
			fmt.Printf("\nTotal: %d log entries\n", len(logs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of log entries")
	cmd.Flags().StringVar(&level, "level", "", "Filter by log level (DEBUG, INFO, WARNING, ERROR)")

	return cmd
}
