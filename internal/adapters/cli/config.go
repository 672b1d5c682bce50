package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect rtsbot configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (RTS_* prefix)
2. Config file (config.yaml, or --config)
3. Default values

Examples:
  rtsbot config show
  rtsbot config show --config ./ladder.yaml`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				fmt.Printf("Warning: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			fmt.Println("rtsbot Configuration")
			fmt.Println("====================")

			fmt.Println("\nBot:")
			fmt.Printf("  Cadence:          every %d frames\n", cfg.Bot.CadenceFrames)
			fmt.Printf("  Bootstrap:        %d workers\n", cfg.Bot.BootstrapWorkers)
			fmt.Printf("  Scouting:         %t\n", cfg.Bot.ScoutingEnabled)
			fmt.Printf("  Placement tries:  %d\n", cfg.Bot.PlacementMaxAttempts)
			fmt.Printf("  Latency comp.:    %t\n", cfg.Bot.LatencyCompensation)
			fmt.Printf("  Build order:      %s\n", orNone(strings.Join(cfg.Bot.BuildOrder, ", ")))
			fmt.Printf("  Overlay keys:     %s\n", strings.Join(cfg.Bot.Operator.OverlayKeys, "+"))
			fmt.Printf("  Verbosity keys:   %s\n", strings.Join(cfg.Bot.Operator.VerbosityKeys, "+"))

			fmt.Println("\nMap:")
			fmt.Printf("  Path:             %s\n", orNone(cfg.Map.Path))

			fmt.Println("\nReplay:")
			fmt.Printf("  Path:             %s\n", orNone(cfg.Replay.Path))

			fmt.Println("\nSimulation link:")
			fmt.Printf("  URL:              %s\n", cfg.SimLink.URL)
			fmt.Printf("  Handshake:        %s\n", cfg.SimLink.HandshakeTimeout)
			fmt.Printf("  Command rate:     %.1f/s (burst: %d)\n", cfg.SimLink.CommandRate, cfg.SimLink.CommandBurst)
			fmt.Printf("  PID file:         %s\n", orNone(cfg.SimLink.PIDFile))

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.Type == "sqlite":
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			case cfg.Database.URL != "":
				fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
			default:
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
			}
			fmt.Printf("  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

			fmt.Println("\nJournal:")
			fmt.Printf("  Enabled:          %t\n", cfg.Journal.Enabled)
			fmt.Printf("  Dedup window:     %s\n", cfg.Journal.DedupWindow)

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:           %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			fmt.Println("\nMetrics:")
			fmt.Printf("  Enabled:          %t\n", cfg.Metrics.Enabled)
			if cfg.Metrics.Enabled {
				fmt.Printf("  Endpoint:         http://%s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
				fmt.Printf("  Namespace:        %s\n", cfg.Metrics.Namespace)
			}

			return nil
		},
	}

	return cmd
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
