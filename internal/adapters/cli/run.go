package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/mapdata"
	"github.com/andrescamacho/rtsbot-go/internal/adapters/replay"
	"github.com/andrescamacho/rtsbot-go/internal/adapters/wire"
)

// NewRunCommand creates the run command, which plays a recorded stream
func NewRunCommand() *cobra.Command {
	var (
		replayPath string
		mapPath    string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play a recorded match offline",
		Long: `Feed a recorded event stream through the bot as if the simulation were
live. Build orders the bot issues are collected and summarized.

The stream is one JSON envelope per line, optionally zstd or lz4
compressed; compression is detected from the file contents.

Examples:
  rtsbot run --replay match.jsonl
  rtsbot run --replay match.jsonl.zst --map maps/example.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if replayPath == "" {
				replayPath = cfg.Replay.Path
			}
			if mapPath == "" {
				mapPath = cfg.Map.Path
			}
			if replayPath == "" {
				return fmt.Errorf("no replay given: use --replay or set replay.path")
			}

			rt, err := setup(cfg)
			if err != nil {
				return err
			}
			defer rt.close()

			r, err := replay.Open(replayPath)
			if err != nil {
				return err
			}
			defer r.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			recorder := replay.NewRecorder(rt.logger.Logger)
			session := wire.NewSession(recorder, mapdata.Load, mapPath, nil, rt.logger.Logger)
			session.SetLatencyCompensation(cfg.Bot.LatencyCompensation)
			orch := rt.orchestrator(session)

			stats, err := replay.Run(ctx, r, session, orch)
			if err != nil {
				return fmt.Errorf("replay stopped after %d envelopes: %w", stats.Envelopes, err)
			}

			fmt.Printf("Replay:      %s (%s)\n", replayPath, r.Compression())
			fmt.Printf("Envelopes:   %d\n", stats.Envelopes)
			fmt.Printf("Frames:      %d\n", stats.Frames)
			fmt.Printf("Matches:     %d\n", stats.Matches)
			builds := recorder.Builds()
			fmt.Printf("Build orders: %d\n", len(builds))
			for _, b := range builds {
				fmt.Printf("  frame %-6d builder %-5d %-28s %s\n", b.Frame, b.Builder, b.Type, b.Tile)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&replayPath, "replay", "", "Recorded stream to play (default: replay.path)")
	cmd.Flags().StringVar(&mapPath, "map", "", "Map used when the stream does not name one (default: map.path)")

	return cmd
}
