package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/mapdata"
	"github.com/andrescamacho/rtsbot-go/internal/adapters/replay"
	"github.com/andrescamacho/rtsbot-go/internal/adapters/simlink"
	"github.com/andrescamacho/rtsbot-go/internal/adapters/wire"
	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/pidfile"
)

// NewPlayCommand creates the play command, which joins a live simulation
func NewPlayCommand() *cobra.Command {
	var (
		url        string
		mapPath    string
		recordPath string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a live match over the websocket bridge",
		Long: `Connect to a running simulation and play one match.

Every frame is acknowledged once the bot has handled it. The inbound stream
can be recorded for later offline runs; a .zst or .lz4 suffix compresses it.

Examples:
  rtsbot play
  rtsbot play --url ws://10.0.0.5:8765/bot --record match.jsonl.zst`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if url != "" {
				cfg.SimLink.URL = url
			}
			if mapPath == "" {
				mapPath = cfg.Map.Path
			}

			if cfg.SimLink.PIDFile != "" {
				lock := pidfile.New(cfg.SimLink.PIDFile)
				if err := lock.Acquire(); err != nil {
					return err
				}
				defer lock.Release()
			}

			rt, err := setup(cfg)
			if err != nil {
				return err
			}
			defer rt.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := simlink.NewClient(cfg.SimLink, rt.logger.Logger)
			if err := client.Connect(ctx); err != nil {
				return err
			}
			defer client.Close()

			if recordPath != "" {
				w, err := replay.Create(recordPath)
				if err != nil {
					return err
				}
				defer w.Close()
				client.Record(w)
			}

			session := wire.NewSession(client, mapdata.Load, mapPath, nil, rt.logger.Logger)
			session.SetLatencyCompensation(cfg.Bot.LatencyCompensation)
			orch := rt.orchestrator(session)

			stats, err := client.Serve(ctx, session, orch)
			if err != nil {
				return fmt.Errorf("match aborted at frame %d: %w", session.Frame(), err)
			}

			fmt.Printf("Frames:    %d\n", stats.Frames)
			fmt.Printf("Commands:  %d sent, %d dropped\n", session.Sent(), session.Dropped())
			if recordPath != "" {
				fmt.Printf("Recorded:  %s\n", recordPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Simulation websocket URL (default: simlink.url)")
	cmd.Flags().StringVar(&mapPath, "map", "", "Map used when the simulation does not name one (default: map.path)")
	cmd.Flags().StringVar(&recordPath, "record", "", "Record the inbound stream to this file")

	return cmd
}
