package replay

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/wire"
)

// Recorder is the outbound side of a replay: commands go nowhere but are
// kept for the run summary
type Recorder struct {
	Commands []wire.Command
	logger   zerolog.Logger
}

// NewRecorder creates a recorder that traces every command
func NewRecorder(logger zerolog.Logger) *Recorder {
	return &Recorder{logger: logger.With().Str("component", "replay").Logger()}
}

func (r *Recorder) Send(cmd wire.Command) error {
	r.Commands = append(r.Commands, cmd)
	e := r.logger.Debug().Str("kind", string(cmd.Kind)).Int("frame", cmd.Frame)
	if cmd.Kind == wire.CommandBuild {
		e = e.Int("builder", cmd.Builder).Str("type", cmd.Type).Interface("tile", cmd.Tile)
	}
	e.Msg("command")
	return nil
}

// Builds returns the recorded build orders
func (r *Recorder) Builds() []wire.Command {
	var out []wire.Command
	for _, c := range r.Commands {
		if c.Kind == wire.CommandBuild {
			out = append(out, c)
		}
	}
	return out
}

// Stats summarizes a replay run
type Stats struct {
	Envelopes int
	Frames    int
	Matches   int
}

// Source yields envelopes until io.EOF
type Source interface {
	Next() (wire.Envelope, error)
}

// Run feeds every envelope of src through session into h. It stops at the
// end of the stream, on the first error, or when ctx is cancelled.
func Run(ctx context.Context, src Source, session *wire.Session, h wire.Handler) (Stats, error) {
	var stats Stats
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		env, err := src.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}
		if err := session.Apply(h, env); err != nil {
			return stats, fmt.Errorf("frame %d: %w", env.Frame, err)
		}
		stats.Envelopes++
		switch env.Kind {
		case wire.KindFrame:
			stats.Frames++
		case wire.KindEnd:
			stats.Matches++
		}
	}
}
