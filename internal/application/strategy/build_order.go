package strategy

import (
	"github.com/rs/zerolog"

	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// BuildOrder is a minimal game strategy: it enqueues a fixed list of
// buildings when the match bootstraps, earlier entries at higher priority.
// Everything else is left to the scheduler.
type BuildOrder struct {
	services Services
	order    []unit.TypeTag
	frame    shared.Frame
	enqueued []string
	logger   zerolog.Logger
}

// NewBuildOrderFactory returns a game factory for a fixed build order
func NewBuildOrderFactory(order []unit.TypeTag) func(Services) GameStrategy {
	return func(s Services) GameStrategy {
		return &BuildOrder{
			services: s,
			order:    append([]unit.TypeTag(nil), order...),
			logger:   s.Logger.With().Str("component", "build_order").Logger(),
		}
	}
}

func (b *BuildOrder) Start(budget Budget) {
	for i, tag := range b.order {
		req, err := b.services.Scheduler.Enqueue(tag, len(b.order)-i, b.frame)
		if err != nil {
			b.logger.Warn().Err(err).Str("type", string(tag)).Msg("skipping build order entry")
			continue
		}
		b.enqueued = append(b.enqueued, req.ID())
	}
	b.logger.Info().
		Int("entries", len(b.enqueued)).
		Int("minerals", budget.Minerals).
		Msg("build order queued")
}

func (b *BuildOrder) Tick(frame shared.Frame, _ Budget) {
	b.frame = frame
}

func (b *BuildOrder) Stop(won bool) {
	b.logger.Info().Bool("won", won).Int("entries", len(b.enqueued)).Msg("build order stopped")
}

// Enqueued returns the request ids this strategy created
func (b *BuildOrder) Enqueued() []string {
	return append([]string(nil), b.enqueued...)
}
