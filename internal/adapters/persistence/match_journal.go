package persistence

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/andrescamacho/rtsbot-go/internal/application/common"

	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
)

// journalFlushSize is how many entries are buffered before a batch insert
const journalFlushSize = 64

var _ common.MatchJournal = (*MatchJournal)(nil)

// MatchJournal adapts a MatchLogRepository to the bot's journal port.
// Entries are buffered and written in batches so the per-frame path never
// waits on more than one insert; errors are logged, never returned.
type MatchJournal struct {
	repo    MatchLogRepository
	clock   shared.Clock
	logger  zerolog.Logger
	timeout time.Duration

	matchID string
	buffer  []MatchLogEntry
}

// NewMatchJournal creates a journal writing through repo
func NewMatchJournal(repo MatchLogRepository, clock shared.Clock, logger zerolog.Logger) *MatchJournal {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &MatchJournal{
		repo:    repo,
		clock:   clock,
		logger:  logger.With().Str("component", "journal").Logger(),
		timeout: 2 * time.Second,
	}
}

func (j *MatchJournal) BeginMatch(matchID, mapName, mapHash string) {
	j.Flush()
	j.matchID = matchID
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	if err := j.repo.BeginMatch(ctx, matchID, mapName, mapHash); err != nil {
		j.logger.Error().Err(err).Str("match", matchID).Msg("failed to record match")
	}
}

func (j *MatchJournal) Log(frame shared.Frame, level, message string, metadata map[string]interface{}) {
	if j.matchID == "" {
		return
	}
	j.buffer = append(j.buffer, MatchLogEntry{
		MatchID:   j.matchID,
		Frame:     int(frame),
		Timestamp: j.clock.Now(),
		Level:     level,
		Message:   message,
		Metadata:  metadata,
	})
	if len(j.buffer) >= journalFlushSize {
		j.Flush()
	}
}

func (j *MatchJournal) EndMatch(result string) {
	j.Flush()
	if j.matchID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	if err := j.repo.EndMatch(ctx, j.matchID, result); err != nil {
		j.logger.Error().Err(err).Str("match", j.matchID).Msg("failed to record match result")
	}
	j.matchID = ""
}

// Flush writes buffered entries
func (j *MatchJournal) Flush() {
	if len(j.buffer) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	if err := j.repo.Log(ctx, j.buffer...); err != nil {
		j.logger.Error().Err(err).Int("entries", len(j.buffer)).Msg("failed to write journal")
	}
	j.buffer = j.buffer[:0]
}
