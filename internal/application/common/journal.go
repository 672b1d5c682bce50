package common

import "github.com/andrescamacho/rtsbot-go/internal/domain/shared"

// Journal levels
const (
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// MatchJournal records decision events of the running match. It is
// write-only: nothing recorded is read back by the bot.
type MatchJournal interface {
	BeginMatch(matchID, mapName, mapHash string)
	Log(frame shared.Frame, level, message string, metadata map[string]interface{})
	EndMatch(result string)
}

// NoOpJournal discards every entry (journal disabled)
type NoOpJournal struct{}

func (NoOpJournal) BeginMatch(string, string, string)                        {}
func (NoOpJournal) Log(shared.Frame, string, string, map[string]interface{}) {}
func (NoOpJournal) EndMatch(string)                                          {}

// JournalOrNoOp returns j, or a discarding journal when j is nil
func JournalOrNoOp(j MatchJournal) MatchJournal {
	if j == nil {
		return NoOpJournal{}
	}
	return j
}
