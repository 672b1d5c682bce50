package helpers

import (
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
)

// JournalEntry is one in-memory journal line
type JournalEntry struct {
	Frame    shared.Frame
	Level    string
	Message  string
	Metadata map[string]interface{}
}

// MockMatchJournal is an in-memory implementation of MatchJournal for testing
type MockMatchJournal struct {
	MatchID string
	MapName string
	Result  string
	Entries []JournalEntry
}

// BeginMatch remembers the match being journaled
func (m *MockMatchJournal) BeginMatch(matchID, mapName, _ string) {
	m.MatchID = matchID
	m.MapName = mapName
}

// EndMatch remembers the result
func (m *MockMatchJournal) EndMatch(result string) {
	m.Result = result
}

// NewMockMatchJournal creates a new mock journal
func NewMockMatchJournal() *MockMatchJournal {
	return &MockMatchJournal{}
}

// Log appends an entry
func (m *MockMatchJournal) Log(frame shared.Frame, level, message string, metadata map[string]interface{}) {
	m.Entries = append(m.Entries, JournalEntry{Frame: frame, Level: level, Message: message, Metadata: metadata})
}

// Messages returns every logged message with the given text
func (m *MockMatchJournal) Messages(message string) []JournalEntry {
	var out []JournalEntry
	for _, e := range m.Entries {
		if e.Message == message {
			out = append(out, e)
		}
	}
	return out
}
