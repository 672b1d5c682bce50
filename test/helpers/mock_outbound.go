package helpers

import (
	"sync"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/wire"
)

// MockOutbound records commands sent to the simulation
type MockOutbound struct {
	mu       sync.Mutex
	Commands []wire.Command
	Err      error
}

func (m *MockOutbound) Send(cmd wire.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Commands = append(m.Commands, cmd)
	return nil
}

// OfKind returns the recorded commands of one kind
func (m *MockOutbound) OfKind(kind wire.CommandKind) []wire.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []wire.Command
	for _, c := range m.Commands {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
