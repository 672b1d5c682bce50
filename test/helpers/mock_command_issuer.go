package helpers

import (
	"sync"

	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// BuildCall records one outbound build order
type BuildCall struct {
	Builder      unit.ID
	BuildingType unit.TypeTag
	Tile         shared.TilePosition
}

// MockCommandIssuer records build orders instead of sending them
type MockCommandIssuer struct {
	mu    sync.Mutex
	Calls []BuildCall
	// BuildErr, when set, is returned for every order
	BuildErr error
}

// NewMockCommandIssuer creates a new mock command issuer
func NewMockCommandIssuer() *MockCommandIssuer {
	return &MockCommandIssuer{}
}

// Build records the order
func (m *MockCommandIssuer) Build(builder unit.ID, buildingType unit.TypeTag, tile shared.TilePosition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BuildErr != nil {
		return m.BuildErr
	}
	m.Calls = append(m.Calls, BuildCall{Builder: builder, BuildingType: buildingType, Tile: tile})
	return nil
}

// CallCount returns the number of accepted orders
func (m *MockCommandIssuer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent accepted order
func (m *MockCommandIssuer) LastCall() (BuildCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return BuildCall{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}
