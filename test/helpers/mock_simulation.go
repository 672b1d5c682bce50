package helpers

import (
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// MockSimulation stands in for the external game. Build orders and
// buildability go through the embedded mocks.
type MockSimulation struct {
	*MockCommandIssuer
	*MockBuildabilityChecker

	Player  shared.PlayerID
	Start   shared.TilePosition
	Frames  int
	Pressed map[string]bool
	Texts   []string
}

// NewMockSimulation creates a simulation for SelfPlayer starting at MainStart
func NewMockSimulation() *MockSimulation {
	return &MockSimulation{
		MockCommandIssuer:       NewMockCommandIssuer(),
		MockBuildabilityChecker: NewMockBuildabilityChecker(),
		Player:                  SelfPlayer,
		Start:                   MainStart,
		Frames:                  2,
		Pressed:                 make(map[string]bool),
	}
}

func (m *MockSimulation) Self() shared.PlayerID              { return m.Player }
func (m *MockSimulation) StartLocation() shared.TilePosition { return m.Start }
func (m *MockSimulation) Latency() int                       { return m.Frames }
func (m *MockSimulation) KeyPressed(key string) bool         { return m.Pressed[key] }
func (m *MockSimulation) SendText(text string)               { m.Texts = append(m.Texts, text) }

// Press holds keys down
func (m *MockSimulation) Press(keys ...string) {
	for _, k := range keys {
		m.Pressed[k] = true
	}
}

// Release lets every key go
func (m *MockSimulation) Release() {
	m.Pressed = make(map[string]bool)
}

// Build satisfies CommandIssuer explicitly; both embedded mocks are exported
func (m *MockSimulation) Build(builder unit.ID, buildingType unit.TypeTag, tile shared.TilePosition) error {
	return m.MockCommandIssuer.Build(builder, buildingType, tile)
}

// CanBuildHere satisfies BuildabilityChecker
func (m *MockSimulation) CanBuildHere(tile shared.TilePosition, buildingType unit.TypeTag, builder unit.ID) bool {
	return m.MockBuildabilityChecker.CanBuildHere(tile, buildingType, builder)
}

// MockOverlay records drawn text
type MockOverlay struct {
	Lines []string
}

func (m *MockOverlay) DrawTextScreen(_, _ int, text string) {
	m.Lines = append(m.Lines, text)
}
