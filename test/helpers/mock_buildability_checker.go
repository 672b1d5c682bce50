package helpers

import (
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// MockBuildabilityChecker treats every tile as buildable except the
// blocked ones, or none at all when DenyAll is set
type MockBuildabilityChecker struct {
	Blocked map[shared.TilePosition]bool
	DenyAll bool
	Queries int
}

// NewMockBuildabilityChecker creates a checker that allows everything
func NewMockBuildabilityChecker() *MockBuildabilityChecker {
	return &MockBuildabilityChecker{Blocked: make(map[shared.TilePosition]bool)}
}

// Block marks tiles as obstructed
func (m *MockBuildabilityChecker) Block(tiles ...shared.TilePosition) {
	for _, t := range tiles {
		m.Blocked[t] = true
	}
}

// CanBuildHere implements the buildability predicate
func (m *MockBuildabilityChecker) CanBuildHere(tile shared.TilePosition, _ unit.TypeTag, _ unit.ID) bool {
	m.Queries++
	if m.DenyAll {
		return false
	}
	return !m.Blocked[tile]
}
