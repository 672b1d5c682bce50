package helpers

import (
	"github.com/andrescamacho/rtsbot-go/internal/application/strategy"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// MockMining records initialization and ticks
type MockMining struct {
	Initialized int
	Workers     []unit.ID
	Patches     []unit.ID
	Ticks       int
}

func (m *MockMining) Initialize(workers, patches []*unit.Unit) {
	m.Initialized++
	m.Workers = ids(workers)
	m.Patches = ids(patches)
}

func (m *MockMining) Tick(shared.Frame) { m.Ticks++ }

// MockScouting counts calls
type MockScouting struct {
	Initialized int
	Frames      []shared.Frame
}

func (m *MockScouting) Initialize()             { m.Initialized++ }
func (m *MockScouting) Tick(frame shared.Frame) { m.Frames = append(m.Frames, frame) }

// MockGame records budgets handed to the game strategy
type MockGame struct {
	Services strategy.Services
	Started  int
	Initial  strategy.Budget
	Budgets  []strategy.Budget
	Frames   []shared.Frame
	Stopped  bool
	Won      bool
}

func (m *MockGame) Start(budget strategy.Budget) {
	m.Started++
	m.Initial = budget
}

func (m *MockGame) Tick(frame shared.Frame, budget strategy.Budget) {
	m.Frames = append(m.Frames, frame)
	m.Budgets = append(m.Budgets, budget)
}

func (m *MockGame) Stop(won bool) {
	m.Stopped = true
	m.Won = won
}

// MockStrategies bundles one mock of each policy kind
type MockStrategies struct {
	Mining   *MockMining
	Scouting *MockScouting
	Game     *MockGame
}

// NewMockStrategies creates fresh mocks
func NewMockStrategies() *MockStrategies {
	return &MockStrategies{
		Mining:   &MockMining{},
		Scouting: &MockScouting{},
		Game:     &MockGame{},
	}
}

// Factories returns factories that always hand out these mocks
func (m *MockStrategies) Factories() strategy.Factories {
	return strategy.Factories{
		Mining:   func(strategy.Services) strategy.MiningStrategy { return m.Mining },
		Scouting: func(strategy.Services) strategy.ScoutingStrategy { return m.Scouting },
		Game: func(s strategy.Services) strategy.GameStrategy {
			m.Game.Services = s
			return m.Game
		},
	}
}

func ids(units []*unit.Unit) []unit.ID {
	out := make([]unit.ID, 0, len(units))
	for _, u := range units {
		out = append(out, u.ID)
	}
	return out
}
