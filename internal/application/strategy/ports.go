package strategy

import (
	"github.com/rs/zerolog"

	"github.com/andrescamacho/rtsbot-go/internal/application/construction"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/terrain"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// Budget is what strategies may still spend this frame: authoritative
// totals minus everything the scheduler has reserved
type Budget struct {
	Minerals int
	Gas      int
	Supply   int
}

// Services is the read-mostly query surface handed to pluggable policies.
// Only the scheduler accepts writes, through Enqueue and Cancel.
type Services struct {
	Self      *unit.Inventory
	Inventory func(player shared.PlayerID) *unit.Inventory
	Terrain   *terrain.Graph
	Scheduler *construction.Scheduler
	Logger    zerolog.Logger
}

// MiningStrategy keeps workers gathering. It is ticked every frame once
// the match has bootstrapped.
type MiningStrategy interface {
	Initialize(workers, patches []*unit.Unit)
	Tick(frame shared.Frame)
}

// ScoutingStrategy explores the map on the scheduling cadence
type ScoutingStrategy interface {
	Initialize()
	Tick(frame shared.Frame)
}

// GameStrategy makes the high level spending decisions
type GameStrategy interface {
	Start(budget Budget)
	Tick(frame shared.Frame, budget Budget)
	Stop(won bool)
}

// Factories build one policy of each kind per match
type Factories struct {
	Mining   func(Services) MiningStrategy
	Scouting func(Services) ScoutingStrategy
	Game     func(Services) GameStrategy
}

// DefaultFactories returns factories producing policies that do nothing
func DefaultFactories() Factories {
	return Factories{}.WithDefaults()
}

// WithDefaults fills every missing factory with its no-op counterpart
func (f Factories) WithDefaults() Factories {
	if f.Mining == nil {
		f.Mining = func(Services) MiningStrategy { return NoopMining{} }
	}
	if f.Scouting == nil {
		f.Scouting = func(Services) ScoutingStrategy { return NoopScouting{} }
	}
	if f.Game == nil {
		f.Game = func(Services) GameStrategy { return NoopGame{} }
	}
	return f
}

type NoopMining struct{}

func (NoopMining) Initialize([]*unit.Unit, []*unit.Unit) {}
func (NoopMining) Tick(shared.Frame)                     {}

type NoopScouting struct{}

func (NoopScouting) Initialize()       {}
func (NoopScouting) Tick(shared.Frame) {}

type NoopGame struct{}

func (NoopGame) Start(Budget)              {}
func (NoopGame) Tick(shared.Frame, Budget) {}
func (NoopGame) Stop(bool)                 {}
