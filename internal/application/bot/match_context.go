package bot

import (
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/andrescamacho/rtsbot-go/internal/application/common"
	"github.com/andrescamacho/rtsbot-go/internal/application/construction"
	"github.com/andrescamacho/rtsbot-go/internal/application/strategy"
	domainConstruction "github.com/andrescamacho/rtsbot-go/internal/domain/construction"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/terrain"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// MatchContext owns every registry and component of one match. It is built
// in OnStart and dropped in OnEnd; nothing in it survives into the next match.
type MatchContext struct {
	ID      string
	Self    shared.PlayerID
	MapName string
	MapHash string

	Catalog     *unit.TypeCatalog
	Terrain     *terrain.Graph
	Placement   *domainConstruction.PlacementRegistry
	Scheduler   *construction.Scheduler
	inventories map[shared.PlayerID]*unit.Inventory

	Mining   strategy.MiningStrategy
	Scouting strategy.ScoutingStrategy
	Game     strategy.GameStrategy

	logger zerolog.Logger
}

type matchSpec struct {
	self      shared.PlayerID
	catalog   *unit.TypeCatalog
	graph     *terrain.Graph
	mapHash   string
	sim       Simulation
	retry     domainConstruction.RetryPolicy
	journal   common.MatchJournal
	factories strategy.Factories
	logger    zerolog.Logger
}

func newMatchContext(spec matchSpec) *MatchContext {
	m := &MatchContext{
		ID:          uuid.New().String(),
		Self:        spec.self,
		MapName:     spec.graph.Name(),
		MapHash:     spec.mapHash,
		Catalog:     spec.catalog,
		Terrain:     spec.graph,
		inventories: make(map[shared.PlayerID]*unit.Inventory),
		logger:      spec.logger,
	}
	self := m.Inventory(spec.self)

	m.Placement = domainConstruction.NewDefaultPlacementRegistry(spec.catalog, spec.graph, spec.sim)
	m.Scheduler = construction.NewScheduler(spec.catalog, self, m.Placement, spec.sim, spec.retry, spec.journal, spec.logger)

	services := strategy.Services{
		Self:      self,
		Inventory: m.Inventory,
		Terrain:   spec.graph,
		Scheduler: m.Scheduler,
		Logger:    spec.logger,
	}
	factories := spec.factories.WithDefaults()
	m.Mining = factories.Mining(services)
	m.Scouting = factories.Scouting(services)
	m.Game = factories.Game(services)
	return m
}

// Inventory returns the mirror for a player, creating it on first use.
// Neutral units are mirrored into our own inventory.
func (m *MatchContext) Inventory(player shared.PlayerID) *unit.Inventory {
	if player.IsNeutral() {
		player = m.Self
	}
	inv, ok := m.inventories[player]
	if !ok {
		inv = unit.NewInventory(player, m.Catalog, m.logger)
		m.inventories[player] = inv
	}
	return inv
}

// SelfInventory is our own mirror
func (m *MatchContext) SelfInventory() *unit.Inventory {
	return m.Inventory(m.Self)
}

// Inventories returns every mirror created so far, ordered by player
func (m *MatchContext) Inventories() []*unit.Inventory {
	out := make([]*unit.Inventory, 0, len(m.inventories))
	for _, inv := range m.inventories {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Player().Value() < out[j].Player().Value()
	})
	return out
}
