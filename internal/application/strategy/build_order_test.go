package strategy_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rtsbot-go/internal/application/construction"
	"github.com/andrescamacho/rtsbot-go/internal/application/strategy"
	domainConstruction "github.com/andrescamacho/rtsbot-go/internal/domain/construction"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
	"github.com/andrescamacho/rtsbot-go/test/helpers"
)

func newServices() strategy.Services {
	catalog := unit.DefaultCatalog()
	inventory := unit.NewInventory(helpers.SelfPlayer, catalog, zerolog.Nop())
	registry := domainConstruction.NewPlacementRegistry(
		domainConstruction.NewSpiralPlacement(helpers.NewMockBuildabilityChecker(), 1, 4),
	)
	scheduler := construction.NewScheduler(
		catalog, inventory, registry, helpers.NewMockCommandIssuer(),
		domainConstruction.NewRetryPolicy(0), nil, zerolog.Nop(),
	)
	return strategy.Services{Self: inventory, Scheduler: scheduler, Logger: zerolog.Nop()}
}

func TestBuildOrder_EnqueuesInPriorityOrder(t *testing.T) {
	// Arrange
	services := newServices()
	factory := strategy.NewBuildOrderFactory([]unit.TypeTag{
		unit.TerranSupplyDepot,
		unit.TerranBarracks,
		"Not_A_Building",
	})
	game := factory(services)

	// Act
	game.Start(strategy.Budget{Minerals: 50})

	// Assert
	requests := services.Scheduler.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, unit.TerranSupplyDepot, requests[0].BuildingType())
	assert.Equal(t, unit.TerranBarracks, requests[1].BuildingType())
	assert.Greater(t, requests[0].Priority(), requests[1].Priority())
	assert.Equal(t, 250, services.Scheduler.QueuedMinerals())
	assert.Len(t, game.(*strategy.BuildOrder).Enqueued(), 2)
}

func TestDefaultFactories_AreNoops(t *testing.T) {
	factories := strategy.DefaultFactories()
	services := newServices()

	assert.NotPanics(t, func() {
		factories.Mining(services).Initialize(nil, nil)
		factories.Scouting(services).Tick(5)
		g := factories.Game(services)
		g.Start(strategy.Budget{})
		g.Tick(5, strategy.Budget{})
		g.Stop(false)
	})
}
