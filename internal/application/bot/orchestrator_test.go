package bot_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rtsbot-go/internal/application/bot"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/terrain"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
	"github.com/andrescamacho/rtsbot-go/test/helpers"
)

const (
	commandCenter unit.ID = 100
	geyser        unit.ID = 600
)

type harness struct {
	orch       *bot.Orchestrator
	sim        *helpers.MockSimulation
	strategies *helpers.MockStrategies
	overlay    *helpers.MockOverlay
	journal    *helpers.MockMatchJournal
	clock      *shared.MockClock
	fatal      []error
	verbosity  []bool
}

func statics() []unit.Observation {
	return []unit.Observation{
		helpers.Neutral(501, unit.MineralField, 4, 2),
		helpers.Neutral(502, unit.MineralField, 5, 2),
		helpers.Neutral(503, unit.MineralField, 6, 2),
		helpers.Neutral(504, unit.MineralField, 7, 2),
		helpers.Neutral(geyser, unit.VespeneGeyser, 12, 4),
	}
}

func newHarness(t *testing.T, cfg bot.Config) *harness {
	t.Helper()
	h := &harness{
		sim:        helpers.NewMockSimulation(),
		strategies: helpers.NewMockStrategies(),
		overlay:    &helpers.MockOverlay{},
		journal:    helpers.NewMockMatchJournal(),
		clock:      shared.NewMockClock(shared.NewRealClock().Now()),
	}
	logger := zerolog.Nop()
	h.orch = bot.NewOrchestrator(cfg, h.sim, bot.Options{
		Overlay:   h.overlay,
		Journal:   h.journal,
		Factories: h.strategies.Factories(),
		Fatal:     func(err error) { h.fatal = append(h.fatal, err) },
		Clock:     h.clock,
		Logger:    &logger,
		Verbosity: func(v bool) { h.verbosity = append(h.verbosity, v) },
	})
	require.NoError(t, h.orch.OnStart(helpers.TwoBaseMap(), "hash", statics()))
	require.Equal(t, "two-base", h.journal.MapName)
	return h
}

func (h *harness) completeTownhall(frame shared.Frame) {
	h.orch.OnUnitCompleted(helpers.Observed(commandCenter, unit.TerranCommandCenter, 8, 8), frame)
}

func (h *harness) completeWorker(id unit.ID, frame shared.Frame) {
	h.orch.OnUnitCompleted(helpers.Observed(id, unit.TerranSCV, 10, 10), frame)
}

func (h *harness) bootstrap(t *testing.T) {
	t.Helper()
	h.completeTownhall(1)
	for id := unit.ID(1); id <= 4; id++ {
		h.completeWorker(id, 1)
	}
	require.True(t, h.orch.Started())
}

func TestOrchestrator_BootstrapGateOpensOnFourthWorker(t *testing.T) {
	// Arrange
	h := newHarness(t, bot.DefaultConfig())
	h.completeTownhall(1)
	h.completeWorker(1, 2)
	h.completeWorker(2, 2)
	h.completeWorker(3, 3)

	// Assert: three workers and a townhall are not enough
	assert.False(t, h.orch.Started())
	assert.Zero(t, h.strategies.Mining.Initialized)

	// Act
	h.completeWorker(4, 4)

	// Assert
	assert.True(t, h.orch.Started())
	assert.Equal(t, 1, h.strategies.Mining.Initialized)
	assert.Equal(t, []unit.ID{1, 2, 3, 4}, h.strategies.Mining.Workers)
	assert.Equal(t, []unit.ID{501, 502, 503, 504}, h.strategies.Mining.Patches)
	assert.Equal(t, 1, h.strategies.Game.Started)
	assert.Len(t, h.journal.Messages("bootstrap complete"), 1)

	// the gate stays open and initialization never repeats
	h.completeWorker(5, 6)
	assert.True(t, h.orch.Started())
	assert.Equal(t, 1, h.strategies.Mining.Initialized)
}

func TestOrchestrator_BootstrapNeedsTownhall(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	for id := unit.ID(1); id <= 4; id++ {
		h.completeWorker(id, 1)
	}
	assert.False(t, h.orch.Started())

	h.completeTownhall(2)
	assert.True(t, h.orch.Started())
}

func TestOrchestrator_BootstrapNeedsExactWorkerCount(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	for id := unit.ID(1); id <= 5; id++ {
		h.completeWorker(id, 1)
	}

	h.completeTownhall(2)

	assert.False(t, h.orch.Started())
}

func TestOrchestrator_UncompletedUnitsDoNotCount(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	h.completeTownhall(1)
	for id := unit.ID(1); id <= 3; id++ {
		h.completeWorker(id, 1)
	}
	h.orch.OnUnitDiscovered(helpers.Observed(4, unit.TerranSCV, 10, 10), 2)
	h.orch.OnUnitMorphed(helpers.Pending(4, unit.TerranSCV, 10, 10), 2)

	assert.False(t, h.orch.Started())
}

func TestOrchestrator_PoliciesWaitForBootstrap(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())

	for f := shared.Frame(1); f <= 10; f++ {
		h.orch.Tick(f, bot.Totals{Minerals: 50})
	}

	assert.Zero(t, h.strategies.Mining.Ticks)
	assert.Empty(t, h.strategies.Game.Frames)
	assert.Empty(t, h.strategies.Scouting.Frames)
}

func TestOrchestrator_Cadence(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	h.bootstrap(t)

	for f := shared.Frame(1); f <= 12; f++ {
		h.orch.Tick(f, bot.Totals{Minerals: 50})
	}

	assert.Equal(t, 12, h.strategies.Mining.Ticks)
	assert.Equal(t, []shared.Frame{5, 10}, h.strategies.Game.Frames)
	assert.Equal(t, []shared.Frame{5, 10}, h.strategies.Scouting.Frames)
	assert.Equal(t, 1, h.strategies.Scouting.Initialized)
}

func TestOrchestrator_ScoutingDisabled(t *testing.T) {
	cfg := bot.DefaultConfig()
	cfg.ScoutingEnabled = false
	h := newHarness(t, cfg)
	h.bootstrap(t)

	for f := shared.Frame(1); f <= 10; f++ {
		h.orch.Tick(f, bot.Totals{})
	}

	assert.Zero(t, h.strategies.Scouting.Initialized)
	assert.Empty(t, h.strategies.Scouting.Frames)
}

func TestOrchestrator_ForwardsAvailability(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	h.bootstrap(t)
	scheduler := h.strategies.Game.Services.Scheduler
	_, err := scheduler.Enqueue(unit.TerranBarracks, 1, 1)
	require.NoError(t, err)

	h.orch.Tick(5, bot.Totals{Minerals: 500, Gas: 20, SupplyUsed: 8, SupplyTotal: 10})

	require.Len(t, h.strategies.Game.Budgets, 1)
	assert.Equal(t, 350, h.strategies.Game.Budgets[0].Minerals)
	assert.Equal(t, 20, h.strategies.Game.Budgets[0].Gas)
	assert.Equal(t, 2, h.strategies.Game.Budgets[0].Supply)
	assert.Equal(t, 1, h.sim.CallCount())
}

func TestOrchestrator_ConstructionLifecycleThroughEvents(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	h.bootstrap(t)
	scheduler := h.strategies.Game.Services.Scheduler
	req, err := scheduler.Enqueue(unit.TerranBarracks, 1, 1)
	require.NoError(t, err)
	h.orch.Tick(5, bot.Totals{Minerals: 150})
	require.True(t, req.IsStarted())

	placed := helpers.Pending(700, unit.TerranBarracks, req.Tile().X, req.Tile().Y)
	placed.BuildUnit = req.Builder()
	h.orch.OnUnitCreated(placed, 7)

	assert.True(t, req.IsPlaced())
	self := h.orch.Match().SelfInventory()
	assert.Len(t, self.GenericBuildings(), 1)
	assert.Empty(t, self.Completed(unit.CategoryGenericBuilding))

	h.orch.OnUnitCompleted(placed, 300)

	assert.Equal(t, shared.LifecycleStatusComplete, req.Status())
	assert.Zero(t, scheduler.QueuedMinerals())
}

func TestOrchestrator_BuilderDeathReleasesReservation(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	h.bootstrap(t)
	scheduler := h.strategies.Game.Services.Scheduler
	req, err := scheduler.Enqueue(unit.TerranBarracks, 1, 1)
	require.NoError(t, err)
	h.orch.Tick(5, bot.Totals{Minerals: 150})
	require.True(t, req.IsStarted())

	h.orch.OnUnitDestroyed(helpers.Observed(req.Builder(), unit.TerranSCV, 10, 10), 6)

	assert.Equal(t, shared.LifecycleStatusFailed, req.Status())
	assert.Zero(t, scheduler.QueuedMinerals())
}

func TestOrchestrator_OperatorToggles(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())

	h.sim.Press("CONTROL", "T")
	h.orch.Tick(5, bot.Totals{})
	assert.True(t, h.orch.OverlayEnabled())

	// holding the chord does not flip it back
	h.orch.Tick(10, bot.Totals{})
	assert.True(t, h.orch.OverlayEnabled())

	// keys are only polled on the cadence
	h.sim.Release()
	h.orch.Tick(11, bot.Totals{})
	h.sim.Press("CONTROL", "T")
	h.orch.Tick(12, bot.Totals{})
	assert.True(t, h.orch.OverlayEnabled())

	h.sim.Release()
	h.orch.Tick(15, bot.Totals{})
	h.sim.Press("CONTROL", "T")
	h.orch.Tick(20, bot.Totals{})
	assert.False(t, h.orch.OverlayEnabled())

	h.sim.Release()
	h.sim.Press("CONTROL", "R")
	h.orch.Tick(25, bot.Totals{})
	assert.True(t, h.orch.Verbose())
	assert.Equal(t, []bool{true}, h.verbosity)
	assert.Contains(t, h.sim.Texts, "debug overlay on")
	assert.Contains(t, h.sim.Texts, "verbose logging on")
}

func TestOrchestrator_OverlayDrawsFrameInfo(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	h.orch.Tick(3, bot.Totals{})
	assert.Empty(t, h.overlay.Lines)

	h.sim.Press("CONTROL", "T")
	h.clock.Step = 3 * time.Millisecond
	h.orch.Tick(5, bot.Totals{})

	assert.Contains(t, h.overlay.Lines, "frame 5")
	assert.Contains(t, h.overlay.Lines, "tick 3.00ms")
}

func TestOrchestrator_UnknownTypeIsFatal(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	h.bootstrap(t)

	h.orch.OnUnitCompleted(helpers.Observed(900, "Alien_Mothership", 1, 1), 9)

	require.Len(t, h.fatal, 1)
	var unknown *shared.UnknownUnitTypeError
	assert.True(t, errors.As(h.fatal[0], &unknown))
	assert.True(t, h.orch.Halted())

	ticks := h.strategies.Mining.Ticks
	h.orch.Tick(10, bot.Totals{})
	assert.Equal(t, ticks, h.strategies.Mining.Ticks)
}

func TestOrchestrator_GeyserRefineryMorphs(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	self := h.orch.Match().SelfInventory()
	require.Len(t, self.Geysers(), 1)

	refinery := helpers.Pending(geyser, unit.TerranRefinery, 12, 4)
	h.orch.OnUnitMorphed(refinery, 40)

	assert.Empty(t, self.Geysers())
	require.Len(t, self.Refineries(), 1)
	require.NoError(t, self.CheckConsistency())

	back := helpers.Neutral(geyser, unit.VespeneGeyser, 12, 4)
	h.orch.OnUnitMorphed(back, 90)

	assert.Empty(t, self.Refineries())
	require.Len(t, self.Geysers(), 1)
	assert.Equal(t, shared.Frame(90), self.Geysers()[0].SpottedFrame)
}

func TestOrchestrator_InPlaceMorphKeepsSpottedFrame(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	h.orch.OnUnitCreated(helpers.Pending(300, unit.ZergHatchery, 40, 8), 10)

	h.orch.OnUnitMorphed(helpers.Observed(300, "Zerg_Lair", 40, 8), 500)

	u, ok := h.orch.Match().SelfInventory().Get(300)
	require.True(t, ok)
	assert.Equal(t, unit.TypeTag("Zerg_Lair"), u.Type)
	assert.Equal(t, shared.Frame(10), u.SpottedFrame)
}

func TestOrchestrator_DroneMorphPlacesAndCompletesConstruction(t *testing.T) {
	// Arrange
	h := newHarness(t, bot.DefaultConfig())
	h.bootstrap(t)
	const drone unit.ID = 9
	h.orch.OnUnitCompleted(helpers.Observed(drone, unit.ZergDrone, 40, 8), 2)
	scheduler := h.strategies.Game.Services.Scheduler
	req, err := scheduler.Enqueue(unit.ZergHatchery, 1, 3)
	require.NoError(t, err)
	require.NoError(t, scheduler.PinBuilder(req.ID(), drone))

	// Act
	h.orch.OnUnitMorphed(helpers.Pending(drone, unit.ZergHatchery, 40, 8), 20)

	// Assert
	require.True(t, req.IsPlaced())
	assert.Equal(t, drone, req.Building())
	self := h.orch.Match().SelfInventory()
	u, ok := self.Get(drone)
	require.True(t, ok)
	assert.Equal(t, unit.CategoryTownhall, u.Category)
	assert.Equal(t, 300, scheduler.QueuedMinerals())

	// Act
	h.orch.OnUnitCompleted(helpers.Observed(drone, unit.ZergHatchery, 40, 8), 400)

	// Assert
	assert.Equal(t, shared.LifecycleStatusComplete, req.Status())
	assert.Zero(t, scheduler.QueuedMinerals())
	require.NoError(t, self.CheckConsistency())
}

func TestOrchestrator_CompletedIgnoresOtherPlayers(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	enemyBarracks := helpers.Observed(810, unit.TerranBarracks, 60, 10)
	enemyBarracks.Owner = helpers.EnemyPlayer

	h.orch.OnUnitCompleted(enemyBarracks, 5)
	h.orch.OnUnitCompleted(helpers.Neutral(505, unit.MineralField, 8, 2), 5)

	match := h.orch.Match()
	assert.Empty(t, match.Inventory(helpers.EnemyPlayer).GenericBuildings())
	assert.Len(t, match.SelfInventory().MineralPatches(), 5, "neutral completions land in our mirror")
}

func TestOrchestrator_DestroyedUnknownTypeIsFatal(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())

	h.orch.OnUnitDestroyed(helpers.Observed(901, "Alien_Mothership", 1, 1), 9)

	require.Len(t, h.fatal, 1)
	var unknown *shared.UnknownUnitTypeError
	assert.True(t, errors.As(h.fatal[0], &unknown))
	assert.True(t, h.orch.Halted())
}

func TestOrchestrator_DiscoveryRouting(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	enemyMarine := helpers.Observed(800, "Terran_Marine", 50, 10)
	enemyMarine.Owner = helpers.EnemyPlayer

	h.orch.OnUnitDiscovered(helpers.Observed(1, unit.TerranSCV, 10, 10), 2)
	h.orch.OnUnitDiscovered(enemyMarine, 2)

	match := h.orch.Match()
	_, ownKnown := match.SelfInventory().Get(1)
	assert.False(t, ownKnown, "own units are mirrored from created/completed events")
	assert.Len(t, match.Inventory(helpers.EnemyPlayer).MobileUnits(), 1)

	h.orch.OnUnitDestroyed(enemyMarine, 20)
	assert.Empty(t, match.Inventory(helpers.EnemyPlayer).MobileUnits())
}

func TestOrchestrator_CreatedIgnoresNonBuildings(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())

	h.orch.OnUnitCreated(helpers.Pending(5, unit.TerranSCV, 10, 10), 3)

	_, ok := h.orch.Match().SelfInventory().Get(5)
	assert.False(t, ok)
}

func TestOrchestrator_MineralDepletionAndDesync(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	self := h.orch.Match().SelfInventory()

	h.orch.OnUnitDestroyed(helpers.Neutral(501, unit.MineralField, 4, 2), 100)
	h.orch.OnUnitDestroyed(helpers.Neutral(501, unit.MineralField, 4, 2), 101)
	h.orch.OnUnitDestroyed(helpers.Observed(4242, unit.TerranSCV, 0, 0), 102)

	assert.Len(t, self.MineralPatches(), 3)
	assert.Equal(t, 2, self.Desyncs())
	assert.Empty(t, h.fatal)
}

func TestOrchestrator_OnEndDiscardsMatch(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	h.bootstrap(t)

	h.orch.OnEnd(true)

	assert.Nil(t, h.orch.Match())
	assert.False(t, h.orch.Started())
	assert.True(t, h.strategies.Game.Stopped)
	assert.True(t, h.strategies.Game.Won)
	assert.Len(t, h.journal.Messages("match ended"), 1)
	assert.Equal(t, "WIN", h.journal.Result)

	// events between matches are ignored
	h.completeWorker(9, 10)
	h.orch.Tick(10, bot.Totals{})
}

func TestOrchestrator_OnStartRejectsBrokenMap(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())
	broken := helpers.TwoBaseMap()
	broken.Chokepoints = append(broken.Chokepoints, terrain.ChokepointSpec{ID: 2, Regions: [2]int{1, 9}})

	err := h.orch.OnStart(broken, "", nil)

	var te *shared.TerrainError
	assert.True(t, errors.As(err, &te))
}

func TestOrchestrator_OnStartRejectsUnknownStatic(t *testing.T) {
	h := newHarness(t, bot.DefaultConfig())

	err := h.orch.OnStart(helpers.TwoBaseMap(), "", []unit.Observation{helpers.Neutral(1, "Resource_Unobtainium", 0, 0)})

	assert.Error(t, err)
	assert.Nil(t, h.orch.Match())
}
