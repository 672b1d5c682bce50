package bot

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/metrics"
	"github.com/andrescamacho/rtsbot-go/internal/application/common"
	"github.com/andrescamacho/rtsbot-go/internal/application/strategy"
	domainConstruction "github.com/andrescamacho/rtsbot-go/internal/domain/construction"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/terrain"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// Options carries the optional collaborators of an Orchestrator
type Options struct {
	Catalog   *unit.TypeCatalog
	Overlay   Overlay
	Journal   common.MatchJournal
	Factories strategy.Factories
	Fatal     FatalHandler
	Clock     shared.Clock
	Logger    *zerolog.Logger
	// Verbosity switches logging between the configured level and trace
	Verbosity func(verbose bool)
}

// Orchestrator is the single cooperative tick that sequences the mirror,
// the scheduler and the pluggable policies. Every method must be called
// from the simulation's callback goroutine; nothing here is concurrent.
type Orchestrator struct {
	cfg       Config
	sim       Simulation
	catalog   *unit.TypeCatalog
	overlay   Overlay
	journal   common.MatchJournal
	factories strategy.Factories
	fatal     FatalHandler
	clock     shared.Clock
	verbosity func(bool)
	logger    zerolog.Logger

	match   *MatchContext
	started bool
	halted  bool
	frame   shared.Frame
	totals  Totals

	overlayOn   bool
	verbose     bool
	overlayHeld bool
	verboseHeld bool
	lastTick    float64
}

// NewOrchestrator creates an orchestrator bound to a simulation
func NewOrchestrator(cfg Config, sim Simulation, opts Options) *Orchestrator {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger = logger.With().Str("component", "orchestrator").Logger()

	o := &Orchestrator{
		cfg:       cfg.normalized(),
		sim:       sim,
		catalog:   opts.Catalog,
		overlay:   opts.Overlay,
		journal:   common.JournalOrNoOp(opts.Journal),
		factories: opts.Factories.WithDefaults(),
		fatal:     opts.Fatal,
		clock:     opts.Clock,
		verbosity: opts.Verbosity,
		logger:    logger,
	}
	if o.catalog == nil {
		o.catalog = unit.DefaultCatalog()
	}
	if o.overlay == nil {
		o.overlay = noOverlay{}
	}
	if o.clock == nil {
		o.clock = shared.NewRealClock()
	}
	if o.fatal == nil {
		o.fatal = func(err error) {
			o.logger.Fatal().Err(err).Msg("mirrored state diverged from the simulation")
		}
	}
	if o.verbosity == nil {
		o.verbosity = globalVerbosity()
	}
	return o
}

// OnStart analyzes the map and builds a fresh MatchContext. statics are
// the neutral resources present at frame 0.
func (o *Orchestrator) OnStart(data terrain.Data, mapHash string, statics []unit.Observation) error {
	graph := terrain.NewGraph(data)
	if err := graph.Analyze(); err != nil {
		return fmt.Errorf("failed to analyze map: %w", err)
	}

	o.match = newMatchContext(matchSpec{
		self:      o.sim.Self(),
		catalog:   o.catalog,
		graph:     graph,
		mapHash:   mapHash,
		sim:       o.sim,
		retry:     domainConstruction.NewRetryPolicy(o.cfg.MaxPlacementAttempts),
		journal:   o.journal,
		factories: o.factories,
		logger:    o.logger,
	})
	o.started = false
	o.halted = false
	o.frame = 0
	o.totals = Totals{}

	self := o.match.SelfInventory()
	for _, obs := range statics {
		if _, err := self.Register(obs, 0); err != nil {
			o.match = nil
			return fmt.Errorf("failed to register static resource: %w", err)
		}
	}

	ranking := graph.RankFrom(o.sim.StartLocation())
	if o.cfg.ScoutingEnabled {
		o.match.Scouting.Initialize()
	}

	o.logger.Info().
		Str("match", o.match.ID).
		Str("map", graph.Name()).
		Str("map_hash", mapHash).
		Int("latency_frames", o.sim.Latency()).
		Int("regions", len(graph.Regions())).
		Int("chokepoints", len(graph.Chokepoints())).
		Int("ranked_chokepoints", len(ranking)).
		Int("static_resources", self.Len()).
		Msg("match started")
	o.journal.BeginMatch(o.match.ID, graph.Name(), mapHash)
	o.journal.Log(0, common.LevelInfo, "match started", map[string]interface{}{
		"match":    o.match.ID,
		"map":      graph.Name(),
		"map_hash": mapHash,
	})
	return nil
}

// OnEnd reports the result and discards the match context
func (o *Orchestrator) OnEnd(won bool) {
	if o.match == nil {
		return
	}
	result := "LOSS"
	if won {
		result = "WIN"
	}
	o.match.Game.Stop(won)
	o.logger.Info().Str("match", o.match.ID).Str("result", result).Int("frame", int(o.frame)).Msg("match ended")
	o.journal.Log(o.frame, common.LevelInfo, "match ended", map[string]interface{}{
		"match":  o.match.ID,
		"result": result,
	})
	o.journal.EndMatch(result)
	o.match = nil
	o.started = false
}

// Tick advances the bot by one simulation frame
func (o *Orchestrator) Tick(frame shared.Frame, totals Totals) {
	if o.match == nil || o.halted {
		return
	}
	watch := shared.StartStopwatch(o.clock)
	o.frame = frame
	o.totals = totals

	cadence := frame.IsCadence(o.cfg.Cadence)
	if cadence {
		o.pollOperator()
	}

	if o.started && frame >= 1 {
		o.match.Mining.Tick(frame)

		if cadence {
			if o.cfg.ScoutingEnabled {
				o.match.Scouting.Tick(frame)
			}
			report := o.match.Scheduler.Run(totals.Minerals, totals.Gas, frame)
			budget := o.Budget()
			o.match.Game.Tick(frame, budget)

			if len(report.Started) > 0 || len(report.Failed) > 0 {
				o.logger.Debug().
					Int("frame", int(frame)).
					Int("started", len(report.Started)).
					Int("failed", len(report.Failed)).
					Int("deferred", report.Deferred).
					Msg("scheduling pass")
			}
			metrics.RecordBudget(o.match.Scheduler.Queued(), unit.Cost{
				Minerals: budget.Minerals,
				Gas:      budget.Gas,
				Supply:   budget.Supply,
			})
			for _, inv := range o.match.Inventories() {
				metrics.RecordInventory(inv.Player(), inv.Counts())
			}
		}
	}

	elapsed := watch.Elapsed()
	o.lastTick = elapsed.Seconds()
	if o.overlayOn {
		o.drawFrameInfo()
	}
	metrics.RecordTick(elapsed, cadence)
}

// Budget is what strategies may spend: authoritative totals minus queued
// reservations, recomputed from the latest tick's totals
func (o *Orchestrator) Budget() strategy.Budget {
	if o.match == nil {
		return strategy.Budget{}
	}
	return strategy.Budget{
		Minerals: o.totals.Minerals - o.match.Scheduler.QueuedMinerals(),
		Gas:      o.totals.Gas - o.match.Scheduler.QueuedGas(),
		Supply:   o.totals.SupplyTotal - o.totals.SupplyUsed,
	}
}

// Started reports whether the bootstrap gate has opened
func (o *Orchestrator) Started() bool { return o.started }

// Halted reports whether a fatal error stopped the bot
func (o *Orchestrator) Halted() bool { return o.halted }

// Match returns the running match, nil between matches
func (o *Orchestrator) Match() *MatchContext { return o.match }

// Frame returns the last ticked frame
func (o *Orchestrator) Frame() shared.Frame { return o.frame }

// OverlayEnabled reports the debug overlay toggle
func (o *Orchestrator) OverlayEnabled() bool { return o.overlayOn }

// Verbose reports the logging verbosity toggle
func (o *Orchestrator) Verbose() bool { return o.verbose }

// checkBootstrap opens the gate the first time exactly the configured number
// of workers and at least one townhall are complete
func (o *Orchestrator) checkBootstrap(frame shared.Frame) {
	if o.started {
		return
	}
	self := o.match.SelfInventory()
	workers := self.CountCompleted(unit.CategoryWorker)
	townhalls := self.CountCompleted(unit.CategoryTownhall)
	if workers != o.cfg.BootstrapWorkers || townhalls < 1 {
		return
	}

	for _, w := range self.Completed(unit.CategoryWorker) {
		if self.Role(w.ID) == unit.RoleNone {
			_ = self.SetRole(w.ID, unit.RoleMineral)
		}
	}
	o.match.Mining.Initialize(self.MineralWorkers(), self.MineralPatches())
	o.started = true
	o.match.Game.Start(o.Budget())

	o.logger.Info().
		Int("frame", int(frame)).
		Int("workers", workers).
		Int("townhalls", townhalls).
		Int("mineral_patches", len(self.MineralPatches())).
		Msg("bootstrap complete")
	o.journal.Log(frame, common.LevelInfo, "bootstrap complete", map[string]interface{}{
		"workers":   workers,
		"townhalls": townhalls,
	})
}

// escalate stops the bot on an unrecoverable mirror error
func (o *Orchestrator) escalate(err error) {
	o.halted = true
	o.journal.Log(o.frame, common.LevelError, "fatal", map[string]interface{}{"error": err.Error()})
	o.fatal(err)
}

func (o *Orchestrator) drawFrameInfo() {
	o.overlay.DrawTextScreen(10, 10, fmt.Sprintf("frame %d", o.frame))
	o.overlay.DrawTextScreen(10, 20, fmt.Sprintf("tick %.2fms", o.lastTick*1000))
	if o.match != nil {
		o.overlay.DrawTextScreen(10, 30, fmt.Sprintf("queued %dm %dg",
			o.match.Scheduler.QueuedMinerals(), o.match.Scheduler.QueuedGas()))
	}
}
