package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
	"github.com/rs/zerolog"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/rtsbot-go/internal/adapters/wire"
	"github.com/andrescamacho/rtsbot-go/internal/application/bot"
	"github.com/andrescamacho/rtsbot-go/internal/application/common"
	"github.com/andrescamacho/rtsbot-go/internal/application/strategy"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
	"github.com/andrescamacho/rtsbot-go/test/helpers"
)

type matchContext struct {
	out     *helpers.MockOutbound
	session *wire.Session
	orch    *bot.Orchestrator
	repo    *persistence.GormMatchLogRepository
	journal *persistence.MatchJournal
	fatal   error
}

func (m *matchContext) reset() error {
	m.out = nil
	m.session = nil
	m.orch = nil
	m.repo = nil
	m.journal = nil
	m.fatal = nil
	if helpers.SharedTestDB == nil {
		return nil
	}
	m.repo = persistence.NewGormMatchLogRepository(helpers.SharedTestDB, nil, 0)
	m.journal = persistence.NewMatchJournal(m.repo, nil, zerolog.Nop())
	return helpers.TruncateAllTables()
}

// InitializeMatchScenario registers the steps that play a match over the
// wire protocol against a recording outbound link
func InitializeMatchScenario(sc *godog.ScenarioContext) {
	m := &matchContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		return ctx, m.reset()
	})

	sc.Step(`^a match on the two-base map$`, m.matchOnTwoBaseMap)
	sc.Step(`^a match on the two-base map with build order:$`, m.matchWithBuildOrder)
	sc.Step(`^the opening units complete$`, m.openingUnitsComplete)
	sc.Step(`^the following units complete at frame (\d+):$`, m.unitsComplete)
	sc.Step(`^frame (\d+) reports (\d+) minerals and (\d+) gas$`, m.frameReports)
	sc.Step(`^the simulation places build command (\d+) as unit (\d+) at frame (\d+)$`, m.placeBuild)
	sc.Step(`^unit (\d+) of type "([^"]*)" completes at frame (\d+)$`, m.unitCompletes)
	sc.Step(`^unit (\d+) of type "([^"]*)" morphs into "([^"]*)" at frame (\d+)$`, m.unitMorphs)
	sc.Step(`^unit (\d+) of type "([^"]*)" is destroyed at frame (\d+)$`, m.unitDestroyed)
	sc.Step(`^the match ends in a (win|loss) at frame (\d+)$`, m.matchEnds)

	sc.Step(`^the bot should be started$`, m.botStarted)
	sc.Step(`^the bot should not be started$`, m.botNotStarted)
	sc.Step(`^(\d+) workers should mine minerals$`, m.workersMineMinerals)
	sc.Step(`^(\d+) build commands? should be sent$`, m.buildCommandsSent)
	sc.Step(`^build command (\d+) should place a "([^"]*)" with builder (\d+)$`, m.buildCommandPlaces)
	sc.Step(`^the queued reservation should be (\d+) minerals$`, m.queuedReservation)
	sc.Step(`^(\d+) construction requests? should be waiting$`, m.requestsWaiting)
	sc.Step(`^I should own (\d+) "([^"]*)" buildings?$`, m.ownBuildings)
	sc.Step(`^the neutral geysers should number (\d+)$`, m.neutralGeysers)
	sc.Step(`^no desync should be recorded$`, m.noDesync)
	sc.Step(`^the journal should record the match on "([^"]*)" as "([^"]*)"$`, m.journalRecordsMatch)
	sc.Step(`^the journal should contain "([^"]*)" at frame (\d+)$`, m.journalContains)
}

func (m *matchContext) start(order []unit.TypeTag) error {
	m.out = &helpers.MockOutbound{}
	m.session = wire.NewSession(m.out, helpers.TwoBaseMapSource(), "", nil, zerolog.Nop())
	logger := zerolog.Nop()
	var journal common.MatchJournal
	if m.journal != nil {
		journal = m.journal
	}
	m.orch = bot.NewOrchestrator(bot.DefaultConfig(), m.session, bot.Options{
		Factories: strategy.Factories{Game: strategy.NewBuildOrderFactory(order)},
		Journal:   journal,
		Logger:    &logger,
		Fatal:     func(err error) { m.fatal = err },
		Verbosity: func(bool) {},
	})
	return m.apply(helpers.StartEnvelope())
}

func (m *matchContext) apply(envs ...wire.Envelope) error {
	for _, env := range envs {
		if err := m.session.Apply(m.orch, env); err != nil {
			return err
		}
	}
	if m.fatal != nil {
		return fmt.Errorf("bot halted: %w", m.fatal)
	}
	return nil
}

func (m *matchContext) matchOnTwoBaseMap() error {
	return m.start(nil)
}

func (m *matchContext) matchWithBuildOrder(table *godog.Table) error {
	records, err := tableRecords(table)
	if err != nil {
		return err
	}
	order := make([]unit.TypeTag, 0, len(records))
	for _, r := range records {
		order = append(order, unit.TypeTag(r["type"]))
	}
	return m.start(order)
}

func (m *matchContext) openingUnitsComplete() error {
	// StartEnvelope already opened the match
	return m.apply(helpers.OpeningEnvelopes()[1:]...)
}

func (m *matchContext) unitsComplete(frame int, table *godog.Table) error {
	records, err := tableRecords(table)
	if err != nil {
		return err
	}
	for _, r := range records {
		id, err := atoi(r, "id")
		if err != nil {
			return err
		}
		x, err := atoi(r, "x")
		if err != nil {
			return err
		}
		y, err := atoi(r, "y")
		if err != nil {
			return err
		}
		obs := helpers.Observed(unit.ID(id), unit.TypeTag(r["type"]), x, y)
		if err := m.apply(helpers.UnitEnvelope(wire.KindCompleted, frame, obs)); err != nil {
			return err
		}
	}
	return nil
}

func (m *matchContext) frameReports(frame, minerals, gas int) error {
	return m.apply(helpers.FrameEnvelope(frame, minerals, gas))
}

func (m *matchContext) buildCommand(n int) (wire.Command, error) {
	builds := m.out.OfKind(wire.CommandBuild)
	if n < 1 || n > len(builds) {
		return wire.Command{}, fmt.Errorf("build command %d not sent, %d sent", n, len(builds))
	}
	return builds[n-1], nil
}

func (m *matchContext) placeBuild(n, id, frame int) error {
	cmd, err := m.buildCommand(n)
	if err != nil {
		return err
	}
	if cmd.Tile == nil {
		return fmt.Errorf("build command %d has no tile", n)
	}
	obs := helpers.Pending(unit.ID(id), unit.TypeTag(cmd.Type), cmd.Tile.X, cmd.Tile.Y)
	obs.BuildUnit = unit.ID(cmd.Builder)
	return m.apply(helpers.UnitEnvelope(wire.KindCreated, frame, obs))
}

func (m *matchContext) unitCompletes(id int, typ string, frame int) error {
	u, ok := m.orch.Match().SelfInventory().Get(unit.ID(id))
	if !ok {
		return fmt.Errorf("unit %d is not mirrored", id)
	}
	obs := helpers.Observed(u.ID, unit.TypeTag(typ), u.Tile().X, u.Tile().Y)
	return m.apply(helpers.UnitEnvelope(wire.KindCompleted, frame, obs))
}

func (m *matchContext) unitMorphs(id int, from, to string, frame int) error {
	u, ok := m.orch.Match().SelfInventory().Get(unit.ID(id))
	if !ok {
		return fmt.Errorf("unit %d of type %s is not mirrored", id, from)
	}
	obs := helpers.Observed(u.ID, unit.TypeTag(to), u.Tile().X, u.Tile().Y)
	if unit.TypeTag(to) == unit.VespeneGeyser {
		obs = helpers.Neutral(u.ID, unit.TypeTag(to), u.Tile().X, u.Tile().Y)
	}
	return m.apply(helpers.UnitEnvelope(wire.KindMorphed, frame, obs))
}

func (m *matchContext) unitDestroyed(id int, typ string, frame int) error {
	obs := helpers.Observed(unit.ID(id), unit.TypeTag(typ), 0, 0)
	return m.apply(helpers.UnitEnvelope(wire.KindDestroyed, frame, obs))
}

func (m *matchContext) botStarted() error {
	if !m.orch.Started() {
		return fmt.Errorf("expected the bootstrap gate to be open")
	}
	return nil
}

func (m *matchContext) botNotStarted() error {
	if m.orch.Started() {
		return fmt.Errorf("expected the bootstrap gate to be closed")
	}
	return nil
}

func (m *matchContext) workersMineMinerals(n int) error {
	if got := len(m.orch.Match().SelfInventory().MineralWorkers()); got != n {
		return fmt.Errorf("expected %d mineral workers, got %d", n, got)
	}
	return nil
}

func (m *matchContext) buildCommandsSent(n int) error {
	if got := len(m.out.OfKind(wire.CommandBuild)); got != n {
		return fmt.Errorf("expected %d build commands, got %d", n, got)
	}
	return nil
}

func (m *matchContext) buildCommandPlaces(n int, typ string, builder int) error {
	cmd, err := m.buildCommand(n)
	if err != nil {
		return err
	}
	if cmd.Type != typ {
		return fmt.Errorf("build command %d places %s, expected %s", n, cmd.Type, typ)
	}
	if cmd.Builder != builder {
		return fmt.Errorf("build command %d uses builder %d, expected %d", n, cmd.Builder, builder)
	}
	return nil
}

func (m *matchContext) queuedReservation(minerals int) error {
	if got := m.orch.Match().Scheduler.QueuedMinerals(); got != minerals {
		return fmt.Errorf("expected %d reserved minerals, got %d", minerals, got)
	}
	return nil
}

func (m *matchContext) requestsWaiting(n int) error {
	waiting := 0
	for _, req := range m.orch.Match().Scheduler.Requests() {
		if !req.IsTerminal() {
			waiting++
		}
	}
	if waiting != n {
		return fmt.Errorf("expected %d open construction requests, got %d", n, waiting)
	}
	return nil
}

func (m *matchContext) ownBuildings(n int, typ string) error {
	got := 0
	for _, c := range []unit.Category{unit.CategoryGenericBuilding, unit.CategoryRefinery, unit.CategoryTownhall, unit.CategoryDefensiveBuilding} {
		for _, u := range m.orch.Match().SelfInventory().Completed(c) {
			if string(u.Type) == typ {
				got++
			}
		}
	}
	if got != n {
		return fmt.Errorf("expected %d completed %s, got %d", n, typ, got)
	}
	return nil
}

func (m *matchContext) neutralGeysers(n int) error {
	if got := len(m.orch.Match().SelfInventory().Geysers()); got != n {
		return fmt.Errorf("expected %d geysers, got %d", n, got)
	}
	return nil
}

func (m *matchContext) noDesync() error {
	for _, inv := range m.orch.Match().Inventories() {
		if inv.Desyncs() != 0 {
			return fmt.Errorf("player %s recorded %d desyncs", inv.Player(), inv.Desyncs())
		}
	}
	return nil
}

func (m *matchContext) matchEnds(result string, frame int) error {
	return m.apply(wire.Envelope{Kind: wire.KindEnd, Frame: frame, Won: result == "win"})
}

func (m *matchContext) lastMatch() (persistence.MatchModel, error) {
	if m.repo == nil {
		return persistence.MatchModel{}, fmt.Errorf("journal database not initialized")
	}
	matches, err := m.repo.ListMatches(context.Background(), 1)
	if err != nil {
		return persistence.MatchModel{}, err
	}
	if len(matches) == 0 {
		return persistence.MatchModel{}, fmt.Errorf("no match recorded")
	}
	return matches[0], nil
}

func (m *matchContext) journalRecordsMatch(mapName, result string) error {
	match, err := m.lastMatch()
	if err != nil {
		return err
	}
	if match.MapName != mapName {
		return fmt.Errorf("expected map %s, got %s", mapName, match.MapName)
	}
	if match.Result != result {
		return fmt.Errorf("expected result %s, got %q", result, match.Result)
	}
	if match.EndedAt == nil {
		return fmt.Errorf("match %s has no end time", match.ID)
	}
	return nil
}

func (m *matchContext) journalContains(message string, frame int) error {
	match, err := m.lastMatch()
	if err != nil {
		return err
	}
	logs, err := m.repo.GetLogs(context.Background(), match.ID, 100, nil)
	if err != nil {
		return err
	}
	for _, entry := range logs {
		if entry.Message == message && entry.Frame == frame {
			return nil
		}
	}
	return fmt.Errorf("journal of match %s has no %q at frame %d (%d entries)", match.ID, message, frame, len(logs))
}
