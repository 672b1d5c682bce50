package construction

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/metrics"
	"github.com/andrescamacho/rtsbot-go/internal/application/common"
	domainConstruction "github.com/andrescamacho/rtsbot-go/internal/domain/construction"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// RunReport summarizes one scheduling pass
type RunReport struct {
	Started  []*domainConstruction.Request
	Failed   []*domainConstruction.Request
	Deferred int
	// Budget is what was left after earmarking, never negative by construction
	Budget unit.Cost
}

// Scheduler arbitrates minerals and gas among pending construction requests.
//
// Every request reserves its full cost from Enqueue until it reaches a
// terminal state. The scheduler is the only writer of the queued totals;
// everybody else reads QueuedMinerals/QueuedGas.
type Scheduler struct {
	catalog   *unit.TypeCatalog
	inventory *unit.Inventory
	placement *domainConstruction.PlacementRegistry
	issuer    domainConstruction.CommandIssuer
	retry     domainConstruction.RetryPolicy
	journal   common.MatchJournal
	logger    zerolog.Logger

	active   []*domainConstruction.Request
	finished []*domainConstruction.Request
	sequence int
}

// NewScheduler creates a scheduler bound to one match
func NewScheduler(
	catalog *unit.TypeCatalog,
	inventory *unit.Inventory,
	placement *domainConstruction.PlacementRegistry,
	issuer domainConstruction.CommandIssuer,
	retry domainConstruction.RetryPolicy,
	journal common.MatchJournal,
	logger zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		catalog:   catalog,
		inventory: inventory,
		placement: placement,
		issuer:    issuer,
		retry:     retry,
		journal:   common.JournalOrNoOp(journal),
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// Enqueue creates a QUEUED request and reserves its cost immediately,
// before any builder or tile is chosen.
func (s *Scheduler) Enqueue(buildingType unit.TypeTag, priority int, frame shared.Frame) (*domainConstruction.Request, error) {
	info, ok := s.catalog.Lookup(buildingType)
	if !ok {
		return nil, shared.NewConstructionError("unknown building type", string(buildingType))
	}
	if !info.Has(unit.TraitConstructible) {
		return nil, shared.NewConstructionError("type is not constructible", string(buildingType))
	}

	req := domainConstruction.NewRequest(buildingType, info.Cost, priority, s.sequence, frame)
	s.sequence++
	s.active = append(s.active, req)

	s.logger.Debug().
		Str("request", req.ID()).
		Str("type", string(buildingType)).
		Int("priority", priority).
		Int("minerals", info.Cost.Minerals).
		Int("gas", info.Cost.Gas).
		Msg("construction enqueued")
	s.journal.Log(frame, common.LevelInfo, "construction enqueued", map[string]interface{}{
		"request":  req.ID(),
		"type":     string(buildingType),
		"priority": priority,
	})
	metrics.RecordConstructionTransition(buildingType, shared.LifecycleStatusQueued)

	return req, nil
}

// PinBuilder binds a specific worker to a queued request. The scheduler uses
// that worker instead of choosing one.
func (s *Scheduler) PinBuilder(requestID string, builder unit.ID) error {
	req := s.find(requestID)
	if req == nil {
		return fmt.Errorf("request %s not found", requestID)
	}
	w, ok := s.inventory.Get(builder)
	if !ok || w.Category != unit.CategoryWorker {
		return fmt.Errorf("unit %d is not a known worker", builder)
	}
	if s.builderBusy(builder, req) {
		return fmt.Errorf("worker %d already builds another request", builder)
	}
	return req.AssignBuilder(builder)
}

// Run executes one scheduling pass against this frame's authoritative totals.
//
// Requests are visited by priority, then age. Availability starts at the
// authoritative totals minus reservations of started requests and shrinks by
// the cost of every queued request visited, started or not, so a lower
// priority request can never take funds a higher priority one is waiting for.
func (s *Scheduler) Run(minerals, gas int, frame shared.Frame) RunReport {
	report := RunReport{}
	ordered := s.ordered()

	budget := unit.Cost{Minerals: minerals, Gas: gas}
	var claimed []shared.TilePosition
	for _, req := range ordered {
		if req.IsStarted() {
			budget.Minerals -= req.Cost().Minerals
			budget.Gas -= req.Cost().Gas
			if req.Tile() != nil {
				claimed = append(claimed, *req.Tile())
			}
		}
	}

	for i, req := range ordered {
		if !req.IsQueued() {
			continue
		}
		cost := req.Cost()
		if budget.Minerals < cost.Minerals || budget.Gas < cost.Gas {
			report.Deferred += countQueued(ordered[i:])
			break
		}

		builder, ok := s.selectBuilder(req)
		if !ok {
			// no usable builder yet; keep the earmark, later requests may
			// still run on workers pinned to them
			budget.Minerals -= cost.Minerals
			budget.Gas -= cost.Gas
			report.Deferred++
			continue
		}

		site, placed := s.findSite(req, builder, claimed)
		if placed {
			if err := s.issuer.Build(builder, req.BuildingType(), site); err != nil {
				s.logger.Warn().Err(err).Str("request", req.ID()).Msg("build command rejected")
				placed = false
			}
		}
		if !placed {
			if s.placementFailed(req, frame) {
				report.Failed = append(report.Failed, req)
				continue
			}
			budget.Minerals -= cost.Minerals
			budget.Gas -= cost.Gas
			report.Deferred++
			continue
		}

		if err := s.start(req, builder, site, frame); err != nil {
			s.logger.Error().Err(err).Str("request", req.ID()).Msg("failed to start request")
			continue
		}
		claimed = append(claimed, site)
		budget.Minerals -= cost.Minerals
		budget.Gas -= cost.Gas
		report.Started = append(report.Started, req)
	}

	s.prune()
	report.Budget = budget
	return report
}

func (s *Scheduler) start(req *domainConstruction.Request, builder unit.ID, site shared.TilePosition, frame shared.Frame) error {
	if req.Builder() == unit.NoUnit {
		if err := req.AssignBuilder(builder); err != nil {
			return err
		}
	}
	if err := req.Start(site, frame); err != nil {
		return err
	}
	if err := s.inventory.SetRole(builder, unit.RoleBuilder); err != nil {
		s.logger.Warn().Err(err).Int("builder", int(builder)).Msg("could not mark builder")
	}

	s.logger.Info().
		Str("request", req.ID()).
		Str("type", string(req.BuildingType())).
		Int("builder", int(builder)).
		Str("tile", site.String()).
		Msg("construction started")
	s.journal.Log(frame, common.LevelInfo, "construction started", map[string]interface{}{
		"request": req.ID(),
		"type":    string(req.BuildingType()),
		"builder": int(builder),
		"tile":    site.String(),
	})
	metrics.RecordConstructionTransition(req.BuildingType(), shared.LifecycleStatusStarted)
	return nil
}

// placementFailed counts a failed attempt and reports whether the request
// was abandoned because the retry policy ran out
func (s *Scheduler) placementFailed(req *domainConstruction.Request, frame shared.Frame) bool {
	attempts := req.RecordFailedPlacement()
	if !s.retry.Exhausted(attempts) {
		s.logger.Debug().Str("request", req.ID()).Int("attempts", attempts).Msg("no build site, retrying next pass")
		return false
	}
	s.fail(req, frame, shared.NewNoBuildSiteError(string(req.BuildingType()), attempts))
	return true
}

func (s *Scheduler) findSite(req *domainConstruction.Request, builder unit.ID, claimed []shared.TilePosition) (shared.TilePosition, bool) {
	main, ok := s.inventory.Main()
	if !ok {
		return shared.TilePosition{}, false
	}
	strategy, err := s.placement.For(req.BuildingType())
	if err != nil {
		s.logger.Warn().Err(err).Msg("placement lookup failed")
		return shared.TilePosition{}, false
	}
	return strategy.FindSite(domainConstruction.PlacementQuery{
		BuildingType: req.BuildingType(),
		Builder:      builder,
		Anchor:       main.Tile(),
		Claimed:      claimed,
	})
}

// selectBuilder returns the pinned builder when it is still usable, else a
// completed idle worker: mineral gatherers first, then unassigned workers,
// then gas gatherers, lowest ID within each group
func (s *Scheduler) selectBuilder(req *domainConstruction.Request) (unit.ID, bool) {
	if pinned := req.Builder(); pinned != unit.NoUnit {
		if w, ok := s.inventory.Get(pinned); ok && w.Completed {
			return pinned, true
		}
		return unit.NoUnit, false
	}

	preference := []unit.Role{unit.RoleMineral, unit.RoleNone, unit.RoleVespene}
	for _, role := range preference {
		for _, w := range s.inventory.Completed(unit.CategoryWorker) {
			if s.inventory.Role(w.ID) != role {
				continue
			}
			if s.builderBusy(w.ID, req) {
				continue
			}
			return w.ID, true
		}
	}
	return unit.NoUnit, false
}

func (s *Scheduler) builderBusy(id unit.ID, except *domainConstruction.Request) bool {
	for _, r := range s.active {
		if r != except && !r.IsTerminal() && r.Builder() == id {
			return true
		}
	}
	return false
}

// OnConstructionStarted handles the simulation reporting that builder put
// down building at tile. The oldest unplaced request of that builder takes
// it; a queued request is started by the confirmation.
func (s *Scheduler) OnConstructionStarted(builder, building unit.ID, tile shared.TilePosition, frame shared.Frame) bool {
	var match *domainConstruction.Request
	for _, r := range s.active {
		if r.IsTerminal() || r.Builder() != builder || r.IsPlaced() {
			continue
		}
		if match == nil || r.Sequence() < match.Sequence() {
			match = r
		}
	}
	if match == nil {
		return false
	}

	wasQueued := match.IsQueued()
	if err := match.ConfirmPlacement(building, tile, frame); err != nil {
		s.logger.Warn().Err(err).Str("request", match.ID()).Msg("placement confirmation rejected")
		return false
	}
	if wasQueued {
		if err := s.inventory.SetRole(builder, unit.RoleBuilder); err != nil {
			s.logger.Debug().Err(err).Msg("builder role not set")
		}
		metrics.RecordConstructionTransition(match.BuildingType(), shared.LifecycleStatusStarted)
	}
	s.logger.Debug().
		Str("request", match.ID()).
		Int("building", int(building)).
		Msg("construction placed")
	return true
}

// OnConstructionComplete resolves the request that owns building
func (s *Scheduler) OnConstructionComplete(building unit.ID, frame shared.Frame) bool {
	for _, r := range s.active {
		if r.IsTerminal() || r.Building() != building {
			continue
		}
		if err := r.Complete(frame); err != nil {
			s.logger.Warn().Err(err).Str("request", r.ID()).Msg("completion rejected")
			return false
		}
		s.releaseBuilder(r)
		s.logger.Info().Str("request", r.ID()).Str("type", string(r.BuildingType())).Msg("construction complete")
		s.journal.Log(frame, common.LevelInfo, "construction complete", map[string]interface{}{
			"request":  r.ID(),
			"type":     string(r.BuildingType()),
			"building": int(building),
		})
		metrics.RecordConstructionTransition(r.BuildingType(), shared.LifecycleStatusComplete)
		s.prune()
		return true
	}
	return false
}

// OnUnitDestroyed fails every request that can no longer finish because of
// the loss of id: its builder died before the building was placed, or the
// building itself died. Their reservations are released at once.
func (s *Scheduler) OnUnitDestroyed(id unit.ID, frame shared.Frame) int {
	if id == unit.NoUnit {
		return 0
	}
	failed := 0
	for _, r := range s.active {
		if r.IsTerminal() {
			continue
		}
		switch {
		case r.Builder() == id && !r.IsPlaced():
			s.fail(r, frame, shared.NewBuilderLostError(string(r.BuildingType()), int(id)))
			failed++
		case r.Building() == id:
			s.fail(r, frame, shared.NewConstructionError("building destroyed before completion", string(r.BuildingType())))
			failed++
		}
	}
	if failed > 0 {
		s.prune()
	}
	return failed
}

// Cancel abandons a request and releases its reservation
func (s *Scheduler) Cancel(requestID string, frame shared.Frame) error {
	req := s.find(requestID)
	if req == nil || req.IsTerminal() {
		return fmt.Errorf("request %s is not pending", requestID)
	}
	s.fail(req, frame, shared.NewConstructionError("cancelled", string(req.BuildingType())))
	s.prune()
	return nil
}

func (s *Scheduler) fail(req *domainConstruction.Request, frame shared.Frame, reason error) {
	if err := req.Fail(frame, reason); err != nil {
		s.logger.Warn().Err(err).Str("request", req.ID()).Msg("failure transition rejected")
		return
	}
	s.releaseBuilder(req)
	s.logger.Warn().Err(reason).Str("request", req.ID()).Msg("construction failed, reservation released")
	s.journal.Log(frame, common.LevelWarning, "construction failed", map[string]interface{}{
		"request": req.ID(),
		"type":    string(req.BuildingType()),
		"reason":  reason.Error(),
	})
	metrics.RecordConstructionTransition(req.BuildingType(), shared.LifecycleStatusFailed)
}

// releaseBuilder sends a surviving builder back to mining
func (s *Scheduler) releaseBuilder(req *domainConstruction.Request) {
	b := req.Builder()
	if b == unit.NoUnit || s.builderBusy(b, req) {
		return
	}
	if s.inventory.Role(b) == unit.RoleBuilder {
		_ = s.inventory.SetRole(b, unit.RoleMineral)
	}
}

// QueuedMinerals sums the mineral reservations of non-terminal requests
func (s *Scheduler) QueuedMinerals() int {
	return s.Queued().Minerals
}

// QueuedGas sums the gas reservations of non-terminal requests
func (s *Scheduler) QueuedGas() int {
	return s.Queued().Gas
}

// Queued sums every reservation of non-terminal requests
func (s *Scheduler) Queued() unit.Cost {
	var total unit.Cost
	for _, r := range s.active {
		res := r.Reservation()
		total.Minerals += res.Minerals
		total.Gas += res.Gas
		total.Supply += res.Supply
	}
	return total
}

// Requests returns the non-terminal requests in scheduling order
func (s *Scheduler) Requests() []*domainConstruction.Request {
	return s.ordered()
}

// Finished returns terminal requests, oldest first
func (s *Scheduler) Finished() []*domainConstruction.Request {
	out := make([]*domainConstruction.Request, len(s.finished))
	copy(out, s.finished)
	return out
}

// Request looks up a pending or finished request by id
func (s *Scheduler) Request(requestID string) (*domainConstruction.Request, bool) {
	if r := s.find(requestID); r != nil {
		return r, true
	}
	for _, r := range s.finished {
		if r.ID() == requestID {
			return r, true
		}
	}
	return nil, false
}

func (s *Scheduler) find(requestID string) *domainConstruction.Request {
	for _, r := range s.active {
		if r.ID() == requestID {
			return r
		}
	}
	return nil
}

func (s *Scheduler) ordered() []*domainConstruction.Request {
	out := make([]*domainConstruction.Request, 0, len(s.active))
	for _, r := range s.active {
		if !r.IsTerminal() {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority() != out[j].Priority() {
			return out[i].Priority() > out[j].Priority()
		}
		return out[i].Sequence() < out[j].Sequence()
	})
	return out
}

// prune moves terminal requests out of the active list
func (s *Scheduler) prune() {
	kept := s.active[:0]
	for _, r := range s.active {
		if r.IsTerminal() {
			s.finished = append(s.finished, r)
			continue
		}
		kept = append(kept, r)
	}
	for i := len(kept); i < len(s.active); i++ {
		s.active[i] = nil
	}
	s.active = kept
}

func countQueued(reqs []*domainConstruction.Request) int {
	n := 0
	for _, r := range reqs {
		if r.IsQueued() {
			n++
		}
	}
	return n
}
