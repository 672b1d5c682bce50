package bot

import (
	"github.com/andrescamacho/rtsbot-go/internal/adapters/metrics"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// Lifecycle notifications arrive in any order relative to each other, but
// always before the tick of the frame that reported them.

// OnUnitDiscovered mirrors units of other players as they come into view.
// Our own units are tracked through created and completed instead.
func (o *Orchestrator) OnUnitDiscovered(obs unit.Observation, frame shared.Frame) {
	if !o.accepting() || obs.Owner.Equals(o.match.Self) {
		return
	}
	o.register(obs, frame)
}

// OnUnitCreated mirrors our buildings as soon as they are placed and lets
// the scheduler match them to the request that ordered them
func (o *Orchestrator) OnUnitCreated(obs unit.Observation, frame shared.Frame) {
	if !o.accepting() || !obs.Owner.Equals(o.match.Self) {
		return
	}
	category, ok := o.classify(obs)
	if !ok || !category.IsBuilding() {
		return
	}
	u, ok := o.register(obs, frame)
	if !ok {
		return
	}
	if obs.BuildUnit != unit.NoUnit {
		o.match.Scheduler.OnConstructionStarted(obs.BuildUnit, u.ID, u.Tile(), frame)
	}
}

// OnUnitCompleted mirrors our finished units and neutral resources,
// resolves finished constructions and re-evaluates the bootstrap gate.
// Completions of other players are seen through discovery instead.
func (o *Orchestrator) OnUnitCompleted(obs unit.Observation, frame shared.Frame) {
	if !o.accepting() {
		return
	}
	if !obs.Owner.Equals(o.match.Self) && !obs.Owner.IsNeutral() {
		return
	}
	obs.Completed = true
	u, ok := o.register(obs, frame)
	if !ok {
		return
	}
	if obs.Owner.Equals(o.match.Self) && u.Category.IsBuilding() {
		o.match.Scheduler.OnConstructionComplete(u.ID, frame)
	}
	o.checkBootstrap(frame)
}

// OnUnitDestroyed removes a unit from its owner's mirror. Neutral mineral
// patches are removed from every mirror. Unknown ids are a counted desync.
func (o *Orchestrator) OnUnitDestroyed(obs unit.Observation, frame shared.Frame) {
	if !o.accepting() {
		return
	}
	category, ok := o.classify(obs)
	if !ok {
		return
	}

	if obs.Owner.IsNeutral() && category == unit.CategoryMineralPatch {
		known := false
		for _, inv := range o.match.Inventories() {
			if inv.OnDestroyed(obs.ID, frame) {
				known = true
			}
		}
		if !known {
			metrics.RecordDesync(o.match.Self)
		}
		return
	}

	inv := o.match.Inventory(obs.Owner)
	if !inv.OnDestroyed(obs.ID, frame) {
		metrics.RecordDesync(inv.Player())
	}
	if obs.Owner.Equals(o.match.Self) {
		o.match.Scheduler.OnUnitDestroyed(obs.ID, frame)
	}
}

// OnUnitMorphed handles type changes. Becoming a refinery is a creation,
// turning back into a geyser is the refinery's destruction, anything else
// is an in-place type change. A worker morphing into a building places the
// construction it was ordered to build.
func (o *Orchestrator) OnUnitMorphed(obs unit.Observation, frame shared.Frame) {
	if !o.accepting() {
		return
	}
	category, ok := o.classify(obs)
	if !ok {
		return
	}

	switch category {
	case unit.CategoryRefinery:
		if obs.Owner.Equals(o.match.Self) {
			o.OnUnitCreated(obs, frame)
			return
		}
		o.register(obs, frame)
	case unit.CategoryVespeneGeyser:
		o.forget(obs.ID, frame)
		if obs.Owner.Equals(o.match.Self) || obs.Owner.IsNeutral() {
			o.match.Scheduler.OnUnitDestroyed(obs.ID, frame)
		}
		// the geyser is a neutral resource again, spotted anew
		obs.Owner = shared.NeutralPlayer
		o.register(obs, frame)
	default:
		self := obs.Owner.Equals(o.match.Self)
		wasWorker := false
		if prev, known := o.match.Inventory(obs.Owner).Get(obs.ID); known {
			wasWorker = prev.Category == unit.CategoryWorker
		}
		u, ok := o.register(obs, frame)
		if !ok {
			return
		}
		// a worker that turns into a building is the building, placed
		if self && wasWorker && category.IsBuilding() {
			o.match.Scheduler.OnConstructionStarted(obs.ID, u.ID, u.Tile(), frame)
		}
	}
}

func (o *Orchestrator) accepting() bool {
	return o.match != nil && !o.halted
}

func (o *Orchestrator) classify(obs unit.Observation) (unit.Category, bool) {
	category, err := o.catalog.Classify(obs.Type, obs.ID)
	if err != nil {
		o.escalate(err)
		return 0, false
	}
	return category, true
}

// register mirrors obs into its owner's inventory. An identifier lives in
// one inventory at a time, so an ownership change removes it elsewhere first.
func (o *Orchestrator) register(obs unit.Observation, frame shared.Frame) (*unit.Unit, bool) {
	target := o.match.Inventory(obs.Owner)
	for _, inv := range o.match.Inventories() {
		if inv == target {
			continue
		}
		if _, ok := inv.Get(obs.ID); ok {
			inv.OnDestroyed(obs.ID, frame)
		}
	}
	u, err := target.Register(obs, frame)
	if err != nil {
		o.escalate(err)
		return nil, false
	}
	return u, true
}

// forget drops an identifier from every inventory
func (o *Orchestrator) forget(id unit.ID, frame shared.Frame) {
	for _, inv := range o.match.Inventories() {
		if _, ok := inv.Get(id); ok {
			inv.OnDestroyed(id, frame)
		}
	}
}
