package unit

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
)

// Inventory is one player's mirror of the units the simulation has told us
// about. It is the sole source of truth for what exists and what it is.
//
// Invariants:
// - an identifier maps to at most one live Unit
// - every live Unit is in the primary map and in exactly one category view
// - removing a Unit from the primary map removes it from every view and role set
type Inventory struct {
	player  shared.PlayerID
	catalog *TypeCatalog

	units map[ID]*Unit
	views map[Category]map[ID]*Unit
	roles map[ID]Role

	desyncs   int
	desyncLog *rate.Sometimes
	logger    zerolog.Logger
}

// NewInventory creates an empty inventory for one player
func NewInventory(player shared.PlayerID, catalog *TypeCatalog, logger zerolog.Logger) *Inventory {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	views := make(map[Category]map[ID]*Unit, len(Categories))
	for _, c := range Categories {
		views[c] = make(map[ID]*Unit)
	}
	return &Inventory{
		player:    player,
		catalog:   catalog,
		units:     make(map[ID]*Unit),
		views:     views,
		roles:     make(map[ID]Role),
		desyncLog: &rate.Sometimes{First: 5, Interval: 10 * time.Second},
		logger:    logger.With().Str("component", "inventory").Str("player", player.String()).Logger(),
	}
}

// Player returns the owner this inventory mirrors
func (inv *Inventory) Player() shared.PlayerID {
	return inv.player
}

// Register inserts a unit or updates the existing entry in place. A changed
// type tag moves the unit into its new category view. The spotted frame of an
// existing entry is never overwritten.
func (inv *Inventory) Register(obs Observation, frame shared.Frame) (*Unit, error) {
	category, err := inv.catalog.Classify(obs.Type, obs.ID)
	if err != nil {
		return nil, err
	}
	info, _ := inv.catalog.Lookup(obs.Type)

	if existing, ok := inv.units[obs.ID]; ok {
		if existing.Category != category {
			delete(inv.views[existing.Category], existing.ID)
			inv.views[category][existing.ID] = existing
			if category != CategoryWorker {
				delete(inv.roles, existing.ID)
			}
			inv.logger.Debug().
				Int("unit", int(obs.ID)).
				Str("from", existing.Category.String()).
				Str("to", category.String()).
				Msg("unit changed category")
		}
		existing.Type = obs.Type
		existing.Category = category
		existing.Owner = obs.Owner
		existing.Position = obs.Position
		existing.Completed = existing.Completed || obs.Completed
		existing.UpdatedFrame = frame
		existing.info = info
		return existing, nil
	}

	u := &Unit{
		ID:           obs.ID,
		Type:         obs.Type,
		Category:     category,
		Owner:        obs.Owner,
		Position:     obs.Position,
		Completed:    obs.Completed,
		SpottedFrame: frame,
		UpdatedFrame: frame,
		info:         info,
	}
	inv.units[u.ID] = u
	inv.views[category][u.ID] = u
	inv.logger.Trace().Int("unit", int(u.ID)).Str("type", string(u.Type)).Msg("registered")
	return u, nil
}

// OnDestroyed removes a unit from the primary map, its category view and any
// role set. Unknown identifiers are a benign desync: logged and ignored.
// Returns whether a unit was removed.
func (inv *Inventory) OnDestroyed(id ID, frame shared.Frame) bool {
	u, ok := inv.units[id]
	if !ok {
		inv.desyncs++
		inv.desyncLog.Do(func() {
			inv.logger.Warn().
				Int("unit", int(id)).
				Int("frame", int(frame)).
				Int("desyncs", inv.desyncs).
				Msg("destroy for unknown unit ignored")
		})
		return false
	}
	delete(inv.units, id)
	for _, c := range Categories {
		delete(inv.views[c], id)
	}
	delete(inv.roles, id)
	inv.logger.Trace().Int("unit", int(id)).Str("type", string(u.Type)).Int("frame", int(frame)).Msg("removed")
	return true
}

// Get returns the live unit with the given identifier
func (inv *Inventory) Get(id ID) (*Unit, bool) {
	u, ok := inv.units[id]
	return u, ok
}

// Len returns the number of live units
func (inv *Inventory) Len() int {
	return len(inv.units)
}

// View returns the current members of one category ordered by identifier.
// An invalid category yields an empty view.
func (inv *Inventory) View(c Category) []*Unit {
	members, ok := inv.views[c]
	if !ok {
		return []*Unit{}
	}
	return sortedUnits(members)
}

// Completed returns the completed members of one category
func (inv *Inventory) Completed(c Category) []*Unit {
	var out []*Unit
	for _, u := range inv.View(c) {
		if u.Completed {
			out = append(out, u)
		}
	}
	return out
}

// CountCompleted returns how many members of a category are completed
func (inv *Inventory) CountCompleted(c Category) int {
	n := 0
	for _, u := range inv.views[c] {
		if u.Completed {
			n++
		}
	}
	return n
}

func (inv *Inventory) Workers() []*Unit            { return inv.View(CategoryWorker) }
func (inv *Inventory) Townhalls() []*Unit          { return inv.View(CategoryTownhall) }
func (inv *Inventory) Refineries() []*Unit         { return inv.View(CategoryRefinery) }
func (inv *Inventory) DefensiveBuildings() []*Unit { return inv.View(CategoryDefensiveBuilding) }
func (inv *Inventory) GenericBuildings() []*Unit   { return inv.View(CategoryGenericBuilding) }
func (inv *Inventory) MobileUnits() []*Unit        { return inv.View(CategoryMobileUnit) }
func (inv *Inventory) MineralPatches() []*Unit     { return inv.View(CategoryMineralPatch) }
func (inv *Inventory) Geysers() []*Unit            { return inv.View(CategoryVespeneGeyser) }

// Main returns the player's main base: the earliest-spotted completed
// townhall, ties broken by identifier.
func (inv *Inventory) Main() (*Unit, bool) {
	var main *Unit
	for _, u := range inv.views[CategoryTownhall] {
		if !u.Completed {
			continue
		}
		if main == nil || u.SpottedFrame < main.SpottedFrame ||
			(u.SpottedFrame == main.SpottedFrame && u.ID < main.ID) {
			main = u
		}
	}
	return main, main != nil
}

// SetRole assigns a worker to a job. Only live workers can hold roles.
func (inv *Inventory) SetRole(id ID, role Role) error {
	u, ok := inv.units[id]
	if !ok {
		return fmt.Errorf("unit %d is not in the inventory", id)
	}
	if u.Category != CategoryWorker {
		return fmt.Errorf("unit %d is a %s, not a worker", id, u.Category)
	}
	if role == RoleNone {
		delete(inv.roles, id)
		return nil
	}
	inv.roles[id] = role
	return nil
}

// Role returns the job a unit is assigned to
func (inv *Inventory) Role(id ID) Role {
	return inv.roles[id]
}

// WithRole returns the live workers assigned to a job, ordered by identifier
func (inv *Inventory) WithRole(role Role) []*Unit {
	members := make(map[ID]*Unit)
	for id, r := range inv.roles {
		if r == role {
			members[id] = inv.units[id]
		}
	}
	return sortedUnits(members)
}

func (inv *Inventory) MineralWorkers() []*Unit { return inv.WithRole(RoleMineral) }
func (inv *Inventory) VespeneWorkers() []*Unit { return inv.WithRole(RoleVespene) }
func (inv *Inventory) Scouts() []*Unit         { return inv.WithRole(RoleScout) }

// Desyncs returns how many destroy notifications named unknown units
func (inv *Inventory) Desyncs() int {
	return inv.desyncs
}

// Counts returns the size of every category view
func (inv *Inventory) Counts() map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		counts[c] = len(inv.views[c])
	}
	return counts
}

// CheckConsistency verifies the mirror's structural invariants
func (inv *Inventory) CheckConsistency() error {
	seen := 0
	for _, c := range Categories {
		for id, u := range inv.views[c] {
			live, ok := inv.units[id]
			if !ok || live != u {
				return fmt.Errorf("unit %d in %s view is not live", id, c)
			}
			if u.Category != c {
				return fmt.Errorf("unit %d tagged %s sits in %s view", id, u.Category, c)
			}
			seen++
		}
	}
	if seen != len(inv.units) {
		return fmt.Errorf("%d live units but %d view memberships", len(inv.units), seen)
	}
	for id := range inv.roles {
		u, ok := inv.units[id]
		if !ok || u.Category != CategoryWorker {
			return fmt.Errorf("role held by non-worker %d", id)
		}
	}
	return nil
}

func sortedUnits(members map[ID]*Unit) []*Unit {
	out := make([]*Unit, 0, len(members))
	for _, u := range members {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
