package wire

import (
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/terrain"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// Occupancy answers buildability locally from the unit footprints the
// session has seen, so placement never waits on a round trip.
type Occupancy struct {
	catalog *unit.TypeCatalog
	graph   *terrain.Graph

	tiles      map[shared.TilePosition]unit.ID
	footprints map[unit.ID][]shared.TilePosition
	anchors    map[unit.ID]shared.TilePosition
	categories map[unit.ID]unit.Category
}

// NewOccupancy creates an empty occupancy map over an analyzed graph
func NewOccupancy(catalog *unit.TypeCatalog, graph *terrain.Graph) *Occupancy {
	return &Occupancy{
		catalog:    catalog,
		graph:      graph,
		tiles:      make(map[shared.TilePosition]unit.ID),
		footprints: make(map[unit.ID][]shared.TilePosition),
		anchors:    make(map[unit.ID]shared.TilePosition),
		categories: make(map[unit.ID]unit.Category),
	}
}

// Place records the footprint of a unit, replacing any earlier footprint
// under the same id. Mobile units occupy nothing.
func (o *Occupancy) Place(obs unit.Observation) {
	o.Remove(obs.ID)
	info, ok := o.catalog.Lookup(obs.Type)
	if !ok || info.Width == 0 || info.Height == 0 {
		return
	}
	anchor := obs.Position.ToTile()
	tiles := make([]shared.TilePosition, 0, info.Width*info.Height)
	for dy := 0; dy < info.Height; dy++ {
		for dx := 0; dx < info.Width; dx++ {
			t := anchor.Add(dx, dy)
			o.tiles[t] = obs.ID
			tiles = append(tiles, t)
		}
	}
	o.footprints[obs.ID] = tiles
	o.anchors[obs.ID] = anchor
	o.categories[obs.ID] = info.Category
}

// Remove frees the footprint of a unit
func (o *Occupancy) Remove(id unit.ID) {
	for _, t := range o.footprints[id] {
		if o.tiles[t] == id {
			delete(o.tiles, t)
		}
	}
	delete(o.footprints, id)
	delete(o.anchors, id)
	delete(o.categories, id)
}

// Occupant returns the unit covering a tile
func (o *Occupancy) Occupant(t shared.TilePosition) (unit.ID, bool) {
	id, ok := o.tiles[t]
	return id, ok
}

// CanBuildHere reports whether buildingType fits with its top-left corner on
// tile. Refineries must sit exactly on a geyser; everything else needs every
// footprint tile inside a region and free of units other than the builder.
func (o *Occupancy) CanBuildHere(tile shared.TilePosition, buildingType unit.TypeTag, builder unit.ID) bool {
	info, ok := o.catalog.Lookup(buildingType)
	if !ok || !info.Has(unit.TraitConstructible) {
		return false
	}
	if info.Category == unit.CategoryRefinery {
		id, ok := o.tiles[tile]
		return ok && o.categories[id] == unit.CategoryVespeneGeyser && o.anchors[id] == tile
	}
	for dy := 0; dy < info.Height; dy++ {
		for dx := 0; dx < info.Width; dx++ {
			t := tile.Add(dx, dy)
			if o.graph.RegionAt(t) == terrain.NoRegion {
				return false
			}
			if id, taken := o.tiles[t]; taken && id != builder {
				return false
			}
		}
	}
	return true
}
