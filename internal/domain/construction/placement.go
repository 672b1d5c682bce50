package construction

import (
	"math"

	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// PlacementQuery carries everything a strategy needs to pick a site
type PlacementQuery struct {
	BuildingType unit.TypeTag
	Builder      unit.ID
	// Anchor is the main base tile sites are measured from
	Anchor shared.TilePosition
	// Claimed holds tiles already promised to other requests
	Claimed []shared.TilePosition
}

func (q PlacementQuery) claimed(t shared.TilePosition) bool {
	for _, c := range q.Claimed {
		if c == t {
			return true
		}
	}
	return false
}

// PlacementStrategy finds a build tile for one building type.
// ok=false is the "no site" sentinel; strategies never fail otherwise.
type PlacementStrategy interface {
	FindSite(q PlacementQuery) (shared.TilePosition, bool)
}

// ExpansionPlacement picks the unobstructed base location closest to the
// main base by ground distance. Candidates must be reachable from the main
// base. Ties keep the earlier candidate in base-location order.
type ExpansionPlacement struct {
	terrain   TerrainQuery
	buildable BuildabilityChecker
}

func NewExpansionPlacement(terrain TerrainQuery, buildable BuildabilityChecker) *ExpansionPlacement {
	return &ExpansionPlacement{terrain: terrain, buildable: buildable}
}

func (p *ExpansionPlacement) FindSite(q PlacementQuery) (shared.TilePosition, bool) {
	var site shared.TilePosition
	found := false
	best := math.Inf(1)
	for _, base := range p.terrain.BaseLocations() {
		candidate := base.Tile
		if q.claimed(candidate) {
			continue
		}
		if !p.buildable.CanBuildHere(candidate, q.BuildingType, q.Builder) {
			continue
		}
		if !p.terrain.IsConnected(q.Anchor, candidate) {
			continue
		}
		d := p.terrain.GroundDistance(q.Anchor, candidate)
		if d < 0 {
			continue
		}
		if d < best {
			best = d
			site = candidate
			found = true
		}
	}
	return site, found
}

// SpiralPlacement walks square rings outward from the anchor and takes the
// first buildable tile. Ring tiles are visited clockwise from the top-left.
type SpiralPlacement struct {
	buildable BuildabilityChecker
	minRadius int
	maxRadius int
}

func NewSpiralPlacement(buildable BuildabilityChecker, minRadius, maxRadius int) *SpiralPlacement {
	if minRadius < 1 {
		minRadius = 1
	}
	if maxRadius < minRadius {
		maxRadius = minRadius
	}
	return &SpiralPlacement{buildable: buildable, minRadius: minRadius, maxRadius: maxRadius}
}

func (p *SpiralPlacement) FindSite(q PlacementQuery) (shared.TilePosition, bool) {
	for r := p.minRadius; r <= p.maxRadius; r++ {
		for _, t := range ring(q.Anchor, r) {
			if t.X < 0 || t.Y < 0 || q.claimed(t) {
				continue
			}
			if p.buildable.CanBuildHere(t, q.BuildingType, q.Builder) {
				return t, true
			}
		}
	}
	return shared.TilePosition{}, false
}

func ring(center shared.TilePosition, r int) []shared.TilePosition {
	out := make([]shared.TilePosition, 0, 8*r)
	for x := -r; x <= r; x++ {
		out = append(out, center.Add(x, -r))
	}
	for y := -r + 1; y <= r; y++ {
		out = append(out, center.Add(r, y))
	}
	for x := r - 1; x >= -r; x-- {
		out = append(out, center.Add(x, r))
	}
	for y := r - 1; y > -r; y-- {
		out = append(out, center.Add(-r, y))
	}
	return out
}
