package terrain

import "github.com/andrescamacho/rtsbot-go/internal/domain/shared"

// RegionID identifies a region within one analyzed map
type RegionID int

// ChokepointID identifies a chokepoint within one analyzed map
type ChokepointID int

const (
	// NoRegion is returned for positions outside every region
	NoRegion RegionID = 0
	// NoChokepoint is returned when a query has no chokepoint to offer
	NoChokepoint ChokepointID = 0
	// UnknownDepth marks chokepoints unreachable from the ranking's start region.
	// Real depths are never negative.
	UnknownDepth = -1
	// UnreachableDistance is the ground distance between disconnected tiles
	UnreachableDistance = -1.0
)

// Region is a contiguous walkable area
type Region struct {
	ID          RegionID
	Name        string
	Center      shared.TilePosition
	Chokepoints []ChokepointID
	Component   int
	areas       []Rect
	tiles       int
}

// Contains reports whether a tile belongs to the region
func (r *Region) Contains(t shared.TilePosition) bool {
	for _, a := range r.areas {
		if a.Contains(t) {
			return true
		}
	}
	return false
}

// Size returns the region's area in tiles
func (r *Region) Size() int {
	return r.tiles
}

// Chokepoint connects exactly two regions
type Chokepoint struct {
	ID      ChokepointID
	Regions [2]RegionID
	Center  shared.TilePosition
	Width   int
}

// Other returns the region on the far side of the chokepoint, or NoRegion if
// the chokepoint does not border from.
func (c *Chokepoint) Other(from RegionID) RegionID {
	switch from {
	case c.Regions[0]:
		return c.Regions[1]
	case c.Regions[1]:
		return c.Regions[0]
	default:
		return NoRegion
	}
}

// Borders reports whether the chokepoint touches a region
func (c *Chokepoint) Borders(r RegionID) bool {
	return c.Regions[0] == r || c.Regions[1] == r
}

// BaseLocation is a candidate townhall tile
type BaseLocation struct {
	Tile          shared.TilePosition
	Region        RegionID
	StartLocation bool
}

// RankedChokepoint is one entry of a ranking in traversal order
type RankedChokepoint struct {
	Chokepoint ChokepointID
	Depth      int
}
