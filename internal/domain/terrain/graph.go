package terrain

import (
	"fmt"
	"math"

	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
)

// Graph is the coarse region/chokepoint graph of one map. It is built once by
// Analyze and is read-only afterwards; only the derived chokepoint ranking
// changes during a match.
type Graph struct {
	data     Data
	analyzed bool

	regions     map[RegionID]*Region
	regionOrder []RegionID
	chokepoints map[ChokepointID]*Chokepoint
	chokeOrder  []ChokepointID
	bases       []BaseLocation
	labels      []RegionID

	// all-pairs distances between chokepoint centers, through regions
	chokeIndex map[ChokepointID]int
	dist       [][]float64
	next       [][]int

	rankStart RegionID
	depths    map[ChokepointID]int
	ranking   []RankedChokepoint
}

// NewGraph wraps raw terrain data. Nothing is derived until Analyze runs.
func NewGraph(data Data) *Graph {
	return &Graph{
		data:        data,
		regions:     make(map[RegionID]*Region),
		chokepoints: make(map[ChokepointID]*Chokepoint),
		depths:      make(map[ChokepointID]int),
	}
}

// Name returns the map name
func (g *Graph) Name() string {
	return g.data.Name
}

// Analyzed reports whether Analyze completed successfully
func (g *Graph) Analyzed() bool {
	return g.analyzed
}

// Analyze derives regions, chokepoints, connectivity and the distance table
// from the raw terrain data. It is expensive and meant to run once per match.
func (g *Graph) Analyze() error {
	if g.analyzed {
		return nil
	}
	d := g.data
	if d.Width <= 0 || d.Height <= 0 {
		return shared.NewTerrainError(d.Name, fmt.Sprintf("invalid dimensions %dx%d", d.Width, d.Height))
	}

	g.labels = make([]RegionID, d.Width*d.Height)
	for _, spec := range d.Regions {
		if err := g.addRegion(spec); err != nil {
			return err
		}
	}
	for _, spec := range d.Chokepoints {
		if err := g.addChokepoint(spec); err != nil {
			return err
		}
	}
	for _, spec := range d.BaseLocations {
		if !g.inBounds(spec.Tile) {
			return shared.NewTerrainError(d.Name, fmt.Sprintf("base location %s out of bounds", spec.Tile))
		}
		g.bases = append(g.bases, BaseLocation{
			Tile:          spec.Tile,
			Region:        g.RegionAt(spec.Tile),
			StartLocation: spec.StartLocation,
		})
	}

	g.labelComponents()
	g.computeDistances()
	g.analyzed = true
	return nil
}

func (g *Graph) addRegion(spec RegionSpec) error {
	id := RegionID(spec.ID)
	if id == NoRegion {
		return shared.NewTerrainError(g.data.Name, "region id 0 is reserved")
	}
	if _, dup := g.regions[id]; dup {
		return shared.NewTerrainError(g.data.Name, fmt.Sprintf("duplicate region %d", id))
	}
	region := &Region{ID: id, Name: spec.Name, areas: spec.Areas}

	var sumX, sumY float64
	for _, a := range spec.Areas {
		if a.W <= 0 || a.H <= 0 || a.X < 0 || a.Y < 0 || a.X+a.W > g.data.Width || a.Y+a.H > g.data.Height {
			return shared.NewTerrainError(g.data.Name, fmt.Sprintf("region %d area %+v out of bounds", id, a))
		}
		for y := a.Y; y < a.Y+a.H; y++ {
			for x := a.X; x < a.X+a.W; x++ {
				idx := y*g.data.Width + x
				if g.labels[idx] != NoRegion {
					return shared.NewTerrainError(g.data.Name,
						fmt.Sprintf("tile (%d,%d) claimed by regions %d and %d", x, y, g.labels[idx], id))
				}
				g.labels[idx] = id
			}
		}
		n := float64(a.W * a.H)
		sumX += n * (float64(a.X) + float64(a.W-1)/2)
		sumY += n * (float64(a.Y) + float64(a.H-1)/2)
		region.tiles += a.W * a.H
	}
	if region.tiles > 0 {
		region.Center = shared.TilePosition{
			X: int(math.Round(sumX / float64(region.tiles))),
			Y: int(math.Round(sumY / float64(region.tiles))),
		}
	}
	g.regions[id] = region
	g.regionOrder = append(g.regionOrder, id)
	return nil
}

func (g *Graph) addChokepoint(spec ChokepointSpec) error {
	id := ChokepointID(spec.ID)
	if id == NoChokepoint {
		return shared.NewTerrainError(g.data.Name, "chokepoint id 0 is reserved")
	}
	if _, dup := g.chokepoints[id]; dup {
		return shared.NewTerrainError(g.data.Name, fmt.Sprintf("duplicate chokepoint %d", id))
	}
	a, b := RegionID(spec.Regions[0]), RegionID(spec.Regions[1])
	if a == b {
		return shared.NewTerrainError(g.data.Name, fmt.Sprintf("chokepoint %d joins region %d to itself", id, a))
	}
	ra, okA := g.regions[a]
	rb, okB := g.regions[b]
	if !okA || !okB {
		return shared.NewTerrainError(g.data.Name, fmt.Sprintf("chokepoint %d references unknown region", id))
	}
	if !g.inBounds(spec.Center) {
		return shared.NewTerrainError(g.data.Name, fmt.Sprintf("chokepoint %d center out of bounds", id))
	}
	g.chokepoints[id] = &Chokepoint{ID: id, Regions: [2]RegionID{a, b}, Center: spec.Center, Width: spec.Width}
	g.chokeOrder = append(g.chokeOrder, id)
	ra.Chokepoints = append(ra.Chokepoints, id)
	rb.Chokepoints = append(rb.Chokepoints, id)
	return nil
}

func (g *Graph) labelComponents() {
	component := 0
	for _, start := range g.regionOrder {
		if g.regions[start].Component != 0 {
			continue
		}
		component++
		g.regions[start].Component = component
		queue := []RegionID{start}
		for len(queue) > 0 {
			r := g.regions[queue[0]]
			queue = queue[1:]
			for _, cid := range r.Chokepoints {
				other := g.regions[g.chokepoints[cid].Other(r.ID)]
				if other.Component == 0 {
					other.Component = component
					queue = append(queue, other.ID)
				}
			}
		}
	}
}

// computeDistances runs Floyd-Warshall over chokepoints. Two chokepoints are
// adjacent when they border a common region.
func (g *Graph) computeDistances() {
	n := len(g.chokeOrder)
	g.chokeIndex = make(map[ChokepointID]int, n)
	for i, id := range g.chokeOrder {
		g.chokeIndex[id] = i
	}
	g.dist = make([][]float64, n)
	g.next = make([][]int, n)
	for i := range g.dist {
		g.dist[i] = make([]float64, n)
		g.next[i] = make([]int, n)
		for j := range g.dist[i] {
			g.dist[i][j] = math.Inf(1)
			g.next[i][j] = -1
		}
		g.dist[i][i] = 0
		g.next[i][i] = i
	}
	for _, rid := range g.regionOrder {
		chokes := g.regions[rid].Chokepoints
		for _, a := range chokes {
			for _, b := range chokes {
				if a == b {
					continue
				}
				i, j := g.chokeIndex[a], g.chokeIndex[b]
				w := g.chokepoints[a].Center.DistanceTo(g.chokepoints[b].Center)
				if w < g.dist[i][j] {
					g.dist[i][j] = w
					g.next[i][j] = j
				}
			}
		}
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if g.dist[i][k]+g.dist[k][j] < g.dist[i][j] {
					g.dist[i][j] = g.dist[i][k] + g.dist[k][j]
					g.next[i][j] = g.next[i][k]
				}
			}
		}
	}
}

func (g *Graph) inBounds(t shared.TilePosition) bool {
	return t.X >= 0 && t.Y >= 0 && t.X < g.data.Width && t.Y < g.data.Height
}

// Containment and lookup queries

// RegionAt returns the region containing a tile, or NoRegion
func (g *Graph) RegionAt(t shared.TilePosition) RegionID {
	if g.labels == nil || !g.inBounds(t) {
		return NoRegion
	}
	return g.labels[t.Y*g.data.Width+t.X]
}

// RegionOf returns the region containing a pixel position, or NoRegion
func (g *Graph) RegionOf(p shared.Position) RegionID {
	return g.RegionAt(p.ToTile())
}

// Region returns a region by identifier
func (g *Graph) Region(id RegionID) (*Region, bool) {
	r, ok := g.regions[id]
	return r, ok
}

// Regions returns every region in declaration order
func (g *Graph) Regions() []*Region {
	out := make([]*Region, 0, len(g.regionOrder))
	for _, id := range g.regionOrder {
		out = append(out, g.regions[id])
	}
	return out
}

// Chokepoint returns a chokepoint by identifier
func (g *Graph) Chokepoint(id ChokepointID) (*Chokepoint, bool) {
	c, ok := g.chokepoints[id]
	return c, ok
}

// Chokepoints returns every chokepoint in declaration order
func (g *Graph) Chokepoints() []*Chokepoint {
	out := make([]*Chokepoint, 0, len(g.chokeOrder))
	for _, id := range g.chokeOrder {
		out = append(out, g.chokepoints[id])
	}
	return out
}

// RegionCenter returns the center of the region containing a tile
func (g *Graph) RegionCenter(t shared.TilePosition) (shared.TilePosition, bool) {
	r, ok := g.regions[g.RegionAt(t)]
	if !ok {
		return shared.TilePosition{}, false
	}
	return r.Center, true
}

// BaseLocations returns every candidate townhall tile in map order
func (g *Graph) BaseLocations() []BaseLocation {
	out := make([]BaseLocation, len(g.bases))
	copy(out, g.bases)
	return out
}

// StartLocations returns the base locations players can start at
func (g *Graph) StartLocations() []BaseLocation {
	var out []BaseLocation
	for _, b := range g.bases {
		if b.StartLocation {
			out = append(out, b)
		}
	}
	return out
}

// Distance and connectivity queries

// IsConnected reports whether ground units can travel between two tiles
func (g *Graph) IsConnected(a, b shared.TilePosition) bool {
	ra, okA := g.regions[g.RegionAt(a)]
	rb, okB := g.regions[g.RegionAt(b)]
	return okA && okB && ra.Component == rb.Component
}

// GroundDistance returns the travel distance in tiles between two tiles,
// routed through chokepoint centers, or UnreachableDistance.
func (g *Graph) GroundDistance(a, b shared.TilePosition) float64 {
	d, _, _ := g.route(a, b)
	return d
}

// ShortestPath returns the waypoints from a to b: a, every chokepoint center
// crossed, then b. Unreachable destinations yield nil.
func (g *Graph) ShortestPath(a, b shared.TilePosition) []shared.TilePosition {
	d, from, to := g.route(a, b)
	if d == UnreachableDistance {
		return nil
	}
	path := []shared.TilePosition{a}
	if from >= 0 {
		i := from
		path = append(path, g.chokepoints[g.chokeOrder[i]].Center)
		for i != to {
			i = g.next[i][to]
			path = append(path, g.chokepoints[g.chokeOrder[i]].Center)
		}
	}
	return append(path, b)
}

// route returns the distance and the entry/exit chokepoint indexes of the
// best route (-1 when a and b share a region).
func (g *Graph) route(a, b shared.TilePosition) (float64, int, int) {
	if !g.IsConnected(a, b) {
		return UnreachableDistance, -1, -1
	}
	ra, rb := g.regions[g.RegionAt(a)], g.regions[g.RegionAt(b)]
	if ra.ID == rb.ID {
		return a.DistanceTo(b), -1, -1
	}
	best, bestFrom, bestTo := math.Inf(1), -1, -1
	for _, ca := range ra.Chokepoints {
		i := g.chokeIndex[ca]
		toExit := a.DistanceTo(g.chokepoints[ca].Center)
		for _, cb := range rb.Chokepoints {
			j := g.chokeIndex[cb]
			total := toExit + g.dist[i][j] + g.chokepoints[cb].Center.DistanceTo(b)
			if total < best {
				best, bestFrom, bestTo = total, i, j
			}
		}
	}
	if math.IsInf(best, 1) {
		return UnreachableDistance, -1, -1
	}
	return best, bestFrom, bestTo
}
