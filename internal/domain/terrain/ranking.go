package terrain

import "github.com/andrescamacho/rtsbot-go/internal/domain/shared"

// RankChokepoints recomputes every chokepoint's depth from scratch: the
// minimum number of chokepoint traversals needed to reach it from start.
// Chokepoints bordering start get depth 0. Chokepoints in other components
// keep UnknownDepth. The ranking is returned in traversal order.
func (g *Graph) RankChokepoints(start RegionID) []RankedChokepoint {
	g.rankStart = start
	g.depths = make(map[ChokepointID]int, len(g.chokepoints))
	g.ranking = nil

	if _, ok := g.regions[start]; !ok {
		return nil
	}

	visited := map[RegionID]bool{start: true}
	frontier := []RegionID{start}
	for depth := 0; len(frontier) > 0; depth++ {
		var nextFrontier []RegionID
		for _, rid := range frontier {
			for _, cid := range g.regions[rid].Chokepoints {
				if _, ranked := g.depths[cid]; ranked {
					continue
				}
				g.depths[cid] = depth
				g.ranking = append(g.ranking, RankedChokepoint{Chokepoint: cid, Depth: depth})
				other := g.chokepoints[cid].Other(rid)
				if !visited[other] {
					visited[other] = true
					nextFrontier = append(nextFrontier, other)
				}
			}
		}
		frontier = nextFrontier
	}
	return g.Ranking()
}

// RankFrom ranks chokepoints from the region containing a tile
func (g *Graph) RankFrom(t shared.TilePosition) []RankedChokepoint {
	return g.RankChokepoints(g.RegionAt(t))
}

// RankedFrom returns the start region of the current ranking
func (g *Graph) RankedFrom() RegionID {
	return g.rankStart
}

// Ranking returns the current ranking in traversal order
func (g *Graph) Ranking() []RankedChokepoint {
	out := make([]RankedChokepoint, len(g.ranking))
	copy(out, g.ranking)
	return out
}

// Depth returns a chokepoint's rank, or UnknownDepth
func (g *Graph) Depth(id ChokepointID) int {
	if d, ok := g.depths[id]; ok {
		return d
	}
	return UnknownDepth
}

// BestChokepoint returns the region's chokepoint with the lowest rank, ties
// broken by the region's chokepoint order. Unranked chokepoints lose to
// ranked ones. Regions without chokepoints yield NoChokepoint.
func (g *Graph) BestChokepoint(region RegionID) ChokepointID {
	r, ok := g.regions[region]
	if !ok || len(r.Chokepoints) == 0 {
		return NoChokepoint
	}
	best := r.Chokepoints[0]
	for _, cid := range r.Chokepoints[1:] {
		if rankLess(g.Depth(cid), g.Depth(best)) {
			best = cid
		}
	}
	return best
}

// ChokepointAtDepth returns the first chokepoint in traversal order with the
// given rank, or NoChokepoint
func (g *Graph) ChokepointAtDepth(depth int) ChokepointID {
	if depth < 0 {
		return NoChokepoint
	}
	for _, rc := range g.ranking {
		if rc.Depth == depth {
			return rc.Chokepoint
		}
	}
	return NoChokepoint
}

func rankLess(a, b int) bool {
	if a == UnknownDepth {
		return false
	}
	if b == UnknownDepth {
		return true
	}
	return a < b
}
