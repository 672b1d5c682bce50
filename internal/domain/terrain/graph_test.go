package terrain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/terrain"
)

func tile(x, y int) shared.TilePosition { return shared.NewTilePosition(x, y) }

// chainMap lays out regions 1-4 left to right joined by chokepoints 1-3, an
// island pair 5-6 joined by chokepoint 4, and a dead-end region 7 with no
// chokepoints. Row 11 outside region 7 belongs to no region.
func chainMap() terrain.Data {
	return terrain.Data{
		Name:   "chain",
		Width:  50,
		Height: 12,
		Regions: []terrain.RegionSpec{
			{ID: 1, Areas: []terrain.Rect{{X: 0, Y: 0, W: 10, H: 10}}},
			{ID: 2, Areas: []terrain.Rect{{X: 10, Y: 0, W: 10, H: 10}}},
			{ID: 3, Areas: []terrain.Rect{{X: 20, Y: 0, W: 10, H: 10}}},
			{ID: 4, Areas: []terrain.Rect{{X: 30, Y: 0, W: 10, H: 10}}},
			{ID: 5, Areas: []terrain.Rect{{X: 40, Y: 0, W: 5, H: 10}}},
			{ID: 6, Areas: []terrain.Rect{{X: 45, Y: 0, W: 5, H: 10}}},
			{ID: 7, Areas: []terrain.Rect{{X: 0, Y: 10, W: 5, H: 2}}},
		},
		Chokepoints: []terrain.ChokepointSpec{
			{ID: 1, Regions: [2]int{1, 2}, Center: tile(10, 5), Width: 3},
			{ID: 2, Regions: [2]int{2, 3}, Center: tile(20, 5), Width: 3},
			{ID: 3, Regions: [2]int{3, 4}, Center: tile(30, 5), Width: 3},
			{ID: 4, Regions: [2]int{5, 6}, Center: tile(45, 5), Width: 2},
		},
		BaseLocations: []terrain.BaseLocationSpec{
			{Tile: tile(3, 3), StartLocation: true},
			{Tile: tile(35, 3), StartLocation: true},
			{Tile: tile(15, 3)},
		},
	}
}

func analyzed(t *testing.T) *terrain.Graph {
	t.Helper()
	g := terrain.NewGraph(chainMap())
	require.NoError(t, g.Analyze())
	return g
}

func TestRankChokepoints_ChainYieldsIncreasingDepths(t *testing.T) {
	// Arrange
	g := analyzed(t)

	// Act
	ranking := g.RankChokepoints(1)

	// Assert
	require.Len(t, ranking, 3)
	assert.Equal(t, []terrain.RankedChokepoint{
		{Chokepoint: 1, Depth: 0},
		{Chokepoint: 2, Depth: 1},
		{Chokepoint: 3, Depth: 2},
	}, ranking)
}

func TestRankChokepoints_DisconnectedIsUnknown(t *testing.T) {
	g := analyzed(t)

	g.RankChokepoints(1)

	assert.Equal(t, terrain.UnknownDepth, g.Depth(4))
	for _, rc := range g.Ranking() {
		assert.NotEqual(t, terrain.UnknownDepth, rc.Depth)
	}
	assert.Less(t, terrain.UnknownDepth, 0, "sentinel must never collide with a real depth")
}

func TestRankChokepoints_RecomputedWhenStartChanges(t *testing.T) {
	// Arrange
	g := analyzed(t)
	g.RankChokepoints(1)
	require.Equal(t, terrain.ChokepointID(1), g.BestChokepoint(2))

	// Act: main base lost, rank from the far end instead
	g.RankChokepoints(4)

	// Assert
	assert.Equal(t, terrain.RegionID(4), g.RankedFrom())
	assert.Equal(t, 0, g.Depth(3))
	assert.Equal(t, 1, g.Depth(2))
	assert.Equal(t, 2, g.Depth(1))
	assert.Equal(t, terrain.ChokepointID(2), g.BestChokepoint(2))
}

func TestRankChokepoints_UnknownStartClearsRanking(t *testing.T) {
	g := analyzed(t)
	g.RankChokepoints(1)

	assert.Empty(t, g.RankFrom(tile(10, 11)))
	assert.Equal(t, terrain.UnknownDepth, g.Depth(1))
}

func TestBestChokepoint_NoneForRegionWithoutChokepoints(t *testing.T) {
	g := analyzed(t)
	g.RankChokepoints(1)

	assert.Equal(t, terrain.NoChokepoint, g.BestChokepoint(7))
	assert.Equal(t, terrain.NoChokepoint, g.BestChokepoint(99))
}

func TestBestChokepoint_UnrankedLosesToRanked(t *testing.T) {
	g := analyzed(t)

	// nothing ranked yet: the first chokepoint in region order wins
	assert.Equal(t, terrain.ChokepointID(1), g.BestChokepoint(2))

	g.RankChokepoints(3)
	assert.Equal(t, terrain.ChokepointID(2), g.BestChokepoint(2))
}

func TestChokepointAtDepth(t *testing.T) {
	g := analyzed(t)
	g.RankChokepoints(1)

	assert.Equal(t, terrain.ChokepointID(2), g.ChokepointAtDepth(1))
	assert.Equal(t, terrain.NoChokepoint, g.ChokepointAtDepth(7))
	assert.Equal(t, terrain.NoChokepoint, g.ChokepointAtDepth(terrain.UnknownDepth))
}

func TestGroundDistance(t *testing.T) {
	g := analyzed(t)

	assert.InDelta(t, 5.0, g.GroundDistance(tile(1, 1), tile(4, 5)), 1e-9, "same region is straight line")
	assert.InDelta(t, 33.0, g.GroundDistance(tile(2, 5), tile(35, 5)), 1e-9, "routed through three chokepoints")
	assert.Equal(t, terrain.UnreachableDistance, g.GroundDistance(tile(2, 5), tile(42, 5)))
	assert.Equal(t, terrain.UnreachableDistance, g.GroundDistance(tile(2, 5), tile(10, 11)))
}

func TestIsConnected(t *testing.T) {
	g := analyzed(t)

	assert.True(t, g.IsConnected(tile(2, 5), tile(35, 5)))
	assert.True(t, g.IsConnected(tile(41, 5), tile(48, 5)))
	assert.False(t, g.IsConnected(tile(2, 5), tile(41, 5)))
	assert.False(t, g.IsConnected(tile(2, 5), tile(2, 10)))
}

func TestShortestPath(t *testing.T) {
	g := analyzed(t)

	path := g.ShortestPath(tile(2, 5), tile(35, 5))

	assert.Equal(t, []shared.TilePosition{
		tile(2, 5), tile(10, 5), tile(20, 5), tile(30, 5), tile(35, 5),
	}, path)
	assert.Nil(t, g.ShortestPath(tile(2, 5), tile(42, 5)))
}

func TestRegionOf(t *testing.T) {
	g := analyzed(t)

	assert.Equal(t, terrain.RegionID(3), g.RegionOf(shared.Position{X: 25 * 32, Y: 100}))
	assert.Equal(t, terrain.NoRegion, g.RegionOf(shared.Position{X: 20 * 32, Y: 11 * 32}))
	assert.Equal(t, terrain.NoRegion, g.RegionOf(shared.Position{X: -5, Y: 0}))

	center, ok := g.RegionCenter(tile(12, 2))
	require.True(t, ok)
	assert.Equal(t, tile(15, 5), center)
}

func TestBaseLocations(t *testing.T) {
	g := analyzed(t)

	assert.Len(t, g.BaseLocations(), 3)
	starts := g.StartLocations()
	require.Len(t, starts, 2)
	assert.Equal(t, terrain.RegionID(1), starts[0].Region)
	assert.Equal(t, terrain.RegionID(4), starts[1].Region)
}

func TestQueriesBeforeAnalyzeAreTotal(t *testing.T) {
	g := terrain.NewGraph(chainMap())

	assert.Equal(t, terrain.NoRegion, g.RegionAt(tile(1, 1)))
	assert.False(t, g.IsConnected(tile(1, 1), tile(2, 2)))
	assert.Equal(t, terrain.UnreachableDistance, g.GroundDistance(tile(1, 1), tile(2, 2)))
	assert.Equal(t, terrain.NoChokepoint, g.BestChokepoint(1))
	assert.Empty(t, g.RankChokepoints(1))
}

func TestAnalyze_RejectsBrokenGeometry(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *terrain.Data)
	}{
		{"overlapping regions", func(d *terrain.Data) {
			d.Regions[1].Areas[0].X = 5
		}},
		{"area out of bounds", func(d *terrain.Data) {
			d.Regions[0].Areas[0].W = 100
		}},
		{"chokepoint to itself", func(d *terrain.Data) {
			d.Chokepoints[0].Regions = [2]int{1, 1}
		}},
		{"chokepoint to unknown region", func(d *terrain.Data) {
			d.Chokepoints[0].Regions = [2]int{1, 42}
		}},
		{"duplicate region", func(d *terrain.Data) {
			d.Regions[6].ID = 1
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := chainMap()
			tt.mutate(&data)

			err := terrain.NewGraph(data).Analyze()

			var terrainErr *shared.TerrainError
			require.True(t, errors.As(err, &terrainErr), "got %v", err)
			assert.Equal(t, "chain", terrainErr.MapName)
		})
	}
}
