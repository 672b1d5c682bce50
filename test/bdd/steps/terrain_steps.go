package steps

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/mapdata"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/terrain"
)

// mapsDir is relative to the package running the suite
var mapsDir = filepath.Join("..", "..", "maps")

type terrainContext struct {
	graph   *terrain.Graph
	ranking []terrain.RankedChokepoint
	start   shared.TilePosition
}

// InitializeTerrainScenario registers the map analysis steps
func InitializeTerrainScenario(sc *godog.ScenarioContext) {
	tc := &terrainContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		*tc = terrainContext{}
		return ctx, nil
	})

	sc.Step(`^the map "([^"]*)" is analyzed$`, tc.mapIsAnalyzed)
	sc.Step(`^chokepoints are ranked from tile (\d+),(\d+)$`, tc.rankFrom)
	sc.Step(`^the ranking should be:$`, tc.rankingShouldBe)
	sc.Step(`^the chokepoint to hold should be (\d+)$`, tc.chokepointToHold)
	sc.Step(`^tile (\d+),(\d+) should be unreachable$`, tc.tileUnreachable)
	sc.Step(`^tile (\d+),(\d+) should be (\d+) tiles away by ground$`, tc.groundDistance)
}

func (tc *terrainContext) mapIsAnalyzed(file string) error {
	m, err := mapdata.Load(filepath.Join(mapsDir, file))
	if err != nil {
		return err
	}
	tc.graph = terrain.NewGraph(m.Terrain)
	return tc.graph.Analyze()
}

func (tc *terrainContext) rankFrom(x, y int) error {
	tc.start = shared.NewTilePosition(x, y)
	tc.ranking = tc.graph.RankFrom(tc.start)
	return nil
}

func (tc *terrainContext) rankingShouldBe(table *godog.Table) error {
	records, err := tableRecords(table)
	if err != nil {
		return err
	}
	if len(records) != len(tc.ranking) {
		return fmt.Errorf("expected %d ranked chokepoints, got %d", len(records), len(tc.ranking))
	}
	for i, r := range records {
		id, err := atoi(r, "chokepoint")
		if err != nil {
			return err
		}
		depth, err := atoi(r, "depth")
		if err != nil {
			return err
		}
		got := tc.ranking[i]
		if int(got.Chokepoint) != id || got.Depth != depth {
			return fmt.Errorf("rank %d: expected C%d at depth %d, got C%d at depth %d",
				i, id, depth, got.Chokepoint, got.Depth)
		}
	}
	return nil
}

func (tc *terrainContext) chokepointToHold(id int) error {
	best := tc.graph.BestChokepoint(tc.graph.RegionAt(tc.start))
	if int(best) != id {
		return fmt.Errorf("expected chokepoint %d to hold, got %d", id, best)
	}
	return nil
}

func (tc *terrainContext) tileUnreachable(x, y int) error {
	if tc.graph.IsConnected(tc.start, shared.NewTilePosition(x, y)) {
		return fmt.Errorf("tile %d,%d is reachable from %s", x, y, tc.start)
	}
	return nil
}

func (tc *terrainContext) groundDistance(x, y, want int) error {
	d := tc.graph.GroundDistance(tc.start, shared.NewTilePosition(x, y))
	if int(d+0.5) != want {
		return fmt.Errorf("expected ground distance %d, got %.2f", want, d)
	}
	return nil
}
