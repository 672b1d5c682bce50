package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/mapdata"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/terrain"
)

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand() *cobra.Command {
	var (
		mapPath  string
		startX   int
		startY   int
		noColors bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a map's regions and chokepoints",
		Long: `Load a map description, analyze its terrain and print the region graph
as seen from a start location, with chokepoints ranked by depth.

Without --x/--y the first start location of the map is used.

Examples:
  rtsbot analyze --map maps/example.yaml
  rtsbot analyze --map maps/example.yaml --x 112 --y 82`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if mapPath == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				mapPath = cfg.Map.Path
			}

			m, err := mapdata.Load(mapPath)
			if err != nil {
				return err
			}
			g := terrain.NewGraph(m.Terrain)
			if err := g.Analyze(); err != nil {
				return fmt.Errorf("failed to analyze map: %w", err)
			}

			from, err := startTile(g, cmd.Flags().Changed("x") || cmd.Flags().Changed("y"), startX, startY)
			if err != nil {
				return err
			}
			g.RankFrom(from)

			f := NewTerrainFormatter(!noColors && isTerminal(os.Stdout))
			fmt.Println(f.FormatSummary(g))
			fmt.Printf("Hash: %s\n\n", m.Hash)
			fmt.Printf("Regions from %s:\n", from)
			fmt.Print(f.FormatTree(g, g.RegionAt(from)))

			if best := g.BestChokepoint(g.RegionAt(from)); best != terrain.NoChokepoint {
				fmt.Printf("\nChokepoint to hold: C%d\n", best)
			}
			fmt.Println("\nBases:")
			fmt.Print(f.FormatBases(g, from))
			fmt.Printf("\nStatics: %d\n", len(m.Statics))
			return nil
		},
	}

	cmd.Flags().StringVar(&mapPath, "map", "", "Map description to analyze (default: map.path)")
	cmd.Flags().IntVar(&startX, "x", 0, "Start tile x")
	cmd.Flags().IntVar(&startY, "y", 0, "Start tile y")
	cmd.Flags().BoolVar(&noColors, "no-color", false, "Disable colored output")

	return cmd
}

func startTile(g *terrain.Graph, explicit bool, x, y int) (shared.TilePosition, error) {
	if explicit {
		t := shared.NewTilePosition(x, y)
		if g.RegionAt(t) == terrain.NoRegion {
			return t, fmt.Errorf("start %s is outside every region", t)
		}
		return t, nil
	}
	starts := g.StartLocations()
	if len(starts) == 0 {
		return shared.TilePosition{}, fmt.Errorf("map %s has no start location: pass --x and --y", g.Name())
	}
	return starts[0].Tile, nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
