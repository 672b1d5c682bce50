package mapdata_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/mapdata"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/terrain"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

const twoBase = `
name: two-base
width: 64
height: 32
regions:
  - id: 1
    name: main
    areas: [{x: 0, y: 0, w: 32, h: 32}]
  - id: 2
    name: natural
    areas: [{x: 32, y: 0, w: 32, h: 32}]
chokepoints:
  - id: 1
    regions: [1, 2]
    center: {x: 32, y: 16}
    width: 4
base_locations:
  - tile: {x: 8, y: 8}
    start_location: true
  - tile: {x: 40, y: 8}
statics:
  - id: 501
    type: Resource_Mineral_Field
    tile: {x: 4, y: 8}
  - id: 600
    type: Resource_Vespene_Geyser
    tile: {x: 8, y: 3}
`

func TestParse_LoadsTerrainAndStatics(t *testing.T) {
	// Act
	m, err := mapdata.Parse([]byte(twoBase))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "two-base", m.Terrain.Name)
	assert.Len(t, m.Terrain.Regions, 2)
	assert.Equal(t, [2]int{1, 2}, m.Terrain.Chokepoints[0].Regions)
	assert.True(t, m.Terrain.BaseLocations[0].StartLocation)
	require.Len(t, m.Statics, 2)
	assert.Equal(t, unit.ID(501), m.Statics[0].ID)
	assert.Equal(t, shared.NeutralPlayer, m.Statics[0].Owner)
	assert.Equal(t, shared.Position{X: 128, Y: 256}, m.Statics[0].Position)
	assert.True(t, m.Statics[1].Completed)
	assert.Len(t, m.Hash, 64)
}

func TestParse_AnalyzesIntoGraph(t *testing.T) {
	// Arrange
	m, err := mapdata.Parse([]byte(twoBase))
	require.NoError(t, err)

	// Act
	g := terrain.NewGraph(m.Terrain)
	err = g.Analyze()

	// Assert
	require.NoError(t, err)
	assert.True(t, g.IsConnected(shared.NewTilePosition(8, 8), shared.NewTilePosition(40, 8)))
}

func TestParse_HashTracksContent(t *testing.T) {
	// Arrange
	a, err := mapdata.Parse([]byte(twoBase))
	require.NoError(t, err)

	// Act
	b, err := mapdata.Parse([]byte(twoBase + "\n# edited\n"))
	require.NoError(t, err)

	// Assert
	assert.NotEqual(t, a.Hash, b.Hash)
	assert.Equal(t, a.Hash, mapdata.Hash([]byte(twoBase)))
}

func TestParse_RejectsInvalidMaps(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"missing name", "width: 8\nheight: 8\nregions: [{id: 1, areas: [{x: 0, y: 0, w: 8, h: 8}]}]\n", "name"},
		{"zero width", "name: m\nwidth: 0\nheight: 8\nregions: [{id: 1, areas: [{x: 0, y: 0, w: 8, h: 8}]}]\n", "width"},
		{"no regions", "name: m\nwidth: 8\nheight: 8\n", "regions"},
		{"empty area", "name: m\nwidth: 8\nheight: 8\nregions: [{id: 1, areas: [{x: 0, y: 0, w: 0, h: 8}]}]\n", "regions[0].areas[0].w"},
		{"unknown key", "name: m\nwidht: 8\n", "widht"},
		{"static without type", "name: m\nwidth: 8\nheight: 8\nregions: [{id: 1, areas: [{x: 0, y: 0, w: 8, h: 8}]}]\nstatics: [{id: 3, tile: {x: 1, y: 1}}]\n", "statics[0].type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, err := mapdata.Parse([]byte(tt.raw))

			// Assert
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_RejectsDuplicateStaticIDs(t *testing.T) {
	// Arrange
	raw := twoBase + "  - id: 501\n    type: Resource_Mineral_Field\n    tile: {x: 5, y: 9}\n"

	// Act
	_, err := mapdata.Parse([]byte(raw))

	// Assert
	var validationErr *shared.ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestLoad_ReadsFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "two-base.yaml")
	require.NoError(t, os.WriteFile(path, []byte(twoBase), 0o644))

	// Act
	m, err := mapdata.Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "two-base", m.Terrain.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	// Act
	_, err := mapdata.Load(filepath.Join(t.TempDir(), "absent.yaml"))

	// Assert
	assert.Error(t, err)
}

func TestLoad_ExampleMap(t *testing.T) {
	// Arrange
	m, err := mapdata.Load(filepath.Join("..", "..", "..", "maps", "example.yaml"))
	require.NoError(t, err)
	g := terrain.NewGraph(m.Terrain)

	// Act
	require.NoError(t, g.Analyze())
	ranking := g.RankFrom(shared.NewTilePosition(12, 12))

	// Assert
	assert.Equal(t, "crossroads", g.Name())
	assert.Len(t, g.Regions(), 6)
	assert.Len(t, g.StartLocations(), 2)
	assert.Len(t, m.Statics, 12)
	assert.Equal(t, []terrain.RankedChokepoint{
		{Chokepoint: 1, Depth: 0},
		{Chokepoint: 2, Depth: 1},
		{Chokepoint: 3, Depth: 2},
		{Chokepoint: 4, Depth: 3},
	}, ranking)
	assert.True(t, g.IsConnected(shared.NewTilePosition(12, 12), shared.NewTilePosition(112, 82)))
	assert.False(t, g.IsConnected(shared.NewTilePosition(12, 12), shared.NewTilePosition(62, 46)))
}
