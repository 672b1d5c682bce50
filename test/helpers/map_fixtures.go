package helpers

import (
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/terrain"
)

// MainStart is the start location of TwoBaseMap
var MainStart = shared.NewTilePosition(8, 8)

// NaturalBase is the second base location of TwoBaseMap
var NaturalBase = shared.NewTilePosition(40, 8)

// TwoBaseMap is a 64x32 map split into a main and a natural region joined
// by a single chokepoint
func TwoBaseMap() terrain.Data {
	return terrain.Data{
		Name:   "two-base",
		Width:  64,
		Height: 32,
		Regions: []terrain.RegionSpec{
			{ID: 1, Name: "main", Areas: []terrain.Rect{{X: 0, Y: 0, W: 32, H: 32}}},
			{ID: 2, Name: "natural", Areas: []terrain.Rect{{X: 32, Y: 0, W: 32, H: 32}}},
		},
		Chokepoints: []terrain.ChokepointSpec{
			{ID: 1, Regions: [2]int{1, 2}, Center: shared.NewTilePosition(32, 16), Width: 4},
		},
		BaseLocations: []terrain.BaseLocationSpec{
			{Tile: MainStart, StartLocation: true},
			{Tile: NaturalBase},
		},
	}
}
