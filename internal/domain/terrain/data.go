package terrain

import "github.com/andrescamacho/rtsbot-go/internal/domain/shared"

// Rect is an axis-aligned block of tiles
type Rect struct {
	X int `yaml:"x" validate:"min=0"`
	Y int `yaml:"y" validate:"min=0"`
	W int `yaml:"w" validate:"min=1"`
	H int `yaml:"h" validate:"min=1"`
}

// Contains reports whether the tile lies inside the rect
func (r Rect) Contains(t shared.TilePosition) bool {
	return t.X >= r.X && t.X < r.X+r.W && t.Y >= r.Y && t.Y < r.Y+r.H
}

// RegionSpec is the raw geometry of one region: the union of its areas
type RegionSpec struct {
	ID    int    `yaml:"id" validate:"min=1"`
	Name  string `yaml:"name"`
	Areas []Rect `yaml:"areas" validate:"required,min=1,dive"`
}

// ChokepointSpec names the two regions a chokepoint joins
type ChokepointSpec struct {
	ID      int                 `yaml:"id" validate:"min=1"`
	Regions [2]int              `yaml:"regions"`
	Center  shared.TilePosition `yaml:"center"`
	Width   int                 `yaml:"width" validate:"min=0"`
}

// BaseLocationSpec is a candidate townhall tile
type BaseLocationSpec struct {
	Tile          shared.TilePosition `yaml:"tile"`
	StartLocation bool                `yaml:"start_location"`
}

// Data is the raw terrain description of a map
type Data struct {
	Name          string             `yaml:"name" validate:"required"`
	Width         int                `yaml:"width" validate:"min=1"`
	Height        int                `yaml:"height" validate:"min=1"`
	Regions       []RegionSpec       `yaml:"regions" validate:"required,min=1,dive"`
	Chokepoints   []ChokepointSpec   `yaml:"chokepoints" validate:"dive"`
	BaseLocations []BaseLocationSpec `yaml:"base_locations" validate:"dive"`
}
