package shared

import (
	"fmt"
	"math"
)

// TileSize is the edge length of one build tile in pixels.
const TileSize = 32

// TilePosition addresses one build tile on the map.
type TilePosition struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Position is a pixel-precise map coordinate.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// NewTilePosition creates a tile position
func NewTilePosition(x, y int) TilePosition {
	return TilePosition{X: x, Y: y}
}

// ToPosition returns the pixel coordinate of the tile's top-left corner
func (t TilePosition) ToPosition() Position {
	return Position{X: t.X * TileSize, Y: t.Y * TileSize}
}

// DistanceTo calculates the Euclidean distance to another tile, in tiles
func (t TilePosition) DistanceTo(other TilePosition) float64 {
	dx := float64(other.X - t.X)
	dy := float64(other.Y - t.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Add offsets the tile by dx, dy
func (t TilePosition) Add(dx, dy int) TilePosition {
	return TilePosition{X: t.X + dx, Y: t.Y + dy}
}

func (t TilePosition) String() string {
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}

// ToTile returns the tile containing this position
func (p Position) ToTile() TilePosition {
	return TilePosition{X: floorDiv(p.X, TileSize), Y: floorDiv(p.Y, TileSize)}
}

func (p Position) String() string {
	return fmt.Sprintf("[%d,%d]", p.X, p.Y)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
