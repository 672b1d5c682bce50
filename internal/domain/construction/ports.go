package construction

import (
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/terrain"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// CommandIssuer sends fire-and-forget build orders to the simulation.
// A nil error only means the order was dispatched, not that it succeeded.
type CommandIssuer interface {
	Build(builder unit.ID, buildingType unit.TypeTag, tile shared.TilePosition) error
}

// BuildabilityChecker answers whether a building type fits on a tile right
// now, considering every unit on the map except the builder itself.
type BuildabilityChecker interface {
	CanBuildHere(tile shared.TilePosition, buildingType unit.TypeTag, builder unit.ID) bool
}

// TerrainQuery is the read-only part of the terrain graph placement needs
type TerrainQuery interface {
	BaseLocations() []terrain.BaseLocation
	IsConnected(a, b shared.TilePosition) bool
	GroundDistance(a, b shared.TilePosition) float64
}
