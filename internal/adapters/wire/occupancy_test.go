package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/wire"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/terrain"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
	"github.com/andrescamacho/rtsbot-go/test/helpers"
)

func newOccupancy(t *testing.T) *wire.Occupancy {
	t.Helper()
	g := terrain.NewGraph(helpers.TwoBaseMap())
	require.NoError(t, g.Analyze())
	return wire.NewOccupancy(unit.DefaultCatalog(), g)
}

func at(id unit.ID, tag unit.TypeTag, x, y int) unit.Observation {
	return unit.Observation{ID: id, Type: tag, Position: shared.NewTilePosition(x, y).ToPosition(), Completed: true}
}

func TestOccupancy_FootprintBlocksOverlap(t *testing.T) {
	// Arrange
	o := newOccupancy(t)
	o.Place(at(100, unit.TerranCommandCenter, 10, 10))

	// Act / Assert
	assert.False(t, o.CanBuildHere(shared.NewTilePosition(12, 11), unit.TerranSupplyDepot, 1))
	assert.True(t, o.CanBuildHere(shared.NewTilePosition(14, 10), unit.TerranSupplyDepot, 1))
	id, ok := o.Occupant(shared.NewTilePosition(13, 12))
	assert.True(t, ok)
	assert.Equal(t, unit.ID(100), id)
}

func TestOccupancy_MobileUnitsOccupyNothing(t *testing.T) {
	// Arrange
	o := newOccupancy(t)
	o.Place(at(7, unit.TerranSCV, 20, 20))

	// Act
	_, occupied := o.Occupant(shared.NewTilePosition(20, 20))

	// Assert
	assert.False(t, occupied)
	assert.True(t, o.CanBuildHere(shared.NewTilePosition(20, 20), unit.TerranSupplyDepot, 0))
}

func TestOccupancy_MorphReplacesFootprint(t *testing.T) {
	// Arrange
	o := newOccupancy(t)
	o.Place(at(600, unit.VespeneGeyser, 8, 3))

	// Act
	o.Place(at(600, unit.TerranRefinery, 8, 3))

	// Assert
	assert.False(t, o.CanBuildHere(shared.NewTilePosition(8, 3), unit.TerranRefinery, 1))
}

func TestOccupancy_OffMapIsUnbuildable(t *testing.T) {
	// Arrange
	o := newOccupancy(t)

	// Act / Assert
	assert.False(t, o.CanBuildHere(shared.NewTilePosition(62, 5), unit.TerranBarracks, 1))
	assert.False(t, o.CanBuildHere(shared.NewTilePosition(-1, 5), unit.TerranSupplyDepot, 1))
}

func TestOccupancy_RemoveFreesTiles(t *testing.T) {
	// Arrange
	o := newOccupancy(t)
	o.Place(at(100, unit.TerranBarracks, 10, 10))

	// Act
	o.Remove(100)

	// Assert
	assert.True(t, o.CanBuildHere(shared.NewTilePosition(10, 10), unit.TerranBarracks, 1))
}

func TestOccupancy_RefineryNeedsGeyserAnchor(t *testing.T) {
	// Arrange
	o := newOccupancy(t)
	o.Place(at(600, unit.VespeneGeyser, 8, 3))

	// Act / Assert
	assert.True(t, o.CanBuildHere(shared.NewTilePosition(8, 3), unit.TerranRefinery, 1))
	assert.False(t, o.CanBuildHere(shared.NewTilePosition(9, 3), unit.TerranRefinery, 1))
	assert.False(t, o.CanBuildHere(shared.NewTilePosition(20, 20), unit.TerranRefinery, 1))
}

func TestOccupancy_NonConstructibleTypes(t *testing.T) {
	// Arrange
	o := newOccupancy(t)

	// Act / Assert
	assert.False(t, o.CanBuildHere(shared.NewTilePosition(20, 20), unit.TerranSCV, 1))
	assert.False(t, o.CanBuildHere(shared.NewTilePosition(20, 20), "Unknown_Type", 1))
}
