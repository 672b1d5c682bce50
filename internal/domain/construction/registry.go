package construction

import (
	"fmt"

	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// Spiral search bounds around the main base, in tiles
const (
	DefaultSpiralMinRadius = 3
	DefaultSpiralMaxRadius = 20
)

// PlacementRegistry maps building types onto placement strategies. It is
// built once at match start and passed to the scheduler explicitly.
type PlacementRegistry struct {
	strategies map[unit.TypeTag]PlacementStrategy
	fallback   PlacementStrategy
}

// NewPlacementRegistry creates an empty registry with a fallback strategy
// for unregistered types
func NewPlacementRegistry(fallback PlacementStrategy) *PlacementRegistry {
	return &PlacementRegistry{
		strategies: make(map[unit.TypeTag]PlacementStrategy),
		fallback:   fallback,
	}
}

// NewDefaultPlacementRegistry registers expansion placement for every
// constructible townhall type and spiral placement for everything else
func NewDefaultPlacementRegistry(catalog *unit.TypeCatalog, terrain TerrainQuery, buildable BuildabilityChecker) *PlacementRegistry {
	registry := NewPlacementRegistry(NewSpiralPlacement(buildable, DefaultSpiralMinRadius, DefaultSpiralMaxRadius))
	expansion := NewExpansionPlacement(terrain, buildable)
	for _, tag := range catalog.Tags() {
		info, _ := catalog.Lookup(tag)
		if info.IsExpansion() && info.Has(unit.TraitConstructible) {
			registry.Register(tag, expansion)
		}
	}
	return registry
}

// Register binds a strategy to a building type
func (r *PlacementRegistry) Register(buildingType unit.TypeTag, strategy PlacementStrategy) {
	r.strategies[buildingType] = strategy
}

// For returns the strategy for a building type
func (r *PlacementRegistry) For(buildingType unit.TypeTag) (PlacementStrategy, error) {
	if s, ok := r.strategies[buildingType]; ok {
		return s, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("no placement strategy for %s", buildingType)
}
