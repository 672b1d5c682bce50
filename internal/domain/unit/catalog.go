package unit

import (
	"sort"

	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
)

// TypeTag is the simulation's name for a unit type, e.g. "Terran_SCV"
type TypeTag string

// Trait is a capability selected by a unit's type
type Trait uint8

const (
	// TraitTrainer marks types that produce other units
	TraitTrainer Trait = 1 << iota
	// TraitConstructible marks types a worker can be ordered to build on a tile
	TraitConstructible
	// TraitAttacker marks types that can deal damage
	TraitAttacker
)

// Cost is the price the simulation charges to produce one unit of a type
type Cost struct {
	Minerals int
	Gas      int
	Supply   int
}

// TypeInfo is the flat description of one unit type
type TypeInfo struct {
	Tag      TypeTag
	Category Category
	Cost     Cost
	// Footprint in build tiles; zero for mobile units
	Width  int
	Height int
	traits Trait
}

// Has reports whether the type carries a capability
func (t TypeInfo) Has(trait Trait) bool {
	return t.traits&trait != 0
}

// IsExpansion reports whether placing this type claims a new base location
func (t TypeInfo) IsExpansion() bool {
	return t.Category == CategoryTownhall && t.Has(TraitConstructible)
}

// TypeCatalog maps type tags onto categories and capabilities.
// It is built once per match and treated as read-only afterwards.
type TypeCatalog struct {
	types map[TypeTag]TypeInfo
}

// NewTypeCatalog creates a catalog from explicit type descriptions
func NewTypeCatalog(infos ...TypeInfo) *TypeCatalog {
	c := &TypeCatalog{types: make(map[TypeTag]TypeInfo, len(infos))}
	for _, info := range infos {
		c.types[info.Tag] = info
	}
	return c
}

// Lookup returns the description of a type tag
func (c *TypeCatalog) Lookup(tag TypeTag) (TypeInfo, bool) {
	info, ok := c.types[tag]
	return info, ok
}

// Classify maps a type tag onto its category. Unknown tags yield an
// UnknownUnitTypeError.
func (c *TypeCatalog) Classify(tag TypeTag, unitID ID) (Category, error) {
	info, ok := c.types[tag]
	if !ok || !info.Category.IsValid() {
		return 0, shared.NewUnknownUnitTypeError(string(tag), int(unitID))
	}
	return info.Category, nil
}

// Tags returns every known tag, sorted
func (c *TypeCatalog) Tags() []TypeTag {
	tags := make([]TypeTag, 0, len(c.types))
	for tag := range c.types {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Type tags used by the core directly
const (
	TerranSCV           TypeTag = "Terran_SCV"
	TerranCommandCenter TypeTag = "Terran_Command_Center"
	TerranRefinery      TypeTag = "Terran_Refinery"
	TerranBunker        TypeTag = "Terran_Bunker"
	TerranBarracks      TypeTag = "Terran_Barracks"
	TerranSupplyDepot   TypeTag = "Terran_Supply_Depot"
	ProtossProbe        TypeTag = "Protoss_Probe"
	ProtossNexus        TypeTag = "Protoss_Nexus"
	ZergDrone           TypeTag = "Zerg_Drone"
	ZergHatchery        TypeTag = "Zerg_Hatchery"
	ZergLair            TypeTag = "Zerg_Lair"
	ZergHive            TypeTag = "Zerg_Hive"
	MineralField        TypeTag = "Resource_Mineral_Field"
	VespeneGeyser       TypeTag = "Resource_Vespene_Geyser"
)

func building(tag TypeTag, category Category, minerals, gas, w, h int, traits Trait) TypeInfo {
	return TypeInfo{
		Tag:      tag,
		Category: category,
		Cost:     Cost{Minerals: minerals, Gas: gas},
		Width:    w,
		Height:   h,
		traits:   traits | TraitConstructible,
	}
}

// upgrade describes a building that morphs in place from another building;
// no worker places it
func upgrade(tag TypeTag, category Category, minerals, gas, w, h int, traits Trait) TypeInfo {
	info := building(tag, category, minerals, gas, w, h, traits)
	info.traits &^= TraitConstructible
	return info
}

func mobile(tag TypeTag, category Category, minerals, gas, supply int, traits Trait) TypeInfo {
	return TypeInfo{
		Tag:      tag,
		Category: category,
		Cost:     Cost{Minerals: minerals, Gas: gas, Supply: supply},
		traits:   traits,
	}
}

func resource(tag TypeTag, category Category, w, h int) TypeInfo {
	return TypeInfo{Tag: tag, Category: category, Width: w, Height: h}
}

// DefaultCatalog describes the unit types of the three standard races plus
// neutral resources and critters.
func DefaultCatalog() *TypeCatalog {
	return NewTypeCatalog(
		// workers
		mobile(TerranSCV, CategoryWorker, 50, 0, 1, TraitAttacker),
		mobile(ProtossProbe, CategoryWorker, 50, 0, 1, TraitAttacker),
		mobile(ZergDrone, CategoryWorker, 50, 0, 1, TraitAttacker),

		// townhalls
		building(TerranCommandCenter, CategoryTownhall, 400, 0, 4, 3, TraitTrainer),
		building(ProtossNexus, CategoryTownhall, 400, 0, 4, 3, TraitTrainer),
		building(ZergHatchery, CategoryTownhall, 300, 0, 4, 3, TraitTrainer),
		upgrade(ZergLair, CategoryTownhall, 150, 100, 4, 3, TraitTrainer),
		upgrade(ZergHive, CategoryTownhall, 200, 150, 4, 3, TraitTrainer),

		// refineries
		building(TerranRefinery, CategoryRefinery, 100, 0, 4, 2, 0),
		building("Protoss_Assimilator", CategoryRefinery, 100, 0, 4, 2, 0),
		building("Zerg_Extractor", CategoryRefinery, 50, 0, 4, 2, 0),

		// static defense
		building(TerranBunker, CategoryDefensiveBuilding, 100, 0, 3, 2, TraitAttacker),
		building("Terran_Missile_Turret", CategoryDefensiveBuilding, 75, 0, 2, 2, TraitAttacker),
		building("Protoss_Photon_Cannon", CategoryDefensiveBuilding, 150, 0, 2, 2, TraitAttacker),
		building("Zerg_Sunken_Colony", CategoryDefensiveBuilding, 50, 0, 2, 2, TraitAttacker),
		building("Zerg_Spore_Colony", CategoryDefensiveBuilding, 50, 0, 2, 2, TraitAttacker),
		building("Zerg_Creep_Colony", CategoryDefensiveBuilding, 75, 0, 2, 2, 0),

		// production and tech
		building(TerranSupplyDepot, CategoryGenericBuilding, 100, 0, 3, 2, 0),
		building(TerranBarracks, CategoryGenericBuilding, 150, 0, 4, 3, TraitTrainer),
		building("Terran_Academy", CategoryGenericBuilding, 150, 0, 3, 2, 0),
		building("Terran_Engineering_Bay", CategoryGenericBuilding, 125, 0, 4, 3, 0),
		building("Terran_Factory", CategoryGenericBuilding, 200, 100, 4, 3, TraitTrainer),
		building("Terran_Starport", CategoryGenericBuilding, 150, 100, 4, 3, TraitTrainer),
		building("Protoss_Pylon", CategoryGenericBuilding, 100, 0, 2, 2, 0),
		building("Protoss_Gateway", CategoryGenericBuilding, 150, 0, 4, 3, TraitTrainer),
		building("Protoss_Forge", CategoryGenericBuilding, 150, 0, 3, 2, 0),
		building("Protoss_Cybernetics_Core", CategoryGenericBuilding, 200, 0, 3, 2, 0),
		building("Zerg_Spawning_Pool", CategoryGenericBuilding, 200, 0, 3, 2, 0),
		building("Zerg_Evolution_Chamber", CategoryGenericBuilding, 75, 0, 3, 2, 0),
		building("Zerg_Hydralisk_Den", CategoryGenericBuilding, 100, 50, 3, 2, 0),

		// army
		mobile("Terran_Marine", CategoryMobileUnit, 50, 0, 1, TraitAttacker),
		mobile("Terran_Firebat", CategoryMobileUnit, 50, 25, 1, TraitAttacker),
		mobile("Terran_Medic", CategoryMobileUnit, 50, 25, 1, 0),
		mobile("Terran_Vulture", CategoryMobileUnit, 75, 0, 2, TraitAttacker),
		mobile("Protoss_Zealot", CategoryMobileUnit, 100, 0, 2, TraitAttacker),
		mobile("Protoss_Dragoon", CategoryMobileUnit, 125, 50, 2, TraitAttacker),
		mobile("Zerg_Zergling", CategoryMobileUnit, 25, 0, 1, TraitAttacker),
		mobile("Zerg_Hydralisk", CategoryMobileUnit, 75, 25, 1, TraitAttacker),
		mobile("Zerg_Overlord", CategoryMobileUnit, 100, 0, 0, 0),
		mobile("Zerg_Larva", CategoryMobileUnit, 0, 0, 0, 0),

		// neutral
		resource(MineralField, CategoryMineralPatch, 2, 1),
		resource("Resource_Mineral_Field_Type_2", CategoryMineralPatch, 2, 1),
		resource("Resource_Mineral_Field_Type_3", CategoryMineralPatch, 2, 1),
		resource(VespeneGeyser, CategoryVespeneGeyser, 4, 2),
		mobile("Critter_Bengalaas", CategoryMobileUnit, 0, 0, 0, 0),
		mobile("Critter_Rhynadon", CategoryMobileUnit, 0, 0, 0, 0),
		mobile("Critter_Scantid", CategoryMobileUnit, 0, 0, 0, 0),
	)
}
