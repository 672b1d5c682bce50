package unit

// Category is the closed set of roles an observed unit can play in the mirror.
// Every live unit belongs to exactly one category.
type Category int

const (
	CategoryWorker Category = iota + 1
	CategoryTownhall
	CategoryRefinery
	CategoryDefensiveBuilding
	CategoryGenericBuilding
	CategoryMobileUnit
	CategoryMineralPatch
	CategoryVespeneGeyser
)

// Categories lists every category in declaration order
var Categories = []Category{
	CategoryWorker,
	CategoryTownhall,
	CategoryRefinery,
	CategoryDefensiveBuilding,
	CategoryGenericBuilding,
	CategoryMobileUnit,
	CategoryMineralPatch,
	CategoryVespeneGeyser,
}

func (c Category) String() string {
	switch c {
	case CategoryWorker:
		return "worker"
	case CategoryTownhall:
		return "townhall"
	case CategoryRefinery:
		return "refinery"
	case CategoryDefensiveBuilding:
		return "defensive_building"
	case CategoryGenericBuilding:
		return "generic_building"
	case CategoryMobileUnit:
		return "mobile_unit"
	case CategoryMineralPatch:
		return "mineral_patch"
	case CategoryVespeneGeyser:
		return "vespene_geyser"
	default:
		return "invalid"
	}
}

// IsValid reports whether c is one of the declared categories
func (c Category) IsValid() bool {
	return c >= CategoryWorker && c <= CategoryVespeneGeyser
}

// IsBuilding reports whether units of this category occupy build tiles
func (c Category) IsBuilding() bool {
	switch c {
	case CategoryTownhall, CategoryRefinery, CategoryDefensiveBuilding, CategoryGenericBuilding:
		return true
	case CategoryWorker, CategoryMobileUnit, CategoryMineralPatch, CategoryVespeneGeyser:
		return false
	default:
		return false
	}
}

// IsResource reports whether units of this category are neutral resource fields
func (c Category) IsResource() bool {
	switch c {
	case CategoryMineralPatch, CategoryVespeneGeyser:
		return true
	case CategoryWorker, CategoryTownhall, CategoryRefinery, CategoryDefensiveBuilding,
		CategoryGenericBuilding, CategoryMobileUnit:
		return false
	default:
		return false
	}
}

// Role is the job a worker is currently assigned to by the policies
type Role int

const (
	RoleNone Role = iota
	RoleMineral
	RoleVespene
	RoleScout
	RoleBuilder
)

func (r Role) String() string {
	switch r {
	case RoleMineral:
		return "mineral"
	case RoleVespene:
		return "vespene"
	case RoleScout:
		return "scout"
	case RoleBuilder:
		return "builder"
	default:
		return "none"
	}
}
