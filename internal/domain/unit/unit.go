package unit

import (
	"fmt"

	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
)

// ID is the simulation's identifier for a unit. It is stable for the unit's
// lifetime but not across identifier-changing morphs.
type ID int

// NoUnit marks an absent unit reference
const NoUnit ID = 0

// Observation is what a lifecycle notification tells us about one unit
type Observation struct {
	ID        ID              `json:"id"`
	Type      TypeTag         `json:"type"`
	Owner     shared.PlayerID `json:"-"`
	Position  shared.Position `json:"position"`
	Completed bool            `json:"completed"`
	// BuildUnit is the worker constructing this unit, if any
	BuildUnit ID `json:"build_unit,omitempty"`
}

// Unit is the mirror's record of one live unit
type Unit struct {
	ID           ID
	Type         TypeTag
	Category     Category
	Owner        shared.PlayerID
	Position     shared.Position
	Completed    bool
	SpottedFrame shared.Frame
	UpdatedFrame shared.Frame
	info         TypeInfo
}

// Tile returns the build tile the unit stands on
func (u *Unit) Tile() shared.TilePosition {
	return u.Position.ToTile()
}

// Has reports whether the unit's type carries a capability
func (u *Unit) Has(trait Trait) bool {
	return u.info.Has(trait)
}

// Info returns the unit's type description
func (u *Unit) Info() TypeInfo {
	return u.info
}

func (u *Unit) String() string {
	return fmt.Sprintf("%s#%d", u.Type, u.ID)
}
