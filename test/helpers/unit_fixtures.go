package helpers

import (
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// SelfPlayer is the player id fixtures use for the bot itself
var SelfPlayer = shared.MustNewPlayerID(0)

// EnemyPlayer is the player id fixtures use for the opponent
var EnemyPlayer = shared.MustNewPlayerID(1)

// Observed builds an observation of a completed self-owned unit
func Observed(id unit.ID, tag unit.TypeTag, x, y int) unit.Observation {
	return unit.Observation{
		ID:        id,
		Type:      tag,
		Owner:     SelfPlayer,
		Position:  shared.NewTilePosition(x, y).ToPosition(),
		Completed: true,
	}
}

// Pending builds an observation of an uncompleted self-owned unit
func Pending(id unit.ID, tag unit.TypeTag, x, y int) unit.Observation {
	obs := Observed(id, tag, x, y)
	obs.Completed = false
	return obs
}

// Neutral builds an observation of a neutral resource
func Neutral(id unit.ID, tag unit.TypeTag, x, y int) unit.Observation {
	obs := Observed(id, tag, x, y)
	obs.Owner = shared.NeutralPlayer
	return obs
}
