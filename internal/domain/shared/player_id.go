package shared

import "fmt"

// PlayerID is a value object identifying a participant of a match.
// The neutral "player" that owns resource fields is represented by NeutralPlayer.
type PlayerID struct {
	value int
}

// NeutralPlayer owns mineral fields, geysers and critters.
var NeutralPlayer = PlayerID{value: -1}

// NewPlayerID creates a new PlayerID value object
func NewPlayerID(id int) (PlayerID, error) {
	if id < 0 {
		return PlayerID{}, fmt.Errorf("player_id must not be negative")
	}
	return PlayerID{value: id}, nil
}

// MustNewPlayerID creates a new PlayerID value object, panicking if invalid
func MustNewPlayerID(id int) PlayerID {
	playerID, err := NewPlayerID(id)
	if err != nil {
		panic(err)
	}
	return playerID
}

// PlayerIDFromWire converts the simulation's raw owner number, mapping any
// negative value to NeutralPlayer.
func PlayerIDFromWire(raw int) PlayerID {
	if raw < 0 {
		return NeutralPlayer
	}
	return PlayerID{value: raw}
}

// Value returns the integer value of the PlayerID
func (p PlayerID) Value() int {
	return p.value
}

// String returns a string representation of the PlayerID
func (p PlayerID) String() string {
	if p.IsNeutral() {
		return "neutral"
	}
	return fmt.Sprintf("%d", p.value)
}

// Equals checks if two PlayerIDs are equal
func (p PlayerID) Equals(other PlayerID) bool {
	return p.value == other.value
}

// IsNeutral reports whether this is the neutral owner
func (p PlayerID) IsNeutral() bool {
	return p.value < 0
}
