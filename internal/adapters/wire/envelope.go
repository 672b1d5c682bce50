// Package wire defines the line-delimited JSON protocol spoken with the
// external simulation, live or recorded, and the session that turns it into
// orchestrator callbacks.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/andrescamacho/rtsbot-go/internal/application/bot"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// Kind discriminates inbound envelopes
type Kind string

const (
	KindStart      Kind = "start"
	KindFrame      Kind = "frame"
	KindDiscovered Kind = "discovered"
	KindCreated    Kind = "created"
	KindCompleted  Kind = "completed"
	KindDestroyed  Kind = "destroyed"
	KindMorphed    Kind = "morphed"
	KindEnd        Kind = "end"
)

// Envelope is one inbound message. Exactly one payload matching Kind is set.
type Envelope struct {
	Kind   Kind        `json:"kind"`
	Frame  int         `json:"frame"`
	Start  *StartMsg   `json:"start,omitempty"`
	Unit   *UnitMsg    `json:"unit,omitempty"`
	Totals *bot.Totals `json:"totals,omitempty"`
	// Keys held down during a frame
	Keys []string `json:"keys,omitempty"`
	Won  bool     `json:"won,omitempty"`
}

// StartMsg opens a match
type StartMsg struct {
	Self          int                 `json:"self"`
	StartLocation shared.TilePosition `json:"start_location"`
	Latency       int                 `json:"latency"`
	// Map is the path of the map description; empty means the configured map
	Map string `json:"map,omitempty"`
}

// UnitMsg describes one unit in a lifecycle notification
type UnitMsg struct {
	ID        int             `json:"id"`
	Type      string          `json:"type"`
	Owner     int             `json:"owner"`
	Position  shared.Position `json:"position"`
	Completed bool            `json:"completed"`
	BuildUnit int             `json:"build_unit,omitempty"`
}

// Observation converts the message into the mirror's input type
func (u UnitMsg) Observation() unit.Observation {
	return unit.Observation{
		ID:        unit.ID(u.ID),
		Type:      unit.TypeTag(u.Type),
		Owner:     shared.PlayerIDFromWire(u.Owner),
		Position:  u.Position,
		Completed: u.Completed,
		BuildUnit: unit.ID(u.BuildUnit),
	}
}

// UnitMsgFrom is the inverse of Observation, used when recording
func UnitMsgFrom(obs unit.Observation) *UnitMsg {
	return &UnitMsg{
		ID:        int(obs.ID),
		Type:      string(obs.Type),
		Owner:     obs.Owner.Value(),
		Position:  obs.Position,
		Completed: obs.Completed,
		BuildUnit: int(obs.BuildUnit),
	}
}

// Decode parses and checks one envelope
func Decode(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, fmt.Errorf("failed to decode envelope: %w", err)
	}
	if err := env.Validate(); err != nil {
		return env, err
	}
	return env, nil
}

// Validate checks that the payload matches the kind
func (e Envelope) Validate() error {
	if e.Frame < 0 {
		return shared.NewValidationError("frame", fmt.Sprintf("negative frame %d", e.Frame))
	}
	switch e.Kind {
	case KindStart:
		if e.Start == nil {
			return shared.NewValidationError("start", "start envelope without payload")
		}
	case KindDiscovered, KindCreated, KindCompleted, KindDestroyed, KindMorphed:
		if e.Unit == nil {
			return shared.NewValidationError("unit", fmt.Sprintf("%s envelope without unit", e.Kind))
		}
	case KindFrame, KindEnd:
	default:
		return shared.NewValidationError("kind", fmt.Sprintf("unknown kind %q", e.Kind))
	}
	return nil
}

// CommandKind discriminates outbound commands
type CommandKind string

const (
	CommandBuild CommandKind = "build"
	CommandText  CommandKind = "text"
	// CommandSetting switches a simulation option named by Text on
	CommandSetting CommandKind = "setting"
	// CommandDone tells the simulation the bot has finished a frame
	CommandDone CommandKind = "done"
)

// Command is one outbound message
type Command struct {
	Kind    CommandKind          `json:"kind"`
	Frame   int                  `json:"frame"`
	Builder int                  `json:"builder,omitempty"`
	Type    string               `json:"type,omitempty"`
	Tile    *shared.TilePosition `json:"tile,omitempty"`
	Text    string               `json:"text,omitempty"`
}

// Outbound delivers commands to the simulation
type Outbound interface {
	Send(cmd Command) error
}
