package construction

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// Request is one pending construction. It holds a reservation of its full
// cost from the moment it is created until it reaches a terminal state.
type Request struct {
	id           string
	buildingType unit.TypeTag
	priority     int
	sequence     int
	cost         unit.Cost

	builder  unit.ID
	tile     *shared.TilePosition
	building unit.ID
	attempts int

	lifecycle *shared.LifecycleStateMachine
}

// NewRequest creates a QUEUED request for a building type
func NewRequest(buildingType unit.TypeTag, cost unit.Cost, priority, sequence int, frame shared.Frame) *Request {
	return &Request{
		id:           uuid.New().String(),
		buildingType: buildingType,
		priority:     priority,
		sequence:     sequence,
		cost:         cost,
		lifecycle:    shared.NewLifecycleStateMachine(frame),
	}
}

// Getters

func (r *Request) ID() string                     { return r.id }
func (r *Request) BuildingType() unit.TypeTag     { return r.buildingType }
func (r *Request) Priority() int                  { return r.priority }
func (r *Request) Sequence() int                  { return r.sequence }
func (r *Request) Cost() unit.Cost                { return r.cost }
func (r *Request) Builder() unit.ID               { return r.builder }
func (r *Request) Tile() *shared.TilePosition     { return r.tile }
func (r *Request) Building() unit.ID              { return r.building }
func (r *Request) Attempts() int                  { return r.attempts }
func (r *Request) Status() shared.LifecycleStatus { return r.lifecycle.Status() }
func (r *Request) QueuedAt() shared.Frame         { return r.lifecycle.QueuedAt() }
func (r *Request) StartedAt() *shared.Frame       { return r.lifecycle.StartedAt() }
func (r *Request) FinishedAt() *shared.Frame      { return r.lifecycle.FinishedAt() }
func (r *Request) LastError() error               { return r.lifecycle.LastError() }
func (r *Request) Transitions() int               { return r.lifecycle.Transitions() }
func (r *Request) IsQueued() bool                 { return r.lifecycle.IsQueued() }
func (r *Request) IsStarted() bool                { return r.lifecycle.IsStarted() }
func (r *Request) IsTerminal() bool               { return r.lifecycle.IsFinished() }

// Reservation returns the funds this request currently earmarks: its full
// cost while non-terminal, nothing afterwards.
func (r *Request) Reservation() unit.Cost {
	if r.IsTerminal() {
		return unit.Cost{}
	}
	return r.cost
}

// IsPlaced reports whether the simulation confirmed the building exists
func (r *Request) IsPlaced() bool {
	return r.building != unit.NoUnit
}

// AssignBuilder binds a worker to a queued request
func (r *Request) AssignBuilder(builder unit.ID) error {
	if !r.IsQueued() {
		return fmt.Errorf("cannot assign builder to %s request %s", r.Status(), r.id)
	}
	r.builder = builder
	return nil
}

// RecordFailedPlacement counts one unsuccessful site search
func (r *Request) RecordFailedPlacement() int {
	r.attempts++
	return r.attempts
}

// Start marks the build command as issued for a tile
func (r *Request) Start(tile shared.TilePosition, frame shared.Frame) error {
	if r.builder == unit.NoUnit {
		return shared.NewConstructionError(fmt.Sprintf("request %s has no builder", r.id), string(r.buildingType))
	}
	if err := r.lifecycle.Start(frame); err != nil {
		return err
	}
	r.tile = &tile
	return nil
}

// ConfirmPlacement records the building the simulation created for us.
// A still-queued request is started by the confirmation.
func (r *Request) ConfirmPlacement(building unit.ID, tile shared.TilePosition, frame shared.Frame) error {
	if r.IsQueued() {
		if err := r.Start(tile, frame); err != nil {
			return err
		}
	}
	if !r.IsStarted() {
		return shared.NewInvalidTransitionError(r.Status(), shared.LifecycleStatusStarted)
	}
	r.building = building
	return nil
}

// Complete marks the building finished and releases the reservation
func (r *Request) Complete(frame shared.Frame) error {
	return r.lifecycle.Complete(frame)
}

// Fail abandons the request and releases the reservation
func (r *Request) Fail(frame shared.Frame, reason error) error {
	return r.lifecycle.Fail(frame, reason)
}

func (r *Request) String() string {
	return fmt.Sprintf("%s[%s %s prio=%d]", r.buildingType, r.id[:8], r.Status(), r.priority)
}
