package shared

// LifecycleStatus represents the state of a frame-driven entity in its lifecycle
type LifecycleStatus string

const (
	// LifecycleStatusQueued indicates the entity is waiting for resources, a builder or a site
	LifecycleStatusQueued LifecycleStatus = "QUEUED"

	// LifecycleStatusStarted indicates the build command has been issued
	LifecycleStatusStarted LifecycleStatus = "STARTED"

	// LifecycleStatusComplete indicates the simulation reported the result finished
	LifecycleStatusComplete LifecycleStatus = "COMPLETE"

	// LifecycleStatusFailed indicates the entity was abandoned
	LifecycleStatusFailed LifecycleStatus = "FAILED"
)

// LifecycleStateMachine manages the QUEUED → STARTED → COMPLETE/FAILED
// transitions, stamping each one with the simulation frame it happened on.
//
// Invariants:
// - State transitions must follow valid paths
// - Terminal states (COMPLETE, FAILED) are never left
// - Every transition happens at most once
type LifecycleStateMachine struct {
	status      LifecycleStatus
	queuedAt    Frame
	startedAt   *Frame
	finishedAt  *Frame
	lastError   error
	transitions int
}

// NewLifecycleStateMachine creates a new lifecycle state machine in QUEUED state
func NewLifecycleStateMachine(frame Frame) *LifecycleStateMachine {
	return &LifecycleStateMachine{
		status:   LifecycleStatusQueued,
		queuedAt: frame,
	}
}

// Getters

func (sm *LifecycleStateMachine) Status() LifecycleStatus { return sm.status }
func (sm *LifecycleStateMachine) QueuedAt() Frame         { return sm.queuedAt }
func (sm *LifecycleStateMachine) StartedAt() *Frame       { return sm.startedAt }
func (sm *LifecycleStateMachine) FinishedAt() *Frame      { return sm.finishedAt }
func (sm *LifecycleStateMachine) LastError() error        { return sm.lastError }

// Transitions returns how many state changes have happened so far
func (sm *LifecycleStateMachine) Transitions() int { return sm.transitions }

// Start transitions from QUEUED to STARTED
func (sm *LifecycleStateMachine) Start(frame Frame) error {
	if sm.status != LifecycleStatusQueued {
		return NewInvalidTransitionError(sm.status, LifecycleStatusStarted)
	}
	sm.status = LifecycleStatusStarted
	sm.startedAt = &frame
	sm.transitions++
	return nil
}

// Complete transitions from STARTED to COMPLETE
func (sm *LifecycleStateMachine) Complete(frame Frame) error {
	if sm.status != LifecycleStatusStarted {
		return NewInvalidTransitionError(sm.status, LifecycleStatusComplete)
	}
	sm.status = LifecycleStatusComplete
	sm.finishedAt = &frame
	sm.transitions++
	return nil
}

// Fail transitions any non-terminal state to FAILED
func (sm *LifecycleStateMachine) Fail(frame Frame, err error) error {
	if sm.IsFinished() {
		return NewInvalidTransitionError(sm.status, LifecycleStatusFailed)
	}
	sm.status = LifecycleStatusFailed
	sm.lastError = err
	sm.finishedAt = &frame
	sm.transitions++
	return nil
}

// State query methods

func (sm *LifecycleStateMachine) IsQueued() bool  { return sm.status == LifecycleStatusQueued }
func (sm *LifecycleStateMachine) IsStarted() bool { return sm.status == LifecycleStatusStarted }

// IsFinished returns true if the entity reached COMPLETE or FAILED
func (sm *LifecycleStateMachine) IsFinished() bool {
	return sm.status == LifecycleStatusComplete || sm.status == LifecycleStatusFailed
}
