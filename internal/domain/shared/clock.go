package shared

import "time"

// Clock reads wall-clock time. Frames are the bot's own notion of time; the
// clock only measures how long handling a frame took and stamps journal rows.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time
type RealClock struct{}

// Now returns the current system time in UTC
func (r *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// NewRealClock creates a RealClock instance
func NewRealClock() Clock {
	return &RealClock{}
}

// MockClock is a manually driven clock. With a non-zero Step every read
// moves it forward, so code timing itself sees Step per measurement.
type MockClock struct {
	CurrentTime time.Time
	Step        time.Duration
}

// NewMockClock creates a MockClock starting at startTime, or at the current
// time when startTime is zero
func NewMockClock(startTime time.Time) *MockClock {
	if startTime.IsZero() {
		startTime = time.Now()
	}
	return &MockClock{CurrentTime: startTime}
}

// Now returns the mock's time, then applies Step
func (m *MockClock) Now() time.Time {
	now := m.CurrentTime
	m.CurrentTime = m.CurrentTime.Add(m.Step)
	return now
}

// Advance moves the mock clock forward by d
func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

// Stopwatch measures the wall time spent on one frame
type Stopwatch struct {
	clock Clock
	begin time.Time
}

// StartStopwatch starts timing on clock
func StartStopwatch(clock Clock) Stopwatch {
	return Stopwatch{clock: clock, begin: clock.Now()}
}

// Elapsed is the time since the stopwatch started
func (s Stopwatch) Elapsed() time.Duration {
	return s.clock.Now().Sub(s.begin)
}
