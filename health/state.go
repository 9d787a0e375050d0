package health

import (
	"sync/atomic"
	"time"
)

// Status is the readiness status of the process.
type Status int32

const (
	// Starting means the listener has not yet been bound.
	Starting Status = iota

	// Serving means the listener is bound and requests are being accepted.
	Serving

	// Draining means the server is shutting down and should receive no new
	// traffic.
	Draining
)

func (s Status) String() string {
	switch s {
	case Starting:
		return "starting"
	case Serving:
		return "serving"
	case Draining:
		return "draining"
	default:
		return "unknown"
	}
}

// State tracks the readiness of the process. The zero value is a State in the
// [Starting] status.
type State struct {
	status    atomic.Int32
	startedAt time.Time
}

// NewState returns a new [State] that records the current time as the process
// start time.
func NewState() *State {
	return &State{
		startedAt: time.Now(),
	}
}

// MarkServing records that the server is accepting requests. It has no effect
// once the state is [Draining].
func (s *State) MarkServing() {
	s.status.CompareAndSwap(int32(Starting), int32(Serving))
}

// MarkDraining records that the server is shutting down.
func (s *State) MarkDraining() {
	s.status.Store(int32(Draining))
}

// Status returns the current status.
func (s *State) Status() Status {
	return Status(s.status.Load())
}

// IsReady returns true if the server should receive traffic.
func (s *State) IsReady() bool {
	return s.Status() == Serving
}

// Uptime returns the time elapsed since the state was created.
func (s *State) Uptime() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	return time.Since(s.startedAt)
}
