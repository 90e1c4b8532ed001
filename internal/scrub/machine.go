package scrub

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/ripple/internal/observable"
)

// Seeker receives seek requests issued when a scrub ends.
type Seeker interface {
	Seek(seconds float64)
}

// SeekerFunc adapts a function to Seeker.
type SeekerFunc func(seconds float64)

// Seek calls f.
func (f SeekerFunc) Seek(seconds float64) { f(seconds) }

// Machine owns the scrub state and the published display time.
// It is not safe for concurrent use; drive it from the UI loop only.
type Machine struct {
	state   State
	display *observable.Value[float64]
	seeker  Seeker
	log     zerolog.Logger
}

// NewMachine creates a machine in Idle with a display time of 0.
func NewMachine(seeker Seeker, log zerolog.Logger) *Machine {
	return &Machine{
		state:   IdleState(),
		display: observable.New(0.0),
		seeker:  seeker,
		log:     log,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// DisplayTime returns the time the UI should show, in seconds.
func (m *Machine) DisplayTime() float64 {
	return m.display.Get()
}

// DisplayTimeValue exposes the published display time for subscribers.
func (m *Machine) DisplayTimeValue() *observable.Value[float64] {
	return m.display
}

// BeginScrub hands display time ownership to the UI.
func (m *Machine) BeginScrub() {
	if m.state.Kind == ScrubStarted {
		return
	}
	m.transition(StartedState())
}

// Drag is the UI gesture writing the display time.
// A drag outside of a scrub starts one so the engine cannot overwrite it.
func (m *Machine) Drag(seconds float64) {
	m.BeginScrub()
	m.display.Set(seconds)
}

// EndScrub records the seek target and requests the seek.
// The machine stays in ScrubEnded until the next tick.
func (m *Machine) EndScrub(seekTime float64) {
	m.transition(EndedState(seekTime))
	if m.seeker != nil {
		m.seeker.Seek(seekTime)
	}
}

// Reset returns to Idle with the given display time, dropping any gesture
// or pending seek. Used when the media item changes.
func (m *Machine) Reset(displayTime float64) {
	if m.state.Kind != Idle {
		m.transition(IdleState())
	}
	m.display.Set(displayTime)
}

// OnPositionTick reconciles a periodic position report from the engine.
func (m *Machine) OnPositionTick(reported float64) {
	switch m.state.Kind {
	case Idle:
		m.display.Set(reported)
	case ScrubStarted:
		// UI owns the display time.
	case ScrubEnded:
		target := m.state.SeekTime
		m.transition(IdleState())
		m.display.Set(target)
		m.log.Debug().
			Float64("reported", reported).
			Float64("target", target).
			Msg("tick replaced by pending seek target")
	}
}

func (m *Machine) transition(next State) {
	prev := m.state
	m.state = next
	m.log.Debug().Stringer("from", prev).Stringer("to", next).Msg("scrub transition")
}
