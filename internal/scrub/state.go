// Package scrub reconciles user scrub gestures with engine position ticks.
//
// The machine has three states:
//
//	┌──────┐  BeginScrub   ┌──────────────┐
//	│ Idle │ ─────────────▶│ ScrubStarted │◀─┐ BeginScrub
//	└──────┘               └──────────────┘──┘
//	   ▲                          │
//	   │ tick                     │ EndScrub(t) ─▶ Seek(t)
//	   │ (display = t)            ▼
//	   │                   ┌──────────────┐
//	   └───────────────────│ ScrubEnded t │
//	                       └──────────────┘
//
// Ticks overwrite the display time only in Idle. The first tick after
// EndScrub may still report the pre-seek position, so it is discarded and the
// display time is forced to the seek target instead.
package scrub

import "fmt"

// Kind discriminates the State union.
type Kind int

const (
	Idle Kind = iota
	ScrubStarted
	ScrubEnded
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case ScrubStarted:
		return "scrub-started"
	case ScrubEnded:
		return "scrub-ended"
	default:
		return "unknown"
	}
}

// State is the machine state. SeekTime is only meaningful when Kind is ScrubEnded.
type State struct {
	Kind     Kind
	SeekTime float64
}

// IdleState is the initial state.
func IdleState() State { return State{Kind: Idle} }

// StartedState is the state while the user holds the slider.
func StartedState() State { return State{Kind: ScrubStarted} }

// EndedState carries the pending seek target.
func EndedState(seekTime float64) State {
	return State{Kind: ScrubEnded, SeekTime: seekTime}
}

// String returns the state for logs, e.g. "scrub-ended(45.50)".
func (s State) String() string {
	if s.Kind == ScrubEnded {
		return fmt.Sprintf("%s(%.2f)", s.Kind, s.SeekTime)
	}
	return s.Kind.String()
}

// PendingSeek returns the seek target and true if a seek awaits reconciliation.
func (s State) PendingSeek() (float64, bool) {
	if s.Kind != ScrubEnded {
		return 0, false
	}
	return s.SeekTime, true
}
