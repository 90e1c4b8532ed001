// Package engine defines the media engine ripple drives and its backends.
//
// Engines decode and render audio. They report status, duration and position
// through push-style subscriptions whose callbacks may run on any goroutine;
// consumers are responsible for marshaling them onto their own loop.
package engine

import (
	"time"

	"emperror.dev/errors"
)

// Status is the engine's time-control status.
type Status int

const (
	StatusPaused Status = iota
	StatusWaiting
	StatusPlaying
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPaused:
		return "Paused"
	case StatusWaiting:
		return "Waiting"
	case StatusPlaying:
		return "Playing"
	default:
		return "Unknown"
	}
}

// IsPaused reports whether the status is StatusPaused.
func (s Status) IsPaused() bool {
	return s == StatusPaused
}

// Subscription is a registered engine callback. Engines never cancel
// subscriptions on their own; Cancel must be called explicitly and is
// safe to call more than once.
type Subscription interface {
	Cancel()
}

// Engine is the media engine contract.
type Engine interface {
	// Load opens a media resource and makes it the current item.
	Load(path string) error
	Play()
	Pause()
	// Seek requests an asynchronous move to the given position in seconds.
	Seek(seconds float64)

	// OnStatus delivers the current status immediately, then every change.
	OnStatus(fn func(Status)) Subscription
	// OnDuration delivers the current item's duration once it is known.
	OnDuration(fn func(seconds float64)) Subscription
	// AddPeriodicObserver reports the playback position every interval.
	AddPeriodicObserver(interval time.Duration, fn func(seconds float64)) Subscription

	Close() error
}

// VolumeController is implemented by engines with software volume.
type VolumeController interface {
	SetVolume(level float64)
	Volume() float64
}

var (
	// ErrUnsupportedFormat is returned by Load for files no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrClosed is returned by operations on a closed engine.
	ErrClosed = errors.New("engine closed")
	// ErrMPVUnavailable is returned when the binary was built without libmpv.
	ErrMPVUnavailable = errors.New("mpv backend not compiled in (build with -tags mpv)")
)

// Kind names a backend in configuration.
type Kind string

const (
	KindBeep Kind = "beep"
	KindMPV  Kind = "mpv"
)
