//go:build mpv

package engine

import (
	"strconv"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/rs/zerolog"
	mpv "github.com/supersonic-app/go-mpv"
)

// Verify MPV implements the engine contracts at compile time.
var (
	_ Engine           = (*MPV)(nil)
	_ VolumeController = (*MPV)(nil)
)

// MPV drives libmpv. Status and duration come from observed properties;
// ticks sample time-pos.
type MPV struct {
	mu       sync.Mutex
	instance *mpv.Mpv
	log      zerolog.Logger
	status   Status
	duration float64
	volume   float64
	closed   bool
	done     chan struct{}

	statusL   listeners[Status]
	durationL listeners[float64]
}

// NewMPV creates and initializes an audio-only mpv instance.
func NewMPV(log zerolog.Logger) (*MPV, error) {
	instance := mpv.New()
	for _, opt := range [][2]string{
		{"audio-display", "no"},
		{"video", "no"},
		{"idle", "yes"},
		{"terminal", "no"},
	} {
		if err := instance.SetOptionString(opt[0], opt[1]); err != nil {
			instance.TerminateDestroy()
			return nil, errors.Wrapf(err, "mpv option %s", opt[0])
		}
	}
	if err := instance.Initialize(); err != nil {
		instance.TerminateDestroy()
		return nil, errors.Wrap(err, "mpv initialize")
	}

	for _, prop := range []struct {
		name   string
		format mpv.Format
	}{
		{"pause", mpv.FORMAT_FLAG},
		{"paused-for-cache", mpv.FORMAT_FLAG},
		{"seeking", mpv.FORMAT_FLAG},
		{"duration", mpv.FORMAT_DOUBLE},
	} {
		if err := instance.ObserveProperty(0, prop.name, prop.format); err != nil {
			instance.TerminateDestroy()
			return nil, errors.Wrapf(err, "observe %s", prop.name)
		}
	}

	m := &MPV{
		instance: instance,
		log:      log,
		status:   StatusPaused,
		volume:   1,
		done:     make(chan struct{}),
	}
	go m.eventLoop()
	return m, nil
}

func (m *MPV) eventLoop() {
	defer close(m.done)
	for {
		evt := m.instance.WaitEvent(1)
		if evt == nil {
			continue
		}
		switch evt.Event_Id {
		case mpv.EVENT_SHUTDOWN:
			return
		case mpv.EVENT_PROPERTY_CHANGE, mpv.EVENT_FILE_LOADED, mpv.EVENT_END_FILE:
			m.refresh()
		}
	}
}

// refresh re-reads the observed properties and publishes changes.
func (m *MPV) refresh() {
	paused := m.flag("pause")
	buffering := m.flag("paused-for-cache") || m.flag("seeking")

	status := StatusPlaying
	switch {
	case paused:
		status = StatusPaused
	case buffering:
		status = StatusWaiting
	}

	duration := m.double("duration")

	m.mu.Lock()
	statusChanged := status != m.status
	m.status = status
	durationChanged := duration > 0 && duration != m.duration
	if durationChanged {
		m.duration = duration
	}
	m.mu.Unlock()

	if statusChanged {
		m.statusL.emit(status)
	}
	if durationChanged {
		m.log.Debug().Float64("duration", duration).Msg("duration resolved")
		m.durationL.emit(duration)
	}
}

func (m *MPV) flag(name string) bool {
	v, err := m.instance.GetProperty(name, mpv.FORMAT_FLAG)
	if err != nil || v == nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

func (m *MPV) double(name string) float64 {
	v, err := m.instance.GetProperty(name, mpv.FORMAT_DOUBLE)
	if err != nil || v == nil {
		return 0
	}
	f, _ := v.(float64)
	return f
}

func (m *MPV) command(args ...string) {
	if err := m.instance.Command(args); err != nil {
		m.log.Warn().Err(err).Strs("args", args).Msg("mpv command failed")
	}
}

// Load implements Engine. The item starts paused.
func (m *MPV) Load(path string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.duration = 0
	m.mu.Unlock()

	if err := m.instance.SetProperty("pause", mpv.FORMAT_FLAG, true); err != nil {
		return errors.Wrap(err, "mpv pause")
	}
	if err := m.instance.Command([]string{"loadfile", path}); err != nil {
		return errors.Wrapf(err, "mpv loadfile %s", path)
	}
	m.log.Info().Str("path", path).Msg("media loaded")
	return nil
}

// Play implements Engine.
func (m *MPV) Play() {
	if err := m.instance.SetProperty("pause", mpv.FORMAT_FLAG, false); err != nil {
		m.log.Warn().Err(err).Msg("mpv play")
	}
}

// Pause implements Engine.
func (m *MPV) Pause() {
	if err := m.instance.SetProperty("pause", mpv.FORMAT_FLAG, true); err != nil {
		m.log.Warn().Err(err).Msg("mpv pause")
	}
}

// Seek implements Engine.
func (m *MPV) Seek(seconds float64) {
	m.command("seek", strconv.FormatFloat(seconds, 'f', 3, 64), "absolute")
}

// OnStatus implements Engine.
func (m *MPV) OnStatus(fn func(Status)) Subscription {
	sub := m.statusL.add(fn)
	m.mu.Lock()
	s := m.status
	m.mu.Unlock()
	fn(s)
	return sub
}

// OnDuration implements Engine.
func (m *MPV) OnDuration(fn func(float64)) Subscription {
	sub := m.durationL.add(fn)
	m.mu.Lock()
	d := m.duration
	m.mu.Unlock()
	if d > 0 {
		fn(d)
	}
	return sub
}

// AddPeriodicObserver implements Engine.
func (m *MPV) AddPeriodicObserver(interval time.Duration, fn func(float64)) Subscription {
	return startPeriodic(interval, func() float64 { return m.double("time-pos") }, fn)
}

// SetVolume implements VolumeController. mpv volume is a 0-100 percentage.
func (m *MPV) SetVolume(level float64) {
	level = max(0, min(level, 1))
	m.mu.Lock()
	m.volume = level
	m.mu.Unlock()
	if err := m.instance.SetProperty("volume", mpv.FORMAT_DOUBLE, level*100); err != nil {
		m.log.Warn().Err(err).Msg("mpv volume")
	}
}

// Volume implements VolumeController.
func (m *MPV) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Close implements Engine.
func (m *MPV) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.command("quit")
	<-m.done
	m.instance.TerminateDestroy()
	return nil
}

func newMPVEngine(log zerolog.Logger) (Engine, error) {
	m, err := NewMPV(log)
	if err != nil {
		return nil, err
	}
	return m, nil
}
