// Package playback wraps a media engine and publishes its state to the UI.
//
// Player owns exactly one engine. On construction it subscribes to the
// engine's status, duration and periodic position reports; Close releases all
// three. Engine callbacks go through the configured Dispatcher so that every
// mutation of published state happens on the UI goroutine.
package playback

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/ripple/internal/engine"
	"github.com/llehouerou/ripple/internal/observable"
	"github.com/llehouerou/ripple/internal/scrub"
)

// Player is the facade between the engine and the UI.
type Player struct {
	engine   engine.Engine
	dispatch Dispatcher
	log      zerolog.Logger
	interval time.Duration

	status   *observable.Value[engine.Status]
	duration *observable.Value[float64]
	observed *observable.Value[float64]
	machine  *scrub.Machine

	// loadGen is bumped by every Load and read by engine goroutines when a
	// duration or tick is reported. Reports older than acceptGen belong to a
	// replaced item and are dropped.
	loadGen   atomic.Uint64
	acceptGen uint64

	statusSub   engine.Subscription
	durationSub engine.Subscription
	tickSub     engine.Subscription
	closed      bool
}

// New creates a player around e and registers its engine subscriptions.
func New(e engine.Engine, opts ...Option) *Player {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Player{
		engine:   e,
		dispatch: o.dispatch,
		log:      o.log,
		interval: o.interval,
		status:   observable.New(engine.StatusPaused),
		duration: observable.New(0.0),
		observed: observable.New(0.0),
	}
	p.machine = scrub.NewMachine(scrub.SeekerFunc(p.seek), o.log.With().Str("component", "scrub").Logger())

	p.statusSub = e.OnStatus(func(s engine.Status) {
		p.dispatch(func() { p.onStatus(s) })
	})
	p.durationSub = e.OnDuration(func(d float64) {
		gen := p.loadGen.Load()
		p.dispatch(func() { p.onDuration(gen, d) })
	})
	p.tickSub = e.AddPeriodicObserver(p.interval, func(pos float64) {
		gen := p.loadGen.Load()
		p.dispatch(func() { p.onTick(gen, pos) })
	})

	p.log.Debug().Dur("tick_interval", p.interval).Msg("player subscribed to engine")
	return p
}

func (p *Player) onStatus(s engine.Status) {
	if p.closed {
		return
	}
	if p.status.Set(s) {
		p.log.Debug().Stringer("status", s).Msg("status changed")
	}
}

func (p *Player) stale(gen uint64) bool {
	return p.closed || gen < p.acceptGen
}

func (p *Player) onDuration(gen uint64, d float64) {
	if p.stale(gen) {
		return
	}
	if p.duration.Set(d) {
		p.log.Debug().Float64("duration", d).Msg("duration resolved")
	}
}

func (p *Player) onTick(gen uint64, pos float64) {
	if p.stale(gen) {
		return
	}
	p.observed.Set(pos)
	p.machine.OnPositionTick(pos)
}

func (p *Player) seek(seconds float64) {
	p.log.Debug().Float64("target", seconds).Msg("seek requested")
	p.engine.Seek(seconds)
}

// Load replaces the current item. Duration returns to the unknown sentinel
// until the engine resolves the new item, and the display time restarts at 0.
// Reports still queued for the previous item are dropped. When the engine
// fails to load, the previous item stays current and nothing is reset.
func (p *Player) Load(path string) error {
	if p.closed {
		return engine.ErrClosed
	}
	gen := p.loadGen.Add(1)
	if err := p.engine.Load(path); err != nil {
		return err
	}
	p.acceptGen = gen
	p.duration.Set(0)
	p.observed.Set(0)
	p.machine.Reset(0)
	return nil
}

// Play forwards to the engine. The resulting status arrives asynchronously.
func (p *Player) Play() {
	p.engine.Play()
}

// Pause forwards to the engine.
func (p *Player) Pause() {
	p.engine.Pause()
}

// Toggle is the play/pause button action: play when paused, pause when
// playing or waiting.
func (p *Player) Toggle() {
	if p.status.Get().IsPaused() {
		p.Play()
		return
	}
	p.Pause()
}

// Status returns the last status reported by the engine.
func (p *Player) Status() engine.Status {
	return p.status.Get()
}

// StatusValue exposes the published status.
func (p *Player) StatusValue() *observable.Value[engine.Status] {
	return p.status
}

// Duration returns the item duration in seconds, or 0 while unknown.
func (p *Player) Duration() float64 {
	return p.duration.Get()
}

// DurationValue exposes the published duration.
func (p *Player) DurationValue() *observable.Value[float64] {
	return p.duration
}

// DisplayTime returns the position the UI should show, in seconds.
func (p *Player) DisplayTime() float64 {
	return p.machine.DisplayTime()
}

// DisplayTimeValue exposes the published display time.
func (p *Player) DisplayTimeValue() *observable.Value[float64] {
	return p.machine.DisplayTimeValue()
}

// ObservedTime returns the last position reported by the engine, whatever
// the scrub state.
func (p *Player) ObservedTime() float64 {
	return p.observed.Get()
}

// ObservedTimeValue exposes the published engine position.
func (p *Player) ObservedTimeValue() *observable.Value[float64] {
	return p.observed
}

// ScrubState returns the scrub machine state.
func (p *Player) ScrubState() scrub.State {
	return p.machine.State()
}

// SliderRange returns the slider upper bound. ok is false until the
// duration is known; the slider must not be shown before that.
func (p *Player) SliderRange() (upper float64, ok bool) {
	d := p.duration.Get()
	return d, d > 0
}

// BeginScrub starts a slider gesture.
func (p *Player) BeginScrub() {
	p.machine.BeginScrub()
}

// Drag moves the display time during a gesture, clamped to the slider range.
func (p *Player) Drag(seconds float64) {
	p.machine.Drag(p.clamp(seconds))
}

// EndScrub finishes a gesture and seeks to seconds, clamped to the slider range.
func (p *Player) EndScrub(seconds float64) {
	p.machine.EndScrub(p.clamp(seconds))
}

// SeekBy seeks relative to the display time as a single completed gesture.
func (p *Player) SeekBy(delta float64) {
	p.EndScrub(p.machine.DisplayTime() + delta)
}

// SetVolume changes the engine volume if the engine supports it.
func (p *Player) SetVolume(level float64) {
	if vc, ok := p.engine.(engine.VolumeController); ok {
		vc.SetVolume(level)
	}
}

// Volume returns the engine volume. ok is false if the engine has no volume control.
func (p *Player) Volume() (level float64, ok bool) {
	vc, ok := p.engine.(engine.VolumeController)
	if !ok {
		return 0, false
	}
	return vc.Volume(), true
}

// Close releases the engine subscriptions. Callbacks already queued on the
// dispatcher become no-ops. Close does not close the engine.
func (p *Player) Close() {
	if p.closed {
		return
	}
	p.closed = true
	for _, sub := range []engine.Subscription{p.statusSub, p.durationSub, p.tickSub} {
		if sub != nil {
			sub.Cancel()
		}
	}
	p.log.Debug().Msg("player released engine subscriptions")
}

// Closed reports whether Close was called.
func (p *Player) Closed() bool {
	return p.closed
}

func (p *Player) clamp(seconds float64) float64 {
	seconds = max(seconds, 0)
	if d := p.duration.Get(); d > 0 {
		seconds = min(seconds, d)
	}
	return seconds
}
