package playback

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultTickInterval is the cadence of periodic position observations.
const DefaultTickInterval = 500 * time.Millisecond

// Dispatcher runs fn on the goroutine that owns player state.
type Dispatcher func(fn func())

// Immediate runs fn on the calling goroutine. Use it only when the engine
// already delivers callbacks on the owning goroutine (tests, the mock engine).
func Immediate(fn func()) { fn() }

// Option configures a Player.
type Option func(*options)

type options struct {
	interval time.Duration
	dispatch Dispatcher
	log      zerolog.Logger
}

func defaultOptions() options {
	return options{
		interval: DefaultTickInterval,
		dispatch: Immediate,
		log:      zerolog.Nop(),
	}
}

// WithTickInterval sets the periodic observation interval. Non-positive
// values keep the default.
func WithTickInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithDispatcher sets how engine callbacks reach player state.
func WithDispatcher(d Dispatcher) Option {
	return func(o *options) {
		if d != nil {
			o.dispatch = d
		}
	}
}

// WithLogger sets the player logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}
