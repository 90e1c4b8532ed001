package engine

import (
	"sync"
	"time"
)

// Mock is a deterministic Engine for tests. Callbacks run synchronously on
// the goroutine that drives the mock.
type Mock struct {
	mu sync.Mutex

	status    Status
	duration  float64
	volume    float64
	loadErr   error
	loads     []string
	plays     int
	pauses    int
	seeks     []float64
	intervals []time.Duration
	closed    bool

	statusL   listeners[Status]
	durationL listeners[float64]
	tickL     listeners[float64]
}

// NewMock creates a paused mock with no duration.
func NewMock() *Mock {
	return &Mock{status: StatusPaused, volume: 1}
}

// Load implements Engine.
func (m *Mock) Load(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = append(m.loads, path)
	return m.loadErr
}

// Play implements Engine. It only records the call; use SetStatus to report.
func (m *Mock) Play() {
	m.mu.Lock()
	m.plays++
	m.mu.Unlock()
}

// Pause implements Engine.
func (m *Mock) Pause() {
	m.mu.Lock()
	m.pauses++
	m.mu.Unlock()
}

// Seek implements Engine.
func (m *Mock) Seek(seconds float64) {
	m.mu.Lock()
	m.seeks = append(m.seeks, seconds)
	m.mu.Unlock()
}

// OnStatus implements Engine.
func (m *Mock) OnStatus(fn func(Status)) Subscription {
	sub := m.statusL.add(fn)
	m.mu.Lock()
	s := m.status
	m.mu.Unlock()
	fn(s)
	return sub
}

// OnDuration implements Engine.
func (m *Mock) OnDuration(fn func(float64)) Subscription {
	sub := m.durationL.add(fn)
	m.mu.Lock()
	d := m.duration
	m.mu.Unlock()
	if d > 0 {
		fn(d)
	}
	return sub
}

// AddPeriodicObserver implements Engine. Ticks are driven by Tick.
func (m *Mock) AddPeriodicObserver(interval time.Duration, fn func(float64)) Subscription {
	m.mu.Lock()
	m.intervals = append(m.intervals, interval)
	m.mu.Unlock()
	return m.tickL.add(fn)
}

// SetVolume implements VolumeController.
func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	m.volume = max(0, min(level, 1))
	m.mu.Unlock()
}

// Volume implements VolumeController.
func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Close implements Engine.
func (m *Mock) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Test helpers

// SetStatus reports a status change to subscribers.
func (m *Mock) SetStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
	m.statusL.emit(s)
}

// ResolveDuration reports the current item's duration to subscribers.
func (m *Mock) ResolveDuration(seconds float64) {
	m.mu.Lock()
	m.duration = seconds
	m.mu.Unlock()
	m.durationL.emit(seconds)
}

// Tick reports a playback position to periodic observers.
func (m *Mock) Tick(seconds float64) {
	m.tickL.emit(seconds)
}

// SetLoadError makes subsequent Load calls fail.
func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	m.loadErr = err
	m.mu.Unlock()
}

func (m *Mock) Loads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loads...)
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plays
}

func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauses
}

func (m *Mock) SeekCalls() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.seeks...)
}

func (m *Mock) Intervals() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.intervals...)
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Subscribers returns the live status, duration and periodic subscriptions.
func (m *Mock) Subscribers() (status, duration, periodic int) {
	return m.statusL.len(), m.durationL.len(), m.tickL.len()
}

// Verify Mock implements the engine contracts at compile time.
var (
	_ Engine           = (*Mock)(nil)
	_ VolumeController = (*Mock)(nil)
)
