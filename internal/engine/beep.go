package engine

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"
)

const (
	seekSettleDelay = 100 * time.Millisecond
	speakerBuffer   = time.Second / 10
)

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// Verify Beep implements the engine contracts at compile time.
var (
	_ Engine           = (*Beep)(nil)
	_ VolumeController = (*Beep)(nil)
)

// Beep plays local files through the gopxl/beep speaker.
type Beep struct {
	mu sync.Mutex

	log         zerolog.Logger
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	volumeLevel float64
	status      Status
	duration    float64
	ended       bool
	generation  int
	closed      bool

	seekCh chan float64

	statusL   listeners[Status]
	durationL listeners[float64]
}

// NewBeep creates a beep backend. The speaker is initialized lazily by the
// first Load, using that file's sample rate.
func NewBeep(log zerolog.Logger) *Beep {
	b := &Beep{
		log:         log,
		volumeLevel: 1,
		status:      StatusPaused,
		seekCh:      make(chan float64, 1),
	}
	go b.seekLoop()
	return b
}

// Load decodes path and makes it the current item, paused at the start.
// Its duration is published asynchronously.
func (b *Beep) Load(path string) error {
	streamer, format, err := decodeFile(path)
	if err != nil {
		return err
	}

	rate, err := initSpeaker(format.SampleRate)
	if err != nil {
		streamer.Close()
		return err
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		streamer.Close()
		return ErrClosed
	}
	b.releaseLocked()

	b.streamer = streamer
	b.format = format
	var playStreamer beep.Streamer = streamer
	if format.SampleRate != rate {
		playStreamer = beep.Resample(4, format.SampleRate, rate, streamer)
	}
	b.ctrl = &beep.Ctrl{Streamer: playStreamer, Paused: true}
	b.volume = &effects.Volume{Streamer: b.ctrl, Base: 2, Volume: levelToVolume(b.volumeLevel)}
	b.duration = 0
	b.ended = false
	b.generation++
	gen := b.generation
	seconds := format.SampleRate.D(streamer.Len()).Seconds()
	b.mu.Unlock()

	speaker.Play(b.sequence(gen))
	b.setStatus(StatusPaused)

	b.log.Info().Str("path", path).Int("sample_rate", int(format.SampleRate)).Msg("media loaded")

	go b.resolveDuration(gen, seconds)
	return nil
}

func initSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if !speakerInitialized {
		if err := speaker.Init(rate, rate.N(speakerBuffer)); err != nil {
			return 0, err
		}
		speakerSampleRate = rate
		speakerInitialized = true
	}
	return speakerSampleRate, nil
}

// sequence wraps the current volume stage with an end-of-item callback.
// The callback runs inside the speaker lock, so it hands off to a goroutine.
func (b *Beep) sequence(gen int) beep.Streamer {
	return beep.Seq(b.volume, beep.Callback(func() {
		go b.finish(gen)
	}))
}

func (b *Beep) resolveDuration(gen int, seconds float64) {
	b.mu.Lock()
	if gen != b.generation || b.closed {
		b.mu.Unlock()
		return
	}
	b.duration = seconds
	b.mu.Unlock()
	b.log.Debug().Float64("duration", seconds).Msg("duration resolved")
	b.durationL.emit(seconds)
}

// finish handles the end of the current item: playback stops at the end and
// the status becomes paused.
func (b *Beep) finish(gen int) {
	b.mu.Lock()
	if gen != b.generation || b.closed {
		b.mu.Unlock()
		return
	}
	b.ended = true
	b.mu.Unlock()
	b.log.Debug().Msg("end of item")
	b.setStatus(StatusPaused)
}

// Play resumes playback. At the end of the item it restarts from the beginning.
func (b *Beep) Play() {
	b.mu.Lock()
	if b.ctrl == nil || b.closed {
		b.mu.Unlock()
		return
	}
	if b.ended {
		speaker.Lock()
		if b.streamer.Position() >= b.streamer.Len() {
			if err := b.streamer.Seek(0); err != nil {
				b.log.Warn().Err(err).Msg("rewind failed")
			}
		}
		b.ctrl.Paused = false
		speaker.Unlock()
		b.ended = false
		b.generation++
		gen := b.generation
		b.mu.Unlock()
		speaker.Play(b.sequence(gen))
		b.setStatus(StatusPlaying)
		return
	}
	speaker.Lock()
	b.ctrl.Paused = false
	speaker.Unlock()
	b.mu.Unlock()
	b.setStatus(StatusPlaying)
}

// Pause pauses playback.
func (b *Beep) Pause() {
	b.mu.Lock()
	if b.ctrl == nil || b.closed {
		b.mu.Unlock()
		return
	}
	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()
	b.mu.Unlock()
	b.setStatus(StatusPaused)
}

// Seek queues a seek. Only the most recent pending request is kept.
func (b *Beep) Seek(seconds float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil || b.closed {
		return
	}

	select {
	case b.seekCh <- seconds:
	default:
		select {
		case <-b.seekCh:
		default:
		}
		select {
		case b.seekCh <- seconds:
		default:
		}
	}
}

func (b *Beep) seekLoop() {
	for target := range b.seekCh {
		b.doSeek(target)
	}
}

func (b *Beep) doSeek(seconds float64) {
	b.mu.Lock()
	if b.streamer == nil || b.volume == nil || b.closed {
		b.mu.Unlock()
		return
	}
	resume := b.status
	n := b.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	n = max(0, min(n, b.streamer.Len()-1))

	speaker.Lock()
	b.volume.Silent = true
	err := b.streamer.Seek(n)
	speaker.Unlock()
	b.mu.Unlock()

	if err != nil {
		b.log.Warn().Err(err).Float64("target", seconds).Msg("seek failed")
	}

	if resume == StatusPlaying {
		b.setStatus(StatusWaiting)
	}

	// Let the speaker buffer drain before unmuting.
	time.Sleep(seekSettleDelay)

	b.mu.Lock()
	if b.volume != nil && !b.closed {
		speaker.Lock()
		b.volume.Silent = false
		speaker.Unlock()
	}
	b.mu.Unlock()

	if resume == StatusPlaying {
		b.setStatus(StatusPlaying)
	}
}

// Position returns the current playback position in seconds.
func (b *Beep) Position() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := b.format.SampleRate.D(b.streamer.Position())
	speaker.Unlock()
	return pos.Seconds()
}

// OnStatus implements Engine.
func (b *Beep) OnStatus(fn func(Status)) Subscription {
	sub := b.statusL.add(fn)
	b.mu.Lock()
	current := b.status
	b.mu.Unlock()
	fn(current)
	return sub
}

// OnDuration implements Engine.
func (b *Beep) OnDuration(fn func(float64)) Subscription {
	sub := b.durationL.add(fn)
	b.mu.Lock()
	known := b.duration
	b.mu.Unlock()
	if known > 0 {
		fn(known)
	}
	return sub
}

// AddPeriodicObserver implements Engine.
func (b *Beep) AddPeriodicObserver(interval time.Duration, fn func(float64)) Subscription {
	return startPeriodic(interval, b.Position, fn)
}

// SetVolume sets the volume level, clamped to [0, 1].
func (b *Beep) SetVolume(level float64) {
	level = max(0, min(level, 1))
	b.mu.Lock()
	defer b.mu.Unlock()
	b.volumeLevel = level
	if b.volume != nil {
		speaker.Lock()
		b.volume.Volume = levelToVolume(level)
		speaker.Unlock()
	}
}

// Volume returns the volume level.
func (b *Beep) Volume() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.volumeLevel
}

// Close stops playback and releases the current item.
func (b *Beep) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.releaseLocked()
	close(b.seekCh)
	b.mu.Unlock()
	return nil
}

func (b *Beep) releaseLocked() {
	if b.streamer == nil {
		return
	}
	speaker.Clear()
	if err := b.streamer.Close(); err != nil {
		b.log.Warn().Err(err).Msg("close stream")
	}
	b.streamer = nil
	b.ctrl = nil
	b.volume = nil
}

func (b *Beep) setStatus(s Status) {
	b.mu.Lock()
	if b.status == s {
		b.mu.Unlock()
		return
	}
	b.status = s
	b.mu.Unlock()
	b.statusL.emit(s)
}

// levelToVolume maps a linear 0..1 level to beep's base-2 volume.
// 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (silent).
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
