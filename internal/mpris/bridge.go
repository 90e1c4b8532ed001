package mpris

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/llehouerou/ripple/internal/engine"
	"github.com/llehouerou/ripple/internal/observable"
	"github.com/llehouerou/ripple/internal/playback"
	"github.com/llehouerou/ripple/internal/tags"
)

const noTrackID = "/org/mpris/MediaPlayer2/TrackList/NoTrack"

// Controller is the part of the player driven by remote commands.
type Controller interface {
	Play()
	Pause()
	Toggle()
	SeekBy(delta float64)
	EndScrub(seconds float64)
	SetVolume(level float64)
}

// Snapshot is the player state served to D-Bus readers.
type Snapshot struct {
	Status    engine.Status
	Position  float64 // display time, seconds
	Duration  float64 // seconds, 0 while unknown
	Path      string
	Title     string
	Artist    string
	Album     string
	Volume    float64
	HasVolume bool
}

// TrackID returns the MPRIS object path of the current track.
func (s Snapshot) TrackID() string {
	if s.Path == "" {
		return noTrackID
	}
	return formatTrackID(s.Path)
}

// bridge connects the D-Bus goroutines to the UI loop. Reads come from a
// snapshot updated by player listeners on the UI loop; commands are posted
// back to it.
type bridge struct {
	ctrl Controller
	post func(fn func())

	mu   sync.RWMutex
	snap Snapshot

	subs []*observable.Subscription
}

// newBridge subscribes to p. Call it from the UI loop, or before it starts.
func newBridge(p *playback.Player, post func(fn func())) *bridge {
	b := &bridge{ctrl: p, post: post}
	b.snap = Snapshot{
		Status:   p.Status(),
		Position: p.DisplayTime(),
		Duration: p.Duration(),
	}
	if level, ok := p.Volume(); ok {
		b.snap.Volume = level
		b.snap.HasVolume = true
	}

	b.subs = []*observable.Subscription{
		p.StatusValue().Subscribe(func(s engine.Status) {
			b.update(func(snap *Snapshot) { snap.Status = s })
		}),
		p.DurationValue().Subscribe(func(d float64) {
			b.update(func(snap *Snapshot) { snap.Duration = d })
		}),
		p.DisplayTimeValue().Subscribe(func(t float64) {
			b.update(func(snap *Snapshot) { snap.Position = t })
		}),
	}
	return b
}

func (b *bridge) update(fn func(*Snapshot)) {
	b.mu.Lock()
	fn(&b.snap)
	b.mu.Unlock()
}

func (b *bridge) snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}

// detach cancels the player subscriptions. Call it from the UI loop.
func (b *bridge) detach() {
	for _, sub := range b.subs {
		sub.Cancel()
	}
	b.subs = nil
}

// TrackChanged records the loaded file and its tags.
func (b *bridge) TrackChanged(path string, t *tags.Tag) {
	b.update(func(snap *Snapshot) {
		snap.Path = path
		snap.Title, snap.Artist, snap.Album = "", "", ""
		if t != nil {
			snap.Title, snap.Artist, snap.Album = t.Title, t.Artist, t.Album
		}
	})
}

// VolumeChanged records a volume change made by the UI.
func (b *bridge) VolumeChanged(level float64) {
	b.update(func(snap *Snapshot) {
		snap.Volume = level
		snap.HasVolume = true
	})
}

func (b *bridge) play()      { b.post(b.ctrl.Play) }
func (b *bridge) pause()     { b.post(b.ctrl.Pause) }
func (b *bridge) playPause() { b.post(b.ctrl.Toggle) }

func (b *bridge) seek(offset time.Duration) {
	b.post(func() { b.ctrl.SeekBy(offset.Seconds()) })
}

// setPosition seeks to an absolute position. Requests for another track or
// past the end are ignored.
func (b *bridge) setPosition(trackID string, position time.Duration) bool {
	snap := b.snapshot()
	seconds := position.Seconds()
	if trackID != snap.TrackID() || seconds < 0 || (snap.Duration > 0 && seconds > snap.Duration) {
		return false
	}
	b.post(func() { b.ctrl.EndScrub(seconds) })
	return true
}

func (b *bridge) setVolume(level float64) {
	level = max(0, min(level, 1))
	b.post(func() { b.ctrl.SetVolume(level) })
	b.VolumeChanged(level)
}

func formatTrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
