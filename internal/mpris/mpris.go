//go:build linux

// Package mpris exposes the player on the session bus as an MPRIS media
// player, so desktop media keys and applets can drive it.
package mpris

import (
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"

	"github.com/llehouerou/ripple/internal/engine"
	"github.com/llehouerou/ripple/internal/playback"
)

// Adapter connects the player to MPRIS over D-Bus.
type Adapter struct {
	*bridge
	server *server.Server
	log    zerolog.Logger
}

// New creates and starts an MPRIS adapter. Commands received over D-Bus are
// handed to post, which must run them on the UI loop. Call New from the UI
// loop or before it starts.
func New(p *playback.Player, post func(fn func()), log zerolog.Logger) (*Adapter, error) {
	b := newBridge(p, post)
	a := &Adapter{bridge: b, log: log}
	a.server = server.NewServer("ripple", &rootAdapter{}, &playerAdapter{bridge: b})

	go func() {
		if err := a.server.Listen(); err != nil {
			a.log.Warn().Err(err).Msg("mpris server stopped")
		}
	}()

	log.Debug().Msg("mpris adapter started")
	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	a.detach()
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil
}

func (r *rootAdapter) Quit() error {
	return nil
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Ripple", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav", "audio/ogg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	*bridge
}

func (p *playerAdapter) Next() error {
	return nil
}

func (p *playerAdapter) Previous() error {
	return nil
}

func (p *playerAdapter) Pause() error {
	p.pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.playPause()
	return nil
}

func (p *playerAdapter) Stop() error {
	p.pause()
	return nil
}

func (p *playerAdapter) Play() error {
	p.play()
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	p.seek(time.Duration(offset) * time.Microsecond)
	return nil
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	p.setPosition(trackID, time.Duration(position)*time.Microsecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.snapshot()), nil
}

func playbackStatus(s Snapshot) types.PlaybackStatus {
	switch {
	case s.Path == "":
		return types.PlaybackStatusStopped
	case s.Status == engine.StatusPaused:
		return types.PlaybackStatusPaused
	default:
		return types.PlaybackStatusPlaying
	}
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	return metadata(p.snapshot()), nil
}

func metadata(s Snapshot) types.Metadata {
	if s.Path == "" {
		return types.Metadata{}
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(s.TrackID()),
		Length:  types.Microseconds(secondsToDuration(s.Duration).Microseconds()),
		Title:   s.Title,
		Album:   s.Album,
	}
	if s.Artist != "" {
		meta.Artist = []string{s.Artist}
	}
	if artPath := FindAlbumArt(s.Path); artPath != "" {
		meta.ArtUrl = "file://" + artPath
	}
	return meta
}

func (p *playerAdapter) Volume() (float64, error) {
	snap := p.snapshot()
	if !snap.HasVolume {
		return 1.0, nil
	}
	return snap.Volume, nil
}

func (p *playerAdapter) SetVolume(level float64) error {
	p.setVolume(level)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return secondsToDuration(p.snapshot().Position).Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.snapshot().Path != "", nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.snapshot().Duration > 0, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
