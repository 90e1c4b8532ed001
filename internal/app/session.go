package app

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/ripple/internal/observable"
	"github.com/llehouerou/ripple/internal/playback"
	"github.com/llehouerou/ripple/internal/scrub"
	"github.com/llehouerou/ripple/internal/state"
)

const (
	// Positions closer than this to either end are not worth resuming.
	resumeMinPosition = 5.0
	resumeTailMargin  = 5.0
)

// session remembers the position of the loaded file and restores it on the
// next load of the same file. It lives on the UI loop.
type session struct {
	player *playback.Player
	store  state.Interface
	log    zerolog.Logger

	path          string
	pendingResume float64 // saved position waiting for the duration, 0 if none
	subs          []*observable.Subscription
}

func newSession(p *playback.Player, store state.Interface, log zerolog.Logger) *session {
	s := &session{player: p, store: store, log: log}
	if store == nil {
		return s
	}
	s.subs = []*observable.Subscription{
		p.DurationValue().Subscribe(s.onDuration),
		p.DisplayTimeValue().Subscribe(s.onDisplayTime),
	}
	return s
}

// start records path as the current file and looks up its saved position.
func (s *session) start(path string) {
	s.path = path
	s.pendingResume = 0
	if s.store == nil {
		return
	}

	pos, ok, err := s.store.GetPosition(path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("read resume position")
		return
	}
	if ok && pos >= resumeMinPosition {
		s.pendingResume = pos
	}
}

// keep goes on recording positions for path without looking up a resume
// point, as when a load failed and the current file stays loaded.
func (s *session) keep(path string) {
	s.path = path
	s.pendingResume = 0
}

// onDuration applies a pending resume once the slider range is known.
func (s *session) onDuration(d float64) {
	if d <= 0 || s.pendingResume == 0 {
		return
	}
	pos := s.pendingResume
	s.pendingResume = 0
	if pos >= d-resumeTailMargin {
		return
	}
	s.log.Info().Str("path", s.path).Float64("position", pos).Msg("resuming")
	s.player.EndScrub(pos)
}

func (s *session) onDisplayTime(t float64) {
	if s.path == "" || s.pendingResume != 0 || s.player.ScrubState().Kind != scrub.Idle {
		return
	}
	s.store.SavePosition(s.path, t)
}

// finish stores the final position of the current file, or forgets it when
// playback got close to either end. Nothing is recorded until the next start.
func (s *session) finish() {
	path, pending := s.path, s.pendingResume
	s.path = ""
	s.pendingResume = 0
	if s.store == nil || path == "" || pending != 0 {
		return
	}
	t := s.player.DisplayTime()
	d := s.player.Duration()
	if t < resumeMinPosition || (d > 0 && t >= d-resumeTailMargin) {
		if err := s.store.ClearPosition(path); err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("clear resume position")
		}
		return
	}
	s.store.SavePosition(path, t)
}

func (s *session) close() {
	for _, sub := range s.subs {
		sub.Cancel()
	}
	s.subs = nil
}
