//go:build !mpv

package engine

import "github.com/rs/zerolog"

func newMPVEngine(_ zerolog.Logger) (Engine, error) {
	return nil, ErrMPVUnavailable
}
