package engine

import (
	"emperror.dev/errors"
	"github.com/rs/zerolog"
)

// New creates the backend named by kind. An empty kind selects beep.
func New(kind Kind, log zerolog.Logger) (Engine, error) {
	switch kind {
	case "", KindBeep:
		return NewBeep(log.With().Str("engine", string(KindBeep)).Logger()), nil
	case KindMPV:
		return newMPVEngine(log.With().Str("engine", string(KindMPV)).Logger())
	default:
		return nil, errors.Errorf("unknown engine %q", kind)
	}
}
