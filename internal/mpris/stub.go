//go:build !linux

// Package mpris exposes the player over MPRIS on Linux; elsewhere the
// adapter only tracks state.
package mpris

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/ripple/internal/playback"
)

// Adapter is a no-op on non-Linux platforms.
type Adapter struct {
	*bridge
}

// New returns an adapter without a D-Bus server on non-Linux platforms.
func New(p *playback.Player, post func(fn func()), _ zerolog.Logger) (*Adapter, error) {
	return &Adapter{bridge: newBridge(p, post)}, nil
}

// Close releases the player subscriptions.
func (a *Adapter) Close() error {
	a.detach()
	return nil
}
