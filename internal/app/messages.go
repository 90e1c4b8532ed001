// Package app contains the bubbletea model of the player.
package app

// LoadMsg asks the model to load a media file.
type LoadMsg struct {
	Path string
}

// ScrubCommitMsg is sent after the keyboard scrub debounce delay.
// The Version field is used to ignore stale timeouts when keys repeat.
type ScrubCommitMsg struct {
	Version int
}
