// Package keymap defines key bindings and action dispatch for the player.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Playback actions
	ActionPlayPause   Action = "play_pause"
	ActionScrubBack   Action = "scrub_back"    // left/h - drag the display time, seek after a pause
	ActionScrubFwd    Action = "scrub_forward" // right/l
	ActionSeekBack    Action = "seek_back"     // shift+left - immediate seek
	ActionSeekForward Action = "seek_forward"  // shift+right
	ActionVolumeUp    Action = "volume_up"
	ActionVolumeDown  Action = "volume_down"
)
