package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global" or "playback"
}

// All contains all key bindings.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "quit", "global"},
	{ActionHelp, []string{"?"}, "more keys", "global"},

	// Playback
	{ActionPlayPause, []string{" ", "enter"}, "play/pause", "playback"},
	{ActionScrubBack, []string{"left", "h"}, "scrub back", "playback"},
	{ActionScrubFwd, []string{"right", "l"}, "scrub forward", "playback"},
	{ActionSeekBack, []string{"shift+left"}, "seek back", "playback"},
	{ActionSeekForward, []string{"shift+right"}, "seek forward", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "volume up", "playback"},
	{ActionVolumeDown, []string{"-"}, "volume down", "playback"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// KeyBinding converts b to a bubbles key binding for the help view.
func (b Binding) KeyBinding() key.Binding {
	return key.NewBinding(
		key.WithKeys(b.Keys...),
		key.WithHelp(displayKeys(b.Keys), b.Description),
	)
}

func displayKeys(keys []string) string {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		switch k {
		case " ":
			names = append(names, "space")
		case "left":
			names = append(names, "←")
		case "right":
			names = append(names, "→")
		case "shift+left":
			names = append(names, "shift+←")
		case "shift+right":
			names = append(names, "shift+→")
		default:
			names = append(names, k)
		}
	}
	return strings.Join(names, "/")
}

// Help implements help.KeyMap over a set of bindings.
type Help struct {
	short []Action
	all   []Binding
}

// NewHelp builds the help key map. The short view lists the given actions.
func NewHelp(short ...Action) Help {
	return Help{short: short, all: All}
}

// ShortHelp implements help.KeyMap.
func (h Help) ShortHelp() []key.Binding {
	var result []key.Binding
	for _, action := range h.short {
		for _, b := range h.all {
			if b.Action == action {
				result = append(result, b.KeyBinding())
				break
			}
		}
	}
	return result
}

// FullHelp implements help.KeyMap, one column per context.
func (h Help) FullHelp() [][]key.Binding {
	var columns [][]key.Binding
	for _, ctx := range []string{"playback", "global"} {
		var col []key.Binding
		for _, b := range h.all {
			if b.Context == ctx {
				col = append(col, b.KeyBinding())
			}
		}
		columns = append(columns, col)
	}
	return columns
}
