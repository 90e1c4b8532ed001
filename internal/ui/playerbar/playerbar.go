// Package playerbar renders the player: header, play/pause button, display
// time label and seek slider.
package playerbar

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/ripple/internal/engine"
	"github.com/llehouerou/ripple/internal/ui/render"
	"github.com/llehouerou/ripple/internal/ui/slider"
)

// Placeholder is shown instead of the slider until the duration is known.
const Placeholder = "Slider will appear here when the player is ready"

// Layout of the bar, in cells from its top-left corner.
const (
	Height = 5 // top border, header, controls, slider, bottom border

	HeaderRow   = 1
	ControlsRow = 2
	SliderRow   = 3

	ContentX    = 3 // border + 2 cells of padding
	ButtonWidth = 5 // "[ ▶ ]"
)

// State holds everything needed to render the player bar.
type State struct {
	Status      engine.Status
	DisplayTime float64 // seconds
	Duration    float64 // seconds, 0 while unknown
	Title       string
	Artist      string
	Size        int64 // file size in bytes
	Volume      float64
	HasVolume   bool
	Err         string // last error, shown in place of the header
}

// Target identifies the widget under a mouse position.
type Target int

const (
	TargetNone Target = iota
	TargetButton
	TargetSlider
)

// ContentWidth returns the usable width inside border and padding.
func ContentWidth(width int) int {
	return max(width-2*ContentX, 0)
}

// Slider returns the slider geometry for the given bar width and state.
func Slider(s State, width int) slider.Model {
	m := slider.New(ContentWidth(width))
	m.SetMax(s.Duration)
	m.SetValue(s.DisplayTime)
	return m
}

// HitTest maps a mouse position, relative to the bar, to a widget.
// The slider is only a target once the duration is known.
func HitTest(s State, x, y, width int) Target {
	col := x - ContentX
	switch {
	case y == ControlsRow && col >= 0 && col < ButtonWidth:
		return TargetButton
	case y == SliderRow && s.Duration > 0 && Slider(s, width).Contains(col):
		return TargetSlider
	}
	return TargetNone
}

// SliderValueAt maps a mouse column, relative to the bar, to a slider value.
func SliderValueAt(s State, x, width int) float64 {
	return Slider(s, width).ValueAt(x - ContentX)
}

// ButtonIcon returns ▶ when paused and ⏸ while waiting or playing.
func ButtonIcon(status engine.Status) string {
	if status.IsPaused() {
		return "▶"
	}
	return "⏸"
}

// Label returns the display time label.
func Label(seconds float64) string {
	return "Display time " + FormatTime(seconds)
}

// FormatTime formats seconds as MM:SS, both zero padded.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Render returns the player bar string for the given width.
func Render(s State, width int) string {
	inner := ContentWidth(width)

	lines := []string{
		renderHeader(s, inner),
		renderControls(s, inner),
		renderSlider(s, width),
	}

	return barStyle.Padding(0, 2).Width(width - 2).Render(strings.Join(lines, "\n"))
}

func renderHeader(s State, width int) string {
	if s.Err != "" {
		return errorStyle().Render(render.TruncateEllipsis(s.Err, width))
	}

	title := "No media loaded"
	if s.Title != "" {
		title = s.Title
		if s.Artist != "" {
			title = s.Artist + " - " + s.Title
		}
	}

	var meta []string
	if s.Size > 0 {
		meta = append(meta, humanize.Bytes(uint64(s.Size)))
	}
	if s.HasVolume {
		meta = append(meta, fmt.Sprintf("vol %d%%", int(math.Round(s.Volume*100))))
	}
	right := strings.Join(meta, " · ")
	if right == "" {
		return titleStyle().Render(render.TruncateEllipsis(title, width))
	}

	maxTitle := max(width-len([]rune(right))-1, 1)
	return render.Row(
		titleStyle().Render(render.TruncateEllipsis(title, maxTitle)),
		metaStyle().Render(right),
		width,
	)
}

func renderControls(s State, width int) string {
	button := buttonStyle().Render("[ " + ButtonIcon(s.Status) + " ]")
	label := render.TruncateEllipsis(Label(s.DisplayTime), max(width-ButtonWidth-2, 0))
	return button + "  " + label
}

func renderSlider(s State, width int) string {
	if s.Duration <= 0 {
		return placeholderStyle().Render(render.TruncateEllipsis(Placeholder, ContentWidth(width)))
	}
	return Slider(s, width).View()
}
