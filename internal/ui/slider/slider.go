// Package slider renders a horizontal seek bar and maps terminal columns to
// values on it.
package slider

import (
	"math"
	"strings"

	"github.com/llehouerou/ripple/internal/ui/styles"
)

const (
	filledCell = "━"
	emptyCell  = "─"
	knobCell   = "●"
)

// Model is a slider over [0, Max]. Columns are relative to the slider's
// left edge.
type Model struct {
	width int
	max   float64
	value float64
}

// New creates a slider of the given width in cells.
func New(width int) Model {
	return Model{width: max(width, 0)}
}

// SetWidth sets the slider width in cells.
func (m *Model) SetWidth(width int) {
	m.width = max(width, 0)
}

// Width returns the slider width in cells.
func (m Model) Width() int {
	return m.width
}

// SetMax sets the upper bound and re-clamps the value.
func (m *Model) SetMax(upper float64) {
	m.max = max(upper, 0)
	m.value = m.clamp(m.value)
}

// Max returns the upper bound.
func (m Model) Max() float64 {
	return m.max
}

// SetValue moves the knob, clamping to [0, Max].
func (m *Model) SetValue(v float64) {
	m.value = m.clamp(v)
}

// Value returns the knob value.
func (m Model) Value() float64 {
	return m.value
}

// Contains reports whether col falls on the slider.
func (m Model) Contains(col int) bool {
	return col >= 0 && col < m.width
}

// ValueAt maps a column to a value. Columns outside the slider clamp to its
// ends.
func (m Model) ValueAt(col int) float64 {
	if m.width <= 1 || m.max <= 0 {
		return 0
	}
	col = max(0, min(col, m.width-1))
	return float64(col) / float64(m.width-1) * m.max
}

// Position maps a value to the column of the knob.
func (m Model) Position(v float64) int {
	if m.width <= 1 || m.max <= 0 {
		return 0
	}
	col := int(math.Round(m.clamp(v) / m.max * float64(m.width-1)))
	return max(0, min(col, m.width-1))
}

func (m Model) clamp(v float64) float64 {
	return max(0, min(v, m.max))
}

// View renders the track with the knob at the current value.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	s := styles.T().S()
	pos := m.Position(m.value)

	var b strings.Builder
	b.WriteString(s.Accent.Render(strings.Repeat(filledCell, pos)))
	b.WriteString(s.Accent.Render(knobCell))
	b.WriteString(s.Subtle.Render(strings.Repeat(emptyCell, m.width-pos-1)))
	return b.String()
}
