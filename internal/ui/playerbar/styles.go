package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/ripple/internal/ui/styles"
)

var barStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240"))

func titleStyle() lipgloss.Style { return styles.T().S().Title }

func metaStyle() lipgloss.Style { return styles.T().S().Muted }

func buttonStyle() lipgloss.Style { return styles.T().S().Accent }

func placeholderStyle() lipgloss.Style { return styles.T().S().Subtle.Italic(true) }

func errorStyle() lipgloss.Style { return styles.T().S().Error }
