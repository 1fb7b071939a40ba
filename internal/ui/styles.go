package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/willfong/riskgen/internal/models"
)

// Color palette - adaptive so it reads on light and dark terminals.
var (
	ColorPrimary  = lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#58A6FF"}
	ColorSuccess  = lipgloss.AdaptiveColor{Light: "#008000", Dark: "#3FB950"}
	ColorError    = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#F85149"}
	ColorWarning  = lipgloss.AdaptiveColor{Light: "#CC6600", Dark: "#D29922"}
	ColorMuted    = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#8B949E"}
	ColorProgress = lipgloss.AdaptiveColor{Light: "#6639A6", Dark: "#A371F7"}
)

// tierColors maps each risk tier to a traffic-light color
var tierColors = map[models.RiskTier]lipgloss.AdaptiveColor{
	models.TierVeryHighRisk: ColorError,
	models.TierHighRisk:     ColorWarning,
	models.TierModerateRisk: ColorPrimary,
	models.TierLowRisk:      ColorSuccess,
}

const (
	SymbolSuccess  = "✓"
	SymbolError    = "✗"
	SymbolWarning  = "!"
	SymbolProgress = "●"
	SymbolPending  = "○"
)

var (
	StyleSuccess  = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError    = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleWarning  = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleMuted    = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleProgress = lipgloss.NewStyle().Foreground(ColorProgress)
)
