// Package ui renders riskgen's terminal output: headers, key/value lines,
// per-tenant progress and run summaries. Output falls back to plain text
// when stdout is not a terminal or NO_COLOR is set.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/willfong/riskgen/internal/models"
)

// UI holds the terminal state
type UI struct {
	IsTTY   bool
	Width   int
	NoColor bool

	out io.Writer
}

// KV is one row of a summary box
type KV struct {
	Key   string
	Value string
}

var noColorEnv = os.Getenv("NO_COLOR") != ""

// New creates a UI bound to stdout
func New() *UI {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	width := 80
	if isTTY {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	return &UI{
		IsTTY:   isTTY,
		Width:   width,
		NoColor: noColorEnv,
		out:     os.Stdout,
	}
}

// NewPlain creates an unstyled UI writing to w
func NewPlain(w io.Writer) *UI {
	return &UI{Width: 80, NoColor: true, out: w}
}

// SetNoColor disables colors and animations
func (u *UI) SetNoColor(noColor bool) {
	u.NoColor = noColor
}

// Out is the writer progress displays draw to
func (u *UI) Out() io.Writer {
	return u.out
}

// Println writes a line to the UI's output
func (u *UI) Println(a ...interface{}) {
	fmt.Fprintln(u.out, a...)
}

func (u *UI) shouldStyle() bool {
	return u.IsTTY && !u.NoColor
}

// Header renders a bordered title
func (u *UI) Header(title string) string {
	if !u.shouldStyle() {
		return fmt.Sprintf("=== %s ===", title)
	}

	return lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 2).
		Render(title)
}

// KeyValue renders one aligned key/value line
func (u *UI) KeyValue(key, value string) string {
	if !u.shouldStyle() {
		return fmt.Sprintf("%-12s %s", key+":", value)
	}

	keyStyle := lipgloss.NewStyle().Foreground(ColorMuted).Width(12)
	return "  " + keyStyle.Render(key) + " " + lipgloss.NewStyle().Bold(true).Render(value)
}

func (u *UI) Success(msg string) string {
	if !u.shouldStyle() {
		return "[OK] " + msg
	}
	return StyleSuccess.Render(SymbolSuccess+" ") + msg
}

func (u *UI) Error(msg string) string {
	if !u.shouldStyle() {
		return "[FAILED] " + msg
	}
	return StyleError.Render(SymbolError + " " + msg)
}

func (u *UI) Warning(msg string) string {
	if !u.shouldStyle() {
		return "[WARN] " + msg
	}
	return StyleWarning.Render(SymbolWarning + " " + msg)
}

func (u *UI) Muted(msg string) string {
	if !u.shouldStyle() {
		return msg
	}
	return StyleMuted.Render(msg)
}

// Tier renders a risk tier label in its tier color
func (u *UI) Tier(tier models.RiskTier) string {
	if !u.shouldStyle() {
		return string(tier)
	}
	color, ok := tierColors[tier]
	if !ok {
		return string(tier)
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(string(tier))
}

// TierMix renders tier counts in canonical tier order, skipping empty tiers
func (u *UI) TierMix(counts map[models.RiskTier]int) string {
	var parts []string
	for _, tier := range models.AllRiskTiers {
		if n := counts[tier]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", u.Tier(tier), n))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// SummaryBox renders a titled box of key/value rows. A "Status" row is
// colored by whether it reads as success or failure.
func (u *UI) SummaryBox(title string, items []KV) string {
	if !u.shouldStyle() {
		var sb strings.Builder
		fmt.Fprintf(&sb, "\n=== %s ===\n", title)
		for _, item := range items {
			fmt.Fprintf(&sb, "%-14s %s\n", item.Key+":", item.Value)
		}
		return sb.String()
	}

	maxKeyWidth := 0
	for _, item := range items {
		if len(item.Key) > maxKeyWidth {
			maxKeyWidth = len(item.Key)
		}
	}

	failed := false
	keyStyle := lipgloss.NewStyle().Foreground(ColorMuted).Width(maxKeyWidth + 2)
	var lines []string
	for _, item := range items {
		value := lipgloss.NewStyle().Bold(true).Render(item.Value)
		if item.Key == "Status" {
			lower := strings.ToLower(item.Value)
			switch {
			case strings.Contains(lower, "success"):
				value = StyleSuccess.Render(SymbolSuccess + " " + item.Value)
			case strings.Contains(lower, "fail"):
				value = StyleError.Render(SymbolError + " " + item.Value)
				failed = true
			}
		}
		lines = append(lines, "  "+keyStyle.Render(item.Key)+" "+value)
	}

	accent := ColorSuccess
	if failed {
		accent = ColorError
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)

	return "\n" + titleStyle.Render("  "+title) + "\n" + boxStyle.Render(strings.Join(lines, "\n"))
}
