package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StageBar shows one tenant's run as it moves through its stages
type StageBar struct {
	ui    *UI
	bar   progress.Model
	label string
	start time.Time

	mu        sync.Mutex
	stage     string
	done      int
	total     int
	lastStage string
}

// NewStageBar creates a progress bar labelled with the tenant id
func (u *UI) NewStageBar(label string) *StageBar {
	return &StageBar{
		ui: u,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
		label: label,
		start: time.Now(),
	}
}

// Report records progress within a stage and redraws
func (p *StageBar) Report(stage string, done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stage, p.done, p.total = stage, done, total

	if !p.ui.shouldStyle() {
		// one line per stage keeps logs readable
		if stage != p.lastStage {
			fmt.Fprintf(p.ui.out, "%s: %s\n", p.label, stage)
			p.lastStage = stage
		}
		return
	}

	labelStyle := lipgloss.NewStyle().Width(18)
	stageStyle := lipgloss.NewStyle().Width(14).Foreground(ColorProgress)
	fmt.Fprintf(p.ui.out, "\r\033[K  %s %s %s %s",
		labelStyle.Render(p.label),
		stageStyle.Render(stage),
		p.bar.ViewAs(fraction(done, total)),
		StyleMuted.Render(fmt.Sprintf("%d/%d", done, total)),
	)
}

// Complete ends the bar with a success line
func (p *StageBar) Complete(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ui.shouldStyle() {
		fmt.Fprintf(p.ui.out, "%s: %s (%s)\n", p.label, msg, formatDuration(time.Since(p.start)))
		return
	}
	fmt.Fprintf(p.ui.out, "\r\033[K  %s %s %s %s\n",
		StyleSuccess.Render(SymbolSuccess),
		lipgloss.NewStyle().Width(18).Render(p.label),
		msg,
		StyleMuted.Render(formatDuration(time.Since(p.start))),
	)
}

// Fail ends the bar with the error
func (p *StageBar) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ui.shouldStyle() {
		fmt.Fprintf(p.ui.out, "%s: FAILED: %v\n", p.label, err)
		return
	}
	fmt.Fprintf(p.ui.out, "\r\033[K  %s %s %s\n",
		StyleError.Render(SymbolError),
		lipgloss.NewStyle().Width(18).Render(p.label),
		StyleError.Render(err.Error()),
	)
}

func fraction(done, total int) float64 {
	if total <= 0 {
		return 1
	}
	pct := float64(done) / float64(total)
	if pct > 1 {
		return 1
	}
	return pct
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}
