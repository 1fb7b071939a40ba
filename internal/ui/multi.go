package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Status of one tenant on a TenantBoard
type Status int

const (
	StatusPending Status = iota
	StatusProgress
	StatusSuccess
	StatusError
)

// TenantBoard tracks several tenants generating concurrently, one line each
type TenantBoard struct {
	ui *UI

	mu        sync.Mutex
	rows      map[string]*boardRow
	order     []string
	lineCount int
}

type boardRow struct {
	tenantID string
	status   Status
	stage    string
	done     int
	total    int
	start    time.Time
	message  string
	err      error
	bar      progress.Model
}

func (u *UI) NewTenantBoard(tenantIDs []string) *TenantBoard {
	b := &TenantBoard{ui: u, rows: make(map[string]*boardRow, len(tenantIDs))}
	for _, id := range tenantIDs {
		if _, ok := b.rows[id]; ok {
			continue
		}
		b.rows[id] = &boardRow{
			tenantID: id,
			bar: progress.New(
				progress.WithDefaultGradient(),
				progress.WithWidth(25),
				progress.WithoutPercentage(),
			),
		}
		b.order = append(b.order, id)
	}
	return b
}

// Report records stage progress for a tenant
func (b *TenantBoard) Report(tenantID, stage string, done, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	row, ok := b.rows[tenantID]
	if !ok {
		return
	}
	if row.status == StatusPending {
		row.status = StatusProgress
		row.start = time.Now()
	}
	row.stage, row.done, row.total = stage, done, total
	b.render()
}

// Complete marks a tenant done with a summary message
func (b *TenantBoard) Complete(tenantID, message string) {
	b.finish(tenantID, StatusSuccess, message, nil)
}

// Fail marks a tenant failed
func (b *TenantBoard) Fail(tenantID string, err error) {
	b.finish(tenantID, StatusError, "", err)
}

func (b *TenantBoard) finish(tenantID string, status Status, message string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	row, ok := b.rows[tenantID]
	if !ok {
		return
	}
	row.status, row.message, row.err = status, message, err

	if !b.ui.shouldStyle() {
		fmt.Fprintln(b.ui.out, b.plainLine(row))
		return
	}
	b.render()
}

// Failed reports how many tenants ended in error
func (b *TenantBoard) Failed() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, row := range b.rows {
		if row.status == StatusError {
			n++
		}
	}
	return n
}

// render redraws every row in place. Caller holds b.mu.
func (b *TenantBoard) render() {
	if !b.ui.shouldStyle() {
		return
	}
	if b.lineCount > 0 {
		fmt.Fprintf(b.ui.out, "\033[%dA", b.lineCount)
	}
	for _, id := range b.order {
		fmt.Fprintf(b.ui.out, "\033[K%s\n", b.styledLine(b.rows[id]))
	}
	b.lineCount = len(b.order)
}

func (b *TenantBoard) styledLine(row *boardRow) string {
	name := lipgloss.NewStyle().Width(18).Render(row.tenantID)

	switch row.status {
	case StatusProgress:
		return fmt.Sprintf("  %s %s %s %s %s",
			StyleProgress.Render(SymbolProgress),
			name,
			lipgloss.NewStyle().Width(14).Foreground(ColorProgress).Render(row.stage),
			row.bar.ViewAs(fraction(row.done, row.total)),
			StyleMuted.Render(fmt.Sprintf("%d/%d", row.done, row.total)))
	case StatusSuccess:
		return fmt.Sprintf("  %s %s %s %s",
			StyleSuccess.Render(SymbolSuccess), name, row.message,
			StyleMuted.Render(formatDuration(time.Since(row.start))))
	case StatusError:
		return fmt.Sprintf("  %s %s %s", StyleError.Render(SymbolError), name, StyleError.Render(errText(row.err)))
	default:
		return fmt.Sprintf("  %s %s %s", StyleMuted.Render(SymbolPending), name, StyleMuted.Render("waiting..."))
	}
}

func (b *TenantBoard) plainLine(row *boardRow) string {
	if row.status == StatusError {
		return fmt.Sprintf("[FAILED] %s: %s", row.tenantID, errText(row.err))
	}
	return fmt.Sprintf("[OK] %s: %s", row.tenantID, row.message)
}

func errText(err error) string {
	if err == nil {
		return "failed"
	}
	return err.Error()
}
