package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Spinner animates a single indeterminate step such as a schema apply
type Spinner struct {
	ui    *UI
	label string
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
	mu    sync.Mutex
	state int // 0 idle, 1 running, 2 stopped
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (u *UI) NewSpinner(label string) *Spinner {
	return &Spinner{ui: u, label: label, done: make(chan struct{})}
}

// Start begins the animation. Non-TTY output prints the label once.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != 0 {
		return
	}
	s.state = 1

	if !s.ui.shouldStyle() {
		fmt.Fprintf(s.ui.out, "%s...", s.label)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		frameStyle := lipgloss.NewStyle().Foreground(ColorPrimary)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for frame := 0; ; frame = (frame + 1) % len(spinnerFrames) {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				fmt.Fprintf(s.ui.out, "\r%s %s...", frameStyle.Render(spinnerFrames[frame]), s.label)
			}
		}
	}()
}

// stop halts the animation and reports whether the spinner had started
func (s *Spinner) stop() bool {
	s.mu.Lock()
	started := s.state == 1
	s.state = 2
	s.mu.Unlock()

	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
	return started
}

func (s *Spinner) Success(msg string) {
	if !s.stop() {
		return
	}
	if !s.ui.shouldStyle() {
		fmt.Fprintf(s.ui.out, " %s\n", msg)
		return
	}
	fmt.Fprintf(s.ui.out, "\r\033[K%s %s... %s\n", StyleSuccess.Render(SymbolSuccess), s.label, msg)
}

func (s *Spinner) Error(msg string) {
	if !s.stop() {
		return
	}
	if !s.ui.shouldStyle() {
		fmt.Fprintf(s.ui.out, " %s\n", msg)
		return
	}
	fmt.Fprintf(s.ui.out, "\r\033[K%s %s... %s\n", StyleError.Render(SymbolError), s.label, StyleError.Render(msg))
}
