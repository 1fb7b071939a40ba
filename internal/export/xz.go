package export

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
)

// xzFile streams bytes through an external `xz -c` process into path.
type xzFile struct {
	file    *os.File
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	path    string
	mu      sync.Mutex
	closed  bool
	waitErr error
	waitCh  chan struct{}
}

// createXZ starts xz with the given preset (0-9, default 6) writing to path
func createXZ(path string, preset int) (*xzFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}

	if preset < 0 || preset > 9 {
		preset = 6
	}
	cmd := exec.Command("xz", "-c", fmt.Sprintf("-%d", preset))
	cmd.Stdout = file
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to start xz: %w", err)
	}

	x := &xzFile{file: file, cmd: cmd, stdin: stdin, path: path, waitCh: make(chan struct{})}
	go func() {
		x.waitErr = cmd.Wait()
		close(x.waitCh)
	}()
	return x, nil
}

func (x *xzFile) Write(p []byte) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.closed {
		return 0, fmt.Errorf("writer is closed")
	}
	return x.stdin.Write(p)
}

// Close signals EOF, waits for xz and closes the output file. An xz
// failure is reported ahead of a file close failure.
func (x *xzFile) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.closed {
		return nil
	}
	x.closed = true

	if err := x.stdin.Close(); err != nil {
		x.file.Close()
		return fmt.Errorf("failed to close xz stdin: %w", err)
	}
	<-x.waitCh

	fileErr := x.file.Close()
	if x.waitErr != nil {
		return fmt.Errorf("xz process failed: %w", x.waitErr)
	}
	if fileErr != nil {
		return fmt.Errorf("failed to close output file: %w", fileErr)
	}
	return nil
}

// CheckXZAvailable verifies that xz is on PATH
func CheckXZAvailable() error {
	if err := exec.Command("xz", "--version").Run(); err != nil {
		return fmt.Errorf("xz not found: %w\nInstall with: apt install xz-utils (Linux) or brew install xz (macOS)", err)
	}
	return nil
}
