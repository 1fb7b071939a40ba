package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/willfong/riskgen/internal/utils"
)

// tableWriter writes one table as CSV, optionally through xz
type tableWriter struct {
	closer   io.Closer
	buffer   *bufio.Writer
	writer   *csv.Writer
	path     string
	rowCount int64
}

// newTableWriter creates dir/name.csv (or .csv.xz) and writes the header row
func newTableWriter(dir, name string, headers []string, compress bool) (*tableWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var (
		underlying io.WriteCloser
		path       = filepath.Join(dir, name+".csv")
	)
	if compress {
		path += ".xz"
		xz, err := createXZ(path, 6)
		if err != nil {
			return nil, err
		}
		underlying = xz
	} else {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create file %s: %w", path, err)
		}
		underlying = f
	}

	buffer := bufio.NewWriterSize(underlying, 64*1024)
	w := &tableWriter{
		closer: underlying,
		buffer: buffer,
		writer: csv.NewWriter(buffer),
		path:   path,
	}
	if err := w.writer.Write(headers); err != nil {
		underlying.Close()
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}
	return w, nil
}

func (w *tableWriter) writeRow(row []string) error {
	if err := w.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	w.rowCount++
	return nil
}

// close flushes and closes the file. It is safe to call after a failed write.
func (w *tableWriter) close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.closer.Close()
		return fmt.Errorf("csv flush error: %w", err)
	}
	if err := w.buffer.Flush(); err != nil {
		w.closer.Close()
		return fmt.Errorf("buffer flush error: %w", err)
	}
	return w.closer.Close()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatMoney(m utils.Money) string {
	return m.String()
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
