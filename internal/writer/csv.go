package writer

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

// Appender is one append-only CSV destination. The header row is written
// only when the file is created; reopening an existing file appends below
// whatever is already there. Appenders are single-writer and not safe for
// concurrent use.
type Appender struct {
	path string
	file *os.File
	w    *csv.Writer
}

// NewAppender opens (or creates) the file at path. The header is written
// only if the file is new or empty.
func NewAppender(path string, header []string) (*Appender, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	a := &Appender{
		path: path,
		file: file,
		w:    csv.NewWriter(file),
	}

	if info.Size() == 0 {
		if err := a.Append(header); err != nil {
			file.Close()
			return nil, fmt.Errorf("write header %s: %w", path, err)
		}
	}

	return a, nil
}

// Append writes one record and flushes it to the file.
func (a *Appender) Append(record []string) error {
	if err := a.w.Write(record); err != nil {
		return fmt.Errorf("append %s: %w", a.path, err)
	}
	a.w.Flush()
	return a.w.Error()
}

// Path returns the destination file path.
func (a *Appender) Path() string {
	return a.path
}

// Close flushes and closes the underlying file. Closing an already-closed
// Appender is a no-op.
func (a *Appender) Close() error {
	if a.file == nil {
		return nil
	}
	file := a.file
	a.file = nil

	a.w.Flush()
	if err := a.w.Error(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// nullDec renders a NullDecimal for CSV: empty when the API omitted the field.
func nullDec(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
