package outwriter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/huangsam/forecast/internal/contract"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// delimitedWriter writes separator-joined records, one per line, without quoting.
// The separator may be longer than one character.
type delimitedWriter struct {
	w   *bufio.Writer
	sep string
	err error
}

func newDelimitedWriter(w io.Writer, sep string) *delimitedWriter {
	return &delimitedWriter{w: bufio.NewWriter(w), sep: sep}
}

// Write appends one record. Errors are sticky and reported by Flush.
func (d *delimitedWriter) Write(fields ...string) {
	if d.err != nil {
		return
	}
	_, d.err = d.w.WriteString(strings.Join(fields, d.sep) + "\n")
}

// Flush writes buffered records and returns the first error seen.
func (d *delimitedWriter) Flush() error {
	if d.err != nil {
		return d.err
	}
	return d.w.Flush()
}

// createFormatter creates the fixed-precision float formatter used by tables.
func createFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return contract.FormatFixed(v, precision)
	}
}

// formatInstant renders an instant the way every text and CSV output does.
func formatInstant(t time.Time) string {
	return t.Format(contract.DateTimeFormat)
}

// header returns title with an emoji prefix when emojis are enabled.
func header(emoji, title string, useEmojis bool) string {
	if useEmojis {
		return emoji + " " + title
	}
	return title
}
