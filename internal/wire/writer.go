package wire

import (
	"fmt"
	"io"
	"strings"
)

// header declares protocol version 1 and that this producer accepts click
// events on stdin.
const header = `{"version":1,"click_events":true}` + "\n[\n"

// Writer frames aggregated element lists onto an output stream.
//
// Writer is not safe for concurrent use; exactly one goroutine (the line
// writer) owns it.
type Writer struct {
	out io.Writer
}

// NewWriter wraps an output stream.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WriteHeader emits the startup handshake: the version header line and the
// opening bracket of the infinite top-level array. Called exactly once,
// before any line.
func (w *Writer) WriteHeader() error {
	if _, err := io.WriteString(w.out, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// WriteLine emits one status line: a JSON array of the given pre-encoded
// elements followed by the continuation comma. An empty element list still
// produces a valid (empty-array) line.
func (w *Writer) WriteLine(elements []string) error {
	line := "[" + strings.Join(elements, ",") + "],\n"
	if _, err := io.WriteString(w.out, line); err != nil {
		return fmt.Errorf("failed to write status line: %w", err)
	}
	return nil
}
