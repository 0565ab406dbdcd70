package click

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// maxObjectSize bounds a single click object. Anything larger is assumed to
// be garbage (or a hostile peer) and is discarded up to the next boundary.
const maxObjectSize = 1 << 16

var errNoName = errors.New("click object has no name field")

// Scanner extracts one balanced JSON object at a time from the click
// stream without buffering unbounded input.
//
// The stream's array framing (the opening bracket, the commas between
// objects, surrounding whitespace) is consumed and discarded by skipping to
// each object's opening brace, which also serves as the resynchronization
// point after malformed input.
type Scanner struct {
	r   *bufio.Reader
	buf []byte
}

// NewScanner wraps a click-event stream.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r), buf: make([]byte, 0, 256)}
}

// Next returns the raw bytes of the next complete object, framing stripped.
//
// Balance tracking respects JSON string quoting and backslash escapes, so a
// brace inside a string value ({"name": "a}b"}) does not terminate the scan
// early. An object exceeding the size bound is dropped and scanning resumes
// at the following boundary. The only errors returned are I/O errors from
// the underlying reader (io.EOF once the stream ends).
func (s *Scanner) Next() ([]byte, error) {
scan:
	for {
		// burn framing until the next object opens
		if err := s.skipToBrace(); err != nil {
			return nil, err
		}

		s.buf = s.buf[:0]
		s.buf = append(s.buf, '{')
		depth := 1
		inString := false
		escaped := false

		for depth > 0 {
			c, err := s.r.ReadByte()
			if err != nil {
				return nil, fmt.Errorf("click stream read failed: %w", err)
			}
			s.buf = append(s.buf, c)

			if len(s.buf) > maxObjectSize {
				continue scan
			}

			switch {
			case escaped:
				escaped = false
			case inString:
				switch c {
				case '\\':
					escaped = true
				case '"':
					inString = false
				}
			default:
				switch c {
				case '"':
					inString = true
				case '{':
					depth++
				case '}':
					depth--
				}
			}
		}

		obj := make([]byte, len(s.buf))
		copy(obj, s.buf)
		return obj, nil
	}
}

// skipToBrace discards bytes until an opening brace is consumed.
func (s *Scanner) skipToBrace() error {
	for {
		c, err := s.r.ReadByte()
		if err != nil {
			return fmt.Errorf("click stream read failed: %w", err)
		}
		if c == '{' {
			return nil
		}
	}
}
