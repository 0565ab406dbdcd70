package click

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// next fails the test unless the scanner yields exactly want.
func next(t *testing.T, s *Scanner, want string) {
	t.Helper()
	raw, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(raw) != want {
		t.Errorf("Next() = %q, want %q", raw, want)
	}
}

// expectEOF fails the test unless the scanner reports end of stream.
func expectEOF(t *testing.T, s *Scanner) {
	t.Helper()
	if _, err := s.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestScanner_SingleObject(t *testing.T) {
	s := NewScanner(strings.NewReader(`{"name":"cpu","button":1}`))

	next(t, s, `{"name":"cpu","button":1}`)
	expectEOF(t, s)
}

func TestScanner_ArrayFraming(t *testing.T) {
	// the host opens an infinite array and separates objects with commas
	stream := "[\n{\"name\":\"a\"}\n,{\"name\":\"b\"}\n,{\"name\":\"c\"}\n"
	s := NewScanner(strings.NewReader(stream))

	next(t, s, `{"name":"a"}`)
	next(t, s, `{"name":"b"}`)
	next(t, s, `{"name":"c"}`)
	expectEOF(t, s)
}

func TestScanner_NestedObjects(t *testing.T) {
	s := NewScanner(strings.NewReader(`{"name":"a","modifiers":{"shift":true}}`))

	next(t, s, `{"name":"a","modifiers":{"shift":true}}`)
}

func TestScanner_BraceInsideString(t *testing.T) {
	// a close brace inside a string value must not terminate the object
	s := NewScanner(strings.NewReader(`{"name":"a}b"},{"name":"c"}`))

	next(t, s, `{"name":"a}b"}`)
	next(t, s, `{"name":"c"}`)
}

func TestScanner_OpenBraceInsideString(t *testing.T) {
	s := NewScanner(strings.NewReader(`{"name":"a{b"},{"name":"c"}`))

	next(t, s, `{"name":"a{b"}`)
	next(t, s, `{"name":"c"}`)
}

func TestScanner_EscapedQuoteInsideString(t *testing.T) {
	// the escaped quote keeps the string open across the following brace
	s := NewScanner(strings.NewReader(`{"name":"a\"}","x":1}`))

	next(t, s, `{"name":"a\"}","x":1}`)
}

func TestScanner_EscapedBackslashEndsEscape(t *testing.T) {
	// "a\\" is a complete string; the brace after it closes the object
	s := NewScanner(strings.NewReader(`{"name":"a\\"}`))

	next(t, s, `{"name":"a\\"}`)
}

func TestScanner_GarbageBetweenObjects(t *testing.T) {
	// anything outside an object is framing to be discarded
	s := NewScanner(strings.NewReader(`garbage [,, {"name":"a"} more noise {"name":"b"}`))

	next(t, s, `{"name":"a"}`)
	next(t, s, `{"name":"b"}`)
}

func TestScanner_TruncatedObject(t *testing.T) {
	// stream ends mid-object: the partial bytes are discarded, not returned
	s := NewScanner(strings.NewReader(`{"name":"a","butto`))

	raw, err := s.Next()
	if err == nil {
		t.Errorf("Next() = %q, want read error for truncated object", raw)
	}
	if !errors.Is(err, io.EOF) {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestScanner_OversizedObjectDropped(t *testing.T) {
	// an object beyond the size bound is discarded; scanning resumes at the
	// next boundary
	huge := `{"name":"` + strings.Repeat("x", maxObjectSize+16) + `"}`
	s := NewScanner(strings.NewReader(huge + `{"name":"ok"}`))

	next(t, s, `{"name":"ok"}`)
}

func TestScanner_EmptyStream(t *testing.T) {
	s := NewScanner(strings.NewReader(""))
	expectEOF(t, s)
}

func TestScanner_ReturnedBytesAreStable(t *testing.T) {
	// the returned slice must not alias the scanner's internal buffer
	s := NewScanner(strings.NewReader(`{"name":"first"},{"name":"second-longer"}`))

	first, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	if string(first) != `{"name":"first"}` {
		t.Errorf("first object mutated by subsequent scan: %q", first)
	}
}
