package wire

import (
	"encoding/json"
	"strings"
	"testing"
)

// decode unmarshals an encoded element for field assertions.
func decode(t *testing.T, element string) map[string]any {
	t.Helper()
	var fields map[string]any
	if err := json.Unmarshal([]byte(element), &fields); err != nil {
		t.Fatalf("element is not valid JSON: %v\n%s", err, element)
	}
	return fields
}

func TestEncodeElement_Defaults(t *testing.T) {
	element, err := EncodeElement("cpu", "busy", 1, nil, nil, nil)
	if err != nil {
		t.Fatalf("EncodeElement() error = %v", err)
	}

	fields := decode(t, element)

	if fields["full_text"] != " busy " {
		t.Errorf("full_text = %q, want %q", fields["full_text"], " busy ")
	}
	if fields["name"] != "cpu" {
		t.Errorf("name = %q, want %q", fields["name"], "cpu")
	}
	if fields["markup"] != "pango" {
		t.Errorf("markup = %q, want %q", fields["markup"], "pango")
	}
	if fields["border"] != "#373B41" {
		t.Errorf("border = %q, want %q", fields["border"], "#373B41")
	}
	if fields["separator"] != false {
		t.Errorf("separator = %v, want false", fields["separator"])
	}
	if fields["separator_block_width"] != float64(0) {
		t.Errorf("separator_block_width = %v, want 0", fields["separator_block_width"])
	}
}

func TestEncodeElement_Padding(t *testing.T) {
	tests := []struct {
		name    string
		padding int
		want    string
	}{
		{"none", 0, "x"},
		{"single", 1, " x "},
		{"wide", 3, "   x   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			element, err := EncodeElement("u", "x", tt.padding, nil, nil, nil)
			if err != nil {
				t.Fatalf("EncodeElement() error = %v", err)
			}
			fields := decode(t, element)
			if fields["full_text"] != tt.want {
				t.Errorf("full_text = %q, want %q", fields["full_text"], tt.want)
			}
		})
	}
}

func TestEncodeElement_OverridePrecedence(t *testing.T) {
	global := map[string]any{"border": "#111111", "background": "#000000"}
	permanent := map[string]any{"border": "#222222", "urgent": true}
	transient := map[string]any{"border": "#333333"}

	element, err := EncodeElement("u", "x", 0, global, permanent, transient)
	if err != nil {
		t.Fatalf("EncodeElement() error = %v", err)
	}
	fields := decode(t, element)

	// transient beats permanent beats global
	if fields["border"] != "#333333" {
		t.Errorf("border = %q, want transient value %q", fields["border"], "#333333")
	}
	// permanent beats global where transient is silent
	if fields["urgent"] != true {
		t.Errorf("urgent = %v, want true", fields["urgent"])
	}
	// global beats built-in defaults where nothing above sets the key
	if fields["background"] != "#000000" {
		t.Errorf("background = %q, want global value %q", fields["background"], "#000000")
	}
}

func TestEncodeElement_OverrideCanReplaceText(t *testing.T) {
	transient := map[string]any{"full_text": "replaced"}

	element, err := EncodeElement("u", "original", 1, nil, nil, transient)
	if err != nil {
		t.Fatalf("EncodeElement() error = %v", err)
	}
	fields := decode(t, element)

	// padding applies after the layers, to whatever text survived
	if fields["full_text"] != " replaced " {
		t.Errorf("full_text = %q, want %q", fields["full_text"], " replaced ")
	}
}

func TestEncodeElement_Deterministic(t *testing.T) {
	permanent := map[string]any{"background": "#000000", "urgent": false}

	first, err := EncodeElement("u", "x", 1, nil, permanent, nil)
	if err != nil {
		t.Fatalf("EncodeElement() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := EncodeElement("u", "x", 1, nil, permanent, nil)
		if err != nil {
			t.Fatalf("EncodeElement() error = %v", err)
		}
		if again != first {
			t.Fatalf("encoding is not deterministic:\n%s\n%s", first, again)
		}
	}
}

func TestEncodeElement_UnmarshallableOverride(t *testing.T) {
	// a channel cannot be marshalled to JSON
	permanent := map[string]any{"bad": make(chan int)}

	if _, err := EncodeElement("u", "x", 1, nil, permanent, nil); err == nil {
		t.Error("EncodeElement() error = nil, want marshalling error")
	}
}

func TestEncodeBareElement(t *testing.T) {
	element := EncodeBareElement("GLOBAL FAILURE")

	fields := decode(t, element)
	if fields["full_text"] != "GLOBAL FAILURE" {
		t.Errorf("full_text = %q, want %q", fields["full_text"], "GLOBAL FAILURE")
	}
	if fields["markup"] != "pango" {
		t.Errorf("markup = %q, want %q", fields["markup"], "pango")
	}
	// bare elements carry no name and no defaults
	if _, ok := fields["name"]; ok {
		t.Error("bare element has a name field, want none")
	}
	if _, ok := fields["border"]; ok {
		t.Error("bare element has a border field, want none")
	}
}

func TestWriter_Header(t *testing.T) {
	var out strings.Builder
	w := NewWriter(&out)

	if err := w.WriteHeader(); err != nil {
		t.Fatalf("WriteHeader() error = %v", err)
	}

	want := "{\"version\":1,\"click_events\":true}\n[\n"
	if out.String() != want {
		t.Errorf("header = %q, want %q", out.String(), want)
	}
}

func TestWriter_WriteLine(t *testing.T) {
	var out strings.Builder
	w := NewWriter(&out)

	if err := w.WriteLine([]string{`{"a":1}`, `{"b":2}`}); err != nil {
		t.Fatalf("WriteLine() error = %v", err)
	}

	want := "[{\"a\":1},{\"b\":2}],\n"
	if out.String() != want {
		t.Errorf("line = %q, want %q", out.String(), want)
	}
}

func TestWriter_WriteLineEmpty(t *testing.T) {
	var out strings.Builder
	w := NewWriter(&out)

	if err := w.WriteLine(nil); err != nil {
		t.Fatalf("WriteLine() error = %v", err)
	}

	if out.String() != "[],\n" {
		t.Errorf("line = %q, want %q", out.String(), "[],\n")
	}
}

func TestWriter_StreamIsValidProtocol(t *testing.T) {
	var out strings.Builder
	w := NewWriter(&out)

	if err := w.WriteHeader(); err != nil {
		t.Fatalf("WriteHeader() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		el, err := EncodeElement("u", "x", 1, nil, nil, nil)
		if err != nil {
			t.Fatalf("EncodeElement() error = %v", err)
		}
		if err := w.WriteLine([]string{el}); err != nil {
			t.Fatalf("WriteLine() error = %v", err)
		}
	}

	// closing the infinite array should yield one parseable JSON document
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("stream has %d lines, want 5 (header, bracket, 3 lines)", len(lines))
	}

	var header map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &header); err != nil {
		t.Fatalf("header is not valid JSON: %v", err)
	}
	if header["version"] != float64(1) {
		t.Errorf("header version = %v, want 1", header["version"])
	}

	body := strings.Join(lines[1:], "\n")
	body = strings.TrimSuffix(body, ",") + "]"
	var parsed [][]map[string]any
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatalf("closed stream body is not valid JSON: %v\n%s", err, body)
	}
	if len(parsed) != 3 {
		t.Errorf("parsed %d status lines, want 3", len(parsed))
	}
}
