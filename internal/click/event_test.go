package click

import (
	"errors"
	"testing"
)

func TestDecodeEvent(t *testing.T) {
	ev, err := decodeEvent([]byte(`{"name":"cpu","button":1,"x":1400,"y":12}`))
	if err != nil {
		t.Fatalf("decodeEvent() error = %v", err)
	}

	if ev.Name != "cpu" {
		t.Errorf("Name = %q, want %q", ev.Name, "cpu")
	}
	if ev.Button != 1 {
		t.Errorf("Button = %d, want 1", ev.Button)
	}
	if ev.X != 1400 {
		t.Errorf("X = %d, want 1400", ev.X)
	}
	if ev.Y != 12 {
		t.Errorf("Y = %d, want 12", ev.Y)
	}
}

func TestDecodeEvent_ExtraFieldsPreserved(t *testing.T) {
	ev, err := decodeEvent([]byte(`{"name":"cpu","button":3,"instance":"id","relative_x":7}`))
	if err != nil {
		t.Fatalf("decodeEvent() error = %v", err)
	}

	if ev.Extra["instance"] != "id" {
		t.Errorf("Extra[instance] = %v, want %q", ev.Extra["instance"], "id")
	}
	if ev.Extra["relative_x"] != float64(7) {
		t.Errorf("Extra[relative_x] = %v, want 7", ev.Extra["relative_x"])
	}

	// consumed fields do not leak into Extra
	for _, key := range []string{"name", "button"} {
		if _, ok := ev.Extra[key]; ok {
			t.Errorf("Extra[%s] present, want consumed", key)
		}
	}
}

func TestDecodeEvent_MissingFieldsZero(t *testing.T) {
	ev, err := decodeEvent([]byte(`{"name":"cpu"}`))
	if err != nil {
		t.Fatalf("decodeEvent() error = %v", err)
	}

	if ev.Button != 0 || ev.X != 0 || ev.Y != 0 {
		t.Errorf("Button/X/Y = %d/%d/%d, want zeros", ev.Button, ev.X, ev.Y)
	}
}

func TestDecodeEvent_NoName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"absent", `{"button":1}`},
		{"empty", `{"name":"","button":1}`},
		{"non-string", `{"name":42,"button":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeEvent([]byte(tt.raw)); !errors.Is(err, errNoName) {
				t.Errorf("decodeEvent() error = %v, want errNoName", err)
			}
		})
	}
}

func TestDecodeEvent_InvalidJSON(t *testing.T) {
	if _, err := decodeEvent([]byte(`{"name":`)); err == nil {
		t.Error("decodeEvent() error = nil, want parse error")
	}
}

func TestDecodeEvent_NonNumericButton(t *testing.T) {
	ev, err := decodeEvent([]byte(`{"name":"cpu","button":"left"}`))
	if err != nil {
		t.Fatalf("decodeEvent() error = %v", err)
	}
	if ev.Button != 0 {
		t.Errorf("Button = %d, want 0 for non-numeric value", ev.Button)
	}
	// the unparseable value stays visible in Extra
	if ev.Extra["button"] != "left" {
		t.Errorf("Extra[button] = %v, want %q", ev.Extra["button"], "left")
	}
}
