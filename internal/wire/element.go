package wire

import (
	"encoding/json"
	"fmt"
	"strings"
)

// defaultBorder is the border color applied when no override sets one
// (base16 Tomorrow dark grey).
const defaultBorder = "#373B41"

// EncodeElement serializes one bar element to its JSON object form.
//
// The element starts from built-in defaults (pango markup, default border,
// host separators suppressed since padding substitutes for them), then
// applies override layers in increasing precedence: global call-site
// overrides, the unit's permanent overrides, the unit's transient overrides.
// Any layer may inject arbitrary i3bar keys or replace defaults.
//
// full_text is padded with spaces on both sides after all layers have
// applied, so an override that replaces the text is still padded uniformly.
//
// Map keys are marshalled in sorted order, so encoding is deterministic.
func EncodeElement(name, text string, padding int, global, permanent, transient map[string]any) (string, error) {
	el := map[string]any{
		"full_text":             text,
		"name":                  name,
		"markup":                "pango",
		"border":                defaultBorder,
		"separator":             false,
		"separator_block_width": 0,
	}

	for _, layer := range []map[string]any{global, permanent, transient} {
		for k, v := range layer {
			el[k] = v
		}
	}

	pad := strings.Repeat(" ", padding)
	el["full_text"] = pad + asString(el["full_text"]) + pad

	b, err := json.Marshal(el)
	if err != nil {
		return "", fmt.Errorf("failed to encode element %q: %w", name, err)
	}
	return string(b), nil
}

// EncodeBareElement serializes a minimal element carrying only text and
// markup mode, bypassing defaults and padding. Used for the global-failure
// line, which must stay renderable even when unit configuration is invalid.
func EncodeBareElement(text string) string {
	b, err := json.Marshal(map[string]any{
		"full_text": text,
		"markup":    "pango",
	})
	if err != nil {
		// a two-string map cannot fail to marshal
		return `{"full_text":"encoding failure"}`
	}
	return string(b)
}

// asString coerces an override-injected full_text back to a string.
func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
