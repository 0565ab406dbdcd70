package click

import "encoding/json"

// Event is one decoded click object from the host.
//
// Name identifies the target unit and is consumed during dispatch. The
// common numeric fields are decoded into typed members; everything else the
// host sends (modifiers, block geometry, ...) is preserved in Extra.
type Event struct {
	Name   string
	Button int
	X      int
	Y      int
	Extra  map[string]any
}

// decodeEvent parses a raw click object. Returns an error for anything
// encoding/json rejects or for objects without a usable name field.
func decodeEvent(raw []byte) (Event, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Event{}, err
	}

	ev := Event{Extra: fields}
	ev.Name, _ = fields["name"].(string)
	if ev.Name == "" {
		return Event{}, errNoName
	}
	delete(fields, "name")

	ev.Button = popInt(fields, "button")
	ev.X = popInt(fields, "x")
	ev.Y = popInt(fields, "y")
	return ev, nil
}

// popInt removes a numeric field from the map and returns it as an int.
// JSON numbers decode as float64; non-numeric values read as 0.
func popInt(fields map[string]any, key string) int {
	v, ok := fields[key].(float64)
	if !ok {
		return 0
	}
	delete(fields, key)
	return int(v)
}
