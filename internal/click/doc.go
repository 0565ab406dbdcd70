// Package click parses the i3bar click-event stream and dispatches events
// to the unit they name.
//
// The host writes an infinite JSON array of click objects to the producer's
// stdin. Rather than pull in a streaming JSON decoder for one fixed framing,
// the scanner extracts one balanced object at a time with a small state
// machine and hands only that slice to encoding/json. Malformed input never
// stops the stream: the scanner resynchronizes at the next object boundary.
package click
