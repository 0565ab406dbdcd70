// Package wire implements the i3bar output protocol: the startup header,
// the unterminated top-level JSON array, and per-element serialization with
// override layering.
//
// The protocol is line-oriented from the producer's side: after a one-line
// header and an opening bracket, every flush appends one JSON array of
// element objects followed by a comma, forming an intentionally infinite,
// never-closed top-level array.
package wire
