package ninebar

import "fmt"

// Readings is the raw key-value output of a unit's Read call.
//
// Readings is a contract between a unit's Read and Format halves; the engine
// carries it opaquely. By convention keys are prefixed with their type:
//
//   - i_ for integers
//   - f_ for floats
//   - s_ for strings
//   - b_ for booleans
//
// Error and status flags use the b_err_ prefix. Format implementations
// should check error flags first: when a flag is set, the data keys it
// guards may be absent. Expected absence-of-data conditions (a battery that
// is not installed, an interface that is down) belong in error flags, not in
// the error return of Read.
type Readings map[string]any

// Float returns the float64 stored under key, or 0 if the key is absent or
// holds a different type.
func (r Readings) Float(key string) float64 {
	v, _ := r[key].(float64)
	return v
}

// Int returns the int stored under key, or 0 if the key is absent or holds
// a different type.
func (r Readings) Int(key string) int {
	v, _ := r[key].(int)
	return v
}

// String returns the string stored under key, or "" if the key is absent or
// holds a different type.
func (r Readings) String(key string) string {
	v, _ := r[key].(string)
	return v
}

// Flag reports whether the boolean stored under key is set. Absent keys
// read as false, so error flags only need to be written when raised.
func (r Readings) Flag(key string) bool {
	v, _ := r[key].(bool)
	return v
}

// UnavailableError is returned by a unit's Read to report self-diagnosed,
// typically persistent unavailability: a monitored disk that does not exist,
// a sensor that cannot be opened. The engine renders the reason inline in
// the unit's slot and retries on the unit's normal cadence, exactly as it
// does for unexpected failures, but the message is the unit's own rather
// than a generic failure marker.
type UnavailableError struct {
	// Reason is the human-readable explanation shown on the bar.
	Reason string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	return e.Reason
}

// Unavailablef constructs an [UnavailableError] with a formatted reason.
func Unavailablef(format string, args ...any) error {
	return &UnavailableError{Reason: fmt.Sprintf(format, args...)}
}

// Click is a single click event reported by the bar host.
//
// Name is consumed by the engine for dispatch; handlers receive the
// remaining fields. Fields beyond the common set are host-defined and
// preserved in Extra.
type Click struct {
	// Button is the mouse button number (1 left, 2 middle, 3 right,
	// 4 scroll up, 5 scroll down).
	Button int

	// X and Y are the click coordinates reported by the host.
	X int
	Y int

	// Extra holds any additional host-defined fields from the click object.
	Extra map[string]any
}
