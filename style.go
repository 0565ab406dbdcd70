package ninebar

import "sync"

// Style holds a unit's formatting override maps.
//
// Overrides are raw i3bar element keys (border, background, urgent, ...)
// layered over the serializer's built-in defaults. Transient overrides apply
// to exactly one subsequent serialized chunk and are then cleared; permanent
// overrides apply to every chunk until replaced. Transient keys win over
// permanent ones.
//
// A Style is shared between a unit's scheduling loop and the click router
// (click handlers mutate overrides), so all methods are safe for concurrent
// use.
type Style struct {
	mu        sync.Mutex
	transient map[string]any
	permanent map[string]any
}

// NewStyle returns an empty Style.
func NewStyle() *Style {
	return &Style{
		transient: make(map[string]any),
		permanent: make(map[string]any),
	}
}

// SetTransient sets an override for the next serialized chunk only.
func (s *Style) SetTransient(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transient[key] = value
}

// SetPermanent sets an override for every future chunk until replaced.
func (s *Style) SetPermanent(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permanent[key] = value
}

// ClearPermanent removes a permanent override.
func (s *Style) ClearPermanent(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.permanent, key)
}

// Consume returns copies of the current transient and permanent override
// maps and clears the transient set. The serializer calls this once per
// emitted chunk; a suppressed round does not consume, so a click highlight
// set while a unit is hidden survives until the unit next renders.
func (s *Style) Consume() (transient, permanent map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transient = make(map[string]any, len(s.transient))
	for k, v := range s.transient {
		transient[k] = v
	}
	permanent = make(map[string]any, len(s.permanent))
	for k, v := range s.permanent {
		permanent[k] = v
	}

	clear(s.transient)
	return transient, permanent
}
