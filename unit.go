package ninebar

import (
	"context"
	"fmt"
	"os/exec"
	"reflect"
	"strings"
	"time"
)

const (
	defaultUnitInterval = time.Second
	defaultReadTimeout  = 5 * time.Second
)

// Unit is the contract every status-line producer implements.
//
// Read gathers raw data and may block on I/O or subprocess completion; it is
// always invoked with a deadline-carrying context and must return promptly
// once the context is done. Expected absence-of-data conditions are reported
// as error flags inside the Readings, not as errors; reserve the error
// return for genuinely unexpected failures (parse errors, I/O errors) or a
// self-diagnosed [UnavailableError].
//
// Format renders readings into the element's display text, optionally using
// pango markup. It must be pure: identical readings produce identical text,
// with no hidden mutable state consulted. Returning ok=false suppresses the
// unit's element for the round; the line omits it entirely rather than
// emitting an empty element.
type Unit interface {
	Read(ctx context.Context) (Readings, error)
	Format(r Readings) (text string, ok bool)
}

// ClickHandler is optionally implemented by units that want to react to
// clicks, typically to toggle between display modes. Handlers run on the
// click router's goroutine and are guaranteed to complete before the unit's
// next Read begins, so a click can influence the immediately following
// cycle. The unit's [Style] is passed in for override mutation.
//
// Units that do not implement ClickHandler get the default behavior: a
// transient red border on the next chunk, as visual feedback that the click
// registered.
type ClickHandler interface {
	HandleClick(click Click, style *Style)
}

// registration binds a Unit to its scheduling identity: resolved name,
// cadence, read deadline, and the executables it requires. Built by
// [WithUnit] and finalized during [New].
type registration struct {
	unit        Unit
	name        string // empty until resolved for auto-named units
	explicit    bool
	interval    time.Duration
	readTimeout time.Duration
	requires    []string
}

// autoName derives a registration name from the unit's implementing type,
// e.g. *units.Memory yields "Memory".
func autoName(u Unit) string {
	t := reflect.TypeOf(u)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		// anonymous types (e.g. func-backed test units) fall back to the
		// type's string form
		name = strings.NewReplacer(" ", "", "{", "", "}", "").Replace(t.String())
	}
	return name
}

// resolveNames assigns final names to every registration, in declaration
// order. Explicit names are taken verbatim. Auto-derived names disambiguate
// repeats of the same base with an incrementing _N suffix, so multiple
// unnamed instances of one unit type never collide with each other.
//
// Resolution is a deterministic pre-pass over the declared list; no global
// state is consulted. An explicit name colliding with anything else is left
// in place here and caught by the duplicate scan in [New].
func resolveNames(regs []registration) {
	counts := make(map[string]int, len(regs))
	for i := range regs {
		if regs[i].explicit {
			continue
		}
		base := autoName(regs[i].unit)
		n := counts[base]
		counts[base]++
		if n == 0 {
			regs[i].name = base
		} else {
			regs[i].name = fmt.Sprintf("%s_%d", base, n)
		}
	}
}

// findDuplicate returns the first name appearing more than once among the
// resolved registrations, or "" if all names are unique.
func findDuplicate(regs []registration) string {
	seen := make(map[string]bool, len(regs))
	for _, reg := range regs {
		if seen[reg.name] {
			return reg.name
		}
		seen[reg.name] = true
	}
	return ""
}

// degradedUnit replaces a unit whose required executable is missing. It
// satisfies the same interface but never calls into the real implementation:
// the dependency check happens once, at construction, and the replacement is
// permanent for the life of the process.
type degradedUnit struct {
	name    string
	missing string
}

// Read reports the missing executable as a string reading.
func (d *degradedUnit) Read(ctx context.Context) (Readings, error) {
	return Readings{"s_missing": d.missing}, nil
}

// Format renders the fixed "<name> [<exec> not found]" chunk.
func (d *degradedUnit) Format(r Readings) (string, bool) {
	return d.name + " [" + Colorize(r.String("s_missing")+" not found", Red) + "]", true
}

// checkRequires replaces any registration with an unsatisfiable executable
// requirement by a [degradedUnit]. Names must already be resolved.
func checkRequires(regs []registration, lookPath func(string) (string, error)) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for i := range regs {
		for _, req := range regs[i].requires {
			if _, err := lookPath(req); err != nil {
				regs[i].unit = &degradedUnit{name: regs[i].name, missing: req}
				break
			}
		}
	}
}
