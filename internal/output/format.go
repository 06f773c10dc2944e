package output

import (
	"strings"

	"github.com/crimson-sun/winnow/internal/model"
)

// Verbosity controls how much of each event is written.
type Verbosity int

const (
	Minimal Verbosity = iota
	Standard
	Full
)

// ParseVerbosity maps "minimal", "standard", "full". Unknown values give Standard.
func ParseVerbosity(s string) Verbosity {
	switch strings.ToLower(s) {
	case "minimal":
		return Minimal
	case "full":
		return Full
	default:
		return Standard
	}
}

// FormatEvent returns a copy of the event with fields stripped according to verbosity.
// At Minimal: Counts and Thresholds are dropped (omitted from JSON via omitempty).
// At Standard/Full: all fields preserved.
func FormatEvent(e model.SessionEvent, verbosity Verbosity) model.SessionEvent {
	if verbosity == Minimal {
		e.Counts = nil
		e.Thresholds = nil
	}
	return e
}
