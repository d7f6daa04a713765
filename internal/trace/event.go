package trace

import "time"

// Event is one trace record.
type Event struct {
	Time time.Time
	// Level the event was emitted at.
	Level Level
	// Name identifies the phase or opcode, e.g. "translate" or
	// "load_fast".
	Name string
	// Detail is optional free-form context, e.g. the code object name.
	Detail string
	// Dur is non-zero for completed spans.
	Dur time.Duration
}
