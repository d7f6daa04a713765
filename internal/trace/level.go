package trace

import "fmt"

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff Level = iota
	// LevelPhase traces translation phase boundaries.
	LevelPhase
	// LevelOp traces individual opcode handlers.
	LevelOp
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelPhase:
		return "phase"
	case LevelOp:
		return "op"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "off", "OFF":
		return LevelOff, nil
	case "phase", "PHASE":
		return LevelPhase, nil
	case "op", "OP":
		return LevelOp, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|phase|op)", s)
	}
}
