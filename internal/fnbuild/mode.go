package fnbuild

import "fmt"

// Mode is the build-time debug/release switch. It controls the object
// header's tracking fields, the process-wide total-refcount cell and
// the negative-refcount check, and must be applied consistently to
// every layout descriptor and every emitted refcount sequence within
// one module.
type Mode uint8

const (
	ModeRelease Mode = iota
	ModeDebug
)

func (m Mode) String() string {
	switch m {
	case ModeRelease:
		return "release"
	case ModeDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "release":
		return ModeRelease, nil
	case "debug":
		return ModeDebug, nil
	default:
		return ModeRelease, fmt.Errorf("invalid build mode: %q (expected: release|debug)", s)
	}
}
