package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase records the duration and metadata of a translation phase.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the execution time of the phases of one build.
type Timer struct {
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Phases returns the recorded phases.
func (t *Timer) Phases() []Phase { return t.phases }

// Summary returns a human-readable string summarizing all tracked
// phases.
func (t *Timer) Summary() string {
	var sb strings.Builder
	var total time.Duration
	for _, p := range t.phases {
		if p.Note != "" {
			fmt.Fprintf(&sb, "  %-12s %10s  %s\n", p.Name, p.Dur, p.Note)
		} else {
			fmt.Fprintf(&sb, "  %-12s %10s\n", p.Name, p.Dur)
		}
		total += p.Dur
	}
	fmt.Fprintf(&sb, "  %-12s %10s\n", "total", total)
	return sb.String()
}
