package trace

import (
	"fmt"
	"io"
	"sync"
)

// StreamTracer writes events immediately to an io.Writer, one line per
// event. Writes are best-effort: a trace failure never disrupts
// translation.
type StreamTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
}

// NewStreamTracer creates a StreamTracer emitting at the given level.
func NewStreamTracer(w io.Writer, level Level) *StreamTracer {
	return &StreamTracer{w: w, level: level}
}

// Emit writes an event to the output.
func (t *StreamTracer) Emit(ev *Event) {
	if ev == nil || ev.Level > t.level {
		return
	}
	line := fmt.Sprintf("[%s] %s", ev.Level, ev.Name)
	if ev.Detail != "" {
		line += " " + ev.Detail
	}
	if ev.Dur != 0 {
		line += fmt.Sprintf(" (%s)", ev.Dur)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := fmt.Fprintln(t.w, line); err != nil {
		_ = err
	}
}

// Level returns the tracer's level.
func (t *StreamTracer) Level() Level { return t.level }

// Enabled reports whether any events will be emitted.
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
