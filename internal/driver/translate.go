package driver

import (
	"context"
	"fmt"
	"time"

	"pyrite/internal/bytecode"
	"pyrite/internal/fnbuild"
	"pyrite/internal/ir"
	"pyrite/internal/observ"
	"pyrite/internal/rtlayout"
	"pyrite/internal/trace"
)

// Options configures a translation run.
type Options struct {
	// Mode selects debug or release object layouts and refcount
	// sequences.
	Mode fnbuild.Mode
	// Target is the ABI target the layouts are computed for.
	Target rtlayout.Target
	// Tracer receives per-phase and per-opcode events. Nil means no
	// tracing.
	Tracer trace.Tracer
}

func (o *Options) tracer() trace.Tracer {
	if o.Tracer == nil {
		return trace.Nop
	}
	return o.Tracer
}

// Result is the translation output for one code object.
type Result struct {
	Module *ir.Module
	Timing []observ.Phase
}

// Translate lowers one code object into an IR module holding a single
// function definition plus its external declarations.
func Translate(ctx context.Context, code *bytecode.CodeObject, opts Options) (*Result, error) {
	if code == nil {
		return nil, fmt.Errorf("translate: nil code object")
	}
	tr := opts.tracer()
	timer := observ.NewTimer()

	ph := timer.Begin("validate")
	if err := code.Validate(); err != nil {
		return nil, fmt.Errorf("translate %q: %w", code.Name, err)
	}
	timer.End(ph, "")

	ph = timer.Begin("lower")
	reg := rtlayout.NewRegistry(opts.Target, opts.Mode == fnbuild.ModeDebug)
	mod := ir.NewModule(code.Name)
	fb, err := fnbuild.New(mod, code.Name, code, reg, opts.Mode)
	if err != nil {
		return nil, err
	}
	for pc, ins := range code.Code {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		if err := fb.Op(pc, ins); err != nil {
			return nil, fmt.Errorf("translate %q: pc %d: %w", code.Name, pc, err)
		}
		if tr.Level() >= trace.LevelOp {
			tr.Emit(&trace.Event{
				Time:   start,
				Level:  trace.LevelOp,
				Name:   ins.Op.String(),
				Detail: fmt.Sprintf("pc=%d", pc),
				Dur:    time.Since(start),
			})
		}
	}
	timer.End(ph, fmt.Sprintf("%d ops", len(code.Code)))

	ph = timer.Begin("verify")
	if err := ir.Validate(mod); err != nil {
		return nil, fmt.Errorf("translate %q: invalid IR: %w", code.Name, err)
	}
	timer.End(ph, "")

	if tr.Level() >= trace.LevelPhase {
		for _, p := range timer.Phases() {
			tr.Emit(&trace.Event{
				Time:   p.Start,
				Level:  trace.LevelPhase,
				Name:   p.Name,
				Detail: p.Note,
				Dur:    p.Dur,
			})
		}
	}
	return &Result{Module: mod, Timing: timer.Phases()}, nil
}
