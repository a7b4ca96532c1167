// Package trace provides the single global debug toggle the original
// prototype used, adapted into the teacher's hook/observer idiom
// rather than scattered fmt.Println calls. A component that embeds
// sim.HookableBase can AcceptHook a *Tracer and get one line per hook
// invocation, formatted "[@<cycle>] [<node>] <message>" to match the
// original's dprintf output (the node bracket is part of the message
// each hook site builds, not something Tracer itself adds).
package trace

import (
	"fmt"
	"io"
	"os"

	"github.com/stephen422/netsim/internal/sim"
)

// Tracer is a sim.Hook that writes one line per invocation. It is the
// only hook this simulator ships; everything else a user might want
// (counting, filtering) can be layered by wrapping Tracer.Func.
type Tracer struct {
	out     io.Writer
	enabled bool
}

// New creates a Tracer writing to out. Pass enabled=false to build a
// Tracer that can be registered unconditionally and silenced later via
// SetEnabled, mirroring the original's single global -d flag.
func New(out io.Writer, enabled bool) *Tracer {
	return &Tracer{out: out, enabled: enabled}
}

// NewStdout creates a Tracer writing to os.Stdout.
func NewStdout(enabled bool) *Tracer {
	return New(os.Stdout, enabled)
}

// SetEnabled toggles whether Func emits anything.
func (t *Tracer) SetEnabled(enabled bool) {
	t.enabled = enabled
}

// Enabled reports the current toggle state.
func (t *Tracer) Enabled() bool {
	return t.enabled
}

// Func implements sim.Hook. Every hook site formats ctx.Item as
// "[<kind><value>] <message>" itself, so Func only needs to prefix the
// timestamp, matching the original's "[@<time>] [<node>] <message>"
// trace line shape.
func (t *Tracer) Func(ctx sim.HookCtx) {
	if !t.enabled {
		return
	}

	fmt.Fprintf(t.out, "[@%3d] %v\n", ctx.Time, ctx.Item)
}
