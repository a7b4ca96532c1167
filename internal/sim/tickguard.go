package sim

// DoubleTickStat counts how many times any node in a simulation was
// handed a Tick for a cycle it had already processed. This is not
// fatal: it happens when two independent wake sources (a credit
// arrival and a state-commit reschedule, say) land on the same node in
// the same cycle and both enqueue a Tick before the first is
// processed. The EventQueue's recipient dedup mostly prevents this, but
// a TickGuard still checks directly so a node never runs its body
// twice for one cycle even if it is driven by something other than the
// EventQueue's own Schedule.
type DoubleTickStat struct {
	Count int64
}

// TickGuard gives a node the same three pieces of bookkeeping the
// teacher's TickScheduler gives a TickingComponent, adapted from
// frequency-relative real time to the simulator's plain integer
// cycles: double-tick detection, a per-cycle reschedule flag, and a
// watermark that stops a node from scheduling two self-ticks for the
// same target cycle.
type TickGuard struct {
	engine  *Engine
	handler Handler
	stat    *DoubleTickStat

	lastTick           Cycle
	lastRescheduleTick Cycle
	reschedule         bool
}

// NewTickGuard creates a TickGuard for handler, driven by engine and
// reporting double ticks into stat.
func NewTickGuard(engine *Engine, handler Handler, stat *DoubleTickStat) *TickGuard {
	return &TickGuard{
		engine:             engine,
		handler:            handler,
		stat:               stat,
		lastTick:           -1,
		lastRescheduleTick: -1,
	}
}

// Begin should be called first in a node's Handle method. It reports
// whether the node should actually run its tick body for cycle now; if
// the node already ran a tick for now, it records the double tick and
// returns false without side effects.
func (g *TickGuard) Begin(now Cycle) bool {
	if g.lastTick == now {
		g.stat.Count++
		return false
	}

	g.lastTick = now
	g.reschedule = false

	return true
}

// MarkReschedule records that something changed this cycle that
// requires the node to run again next cycle. Calling it more than once
// in the same tick is harmless.
func (g *TickGuard) MarkReschedule() {
	g.reschedule = true
}

// End should be called last in a node's Handle method. If
// MarkReschedule was called during this tick and a self-tick for the
// next cycle has not already been scheduled, it schedules one.
func (g *TickGuard) End(now Cycle) {
	if !g.reschedule {
		return
	}

	if g.lastRescheduleTick == now {
		return
	}

	g.lastRescheduleTick = now
	g.engine.Schedule(NewTickEvent(now+1, g.handler))
}
