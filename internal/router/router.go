package router

import (
	"fmt"
	"log"

	"github.com/stephen422/netsim/internal/channel"
	"github.com/stephen422/netsim/internal/messaging"
	"github.com/stephen422/netsim/internal/sim"
	"github.com/stephen422/netsim/internal/topology"
)

// Router is the pipelined VC router: one inputUnit and one outputUnit
// per port, round-robin VA/SA rotor state per output port, and the
// shared counters the rest of the simulation reports on.
type Router struct {
	id    topology.NodeID
	radix int

	engine *sim.Engine
	guard  *sim.TickGuard
	hooks  *sim.HookableBase

	inChannels  []*channel.Channel
	outChannels []*channel.Channel

	inputUnits  []*inputUnit
	outputUnits []*outputUnit

	vaLastGrant []int
	saLastGrant []int
}

// New creates a Router with radix ports, each input unit's FIFO
// bounded by bufSize and each output unit's credit count initialized
// to bufSize (the downstream capacity it is allowed to assume until
// wired to real channels).
func New(id topology.NodeID, radix, bufSize int, engine *sim.Engine, stat *sim.DoubleTickStat) *Router {
	r := &Router{
		id:          id,
		radix:       radix,
		engine:      engine,
		hooks:       sim.NewHookableBase(),
		inChannels:  make([]*channel.Channel, radix),
		outChannels: make([]*channel.Channel, radix),
		inputUnits:  make([]*inputUnit, radix),
		outputUnits: make([]*outputUnit, radix),
		vaLastGrant: make([]int, radix),
		saLastGrant: make([]int, radix),
	}

	for p := 0; p < radix; p++ {
		r.inputUnits[p] = newInputUnit(bufSize)
		r.outputUnits[p] = newOutputUnit(bufSize)
		r.vaLastGrant[p] = -1
		r.saLastGrant[p] = -1
	}

	r.guard = sim.NewTickGuard(engine, r, stat)

	return r
}

// ID returns the router's node identity.
func (r *Router) ID() topology.NodeID { return r.id }

func (r *Router) String() string { return r.id.String() }

// SetInChannel wires the channel that feeds this router's port-th
// input unit.
func (r *Router) SetInChannel(port int, ch *channel.Channel) { r.inChannels[port] = ch }

// SetOutChannel wires the channel this router's port-th output unit
// drains into.
func (r *Router) SetOutChannel(port int, ch *channel.Channel) { r.outChannels[port] = ch }

// AcceptHook implements sim.Hookable.
func (r *Router) AcceptHook(h sim.Hook) { r.hooks.AcceptHook(h) }

// NumHooks implements sim.Hookable.
func (r *Router) NumHooks() int { return r.hooks.NumHooks() }

// InputFIFOLen reports how many flits are queued at the given input
// port. Exposed for tests and reports; the core never needs it.
func (r *Router) InputFIFOLen(port int) int { return len(r.inputUnits[port].fifo) }

// OutputCreditCount reports the credit count of the given output port.
func (r *Router) OutputCreditCount(port int) int { return r.outputUnits[port].creditCount }

// OutputGlobalState reports the committed VC state of the given output
// port, as a string, for tests and trace consumers.
func (r *Router) OutputGlobalState(port int) string { return r.outputUnits[port].global.String() }

// InputGlobalState reports the committed VC state of the given input
// port.
func (r *Router) InputGlobalState(port int) string { return r.inputUnits[port].global.String() }

// Handle runs one cycle of the router pipeline. It is a no-op (beyond
// recording the double tick) if this router has already ticked for
// e.Time().
func (r *Router) Handle(e sim.Event) error {
	now := e.Time()
	if !r.guard.Begin(now) {
		return nil
	}

	// Stages run in reverse dependency order: a flit may advance at
	// most one stage per cycle only if later stages (which would
	// otherwise re-observe its new position) have already run.
	r.switchTraverse(now)
	r.switchAlloc(now)
	r.vcAlloc(now)
	r.routeCompute(now)
	r.creditUpdate(now)
	r.fetchCredit(now)
	r.fetchFlit(now)

	r.updateStates(now)

	r.guard.End(now)

	return nil
}

// fetchFlit pulls one flit off each input channel that has one ready,
// kickstarting an idle input unit's pipeline if this is the first flit
// to land in an empty FIFO.
func (r *Router) fetchFlit(now sim.Cycle) {
	for p := 0; p < r.radix; p++ {
		ch := r.inChannels[p]
		if ch == nil {
			continue
		}

		flit, ok := ch.Get(now)
		if !ok {
			continue
		}

		iu := r.inputUnits[p]
		if iu.empty() && iu.nextGlobal == GIdle {
			iu.nextGlobal = GRouting
			iu.stage = StageRC
		}

		iu.push(flit)
		r.guard.MarkReschedule()
	}
}

// fetchCredit latches one credit per output port's single-slot buffer.
func (r *Router) fetchCredit(now sim.Cycle) {
	for p := 0; p < r.radix; p++ {
		ch := r.outChannels[p]
		if ch == nil {
			continue
		}

		if ch.GetCredit(now) {
			r.outputUnits[p].bufCredit = true
			r.guard.MarkReschedule()
		}
	}
}

// creditUpdate drains each output unit's latched credit: it wakes a
// starved CreditWait pair back to Active (if that's what was waiting),
// then unconditionally returns the credit to the count. This wake path
// is independent of the one updateStates provides on a plain state
// change; both must survive, or an output unit with credit but no
// input unit yet in CreditWait loses its wakeup.
func (r *Router) creditUpdate(now sim.Cycle) {
	for p := 0; p < r.radix; p++ {
		ou := r.outputUnits[p]
		if !ou.bufCredit {
			continue
		}

		if ou.creditCount == 0 && ou.nextGlobal == GCreditWait {
			if iu := r.holderOf(ou); iu != nil && iu.nextGlobal == GCreditWait {
				ou.nextGlobal = GActive
				iu.nextGlobal = GActive
				r.guard.MarkReschedule()
			}
		}

		ou.creditCount++
		ou.bufCredit = false

		r.trace(now, "Credit increment, credit=%d->%d (oport=%d)", ou.creditCount-1, ou.creditCount, p)
	}
}

// routeCompute assigns an output port to every input unit whose
// head-of-line flit is waiting on RC, consuming one hop of its
// precomputed route.
func (r *Router) routeCompute(now sim.Cycle) {
	for p := 0; p < r.radix; p++ {
		iu := r.inputUnits[p]
		if iu.global != GRouting || iu.empty() {
			continue
		}

		flit := iu.front()
		port := flit.Route.NextPort()
		flit.Route.Advance()

		iu.routePort = port
		iu.nextGlobal = GVCWait
		iu.stage = StageVA
		r.guard.MarkReschedule()
	}
}

// vcAlloc grants each idle output unit to one waiting input unit via
// round-robin, immediately routing the grant into CreditWait if the
// output has no credit to spend yet.
func (r *Router) vcAlloc(now sim.Cycle) {
	for p := 0; p < r.radix; p++ {
		ou := r.outputUnits[p]
		if ou.global != GIdle {
			continue
		}

		candidates := make([]bool, r.radix)
		for ip := 0; ip < r.radix; ip++ {
			iu := r.inputUnits[ip]
			candidates[ip] = iu.global == GVCWait && iu.routePort == p
		}

		winner := roundRobin(candidates, r.vaLastGrant[p])
		if winner < 0 {
			continue
		}

		r.vaLastGrant[p] = winner
		iu := r.inputUnits[winner]
		ou.inputPort = winner

		if ou.creditCount == 0 {
			ou.nextGlobal = GCreditWait
			iu.nextGlobal = GCreditWait
		} else {
			ou.nextGlobal = GActive
			iu.nextGlobal = GActive
		}

		iu.stage = StageSA
		r.guard.MarkReschedule()
	}
}

// switchAlloc grants each active output unit's crossbar slot to one
// waiting input unit via round-robin, moving the winning flit into the
// ST handoff slot and spending one credit.
func (r *Router) switchAlloc(now sim.Cycle) {
	for p := 0; p < r.radix; p++ {
		ou := r.outputUnits[p]
		if ou.global != GActive {
			continue
		}

		candidates := make([]bool, r.radix)
		for ip := 0; ip < r.radix; ip++ {
			iu := r.inputUnits[ip]
			candidates[ip] = iu.stage == StageSA && iu.global == GActive && iu.routePort == p && !iu.empty()
		}

		winner := roundRobin(candidates, r.saLastGrant[p])
		if winner < 0 {
			continue
		}

		r.saLastGrant[p] = winner
		iu := r.inputUnits[winner]

		if iu.empty() {
			log.Panicf("router: switch alloc winner (port %d) has an empty FIFO", winner)
		}

		flit := iu.pop()
		iu.stReady = flit

		if ou.creditCount == 0 {
			log.Panicf("router: credit underflow on output port %d", p)
		}

		ou.creditCount--
		r.trace(now, "Credit decrement, credit=%d->%d (oport=%d)", ou.creditCount+1, ou.creditCount, p)

		if flit.Kind == messaging.Tail {
			ou.nextGlobal = GIdle
			ou.inputPort = -1

			if iu.empty() {
				iu.nextGlobal = GIdle
				iu.stage = StageIdle
			} else {
				iu.nextGlobal = GRouting
				iu.stage = StageRC
			}

			r.guard.MarkReschedule()
			continue
		}

		if ou.creditCount == 0 {
			// SA will not be retried until creditUpdate wakes this pair;
			// reschedule is deliberately not marked here.
			ou.nextGlobal = GCreditWait
			iu.nextGlobal = GCreditWait
			continue
		}

		iu.nextGlobal = GActive
		iu.stage = StageSA
		r.guard.MarkReschedule()
	}
}

// switchTraverse drains each input unit's ST handoff slot onto its
// chosen output channel, and credits the channel the flit arrived on
// so the upstream node learns this unit has room again.
func (r *Router) switchTraverse(now sim.Cycle) {
	for p := 0; p < r.radix; p++ {
		iu := r.inputUnits[p]
		if iu.stReady == nil {
			continue
		}

		flit := iu.stReady
		iu.stReady = nil

		outCh := r.outChannels[iu.routePort]
		outCh.Put(now, flit)

		inCh := r.inChannels[p]
		inCh.PutCredit(now)

		r.traceAt(now, sim.HookPosSwitchTraverse, "Flit %s traversed to oport=%d", flit, iu.routePort)
	}
}

// updateStates commits every unit's staged nextGlobal into global,
// marking reschedule on any change. This two-phase commit is what
// makes the stage evaluation order above insensitive to which unit
// happens to be processed first within a port loop.
func (r *Router) updateStates(now sim.Cycle) {
	for p := 0; p < r.radix; p++ {
		iu := r.inputUnits[p]
		if iu.global != iu.nextGlobal {
			iu.global = iu.nextGlobal
			r.guard.MarkReschedule()
		}
	}

	for p := 0; p < r.radix; p++ {
		ou := r.outputUnits[p]
		if ou.nextGlobal == GCreditWait && ou.creditCount > 0 {
			log.Panicf(
				"router: state-commit inconsistency, output port %d committing to CreditWait with credit_count=%d",
				p, ou.creditCount,
			)
		}

		if ou.global != ou.nextGlobal {
			ou.global = ou.nextGlobal
			r.guard.MarkReschedule()
		}
	}
}

// holderOf returns the input unit currently recorded as holding ou, or
// nil if none.
func (r *Router) holderOf(ou *outputUnit) *inputUnit {
	if ou.inputPort < 0 {
		return nil
	}

	return r.inputUnits[ou.inputPort]
}

func (r *Router) trace(now sim.Cycle, format string, args ...interface{}) {
	r.traceAt(now, sim.HookPosCreditChange, format, args...)
}

func (r *Router) traceAt(now sim.Cycle, pos *sim.HookPos, format string, args ...interface{}) {
	if r.hooks.NumHooks() == 0 {
		return
	}

	msg := fmt.Sprintf("[%s] "+format, append([]interface{}{r.id}, args...)...)
	r.hooks.InvokeHook(sim.HookCtx{Domain: r, Pos: pos, Time: now, Item: msg})
}
