// Package node implements the two terminal node kinds that bracket
// the router mesh: sources that mint packets on a traffic pattern and
// destinations that drain them and return credit.
package node

import (
	"fmt"

	"github.com/stephen422/netsim/internal/channel"
	"github.com/stephen422/netsim/internal/messaging"
	"github.com/stephen422/netsim/internal/sim"
	"github.com/stephen422/netsim/internal/topology"
)

// TrafficPattern picks a destination node value for a packet generated
// at src. The original prototype hard-codes (src+2) mod N; this is
// factored out into a callback so callers can substitute their own.
type TrafficPattern func(src int) (dst int)

// UniformOffset returns a TrafficPattern that targets (src+offset) mod
// n, which with offset=2 reproduces the original prototype's pattern
// exactly.
func UniformOffset(n, offset int) TrafficPattern {
	return func(src int) int {
		return ((src+offset)%n + n) % n
	}
}

// Source generates head/body/tail flits on a fixed-length packet
// template, gated by the downstream router's returned credit.
type Source struct {
	id topology.NodeID

	guard *sim.TickGuard
	hooks *sim.HookableBase

	out     *channel.Channel
	ringLen int

	packetLen      int
	payloadCounter int
	currentRoute   *topology.Route

	pattern TrafficPattern
	idgen   sim.IDGenerator

	creditCount  int
	bufCredit    bool // single-slot incoming-credit latch, drained by creditUpdate
	flitGenCount int

	// packetBudget caps how many packets this source will ever inject;
	// 0 means unlimited. This is not part of the original prototype
	// (which runs forever on its fixed traffic pattern) but is what
	// lets a test or a bounded study isolate a fixed number of packets
	// instead of a fixed number of cycles.
	packetBudget int
	packetsSent  int
}

// NewSource creates a Source whose output credit count starts at
// downstream router's input buffer capacity, matching the invariant
// that credits initialize to input-buf-size on the sender side.
func NewSource(
	id topology.NodeID,
	engine *sim.Engine,
	stat *sim.DoubleTickStat,
	creditCapacity int,
	ringLen int,
	packetLen int,
	pattern TrafficPattern,
	idgen sim.IDGenerator,
) *Source {
	s := &Source{
		id:          id,
		hooks:       sim.NewHookableBase(),
		ringLen:     ringLen,
		packetLen:   packetLen,
		pattern:     pattern,
		idgen:       idgen,
		creditCount: creditCapacity,
	}
	s.guard = sim.NewTickGuard(engine, s, stat)

	return s
}

// SetOutChannel wires the channel this source emits flits onto (and
// receives downstream credit from).
func (s *Source) SetOutChannel(ch *channel.Channel) { s.out = ch }

// SetPacketBudget caps the number of packets this source will inject
// to n (0 means unlimited, the default).
func (s *Source) SetPacketBudget(n int) { s.packetBudget = n }

// AcceptHook implements sim.Hookable.
func (s *Source) AcceptHook(h sim.Hook) { s.hooks.AcceptHook(h) }

// NumHooks implements sim.Hookable.
func (s *Source) NumHooks() int { return s.hooks.NumHooks() }

// FlitGenCount reports how many flits this source has emitted.
func (s *Source) FlitGenCount() int { return s.flitGenCount }

func (s *Source) String() string { return s.id.String() }

// Handle runs one cycle in the order spec.md lays out for a source:
// generate, then credit_update, then fetch_credit.
func (s *Source) Handle(e sim.Event) error {
	now := e.Time()
	if !s.guard.Begin(now) {
		return nil
	}

	s.generate(now)
	s.creditUpdate(now)
	s.fetchCredit(now)

	s.guard.End(now)

	return nil
}

func (s *Source) generate(now sim.Cycle) {
	if s.packetBudget > 0 && s.packetsSent >= s.packetBudget && s.payloadCounter == 0 {
		return
	}

	if s.creditCount <= 0 {
		if s.hooks.NumHooks() > 0 {
			s.hooks.InvokeHook(sim.HookCtx{
				Domain: s, Pos: sim.HookPosStall, Time: now,
				Item: fmt.Sprintf("[%s] Credit stall", s.id),
			})
		}

		return
	}

	kind := messaging.Body
	switch s.payloadCounter {
	case 0:
		kind = messaging.Head
	case s.packetLen - 1:
		kind = messaging.Tail
	}

	dst := s.pattern(s.id.Value)

	flit := &messaging.Flit{
		ID:      s.idgen.Generate(),
		Kind:    kind,
		Src:     s.id.Value,
		Dst:     dst,
		Payload: s.payloadCounter,
	}

	if kind == messaging.Head {
		flit.Route = topology.NewRoute(topology.SourceRoute(s.ringLen, s.id.Value, dst))
		s.currentRoute = flit.Route
		s.packetsSent++
	} else {
		flit.Route = s.currentRoute
	}

	s.out.Put(now, flit)
	s.creditCount--
	s.flitGenCount++

	if s.hooks.NumHooks() > 0 {
		s.hooks.InvokeHook(sim.HookCtx{
			Domain: s, Pos: sim.HookPosFlitCreated, Time: now,
			Item: fmt.Sprintf("[%s] Flit generated: %s", s.id, flit),
		})
	}

	s.payloadCounter++
	if s.payloadCounter >= s.packetLen {
		s.payloadCounter = 0
	}

	s.guard.MarkReschedule()
}

// creditUpdate drains the single-slot bufCredit latch fetchCredit set
// on a prior cycle into creditCount. Mirrors router.creditUpdate: a
// credit is never applied to creditCount the same cycle it is
// fetched, it is latched one cycle and drained the next.
func (s *Source) creditUpdate(now sim.Cycle) {
	if !s.bufCredit {
		return
	}

	s.creditCount++
	s.bufCredit = false
	s.guard.MarkReschedule()
}

// fetchCredit pulls a returned credit, if one is ready this cycle, off
// the channel this source shares with its router, latching it into
// bufCredit for creditUpdate to drain next cycle. This is the only
// path that wakes a stalled source: without it, a source that ran out
// of credit would never retick once its generate stage stopped
// rescheduling.
func (s *Source) fetchCredit(now sim.Cycle) {
	if !s.out.GetCredit(now) {
		return
	}

	s.bufCredit = true
	s.guard.MarkReschedule()
}
