package node

import (
	"fmt"
	"log"

	"github.com/stephen422/netsim/internal/channel"
	"github.com/stephen422/netsim/internal/messaging"
	"github.com/stephen422/netsim/internal/sim"
	"github.com/stephen422/netsim/internal/topology"
)

// Destination drains arriving flits and returns one credit upstream
// per flit consumed.
type Destination struct {
	id topology.NodeID

	guard *sim.TickGuard
	hooks *sim.HookableBase

	in      *channel.Channel
	bufSize int
	fifo    []*messaging.Flit

	flitArriveCount int
}

// NewDestination creates a Destination whose arrival FIFO is bounded
// by bufSize, matching the router input unit it terminates.
func NewDestination(id topology.NodeID, engine *sim.Engine, stat *sim.DoubleTickStat, bufSize int) *Destination {
	d := &Destination{
		id:      id,
		hooks:   sim.NewHookableBase(),
		bufSize: bufSize,
	}
	d.guard = sim.NewTickGuard(engine, d, stat)

	return d
}

// SetInChannel wires the channel this destination drains flits from
// (and returns credit on).
func (d *Destination) SetInChannel(ch *channel.Channel) { d.in = ch }

// AcceptHook implements sim.Hookable.
func (d *Destination) AcceptHook(h sim.Hook) { d.hooks.AcceptHook(h) }

// NumHooks implements sim.Hookable.
func (d *Destination) NumHooks() int { return d.hooks.NumHooks() }

// FlitArriveCount reports how many flits this destination has
// consumed.
func (d *Destination) FlitArriveCount() int { return d.flitArriveCount }

func (d *Destination) String() string { return d.id.String() }

// Handle runs one cycle: consume a pending flit, then look for a newly
// arrived one.
func (d *Destination) Handle(e sim.Event) error {
	now := e.Time()
	if !d.guard.Begin(now) {
		return nil
	}

	d.consume(now)
	d.fetchFlit(now)

	d.guard.End(now)

	return nil
}

func (d *Destination) consume(now sim.Cycle) {
	if len(d.fifo) == 0 {
		return
	}

	flit := d.fifo[0]
	d.fifo = d.fifo[1:]
	d.flitArriveCount++
	d.in.PutCredit(now)

	if d.hooks.NumHooks() > 0 {
		d.hooks.InvokeHook(sim.HookCtx{
			Domain: d, Pos: sim.HookPosFlitRetired, Time: now,
			Item: fmt.Sprintf("[%s] Flit arrived: %s", d.id, flit),
		})
	}

	d.guard.MarkReschedule()
}

func (d *Destination) fetchFlit(now sim.Cycle) {
	flit, ok := d.in.Get(now)
	if !ok {
		return
	}

	if len(d.fifo) >= d.bufSize {
		log.Panicf("destination: input buffer overflow (capacity %d)", d.bufSize)
	}

	d.fifo = append(d.fifo, flit)
	d.guard.MarkReschedule()
}
