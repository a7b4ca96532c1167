// Package channel implements the fixed-delay physical link that joins
// two endpoints: flits travel one way, credits travel the other, and
// arrival of either wakes the node waiting on it through the event
// queue rather than through a direct call.
package channel

import (
	"container/list"
	"log"

	"github.com/stephen422/netsim/internal/messaging"
	"github.com/stephen422/netsim/internal/sim"
	"github.com/stephen422/netsim/internal/topology"
)

type timedFlit struct {
	ready sim.Cycle
	flit  *messaging.Flit
}

type timedCredit struct {
	ready sim.Cycle
}

// Channel is a single-VC, fixed-delay FIFO. Flits put in at Src arrive
// at Dst after Delay cycles; credits put in at Dst arrive back at Src
// after the same Delay. Both directions wake their destination by
// scheduling a Tick, never by a direct method call, so a channel never
// needs to know anything about the node on the other end beyond its
// sim.Handler.
type Channel struct {
	Src, Dst topology.Endpoint
	Delay    sim.Cycle

	engine *sim.Engine

	// srcNode is woken by an arriving credit; dstNode is woken by an
	// arriving flit.
	srcNode sim.Handler
	dstNode sim.Handler

	flits   *list.List
	credits *list.List
}

// New creates a Channel with the given one-way delay (cycles >= 1).
func New(engine *sim.Engine, src, dst topology.Endpoint, delay sim.Cycle, srcNode, dstNode sim.Handler) *Channel {
	if delay < 1 {
		log.Panicf("channel: delay must be >= 1, got %d", delay)
	}

	return &Channel{
		Src:     src,
		Dst:     dst,
		Delay:   delay,
		engine:  engine,
		srcNode: srcNode,
		dstNode: dstNode,
		flits:   list.New(),
		credits: list.New(),
	}
}

// Put enqueues flit for delivery at now+Delay and schedules a Tick for
// dstNode at that cycle.
func (c *Channel) Put(now sim.Cycle, flit *messaging.Flit) {
	ready := now + c.Delay
	c.flits.PushBack(timedFlit{ready: ready, flit: flit})
	c.engine.Schedule(sim.NewTickEvent(ready, c.dstNode))
}

// PutCredit enqueues a credit for return at now+Delay and schedules a
// Tick for srcNode at that cycle.
func (c *Channel) PutCredit(now sim.Cycle) {
	ready := now + c.Delay
	c.credits.PushBack(timedCredit{ready: ready})
	c.engine.Schedule(sim.NewTickEvent(ready, c.srcNode))
}

// Get returns the head flit iff it is ready at now. A head whose ready
// time has already passed is a stagnant-flit invariant violation: the
// scheduler must have woken the destination at exactly that cycle.
func (c *Channel) Get(now sim.Cycle) (*messaging.Flit, bool) {
	front := c.flits.Front()
	if front == nil {
		return nil, false
	}

	tf := front.Value.(timedFlit)
	if tf.ready < now {
		log.Panicf("channel: stagnant flit, ready=%d now=%d", tf.ready, now)
	}
	if tf.ready != now {
		return nil, false
	}

	c.flits.Remove(front)

	return tf.flit, true
}

// GetCredit reports, and consumes, whether a credit is ready at now.
func (c *Channel) GetCredit(now sim.Cycle) bool {
	front := c.credits.Front()
	if front == nil {
		return false
	}

	tc := front.Value.(timedCredit)
	if tc.ready < now {
		log.Panicf("channel: stagnant credit, ready=%d now=%d", tc.ready, now)
	}
	if tc.ready != now {
		return false
	}

	c.credits.Remove(front)

	return true
}
