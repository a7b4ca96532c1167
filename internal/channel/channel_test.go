package channel_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stephen422/netsim/internal/channel"
	"github.com/stephen422/netsim/internal/messaging"
	"github.com/stephen422/netsim/internal/sim"
	"github.com/stephen422/netsim/internal/topology"
)

// countingHandler records how many times it was handed an event, so
// tests can confirm a channel wakes exactly the node it should.
type countingHandler struct {
	calls []sim.Cycle
}

func (h *countingHandler) Handle(e sim.Event) error {
	h.calls = append(h.calls, e.Time())
	return nil
}

var _ = Describe("Channel", func() {
	var (
		engine   *sim.Engine
		srcNode  *countingHandler
		dstNode  *countingHandler
		src, dst topology.Endpoint
		ch       *channel.Channel
	)

	BeforeEach(func() {
		engine = sim.NewEngine()
		srcNode = &countingHandler{}
		dstNode = &countingHandler{}
		src = topology.Endpoint{Node: topology.NodeID{Kind: topology.Router, Value: 0}, Port: 2}
		dst = topology.Endpoint{Node: topology.NodeID{Kind: topology.Router, Value: 1}, Port: 1}
		ch = channel.New(engine, src, dst, 3, srcNode, dstNode)
	})

	It("delivers a flit exactly Delay cycles after Put, waking the destination", func() {
		flit := &messaging.Flit{Kind: messaging.Head, Src: 0, Dst: 1}
		ch.Put(5, flit)

		_, ok := ch.Get(5)
		Expect(ok).To(BeFalse(), "not ready yet")

		_, ok = ch.Get(7)
		Expect(ok).To(BeFalse(), "still not ready")

		got, ok := ch.Get(8)
		Expect(ok).To(BeTrue())
		Expect(got).To(BeIdenticalTo(flit))

		engine.Run(100)
		Expect(dstNode.calls).To(ConsistOf(sim.Cycle(8)))
	})

	It("returns a credit Delay cycles after PutCredit, waking the source", func() {
		ch.PutCredit(10)

		Expect(ch.GetCredit(10)).To(BeFalse())
		Expect(ch.GetCredit(13)).To(BeTrue())
		Expect(ch.GetCredit(13)).To(BeFalse(), "a credit is consumed by Get")

		engine.Run(100)
		Expect(srcNode.calls).To(ConsistOf(sim.Cycle(13)))
	})

	It("panics on a stagnant flit (ready time already passed)", func() {
		flit := &messaging.Flit{Kind: messaging.Head}
		ch.Put(0, flit)

		Expect(func() { ch.Get(100) }).To(Panic())
	})

	It("preserves FIFO order across multiple in-flight flits", func() {
		a := &messaging.Flit{Payload: 1}
		b := &messaging.Flit{Payload: 2}
		ch.Put(0, a)
		ch.Put(0, b)

		got1, _ := ch.Get(3)
		got2, _ := ch.Get(3)

		Expect(got1).To(BeIdenticalTo(a))
		Expect(got2).To(BeIdenticalTo(b))
	})
})
