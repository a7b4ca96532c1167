package topology_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stephen422/netsim/internal/topology"
)

var _ = Describe("Topology", func() {
	var top *topology.Topology

	BeforeEach(func() {
		top = topology.New()
	})

	It("finds what it connected, in both directions", func() {
		out := topology.Endpoint{Node: topology.NodeID{Kind: topology.Router, Value: 0}, Port: 2}
		in := topology.Endpoint{Node: topology.NodeID{Kind: topology.Router, Value: 1}, Port: 1}

		Expect(top.Connect(out, in)).To(Succeed())

		found, ok := top.FindForward(out)
		Expect(ok).To(BeTrue())
		Expect(found).To(Equal(in))

		back, ok := top.FindReverse(in)
		Expect(ok).To(BeTrue())
		Expect(back).To(Equal(out))
	})

	It("rejects a double bind of the same output port without mutating state", func() {
		a := topology.Endpoint{Node: topology.NodeID{Kind: topology.Router, Value: 0}, Port: 2}
		b := topology.Endpoint{Node: topology.NodeID{Kind: topology.Router, Value: 1}, Port: 1}
		c := topology.Endpoint{Node: topology.NodeID{Kind: topology.Router, Value: 2}, Port: 1}

		Expect(top.Connect(a, b)).To(Succeed())
		Expect(top.Connect(a, c)).To(HaveOccurred())

		found, _ := top.FindForward(a)
		Expect(found).To(Equal(b))
	})

	It("rejects a double bind of the same input port", func() {
		a := topology.Endpoint{Node: topology.NodeID{Kind: topology.Router, Value: 0}, Port: 2}
		b := topology.Endpoint{Node: topology.NodeID{Kind: topology.Router, Value: 1}, Port: 1}
		c := topology.Endpoint{Node: topology.NodeID{Kind: topology.Router, Value: 2}, Port: 2}

		Expect(top.Connect(a, b)).To(Succeed())
		Expect(top.Connect(c, b)).To(HaveOccurred())
	})

	It("reports not-found for unconnected endpoints", func() {
		unconnected := topology.Endpoint{Node: topology.NodeID{Kind: topology.Router, Value: 9}, Port: 0}
		_, ok := top.FindForward(unconnected)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("NewRing", func() {
	It("wires every router's clockwise/counterclockwise neighbor", func() {
		top, err := topology.NewRing(4)
		Expect(err).NotTo(HaveOccurred())

		r0cw := topology.Endpoint{Node: topology.NodeID{Kind: topology.Router, Value: 0}, Port: topology.PortCW}
		r1ccw := topology.Endpoint{Node: topology.NodeID{Kind: topology.Router, Value: 1}, Port: topology.PortCCW}

		found, ok := top.FindForward(r0cw)
		Expect(ok).To(BeTrue())
		Expect(found).To(Equal(r1ccw))
	})

	It("wires every router's terminal to its source and destination", func() {
		top, err := topology.NewRing(4)
		Expect(err).NotTo(HaveOccurred())

		src := topology.Endpoint{Node: topology.NodeID{Kind: topology.Source, Value: 2}, Port: 0}
		rtrIn := topology.Endpoint{Node: topology.NodeID{Kind: topology.Router, Value: 2}, Port: topology.PortTerminal}

		found, ok := top.FindForward(src)
		Expect(ok).To(BeTrue())
		Expect(found).To(Equal(rtrIn))
	})
})
