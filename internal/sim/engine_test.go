package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stephen422/netsim/internal/sim"
)

var _ = Describe("Engine", func() {
	var (
		engine *sim.Engine
		h      *recordingHandler
	)

	BeforeEach(func() {
		engine = sim.NewEngine()
		h = &recordingHandler{name: "h"}
	})

	It("starts at cycle zero", func() {
		Expect(engine.CurrentTime()).To(Equal(sim.Cycle(0)))
	})

	It("advances CurrentTime as it processes events", func() {
		engine.Schedule(sim.NewTickEvent(3, h))
		engine.Schedule(sim.NewTickEvent(7, h))

		engine.Run(100)

		Expect(engine.CurrentTime()).To(Equal(sim.Cycle(7)))
		Expect(h.seen).To(Equal([]sim.Cycle{3, 7}))
	})

	It("stops draining once the next event exceeds maxCycle", func() {
		engine.Schedule(sim.NewTickEvent(3, h))
		engine.Schedule(sim.NewTickEvent(10, h))

		processed := engine.Run(5)

		Expect(processed).To(Equal(1))
		Expect(engine.Pending()).To(BeTrue())
	})

	It("reports no pending work once drained", func() {
		engine.Schedule(sim.NewTickEvent(1, h))
		engine.Run(100)

		Expect(engine.Pending()).To(BeFalse())
	})
})
