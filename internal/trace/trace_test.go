package trace_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stephen422/netsim/internal/sim"
	"github.com/stephen422/netsim/internal/trace"
)

var _ = Describe("Tracer", func() {
	It("writes nothing when disabled", func() {
		var buf bytes.Buffer
		tracer := trace.New(&buf, false)

		tracer.Func(sim.HookCtx{Pos: sim.HookPosFlitCreated, Time: 1, Item: "x"})

		Expect(buf.String()).To(BeEmpty())
	})

	It("writes a formatted line when enabled", func() {
		var buf bytes.Buffer
		tracer := trace.New(&buf, true)

		tracer.Func(sim.HookCtx{Pos: sim.HookPosFlitCreated, Time: 5, Item: "[S0] Flit generated: {0.p1}"})

		Expect(buf.String()).To(ContainSubstring("@  5"))
		Expect(buf.String()).To(ContainSubstring("[S0]"))
		Expect(buf.String()).To(ContainSubstring("{0.p1}"))
	})

	It("can be toggled at runtime", func() {
		var buf bytes.Buffer
		tracer := trace.New(&buf, false)
		tracer.SetEnabled(true)

		Expect(tracer.Enabled()).To(BeTrue())

		tracer.Func(sim.HookCtx{Pos: sim.HookPosFlitCreated, Time: 0})
		Expect(buf.String()).NotTo(BeEmpty())
	})
})
