// Package simulation wires an internal/topology graph, internal/router
// routers, and internal/node terminals into a runnable simulation: the
// one piece of assembly logic that corresponds to the distilled spec's
// simulation driver (§2, §4's "construct, seed, run until budget
// exhausted").
package simulation

import (
	"github.com/stephen422/netsim/internal/node"
	"github.com/stephen422/netsim/internal/sim"
)

// TopologyKind selects which regular topology Build wires up.
type TopologyKind int

const (
	// Ring wires Nodes routers in a bidirectional ring, each with one
	// source and one destination terminal. This is the only kind Build
	// currently drives traffic over.
	Ring TopologyKind = iota

	// Torus is accepted for symmetry with internal/topology's
	// connectivity-graph constructor, but Build rejects it: no
	// source-route computation exists for multi-dimensional topologies,
	// matching the distilled spec's Non-goal on adaptive/torus routing.
	Torus
)

// Config parameterizes a Build call. Zero values are not valid on
// their own; use NewConfig for sensible defaults and override from
// there.
type Config struct {
	Topology TopologyKind

	// Nodes is the ring length (or, for a future torus driver, k).
	Nodes int

	// InputBufSize is every router input unit's FIFO capacity, and the
	// credit count every output unit (and source) starts with.
	InputBufSize int

	// ChannelDelay is the fixed one-way latency of every channel.
	ChannelDelay sim.Cycle

	// PacketLen is how many flits (head, then body*, then tail) make up
	// one packet. The original prototype hard-codes 4; this exposes it
	// as a configuration knob per the distilled spec's Open Questions.
	PacketLen int

	// Pattern picks each source's destination. Defaults to
	// node.UniformOffset(Nodes, 2), the original prototype's (src+2)
	// mod N.
	Pattern node.TrafficPattern

	// CycleBudget bounds how many cycles Run will advance through.
	CycleBudget sim.Cycle

	// PacketBudget caps how many packets each source injects before
	// falling silent (0 means unlimited, the default and the original
	// prototype's behavior).
	PacketBudget int

	// Debug enables the stdout tracer.
	Debug bool
}

// NewConfig returns a Config with the original prototype's defaults:
// a ring, a 4-flit packet template, (src+2) mod N traffic, and a
// single-cycle channel delay.
func NewConfig(nodes, bufSize int) Config {
	return Config{
		Topology:     Ring,
		Nodes:        nodes,
		InputBufSize: bufSize,
		ChannelDelay: 1,
		PacketLen:    4,
		Pattern:      node.UniformOffset(nodes, 2),
		CycleBudget:  10000,
	}
}
