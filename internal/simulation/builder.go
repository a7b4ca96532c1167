package simulation

import (
	"fmt"

	"github.com/stephen422/netsim/internal/channel"
	"github.com/stephen422/netsim/internal/node"
	"github.com/stephen422/netsim/internal/router"
	"github.com/stephen422/netsim/internal/sim"
	"github.com/stephen422/netsim/internal/topology"
	"github.com/stephen422/netsim/internal/trace"
)

// ringRadix is the port count of every router in a ring: one terminal
// port plus one port per ring neighbor.
const ringRadix = 3

// Simulation owns a fully wired network and the engine that drives it.
type Simulation struct {
	cfg      Config
	engine   *sim.Engine
	topology *topology.Topology
	stat     *sim.DoubleTickStat
	tracer   *trace.Tracer

	sources      map[int]*node.Source
	destinations map[int]*node.Destination
	routers      map[int]*router.Router
}

// Build constructs the topology, instantiates every node with its
// channel references, and returns a Simulation ready for Seed and Run.
// It returns an error if cfg names a topology this driver cannot yet
// generate traffic over.
func Build(cfg Config) (*Simulation, error) {
	if cfg.Topology != Ring {
		return nil, fmt.Errorf("simulation: only the ring topology drives traffic; torus is connectivity-graph-only")
	}

	if cfg.Nodes < 2 {
		return nil, fmt.Errorf("simulation: ring requires at least 2 nodes, got %d", cfg.Nodes)
	}

	topo, err := topology.NewRing(cfg.Nodes)
	if err != nil {
		return nil, fmt.Errorf("simulation: building ring topology: %w", err)
	}

	engine := sim.NewEngine()
	stat := &sim.DoubleTickStat{}
	tracer := trace.NewStdout(cfg.Debug)

	pattern := cfg.Pattern
	if pattern == nil {
		pattern = node.UniformOffset(cfg.Nodes, 2)
	}

	packetLen := cfg.PacketLen
	if packetLen <= 0 {
		packetLen = 4
	}

	s := &Simulation{
		cfg:          cfg,
		engine:       engine,
		topology:     topo,
		stat:         stat,
		tracer:       tracer,
		sources:      make(map[int]*node.Source, cfg.Nodes),
		destinations: make(map[int]*node.Destination, cfg.Nodes),
		routers:      make(map[int]*router.Router, cfg.Nodes),
	}

	for i := 0; i < cfg.Nodes; i++ {
		rtrID := topology.NodeID{Kind: topology.Router, Value: i}
		r := router.New(rtrID, ringRadix, cfg.InputBufSize, engine, stat)
		r.AcceptHook(tracer)
		s.routers[i] = r
	}

	idgen := sim.NewSequentialIDGenerator()

	for i := 0; i < cfg.Nodes; i++ {
		srcID := topology.NodeID{Kind: topology.Source, Value: i}
		dstID := topology.NodeID{Kind: topology.Destination, Value: i}
		rtrID := topology.NodeID{Kind: topology.Router, Value: i}

		src := node.NewSource(srcID, engine, stat, cfg.InputBufSize, cfg.Nodes, packetLen, pattern, idgen)
		src.SetPacketBudget(cfg.PacketBudget)
		dst := node.NewDestination(dstID, engine, stat, cfg.InputBufSize)
		src.AcceptHook(tracer)
		dst.AcceptHook(tracer)

		s.sources[i] = src
		s.destinations[i] = dst

		rtr := s.routers[i]

		srcToRtr := channel.New(
			engine,
			topology.Endpoint{Node: srcID, Port: 0},
			topology.Endpoint{Node: rtrID, Port: topology.PortTerminal},
			cfg.ChannelDelay, src, rtr,
		)
		src.SetOutChannel(srcToRtr)
		rtr.SetInChannel(topology.PortTerminal, srcToRtr)

		rtrToDst := channel.New(
			engine,
			topology.Endpoint{Node: rtrID, Port: topology.PortTerminal},
			topology.Endpoint{Node: dstID, Port: 0},
			cfg.ChannelDelay, rtr, dst,
		)
		rtr.SetOutChannel(topology.PortTerminal, rtrToDst)
		dst.SetInChannel(rtrToDst)
	}

	for i := 0; i < cfg.Nodes; i++ {
		j := (i + 1) % cfg.Nodes
		l, r := s.routers[i], s.routers[j]
		lID := topology.NodeID{Kind: topology.Router, Value: i}
		rID := topology.NodeID{Kind: topology.Router, Value: j}

		fwd := channel.New(
			engine,
			topology.Endpoint{Node: lID, Port: topology.PortCW},
			topology.Endpoint{Node: rID, Port: topology.PortCCW},
			cfg.ChannelDelay, l, r,
		)
		l.SetOutChannel(topology.PortCW, fwd)
		r.SetInChannel(topology.PortCCW, fwd)

		back := channel.New(
			engine,
			topology.Endpoint{Node: rID, Port: topology.PortCCW},
			topology.Endpoint{Node: lID, Port: topology.PortCW},
			cfg.ChannelDelay, r, l,
		)
		r.SetOutChannel(topology.PortCCW, back)
		l.SetInChannel(topology.PortCW, back)
	}

	return s, nil
}

// Seed schedules an initial Tick for every source at cycle 0, starting
// traffic generation.
func (s *Simulation) Seed() {
	for i := range s.sources {
		s.SeedSources(i)
	}
}

// SeedSources schedules an initial Tick for just the named sources,
// leaving the rest silent. Useful for tests that want to observe a
// single packet in isolation.
func (s *Simulation) SeedSources(indices ...int) {
	for _, i := range indices {
		if src, ok := s.sources[i]; ok {
			s.engine.Schedule(sim.NewTickEvent(0, src))
		}
	}
}

// Run drains the event queue until it empties or the configured cycle
// budget is exhausted, whichever comes first. It returns the number of
// events processed.
func (s *Simulation) Run() int {
	return s.engine.Run(s.cfg.CycleBudget)
}

// CurrentTime reports the simulation's current cycle.
func (s *Simulation) CurrentTime() sim.Cycle { return s.engine.CurrentTime() }

// Report summarizes per-source/per-destination counters and the shared
// double-tick statistic.
func (s *Simulation) Report() Report {
	r := Report{
		SourceFlitGenCount:  make(map[int]int, len(s.sources)),
		DestFlitArriveCount: make(map[int]int, len(s.destinations)),
		DoubleTickCount:     s.stat.Count,
	}

	for i, src := range s.sources {
		r.SourceFlitGenCount[i] = src.FlitGenCount()
	}

	for i, dst := range s.destinations {
		r.DestFlitArriveCount[i] = dst.FlitArriveCount()
	}

	return r
}
