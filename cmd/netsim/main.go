// Command netsim runs the cycle-accurate virtual-channel NoC simulator.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/stephen422/netsim/internal/sim"
	"github.com/stephen422/netsim/internal/simulation"
)

var (
	flagDebug        bool
	flagCycles       int64
	flagTopology     string
	flagNodes        int
	flagBufSize      int
	flagDelay        int64
	flagPacketLen    int
	flagPacketBudget int
)

var rootCmd = &cobra.Command{
	Use:   "netsim",
	Short: "netsim simulates a virtual-channel, credit-based Network-on-Chip.",
	Long: `netsim is a cycle-accurate, event-driven simulator for a ` +
		`packet-switched Network-on-Chip. It builds a ring of ` +
		`virtual-channel routers, drives source traffic over it, and ` +
		`reports per-node flit counts. The torus topology kind is ` +
		`rejected with an error: no traffic is routed over a torus.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().BoolVarP(&flagDebug, "debug", "d", false, "enable cycle-by-cycle trace output")
	rootCmd.Flags().Int64Var(&flagCycles, "cycles", 10000, "cycle budget for the run")
	rootCmd.Flags().StringVar(&flagTopology, "topology", "ring", "topology kind: ring|torus")
	rootCmd.Flags().IntVar(&flagNodes, "nodes", 8, "number of routers (ring length)")
	rootCmd.Flags().IntVar(&flagBufSize, "buf-size", 8, "input buffer size per router port")
	rootCmd.Flags().Int64Var(&flagDelay, "delay", 1, "channel delay in cycles")
	rootCmd.Flags().IntVar(&flagPacketLen, "packet-len", 4, "flits per packet")
	rootCmd.Flags().IntVar(&flagPacketBudget, "packet-budget", 0, "packets per source before it falls silent (0 = unlimited)")
}

func run(cmd *cobra.Command, args []string) error {
	cfg := simulation.NewConfig(flagNodes, flagBufSize)
	cfg.ChannelDelay = sim.Cycle(flagDelay)
	cfg.CycleBudget = sim.Cycle(flagCycles)
	cfg.PacketLen = flagPacketLen
	cfg.PacketBudget = flagPacketBudget
	cfg.Debug = flagDebug

	switch flagTopology {
	case "ring":
		cfg.Topology = simulation.Ring
	case "torus":
		cfg.Topology = simulation.Torus
	default:
		return fmt.Errorf("netsim: unknown topology %q (want ring|torus)", flagTopology)
	}

	s, err := simulation.Build(cfg)
	if err != nil {
		return err
	}

	s.Seed()
	s.Run()

	fmt.Print(s.Report())

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}

	os.Exit(0)
}
