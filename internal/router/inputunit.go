// Package router implements the virtual-channel router pipeline: per
// input/output port unit state machines, round-robin VC and switch
// allocators, and the five-stage tick that advances them.
package router

import (
	"log"

	"github.com/stephen422/netsim/internal/messaging"
)

// pipelineStage is the stage a unit's head-of-line flit currently
// occupies. Unlike global/nextGlobal below, stage commits immediately:
// the reverse-dependency-order tick guarantees a stage value set this
// cycle is never re-read by an earlier stage in the same cycle.
type pipelineStage int

const (
	StageIdle pipelineStage = iota
	StageRC
	StageVA
	StageSA
	StageST
)

func (s pipelineStage) String() string {
	switch s {
	case StageRC:
		return "RC"
	case StageVA:
		return "VA"
	case StageSA:
		return "SA"
	case StageST:
		return "ST"
	default:
		return "Idle"
	}
}

// globalState is the VC state machine shared by input and output
// units. Every read of another unit's globalState during a stage
// observes last cycle's committed value; only nextGlobal may be
// written mid-cycle, and updateStates is the sole place that copies
// nextGlobal into global.
type globalState int

const (
	GIdle globalState = iota
	GRouting
	GVCWait
	GActive
	GCreditWait
)

func (s globalState) String() string {
	switch s {
	case GRouting:
		return "Routing"
	case GVCWait:
		return "VCWait"
	case GActive:
		return "Active"
	case GCreditWait:
		return "CreditWait"
	default:
		return "Idle"
	}
}

// inputUnit is the per-input-port state of a router.
type inputUnit struct {
	fifo    []*messaging.Flit
	bufSize int

	stage              pipelineStage
	global, nextGlobal globalState

	routePort int // chosen by routeCompute; -1 until then

	stReady *messaging.Flit // at most one flit handed from SA to ST
}

func newInputUnit(bufSize int) *inputUnit {
	return &inputUnit{bufSize: bufSize, routePort: -1}
}

// push appends flit to the FIFO. Pushing past bufSize means the
// upstream output unit's credit accounting let more flits through than
// this unit has room for: a flow-control bug, fatal.
func (u *inputUnit) push(flit *messaging.Flit) {
	if len(u.fifo) >= u.bufSize {
		log.Panicf("router: input buffer overflow (capacity %d)", u.bufSize)
	}

	u.fifo = append(u.fifo, flit)
}

func (u *inputUnit) empty() bool {
	return len(u.fifo) == 0
}

func (u *inputUnit) front() *messaging.Flit {
	return u.fifo[0]
}

func (u *inputUnit) pop() *messaging.Flit {
	f := u.fifo[0]
	u.fifo = u.fifo[1:]

	return f
}
