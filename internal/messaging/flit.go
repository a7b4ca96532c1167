// Package messaging defines the wire-level units that travel over a
// channel: flits carrying a packet's payload, and the credits that
// flow the opposite way to return buffer space.
package messaging

import (
	"fmt"

	"github.com/stephen422/netsim/internal/topology"
)

// FlitKind marks a flit's position within its packet.
type FlitKind int

const (
	Head FlitKind = iota
	Body
	Tail
)

func (k FlitKind) String() string {
	switch k {
	case Head:
		return "HEAD"
	case Body:
		return "BODY"
	case Tail:
		return "TAIL"
	default:
		return "?"
	}
}

// Flit is one cycle's worth of a packet. Every flit in a packet shares
// the same Route pointer: the head flit computes it once and body/tail
// flits ride along the same path without recomputing it.
type Flit struct {
	ID      string
	Kind    FlitKind
	Src     int
	Dst     int
	Route   *topology.Route
	Payload int
}

// String renders a flit exactly as the original prototype's
// print_flit does: "{<src>.p<payload>}".
func (f *Flit) String() string {
	return fmt.Sprintf("{%d.p%d}", f.Src, f.Payload)
}
