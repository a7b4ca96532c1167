package topology

// SourceRoute computes, at the source terminal, the full sequence of
// output ports a packet must take to travel from router src to router
// dst around a ring of ringLen routers. The returned path always ends
// in PortTerminal, the hop that delivers the packet off the ring and
// into the destination terminal.
//
// Ties (src and dst exactly opposite each other on an even ring) are
// broken in favor of clockwise, matching the ring's only router of
// truth for this decision.
func SourceRoute(ringLen, src, dst int) []int {
	cwDist := ((dst - src) % ringLen + ringLen) % ringLen

	path := make([]int, 0, cwDist+1)

	if cwDist <= ringLen/2 {
		for i := 0; i < cwDist; i++ {
			path = append(path, PortCW)
		}
	} else {
		ccwDist := ringLen - cwDist
		for i := 0; i < ccwDist; i++ {
			path = append(path, PortCCW)
		}
	}

	path = append(path, PortTerminal)

	return path
}

// Route is a packet's precomputed path: Ports lists the output port to
// take at each hop (the last entry is always PortTerminal), and Cursor
// tracks how far along the path the packet has traveled. Every flit in
// a packet shares the same *Route, set once by the head flit.
type Route struct {
	Ports  []int
	Cursor int
}

// NewRoute wraps a precomputed port sequence.
func NewRoute(ports []int) *Route {
	return &Route{Ports: ports}
}

// NextPort returns the output port for the current hop.
func (r *Route) NextPort() int {
	return r.Ports[r.Cursor]
}

// Advance moves the cursor to the next hop.
func (r *Route) Advance() {
	r.Cursor++
}

// Done reports whether the route has been fully consumed.
func (r *Route) Done() bool {
	return r.Cursor >= len(r.Ports)
}
