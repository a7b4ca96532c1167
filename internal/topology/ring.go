package topology

// Ring router port assignment. Port 0 faces the attached terminal;
// ports 1 and 2 face the two ring neighbors.
const (
	PortTerminal = 0
	PortCCW      = 1
	PortCW       = 2
)

// NewRing builds a Topology for an n-router ring, each router carrying
// one source and one destination terminal. Inter-router channels are
// wired clockwise-adjacent-pair first, then each router's terminal
// port is bound to its source and destination. Both directions of
// every physical link get their own Endpoint pair (flow control
// direction is a property of channel.Channel, not of this map).
func NewRing(n int) (*Topology, error) {
	t := New()

	for i := 0; i < n; i++ {
		l := NodeID{Kind: Router, Value: i}
		r := NodeID{Kind: Router, Value: (i + 1) % n}

		lOut := Endpoint{Node: l, Port: PortCW}
		rIn := Endpoint{Node: r, Port: PortCCW}

		if err := t.Connect(lOut, rIn); err != nil {
			return nil, err
		}
		if err := t.Connect(rIn, lOut); err != nil {
			return nil, err
		}
	}

	for i := 0; i < n; i++ {
		rtr := NodeID{Kind: Router, Value: i}
		src := NodeID{Kind: Source, Value: i}
		dst := NodeID{Kind: Destination, Value: i}

		srcOut := Endpoint{Node: src, Port: 0}
		rtrIn := Endpoint{Node: rtr, Port: PortTerminal}
		rtrOut := Endpoint{Node: rtr, Port: PortTerminal}
		dstIn := Endpoint{Node: dst, Port: 0}

		if err := t.Connect(srcOut, rtrIn); err != nil {
			return nil, err
		}
		if err := t.Connect(rtrOut, dstIn); err != nil {
			return nil, err
		}
	}

	return t, nil
}
