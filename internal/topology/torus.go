package topology

// NewTorus builds the connectivity graph of a k-ary r-cube: k routers
// per dimension, r dimensions, each router wrapping around within its
// own dimension. It mirrors the original prototype's topology_torus,
// which the prototype's own driver builds and immediately discards
// without ever routing a packet across it. Accordingly this module
// only exercises the connectivity graph (useful for wiring/double-bind
// tests); no source-route computation is implemented for torus
// topologies, matching the distilled spec's Non-goal on adaptive or
// multi-dimensional routing.
//
// Router ports are numbered 2*d (the "+" direction of dimension d) and
// 2*d+1 (the "-" direction), for d in [0, r). There is no terminal
// port in this minimal form: nothing in this simulator generates
// traffic over a torus.
func NewTorus(k, r int) (*Topology, error) {
	t := New()
	n := intPow(k, r)

	for id := 0; id < n; id++ {
		coord := toMixedRadix(id, k, r)

		for d := 0; d < r; d++ {
			plus := append([]int(nil), coord...)
			plus[d] = (plus[d] + 1) % k
			plusID := fromMixedRadix(plus, k)

			out := Endpoint{Node: NodeID{Kind: Router, Value: id}, Port: 2 * d}
			in := Endpoint{Node: NodeID{Kind: Router, Value: plusID}, Port: 2*d + 1}

			if err := t.Connect(out, in); err != nil {
				return nil, err
			}

			backOut := Endpoint{Node: NodeID{Kind: Router, Value: plusID}, Port: 2*d + 1}
			backIn := Endpoint{Node: NodeID{Kind: Router, Value: id}, Port: 2 * d}

			if err := t.Connect(backOut, backIn); err != nil {
				return nil, err
			}
		}
	}

	return t, nil
}

func intPow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}

	return result
}

func toMixedRadix(id, k, r int) []int {
	coord := make([]int, r)
	for d := 0; d < r; d++ {
		coord[d] = id % k
		id /= k
	}

	return coord
}

func fromMixedRadix(coord []int, k int) int {
	id := 0
	for d := len(coord) - 1; d >= 0; d-- {
		id = id*k + coord[d]
	}

	return id
}
