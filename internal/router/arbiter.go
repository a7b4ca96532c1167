package router

// roundRobin scans candidates (indexed by input port) starting just
// after last, wrapping once, and returns the first eligible index. It
// returns -1 if no candidate is eligible. It does not update last:
// callers own their own rotor state, since VA and SA keep independent
// last-grant history per output port.
func roundRobin(candidates []bool, last int) int {
	radix := len(candidates)
	if radix == 0 {
		return -1
	}

	for i := 1; i <= radix; i++ {
		idx := (last + i) % radix
		if candidates[idx] {
			return idx
		}
	}

	return -1
}
