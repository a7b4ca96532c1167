package simulation

import (
	"fmt"
	"sort"
	"strings"
)

// Report is the end-of-run summary the distilled spec's §6 calls for:
// per-source flit_gen_count, per-destination flit_arrive_count, and
// the global double_tick_count.
type Report struct {
	SourceFlitGenCount  map[int]int
	DestFlitArriveCount map[int]int
	DoubleTickCount     int64
}

// String renders the report as one line per counter, sorted by node
// value so output is reproducible across runs.
func (r Report) String() string {
	var b strings.Builder

	for _, i := range sortedKeys(r.SourceFlitGenCount) {
		fmt.Fprintf(&b, "S%d flit_gen_count=%d\n", i, r.SourceFlitGenCount[i])
	}

	for _, i := range sortedKeys(r.DestFlitArriveCount) {
		fmt.Fprintf(&b, "D%d flit_arrive_count=%d\n", i, r.DestFlitArriveCount[i])
	}

	fmt.Fprintf(&b, "double_tick_count=%d\n", r.DoubleTickCount)

	return b.String()
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Ints(keys)

	return keys
}
