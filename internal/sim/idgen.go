package sim

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator mints unique string identifiers. netsim uses it for
// flit IDs so trace lines and hooks can key on something more durable
// than a struct pointer.
type IDGenerator interface {
	Generate() string
}

// SequentialIDGenerator hands out "1", "2", "3", ... in order. This is
// the default: deterministic IDs keep a captured trace reproducible
// across runs.
type SequentialIDGenerator struct {
	nextID uint64
}

// NewSequentialIDGenerator creates a SequentialIDGenerator starting
// at 1.
func NewSequentialIDGenerator() *SequentialIDGenerator {
	return &SequentialIDGenerator{}
}

// Generate returns the next sequential ID.
func (g *SequentialIDGenerator) Generate() string {
	n := atomic.AddUint64(&g.nextID, 1)
	return strconv.FormatUint(n, 10)
}

// XIDGenerator mints globally unique IDs via github.com/rs/xid. Useful
// when flit IDs from independent simulation runs need to be merged or
// compared without risk of collision.
type XIDGenerator struct{}

// NewXIDGenerator creates an XIDGenerator.
func NewXIDGenerator() *XIDGenerator {
	return &XIDGenerator{}
}

// Generate returns a fresh xid string.
func (g *XIDGenerator) Generate() string {
	return xid.New().String()
}
