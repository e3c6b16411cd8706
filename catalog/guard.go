package catalog

import (
	"strconv"
	"sync"
)

// fillGuard orders cache fills after store reads against invalidations after
// store writes. A fill that read the store before an invalidation must not
// land in the cache after it.
type fillGuard struct {
	mu  sync.RWMutex
	gen uint64
}

// begin returns the generation a fill starts from. Call it before reading
// the store.
func (g *fillGuard) begin() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.gen
}

// fill runs put only if no invalidation happened since begin returned gen.
func (g *fillGuard) fill(gen uint64, put func()) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.gen != gen {
		return false
	}
	put()
	return true
}

// invalidate bumps the generation and applies change while no fill can run.
func (g *fillGuard) invalidate(change func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	change()
}

// flightKey scopes a coalescing key to a generation, so callers arriving
// after an invalidation never join a load that read the store before it.
func flightKey(key string, gen uint64) string {
	return key + "#" + strconv.FormatUint(gen, 10)
}
