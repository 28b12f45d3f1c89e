package expr

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// programCache is a simple bounded cache that maps where-expression source
// text (keyed by its xxhash) to its compiled Program. A single CLI run only
// compiles each clause once, but library callers filtering many short-lived
// streams with a recurring set of clauses would otherwise re-lex and
// re-parse the same expressions every time.
//
// Eviction strategy: when the cache reaches its capacity limit the entire
// map is replaced. This is simpler than a true LRU and sufficient for the
// target use-case (a small number of distinct clauses repeated many times).
//
// Thread safety: all methods are safe for concurrent use. Programs are
// immutable, so sharing them across goroutines is fine.
type programCache struct {
	mu    sync.RWMutex
	items map[uint64]*Program
	max   int
}

var globalProgramCache = &programCache{
	items: make(map[uint64]*Program, 64),
	max:   64,
}

func (c *programCache) get(key uint64) (*Program, bool) {
	c.mu.RLock()
	p, ok := c.items[key]
	c.mu.RUnlock()
	return p, ok
}

func (c *programCache) put(key uint64, p *Program) {
	c.mu.Lock()
	if len(c.items) >= c.max {
		// Evict everything and start fresh rather than tracking individual entry ages.
		c.items = make(map[uint64]*Program, c.max)
	}
	c.items[key] = p
	c.mu.Unlock()
}

// CachedCompile retrieves the compiled Program for source from the global
// cache, falling back to Compile on a cache miss. Compile errors are never
// cached; a malformed clause fails identically on every attempt.
func CachedCompile(source string) (*Program, error) {
	key := xxhash.Sum64String(source)
	if p, ok := globalProgramCache.get(key); ok && p.Source == source {
		return p, nil
	}
	p, err := Compile(source)
	if err != nil {
		return nil, err
	}
	globalProgramCache.put(key, p)
	return p, nil
}
