package block

import (
	"fmt"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Default cache geometry.
const (
	DefaultCacheSets = 256
	DefaultCacheWays = 4
)

// Guest instructions are 2-byte aligned, so the directory indexes sets by
// pc/2.
const slotSize = 2

// Statistics holds translation cache counters.
type Statistics struct {
	Lookups       uint64
	Hits          uint64
	Misses        uint64
	Inserts       uint64
	Evictions     uint64
	Invalidations uint64
}

// HitRate returns Hits/Lookups, or 0 before the first lookup.
func (s Statistics) HitRate() float64 {
	if s.Lookups == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Lookups)
}

// Cache is a set-associative translation cache keyed by guest address.
// Tags and LRU replacement come from an Akita cache directory; the
// translations themselves live in a parallel slot array.
//
// A Cache is not safe for concurrent use.
type Cache struct {
	sets int
	ways int

	directory *akitacache.DirectoryImpl
	entries   []*Translation

	stats Statistics
}

// NewCache creates a cache with the given geometry.
func NewCache(sets, ways int) *Cache {
	if sets < 1 || ways < 1 {
		panic(fmt.Sprintf("block: cache geometry %dx%d", sets, ways))
	}

	return &Cache{
		sets: sets,
		ways: ways,
		directory: akitacache.NewDirectory(
			sets,
			ways,
			slotSize,
			akitacache.NewLRUVictimFinder(),
		),
		entries: make([]*Translation, sets*ways),
	}
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// Len returns the number of cached translations.
func (c *Cache) Len() int {
	n := 0
	for _, t := range c.entries {
		if t != nil {
			n++
		}
	}
	return n
}

func (c *Cache) slot(block *akitacache.Block) int {
	return block.SetID*c.ways + block.WayID
}

// Lookup returns the translation starting at pc.
func (c *Cache) Lookup(pc uint64) (*Translation, bool) {
	c.stats.Lookups++

	block := c.directory.Lookup(0, pc)
	if block == nil || !block.IsValid {
		c.stats.Misses++
		return nil, false
	}

	c.stats.Hits++
	c.directory.Visit(block)

	return c.entries[c.slot(block)], true
}

// Insert adds t, replacing any translation at the same address. It returns
// the translation evicted to make room, if any.
func (c *Cache) Insert(t *Translation) (evicted *Translation) {
	c.stats.Inserts++

	block := c.directory.Lookup(0, t.Addr)
	if block == nil {
		block = c.directory.FindVictim(t.Addr)
		if block.IsValid {
			c.stats.Evictions++
			evicted = c.entries[c.slot(block)]
		}
	}

	block.Tag = t.Addr
	block.IsValid = true
	block.IsDirty = false
	c.entries[c.slot(block)] = t
	c.directory.Visit(block)

	return evicted
}

// Invalidate drops every translation that covers a byte of
// [start, start+length) and returns how many were dropped.
func (c *Cache) Invalidate(start, length uint64) int {
	n := 0

	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if !block.IsValid {
				continue
			}

			i := c.slot(block)
			if !c.entries[i].Contains(start, length) {
				continue
			}

			block.IsValid = false
			c.entries[i] = nil
			n++
		}
	}

	c.stats.Invalidations += uint64(n)

	return n
}

// Flush drops every translation. Statistics are kept.
func (c *Cache) Flush() {
	c.directory.Reset()
	for i := range c.entries {
		c.entries[i] = nil
	}
}
