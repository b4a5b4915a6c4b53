// Package pcache is the two-level path sampling cache sitting in front of
// sampler.Sample: a per-frame memo (cleared every frame, unbounded for that
// frame's duration) backed by a bounded cross-frame LRU, so that repeatedly
// sampling the same (path, frame) pair within one frame is free, and
// samples reused across nearby frames do not force a full re-evaluation of
// the easing curve. Grounded on the teacher's internal/cache two-tier usage
// pattern (a fast per-draw-call path feeding a bounded cache), generalized
// to path sampling.
package pcache

import (
	"github.com/lukovi4/animirender/geom"
	"github.com/lukovi4/animirender/lrucache"
	"github.com/lukovi4/animirender/pathres"
	"github.com/lukovi4/animirender/sampler"
)

// DefaultCapacity is the default cross-frame LRU size, chosen to comfortably
// hold every distinct path sampled across a handful of recent frames for a
// typical composition.
const DefaultCapacity = 1024

// key identifies one cached sample. generation ties the entry to the
// PathRegistry generation it was computed against, so a registry rebuild
// implicitly invalidates every stale entry (they simply never match the
// new generation's key tuples) without an explicit sweep.
type key struct {
	generation int
	pathID     pathres.PathID
	frame      int64
}

// Cache is a two-level path sampling cache: Sample first checks this
// frame's memo, then the cross-frame LRU, computing via sampler.Sample only
// on a full miss.
type Cache struct {
	lru        *lrucache.Cache[key, []float64]
	memo       map[key][]float64
	frameStep  float64
	generation int
}

// New returns a path sampling cache with the given cross-frame LRU capacity
// and frame quantization step (frames within frameStep of each other share a
// cache entry; pass 1.0 to key on whole frames).
func New(capacity int, frameStep float64) *Cache {
	if frameStep <= 0 {
		frameStep = 1.0
	}
	return &Cache{
		lru:       lrucache.New[key, []float64](capacity),
		memo:      make(map[key][]float64),
		frameStep: frameStep,
	}
}

// BeginFrame clears the per-frame memo. Call once at the start of each
// rendered frame, before any Sample calls for that frame.
func (c *Cache) BeginFrame() {
	c.memo = make(map[key][]float64)
}

// SetGeneration updates the registry generation this cache keys against.
// Call whenever the owning PathRegistry is rebuilt; entries from the
// previous generation become unreachable (not explicitly evicted, since
// they will simply age out of the LRU).
func (c *Cache) SetGeneration(generation int) {
	c.generation = generation
}

// Sample returns the flattened positions for res at frame, consulting the
// memo and LRU before falling back to sampler.Sample.
func (c *Cache) Sample(res *pathres.PathResource, frame float64) []float64 {
	k := key{
		generation: c.generation,
		pathID:     res.ID,
		frame:      geom.QuantizeFloat(frame, c.frameStep),
	}

	if v, ok := c.memo[k]; ok {
		return v
	}
	if v, ok := c.lru.Get(k); ok {
		c.memo[k] = v
		return v
	}

	v := sampler.Sample(res, frame)
	c.memo[k] = v
	c.lru.Set(k, v)
	return v
}

// Stats exposes the underlying LRU's hit/miss/eviction counters.
func (c *Cache) Stats() lrucache.Stats {
	return c.lru.Stats()
}
