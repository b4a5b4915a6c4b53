package gpupool

import "github.com/lukovi4/animirender/lrucache"

// DefaultIndexBufferCapacity bounds how many distinct paths' triangulation
// index buffers stay GPU-resident at once.
const DefaultIndexBufferCapacity = 256

type indexKey struct {
	generation int
	pathID     uint32
}

// PathIndexBufferCache maps (registry generation, path ID) to the GPU
// buffer holding that path's precomputed earcut index list, so the index
// buffer is uploaded once per path per generation rather than once per
// draw call.
type PathIndexBufferCache struct {
	entries *lrucache.Cache[indexKey, BufferID]
}

// NewPathIndexBufferCache returns a cache retaining up to capacity index
// buffers.
func NewPathIndexBufferCache(capacity int) *PathIndexBufferCache {
	return &PathIndexBufferCache{entries: lrucache.New[indexKey, BufferID](capacity)}
}

// Get returns the cached index buffer for (generation, pathID), creating it
// via upload on a miss.
func (c *PathIndexBufferCache) Get(generation int, pathID uint32, upload func() BufferID) BufferID {
	key := indexKey{generation: generation, pathID: pathID}
	return c.entries.GetOrCreate(key, upload)
}

// Clear empties the cache, dropping buffers keyed against stale
// generations. Renderer does not call it; entries of an older generation
// otherwise stay until evicted.
func (c *PathIndexBufferCache) Clear() {
	c.entries.Clear()
}

// Stats returns the cache's hit/miss/eviction counters.
func (c *PathIndexBufferCache) Stats() lrucache.Stats {
	return c.entries.Stats()
}
