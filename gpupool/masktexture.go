package gpupool

import "github.com/lukovi4/animirender/lrucache"

// DefaultMaskTextureCapacity bounds how many rendered mask/matte coverage
// textures stay GPU-resident across frames.
const DefaultMaskTextureCapacity = 128

// MaskTextureKey identifies one cached mask accumulator result. SourceHash
// is a caller-supplied fingerprint of the mask's source; the executor sets
// it to a hash of every op in the mask chain (path, mode, inverted, opacity,
// frame) and fills Mode, Inverted, QuantizedOpacity and QuantizedFrame from
// the chain's last op in application order.
type MaskTextureKey struct {
	SourceHash       uint64
	Mode             uint8
	Inverted         bool
	QuantizedOpacity int64
	QuantizedFrame   int64
	BBoxWidth        int
	BBoxHeight       int
}

// MaskTextureCache caches texture handles for mask-group coverage, so that
// an unchanging mask (the common case for a static background matte) maps
// to the same texture across frames. It stores handles only: on a hit the
// render callback is skipped, but the executor still computes its CPU-side
// coverage every frame.
type MaskTextureCache struct {
	entries *lrucache.Cache[MaskTextureKey, TextureID]
}

// NewMaskTextureCache returns a cache retaining up to capacity mask
// textures.
func NewMaskTextureCache(capacity int) *MaskTextureCache {
	return &MaskTextureCache{entries: lrucache.New[MaskTextureKey, TextureID](capacity)}
}

// Get returns the cached texture for key, rendering it via render on a
// miss.
func (c *MaskTextureCache) Get(key MaskTextureKey, render func() TextureID) TextureID {
	return c.entries.GetOrCreate(key, render)
}

// Clear empties the cache.
func (c *MaskTextureCache) Clear() {
	c.entries.Clear()
}

// Stats returns the cache's hit/miss/eviction counters.
func (c *MaskTextureCache) Stats() lrucache.Stats {
	return c.entries.Stats()
}
