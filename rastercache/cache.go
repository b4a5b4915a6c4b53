package rastercache

import (
	"github.com/lukovi4/animirender/geom"
	"github.com/lukovi4/animirender/lrucache"
)

// DefaultCapacity is the default entry count for a raster cache. Kept small
// relative to pcache's DefaultCapacity: rasterized coverage buffers are far
// larger than a path's flattened positions, so the cache trades a tighter
// bound on memory for a lower hit rate on wildly varying geometry.
const DefaultCapacity = 64

// FillKey identifies one cached fill rasterization: the path's identity and
// generation, the quantized transform it was flattened under, the fill
// rule, and a brush fingerprint (a hash of the brush's exact color and
// gradient fields and its pattern image) so that two draws of the same
// shape with different paint never collide.
type FillKey struct {
	Generation int
	PathID     uint32
	Frame      int64
	Transform  geom.QuantizedMatrix
	Rule       FillRule
	BrushHash  uint64
}

// StrokeKey identifies one cached stroke rasterization, additionally keyed
// on the quantized stroke width (in device space, after transform scaling)
// and cap/join/dash fingerprint.
type StrokeKey struct {
	Generation  int
	PathID      uint32
	Frame       int64
	Transform   geom.QuantizedMatrix
	Width       int64 // quantized device-space stroke width
	CapJoinDash uint64
	BrushHash   uint64
}

// Cache holds two independently bounded LRUs, one for fills and one for
// strokes, since their keys and typical churn rates differ.
type Cache struct {
	fills   *lrucache.Cache[FillKey, *CoverageBuffer]
	strokes *lrucache.Cache[StrokeKey, *CoverageBuffer]
}

// New returns a raster cache with the given per-kind capacity.
func New(capacity int) *Cache {
	return &Cache{
		fills:   lrucache.New[FillKey, *CoverageBuffer](capacity),
		strokes: lrucache.New[StrokeKey, *CoverageBuffer](capacity),
	}
}

// Fill returns the cached coverage buffer for key, computing it via
// rasterize if absent.
func (c *Cache) Fill(key FillKey, rasterize func() *CoverageBuffer) *CoverageBuffer {
	return c.fills.GetOrCreate(key, rasterize)
}

// Stroke returns the cached coverage buffer for key, computing it via
// rasterize if absent.
func (c *Cache) Stroke(key StrokeKey, rasterize func() *CoverageBuffer) *CoverageBuffer {
	return c.strokes.GetOrCreate(key, rasterize)
}

// Stats returns the fill and stroke sub-cache statistics, in that order.
func (c *Cache) Stats() (fills, strokes lrucache.Stats) {
	return c.fills.Stats(), c.strokes.Stats()
}

// Clear empties both sub-caches, freeing buffers keyed against stale
// geometry. Renderer does not call it; entries of an older generation
// otherwise stay until evicted.
func (c *Cache) Clear() {
	c.fills.Clear()
	c.strokes.Clear()
}
