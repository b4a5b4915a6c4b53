// Package gpupool holds the renderer's GPU-resource pools: the
// ping-pong/output texture pool, the per-frame vertex upload buffer,
// the per-path index buffer cache, and the mask texture cache. Grounded on
// the teacher's internal/image.Pool (bucket-by-spec buffer reuse),
// gpucore.TextureID/BufferID opaque handle vocabulary, and
// internal/gpu.GPUTexture's format enum.
package gpupool

import "sync"

// TextureID is an opaque handle to a pooled GPU texture, issued by the host
// GPU API binding; this package never interprets its bits.
type TextureID uint64

// BufferID is an opaque handle to a pooled GPU buffer.
type BufferID uint64

// TextureFormat mirrors the subset of GPU texture formats this engine's
// accumulator/mask/output targets need.
type TextureFormat uint8

const (
	FormatRGBA8 TextureFormat = iota
	FormatBGRA8
	FormatR8
	FormatDepthStencil
)

// BytesPerPixel returns the storage cost of one texel in the given format.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA8, FormatBGRA8, FormatDepthStencil:
		return 4
	case FormatR8:
		return 1
	default:
		return 4
	}
}

// Allocator creates and destroys the backing GPU texture for a pool miss.
// The concrete host GPU API binding implements this; gpupool only manages
// reuse, never resource creation itself.
type Allocator interface {
	AllocTexture(width, height int, format TextureFormat) TextureID
	FreeTexture(id TextureID)
}

type textureKey struct {
	width, height int
	format        TextureFormat
}

// TexturePool buckets idle textures by (width, height, format) so that
// repeatedly acquiring an accumulator or offscreen-composite target of the
// same size reuses an existing GPU allocation instead of paying an
// alloc/free round trip every frame.
type TexturePool struct {
	mu         sync.Mutex
	alloc      Allocator
	idle       map[textureKey][]TextureID
	maxPerSize int
}

// NewTexturePool returns a pool backed by alloc, retaining at most
// maxPerSize idle textures per (width, height, format) bucket. A
// maxPerSize of 0 means unbounded retention.
func NewTexturePool(alloc Allocator, maxPerSize int) *TexturePool {
	return &TexturePool{
		alloc:      alloc,
		idle:       make(map[textureKey][]TextureID),
		maxPerSize: maxPerSize,
	}
}

// Acquire returns a texture of the given size/format, reusing an idle one
// if available.
func (p *TexturePool) Acquire(width, height int, format TextureFormat) TextureID {
	key := textureKey{width, height, format}

	p.mu.Lock()
	bucket := p.idle[key]
	if len(bucket) > 0 {
		id := bucket[len(bucket)-1]
		p.idle[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		return id
	}
	p.mu.Unlock()

	return p.alloc.AllocTexture(width, height, format)
}

// Release returns a texture to its bucket for reuse. If the bucket is at
// capacity, the texture is freed immediately instead of retained.
func (p *TexturePool) Release(width, height int, format TextureFormat, id TextureID) {
	key := textureKey{width, height, format}

	p.mu.Lock()
	bucket := p.idle[key]
	if p.maxPerSize > 0 && len(bucket) >= p.maxPerSize {
		p.mu.Unlock()
		p.alloc.FreeTexture(id)
		return
	}
	p.idle[key] = append(bucket, id)
	p.mu.Unlock()
}

// Clear frees every idle texture in the pool. Textures currently acquired
// are not tracked by the pool and are not freed.
func (p *TexturePool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, bucket := range p.idle {
		for _, id := range bucket {
			p.alloc.FreeTexture(id)
		}
		delete(p.idle, key)
	}
}

// Len returns the total number of idle (pooled, unused) textures.
func (p *TexturePool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, bucket := range p.idle {
		total += len(bucket)
	}
	return total
}
