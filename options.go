package animirender

import (
	"image/color"

	"github.com/lukovi4/animirender/executor"
	"github.com/lukovi4/animirender/gpupool"
)

// Option configures a Renderer during construction. Functional options,
// matching how the teacher's ContextOption configures a Context.
type Option func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	clearColor                           color.RGBA
	enableWarningsForUnsupportedCommands bool
	enableDiagnostics                    bool
	enablePerfMetrics                    bool
	maxFramesInFlight                    int
	maskAAMargin                         float64

	pathCacheCapacity   int
	rasterCacheCapacity int

	gpuAllocator gpupool.Allocator
	imageSampler executor.ImageSampler
}

// defaultOptions returns the default renderer options.
func defaultOptions() rendererOptions {
	return rendererOptions{
		maxFramesInFlight:   2,
		maskAAMargin:        2,
		pathCacheCapacity:   0, // 0 means "use the package default"
		rasterCacheCapacity: 0,
	}
}

// WithClearColor sets the color a frame's target is cleared to before
// executing its command stream.
func WithClearColor(c color.RGBA) Option {
	return func(o *rendererOptions) {
		o.clearColor = c
	}
}

// WithWarningsForUnsupportedCommands stores a flag for warning on IR
// commands the executor recognizes syntactically but cannot render. The
// flag is recorded in the renderer's options only; no code reads it and
// nothing is logged.
func WithWarningsForUnsupportedCommands(enabled bool) Option {
	return func(o *rendererOptions) {
		o.enableWarningsForUnsupportedCommands = enabled
	}
}

// WithDiagnostics stores a flag for debug tracing of scope segmentation
// and cache hit/miss decisions. The flag is recorded in the renderer's
// options only; no code reads it and nothing is traced.
func WithDiagnostics(enabled bool) Option {
	return func(o *rendererOptions) {
		o.enableDiagnostics = enabled
	}
}

// WithPerfMetrics stores a flag for per-frame performance metrics. The flag
// is recorded in the renderer's options only; no code reads it, and the
// Renderer has no metrics accessor. Cache statistics are available through
// the caches' own Stats methods.
func WithPerfMetrics(enabled bool) Option {
	return func(o *rendererOptions) {
		o.enablePerfMetrics = enabled
	}
}

// WithMaxFramesInFlight bounds how many frames' GPU work may be queued
// ahead of the CPU, for a pipelined GPU backend. Ignored by the CPU
// reference path.
func WithMaxFramesInFlight(n int) Option {
	return func(o *rendererOptions) {
		if n > 0 {
			o.maxFramesInFlight = n
		}
	}
}

// WithMaskAAMargin sets the margin (in device pixels) a mask scope's
// bounding box is expanded by before rasterization, so antialiased mask
// edges are not clipped by a too-tight bounding box. A margin of 0 is
// treated by the executor as unset and replaced by its default of 2.
func WithMaskAAMargin(margin float64) Option {
	return func(o *rendererOptions) {
		if margin >= 0 {
			o.maskAAMargin = margin
		}
	}
}

// WithPathCacheCapacity overrides the path sampling cache's cross-frame
// LRU capacity (see pcache.DefaultCapacity).
func WithPathCacheCapacity(capacity int) Option {
	return func(o *rendererOptions) {
		o.pathCacheCapacity = capacity
	}
}

// WithRasterCacheCapacity overrides the shape/stroke raster cache's
// per-kind LRU capacity (see rastercache.DefaultCapacity).
func WithRasterCacheCapacity(capacity int) Option {
	return func(o *rendererOptions) {
		o.rasterCacheCapacity = capacity
	}
}

// WithGPUAllocator binds a host GPU API implementation for the renderer's
// texture pool and vertex upload pool. The texture pool backs the
// mask-group textures (coverage, the two ping-pong accumulators and the
// content texture); group and matte scopes and the output target do not
// use it. Without one, the renderer still validates and executes IR
// through the CPU canvas path; Renderer.TexturePool returns nil.
func WithGPUAllocator(alloc gpupool.Allocator) Option {
	return func(o *rendererOptions) {
		o.gpuAllocator = alloc
	}
}

// WithImageSampler supplies the host application's image data source for
// DrawImage. Without one, DrawImage draws nothing. Image-pattern brush
// fills do not use the sampler and draw fully transparent either way
// (image decoding and the concrete GPU API are non-goals of this engine).
func WithImageSampler(sampler executor.ImageSampler) Option {
	return func(o *rendererOptions) {
		o.imageSampler = sampler
	}
}
