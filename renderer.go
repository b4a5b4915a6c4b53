package animirender

import (
	"image/color"

	"github.com/lukovi4/animirender/executor"
	"github.com/lukovi4/animirender/gpupool"
	"github.com/lukovi4/animirender/ir"
	"github.com/lukovi4/animirender/pathres"
	"github.com/lukovi4/animirender/pcache"
	"github.com/lukovi4/animirender/rastercache"
	"github.com/lukovi4/animirender/target"
	"github.com/lukovi4/animirender/validate"
)

// Renderer is the top-level entry point: it owns the path registry and
// every frame-spanning cache, validates each frame's IR before executing
// it, and writes the composited result into a caller-supplied target.
// Grounded on the teacher's Context (context.go), which similarly owns a
// pixmap plus the resources (paint state, renderer) needed to execute
// drawing calls against it.
type Renderer struct {
	opts rendererOptions

	paths   *pathres.PathRegistry
	samples *pcache.Cache
	rasters *rastercache.Cache
	exec    *executor.Executor

	textures *target.MapTextureProvider

	indexBuffers *gpupool.PathIndexBufferCache
	maskTextures *gpupool.MaskTextureCache
	texturePool  *gpupool.TexturePool
	vertexPool   *gpupool.VertexUploadPool
}

// New returns a Renderer with its own path registry and caches, ready to
// render frames once paths have been registered via PathRegistry.
func New(opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pathCap := o.pathCacheCapacity
	if pathCap <= 0 {
		pathCap = pcache.DefaultCapacity
	}
	rasterCap := o.rasterCacheCapacity
	if rasterCap <= 0 {
		rasterCap = rastercache.DefaultCapacity
	}

	paths := pathres.NewPathRegistry()
	samples := pcache.New(pathCap, 1.0)
	rasters := rastercache.New(rasterCap)
	textures := target.NewMapTextureProvider()

	r := &Renderer{
		opts:         o,
		paths:        paths,
		samples:      samples,
		rasters:      rasters,
		textures:     textures,
		indexBuffers: gpupool.NewPathIndexBufferCache(gpupool.DefaultIndexBufferCapacity),
		maskTextures: gpupool.NewMaskTextureCache(gpupool.DefaultMaskTextureCapacity),
	}
	r.exec = executor.New(paths, samples, rasters, o.imageSampler)
	r.exec.MaskAAMargin = o.maskAAMargin
	r.exec.IndexBuffers = r.indexBuffers
	r.exec.MaskTextures = r.maskTextures

	if o.gpuAllocator != nil {
		r.texturePool = gpupool.NewTexturePool(o.gpuAllocator, 0)
		r.vertexPool = gpupool.NewVertexUploadPool(0)
		r.exec.TexturePool = r.texturePool
		r.exec.VertexPool = r.vertexPool
	}

	return r
}

// PathRegistry returns the renderer's path registry, which the host
// application populates (and resets on recompile) before rendering.
func (r *Renderer) PathRegistry() *pathres.PathRegistry {
	return r.paths
}

// Textures returns the renderer's texture provider, where the host
// application registers decoded/GPU-resident images. Render does not read
// from it: DrawImage resolves images through the ImageSampler given to
// WithImageSampler, and image-pattern brushes draw fully transparent.
func (r *Renderer) Textures() *target.MapTextureProvider {
	return r.textures
}

// IndexBuffers returns the per-path GPU index-buffer cache, for a GPU
// backend's triangulated-fill path.
func (r *Renderer) IndexBuffers() *gpupool.PathIndexBufferCache {
	return r.indexBuffers
}

// MaskTextures returns the GPU mask-texture cache, for a GPU backend that
// renders mask-group/matte accumulators directly to texture rather than
// through the CPU canvas path.
func (r *Renderer) MaskTextures() *gpupool.MaskTextureCache {
	return r.maskTextures
}

// TexturePool returns the GPU texture pool, or nil if the renderer was
// constructed without WithGPUAllocator.
func (r *Renderer) TexturePool() *gpupool.TexturePool {
	return r.texturePool
}

// VertexPool returns the GPU vertex upload buffer, or nil if the
// renderer was constructed without WithGPUAllocator.
func (r *Renderer) VertexPool() *gpupool.VertexUploadPool {
	return r.vertexPool
}

// Render validates cmds, then executes it against a fresh canvas sized to
// tgt and composites the result over tgt's current contents after
// clearing it to the renderer's configured clear color.
func (r *Renderer) Render(cmds []ir.Command, frame float64, tgt *target.PixmapTarget) error {
	if errs := validate.Validate(cmds); len(errs) > 0 {
		first := errs[0]
		return &RenderError{
			Kind:         RenderErrorInvalidIR,
			Reason:       first.Error(),
			commandIndex: first.CommandIndex,
		}
	}

	r.samples.SetGeneration(r.paths.GenerationID())
	r.samples.BeginFrame()

	canvas := executor.NewCanvas(tgt.Width(), tgt.Height())
	if err := r.exec.Run(cmds, frame, canvas); err != nil {
		return &RenderError{Kind: RenderErrorMatteSpanOverflow, Reason: err.Error()}
	}

	compositeCanvasOntoTarget(canvas, tgt, r.opts.clearColor)
	return nil
}

// compositeCanvasOntoTarget clears tgt to clearColor, composites canvas
// (premultiplied) over it, and writes the straight-alpha result back into
// tgt's backing image.
func compositeCanvasOntoTarget(canvas *executor.Canvas, tgt *target.PixmapTarget, clearColor color.RGBA) {
	bgA := float64(clearColor.A) / 255
	bgR := float64(clearColor.R) / 255 * bgA
	bgG := float64(clearColor.G) / 255 * bgA
	bgB := float64(clearColor.B) / 255 * bgA

	img := tgt.Image()
	for y := 0; y < canvas.Height; y++ {
		for x := 0; x < canvas.Width; x++ {
			r, g, b, a := canvas.At(x, y)
			inv := 1 - a
			fr := r + bgR*inv
			fg := g + bgG*inv
			fb := b + bgB*inv
			fa := a + bgA*inv

			var sr, sg, sb uint8
			if fa > 0 {
				sr = toByte(fr / fa)
				sg = toByte(fg / fa)
				sb = toByte(fb / fa)
			}
			img.SetRGBA(x, y, color.RGBA{R: sr, G: sg, B: sb, A: toByte(fa)})
		}
	}
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
