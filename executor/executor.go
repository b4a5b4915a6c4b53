package executor

import (
	"fmt"

	"github.com/lukovi4/animirender/geom"
	"github.com/lukovi4/animirender/gpupool"
	"github.com/lukovi4/animirender/ir"
	"github.com/lukovi4/animirender/pathres"
	"github.com/lukovi4/animirender/pcache"
	"github.com/lukovi4/animirender/rastercache"
)

// ImageSampler resolves a DrawImage command's image reference to pixel
// content, scaled to the requested device-space footprint. The host
// application implements this against its own decoded/GPU-resident image
// store; this package stays agnostic to image decoding and the concrete GPU
// API, per the engine's non-goals.
type ImageSampler interface {
	SampleImage(ref ir.ImageRef, width, height int) (*Canvas, bool)
}

// defaultMaskAAMargin is used when a Renderer has not set MaskAAMargin
// (or set it to zero), matching the spec's bounding-box antialiasing margin.
const defaultMaskAAMargin = 2.0

// Executor renders one compiled, validated IR command stream against a
// Canvas, for a single requested frame. Grounded on the teacher's
// render.SoftwareRenderer per-command dispatch loop, generalized with the
// scope-segmentation algorithm (BeginMask chains/BeginMatte boundaries
// recurse into renderMaskGroupScope/renderMatteScope) this engine's IR
// requires.
//
// TexturePool, VertexPool, IndexBuffers and MaskTextures back the mask-group
// engine's resource accounting (bbox-sized accumulator/content textures,
// per-op vertex uploads, per-path index buffers, and cached resolved mask
// textures). They are optional: a nil pool degrades that bookkeeping away
// without changing the CPU-side coverage math, mirroring how the teacher's
// own GPUTexture layer (internal/gpu/gpu_texture.go) tracks a texture's
// logical identity independently of whether a backing GPU allocation is
// live yet.
type Executor struct {
	Paths   *pathres.PathRegistry
	Samples *pcache.Cache
	Rasters *rastercache.Cache
	Images  ImageSampler

	TexturePool  *gpupool.TexturePool
	VertexPool   *gpupool.VertexUploadPool
	IndexBuffers *gpupool.PathIndexBufferCache
	MaskTextures *gpupool.MaskTextureCache

	// MaskAAMargin is the device-pixel margin a mask-group bounding box is
	// expanded by before rounding to integer bounds. Zero means
	// defaultMaskAAMargin.
	MaskAAMargin float64

	bufferSeq uint64
}

// New returns an Executor wired against the given shared caches. samples
// and rasters are typically shared across every frame of a renderer's
// lifetime so their LRUs accumulate useful history; paths is rebuilt
// whenever the source IR recompiles. The GPU resource pools and mask AA
// margin are assigned directly on the returned Executor by the caller (see
// Renderer.New), since they are optional and Renderer owns their lifetime.
func New(paths *pathres.PathRegistry, samples *pcache.Cache, rasters *rastercache.Cache, images ImageSampler) *Executor {
	return &Executor{Paths: paths, Samples: samples, Rasters: rasters, Images: images}
}

// Run executes cmds (already passed through validate.Validate with no
// errors) at the given frame, compositing the result into canvas. canvas is
// not cleared first: callers control whether a frame starts from a cleared
// buffer or accumulates onto existing content. frame is the host's current
// timeline position; Run does not read it. Each call starts a new frame in
// the vertex pool, and every DrawShape/DrawStroke/BeginMask command carries
// its own Frame for path sampling, so a time-remapped subtree samples
// correctly regardless of the host's current frame.
func (e *Executor) Run(cmds []ir.Command, frame float64, canvas *Canvas) error {
	if e.VertexPool != nil {
		e.VertexPool.BeginFrame()
	}
	_, err := e.run(cmds, 0, NewExecutionState(), canvas, 0, false)
	return err
}

// run processes cmds starting at index start, until either the command
// stream ends or (when hasStop) a command of type stop is consumed. It
// returns the index immediately after the last command it processed.
func (e *Executor) run(cmds []ir.Command, start int, state ExecutionState, canvas *Canvas, stop ir.CommandType, hasStop bool) (int, error) {
	i := start

	for i < len(cmds) {
		cmd := cmds[i]
		if hasStop && cmd.Type() == stop {
			return i + 1, nil
		}

		switch c := cmd.(type) {
		case ir.PushTransformCommand:
			state = state.PushTransform(c.Matrix)
			i++

		case ir.PopTransformCommand:
			state = state.PopTransform()
			i++

		case ir.PushClipRectCommand:
			state = state.PushClipRect(c.Rect)
			i++

		case ir.PopClipRectCommand:
			state = state.PopClipRect()
			i++

		case ir.BeginGroupCommand:
			sub := NewCanvas(canvas.Width, canvas.Height)
			next, err := e.run(cmds, i+1, state, sub, ir.CmdEndGroup, true)
			if err != nil {
				return i, err
			}
			canvas.CompositeOver(sub, c.Opacity, nil)
			i = next

		case ir.BeginMaskCommand:
			next, err := e.renderMaskGroupScope(cmds, i, state, canvas)
			if err != nil {
				return i, err
			}
			i = next

		case ir.BeginMatteCommand:
			result, next, err := e.renderMatteScope(cmds, i, state, canvas.Width, canvas.Height)
			if err != nil {
				return i, err
			}
			canvas.CompositeOver(result, 1, nil)
			i = next

		case ir.DrawImageCommand:
			e.drawImage(canvas, state, c)
			i++

		case ir.DrawShapeCommand:
			e.drawShape(canvas, state, c)
			i++

		case ir.DrawStrokeCommand:
			e.drawStroke(canvas, state, c)
			i++

		default:
			i++
		}
	}

	return i, nil
}

// findMaskInnerEnd scans cmds from start (the first command after a
// BeginMask chain) for the EndMask that closes the chain's shared inner
// region: a nested BeginMask/EndMask pair inside the inner region is
// tracked by depth but does not end the scan. It returns the index of that
// EndMask and true, or (0, false) if the stream runs out first.
func findMaskInnerEnd(cmds []ir.Command, start int) (int, bool) {
	depth := 0
	for k := start; k < len(cmds); k++ {
		switch cmds[k].Type() {
		case ir.CmdBeginMask:
			depth++
		case ir.CmdEndMask:
			if depth == 0 {
				return k, true
			}
			depth--
		}
	}
	return 0, false
}

// renderMaskGroupScope implements the mask-group engine: it collects the
// LIFO run of sibling BeginMask commands starting at cmds[i], locates their
// shared inner region, computes a bounding box from every op's sampled
// path, accumulates each op's coverage into a ping-pong pair of
// bbox-sized buffers, renders the inner region once into a bbox-sized
// content buffer, and composites content*accumulator onto canvas. It
// returns the index of the first command after the whole chain.
func (e *Executor) renderMaskGroupScope(cmds []ir.Command, i int, state ExecutionState, canvas *Canvas) (int, error) {
	j := i
	var ops []ir.BeginMaskCommand
	for j < len(cmds) {
		bm, ok := cmds[j].(ir.BeginMaskCommand)
		if !ok {
			break
		}
		ops = append(ops, bm)
		j++
	}
	n := len(ops)
	innerStart := j

	innerEnd, ok := findMaskInnerEnd(cmds, innerStart)
	if !ok {
		// Malformed: the chain never balances anywhere in the remaining
		// stream. Render the rest unmasked rather than crash on ill-formed
		// scope structure.
		return e.run(cmds, innerStart, state, canvas, 0, false)
	}

	closeStart := innerEnd + 1
	malformed := false
	for k := 0; k < n-1; k++ {
		if closeStart+k >= len(cmds) || cmds[closeStart+k].Type() != ir.CmdEndMask {
			malformed = true
			break
		}
	}
	if malformed {
		// The chain's own EndMask count doesn't match its BeginMask count.
		// Render just the inner region (up to the one EndMask we found)
		// unmasked and resume immediately after it.
		return e.run(cmds, innerStart, state, canvas, ir.CmdEndMask, true)
	}
	next := closeStart + (n - 1)

	for a, b := 0, len(ops)-1; a < b; a, b = a+1, b-1 {
		ops[a], ops[b] = ops[b], ops[a]
	}

	transform := state.Transform()
	var pts []geom.Vec2
	for _, op := range ops {
		res, ok := e.Paths.Lookup(op.Path)
		if !ok {
			continue
		}
		opPts := transformPoints(positionsToVec2(e.Samples.Sample(res, op.Frame)), transform)
		pts = append(pts, opPts...)
	}

	unmasked := func() (int, error) {
		if _, err := e.run(cmds[:innerEnd], innerStart, state, canvas, 0, false); err != nil {
			return i, err
		}
		return next, nil
	}

	bboxF, ok := geom.RectFromPoints(pts)
	if !ok {
		return unmasked()
	}

	margin := e.MaskAAMargin
	if margin <= 0 {
		margin = defaultMaskAAMargin
	}
	bounds := geom.IntRect{MaxX: canvas.Width, MaxY: canvas.Height}
	bbox := bboxF.Expand(margin).RoundOut().Clamp(bounds)
	if clip, hasClip := deviceClipBounds(state, canvas); hasClip {
		bbox = bbox.Intersect(clip)
	}
	if bbox.IsDegenerate() {
		return unmasked()
	}

	w, h := bbox.Width(), bbox.Height()
	offset := geom.Translate(-float64(bbox.MinX), -float64(bbox.MinY))

	coverageTex, accumATex, accumBTex, contentTex := e.acquireMaskTextures(w, h)
	defer e.releaseMaskTextures(w, h, coverageTex, accumATex, accumBTex, contentTex)

	// Step 3: initial accumulator. Add starts from "nothing covered" (0);
	// Subtract/Intersect start from "everything covered" (1) so the first
	// op has something to remove from or intersect against.
	accumA := make([]uint8, w*h)
	if n > 0 && (ops[0].Mode == ir.MaskSubtract || ops[0].Mode == ir.MaskIntersect) {
		for k := range accumA {
			accumA[k] = 255
		}
	}
	accumB := make([]uint8, w*h)
	accumIn, accumOut := accumA, accumB

	maskTransform := offset.Compose(transform)
	coverage := rastercache.NewCoverageBuffer(w, h)

	for _, op := range ops {
		coverage.Clear()

		res, ok := e.Paths.Lookup(op.Path)
		if ok {
			localPts := transformPoints(positionsToVec2(e.Samples.Sample(res, op.Frame)), maskTransform)
			rastercache.Rasterize(coverage, localPts, rastercache.NonZero)
			e.recordMaskUpload(res, localPts)
		}

		data := coverage.Data()
		for p := range accumOut {
			c := float64(data[p]) / 255
			if op.Inverted {
				c = 1 - c
			}
			c *= op.Opacity
			accumOut[p] = combineAccum(float64(accumIn[p])/255, c, op.Mode)
		}
		// Ping-pong invariant: the buffer just written becomes the next
		// op's input, and the buffer just read becomes the next op's
		// output, so no op ever reads and writes the same texture.
		accumIn, accumOut = accumOut, accumIn
	}
	final := accumIn

	// Cache a handle for this chain's resolved accumulator, keyed on its
	// ops and bbox size, so a GPU backend revisiting an unchanging mask
	// subtree (a static background matte, the common case) can skip
	// reacquiring a texture for it on a later frame. The cache only tracks
	// the handle; this package still recomputes final's CPU-side bytes
	// every call; MaskTextureCache is for a GPU backend's resolved-texture
	// reuse, not the engine's own CPU coverage math.
	if e.MaskTextures != nil && e.TexturePool != nil && n > 0 {
		last := ops[len(ops)-1]
		key := gpupool.MaskTextureKey{
			SourceHash:       maskGroupSourceHash(ops),
			Mode:             uint8(last.Mode),
			Inverted:         last.Inverted,
			QuantizedOpacity: geom.QuantizeFloat(last.Opacity, 1e-3),
			QuantizedFrame:   geom.QuantizeFrame(last.Frame, 1.0),
			BBoxWidth:        w,
			BBoxHeight:       h,
		}
		e.MaskTextures.Get(key, func() gpupool.TextureID {
			return e.TexturePool.Acquire(w, h, gpupool.FormatR8)
		})
	}

	content := NewCanvas(w, h)
	contentState := state
	contentState.transforms = []geom.Matrix2D{maskTransform}
	contentState.clips = nil
	contentState.hasClip = false
	if _, err := e.run(cmds[:innerEnd], innerStart, contentState, content, 0, false); err != nil {
		return i, err
	}

	compositeMaskContent(canvas, content, final, bbox)
	return next, nil
}

// acquireMaskTextures checks out four bbox-sized textures from the texture
// pool (coverage, two ping-pong accumulators, and the inner region's
// content buffer), if a pool is configured. It returns zero IDs when
// TexturePool is nil; callers only use the IDs for pool bookkeeping, never
// to back the CPU-side buffers they accompany.
func (e *Executor) acquireMaskTextures(w, h int) (coverage, accumA, accumB, content gpupool.TextureID) {
	if e.TexturePool == nil {
		return 0, 0, 0, 0
	}
	coverage = e.TexturePool.Acquire(w, h, gpupool.FormatR8)
	accumA = e.TexturePool.Acquire(w, h, gpupool.FormatR8)
	accumB = e.TexturePool.Acquire(w, h, gpupool.FormatR8)
	content = e.TexturePool.Acquire(w, h, gpupool.FormatBGRA8)
	return
}

func (e *Executor) releaseMaskTextures(w, h int, coverage, accumA, accumB, content gpupool.TextureID) {
	if e.TexturePool == nil {
		return
	}
	e.TexturePool.Release(w, h, gpupool.FormatR8, coverage)
	e.TexturePool.Release(w, h, gpupool.FormatR8, accumA)
	e.TexturePool.Release(w, h, gpupool.FormatR8, accumB)
	e.TexturePool.Release(w, h, gpupool.FormatBGRA8, content)
}

// recordMaskUpload exercises the vertex upload pool and per-path index
// buffer cache for one mask op's triangulated positions, mirroring the
// bookkeeping a GPU backend would need to actually draw the op's coverage.
func (e *Executor) recordMaskUpload(res *pathres.PathResource, pts []geom.Vec2) {
	if e.VertexPool != nil {
		flat := make([]float32, 0, len(pts)*2)
		for _, p := range pts {
			flat = append(flat, float32(p.X), float32(p.Y))
		}
		e.VertexPool.UploadFloats(flat)
	}
	if e.IndexBuffers != nil && len(res.Indices) > 0 {
		e.IndexBuffers.Get(e.Paths.GenerationID(), uint32(res.ID), func() gpupool.BufferID {
			e.bufferSeq++
			return gpupool.BufferID(e.bufferSeq)
		})
	}
}

// maskGroupSourceHash fingerprints a mask chain's ops (path, mode, inverted,
// opacity, frame) via FNV-1a, for use as MaskTextureKey.SourceHash.
func maskGroupSourceHash(ops []ir.BeginMaskCommand) uint64 {
	var h uint64 = 14695981039346656037
	mix := func(v uint64) {
		h ^= v
		h *= 1099511628211
	}
	for _, op := range ops {
		mix(uint64(op.Path))
		mix(uint64(op.Mode))
		if op.Inverted {
			mix(1)
		}
		mix(uint64(geom.QuantizeFloat(op.Opacity, 1e-3)))
		mix(uint64(geom.QuantizeFrame(op.Frame, 1.0)))
	}
	return h
}

// combineAccum applies one op's coverage c onto the running accumulator
// value a (both 0..1), per the op's boolean mode, and quantizes the result
// back to an 8-bit accumulator value.
func combineAccum(a, c float64, mode ir.MaskMode) uint8 {
	var v float64
	switch mode {
	case ir.MaskSubtract:
		v = a - c
	case ir.MaskIntersect:
		v = a * c
	default: // MaskAdd
		v = a + c
	}
	return clampCoverage(v)
}

// compositeMaskContent draws content, modulated by its matching pixel in
// finalAccum, onto canvas at bbox's device position.
func compositeMaskContent(canvas *Canvas, content *Canvas, finalAccum []uint8, bbox geom.IntRect) {
	for y := 0; y < content.Height; y++ {
		dy := bbox.MinY + y
		if dy < 0 || dy >= canvas.Height {
			continue
		}
		for x := 0; x < content.Width; x++ {
			dx := bbox.MinX + x
			if dx < 0 || dx >= canvas.Width {
				continue
			}
			cov := float64(finalAccum[y*content.Width+x]) / 255
			sr, sg, sb, sa := content.At(x, y)
			sr, sg, sb, sa = sr*cov, sg*cov, sb*cov, sa*cov

			dr, dg, db, da := canvas.At(dx, dy)
			inv := 1 - sa
			canvas.Set(dx, dy, sr+dr*inv, sg+dg*inv, sb+db*inv, sa+da*inv)
		}
	}
}

// renderMatteScope splits the matte scope at cmds[i] into its source span
// (the SourceCommandCount commands immediately following BeginMatte) and
// consumer span (the remainder up to EndMatte), renders each into its own
// offscreen canvas, derives a coverage map from the source per Mode, and
// applies it to the consumer. It returns the masked consumer canvas and the
// index just past the matching EndMatte.
func (e *Executor) renderMatteScope(cmds []ir.Command, i int, state ExecutionState, w, h int) (*Canvas, int, error) {
	begin := cmds[i].(ir.BeginMatteCommand)
	sourceStart := i + 1
	sourceEnd := sourceStart + begin.SourceCommandCount
	if sourceEnd > len(cmds) {
		return nil, i, fmt.Errorf("executor: matte source span at command %d exceeds the command stream", i)
	}

	source := NewCanvas(w, h)
	if _, err := e.run(cmds[:sourceEnd], sourceStart, state, source, 0, false); err != nil {
		return nil, i, err
	}

	consumer := NewCanvas(w, h)
	next, err := e.run(cmds, sourceEnd, state, consumer, ir.CmdEndMatte, true)
	if err != nil {
		return nil, i, err
	}

	var coverage []uint8
	switch begin.Mode {
	case ir.MatteAlpha:
		coverage = source.AlphaCoverage()
	case ir.MatteAlphaInverted:
		coverage = invertCoverage(source.AlphaCoverage())
	case ir.MatteLuma:
		coverage = source.LumaCoverage()
	case ir.MatteLumaInverted:
		coverage = invertCoverage(source.LumaCoverage())
	}
	consumer.MultiplyCoverage(coverage)
	return consumer, next, nil
}

func invertCoverage(cov []uint8) []uint8 {
	out := make([]uint8, len(cov))
	for i, v := range cov {
		out[i] = 255 - v
	}
	return out
}

func clampCoverage(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
