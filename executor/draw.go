package executor

import (
	"github.com/lukovi4/animirender/geom"
	"github.com/lukovi4/animirender/ir"
	"github.com/lukovi4/animirender/rastercache"
	"github.com/lukovi4/animirender/strokeexpand"
)

// drawShape rasterizes a filled path and composites it, consulting the
// raster cache so an unchanged (path, transform, brush) triple is only
// rasterized once across frames.
func (e *Executor) drawShape(canvas *Canvas, state ExecutionState, c ir.DrawShapeCommand) {
	res, ok := e.Paths.Lookup(c.Path)
	if !ok {
		return
	}
	positions := e.Samples.Sample(res, c.Frame)
	pts := positionsToVec2(positions)
	if len(pts) < 3 {
		return
	}

	transform := state.Transform()
	devicePts := transformPoints(pts, transform)

	key := rastercache.FillKey{
		Generation: e.Paths.GenerationID(),
		PathID:     uint32(c.Path),
		Frame:      geom.QuantizeFrame(c.Frame, 1.0),
		Transform:  transform.Quantize(1e-4),
		Rule:       rastercache.FillRule(c.Rule),
		BrushHash:  brushHash(c.Brush),
	}
	cov := e.Rasters.Fill(key, func() *rastercache.CoverageBuffer {
		buf := rastercache.NewCoverageBuffer(canvas.Width, canvas.Height)
		rastercache.Rasterize(buf, devicePts, rastercache.FillRule(c.Rule))
		return buf
	})

	blendCoverageOnto(canvas, cov, c.Brush, state, 1.0)
}

// drawStroke expands a path's sampled polyline into a fill outline via
// strokeexpand, then rasterizes and composites it the same way drawShape
// does for fills.
func (e *Executor) drawStroke(canvas *Canvas, state ExecutionState, c ir.DrawStrokeCommand) {
	res, ok := e.Paths.Lookup(c.Path)
	if !ok {
		return
	}
	positions := e.Samples.Sample(res, c.Frame)
	pts := positionsToVec2(positions)
	if len(pts) < 2 {
		return
	}

	transform := state.Transform()
	style := strokeexpand.Style{
		Width:      c.Style.Width,
		Cap:        strokeexpand.LineCap(c.Style.Cap),
		Join:       strokeexpand.LineJoin(c.Style.Join),
		MiterLimit: c.Style.MiterLimit,
	}
	widthScale := transform.XBasisLength()
	deviceOutline := strokeexpand.Expand(transformPoints(pts, transform), res.Closed, style, widthScale)
	if len(deviceOutline) < 3 {
		return
	}

	key := rastercache.StrokeKey{
		Generation:  e.Paths.GenerationID(),
		PathID:      uint32(c.Path),
		Frame:       geom.QuantizeFrame(c.Frame, 1.0),
		Transform:   transform.Quantize(1e-4),
		Width:       geom.QuantizeFloat(c.Style.Width*widthScale, 1e-3),
		CapJoinDash: strokeFingerprint(c.Style),
		BrushHash:   brushHash(c.Brush),
	}
	cov := e.Rasters.Stroke(key, func() *rastercache.CoverageBuffer {
		buf := rastercache.NewCoverageBuffer(canvas.Width, canvas.Height)
		rastercache.Rasterize(buf, deviceOutline, rastercache.NonZero)
		return buf
	})

	blendCoverageOnto(canvas, cov, c.Brush, state, 1.0)
}

// drawImage composites a sampled image into canvas's destination rect,
// respecting the current clip and opacity. Images are supplied by the
// host application's ImageSampler; a nil sampler or unresolved reference
// draws nothing.
func (e *Executor) drawImage(canvas *Canvas, state ExecutionState, c ir.DrawImageCommand) {
	if e.Images == nil || !c.Image.IsValid() {
		return
	}
	transform := state.Transform()
	corners := c.DstRect.Corners()
	devicePts := transformPoints(corners[:], transform)
	bbox, ok := geom.RectFromPoints(devicePts)
	if !ok {
		return
	}
	dst := bbox.RoundOut().Clamp(geom.IntRect{MaxX: canvas.Width, MaxY: canvas.Height})
	if dst.IsDegenerate() {
		return
	}
	if clip, hasClip := deviceClipBounds(state, canvas); hasClip {
		dst = dst.Intersect(clip)
		if dst.IsDegenerate() {
			return
		}
	}

	img, ok := e.Images.SampleImage(c.Image, dst.Width(), dst.Height())
	if !ok || img == nil {
		return
	}

	for y := 0; y < img.Height; y++ {
		dy := dst.MinY + y
		if dy < 0 || dy >= canvas.Height {
			continue
		}
		for x := 0; x < img.Width; x++ {
			dx := dst.MinX + x
			if dx < 0 || dx >= canvas.Width {
				continue
			}
			sr, sg, sb, sa := img.At(x, y)
			sr, sg, sb, sa = sr*c.Opacity, sg*c.Opacity, sb*c.Opacity, sa*c.Opacity
			dr, dg, db, da := canvas.At(dx, dy)
			inv := 1 - sa
			canvas.Set(dx, dy, sr+dr*inv, sg+dg*inv, sb+db*inv, sa+da*inv)
		}
	}
}

func transformPoints(pts []geom.Vec2, m geom.Matrix2D) []geom.Vec2 {
	out := make([]geom.Vec2, len(pts))
	for i, p := range pts {
		out[i] = m.Apply(p)
	}
	return out
}

func positionsToVec2(positions []float64) []geom.Vec2 {
	out := make([]geom.Vec2, len(positions)/2)
	for i := range out {
		out[i] = geom.Vec2{X: positions[2*i], Y: positions[2*i+1]}
	}
	return out
}

// deviceClipBounds converts state's local-space clip rect (if any) into a
// canvas-clamped integer device rect.
func deviceClipBounds(state ExecutionState, canvas *Canvas) (geom.IntRect, bool) {
	rect, ok := state.Clip()
	if !ok {
		return geom.IntRect{}, false
	}
	corners := rect.Corners()
	devicePts := transformPoints(corners[:], state.Transform())
	bbox, ok := geom.RectFromPoints(devicePts)
	if !ok {
		return geom.IntRect{}, false
	}
	return bbox.RoundOut().Clamp(geom.IntRect{MaxX: canvas.Width, MaxY: canvas.Height}), true
}

// strokeFingerprint packs the stroke's cap/join/miter/dash parameters into
// a single key component, so two otherwise-identical strokes with
// different dash patterns never collide in the raster cache.
func strokeFingerprint(s ir.StrokeStyle) uint64 {
	h := uint64(s.Cap) | uint64(s.Join)<<8
	h ^= uint64(geom.QuantizeFloat(s.MiterLimit, 1e-3)) * 0x9E3779B97F4A7C15
	h ^= uint64(geom.QuantizeFloat(s.DashOffset, 1e-3)) * 0xC2B2AE3D27D4EB4F
	for _, d := range s.DashPattern {
		h = h*31 + uint64(geom.QuantizeFloat(d, 1e-3))
	}
	return h
}
