// Package executor walks a validated IR command stream and renders it: it
// segments the stream at BeginMask/BeginMatte boundaries, recurses into the
// mask-group and matte algorithms for those scopes, and renders linear
// (un-nested) regions directly. Grounded on the teacher's
// render.SoftwareRenderer (render/software.go) for the per-command render
// loop shape, and context_layer.go/context_mask.go for the
// offscreen-render-then-composite pattern mask groups and mattes both use.
//
// Mask-group and matte logic live in this same package (not split out) to
// avoid an import cycle: both recursively re-enter command execution for
// their inner scopes, and the executor needs their results to continue the
// outer scope, so executor/maskgroup/matte would each import the others.
package executor

// Canvas is a premultiplied-alpha RGBA float64 accumulation buffer: the
// executor's working surface for one scope (the root frame, a group, a
// mask scope's content, or a matte source/consumer). Float64 storage keeps
// blending numerically stable across many composite passes before a final
// quantization to 8-bit output.
type Canvas struct {
	Width, Height int
	// Pix is row-major, 4 float64 per pixel (R, G, B, A), premultiplied.
	Pix []float64
}

// NewCanvas allocates a fully transparent canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Canvas{Width: width, Height: height, Pix: make([]float64, width*height*4)}
}

// Clone returns a deep copy of the canvas.
func (c *Canvas) Clone() *Canvas {
	out := &Canvas{Width: c.Width, Height: c.Height, Pix: make([]float64, len(c.Pix))}
	copy(out.Pix, c.Pix)
	return out
}

// Clear resets every pixel to fully transparent.
func (c *Canvas) Clear() {
	for i := range c.Pix {
		c.Pix[i] = 0
	}
}

// At returns the premultiplied RGBA at (x, y), or all-zero outside bounds.
func (c *Canvas) At(x, y int) (r, g, b, a float64) {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return 0, 0, 0, 0
	}
	i := (y*c.Width + x) * 4
	return c.Pix[i], c.Pix[i+1], c.Pix[i+2], c.Pix[i+3]
}

// Set writes a premultiplied RGBA value at (x, y). Out-of-bounds writes are
// ignored.
func (c *Canvas) Set(x, y int, r, g, b, a float64) {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return
	}
	i := (y*c.Width + x) * 4
	c.Pix[i], c.Pix[i+1], c.Pix[i+2], c.Pix[i+3] = r, g, b, a
}

// CompositeOver blends src onto c using the standard premultiplied "over"
// operator (srcRGB coefficient 1, dstRGB coefficient 1-srcA), modulated by
// opacity and an optional per-pixel coverage mask (nil means full
// coverage). src, c, and coverage must share dimensions.
func (c *Canvas) CompositeOver(src *Canvas, opacity float64, coverage []uint8) {
	for i := 0; i < len(c.Pix); i += 4 {
		sr, sg, sb, sa := src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3]
		if coverage != nil {
			cov := float64(coverage[i/4]) / 255
			sr, sg, sb, sa = sr*cov, sg*cov, sb*cov, sa*cov
		}
		sr, sg, sb, sa = sr*opacity, sg*opacity, sb*opacity, sa*opacity

		dr, dg, db, da := c.Pix[i], c.Pix[i+1], c.Pix[i+2], c.Pix[i+3]
		inv := 1 - sa
		c.Pix[i] = sr + dr*inv
		c.Pix[i+1] = sg + dg*inv
		c.Pix[i+2] = sb + db*inv
		c.Pix[i+3] = sa + da*inv
	}
}

// MultiplyCoverage scales every pixel's RGBA by the matching coverage
// value (0..255, interpreted as 0..1), as a matte scope applies the
// coverage derived from its source to its rendered consumer.
func (c *Canvas) MultiplyCoverage(coverage []uint8) {
	for i := 0; i < len(c.Pix); i += 4 {
		cov := float64(coverage[i/4]) / 255
		c.Pix[i] *= cov
		c.Pix[i+1] *= cov
		c.Pix[i+2] *= cov
		c.Pix[i+3] *= cov
	}
}

// AlphaCoverage returns the canvas's alpha channel as an 8-bit coverage
// buffer, the representation mask-group and matte algebra operate on.
func (c *Canvas) AlphaCoverage() []uint8 {
	out := make([]uint8, c.Width*c.Height)
	for i := range out {
		a := c.Pix[i*4+3]
		if a > 1 {
			a = 1
		}
		if a < 0 {
			a = 0
		}
		out[i] = uint8(a*255 + 0.5)
	}
	return out
}

// LumaCoverage returns the canvas's luma as an 8-bit coverage buffer, for
// luma-mode mattes. Luma is computed from the straight (color divided by
// alpha) color and then weighted by alpha, which equals the luma of the
// stored premultiplied color; fully transparent pixels contribute zero
// coverage regardless of their stored color.
func (c *Canvas) LumaCoverage() []uint8 {
	out := make([]uint8, c.Width*c.Height)
	for i := range out {
		a := c.Pix[i*4+3]
		if a <= 0 {
			out[i] = 0
			continue
		}
		r, g, b := c.Pix[i*4]/a, c.Pix[i*4+1]/a, c.Pix[i*4+2]/a
		luma := 0.2126*r + 0.7152*g + 0.0722*b
		luma *= a
		if luma > 1 {
			luma = 1
		}
		if luma < 0 {
			luma = 0
		}
		out[i] = uint8(luma*255 + 0.5)
	}
	return out
}
