// Package ir defines the render command intermediate representation: the
// flat, ordered stream of tagged commands a compiled animation block
// produces for one frame, consumed by the validate and executor packages.
// Grounded on the teacher's recording package (recording/command.go): a
// CommandType enum plus a Command interface implemented by typed per-op
// structs, and PathRef/BrushRef/ImageRef-style opaque resource handles,
// generalized from recording's save/restore immediate-mode commands to this
// engine's scope-stack commands (BeginGroup/EndGroup,
// PushTransform/PopTransform, PushClipRect/PopClipRect,
// BeginMask/EndMask, BeginMatte/EndMatte).
package ir

import (
	"github.com/lukovi4/animirender/geom"
	"github.com/lukovi4/animirender/pathres"
)

// CommandType identifies the kind of one IR command.
type CommandType uint8

const (
	CmdBeginGroup CommandType = iota
	CmdEndGroup
	CmdPushTransform
	CmdPopTransform
	CmdPushClipRect
	CmdPopClipRect
	CmdDrawImage
	CmdDrawShape
	CmdDrawStroke
	CmdBeginMask
	CmdEndMask
	CmdBeginMatte
	CmdEndMatte
)

var commandTypeNames = [...]string{
	CmdBeginGroup:    "BeginGroup",
	CmdEndGroup:      "EndGroup",
	CmdPushTransform: "PushTransform",
	CmdPopTransform:  "PopTransform",
	CmdPushClipRect:  "PushClipRect",
	CmdPopClipRect:   "PopClipRect",
	CmdDrawImage:     "DrawImage",
	CmdDrawShape:     "DrawShape",
	CmdDrawStroke:    "DrawStroke",
	CmdBeginMask:     "BeginMask",
	CmdEndMask:       "EndMask",
	CmdBeginMatte:    "BeginMatte",
	CmdEndMatte:      "EndMatte",
}

// String returns the command type's name, or "Unknown" for an out-of-range
// value.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is implemented by every typed IR command struct.
type Command interface {
	Type() CommandType
}

// ImageRef is an opaque image handle, resolved by the executor's
// ImageSampler.
type ImageRef uint32

// InvalidImageRef is the sentinel for "no image bound".
const InvalidImageRef = ^uint32(0)

// IsValid reports whether the reference names a real image.
func (r ImageRef) IsValid() bool { return uint32(r) != InvalidImageRef }

// FillRule mirrors rastercache.FillRule at the IR boundary so this package
// does not need to import the rasterizer.
type FillRule uint8

const (
	FillRuleNonZero FillRule = iota
	FillRuleEvenOdd
)

// MaskMode selects the boolean coverage operation a BeginMask op combines
// its path's coverage into the running accumulator with.
type MaskMode uint8

const (
	MaskAdd MaskMode = iota
	MaskSubtract
	MaskIntersect
)

// MatteMode selects how a matte scope's source/consumer pair composite.
type MatteMode uint8

const (
	MatteAlpha MatteMode = iota
	MatteAlphaInverted
	MatteLuma
	MatteLumaInverted
)

// BeginGroupCommand opens a nested compositing scope (its content renders
// to an offscreen buffer composited as a unit, e.g. for group opacity).
type BeginGroupCommand struct {
	Opacity float64
}

func (BeginGroupCommand) Type() CommandType { return CmdBeginGroup }

// EndGroupCommand closes the most recently opened BeginGroup scope.
type EndGroupCommand struct{}

func (EndGroupCommand) Type() CommandType { return CmdEndGroup }

// PushTransformCommand concatenates m onto the current transform stack.
type PushTransformCommand struct {
	Matrix geom.Matrix2D
}

func (PushTransformCommand) Type() CommandType { return CmdPushTransform }

// PopTransformCommand restores the transform stack to its state before the
// matching PushTransform.
type PopTransformCommand struct{}

func (PopTransformCommand) Type() CommandType { return CmdPopTransform }

// PushClipRectCommand intersects the current clip with rect, in the
// transform stack's current local space.
type PushClipRectCommand struct {
	Rect geom.Rect
}

func (PushClipRectCommand) Type() CommandType { return CmdPushClipRect }

// PopClipRectCommand restores the clip stack to its state before the
// matching PushClipRect.
type PopClipRectCommand struct{}

func (PopClipRectCommand) Type() CommandType { return CmdPopClipRect }

// DrawImageCommand draws image into dst (destination rect, in local
// space), sampling the whole image.
type DrawImageCommand struct {
	Image   ImageRef
	DstRect geom.Rect
	Opacity float64
}

func (DrawImageCommand) Type() CommandType { return CmdDrawImage }

// Brush identifies the fill/stroke paint. A zero value (Kind ==
// BrushSolid, Color zero) paints fully transparent black; callers always
// set a concrete color or pattern reference.
type BrushKind uint8

const (
	BrushSolid BrushKind = iota
	BrushLinearGradient
	BrushRadialGradient
	BrushImagePattern
)

// GradientStop is one color stop of a linear or radial gradient.
type GradientStop struct {
	Offset float64 // 0..1 along the gradient axis
	R, G, B, A float64
}

type Brush struct {
	Kind BrushKind

	// BrushSolid
	R, G, B, A float64

	// BrushLinearGradient / BrushRadialGradient
	GradientStart geom.Vec2
	GradientEnd   geom.Vec2 // for radial, End defines the outer radius point
	Stops         []GradientStop

	// BrushImagePattern
	PatternImage ImageRef
	PatternTransform geom.Matrix2D
}

// DrawShapeCommand fills path with brush using rule. Frame is the path's own
// sample time: the compiler stamps each draw with the frame it was emitted
// for, so a time-remapped layer's shapes sample their source path at a
// different frame than the host timeline's current frame.
type DrawShapeCommand struct {
	Path  pathres.PathID
	Brush Brush
	Rule  FillRule
	Frame float64
}

func (DrawShapeCommand) Type() CommandType { return CmdDrawShape }

// StrokeStyle carries the stroke parameters for a DrawStroke command.
type StrokeStyle struct {
	Width      float64
	Cap        uint8 // strokeexpand.LineCap value
	Join       uint8 // strokeexpand.LineJoin value
	MiterLimit float64
	DashPattern []float64
	DashOffset  float64
}

// DrawStrokeCommand strokes path with brush and style. Frame carries the
// same per-draw sample time as DrawShapeCommand.Frame.
type DrawStrokeCommand struct {
	Path  pathres.PathID
	Brush Brush
	Style StrokeStyle
	Frame float64
}

func (DrawStrokeCommand) Type() CommandType { return CmdDrawStroke }

// BeginMaskCommand is one link of a mask-group chain. A compiled mask group
// is a LIFO run of consecutive BeginMaskCommands sharing a single inner
// region: BeginMask(Mn) BeginMask(Mn-1) ... BeginMask(M0) [inner region]
// EndMask EndMask ... EndMask. Each BeginMaskCommand samples its own Path at
// its own Frame and contributes directly to a shared coverage accumulator
// (combined across the chain, application order M0..Mn, via Mode); the inner
// region nested inside the whole chain is the content the combined coverage
// is finally applied to, not the commands between any one BeginMask/EndMask
// pair.
type BeginMaskCommand struct {
	Mode     MaskMode
	Inverted bool
	Path     pathres.PathID
	Opacity  float64
	Frame    float64
}

func (BeginMaskCommand) Type() CommandType { return CmdBeginMask }

// EndMaskCommand closes one link of the BeginMask chain. The executor
// collects the whole LIFO run before acting on any of it; see
// BeginMaskCommand.
type EndMaskCommand struct{}

func (EndMaskCommand) Type() CommandType { return CmdEndMask }

// BeginMatteCommand opens a matte scope. The IR between BeginMatte and a
// designated split point is the matte source; the remainder up to EndMatte
// is the matte consumer. The executor locates the split via the
// accompanying SourceCommandCount, set at compile time.
type BeginMatteCommand struct {
	Mode              MatteMode
	SourceCommandCount int
}

func (BeginMatteCommand) Type() CommandType { return CmdBeginMatte }

// EndMatteCommand closes the most recently opened BeginMatte scope.
type EndMatteCommand struct{}

func (EndMatteCommand) Type() CommandType { return CmdEndMatte }
