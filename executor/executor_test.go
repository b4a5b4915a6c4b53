package executor

import (
	"testing"

	"github.com/lukovi4/animirender/geom"
	"github.com/lukovi4/animirender/ir"
	"github.com/lukovi4/animirender/pathres"
	"github.com/lukovi4/animirender/pcache"
	"github.com/lukovi4/animirender/rastercache"
)

func squarePathID(t *testing.T, reg *pathres.PathRegistry, minX, minY, size float64) (pathres.PathID, *pathres.PathResource) {
	t.Helper()
	id, err := reg.Register(pathres.PathSpec{
		Closed: true,
		Keyframes: []pathres.Keyframe{{
			Frame: 0,
			Positions: []float64{
				minX, minY,
				minX + size, minY,
				minX + size, minY + size,
				minX, minY + size,
			},
		}},
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	res, _ := reg.Lookup(id)
	return id, res
}

func newExecutor(reg *pathres.PathRegistry) *Executor {
	return New(reg, pcache.New(pcache.DefaultCapacity, 1.0), rastercache.New(rastercache.DefaultCapacity), nil)
}

func solidBrush(r, g, b, a float64) ir.Brush {
	return ir.Brush{Kind: ir.BrushSolid, R: r, G: g, B: b, A: a}
}

func TestExecutorDrawShapeFillsCoveredPixels(t *testing.T) {
	reg := pathres.NewPathRegistry()
	id, _ := squarePathID(t, reg, 2, 2, 4)
	exec := newExecutor(reg)

	canvas := NewCanvas(8, 8)
	cmds := []ir.Command{
		ir.DrawShapeCommand{Path: id, Brush: solidBrush(1, 0, 0, 1), Rule: ir.FillRuleNonZero},
	}
	if err := exec.Run(cmds, 0, canvas); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	r, _, _, a := canvas.At(4, 4)
	if a < 0.9 || r < 0.9 {
		t.Fatalf("expected interior pixel to be opaque red, got r=%v a=%v", r, a)
	}
	_, _, _, aOut := canvas.At(0, 0)
	if aOut != 0 {
		t.Fatalf("expected corner outside shape to stay transparent, got a=%v", aOut)
	}
}

func TestExecutorGroupOpacityScalesContent(t *testing.T) {
	reg := pathres.NewPathRegistry()
	id, _ := squarePathID(t, reg, 0, 0, 8)
	exec := newExecutor(reg)

	canvas := NewCanvas(8, 8)
	cmds := []ir.Command{
		ir.BeginGroupCommand{Opacity: 0.5},
		ir.DrawShapeCommand{Path: id, Brush: solidBrush(1, 1, 1, 1), Rule: ir.FillRuleNonZero},
		ir.EndGroupCommand{},
	}
	if err := exec.Run(cmds, 0, canvas); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	_, _, _, a := canvas.At(4, 4)
	if a < 0.45 || a > 0.55 {
		t.Fatalf("expected group opacity to halve coverage, got a=%v", a)
	}
}

func TestExecutorMaskIntersectRestrictsContent(t *testing.T) {
	reg := pathres.NewPathRegistry()
	bigID, _ := squarePathID(t, reg, 0, 0, 8)
	maskID, _ := squarePathID(t, reg, 4, 4, 4)
	exec := newExecutor(reg)

	canvas := NewCanvas(8, 8)
	cmds := []ir.Command{
		ir.BeginMaskCommand{Mode: ir.MaskIntersect, Path: maskID, Opacity: 1},
		ir.DrawShapeCommand{Path: bigID, Brush: solidBrush(1, 1, 1, 1), Rule: ir.FillRuleNonZero},
		ir.EndMaskCommand{},
	}
	if err := exec.Run(cmds, 0, canvas); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	_, _, _, inside := canvas.At(6, 6)
	if inside < 0.9 {
		t.Fatalf("expected pixel inside both the content and the mask path to stay opaque, got a=%v", inside)
	}
	_, _, _, outside := canvas.At(1, 1)
	if outside > 0.1 {
		t.Fatalf("expected pixel outside the mask path to be cleared by intersect, got a=%v", outside)
	}
}

func TestExecutorSiblingMaskChainCombinesInOrder(t *testing.T) {
	reg := pathres.NewPathRegistry()
	contentID, _ := squarePathID(t, reg, 0, 0, 8)
	addID, _ := squarePathID(t, reg, 0, 0, 4)
	subID, _ := squarePathID(t, reg, 0, 0, 2)
	exec := newExecutor(reg)

	canvas := NewCanvas(8, 8)
	// BeginMask(subtract, sub) BeginMask(add, add) [content] EndMask EndMask:
	// application order is add then subtract, against the one shared content.
	cmds := []ir.Command{
		ir.BeginMaskCommand{Mode: ir.MaskSubtract, Path: subID, Opacity: 1},
		ir.BeginMaskCommand{Mode: ir.MaskAdd, Path: addID, Opacity: 1},
		ir.DrawShapeCommand{Path: contentID, Brush: solidBrush(1, 1, 1, 1), Rule: ir.FillRuleNonZero},
		ir.EndMaskCommand{},
		ir.EndMaskCommand{},
	}
	if err := exec.Run(cmds, 0, canvas); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	_, _, _, inAddOnly := canvas.At(3, 3)
	if inAddOnly < 0.9 {
		t.Fatalf("expected pixel covered by add but not subtract to stay opaque, got a=%v", inAddOnly)
	}
	_, _, _, inBoth := canvas.At(1, 1)
	if inBoth > 0.1 {
		t.Fatalf("expected pixel covered by both add and subtract to be cleared, got a=%v", inBoth)
	}
	_, _, _, outsideAll := canvas.At(6, 6)
	if outsideAll > 0.1 {
		t.Fatalf("expected pixel outside every mask op to stay cleared, got a=%v", outsideAll)
	}
}

func TestExecutorDrawShapeSamplesItsOwnFrame(t *testing.T) {
	reg := pathres.NewPathRegistry()
	id, err := reg.Register(pathres.PathSpec{
		Closed: true,
		Keyframes: []pathres.Keyframe{
			{Frame: 0, Positions: []float64{0, 0, 4, 0, 4, 4, 0, 4}},
			{Frame: 10, Positions: []float64{4, 4, 8, 4, 8, 8, 4, 8}},
		},
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	exec := newExecutor(reg)

	canvas := NewCanvas(8, 8)
	cmds := []ir.Command{
		ir.DrawShapeCommand{Path: id, Brush: solidBrush(1, 1, 1, 1), Rule: ir.FillRuleNonZero, Frame: 10},
	}
	// Run's own frame argument must not override the command's Frame.
	if err := exec.Run(cmds, 0, canvas); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	_, _, _, atCommandFrame := canvas.At(6, 6)
	if atCommandFrame < 0.9 {
		t.Fatalf("expected the command's own Frame (10) to be sampled, got a=%v at (6,6)", atCommandFrame)
	}
	_, _, _, atRunFrame := canvas.At(1, 1)
	if atRunFrame > 0.1 {
		t.Fatalf("expected Run's frame argument (0) to be ignored in favor of the command's Frame, got a=%v at (1,1)", atRunFrame)
	}
}

func TestExecutorMatteAlphaClipsConsumerToSource(t *testing.T) {
	reg := pathres.NewPathRegistry()
	sourceID, _ := squarePathID(t, reg, 0, 0, 4)
	consumerID, _ := squarePathID(t, reg, 0, 0, 8)
	exec := newExecutor(reg)

	canvas := NewCanvas(8, 8)
	cmds := []ir.Command{
		ir.BeginMatteCommand{Mode: ir.MatteAlpha, SourceCommandCount: 1},
		ir.DrawShapeCommand{Path: sourceID, Brush: solidBrush(1, 1, 1, 1), Rule: ir.FillRuleNonZero},
		ir.DrawShapeCommand{Path: consumerID, Brush: solidBrush(0, 1, 0, 1), Rule: ir.FillRuleNonZero},
		ir.EndMatteCommand{},
	}
	if err := exec.Run(cmds, 0, canvas); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	_, _, _, inSource := canvas.At(1, 1)
	if inSource < 0.9 {
		t.Fatalf("expected pixel within the source's coverage to remain visible, got a=%v", inSource)
	}
	_, _, _, outSource := canvas.At(6, 6)
	if outSource > 0.1 {
		t.Fatalf("expected pixel outside the source's coverage to be clipped away, got a=%v", outSource)
	}
}

func TestExecutorClipRectRestrictsDrawing(t *testing.T) {
	reg := pathres.NewPathRegistry()
	id, _ := squarePathID(t, reg, 0, 0, 8)
	exec := newExecutor(reg)

	canvas := NewCanvas(8, 8)
	cmds := []ir.Command{
		ir.PushClipRectCommand{Rect: geom.Rect{MinX: 0, MinY: 0, MaxX: 4, MaxY: 4}},
		ir.DrawShapeCommand{Path: id, Brush: solidBrush(1, 1, 1, 1), Rule: ir.FillRuleNonZero},
		ir.PopClipRectCommand{},
	}
	if err := exec.Run(cmds, 0, canvas); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	_, _, _, inClip := canvas.At(1, 1)
	if inClip < 0.9 {
		t.Fatalf("expected pixel within the clip rect to be painted, got a=%v", inClip)
	}
	_, _, _, outClip := canvas.At(6, 6)
	if outClip != 0 {
		t.Fatalf("expected pixel outside the clip rect to stay untouched, got a=%v", outClip)
	}
}
