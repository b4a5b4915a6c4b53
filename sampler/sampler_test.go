package sampler

import (
	"math"
	"testing"

	"github.com/lukovi4/animirender/pathres"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func animatedResource(hold bool) *pathres.PathResource {
	return &pathres.PathResource{
		VertexCount: 1,
		Keyframes: []pathres.Keyframe{
			{Frame: 0, Positions: []float64{0, 0}},
			{Frame: 10, Positions: []float64{10, 20}},
		},
		Easing: []pathres.SegmentEasing{
			{OutX: 0.0, OutY: 0.0, InX: 1.0, InY: 1.0, Hold: hold},
		},
		IsAnimated: true,
	}
}

func TestSampleIsDeterministic(t *testing.T) {
	res := animatedResource(false)
	a := Sample(res, 5)
	b := Sample(res, 5)
	if len(a) != len(b) {
		t.Fatal("length mismatch across repeated samples")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample at frame 5 not deterministic: %v vs %v", a, b)
		}
	}
}

func TestSampleStaticPathAlwaysReturnsKeyframeZero(t *testing.T) {
	res := &pathres.PathResource{
		VertexCount: 1,
		Keyframes: []pathres.Keyframe{
			{Frame: 0, Positions: []float64{3, 4}},
		},
		IsAnimated: false,
	}
	for _, frame := range []float64{-5, 0, 100} {
		got := Sample(res, frame)
		if got[0] != 3 || got[1] != 4 {
			t.Fatalf("expected static path to return keyframe 0 at frame %v, got %v", frame, got)
		}
	}
}

func TestSampleClampsBeforeFirstAndAfterLastKeyframe(t *testing.T) {
	res := animatedResource(false)
	before := Sample(res, -10)
	if before[0] != 0 || before[1] != 0 {
		t.Fatalf("expected clamp to first keyframe, got %v", before)
	}
	after := Sample(res, 100)
	if after[0] != 10 || after[1] != 20 {
		t.Fatalf("expected clamp to last keyframe, got %v", after)
	}
}

func TestSampleHoldPinsToStartingKeyframe(t *testing.T) {
	res := animatedResource(true)
	mid := Sample(res, 5)
	if !almostEqual(mid[0], 0) || !almostEqual(mid[1], 0) {
		t.Fatalf("expected hold segment to pin at start keyframe, got %v", mid)
	}
}

func TestSampleLinearEasingAtMidpoint(t *testing.T) {
	res := &pathres.PathResource{
		VertexCount: 1,
		Keyframes: []pathres.Keyframe{
			{Frame: 0, Positions: []float64{0, 0}},
			{Frame: 10, Positions: []float64{10, 20}},
		},
		Easing: []pathres.SegmentEasing{
			{OutX: 0.0, OutY: 0.0, InX: 1.0, InY: 1.0}, // linear cubic-bezier
		},
		IsAnimated: true,
	}
	mid := Sample(res, 5)
	if !almostEqual(mid[0], 5) || !almostEqual(mid[1], 10) {
		t.Fatalf("expected linear interpolation at midpoint, got %v", mid)
	}
}
