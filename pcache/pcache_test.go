package pcache

import (
	"testing"

	"github.com/lukovi4/animirender/pathres"
)

func testResource() *pathres.PathResource {
	return &pathres.PathResource{
		ID:          1,
		VertexCount: 1,
		Keyframes: []pathres.Keyframe{
			{Frame: 0, Positions: []float64{0, 0}},
			{Frame: 10, Positions: []float64{10, 10}},
		},
		Easing: []pathres.SegmentEasing{
			{OutX: 0, OutY: 0, InX: 1, InY: 1},
		},
		IsAnimated: true,
	}
}

func TestSampleIsConsistentWithinAFrame(t *testing.T) {
	c := New(DefaultCapacity, 1.0)
	c.BeginFrame()
	res := testResource()

	first := c.Sample(res, 5)
	second := c.Sample(res, 5)

	if len(first) != len(second) {
		t.Fatal("expected repeated sample within a frame to match")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected memoized sample to be identical: %v vs %v", first, second)
		}
	}
}

func TestBeginFrameClearsMemoButKeepsLRU(t *testing.T) {
	c := New(DefaultCapacity, 1.0)
	res := testResource()

	c.BeginFrame()
	c.Sample(res, 5)

	statsBefore := c.Stats()

	c.BeginFrame()
	c.Sample(res, 5)
	statsAfter := c.Stats()

	if statsAfter.Hits <= statsBefore.Hits {
		t.Fatal("expected second frame's sample to hit the cross-frame LRU")
	}
}

func TestSetGenerationChangesCacheKey(t *testing.T) {
	c := New(DefaultCapacity, 1.0)
	res := testResource()

	c.BeginFrame()
	c.Sample(res, 5)
	statsGen0 := c.Stats()

	c.SetGeneration(1)
	c.BeginFrame()
	c.Sample(res, 5)
	statsGen1 := c.Stats()

	if statsGen1.Misses <= statsGen0.Misses {
		t.Fatal("expected a generation bump to force a fresh miss")
	}
}
