package rastercache

import "github.com/lukovi4/animirender/geom"
import "testing"

func TestRasterizeFillsAxisAlignedSquare(t *testing.T) {
	dst := NewCoverageBuffer(8, 8)
	square := []geom.Vec2{{X: 2, Y: 2}, {X: 6, Y: 2}, {X: 6, Y: 6}, {X: 2, Y: 6}}
	Rasterize(dst, square, NonZero)

	if dst.At(4, 4) < 250 {
		t.Fatalf("expected near-full coverage inside the square, got %d", dst.At(4, 4))
	}
	if dst.At(0, 0) != 0 {
		t.Fatalf("expected zero coverage outside the square, got %d", dst.At(0, 0))
	}
}

func TestRasterizeEmptyPolygonNoOp(t *testing.T) {
	dst := NewCoverageBuffer(4, 4)
	Rasterize(dst, nil, NonZero)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if dst.At(x, y) != 0 {
				t.Fatalf("expected untouched buffer for empty polygon")
			}
		}
	}
}

func TestCoverageBufferSetOutOfBoundsIgnored(t *testing.T) {
	dst := NewCoverageBuffer(2, 2)
	dst.Set(-1, -1, 200)
	dst.Set(10, 10, 200)
	if dst.At(-1, -1) != 0 || dst.At(10, 10) != 0 {
		t.Fatal("expected out-of-bounds reads/writes to be no-ops")
	}
}

func TestClearZeroesBuffer(t *testing.T) {
	dst := NewCoverageBuffer(2, 2)
	dst.Set(0, 0, 255)
	dst.Clear()
	if dst.At(0, 0) != 0 {
		t.Fatal("expected Clear to zero all pixels")
	}
}
