package geom

import "testing"

func TestRoundOutFloorCeil(t *testing.T) {
	r := Rect{MinX: 1.2, MinY: 2.8, MaxX: 9.1, MaxY: 9.9}
	got := r.RoundOut()
	want := IntRect{MinX: 1, MinY: 2, MaxX: 10, MaxY: 10}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestIntersectIdempotent(t *testing.T) {
	base := IntRect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	r := IntRect{MinX: 2, MinY: 2, MaxX: 8, MaxY: 8}

	once := base.Intersect(r)
	twice := once.Intersect(r)
	if once != twice {
		t.Fatalf("intersecting the same rect twice should be idempotent: %+v vs %+v", once, twice)
	}
}

func TestClampRestrictsToBounds(t *testing.T) {
	bounds := IntRect{MinX: 0, MinY: 0, MaxX: 32, MaxY: 32}
	r := IntRect{MinX: -5, MinY: -5, MaxX: 40, MaxY: 40}
	got := r.Clamp(bounds)
	if got != bounds {
		t.Fatalf("expected clamp to shrink to bounds, got %+v", got)
	}
}

func TestIsDegenerate(t *testing.T) {
	if (IntRect{MinX: 5, MinY: 5, MaxX: 5, MaxY: 5}).IsDegenerate() == false {
		t.Fatal("zero-area rect should be degenerate")
	}
	if (IntRect{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}).IsDegenerate() {
		t.Fatal("unit rect should not be degenerate")
	}
}
