package strokeexpand

import (
	"testing"

	"github.com/lukovi4/animirender/geom"
)

func TestExpandOpenButtLineProducesOutline(t *testing.T) {
	pts := []geom.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}}
	out := Expand(pts, false, Style{Width: 2, Cap: CapButt, Join: JoinMiter}, 1.0)
	if len(out) == 0 {
		t.Fatal("expected non-empty outline for a straight stroked line")
	}

	minY, maxY := out[0].Y, out[0].Y
	for _, p := range out {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	if maxY-minY < 1.9 || maxY-minY > 2.1 {
		t.Fatalf("expected outline thickness ~2, got %v", maxY-minY)
	}
}

func TestExpandZeroWidthReturnsNil(t *testing.T) {
	pts := []geom.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}}
	out := Expand(pts, false, Style{Width: 0}, 1.0)
	if out != nil {
		t.Fatalf("expected nil outline for zero width, got %v", out)
	}
}

func TestExpandTooFewPointsReturnsNil(t *testing.T) {
	out := Expand([]geom.Vec2{{X: 0, Y: 0}}, false, Style{Width: 2}, 1.0)
	if out != nil {
		t.Fatal("expected nil outline for a single point")
	}
}

func TestExpandScalesWithWidthScale(t *testing.T) {
	pts := []geom.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}}
	narrow := Expand(pts, false, Style{Width: 2, Cap: CapButt}, 1.0)
	wide := Expand(pts, false, Style{Width: 2, Cap: CapButt}, 2.0)

	thickness := func(pts []geom.Vec2) float64 {
		minY, maxY := pts[0].Y, pts[0].Y
		for _, p := range pts {
			if p.Y < minY {
				minY = p.Y
			}
			if p.Y > maxY {
				maxY = p.Y
			}
		}
		return maxY - minY
	}

	if thickness(wide) <= thickness(narrow) {
		t.Fatalf("expected larger widthScale to produce a thicker outline: narrow=%v wide=%v",
			thickness(narrow), thickness(wide))
	}
}

func TestExpandClosedLoopProducesOutline(t *testing.T) {
	square := []geom.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	out := Expand(square, true, Style{Width: 2, Join: JoinBevel}, 1.0)
	if len(out) == 0 {
		t.Fatal("expected non-empty outline for a closed stroked square")
	}
}
