package triangulate

import (
	"testing"

	"github.com/lukovi4/animirender/geom"
)

func triangleArea(a, b, c geom.Vec2) float64 {
	area := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
	if area < 0 {
		area = -area
	}
	return area / 2
}

func polygonArea(pts []geom.Vec2) float64 {
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

func TestIndicesSquareAreaConserved(t *testing.T) {
	square := []geom.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}
	idx := Indices(square)
	if len(idx) != 6 {
		t.Fatalf("expected 2 triangles (6 indices), got %d", len(idx))
	}

	var total float64
	for i := 0; i+2 < len(idx); i += 3 {
		total += triangleArea(square[idx[i]], square[idx[i+1]], square[idx[i+2]])
	}
	want := polygonArea(square)
	if total < want-1e-9 || total > want+1e-9 {
		t.Fatalf("triangulated area %v != polygon area %v", total, want)
	}
}

func TestIndicesConcavePolygon(t *testing.T) {
	// An "L" shape - concave, a fan triangulation from vertex 0 would
	// produce triangles outside the polygon.
	poly := []geom.Vec2{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2},
		{X: 2, Y: 2}, {X: 2, Y: 4}, {X: 0, Y: 4},
	}
	idx := Indices(poly)
	if len(idx) != (len(poly)-2)*3 {
		t.Fatalf("expected %d indices, got %d", (len(poly)-2)*3, len(idx))
	}

	var total float64
	for i := 0; i+2 < len(idx); i += 3 {
		total += triangleArea(poly[idx[i]], poly[idx[i+1]], poly[idx[i+2]])
	}
	want := polygonArea(poly)
	if total < want-1e-9 || total > want+1e-9 {
		t.Fatalf("triangulated area %v != polygon area %v", total, want)
	}
}

func TestIndicesDegenerateInput(t *testing.T) {
	if got := Indices(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
	if got := Indices([]geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}); got != nil {
		t.Fatalf("expected nil for < 3 points, got %v", got)
	}
}

func TestIndicesClockwiseWinding(t *testing.T) {
	// Same square but wound clockwise; should still triangulate fully.
	square := []geom.Vec2{{X: 0, Y: 0}, {X: 0, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 0}}
	idx := Indices(square)
	if len(idx) != 6 {
		t.Fatalf("expected 2 triangles (6 indices), got %d", len(idx))
	}
}
