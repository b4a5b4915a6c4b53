// Package triangulate converts a flattened, possibly concave simple polygon
// into a list of triangle indices using ear clipping, for GPU mask coverage
// rendering. Grounded on the teacher's fan-triangulation convention in
// backend/gogpu/tessellate.go (flattened positions -> index/vertex lists for
// GPU upload), generalized from fan (convex-only) to ear-clipping so
// concave animated paths triangulate correctly.
package triangulate

import "github.com/lukovi4/animirender/geom"

// Indices returns a triangle index list (three indices per triangle) for the
// simple polygon described by pts. Indices reference positions in pts, so
// they remain valid for any keyframe of an animated path sharing the same
// topology (vertex count and winding never change across keyframes of a
// single PathResource). Returns nil for degenerate input (< 3 points).
//
// The polygon may be concave and does not need to be convex (unlike a fan
// triangulation of the first vertex). Self-intersecting input produces a
// best-effort triangulation rather than an error: malformed IR must never
// crash the engine.
func Indices(pts []geom.Vec2) []uint16 {
	n := len(pts)
	if n < 3 {
		return nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	// Ensure counter-clockwise winding (ear clipping assumes a consistent
	// orientation); animation-space has Y-axis down, so reverse if the
	// signed area comes out negative in that convention.
	if signedArea(pts, order) < 0 {
		reverse(order)
	}

	indices := make([]uint16, 0, (n-2)*3)

	// indices into `order`; this slice shrinks as ears are clipped.
	remaining := order
	guard := 0
	maxIterations := n * n // ear clipping is O(n^2) worst case; guards against infinite loops on malformed input

	for len(remaining) > 3 && guard < maxIterations {
		guard++
		clipped := false
		for i := 0; i < len(remaining); i++ {
			prev := remaining[(i-1+len(remaining))%len(remaining)]
			cur := remaining[i]
			next := remaining[(i+1)%len(remaining)]

			if !isConvex(pts[prev], pts[cur], pts[next]) {
				continue
			}
			if triangleContainsAny(pts, prev, cur, next, remaining) {
				continue
			}

			indices = append(indices,
				uint16(prev), uint16(cur), uint16(next))

			remaining = append(remaining[:i], remaining[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// Numerically degenerate (collinear runs, near-zero area ears);
			// fall back to fan triangulation of whatever remains rather
			// than looping forever or dropping coverage entirely.
			break
		}
	}

	for i := 1; i < len(remaining)-1; i++ {
		indices = append(indices,
			uint16(remaining[0]), uint16(remaining[i]), uint16(remaining[i+1]))
	}

	return indices
}

func signedArea(pts []geom.Vec2, order []int) float64 {
	var sum float64
	n := len(order)
	for i := 0; i < n; i++ {
		a := pts[order[i]]
		b := pts[order[(i+1)%n]]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

func reverse(order []int) {
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
}

// isConvex reports whether the vertex at b is a convex corner of the
// (counter-clockwise) polygon a-b-c.
func isConvex(a, b, c geom.Vec2) bool {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	return cross > 0
}

// pointInTriangle reports whether p lies inside triangle a-b-c (barycentric
// sign test).
func pointInTriangle(p, a, b, c geom.Vec2) bool {
	d1 := cross2(p, a, b)
	d2 := cross2(p, b, c)
	d3 := cross2(p, c, a)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func cross2(p, a, b geom.Vec2) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// triangleContainsAny reports whether any other remaining vertex lies
// inside the candidate ear triangle, which would make clipping it invalid.
func triangleContainsAny(pts []geom.Vec2, ia, ib, ic int, remaining []int) bool {
	a, b, c := pts[ia], pts[ib], pts[ic]
	for _, idx := range remaining {
		if idx == ia || idx == ib || idx == ic {
			continue
		}
		if pointInTriangle(pts[idx], a, b, c) {
			return true
		}
	}
	return false
}
