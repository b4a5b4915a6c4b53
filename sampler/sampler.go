// Package sampler evaluates a pathres.PathResource at an arbitrary frame,
// producing the flattened vertex positions for that instant by interpolating
// between the two bracketing keyframes through the segment's cubic-Bezier
// easing curve (or holding at the first keyframe's values when the segment
// is flagged Hold).
package sampler

import "github.com/lukovi4/animirender/pathres"

// Sample returns the flattened [2*VertexCount]float64 vertex positions of
// res at the given frame. Sampling is a pure function of (res, frame): the
// same inputs always produce the same output, with no hidden state.
//
// For a non-animated resource (IsAnimated == false, or zero keyframes),
// Sample always returns keyframe 0's positions (or nil if there are none),
// regardless of frame.
func Sample(res *pathres.PathResource, frame float64) []float64 {
	if res == nil || len(res.Keyframes) == 0 {
		return nil
	}
	if !res.IsAnimated || len(res.Keyframes) == 1 {
		return res.Keyframes[0].Positions
	}

	kfs := res.Keyframes
	if frame <= kfs[0].Frame {
		return kfs[0].Positions
	}
	if frame >= kfs[len(kfs)-1].Frame {
		return kfs[len(kfs)-1].Positions
	}

	segment := 0
	for i := 0; i < len(kfs)-1; i++ {
		if frame >= kfs[i].Frame && frame <= kfs[i+1].Frame {
			segment = i
			break
		}
	}

	start := kfs[segment]
	end := kfs[segment+1]
	span := end.Frame - start.Frame
	if span <= 0 {
		return start.Positions
	}
	linearT := (frame - start.Frame) / span

	progress := linearT
	if segment < len(res.Easing) {
		ease := res.Easing[segment]
		if ease.Hold {
			progress = 0
		} else {
			progress = evalCubicBezierEasing(ease.OutX, ease.OutY, ease.InX, ease.InY, linearT)
		}
	}

	out := make([]float64, len(start.Positions))
	for i := range out {
		out[i] = start.Positions[i] + (end.Positions[i]-start.Positions[i])*progress
	}
	return out
}

// evalCubicBezierEasing evaluates the standard two-control-point easing
// curve (endpoints pinned at (0,0) and (1,1), control points (x1,y1) and
// (x2,y2)) at parametric time t, returning the eased y for the given linear
// x=t. Solved by bisection on the curve's own parameter u, which is exact
// enough for animation purposes and avoids the numerical fragility of
// Newton's method near flat tangents.
func evalCubicBezierEasing(x1, y1, x2, y2, t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}

	lo, hi := 0.0, 1.0
	var u float64
	for i := 0; i < 32; i++ {
		u = (lo + hi) / 2
		x := cubicBezier1D(x1, x2, u)
		if x < t {
			lo = u
		} else {
			hi = u
		}
	}
	return cubicBezier1D(y1, y2, u)
}

// cubicBezier1D evaluates a single-axis cubic Bezier with endpoints 0 and 1
// and control points c1, c2, at parameter u.
func cubicBezier1D(c1, c2, u float64) float64 {
	mu := 1 - u
	return 3*mu*mu*u*c1 + 3*mu*u*u*c2 + u*u*u
}
