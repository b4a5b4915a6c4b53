package executor

import "github.com/lukovi4/animirender/geom"

// ExecutionState carries the transform and clip stacks threaded through one
// Run invocation. Passed by value at recursion boundaries (group/mask/matte
// scopes) so that a child scope's pushes never leak back into its parent
// once the scope closes — the validate package has already proven every
// push is matched by a pop within its own scope, so the child's stacks
// always return to exactly this snapshot.
type ExecutionState struct {
	transforms []geom.Matrix2D
	clips      []geom.Rect
	hasClip    bool
}

// NewExecutionState returns a state with the identity transform and no
// active clip.
func NewExecutionState() ExecutionState {
	return ExecutionState{transforms: []geom.Matrix2D{geom.Identity()}}
}

// Transform returns the current composed transform.
func (s ExecutionState) Transform() geom.Matrix2D {
	return s.transforms[len(s.transforms)-1]
}

// PushTransform returns a new state with m composed onto the current
// transform.
func (s ExecutionState) PushTransform(m geom.Matrix2D) ExecutionState {
	next := s.Transform().Compose(m)
	out := s
	out.transforms = append(append([]geom.Matrix2D{}, s.transforms...), next)
	return out
}

// PopTransform returns a new state with the most recent PushTransform
// undone.
func (s ExecutionState) PopTransform() ExecutionState {
	if len(s.transforms) <= 1 {
		return s
	}
	out := s
	out.transforms = s.transforms[:len(s.transforms)-1]
	return out
}

// Clip returns the current clip rect, in the transform's local space, and
// whether a clip is active at all (no clip means "unclipped").
func (s ExecutionState) Clip() (geom.Rect, bool) {
	if !s.hasClip {
		return geom.Rect{}, false
	}
	return s.clips[len(s.clips)-1], true
}

// PushClipRect returns a new state with rect intersected into the current
// clip.
func (s ExecutionState) PushClipRect(rect geom.Rect) ExecutionState {
	next := rect
	if s.hasClip {
		cur := s.clips[len(s.clips)-1]
		next = geom.Rect{
			MinX: maxF(cur.MinX, rect.MinX),
			MinY: maxF(cur.MinY, rect.MinY),
			MaxX: minF(cur.MaxX, rect.MaxX),
			MaxY: minF(cur.MaxY, rect.MaxY),
		}
	}
	out := s
	out.clips = append(append([]geom.Rect{}, s.clips...), next)
	out.hasClip = true
	return out
}

// PopClipRect returns a new state with the most recent PushClipRect undone.
func (s ExecutionState) PopClipRect() ExecutionState {
	if len(s.clips) == 0 {
		return s
	}
	out := s
	out.clips = s.clips[:len(s.clips)-1]
	out.hasClip = len(out.clips) > 0
	return out
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
