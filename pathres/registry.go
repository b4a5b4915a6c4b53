package pathres

import (
	"github.com/lukovi4/animirender/geom"
	"github.com/lukovi4/animirender/triangulate"
)

// PathID is an opaque handle into a PathRegistry. The zero value is never
// issued by Register and can be used by callers as an "unset" sentinel.
type PathID uint32

// Keyframe holds one animated sample of a path: the frame index it was
// authored at and the flattened vertex positions (path-local space) at that
// frame, as a flat [2*VertexCount]float64 array (x0,y0,x1,y1,...). Vertex
// count is constant across every keyframe of a PathResource.
type Keyframe struct {
	Frame     float64
	Positions []float64
}

// SegmentEasing holds the cubic-Bezier easing control points driving the
// interpolation from this keyframe to the next one. Hold, when true,
// overrides the eased progress to 0 for the whole segment (the path stays
// pinned to the starting keyframe until the next one is reached).
type SegmentEasing struct {
	OutX, OutY float64
	InX, InY   float64
	Hold       bool
}

// PathResource is the immutable, per-generation description of a single
// path's topology and animation. VertexCount and the triangulation are
// computed once at Register time and are valid for every keyframe, because
// topology (vertex count, winding) never changes across keyframes of one
// path.
type PathResource struct {
	ID          PathID
	VertexCount int
	Closed      bool
	Keyframes   []Keyframe
	// Easing holds one entry per segment between consecutive keyframes, so
	// len(Easing) == len(Keyframes)-1. Ignored (and may be nil) when
	// IsAnimated is false.
	Easing []SegmentEasing
	// Indices is the precomputed earcut triangulation of the path's first
	// keyframe, reused verbatim by every later keyframe sharing the same
	// topology.
	Indices []uint16
	// IsAnimated is true when the path carries more than one keyframe. A
	// static (single-keyframe) path always samples keyframe 0 regardless of
	// the requested frame.
	IsAnimated bool
}

// PathRegistry owns the set of path identities produced by one compile of
// the source IR. GenerationID increments every time Reset clears the
// registry's contents, invalidating any cache entry keyed on an older
// generation.
type PathRegistry struct {
	paths        map[PathID]*PathResource
	generationID int
	nextID       PathID
}

// NewPathRegistry returns an empty registry at generation 0.
func NewPathRegistry() *PathRegistry {
	return &PathRegistry{
		paths: make(map[PathID]*PathResource),
	}
}

// GenerationID returns the registry's current generation counter.
func (r *PathRegistry) GenerationID() int {
	return r.generationID
}

// Lookup returns the resource for id, or (nil, false) if it is not present
// in the current generation.
func (r *PathRegistry) Lookup(id PathID) (*PathResource, bool) {
	res, ok := r.paths[id]
	return res, ok
}

// Len returns the number of paths in the current generation.
func (r *PathRegistry) Len() int {
	return len(r.paths)
}

// PathSpec is the input to Register: a path's closed flag plus its ordered
// keyframes and inter-keyframe easing, as decoded from source IR. Every
// keyframe must carry the same vertex count; Register rejects specs that
// violate this (the caller is expected to have already validated the source
// data's topology-consistency before building path resources from it).
type PathSpec struct {
	Closed    bool
	Keyframes []Keyframe
	Easing    []SegmentEasing
}

// TopologyError is returned by Register when a spec's keyframes
// disagree on vertex count.
type TopologyError struct {
	Keyframe      int
	ExpectedCount int
	ActualCount   int
}

func (e *TopologyError) Error() string {
	return "pathres: keyframe vertex count mismatch"
}

// Register adds a new path to the registry (within the current generation)
// and returns its assigned ID. The path's triangulation is computed from
// its first keyframe's positions.
func (r *PathRegistry) Register(spec PathSpec) (PathID, error) {
	if len(spec.Keyframes) == 0 {
		r.nextID++
		id := r.nextID
		r.paths[id] = &PathResource{
			ID:         id,
			Closed:     spec.Closed,
			IsAnimated: false,
		}
		return id, nil
	}

	vertexCount := len(spec.Keyframes[0].Positions) / 2
	for i, kf := range spec.Keyframes {
		if len(kf.Positions) != vertexCount*2 {
			return 0, &TopologyError{
				Keyframe:      i,
				ExpectedCount: vertexCount,
				ActualCount:   len(kf.Positions) / 2,
			}
		}
	}

	pts := positionsToVec2(spec.Keyframes[0].Positions)
	var indices []uint16
	if spec.Closed && len(pts) >= 3 {
		indices = triangulate.Indices(pts)
	}

	r.nextID++
	id := r.nextID
	r.paths[id] = &PathResource{
		ID:          id,
		VertexCount: vertexCount,
		Closed:      spec.Closed,
		Keyframes:   spec.Keyframes,
		Easing:      spec.Easing,
		Indices:     indices,
		IsAnimated:  len(spec.Keyframes) > 1,
	}
	return id, nil
}

// Reset clears the registry and advances the generation counter, as the
// caller does each time the source IR is recompiled. Existing PathIDs are
// invalidated: Lookup will report them not found.
func (r *PathRegistry) Reset() {
	r.paths = make(map[PathID]*PathResource)
	r.generationID++
	r.nextID = 0
}

func positionsToVec2(positions []float64) []geom.Vec2 {
	out := make([]geom.Vec2, len(positions)/2)
	for i := range out {
		out[i] = geom.Vec2{X: positions[2*i], Y: positions[2*i+1]}
	}
	return out
}
