// Package animirender renders a compiled animation block's per-frame
// command stream: it validates the IR, segments it at mask-group and
// matte boundaries, and executes the remaining draws against a render
// target, caching path samples, rasterized coverage, and GPU resources
// across frames so a mostly-static composition re-renders cheaply.
//
// # Quick Start
//
//	import "github.com/lukovi4/animirender"
//
//	r := animirender.New(animirender.WithClearColor(color.RGBA{A: 255}))
//	tgt := target.NewPixmapTarget(800, 600)
//	if err := r.Render(cmds, frame, tgt); err != nil {
//		// handle error
//	}
//
// # Architecture
//
//   - ir: the tagged command stream produced by a compiled animation block
//   - validate: structural proof that a command stream's scopes balance
//     before it is ever executed
//   - pathres/sampler/pcache: path topology, keyframe evaluation, and the
//     two-level cache sitting in front of it
//   - rastercache/strokeexpand/triangulate: shape and stroke rasterization
//   - gpupool: GPU resource pooling (textures, vertex uploads, index
//     buffers, mask textures)
//   - executor: the scope-segmenting command executor itself
//   - target: the render output and texture-provider abstractions
//
// # Coordinate System
//
// Matches the source animation format: origin at top-left, Y increases
// down, angles in radians.
//
// # Non-goals
//
// This package does not parse the source animation format, decode image
// assets, manage text layout, or choose a concrete GPU API — it consumes
// already-compiled IR and a host-supplied TextureProvider/ImageSampler.
package animirender
