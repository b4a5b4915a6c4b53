// Package validate structurally checks an IR command stream before
// execution: every push has a matching pop, every scope (group, mask,
// matte) that is opened is closed, and no scope closes a stack frame it
// did not open. Grounded on the teacher's internal/clip.ClipStack
// push/pop/balance discipline, generalized to the transform, clip, group,
// mask, and matte stacks the executor maintains.
package validate

import (
	"fmt"

	"github.com/lukovi4/animirender/ir"
)

// ErrorKind classifies one structural violation.
type ErrorKind int

const (
	ErrUnmatchedPop ErrorKind = iota
	ErrUnclosedScope
	ErrCrossBoundaryTransform
	ErrCrossBoundaryClip
	ErrNestedMatteTooDeep
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnmatchedPop:
		return "unmatched pop"
	case ErrUnclosedScope:
		return "unclosed scope"
	case ErrCrossBoundaryTransform:
		return "transform push/pop crosses a scope boundary"
	case ErrCrossBoundaryClip:
		return "clip push/pop crosses a scope boundary"
	case ErrNestedMatteTooDeep:
		return "matte nesting exceeds the supported depth"
	default:
		return "unknown validation error"
	}
}

// Error reports one structural violation found at CommandIndex.
type Error struct {
	Kind         ErrorKind
	CommandIndex int
	Detail       string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("ir command %d: %s", e.CommandIndex, e.Kind)
	}
	return fmt.Sprintf("ir command %d: %s: %s", e.CommandIndex, e.Kind, e.Detail)
}

// MaxMatteDepth bounds how many matte scopes may nest; chosen to stop a
// malformed or pathological IR from recursing unboundedly in the executor.
const MaxMatteDepth = 16

type scopeKind int

const (
	scopeGroup scopeKind = iota
	scopeMask
	scopeMatte
)

// scopeFrame records, for one open group/mask/matte scope, how many
// transform and clip pushes were open when the scope began; a pop that
// would cross below that baseline means a push/pop pair straddled the
// scope boundary, which the executor cannot segment correctly.
type scopeFrame struct {
	kind           scopeKind
	openIndex      int
	transformBase  int
	clipBase       int
}

// Validate walks cmds in order and returns every structural violation
// found. A nil/empty result means cmds is well-formed and safe to execute.
func Validate(cmds []ir.Command) []*Error {
	var errs []*Error

	transformDepth := 0
	clipDepth := 0
	var scopes []scopeFrame
	matteDepth := 0

	for i, cmd := range cmds {
		switch c := cmd.(type) {
		case ir.PushTransformCommand:
			transformDepth++

		case ir.PopTransformCommand:
			if transformDepth == 0 {
				errs = append(errs, &Error{Kind: ErrUnmatchedPop, CommandIndex: i, Detail: "PopTransform with no matching PushTransform"})
				break
			}
			if len(scopes) > 0 && transformDepth <= scopes[len(scopes)-1].transformBase {
				errs = append(errs, &Error{Kind: ErrCrossBoundaryTransform, CommandIndex: i})
				break
			}
			transformDepth--

		case ir.PushClipRectCommand:
			clipDepth++

		case ir.PopClipRectCommand:
			if clipDepth == 0 {
				errs = append(errs, &Error{Kind: ErrUnmatchedPop, CommandIndex: i, Detail: "PopClipRect with no matching PushClipRect"})
				break
			}
			if len(scopes) > 0 && clipDepth <= scopes[len(scopes)-1].clipBase {
				errs = append(errs, &Error{Kind: ErrCrossBoundaryClip, CommandIndex: i})
				break
			}
			clipDepth--

		case ir.BeginGroupCommand:
			scopes = append(scopes, scopeFrame{kind: scopeGroup, openIndex: i, transformBase: transformDepth, clipBase: clipDepth})

		case ir.EndGroupCommand:
			errs = append(errs, closeScope(&scopes, scopeGroup, i, transformDepth, clipDepth)...)

		case ir.BeginMaskCommand:
			scopes = append(scopes, scopeFrame{kind: scopeMask, openIndex: i, transformBase: transformDepth, clipBase: clipDepth})

		case ir.EndMaskCommand:
			errs = append(errs, closeScope(&scopes, scopeMask, i, transformDepth, clipDepth)...)

		case ir.BeginMatteCommand:
			matteDepth++
			if matteDepth > MaxMatteDepth {
				errs = append(errs, &Error{Kind: ErrNestedMatteTooDeep, CommandIndex: i})
			}
			scopes = append(scopes, scopeFrame{kind: scopeMatte, openIndex: i, transformBase: transformDepth, clipBase: clipDepth})

		case ir.EndMatteCommand:
			errs = append(errs, closeScope(&scopes, scopeMatte, i, transformDepth, clipDepth)...)
			if matteDepth > 0 {
				matteDepth--
			}

		default:
			_ = c
		}
	}

	if transformDepth != 0 {
		errs = append(errs, &Error{Kind: ErrUnclosedScope, CommandIndex: len(cmds), Detail: "transform stack not empty at end of stream"})
	}
	if clipDepth != 0 {
		errs = append(errs, &Error{Kind: ErrUnclosedScope, CommandIndex: len(cmds), Detail: "clip stack not empty at end of stream"})
	}
	for _, s := range scopes {
		errs = append(errs, &Error{Kind: ErrUnclosedScope, CommandIndex: s.openIndex, Detail: "scope opened here was never closed"})
	}

	return errs
}

// closeScope pops the top scope frame if it matches want, reporting a
// mismatch as an unmatched-pop error instead of silently closing the wrong
// scope.
func closeScope(scopes *[]scopeFrame, want scopeKind, i, transformDepth, clipDepth int) []*Error {
	s := *scopes
	if len(s) == 0 {
		return []*Error{{Kind: ErrUnmatchedPop, CommandIndex: i, Detail: "end-of-scope command with no matching begin"}}
	}
	top := s[len(s)-1]
	if top.kind != want {
		return []*Error{{Kind: ErrUnmatchedPop, CommandIndex: i, Detail: "end-of-scope command does not match the innermost open scope"}}
	}
	var errs []*Error
	if transformDepth != top.transformBase {
		errs = append(errs, &Error{Kind: ErrCrossBoundaryTransform, CommandIndex: i, Detail: "scope closed with transform stack imbalanced relative to its opening"})
	}
	if clipDepth != top.clipBase {
		errs = append(errs, &Error{Kind: ErrCrossBoundaryClip, CommandIndex: i, Detail: "scope closed with clip stack imbalanced relative to its opening"})
	}
	*scopes = s[:len(s)-1]
	return errs
}
