package executor

import (
	"testing"

	"github.com/lukovi4/animirender/geom"
)

func TestExecutionStatePushPopTransformRoundTrips(t *testing.T) {
	s := NewExecutionState()
	pushed := s.PushTransform(geom.Translate(5, 5))
	if pushed.Transform().Tx != 5 {
		t.Fatalf("expected pushed transform to translate by 5, got %v", pushed.Transform())
	}
	popped := pushed.PopTransform()
	if !popped.Transform().IsIdentity() {
		t.Fatalf("expected pop to restore identity, got %v", popped.Transform())
	}
	if !s.Transform().IsIdentity() {
		t.Fatal("expected original state to remain unmodified (value semantics)")
	}
}

func TestExecutionStateClipRectIntersectsNested(t *testing.T) {
	s := NewExecutionState()
	outer := s.PushClipRect(geom.Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10})
	inner := outer.PushClipRect(geom.Rect{MinX: 5, MinY: 5, MaxX: 20, MaxY: 20})

	rect, ok := inner.Clip()
	if !ok {
		t.Fatal("expected an active clip")
	}
	if rect.MinX != 5 || rect.MaxX != 10 {
		t.Fatalf("expected intersection [5,10], got %v", rect)
	}
}

func TestExecutionStateNoClipByDefault(t *testing.T) {
	s := NewExecutionState()
	if _, ok := s.Clip(); ok {
		t.Fatal("expected no active clip on a fresh state")
	}
}
