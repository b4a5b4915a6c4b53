package gpupool

import "testing"

func TestUploadFloatsReturnsIncreasingOffsets(t *testing.T) {
	p := NewVertexUploadPool(0)
	p.BeginFrame()

	off1 := p.UploadFloats([]float32{1, 2, 3, 4})
	off2 := p.UploadFloats([]float32{5, 6})

	if off1 != 0 {
		t.Fatalf("expected first upload at offset 0, got %d", off1)
	}
	if off2 <= off1 {
		t.Fatalf("expected second upload offset to advance, got %d", off2)
	}
	if off2%vertexAlignment != 0 {
		t.Fatalf("expected offsets aligned to %d, got %d", vertexAlignment, off2)
	}
}

func TestBeginFrameResetsCursorNotCapacity(t *testing.T) {
	p := NewVertexUploadPool(16)
	p.UploadFloats(make([]float32, 100))
	capacityAfterGrowth := len(p.buf)

	p.BeginFrame()
	if p.Len() != 0 {
		t.Fatal("expected cursor reset to 0 after BeginFrame")
	}
	if len(p.buf) != capacityAfterGrowth {
		t.Fatal("expected backing buffer retained (not shrunk) across frames")
	}
}

func TestUploadFloatsGrowsBufferWhenNeeded(t *testing.T) {
	p := NewVertexUploadPool(4)
	p.UploadFloats(make([]float32, 1000))
	if p.Len() == 0 {
		t.Fatal("expected data written after growth")
	}
}
