package gpupool

import "testing"

type fakeAllocator struct {
	allocCount int
	freeCount  int
	nextID     TextureID
}

func (a *fakeAllocator) AllocTexture(width, height int, format TextureFormat) TextureID {
	a.allocCount++
	a.nextID++
	return a.nextID
}

func (a *fakeAllocator) FreeTexture(id TextureID) {
	a.freeCount++
}

func TestAcquireReusesReleasedTexture(t *testing.T) {
	alloc := &fakeAllocator{}
	pool := NewTexturePool(alloc, 4)

	id := pool.Acquire(64, 64, FormatRGBA8)
	pool.Release(64, 64, FormatRGBA8, id)
	reused := pool.Acquire(64, 64, FormatRGBA8)

	if reused != id {
		t.Fatalf("expected reuse of released texture, got alloc count %d", alloc.allocCount)
	}
	if alloc.allocCount != 1 {
		t.Fatalf("expected exactly one allocation, got %d", alloc.allocCount)
	}
}

func TestAcquireDifferentKeysAllocateSeparately(t *testing.T) {
	alloc := &fakeAllocator{}
	pool := NewTexturePool(alloc, 4)

	pool.Acquire(64, 64, FormatRGBA8)
	pool.Acquire(128, 128, FormatRGBA8)

	if alloc.allocCount != 2 {
		t.Fatalf("expected 2 allocations for distinct sizes, got %d", alloc.allocCount)
	}
}

func TestReleaseOverCapacityFreesImmediately(t *testing.T) {
	alloc := &fakeAllocator{}
	pool := NewTexturePool(alloc, 1)

	a := pool.Acquire(32, 32, FormatR8)
	b := pool.Acquire(32, 32, FormatR8)
	pool.Release(32, 32, FormatR8, a)
	pool.Release(32, 32, FormatR8, b)

	if alloc.freeCount != 1 {
		t.Fatalf("expected exactly one texture freed over capacity, got %d", alloc.freeCount)
	}
	if pool.Len() != 1 {
		t.Fatalf("expected one idle texture retained, got %d", pool.Len())
	}
}

func TestClearFreesAllIdleTextures(t *testing.T) {
	alloc := &fakeAllocator{}
	pool := NewTexturePool(alloc, 4)

	id := pool.Acquire(16, 16, FormatBGRA8)
	pool.Release(16, 16, FormatBGRA8, id)
	pool.Clear()

	if alloc.freeCount != 1 {
		t.Fatalf("expected Clear to free the idle texture, got freeCount=%d", alloc.freeCount)
	}
	if pool.Len() != 0 {
		t.Fatal("expected pool to be empty after Clear")
	}
}
