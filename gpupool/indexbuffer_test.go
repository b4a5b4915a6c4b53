package gpupool

import "testing"

func TestPathIndexBufferCacheReusesWithinGeneration(t *testing.T) {
	c := NewPathIndexBufferCache(DefaultIndexBufferCapacity)
	calls := 0
	upload := func() BufferID {
		calls++
		return BufferID(calls)
	}

	c.Get(1, 42, upload)
	c.Get(1, 42, upload)

	if calls != 1 {
		t.Fatalf("expected upload to run once, ran %d times", calls)
	}
}

func TestPathIndexBufferCacheSeparatesGenerations(t *testing.T) {
	c := NewPathIndexBufferCache(DefaultIndexBufferCapacity)
	calls := 0
	upload := func() BufferID {
		calls++
		return BufferID(calls)
	}

	c.Get(1, 42, upload)
	c.Get(2, 42, upload)

	if calls != 2 {
		t.Fatalf("expected distinct generations to miss independently, ran %d times", calls)
	}
}

func TestMaskTextureCacheReusesByKey(t *testing.T) {
	c := NewMaskTextureCache(DefaultMaskTextureCapacity)
	calls := 0
	render := func() TextureID {
		calls++
		return TextureID(calls)
	}
	key := MaskTextureKey{SourceHash: 7, Mode: 1, BBoxWidth: 64, BBoxHeight: 64}

	c.Get(key, render)
	c.Get(key, render)

	if calls != 1 {
		t.Fatalf("expected render to run once for identical key, ran %d times", calls)
	}
}
