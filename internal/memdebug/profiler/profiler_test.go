package profiler

import (
	"bytes"
	"testing"
)

func testBounds() Bounds { return Bounds{Small: 32, Medium: 256, Large: 4096} }

func TestClassify(t *testing.T) {
	b := testBounds()

	cases := []struct {
		size uint64
		want BinIndex
	}{
		{1, BinSmall},
		{31, BinSmall},
		{32, BinMedium},
		{255, BinMedium},
		{256, BinLarge},
		{4095, BinLarge},
		{4096, BinExtraLarge},
		{1 << 20, BinExtraLarge},
	}

	for _, c := range cases {
		if got := b.classify(c.size); got != c.want {
			t.Errorf("classify(%d) = %v, want %v", c.size, got, c.want)
		}
	}
}

func TestRecordAllocateAndFree(t *testing.T) {
	p := New(testBounds(), 0)

	p.RecordAllocate(0x1000, 16)
	p.RecordAllocate(0x1000, 300)
	p.RecordFree(0x1000, 16)

	g := p.Global()
	if g[BinSmall].AllocCount != 1 || g[BinSmall].AllocBytes != 16 {
		t.Fatalf("small bin = %+v", g[BinSmall])
	}

	if g[BinLarge].AllocCount != 1 || g[BinLarge].AllocBytes != 300 {
		t.Fatalf("large bin = %+v", g[BinLarge])
	}

	if g[BinSmall].FreeCount != 1 || g[BinSmall].FreeBytes != 16 {
		t.Fatalf("small bin free = %+v", g[BinSmall])
	}

	if p.SiteCount() != 1 {
		t.Fatalf("SiteCount() = %d, want 1", p.SiteCount())
	}
}

func TestAutoSaveDue(t *testing.T) {
	p := New(testBounds(), 3)

	if p.RecordAllocate(1, 8) {
		t.Fatal("autosave due too early")
	}

	if p.RecordAllocate(1, 8) {
		t.Fatal("autosave due too early")
	}

	if !p.RecordAllocate(1, 8) {
		t.Fatal("autosave should be due on the third allocation")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	p := New(testBounds(), 0)
	p.RecordAllocate(0x4000, 10)
	p.RecordAllocate(0x4000, 10)
	p.RecordAllocate(0x5000, 1000)
	p.RecordFree(0x4000, 10)

	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	snap, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if snap.Global[BinSmall].AllocCount != 2 {
		t.Fatalf("decoded small alloc count = %d, want 2", snap.Global[BinSmall].AllocCount)
	}

	if len(snap.Sites) != 2 {
		t.Fatalf("decoded site count = %d, want 2", len(snap.Sites))
	}

	site := snap.Sites[0x4000]
	if site[BinSmall].AllocCount != 2 || site[BinSmall].FreeCount != 1 {
		t.Fatalf("site 0x4000 bins = %+v", site)
	}
}
