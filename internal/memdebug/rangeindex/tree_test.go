package rangeindex

import (
	"math/rand"
	"testing"
)

func TestFindContaining(t *testing.T) {
	tree := New(ByBase)

	ranges := []struct{ base, size uintptr }{
		{0x1000, 0x100},
		{0x2000, 0x50},
		{0x3000, 0x400},
	}

	for _, r := range ranges {
		tree.Insert(&Entry{Base: r.base, Size: r.size})
	}

	cases := []struct {
		addr uintptr
		want bool
	}{
		{0x1000, true},
		{0x10ff, true},
		{0x1100, false},
		{0x2010, true},
		{0x2fff, false},
		{0x33ff, true},
		{0x3400, false},
	}

	for _, c := range cases {
		got := tree.FindContaining(c.addr) != nil
		if got != c.want {
			t.Errorf("FindContaining(%#x) found=%v, want %v", c.addr, got, c.want)
		}
	}
}

func TestFindSmallestGE(t *testing.T) {
	tree := New(BySize)

	sizes := []uintptr{16, 32, 32, 64, 128}
	for _, s := range sizes {
		tree.Insert(&Entry{Base: s, Size: s})
	}

	cases := []struct {
		query uintptr
		want  uintptr
	}{
		{1, 16},
		{16, 16},
		{17, 32},
		{100, 128},
		{129, 0}, // none found -> nil reported as 0
	}

	for _, c := range cases {
		e := tree.FindSmallestGE(c.query)
		if c.want == 0 {
			if e != nil {
				t.Errorf("FindSmallestGE(%d) = %v, want nil", c.query, e.Size)
			}

			continue
		}

		if e == nil || e.Size != c.want {
			t.Errorf("FindSmallestGE(%d) = %v, want %d", c.query, e, c.want)
		}
	}
}

func TestFindLargestLE(t *testing.T) {
	tree := New(ByBase)

	bases := []uintptr{16, 32, 64, 128}
	for _, b := range bases {
		tree.Insert(&Entry{Base: b, Size: 1})
	}

	cases := []struct {
		query uintptr
		want  uintptr
	}{
		{10, 0}, // before everything -> nil
		{16, 16},
		{20, 16},
		{128, 128},
		{1000, 128},
	}

	for _, c := range cases {
		e := tree.FindLargestLE(c.query)
		if c.want == 0 {
			if e != nil {
				t.Errorf("FindLargestLE(%d) = %v, want nil", c.query, e.Base)
			}

			continue
		}

		if e == nil || e.Base != c.want {
			t.Errorf("FindLargestLE(%d) = %v, want %d", c.query, e, c.want)
		}
	}
}

func TestInsertRemoveRandom(t *testing.T) {
	tree := New(ByBase)
	rng := rand.New(rand.NewSource(1))

	var entries []*Entry

	base := uintptr(0)
	for i := 0; i < 500; i++ {
		size := uintptr(rng.Intn(64) + 1)
		e := &Entry{Base: base, Size: size}
		entries = append(entries, e)
		tree.Insert(e)
		base += size + uintptr(rng.Intn(8)) // gaps, never overlapping
	}

	if tree.Len() != len(entries) {
		t.Fatalf("Len() = %d, want %d", tree.Len(), len(entries))
	}

	for _, e := range entries {
		mid := e.Base + e.Size/2
		if tree.FindContaining(mid) != e {
			t.Fatalf("FindContaining(%#x) did not return the inserted entry", mid)
		}
	}

	rng.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })

	for i, e := range entries {
		if !tree.Remove(e) {
			t.Fatalf("Remove failed for entry %d (base=%#x)", i, e.Base)
		}

		if tree.FindContaining(e.Base) != nil {
			t.Fatalf("entry at %#x still found after removal", e.Base)
		}
	}

	if tree.Len() != 0 {
		t.Fatalf("Len() = %d after removing everything, want 0", tree.Len())
	}
}

func TestDuplicateKeyRemoveByIdentity(t *testing.T) {
	tree := New(BySize)

	a := &Entry{Base: 1, Size: 32}
	b := &Entry{Base: 2, Size: 32}
	tree.Insert(a)
	tree.Insert(b)

	if !tree.Remove(a) {
		t.Fatal("Remove(a) failed")
	}

	if tree.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tree.Len())
	}

	got := tree.FindSmallestGE(32)
	if got != b {
		t.Fatalf("FindSmallestGE(32) = %v, want b", got)
	}
}
