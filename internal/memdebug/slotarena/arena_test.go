package slotarena

import (
	"testing"
	"unsafe"

	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/sysmem"
)

func TestArenaObtainReturn(t *testing.T) {
	a := New(sysmem.NewProvider(), 32, 8)

	slots := make([]unsafe.Pointer, 0, 256)

	for i := 0; i < 256; i++ {
		s := a.Obtain()
		if s == nil {
			t.Fatalf("Obtain returned nil at iteration %d", i)
		}

		slots = append(slots, s)
	}

	seen := map[unsafe.Pointer]bool{}
	for _, s := range slots {
		if seen[s] {
			t.Fatalf("slot %p handed out twice while live", s)
		}

		seen[s] = true
	}

	for _, s := range slots {
		a.Return(s)
	}

	obtained, returned := a.Stats()
	if obtained != 256 || returned != 256 {
		t.Fatalf("Stats() = (%d, %d), want (256, 256)", obtained, returned)
	}

	// Slots should be reusable after being returned.
	reused := a.Obtain()
	if reused == nil {
		t.Fatal("Obtain after Return returned nil")
	}
}

func TestArenaObtainIsZeroed(t *testing.T) {
	a := New(sysmem.NewProvider(), 64, 8)

	s := a.Obtain()
	buf := unsafe.Slice((*byte)(s), 64)
	for i := range buf {
		buf[i] = 0xAA
	}

	a.Return(s)

	s2 := a.Obtain()
	buf2 := unsafe.Slice((*byte)(s2), 64)

	for i, b := range buf2 {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: %#x", i, b)
		}
	}
}

func TestArenaMinimumEntrySize(t *testing.T) {
	a := New(sysmem.NewProvider(), 1, 1)
	if a.EntrySize() < unsafe.Sizeof(uintptr(0)) {
		t.Fatalf("EntrySize() = %d, want at least pointer size", a.EntrySize())
	}
}
