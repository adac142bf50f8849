package engine

import (
	"errors"
	"testing"

	memerrors "github.com/orizon-lang/orizon-memdebug/internal/errors"
)

// These tests implement spec.md §8's abbreviated end-to-end scenarios
// against the public Heap surface.

func TestScenarioDoubleFreeIsRejected(t *testing.T) {
	h := New("NOFREE=1")

	p, err := h.Allocate(16, CallerInfo{})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := h.Free(p, CallerInfo{}); err != nil {
		t.Fatalf("first Free: %v", err)
	}

	if got := h.Summary().LiveBlocks; got != 0 {
		t.Fatalf("LiveBlocks after first free = %d, want 0", got)
	}

	err = h.Free(p, CallerInfo{})
	if err == nil {
		t.Fatal("second Free: want an error, got nil")
	}

	var se *memerrors.StandardError
	if !errors.As(err, &se) {
		t.Fatalf("second Free error type = %T, want *StandardError", err)
	}
}

func TestScenarioOverflowGuardCorruptionDetected(t *testing.T) {
	h := New("CHECKALL")

	p, err := h.Allocate(16, CallerInfo{})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	blk, ok := h.alloc.Find(p)
	if !ok {
		t.Fatal("Find: block not found")
	}

	// Simulate writing 17 bytes through a 16-byte block: stamp the
	// first byte of the upper guard, bypassing Fill's own bounds check
	// (this test exercises the integrity sweep, not memOp validation).
	h.alloc.WriteByte(blk.UpperGuardBase, 0x41)

	if _, err := h.Allocate(8, CallerInfo{}); err == nil {
		t.Fatal("want the CHECKALL sweep on the next operation to report corruption")
	}
}

func TestScenarioFreeBlockCorruptionDetected(t *testing.T) {
	h := New("CHECKALL")

	p, err := h.Allocate(16, CallerInfo{})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := h.Free(p, CallerInfo{}); err != nil {
		t.Fatalf("Free: %v", err)
	}

	// Corrupt a byte inside the now-free range directly (bypassing the
	// engine, the way a wild write from user code would).
	h.alloc.WriteByte(p, 0x99)

	if _, err := h.Allocate(8, CallerInfo{}); err == nil {
		t.Fatal("want the CHECKALL sweep on the next operation to report free-block corruption")
	}
}

func TestScenarioTypedArrayMismatchRejectsScalarFree(t *testing.T) {
	h := New("")

	p, err := h.TypedArrayAllocate(4, 4, "int32", CallerInfo{})
	if err != nil {
		t.Fatalf("TypedArrayAllocate: %v", err)
	}

	if err := h.Free(p, CallerInfo{}); err == nil {
		t.Fatal("Free on a typed-array block: want a pairing error")
	}

	if got := h.Summary().LiveBlocks; got != 1 {
		t.Fatalf("LiveBlocks after rejected free = %d, want 1 (block remains live)", got)
	}

	if err := h.ArrayFree(p, CallerInfo{}); err != nil {
		t.Fatalf("ArrayFree: %v", err)
	}
}

func TestScenarioResizeInPlaceFailsWithoutMovingTheBlock(t *testing.T) {
	h := New("")

	p, err := h.Allocate(16, CallerInfo{})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	ok, err := h.ResizeInPlace(p, 4096, CallerInfo{})
	if err != nil {
		t.Fatalf("ResizeInPlace: %v", err)
	}

	if ok {
		t.Fatal("ResizeInPlace to a much larger size: want ok=false")
	}

	b, found := h.alloc.ReadByte(p)
	_ = b

	if !found {
		t.Fatal("block at p is no longer valid after a failed in-place resize")
	}
}

func TestScenarioFailFrequencyForcesEveryFourthAllocationToFail(t *testing.T) {
	h := New("FAILFREQ=4 FAILSEED=1")

	lowMemCalls := 0
	h.LowMemory = func() { lowMemCalls++ }

	const attempts = 200

	failures := 0

	for i := 0; i < attempts; i++ {
		if _, err := h.Allocate(8, CallerInfo{}); err != nil {
			failures++
		}
	}

	if failures == 0 {
		t.Fatal("want at least one forced allocation failure over many attempts at FAILFREQ=4")
	}

	if lowMemCalls != failures {
		t.Fatalf("LowMemory invoked %d times, want one per forced failure (%d)", lowMemCalls, failures)
	}

	if got := h.Summary().Events; got != uint64(attempts) {
		t.Fatalf("Events = %d, want %d (event counter still advances on a forced failure)", got, attempts)
	}
}

func TestAllocateFillsAllocationByteAndGuards(t *testing.T) {
	h := New("")

	p, err := h.Allocate(16, CallerInfo{})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	for i := uintptr(0); i < 16; i++ {
		b, ok := h.alloc.ReadByte(p + i)
		if !ok || b != h.opts.Policy.AllocByte {
			t.Fatalf("byte %d = %#x, want allocation byte %#x", i, b, h.opts.Policy.AllocByte)
		}
	}

	blk, ok := h.alloc.Find(p)
	if !ok {
		t.Fatal("Find: block not found")
	}

	if !blk.GuardsIntact(h.opts.Policy.OverflowByte, func(addr uintptr) byte {
		b, _ := h.alloc.ReadByte(addr)

		return b
	}) {
		t.Fatal("freshly allocated block's guards are not intact")
	}
}

func TestEventCounterIsMonotonic(t *testing.T) {
	h := New("")

	var last uint64

	for i := 0; i < 5; i++ {
		if _, err := h.Allocate(8, CallerInfo{}); err != nil {
			t.Fatalf("Allocate: %v", err)
		}

		cur := h.Summary().Events
		if cur <= last {
			t.Fatalf("event counter did not increase: last=%d cur=%d", last, cur)
		}

		last = cur
	}
}

func TestSetThenCompareRoundTrips(t *testing.T) {
	h := New("")

	p, err := h.Allocate(16, CallerInfo{})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	q, err := h.Allocate(16, CallerInfo{})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := h.Fill(p, 16, 0x42, CallerInfo{}); err != nil {
		t.Fatalf("Fill p: %v", err)
	}

	if err := h.Fill(q, 16, 0x42, CallerInfo{}); err != nil {
		t.Fatalf("Fill q: %v", err)
	}

	cmp, err := h.Compare(p, q, 16, CallerInfo{})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	if cmp != 0 {
		t.Fatalf("Compare = %d, want 0", cmp)
	}
}

func TestMemOpRejectsRangeOverflowingItsBlock(t *testing.T) {
	h := New("")

	p, err := h.Allocate(16, CallerInfo{})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := h.Fill(p, 17, 0x42, CallerInfo{}); err == nil {
		t.Fatal("Fill past the end of the block: want an error")
	}
}

func TestAllowOflowDowngradesOverflowToWarning(t *testing.T) {
	h := New("ALLOWOFLOW")

	p, err := h.Allocate(16, CallerInfo{})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := h.Fill(p, 17, 0x42, CallerInfo{}); err != nil {
		t.Fatalf("Fill past the end under ALLOWOFLOW: want no error, got %v", err)
	}
}

func TestAllocateZeroSizeSucceedsWithNonOverlappingBlock(t *testing.T) {
	h := New("")

	a, err := h.Allocate(0, CallerInfo{})
	if err != nil {
		t.Fatalf("Allocate(0): %v", err)
	}

	b, err := h.Allocate(0, CallerInfo{})
	if err != nil {
		t.Fatalf("second Allocate(0): %v", err)
	}

	if a == b {
		t.Fatalf("two zero-size allocations returned the same address %#x", a)
	}

	if got := h.Summary().LiveBlocks; got != 2 {
		t.Fatalf("LiveBlocks = %d, want 2", got)
	}
}

func TestAllocateAlignedClampsAlignmentAbovePageSize(t *testing.T) {
	h := New("")

	hugeAlignment := h.provider.PageSize() * 16

	p, err := h.AllocateAligned(16, hugeAlignment, CallerInfo{})
	if err != nil {
		t.Fatalf("AllocateAligned with oversized alignment: %v", err)
	}

	if p == 0 {
		t.Fatal("AllocateAligned with oversized alignment returned a null pointer")
	}
}
