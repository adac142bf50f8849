package lowalloc

import (
	"testing"

	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/sysmem"
)

func newTestAllocator(t *testing.T, policy Policy) *Allocator {
	t.Helper()

	return New(sysmem.NewProvider(), policy)
}

func (a *Allocator) readAt(t *testing.T, addr uintptr) byte {
	t.Helper()

	b, ok := a.ReadByte(addr)
	if !ok {
		t.Fatalf("ReadByte(%#x): address not within any acquired region", addr)
	}

	return b
}

func TestGetFillsUserBytesAndGuards(t *testing.T) {
	a := newTestAllocator(t, DefaultPolicy())

	blk, err := a.Get(64, 8, false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if blk.UserSize != 64 {
		t.Fatalf("UserSize = %d, want 64", blk.UserSize)
	}

	if blk.UserBase%8 != 0 {
		t.Fatalf("UserBase %#x is not 8-aligned", blk.UserBase)
	}

	for addr := blk.UserBase; addr < blk.UserBase+blk.UserSize; addr++ {
		if got := a.readAt(t, addr); got != DefaultPolicy().AllocByte {
			t.Fatalf("user byte at %#x = %#x, want alloc byte", addr, got)
		}
	}

	for addr := blk.LowerGuardBase; addr < blk.LowerGuardBase+blk.LowerGuardSize; addr++ {
		if got := a.readAt(t, addr); got != DefaultPolicy().OverflowByte {
			t.Fatalf("lower guard byte at %#x = %#x, want overflow byte", addr, got)
		}
	}

	for addr := blk.UpperGuardBase; addr < blk.UpperGuardBase+blk.UpperGuardSize; addr++ {
		if got := a.readAt(t, addr); got != DefaultPolicy().OverflowByte {
			t.Fatalf("upper guard byte at %#x = %#x, want overflow byte", addr, got)
		}
	}
}

func TestGetZeroed(t *testing.T) {
	a := newTestAllocator(t, DefaultPolicy())

	blk, err := a.Get(32, 8, true)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	for addr := blk.UserBase; addr < blk.UserBase+blk.UserSize; addr++ {
		if got := a.readAt(t, addr); got != 0 {
			t.Fatalf("zeroed byte at %#x = %#x, want 0", addr, got)
		}
	}
}

func TestFindAfterGet(t *testing.T) {
	a := newTestAllocator(t, DefaultPolicy())

	blk, err := a.Get(16, 8, false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	found, ok := a.Find(blk.UserBase + 4)
	if !ok || found != blk {
		t.Fatal("Find did not locate the block by an interior address")
	}

	if _, ok := a.Find(blk.UserBase + blk.UserSize + 1000); ok {
		t.Fatal("Find located a block at an address that was never allocated")
	}
}

func TestResizeShrinkInPlace(t *testing.T) {
	a := newTestAllocator(t, DefaultPolicy())

	blk, err := a.Get(16, 8, false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if ok := a.Resize(blk, 10); !ok {
		t.Fatal("Resize shrink should succeed")
	}

	if blk.UserSize != 10 {
		t.Fatalf("UserSize after shrink = %d, want 10", blk.UserSize)
	}

	for addr := blk.UserBase + 10; addr < blk.UserBase+16; addr++ {
		if got := a.readAt(t, addr); got != DefaultPolicy().OverflowByte {
			t.Fatalf("vacated byte at %#x = %#x, want overflow byte", addr, got)
		}
	}
}

// Packed-mode blocks carve their upper guard immediately after the
// requested size, so growth beyond the original size always requires the
// caller to allocate a fresh block, copy and release the old one.
func TestResizeGrowBeyondOriginalSizeFailsInPackedMode(t *testing.T) {
	a := newTestAllocator(t, DefaultPolicy())

	blk, err := a.Get(16, 8, false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if ok := a.Resize(blk, 17); ok {
		t.Fatal("packed-mode growth beyond the original size should fail")
	}
}

// Page-placed blocks round the user region up to whole pages, leaving
// slack between the requested size and the page boundary; Resize can
// grow into that slack without reallocating.
func TestResizeGrowsWithinPagePlacedSlack(t *testing.T) {
	policy := DefaultPolicy()
	policy.PageAlloc = PageAllocLower

	a := newTestAllocator(t, policy)

	blk, err := a.Get(10, 8, false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	page := a.provider.PageSize()
	if blk.UpperGuardBase-blk.UserBase < page {
		t.Skip("page size too small to exercise in-place growth slack")
	}

	if ok := a.Resize(blk, page-1); !ok {
		t.Fatal("page-placed resize within the page window should succeed")
	}

	if blk.UserSize != page-1 {
		t.Fatalf("UserSize after grow = %d, want %d", blk.UserSize, page-1)
	}

	for addr := blk.UserBase + 10; addr < blk.UserBase+blk.UserSize; addr++ {
		if got := a.readAt(t, addr); got != DefaultPolicy().AllocByte {
			t.Fatalf("newly exposed byte at %#x = %#x, want alloc byte", addr, got)
		}
	}
}

func TestResizeBeyondCapacityFails(t *testing.T) {
	policy := DefaultPolicy()
	policy.OverflowSize = 4

	a := newTestAllocator(t, policy)

	blk, err := a.Get(8, 8, false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if ok := a.Resize(blk, 1<<20); ok {
		t.Fatal("Resize should fail when the requested size exceeds the carved region")
	}
}

func TestReleaseWithoutRetentionReturnsToFreePool(t *testing.T) {
	a := newTestAllocator(t, DefaultPolicy())

	blk, err := a.Get(16, 8, false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	before := a.FreeBlockCount()
	a.Release(blk, false)

	if _, ok := a.Find(blk.UserBase); ok {
		t.Fatal("released block should no longer be found live")
	}

	if a.FreeBlockCount() < before {
		t.Fatal("free pool should not shrink after a release")
	}
}

func TestReleaseWithRetention(t *testing.T) {
	a := newTestAllocator(t, DefaultPolicy())

	blk, err := a.Get(16, 8, false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	a.Release(blk, true)

	found, ok := a.FindFreed(blk.UserBase)
	if !ok || found != blk {
		t.Fatal("retained block should be found via FindFreed")
	}

	for addr := blk.UserBase; addr < blk.UserBase+blk.UserSize; addr++ {
		if got := a.readAt(t, addr); got != DefaultPolicy().FreeByte {
			t.Fatalf("retained byte at %#x = %#x, want free byte", addr, got)
		}
	}
}

func TestPagePlacedLower(t *testing.T) {
	policy := DefaultPolicy()
	policy.PageAlloc = PageAllocLower

	a := newTestAllocator(t, policy)

	blk, err := a.Get(10, 8, false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if !blk.PagePlaced {
		t.Fatal("expected PagePlaced block")
	}

	page := a.provider.PageSize()
	if (blk.UserBase-blk.LowerGuardBase)%page != 0 {
		t.Fatalf("user window base %#x is not page-aligned relative to guard", blk.UserBase)
	}

	if blk.LowerGuardSize != page || blk.UpperGuardSize != page {
		t.Fatalf("guard sizes = %d/%d, want page size %d", blk.LowerGuardSize, blk.UpperGuardSize, page)
	}
}

func TestGrowAcquiresFreshRegionOnDemand(t *testing.T) {
	a := newTestAllocator(t, DefaultPolicy())

	var blocks []*Block

	for i := 0; i < 64; i++ {
		blk, err := a.Get(256, 8, false)
		if err != nil {
			t.Fatalf("Get #%d: %v", i, err)
		}

		blocks = append(blocks, blk)
	}

	for _, blk := range blocks {
		if _, ok := a.Find(blk.UserBase); !ok {
			t.Fatalf("block at %#x lost after many allocations", blk.UserBase)
		}
	}
}

func TestLimitRejectsOverBudgetAllocation(t *testing.T) {
	policy := DefaultPolicy()
	policy.Limit = 32

	a := newTestAllocator(t, policy)

	if _, err := a.Get(1024, 8, false); err != ErrOutOfMemory {
		t.Fatalf("Get over limit: err = %v, want ErrOutOfMemory", err)
	}
}
