package lowalloc

import (
	"errors"
	"sync"

	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/rangeindex"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/sysmem"
)

// ErrOutOfMemory is returned by Get when the provider cannot supply more
// memory or the configured heap-size limit would be exceeded.
var ErrOutOfMemory = errors.New("lowalloc: out of memory")

// ErrUnknownBlock is returned when an address does not name the start of
// a block this allocator carved.
var ErrUnknownBlock = errors.New("lowalloc: address is not a known block")

// Allocator is component D: it splits and coalesces free blocks leased
// from a sysmem.Provider and carves guarded user blocks out of them.
type Allocator struct {
	mu       sync.Mutex
	provider sysmem.Provider
	policy   Policy

	free          *freePool
	allocated     *rangeindex.Tree // keyed ByBase, Value = *Block
	retainedFreed *rangeindex.Tree // keyed ByBase, Value = *Block

	rawRegions []sysmem.Region
	used       uintptr
}

// New creates an allocator that leases memory from provider under policy.
func New(provider sysmem.Provider, policy Policy) *Allocator {
	return &Allocator{
		provider:      provider,
		policy:        policy,
		free:          newFreePool(),
		allocated:     rangeindex.New(rangeindex.ByBase),
		retainedFreed: rangeindex.New(rangeindex.ByBase),
	}
}

// Used reports the number of bytes currently committed to live blocks,
// for the LIMIT policy check.
func (a *Allocator) Used() uintptr {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.used
}

// Get carves a new user block of size bytes aligned to alignment (0
// selects the policy default). zero requests a zero-filled block instead
// of the allocation-byte pattern. Per spec.md §4.D step 1-6.
func (a *Allocator) Get(size, alignment uintptr, zero bool) (*Block, error) {
	return a.GetPlaced(size, alignment, zero, a.policy.PageAlloc)
}

// GetPlaced is Get with an explicit page-placement mode overriding the
// policy default, for entry points that always want whole-page placement
// regardless of how PAGEALLOC is configured (spec.md §6's page-aligned
// and page-rounded allocate variants).
func (a *Allocator) GetPlaced(size, alignment uintptr, zero bool, placement PagePlacement) (*Block, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if alignment == 0 {
		alignment = a.policy.DefaultAlign
	}

	if alignment == 0 {
		alignment = 1
	}

	if placement != PageAllocNone {
		return a.getPagePlacedLocked(size, alignment, zero, placement)
	}

	return a.getPackedLocked(size, alignment, zero)
}

// getPackedLocked implements the non-page-placement carve: lower guard,
// alignment slack, user bytes, upper guard, packed into one free range.
func (a *Allocator) getPackedLocked(size, alignment uintptr, zero bool) (*Block, error) {
	guard := a.policy.OverflowSize
	slack := uintptr(0)

	if alignment > 1 {
		slack = alignment - 1
	}

	need := guard + slack + size + guard

	base, gotSize, err := a.obtainRangeLocked(need)
	if err != nil {
		return nil, err
	}

	userBase := sysmem.AlignUp(base+guard, alignment)
	upperGuardBase := userBase + size

	// Residue above the upper guard, if any, returns to the free pool.
	end := base + gotSize
	if residue := end - (upperGuardBase + guard); residue > 0 {
		a.free.insert(upperGuardBase+guard, residue)

		gotSize -= residue
	}

	blk := &Block{
		RegionBase:     base,
		RegionSize:     gotSize,
		UserBase:       userBase,
		UserSize:       size,
		LowerGuardBase: base,
		LowerGuardSize: userBase - base,
		UpperGuardBase: upperGuardBase,
		UpperGuardSize: guard,
	}

	a.fillFreshBlockLocked(blk, zero)
	a.trackLocked(blk)

	return blk, nil
}

// getPagePlacedLocked implements whole-page placement: the user bytes are
// rounded up to whole pages and placed at either end of a page window
// bracketed by no-access guard pages.
func (a *Allocator) getPagePlacedLocked(size, alignment uintptr, zero bool, placement PagePlacement) (*Block, error) {
	page := a.provider.PageSize()
	userPages := sysmem.AlignUp(size, page)

	need := page + userPages + page

	base, gotSize, err := a.obtainRangeLocked(need)
	if err != nil {
		return nil, err
	}

	lowerGuardBase := base
	windowBase := base + page
	upperGuardBase := windowBase + userPages

	if residue := (base + gotSize) - (upperGuardBase + page); residue > 0 {
		a.free.insert(upperGuardBase+page, residue)

		gotSize -= residue
	}

	var userBase uintptr

	switch placement {
	case PageAllocUpper:
		userBase = sysmem.AlignUp(upperGuardBase-size, alignment)
		if userBase < windowBase {
			userBase = windowBase
		}
	default: // PageAllocLower
		userBase = sysmem.AlignUp(windowBase, alignment)
	}

	blk := &Block{
		RegionBase:     base,
		RegionSize:     gotSize,
		UserBase:       userBase,
		UserSize:       size,
		LowerGuardBase: lowerGuardBase,
		LowerGuardSize: page,
		UpperGuardBase: upperGuardBase,
		UpperGuardSize: page,
		PagePlaced:     true,
	}

	// Slack inside the page window (before or after the user bytes) gets
	// the overflow byte, matching the packed-mode rule for unused bytes
	// within a carved region.
	a.fillBytesLocked(windowBase, userBase-windowBase, a.policy.OverflowByte)
	a.fillBytesLocked(userBase+size, upperGuardBase-(userBase+size), a.policy.OverflowByte)

	if zero {
		a.fillBytesLocked(userBase, size, 0)
	} else {
		a.fillBytesLocked(userBase, size, a.policy.AllocByte)
	}

	a.protectGuardLocked(blk.LowerGuardBase, blk.LowerGuardSize)
	a.protectGuardLocked(blk.UpperGuardBase, blk.UpperGuardSize)

	a.trackLocked(blk)

	return blk, nil
}

func (a *Allocator) fillFreshBlockLocked(blk *Block, zero bool) {
	a.fillBytesLocked(blk.LowerGuardBase, blk.LowerGuardSize, a.policy.OverflowByte)
	a.fillBytesLocked(blk.UpperGuardBase, blk.UpperGuardSize, a.policy.OverflowByte)

	if zero {
		a.fillBytesLocked(blk.UserBase, blk.UserSize, 0)
	} else {
		a.fillBytesLocked(blk.UserBase, blk.UserSize, a.policy.AllocByte)
	}

	if a.policy.OverflowWatch {
		_ = a.provider.Watch(blk.LowerGuardBase, blk.LowerGuardSize, sysmem.AccessNone)
		_ = a.provider.Watch(blk.UpperGuardBase, blk.UpperGuardSize, sysmem.AccessNone)

		return
	}
}

func (a *Allocator) protectGuardLocked(base, size uintptr) {
	if a.policy.OverflowWatch {
		if err := a.provider.Watch(base, size, sysmem.AccessNone); err == nil {
			return
		}
	}

	if r, ok := a.regionAt(base, size); ok {
		_ = a.provider.Protect(r, sysmem.AccessNone)
	}
}

func (a *Allocator) trackLocked(blk *Block) {
	a.allocated.Insert(&rangeindex.Entry{Base: blk.UserBase, Size: blk.UserSize, Value: blk})
	a.used += blk.UserSize
}

// obtainRangeLocked finds or creates a free range of at least need bytes,
// removes it from the free pool, and returns its base and actual size.
func (a *Allocator) obtainRangeLocked(need uintptr) (uintptr, uintptr, error) {
	if a.policy.Limit != 0 && a.used+need > a.policy.Limit {
		return 0, 0, ErrOutOfMemory
	}

	base, size, ok := a.free.bestFit(need)
	if !ok {
		if err := a.growLocked(need); err != nil {
			return 0, 0, err
		}

		base, size, ok = a.free.bestFit(need)
		if !ok {
			return 0, 0, ErrOutOfMemory
		}
	}

	if _, ok := a.free.removeExact(base); !ok {
		return 0, 0, ErrOutOfMemory
	}

	return base, size, nil
}

// growLocked requests a fresh region from the provider sized to
// ceil(request/page) × alloc_factor × page and splices it into the free
// pool, coalescing with adjacent free ranges (spec.md §4.D step 3).
func (a *Allocator) growLocked(need uintptr) error {
	page := a.provider.PageSize()
	factor := a.policy.AllocFactor

	if factor == 0 {
		factor = 1
	}

	size := sysmem.AlignUp(need, page) * factor

	region, err := a.provider.Acquire(size)
	if err != nil {
		return ErrOutOfMemory
	}

	a.rawRegions = append(a.rawRegions, region)
	a.free.insert(region.Base, region.Size)

	return nil
}

// regionAt returns a sysmem.Region view of [base, base+size) carved out
// of whichever raw region this allocator acquired it from.
func (a *Allocator) regionAt(base, size uintptr) (sysmem.Region, bool) {
	for _, r := range a.rawRegions {
		if base >= r.Base && base+size <= r.Base+r.Size {
			off := base - r.Base

			return sysmem.Region{Base: base, Size: size, Bytes: r.Bytes[off : off+size]}, true
		}
	}

	return sysmem.Region{}, false
}

func (a *Allocator) fillBytesLocked(base, size uintptr, b byte) {
	if size == 0 {
		return
	}

	if r, ok := a.regionAt(base, size); ok {
		for i := range r.Bytes {
			r.Bytes[i] = b
		}
	}
}

// readByte is used by the integrity sweep to check guard/free contents.
func (a *Allocator) ReadByte(addr uintptr) (byte, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if r, ok := a.regionAt(addr, 1); ok {
		return r.Bytes[0], true
	}

	return 0, false
}

// WriteByte stores b at addr, for entry points (string duplication, byte
// fill) that write directly into a carved user block.
func (a *Allocator) WriteByte(addr uintptr, b byte) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if r, ok := a.regionAt(addr, 1); ok {
		r.Bytes[0] = b

		return true
	}

	return false
}

// Find returns the block whose range contains addr, searching both the
// live and retained-freed indices.
func (a *Allocator) Find(addr uintptr) (*Block, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if e := a.allocated.FindContaining(addr); e != nil {
		return e.Value.(*Block), true
	}

	if e := a.retainedFreed.FindContaining(addr); e != nil {
		return e.Value.(*Block), true
	}

	return nil, false
}

// FindFreed returns the retained-freed block whose range contains addr.
func (a *Allocator) FindFreed(addr uintptr) (*Block, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if e := a.retainedFreed.FindContaining(addr); e != nil {
		return e.Value.(*Block), true
	}

	return nil, false
}

// Resize implements spec.md §4.D's resize algorithm: in-place growth or
// shrink when the carved region has room, reporting ok=false when the
// caller must allocate-copy-release instead.
func (a *Allocator) Resize(blk *Block, newSize uintptr) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	capacity := blk.UpperGuardBase - blk.UserBase
	if newSize > capacity {
		return false
	}

	a.allocated.Remove(&rangeindex.Entry{Base: blk.UserBase, Size: blk.UserSize, Value: blk})

	if newSize > blk.UserSize {
		a.fillBytesLocked(blk.UserBase+blk.UserSize, newSize-blk.UserSize, a.policy.AllocByte)
	} else if newSize < blk.UserSize {
		a.fillBytesLocked(blk.UserBase+newSize, blk.UserSize-newSize, a.policy.OverflowByte)
	}

	a.used = a.used - blk.UserSize + newSize
	blk.UserSize = newSize

	a.allocated.Insert(&rangeindex.Entry{Base: blk.UserBase, Size: blk.UserSize, Value: blk})

	return true
}

// Release implements spec.md §4.D's release algorithm. If retain is
// true, the block moves to the retained-freed index with its vacated
// bytes filled with the free byte (unless preserve policy is active);
// otherwise its whole carved region returns to the free pool.
func (a *Allocator) Release(blk *Block, retain bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.allocated.Remove(&rangeindex.Entry{Base: blk.UserBase, Size: blk.UserSize, Value: blk})
	a.used -= blk.UserSize

	if !a.policy.Preserve {
		a.fillBytesLocked(blk.UserBase, blk.UserSize, a.policy.FreeByte)
	}

	if retain {
		a.retainedFreed.Insert(&rangeindex.Entry{Base: blk.UserBase, Size: blk.UserSize, Value: blk})

		return
	}

	a.free.insert(blk.RegionBase, blk.RegionSize)
}

// PurgeRetained moves a previously retained block (identified by its
// user base address) out of the retained-freed index and into the free
// pool, for the NOFREE policy's oldest-entry purge.
func (a *Allocator) PurgeRetained(addr uintptr) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	e := a.retainedFreed.FindContaining(addr)
	if e == nil {
		return false
	}

	blk := e.Value.(*Block)
	a.retainedFreed.Remove(e)
	a.free.insert(blk.RegionBase, blk.RegionSize)

	return true
}

// FreeBlockCount reports how many distinct free ranges the pool holds.
func (a *Allocator) FreeBlockCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.free.len()
}

// FreeRange is one range currently sitting in the free pool, for the
// integrity sweep's free-byte content check (spec.md §4.G).
type FreeRange struct {
	Base uintptr
	Size uintptr
}

// WalkFree visits every free range currently held by the pool.
func (a *Allocator) WalkFree(visit func(FreeRange)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.free.byAddr.Walk(func(e *rangeindex.Entry) {
		n := e.Value.(*freeNode)
		visit(FreeRange{Base: n.base, Size: n.size})
	})
}

// ReadRangeFill reports whether every byte in [base, base+size) equals
// want, for checking a free or retained-freed range's fill pattern
// without a byte-at-a-time round trip through the mutex.
func (a *Allocator) ReadRangeFill(base, size uintptr, want byte) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := a.regionAt(base, size)
	if !ok {
		return true
	}

	for _, b := range r.Bytes {
		if b != want {
			return false
		}
	}

	return true
}
