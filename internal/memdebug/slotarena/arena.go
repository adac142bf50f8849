// Package slotarena implements a fixed-size object pool backed by pages
// leased from sysmem.Provider. Every metadata-holding component of the
// debugging allocator (records, tree nodes, string table entries) obtains
// its storage from an Arena rather than the Go heap, so that metadata lives
// on pages the engine can flip read-only between operations.
//
// The design generalizes the bump-pointer arena in
// internal/allocator/arena.go into a pool that supports individual release:
// slabs are still raw regions carved from sysmem, but slots within a slab
// are threaded onto a singly linked free list through their first
// pointer-sized bytes, per spec.md §4.B.
package slotarena

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/sysmem"
)

// DefaultAllocFactor is the number of page-sized multiples requested for a
// fresh slab when the free list runs dry.
const DefaultAllocFactor = 4

// Arena is a pool of fixed-size, fixed-alignment slots.
type Arena struct {
	provider   sysmem.Provider
	freeHead   unsafe.Pointer
	mu         sync.Mutex
	slabs      []sysmem.Region
	entrySize  uintptr
	entryAlign uintptr
	allocFactor uintptr
	obtained   uint64
	returned   uint64
}

// New creates an arena for entries of entrySize bytes aligned to
// entryAlign (entryAlign must be a power of two and entrySize must be at
// least the size of a pointer, since free slots store a next-pointer
// in-place).
func New(provider sysmem.Provider, entrySize, entryAlign uintptr) *Arena {
	if entryAlign == 0 {
		entryAlign = unsafe.Alignof(uintptr(0))
	}

	if entrySize < unsafe.Sizeof(uintptr(0)) {
		entrySize = unsafe.Sizeof(uintptr(0))
	}

	entrySize = sysmem.AlignUp(entrySize, entryAlign)

	return &Arena{
		provider:    provider,
		entrySize:   entrySize,
		entryAlign:  entryAlign,
		allocFactor: DefaultAllocFactor,
	}
}

// EntrySize returns the (alignment-rounded) size of one slot.
func (a *Arena) EntrySize() uintptr { return a.entrySize }

// Obtain returns a zeroed slot, seeding a new slab from the provider if the
// free list is empty. Returns nil if the provider cannot supply a slab.
func (a *Arena) Obtain() unsafe.Pointer {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.freeHead == nil {
		if err := a.seedLocked(); err != nil {
			return nil
		}
	}

	slot := a.freeHead
	a.freeHead = *(*unsafe.Pointer)(slot)
	a.obtained++

	zero(slot, a.entrySize)

	return slot
}

// Return releases a slot back to the free list.
func (a *Arena) Return(slot unsafe.Pointer) {
	if slot == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	*(*unsafe.Pointer)(slot) = a.freeHead
	a.freeHead = slot
	a.returned++
}

// Stats reports how many slots have been handed out and returned.
func (a *Arena) Stats() (obtained, returned uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.obtained, a.returned
}

// Slabs returns the raw regions backing this arena, for integrity sweeps
// and metadata-page protection toggling.
func (a *Arena) Slabs() []sysmem.Region {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]sysmem.Region, len(a.slabs))
	copy(out, a.slabs)

	return out
}

func (a *Arena) seedLocked() error {
	slabBytes := a.provider.PageSize() * a.allocFactor
	if slabBytes < a.entrySize {
		slabBytes = a.entrySize
	}

	region, err := a.provider.Acquire(slabBytes)
	if err != nil {
		return fmt.Errorf("slotarena: seed slab: %w", err)
	}

	a.slabs = append(a.slabs, region)
	a.threadFreeList(region)

	return nil
}

// threadFreeList splices every slot in region onto the arena's free list.
func (a *Arena) threadFreeList(region sysmem.Region) {
	count := uintptr(len(region.Bytes)) / a.entrySize
	for i := uintptr(0); i < count; i++ {
		slot := unsafe.Pointer(&region.Bytes[i*a.entrySize])
		*(*unsafe.Pointer)(slot) = a.freeHead
		a.freeHead = slot
	}
}

func zero(p unsafe.Pointer, n uintptr) {
	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		b[i] = 0
	}
}
