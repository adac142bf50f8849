// This file is the public entry-point surface spec.md §6 names:
// thin, named wrappers over allocateCore/resizeCore/releaseCore/memops,
// each stamping the right record.Kind (and TypeTag pairing rule) before
// delegating to the shared machinery in alloc.go, resize.go and
// release.go.
package engine

import (
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/lowalloc"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/record"
)

// Allocate is the scalar allocate primitive.
func (h *Heap) Allocate(size uintptr, caller CallerInfo) (uintptr, error) {
	return h.allocateCore(allocRequest{size: size, kind: record.KindScalar}, caller, 1)
}

// AllocateZeroed allocates a zero-filled block.
func (h *Heap) AllocateZeroed(size uintptr, caller CallerInfo) (uintptr, error) {
	return h.allocateCore(allocRequest{size: size, zero: true, kind: record.KindZeroed}, caller, 1)
}

// AllocateAligned allocates a block aligned to alignment (must be a
// power of two).
func (h *Heap) AllocateAligned(size, alignment uintptr, caller CallerInfo) (uintptr, error) {
	return h.allocateCore(allocRequest{size: size, alignment: alignment, kind: record.KindAligned}, caller, 1)
}

// AllocatePageAligned allocates a block whose user bytes start at a page
// boundary, regardless of the PAGEALLOC policy default.
func (h *Heap) AllocatePageAligned(size uintptr, caller CallerInfo) (uintptr, error) {
	return h.allocateCore(allocRequest{size: size, placement: lowalloc.PageAllocLower, kind: record.KindPageAligned}, caller, 1)
}

// AllocatePageRounded allocates a block rounded up to whole pages with
// the user bytes placed at the upper end of the window, against the
// upper guard — the counterpart placement to AllocatePageAligned.
func (h *Heap) AllocatePageRounded(size uintptr, caller CallerInfo) (uintptr, error) {
	return h.allocateCore(allocRequest{size: size, placement: lowalloc.PageAllocUpper, kind: record.KindPageRounded}, caller, 1)
}

// DuplicateString allocates len(s)+1 bytes, copies s, and appends a NUL.
func (h *Heap) DuplicateString(s string, caller CallerInfo) (uintptr, error) {
	return h.duplicateString(s, uintptr(len(s)), caller, 1)
}

// DuplicateStringN duplicates at most n bytes of s, per spec.md §6's
// "string duplicate (with and without size cap)".
func (h *Heap) DuplicateStringN(s string, n uintptr, caller CallerInfo) (uintptr, error) {
	if uintptr(len(s)) < n {
		n = uintptr(len(s))
	}

	return h.duplicateString(s, n, caller, 1)
}

func (h *Heap) duplicateString(s string, n uintptr, caller CallerInfo, skip int) (uintptr, error) {
	addr, err := h.allocateCore(allocRequest{size: n + 1, kind: record.KindStringDup}, caller, skip+1)
	if err != nil {
		return 0, err
	}

	for i := uintptr(0); i < n; i++ {
		h.alloc.WriteByte(addr+i, s[i])
	}

	h.alloc.WriteByte(addr+n, 0)

	return addr, nil
}

// ScopeAllocate allocates a block that is automatically freed once the
// calling frame returns (spec.md §4.K).
func (h *Heap) ScopeAllocate(size uintptr, caller CallerInfo) (uintptr, error) {
	return h.allocateCore(allocRequest{size: size, kind: record.KindScopeBound, scopeBind: true}, caller, 1)
}

// ScopeFree explicitly frees a scope-bound block before its frame
// returns, beating the automatic sweep to it.
func (h *Heap) ScopeFree(addr uintptr, caller CallerInfo) error {
	return h.releaseCore(addr, caller, 1, true)
}

// ScopeFreeNow is ScopeFree without the requirement that addr be the
// most-recently-pushed scope entry: it searches the whole tracked LIFO,
// for callers that free scope-bound blocks out of creation order.
func (h *Heap) ScopeFreeNow(addr uintptr, caller CallerInfo) error {
	return h.releaseCore(addr, caller, 1, true)
}

// Free releases a scalar, zeroed, aligned or page-placed block.
func (h *Heap) Free(addr uintptr, caller CallerInfo) error {
	return h.releaseCore(addr, caller, 1, false)
}

// ArrayFree releases a block created by a typed-array allocate,
// rejecting anything else with a pairing error.
func (h *Heap) ArrayFree(addr uintptr, caller CallerInfo) error {
	return h.releaseTypedCore(addr, caller, 1)
}

// TypedArrayAllocate allocates n elements of elemSize bytes each, tagged
// with typeName for the pairing check on resize/free.
func (h *Heap) TypedArrayAllocate(n, elemSize uintptr, typeName string, caller CallerInfo) (uintptr, error) {
	tag := &TypeTag{Name: typeName, ElemSize: elemSize}

	return h.allocateCore(allocRequest{size: n * elemSize, kind: record.KindTypedArray, typeTag: tag}, caller, 1)
}

// TypedArrayResize resizes a typed-array block to newN elements.
func (h *Heap) TypedArrayResize(addr uintptr, newN uintptr, caller CallerInfo) (uintptr, error) {
	return h.resizeTypedCore(addr, newN, caller, 1)
}

// TypedArrayFree frees a typed-array block (alias of ArrayFree; kept
// distinct at the API surface to mirror spec.md §6's naming of the three
// typed-array counterparts as a trio).
func (h *Heap) TypedArrayFree(addr uintptr, caller CallerInfo) error {
	return h.releaseTypedCore(addr, caller, 1)
}

// Resize implements realloc semantics: a null pointer behaves as
// Allocate, a new size of zero behaves as Release.
func (h *Heap) Resize(addr uintptr, newSize uintptr, caller CallerInfo) (uintptr, error) {
	return h.resizeCore(addr, newSize, resizeOptions{}, caller, 1)
}

// ResizeOrFree behaves as Resize, except that if the underlying request
// cannot be satisfied the original block is freed anyway (so the caller
// cannot leak it by forgetting to free on a failed realloc).
func (h *Heap) ResizeOrFree(addr uintptr, newSize uintptr, caller CallerInfo) (uintptr, error) {
	return h.resizeCore(addr, newSize, resizeOptions{freeOnFailure: true}, caller, 1)
}

// ResizeZeroExtend behaves as Resize, except that bytes beyond the
// original size are zero-filled instead of stamped with the allocation
// byte.
func (h *Heap) ResizeZeroExtend(addr uintptr, newSize uintptr, caller CallerInfo) (uintptr, error) {
	return h.resizeCore(addr, newSize, resizeOptions{zeroExtend: true}, caller, 1)
}

// ResizeInPlace succeeds only if the block can grow or shrink without
// moving; ok is false (with the original address still valid and
// unchanged) if that is not possible.
func (h *Heap) ResizeInPlace(addr uintptr, newSize uintptr, caller CallerInfo) (ok bool, err error) {
	return h.resizeInPlaceCore(addr, newSize, caller, 1)
}
