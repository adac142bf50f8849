package engine

import (
	memerrors "github.com/orizon-lang/orizon-memdebug/internal/errors"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/logformat"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/record"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/stackcapture"
)

// resizeOptions selects between the Resize family's three behavioural
// variants (spec.md §6).
type resizeOptions struct {
	freeOnFailure bool
	zeroExtend    bool
}

// resizeCore implements spec.md §4.G's Resize policy.
func (h *Heap) resizeCore(addr uintptr, newSize uintptr, opts resizeOptions, caller CallerInfo, skip int) (uintptr, error) {
	if addr == 0 {
		return h.allocateCore(allocRequest{size: newSize, kind: record.KindScalar}, caller, skip+1)
	}

	if newSize == 0 {
		return 0, h.releaseCore(addr, caller, skip+1, false)
	}

	tok, err := h.enter(&caller, skip+1)
	if err != nil {
		return 0, err
	}
	defer h.leave(tok)

	h.reallocEvents++

	if err := h.checkLiveLocked(addr, "resize"); err != nil {
		return 0, err
	}

	rec, _ := h.records.FindLive(addr)
	if rec.Kind() == record.KindTypedArray {
		return 0, memerrors.UnpairedCall("resize", addr)
	}

	blk, ok := h.alloc.Find(addr)
	if !ok {
		return 0, memerrors.UnknownAddress("resize", addr)
	}

	oldSize := rec.Size()

	if h.alloc.Resize(blk, newSize) {
		if opts.zeroExtend && newSize > oldSize {
			for i := oldSize; i < newSize; i++ {
				h.alloc.WriteByte(addr+i, 0)
			}
		}

		h.records.UpdateSize(rec, newSize)
		h.logf.Record(logformat.KindRealloc, addr, newSize, rec)
		h.checkStop("realloc", tok.event)

		return addr, nil
	}

	newAddr, aerr := h.allocateCoreLocked(allocRequest{size: newSize, kind: rec.Kind()}, caller, rec.Stack())
	if aerr != nil {
		if opts.freeOnFailure {
			h.releaseLocked(addr, false)
		}

		return 0, aerr
	}

	n := oldSize
	if newSize < n {
		n = newSize
	}

	for i := uintptr(0); i < n; i++ {
		b, _ := h.alloc.ReadByte(addr + i)
		h.alloc.WriteByte(newAddr+i, b)
	}

	h.releaseLocked(addr, false)

	return newAddr, nil
}

// allocateCoreLocked is allocateCore's body without its own enter/leave
// pair, for use from resizeCore which already holds the lock and has
// already counted this as one reallocation event.
func (h *Heap) allocateCoreLocked(req allocRequest, caller CallerInfo, stack []uintptr) (uintptr, error) {
	blk, err := h.alloc.GetPlaced(req.size, req.alignment, req.zero, req.placement)
	if err != nil {
		if h.LowMemory != nil {
			h.LowMemory()
		}

		blk, err = h.alloc.GetPlaced(req.size, req.alignment, req.zero, req.placement)
		if err != nil {
			return 0, memerrors.OutOfMemory("resize", req.size)
		}
	}

	rec := h.records.Create(blk.UserBase, blk.UserSize, req.kind, threadID(), caller, stack, "", 0)

	if h.prof != nil {
		if h.prof.RecordAllocate(topPC(stack), uint64(blk.UserSize)) {
			h.saveProfileLocked() //nolint:errcheck
		}
	}

	if h.trace != nil {
		h.trace.Allocate(rec.Index(), uint64(blk.UserBase), uint64(blk.UserSize))
	}

	h.logf.Record(logformat.KindRealloc, blk.UserBase, blk.UserSize, rec)

	return blk.UserBase, nil
}

// resizeTypedCore resizes a typed-array block to newN elements,
// preserving its element size and type name.
func (h *Heap) resizeTypedCore(addr uintptr, newN uintptr, caller CallerInfo, skip int) (uintptr, error) {
	if addr == 0 {
		return 0, memerrors.BadArgument("typed_resize", "cannot allocate a typed array without an existing block to copy its type tag from")
	}

	if newN == 0 {
		return 0, h.releaseTypedCore(addr, caller, skip+1)
	}

	tok, err := h.enter(&caller, skip+1)
	if err != nil {
		return 0, err
	}
	defer h.leave(tok)

	h.reallocEvents++

	if err := h.checkLiveLocked(addr, "typed_resize"); err != nil {
		return 0, err
	}

	rec, _ := h.records.FindLive(addr)
	if rec.Kind() != record.KindTypedArray {
		return 0, memerrors.UnpairedCall("typed_resize", addr)
	}

	blk, ok := h.alloc.Find(addr)
	if !ok {
		return 0, memerrors.UnknownAddress("typed_resize", addr)
	}

	newSize := newN * rec.ElemSize()
	oldSize := rec.Size()

	if h.alloc.Resize(blk, newSize) {
		h.records.UpdateSize(rec, newSize)
		h.logf.Record(logformat.KindRealloc, addr, newSize, rec)

		return addr, nil
	}

	tag := &TypeTag{Name: rec.TypeName(), ElemSize: rec.ElemSize()}

	newAddr, aerr := h.allocateCoreLocked(allocRequest{size: newSize, kind: record.KindTypedArray, typeTag: tag}, caller, stackcapture.Capture(skip+2))
	if aerr != nil {
		return 0, aerr
	}

	n := oldSize
	if newSize < n {
		n = newSize
	}

	for i := uintptr(0); i < n; i++ {
		b, _ := h.alloc.ReadByte(addr + i)
		h.alloc.WriteByte(newAddr+i, b)
	}

	h.releaseLocked(addr, false)

	return newAddr, nil
}

// resizeInPlaceCore only ever returns ok=true when the existing carved
// region already had room, per spec.md §6's "in-place-only resize".
func (h *Heap) resizeInPlaceCore(addr uintptr, newSize uintptr, caller CallerInfo, skip int) (bool, error) {
	tok, err := h.enter(&caller, skip+1)
	if err != nil {
		return false, err
	}
	defer h.leave(tok)

	if err := h.checkLiveLocked(addr, "resize_in_place"); err != nil {
		return false, err
	}

	rec, _ := h.records.FindLive(addr)

	blk, ok := h.alloc.Find(addr)
	if !ok {
		return false, memerrors.UnknownAddress("resize_in_place", addr)
	}

	if !h.alloc.Resize(blk, newSize) {
		return false, nil
	}

	h.reallocEvents++
	h.records.UpdateSize(rec, newSize)
	h.logf.Record(logformat.KindRealloc, addr, newSize, rec)

	return true, nil
}
