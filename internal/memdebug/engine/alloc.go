package engine

import (
	"fmt"

	memerrors "github.com/orizon-lang/orizon-memdebug/internal/errors"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/logformat"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/lowalloc"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/record"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/scopetracker"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/stackcapture"
)

// threadID reports the identity used for the [thread|function|file|line]
// log tuple (spec.md §4.J); Go has no OS thread id a goroutine can read,
// so the goroutine id already used by the recursive mutex stands in.
func threadID() uint64 { return goroutineID() }

// allocRequest bundles the parameters every allocate-family entry point
// shares, per spec.md §6's "every entry point accepts a caller-location
// tuple ... and a variant taking a type name and element size".
type allocRequest struct {
	size      uintptr
	alignment uintptr
	zero      bool
	placement lowalloc.PagePlacement
	kind      record.Kind
	typeTag   *TypeTag
	scopeBind bool
}

func (h *Heap) allocateCore(req allocRequest, caller CallerInfo, skip int) (uintptr, error) {
	tok, err := h.enter(&caller, skip+1)
	if err != nil {
		return 0, err
	}
	defer h.leave(tok)

	h.allocEvents++

	// Argument validation per spec.md §4.G's Allocate policy ("log warning
	// on size 0, invalid alignment") and §8's boundary rules: a size-0
	// request still succeeds with a real, non-overlapping block, and an
	// alignment bigger than a page is clamped down to page size rather
	// than rejected.
	if req.size == 0 {
		h.logf.Error("allocate: requested size 0, returning non-overlapping zero-byte block", 0, nil, 0, nil)
	}

	if pageSize := h.provider.PageSize(); req.alignment > pageSize {
		h.logf.Error(fmt.Sprintf("allocate: alignment %d exceeds page size %d, clamped", req.alignment, pageSize), 0, nil, 0, nil)

		req.alignment = pageSize
	}

	if h.shouldForceFailure() {
		if h.LowMemory != nil {
			h.LowMemory()
		}

		return 0, memerrors.OutOfMemory("allocate", req.size)
	}

	blk, gerr := h.alloc.GetPlaced(req.size, req.alignment, req.zero, req.placement)
	if gerr != nil {
		if h.LowMemory != nil {
			h.LowMemory()
		}

		blk, gerr = h.alloc.GetPlaced(req.size, req.alignment, req.zero, req.placement)
		if gerr != nil {
			return 0, memerrors.OutOfMemory("allocate", req.size)
		}
	}

	stack := stackcapture.Capture(skip + 2)

	typeName := ""

	var elemSize uintptr

	if req.typeTag != nil {
		typeName = req.typeTag.Name
		elemSize = req.typeTag.ElemSize
	}

	rec := h.records.Create(blk.UserBase, blk.UserSize, req.kind, threadID(), caller, stack, typeName, elemSize)

	if req.scopeBind {
		h.scope.Push(blk.UserBase, scopetracker.Marker{Stack: stack, Depth: stackDepth()})
	}

	if h.prof != nil {
		if h.prof.RecordAllocate(topPC(stack), uint64(blk.UserSize)) {
			h.saveProfileLocked() //nolint:errcheck
		}
	}

	if h.trace != nil {
		h.trace.Allocate(rec.Index(), uint64(blk.UserBase), uint64(blk.UserSize))
	}

	h.logf.Record(logformat.KindAlloc, blk.UserBase, blk.UserSize, rec)
	h.checkStop("alloc", tok.event)

	return blk.UserBase, nil
}

func topPC(stack []uintptr) uint64 {
	if len(stack) == 0 {
		return 0
	}

	return uint64(stack[0])
}

// releaseLocked performs the D.release + F.release work for addr, given
// the engine lock is already held by the caller (used both by the public
// Free family and by the scope-tracker sweep). It is intentionally
// silent about unknown addresses: callers that need the pairing/identity
// error taxonomy check first via findLiveLocked.
func (h *Heap) releaseLocked(addr uintptr, scopeBound bool) {
	rec, ok := h.records.FindLive(addr)
	if !ok || rec.Base() != addr {
		return
	}

	if scopeBound {
		h.scope.Drop(addr)
	}

	blk, ok := h.alloc.Find(addr)
	if !ok {
		return
	}

	retain := h.opts.NoFree > 0

	size, index, stack := rec.Size(), rec.Index(), rec.Stack()

	purged, purgedOK := h.records.Release(rec, retain)
	h.alloc.Release(blk, retain)

	if purgedOK {
		h.alloc.PurgeRetained(purged.Base)
	}

	h.freeEvents++

	if h.trace != nil {
		h.trace.Free(index)
	}

	if h.prof != nil {
		h.prof.RecordFree(topPC(stack), uint64(size))
	}

	h.logf.Event(logformat.KindFree, addr, size, threadID(), rec.Caller(), stack)
}
