package engine

import (
	memerrors "github.com/orizon-lang/orizon-memdebug/internal/errors"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/record"
)

// releaseCore implements spec.md §4.G's Release policy: a null pointer
// is a configurable warning, an unknown pointer or a double-free is
// always an error, otherwise the block is released.
func (h *Heap) releaseCore(addr uintptr, caller CallerInfo, skip int, scopeBound bool) error {
	tok, err := h.enter(&caller, skip+1)
	if err != nil {
		return err
	}
	defer h.leave(tok)

	if addr == 0 {
		h.logf.Error("free called with a null pointer", 0, nil, 0, nil)

		return nil
	}

	if err := h.checkLiveLocked(addr, "free"); err != nil {
		return err
	}

	if rec, ok := h.records.FindLive(addr); ok && rec.Kind() == record.KindTypedArray {
		return memerrors.UnpairedCall("free", addr)
	}

	h.releaseLocked(addr, scopeBound)
	h.checkStop("free", tok.event)

	return nil
}

// releaseTypedCore is releaseCore plus the typed/array pairing check
// (spec.md §4.G Release policy's "allocator-creator mismatch" error).
func (h *Heap) releaseTypedCore(addr uintptr, caller CallerInfo, skip int) error {
	tok, err := h.enter(&caller, skip+1)
	if err != nil {
		return err
	}
	defer h.leave(tok)

	if addr == 0 {
		h.logf.Error("array_free called with a null pointer", 0, nil, 0, nil)

		return nil
	}

	if err := h.checkLiveLocked(addr, "array_free"); err != nil {
		return err
	}

	rec, _ := h.records.FindLive(addr)
	if rec.Kind() != record.KindTypedArray {
		return memerrors.UnpairedCall("array_free", addr)
	}

	h.releaseLocked(addr, false)

	return nil
}

// checkLiveLocked implements the pointer-identity error taxonomy shared
// by every Release/Resize variant: the address must name the start of a
// currently-live block, and must not already be in the retained-freed
// index (a double free).
func (h *Heap) checkLiveLocked(addr uintptr, operation string) error {
	if _, ok := h.records.FindRetained(addr); ok {
		return memerrors.UnknownAddress(operation+": double free", addr)
	}

	rec, ok := h.records.FindLive(addr)
	if !ok {
		return memerrors.UnknownAddress(operation, addr)
	}

	if rec.Base() != addr {
		return memerrors.UnknownAddress(operation+": not start of block", addr)
	}

	return nil
}
