// This file implements spec.md §6's set/copy/compare/search family: byte
// fill, zero fill, bounded copy, copy, overlap-safe copy, byte search,
// sub-sequence search and compare, all funneling through validateRange's
// shared bounds check (spec.md §4.G's "set/copy/compare/search" policy).
package engine

import (
	"bytes"

	memerrors "github.com/orizon-lang/orizon-memdebug/internal/errors"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/logformat"
)

// validateRangeLocked checks that [addr, addr+size) lies entirely within
// one live block, per spec.md §4.G's set/copy/compare/search policy. If
// the ALLOWOFLOW policy is active, an overflowing range is permitted
// with a logged warning instead of an error.
func (h *Heap) validateRangeLocked(operation string, addr, size uintptr) error {
	rec, ok := h.records.FindLive(addr)
	if !ok {
		return memerrors.UnknownAddress(operation, addr)
	}

	if addr+size > rec.Base()+rec.Size() {
		if h.opts.AllowOflow {
			h.logf.Error(operation+": range extends past the end of its block (allowed by policy)", addr, nil, 0, &rec)

			return nil
		}

		return memerrors.Corruption(operation, addr, "range extends past the end of its containing block")
	}

	return nil
}

func (h *Heap) memOp(operation string, addr, size uintptr, caller CallerInfo, skip int, fn func() error) error {
	tok, err := h.enter(&caller, skip+1)
	if err != nil {
		return err
	}
	defer h.leave(tok)

	if err := h.validateRangeLocked(operation, addr, size); err != nil {
		return err
	}

	return fn()
}

// Fill stores b into size bytes starting at addr (memset).
func (h *Heap) Fill(addr, size uintptr, b byte, caller CallerInfo) error {
	return h.memOp("memset", addr, size, caller, 1, func() error {
		for i := uintptr(0); i < size; i++ {
			h.alloc.WriteByte(addr+i, b)
		}

		h.logf.Event(logformat.KindMemSet, addr, size, threadID(), caller, nil)

		return nil
	})
}

// FillZero stores zero into size bytes starting at addr (bzero).
func (h *Heap) FillZero(addr, size uintptr, caller CallerInfo) error {
	return h.Fill(addr, size, 0, caller)
}

// CopyBounded copies min(n, maxSize) bytes from src to dst, clamping
// instead of erroring when the caller's requested n exceeds maxSize.
func (h *Heap) CopyBounded(dst, src uintptr, n, maxSize uintptr, caller CallerInfo) (uintptr, error) {
	if n > maxSize {
		n = maxSize
	}

	return n, h.copyRange("memcpy_bounded", dst, src, n, caller, 1)
}

// Copy copies exactly n bytes from src to dst (memcpy); the ranges must
// not overlap (use CopyOverlapSafe if they might).
func (h *Heap) Copy(dst, src, n uintptr, caller CallerInfo) error {
	return h.copyRange("memcpy", dst, src, n, caller, 1)
}

// CopyOverlapSafe copies n bytes from src to dst, correctly handling
// overlapping ranges (memmove). Go's builtin copy already implements
// memmove semantics for overlapping byte ranges, so this differs from
// Copy only in the guarantee it makes, not in the bytes moved.
func (h *Heap) CopyOverlapSafe(dst, src, n uintptr, caller CallerInfo) error {
	return h.copyRange("memmove", dst, src, n, caller, 1)
}

func (h *Heap) copyRange(operation string, dst, src, n uintptr, caller CallerInfo, skip int) error {
	tok, err := h.enter(&caller, skip+1)
	if err != nil {
		return err
	}
	defer h.leave(tok)

	if err := h.validateRangeLocked(operation, dst, n); err != nil {
		return err
	}

	if err := h.validateRangeLocked(operation, src, n); err != nil {
		return err
	}

	buf := make([]byte, n)
	for i := uintptr(0); i < n; i++ {
		buf[i], _ = h.alloc.ReadByte(src + i)
	}

	for i := uintptr(0); i < n; i++ {
		h.alloc.WriteByte(dst+i, buf[i])
	}

	h.logf.Event(logformat.KindMemCpy, dst, n, threadID(), caller, nil)

	return nil
}

// FindByte searches size bytes starting at addr for the first occurrence
// of b (memchr), returning its address and whether it was found.
func (h *Heap) FindByte(addr, size uintptr, b byte, caller CallerInfo) (uintptr, bool, error) {
	var at uintptr

	var found bool

	err := h.memOp("memchr", addr, size, caller, 1, func() error {
		for i := uintptr(0); i < size; i++ {
			cur, _ := h.alloc.ReadByte(addr + i)
			if cur == b {
				at, found = addr+i, true

				break
			}
		}

		h.logf.Event(logformat.KindMemFind, addr, size, threadID(), caller, nil)

		return nil
	})

	return at, found, err
}

// FindSequence searches size bytes starting at addr for the first
// occurrence of seq.
func (h *Heap) FindSequence(addr, size uintptr, seq []byte, caller CallerInfo) (uintptr, bool, error) {
	var at uintptr

	var found bool

	err := h.memOp("memfind", addr, size, caller, 1, func() error {
		window := make([]byte, size)
		for i := uintptr(0); i < size; i++ {
			window[i], _ = h.alloc.ReadByte(addr + i)
		}

		if idx := bytes.Index(window, seq); idx >= 0 {
			at, found = addr+uintptr(idx), true
		}

		h.logf.Event(logformat.KindMemFind, addr, size, threadID(), caller, nil)

		return nil
	})

	return at, found, err
}

// Compare compares n bytes starting at a against n bytes starting at b
// (memcmp), returning -1/0/1.
func (h *Heap) Compare(a, b, n uintptr, caller CallerInfo) (int, error) {
	var result int

	err := h.memOp("memcmp", a, n, caller, 1, func() error {
		if err := h.validateRangeLocked("memcmp", b, n); err != nil {
			return err
		}

		for i := uintptr(0); i < n; i++ {
			x, _ := h.alloc.ReadByte(a + i)
			y, _ := h.alloc.ReadByte(b + i)

			if x != y {
				if x < y {
					result = -1
				} else {
					result = 1
				}

				break
			}
		}

		h.logf.Event(logformat.KindMemCmp, a, n, threadID(), caller, nil)

		return nil
	})

	return result, err
}
