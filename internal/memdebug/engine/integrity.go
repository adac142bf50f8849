package engine

import (
	"fmt"

	memerrors "github.com/orizon-lang/orizon-memdebug/internal/errors"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/lowalloc"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/record"
)

// integritySweepLocked implements spec.md §4.G's integrity sweep: every
// free range still holds the free byte, every retained-freed block still
// holds the free byte (unless the PRESERVE policy keeps its old
// contents), and every live block's guards still hold the overflow byte
// (unless page placement protects them by access fault instead). The
// first failure logs an error, dumps a hex window around it, names the
// owning record when one exists, and aborts the sweep.
func (h *Heap) integritySweepLocked() error {
	var failure error

	h.alloc.WalkFree(func(fr lowalloc.FreeRange) {
		if failure != nil {
			return
		}

		if !h.alloc.ReadRangeFill(fr.Base, fr.Size, h.opts.Policy.FreeByte) {
			failure = h.reportCorruptionLocked("free block corrupted", fr.Base, fr.Size, nil)
		}
	})

	if failure != nil {
		return failure
	}

	h.records.WalkRetained(func(rec record.Record) {
		if failure != nil || h.opts.Policy.Preserve {
			return
		}

		if !h.alloc.ReadRangeFill(rec.Base(), rec.Size(), h.opts.Policy.FreeByte) {
			failure = h.reportCorruptionLocked("retained freed block corrupted", rec.Base(), rec.Size(), &rec)
		}
	})

	if failure != nil {
		return failure
	}

	h.records.WalkLive(func(rec record.Record) {
		if failure != nil {
			return
		}

		blk, ok := h.alloc.Find(rec.Base())
		if !ok {
			return
		}

		read := func(addr uintptr) byte {
			b, _ := h.alloc.ReadByte(addr)

			return b
		}

		if !blk.GuardsIntact(h.opts.Policy.OverflowByte, read) {
			failure = h.reportCorruptionLocked("overflow guard corrupted", blk.LowerGuardBase, blk.RegionSize, &rec)
		}
	})

	return failure
}

func (h *Heap) reportCorruptionLocked(message string, base, size uintptr, owner *record.Record) error {
	window := make([]byte, size)
	for i := uintptr(0); i < size; i++ {
		window[i], _ = h.alloc.ReadByte(base + i)
	}

	h.logf.Error(message, base, window, base, owner)

	return memerrors.Corruption("integrity_sweep", base, fmt.Sprintf("%s at %#x", message, base))
}
