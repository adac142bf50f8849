// Package memdebug is the public facade spec.md §6 names: the drop-in
// Go surface for the debugging allocator, sitting on top of the
// process-wide singleton in internal/memdebug/heap. It re-exports that
// package's functions and types by value rather than by wrapping
// function, so memdebug.Allocate(...) is the exact same function as
// heap.Allocate(...) — no extra stack frame is inserted between a
// caller and the engine's own caller-location resolution (internal/memdebug/engine's
// enter preamble walks a fixed number of frames above itself per
// spec.md §4.G step 5, so adding a wrapping func here would shift every
// CallerInfo{} auto-resolution by one frame).
package memdebug

import "github.com/orizon-lang/orizon-memdebug/internal/memdebug/heap"

// CallerInfo is the caller-location tuple every entry point accepts,
// per spec.md §6: function, file and line. Pass the zero value to let
// the engine resolve it from the Go call stack instead.
type CallerInfo = heap.CallerInfo

// TypeTag names a typed allocation's element type and size, for the
// typed-array family's pair-matching checks.
type TypeTag = heap.TypeTag

// Counters is the cumulative numeric counter snapshot Summary returns.
type Counters = heap.Counters

// Allocate is the scalar allocate primitive.
var Allocate = heap.Allocate

// AllocateZeroed allocates a zero-filled block.
var AllocateZeroed = heap.AllocateZeroed

// AllocateAligned allocates a block aligned to a caller-chosen power of two.
var AllocateAligned = heap.AllocateAligned

// AllocatePageAligned allocates a block whose user bytes start at a page boundary.
var AllocatePageAligned = heap.AllocatePageAligned

// AllocatePageRounded allocates a block rounded to whole pages with the
// user bytes placed against the upper guard.
var AllocatePageRounded = heap.AllocatePageRounded

// DuplicateString allocates len(s)+1 bytes, copies s, and appends a NUL.
var DuplicateString = heap.DuplicateString

// DuplicateStringN duplicates at most n bytes of s.
var DuplicateStringN = heap.DuplicateStringN

// ScopeAllocate allocates a block freed automatically when the calling
// frame returns.
var ScopeAllocate = heap.ScopeAllocate

// ScopeFree explicitly frees a scope-bound block ahead of the automatic sweep.
var ScopeFree = heap.ScopeFree

// ScopeFreeNow frees a scope-bound block out of LIFO creation order.
var ScopeFreeNow = heap.ScopeFreeNow

// Resize implements realloc semantics.
var Resize = heap.Resize

// ResizeOrFree behaves as Resize but frees the original block on failure
// instead of leaving it to the caller.
var ResizeOrFree = heap.ResizeOrFree

// ResizeZeroExtend behaves as Resize, zero-filling newly exposed bytes.
var ResizeZeroExtend = heap.ResizeZeroExtend

// ResizeInPlace grows or shrinks a block only if it can be done without
// moving it.
var ResizeInPlace = heap.ResizeInPlace

// Free releases a scalar, zeroed, aligned or page-placed block.
var Free = heap.Free

// ArrayFree releases a block created by a typed-array allocate.
var ArrayFree = heap.ArrayFree

// TypedArrayAllocate allocates n elements of elemSize bytes, tagged with typeName.
var TypedArrayAllocate = heap.TypedArrayAllocate

// TypedArrayResize resizes a typed-array block to newN elements.
var TypedArrayResize = heap.TypedArrayResize

// TypedArrayFree frees a typed-array block.
var TypedArrayFree = heap.TypedArrayFree

// Fill stamps size bytes starting at addr with b.
var Fill = heap.Fill

// FillZero stamps size bytes starting at addr with zero.
var FillZero = heap.FillZero

// CopyBounded copies n bytes from src to dst, clamped to maxSize.
var CopyBounded = heap.CopyBounded

// Copy copies n bytes from src to dst.
var Copy = heap.Copy

// CopyOverlapSafe copies n bytes from src to dst, tolerating overlap.
var CopyOverlapSafe = heap.CopyOverlapSafe

// FindByte searches size bytes starting at addr for b.
var FindByte = heap.FindByte

// FindSequence searches size bytes starting at addr for seq.
var FindSequence = heap.FindSequence

// Compare compares n bytes starting at a and b.
var Compare = heap.Compare

// Summary returns the process-wide heap's cumulative counters.
var Summary = heap.Summary

// Shutdown flushes and closes the process-wide heap's log/trace/profile
// streams and applies the UNFREEDABORT policy. Call this once from main
// before the process exits — Go has no atexit(3) a library can hook
// into for itself (see DESIGN.md's Open Questions).
var Shutdown = heap.Shutdown

// Default returns the process-wide engine.Heap, for callers (chiefly
// cmd/memdebug-run) that need direct access to Reset/Prologue/Epilogue/
// LowMemory beyond what the scalar entry points above expose.
var Default = heap.Default

// Reset replaces the process-wide heap with one reading rawOptions
// directly, bypassing the MEMDEBUG_OPTIONS environment variable.
var Reset = heap.Reset
