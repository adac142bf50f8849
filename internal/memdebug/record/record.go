// Package record implements component F, the allocation record store: one
// metadata record per live or retained-freed user block, carrying the
// caller location, allocation index, captured call stack, type string and
// flag bits required by spec.md §3/§4.F.
//
// Grounded on internal/allocator/allocator.go's AllocationInfo/
// activeAllocations bookkeeping (SystemAllocatorImpl.trackAllocation /
// untrackAllocation / CheckLeaks), generalized from a bare
// map[unsafe.Pointer]*AllocationInfo into the richer schema the spec
// requires and backed by a slotarena.Arena instead of the Go heap.
package record

import (
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/stackcapture"
)

// Kind identifies which entry point created a block.
type Kind uint8

const (
	KindScalar Kind = iota
	KindZeroed
	KindAligned
	KindPageAligned
	KindPageRounded
	KindStringDup
	KindScopeBound
	KindTypedArray
)

// Flags are the per-record bit flags from spec.md §3.
type Flags uint32

const (
	FlagFreed Flags = 1 << iota
	FlagProfiled
	FlagTraced
	FlagInternal
	FlagMarked
)

// CallerInfo is the caller-location tuple every public entry point
// accepts, per spec.md §6.
type CallerInfo struct {
	Func string
	File string
	Line int
}

// RawRecord is the plain-old-data record that actually lives on a
// slotarena page. It holds no Go pointers (strings are interned integer
// IDs, the stack is a fixed array of raw uintptrs) so the page it lives on
// can be safely mprotected read-only between engine operations without
// the Go garbage collector ever needing to scan it.
type RawRecord struct {
	Base         uintptr
	Size         uintptr
	Index        uint64
	ReallocIndex uint64
	ThreadID     uint64
	Stack        [stackcapture.MaxFrames]uintptr
	StackLen     uint8
	Kind         Kind
	Flags        Flags
	CallerFunc   uint32
	CallerFile   uint32
	CallerLine   int32
	TypeName     uint32
	ElemSize     uintptr
}

// Record is a friendly handle over a RawRecord plus the store that can
// resolve its interned strings.
type Record struct {
	raw   *RawRecord
	store *Store
}

// Base returns the address of the user block this record describes.
func (r Record) Base() uintptr { return r.raw.Base }

// Size returns the size of the user block.
func (r Record) Size() uintptr { return r.raw.Size }

// Index returns the monotonically increasing allocation index.
func (r Record) Index() uint64 { return r.raw.Index }

// ReallocIndex returns how many times this record has been resized.
func (r Record) ReallocIndex() uint64 { return r.raw.ReallocIndex }

// Kind returns which entry point created the block.
func (r Record) Kind() Kind { return r.raw.Kind }

// Flags returns the current flag bits.
func (r Record) Flags() Flags { return r.raw.Flags }

// HasFlag reports whether f is set.
func (r Record) HasFlag(f Flags) bool { return r.raw.Flags&f != 0 }

// Caller returns the resolved caller-location tuple.
func (r Record) Caller() CallerInfo {
	return CallerInfo{
		Func: r.store.strings.Lookup(r.raw.CallerFunc),
		File: r.store.strings.Lookup(r.raw.CallerFile),
		Line: int(r.raw.CallerLine),
	}
}

// TypeName returns the interned type string, or "" if untyped.
func (r Record) TypeName() string { return r.store.strings.Lookup(r.raw.TypeName) }

// ElemSize returns the per-element size for typed allocations.
func (r Record) ElemSize() uintptr { return r.raw.ElemSize }

// Stack returns the captured return addresses, top-most first.
func (r Record) Stack() []uintptr {
	return append([]uintptr(nil), r.raw.Stack[:r.raw.StackLen]...)
}

// Raw exposes the backing RawRecord for components (the tracer, the
// integrity sweep) that need direct field access without the string
// lookups.
func (r Record) Raw() *RawRecord { return r.raw }

// New allocates a fresh record from the arena and fills every field, per
// spec.md §4.F.
func New(store *Store, base, size uintptr, kind Kind, index uint64, threadID uint64, caller CallerInfo, stack []uintptr, typeName string, elemSize uintptr) Record {
	slot := store.arena.Obtain()
	raw := (*RawRecord)(slot)

	raw.Base = base
	raw.Size = size
	raw.Kind = kind
	raw.Index = index
	raw.ThreadID = threadID
	raw.CallerFunc = store.strings.Intern(caller.Func)
	raw.CallerFile = store.strings.Intern(caller.File)
	raw.CallerLine = int32(caller.Line)
	raw.TypeName = store.strings.Intern(typeName)
	raw.ElemSize = elemSize

	n := len(stack)
	if n > stackcapture.MaxFrames {
		n = stackcapture.MaxFrames
	}

	copy(raw.Stack[:n], stack[:n])
	raw.StackLen = uint8(n)

	return Record{raw: raw, store: store}
}

