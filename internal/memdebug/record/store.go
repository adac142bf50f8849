package record

import (
	"container/list"
	"sync/atomic"
	"unsafe"

	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/rangeindex"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/slotarena"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/sysmem"
)

// Store owns the slot arena and the allocated/retained-freed address
// indices for every record in the process, per spec.md §4.F.
type Store struct {
	arena      *slotarena.Arena
	strings    *StringTable
	allocated  *rangeindex.Tree
	retained   *rangeindex.Tree
	retainOrd  *list.List // FIFO of *RawRecord, oldest-first, for NOFREE purge
	retainByPt map[*RawRecord]*list.Element
	maxRetain  int
	nextIndex  uint64
}

// NewStore creates an empty record store backed by provider. maxRetain is
// the NOFREE policy's retention count (0 disables retention).
func NewStore(provider sysmem.Provider, maxRetain int) *Store {
	return &Store{
		arena:      slotarena.New(provider, unsafe.Sizeof(RawRecord{}), unsafe.Alignof(RawRecord{})),
		strings:    NewStringTable(),
		allocated:  rangeindex.New(rangeindex.ByBase),
		retained:   rangeindex.New(rangeindex.ByBase),
		retainOrd:  list.New(),
		retainByPt: make(map[*RawRecord]*list.Element),
		maxRetain:  maxRetain,
	}
}

// Strings returns the interned string table, for readers that need to
// render a caller/type name outside a Record (e.g. the log formatter
// walking a raw record off the trace stream).
func (s *Store) Strings() *StringTable { return s.strings }

// NextIndex atomically allocates and returns the next allocation index.
func (s *Store) NextIndex() uint64 {
	return atomic.AddUint64(&s.nextIndex, 1)
}

// Create builds and indexes a new live record.
func (s *Store) Create(base, size uintptr, kind Kind, threadID uint64, caller CallerInfo, stack []uintptr, typeName string, elemSize uintptr) Record {
	idx := s.NextIndex()
	rec := New(s, base, size, kind, idx, threadID, caller, stack, typeName, elemSize)
	s.allocated.Insert(&rangeindex.Entry{Base: base, Size: size, Value: rec.raw})

	return rec
}

// FindLive returns the record whose block contains addr, if any.
func (s *Store) FindLive(addr uintptr) (Record, bool) {
	e := s.allocated.FindContaining(addr)
	if e == nil {
		return Record{}, false
	}

	return Record{raw: e.Value.(*RawRecord), store: s}, true
}

// FindRetained returns the retained-freed record whose block contains
// addr, if any (component D's find_freed).
func (s *Store) FindRetained(addr uintptr) (Record, bool) {
	e := s.retained.FindContaining(addr)
	if e == nil {
		return Record{}, false
	}

	return Record{raw: e.Value.(*RawRecord), store: s}, true
}

// Release frees rec. If retain is true (the NOFREE policy is active), the
// record's freed flag is set and it moves into the retained-freed index
// instead of being returned to the arena; the oldest retained record is
// purged (its slot returned to the arena and its range dropped from the
// retained index) once the configured maximum is exceeded. Release
// reports the purged record, if any, so the low-level allocator can
// reclaim its range.
func (s *Store) Release(rec Record, retain bool) (purged *RawRecord, purgedOK bool) {
	s.allocated.Remove(&rangeindex.Entry{Base: rec.raw.Base, Size: rec.raw.Size, Value: rec.raw})

	if !retain || s.maxRetain == 0 {
		s.arena.Return(unsafe.Pointer(rec.raw))

		return nil, false
	}

	rec.raw.Flags |= FlagFreed
	s.retained.Insert(&rangeindex.Entry{Base: rec.raw.Base, Size: rec.raw.Size, Value: rec.raw})
	el := s.retainOrd.PushBack(rec.raw)
	s.retainByPt[rec.raw] = el

	if s.retainOrd.Len() > s.maxRetain {
		oldest := s.retainOrd.Front()
		old := oldest.Value.(*RawRecord)
		s.retainOrd.Remove(oldest)
		delete(s.retainByPt, old)
		s.retained.Remove(&rangeindex.Entry{Base: old.Base, Size: old.Size, Value: old})
		s.arena.Return(unsafe.Pointer(old))

		return old, true
	}

	return nil, false
}

// UpdateSize re-keys a live record after an in-place resize (spec.md
// §4.D's resize algorithm succeeding without relocation): the address
// index must be rebuilt since Entry copies Base/Size at insertion time
// rather than reading them back off the record.
func (s *Store) UpdateSize(rec Record, newSize uintptr) {
	s.allocated.Remove(&rangeindex.Entry{Base: rec.raw.Base, Size: rec.raw.Size, Value: rec.raw})
	rec.raw.Size = newSize
	rec.raw.ReallocIndex++
	s.allocated.Insert(&rangeindex.Entry{Base: rec.raw.Base, Size: rec.raw.Size, Value: rec.raw})
}

// Walk visits every live record.
func (s *Store) WalkLive(visit func(Record)) {
	s.allocated.Walk(func(e *rangeindex.Entry) {
		visit(Record{raw: e.Value.(*RawRecord), store: s})
	})
}

// WalkRetained visits every retained-freed record.
func (s *Store) WalkRetained(visit func(Record)) {
	s.retained.Walk(func(e *rangeindex.Entry) {
		visit(Record{raw: e.Value.(*RawRecord), store: s})
	})
}

// LiveCount returns the number of currently live records.
func (s *Store) LiveCount() int { return s.allocated.Len() }

// RetainedCount returns the number of retained-freed records.
func (s *Store) RetainedCount() int { return s.retained.Len() }

// Slabs exposes the arena's backing regions for integrity sweeps and
// metadata page protection toggling (spec.md §4.G postamble step 1).
func (s *Store) Slabs() []sysmem.Region { return s.arena.Slabs() }
