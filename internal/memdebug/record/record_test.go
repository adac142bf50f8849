package record

import (
	"testing"

	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/sysmem"
)

func newTestStore(t *testing.T, maxRetain int) *Store {
	t.Helper()

	return NewStore(sysmem.NewProvider(), maxRetain)
}

func TestStoreCreateAndFind(t *testing.T) {
	s := newTestStore(t, 0)

	caller := CallerInfo{Func: "example.Alloc", File: "example.go", Line: 42}
	rec := s.Create(0x1000, 64, KindScalar, 7, caller, []uintptr{1, 2, 3}, "", 0)

	if rec.Base() != 0x1000 || rec.Size() != 64 {
		t.Fatalf("unexpected record: base=%#x size=%d", rec.Base(), rec.Size())
	}

	if rec.Index() != 1 {
		t.Fatalf("Index() = %d, want 1", rec.Index())
	}

	if got := rec.Caller(); got != caller {
		t.Fatalf("Caller() = %+v, want %+v", got, caller)
	}

	if got := rec.Stack(); len(got) != 3 {
		t.Fatalf("Stack() len = %d, want 3", len(got))
	}

	found, ok := s.FindLive(0x1000 + 10)
	if !ok {
		t.Fatal("FindLive did not find block containing an interior address")
	}

	if found.Base() != rec.Base() {
		t.Fatalf("FindLive returned base %#x, want %#x", found.Base(), rec.Base())
	}

	if _, ok := s.FindLive(0x2000); ok {
		t.Fatal("FindLive found a block at an address never allocated")
	}
}

func TestStoreReleaseWithoutRetention(t *testing.T) {
	s := newTestStore(t, 0)

	rec := s.Create(0x4000, 32, KindScalar, 0, CallerInfo{}, nil, "", 0)

	if s.LiveCount() != 1 {
		t.Fatalf("LiveCount() = %d, want 1", s.LiveCount())
	}

	purged, ok := s.Release(rec, true)
	if ok || purged != nil {
		t.Fatal("Release with retention disabled must not report a purge")
	}

	if s.LiveCount() != 0 {
		t.Fatalf("LiveCount() after release = %d, want 0", s.LiveCount())
	}

	if s.RetainedCount() != 0 {
		t.Fatalf("RetainedCount() = %d, want 0 when retention is off", s.RetainedCount())
	}

	if _, ok := s.FindLive(0x4000); ok {
		t.Fatal("released block still found live")
	}
}

func TestStoreRetentionAndPurge(t *testing.T) {
	s := newTestStore(t, 2)

	var recs []Record

	for i := 0; i < 3; i++ {
		r := s.Create(uintptr(0x8000+i*0x100), 16, KindScalar, 0, CallerInfo{}, nil, "", 0)
		recs = append(recs, r)
	}

	var purges int

	for _, r := range recs {
		if _, ok := s.Release(r, true); ok {
			purges++
		}
	}

	if s.RetainedCount() != 2 {
		t.Fatalf("RetainedCount() = %d, want 2 (max retain)", s.RetainedCount())
	}

	if purges != 1 {
		t.Fatalf("expected exactly one purge once retention exceeded its max, got %d", purges)
	}

	if _, ok := s.FindRetained(recs[0].Base()); ok {
		t.Fatal("oldest retained record should have been purged")
	}

	if _, ok := s.FindRetained(recs[2].Base()); !ok {
		t.Fatal("most recently freed record should still be retained")
	}
}

func TestStoreWalkLiveAndRetained(t *testing.T) {
	s := newTestStore(t, 5)

	a := s.Create(0x100, 8, KindScalar, 0, CallerInfo{}, nil, "", 0)
	b := s.Create(0x200, 8, KindScalar, 0, CallerInfo{}, nil, "", 0)
	s.Release(a, true)

	var live, retained []uintptr

	s.WalkLive(func(r Record) { live = append(live, r.Base()) })
	s.WalkRetained(func(r Record) { retained = append(retained, r.Base()) })

	if len(live) != 1 || live[0] != b.Base() {
		t.Fatalf("WalkLive = %v, want only %#x", live, b.Base())
	}

	if len(retained) != 1 || retained[0] != a.Base() {
		t.Fatalf("WalkRetained = %v, want only %#x", retained, a.Base())
	}
}

func TestStoreUpdateSizeRekeysAddressIndex(t *testing.T) {
	s := newTestStore(t, 0)

	rec := s.Create(0x5000, 16, KindScalar, 0, CallerInfo{}, nil, "", 0)
	s.UpdateSize(rec, 48)

	if rec.Size() != 48 {
		t.Fatalf("Size() = %d, want 48 (Record wraps the same *RawRecord)", rec.Size())
	}

	if rec.ReallocIndex() != 1 {
		t.Fatalf("ReallocIndex() = %d, want 1", rec.ReallocIndex())
	}

	found, ok := s.FindLive(0x5000 + 40)
	if !ok {
		t.Fatal("FindLive should find the grown range after UpdateSize")
	}

	if found.Base() != 0x5000 {
		t.Fatalf("FindLive returned base %#x, want 0x5000", found.Base())
	}
}

func TestStoreTypedRecordFields(t *testing.T) {
	s := newTestStore(t, 0)

	rec := s.Create(0x900, 40, KindTypedArray, 0, CallerInfo{Func: "f", File: "g.go", Line: 1}, nil, "widget.Header", 8)

	if rec.TypeName() != "widget.Header" {
		t.Fatalf("TypeName() = %q, want widget.Header", rec.TypeName())
	}

	if rec.ElemSize() != 8 {
		t.Fatalf("ElemSize() = %d, want 8", rec.ElemSize())
	}

	if rec.Kind() != KindTypedArray {
		t.Fatalf("Kind() = %v, want KindTypedArray", rec.Kind())
	}
}
