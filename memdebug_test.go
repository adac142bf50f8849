package memdebug

import "testing"

func TestAllocateFreeRoundTrip(t *testing.T) {
	Reset("")

	p, err := Allocate(32, CallerInfo{})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if p == 0 {
		t.Fatal("Allocate returned a null address")
	}

	if err := Fill(p, 32, 0x7, CallerInfo{}); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	if err := Free(p, CallerInfo{}); err != nil {
		t.Fatalf("Free: %v", err)
	}

	if got := Summary().LiveBlocks; got != 0 {
		t.Fatalf("LiveBlocks after Free = %d, want 0", got)
	}
}

func TestTypedArrayRoundTrip(t *testing.T) {
	Reset("")

	p, err := TypedArrayAllocate(4, 8, "int64", CallerInfo{})
	if err != nil {
		t.Fatalf("TypedArrayAllocate: %v", err)
	}

	if _, err := TypedArrayResize(p, 8, CallerInfo{}); err != nil {
		t.Fatalf("TypedArrayResize: %v", err)
	}

	if err := TypedArrayFree(p, CallerInfo{}); err != nil {
		t.Fatalf("TypedArrayFree: %v", err)
	}
}

func TestResizeGrowsAndPreservesContent(t *testing.T) {
	Reset("")

	p, err := Allocate(8, CallerInfo{})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := Fill(p, 8, 0x9, CallerInfo{}); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	q, err := Resize(p, 64, CallerInfo{})
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}

	cmp, err := Compare(q, q, 8, CallerInfo{})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	if cmp != 0 {
		t.Fatalf("Compare(q, q) = %d, want 0", cmp)
	}

	if err := Free(q, CallerInfo{}); err != nil {
		t.Fatalf("Free: %v", err)
	}
}
