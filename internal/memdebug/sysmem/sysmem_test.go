package sysmem

import "testing"

func TestAlignUp(t *testing.T) {
	cases := []struct {
		size, align, want uintptr
	}{
		{0, 4096, 0},
		{1, 4096, 4096},
		{4096, 4096, 4096},
		{4097, 4096, 8192},
		{10, 8, 16},
	}

	for _, c := range cases {
		if got := AlignUp(c.size, c.align); got != c.want {
			t.Errorf("AlignUp(%d, %d) = %d, want %d", c.size, c.align, got, c.want)
		}
	}
}

func TestProviderAcquireRelease(t *testing.T) {
	p := NewProvider()

	r, err := p.Acquire(37)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if !r.Valid() {
		t.Fatal("acquired region is not valid")
	}

	if r.Size < 37 {
		t.Fatalf("region size %d smaller than requested 37", r.Size)
	}

	if r.Size%p.PageSize() != 0 {
		t.Fatalf("region size %d is not a multiple of page size %d", r.Size, p.PageSize())
	}

	// The region must be writable immediately after acquisition.
	for i := range r.Bytes {
		r.Bytes[i] = byte(i)
	}

	if err := p.Release(r); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestProviderPageSize(t *testing.T) {
	p := NewProvider()
	if p.PageSize() == 0 {
		t.Fatal("PageSize() returned 0")
	}

	if p.PointerAlignment() == 0 {
		t.Fatal("PointerAlignment() returned 0")
	}
}
