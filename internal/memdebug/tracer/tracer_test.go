package tracer

import (
	"bytes"
	"io"
	"testing"
)

func TestLEB128RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<63 - 1}

	for _, v := range values {
		var b []byte

		b = putUvarint(b, v)

		got, n, ok := readUvarint(b)
		if !ok {
			t.Fatalf("readUvarint(%v) failed to decode", b)
		}

		if n != len(b) {
			t.Fatalf("readUvarint consumed %d bytes, want %d", n, len(b))
		}

		if got != v {
			t.Fatalf("round trip %d -> %v -> %d", v, b, got)
		}
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	if err := w.Region(0x10000, 0x4000); err != nil {
		t.Fatalf("Region: %v", err)
	}

	if err := w.Allocate(1, 0x10010, 64); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := w.Internal(0x20000, 256); err != nil {
		t.Fatalf("Internal: %v", err)
	}

	if err := w.Free(1); err != nil {
		t.Fatalf("Free: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	if ok, err := r.CompatibleWith(">=1.0.0, <2.0.0"); err != nil || !ok {
		t.Fatalf("CompatibleWith = %v, %v, want true, nil", ok, err)
	}

	want := []Event{
		{Tag: TagRegion, Address: 0x10000, Size: 0x4000},
		{Tag: TagAllocate, Index: 1, Address: 0x10010, Size: 64},
		{Tag: TagInternal, Address: 0x20000, Size: 256},
		{Tag: TagFree, Index: 1},
	}

	for i, w := range want {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next() #%d: %v", i, err)
		}

		if got != w {
			t.Fatalf("event #%d = %+v, want %+v", i, got, w)
		}
	}

	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("Next() after last event: err = %v, want io.EOF", err)
	}
}

func TestReaderRejectsBadMagic(t *testing.T) {
	if _, err := NewReader(bytes.NewReader([]byte("XXXX\x08"))); err == nil {
		t.Fatal("expected an error for a bad magic header")
	}
}
