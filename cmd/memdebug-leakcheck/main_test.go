package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/tracer"
)

func writeStream(t *testing.T, events func(w *tracer.Writer)) []byte {
	t.Helper()

	var buf bytes.Buffer

	w, err := tracer.NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	events(w)

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	return buf.Bytes()
}

func TestLeaksInReportsUnfreedAllocations(t *testing.T) {
	data := writeStream(t, func(w *tracer.Writer) {
		w.Allocate(1, 0x1000, 16)
		w.Allocate(2, 0x2000, 32)
		w.Free(1)
	})

	path := writeTempFile(t, data)

	leaks, err := leaksIn(path)
	if err != nil {
		t.Fatalf("leaksIn: %v", err)
	}

	if len(leaks) != 1 {
		t.Fatalf("len(leaks) = %d, want 1", len(leaks))
	}

	if leaks[0].index != 2 || leaks[0].address != 0x2000 || leaks[0].size != 32 {
		t.Fatalf("unexpected leak: %+v", leaks[0])
	}
}

func TestLeaksInEmptyWhenAllFreed(t *testing.T) {
	data := writeStream(t, func(w *tracer.Writer) {
		w.Allocate(1, 0x1000, 16)
		w.Free(1)
	})

	path := writeTempFile(t, data)

	leaks, err := leaksIn(path)
	if err != nil {
		t.Fatalf("leaksIn: %v", err)
	}

	if len(leaks) != 0 {
		t.Fatalf("len(leaks) = %d, want 0", len(leaks))
	}
}

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "trace-*.trc")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}

	return f.Name()
}
