package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchFileDeliversInitialAndUpdatedOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memdebug.conf")

	if err := os.WriteFile(path, []byte("ALLOCBYTE=0x11"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	results := make(chan Options, 4)

	w, err := WatchFile(path, func(opt Options, err error) {
		if err != nil {
			t.Errorf("onChange error: %v", err)

			return
		}
		results <- opt
	})
	if err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	defer w.Close()

	select {
	case opt := <-results:
		if opt.Policy.AllocByte != 0x11 {
			t.Fatalf("initial AllocByte = %#x, want 0x11", opt.Policy.AllocByte)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial config load")
	}

	if err := os.WriteFile(path, []byte("ALLOCBYTE=0x22"), 0o644); err != nil {
		t.Fatalf("WriteFile (update): %v", err)
	}

	select {
	case opt := <-results:
		if opt.Policy.AllocByte != 0x22 {
			t.Fatalf("updated AllocByte = %#x, want 0x22", opt.Policy.AllocByte)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config reload after write")
	}
}
