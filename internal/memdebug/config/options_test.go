package config

import (
	"testing"
	"time"

	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/lowalloc"
)

func TestParseDefaults(t *testing.T) {
	opt, err := Parse("")
	if err != nil {
		t.Fatalf("Parse(\"\"): %v", err)
	}

	def := Default()
	if opt.Policy.AllocByte != def.Policy.AllocByte {
		t.Fatalf("AllocByte = %#x, want default %#x", opt.Policy.AllocByte, def.Policy.AllocByte)
	}

	if opt.AllocaBias != 256 {
		t.Fatalf("AllocaBias = %d, want 256", opt.AllocaBias)
	}
}

func TestParseByteAndIntegerOptions(t *testing.T) {
	opt, err := Parse("ALLOCBYTE=0xAB FREEBYTE=99 OFLOWSIZE=32 DEFALIGN=16 LIMIT=65536")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if opt.Policy.AllocByte != 0xAB {
		t.Fatalf("AllocByte = %#x, want 0xAB", opt.Policy.AllocByte)
	}

	if opt.Policy.FreeByte != 99 {
		t.Fatalf("FreeByte = %d, want 99", opt.Policy.FreeByte)
	}

	if opt.Policy.OverflowSize != 32 {
		t.Fatalf("OverflowSize = %d, want 32", opt.Policy.OverflowSize)
	}

	if opt.Policy.DefaultAlign != 16 {
		t.Fatalf("DefaultAlign = %d, want 16", opt.Policy.DefaultAlign)
	}

	if opt.Policy.Limit != 65536 {
		t.Fatalf("Limit = %d, want 65536", opt.Policy.Limit)
	}
}

func TestParseFlagsAndRanges(t *testing.T) {
	opt, err := Parse("CHECKALL PRESERVE OFLOWWATCH CHECK=10-20 PAGEALLOC=UPPER NOFREE=5")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !opt.CheckAll || !opt.Policy.Preserve || !opt.Policy.OverflowWatch {
		t.Fatalf("boolean flags not applied: %+v", opt)
	}

	if opt.CheckFrom != 10 || opt.CheckTo != 20 {
		t.Fatalf("CHECK range = [%d,%d], want [10,20]", opt.CheckFrom, opt.CheckTo)
	}

	if opt.Policy.PageAlloc != lowalloc.PageAllocUpper {
		t.Fatalf("PageAlloc = %v, want PageAllocUpper", opt.Policy.PageAlloc)
	}

	if opt.NoFree != 5 {
		t.Fatalf("NoFree = %d, want 5", opt.NoFree)
	}
}

func TestParseBareNoFreeDefaultsToOne(t *testing.T) {
	opt, err := Parse("NOFREE")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if opt.NoFree != 1 {
		t.Fatalf("bare NOFREE = %d, want 1", opt.NoFree)
	}
}

func TestParseInvalidAlignmentRejected(t *testing.T) {
	if _, err := Parse("DEFALIGN=3"); err == nil {
		t.Fatal("expected an error for a non-power-of-two alignment")
	}
}

func TestParseUnknownKeyRejected(t *testing.T) {
	if _, err := Parse("NOTAREALOPTION=1"); err == nil {
		t.Fatal("expected an error for an unrecognised option key")
	}
}

func TestSubstituteFilename(t *testing.T) {
	ts := time.Date(2026, 7, 29, 13, 5, 9, 0, time.UTC)

	got := SubstituteFilename("/var/log/%p-%d-%t.log", ts, "/usr/bin/myapp")
	want := "/var/log/myapp-20260729-130509.log"

	if got != want {
		t.Fatalf("SubstituteFilename = %q, want %q", got, want)
	}
}

func TestSubstituteFilenameFlattensPath(t *testing.T) {
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	got := SubstituteFilename("%f.trace", ts, "/usr/local/bin/myapp")
	if got != "_usr_local_bin_myapp.trace" {
		t.Fatalf("SubstituteFilename = %q", got)
	}
}
