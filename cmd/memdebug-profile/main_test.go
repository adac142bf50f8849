package main

import (
	"testing"

	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/profiler"
)

func TestSortedSitesOrdersByTotalBytesDescending(t *testing.T) {
	snap := &profiler.Snapshot{
		Sites: map[uint64][4]profiler.Bin{
			0x1: {{AllocBytes: 10}, {}, {}, {}},
			0x2: {{AllocBytes: 100}, {}, {}, {}},
			0x3: {{AllocBytes: 50}, {}, {}, {}},
		},
	}

	sites := sortedSites(snap, 2)

	if len(sites) != 2 {
		t.Fatalf("len(sites) = %d, want 2", len(sites))
	}

	if sites[0].pc != 0x2 || sites[1].pc != 0x3 {
		t.Fatalf("unexpected order: %+v", sites)
	}
}

func TestTotalBytesSumsAllBins(t *testing.T) {
	bins := [4]profiler.Bin{
		{AllocBytes: 1},
		{AllocBytes: 2},
		{AllocBytes: 3},
		{AllocBytes: 4},
	}

	if got := totalBytes(bins); got != 10 {
		t.Fatalf("totalBytes = %d, want 10", got)
	}
}
