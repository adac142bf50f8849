// Command memdebug-profile is the profiler summariser collaborator
// spec.md §1/§2 names: a post-mortem reader for the binary profile
// stream component H writes (spec.md §6's "Profile stream"), printing
// the global size-class histogram and the heaviest call sites.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/orizon-lang/orizon-memdebug/internal/cli"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/profiler"
)

func main() {
	var (
		input       string
		topN        int
		jsonOutput  bool
		showVersion bool
		showHelp    bool
	)

	flag.StringVar(&input, "input", "", "path to a profile stream file (required)")
	flag.IntVar(&topN, "top", 20, "number of call sites to print, sorted by total bytes")
	flag.BoolVar(&jsonOutput, "json", false, "emit the summary as JSON instead of a text table")
	flag.BoolVar(&showVersion, "version", false, "show version information")
	flag.BoolVar(&showHelp, "help", false, "show help information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s --input PROFILE_FILE [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Summarises a memdebug profile stream (PROF/PROFFILE output).\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		cli.PrintVersion("memdebug-profile", jsonOutput)
		os.Exit(0)
	}

	if input == "" {
		cli.ExitWithError("--input is required")
	}

	f, err := os.Open(input)
	if err != nil {
		cli.ExitWithError("opening %s: %v", input, err)
	}
	defer f.Close()

	snap, err := profiler.Read(f)
	if err != nil {
		cli.ExitWithError("reading profile stream: %v", err)
	}

	if jsonOutput {
		if err := printJSON(snap, topN); err != nil {
			cli.ExitWithError("encoding JSON: %v", err)
		}

		return
	}

	printText(snap, topN)
}

type binJSON struct {
	AllocCount uint64 `json:"alloc_count"`
	FreeCount  uint64 `json:"free_count"`
	AllocBytes uint64 `json:"alloc_bytes"`
	FreeBytes  uint64 `json:"free_bytes"`
}

type siteJSON struct {
	Address string    `json:"address"`
	Bins    [4]binJSON `json:"bins"`
}

type summaryJSON struct {
	Global [4]binJSON `json:"global"`
	Sites  []siteJSON `json:"sites"`
}

func toBinJSON(b profiler.Bin) binJSON {
	return binJSON{AllocCount: b.AllocCount, FreeCount: b.FreeCount, AllocBytes: b.AllocBytes, FreeBytes: b.FreeBytes}
}

func printJSON(snap *profiler.Snapshot, topN int) error {
	out := summaryJSON{}
	for i, b := range snap.Global {
		out.Global[i] = toBinJSON(b)
	}

	sites := sortedSites(snap, topN)
	for _, s := range sites {
		var bins [4]binJSON
		for i, b := range s.bins {
			bins[i] = toBinJSON(b)
		}

		out.Sites = append(out.Sites, siteJSON{Address: fmt.Sprintf("0x%x", s.pc), Bins: bins})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func printText(snap *profiler.Snapshot, topN int) {
	fmt.Println("GLOBAL HISTOGRAM")
	printBinsTable([]string{"small", "medium", "large", "xlarge"}, snap.Global[:])

	sites := sortedSites(snap, topN)

	fmt.Printf("\nTOP %d CALL SITES BY TOTAL ALLOCATED BYTES\n", len(sites))

	for _, s := range sites {
		total := uint64(0)
		for _, b := range s.bins {
			total += b.AllocBytes
		}

		fmt.Printf("  0x%-16x total=%d bytes\n", s.pc, total)
	}
}

func printBinsTable(names []string, bins []profiler.Bin) {
	fmt.Printf("  %-8s %10s %10s %14s %14s\n", "bin", "allocs", "frees", "alloc_bytes", "free_bytes")

	for i, b := range bins {
		fmt.Printf("  %-8s %10d %10d %14d %14d\n", names[i], b.AllocCount, b.FreeCount, b.AllocBytes, b.FreeBytes)
	}
}

type siteEntry struct {
	pc   uint64
	bins [4]profiler.Bin
}

func sortedSites(snap *profiler.Snapshot, topN int) []siteEntry {
	entries := make([]siteEntry, 0, len(snap.Sites))

	for pc, bins := range snap.Sites {
		entries = append(entries, siteEntry{pc: pc, bins: bins})
	}

	sort.Slice(entries, func(i, j int) bool {
		return totalBytes(entries[i].bins) > totalBytes(entries[j].bins)
	})

	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}

	return entries
}

func totalBytes(bins [4]profiler.Bin) uint64 {
	var t uint64
	for _, b := range bins {
		t += b.AllocBytes
	}

	return t
}
