// Command memdebug-leakcheck is the leak checker collaborator spec.md
// §1/§2 names, reproducing mpatrol's original_source/src/mleak.c as a
// standalone post-mortem tool (SPEC_FULL.md's supplemented-features
// section) rather than folding it only into the main log's SHOWUNFREED
// section: it replays a trace stream, reports every allocation with no
// matching free, and optionally diffs two runs the way
// original_source/src/heapdiff.c compares two heap dumps for new leaks.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/orizon-lang/orizon-memdebug/internal/cli"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/tracer"
)

// liveAlloc is one allocation event with no matching free seen yet.
type liveAlloc struct {
	index   uint64
	address uint64
	size    uint64
}

func main() {
	var (
		input       string
		diffOld     string
		diffNew     string
		showVersion bool
		showHelp    bool
		jsonOutput  bool
	)

	flag.StringVar(&input, "input", "", "path to a trace stream file to check for leaks")
	flag.StringVar(&diffOld, "diff-old", "", "baseline trace stream for --diff-new comparison")
	flag.StringVar(&diffNew, "diff-new", "", "later trace stream; leaks present here but not in --diff-old are reported as new")
	flag.BoolVar(&showVersion, "version", false, "show version information")
	flag.BoolVar(&showHelp, "help", false, "show help information")
	flag.BoolVar(&jsonOutput, "json", false, "output version in JSON format")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s --input TRACE_FILE\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s --diff-old OLD_TRACE --diff-new NEW_TRACE\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Reports allocations with no matching free by the end of the stream.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		cli.PrintVersion("memdebug-leakcheck", jsonOutput)
		os.Exit(0)
	}

	switch {
	case diffOld != "" || diffNew != "":
		if diffOld == "" || diffNew == "" {
			cli.ExitWithError("--diff-old and --diff-new must be given together")
		}

		runDiff(diffOld, diffNew)
	case input != "":
		leaks, err := leaksIn(input)
		if err != nil {
			cli.ExitWithError("%v", err)
		}

		report(leaks)
	default:
		cli.ExitWithError("--input or --diff-old/--diff-new is required")
	}
}

// leaksIn replays a trace stream and returns every allocation that was
// never matched by a free event, sorted by total bytes descending (the
// same grouping original_source/src/mleak.c uses for its report).
func leaksIn(path string) ([]liveAlloc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r, err := tracer.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading trace header: %w", err)
	}

	live := map[uint64]liveAlloc{}

	for {
		ev, err := r.Next()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("decoding event: %w", err)
		}

		switch ev.Tag {
		case tracer.TagAllocate:
			live[ev.Index] = liveAlloc{index: ev.Index, address: ev.Address, size: ev.Size}
		case tracer.TagFree:
			delete(live, ev.Index)
		}
	}

	out := make([]liveAlloc, 0, len(live))
	for _, a := range live {
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].size > out[j].size })

	return out, nil
}

func report(leaks []liveAlloc) {
	if len(leaks) == 0 {
		fmt.Println("no leaks found")

		return
	}

	var total uint64

	for _, l := range leaks {
		fmt.Printf("leak: index=%d addr=0x%x size=%d\n", l.index, l.address, l.size)
		total += l.size
	}

	fmt.Printf("\n%d leak(s), %d byte(s) total\n", len(leaks), total)
	os.Exit(1)
}

// runDiff reports leaks present in the new run but absent (by address)
// from the old run's leak set — allocations that are new regressions
// rather than already-known retained state, mirroring heapdiff.c.
func runDiff(oldPath, newPath string) {
	oldLeaks, err := leaksIn(oldPath)
	if err != nil {
		cli.ExitWithError("%v", err)
	}

	newLeaks, err := leaksIn(newPath)
	if err != nil {
		cli.ExitWithError("%v", err)
	}

	seen := make(map[uint64]struct{}, len(oldLeaks))
	for _, l := range oldLeaks {
		seen[l.address] = struct{}{}
	}

	var fresh []liveAlloc

	for _, l := range newLeaks {
		if _, ok := seen[l.address]; !ok {
			fresh = append(fresh, l)
		}
	}

	if len(fresh) == 0 {
		fmt.Println("no new leaks since baseline")

		return
	}

	var total uint64

	for _, l := range fresh {
		fmt.Printf("new leak: index=%d addr=0x%x size=%d\n", l.index, l.address, l.size)
		total += l.size
	}

	fmt.Printf("\n%d new leak(s), %d byte(s) total\n", len(fresh), total)
	os.Exit(1)
}
