// Command memdebug-trace is the trace viewer collaborator spec.md §1/§2
// names: a post-mortem reader for the compact LEB128 event stream
// component I writes (spec.md §6's "Trace stream"), printing each event
// or a final per-tag summary.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/orizon-lang/orizon-memdebug/internal/cli"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/tracer"
)

func main() {
	var (
		input       string
		summaryOnly bool
		showVersion bool
		showHelp    bool
		jsonOutput  bool
	)

	flag.StringVar(&input, "input", "", "path to a trace stream file (required)")
	flag.BoolVar(&summaryOnly, "summary", false, "print only per-tag event counts, not every event")
	flag.BoolVar(&showVersion, "version", false, "show version information")
	flag.BoolVar(&showHelp, "help", false, "show help information")
	flag.BoolVar(&jsonOutput, "json", false, "output version in JSON format")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s --input TRACE_FILE [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Decodes a memdebug trace stream (TRACE/TRACEFILE output) event by event.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		cli.PrintVersion("memdebug-trace", jsonOutput)
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

	r, err := tracer.NewReader(f)
	if err != nil {
		cli.ExitWithError("reading trace header: %v", err)
	}

	fmt.Printf("# trace version=%s word=%d bytes\n", r.Version, r.WordLen)

	counts := map[tracer.Tag]int{}

	for {
		ev, err := r.Next()
		if err == io.EOF {
			break
		}

		if err != nil {
			cli.ExitWithError("decoding event: %v", err)
		}

		counts[ev.Tag]++

		if !summaryOnly {
			printEvent(ev)
		}
	}

	fmt.Println("# summary")
	fmt.Printf("  allocate=%d free=%d region=%d internal=%d\n",
		counts[tracer.TagAllocate], counts[tracer.TagFree], counts[tracer.TagRegion], counts[tracer.TagInternal])
}

func printEvent(ev tracer.Event) {
	switch ev.Tag {
	case tracer.TagAllocate:
		fmt.Printf("A index=%d addr=0x%x size=%d\n", ev.Index, ev.Address, ev.Size)
	case tracer.TagFree:
		fmt.Printf("F index=%d\n", ev.Index)
	case tracer.TagRegion:
		fmt.Printf("H addr=0x%x size=%d\n", ev.Address, ev.Size)
	case tracer.TagInternal:
		fmt.Printf("I addr=0x%x size=%d\n", ev.Address, ev.Size)
	default:
		fmt.Printf("? tag=%q\n", byte(ev.Tag))
	}
}
