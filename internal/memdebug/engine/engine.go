// Package engine implements component G, the high-level orchestrator
// that mediates every public heap operation: entry/exit bookkeeping,
// lazy first-call initialization, the integrity sweep, and the
// error-taxonomy reporting, per spec.md §4.G/§5/§7.
//
// Grounded on internal/errors/standard.go's category/code/message/caller
// StandardError for every error it raises, and on the teacher's
// "acquire lock, do the thing, release lock" shape wherever a single
// process-wide critical section appears elsewhere in the pack
// (internal/runtime/region_memory.go's Region methods).
package engine

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	memerrors "github.com/orizon-lang/orizon-memdebug/internal/errors"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/config"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/logformat"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/lowalloc"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/profiler"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/record"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/scopetracker"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/sighandler"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/stackcapture"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/symbols"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/sysmem"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/tracer"
)

// metadataAccess is the protection this port flips internal metadata
// pages to while an operation is executing, per spec.md §3/§4.G/§5: read
// -write while a call is in flight, read-only the instant it returns.
// Unlike the live-block guard regions (which stay at AccessNone so any
// touch traps), metadata itself must remain legible to the next
// operation's own reads between writes, so the idle state is
// AccessRead rather than AccessNone.
const metadataIdleAccess = sysmem.AccessRead

// CallerInfo is the caller-location tuple every public entry point
// accepts, per spec.md §6. It is the same shape record.CallerInfo
// already defines; engine reuses it rather than declaring a second,
// field-for-field identical struct.
type CallerInfo = record.CallerInfo

// TypeTag names a typed allocation's element type and size, for the
// typed-array entry points' pair-matching checks (spec.md §4.G Resize
// policy).
type TypeTag struct {
	Name     string
	ElemSize uintptr
}

// Counters are the cumulative numeric counters spec.md §6's log-stream
// summary table reports.
type Counters struct {
	Events        uint64
	Allocations   uint64
	Reallocations uint64
	Frees         uint64
	LiveBytes     uintptr
	LiveBlocks    int
	RetainedBytes uintptr
	RetainedCount int
}

// Heap is the process-wide orchestrator, component G. One Heap owns one
// complete set of collaborators (allocator, record store, profiler,
// tracer, log formatter, scope tracker); the heap facade package keeps a
// single process-wide instance, matching spec.md §5's "single
// process-wide recursive mutex" model.
type Heap struct {
	mu *recursiveMutex

	rawOptions  string
	opts        config.Options
	initialized bool
	initErr     error

	provider sysmem.Provider
	alloc    *lowalloc.Allocator
	records  *record.Store
	syms     *symbols.Reader
	scope    *scopetracker.Tracker
	prof     *profiler.Profiler
	profName string
	trace    *tracer.Writer
	traceOut io.Closer
	logf     *logformat.Formatter
	logOut   io.Closer
	sigs     *sighandler.Handler

	failRand *rand.Rand

	eventCounter  uint64
	allocEvents   uint64
	reallocEvents uint64
	freeEvents    uint64

	// Prologue and Epilogue are invoked, if set, inside every entry's
	// preamble/postamble (spec.md §4.G steps 7 and postamble step 2).
	Prologue func()
	Epilogue func()
	// LowMemory is invoked when the low-level allocator cannot satisfy a
	// request, before Allocate retries once.
	LowMemory func()
}

// New creates a heap whose options string will be parsed on first use
// (spec.md §4.G step 3's lazy initialization). rawOptions uses the
// grammar internal/memdebug/config.Parse accepts.
func New(rawOptions string) *Heap {
	return &Heap{
		mu:         newRecursiveMutex(),
		rawOptions: rawOptions,
	}
}

func (h *Heap) initializeLocked() error {
	opts, err := config.Parse(h.rawOptions)
	if err != nil {
		return fmt.Errorf("engine: parsing options: %w", err)
	}

	h.opts = opts
	h.provider = sysmem.NewProvider()
	h.alloc = lowalloc.New(h.provider, opts.Policy)
	h.records = record.NewStore(h.provider, int(opts.NoFree))
	h.syms = symbols.New()

	mode := scopetracker.ModeFullStack
	h.scope = scopetracker.New(mode, int(opts.AllocaBias))

	if opts.FailFreq != 0 {
		h.failRand = rand.New(rand.NewSource(int64(opts.FailSeed))) //nolint:gosec
	}

	if opts.ProfileFile != "" {
		h.prof = profiler.New(profiler.Bounds{Small: opts.SmallBound, Medium: opts.MediumBound, Large: opts.LargeBound}, opts.AutoSave)
		h.profName = config.SubstituteFilename(opts.ProfileFile, time.Now(), progPath())
	}

	if opts.TraceFile != "" {
		name := config.SubstituteFilename(opts.TraceFile, time.Now(), progPath())

		f, ferr := os.Create(name)
		if ferr != nil {
			return fmt.Errorf("engine: opening trace file: %w", ferr)
		}

		w, werr := tracer.NewWriter(f)
		if werr != nil {
			f.Close()

			return fmt.Errorf("engine: writing trace header: %w", werr)
		}

		h.trace = w
		h.traceOut = f
	}

	logName := opts.LogFile
	if logName == "" {
		h.logf = logformat.New(os.Stderr, h.syms)
	} else {
		name := config.SubstituteFilename(logName, time.Now(), progPath())

		f, ferr := os.Create(name)
		if ferr != nil {
			return fmt.Errorf("engine: opening log file: %w", ferr)
		}

		h.logf = logformat.New(f, h.syms)
		h.logOut = f
	}

	if opts.SafeSignals {
		h.sigs = sighandler.NewHandler(nil)
	}

	h.initialized = true

	return nil
}

// opToken is returned by enter and consumed by leave, carrying whether
// this call was the outermost (non-reentrant) one.
type opToken struct {
	outer bool
	event uint64
}

// enter implements spec.md §4.G's entry preamble. caller, if non-nil and
// empty, is resolved from the Go call stack skip frames above the public
// entry point that called in.
func (h *Heap) enter(caller *CallerInfo, skip int) (opToken, error) {
	depth := h.mu.Lock()
	outer := depth == 1

	if outer {
		if !h.initialized {
			if err := h.initializeLocked(); err != nil {
				h.mu.Unlock()

				return opToken{}, err
			}
		}

		if h.opts.SafeSignals && h.sigs != nil {
			h.sigs.Save(os.Interrupt)
		}

		h.protectMetadataLocked(sysmem.AccessReadWrite)
	}

	ev := atomic.AddUint64(&h.eventCounter, 1)

	if h.shouldCheckLocked(ev) {
		if err := h.integritySweepLocked(); err != nil {
			h.leaveLocked(outer)

			return opToken{}, err
		}
	}

	if caller != nil && caller.Func == "" && caller.File == "" {
		pcs := make([]uintptr, 1)
		if n := runtime.Callers(skip+3, pcs); n > 0 {
			*caller = h.syms.CallerInfo(pcs[0])
		}
	}

	h.sweepScopeLocked()

	if h.Prologue != nil {
		h.Prologue()
	}

	return opToken{outer: outer, event: ev}, nil
}

// leave implements spec.md §4.G's entry postamble.
func (h *Heap) leave(tok opToken) {
	if h.Epilogue != nil {
		h.Epilogue()
	}

	h.leaveLocked(tok.outer)
}

func (h *Heap) leaveLocked(outer bool) {
	if outer {
		h.protectMetadataLocked(metadataIdleAccess)

		if h.opts.SafeSignals && h.sigs != nil {
			h.sigs.Restore()
		}
	}

	h.mu.Unlock()
}

// protectMetadataLocked flips every internal metadata slab (currently
// just the record store's slotarena, the one component that allocates
// long-lived metadata pages rather than working entirely off the Go
// heap) to access, per spec.md §4.G postamble step 1 / §5's "metadata
// pages are mapped read-only between operations. Each operation
// explicitly flips them to read-write at entry and back at exit." A
// no-op before the record store exists (first-ever call, before any
// slab has been seeded) and entirely under the NOPROTECT policy, which
// spec.md §6 defines as "leave metadata pages read-write."
func (h *Heap) protectMetadataLocked(access sysmem.Access) {
	if h.opts.NoProtect || h.records == nil {
		return
	}

	for _, slab := range h.records.Slabs() {
		_ = h.provider.Protect(slab, access)
	}
}

func (h *Heap) shouldCheckLocked(event uint64) bool {
	if h.opts.CheckAll {
		return true
	}

	if h.opts.CheckFrom == 0 && h.opts.CheckTo == 0 {
		return false
	}

	return event >= h.opts.CheckFrom && event <= h.opts.CheckTo
}

func (h *Heap) sweepScopeLocked() {
	if h.scope == nil {
		return
	}

	marker := scopetracker.Marker{Stack: stackcapture.Capture(1), Depth: stackDepth()}

	h.scope.Sweep(marker, func(addr uintptr) {
		h.releaseLocked(addr, false)
	})
}

func stackDepth() int {
	pcs := make([]uintptr, 64)

	return runtime.Callers(0, pcs)
}

func (h *Heap) shouldForceFailure() bool {
	if h.failRand == nil || h.opts.FailFreq == 0 {
		return false
	}

	return h.failRand.Uint64()%h.opts.FailFreq == 0
}

func (h *Heap) checkStop(kind string, event uint64) {
	var stop uint64

	switch kind {
	case "alloc":
		stop = h.opts.AllocStop
	case "realloc":
		stop = h.opts.ReallocStop
	case "free":
		stop = h.opts.FreeStop
	}

	if stop != 0 && event == stop {
		runtime.Breakpoint()
	}
}

// Summary returns a snapshot of the cumulative counters, for the log
// stream's closing summary table and the UNFREEDABORT check.
func (h *Heap) Summary() Counters {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := Counters{
		Events:        h.eventCounter,
		Allocations:   h.allocEvents,
		Reallocations: h.reallocEvents,
		Frees:         h.freeEvents,
	}

	if h.alloc != nil {
		c.LiveBytes = h.alloc.Used()
	}

	if h.records != nil {
		c.LiveBlocks = h.records.LiveCount()
		c.RetainedCount = h.records.RetainedCount()
	}

	return c
}

// Shutdown flushes and closes the log/trace streams and applies the
// UNFREEDABORT policy. Go has no process-exit-hook primitive analogous
// to atexit(3) that a library can register for itself (spec.md §4.G
// step 3's "register an exit hook" is therefore not literally portable);
// callers — chiefly cmd/memdebug-run — call Shutdown explicitly once the
// wrapped program finishes, which is the idiomatic Go substitute and is
// recorded as a redesign decision in DESIGN.md.
func (h *Heap) Shutdown() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.initialized {
		return nil
	}

	summary := Counters{
		Events: h.eventCounter, Allocations: h.allocEvents,
		Reallocations: h.reallocEvents, Frees: h.freeEvents,
	}

	if h.alloc != nil {
		summary.LiveBytes = h.alloc.Used()
	}

	if h.records != nil {
		summary.LiveBlocks = h.records.LiveCount()
	}

	fmt.Fprintf(logWriter(h.logf), "summary: events=%d allocs=%d reallocs=%d frees=%d live_bytes=%d live_blocks=%d\n",
		summary.Events, summary.Allocations, summary.Reallocations, summary.Frees, summary.LiveBytes, summary.LiveBlocks)

	err := h.saveProfileLocked()

	if h.trace != nil {
		if terr := h.trace.Close(); err == nil {
			err = terr
		}
	}

	if h.logOut != nil {
		if cerr := h.logOut.Close(); err == nil {
			err = cerr
		}
	}

	if h.opts.UnfreedAbort != 0 && summary.LiveBytes >= h.opts.UnfreedAbort {
		return memerrors.NewStandardError(memerrors.CategoryCorruption, "UNFREED_ABORT",
			fmt.Sprintf("%d live bytes at shutdown, exceeds UNFREEDABORT=%d", summary.LiveBytes, h.opts.UnfreedAbort),
			map[string]interface{}{"live_bytes": summary.LiveBytes})
	}

	return err
}

// saveProfileLocked writes the current profiler state to profName,
// replacing any prior snapshot, per spec.md §4.H's "auto-save frequency
// ... triggers a dump of the profile stream." Called both from the
// autosave check in allocateCore/resizeCore and once more from Shutdown
// so the final snapshot always reflects the heap's state at exit.
func (h *Heap) saveProfileLocked() error {
	if h.prof == nil || h.profName == "" {
		return nil
	}

	f, err := os.Create(h.profName)
	if err != nil {
		return fmt.Errorf("engine: opening profile file: %w", err)
	}
	defer f.Close()

	return h.prof.Write(f)
}

func logWriter(f *logformat.Formatter) io.Writer {
	if f == nil {
		return io.Discard
	}

	return formatterWriter{f}
}

// formatterWriter adapts Formatter's line-writing methods to io.Writer
// for the one free-form summary line Shutdown writes directly.
type formatterWriter struct{ f *logformat.Formatter }

func (w formatterWriter) Write(p []byte) (int, error) {
	w.f.Raw(string(p))

	return len(p), nil
}

func progPath() string {
	if len(os.Args) == 0 {
		return ""
	}

	abs, err := filepath.Abs(os.Args[0])
	if err != nil {
		return os.Args[0]
	}

	return abs
}
