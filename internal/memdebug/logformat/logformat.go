// Package logformat implements component J: turning engine events and
// errors into the human-readable log stream, resolving addresses to
// symbols via the symbol reader (internal/memdebug/symbols), per
// spec.md §4.J.
//
// Grounded on internal/cli.Logger's timestamped, level-prefixed line
// format (internal/cli/common.go's Info/Warn/Error), generalized from a
// fixed set of log levels into the fixed set of heap-event line kinds
// the spec names, with the bracketed caller tuple and indented stack in
// place of a free-form message.
package logformat

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/record"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/symbols"
)

// Kind names the log record categories from spec.md §4.J.
type Kind string

const (
	KindAlloc   Kind = "ALLOC"
	KindRealloc Kind = "REALLOC"
	KindFree    Kind = "FREE"
	KindMemSet  Kind = "MEMSET"
	KindMemCpy  Kind = "MEMCPY"
	KindMemCmp  Kind = "MEMCMP"
	KindMemFind Kind = "MEMFIND"
	KindError   Kind = "ERROR"
)

// Formatter writes formatted log lines to an underlying writer.
type Formatter struct {
	mu      sync.Mutex
	w       *bufio.Writer
	symbols *symbols.Reader
	now     func() time.Time
}

// New creates a formatter writing to w and resolving addresses via sym.
func New(w io.Writer, sym *symbols.Reader) *Formatter {
	return &Formatter{w: bufio.NewWriter(w), symbols: sym, now: time.Now}
}

// Event logs a single heap operation: kind, the affected address/size,
// the block's caller tuple and thread id, and its captured stack.
func (f *Formatter) Event(kind Kind, addr, size uintptr, threadID uint64, caller record.CallerInfo, stack []uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fmt.Fprintf(f.w, "%s %s %#x %d [%d|%s|%s|%d]\n",
		f.now().Format("2006-01-02 15:04:05.000"), kind, addr, size,
		threadID, caller.Func, caller.File, caller.Line)

	f.writeStackLocked(stack)
	f.w.Flush()
}

// Record logs an event whose caller/thread/stack are drawn from an
// allocation record.
func (f *Formatter) Record(kind Kind, addr, size uintptr, rec record.Record) {
	f.Event(kind, addr, size, rec.Raw().ThreadID, rec.Caller(), rec.Stack())
}

func (f *Formatter) writeStackLocked(stack []uintptr) {
	if f.symbols == nil {
		for _, pc := range stack {
			fmt.Fprintf(f.w, "    %#x\n", pc)
		}

		return
	}

	for _, frame := range f.symbols.Annotate(stack) {
		if frame.Function == "" {
			fmt.Fprintf(f.w, "    %#x\n", frame.PC)

			continue
		}

		fmt.Fprintf(f.w, "    %s (%s:%d)\n", frame.Function, frame.File, frame.Line)
	}
}

// Error logs a corruption/misuse report: the message, a hex window
// around the faulty address, and the owning record's full history if
// known.
func (f *Formatter) Error(message string, addr uintptr, window []byte, windowBase uintptr, owner *record.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fmt.Fprintf(f.w, "%s %s %#x: %s\n", f.now().Format("2006-01-02 15:04:05.000"), KindError, addr, message)

	f.writeHexWindowLocked(windowBase, window)

	if owner != nil {
		fmt.Fprintf(f.w, "  owning block: base=%#x size=%d index=%d caller=%s (%s:%d)\n",
			owner.Base(), owner.Size(), owner.Index(), owner.Caller().Func, owner.Caller().File, owner.Caller().Line)
		f.writeStackLocked(owner.Stack())
	}

	f.w.Flush()
}

func (f *Formatter) writeHexWindowLocked(base uintptr, window []byte) {
	const perLine = 16

	for off := 0; off < len(window); off += perLine {
		end := off + perLine
		if end > len(window) {
			end = len(window)
		}

		fmt.Fprintf(f.w, "  %#08x  ", base+uintptr(off))

		for i := off; i < end; i++ {
			fmt.Fprintf(f.w, "%02x ", window[i])
		}

		f.w.WriteByte('\n')
	}
}

// Raw writes s verbatim, for the closing summary table (spec.md §6's
// log stream "closes with a summary table of every numeric counter"),
// which has no caller tuple or stack to format.
func (f *Formatter) Raw(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fmt.Fprint(f.w, s)
	f.w.Flush()
}

// Flush ensures every buffered line has been written.
func (f *Formatter) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.w.Flush()
}
