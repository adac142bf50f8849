// Package symbols is the external "symbol/debug-line reader" collaborator
// from spec.md §1/§4.E: resolving a program counter to a function name,
// file and line. It wraps internal/memdebug/stackcapture.Symbolize (which
// already uses runtime.Callers/runtime.CallersFrames) so both the engine's
// single-PC lookups and the diagnostic formatter's full-stack annotation
// share one resolution path and cache.
package symbols

import (
	"sync"

	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/record"
	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/stackcapture"
)

// Reader resolves program counters to symbolic locations, caching
// results since the Go runtime's symbol table never changes for the
// lifetime of the process.
type Reader struct {
	mu    sync.Mutex
	cache map[uintptr]stackcapture.Frame
}

// New creates an empty symbol reader.
func New() *Reader {
	return &Reader{cache: make(map[uintptr]stackcapture.Frame)}
}

// Resolve returns the symbolic frame for pc, resolving and caching it on
// first use.
func (r *Reader) Resolve(pc uintptr) stackcapture.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.cache[pc]; ok {
		return f
	}

	frames := stackcapture.Symbolize([]uintptr{pc})

	var f stackcapture.Frame
	if len(frames) > 0 {
		f = frames[0]
	}

	r.cache[pc] = f

	return f
}

// CallerInfo resolves pc directly into a record.CallerInfo, for the
// engine's entry preamble (spec.md §4.G step 5: resolve an absent caller
// location from the return address).
func (r *Reader) CallerInfo(pc uintptr) record.CallerInfo {
	f := r.Resolve(pc)

	return record.CallerInfo{Func: f.Function, File: f.File, Line: f.Line}
}

// Annotate resolves every frame of a captured stack, for the diagnostic
// formatter's indented stack listing.
func (r *Reader) Annotate(stack []uintptr) []stackcapture.Frame {
	out := make([]stackcapture.Frame, len(stack))
	for i, pc := range stack {
		out[i] = r.Resolve(pc)
	}

	return out
}
