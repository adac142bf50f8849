// Package heap exposes the debugging allocator as a single process-wide
// instance, the shape spec.md §5 asks for: "a single process-wide
// recursive mutex" guarding one heap. Grounded on the teacher's
// package-level singleton convention for process-wide state
// (internal/runtime/region_memory.go's default region), generalized to
// this package's engine.Heap instead of a bare struct.
package heap

import (
	"os"
	"sync"

	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/engine"
)

// CallerInfo is the caller-location tuple every entry point accepts.
type CallerInfo = engine.CallerInfo

// TypeTag names a typed allocation's element type and size.
type TypeTag = engine.TypeTag

// Counters is the cumulative numeric counter snapshot Summary returns.
type Counters = engine.Counters

// optionsEnv names the environment variable this port reads its option
// string from, the idiomatic Go substitute for mpatrol's own
// MPATROL_OPTIONS environment variable (spec.md §6).
const optionsEnv = "MEMDEBUG_OPTIONS"

var (
	once sync.Once
	h    *engine.Heap
)

// Default returns the process-wide heap, creating it (with its options
// string read from MEMDEBUG_OPTIONS) on first use.
func Default() *engine.Heap {
	once.Do(func() {
		h = engine.New(os.Getenv(optionsEnv))
	})

	return h
}

// Reset replaces the process-wide heap with a freshly constructed one
// reading rawOptions directly, bypassing the environment variable. Tests
// and cmd/memdebug-run (which already parsed its own options string) use
// this instead of Default.
func Reset(rawOptions string) *engine.Heap {
	h = engine.New(rawOptions)

	return h
}

func Allocate(size uintptr, caller CallerInfo) (uintptr, error) {
	return Default().Allocate(size, caller)
}

func AllocateZeroed(size uintptr, caller CallerInfo) (uintptr, error) {
	return Default().AllocateZeroed(size, caller)
}

func AllocateAligned(size, alignment uintptr, caller CallerInfo) (uintptr, error) {
	return Default().AllocateAligned(size, alignment, caller)
}

func AllocatePageAligned(size uintptr, caller CallerInfo) (uintptr, error) {
	return Default().AllocatePageAligned(size, caller)
}

func AllocatePageRounded(size uintptr, caller CallerInfo) (uintptr, error) {
	return Default().AllocatePageRounded(size, caller)
}

func DuplicateString(s string, caller CallerInfo) (uintptr, error) {
	return Default().DuplicateString(s, caller)
}

func DuplicateStringN(s string, n uintptr, caller CallerInfo) (uintptr, error) {
	return Default().DuplicateStringN(s, n, caller)
}

func ScopeAllocate(size uintptr, caller CallerInfo) (uintptr, error) {
	return Default().ScopeAllocate(size, caller)
}

func ScopeFree(addr uintptr, caller CallerInfo) error {
	return Default().ScopeFree(addr, caller)
}

func ScopeFreeNow(addr uintptr, caller CallerInfo) error {
	return Default().ScopeFreeNow(addr, caller)
}

func Resize(addr, newSize uintptr, caller CallerInfo) (uintptr, error) {
	return Default().Resize(addr, newSize, caller)
}

func ResizeOrFree(addr, newSize uintptr, caller CallerInfo) (uintptr, error) {
	return Default().ResizeOrFree(addr, newSize, caller)
}

func ResizeZeroExtend(addr, newSize uintptr, caller CallerInfo) (uintptr, error) {
	return Default().ResizeZeroExtend(addr, newSize, caller)
}

func ResizeInPlace(addr, newSize uintptr, caller CallerInfo) (bool, error) {
	return Default().ResizeInPlace(addr, newSize, caller)
}

func Free(addr uintptr, caller CallerInfo) error {
	return Default().Free(addr, caller)
}

func ArrayFree(addr uintptr, caller CallerInfo) error {
	return Default().ArrayFree(addr, caller)
}

func TypedArrayAllocate(n, elemSize uintptr, typeName string, caller CallerInfo) (uintptr, error) {
	return Default().TypedArrayAllocate(n, elemSize, typeName, caller)
}

func TypedArrayResize(addr, newN uintptr, caller CallerInfo) (uintptr, error) {
	return Default().TypedArrayResize(addr, newN, caller)
}

func TypedArrayFree(addr uintptr, caller CallerInfo) error {
	return Default().TypedArrayFree(addr, caller)
}

func Fill(addr, size uintptr, b byte, caller CallerInfo) error {
	return Default().Fill(addr, size, b, caller)
}

func FillZero(addr, size uintptr, caller CallerInfo) error {
	return Default().FillZero(addr, size, caller)
}

func CopyBounded(dst, src, n, maxSize uintptr, caller CallerInfo) (uintptr, error) {
	return Default().CopyBounded(dst, src, n, maxSize, caller)
}

func Copy(dst, src, n uintptr, caller CallerInfo) error {
	return Default().Copy(dst, src, n, caller)
}

func CopyOverlapSafe(dst, src, n uintptr, caller CallerInfo) error {
	return Default().CopyOverlapSafe(dst, src, n, caller)
}

func FindByte(addr, size uintptr, b byte, caller CallerInfo) (uintptr, bool, error) {
	return Default().FindByte(addr, size, b, caller)
}

func FindSequence(addr, size uintptr, seq []byte, caller CallerInfo) (uintptr, bool, error) {
	return Default().FindSequence(addr, size, seq, caller)
}

func Compare(a, b, n uintptr, caller CallerInfo) (int, error) {
	return Default().Compare(a, b, n, caller)
}

// Summary returns the process-wide heap's cumulative counters.
func Summary() Counters {
	return Default().Summary()
}

// Shutdown flushes and closes the process-wide heap's log/trace streams
// and applies the UNFREEDABORT policy. See engine.Heap.Shutdown for why
// this must be called explicitly rather than registered as an exit hook.
func Shutdown() error {
	return Default().Shutdown()
}
