package engine

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// goroutineID extracts the numeric id the runtime prints at the front of
// a goroutine's stack dump ("goroutine 123 [running]: ..."). Go
// deliberately exposes no public goroutine-identity primitive; this is
// the standard, if unofficial, way Go code recovers one when it genuinely
// needs thread-local-like identity, which the recursive mutex below does.
func goroutineID() uint64 {
	var buf [64]byte

	n := runtime.Stack(buf[:], false)

	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}

	id, _ := strconv.ParseUint(string(fields[1]), 10, 64)

	return id
}

// recursiveMutex is spec.md §5's process-wide recursive mutex: the
// owning goroutine may re-enter Lock any number of times without
// deadlocking itself, and only the matching number of Unlock calls
// releases it to a different waiter. Go's sync.Mutex cannot recurse by
// design, so this layers ownership tracking, keyed by goroutineID, over
// a sync.Cond.
type recursiveMutex struct {
	mu    sync.Mutex
	cond  *sync.Cond
	owner uint64
	held  bool
	depth int
}

func newRecursiveMutex() *recursiveMutex {
	m := &recursiveMutex{}
	m.cond = sync.NewCond(&m.mu)

	return m
}

// Lock acquires the mutex, blocking if another goroutine holds it, and
// returns the reentrancy depth after acquisition (1 for the outermost
// call from this goroutine).
func (m *recursiveMutex) Lock() int {
	gid := goroutineID()

	m.mu.Lock()
	defer m.mu.Unlock()

	for m.held && m.owner != gid {
		m.cond.Wait()
	}

	m.held = true
	m.owner = gid
	m.depth++

	return m.depth
}

// Unlock releases one level of the reentrant lock, returning the
// remaining depth. At depth 0 the mutex becomes available to other
// goroutines.
func (m *recursiveMutex) Unlock() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.depth--
	d := m.depth

	if d == 0 {
		m.held = false
		m.owner = 0
		m.cond.Broadcast()
	}

	return d
}
