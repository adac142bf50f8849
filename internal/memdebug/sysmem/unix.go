//go:build linux || darwin

package sysmem

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// UnixProvider acquires anonymous private mappings via mmap and flips
// protection with mprotect, mirroring the asyncio package's per-OS
// golang.org/x/sys/unix usage elsewhere in this module.
type UnixProvider struct{}

// NewProvider returns the native provider for this platform.
func NewProvider() Provider {
	return UnixProvider{}
}

func (UnixProvider) Acquire(size uintptr) (Region, error) {
	pageSize := uintptr(unix.Getpagesize())
	rounded := AlignUp(size, pageSize)

	b, err := unix.Mmap(-1, 0, int(rounded), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return Region{}, fmt.Errorf("sysmem: mmap %d bytes: %w", rounded, err)
	}

	base := uintptr(0)
	if len(b) > 0 {
		base = uintptr(unsafe.Pointer(&b[0]))
	}

	runtime.KeepAlive(b)

	return Region{Base: base, Size: rounded, Bytes: b}, nil
}

func (UnixProvider) Release(r Region) error {
	if !r.Valid() {
		return nil
	}

	return unix.Munmap(r.Bytes)
}

func (UnixProvider) Protect(r Region, access Access) error {
	if !r.Valid() {
		return nil
	}

	var prot int

	switch access {
	case AccessNone:
		prot = unix.PROT_NONE
	case AccessRead:
		prot = unix.PROT_READ
	case AccessReadWrite:
		prot = unix.PROT_READ | unix.PROT_WRITE
	}

	if err := unix.Mprotect(r.Bytes, prot); err != nil {
		return fmt.Errorf("sysmem: mprotect: %w", err)
	}

	return nil
}

func (UnixProvider) Watch(base, size uintptr, access Access) error {
	// Hardware watchpoints require ptrace/debug-register access that is
	// not reachable from an unprivileged Go process; mpatrol itself only
	// supports this via platform-specific debug registers. Callers fall
	// back to fill-pattern guards when this returns ErrUnsupported.
	return ErrUnsupported
}

func (UnixProvider) PageSize() uintptr {
	return uintptr(unix.Getpagesize())
}

func (UnixProvider) PointerAlignment() uintptr {
	return unsafe.Alignof(uintptr(0))
}
