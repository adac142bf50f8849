// Package profiler implements component H: four size-bin histograms plus
// per-call-site counters, periodically snapshotted to a binary profile
// stream. The histogram-plus-snapshot shape has no direct teacher
// precedent (the retrieved pack has no profiler); the stream encoding
// reuses internal/memdebug/tracer's exported LEB128 helpers rather than
// inventing a second varint codec, per spec.md §4.H's note that it
// shares the tracer's wire format primitives.
package profiler

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/tracer"
)

// Bin is one allocation-size histogram bucket.
type Bin struct {
	AllocCount uint64
	FreeCount  uint64
	AllocBytes uint64
	FreeBytes  uint64
}

// BinIndex names the four size classes from spec.md §4.H.
type BinIndex int

const (
	BinSmall BinIndex = iota
	BinMedium
	BinLarge
	BinExtraLarge
	binCount
)

// Bounds configures the small/medium/large boundaries; an allocation of
// size s lands in BinSmall if s < Small, BinMedium if s < Medium,
// BinLarge if s < Large, else BinExtraLarge.
type Bounds struct {
	Small, Medium, Large uint64
}

func (b Bounds) classify(size uint64) BinIndex {
	switch {
	case size < b.Small:
		return BinSmall
	case size < b.Medium:
		return BinMedium
	case size < b.Large:
		return BinLarge
	default:
		return BinExtraLarge
	}
}

// siteStats is the per-call-site histogram, keyed by the topmost
// captured return address.
type siteStats struct {
	pc   uint64
	bins [binCount]Bin
}

// Profiler accumulates the global histogram and per-call-site
// histograms and can snapshot them to a binary stream.
type Profiler struct {
	mu     sync.Mutex
	bounds Bounds
	global [binCount]Bin
	sites  map[uint64]*siteStats

	autoSaveEvery uint64
	eventsSince   uint64
}

// New creates a profiler with the given size-class bounds. autoSaveEvery
// is the allocation-event frequency at which a caller should invoke
// ShouldAutoSave/Snapshot (0 disables auto-save).
func New(bounds Bounds, autoSaveEvery uint64) *Profiler {
	return &Profiler{
		bounds:        bounds,
		sites:         make(map[uint64]*siteStats),
		autoSaveEvery: autoSaveEvery,
	}
}

// RecordAllocate tallies an allocation of size bytes attributed to pc.
func (p *Profiler) RecordAllocate(pc uint64, size uint64) (autoSaveDue bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	bin := p.bounds.classify(size)
	p.global[bin].AllocCount++
	p.global[bin].AllocBytes += size

	s := p.siteLocked(pc)
	s.bins[bin].AllocCount++
	s.bins[bin].AllocBytes += size

	if p.autoSaveEvery == 0 {
		return false
	}

	p.eventsSince++
	if p.eventsSince >= p.autoSaveEvery {
		p.eventsSince = 0

		return true
	}

	return false
}

// RecordFree tallies a release of size bytes attributed to pc (the
// creating call site, so frees attribute back to where the block was
// born).
func (p *Profiler) RecordFree(pc uint64, size uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	bin := p.bounds.classify(size)
	p.global[bin].FreeCount++
	p.global[bin].FreeBytes += size

	s := p.siteLocked(pc)
	s.bins[bin].FreeCount++
	s.bins[bin].FreeBytes += size
}

func (p *Profiler) siteLocked(pc uint64) *siteStats {
	s, ok := p.sites[pc]
	if !ok {
		s = &siteStats{pc: pc}
		p.sites[pc] = s
	}

	return s
}

// Global returns a copy of the four global histogram bins.
func (p *Profiler) Global() [4]Bin {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.global
}

// SiteCount reports how many distinct call sites have been recorded.
func (p *Profiler) SiteCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.sites)
}

// Write snapshots the current state to w as a binary profile stream:
// four-byte magic, LEB128 global bin counts, LEB128 site count, then per
// site an LEB128 address followed by its four bins.
func (p *Profiler) Write(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	bw := bufio.NewWriter(w)

	if _, err := bw.Write(Magic[:]); err != nil {
		return err
	}

	var scratch []byte

	for _, b := range p.global {
		scratch = appendBin(scratch, b)
	}

	if _, err := bw.Write(scratch); err != nil {
		return err
	}

	pcs := make([]uint64, 0, len(p.sites))
	for pc := range p.sites {
		pcs = append(pcs, pc)
	}

	sort.Slice(pcs, func(i, j int) bool { return pcs[i] < pcs[j] })

	scratch = tracer.PutUvarint(scratch[:0], uint64(len(pcs)))
	if _, err := bw.Write(scratch); err != nil {
		return err
	}

	for _, pc := range pcs {
		site := p.sites[pc]

		scratch = tracer.PutUvarint(scratch[:0], pc)
		for _, b := range site.bins {
			scratch = appendBin(scratch, b)
		}

		if _, err := bw.Write(scratch); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func appendBin(b []byte, bin Bin) []byte {
	b = tracer.PutUvarint(b, bin.AllocCount)
	b = tracer.PutUvarint(b, bin.FreeCount)
	b = tracer.PutUvarint(b, bin.AllocBytes)
	b = tracer.PutUvarint(b, bin.FreeBytes)

	return b
}

// Magic opens every profile stream.
var Magic = [4]byte{'M', 'P', 'P', 'R'}

// Snapshot is the decoded form of a profile stream, for the
// memdebug-profile summariser tool.
type Snapshot struct {
	Global [4]Bin
	Sites  map[uint64][4]Bin
}

// Read decodes a stream written by Write.
func Read(r io.Reader) (*Snapshot, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("profiler: reading magic: %w", err)
	}

	if magic != Magic {
		return nil, fmt.Errorf("profiler: bad magic %q", magic)
	}

	snap := &Snapshot{Sites: make(map[uint64][4]Bin)}

	for i := range snap.Global {
		bin, err := readBin(br)
		if err != nil {
			return nil, err
		}

		snap.Global[i] = bin
	}

	siteCount, err := tracer.ReadUvarintReader(br)
	if err != nil {
		return nil, fmt.Errorf("profiler: reading site count: %w", err)
	}

	for i := uint64(0); i < siteCount; i++ {
		pc, err := tracer.ReadUvarintReader(br)
		if err != nil {
			return nil, fmt.Errorf("profiler: reading site address: %w", err)
		}

		var bins [4]Bin

		for j := range bins {
			bin, err := readBin(br)
			if err != nil {
				return nil, err
			}

			bins[j] = bin
		}

		snap.Sites[pc] = bins
	}

	return snap, nil
}

func readBin(br *bufio.Reader) (Bin, error) {
	allocCount, err := tracer.ReadUvarintReader(br)
	if err != nil {
		return Bin{}, err
	}

	freeCount, err := tracer.ReadUvarintReader(br)
	if err != nil {
		return Bin{}, err
	}

	allocBytes, err := tracer.ReadUvarintReader(br)
	if err != nil {
		return Bin{}, err
	}

	freeBytes, err := tracer.ReadUvarintReader(br)
	if err != nil {
		return Bin{}, err
	}

	return Bin{AllocCount: allocCount, FreeCount: freeCount, AllocBytes: allocBytes, FreeBytes: freeBytes}, nil
}
