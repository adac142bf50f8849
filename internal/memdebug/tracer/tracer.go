// Package tracer implements component I: a compact binary event stream
// recording every heap event, per spec.md §4.I.
//
// The stream format (magic, word-size marker, LEB128 version, tagged
// LEB128-encoded events) has no teacher precedent beyond the LEB128
// primitives themselves (internal/debug/dwarf_writer.go's uleb128); the
// library-version field is a semver.Version (github.com/Masterminds/semver/v3,
// already a direct teacher dependency via internal/packagemanager) so a
// trace reader built against a different library revision can use a
// semver constraint to decide whether it understands the stream, instead
// of a brittle exact-match check.
package tracer

import (
	"bufio"
	"fmt"
	"io"

	semver "github.com/Masterminds/semver/v3"
)

// Magic opens and closes every trace stream.
var Magic = [4]byte{'M', 'P', 'T', 'L'}

// StreamVersion is the library version stamped into every trace stream
// this package writes.
var StreamVersion = semver.MustParse("1.0.0")

// Tag identifies one event's shape.
type Tag byte

const (
	TagAllocate Tag = 'A'
	TagFree     Tag = 'F'
	TagRegion   Tag = 'H'
	TagInternal Tag = 'I'
)

// Event is one decoded trace record. Which fields are meaningful depends
// on Tag: Allocate uses Index/Address/Size, Free uses Index, Region and
// Internal use Address/Size.
type Event struct {
	Tag     Tag
	Index   uint64
	Address uint64
	Size    uint64
}

// Writer appends events to an underlying stream, opening it with the
// magic/word-size/version header on construction.
type Writer struct {
	w       *bufio.Writer
	closer  io.Closer
	scratch []byte
}

// NewWriter wraps w (closing it on Close if it implements io.Closer) and
// writes the stream header: four-byte magic, one word-size marker byte
// (8 or 4, matching the host's pointer width), then the library version
// as three LEB128 integers (major, minor, patch).
func NewWriter(w io.Writer) (*Writer, error) {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write(Magic[:]); err != nil {
		return nil, err
	}

	if err := bw.WriteByte(wordSizeMarker()); err != nil {
		return nil, err
	}

	var scratch []byte

	scratch = putUvarint(scratch, uint64(StreamVersion.Major()))
	scratch = putUvarint(scratch, uint64(StreamVersion.Minor()))
	scratch = putUvarint(scratch, uint64(StreamVersion.Patch()))

	if _, err := bw.Write(scratch); err != nil {
		return nil, err
	}

	tw := &Writer{w: bw}

	if c, ok := w.(io.Closer); ok {
		tw.closer = c
	}

	return tw, nil
}

func wordSizeMarker() byte {
	return byte(8 * uintFootprint())
}

// uintFootprint returns the size in bytes of a native uintptr, without
// importing unsafe just for sizeof.
func uintFootprint() int {
	const maxUint = ^uint(0)
	if maxUint>>32 == 0 {
		return 4
	}

	return 8
}

// Allocate appends an 'A' event.
func (w *Writer) Allocate(index, address, size uint64) error {
	return w.emit(TagAllocate, index, address, size)
}

// Free appends an 'F' event.
func (w *Writer) Free(index uint64) error {
	return w.emit(TagFree, index, 0, 0)
}

// Region appends an 'H' heap-region-reservation event.
func (w *Writer) Region(address, size uint64) error {
	return w.emit(TagRegion, 0, address, size)
}

// Internal appends an 'I' internal-block event.
func (w *Writer) Internal(address, size uint64) error {
	return w.emit(TagInternal, 0, address, size)
}

func (w *Writer) emit(tag Tag, index, address, size uint64) error {
	if err := w.w.WriteByte(byte(tag)); err != nil {
		return err
	}

	w.scratch = w.scratch[:0]

	switch tag {
	case TagAllocate:
		w.scratch = putUvarint(w.scratch, index)
		w.scratch = putUvarint(w.scratch, address)
		w.scratch = putUvarint(w.scratch, size)
	case TagFree:
		w.scratch = putUvarint(w.scratch, index)
	case TagRegion, TagInternal:
		w.scratch = putUvarint(w.scratch, address)
		w.scratch = putUvarint(w.scratch, size)
	}

	_, err := w.w.Write(w.scratch)

	return err
}

// Close flushes buffered output, writes the closing magic, and closes
// the underlying writer if it supports it.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}

	if _, err := w.w.Write(Magic[:]); err != nil {
		return err
	}

	if err := w.w.Flush(); err != nil {
		return err
	}

	if w.closer != nil {
		return w.closer.Close()
	}

	return nil
}

// Reader decodes a trace stream written by Writer.
type Reader struct {
	r       *bufio.Reader
	Version *semver.Version
	WordLen int
}

// NewReader validates the header and returns a Reader positioned at the
// first event.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("tracer: reading magic: %w", err)
	}

	if magic != Magic {
		return nil, fmt.Errorf("tracer: bad magic %q", magic)
	}

	wordMarker, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("tracer: reading word-size marker: %w", err)
	}

	major, err := readUvarintFrom(br)
	if err != nil {
		return nil, fmt.Errorf("tracer: reading version: %w", err)
	}

	minor, err := readUvarintFrom(br)
	if err != nil {
		return nil, fmt.Errorf("tracer: reading version: %w", err)
	}

	patch, err := readUvarintFrom(br)
	if err != nil {
		return nil, fmt.Errorf("tracer: reading version: %w", err)
	}

	ver, err := semver.NewVersion(fmt.Sprintf("%d.%d.%d", major, minor, patch))
	if err != nil {
		return nil, fmt.Errorf("tracer: parsing version: %w", err)
	}

	return &Reader{r: br, Version: ver, WordLen: int(wordMarker) / 8}, nil
}

// CompatibleWith reports whether this reader understands streams
// matching constraint, e.g. ">=1.0.0, <2.0.0".
func (r *Reader) CompatibleWith(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, err
	}

	return c.Check(r.Version), nil
}

// Next decodes the following event. It returns io.EOF once the closing
// magic is reached.
func (r *Reader) Next() (Event, error) {
	tagByte, err := r.r.ReadByte()
	if err != nil {
		return Event{}, err
	}

	if isMagicStart(tagByte) {
		if err := r.r.UnreadByte(); err != nil {
			return Event{}, err
		}

		var trailer [4]byte
		if _, err := io.ReadFull(r.r, trailer[:]); err != nil {
			return Event{}, err
		}

		if trailer == Magic {
			return Event{}, io.EOF
		}

		return Event{}, fmt.Errorf("tracer: unexpected byte %q mid-stream", tagByte)
	}

	tag := Tag(tagByte)

	switch tag {
	case TagAllocate:
		index, err := readUvarintFrom(r.r)
		if err != nil {
			return Event{}, err
		}

		addr, err := readUvarintFrom(r.r)
		if err != nil {
			return Event{}, err
		}

		size, err := readUvarintFrom(r.r)
		if err != nil {
			return Event{}, err
		}

		return Event{Tag: tag, Index: index, Address: addr, Size: size}, nil
	case TagFree:
		index, err := readUvarintFrom(r.r)
		if err != nil {
			return Event{}, err
		}

		return Event{Tag: tag, Index: index}, nil
	case TagRegion, TagInternal:
		addr, err := readUvarintFrom(r.r)
		if err != nil {
			return Event{}, err
		}

		size, err := readUvarintFrom(r.r)
		if err != nil {
			return Event{}, err
		}

		return Event{Tag: tag, Address: addr, Size: size}, nil
	default:
		return Event{}, fmt.Errorf("tracer: unknown event tag %q", tagByte)
	}
}

func isMagicStart(b byte) bool { return b == Magic[0] }

func readUvarintFrom(r *bufio.Reader) (uint64, error) {
	var v uint64

	var shift uint

	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}

		v |= uint64(b&0x7f) << shift

		if b&0x80 == 0 {
			return v, nil
		}

		shift += 7

		if shift >= 64 {
			return 0, fmt.Errorf("tracer: varint too long")
		}
	}
}
