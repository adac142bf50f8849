package tracer

import "bufio"

// LEB128 varint encoding, grounded directly on internal/debug/dwarf_writer.go's
// uleb128/sleb128 helpers (this module only needs the unsigned form, since
// every tracer/profiler field — indices, addresses, sizes — is unsigned).
//
// PutUvarint/ReadUvarintReader are exported so internal/memdebug/profiler
// can reuse this exact encoding for the profile stream (spec.md §4.H
// says it reuses the tracer's LEB128 writer) without a second copy of
// the varint logic.

// PutUvarint appends v's LEB128 encoding to b and returns the result.
func PutUvarint(b []byte, v uint64) []byte { return putUvarint(b, v) }

// ReadUvarintReader decodes one LEB128 value from r.
func ReadUvarintReader(r *bufio.Reader) (uint64, error) { return readUvarintFrom(r) }

func putUvarint(b []byte, v uint64) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7

		if v != 0 {
			c |= 0x80
		}

		b = append(b, c)

		if v == 0 {
			return b
		}
	}
}

func readUvarint(b []byte) (v uint64, n int, ok bool) {
	var shift uint

	for i, c := range b {
		v |= uint64(c&0x7f) << shift

		if c&0x80 == 0 {
			return v, i + 1, true
		}

		shift += 7

		if shift >= 64 {
			return 0, 0, false
		}
	}

	return 0, 0, false
}
