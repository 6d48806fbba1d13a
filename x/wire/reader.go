package wire

import (
	"encoding/binary"
)

// Reader walks a byte slice with a forward-only cursor. Every read is bounds
// checked and never mutates the underlying buffer. Slices returned by Bytes
// alias the input.
type Reader struct {
	buf []byte
	off int
}

// NewReader creates a Reader positioned at the start of b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int { return r.off }

// Remaining returns how many bytes are left after the cursor.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) need(n int, what string) error {
	if n < 0 {
		return Errorf(KindTruncatedInput, "negative length for %s", what)
	}
	if r.Remaining() < n {
		return Errorf(KindTruncatedInput, "need %d bytes for %s at offset %d, have %d", n, what, r.off, r.Remaining())
	}
	return nil
}

// U8 reads one byte.
func (r *Reader) U8(what string) (uint8, error) {
	if err := r.need(1, what); err != nil {
		return 0, err
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

// U16 reads a big-endian uint16.
func (r *Reader) U16(what string) (uint16, error) {
	if err := r.need(2, what); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

// U32 reads a big-endian uint32.
func (r *Reader) U32(what string) (uint32, error) {
	if err := r.need(4, what); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

// U64 reads a big-endian uint64.
func (r *Reader) U64(what string) (uint64, error) {
	if err := r.need(8, what); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v, nil
}

// Bytes reads n raw bytes. A zero-length read returns nil.
func (r *Reader) Bytes(n int, what string) ([]byte, error) {
	if err := r.need(n, what); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	v := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	return v, nil
}
