package protocol

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// ErrStringTooLong is returned by Reader.String when the length prefix
// exceeds the capped scratch size (default MaxStringLen), per spec §4.A.
var ErrStringTooLong = errors.New("protocol: string length exceeds buffer")

// MaxStringLen is the default cap on a length-prefixed string read,
// matching spec §4.A's "default 256".
const MaxStringLen = 256

// Reader is an owned, handler-scoped view over one packet's payload bytes.
// Every packet handler gets its own Reader instead of indexing into a
// shared global scratch buffer — this also gives the dispatcher an explicit
// bytes-read-so-far counter per spec §9's open-question resolution,
// instead of a process-global recv counter.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf (the packet's payload, already split from the frame)
// for sequential reads.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Consumed returns the number of bytes read so far — the figure the
// dispatcher compares against the frame's declared length to decide
// whether to drain the remainder or log a framing warning (spec §4.D).
func (r *Reader) Consumed() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Drain discards every remaining byte, used when a handler under-reads its
// declared payload.
func (r *Reader) Drain() { r.pos = len(r.buf) }

func (r *Reader) need(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// VarInt reads an unsigned-layout VarInt.
func (r *Reader) VarInt() (int32, error) {
	v, n, err := DecodeVarInt(r.buf, r.pos)
	r.pos += n
	return v, err
}

// VarLong reads a VarLong.
func (r *Reader) VarLong() (int64, error) {
	v, n, err := DecodeVarLong(r.buf, r.pos)
	r.pos += n
	return v, err
}

// String reads a VarInt-length-prefixed UTF-8 string, failing if the
// declared length exceeds MaxStringLen.
func (r *Reader) String() (string, error) {
	return r.StringCapped(MaxStringLen)
}

// StringCapped reads a length-prefixed string, failing if length exceeds
// maxLen.
func (r *Reader) StringCapped(maxLen int) (string, error) {
	n, err := r.VarInt()
	if err != nil {
		return "", err
	}
	if n < 0 || int(n) > maxLen {
		return "", ErrStringTooLong
	}
	b, err := r.need(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// StringDrain reads a length-prefixed string but only copies up to maxLen
// bytes, silently draining the remainder from the stream — the "capped
// variant" of spec §4.A.
func (r *Reader) StringDrain(maxLen int) (string, error) {
	n, err := r.VarInt()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", ErrStringTooLong
	}
	take := int(n)
	if take > maxLen {
		take = maxLen
	}
	b, err := r.need(take)
	if err != nil {
		return "", err
	}
	if int(n) > take {
		if _, err := r.need(int(n) - take); err != nil {
			return "", err
		}
	}
	return string(b), nil
}

// Bytes reads exactly n raw bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	b, err := r.need(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// UUID reads a 16-byte identity.
func (r *Reader) UUID() ([16]byte, error) {
	var u [16]byte
	b, err := r.need(16)
	if err != nil {
		return u, err
	}
	copy(u[:], b)
	return u, nil
}

// Bool reads a single boolean byte.
func (r *Reader) Bool() (bool, error) {
	b, err := r.need(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// Byte reads a single unsigned byte.
func (r *Reader) Byte() (byte, error) {
	b, err := r.need(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Int8 reads a signed byte.
func (r *Reader) Int8() (int8, error) {
	b, err := r.Byte()
	return int8(b), err
}

// Uint16 reads a big-endian unsigned 16-bit integer.
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.need(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// Int16 reads a big-endian signed 16-bit integer.
func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

// Int32 reads a big-endian signed 32-bit integer.
func (r *Reader) Int32() (int32, error) {
	b, err := r.need(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// Uint32 reads a big-endian unsigned 32-bit integer.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.need(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Int64 reads a big-endian signed 64-bit integer.
func (r *Reader) Int64() (int64, error) {
	b, err := r.need(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// Uint64 reads a big-endian unsigned 64-bit integer.
func (r *Reader) Uint64() (uint64, error) {
	b, err := r.need(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// Float32 reads an IEEE-754 big-endian 32-bit float.
func (r *Reader) Float32() (float32, error) {
	v, err := r.Uint32()
	return math.Float32frombits(v), err
}

// Float64 reads an IEEE-754 big-endian 64-bit float.
func (r *Reader) Float64() (float64, error) {
	v, err := r.Uint64()
	return math.Float64frombits(v), err
}

// Position reads a packed block position: 26-bit signed X, 26-bit signed Z,
// 12-bit signed Y, per spec §6.
func (r *Reader) Position() (x, y, z int32, err error) {
	v, err := r.Int64()
	if err != nil {
		return 0, 0, 0, err
	}
	x = int32(v >> 38)
	y = int32(v << 52 >> 52)
	z = int32(v << 26 >> 38)
	return x, y, z, nil
}
