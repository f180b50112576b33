package protocol

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer accumulates a single packet's payload bytes (post packet-id) before
// framing. It is a thin wrapper over bytes.Buffer with the primitive
// encoders spec §4.A and §6 require (big-endian integers, IEEE-754
// big-endian floats, VarInt/VarLong, length-prefixed strings).
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.buf.Len() }

// Raw appends b verbatim (used for pre-captured blobs like the registry/tags
// packet pool, spec §6).
func (w *Writer) Raw(b []byte) { w.buf.Write(b) }

// VarInt writes an unsigned-layout VarInt.
func (w *Writer) VarInt(v int32) {
	var buf [5]byte
	n := PutVarInt(buf[:], v)
	w.buf.Write(buf[:n])
}

// VarLong writes a VarLong.
func (w *Writer) VarLong(v int64) {
	var buf [10]byte
	n := PutVarLong(buf[:], v)
	w.buf.Write(buf[:n])
}

// String writes a VarInt-length-prefixed UTF-8 string.
func (w *Writer) String(s string) {
	w.VarInt(int32(len(s)))
	w.buf.WriteString(s)
}

// Bool writes a single boolean byte.
func (w *Writer) Bool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// Byte writes a single unsigned byte.
func (w *Writer) Byte(v byte) { w.buf.WriteByte(v) }

// Int8 writes a signed byte.
func (w *Writer) Int8(v int8) { w.buf.WriteByte(byte(v)) }

// Uint16 writes a big-endian unsigned 16-bit integer.
func (w *Writer) Uint16(v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	w.buf.Write(buf[:])
}

// Int16 writes a big-endian signed 16-bit integer.
func (w *Writer) Int16(v int16) { w.Uint16(uint16(v)) }

// Int32 writes a big-endian signed 32-bit integer.
func (w *Writer) Int32(v int32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	w.buf.Write(buf[:])
}

// Uint32 writes a big-endian unsigned 32-bit integer.
func (w *Writer) Uint32(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

// Int64 writes a big-endian signed 64-bit integer.
func (w *Writer) Int64(v int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	w.buf.Write(buf[:])
}

// Uint64 writes a big-endian unsigned 64-bit integer.
func (w *Writer) Uint64(v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	w.buf.Write(buf[:])
}

// Float32 writes an IEEE-754 big-endian 32-bit float.
func (w *Writer) Float32(v float32) { w.Uint32(math.Float32bits(v)) }

// Float64 writes an IEEE-754 big-endian 64-bit float.
func (w *Writer) Float64(v float64) { w.Uint64(math.Float64bits(v)) }

// UUID writes a 16-byte identity.
func (w *Writer) UUID(u [16]byte) { w.buf.Write(u[:]) }

// Position writes a packed block position (x:26-bit signed, z:26-bit
// signed, y:12-bit signed), per spec §6.
func (w *Writer) Position(x, y, z int32) {
	v := (int64(x&0x3FFFFFF) << 38) | (int64(z&0x3FFFFFF) << 12) | int64(y&0xFFF)
	w.Int64(v)
}

// NBTString writes the system-chat NBT string tag: tag type 0x08, u16
// length, bytes (spec §6 — ASCII in practice for this server).
func (w *Writer) NBTString(s string) {
	w.Byte(0x08)
	w.Uint16(uint16(len(s)))
	w.buf.WriteString(s)
}
