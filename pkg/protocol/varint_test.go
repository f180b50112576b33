package protocol

import "testing"

func TestVarIntRoundTrip(t *testing.T) {
	tests := []struct {
		value    int32
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{255, []byte{0xFF, 0x01}},
		{25565, []byte{0xDD, 0xC7, 0x01}},
		{2097151, []byte{0xFF, 0xFF, 0x7F}},
		{2147483647, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x07}},
		{-1, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}},
		{-2147483648, []byte{0x80, 0x80, 0x80, 0x80, 0x08}},
	}

	for _, tt := range tests {
		var buf [5]byte
		n := PutVarInt(buf[:], tt.value)
		if !bytesEqual(buf[:n], tt.expected) {
			t.Errorf("PutVarInt(%d) = %v, want %v", tt.value, buf[:n], tt.expected)
		}
		if SizeVarInt(tt.value) != len(tt.expected) {
			t.Errorf("SizeVarInt(%d) = %d, want %d", tt.value, SizeVarInt(tt.value), len(tt.expected))
		}
		val, read, err := DecodeVarInt(tt.expected, 0)
		if err != nil {
			t.Fatalf("DecodeVarInt error: %v", err)
		}
		if val != tt.value {
			t.Errorf("DecodeVarInt = %d, want %d", val, tt.value)
		}
		if read != len(tt.expected) {
			t.Errorf("DecodeVarInt consumed %d, want %d", read, len(tt.expected))
		}
	}
}

func TestVarIntTooBig(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	if _, _, err := DecodeVarInt(buf, 0); err != ErrVarIntTooBig {
		t.Fatalf("expected ErrVarIntTooBig, got %v", err)
	}
}

func TestReaderWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	w.VarInt(300)
	w.String("hello")
	w.Bool(true)
	w.Int16(-7)
	w.Int32(-123456)
	w.Int64(9876543210)
	w.Float32(1.5)
	w.Float64(2.25)
	w.Position(12, -5, 34)

	r := NewReader(w.Bytes())
	if v, err := r.VarInt(); err != nil || v != 300 {
		t.Fatalf("VarInt round trip failed: %d %v", v, err)
	}
	if s, err := r.String(); err != nil || s != "hello" {
		t.Fatalf("String round trip failed: %q %v", s, err)
	}
	if b, err := r.Bool(); err != nil || !b {
		t.Fatalf("Bool round trip failed: %v %v", b, err)
	}
	if v, err := r.Int16(); err != nil || v != -7 {
		t.Fatalf("Int16 round trip failed: %d %v", v, err)
	}
	if v, err := r.Int32(); err != nil || v != -123456 {
		t.Fatalf("Int32 round trip failed: %d %v", v, err)
	}
	if v, err := r.Int64(); err != nil || v != 9876543210 {
		t.Fatalf("Int64 round trip failed: %d %v", v, err)
	}
	if v, err := r.Float32(); err != nil || v != 1.5 {
		t.Fatalf("Float32 round trip failed: %v %v", v, err)
	}
	if v, err := r.Float64(); err != nil || v != 2.25 {
		t.Fatalf("Float64 round trip failed: %v %v", v, err)
	}
	x, y, z, err := r.Position()
	if err != nil || x != 12 || y != -5 || z != 34 {
		t.Fatalf("Position round trip failed: %d %d %d %v", x, y, z, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected Reader to be fully consumed, %d bytes remaining", r.Remaining())
	}
}

func TestFrame(t *testing.T) {
	w := NewWriter()
	w.Byte(0xAB)
	framed := Frame(0x02, w.Bytes())
	length, n, err := DecodeVarInt(framed, 0)
	if err != nil {
		t.Fatalf("DecodeVarInt error: %v", err)
	}
	if int(length) != len(framed)-n {
		t.Fatalf("framed length field %d does not match remaining bytes %d", length, len(framed)-n)
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
