package binary

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestNewWriter(t *testing.T) {
	w := NewWriter(nil)

	if w.Len() != 0 {
		t.Errorf("expected empty writer, got %d bytes", w.Len())
	}
}

func TestWriterLittleEndian(t *testing.T) {
	w := NewWriter(binary.LittleEndian)
	w.WriteUint16(0x0102)
	w.WriteInt32(0x12345678)

	expected := []byte{0x02, 0x01, 0x78, 0x56, 0x34, 0x12}
	if !bytes.Equal(w.Bytes(), expected) {
		t.Errorf("expected %v, got %v", expected, w.Bytes())
	}
}

func TestWriterBool(t *testing.T) {
	w := NewWriter(nil)
	w.WriteBool(true)
	w.WriteBool(false)

	if !bytes.Equal(w.Bytes(), []byte{0x01, 0x00}) {
		t.Errorf("expected [1 0], got %v", w.Bytes())
	}
}

func TestWriterZeros(t *testing.T) {
	w := NewWriter(nil)
	w.WriteZeros(3)
	w.WriteZeros(0)
	w.WriteZeros(-1)

	if w.Len() != 3 {
		t.Errorf("expected 3 bytes, got %d", w.Len())
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter(nil)
	w.WriteUint8(0xAB)
	w.WriteUint16(0xBEEF)
	w.WriteInt32(-42)
	w.WriteInt64(-9000000000)
	w.WriteFloat64(-0.5)
	w.WriteBytes([]byte("xyz"))

	r := NewReader(w.Bytes(), nil)

	u8, _ := r.ReadUint8()
	u16 := make([]uint16, 1)
	if err := r.ReadUint16s(u16); err != nil {
		t.Fatalf("ReadUint16s failed: %v", err)
	}
	i32, _ := r.ReadInt32()
	i64, _ := r.ReadInt64()
	f64, _ := r.ReadFloat64()
	raw, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}

	if u8 != 0xAB || u16[0] != 0xBEEF || i32 != -42 || i64 != -9000000000 || f64 != -0.5 {
		t.Errorf("round trip mismatch: %x %x %d %d %v", u8, u16[0], i32, i64, f64)
	}
	if string(raw) != "xyz" {
		t.Errorf("expected xyz, got %q", raw)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected buffer fully consumed, %d bytes left", r.Remaining())
	}
}
