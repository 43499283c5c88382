package binary

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// particleRow is one encoded row of (valid bool8, probe int32,
// frame-timestamp int64, x float64).
func particleRow(valid bool, probe int32, ts int64, x float64) []byte {
	w := NewWriter(nil)
	w.WriteBool(valid)
	w.WriteInt32(probe)
	w.WriteInt64(ts)
	w.WriteFloat64(x)
	return w.Bytes()
}

func TestReaderParticleRow(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
		probe int32
		ts    int64
		x     float64
	}{
		{"zeros", false, 0, 0, 0},
		{"negative", true, -7, -1234567890123, -12.5},
		{"large", true, math.MaxInt32, 1700000000123, math.MaxFloat64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(particleRow(tt.valid, tt.probe, tt.ts, tt.x), nil)

			valid, err := r.ReadBool()
			if err != nil {
				t.Fatalf("ReadBool failed: %v", err)
			}
			probe, err := r.ReadInt32()
			if err != nil {
				t.Fatalf("ReadInt32 failed: %v", err)
			}
			ts, err := r.ReadInt64()
			if err != nil {
				t.Fatalf("ReadInt64 failed: %v", err)
			}
			x, err := r.ReadFloat64()
			if err != nil {
				t.Fatalf("ReadFloat64 failed: %v", err)
			}

			if valid != tt.valid || probe != tt.probe || ts != tt.ts || x != tt.x {
				t.Errorf("expected (%v, %d, %d, %v), got (%v, %d, %d, %v)",
					tt.valid, tt.probe, tt.ts, tt.x, valid, probe, ts, x)
			}
			if r.Remaining() != 0 {
				t.Errorf("expected row fully consumed, %d bytes left", r.Remaining())
			}
		})
	}
}

func TestReaderBoolNonZero(t *testing.T) {
	r := NewReader([]byte{0x00, 0x01, 0x7F, 0xFF}, nil)

	for i, want := range []bool{false, true, true, true} {
		got, err := r.ReadBool()
		if err != nil {
			t.Fatalf("ReadBool %d failed: %v", i, err)
		}
		if got != want {
			t.Errorf("byte %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestReaderShortRead(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		read func(r *Reader) error
	}{
		{"bool", nil, func(r *Reader) error { _, err := r.ReadBool(); return err }},
		{"int32", []byte{1, 2, 3}, func(r *Reader) error { _, err := r.ReadInt32(); return err }},
		{"int64", []byte{1, 2, 3, 4, 5, 6, 7}, func(r *Reader) error { _, err := r.ReadInt64(); return err }},
		{"float64", []byte{1, 2, 3, 4}, func(r *Reader) error { _, err := r.ReadFloat64(); return err }},
		{"bytes", []byte{1, 2, 3}, func(r *Reader) error { _, err := r.ReadBytes(5); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.buf, nil)
			if err := tt.read(r); !errors.Is(err, ErrShortRead) {
				t.Fatalf("expected ErrShortRead, got %v", err)
			}
			if r.Pos() != 0 {
				t.Errorf("failed read moved position to %d", r.Pos())
			}
		})
	}
}

func TestReaderFailedReadKeepsPosition(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03}, nil)

	if _, err := r.ReadInt32(); !errors.Is(err, ErrShortRead) {
		t.Fatalf("expected ErrShortRead, got %v", err)
	}
	if r.Pos() != 0 || r.Remaining() != 3 {
		t.Errorf("expected position 0 with 3 bytes left, got %d with %d", r.Pos(), r.Remaining())
	}
}

func TestReaderNegativeLength(t *testing.T) {
	r := NewReader([]byte{0x01}, nil)
	if _, err := r.ReadBytes(-1); err == nil {
		t.Error("expected error for negative length")
	}
}

func TestReaderAtIsIndependent(t *testing.T) {
	w := NewWriter(nil)
	w.WriteInt32(11)
	w.WriteInt32(22)
	r := NewReader(w.Bytes(), nil)

	second, err := r.At(4).ReadInt32()
	if err != nil {
		t.Fatalf("ReadInt32 at offset failed: %v", err)
	}
	first, err := r.ReadInt32()
	if err != nil {
		t.Fatalf("ReadInt32 failed: %v", err)
	}
	if first != 11 || second != 22 {
		t.Errorf("expected 11 and 22, got %d and %d", first, second)
	}
}

func TestReaderBigEndian(t *testing.T) {
	r := NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFE}, binary.BigEndian)

	v, err := r.ReadInt32()
	if err != nil {
		t.Fatalf("ReadInt32 failed: %v", err)
	}
	if v != -2 {
		t.Errorf("expected -2, got %d", v)
	}
}

func TestReaderReadUint16s(t *testing.T) {
	w := NewWriter(nil)
	w.WriteUint16s([]uint16{1, 0x0203, 0xFFFF})
	w.WriteUint8(9)

	r := NewReader(w.Bytes(), nil)
	got := make([]uint16, 3)
	if err := r.ReadUint16s(got); err != nil {
		t.Fatalf("ReadUint16s failed: %v", err)
	}
	want := []uint16{1, 0x0203, 0xFFFF}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: expected %d, got %d", i, want[i], got[i])
		}
	}

	if err := r.ReadUint16s(make([]uint16, 1)); !errors.Is(err, ErrShortRead) {
		t.Errorf("expected ErrShortRead, got %v", err)
	}
	if r.Pos() != 6 {
		t.Errorf("failed read moved position to %d", r.Pos())
	}
}
