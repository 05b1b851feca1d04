package packet

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestReader_ReadUint8(t *testing.T) {
	r := NewReader([]byte{0x42})

	val, err := r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if val != 0x42 {
		t.Errorf("expected 0x42, got 0x%02X", val)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected 0 remaining bytes, got %d", r.Remaining())
	}

	if _, err := r.ReadUint8(); err == nil {
		t.Error("expected error reading past the end, got nil")
	}
}

func TestReader_ReadUint16(t *testing.T) {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint16(data[:2], 0x1234)
	binary.BigEndian.PutUint16(data[2:], 0x1234)

	r := NewReader(data)

	le, err := r.ReadUint16()
	if err != nil {
		t.Fatalf("ReadUint16 failed: %v", err)
	}
	if le != 0x1234 {
		t.Errorf("LE: expected 0x1234, got 0x%04X", le)
	}

	be, err := r.ReadUint16BE()
	if err != nil {
		t.Fatalf("ReadUint16BE failed: %v", err)
	}
	if be != 0x1234 {
		t.Errorf("BE: expected 0x1234, got 0x%04X", be)
	}
}

func TestReader_ReadUint32(t *testing.T) {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint32(data[:4], 0x12345678)
	binary.BigEndian.PutUint32(data[4:], 0x12345678)

	r := NewReader(data)

	le, err := r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if le != 0x12345678 {
		t.Errorf("LE: expected 0x12345678, got 0x%08X", le)
	}

	be, err := r.ReadUint32BE()
	if err != nil {
		t.Fatalf("ReadUint32BE failed: %v", err)
	}
	if be != 0x12345678 {
		t.Errorf("BE: expected 0x12345678, got 0x%08X", be)
	}
}

func TestReader_ReadUint64(t *testing.T) {
	data := make([]byte, 16)
	binary.LittleEndian.PutUint64(data[:8], 0x123456789ABCDEF0)
	binary.BigEndian.PutUint64(data[8:], 0x123456789ABCDEF0)

	r := NewReader(data)

	le, err := r.ReadUint64()
	if err != nil {
		t.Fatalf("ReadUint64 failed: %v", err)
	}
	if le != 0x123456789ABCDEF0 {
		t.Errorf("LE: expected 0x123456789ABCDEF0, got 0x%016X", le)
	}

	be, err := r.ReadUint64BE()
	if err != nil {
		t.Fatalf("ReadUint64BE failed: %v", err)
	}
	if be != 0x123456789ABCDEF0 {
		t.Errorf("BE: expected 0x123456789ABCDEF0, got 0x%016X", be)
	}
}

func TestReader_ReadInt16_Negative(t *testing.T) {
	r := NewReader([]byte{0xFF, 0xFF})

	val, err := r.ReadInt16()
	if err != nil {
		t.Fatalf("ReadInt16 failed: %v", err)
	}
	if val != -1 {
		t.Errorf("expected -1, got %d", val)
	}
}

func TestReader_ReadUint16_Short(t *testing.T) {
	r := NewReader([]byte{0x01})

	if _, err := r.ReadUint16(); err == nil {
		t.Error("expected error for 1-byte input, got nil")
	}
}

func TestReader_ReadString(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "empty string",
			input:    []byte{0x00},
			expected: "",
		},
		{
			name:     "ASCII string",
			input:    append([]byte{0x05}, []byte("hello")...),
			expected: "hello",
		},
		{
			name:     "multibyte UTF-8",
			input:    append([]byte{0x06}, []byte("안녕")...),
			expected: "안녕",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.input)

			got, err := r.ReadString()
			if err != nil {
				t.Fatalf("ReadString failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
			if r.Remaining() != 0 {
				t.Errorf("expected 0 remaining bytes, got %d", r.Remaining())
			}
		})
	}
}

func TestReader_ReadString_Truncated(t *testing.T) {
	// Declares 5 bytes, carries 3.
	r := NewReader([]byte{0x05, 'a', 'b', 'c'})

	if _, err := r.ReadString(); err == nil {
		t.Error("expected error for truncated string, got nil")
	}
}

func TestReader_ReadString_InvalidUTF8(t *testing.T) {
	r := NewReader([]byte{0x02, 0xFF, 0xFE})

	if _, err := r.ReadString(); err == nil {
		t.Error("expected error for invalid UTF-8, got nil")
	}
}

func TestReader_ReadLongString(t *testing.T) {
	payload := bytes.Repeat([]byte{'z'}, 300)
	data := make([]byte, 2, 2+len(payload))
	binary.LittleEndian.PutUint16(data, 300)
	data = append(data, payload...)

	r := NewReader(data)

	got, err := r.ReadLongString()
	if err != nil {
		t.Fatalf("ReadLongString failed: %v", err)
	}
	if len(got) != 300 {
		t.Errorf("expected 300 bytes, got %d", len(got))
	}
}

func TestReader_ReadBytes(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4, 5})

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", got)
	}
	if r.Position() != 3 {
		t.Errorf("expected position 3, got %d", r.Position())
	}

	if _, err := r.ReadBytes(3); err == nil {
		t.Error("expected error reading past the end, got nil")
	}
}

func TestReader_WriterRoundTrip(t *testing.T) {
	w := NewWriter(64)
	w.WriteUint8(7)
	w.WriteBool(true)
	w.WriteInt16(-512)
	w.WriteUint32BE(0xCAFEBABE)
	w.WriteInt64(-42)
	w.WriteString("masterserver")
	w.WriteLongString("안녕하세요")

	data, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	r := NewReader(data)
	if v, _ := r.ReadUint8(); v != 7 {
		t.Errorf("uint8: expected 7, got %d", v)
	}
	if v, _ := r.ReadBool(); !v {
		t.Error("bool: expected true")
	}
	if v, _ := r.ReadInt16(); v != -512 {
		t.Errorf("int16: expected -512, got %d", v)
	}
	if v, _ := r.ReadUint32BE(); v != 0xCAFEBABE {
		t.Errorf("uint32 BE: expected 0xCAFEBABE, got 0x%08X", v)
	}
	if v, _ := r.ReadInt64(); v != -42 {
		t.Errorf("int64: expected -42, got %d", v)
	}
	if v, _ := r.ReadString(); v != "masterserver" {
		t.Errorf("string: expected %q, got %q", "masterserver", v)
	}
	if v, _ := r.ReadLongString(); v != "안녕하세요" {
		t.Errorf("long string: expected %q, got %q", "안녕하세요", v)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected 0 remaining bytes, got %d", r.Remaining())
	}
}
