package packet

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Reader provides methods for reading packet data.
// Multi-byte values default to Little-Endian; *BE variants read network order.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new packet reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{
		data: data,
		pos:  0,
	}
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("ReadUint8: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadInt8 reads an int8 (1 byte).
func (r *Reader) ReadInt8() (int8, error) {
	b, err := r.ReadUint8()
	return int8(b), err
}

// ReadBool reads one byte and reports whether it is non-zero.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadUint8()
	return b != 0, err
}

// ReadUint16 reads a uint16 (2 bytes, LE).
func (r *Reader) ReadUint16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("ReadUint16: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return val, nil
}

// ReadUint16BE reads a uint16 (2 bytes, BE).
func (r *Reader) ReadUint16BE() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("ReadUint16BE: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return val, nil
}

// ReadInt16 reads an int16 (2 bytes, LE).
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadInt16BE reads an int16 (2 bytes, BE).
func (r *Reader) ReadInt16BE() (int16, error) {
	v, err := r.ReadUint16BE()
	return int16(v), err
}

// ReadUint32 reads a uint32 (4 bytes, LE).
func (r *Reader) ReadUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("ReadUint32: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return val, nil
}

// ReadUint32BE reads a uint32 (4 bytes, BE).
func (r *Reader) ReadUint32BE() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("ReadUint32BE: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return val, nil
}

// ReadInt32 reads an int32 (4 bytes, LE).
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadInt32BE reads an int32 (4 bytes, BE).
func (r *Reader) ReadInt32BE() (int32, error) {
	v, err := r.ReadUint32BE()
	return int32(v), err
}

// ReadUint64 reads a uint64 (8 bytes, LE).
func (r *Reader) ReadUint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("ReadUint64: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return val, nil
}

// ReadUint64BE reads a uint64 (8 bytes, BE).
func (r *Reader) ReadUint64BE() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("ReadUint64BE: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return val, nil
}

// ReadInt64 reads an int64 (8 bytes, LE).
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadInt64BE reads an int64 (8 bytes, BE).
func (r *Reader) ReadInt64BE() (int64, error) {
	v, err := r.ReadUint64BE()
	return int64(v), err
}

// ReadString reads a short packet string: 1-byte length + UTF-8 bytes.
// The consumed bytes must be valid UTF-8 of exactly the declared length.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUint8()
	if err != nil {
		return "", fmt.Errorf("ReadString: %w", err)
	}
	return r.readStringBody(int(n))
}

// ReadLongString reads a long packet string: 2-byte LE length + UTF-8 bytes.
func (r *Reader) ReadLongString() (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", fmt.Errorf("ReadLongString: %w", err)
	}
	return r.readStringBody(int(n))
}

func (r *Reader) readStringBody(n int) (string, error) {
	if r.pos+n > len(r.data) {
		return "", fmt.Errorf("packet string: declared %d bytes, %d remaining", n, len(r.data)-r.pos)
	}
	raw := r.data[r.pos : r.pos+n]
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("packet string: invalid UTF-8 in %d-byte payload", n)
	}
	r.pos += n
	return string(raw), nil
}

// ReadBytes reads n bytes (ZERO-COPY — returns subslice of internal data).
// The returned slice shares its backing array with the Reader; callers must
// not modify it. Use ReadBytesCopy when mutation is needed.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("ReadBytes: negative count %d", n)
	}
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("ReadBytes: not enough data (pos=%d, need=%d, len=%d)", r.pos, n, len(r.data))
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadBytesCopy reads n bytes and returns a mutable copy.
func (r *Reader) ReadBytesCopy(n int) ([]byte, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Position returns the current read position.
func (r *Reader) Position() int {
	return r.pos
}
