package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
)

// Writer provides methods for writing packet data.
// Multi-byte values default to Little-Endian; the *BE variants exist for the
// handful of fields the client expects in network order.
//
// Errors are sticky: the first failed write (an oversized string) is kept and
// returned from Err/Bytes, later writes become no-ops.
type Writer struct {
	buf *bytes.Buffer
	err error
}

// writerPool reduces allocations by reusing Writers.
// Get() returns a Writer with Reset() called, Put() returns it to pool.
var writerPool = sync.Pool{
	New: func() any {
		return &Writer{
			buf: bytes.NewBuffer(make([]byte, 0, 512)),
		}
	},
}

// Get returns a Writer from the pool (already Reset).
func Get() *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	return w
}

// Put returns a Writer to the pool for reuse.
// IMPORTANT: Do not use the Writer after calling Put.
func (w *Writer) Put() {
	writerPool.Put(w)
}

// NewWriter creates a new packet writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{
		buf: bytes.NewBuffer(make([]byte, 0, capacity)),
	}
}

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(val uint8) {
	if w.err != nil {
		return
	}
	w.buf.WriteByte(val)
}

// WriteInt8 writes an int8 (1 byte).
func (w *Writer) WriteInt8(val int8) {
	w.WriteUint8(uint8(val))
}

// WriteBool writes a bool as one byte (0 or 1).
func (w *Writer) WriteBool(val bool) {
	if val {
		w.WriteUint8(1)
		return
	}
	w.WriteUint8(0)
}

// WriteUint16 writes a uint16 (2 bytes, LE).
func (w *Writer) WriteUint16(val uint16) {
	if w.err != nil {
		return
	}
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
}

// WriteUint16BE writes a uint16 (2 bytes, BE).
func (w *Writer) WriteUint16BE(val uint16) {
	if w.err != nil {
		return
	}
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val))
}

// WriteInt16 writes an int16 (2 bytes, LE).
func (w *Writer) WriteInt16(val int16) {
	w.WriteUint16(uint16(val))
}

// WriteInt16BE writes an int16 (2 bytes, BE).
func (w *Writer) WriteInt16BE(val int16) {
	w.WriteUint16BE(uint16(val))
}

// WriteUint32 writes a uint32 (4 bytes, LE).
func (w *Writer) WriteUint32(val uint32) {
	if w.err != nil {
		return
	}
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val >> 16))
	w.buf.WriteByte(byte(val >> 24))
}

// WriteUint32BE writes a uint32 (4 bytes, BE).
func (w *Writer) WriteUint32BE(val uint32) {
	if w.err != nil {
		return
	}
	w.buf.WriteByte(byte(val >> 24))
	w.buf.WriteByte(byte(val >> 16))
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val))
}

// WriteInt32 writes an int32 (4 bytes, LE).
func (w *Writer) WriteInt32(val int32) {
	w.WriteUint32(uint32(val))
}

// WriteInt32BE writes an int32 (4 bytes, BE).
func (w *Writer) WriteInt32BE(val int32) {
	w.WriteUint32BE(uint32(val))
}

// WriteUint64 writes a uint64 (8 bytes, LE).
func (w *Writer) WriteUint64(val uint64) {
	if w.err != nil {
		return
	}
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], val)
	w.buf.Write(tmp[:])
}

// WriteUint64BE writes a uint64 (8 bytes, BE).
func (w *Writer) WriteUint64BE(val uint64) {
	if w.err != nil {
		return
	}
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], val)
	w.buf.Write(tmp[:])
}

// WriteInt64 writes an int64 (8 bytes, LE).
func (w *Writer) WriteInt64(val int64) {
	w.WriteUint64(uint64(val))
}

// WriteInt64BE writes an int64 (8 bytes, BE).
func (w *Writer) WriteInt64BE(val int64) {
	w.WriteUint64BE(uint64(val))
}

// WriteString writes a short packet string: 1-byte length followed by that
// many UTF-8 bytes. The length counts encoded bytes, not runes. Strings whose
// UTF-8 encoding exceeds 255 bytes poison the writer.
func (w *Writer) WriteString(s string) {
	if w.err != nil {
		return
	}
	if len(s) > math.MaxUint8 {
		w.err = fmt.Errorf("packet string too long: %d bytes (max %d)", len(s), math.MaxUint8)
		return
	}
	w.buf.WriteByte(byte(len(s)))
	w.buf.WriteString(s)
}

// WriteLongString writes a long packet string: 2-byte LE length followed by
// that many UTF-8 bytes.
func (w *Writer) WriteLongString(s string) {
	if w.err != nil {
		return
	}
	if len(s) > math.MaxUint16 {
		w.err = fmt.Errorf("packet long string too long: %d bytes (max %d)", len(s), math.MaxUint16)
		return
	}
	w.WriteUint16(uint16(len(s)))
	w.buf.WriteString(s)
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	if w.err != nil {
		return
	}
	w.buf.Write(data)
}

// Bytes returns the accumulated packet data and the sticky error, if any.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

// Err returns the sticky error, if any.
func (w *Writer) Err() error {
	return w.err
}

// Len returns the current length of the packet.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset clears the buffer and the sticky error for reuse.
func (w *Writer) Reset() {
	w.buf.Reset()
	w.err = nil
}
