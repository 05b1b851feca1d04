package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrBadFrame reports a frame that violates the wire format. Connections that
// produce one are terminated by the caller.
var ErrBadFrame = errors.New("bad frame")

// ReadFrame reads one frame from r into buf.
// It returns the peer's sequence byte and the body (packet id followed by
// payload) as a subslice of buf.
func ReadFrame(r io.Reader, buf []byte) (uint8, []byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, fmt.Errorf("reading frame header: %w", err)
	}

	if header[0] != Signature {
		return 0, nil, fmt.Errorf("%w: signature 0x%02X", ErrBadFrame, header[0])
	}

	bodyLen := int(binary.LittleEndian.Uint16(header[LengthOffset:HeaderSize]))
	if bodyLen == 0 {
		return 0, nil, fmt.Errorf("%w: empty body", ErrBadFrame)
	}
	if bodyLen > len(buf) {
		return 0, nil, fmt.Errorf("frame body %d exceeds buffer size %d", bodyLen, len(buf))
	}

	body := buf[:bodyLen]
	if n, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, nil, fmt.Errorf("%w: body truncated at %d of %d bytes", ErrBadFrame, n, bodyLen)
		}
		return 0, nil, fmt.Errorf("reading frame body: %w", err)
	}

	return header[SequenceOffset], body, nil
}

// EncodeFrame assembles the wire frame for body into buf and returns the
// framed slice. body must begin with the packet id byte. buf is reused when
// it has enough capacity, otherwise a new slice is allocated.
func EncodeFrame(buf []byte, seq uint8, body []byte) ([]byte, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrBadFrame)
	}
	if len(body) > MaxBodyLen {
		return nil, fmt.Errorf("%w: body length %d exceeds %d", ErrBadFrame, len(body), MaxBodyLen)
	}

	total := HeaderSize + len(body)
	if cap(buf) < total {
		buf = make([]byte, total)
	}
	buf = buf[:total]

	buf[0] = Signature
	buf[SequenceOffset] = seq
	binary.LittleEndian.PutUint16(buf[LengthOffset:HeaderSize], uint16(len(body)))
	copy(buf[HeaderSize:], body)

	return buf, nil
}

// StampSequence overwrites the sequence byte of an already framed buffer.
// Used when a frame is assembled once and sent to several peers, each with
// its own outbound counter.
func StampSequence(frame []byte, seq uint8) error {
	if len(frame) < HeaderSize || frame[0] != Signature {
		return fmt.Errorf("%w: not a framed buffer", ErrBadFrame)
	}
	frame[SequenceOffset] = seq
	return nil
}
