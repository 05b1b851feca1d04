package protocol

import "sync/atomic"

// Sequence tracks one direction of a connection's packet numbering.
// The wire carries only the low byte, wrapping 255 back to 0; the full
// count keeps growing and is used for packet dump file names.
type Sequence struct {
	n atomic.Uint64
}

// Next returns the sequence byte for the next frame and advances the counter.
// The first call returns 0.
func (s *Sequence) Next() uint8 {
	return uint8((s.n.Add(1) - 1) & 0xFF)
}

// Total returns how many frames have been numbered so far.
func (s *Sequence) Total() uint64 {
	return s.n.Load()
}
