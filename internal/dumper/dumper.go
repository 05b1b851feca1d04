// Package dumper writes raw wire frames to disk for forensic replay. The
// sink never blocks the connection write path: frames go through a buffered
// channel and are dropped, counted, when the writer falls behind.
package dumper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
)

// queueSize bounds how many frames may wait for the disk writer.
const queueSize = 1024

type direction string

const (
	dirIn  direction = "in"
	dirOut direction = "out"
)

type record struct {
	dir      direction
	connID   string
	seq      uint64
	packetID uint8
	frame    []byte
}

// Dumper is an asynchronous packet dump sink. It implements the connection
// layer's PacketSink interface: Inbound and Outbound copy the frame and
// enqueue it; Run drains the queue to disk.
type Dumper struct {
	baseDir string
	queue   chan record
	dropped atomic.Uint64
}

// New creates a dumper rooted at baseDir. The in/ and out/ subdirectories
// are recreated empty, discarding dumps from earlier runs.
func New(baseDir string) (*Dumper, error) {
	for _, dir := range []direction{dirIn, dirOut} {
		path := filepath.Join(baseDir, string(dir))
		if err := os.RemoveAll(path); err != nil {
			return nil, fmt.Errorf("clearing dump dir %s: %w", path, err)
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("creating dump dir %s: %w", path, err)
		}
	}

	return &Dumper{
		baseDir: baseDir,
		queue:   make(chan record, queueSize),
	}, nil
}

// Inbound records a frame read from a client.
func (d *Dumper) Inbound(connID string, seq uint64, packetID uint8, frame []byte) {
	d.enqueue(dirIn, connID, seq, packetID, frame)
}

// Outbound records a frame written to a client.
func (d *Dumper) Outbound(connID string, seq uint64, packetID uint8, frame []byte) {
	d.enqueue(dirOut, connID, seq, packetID, frame)
}

// enqueue copies the frame and hands it to the writer. The caller's slice is
// pool-backed, so the copy must happen before returning.
func (d *Dumper) enqueue(dir direction, connID string, seq uint64, packetID uint8, frame []byte) {
	data := make([]byte, len(frame))
	copy(data, frame)

	select {
	case d.queue <- record{dir: dir, connID: connID, seq: seq, packetID: packetID, frame: data}:
	default:
		d.dropped.Add(1)
	}
}

// Dropped returns how many frames were discarded because the queue was full.
func (d *Dumper) Dropped() uint64 {
	return d.dropped.Load()
}

// Run blocks, writing queued frames until the context is canceled. Frames
// still queued at cancellation are flushed before returning.
func (d *Dumper) Run(ctx context.Context) error {
	slog.Info("packet dumper started", "dir", d.baseDir)

	for {
		select {
		case <-ctx.Done():
			d.flush()
			slog.Info("packet dumper stopping", "dropped", d.Dropped())
			return ctx.Err()
		case rec := <-d.queue:
			d.write(rec)
		}
	}
}

func (d *Dumper) flush() {
	for {
		select {
		case rec := <-d.queue:
			d.write(rec)
		default:
			return
		}
	}
}

// write stores one frame as {baseDir}/{in|out}/{connUuid}_{paddedSeq}-{packetId}.bin.
func (d *Dumper) write(rec record) {
	name := fmt.Sprintf("%s_%08d-%d.bin", rec.connID, rec.seq, rec.packetID)
	path := filepath.Join(d.baseDir, string(rec.dir), name)
	if err := os.WriteFile(path, rec.frame, 0o644); err != nil {
		slog.Warn("failed to write packet dump", "path", path, "err", err)
	}
}
