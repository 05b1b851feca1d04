package master

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mireadev/cso2go/internal/protocol"
)

// Default socket budgets. An idle client that stalls mid-frame for longer
// than the read timeout is disconnected.
const (
	defaultWriteTimeout = 5 * time.Second
	defaultReadTimeout  = 120 * time.Second
)

// ErrConnClosed is returned by sends on a destroyed connection. Broadcast
// paths swallow it with a warning; the registry entry is already on its way
// out.
var ErrConnClosed = errors.New("connection closed")

// PacketSink receives every framed packet when dumping is enabled.
// Implementations must not block (the connection write lock is held while
// the outbound hook runs) and must copy the frame before returning: the
// slice is pool-backed and reused after the call.
type PacketSink interface {
	// Inbound records a frame read from the client. seq is the unbounded
	// per-direction ordinal, not the wire byte.
	Inbound(connID string, seq uint64, packetID uint8, frame []byte)
	// Outbound records a frame written to the client.
	Outbound(connID string, seq uint64, packetID uint8, frame []byte)
}

// Conn wraps one accepted client socket. It owns the per-direction sequence
// counters and serializes writes so the sequence byte stamped into each
// frame matches the order on the wire.
type Conn struct {
	sock net.Conn
	id   string
	ip   string

	writeMu sync.Mutex
	out     protocol.Sequence
	in      protocol.Sequence

	destroyed atomic.Bool

	mu      sync.Mutex
	session *UserSession

	sink PacketSink

	writeTimeout time.Duration
}

// NewConn wraps an accepted socket. sink may be nil (dumping disabled).
func NewConn(sock net.Conn, sink PacketSink) (*Conn, error) {
	host, _, err := net.SplitHostPort(sock.RemoteAddr().String())
	if err != nil {
		return nil, fmt.Errorf("splitting host port: %w", err)
	}

	return &Conn{
		sock:         sock,
		id:           uuid.NewString(),
		ip:           host,
		sink:         sink,
		writeTimeout: defaultWriteTimeout,
	}, nil
}

// ID returns the connection UUID, stable for the connection lifetime.
func (c *Conn) ID() string {
	return c.id
}

// IP returns the client's remote IP address.
func (c *Conn) IP() string {
	return c.ip
}

// RemoteAddr returns the full remote address of the socket.
func (c *Conn) RemoteAddr() net.Addr {
	return c.sock.RemoteAddr()
}

// Session returns the attached session, nil before login.
func (c *Conn) Session() *UserSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// SetSession attaches the post-login session.
func (c *Conn) SetSession(s *UserSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// ObserveInbound advances the inbound counters for one decoded frame and
// feeds the dump sink. The wire sequence byte is advisory; file names use
// the unbounded ordinal.
func (c *Conn) ObserveInbound(seq uint8, body []byte) {
	c.in.Next()
	if c.sink == nil || len(body) == 0 {
		return
	}

	buf := framePool.Get(protocol.HeaderSize + len(body))
	defer framePool.Put(buf)

	frame, err := protocol.EncodeFrame(buf, seq, body)
	if err != nil {
		return
	}
	c.sink.Inbound(c.id, c.in.Total()-1, body[0], frame)
}

// SendPacket frames body and writes it to the socket. body[0] must be the
// packet id; the rest is the packet payload. The write lock spans sequence
// stamping and the write itself, so concurrent senders cannot reorder
// sequence bytes on the wire.
func (c *Conn) SendPacket(body []byte) error {
	if len(body) == 0 {
		return fmt.Errorf("empty packet body")
	}
	if c.destroyed.Load() {
		return fmt.Errorf("%w: send packet 0x%02X", ErrConnClosed, body[0])
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	buf := framePool.Get(protocol.HeaderSize + len(body))
	defer framePool.Put(buf)

	seq := c.out.Next()
	frame, err := protocol.EncodeFrame(buf, seq, body)
	if err != nil {
		return fmt.Errorf("framing packet 0x%02X: %w", body[0], err)
	}

	return c.writeFrameLocked(frame, body[0])
}

// SendRaw re-stamps an already framed buffer with this connection's next
// sequence byte and writes it. Used by broadcasts sharing one encode pass.
func (c *Conn) SendRaw(frame []byte) error {
	if c.destroyed.Load() {
		return fmt.Errorf("%w: send raw frame", ErrConnClosed)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := protocol.StampSequence(frame, c.out.Next()); err != nil {
		return fmt.Errorf("stamping frame: %w", err)
	}

	return c.writeFrameLocked(frame, frame[protocol.HeaderSize])
}

func (c *Conn) writeFrameLocked(frame []byte, packetID uint8) error {
	if err := c.sock.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return fmt.Errorf("setting write deadline: %w", err)
	}
	if _, err := c.sock.Write(frame); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	if c.sink != nil {
		c.sink.Outbound(c.id, c.out.Total()-1, packetID, frame)
	}
	return nil
}

// OutboundTotal returns how many frames were sent, for logs and tests.
func (c *Conn) OutboundTotal() uint64 {
	return c.out.Total()
}

// Close destroys the connection. Safe to call multiple times; sends after
// the first call fail with ErrConnClosed.
func (c *Conn) Close() error {
	if !c.destroyed.CompareAndSwap(false, true) {
		return nil
	}
	return c.sock.Close()
}

// Destroyed reports whether Close ran.
func (c *Conn) Destroyed() bool {
	return c.destroyed.Load()
}

// framePool recycles outbound frame buffers across connections.
var framePool = protocol.NewBytePool(512)
