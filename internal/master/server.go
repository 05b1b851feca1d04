package master

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/mireadev/cso2go/internal/channel"
	"github.com/mireadev/cso2go/internal/master/serverpackets"
	"github.com/mireadev/cso2go/internal/metrics"
	"github.com/mireadev/cso2go/internal/protocol"
	"github.com/mireadev/cso2go/internal/user"
)

// logoutTimeout bounds the upstream logout call fired during disconnect
// cleanup, which runs without a live request context.
const logoutTimeout = 5 * time.Second

// ServerConfig carries the listener endpoints and optional hooks.
type ServerConfig struct {
	// Addr is the TCP listen address, host:port.
	Addr string
	// HolepunchPort is advertised to clients in UserStart.
	HolepunchPort uint16
	// Sink receives raw frames when packet dumping is enabled. Optional.
	Sink PacketSink
	// Metrics receives operational gauges and counters. Optional.
	Metrics *metrics.Metrics
}

// Server owns the TCP listener and every connection accepted from it.
type Server struct {
	cfg      ServerConfig
	registry *Registry
	handler  *Handler
	sink     PacketSink
	metrics  *metrics.Metrics

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

// NewServer composes the server over its collaborators. The registry is
// created here; tests and the holepunch endpoint reach it via Registry().
func NewServer(cfg ServerConfig, directory *channel.Directory, users *user.Client) *Server {
	registry := NewRegistry()
	sink := composeSink(cfg.Sink, cfg.Metrics)
	return &Server{
		cfg:      cfg,
		registry: registry,
		handler:  NewHandler(registry, directory, users, cfg.HolepunchPort, cfg.Metrics),
		sink:     sink,
		metrics:  cfg.Metrics,
	}
}

// Registry returns the connection registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Addr returns the bound listener address, nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Run listens on the configured address and serves until the context is
// canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until the context is canceled, then
// closes every live connection and waits for the read loops to drain.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	slog.Info("master server listening", "addr", ln.Addr().String())

	// Closing the listener is what breaks the accept loop below.
	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
	})
	defer stop()

	for {
		sock, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			slog.Warn("accept failed", "err", err)
			continue
		}

		conn, err := NewConn(sock, s.sink)
		if err != nil {
			slog.Warn("rejecting connection", "remote", sock.RemoteAddr().String(), "err", err)
			_ = sock.Close()
			continue
		}

		s.registry.Add(conn)
		s.metrics.SetConnections(s.registry.Count())
		slog.Debug("connection accepted", "conn", conn.ID(), "remote", conn.RemoteAddr().String())

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, conn)
		}()
	}

	for _, conn := range s.registry.Snapshot() {
		_ = conn.Close()
	}
	s.wg.Wait()
	slog.Info("master server stopped")
	return ctx.Err()
}

// serveConn runs one connection's read loop and its disconnect cleanup.
func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer s.dropConn(c)

	buf := make([]byte, protocol.MaxBodyLen)
	for {
		if err := c.sock.SetReadDeadline(time.Now().Add(defaultReadTimeout)); err != nil {
			return
		}

		seq, body, err := protocol.ReadFrame(c.sock, buf)
		if err != nil {
			switch {
			case errors.Is(err, protocol.ErrBadFrame):
				slog.Warn("bad frame, dropping connection", "conn", c.ID(), "err", err)
			case c.Destroyed() || errors.Is(err, net.ErrClosed):
				// shutdown path
			default:
				slog.Debug("connection read ended", "conn", c.ID(), "err", err)
			}
			return
		}

		c.ObserveInbound(seq, body)
		h := protocol.PacketID(body[0])
		if !s.handler.Handle(ctx, c, body) {
			slog.Debug("packet not handled", "conn", c.ID(), "packet", h.String())
		}
	}
}

// dropConn tears one connection down: room eviction with host migration,
// lobby removal, upstream logout, registry removal.
func (s *Server) dropConn(c *Conn) {
	_ = c.Close()
	s.registry.Remove(c)
	s.metrics.SetConnections(s.registry.Count())

	sess := c.Session()
	if sess == nil {
		slog.Debug("connection dropped", "conn", c.ID())
		return
	}
	userID := sess.User().ID

	if room := sess.Room(); room != nil {
		if res, err := room.Evict(userID); err == nil {
			if ch := s.handler.settleDeparture(sess, room, res); ch != nil {
				s.handler.broadcastLobby(ch, serverpackets.NewRoomList(ch.Rooms()))
			}
		}
		sess.ClearRoom()
	}
	if ch := sess.Channel(); ch != nil {
		ch.LeaveLobby(userID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), logoutTimeout)
	defer cancel()
	if err := s.handler.users.Logout(ctx, userID); err != nil {
		slog.Warn("upstream logout failed", "conn", c.ID(), "user", userID, "err", err)
	}

	s.metrics.SetSessions(s.registry.SessionCount())
	slog.Info("user disconnected", "conn", c.ID(), "user", userID)
}

// composeSink stacks the optional dump sink with the metrics frame counter.
func composeSink(dump PacketSink, m *metrics.Metrics) PacketSink {
	var sinks multiSink
	if m != nil {
		sinks = append(sinks, metricsSink{m})
	}
	if dump != nil {
		sinks = append(sinks, dump)
	}
	switch len(sinks) {
	case 0:
		return nil
	case 1:
		return sinks[0]
	default:
		return sinks
	}
}

// metricsSink counts frames and bytes per direction.
type metricsSink struct {
	m *metrics.Metrics
}

func (s metricsSink) Inbound(_ string, _ uint64, packetID uint8, frame []byte) {
	s.m.ObserveInbound(protocol.PacketID(packetID).String(), len(frame))
}

func (s metricsSink) Outbound(_ string, _ uint64, packetID uint8, frame []byte) {
	s.m.ObserveOutbound(protocol.PacketID(packetID).String(), len(frame))
}

// multiSink fans one frame out to several sinks.
type multiSink []PacketSink

func (ms multiSink) Inbound(connID string, seq uint64, packetID uint8, frame []byte) {
	for _, s := range ms {
		s.Inbound(connID, seq, packetID, frame)
	}
}

func (ms multiSink) Outbound(connID string, seq uint64, packetID uint8, frame []byte) {
	for _, s := range ms {
		s.Outbound(connID, seq, packetID, frame)
	}
}
