package master

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"net"
)

// Holepunch is the UDP endpoint clients use to discover their public
// address. Any datagram is answered with the observed 4-byte IPv4 and
// 2-byte port of the sender; the payload is ignored.
type Holepunch struct {
	addr string
}

// NewHolepunch creates the endpoint for the given UDP listen address.
func NewHolepunch(addr string) *Holepunch {
	return &Holepunch{addr: addr}
}

// Run listens on the configured address and serves until the context is
// canceled.
func (h *Holepunch) Run(ctx context.Context) error {
	udpAddr, err := net.ResolveUDPAddr("udp", h.addr)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", h.addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", h.addr, err)
	}
	return h.Serve(ctx, conn)
}

// Serve answers datagrams on conn until the context is canceled.
func (h *Holepunch) Serve(ctx context.Context, conn *net.UDPConn) error {
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	slog.Info("holepunch endpoint listening", "addr", conn.LocalAddr().String())

	buf := make([]byte, 64)
	for {
		_, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				slog.Info("holepunch endpoint stopped")
				return ctx.Err()
			}
			slog.Warn("holepunch read failed", "err", err)
			continue
		}

		ip4 := raddr.IP.To4()
		if ip4 == nil {
			continue
		}

		// 4 bytes IPv4 in network order, 2 bytes port LE, matching the
		// endpoint layout clients report over TCP.
		var reply [6]byte
		copy(reply[:4], ip4)
		binary.LittleEndian.PutUint16(reply[4:], uint16(raddr.Port))

		if _, err := conn.WriteToUDP(reply[:], raddr); err != nil {
			slog.Warn("holepunch reply failed", "remote", raddr.String(), "err", err)
		}
	}
}
