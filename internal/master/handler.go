package master

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mireadev/cso2go/internal/channel"
	"github.com/mireadev/cso2go/internal/master/serverpackets"
	"github.com/mireadev/cso2go/internal/metrics"
	"github.com/mireadev/cso2go/internal/protocol"
	"github.com/mireadev/cso2go/internal/user"
)

// Handler routes decoded packets to their operation handlers. One Handler
// serves every connection; all per-player state lives in sessions and the
// channel directory.
type Handler struct {
	registry      *Registry
	directory     *channel.Directory
	users         *user.Client
	holepunchPort uint16
	metrics       *metrics.Metrics
}

// NewHandler creates the packet dispatcher. metrics may be nil.
func NewHandler(registry *Registry, directory *channel.Directory, users *user.Client,
	holepunchPort uint16, m *metrics.Metrics) *Handler {
	return &Handler{
		registry:      registry,
		directory:     directory,
		users:         users,
		holepunchPort: holepunchPort,
		metrics:       m,
	}
}

// Handle dispatches one decoded packet body (packet id byte first) and
// reports whether the operation succeeded. Failures are logged here or in
// the operation handler; the connection survives everything except framing
// errors, which never reach this point.
func (h *Handler) Handle(ctx context.Context, c *Conn, body []byte) bool {
	if len(body) == 0 {
		return false
	}
	id := protocol.PacketID(body[0])
	data := body[1:]

	// Only the version exchange and login itself run without a session.
	switch id {
	case protocol.PacketVersion:
		return h.handleVersion(c, data)
	case protocol.PacketLogin:
		return h.handleLogin(ctx, c, data)
	}

	sess := c.Session()
	if sess == nil {
		slog.Warn("packet before login", "conn", c.ID(), "packet", id.String())
		return false
	}

	switch id {
	case protocol.PacketRequestChannels:
		return h.handleRequestChannels(c)
	case protocol.PacketRequestRoomList:
		return h.handleRequestRoomList(c, sess, data)
	case protocol.PacketRoom:
		return h.handleRoom(c, sess, data)
	case protocol.PacketHost:
		return h.handleHost(ctx, c, sess, data)
	case protocol.PacketChat:
		return h.handleChat(c, sess, data)
	case protocol.PacketUdp:
		return h.handleUdp(c, sess, data)
	case protocol.PacketAboutMe:
		return h.handleAboutMe(ctx, c, sess, data)
	case protocol.PacketOption:
		return h.handleOption(ctx, c, sess, data)
	case protocol.PacketFavorite:
		return h.handleFavorite(ctx, c, sess, data)
	case protocol.PacketAchievement:
		return h.handleAchievement(c, sess)
	default:
		slog.Warn("unknown packet id", "conn", c.ID(), "id", uint8(id))
		return false
	}
}

// outgoing is any outbound packet builder from serverpackets.
type outgoing interface {
	Write() ([]byte, error)
}

// send builds and sends one packet. Sends on destroyed connections are
// swallowed with a warning; the registry entry is already being removed.
func send(c *Conn, p outgoing) bool {
	body, err := p.Write()
	if err != nil {
		slog.Error("building packet", "conn", c.ID(), "err", err)
		return false
	}
	if err := c.SendPacket(body); err != nil {
		if errors.Is(err, ErrConnClosed) {
			slog.Warn("send on closed connection", "conn", c.ID())
		} else {
			slog.Warn("sending packet", "conn", c.ID(), "err", err)
		}
		return false
	}
	return true
}

// sendDialog shows a modal GAME_* dialog on the client.
func sendDialog(c *Conn, message string) {
	send(c, serverpackets.NewDialog(message))
}

// sendSystemChat prints a GAME_* line into the client's system chat pane.
func sendSystemChat(c *Conn, message string) {
	send(c, serverpackets.NewSystemChat(message))
}

// broadcastRoom sends the packet to every occupant of the room, resolving
// each user id through the registry. Occupants without a live connection are
// skipped; their eviction is on its way through disconnect cleanup.
func (h *Handler) broadcastRoom(room *channel.Room, p outgoing) {
	h.broadcastRoomExcept(room, p, 0)
}

// broadcastRoomExcept is broadcastRoom minus one user id (0 excludes nobody).
func (h *Handler) broadcastRoomExcept(room *channel.Room, p outgoing, except uint32) {
	for _, slot := range room.Occupants() {
		if slot.UserID == except {
			continue
		}
		if c := h.registry.FindByUserID(slot.UserID); c != nil {
			send(c, p)
		}
	}
}

// broadcastLobby sends the packet to every user idling in the channel lobby.
// Membership is snapshotted first so no channel lock is held across sends.
func (h *Handler) broadcastLobby(ch *channel.Channel, p outgoing) {
	for _, userID := range ch.LobbyMembers() {
		if c := h.registry.FindByUserID(userID); c != nil {
			send(c, p)
		}
	}
}

// channelOf resolves the channel owning a room.
func (h *Handler) channelOf(room *channel.Room) *channel.Channel {
	ch, ok := h.directory.ChannelAt(room.ServerIndex(), room.ChannelIndex())
	if !ok {
		// Rooms only exist inside directory channels.
		slog.Error("room references unknown channel",
			"room", room.ID(), "server", room.ServerIndex(), "channel", room.ChannelIndex())
		return nil
	}
	return ch
}

// openRooms counts rooms across the whole directory, for the metrics gauge.
func (h *Handler) openRooms() int {
	n := 0
	for _, srv := range h.directory.Servers() {
		for _, ch := range srv.Channels() {
			n += ch.RoomCount()
		}
	}
	return n
}
