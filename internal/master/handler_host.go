package master

import (
	"context"
	"log/slog"

	"github.com/mireadev/cso2go/internal/channel"
	"github.com/mireadev/cso2go/internal/master/clientpackets"
	"github.com/mireadev/cso2go/internal/master/serverpackets"
	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// handleHost routes the Host packet sub-operations. Everything here carries
// match authority and is only honored from the current room host.
func (h *Handler) handleHost(ctx context.Context, c *Conn, sess *UserSession, data []byte) bool {
	op, r, err := clientpackets.ReadHostRequest(data)
	if err != nil {
		slog.Warn("malformed host packet", "conn", c.ID(), "err", err)
		return false
	}

	room := sessionRoom(c, sess)
	if room == nil {
		return false
	}
	if !room.IsHost(sess.User().ID) {
		slog.Warn("host request from a non-host", "conn", c.ID(),
			"user", sess.User().ID, "room", room.ID(), "op", op.String())
		return false
	}

	switch op {
	case clientpackets.HostRequestOnGameEnd:
		return h.onGameEnd(c, sess, room)
	case clientpackets.HostRequestSetUserInventory:
		return h.setUserInventory(ctx, c, room, r)
	case clientpackets.HostRequestSetUserLoadout:
		return h.setUserLoadout(ctx, c, room, r)
	case clientpackets.HostRequestSetUserBuyMenu:
		return h.setUserBuyMenu(ctx, c, room, r)
	case clientpackets.HostRequestTeamChanging:
		return h.teamChanging(c, r)
	case clientpackets.HostRequestItemUsing:
		return h.itemUsing(c, r)
	default:
		slog.Warn("unknown host request", "conn", c.ID(), "op", uint8(op))
		return false
	}
}

// onGameEnd moves the room into the result phase and shows the result
// window on every occupant.
func (h *Handler) onGameEnd(c *Conn, sess *UserSession, room *channel.Room) bool {
	if err := room.EndGame(sess.User().ID); err != nil {
		slog.Warn("game end rejected", "conn", c.ID(), "room", room.ID(), "err", err)
		return false
	}

	h.broadcastRoom(room, serverpackets.RoomSetGameResult{})
	if ch := h.channelOf(room); ch != nil {
		h.broadcastLobby(ch, serverpackets.NewRoomList(ch.Rooms()))
	}
	slog.Info("game ended", "room", room.ID(), "host", sess.User().ID)
	return true
}

// hostTarget reads the target user id and checks the target sits in the
// host's room.
func hostTarget(c *Conn, room *channel.Room, r *packet.Reader) (uint32, bool) {
	target, err := clientpackets.ParseHostTarget(r)
	if err != nil {
		slog.Warn("malformed host target", "conn", c.ID(), "err", err)
		return 0, false
	}
	if !room.IsOccupant(target) {
		sendDialog(c, GameUserNotFound)
		return 0, false
	}
	return target, true
}

// setUserInventory fetches the target's owned items and hands them to the
// host's game process.
func (h *Handler) setUserInventory(ctx context.Context, c *Conn, room *channel.Room, r *packet.Reader) bool {
	target, ok := hostTarget(c, room, r)
	if !ok {
		return false
	}

	inv, err := h.users.GetInventory(ctx, target)
	if err != nil {
		slog.Error("fetching inventory for host", "conn", c.ID(), "target", target, "err", err)
		sendDialog(c, GameServiceUnavailable)
		return false
	}
	if inv == nil {
		sendDialog(c, GameUserNotFound)
		return false
	}

	return send(c, serverpackets.HostSetInventory{UserID: target, Items: inv.Items})
}

// setUserLoadout fetches the target's weapon loadouts, caches the active one
// in the room slot and hands the set to the host.
func (h *Handler) setUserLoadout(ctx context.Context, c *Conn, room *channel.Room, r *packet.Reader) bool {
	target, ok := hostTarget(c, room, r)
	if !ok {
		return false
	}

	louts, err := h.users.GetLoadouts(ctx, target)
	if err != nil {
		slog.Error("fetching loadouts for host", "conn", c.ID(), "target", target, "err", err)
		sendDialog(c, GameServiceUnavailable)
		return false
	}
	if len(louts) == 0 {
		sendDialog(c, GameUserNotFound)
		return false
	}

	if err := room.CacheLoadout(target, louts[0]); err != nil {
		slog.Warn("caching loadout", "room", room.ID(), "target", target, "err", err)
	}
	return send(c, serverpackets.HostSetLoadout{UserID: target, Loadouts: louts})
}

// setUserBuyMenu fetches the target's buy menu and hands it to the host.
func (h *Handler) setUserBuyMenu(ctx context.Context, c *Conn, room *channel.Room, r *packet.Reader) bool {
	target, ok := hostTarget(c, room, r)
	if !ok {
		return false
	}

	bm, err := h.users.GetBuyMenu(ctx, target)
	if err != nil {
		slog.Error("fetching buy menu for host", "conn", c.ID(), "target", target, "err", err)
		sendDialog(c, GameServiceUnavailable)
		return false
	}
	if bm == nil {
		sendDialog(c, GameUserNotFound)
		return false
	}

	return send(c, serverpackets.HostSetBuyMenu{UserID: target, Menu: *bm})
}

// teamChanging forwards an in-match team switch to the affected client.
func (h *Handler) teamChanging(c *Conn, r *packet.Reader) bool {
	req, err := clientpackets.ParseHostTeamChange(r)
	if err != nil {
		slog.Warn("malformed team-change packet", "conn", c.ID(), "err", err)
		return false
	}

	target := h.registry.FindByUserID(req.TargetID)
	if target == nil {
		slog.Warn("team-change target offline", "conn", c.ID(), "target", req.TargetID)
		return false
	}
	return send(target, serverpackets.HostTeamChanging{UserID: req.TargetID, Team: req.Team})
}

// itemUsing forwards an in-match item use to the affected client.
func (h *Handler) itemUsing(c *Conn, r *packet.Reader) bool {
	req, err := clientpackets.ParseHostItemUse(r)
	if err != nil {
		slog.Warn("malformed item-use packet", "conn", c.ID(), "err", err)
		return false
	}

	target := h.registry.FindByUserID(req.TargetID)
	if target == nil {
		slog.Warn("item-use target offline", "conn", c.ID(), "target", req.TargetID)
		return false
	}
	return send(target, serverpackets.HostItemUsing{UserID: req.TargetID, ItemID: req.ItemID})
}
