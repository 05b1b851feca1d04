package master

import (
	"context"
	"log/slog"

	"github.com/mireadev/cso2go/internal/master/clientpackets"
	"github.com/mireadev/cso2go/internal/master/serverpackets"
)

// handleRequestChannels re-sends the channel directory snapshot.
func (h *Handler) handleRequestChannels(c *Conn) bool {
	return send(c, serverpackets.NewServerList(h.directory.Servers()))
}

// handleRequestRoomList moves the session into the picked channel and sends
// its room directory.
func (h *Handler) handleRequestRoomList(c *Conn, sess *UserSession, data []byte) bool {
	req, err := clientpackets.ParseRequestRoomList(data)
	if err != nil {
		slog.Warn("malformed room-list request", "conn", c.ID(), "err", err)
		return false
	}

	ch, ok := h.directory.ChannelAt(req.ServerIndex, req.ChannelIndex)
	if !ok {
		slog.Warn("room-list request for unknown channel", "conn", c.ID(),
			"server", req.ServerIndex, "channel", req.ChannelIndex)
		return false
	}

	if sess.Room() != nil {
		slog.Warn("channel switch while in a room", "conn", c.ID(), "user", sess.User().ID)
		return false
	}
	if prev := sess.Channel(); prev != nil && prev != ch {
		prev.LeaveLobby(sess.User().ID)
	}

	sess.SetChannel(ch)
	ch.EnterLobby(sess.User().ID)

	return send(c, serverpackets.NewRoomList(ch.Rooms()))
}

// handleUdp stores the endpoint the client reported for peer matchmaking.
func (h *Handler) handleUdp(c *Conn, sess *UserSession, data []byte) bool {
	req, err := clientpackets.ParseUdp(data)
	if err != nil {
		slog.Warn("malformed udp packet", "conn", c.ID(), "err", err)
		return false
	}

	sess.SetHolepunch(HolepunchInfo{LocalIP: req.LocalIP, LocalPort: req.LocalPort})
	return send(c, serverpackets.UdpAck{OK: true})
}

// handleChat relays one chat line to its scope: channel lobby, room, or a
// single whispered player.
func (h *Handler) handleChat(c *Conn, sess *UserSession, data []byte) bool {
	req, err := clientpackets.ParseChat(data)
	if err != nil {
		slog.Warn("malformed chat packet", "conn", c.ID(), "err", err)
		return false
	}

	scope := serverpackets.ChatType(req.Type)
	if !scope.IsValid() {
		slog.Warn("unknown chat scope", "conn", c.ID(), "type", req.Type)
		return false
	}
	relay := serverpackets.NewChat(scope, sess.User().PlayerName, req.Message)

	switch scope {
	case serverpackets.ChatLobby:
		ch := sess.Channel()
		if ch == nil {
			slog.Warn("lobby chat outside a channel", "conn", c.ID(), "user", sess.User().ID)
			return false
		}
		h.broadcastLobby(ch, relay)
	case serverpackets.ChatRoom:
		room := sessionRoom(c, sess)
		if room == nil {
			return false
		}
		h.broadcastRoom(room, relay)
	case serverpackets.ChatWhisper:
		target := h.registry.FindByPlayerName(req.Target)
		if target == nil {
			sendSystemChat(c, GameUserNotFound)
			return false
		}
		send(target, relay)
	}
	return true
}

// handleAboutMe applies a profile edit upstream and pushes the refreshed
// profile back to the client.
func (h *Handler) handleAboutMe(ctx context.Context, c *Conn, sess *UserSession, data []byte) bool {
	op, r, err := clientpackets.ReadAboutMeRequest(data)
	if err != nil {
		slog.Warn("malformed about-me packet", "conn", c.ID(), "err", err)
		return false
	}
	id := sess.User().ID

	switch op {
	case clientpackets.AboutMeSetAvatar:
		avatar, err := clientpackets.ParseAvatar(r)
		if err != nil {
			slog.Warn("malformed avatar request", "conn", c.ID(), "err", err)
			return false
		}
		err = h.users.SetAvatar(ctx, id, avatar)
		return h.finishProfileEdit(ctx, c, id, err)
	case clientpackets.AboutMeSetSignature:
		signature, err := clientpackets.ParseSignature(r)
		if err != nil {
			slog.Warn("malformed signature request", "conn", c.ID(), "err", err)
			return false
		}
		err = h.users.SetSignature(ctx, id, signature)
		return h.finishProfileEdit(ctx, c, id, err)
	case clientpackets.AboutMeSetTitle:
		title, err := clientpackets.ParseTitle(r)
		if err != nil {
			slog.Warn("malformed title request", "conn", c.ID(), "err", err)
			return false
		}
		err = h.users.SetTitle(ctx, id, title)
		return h.finishProfileEdit(ctx, c, id, err)
	default:
		slog.Warn("unknown about-me request", "conn", c.ID(), "op", uint8(op))
		return false
	}
}

// finishProfileEdit reports the edit result and, on success, refetches the
// record (the setter invalidated the cache) and pushes the full profile.
func (h *Handler) finishProfileEdit(ctx context.Context, c *Conn, id uint32, editErr error) bool {
	if editErr != nil {
		slog.Error("profile edit failed", "conn", c.ID(), "user", id, "err", editErr)
		sendDialog(c, GameServiceUnavailable)
		return false
	}

	u, err := h.users.GetByID(ctx, id)
	if err != nil || u == nil {
		slog.Warn("refetching profile after edit", "conn", c.ID(), "user", id, "err", err)
		return true
	}
	return send(c, serverpackets.NewFullUserUpdate(*u))
}

// handleOption stores a buy menu cell edit.
func (h *Handler) handleOption(ctx context.Context, c *Conn, sess *UserSession, data []byte) bool {
	op, r, err := clientpackets.ReadOptionRequest(data)
	if err != nil {
		slog.Warn("malformed option packet", "conn", c.ID(), "err", err)
		return false
	}

	switch op {
	case clientpackets.OptionSetBuyMenu:
		req, err := clientpackets.ParseSetBuyMenu(r)
		if err != nil {
			slog.Warn("malformed buy-menu request", "conn", c.ID(), "err", err)
			return false
		}
		if err := h.users.SetBuyMenu(ctx, sess.User().ID, req.Column, req.Slot, req.ItemID); err != nil {
			slog.Error("storing buy menu cell", "conn", c.ID(), "user", sess.User().ID, "err", err)
			sendDialog(c, GameServiceUnavailable)
			return false
		}
		return true
	default:
		slog.Warn("unknown option request", "conn", c.ID(), "op", uint8(op))
		return false
	}
}

// handleFavorite stores loadout and cosmetics edits from the favorites
// screen.
func (h *Handler) handleFavorite(ctx context.Context, c *Conn, sess *UserSession, data []byte) bool {
	op, r, err := clientpackets.ReadFavoriteRequest(data)
	if err != nil {
		slog.Warn("malformed favorite packet", "conn", c.ID(), "err", err)
		return false
	}
	id := sess.User().ID

	switch op {
	case clientpackets.FavoriteSetLoadout:
		req, err := clientpackets.ParseSetLoadout(r)
		if err != nil {
			slog.Warn("malformed loadout request", "conn", c.ID(), "err", err)
			return false
		}
		if err := h.users.SetLoadoutWeapon(ctx, id, req.LoadoutSlot, req.WeaponSlot, req.ItemID); err != nil {
			slog.Error("storing loadout weapon", "conn", c.ID(), "user", id, "err", err)
			sendDialog(c, GameServiceUnavailable)
			return false
		}
		return true
	case clientpackets.FavoriteSetCosmetics:
		req, err := clientpackets.ParseSetCosmetics(r)
		if err != nil {
			slog.Warn("malformed cosmetics request", "conn", c.ID(), "err", err)
			return false
		}
		if err := h.users.SetCosmeticSlot(ctx, id, req.Slot, req.ItemID); err != nil {
			slog.Error("storing cosmetic slot", "conn", c.ID(), "user", id, "err", err)
			sendDialog(c, GameServiceUnavailable)
			return false
		}
		return true
	default:
		slog.Warn("unknown favorite request", "conn", c.ID(), "op", uint8(op))
		return false
	}
}

// handleAchievement answers with the empty achievement blob; campaign
// progress is not tracked here.
func (h *Handler) handleAchievement(c *Conn, sess *UserSession) bool {
	return send(c, serverpackets.NewAchievement(sess.User().ID))
}
