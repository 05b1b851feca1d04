package master

import (
	"errors"
	"log/slog"

	"github.com/mireadev/cso2go/internal/channel"
	"github.com/mireadev/cso2go/internal/master/clientpackets"
	"github.com/mireadev/cso2go/internal/master/serverpackets"
)

// Room creation defaults for fields the request leaves at zero.
const (
	defaultKillLimit  = 30
	defaultWinLimit   = 3
	defaultMaxPlayers = 16
)

// handleRoom routes the Room packet sub-operations.
func (h *Handler) handleRoom(c *Conn, sess *UserSession, data []byte) bool {
	op, r, err := clientpackets.ReadRoomRequest(data)
	if err != nil {
		slog.Warn("malformed room packet", "conn", c.ID(), "err", err)
		return false
	}

	switch op {
	case clientpackets.RoomRequestNewRoom:
		req, err := clientpackets.ParseNewRoom(r)
		if err != nil {
			slog.Warn("malformed new-room request", "conn", c.ID(), "err", err)
			return false
		}
		return h.newRoom(c, sess, req)
	case clientpackets.RoomRequestJoin:
		req, err := clientpackets.ParseJoinRoom(r)
		if err != nil {
			slog.Warn("malformed join request", "conn", c.ID(), "err", err)
			return false
		}
		return h.joinRoom(c, sess, req)
	case clientpackets.RoomRequestLeave:
		return h.leaveRoom(c, sess)
	case clientpackets.RoomRequestToggleReady:
		return h.toggleReady(c, sess)
	case clientpackets.RoomRequestGameStart:
		return h.gameStart(c, sess)
	case clientpackets.RoomRequestUpdateSettings:
		req, err := clientpackets.ParseUpdateSettings(r)
		if err != nil {
			slog.Warn("malformed settings request", "conn", c.ID(), "err", err)
			return false
		}
		return h.updateSettings(c, sess, req)
	case clientpackets.RoomRequestOnCloseResultWindow:
		return h.closeResultWindow(c, sess)
	case clientpackets.RoomRequestSetUserTeam:
		req, err := clientpackets.ParseSetUserTeam(r)
		if err != nil {
			slog.Warn("malformed team request", "conn", c.ID(), "err", err)
			return false
		}
		return h.setUserTeam(c, sess, req)
	case clientpackets.RoomRequestGameStartCountdown:
		req, err := clientpackets.ParseGameStartCountdown(r)
		if err != nil {
			slog.Warn("malformed countdown request", "conn", c.ID(), "err", err)
			return false
		}
		return h.gameStartCountdown(c, sess, req)
	default:
		slog.Warn("unknown room request", "conn", c.ID(), "op", uint8(op))
		return false
	}
}

// sessionRoom returns the session's current room, logging when there is none.
func sessionRoom(c *Conn, sess *UserSession) *channel.Room {
	room := sess.Room()
	if room == nil {
		slog.Warn("room request outside a room", "conn", c.ID(), "user", sess.User().ID)
	}
	return room
}

// newRoom creates a room with the requester as host. A requester still
// inside a room is force-vacated first; the client is known to leave ghost
// rooms behind otherwise.
func (h *Handler) newRoom(c *Conn, sess *UserSession, req *clientpackets.NewRoom) bool {
	ch := sess.Channel()
	if ch == nil {
		slog.Warn("new-room outside a channel", "conn", c.ID(), "user", sess.User().ID)
		return false
	}

	if prev := sess.Room(); prev != nil {
		res, err := prev.Evict(sess.User().ID)
		if err == nil {
			h.settleDeparture(sess, prev, res)
		}
		sess.ClearRoom()
	}

	settings := channel.Settings{
		Name:       req.Name,
		Password:   req.Password,
		Mode:       req.Mode,
		Map:        req.Map,
		KillLimit:  req.KillLimit,
		WinLimit:   req.WinLimit,
		MaxPlayers: defaultMaxPlayers,
	}
	if settings.KillLimit == 0 {
		settings.KillLimit = defaultKillLimit
	}
	if settings.WinLimit == 0 {
		settings.WinLimit = defaultWinLimit
	}

	room, err := ch.CreateRoom(sess.User().ID, settings)
	if err != nil {
		slog.Warn("room creation rejected", "conn", c.ID(), "user", sess.User().ID, "err", err)
		sendDialog(c, GameRoomBadSettings)
		return false
	}

	ch.LeaveLobby(sess.User().ID)
	sess.SetRoom(room)

	send(c, serverpackets.NewRoomCreateAndJoin(room))
	h.broadcastLobby(ch, serverpackets.NewRoomList(ch.Rooms()))
	h.metrics.SetRooms(h.openRooms())

	slog.Info("room created", "room", room.ID(), "channel", ch.Name(),
		"host", sess.User().ID, "name", settings.Name)
	return true
}

// joinRoom seats the requester in an existing room and announces the new
// occupant to everyone already inside.
func (h *Handler) joinRoom(c *Conn, sess *UserSession, req *clientpackets.JoinRoom) bool {
	ch := sess.Channel()
	if ch == nil {
		slog.Warn("join outside a channel", "conn", c.ID(), "user", sess.User().ID)
		return false
	}
	if sess.Room() != nil {
		slog.Warn("join while already in a room", "conn", c.ID(), "user", sess.User().ID)
		return false
	}

	room, ok := ch.Room(req.RoomID)
	if !ok {
		sendDialog(c, GameRoomNotFound)
		return false
	}

	slot, err := room.Join(sess.User().ID, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, channel.ErrBadPassword):
			sendDialog(c, GameRoomJoinFailedBadPassword)
		case errors.Is(err, channel.ErrRoomFull):
			sendDialog(c, GameRoomJoinFailedFull)
		case errors.Is(err, channel.ErrRoomClosed):
			sendDialog(c, GameRoomJoinFailedClosed)
		default:
			slog.Warn("join rejected", "conn", c.ID(), "user", sess.User().ID,
				"room", req.RoomID, "err", err)
		}
		return false
	}

	ch.LeaveLobby(sess.User().ID)
	sess.SetRoom(room)

	send(c, serverpackets.NewRoomCreateAndJoin(room))
	h.broadcastRoomExcept(room, serverpackets.RoomPlayerJoin{
		UserID: sess.User().ID,
		Team:   slot.Team,
	}, sess.User().ID)
	h.broadcastLobby(ch, serverpackets.NewRoomList(ch.Rooms()))
	return true
}

// leaveRoom handles a voluntary departure. Ready players stuck in a
// countdown are denied.
func (h *Handler) leaveRoom(c *Conn, sess *UserSession) bool {
	room := sessionRoom(c, sess)
	if room == nil {
		return false
	}

	res, err := room.Leave(sess.User().ID)
	if err != nil {
		if errors.Is(err, channel.ErrLeaveDuringCountdown) {
			sendSystemChat(c, GameRoomLeaveDeniedCountdown)
			return false
		}
		slog.Warn("leave rejected", "conn", c.ID(), "user", sess.User().ID, "err", err)
		return false
	}

	sess.ClearRoom()
	ch := h.settleDeparture(sess, room, res)
	if ch != nil {
		ch.EnterLobby(sess.User().ID)
		h.broadcastLobby(ch, serverpackets.NewRoomList(ch.Rooms()))
	}
	return true
}

// settleDeparture runs the shared aftermath of any removal from a room:
// departure and host-change broadcasts to the remaining occupants, room
// closure, and the rooms gauge. Returns the owning channel.
func (h *Handler) settleDeparture(sess *UserSession, room *channel.Room, res channel.LeaveResult) *channel.Channel {
	ch := h.channelOf(room)

	h.broadcastRoom(room, serverpackets.RoomPlayerLeave{UserID: sess.User().ID})
	if res.HostChanged {
		h.broadcastRoom(room, serverpackets.RoomSetHost{HostID: res.NewHostID})
		slog.Info("room host migrated", "room", room.ID(), "host", res.NewHostID)
	}
	if res.Closed && ch != nil {
		ch.RemoveRoom(room.ID())
		slog.Info("room closed", "room", room.ID(), "channel", ch.Name())
	}
	h.metrics.SetRooms(h.openRooms())
	return ch
}

// toggleReady flips the requester's ready state while the room waits.
func (h *Handler) toggleReady(c *Conn, sess *UserSession) bool {
	room := sessionRoom(c, sess)
	if room == nil {
		return false
	}

	state, err := room.ToggleReady(sess.User().ID)
	if err != nil {
		slog.Warn("ready toggle rejected", "conn", c.ID(), "user", sess.User().ID, "err", err)
		return false
	}

	h.broadcastRoom(room, serverpackets.RoomSetPlayerReady{
		UserID: sess.User().ID,
		Ready:  state,
	})
	return true
}

// gameStart moves the room into the match when the host fires it, or seats
// a late joiner into a match already running.
func (h *Handler) gameStart(c *Conn, sess *UserSession) bool {
	room := sessionRoom(c, sess)
	if room == nil {
		return false
	}

	joinInProgress, err := room.StartGame(sess.User().ID)
	if err != nil {
		slog.Warn("game start rejected", "conn", c.ID(), "user", sess.User().ID, "err", err)
		return false
	}

	if joinInProgress {
		send(c, serverpackets.HostGameStart{HostUserID: room.HostID()})
		return true
	}

	h.broadcastRoom(room, serverpackets.HostGameStart{HostUserID: room.HostID()})
	if ch := h.channelOf(room); ch != nil {
		h.broadcastLobby(ch, serverpackets.NewRoomList(ch.Rooms()))
	}
	slog.Info("game started", "room", room.ID(), "host", room.HostID())
	return true
}

// updateSettings applies a host's settings patch and pushes the result to
// the room and the channel lobby.
func (h *Handler) updateSettings(c *Conn, sess *UserSession, req *channel.SettingsUpdate) bool {
	room := sessionRoom(c, sess)
	if room == nil {
		return false
	}

	next, err := room.UpdateSettings(sess.User().ID, *req)
	if err != nil {
		switch {
		case errors.Is(err, channel.ErrSettingsLocked):
			sendSystemChat(c, GameRoomSettingsLocked)
		case errors.Is(err, channel.ErrBadSettings):
			sendDialog(c, GameRoomBadSettings)
		default:
			slog.Warn("settings update rejected", "conn", c.ID(), "user", sess.User().ID, "err", err)
		}
		return false
	}

	h.broadcastRoom(room, serverpackets.RoomUpdateSettings{Settings: next})
	if ch := h.channelOf(room); ch != nil {
		h.broadcastLobby(ch, serverpackets.NewRoomList(ch.Rooms()))
	}
	return true
}

// closeResultWindow clears the requester's ingame mark after the result
// screen. No broadcast; the transition back to Waiting shows up in the next
// room list push.
func (h *Handler) closeResultWindow(c *Conn, sess *UserSession) bool {
	room := sessionRoom(c, sess)
	if room == nil {
		return false
	}

	backToWaiting, err := room.CloseResultWindow(sess.User().ID)
	if err != nil {
		slog.Warn("result window close rejected", "conn", c.ID(), "user", sess.User().ID, "err", err)
		return false
	}
	if backToWaiting {
		if ch := h.channelOf(room); ch != nil {
			h.broadcastLobby(ch, serverpackets.NewRoomList(ch.Rooms()))
		}
	}
	return true
}

// setUserTeam moves a player to the requested team.
func (h *Handler) setUserTeam(c *Conn, sess *UserSession, req *clientpackets.SetUserTeam) bool {
	room := sessionRoom(c, sess)
	if room == nil {
		return false
	}

	if err := room.SetTeam(sess.User().ID, req.TargetID, req.Team); err != nil {
		if errors.Is(err, channel.ErrPlayerReady) || errors.Is(err, channel.ErrNotHost) {
			sendSystemChat(c, GameRoomChangeTeamFailed)
			return false
		}
		slog.Warn("team change rejected", "conn", c.ID(), "user", sess.User().ID, "err", err)
		return false
	}

	h.broadcastRoom(room, serverpackets.RoomSetUserTeam{
		UserID: req.TargetID,
		Team:   req.Team,
	})
	return true
}

// gameStartCountdown records one countdown tick or aborts the countdown,
// echoing either to the whole room.
func (h *Handler) gameStartCountdown(c *Conn, sess *UserSession, req *clientpackets.GameStartCountdown) bool {
	room := sessionRoom(c, sess)
	if room == nil {
		return false
	}

	if !req.ShouldCountdown {
		if err := room.StopCountdown(sess.User().ID); err != nil {
			slog.Warn("countdown stop rejected", "conn", c.ID(), "user", sess.User().ID, "err", err)
			return false
		}
		h.broadcastRoom(room, serverpackets.RoomCountdown{InProgress: false})
		return true
	}

	if err := room.ProgressCountdown(sess.User().ID, req.Count); err != nil {
		if errors.Is(err, channel.ErrCannotStart) {
			sendSystemChat(c, GameRoomStartFailedTeams)
			return false
		}
		slog.Warn("countdown tick rejected", "conn", c.ID(), "user", sess.User().ID,
			"count", req.Count, "err", err)
		return false
	}

	h.broadcastRoom(room, serverpackets.RoomCountdown{InProgress: true, Count: req.Count})
	return true
}
