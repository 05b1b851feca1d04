package clientpackets

import (
	"fmt"

	"github.com/mireadev/cso2go/internal/channel"
	"github.com/mireadev/cso2go/internal/gamedata"
	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// RoomRequest is the inbound Room packet sub-operation, the first body byte
// after the packet id.
type RoomRequest uint8

const (
	// RoomRequestNewRoom - create a room and become its host
	RoomRequestNewRoom RoomRequest = 0
	// RoomRequestJoin - join an existing room
	RoomRequestJoin RoomRequest = 1
	// RoomRequestLeave - leave the current room
	RoomRequestLeave RoomRequest = 2
	// RoomRequestToggleReady - flip ready state in the waiting room
	RoomRequestToggleReady RoomRequest = 3
	// RoomRequestGameStart - host starts, or a player joins in progress
	RoomRequestGameStart RoomRequest = 4
	// RoomRequestUpdateSettings - host changes room settings
	RoomRequestUpdateSettings RoomRequest = 5
	// RoomRequestOnCloseResultWindow - result window dismissed
	RoomRequestOnCloseResultWindow RoomRequest = 6
	// RoomRequestSetUserTeam - switch own or (host only) another's team
	RoomRequestSetUserTeam RoomRequest = 7
	// RoomRequestGameStartCountdown - countdown tick or cancel
	RoomRequestGameStartCountdown RoomRequest = 8
)

// String returns the request name for logs.
func (r RoomRequest) String() string {
	switch r {
	case RoomRequestNewRoom:
		return "NEW_ROOM"
	case RoomRequestJoin:
		return "JOIN"
	case RoomRequestLeave:
		return "LEAVE"
	case RoomRequestToggleReady:
		return "TOGGLE_READY"
	case RoomRequestGameStart:
		return "GAME_START"
	case RoomRequestUpdateSettings:
		return "UPDATE_SETTINGS"
	case RoomRequestOnCloseResultWindow:
		return "ON_CLOSE_RESULT_WINDOW"
	case RoomRequestSetUserTeam:
		return "SET_USER_TEAM"
	case RoomRequestGameStartCountdown:
		return "GAME_START_COUNTDOWN"
	default:
		return "UNKNOWN"
	}
}

// ReadRoomRequest reads the sub-operation byte and returns the rest of the
// payload reader.
func ReadRoomRequest(data []byte) (RoomRequest, *packet.Reader, error) {
	r := packet.NewReader(data)
	op, err := r.ReadUint8()
	if err != nil {
		return 0, nil, fmt.Errorf("reading room request op: %w", err)
	}
	return RoomRequest(op), r, nil
}

// NewRoom asks for a fresh room with the given settings; unset limits keep
// server defaults.
//
// Structure (after the op byte):
//   - name (PacketString)
//   - password (PacketString, empty = public)
//   - mode (u8)
//   - map (u8)
//   - winLimit (u8)
//   - killLimit (u8)
type NewRoom struct {
	Name      string
	Password  string
	Mode      gamedata.GameMode
	Map       gamedata.MapID
	WinLimit  uint8
	KillLimit uint8
}

// ParseNewRoom parses a NewRoom payload.
func ParseNewRoom(r *packet.Reader) (*NewRoom, error) {
	name, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading room name: %w", err)
	}

	password, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading room password: %w", err)
	}

	mode, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading game mode: %w", err)
	}

	mapID, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading map: %w", err)
	}

	winLimit, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading win limit: %w", err)
	}

	killLimit, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading kill limit: %w", err)
	}

	return &NewRoom{
		Name:      name,
		Password:  password,
		Mode:      gamedata.GameMode(mode),
		Map:       gamedata.MapID(mapID),
		WinLimit:  winLimit,
		KillLimit: killLimit,
	}, nil
}

// JoinRoom asks to join room RoomID; Password must match byte for byte when
// the room is protected.
//
// Structure (after the op byte): roomId (u16 LE), password (PacketString).
type JoinRoom struct {
	RoomID   uint16
	Password string
}

// ParseJoinRoom parses a JoinRoom payload.
func ParseJoinRoom(r *packet.Reader) (*JoinRoom, error) {
	roomID, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("reading room id: %w", err)
	}

	password, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	return &JoinRoom{RoomID: roomID, Password: password}, nil
}

// Settings update field flags, one bit per mutable field.
const (
	RoomFieldName uint8 = 1 << iota
	RoomFieldPassword
	RoomFieldMap
	RoomFieldMode
	RoomFieldKillLimit
	RoomFieldWinLimit
	RoomFieldMaxPlayers
	RoomFieldBots
)

// ParseUpdateSettings parses an UpdateSettings payload into the patch shape
// the room applies: only flagged fields are present on the wire and only
// those are set in the update.
//
// Structure (after the op byte): flags (u8), then flagged fields in bit
// order: name (PacketString), password (PacketString), map (u8), mode (u8),
// killLimit (u8), winLimit (u8), maxPlayers (u8), botsEnabled (bool).
func ParseUpdateSettings(r *packet.Reader) (*channel.SettingsUpdate, error) {
	flags, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading settings flags: %w", err)
	}

	var u channel.SettingsUpdate

	if flags&RoomFieldName != 0 {
		name, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("reading name: %w", err)
		}
		u.Name = &name
	}
	if flags&RoomFieldPassword != 0 {
		password, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}
		u.Password = &password
	}
	if flags&RoomFieldMap != 0 {
		mapID, err := r.ReadUint8()
		if err != nil {
			return nil, fmt.Errorf("reading map: %w", err)
		}
		m := gamedata.MapID(mapID)
		u.Map = &m
	}
	if flags&RoomFieldMode != 0 {
		mode, err := r.ReadUint8()
		if err != nil {
			return nil, fmt.Errorf("reading mode: %w", err)
		}
		m := gamedata.GameMode(mode)
		u.Mode = &m
	}
	if flags&RoomFieldKillLimit != 0 {
		kill, err := r.ReadUint8()
		if err != nil {
			return nil, fmt.Errorf("reading kill limit: %w", err)
		}
		u.KillLimit = &kill
	}
	if flags&RoomFieldWinLimit != 0 {
		win, err := r.ReadUint8()
		if err != nil {
			return nil, fmt.Errorf("reading win limit: %w", err)
		}
		u.WinLimit = &win
	}
	if flags&RoomFieldMaxPlayers != 0 {
		maxPlayers, err := r.ReadUint8()
		if err != nil {
			return nil, fmt.Errorf("reading max players: %w", err)
		}
		u.MaxPlayers = &maxPlayers
	}
	if flags&RoomFieldBots != 0 {
		bots, err := r.ReadBool()
		if err != nil {
			return nil, fmt.Errorf("reading bots flag: %w", err)
		}
		u.BotsEnabled = &bots
	}

	return &u, nil
}

// SetUserTeam switches a player's team while the room is waiting.
//
// Structure (after the op byte): targetId (u32 LE), team (u8).
type SetUserTeam struct {
	TargetID uint32
	Team     channel.Team
}

// ParseSetUserTeam parses a SetUserTeam payload.
func ParseSetUserTeam(r *packet.Reader) (*SetUserTeam, error) {
	target, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading target id: %w", err)
	}

	team, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading team: %w", err)
	}

	return &SetUserTeam{TargetID: target, Team: channel.Team(team)}, nil
}

// GameStartCountdown is a host-driven countdown tick (ShouldCountdown true,
// Count carrying the value shown to players) or a cancellation.
//
// Structure (after the op byte): shouldCountdown (bool),
// count (u8, present only when counting).
type GameStartCountdown struct {
	ShouldCountdown bool
	Count           uint8
}

// ParseGameStartCountdown parses a GameStartCountdown payload.
func ParseGameStartCountdown(r *packet.Reader) (*GameStartCountdown, error) {
	should, err := r.ReadBool()
	if err != nil {
		return nil, fmt.Errorf("reading countdown flag: %w", err)
	}

	p := &GameStartCountdown{ShouldCountdown: should}
	if should {
		count, err := r.ReadUint8()
		if err != nil {
			return nil, fmt.Errorf("reading countdown value: %w", err)
		}
		p.Count = count
	}
	return p, nil
}
