package serverpackets

import (
	"github.com/mireadev/cso2go/internal/channel"
	"github.com/mireadev/cso2go/internal/protocol"
	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// RoomOp is the outbound Room packet sub-operation, the first body byte
// after the packet id.
type RoomOp uint8

const (
	// RoomOpCreateAndJoin - full room snapshot for a player entering it
	RoomOpCreateAndJoin RoomOp = 0
	// RoomOpPlayerJoin - another player entered the room
	RoomOpPlayerJoin RoomOp = 1
	// RoomOpPlayerLeave - a player left the room
	RoomOpPlayerLeave RoomOp = 2
	// RoomOpSetPlayerReady - a player's ready state changed
	RoomOpSetPlayerReady RoomOp = 3
	// RoomOpUpdateSettings - the host changed room settings
	RoomOpUpdateSettings RoomOp = 4
	// RoomOpSetHost - host migrated
	RoomOpSetHost RoomOp = 5
	// RoomOpSetGameResult - the match ended, show the result window
	RoomOpSetGameResult RoomOp = 6
	// RoomOpSetUserTeam - a player switched team
	RoomOpSetUserTeam RoomOp = 7
	// RoomOpCountdown - countdown tick or cancel
	RoomOpCountdown RoomOp = 8
)

// writeRoomSettings emits the shared settings block. The password itself
// never leaves the server, only whether one is set.
//
// Block structure:
//   - name (PacketString)
//   - passworded (bool)
//   - mode (u8)
//   - map (u8)
//   - killLimit (u8)
//   - winLimit (u8)
//   - maxPlayers (u8)
//   - botsEnabled (bool)
func writeRoomSettings(w *packet.Writer, s channel.Settings) {
	w.WriteString(s.Name)
	w.WriteBool(!s.Public())
	w.WriteUint8(uint8(s.Mode))
	w.WriteUint8(uint8(s.Map))
	w.WriteUint8(s.KillLimit)
	w.WriteUint8(s.WinLimit)
	w.WriteUint8(s.MaxPlayers)
	w.WriteBool(s.BotsEnabled)
}

// RoomCreateAndJoin is the full room snapshot sent to a player who just
// created or joined the room.
//
// Structure:
//   - op (u8) = RoomOpCreateAndJoin
//   - roomId (u16 LE)
//   - hostId (u32 LE)
//   - settings block
//   - occupantCount (u8), then per occupant:
//   - userId (u32 LE), team (u8), ready (u8)
type RoomCreateAndJoin struct {
	RoomID    uint16
	HostID    uint32
	Settings  channel.Settings
	Occupants []channel.Slot
}

// NewRoomCreateAndJoin snapshots a room for the entering player.
func NewRoomCreateAndJoin(r *channel.Room) RoomCreateAndJoin {
	return RoomCreateAndJoin{
		RoomID:    r.ID(),
		HostID:    r.HostID(),
		Settings:  r.Settings(),
		Occupants: r.Occupants(),
	}
}

// Write serializes the packet body.
func (p RoomCreateAndJoin) Write() ([]byte, error) {
	w := packet.NewWriter(32 + len(p.Settings.Name) + len(p.Occupants)*6)
	w.WriteUint8(uint8(protocol.PacketRoom))
	w.WriteUint8(uint8(RoomOpCreateAndJoin))
	w.WriteUint16(p.RoomID)
	w.WriteUint32(p.HostID)
	writeRoomSettings(w, p.Settings)
	w.WriteUint8(uint8(len(p.Occupants)))
	for _, slot := range p.Occupants {
		w.WriteUint32(slot.UserID)
		w.WriteUint8(uint8(slot.Team))
		w.WriteUint8(uint8(slot.Ready))
	}
	return w.Bytes()
}

// RoomPlayerJoin announces a new occupant to the rest of the room.
//
// Structure: op (u8) = RoomOpPlayerJoin, userId (u32 LE), team (u8).
type RoomPlayerJoin struct {
	UserID uint32
	Team   channel.Team
}

// Write serializes the packet body.
func (p RoomPlayerJoin) Write() ([]byte, error) {
	w := packet.NewWriter(7)
	w.WriteUint8(uint8(protocol.PacketRoom))
	w.WriteUint8(uint8(RoomOpPlayerJoin))
	w.WriteUint32(p.UserID)
	w.WriteUint8(uint8(p.Team))
	return w.Bytes()
}

// RoomPlayerLeave announces a departure.
//
// Structure: op (u8) = RoomOpPlayerLeave, userId (u32 LE).
type RoomPlayerLeave struct {
	UserID uint32
}

// Write serializes the packet body.
func (p RoomPlayerLeave) Write() ([]byte, error) {
	w := packet.NewWriter(6)
	w.WriteUint8(uint8(protocol.PacketRoom))
	w.WriteUint8(uint8(RoomOpPlayerLeave))
	w.WriteUint32(p.UserID)
	return w.Bytes()
}

// RoomSetPlayerReady announces a ready state change.
//
// Structure: op (u8) = RoomOpSetPlayerReady, userId (u32 LE), ready (u8).
type RoomSetPlayerReady struct {
	UserID uint32
	Ready  channel.ReadyState
}

// Write serializes the packet body.
func (p RoomSetPlayerReady) Write() ([]byte, error) {
	w := packet.NewWriter(7)
	w.WriteUint8(uint8(protocol.PacketRoom))
	w.WriteUint8(uint8(RoomOpSetPlayerReady))
	w.WriteUint32(p.UserID)
	w.WriteUint8(uint8(p.Ready))
	return w.Bytes()
}

// RoomUpdateSettings pushes the room's current settings to occupants.
//
// Structure: op (u8) = RoomOpUpdateSettings, settings block.
type RoomUpdateSettings struct {
	Settings channel.Settings
}

// Write serializes the packet body.
func (p RoomUpdateSettings) Write() ([]byte, error) {
	w := packet.NewWriter(12 + len(p.Settings.Name))
	w.WriteUint8(uint8(protocol.PacketRoom))
	w.WriteUint8(uint8(RoomOpUpdateSettings))
	writeRoomSettings(w, p.Settings)
	return w.Bytes()
}

// RoomSetHost announces host migration.
//
// Structure: op (u8) = RoomOpSetHost, hostId (u32 LE).
type RoomSetHost struct {
	HostID uint32
}

// Write serializes the packet body.
func (p RoomSetHost) Write() ([]byte, error) {
	w := packet.NewWriter(6)
	w.WriteUint8(uint8(protocol.PacketRoom))
	w.WriteUint8(uint8(RoomOpSetHost))
	w.WriteUint32(p.HostID)
	return w.Bytes()
}

// RoomSetGameResult tells occupants to open the result window.
//
// Structure: op (u8) = RoomOpSetGameResult.
type RoomSetGameResult struct{}

// Write serializes the packet body.
func (p RoomSetGameResult) Write() ([]byte, error) {
	w := packet.NewWriter(2)
	w.WriteUint8(uint8(protocol.PacketRoom))
	w.WriteUint8(uint8(RoomOpSetGameResult))
	return w.Bytes()
}

// RoomSetUserTeam announces a team switch.
//
// Structure: op (u8) = RoomOpSetUserTeam, userId (u32 LE), team (u8).
type RoomSetUserTeam struct {
	UserID uint32
	Team   channel.Team
}

// Write serializes the packet body.
func (p RoomSetUserTeam) Write() ([]byte, error) {
	w := packet.NewWriter(7)
	w.WriteUint8(uint8(protocol.PacketRoom))
	w.WriteUint8(uint8(RoomOpSetUserTeam))
	w.WriteUint32(p.UserID)
	w.WriteUint8(uint8(p.Team))
	return w.Bytes()
}

// RoomCountdown carries a countdown tick or its cancellation.
//
// Structure: op (u8) = RoomOpCountdown, inProgress (bool),
// count (u8, present only while in progress).
type RoomCountdown struct {
	InProgress bool
	Count      uint8
}

// Write serializes the packet body.
func (p RoomCountdown) Write() ([]byte, error) {
	w := packet.NewWriter(4)
	w.WriteUint8(uint8(protocol.PacketRoom))
	w.WriteUint8(uint8(RoomOpCountdown))
	w.WriteBool(p.InProgress)
	if p.InProgress {
		w.WriteUint8(p.Count)
	}
	return w.Bytes()
}
