package serverpackets

import (
	"github.com/mireadev/cso2go/internal/channel"
	"github.com/mireadev/cso2go/internal/protocol"
	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// RoomList is the room directory of one channel, sent on channel entry and
// re-broadcast to the lobby whenever a room opens, closes or changes shape.
//
// Structure:
//   - roomCount (u16 LE), then per room:
//   - roomId (u16 LE)
//   - name (PacketString)
//   - passworded (bool)
//   - status (u8)
//   - mode (u8)
//   - map (u8)
//   - playerCount (u8)
//   - maxPlayers (u8)
//   - hostId (u32 LE)
type RoomList struct {
	Rooms []*channel.Room
}

// NewRoomList creates the room directory packet for a channel snapshot.
func NewRoomList(rooms []*channel.Room) RoomList {
	return RoomList{Rooms: rooms}
}

// Write serializes the packet body.
func (p RoomList) Write() ([]byte, error) {
	w := packet.NewWriter(3 + len(p.Rooms)*40)
	w.WriteUint8(uint8(protocol.PacketRoomList))
	w.WriteUint16(uint16(len(p.Rooms)))

	for _, r := range p.Rooms {
		s := r.Settings()
		w.WriteUint16(r.ID())
		w.WriteString(s.Name)
		w.WriteBool(!s.Public())
		w.WriteUint8(uint8(r.Status()))
		w.WriteUint8(uint8(s.Mode))
		w.WriteUint8(uint8(s.Map))
		w.WriteUint8(uint8(r.OccupantCount()))
		w.WriteUint8(s.MaxPlayers)
		w.WriteUint32(r.HostID())
	}
	return w.Bytes()
}
