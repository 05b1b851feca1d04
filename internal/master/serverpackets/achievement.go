package serverpackets

import (
	"github.com/mireadev/cso2go/internal/protocol"
	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// Achievement is the campaign/achievement blob sent during login. This
// server tracks no campaign progress, so the blob reports zero completed
// entries; the client renders an empty campaign screen.
//
// Structure:
//   - userId (u32 LE)
//   - entryCount (u16 LE) = 0
type Achievement struct {
	UserID uint32
}

// NewAchievement creates the empty achievement blob for a user.
func NewAchievement(userID uint32) Achievement {
	return Achievement{UserID: userID}
}

// Write serializes the packet body.
func (p Achievement) Write() ([]byte, error) {
	w := packet.NewWriter(8)
	w.WriteUint8(uint8(protocol.PacketAchievement))
	w.WriteUint32(p.UserID)
	w.WriteUint16(0)
	return w.Bytes()
}
