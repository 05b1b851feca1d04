package serverpackets

import (
	"github.com/mireadev/cso2go/internal/protocol"
	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// UserStart is the first packet after a successful login. It binds the
// client to its user id and tells it where the holepunch endpoint listens.
//
// Structure:
//   - userId (u32 LE)
//   - username (PacketString) — login name
//   - playerName (PacketString) — in-game nickname
//   - holepunchPort (u16 LE)
type UserStart struct {
	UserID        uint32
	Username      string
	PlayerName    string
	HolepunchPort uint16
}

// NewUserStart creates the login greeting for a user.
func NewUserStart(userID uint32, username, playerName string, holepunchPort uint16) UserStart {
	return UserStart{
		UserID:        userID,
		Username:      username,
		PlayerName:    playerName,
		HolepunchPort: holepunchPort,
	}
}

// Write serializes the packet body.
func (p UserStart) Write() ([]byte, error) {
	w := packet.NewWriter(9 + len(p.Username) + len(p.PlayerName))
	w.WriteUint8(uint8(protocol.PacketUserStart))
	w.WriteUint32(p.UserID)
	w.WriteString(p.Username)
	w.WriteString(p.PlayerName)
	w.WriteUint16(p.HolepunchPort)
	return w.Bytes()
}
