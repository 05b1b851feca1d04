package serverpackets

import (
	"github.com/mireadev/cso2go/internal/protocol"
	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// ChatType selects the scope a chat line is relayed to.
type ChatType uint8

const (
	// ChatLobby - everyone in the sender's channel lobby
	ChatLobby ChatType = 0
	// ChatRoom - everyone in the sender's room
	ChatRoom ChatType = 1
	// ChatWhisper - one named player
	ChatWhisper ChatType = 2
)

// IsValid returns true for a known chat scope.
func (t ChatType) IsValid() bool {
	switch t {
	case ChatLobby, ChatRoom, ChatWhisper:
		return true
	}
	return false
}

// Chat relays one chat line to a recipient.
//
// Structure:
//   - type (u8)
//   - senderName (PacketString)
//   - message (PacketString)
type Chat struct {
	Type    ChatType
	Sender  string
	Message string
}

// NewChat creates a chat relay packet.
func NewChat(t ChatType, sender, message string) Chat {
	return Chat{Type: t, Sender: sender, Message: message}
}

// Write serializes the packet body.
func (p Chat) Write() ([]byte, error) {
	w := packet.NewWriter(4 + len(p.Sender) + len(p.Message))
	w.WriteUint8(uint8(protocol.PacketChat))
	w.WriteUint8(uint8(p.Type))
	w.WriteString(p.Sender)
	w.WriteString(p.Message)
	return w.Bytes()
}
