// Package serverpackets builds outbound packet bodies. Every Write returns
// the full body starting with the packet id byte; framing and sequence
// stamping happen in the connection layer.
package serverpackets

import (
	"github.com/mireadev/cso2go/internal/protocol"
	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// ReplyType selects how the client presents a Reply message.
type ReplyType uint8

const (
	// ReplyDialog - modal message box
	ReplyDialog ReplyType = 0
	// ReplySystemChat - line in the system chat pane
	ReplySystemChat ReplyType = 1
)

// Reply carries a dialog string id to the client.
//
// Structure:
//   - type (u8)
//   - message (PacketString) — a GAME_* string id the client localizes
type Reply struct {
	Type    ReplyType
	Message string
}

// NewDialog creates a modal dialog reply.
func NewDialog(message string) Reply {
	return Reply{Type: ReplyDialog, Message: message}
}

// NewSystemChat creates a system chat reply.
func NewSystemChat(message string) Reply {
	return Reply{Type: ReplySystemChat, Message: message}
}

// Write serializes the packet body.
func (p Reply) Write() ([]byte, error) {
	w := packet.NewWriter(3 + len(p.Message))
	w.WriteUint8(uint8(protocol.PacketReply))
	w.WriteUint8(uint8(p.Type))
	w.WriteString(p.Message)
	return w.Bytes()
}
