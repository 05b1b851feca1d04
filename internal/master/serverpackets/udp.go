package serverpackets

import (
	"github.com/mireadev/cso2go/internal/protocol"
	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// UdpAck confirms that the server stored the endpoint a client reported
// for peer matchmaking.
//
// Structure: ok (bool).
type UdpAck struct {
	OK bool
}

// Write serializes the packet body.
func (p UdpAck) Write() ([]byte, error) {
	w := packet.NewWriter(2)
	w.WriteUint8(uint8(protocol.PacketUdp))
	w.WriteBool(p.OK)
	return w.Bytes()
}
