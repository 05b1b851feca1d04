package serverpackets

import (
	"github.com/mireadev/cso2go/internal/channel"
	"github.com/mireadev/cso2go/internal/protocol"
	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// ServerList is the channel directory snapshot sent after login and on
// RequestChannels.
//
// Structure:
//   - serverCount (u8), then per server:
//   - index (u8)
//   - name (PacketString)
//   - channelCount (u8), then per channel:
//   - index (u8)
//   - name (PacketString)
type ServerList struct {
	Servers []*channel.ChannelServer
}

// NewServerList creates the directory snapshot packet.
func NewServerList(servers []*channel.ChannelServer) ServerList {
	return ServerList{Servers: servers}
}

// Write serializes the packet body.
func (p ServerList) Write() ([]byte, error) {
	w := packet.NewWriter(2 + len(p.Servers)*48)
	w.WriteUint8(uint8(protocol.PacketServerList))
	w.WriteUint8(uint8(len(p.Servers)))

	for _, srv := range p.Servers {
		w.WriteUint8(srv.Index())
		w.WriteString(srv.Name())

		channels := srv.Channels()
		w.WriteUint8(uint8(len(channels)))
		for _, ch := range channels {
			w.WriteUint8(ch.Index())
			w.WriteString(ch.Name())
		}
	}
	return w.Bytes()
}
