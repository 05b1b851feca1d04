package clientpackets

import (
	"fmt"

	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// Version carries the client build hash; logged for diagnostics, never
// enforced.
//
// Structure: hash (PacketString).
type Version struct {
	Hash string
}

// ParseVersion parses a Version payload (without the packet id byte).
func ParseVersion(data []byte) (*Version, error) {
	r := packet.NewReader(data)
	hash, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading version hash: %w", err)
	}
	return &Version{Hash: hash}, nil
}

// RequestRoomList joins a channel: the client picks a channel server and
// channel index from the directory it received.
//
// Structure: serverIndex (u8), channelIndex (u8).
type RequestRoomList struct {
	ServerIndex  uint8
	ChannelIndex uint8
}

// ParseRequestRoomList parses a RequestRoomList payload.
func ParseRequestRoomList(data []byte) (*RequestRoomList, error) {
	r := packet.NewReader(data)

	serverIndex, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading server index: %w", err)
	}

	channelIndex, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading channel index: %w", err)
	}

	return &RequestRoomList{ServerIndex: serverIndex, ChannelIndex: channelIndex}, nil
}

// Udp reports the endpoint the client sees for itself on its LAN; peers
// behind the same NAT connect there instead of the public endpoint.
//
// Structure: localIp (u32 BE, network order), localPort (u16 LE).
type Udp struct {
	LocalIP   uint32
	LocalPort uint16
}

// ParseUdp parses a Udp payload.
func ParseUdp(data []byte) (*Udp, error) {
	r := packet.NewReader(data)

	ip, err := r.ReadUint32BE()
	if err != nil {
		return nil, fmt.Errorf("reading local ip: %w", err)
	}

	port, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("reading local port: %w", err)
	}

	return &Udp{LocalIP: ip, LocalPort: port}, nil
}

// Whisper chat carries a target player name before the message.
const ChatTypeWhisper uint8 = 2

// Chat is one chat line from a client; Type selects who receives the relay.
//
// Structure: type (u8), target (PacketString, whispers only),
// message (PacketString).
type Chat struct {
	Type    uint8
	Target  string
	Message string
}

// ParseChat parses a Chat payload.
func ParseChat(data []byte) (*Chat, error) {
	r := packet.NewReader(data)

	chatType, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading chat type: %w", err)
	}

	var target string
	if chatType == ChatTypeWhisper {
		if target, err = r.ReadString(); err != nil {
			return nil, fmt.Errorf("reading whisper target: %w", err)
		}
	}

	message, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading chat message: %w", err)
	}

	return &Chat{Type: chatType, Target: target, Message: message}, nil
}
