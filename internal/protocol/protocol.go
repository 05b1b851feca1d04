// Package protocol implements the master server wire format.
//
// Every frame on the wire is:
//
//	[signature 1 byte = 0x55][sequence 1 byte][bodyLen 2 bytes LE][body bodyLen bytes]
//
// The first body byte is the packet id; the rest is packet-specific payload.
// Sequence numbers run per direction, per connection, modulo 256.
package protocol

// Frame Structure Constants
const (
	// Signature is the first byte of every valid frame.
	Signature byte = 0x55

	// HeaderSize is the fixed frame header size: signature, sequence and body length.
	HeaderSize = 4

	// MaxBodyLen is the largest body a frame can declare (bodyLen is uint16).
	MaxBodyLen = 0xFFFF

	// SequenceOffset is the offset of the sequence byte inside a framed buffer.
	SequenceOffset = 1

	// LengthOffset is the offset of the body length field inside a framed buffer.
	LengthOffset = 2
)

// PacketID identifies the kind of packet carried in a frame body.
type PacketID uint8

// Packet ids shared with the game client. Values are fixed by the client build
// and must not be renumbered.
const (
	PacketVersion         PacketID = 0
	PacketReply           PacketID = 1
	PacketLogin           PacketID = 3
	PacketServerList      PacketID = 5
	PacketCharacter       PacketID = 6
	PacketRequestRoomList PacketID = 7
	PacketRequestChannels PacketID = 10
	PacketRoom            PacketID = 65
	PacketChat            PacketID = 67
	PacketHost            PacketID = 68
	PacketAboutMe         PacketID = 69
	PacketUdp             PacketID = 70
	PacketShop            PacketID = 72
	PacketBan             PacketID = 74
	PacketOption          PacketID = 76
	PacketFavorite        PacketID = 77
	PacketAchievement     PacketID = 80
	PacketUnlock          PacketID = 84
	PacketUserStart       PacketID = 150
	PacketRoomList        PacketID = 151
	PacketInventoryAdd    PacketID = 152
	PacketInventoryCreate PacketID = 154
	PacketUserInfo        PacketID = 157
)

// String returns the packet name for logs and metrics labels.
func (p PacketID) String() string {
	switch p {
	case PacketVersion:
		return "VERSION"
	case PacketReply:
		return "REPLY"
	case PacketLogin:
		return "LOGIN"
	case PacketServerList:
		return "SERVER_LIST"
	case PacketCharacter:
		return "CHARACTER"
	case PacketRequestRoomList:
		return "REQUEST_ROOM_LIST"
	case PacketRequestChannels:
		return "REQUEST_CHANNELS"
	case PacketRoom:
		return "ROOM"
	case PacketChat:
		return "CHAT"
	case PacketHost:
		return "HOST"
	case PacketAboutMe:
		return "ABOUT_ME"
	case PacketUdp:
		return "UDP"
	case PacketShop:
		return "SHOP"
	case PacketBan:
		return "BAN"
	case PacketOption:
		return "OPTION"
	case PacketFavorite:
		return "FAVORITE"
	case PacketAchievement:
		return "ACHIEVEMENT"
	case PacketUnlock:
		return "UNLOCK"
	case PacketUserStart:
		return "USER_START"
	case PacketRoomList:
		return "ROOM_LIST"
	case PacketInventoryAdd:
		return "INVENTORY_ADD"
	case PacketInventoryCreate:
		return "INVENTORY_CREATE"
	case PacketUserInfo:
		return "USER_INFO"
	default:
		return "UNKNOWN"
	}
}
