package clientpackets

import (
	"fmt"

	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// AboutMeRequest is the inbound AboutMe packet sub-operation: profile
// edits from the "about me" screen.
type AboutMeRequest uint8

const (
	// AboutMeSetAvatar - change the profile avatar
	AboutMeSetAvatar AboutMeRequest = 0
	// AboutMeSetSignature - change the profile signature line
	AboutMeSetSignature AboutMeRequest = 1
	// AboutMeSetTitle - change the equipped title
	AboutMeSetTitle AboutMeRequest = 2
)

// String returns the request name for logs.
func (a AboutMeRequest) String() string {
	switch a {
	case AboutMeSetAvatar:
		return "SET_AVATAR"
	case AboutMeSetSignature:
		return "SET_SIGNATURE"
	case AboutMeSetTitle:
		return "SET_TITLE"
	default:
		return "UNKNOWN"
	}
}

// ReadAboutMeRequest reads the sub-operation byte and returns the rest of
// the payload reader.
func ReadAboutMeRequest(data []byte) (AboutMeRequest, *packet.Reader, error) {
	r := packet.NewReader(data)
	op, err := r.ReadUint8()
	if err != nil {
		return 0, nil, fmt.Errorf("reading about-me request op: %w", err)
	}
	return AboutMeRequest(op), r, nil
}

// ParseAvatar parses a SetAvatar payload: avatarId (u16 LE).
func ParseAvatar(r *packet.Reader) (uint16, error) {
	avatar, err := r.ReadUint16()
	if err != nil {
		return 0, fmt.Errorf("reading avatar id: %w", err)
	}
	return avatar, nil
}

// ParseSignature parses a SetSignature payload: signature (PacketString).
func ParseSignature(r *packet.Reader) (string, error) {
	signature, err := r.ReadString()
	if err != nil {
		return "", fmt.Errorf("reading signature: %w", err)
	}
	return signature, nil
}

// ParseTitle parses a SetTitle payload: titleId (u16 LE).
func ParseTitle(r *packet.Reader) (uint16, error) {
	title, err := r.ReadUint16()
	if err != nil {
		return 0, fmt.Errorf("reading title id: %w", err)
	}
	return title, nil
}
