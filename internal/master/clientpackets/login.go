// Package clientpackets parses inbound packet payloads. Every Parse takes
// the body after the packet id byte and returns per-field wrapped errors so
// handlers can log exactly what was malformed.
package clientpackets

import (
	"fmt"

	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// Login is the first packet a client sends. Credentials are verified
// against the upstream user service.
//
// Structure:
//   - username (PacketString)
//   - password (PacketString)
type Login struct {
	Username string
	Password string
}

// ParseLogin parses a Login payload (without the packet id byte).
func ParseLogin(data []byte) (*Login, error) {
	r := packet.NewReader(data)

	username, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading username: %w", err)
	}

	password, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	return &Login{Username: username, Password: password}, nil
}
