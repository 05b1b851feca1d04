package clientpackets

import (
	"fmt"

	"github.com/mireadev/cso2go/internal/channel"
	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// HostRequest is the inbound Host packet sub-operation. All of them carry
// match authority and are only honored from the current room host.
type HostRequest uint8

const (
	// HostRequestOnGameEnd - the hosted match finished
	HostRequestOnGameEnd HostRequest = 0
	// HostRequestSetUserInventory - host asks for a player's item list
	HostRequestSetUserInventory HostRequest = 1
	// HostRequestSetUserLoadout - host asks for a player's loadouts
	HostRequestSetUserLoadout HostRequest = 2
	// HostRequestSetUserBuyMenu - host asks for a player's buy menu
	HostRequestSetUserBuyMenu HostRequest = 3
	// HostRequestTeamChanging - host moved a player across teams in-match
	HostRequestTeamChanging HostRequest = 4
	// HostRequestItemUsing - host reports a player using an item in-match
	HostRequestItemUsing HostRequest = 5
)

// String returns the request name for logs.
func (h HostRequest) String() string {
	switch h {
	case HostRequestOnGameEnd:
		return "ON_GAME_END"
	case HostRequestSetUserInventory:
		return "SET_USER_INVENTORY"
	case HostRequestSetUserLoadout:
		return "SET_USER_LOADOUT"
	case HostRequestSetUserBuyMenu:
		return "SET_USER_BUY_MENU"
	case HostRequestTeamChanging:
		return "TEAM_CHANGING"
	case HostRequestItemUsing:
		return "ITEM_USING"
	default:
		return "UNKNOWN"
	}
}

// ReadHostRequest reads the sub-operation byte and returns the rest of the
// payload reader.
func ReadHostRequest(data []byte) (HostRequest, *packet.Reader, error) {
	r := packet.NewReader(data)
	op, err := r.ReadUint8()
	if err != nil {
		return 0, nil, fmt.Errorf("reading host request op: %w", err)
	}
	return HostRequest(op), r, nil
}

// ParseHostTarget parses the single target id the SetUser* requests carry.
//
// Structure (after the op byte): targetId (u32 LE).
func ParseHostTarget(r *packet.Reader) (uint32, error) {
	target, err := r.ReadUint32()
	if err != nil {
		return 0, fmt.Errorf("reading target id: %w", err)
	}
	return target, nil
}

// HostTeamChange moves a player across teams mid-match.
//
// Structure (after the op byte): targetId (u32 LE), team (u8).
type HostTeamChange struct {
	TargetID uint32
	Team     channel.Team
}

// ParseHostTeamChange parses a TeamChanging payload.
func ParseHostTeamChange(r *packet.Reader) (*HostTeamChange, error) {
	target, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading target id: %w", err)
	}

	team, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading team: %w", err)
	}

	return &HostTeamChange{TargetID: target, Team: channel.Team(team)}, nil
}

// HostItemUse reports an in-match item use for one player.
//
// Structure (after the op byte): targetId (u32 LE), itemId (u32 LE).
type HostItemUse struct {
	TargetID uint32
	ItemID   uint32
}

// ParseHostItemUse parses an ItemUsing payload.
func ParseHostItemUse(r *packet.Reader) (*HostItemUse, error) {
	target, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading target id: %w", err)
	}

	itemID, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading item id: %w", err)
	}

	return &HostItemUse{TargetID: target, ItemID: itemID}, nil
}
