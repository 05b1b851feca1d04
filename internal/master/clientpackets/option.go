package clientpackets

import (
	"fmt"

	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// OptionRequest is the inbound Option packet sub-operation.
type OptionRequest uint8

const (
	// OptionSetBuyMenu - store one buy menu cell
	OptionSetBuyMenu OptionRequest = 0
)

// String returns the request name for logs.
func (o OptionRequest) String() string {
	switch o {
	case OptionSetBuyMenu:
		return "SET_BUY_MENU"
	default:
		return "UNKNOWN"
	}
}

// ReadOptionRequest reads the sub-operation byte and returns the rest of
// the payload reader.
func ReadOptionRequest(data []byte) (OptionRequest, *packet.Reader, error) {
	r := packet.NewReader(data)
	op, err := r.ReadUint8()
	if err != nil {
		return 0, nil, fmt.Errorf("reading option request op: %w", err)
	}
	return OptionRequest(op), r, nil
}

// SetBuyMenu stores one buy menu cell.
//
// Structure (after the op byte): column (u8), slot (u8), itemId (u32 LE).
type SetBuyMenu struct {
	Column uint8
	Slot   uint8
	ItemID uint32
}

// ParseSetBuyMenu parses a SetBuyMenu payload.
func ParseSetBuyMenu(r *packet.Reader) (*SetBuyMenu, error) {
	column, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading buy menu column: %w", err)
	}

	slot, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading buy menu slot: %w", err)
	}

	itemID, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading item id: %w", err)
	}

	return &SetBuyMenu{Column: column, Slot: slot, ItemID: itemID}, nil
}
