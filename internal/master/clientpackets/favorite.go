package clientpackets

import (
	"fmt"

	"github.com/mireadev/cso2go/internal/protocol/packet"
)

// FavoriteRequest is the inbound Favorite packet sub-operation: loadout and
// cosmetics edits from the favorites screen.
type FavoriteRequest uint8

const (
	// FavoriteSetLoadout - put a weapon into a loadout slot
	FavoriteSetLoadout FavoriteRequest = 0
	// FavoriteSetCosmetics - equip a cosmetic item
	FavoriteSetCosmetics FavoriteRequest = 1
)

// String returns the request name for logs.
func (f FavoriteRequest) String() string {
	switch f {
	case FavoriteSetLoadout:
		return "SET_LOADOUT"
	case FavoriteSetCosmetics:
		return "SET_COSMETICS"
	default:
		return "UNKNOWN"
	}
}

// ReadFavoriteRequest reads the sub-operation byte and returns the rest of
// the payload reader.
func ReadFavoriteRequest(data []byte) (FavoriteRequest, *packet.Reader, error) {
	r := packet.NewReader(data)
	op, err := r.ReadUint8()
	if err != nil {
		return 0, nil, fmt.Errorf("reading favorite request op: %w", err)
	}
	return FavoriteRequest(op), r, nil
}

// SetLoadout stores one weapon pick.
//
// Structure (after the op byte): loadoutSlot (u8), weaponSlot (u8),
// itemId (u32 LE).
type SetLoadout struct {
	LoadoutSlot uint8
	WeaponSlot  uint8
	ItemID      uint32
}

// ParseSetLoadout parses a SetLoadout payload.
func ParseSetLoadout(r *packet.Reader) (*SetLoadout, error) {
	loadoutSlot, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading loadout slot: %w", err)
	}

	weaponSlot, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading weapon slot: %w", err)
	}

	itemID, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading item id: %w", err)
	}

	return &SetLoadout{LoadoutSlot: loadoutSlot, WeaponSlot: weaponSlot, ItemID: itemID}, nil
}

// SetCosmetics equips one cosmetic item.
//
// Structure (after the op byte): slot (u8), itemId (u32 LE).
type SetCosmetics struct {
	Slot   uint8
	ItemID uint32
}

// ParseSetCosmetics parses a SetCosmetics payload.
func ParseSetCosmetics(r *packet.Reader) (*SetCosmetics, error) {
	slot, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading cosmetic slot: %w", err)
	}

	itemID, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading item id: %w", err)
	}

	return &SetCosmetics{Slot: slot, ItemID: itemID}, nil
}
