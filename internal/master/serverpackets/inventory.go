package serverpackets

import (
	"github.com/mireadev/cso2go/internal/protocol"
	"github.com/mireadev/cso2go/internal/protocol/packet"
	"github.com/mireadev/cso2go/internal/user"
)

// InventoryAdd pushes the user's owned item list during login.
//
// Structure:
//   - itemCount (u16 LE), then per item: itemId (u32 LE), count (u16 LE)
type InventoryAdd struct {
	Items []user.InventoryItem
}

// NewInventoryAdd creates the owned-items packet.
func NewInventoryAdd(inv *user.Inventory) InventoryAdd {
	if inv == nil {
		return InventoryAdd{}
	}
	return InventoryAdd{Items: inv.Items}
}

// Write serializes the packet body.
func (p InventoryAdd) Write() ([]byte, error) {
	w := packet.NewWriter(4 + len(p.Items)*6)
	w.WriteUint8(uint8(protocol.PacketInventoryAdd))
	w.WriteUint16(uint16(len(p.Items)))
	for _, item := range p.Items {
		w.WriteUint32(item.ItemID)
		w.WriteUint16(item.Count)
	}
	return w.Bytes()
}

// InventoryCreate pushes the user's equipped cosmetics, weapon loadouts and
// buy menu during login.
//
// Structure:
//   - cosmetics block: ctItem, terItem, headItem, gloveItem, backItem,
//     stepsItem, cardItem, sprayItem (u32 LE each)
//   - loadoutCount (u8), then per loadout the loadout block (see host.go)
//   - nine buy menu column blocks (count u8 + itemIds u32 LE each)
type InventoryCreate struct {
	Cosmetics user.Cosmetics
	Loadouts  []user.Loadout
	BuyMenu   user.BuyMenu
}

// Write serializes the packet body.
func (p InventoryCreate) Write() ([]byte, error) {
	w := packet.NewWriter(64 + len(p.Loadouts)*25 + user.BuyMenuColumns*40)
	w.WriteUint8(uint8(protocol.PacketInventoryCreate))

	w.WriteUint32(p.Cosmetics.CtItem)
	w.WriteUint32(p.Cosmetics.TerItem)
	w.WriteUint32(p.Cosmetics.HeadItem)
	w.WriteUint32(p.Cosmetics.GloveItem)
	w.WriteUint32(p.Cosmetics.BackItem)
	w.WriteUint32(p.Cosmetics.StepsItem)
	w.WriteUint32(p.Cosmetics.CardItem)
	w.WriteUint32(p.Cosmetics.SprayItem)

	w.WriteUint8(uint8(len(p.Loadouts)))
	for _, l := range p.Loadouts {
		writeLoadout(w, l)
	}

	writeBuyMenu(w, p.BuyMenu)
	return w.Bytes()
}
