package serverpackets

import (
	"github.com/mireadev/cso2go/internal/channel"
	"github.com/mireadev/cso2go/internal/protocol"
	"github.com/mireadev/cso2go/internal/protocol/packet"
	"github.com/mireadev/cso2go/internal/user"
)

// HostOp is the outbound Host packet sub-operation. Host packets carry
// match-authority data: who hosts, and per-user equipment the host's game
// process needs to spawn players.
type HostOp uint8

const (
	// HostOpGameStart - connect to this host and start playing
	HostOpGameStart HostOp = 0
	// HostOpSetInventory - a player's owned item list
	HostOpSetInventory HostOp = 1
	// HostOpSetLoadout - a player's weapon loadouts
	HostOpSetLoadout HostOp = 2
	// HostOpSetBuyMenu - a player's buy menu
	HostOpSetBuyMenu HostOp = 3
	// HostOpTeamChanging - in-match team switch, host authority
	HostOpTeamChanging HostOp = 4
	// HostOpItemUsing - in-match item use, host authority
	HostOpItemUsing HostOp = 5
)

// HostGameStart tells a client which user hosts the match it belongs to.
//
// Structure: op (u8) = HostOpGameStart, hostUserId (u32 LE).
type HostGameStart struct {
	HostUserID uint32
}

// Write serializes the packet body.
func (p HostGameStart) Write() ([]byte, error) {
	w := packet.NewWriter(6)
	w.WriteUint8(uint8(protocol.PacketHost))
	w.WriteUint8(uint8(HostOpGameStart))
	w.WriteUint32(p.HostUserID)
	return w.Bytes()
}

// HostSetInventory carries one player's owned items to the match host.
//
// Structure:
//   - op (u8) = HostOpSetInventory
//   - userId (u32 LE)
//   - itemCount (u16 LE), then per item: itemId (u32 LE), count (u16 LE)
type HostSetInventory struct {
	UserID uint32
	Items  []user.InventoryItem
}

// Write serializes the packet body.
func (p HostSetInventory) Write() ([]byte, error) {
	w := packet.NewWriter(8 + len(p.Items)*6)
	w.WriteUint8(uint8(protocol.PacketHost))
	w.WriteUint8(uint8(HostOpSetInventory))
	w.WriteUint32(p.UserID)
	w.WriteUint16(uint16(len(p.Items)))
	for _, item := range p.Items {
		w.WriteUint32(item.ItemID)
		w.WriteUint16(item.Count)
	}
	return w.Bytes()
}

// writeLoadout emits one loadout block: slot (u8) then the six weapon ids
// (u32 LE each) in weapon slot order.
func writeLoadout(w *packet.Writer, l user.Loadout) {
	w.WriteUint8(l.Slot)
	w.WriteUint32(l.Primary)
	w.WriteUint32(l.Secondary)
	w.WriteUint32(l.Melee)
	w.WriteUint32(l.HeGrenade)
	w.WriteUint32(l.Flash)
	w.WriteUint32(l.Smoke)
}

// HostSetLoadout carries one player's weapon loadouts to the match host.
//
// Structure:
//   - op (u8) = HostOpSetLoadout
//   - userId (u32 LE)
//   - loadoutCount (u8), then per loadout the loadout block
type HostSetLoadout struct {
	UserID   uint32
	Loadouts []user.Loadout
}

// Write serializes the packet body.
func (p HostSetLoadout) Write() ([]byte, error) {
	w := packet.NewWriter(7 + len(p.Loadouts)*25)
	w.WriteUint8(uint8(protocol.PacketHost))
	w.WriteUint8(uint8(HostOpSetLoadout))
	w.WriteUint32(p.UserID)
	w.WriteUint8(uint8(len(p.Loadouts)))
	for _, l := range p.Loadouts {
		writeLoadout(w, l)
	}
	return w.Bytes()
}

// writeBuyColumn emits one buy menu column: count (u8) then item ids
// (u32 LE each).
func writeBuyColumn(w *packet.Writer, items []uint32) {
	w.WriteUint8(uint8(len(items)))
	for _, id := range items {
		w.WriteUint32(id)
	}
}

// writeBuyMenu emits all nine buy menu columns in fixed order.
func writeBuyMenu(w *packet.Writer, m user.BuyMenu) {
	writeBuyColumn(w, m.Pistols)
	writeBuyColumn(w, m.Shotguns)
	writeBuyColumn(w, m.SMGs)
	writeBuyColumn(w, m.Rifles)
	writeBuyColumn(w, m.Snipers)
	writeBuyColumn(w, m.MachineGuns)
	writeBuyColumn(w, m.Melees)
	writeBuyColumn(w, m.Grenades)
	writeBuyColumn(w, m.Equipment)
}

// HostSetBuyMenu carries one player's buy menu to the match host.
//
// Structure:
//   - op (u8) = HostOpSetBuyMenu
//   - userId (u32 LE)
//   - nine column blocks (count u8 + itemIds u32 LE each)
type HostSetBuyMenu struct {
	UserID uint32
	Menu   user.BuyMenu
}

// Write serializes the packet body.
func (p HostSetBuyMenu) Write() ([]byte, error) {
	w := packet.NewWriter(16 + user.BuyMenuColumns*40)
	w.WriteUint8(uint8(protocol.PacketHost))
	w.WriteUint8(uint8(HostOpSetBuyMenu))
	w.WriteUint32(p.UserID)
	writeBuyMenu(w, p.Menu)
	return w.Bytes()
}

// HostTeamChanging forwards an in-match team switch to the affected client.
//
// Structure: op (u8) = HostOpTeamChanging, userId (u32 LE), team (u8).
type HostTeamChanging struct {
	UserID uint32
	Team   channel.Team
}

// Write serializes the packet body.
func (p HostTeamChanging) Write() ([]byte, error) {
	w := packet.NewWriter(7)
	w.WriteUint8(uint8(protocol.PacketHost))
	w.WriteUint8(uint8(HostOpTeamChanging))
	w.WriteUint32(p.UserID)
	w.WriteUint8(uint8(p.Team))
	return w.Bytes()
}

// HostItemUsing forwards an in-match item use to the affected client.
//
// Structure: op (u8) = HostOpItemUsing, userId (u32 LE), itemId (u32 LE).
type HostItemUsing struct {
	UserID uint32
	ItemID uint32
}

// Write serializes the packet body.
func (p HostItemUsing) Write() ([]byte, error) {
	w := packet.NewWriter(10)
	w.WriteUint8(uint8(protocol.PacketHost))
	w.WriteUint8(uint8(HostOpItemUsing))
	w.WriteUint32(p.UserID)
	w.WriteUint32(p.ItemID)
	return w.Bytes()
}
