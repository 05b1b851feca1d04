// Package user talks to the upstream user service and defines the account
// records the master server works with. All persistent user state lives
// upstream; this package only fetches, caches and mutates it over HTTP.
package user

// User is the master server's view of an account record. Fields are
// immutable here; mutations go through the service client.
type User struct {
	ID         uint32 `json:"id"`
	Username   string `json:"username"`
	PlayerName string `json:"playername"`
	Level      uint8  `json:"level"`
	Avatar     uint16 `json:"avatar"`
	Signature  string `json:"signature"`
	Title      uint16 `json:"title"`
	CurExp     uint64 `json:"cur_xp"`
	MaxExp     uint64 `json:"max_xp"`
	Points     uint64 `json:"points"`
	Cash       uint32 `json:"cash"`
	MPoints    uint32 `json:"mpoints"`
	Wins       uint32 `json:"wins"`
	Losses     uint32 `json:"losses"`
	Kills      uint32 `json:"kills"`
	Deaths     uint32 `json:"deaths"`
	Assists    uint32 `json:"assists"`
	VipLevel   uint8  `json:"vip_level"`
}

// InventoryItem is one owned item stack.
type InventoryItem struct {
	ItemID uint32 `json:"item_id"`
	Count  uint16 `json:"count"`
}

// Inventory is the full owned-item list for a user.
type Inventory struct {
	UserID uint32          `json:"user_id"`
	Items  []InventoryItem `json:"items"`
}

// Cosmetics holds the equipped cosmetic item per visual slot.
type Cosmetics struct {
	UserID    uint32 `json:"user_id"`
	CtItem    uint32 `json:"ct_item"`
	TerItem   uint32 `json:"ter_item"`
	HeadItem  uint32 `json:"head_item"`
	GloveItem uint32 `json:"glove_item"`
	BackItem  uint32 `json:"back_item"`
	StepsItem uint32 `json:"steps_item"`
	CardItem  uint32 `json:"card_item"`
	SprayItem uint32 `json:"spray_item"`
}

// LoadoutSlots is how many weapon loadouts every user owns.
const LoadoutSlots = 3

// Loadout is one weapon preset.
type Loadout struct {
	UserID    uint32 `json:"user_id"`
	Slot      uint8  `json:"slot"`
	Primary   uint32 `json:"primary_weapon"`
	Secondary uint32 `json:"secondary_weapon"`
	Melee     uint32 `json:"melee"`
	HeGrenade uint32 `json:"hegrenade"`
	Flash     uint32 `json:"flash"`
	Smoke     uint32 `json:"smoke"`
}

// BuyMenuColumns is how many weapon-class columns the buy menu has.
const BuyMenuColumns = 9

// BuyMenu is the in-match purchase layout, one item list per weapon class.
type BuyMenu struct {
	UserID      uint32   `json:"user_id"`
	Pistols     []uint32 `json:"pistols"`
	Shotguns    []uint32 `json:"shotguns"`
	SMGs        []uint32 `json:"smgs"`
	Rifles      []uint32 `json:"rifles"`
	Snipers     []uint32 `json:"snipers"`
	MachineGuns []uint32 `json:"machineguns"`
	Melees      []uint32 `json:"melees"`
	Grenades    []uint32 `json:"grenades"`
	Equipment   []uint32 `json:"equipment"`
}
