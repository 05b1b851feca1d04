package user

import (
	"context"
	"fmt"
	"net/http"
)

// Loadout weapon slot indices as the client sends them.
const (
	// WeaponSlotPrimary - rifle/shotgun/sniper slot
	WeaponSlotPrimary uint8 = iota
	// WeaponSlotSecondary - pistol slot
	WeaponSlotSecondary
	// WeaponSlotMelee - knife slot
	WeaponSlotMelee
	// WeaponSlotHeGrenade - explosive grenade slot
	WeaponSlotHeGrenade
	// WeaponSlotFlash - flashbang slot
	WeaponSlotFlash
	// WeaponSlotSmoke - smoke grenade slot
	WeaponSlotSmoke
)

// createInventoryPath builds /inventory/{id} with an optional sub-path.
func createInventoryPath(id uint32, sub string) string {
	if sub == "" {
		return fmt.Sprintf("/inventory/%d", id)
	}
	return fmt.Sprintf("/inventory/%d/%s", id, sub)
}

func (c *Client) createInventoryResource(ctx context.Context, id uint32, sub string) error {
	path := createInventoryPath(id, sub)
	status, err := c.doJSON(ctx, http.MethodPost, path, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return c.unexpectedStatus(http.MethodPost, path, status)
	}
	return nil
}

// CreateInventory provisions the default item list for a fresh account.
func (c *Client) CreateInventory(ctx context.Context, id uint32) error {
	return c.createInventoryResource(ctx, id, "")
}

// CreateCosmetics provisions default cosmetics for a fresh account.
func (c *Client) CreateCosmetics(ctx context.Context, id uint32) error {
	return c.createInventoryResource(ctx, id, "cosmetics")
}

// CreateLoadouts provisions the default weapon loadouts for a fresh account.
func (c *Client) CreateLoadouts(ctx context.Context, id uint32) error {
	return c.createInventoryResource(ctx, id, "loadout")
}

// CreateBuyMenu provisions the default buy menu for a fresh account.
func (c *Client) CreateBuyMenu(ctx context.Context, id uint32) error {
	return c.createInventoryResource(ctx, id, "buymenu")
}

// GetInventory fetches the owned-item list. Returns nil, nil when the user
// has no inventory yet.
func (c *Client) GetInventory(ctx context.Context, id uint32) (*Inventory, error) {
	path := createInventoryPath(id, "")
	var inv Inventory
	status, err := c.doJSON(ctx, http.MethodGet, path, nil, &inv)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return &inv, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, c.unexpectedStatus(http.MethodGet, path, status)
	}
}

// GetCosmetics fetches the equipped cosmetics.
func (c *Client) GetCosmetics(ctx context.Context, id uint32) (*Cosmetics, error) {
	path := createInventoryPath(id, "cosmetics")
	var cos Cosmetics
	status, err := c.doJSON(ctx, http.MethodGet, path, nil, &cos)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return &cos, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, c.unexpectedStatus(http.MethodGet, path, status)
	}
}

// GetLoadouts fetches all weapon loadouts in slot order.
func (c *Client) GetLoadouts(ctx context.Context, id uint32) ([]Loadout, error) {
	path := createInventoryPath(id, "loadout")
	var outs []Loadout
	status, err := c.doJSON(ctx, http.MethodGet, path, nil, &outs)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return outs, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, c.unexpectedStatus(http.MethodGet, path, status)
	}
}

// GetBuyMenu fetches the buy menu layout.
func (c *Client) GetBuyMenu(ctx context.Context, id uint32) (*BuyMenu, error) {
	path := createInventoryPath(id, "buymenu")
	var bm BuyMenu
	status, err := c.doJSON(ctx, http.MethodGet, path, nil, &bm)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return &bm, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, c.unexpectedStatus(http.MethodGet, path, status)
	}
}

func (c *Client) putInventoryResource(ctx context.Context, id uint32, sub string, body any) error {
	path := createInventoryPath(id, sub)
	status, err := c.doJSON(ctx, http.MethodPut, path, body, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return c.unexpectedStatus(http.MethodPut, path, status)
	}
	return nil
}

// SetLoadoutWeapon stores one weapon pick inside a loadout.
func (c *Client) SetLoadoutWeapon(ctx context.Context, id uint32, loadoutSlot, weaponSlot uint8, itemID uint32) error {
	return c.putInventoryResource(ctx, id, "loadout", struct {
		Slot       uint8  `json:"slot"`
		WeaponSlot uint8  `json:"weapon_slot"`
		ItemID     uint32 `json:"item_id"`
	}{loadoutSlot, weaponSlot, itemID})
}

// SetCosmeticSlot stores one equipped cosmetic.
func (c *Client) SetCosmeticSlot(ctx context.Context, id uint32, slot uint8, itemID uint32) error {
	return c.putInventoryResource(ctx, id, "cosmetics", struct {
		Slot   uint8  `json:"slot"`
		ItemID uint32 `json:"item_id"`
	}{slot, itemID})
}

// SetBuyMenu stores one buy menu cell.
func (c *Client) SetBuyMenu(ctx context.Context, id uint32, column, slot uint8, itemID uint32) error {
	return c.putInventoryResource(ctx, id, "buymenu", struct {
		Column uint8  `json:"column"`
		Slot   uint8  `json:"slot"`
		ItemID uint32 `json:"item_id"`
	}{column, slot, itemID})
}
