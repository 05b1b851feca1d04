package master

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mireadev/cso2go/internal/master/clientpackets"
	"github.com/mireadev/cso2go/internal/master/serverpackets"
	"github.com/mireadev/cso2go/internal/user"
)

// handleVersion logs the client build hash. Nothing is enforced; mismatched
// builds fail later on their own packets.
func (h *Handler) handleVersion(c *Conn, data []byte) bool {
	req, err := clientpackets.ParseVersion(data)
	if err != nil {
		slog.Warn("malformed version packet", "conn", c.ID(), "err", err)
		return false
	}
	slog.Debug("client version", "conn", c.ID(), "hash", req.Hash)
	return true
}

// loginBundle is everything the client receives right after authentication,
// fetched up front so the packet burst is not interrupted by upstream calls.
type loginBundle struct {
	inventory *user.Inventory
	cosmetics user.Cosmetics
	loadouts  []user.Loadout
	buyMenu   user.BuyMenu
}

// handleLogin authenticates against the user service and, on success,
// attaches a session and sends the fixed login sequence: UserStart, the
// achievements blob, the full profile, the inventory bundle and the channel
// list.
func (h *Handler) handleLogin(ctx context.Context, c *Conn, data []byte) bool {
	if c.Session() != nil {
		slog.Warn("login on an authenticated connection", "conn", c.ID())
		return false
	}

	req, err := clientpackets.ParseLogin(data)
	if err != nil {
		slog.Warn("malformed login packet", "conn", c.ID(), "err", err)
		return false
	}

	userID, err := h.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		slog.Error("login against user service", "conn", c.ID(), "username", req.Username, "err", err)
		sendDialog(c, GameServiceUnavailable)
		return false
	}
	switch {
	case userID == 0:
		slog.Info("login rejected: unknown username", "conn", c.ID(), "username", req.Username)
		sendDialog(c, GameLoginBadUsername)
		return false
	case userID < 0:
		slog.Info("login rejected: bad password", "conn", c.ID(), "username", req.Username)
		sendDialog(c, GameLoginBadPassword)
		return false
	}
	id := uint32(userID)

	if other := h.registry.FindByUserID(id); other != nil {
		slog.Warn("login for a user already online", "conn", c.ID(), "user", id, "other", other.ID())
		sendDialog(c, GameLoginInvalidUserInfo)
		return false
	}

	u, err := h.users.GetByID(ctx, id)
	if err != nil {
		slog.Error("fetching user after login", "conn", c.ID(), "user", id, "err", err)
		sendDialog(c, GameServiceUnavailable)
		return false
	}
	if u == nil {
		slog.Error("user record missing after login", "conn", c.ID(), "user", id)
		sendDialog(c, GameLoginInvalidUserInfo)
		return false
	}

	bundle, err := h.fetchLoginBundle(ctx, id)
	if err != nil {
		slog.Error("fetching login bundle", "conn", c.ID(), "user", id, "err", err)
		sendDialog(c, GameServiceUnavailable)
		return false
	}

	c.SetSession(NewUserSession(*u, c.RemoteAddr()))

	send(c, serverpackets.NewUserStart(u.ID, u.Username, u.PlayerName, h.holepunchPort))
	send(c, serverpackets.NewAchievement(u.ID))
	send(c, serverpackets.NewFullUserUpdate(*u))
	send(c, serverpackets.NewInventoryAdd(bundle.inventory))
	send(c, serverpackets.InventoryCreate{
		Cosmetics: bundle.cosmetics,
		Loadouts:  bundle.loadouts,
		BuyMenu:   bundle.buyMenu,
	})
	send(c, serverpackets.NewServerList(h.directory.Servers()))

	h.metrics.SetSessions(h.registry.SessionCount())
	slog.Info("user logged in", "conn", c.ID(), "user", u.ID, "player", u.PlayerName)
	return true
}

// fetchLoginBundle collects the user's inventory resources, provisioning
// defaults for resources the service has not created yet (fresh accounts).
func (h *Handler) fetchLoginBundle(ctx context.Context, id uint32) (*loginBundle, error) {
	b := &loginBundle{}

	inv, err := h.users.GetInventory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}
	if inv == nil {
		if err := h.users.CreateInventory(ctx, id); err != nil {
			return nil, fmt.Errorf("creating inventory: %w", err)
		}
		if inv, err = h.users.GetInventory(ctx, id); err != nil {
			return nil, fmt.Errorf("inventory after create: %w", err)
		}
	}
	b.inventory = inv

	cos, err := h.users.GetCosmetics(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cosmetics: %w", err)
	}
	if cos == nil {
		if err := h.users.CreateCosmetics(ctx, id); err != nil {
			return nil, fmt.Errorf("creating cosmetics: %w", err)
		}
		if cos, err = h.users.GetCosmetics(ctx, id); err != nil {
			return nil, fmt.Errorf("cosmetics after create: %w", err)
		}
	}
	if cos != nil {
		b.cosmetics = *cos
	}

	louts, err := h.users.GetLoadouts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loadouts: %w", err)
	}
	if louts == nil {
		if err := h.users.CreateLoadouts(ctx, id); err != nil {
			return nil, fmt.Errorf("creating loadouts: %w", err)
		}
		if louts, err = h.users.GetLoadouts(ctx, id); err != nil {
			return nil, fmt.Errorf("loadouts after create: %w", err)
		}
	}
	b.loadouts = louts

	bm, err := h.users.GetBuyMenu(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buy menu: %w", err)
	}
	if bm == nil {
		if err := h.users.CreateBuyMenu(ctx, id); err != nil {
			return nil, fmt.Errorf("creating buy menu: %w", err)
		}
		if bm, err = h.users.GetBuyMenu(ctx, id); err != nil {
			return nil, fmt.Errorf("buy menu after create: %w", err)
		}
	}
	if bm != nil {
		b.buyMenu = *bm
	}

	return b, nil
}
