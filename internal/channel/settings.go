package channel

import (
	"errors"
	"fmt"

	"github.com/mireadev/cso2go/internal/gamedata"
)

// ErrBadSettings reports a settings field outside the recognized option sets.
var ErrBadSettings = errors.New("bad room settings")

// Settings is a room's configuration. The zero value is not usable; rooms
// are created from a validated Settings and patched through Update.
type Settings struct {
	Name        string
	Password    string
	Map         gamedata.MapID
	Mode        gamedata.GameMode
	KillLimit   uint8
	WinLimit    uint8
	MaxPlayers  uint8
	BotsEnabled bool
}

// Public reports whether the room can be joined without a password.
func (s Settings) Public() bool {
	return len(s.Password) == 0
}

// Validate checks every field against the recognized option sets.
func (s Settings) Validate() error {
	if len(s.Name) == 0 {
		return fmt.Errorf("%w: empty room name", ErrBadSettings)
	}
	if !s.Mode.Valid() {
		return fmt.Errorf("%w: unknown game mode %d", ErrBadSettings, s.Mode)
	}
	if !s.Map.Valid() {
		return fmt.Errorf("%w: unknown map %d", ErrBadSettings, s.Map)
	}
	if !gamedata.ValidKillLimit(s.KillLimit) {
		return fmt.Errorf("%w: kill limit %d outside %d..%d", ErrBadSettings,
			s.KillLimit, gamedata.KillLimitMin, gamedata.KillLimitMax)
	}
	if !gamedata.ValidWinLimit(s.WinLimit) {
		return fmt.Errorf("%w: win limit %d outside %d..%d", ErrBadSettings,
			s.WinLimit, gamedata.WinLimitMin, gamedata.WinLimitMax)
	}
	if !gamedata.ValidMaxPlayers(s.MaxPlayers) {
		return fmt.Errorf("%w: max players %d outside %d..%d", ErrBadSettings,
			s.MaxPlayers, gamedata.RoomPlayersMin, gamedata.RoomPlayersMax)
	}
	return nil
}

// SettingsUpdate names the subset of fields a settings request changes.
// Nil fields keep their current value.
type SettingsUpdate struct {
	Name        *string
	Password    *string
	Map         *gamedata.MapID
	Mode        *gamedata.GameMode
	KillLimit   *uint8
	WinLimit    *uint8
	MaxPlayers  *uint8
	BotsEnabled *bool
}

// apply patches s with the non-nil fields of u and validates the result.
func (s Settings) apply(u SettingsUpdate) (Settings, error) {
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Password != nil {
		s.Password = *u.Password
	}
	if u.Map != nil {
		s.Map = *u.Map
	}
	if u.Mode != nil {
		s.Mode = *u.Mode
	}
	if u.KillLimit != nil {
		s.KillLimit = *u.KillLimit
	}
	if u.WinLimit != nil {
		s.WinLimit = *u.WinLimit
	}
	if u.MaxPlayers != nil {
		s.MaxPlayers = *u.MaxPlayers
	}
	if u.BotsEnabled != nil {
		s.BotsEnabled = *u.BotsEnabled
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
