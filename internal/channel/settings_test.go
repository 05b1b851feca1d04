package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mireadev/cso2go/internal/gamedata"
)

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"valid", func(s *Settings) {}, false},
		{"empty name", func(s *Settings) { s.Name = "" }, true},
		{"unknown mode", func(s *Settings) { s.Mode = gamedata.GameMode(200) }, true},
		{"unknown map", func(s *Settings) { s.Map = gamedata.MapID(99) }, true},
		{"kill limit low", func(s *Settings) { s.KillLimit = gamedata.KillLimitMin - 1 }, true},
		{"kill limit high", func(s *Settings) { s.KillLimit = gamedata.KillLimitMax + 1 }, true},
		{"win limit zero", func(s *Settings) { s.WinLimit = 0 }, true},
		{"solo capacity", func(s *Settings) { s.MaxPlayers = 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSettings("r1")
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadSettings)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSettings_Public(t *testing.T) {
	s := newTestSettings("r1")
	assert.True(t, s.Public())

	s.Password = "pw"
	assert.False(t, s.Public())
}

func TestSettings_Apply(t *testing.T) {
	s := newTestSettings("r1")
	name := "renamed"
	bots := true

	got, err := s.apply(SettingsUpdate{Name: &name, BotsEnabled: &bots})
	require.NoError(t, err)

	assert.Equal(t, "renamed", got.Name)
	assert.True(t, got.BotsEnabled)
	assert.Equal(t, s.KillLimit, got.KillLimit, "untouched fields carry over")
	assert.Equal(t, "r1", s.Name, "the receiver is not mutated")
}

func TestSettings_Apply_Invalid(t *testing.T) {
	s := newTestSettings("r1")
	badWin := uint8(gamedata.WinLimitMax + 1)

	_, err := s.apply(SettingsUpdate{WinLimit: &badWin})
	assert.ErrorIs(t, err, ErrBadSettings)
}
