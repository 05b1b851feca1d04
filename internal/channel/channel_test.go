package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel_CreateRoom_IDAssignment(t *testing.T) {
	c := NewChannel(0, 0, "Channel-1")

	for want := uint16(1); want <= 3; want++ {
		room, err := c.CreateRoom(uint32(want), newTestSettings("r"))
		require.NoError(t, err)
		assert.Equal(t, want, room.ID())
	}

	// Freed ids are reused lowest-first.
	c.RemoveRoom(2)
	room, err := c.CreateRoom(9, newTestSettings("r"))
	require.NoError(t, err)
	assert.Equal(t, uint16(2), room.ID())

	room, err = c.CreateRoom(10, newTestSettings("r"))
	require.NoError(t, err)
	assert.Equal(t, uint16(4), room.ID())
}

func TestChannel_CreateRoom_BadSettings(t *testing.T) {
	c := NewChannel(0, 0, "Channel-1")

	s := newTestSettings("r")
	s.KillLimit = 0
	_, err := c.CreateRoom(1, s)

	assert.ErrorIs(t, err, ErrBadSettings)
	assert.Equal(t, 0, c.RoomCount())
}

func TestChannel_RoomLookup(t *testing.T) {
	c := NewChannel(0, 0, "Channel-1")
	created, err := c.CreateRoom(1, newTestSettings("r"))
	require.NoError(t, err)

	got, ok := c.Room(created.ID())
	require.True(t, ok)
	assert.Same(t, created, got)

	_, ok = c.Room(99)
	assert.False(t, ok)
}

func TestChannel_Rooms_OrderedByID(t *testing.T) {
	c := NewChannel(0, 0, "Channel-1")
	for i := 0; i < 5; i++ {
		_, err := c.CreateRoom(uint32(i+1), newTestSettings("r"))
		require.NoError(t, err)
	}
	c.RemoveRoom(1)
	c.RemoveRoom(3)

	rooms := c.Rooms()
	require.Len(t, rooms, 3)
	assert.Equal(t, uint16(2), rooms[0].ID())
	assert.Equal(t, uint16(4), rooms[1].ID())
	assert.Equal(t, uint16(5), rooms[2].ID())
}

func TestChannel_Lobby(t *testing.T) {
	c := NewChannel(0, 0, "Channel-1")

	c.EnterLobby(42)
	c.EnterLobby(42) // idempotent
	c.EnterLobby(43)

	assert.True(t, c.InLobby(42))
	assert.Equal(t, 2, c.LobbyCount())
	assert.ElementsMatch(t, []uint32{42, 43}, c.LobbyMembers())

	c.LeaveLobby(42)
	assert.False(t, c.InLobby(42))
	assert.Equal(t, 1, c.LobbyCount())
}

func TestDirectory(t *testing.T) {
	d := NewDirectory([]ServerSpec{
		{Name: "Sunrise", Channels: []string{"Speed", "Casual"}},
		{Name: "Moonlight", Channels: []string{"Newbie"}},
	})

	require.Len(t, d.Servers(), 2)

	srv, ok := d.ServerByIndex(0)
	require.True(t, ok)
	assert.Equal(t, "Sunrise", srv.Name())
	assert.Equal(t, uint8(0), srv.Index())
	require.Len(t, srv.Channels(), 2)

	ch, ok := srv.ChannelByIndex(1)
	require.True(t, ok)
	assert.Equal(t, "Casual", ch.Name())
	assert.Equal(t, uint8(1), ch.Index())
	assert.Equal(t, uint8(0), ch.ServerIndex())

	_, ok = srv.ChannelByIndex(2)
	assert.False(t, ok, "channel index out of range")

	_, ok = d.ServerByIndex(9)
	assert.False(t, ok, "server index out of range")

	ch2, ok := d.ChannelAt(1, 0)
	require.True(t, ok)
	assert.Equal(t, "Newbie", ch2.Name())

	_, ok = d.ChannelAt(0, 9)
	assert.False(t, ok)
}
