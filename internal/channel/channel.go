// Package channel models the lobby hierarchy: a fixed directory of channel
// servers, each holding ordered channels, each owning rooms and a lobby
// membership set. The package is pure state; packet emission lives with the
// callers, which resolve user ids to connections on demand.
package channel

import (
	"slices"
	"sync"
)

// Channel is one lobby bucket inside a channel server. It owns rooms keyed
// by id and tracks which logged-in users idle in its lobby.
// Thread-safe: all methods acquire the internal mutex. Channel methods never
// take room locks.
type Channel struct {
	mu          sync.RWMutex
	serverIndex uint8
	index       uint8
	name        string
	rooms       map[uint16]*Room
	lobby       map[uint32]struct{}
}

// NewChannel creates an empty channel.
func NewChannel(serverIdx, idx uint8, name string) *Channel {
	return &Channel{
		serverIndex: serverIdx,
		index:       idx,
		name:        name,
		rooms:       make(map[uint16]*Room),
		lobby:       make(map[uint32]struct{}),
	}
}

// Name returns the configured channel name.
func (c *Channel) Name() string {
	return c.name
}

// Index returns the channel's position within its server.
func (c *Channel) Index() uint8 {
	return c.index
}

// ServerIndex returns the owning channel server index.
func (c *Channel) ServerIndex() uint8 {
	return c.serverIndex
}

// EnterLobby marks the user as idling in this channel's lobby.
// Idempotent.
func (c *Channel) EnterLobby(userID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lobby[userID] = struct{}{}
}

// LeaveLobby removes the user from the lobby set. Users inside rooms are
// not lobby members; callers flip membership on room join and leave.
func (c *Channel) LeaveLobby(userID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lobby, userID)
}

// InLobby checks lobby membership.
func (c *Channel) InLobby(userID uint32) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.lobby[userID]
	return ok
}

// LobbyMembers returns a snapshot of lobby user ids.
// Safe to iterate without holding the lock.
func (c *Channel) LobbyMembers() []uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]uint32, 0, len(c.lobby))
	for id := range c.lobby {
		result = append(result, id)
	}
	return result
}

// LobbyCount returns the number of users idling in the lobby.
func (c *Channel) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobby)
}

// CreateRoom creates a room hosted by the given user under the lowest free
// room id, starting from 1. Ids of closed rooms are reused.
func (c *Channel) CreateRoom(hostID uint32, s Settings) (*Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := NewRoom(c.nextRoomIDLocked(), c.serverIndex, c.index, hostID, s)
	if err != nil {
		return nil, err
	}
	c.rooms[room.ID()] = room
	return room, nil
}

// Room returns the room with the given id.
func (c *Channel) Room(id uint16) (*Room, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	room, ok := c.rooms[id]
	return room, ok
}

// Rooms returns a snapshot of all rooms ordered by id.
func (c *Channel) Rooms() []*Room {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]*Room, 0, len(c.rooms))
	for _, room := range c.rooms {
		result = append(result, room)
	}
	slices.SortFunc(result, func(a, b *Room) int {
		return int(a.ID()) - int(b.ID())
	})
	return result
}

// RoomCount returns the number of open rooms.
func (c *Channel) RoomCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rooms)
}

// RemoveRoom drops the room from the channel, freeing its id for reuse.
func (c *Channel) RemoveRoom(id uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, id)
}

// nextRoomIDLocked scans from 1 for the lowest id not in use.
func (c *Channel) nextRoomIDLocked() uint16 {
	for id := uint16(1); ; id++ {
		if _, ok := c.rooms[id]; !ok {
			return id
		}
	}
}
