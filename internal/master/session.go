package master

import (
	"net"
	"sync"
	"time"

	"github.com/mireadev/cso2go/internal/channel"
	"github.com/mireadev/cso2go/internal/user"
)

// UserSession is the post-login state attached to a connection. The user
// record is immutable after login; channel and room references change as the
// player moves through the lobby.
type UserSession struct {
	user      user.User
	remote    net.Addr
	loginTime time.Time

	mu      sync.Mutex
	channel *channel.Channel
	room    *channel.Room

	holepunch HolepunchInfo
}

// HolepunchInfo is the endpoint the client reported for peer matchmaking.
type HolepunchInfo struct {
	LocalIP   uint32
	LocalPort uint16
}

// NewUserSession creates a session for an authenticated user.
func NewUserSession(u user.User, remote net.Addr) *UserSession {
	return &UserSession{
		user:      u,
		remote:    remote,
		loginTime: time.Now(),
	}
}

// User returns the account record captured at login.
func (s *UserSession) User() user.User {
	return s.user
}

// RemoteAddr returns the client address the session was created from.
func (s *UserSession) RemoteAddr() net.Addr {
	return s.remote
}

// LoginTime returns when the session was created.
func (s *UserSession) LoginTime() time.Time {
	return s.loginTime
}

// Channel returns the channel the user currently sits in, nil when none.
func (s *UserSession) Channel() *channel.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel
}

// SetChannel moves the session to a channel (nil leaves all channels).
func (s *UserSession) SetChannel(ch *channel.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel = ch
}

// Room returns the room the user currently occupies, nil when none.
func (s *UserSession) Room() *channel.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

// SetRoom records room membership. A user occupies at most one room; callers
// vacate the previous room before setting a new one.
func (s *UserSession) SetRoom(r *channel.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room = r
}

// ClearRoom drops room membership.
func (s *UserSession) ClearRoom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room = nil
}

// Holepunch returns the endpoint the client reported over TCP.
func (s *UserSession) Holepunch() HolepunchInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holepunch
}

// SetHolepunch stores the client-reported endpoint.
func (s *UserSession) SetHolepunch(info HolepunchInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holepunch = info
}
