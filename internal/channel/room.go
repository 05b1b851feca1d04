package channel

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mireadev/cso2go/internal/user"
)

// RoomStatus is the lifecycle phase of a room.
type RoomStatus uint8

const (
	// StatusWaiting - lobby phase, occupants pick teams and toggle ready
	StatusWaiting RoomStatus = iota
	// StatusCountdown - host is counting down to match start
	StatusCountdown
	// StatusIngame - match running on the host's machine
	StatusIngame
	// StatusResult - match over, result window shown
	StatusResult
	// StatusClosed - room destroyed, rejects everything
	StatusClosed
)

// String returns human-readable status name
func (s RoomStatus) String() string {
	switch s {
	case StatusWaiting:
		return "WAITING"
	case StatusCountdown:
		return "COUNTDOWN"
	case StatusIngame:
		return "INGAME"
	case StatusResult:
		return "RESULT"
	case StatusClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Team is a match side. Wire values are fixed by the client.
type Team uint8

const (
	// TeamTerror - attacking side
	TeamTerror Team = 1
	// TeamCounter - defending side
	TeamCounter Team = 2
)

// String returns human-readable team name
func (t Team) String() string {
	switch t {
	case TeamTerror:
		return "TERROR"
	case TeamCounter:
		return "COUNTER"
	default:
		return "UNKNOWN"
	}
}

// ReadyState is an occupant's readiness within the room lifecycle.
type ReadyState uint8

const (
	// NotReady - occupant is in the lobby, not committed
	NotReady ReadyState = iota
	// Ready - occupant committed to the next match
	Ready
	// ReadyIngame - occupant is playing the current match
	ReadyIngame
)

// String returns human-readable ready state name
func (r ReadyState) String() string {
	switch r {
	case NotReady:
		return "NOT_READY"
	case Ready:
		return "READY"
	case ReadyIngame:
		return "INGAME"
	default:
		return "UNKNOWN"
	}
}

// CountdownMax is the highest countdown tick a host may announce.
const CountdownMax = 7

var (
	// ErrRoomFull - no free slot left.
	ErrRoomFull = errors.New("room is full")
	// ErrRoomClosed - the room no longer accepts operations.
	ErrRoomClosed = errors.New("room is closed")
	// ErrBadPassword - join password did not match byte for byte.
	ErrBadPassword = errors.New("wrong room password")
	// ErrAlreadyInRoom - user occupies a slot already.
	ErrAlreadyInRoom = errors.New("user already in the room")
	// ErrNotInRoom - user occupies no slot.
	ErrNotInRoom = errors.New("user is not in the room")
	// ErrNotHost - operation is reserved for the room host.
	ErrNotHost = errors.New("requester is not the room host")
	// ErrSettingsLocked - settings cannot change during countdown or ingame.
	ErrSettingsLocked = errors.New("room settings are locked")
	// ErrPlayerReady - the target player already committed to the match.
	ErrPlayerReady = errors.New("player is ready")
	// ErrLeaveDuringCountdown - a ready player cannot bail out mid-countdown.
	ErrLeaveDuringCountdown = errors.New("cannot leave while ready during countdown")
	// ErrCannotStart - start conditions not met.
	ErrCannotStart = errors.New("both teams need players")
	// ErrBadCountdown - countdown tick out of range or not decreasing.
	ErrBadCountdown = errors.New("bad countdown tick")
	// ErrWrongStatus - operation not allowed in the current room status.
	ErrWrongStatus = errors.New("operation not allowed in current room status")
)

// Slot is one occupied player position, kept in join order.
// Loadout and Cosmetics are lazily cached copies of upstream data used for
// host handoff; nil until first fetched.
type Slot struct {
	UserID    uint32
	Ready     ReadyState
	Team      Team
	Loadout   *user.Loadout
	Cosmetics *user.Cosmetics
}

// LeaveResult describes what a departure did to the room.
type LeaveResult struct {
	HostChanged bool
	NewHostID   uint32
	Closed      bool
}

// Room is a match lobby owned by a channel.
// Thread-safe: all methods acquire the internal mutex. Room methods never
// take channel or registry locks; callers sequence cross-aggregate work.
type Room struct {
	mu           sync.RWMutex
	id           uint16
	serverIndex  uint8
	channelIndex uint8
	hostID       uint32
	slots        []Slot
	status       RoomStatus
	countdown    uint8
	settings     Settings
}

// NewRoom creates a room in Waiting with the host as occupant zero on the
// terror team.
func NewRoom(id uint16, serverIdx, channelIdx uint8, hostID uint32, s Settings) (*Room, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	r := &Room{
		id:           id,
		serverIndex:  serverIdx,
		channelIndex: channelIdx,
		hostID:       hostID,
		slots:        make([]Slot, 0, s.MaxPlayers),
		status:       StatusWaiting,
		settings:     s,
	}
	r.slots = append(r.slots, Slot{UserID: hostID, Ready: NotReady, Team: TeamTerror})
	return r, nil
}

// ID returns the immutable room id.
func (r *Room) ID() uint16 {
	return r.id
}

// ServerIndex returns the owning channel server index.
func (r *Room) ServerIndex() uint8 {
	return r.serverIndex
}

// ChannelIndex returns the owning channel index.
func (r *Room) ChannelIndex() uint8 {
	return r.channelIndex
}

// HostID returns the current host's user id.
func (r *Room) HostID() uint32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hostID
}

// Status returns the current lifecycle phase.
func (r *Room) Status() RoomStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// CountdownValue returns the last recorded countdown tick.
func (r *Room) CountdownValue() uint8 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.countdown
}

// Settings returns a copy of the current settings.
func (r *Room) Settings() Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings
}

// Occupants returns a snapshot of the slots in join order.
// Safe to iterate without holding the lock.
func (r *Room) Occupants() []Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Slot, len(r.slots))
	copy(result, r.slots)
	return result
}

// OccupantCount returns the number of occupied slots.
func (r *Room) OccupantCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}

// FreeSlots returns how many more players fit.
func (r *Room) FreeSlots() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int(r.settings.MaxPlayers) - len(r.slots)
}

// IsHost checks if the user is the current room host.
func (r *Room) IsHost(userID uint32) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hostID == userID
}

// IsOccupant checks if the user occupies a slot.
func (r *Room) IsOccupant(userID uint32) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOfLocked(userID) >= 0
}

// SlotOf returns a copy of the user's slot.
func (r *Room) SlotOf(userID uint32) (Slot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.indexOfLocked(userID)
	if idx < 0 {
		return Slot{}, false
	}
	return r.slots[idx], true
}

// Join adds the user to the first free slot on the smaller team.
// The password must match the room's byte for byte; an empty room password
// means a public room.
func (r *Room) Join(userID uint32, password string) (Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status == StatusClosed {
		return Slot{}, ErrRoomClosed
	}
	if !r.settings.Public() && password != r.settings.Password {
		return Slot{}, ErrBadPassword
	}
	if r.indexOfLocked(userID) >= 0 {
		return Slot{}, ErrAlreadyInRoom
	}
	if len(r.slots) >= int(r.settings.MaxPlayers) {
		return Slot{}, ErrRoomFull
	}

	slot := Slot{UserID: userID, Ready: NotReady, Team: r.smallerTeamLocked()}
	r.slots = append(r.slots, slot)
	return slot, nil
}

// Leave removes the user on their own request. A ready player cannot leave
// while the room is counting down.
// The first remaining occupant inherits the host seat; an emptied room
// transitions to Closed.
func (r *Room) Leave(userID uint32) (LeaveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOfLocked(userID)
	if idx < 0 {
		return LeaveResult{}, ErrNotInRoom
	}
	if r.status == StatusCountdown && r.slots[idx].Ready == Ready {
		return LeaveResult{}, ErrLeaveDuringCountdown
	}
	return r.removeLocked(idx), nil
}

// Evict removes the user unconditionally. Used when the underlying
// connection died; countdown denial does not apply to a dead socket.
func (r *Room) Evict(userID uint32) (LeaveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOfLocked(userID)
	if idx < 0 {
		return LeaveResult{}, ErrNotInRoom
	}
	return r.removeLocked(idx), nil
}

// ToggleReady flips the user between NotReady and Ready. Only meaningful
// while the room waits in the lobby.
func (r *Room) ToggleReady(userID uint32) (ReadyState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusWaiting {
		return NotReady, fmt.Errorf("%w: %s", ErrWrongStatus, r.status)
	}
	idx := r.indexOfLocked(userID)
	if idx < 0 {
		return NotReady, ErrNotInRoom
	}

	if r.slots[idx].Ready == Ready {
		r.slots[idx].Ready = NotReady
	} else {
		r.slots[idx].Ready = Ready
	}
	return r.slots[idx].Ready, nil
}

// UpdateSettings patches the room settings with the request's named fields.
// Host only; denied while the room is in Countdown or Ingame.
func (r *Room) UpdateSettings(userID uint32, u SettingsUpdate) (Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostID != userID {
		return Settings{}, ErrNotHost
	}
	if r.status == StatusCountdown || r.status == StatusIngame {
		return Settings{}, fmt.Errorf("%w: %s", ErrSettingsLocked, r.status)
	}

	next, err := r.settings.apply(u)
	if err != nil {
		return Settings{}, err
	}
	if int(next.MaxPlayers) < len(r.slots) {
		return Settings{}, fmt.Errorf("%w: max players %d below current occupancy %d",
			ErrBadSettings, next.MaxPlayers, len(r.slots))
	}

	r.settings = next
	return next, nil
}

// SetTeam moves the target player to the given team. Players move
// themselves; the host may move others, and is the only one allowed to
// move anyone when bots are enabled. Ready players cannot switch.
func (r *Room) SetTeam(requesterID, targetID uint32, team Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOfLocked(requesterID) < 0 {
		return ErrNotInRoom
	}
	if targetID != requesterID && requesterID != r.hostID {
		return ErrNotHost
	}
	if r.settings.BotsEnabled && requesterID != r.hostID {
		return ErrNotHost
	}

	idx := r.indexOfLocked(targetID)
	if idx < 0 {
		return ErrNotInRoom
	}
	if r.slots[idx].Ready != NotReady {
		return ErrPlayerReady
	}

	r.slots[idx].Team = team
	return nil
}

// CanStartGame reports whether a match may start: both teams hold at least
// one player, or bots fill the gaps.
func (r *Room) CanStartGame() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.canStartLocked()
}

// ProgressCountdown records one host countdown tick. The first tick moves
// the room from Waiting to Countdown; later ticks must strictly decrease
// toward zero.
func (r *Room) ProgressCountdown(userID uint32, count uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostID != userID {
		return ErrNotHost
	}
	if count > CountdownMax {
		return fmt.Errorf("%w: %d exceeds %d", ErrBadCountdown, count, CountdownMax)
	}

	switch r.status {
	case StatusWaiting:
		if !r.canStartLocked() {
			return ErrCannotStart
		}
		r.status = StatusCountdown
		r.countdown = count
	case StatusCountdown:
		if count >= r.countdown {
			return fmt.Errorf("%w: %d does not decrease %d", ErrBadCountdown, count, r.countdown)
		}
		r.countdown = count
	default:
		return fmt.Errorf("%w: %s", ErrWrongStatus, r.status)
	}
	return nil
}

// StopCountdown aborts the countdown and returns the room to Waiting.
func (r *Room) StopCountdown(userID uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostID != userID {
		return ErrNotHost
	}
	if r.status != StatusCountdown {
		return fmt.Errorf("%w: %s", ErrWrongStatus, r.status)
	}

	r.status = StatusWaiting
	r.countdown = 0
	return nil
}

// StartGame moves the room into the match. The host fires it at the end of
// the countdown; any other occupant fires it to join a match already in
// progress, reported through joinInProgress.
func (r *Room) StartGame(userID uint32) (joinInProgress bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if userID == r.hostID {
		if r.status != StatusCountdown {
			return false, fmt.Errorf("%w: %s", ErrWrongStatus, r.status)
		}
		r.status = StatusIngame
		for i := range r.slots {
			if r.slots[i].Ready == Ready || r.slots[i].UserID == r.hostID {
				r.slots[i].Ready = ReadyIngame
			}
		}
		return false, nil
	}

	idx := r.indexOfLocked(userID)
	if idx < 0 {
		return false, ErrNotInRoom
	}
	if r.status != StatusIngame {
		return false, fmt.Errorf("%w: %s", ErrWrongStatus, r.status)
	}
	r.slots[idx].Ready = ReadyIngame
	return true, nil
}

// EndGame records the host's match end and shows the result window.
func (r *Room) EndGame(userID uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostID != userID {
		return ErrNotHost
	}
	if r.status != StatusIngame {
		return fmt.Errorf("%w: %s", ErrWrongStatus, r.status)
	}

	r.status = StatusResult
	return nil
}

// CloseResultWindow clears the requester's ingame mark. When the last
// ingame occupant closes the window the room returns to Waiting.
func (r *Room) CloseResultWindow(userID uint32) (backToWaiting bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOfLocked(userID)
	if idx < 0 {
		return false, ErrNotInRoom
	}

	if r.slots[idx].Ready == ReadyIngame {
		r.slots[idx].Ready = NotReady
	}
	if r.status != StatusResult {
		return false, nil
	}
	for _, s := range r.slots {
		if s.Ready == ReadyIngame {
			return false, nil
		}
	}
	r.status = StatusWaiting
	r.countdown = 0
	return true, nil
}

// CacheLoadout stores a copy of the user's loadout in their slot.
func (r *Room) CacheLoadout(userID uint32, l user.Loadout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOfLocked(userID)
	if idx < 0 {
		return ErrNotInRoom
	}
	r.slots[idx].Loadout = &l
	return nil
}

// CacheCosmetics stores a copy of the user's cosmetics in their slot.
func (r *Room) CacheCosmetics(userID uint32, c user.Cosmetics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOfLocked(userID)
	if idx < 0 {
		return ErrNotInRoom
	}
	r.slots[idx].Cosmetics = &c
	return nil
}

func (r *Room) indexOfLocked(userID uint32) int {
	for i, s := range r.slots {
		if s.UserID == userID {
			return i
		}
	}
	return -1
}

func (r *Room) removeLocked(idx int) LeaveResult {
	left := r.slots[idx].UserID
	// Ordered removal keeps join order for host migration.
	r.slots = append(r.slots[:idx], r.slots[idx+1:]...)

	var res LeaveResult
	if left == r.hostID {
		if len(r.slots) > 0 {
			r.hostID = r.slots[0].UserID
			res.HostChanged = true
			res.NewHostID = r.hostID
		}
	}
	if len(r.slots) == 0 {
		r.status = StatusClosed
		res.Closed = true
	}
	return res
}

func (r *Room) smallerTeamLocked() Team {
	var terror, counter int
	for _, s := range r.slots {
		switch s.Team {
		case TeamTerror:
			terror++
		case TeamCounter:
			counter++
		}
	}
	if terror <= counter {
		return TeamTerror
	}
	return TeamCounter
}

func (r *Room) canStartLocked() bool {
	if r.settings.BotsEnabled {
		return true
	}
	var terror, counter int
	for _, s := range r.slots {
		switch s.Team {
		case TeamTerror:
			terror++
		case TeamCounter:
			counter++
		}
	}
	return terror > 0 && counter > 0
}
