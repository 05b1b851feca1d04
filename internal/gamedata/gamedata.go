// Package gamedata holds the recognized option sets for room settings:
// game modes, maps and limit ranges the client build understands. Values
// outside these sets are rejected before they reach a room.
package gamedata

// GameMode identifies the rule set a room runs.
type GameMode uint8

const (
	// ModeOriginal - classic bomb defusal rules
	ModeOriginal GameMode = iota
	// ModeTeamDeathmatch - team kill-count race
	ModeTeamDeathmatch
	// ModeZombie - humans versus infected
	ModeZombie
	// ModeBotZombie - zombie rules with AI humans
	ModeBotZombie
	// ModeBazookaBattle - rocket-only deathmatch
	ModeBazookaBattle
	// ModeCasual - defusal with relaxed economy
	ModeCasual
	// ModeDeathmatch - free-for-all kill-count race
	ModeDeathmatch
	// ModeDestruction - attack and defend objectives
	ModeDestruction
	// ModeGunGame - weapon ladder per kill
	ModeGunGame
)

// Valid reports whether the mode is one the client build recognizes.
func (m GameMode) Valid() bool {
	return m <= ModeGunGame
}

// String returns human-readable mode name
func (m GameMode) String() string {
	switch m {
	case ModeOriginal:
		return "ORIGINAL"
	case ModeTeamDeathmatch:
		return "TEAM_DEATHMATCH"
	case ModeZombie:
		return "ZOMBIE"
	case ModeBotZombie:
		return "BOT_ZOMBIE"
	case ModeBazookaBattle:
		return "BAZOOKA_BATTLE"
	case ModeCasual:
		return "CASUAL"
	case ModeDeathmatch:
		return "DEATHMATCH"
	case ModeDestruction:
		return "DESTRUCTION"
	case ModeGunGame:
		return "GUN_GAME"
	default:
		return "UNKNOWN"
	}
}

// MapID identifies a playable map.
type MapID uint8

// mapNames lists every map id the client build ships. Settings referencing
// ids outside this table are rejected.
var mapNames = map[MapID]string{
	0:  "de_dust",
	1:  "de_dust2",
	2:  "de_inferno",
	3:  "de_nuke",
	4:  "de_train",
	5:  "de_aztec",
	6:  "cs_office",
	7:  "cs_assault",
	8:  "cs_italy",
	9:  "cs_militia",
	10: "de_cbble",
	11: "de_prodigy",
	12: "de_chateau",
	13: "de_vertigo",
	14: "cs_havana",
	15: "de_airstrip",
	16: "de_piranesi",
	17: "cs_estate",
	18: "de_torn",
	19: "cs_compound",
	20: "de_port",
	21: "de_tides",
	22: "cs_downed",
	23: "de_boston",
}

// Valid reports whether the map id is one the client build ships.
func (m MapID) Valid() bool {
	_, ok := mapNames[m]
	return ok
}

// String returns the map file name, or UNKNOWN for unrecognized ids.
func (m MapID) String() string {
	if name, ok := mapNames[m]; ok {
		return name
	}
	return "UNKNOWN"
}

// Room Limit Constants
const (
	// KillLimitMin is the lowest kill limit the room UI offers.
	KillLimitMin = 10

	// KillLimitMax is the highest kill limit the room UI offers.
	KillLimitMax = 200

	// WinLimitMin is the lowest round win limit the room UI offers.
	WinLimitMin = 1

	// WinLimitMax is the highest round win limit the room UI offers.
	WinLimitMax = 30

	// RoomPlayersMin is the smallest allowed room capacity.
	RoomPlayersMin = 2

	// RoomPlayersMax is the largest allowed room capacity.
	RoomPlayersMax = 16
)

// ValidKillLimit reports whether n is inside the recognized kill limit range.
func ValidKillLimit(n uint8) bool {
	return n >= KillLimitMin && n <= KillLimitMax
}

// ValidWinLimit reports whether n is inside the recognized win limit range.
func ValidWinLimit(n uint8) bool {
	return n >= WinLimitMin && n <= WinLimitMax
}

// ValidMaxPlayers reports whether n is a capacity a room may be created with.
func ValidMaxPlayers(n uint8) bool {
	return n >= RoomPlayersMin && n <= RoomPlayersMax
}
