package master

// Dialog string ids understood by the client. The client maps each id to a
// localized message box or system chat line; the ids travel as plain strings
// in Reply packets and must match the client's resource table.
const (
	// Login failures
	GameLoginBadUsername     = "GAME_LOGIN_BAD_UID"
	GameLoginBadPassword     = "GAME_LOGIN_BAD_PW"
	GameLoginInvalidUserInfo = "GAME_LOGIN_INVALID_USERINFO"

	// Room join failures
	GameRoomJoinFailedFull        = "GAME_ROOM_JOIN_FAILED_FULL"
	GameRoomJoinFailedBadPassword = "GAME_ROOM_JOIN_FAILED_INVALID_PASSWD"
	GameRoomJoinFailedClosed      = "GAME_ROOM_JOIN_FAILED_CLOSED"
	GameRoomNotFound              = "GAME_ROOM_NOT_FOUND"

	// In-room denials
	GameRoomLeaveDeniedCountdown = "GAME_ROOM_LEAVE_DENIED_COUNTDOWN"
	GameRoomChangeTeamFailed     = "GAME_ROOM_CHANGE_TEAM_FAILED"
	GameRoomStartFailedTeams     = "GAME_ROOM_START_FAILED_NO_ENEMY"
	GameRoomSettingsLocked       = "GAME_ROOM_SETTINGS_LOCKED"
	GameRoomBadSettings          = "GAME_ROOM_BAD_SETTINGS"

	// Upstream / lookup failures
	GameServiceUnavailable = "GAME_SVC_UNAVAILABLE"
	GameUserNotFound       = "GAME_USER_NOT_FOUND"
)
