package serverpackets

import (
	"github.com/mireadev/cso2go/internal/protocol"
	"github.com/mireadev/cso2go/internal/protocol/packet"
	"github.com/mireadev/cso2go/internal/user"
)

// UserInfo field flags. The flag mask tells the client which profile fields
// follow; FullUserUpdate sets them all.
const (
	UserInfoPlayerName uint32 = 1 << iota
	UserInfoLevel
	UserInfoExp
	UserInfoPoints
	UserInfoCash
	UserInfoStats
	UserInfoAvatar
	UserInfoSignature
	UserInfoTitle
	UserInfoVipLevel
)

// UserInfoAll is the mask carried by a full profile update.
const UserInfoAll = UserInfoPlayerName | UserInfoLevel | UserInfoExp |
	UserInfoPoints | UserInfoCash | UserInfoStats | UserInfoAvatar |
	UserInfoSignature | UserInfoTitle | UserInfoVipLevel

// UserInfo pushes profile fields to the client. Fields are written in flag
// bit order; only flagged fields are present.
//
// Structure:
//   - userId (u32 LE)
//   - flags (u32 LE)
//   - playerName (PacketString)         [UserInfoPlayerName]
//   - level (u8)                        [UserInfoLevel]
//   - curExp, maxExp (u64 LE each)      [UserInfoExp]
//   - points (u64 LE)                   [UserInfoPoints]
//   - cash, mpoints (u32 LE each)       [UserInfoCash]
//   - wins, losses, kills, deaths, assists (u32 LE each) [UserInfoStats]
//   - avatar (u16 LE)                   [UserInfoAvatar]
//   - signature (PacketString)          [UserInfoSignature]
//   - title (u16 LE)                    [UserInfoTitle]
//   - vipLevel (u8)                     [UserInfoVipLevel]
type UserInfo struct {
	Flags uint32
	User  user.User
}

// NewFullUserUpdate creates a UserInfo carrying every profile field.
func NewFullUserUpdate(u user.User) UserInfo {
	return UserInfo{Flags: UserInfoAll, User: u}
}

// Write serializes the packet body.
func (p UserInfo) Write() ([]byte, error) {
	u := p.User
	w := packet.NewWriter(96 + len(u.PlayerName) + len(u.Signature))
	w.WriteUint8(uint8(protocol.PacketUserInfo))
	w.WriteUint32(u.ID)
	w.WriteUint32(p.Flags)

	if p.Flags&UserInfoPlayerName != 0 {
		w.WriteString(u.PlayerName)
	}
	if p.Flags&UserInfoLevel != 0 {
		w.WriteUint8(u.Level)
	}
	if p.Flags&UserInfoExp != 0 {
		w.WriteUint64(u.CurExp)
		w.WriteUint64(u.MaxExp)
	}
	if p.Flags&UserInfoPoints != 0 {
		w.WriteUint64(u.Points)
	}
	if p.Flags&UserInfoCash != 0 {
		w.WriteUint32(u.Cash)
		w.WriteUint32(u.MPoints)
	}
	if p.Flags&UserInfoStats != 0 {
		w.WriteUint32(u.Wins)
		w.WriteUint32(u.Losses)
		w.WriteUint32(u.Kills)
		w.WriteUint32(u.Deaths)
		w.WriteUint32(u.Assists)
	}
	if p.Flags&UserInfoAvatar != 0 {
		w.WriteUint16(u.Avatar)
	}
	if p.Flags&UserInfoSignature != 0 {
		w.WriteString(u.Signature)
	}
	if p.Flags&UserInfoTitle != 0 {
		w.WriteUint16(u.Title)
	}
	if p.Flags&UserInfoVipLevel != 0 {
		w.WriteUint8(u.VipLevel)
	}
	return w.Bytes()
}
