package game

// PlayerID 對應資料庫中 players 表的主鍵
type PlayerID uint

// NoElimination 白天投票「不處決任何人」
const NoElimination PlayerID = 0

// Player 某位使用者在某個房間中的席位
type Player struct {
	ID      PlayerID
	UserID  uint
	Name    string
	Role    Role
	IsGood  bool
	IsAlive bool
}

// Alignment 陣營
type Alignment string

const (
	AlignmentNone Alignment = ""
	AlignmentGood Alignment = "good"
	AlignmentEvil Alignment = "evil"
)

func (p Player) alignment() Alignment {
	if p.IsGood {
		return AlignmentGood
	}
	return AlignmentEvil
}
