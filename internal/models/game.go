package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 玩家在遊戲建立時所屬的分組
const (
	PartitionGood = "good"
	PartitionWolf = "wolf"
	PartitionNone = "" // 建立時已死亡
)

// GameSession 一個房間的一場遊戲
type GameSession struct {
	gorm.Model
	RoomID          uint                `gorm:"not null;index" json:"room_id"`
	Round           int                 `gorm:"not null;default:1" json:"round"`
	RoundActive     bool                `gorm:"not null;default:true" json:"round_active"`
	Winner          string              `gorm:"size:10" json:"winner"`
	WolfVotes       datatypes.JSON      `json:"-"` // 狼人 player id -> 提名 player id
	HealerProtectID *uint               `json:"-"`
	Players         []GameSessionPlayer `gorm:"foreignKey:GameSessionID;constraint:OnDelete:CASCADE;" json:"-"`
}

// GameSessionPlayer 遊戲建立時的玩家快照（all_players）。
// 角色、陣營與存活狀態跟著這場遊戲保存，重新分配角色不會影響進行中或已結束的遊戲。
type GameSessionPlayer struct {
	GameSessionID uint   `gorm:"primaryKey"`
	PlayerID      uint   `gorm:"primaryKey"`
	Partition     string `gorm:"size:10"`
	Role          string `gorm:"size:50;not null"`
	IsGood        bool   `gorm:"not null"`
	IsAlive       bool   `gorm:"not null"`
	Player        Player `gorm:"foreignKey:PlayerID"`
}
