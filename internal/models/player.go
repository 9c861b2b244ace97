package models

import (
	"gorm.io/gorm"

	"wolfs_web/internal/game"
)

// Player 用戶在某個房間中的席位；同一房間內每位用戶只有一個 Player
type Player struct {
	gorm.Model
	UserID      uint      `gorm:"not null;uniqueIndex:idx_player_room_user" json:"user_id"`
	RoomID      uint      `gorm:"not null;uniqueIndex:idx_player_room_user" json:"room_id"`
	CharacterID uint      `gorm:"not null" json:"character_id"`
	IsAlive     bool      `gorm:"not null;default:true" json:"is_alive"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	Character   Character `gorm:"foreignKey:CharacterID" json:"-"`
}

// GamePlayer 轉換成回合引擎使用的玩家，需預載 User 與 Character
func (p Player) GamePlayer() game.Player {
	return game.Player{
		ID:      game.PlayerID(p.ID),
		UserID:  p.UserID,
		Name:    p.User.Username,
		Role:    game.Role(p.Character.Name),
		IsGood:  p.Character.IsGood,
		IsAlive: p.IsAlive,
	}
}
