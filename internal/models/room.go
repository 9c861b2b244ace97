package models

import (
	"gorm.io/gorm"
)

// Room 表示一個遊戲房間，由管理員建立並邀請成員
type Room struct {
	gorm.Model
	Name    string `gorm:"not null" json:"name"`
	AdminID uint   `gorm:"not null;index" json:"admin_id"`
	Admin   User   `gorm:"foreignKey:AdminID" json:"-"`
	Members []User `gorm:"many2many:room_members;" json:"members"`
}

// IsMember 判斷用戶是否為房間成員
func (r *Room) IsMember(userID uint) bool {
	for _, m := range r.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
