package models

import "gorm.io/gorm"

// Character 角色定義（狼人、守衛、預言家、村民…），屬於靜態參考資料。
// IsGood 不可加 default 標籤，否則 gorm 建立時會把 false 換成預設值。
type Character struct {
	gorm.Model
	Name   string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	IsGood bool   `gorm:"not null" json:"is_good"`
}
