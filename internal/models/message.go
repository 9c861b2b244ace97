package models

import (
	"time"

	"gorm.io/gorm"
)

// 遊戲事件類型
const (
	EventSessionCreated   = "session_created"
	EventNightResolved    = "night_resolved"
	EventPlayerKilled     = "player_killed"
	EventPlayerSpared     = "player_spared"
	EventPlayerEliminated = "player_eliminated"
	EventNoElimination    = "no_elimination"
	EventGameOver         = "game_over"
	EventRolesAssigned    = "roles_assigned"
)

// GameEvent 公開的遊戲事件紀錄，會存入資料庫並廣播到房間
type GameEvent struct {
	gorm.Model
	RoomID    uint      `gorm:"not null;index" json:"room_id"`
	SessionID uint      `gorm:"index" json:"session_id"`
	Round     int       `json:"round"`
	Type      string    `gorm:"type:varchar(50)" json:"type"`
	Content   string    `gorm:"type:text" json:"content"`
	PlayerID  *uint     `json:"player_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Message WebSocket 傳送的消息結構
type Message struct {
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	RoomID    uint      `json:"room_id"`
	UserID    uint      `json:"user_id,omitempty"`
	SessionID uint      `json:"session_id,omitempty"`
	Round     int       `json:"round,omitempty"`
	PlayerID  *uint     `json:"player_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEventMessage 由遊戲事件建立廣播消息
func NewEventMessage(e *GameEvent) Message {
	return Message{
		Type:      e.Type,
		Content:   e.Content,
		RoomID:    e.RoomID,
		SessionID: e.SessionID,
		Round:     e.Round,
		PlayerID:  e.PlayerID,
		Timestamp: e.Timestamp,
	}
}

// 消息類型
const (
	MessageTypeSystem = "system_message"
	MessageTypeChat   = "chat"
)

// NewSystemMessage 創建一個新的系統消息
func NewSystemMessage(roomID uint, content string) Message {
	return Message{
		Type:      MessageTypeSystem,
		Content:   content,
		RoomID:    roomID,
		Timestamp: time.Now(),
	}
}
