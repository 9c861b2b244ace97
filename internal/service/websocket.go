package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"wolfs_web/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Broadcaster 將消息推送給房間內所有連線
type Broadcaster interface {
	BroadcastToRoom(roomID uint, message *models.Message)
	BroadcastSystemMessage(roomID uint, content string)
}

// Client 代表一個 WebSocket 客戶端連接
type Client struct {
	Conn     *websocket.Conn
	UserID   uint
	RoomID   uint
	SendChan chan *models.Message // 消息發送通道，用於異步傳送消息

	closeOnce sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.SendChan)
	})
}

// WebSocketManager 管理所有房間的 WebSocket 連接
type WebSocketManager struct {
	clients    map[uint]map[*Client]bool // roomID -> client
	clientsMux sync.RWMutex
}

// NewWebSocketManager 創建 WebSocket 管理器
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients: make(map[uint]map[*Client]bool),
	}
}

// HandleClient 接管已升級的連線，直到客戶端斷線為止
func (m *WebSocketManager) HandleClient(conn *websocket.Conn, roomID, userID uint) {
	client := &Client{
		Conn:     conn,
		UserID:   userID,
		RoomID:   roomID,
		SendChan: make(chan *models.Message, sendBufferSize),
	}

	m.addClient(client)
	m.BroadcastSystemMessage(roomID, fmt.Sprintf("user %d connected", userID))

	defer func() {
		m.removeClient(client)
		conn.Close()
	}()

	go m.writePump(client)
	m.readPump(client)
}

// readPump 讀取客戶端的聊天訊息並轉發到房間
func (m *WebSocketManager) readPump(client *Client) {
	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket unexpected close error: %v", err)
			}
			return
		}

		var incoming struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal(data, &incoming); err != nil {
			log.Printf("message parse error: %v", err)
			continue
		}
		if strings.TrimSpace(incoming.Content) == "" {
			continue
		}

		// 只允許聊天訊息，遊戲事件一律由伺服器產生
		m.BroadcastToRoom(client.RoomID, &models.Message{
			Type:      models.MessageTypeChat,
			Content:   incoming.Content,
			RoomID:    client.RoomID,
			UserID:    client.UserID,
			Timestamp: time.Now(),
		})
	}
}

// writePump 將通道中的消息寫到連線，並定時發送 ping
func (m *WebSocketManager) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.SendChan:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteJSON(message); err != nil {
				log.Printf("websocket write error: %v", err)
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// BroadcastToRoom 向房間內的所有客戶端廣播消息。
// 發送在讀鎖內進行，removeClient 在寫鎖內關閉通道，因此不會寫入已關閉的通道。
func (m *WebSocketManager) BroadcastToRoom(roomID uint, message *models.Message) {
	var slow []*Client

	m.clientsMux.RLock()
	for client := range m.clients[roomID] {
		select {
		case client.SendChan <- message:
		default:
			slow = append(slow, client)
		}
	}
	m.clientsMux.RUnlock()

	for _, client := range slow {
		log.Printf("dropping slow websocket client: room %d user %d", roomID, client.UserID)
		m.removeClient(client)
	}
}

// BroadcastSystemMessage 發送系統消息到指定房間
func (m *WebSocketManager) BroadcastSystemMessage(roomID uint, content string) {
	msg := models.NewSystemMessage(roomID, content)
	m.BroadcastToRoom(roomID, &msg)
}

func (m *WebSocketManager) addClient(client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if m.clients[client.RoomID] == nil {
		m.clients[client.RoomID] = make(map[*Client]bool)
	}
	m.clients[client.RoomID][client] = true
}

func (m *WebSocketManager) removeClient(client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if clients, ok := m.clients[client.RoomID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(m.clients, client.RoomID)
		}
	}
	client.close()
}

// ClientCount 房間目前的在線連線數
func (m *WebSocketManager) ClientCount(roomID uint) int {
	m.clientsMux.RLock()
	defer m.clientsMux.RUnlock()

	return len(m.clients[roomID])
}
