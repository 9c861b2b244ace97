package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wolfs_web/internal/models"
)

func TestBroadcastToRoomOnlyReachesThatRoom(t *testing.T) {
	m := NewWebSocketManager()
	inRoom := &Client{RoomID: 1, UserID: 1, SendChan: make(chan *models.Message, 1)}
	elsewhere := &Client{RoomID: 2, UserID: 2, SendChan: make(chan *models.Message, 1)}
	m.addClient(inRoom)
	m.addClient(elsewhere)

	m.BroadcastSystemMessage(1, "night falls")

	select {
	case msg := <-inRoom.SendChan:
		assert.Equal(t, "night falls", msg.Content)
		assert.Equal(t, models.MessageTypeSystem, msg.Type)
	default:
		t.Fatal("client in room 1 got nothing")
	}
	assert.Empty(t, elsewhere.SendChan)
}

func TestSlowClientIsDropped(t *testing.T) {
	m := NewWebSocketManager()
	slow := &Client{RoomID: 1, UserID: 1, SendChan: make(chan *models.Message, 1)}
	m.addClient(slow)

	m.BroadcastSystemMessage(1, "first")
	m.BroadcastSystemMessage(1, "second")

	assert.Equal(t, 0, m.ClientCount(1))
	// 通道已關閉，讀完緩衝後會得到 ok == false
	<-slow.SendChan
	_, ok := <-slow.SendChan
	assert.False(t, ok)
}

func TestHandleClientRelaysChat(t *testing.T) {
	m := NewWebSocketManager()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		m.HandleClient(conn, 7, 5)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var msg models.Message
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, models.MessageTypeSystem, msg.Type)
	assert.Equal(t, 1, m.ClientCount(7))

	require.NoError(t, conn.WriteJSON(map[string]string{"content": "I am not a wolf"}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, models.MessageTypeChat, msg.Type)
	assert.Equal(t, "I am not a wolf", msg.Content)
	assert.Equal(t, uint(5), msg.UserID)

	conn.Close()
	assert.Eventually(t, func() bool { return m.ClientCount(7) == 0 }, 5*time.Second, 10*time.Millisecond)
}
