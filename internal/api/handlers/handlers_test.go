package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"wolfs_web/internal/game"
	"wolfs_web/internal/middleware"
	"wolfs_web/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("load: %w", game.ErrSessionNotFound), http.StatusNotFound},
		{game.ErrPlayerNotFound, http.StatusNotFound},
		{service.ErrRoomNotFound, http.StatusNotFound},
		{service.ErrNotRoomAdmin, http.StatusForbidden},
		{fmt.Errorf("night action: %w", game.ErrActionByDeadPlayer), http.StatusForbidden},
		{game.ErrInvalidActionForRole, http.StatusForbidden},
		{game.ErrWrongPhase, http.StatusConflict},
		{game.ErrGameOver, http.StatusConflict},
		{service.ErrUsernameTaken, http.StatusConflict},
		{fmt.Errorf("%w: room 3", service.ErrGameInProgress), http.StatusConflict},
		{game.ErrDegenerateSession, http.StatusBadRequest},
		{game.ErrTargetNotAlive, http.StatusBadRequest},
		{game.ErrNotEnoughCharacters, http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.err))
		})
	}
}

func withUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	auth := NewAuthHandler(nil)
	rooms := NewRoomHandler(nil)
	games := NewGameHandler(nil, nil)

	r.POST("/register", auth.Register)
	r.POST("/login", auth.Login)
	r.GET("/rooms/:id", rooms.GetRoom)
	r.POST("/anon/rooms", rooms.CreateRoom)
	r.POST("/rooms", withUser(1), rooms.CreateRoom)
	r.POST("/rooms/:id/members", withUser(1), rooms.AddMembers)
	r.GET("/sessions/:sessionId", withUser(1), games.GetSession)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"register without password", http.MethodPost, "/register", `{"username":"alice"}`, http.StatusBadRequest},
		{"register short password", http.MethodPost, "/register", `{"username":"alice","password":"123"}`, http.StatusBadRequest},
		{"login malformed", http.MethodPost, "/login", `{`, http.StatusBadRequest},
		{"room id not a number", http.MethodGet, "/rooms/abc", "", http.StatusBadRequest},
		{"room id zero", http.MethodGet, "/rooms/0", "", http.StatusBadRequest},
		{"create room unauthenticated", http.MethodPost, "/anon/rooms", `{"name":"x"}`, http.StatusUnauthorized},
		{"create room without name", http.MethodPost, "/rooms", `{}`, http.StatusBadRequest},
		{"add members empty", http.MethodPost, "/rooms/1/members", `{"user_ids":[]}`, http.StatusBadRequest},
		{"session id not a number", http.MethodGet, "/sessions/x", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}
