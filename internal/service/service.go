package service

import (
	"wolfs_web/internal/repository"
)

type Services struct {
	UserService      *UserService
	RoomService      *RoomService
	GameService      *GameService
	WebSocketManager *WebSocketManager
}

func NewServices(repos *repository.Repositories, cache repository.SessionCache) *Services {
	wsManager := NewWebSocketManager()

	userService := NewUserService(repos.User)
	roomService := NewRoomService(repos.Room, repos.User, repos.Character, repos.Player, repos.Game, wsManager)
	gameService := NewGameService(repos.Game, repos.Room, repos.Player, repos.Event, cache, wsManager)
	return &Services{
		UserService:      userService,
		RoomService:      roomService,
		GameService:      gameService,
		WebSocketManager: wsManager,
	}
}
