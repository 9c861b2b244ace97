package repository

import "wolfs_web/internal/storage"

type Repositories struct {
	User      UserRepository
	Room      RoomRepository
	Character CharacterRepository
	Player    PlayerRepository
	Game      GameRepository
	Event     EventRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Room:      NewRoomRepository(db),
		Character: NewCharacterRepository(db),
		Player:    NewPlayerRepository(db),
		Game:      NewGameRepository(db),
		Event:     NewEventRepository(db),
	}
}
