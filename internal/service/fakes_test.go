package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"wolfs_web/internal/game"
	"wolfs_web/internal/models"
	"wolfs_web/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newFakeUserRepo(names ...string) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, name := range names {
		u := &models.User{Username: name}
		r.Create(u)
	}
	return r
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uint(len(r.users) + 1)
	u := *user
	r.users[u.ID] = &u
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("find user: %w", repository.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("find user: %w", repository.ErrNotFound)
}

func (r *fakeUserRepo) FindByIDs(ids []uint) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeRoomRepo struct {
	mu     sync.Mutex
	rooms  map[uint]*models.Room
	nextID uint
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[uint]*models.Room)}
}

func (r *fakeRoomRepo) Create(room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	room.ID = r.nextID
	cp := *room
	cp.Members = append([]models.User(nil), room.Members...)
	r.rooms[cp.ID] = &cp
	return nil
}

func (r *fakeRoomRepo) FindByID(id uint) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, fmt.Errorf("find room: %w", repository.ErrNotFound)
	}
	cp := *room
	cp.Members = append([]models.User(nil), room.Members...)
	return &cp, nil
}

func (r *fakeRoomRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, id)
	return nil
}

func (r *fakeRoomRepo) FindAll() ([]models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Room
	for _, room := range r.rooms {
		out = append(out, *room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRoomRepo) AddMembers(room *models.Room, users []models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.rooms[room.ID]
	stored.Members = append(stored.Members, users...)
	return nil
}

func (r *fakeRoomRepo) RemoveMember(room *models.Room, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.rooms[room.ID]
	kept := stored.Members[:0]
	for _, m := range stored.Members {
		if m.ID != user.ID {
			kept = append(kept, m)
		}
	}
	stored.Members = kept
	return nil
}

type fakeCharacterRepo struct {
	characters []models.Character
}

// newFakeCharacterRepo 角色 ID：1 Wolf、2 Healer、3 Prophet、4 Villager
func newFakeCharacterRepo() *fakeCharacterRepo {
	r := &fakeCharacterRepo{}
	for i, c := range game.DefaultRoster() {
		mc := models.Character{Name: c.Name, IsGood: c.IsGood}
		mc.ID = uint(i + 1)
		r.characters = append(r.characters, mc)
	}
	return r
}

func (r *fakeCharacterRepo) FindAll() ([]models.Character, error) {
	return append([]models.Character(nil), r.characters...), nil
}

func (r *fakeCharacterRepo) FindByIDs(ids []uint) ([]models.Character, error) {
	var out []models.Character
	for _, c := range r.characters {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (r *fakeCharacterRepo) Seed([]models.Character) error { return nil }

type fakePlayerRepo struct {
	mu         sync.Mutex
	players    []*models.Player
	users      *fakeUserRepo
	characters *fakeCharacterRepo
}

func (r *fakePlayerRepo) Assign(roomID uint, assignments []repository.PlayerAssignment) ([]models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Player
	for _, a := range assignments {
		var player *models.Player
		for _, p := range r.players {
			if p.RoomID == roomID && p.UserID == a.UserID {
				player = p
			}
		}
		if player == nil {
			player = &models.Player{UserID: a.UserID, RoomID: roomID}
			player.ID = uint(len(r.players) + 1)
			r.players = append(r.players, player)
		}
		player.CharacterID = a.CharacterID
		player.IsAlive = true
		out = append(out, *player)
	}
	return out, nil
}

func (r *fakePlayerRepo) FindByRoom(roomID uint, userIDs []uint) ([]models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Player
	for _, p := range r.players {
		if p.RoomID != roomID {
			continue
		}
		for _, id := range userIDs {
			if p.UserID != id {
				continue
			}
			cp := *p
			u, _ := r.users.FindByID(p.UserID)
			cp.User = *u
			chars, _ := r.characters.FindByIDs([]uint{p.CharacterID})
			cp.Character = chars[0]
			out = append(out, cp)
		}
	}
	return out, nil
}

// setAlive 模擬 GameRepository.Save 對 players 表的寫回
func (r *fakePlayerRepo) setAlive(id uint, alive bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.ID == id {
			p.IsAlive = alive
		}
	}
}

type fakeGameRepo struct {
	mu      sync.Mutex
	states  map[uint]game.State
	nextID  uint
	saves   int
	players *fakePlayerRepo
}

func (r *fakeGameRepo) Create(s *game.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	r.states[s.ID] = s.State()
	return nil
}

func (r *fakeGameRepo) Load(id uint) (*game.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", game.ErrSessionNotFound, id)
	}
	return game.Restore(state)
}

func (r *fakeGameRepo) Save(s *game.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := s.State()
	r.states[s.ID] = state
	r.saves++
	for _, p := range state.Players {
		r.players.setAlive(uint(p.ID), p.IsAlive)
	}
	return nil
}

func (r *fakeGameRepo) FindByRoom(roomID uint) ([]models.GameSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.GameSession
	for _, st := range r.states {
		if st.RoomID != roomID {
			continue
		}
		row := models.GameSession{RoomID: st.RoomID, Round: st.Round, RoundActive: st.RoundActive, Winner: string(st.Winner)}
		row.ID = st.ID
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeGameRepo) HasActiveSession(roomID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, st := range r.states {
		if st.RoomID == roomID && st.Winner == game.AlignmentNone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeGameRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.states[id]; !ok {
		return fmt.Errorf("%w: %d", game.ErrSessionNotFound, id)
	}
	delete(r.states, id)
	return nil
}

func (r *fakeGameRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events []models.GameEvent
}

func (r *fakeEventRepo) Create(event *models.GameEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = uint(len(r.events) + 1)
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeEventRepo) FindBySessionID(sessionID uint) ([]models.GameEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.GameEvent
	for _, e := range r.events {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCache struct {
	mu      sync.Mutex
	states  map[uint]game.State
	hits    int
	failSet bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{states: make(map[uint]game.State)}
}

func (c *fakeCache) Get(_ context.Context, id uint) (*game.State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[id]
	if ok {
		c.hits++
	}
	return &st, ok
}

func (c *fakeCache) Set(_ context.Context, state game.State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSet {
		return errors.New("redis: connection pool timeout")
	}
	c.states[state.ID] = state
	return nil
}

func (c *fakeCache) setFailing(fail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failSet = fail
}

func (c *fakeCache) cached(id uint) (game.State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[id]
	return st, ok
}

func (c *fakeCache) Delete(_ context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, id)
	return nil
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []models.Message
}

func (b *fakeBroadcaster) BroadcastToRoom(_ uint, message *models.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, *message)
}

func (b *fakeBroadcaster) BroadcastSystemMessage(roomID uint, content string) {
	msg := models.NewSystemMessage(roomID, content)
	b.BroadcastToRoom(roomID, &msg)
}

func (b *fakeBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, m := range b.messages {
		out = append(out, m.Type)
	}
	return out
}

type testEnv struct {
	users      *fakeUserRepo
	rooms      *fakeRoomRepo
	characters *fakeCharacterRepo
	players    *fakePlayerRepo
	games      *fakeGameRepo
	events     *fakeEventRepo
	cache      *fakeCache
	broadcast  *fakeBroadcaster
	roomSvc    *RoomService
	gameSvc    *GameService
}

// newTestEnv 建立 alice(1)、bob(2)、carol(3)、dave(4) 四位用戶
func newTestEnv() *testEnv {
	env := &testEnv{
		users:      newFakeUserRepo("alice", "bob", "carol", "dave"),
		rooms:      newFakeRoomRepo(),
		characters: newFakeCharacterRepo(),
		events:     &fakeEventRepo{},
		cache:      newFakeCache(),
		broadcast:  &fakeBroadcaster{},
	}
	env.players = &fakePlayerRepo{users: env.users, characters: env.characters}
	env.games = &fakeGameRepo{states: make(map[uint]game.State), players: env.players}
	env.roomSvc = NewRoomService(env.rooms, env.users, env.characters, env.players, env.games, env.broadcast)
	env.gameSvc = NewGameService(env.games, env.rooms, env.players, env.events, env.cache, env.broadcast)
	return env
}
