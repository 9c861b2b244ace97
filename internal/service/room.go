package service

import (
	"errors"
	"fmt"
	"log"

	"wolfs_web/internal/game"
	"wolfs_web/internal/models"
	"wolfs_web/internal/repository"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrNotRoomAdmin      = errors.New("only the room admin can do this")
	ErrNotRoomMember     = errors.New("user is not a member of the room")
	ErrCharacterNotFound = errors.New("character not found")
	ErrEmptyRoom         = errors.New("room has no members")
	ErrAdminCannotLeave  = errors.New("admin cannot leave the room")
	ErrIncompleteMapping = errors.New("every member needs a character")
	ErrGameInProgress    = errors.New("room has a game in progress")
)

// Member 房間成員
type Member struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Room 代表一個遊戲房間
type Room struct {
	ID      uint     `json:"id"`
	Name    string   `json:"name"`
	AdminID uint     `json:"admin_id"`
	Members []Member `json:"members"`
}

// SeatedPlayer 角色分配後的玩家，只回傳給房間管理員
type SeatedPlayer struct {
	PlayerID  uint   `json:"player_id"`
	UserID    uint   `json:"user_id"`
	Character string `json:"character"`
	IsGood    bool   `json:"is_good"`
}

// RoomService 處理房間、成員與角色分配
type RoomService struct {
	roomRepo      repository.RoomRepository
	userRepo      repository.UserRepository
	characterRepo repository.CharacterRepository
	playerRepo    repository.PlayerRepository
	gameRepo      repository.GameRepository
	wsManager     Broadcaster
}

// NewRoomService 創建房間服務實例
func NewRoomService(roomRepo repository.RoomRepository, userRepo repository.UserRepository, characterRepo repository.CharacterRepository, playerRepo repository.PlayerRepository, gameRepo repository.GameRepository, wsManager Broadcaster) *RoomService {
	return &RoomService{
		roomRepo:      roomRepo,
		userRepo:      userRepo,
		characterRepo: characterRepo,
		playerRepo:    playerRepo,
		gameRepo:      gameRepo,
		wsManager:     wsManager,
	}
}

func (s *RoomService) findRoom(roomID uint) (*models.Room, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrRoomNotFound, roomID)
	}
	return room, err
}

// GetRoom 根據 ID 獲取房間與成員
func (s *RoomService) GetRoom(roomID uint) (*Room, error) {
	room, err := s.findRoom(roomID)
	if err != nil {
		return nil, err
	}
	return s.convertModelToRoom(room), nil
}

// ListRooms 獲取所有房間
func (s *RoomService) ListRooms() ([]*Room, error) {
	rooms, err := s.roomRepo.FindAll()
	if err != nil {
		return nil, err
	}
	out := make([]*Room, 0, len(rooms))
	for i := range rooms {
		out = append(out, s.convertModelToRoom(&rooms[i]))
	}
	return out, nil
}

// CreateRoom 建立房間，建立者成為管理員並自動加入成員
func (s *RoomService) CreateRoom(adminID uint, name string, memberIDs []uint) (*Room, error) {
	ids := appendUnique([]uint{adminID}, memberIDs...)
	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(users) != len(ids) {
		return nil, ErrUserNotFound
	}

	room := &models.Room{
		Name:    name,
		AdminID: adminID,
		Members: users,
	}
	if err := s.roomRepo.Create(room); err != nil {
		return nil, err
	}
	return s.convertModelToRoom(room), nil
}

// RequireAdmin 確認用戶是房間管理員
func (s *RoomService) RequireAdmin(roomID, userID uint) error {
	room, err := s.findRoom(roomID)
	if err != nil {
		return err
	}
	if room.AdminID != userID {
		return ErrNotRoomAdmin
	}
	return nil
}

// RequireMember 確認用戶是房間成員
func (s *RoomService) RequireMember(roomID, userID uint) error {
	room, err := s.findRoom(roomID)
	if err != nil {
		return err
	}
	if !room.IsMember(userID) {
		return ErrNotRoomMember
	}
	return nil
}

// AddMembers 管理員邀請用戶加入房間，已是成員的用戶會被略過
func (s *RoomService) AddMembers(roomID, actorID uint, userIDs []uint) (*Room, error) {
	room, err := s.findRoom(roomID)
	if err != nil {
		return nil, err
	}
	if room.AdminID != actorID {
		return nil, ErrNotRoomAdmin
	}

	var newIDs []uint
	for _, id := range appendUnique(nil, userIDs...) {
		if !room.IsMember(id) {
			newIDs = append(newIDs, id)
		}
	}
	users, err := s.userRepo.FindByIDs(newIDs)
	if err != nil {
		return nil, err
	}
	if len(users) != len(newIDs) {
		return nil, ErrUserNotFound
	}
	if err := s.roomRepo.AddMembers(room, users); err != nil {
		return nil, err
	}

	for _, u := range users {
		s.wsManager.BroadcastSystemMessage(roomID, fmt.Sprintf("%s joined the room", u.Username))
	}
	return s.GetRoom(roomID)
}

// RemoveMember 管理員可以移除任何成員；一般成員只能移除自己
func (s *RoomService) RemoveMember(roomID, actorID, userID uint) error {
	room, err := s.findRoom(roomID)
	if err != nil {
		return err
	}
	if actorID != userID && room.AdminID != actorID {
		return ErrNotRoomAdmin
	}
	if userID == room.AdminID {
		return ErrAdminCannotLeave
	}
	if !room.IsMember(userID) {
		return ErrNotRoomMember
	}

	user := models.User{}
	user.ID = userID
	if err := s.roomRepo.RemoveMember(room, &user); err != nil {
		return err
	}
	s.wsManager.BroadcastSystemMessage(roomID, fmt.Sprintf("user %d left the room", userID))
	return nil
}

// DeleteRoom 刪除房間，僅限管理員
func (s *RoomService) DeleteRoom(roomID, actorID uint) error {
	if err := s.RequireAdmin(roomID, actorID); err != nil {
		return err
	}
	return s.roomRepo.Delete(roomID)
}

// ListCharacters 獲取角色表
func (s *RoomService) ListCharacters() ([]models.Character, error) {
	return s.characterRepo.FindAll()
}

// AssignRoles 為房間成員分配角色。
// mapping 不為空時依照管理員指定的 用戶 -> 角色 分配；
// 否則由 deck（角色 ID，可重複）或整個角色表洗牌後隨機分配。
// 房間有進行中的遊戲時回傳 ErrGameInProgress。
func (s *RoomService) AssignRoles(roomID, actorID uint, mapping map[uint]uint, deck []uint) ([]SeatedPlayer, error) {
	room, err := s.findRoom(roomID)
	if err != nil {
		return nil, err
	}
	if room.AdminID != actorID {
		return nil, ErrNotRoomAdmin
	}
	if len(room.Members) == 0 {
		return nil, ErrEmptyRoom
	}
	active, err := s.gameRepo.HasActiveSession(roomID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, fmt.Errorf("%w: room %d", ErrGameInProgress, roomID)
	}

	var assignments []repository.PlayerAssignment
	if len(mapping) > 0 {
		assignments, err = s.explicitAssignments(room, mapping)
	} else {
		assignments, err = s.randomAssignments(room, deck)
	}
	if err != nil {
		return nil, err
	}

	players, err := s.playerRepo.Assign(roomID, assignments)
	if err != nil {
		return nil, err
	}

	characters, err := s.characterRepo.FindAll()
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Character, len(characters))
	for _, c := range characters {
		byID[c.ID] = c
	}

	seated := make([]SeatedPlayer, 0, len(players))
	for _, p := range players {
		c := byID[p.CharacterID]
		seated = append(seated, SeatedPlayer{PlayerID: p.ID, UserID: p.UserID, Character: c.Name, IsGood: c.IsGood})
	}

	log.Printf("room %d: assigned roles to %d members", roomID, len(seated))
	s.wsManager.BroadcastSystemMessage(roomID, "Roles have been assigned")
	return seated, nil
}

func (s *RoomService) explicitAssignments(room *models.Room, mapping map[uint]uint) ([]repository.PlayerAssignment, error) {
	if len(mapping) != len(room.Members) {
		return nil, ErrIncompleteMapping
	}
	characterIDs := make([]uint, 0, len(mapping))
	for userID, characterID := range mapping {
		if !room.IsMember(userID) {
			return nil, fmt.Errorf("%w: %d", ErrNotRoomMember, userID)
		}
		characterIDs = append(characterIDs, characterID)
	}
	characters, err := s.characterRepo.FindByIDs(appendUnique(nil, characterIDs...))
	if err != nil {
		return nil, err
	}
	if len(characters) != len(appendUnique(nil, characterIDs...)) {
		return nil, ErrCharacterNotFound
	}

	assignments := make([]repository.PlayerAssignment, 0, len(room.Members))
	for _, m := range room.Members {
		assignments = append(assignments, repository.PlayerAssignment{UserID: m.ID, CharacterID: mapping[m.ID]})
	}
	return assignments, nil
}

func (s *RoomService) randomAssignments(room *models.Room, deckIDs []uint) ([]repository.PlayerAssignment, error) {
	roster, err := s.characterRepo.FindAll()
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]game.Character, len(roster))
	pool := make([]game.Character, 0, len(roster))
	for _, c := range roster {
		gc := game.Character{ID: c.ID, Name: c.Name, IsGood: c.IsGood}
		byID[c.ID] = gc
		pool = append(pool, gc)
	}

	var deck []game.Character
	if len(deckIDs) > 0 {
		for _, id := range deckIDs {
			c, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("%w: %d", ErrCharacterNotFound, id)
			}
			deck = append(deck, c)
		}
	} else {
		deck = game.BuildDeck(pool, len(room.Members))
	}

	members := make([]uint, 0, len(room.Members))
	for _, m := range room.Members {
		members = append(members, m.ID)
	}
	picked, err := game.AssignRoles(members, deck, nil)
	if err != nil {
		return nil, err
	}

	assignments := make([]repository.PlayerAssignment, 0, len(picked))
	for _, a := range picked {
		assignments = append(assignments, repository.PlayerAssignment{UserID: a.UserID, CharacterID: a.Character.ID})
	}
	return assignments, nil
}

func (s *RoomService) convertModelToRoom(model *models.Room) *Room {
	room := &Room{
		ID:      model.ID,
		Name:    model.Name,
		AdminID: model.AdminID,
		Members: make([]Member, 0, len(model.Members)),
	}
	for _, m := range model.Members {
		room.Members = append(room.Members, Member{ID: m.ID, Username: m.Username})
	}
	return room
}

func appendUnique(dst []uint, ids ...uint) []uint {
	seen := make(map[uint]bool, len(dst)+len(ids))
	for _, id := range dst {
		seen[id] = true
	}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			dst = append(dst, id)
		}
	}
	return dst
}
