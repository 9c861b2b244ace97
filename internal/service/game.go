package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"wolfs_web/internal/game"
	"wolfs_web/internal/models"
	"wolfs_web/internal/repository"
)

// PlayerView 公開的玩家資訊，不包含角色
type PlayerView struct {
	ID      game.PlayerID `json:"id"`
	UserID  uint          `json:"user_id"`
	Name    string        `json:"name"`
	IsAlive bool          `json:"is_alive"`
}

// SessionView 公開的遊戲狀態
type SessionView struct {
	ID      uint           `json:"id"`
	RoomID  uint           `json:"room_id"`
	Round   int            `json:"round"`
	Phase   game.Phase     `json:"phase"`
	Winner  game.Alignment `json:"winner,omitempty"`
	Players []PlayerView   `json:"players"`
}

// SessionSummary 房間遊戲列表的一筆資料
type SessionSummary struct {
	ID        uint           `json:"id"`
	Round     int            `json:"round"`
	Phase     game.Phase     `json:"phase"`
	Winner    game.Alignment `json:"winner,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// GameService 以「讀取 -> 執行回合引擎 -> 寫回」的方式操作遊戲。
// 同一場遊戲的操作由各自的互斥鎖串行化。
type GameService struct {
	gameRepo   repository.GameRepository
	roomRepo   repository.RoomRepository
	playerRepo repository.PlayerRepository
	eventRepo  repository.EventRepository
	cache      repository.SessionCache
	wsManager  Broadcaster

	locksMux sync.Mutex
	locks    map[uint]*sync.Mutex
}

// NewGameService 創建遊戲服務實例，cache 為 nil 時不快取
func NewGameService(gameRepo repository.GameRepository, roomRepo repository.RoomRepository, playerRepo repository.PlayerRepository, eventRepo repository.EventRepository, cache repository.SessionCache, wsManager Broadcaster) *GameService {
	if cache == nil {
		cache = repository.NewNoopSessionCache()
	}
	return &GameService{
		gameRepo:   gameRepo,
		roomRepo:   roomRepo,
		playerRepo: playerRepo,
		eventRepo:  eventRepo,
		cache:      cache,
		wsManager:  wsManager,
		locks:      make(map[uint]*sync.Mutex),
	}
}

// lock 取得遊戲的互斥鎖，回傳解鎖函式
func (s *GameService) lock(sessionID uint) func() {
	s.locksMux.Lock()
	mu, ok := s.locks[sessionID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[sessionID] = mu
	}
	s.locksMux.Unlock()

	mu.Lock()
	return mu.Unlock
}

// CreateSession 以房間目前成員的玩家建立新遊戲。
// 同一房間同時只能有一場未分出勝負的遊戲。
func (s *GameService) CreateSession(ctx context.Context, roomID uint) (*SessionView, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrRoomNotFound, roomID)
	}
	if err != nil {
		return nil, err
	}
	active, err := s.gameRepo.HasActiveSession(roomID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, fmt.Errorf("%w: room %d", ErrGameInProgress, roomID)
	}

	memberIDs := make([]uint, 0, len(room.Members))
	for _, m := range room.Members {
		memberIDs = append(memberIDs, m.ID)
	}
	var players []game.Player
	if len(memberIDs) > 0 {
		rows, err := s.playerRepo.FindByRoom(roomID, memberIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range rows {
			players = append(players, p.GamePlayer())
		}
	}

	session, err := game.NewSession(0, roomID, players)
	if err != nil {
		return nil, fmt.Errorf("create session in room %d: %w", roomID, err)
	}
	if err := s.gameRepo.Create(session); err != nil {
		return nil, err
	}
	s.storeSnapshot(ctx, session)

	log.Printf("session %d created in room %d with %d players", session.ID, roomID, len(players))
	s.recordEvent(session, models.EventSessionCreated, nil,
		fmt.Sprintf("Game started with %d players. Night %d begins", len(players), session.Round))
	return newSessionView(session), nil
}

// SubmitNightAction 提交夜晚行動。預言家查驗不改變狀態，因此不寫回。
func (s *GameService) SubmitNightAction(ctx context.Context, sessionID uint, actor game.PlayerID, kind game.ActionKind, target game.PlayerID) (game.ActionResult, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	session, err := s.gameRepo.Load(sessionID)
	if err != nil {
		return game.ActionResult{}, err
	}
	result, err := session.SubmitNightAction(actor, kind, target)
	if err != nil {
		return game.ActionResult{}, fmt.Errorf("night action in session %d: %w", sessionID, err)
	}
	if kind == game.ActionProphetQuery {
		return result, nil
	}

	if err := s.gameRepo.Save(session); err != nil {
		return game.ActionResult{}, err
	}
	s.storeSnapshot(ctx, session)
	return result, nil
}

// ResolveNight 結算夜晚並公布結果
func (s *GameService) ResolveNight(ctx context.Context, sessionID uint) (game.Resolution, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	session, err := s.gameRepo.Load(sessionID)
	if err != nil {
		return game.Resolution{}, err
	}
	res, err := session.ResolveNight()
	if err != nil {
		return game.Resolution{}, fmt.Errorf("resolve night of session %d: %w", sessionID, err)
	}
	if err := s.gameRepo.Save(session); err != nil {
		return game.Resolution{}, err
	}
	s.storeSnapshot(ctx, session)

	switch {
	case res.SurvivorSpared:
		s.recordEvent(session, models.EventPlayerSpared, &res.Target,
			fmt.Sprintf("%s was attacked but survived the night", s.playerName(session, res.Target)))
	case res.Killed != 0:
		s.recordEvent(session, models.EventPlayerKilled, &res.Killed,
			fmt.Sprintf("%s was killed during the night", s.playerName(session, res.Killed)))
	default:
		s.recordEvent(session, models.EventNightResolved, nil, "Nobody died during the night")
	}
	s.recordWinner(session)
	return res, nil
}

// SubmitDayElimination 處決白天選出的玩家，game.NoElimination 表示不處決
func (s *GameService) SubmitDayElimination(ctx context.Context, sessionID uint, selection game.PlayerID) error {
	unlock := s.lock(sessionID)
	defer unlock()

	session, err := s.gameRepo.Load(sessionID)
	if err != nil {
		return err
	}
	if err := session.SubmitDayElimination(selection); err != nil {
		return fmt.Errorf("day elimination in session %d: %w", sessionID, err)
	}
	if err := s.gameRepo.Save(session); err != nil {
		return err
	}
	s.storeSnapshot(ctx, session)

	if selection == game.NoElimination {
		s.recordEvent(session, models.EventNoElimination, nil, "The village decided not to eliminate anyone")
	} else {
		s.recordEvent(session, models.EventPlayerEliminated, &selection,
			fmt.Sprintf("%s was eliminated by the village", s.playerName(session, selection)))
	}
	s.recordWinner(session)
	return nil
}

// GetLivingPlayers 回傳目前存活的玩家 ID，依 ID 排序
func (s *GameService) GetLivingPlayers(ctx context.Context, sessionID uint) ([]game.PlayerID, error) {
	session, err := s.snapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.LivingPlayers(), nil
}

// GetRoundPhase 回傳目前的階段：夜晚行動中或等待白天處決
func (s *GameService) GetRoundPhase(ctx context.Context, sessionID uint) (game.Phase, error) {
	session, err := s.snapshot(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return session.Phase(), nil
}

// GetSession 回傳公開的遊戲狀態，不包含角色
func (s *GameService) GetSession(ctx context.Context, sessionID uint) (*SessionView, error) {
	session, err := s.snapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return newSessionView(session), nil
}

// PlayerForUser 找出用戶在這場遊戲中的玩家，包含角色
func (s *GameService) PlayerForUser(ctx context.Context, sessionID, userID uint) (game.Player, error) {
	session, err := s.snapshot(ctx, sessionID)
	if err != nil {
		return game.Player{}, err
	}
	return session.PlayerByUser(userID)
}

// NightView 用戶在夜晚的行動提示
func (s *GameService) NightView(ctx context.Context, sessionID, userID uint) (game.NightView, error) {
	session, err := s.snapshot(ctx, sessionID)
	if err != nil {
		return game.NightView{}, err
	}
	p, err := session.PlayerByUser(userID)
	if err != nil {
		return game.NightView{}, err
	}
	return session.NightView(p.ID)
}

// ListSessions 列出房間的所有遊戲，最新的在前
func (s *GameService) ListSessions(roomID uint) ([]SessionSummary, error) {
	rows, err := s.gameRepo.FindByRoom(roomID)
	if err != nil {
		return nil, err
	}
	out := make([]SessionSummary, 0, len(rows))
	for _, r := range rows {
		phase := game.PhaseDayPending
		if r.RoundActive {
			phase = game.PhaseNightActive
		}
		out = append(out, SessionSummary{
			ID:        r.ID,
			Round:     r.Round,
			Phase:     phase,
			Winner:    game.Alignment(r.Winner),
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// DeleteSession 刪除遊戲與其快取，並釋放這場遊戲的互斥鎖
func (s *GameService) DeleteSession(ctx context.Context, sessionID uint) error {
	unlock := s.lock(sessionID)
	defer unlock()

	if err := s.gameRepo.Delete(sessionID); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		log.Printf("failed to evict session %d from cache: %v", sessionID, err)
	}

	s.locksMux.Lock()
	delete(s.locks, sessionID)
	s.locksMux.Unlock()
	return nil
}

// Events 回傳遊戲的公開事件紀錄
func (s *GameService) Events(sessionID uint) ([]models.GameEvent, error) {
	return s.eventRepo.FindBySessionID(sessionID)
}

// snapshot 讀取遊戲狀態，優先使用快取
func (s *GameService) snapshot(ctx context.Context, sessionID uint) (*game.Session, error) {
	if state, ok := s.cache.Get(ctx, sessionID); ok {
		session, err := game.Restore(*state)
		if err == nil {
			return session, nil
		}
		log.Printf("discarding cached session %d: %v", sessionID, err)
	}

	session, err := s.gameRepo.Load(sessionID)
	if err != nil {
		return nil, err
	}
	s.storeSnapshot(ctx, session)
	return session, nil
}

// storeSnapshot 更新快取；寫入失敗時移除舊快照，下次讀取改由資料庫載入
func (s *GameService) storeSnapshot(ctx context.Context, session *game.Session) {
	err := s.cache.Set(ctx, session.State())
	if err == nil {
		return
	}
	log.Printf("failed to cache session %d: %v", session.ID, err)
	if err := s.cache.Delete(ctx, session.ID); err != nil {
		log.Printf("failed to evict stale session %d from cache: %v", session.ID, err)
	}
}

func (s *GameService) recordWinner(session *game.Session) {
	winner := session.Winner()
	if winner == game.AlignmentNone {
		return
	}
	content := "The village wins: every wolf is dead"
	if winner == game.AlignmentEvil {
		content = "The wolves win: they outnumber the village"
	}
	s.recordEvent(session, models.EventGameOver, nil, content)
}

// recordEvent 寫入事件紀錄並廣播；狀態已經寫回，因此紀錄失敗只記 log
func (s *GameService) recordEvent(session *game.Session, eventType string, player *game.PlayerID, content string) {
	event := &models.GameEvent{
		RoomID:    session.RoomID,
		SessionID: session.ID,
		Round:     session.Round,
		Type:      eventType,
		Content:   content,
		Timestamp: time.Now(),
	}
	if player != nil {
		id := uint(*player)
		event.PlayerID = &id
	}
	if err := s.eventRepo.Create(event); err != nil {
		log.Printf("failed to record %s event for session %d: %v", eventType, session.ID, err)
	}

	msg := models.NewEventMessage(event)
	s.wsManager.BroadcastToRoom(session.RoomID, &msg)
}

func (s *GameService) playerName(session *game.Session, id game.PlayerID) string {
	p, err := session.Player(id)
	if err != nil {
		return fmt.Sprintf("player %d", id)
	}
	return p.Name
}

func newSessionView(session *game.Session) *SessionView {
	view := &SessionView{
		ID:     session.ID,
		RoomID: session.RoomID,
		Round:  session.Round,
		Phase:  session.Phase(),
		Winner: session.Winner(),
	}
	for _, p := range session.Players() {
		view.Players = append(view.Players, PlayerView{
			ID:      p.ID,
			UserID:  p.UserID,
			Name:    p.Name,
			IsAlive: p.IsAlive,
		})
	}
	return view
}
