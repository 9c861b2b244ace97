package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wolfs_web/internal/game"
	"wolfs_web/internal/service"
)

// GameHandler 處理遊戲場次與回合操作
type GameHandler struct {
	gameService *service.GameService
	roomService *service.RoomService
}

func NewGameHandler(gameService *service.GameService, roomService *service.RoomService) *GameHandler {
	return &GameHandler{gameService: gameService, roomService: roomService}
}

// CreateSession 房間管理員以目前成員開始新遊戲
func (h *GameHandler) CreateSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.roomService.RequireAdmin(roomID, userID); err != nil {
		respondError(c, err)
		return
	}

	session, err := h.gameService.CreateSession(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *GameHandler) ListSessions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.roomService.RequireMember(roomID, userID); err != nil {
		respondError(c, err)
		return
	}

	sessions, err := h.gameService.ListSessions(roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// loadSession 讀取遊戲並確認呼叫者是房間成員；adminOnly 時需為管理員
func (h *GameHandler) loadSession(c *gin.Context, adminOnly bool) (*service.SessionView, uint, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, 0, false
	}
	sessionID, ok := paramID(c, "sessionId")
	if !ok {
		return nil, 0, false
	}
	session, err := h.gameService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return nil, 0, false
	}

	if adminOnly {
		err = h.roomService.RequireAdmin(session.RoomID, userID)
	} else {
		err = h.roomService.RequireMember(session.RoomID, userID)
	}
	if err != nil {
		respondError(c, err)
		return nil, 0, false
	}
	return session, userID, true
}

func (h *GameHandler) GetSession(c *gin.Context) {
	session, _, ok := h.loadSession(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *GameHandler) DeleteSession(c *gin.Context) {
	session, _, ok := h.loadSession(c, true)
	if !ok {
		return
	}
	if err := h.gameService.DeleteSession(c.Request.Context(), session.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me 回傳呼叫者自己的角色，只有本人看得到
func (h *GameHandler) Me(c *gin.Context) {
	session, userID, ok := h.loadSession(c, false)
	if !ok {
		return
	}
	player, err := h.gameService.PlayerForUser(c.Request.Context(), session.ID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"player_id": player.ID,
		"name":      player.Name,
		"role":      player.Role,
		"is_good":   player.IsGood,
		"is_alive":  player.IsAlive,
	})
}

func (h *GameHandler) NightView(c *gin.Context) {
	session, userID, ok := h.loadSession(c, false)
	if !ok {
		return
	}
	view, err := h.gameService.NightView(c.Request.Context(), session.ID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"player_id":  view.Player,
		"role":       view.Role,
		"phase":      view.Phase,
		"spectating": view.Spectating,
		"action":     view.Action,
		"targets":    view.Targets,
		"current":    view.Current,
	})
}

// NightActionInput 夜晚行動；action 為 wolf_vote / healer_protect / prophet_query
type NightActionInput struct {
	Action   string `json:"action" binding:"required"`
	TargetID uint   `json:"target_id" binding:"required"`
}

// NightAction 以呼叫者在遊戲中的玩家身份提交夜晚行動
func (h *GameHandler) NightAction(c *gin.Context) {
	session, userID, ok := h.loadSession(c, false)
	if !ok {
		return
	}
	var input NightActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind, err := game.ParseActionKind(input.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	player, err := h.gameService.PlayerForUser(ctx, session.ID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.gameService.SubmitNightAction(ctx, session.ID, player.ID, kind, game.PlayerID(input.TargetID))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"action": result.Kind, "target_id": result.Target}
	if result.Kind == game.ActionProphetQuery {
		resp["verdict"] = result.Verdict
		resp["is_wolf"] = result.TargetIsWolf
	}
	c.JSON(http.StatusOK, resp)
}

// ResolveNight 管理員結束夜晚
func (h *GameHandler) ResolveNight(c *gin.Context) {
	session, _, ok := h.loadSession(c, true)
	if !ok {
		return
	}
	res, err := h.gameService.ResolveNight(c.Request.Context(), session.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"survivor_spared":  res.SurvivorSpared,
		"killed_player_id": res.Killed,
		"winner":           res.Winner,
	})
}

// DayEliminationInput selection 為 0 或省略表示不處決；
// 也可以送出多張 votes 由伺服器計票
type DayEliminationInput struct {
	Selection *uint  `json:"selection"`
	Votes     []uint `json:"votes"`
}

func (h *GameHandler) DayElimination(c *gin.Context) {
	session, _, ok := h.loadSession(c, true)
	if !ok {
		return
	}
	var input DayEliminationInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	selection := game.NoElimination
	switch {
	case input.Selection != nil:
		selection = game.PlayerID(*input.Selection)
	case len(input.Votes) > 0:
		ballots := make([]game.PlayerID, 0, len(input.Votes))
		for _, v := range input.Votes {
			ballots = append(ballots, game.PlayerID(v))
		}
		selection = game.TallyDayVotes(ballots)
	}

	ctx := c.Request.Context()
	if err := h.gameService.SubmitDayElimination(ctx, session.ID, selection); err != nil {
		respondError(c, err)
		return
	}
	updated, err := h.gameService.GetSession(ctx, session.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"eliminated": selection, "session": updated})
}

func (h *GameHandler) LivingPlayers(c *gin.Context) {
	session, _, ok := h.loadSession(c, false)
	if !ok {
		return
	}
	living, err := h.gameService.GetLivingPlayers(c.Request.Context(), session.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if living == nil {
		living = []game.PlayerID{}
	}
	c.JSON(http.StatusOK, gin.H{"living": living})
}

func (h *GameHandler) Phase(c *gin.Context) {
	session, _, ok := h.loadSession(c, false)
	if !ok {
		return
	}
	phase, err := h.gameService.GetRoundPhase(c.Request.Context(), session.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phase": phase, "round": session.Round})
}

func (h *GameHandler) Events(c *gin.Context) {
	session, _, ok := h.loadSession(c, false)
	if !ok {
		return
	}
	events, err := h.gameService.Events(session.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
