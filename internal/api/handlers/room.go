package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wolfs_web/internal/service"
)

// RoomHandler 處理房間、成員與角色分配
type RoomHandler struct {
	roomService *service.RoomService
}

func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// CreateRoom 建立房間，呼叫者成為管理員
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input struct {
		Name      string `json:"name" binding:"required,max=100"`
		MemberIDs []uint `json:"member_ids"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.roomService.CreateRoom(userID, input.Name, input.MemberIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomService.ListRooms()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, ok := paramID(c, "id")
	if !ok {
		return
	}
	room, err := h.roomService.GetRoom(roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.roomService.DeleteRoom(roomID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddMembers 管理員將用戶加入房間
func (h *RoomHandler) AddMembers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input struct {
		UserIDs []uint `json:"user_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.roomService.AddMembers(roomID, userID, input.UserIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// RemoveMember 管理員移除成員，或成員自行離開
func (h *RoomHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := paramID(c, "id")
	if !ok {
		return
	}
	memberID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	if err := h.roomService.RemoveMember(roomID, userID, memberID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RoomHandler) ListCharacters(c *gin.Context) {
	characters, err := h.roomService.ListCharacters()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, characters)
}

// AssignRolesInput mapping 為 用戶 ID -> 角色 ID；留空時依 deck 或角色表隨機分配
type AssignRolesInput struct {
	Mapping map[uint]uint `json:"mapping"`
	Deck    []uint        `json:"deck"`
}

func (h *RoomHandler) AssignRoles(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input AssignRolesInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	players, err := h.roomService.AssignRoles(roomID, userID, input.Mapping, input.Deck)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, players)
}
