package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wolfs_web/internal/game"
	"wolfs_web/internal/middleware"
	"wolfs_web/internal/service"
)

// statusFor 將服務層與回合引擎的錯誤對應到 HTTP 狀態碼
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrSessionNotFound),
		errors.Is(err, game.ErrPlayerNotFound),
		errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCharacterNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotRoomAdmin),
		errors.Is(err, service.ErrNotRoomMember),
		errors.Is(err, game.ErrActionByDeadPlayer),
		errors.Is(err, game.ErrInvalidActionForRole):
		return http.StatusForbidden
	case errors.Is(err, game.ErrWrongPhase),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrAdminCannotLeave),
		errors.Is(err, service.ErrGameInProgress):
		return http.StatusConflict
	case errors.Is(err, game.ErrDegenerateSession),
		errors.Is(err, game.ErrTargetNotAlive),
		errors.Is(err, game.ErrNotEnoughCharacters),
		errors.Is(err, game.ErrUnknownAction),
		errors.Is(err, service.ErrEmptyRoom),
		errors.Is(err, service.ErrIncompleteMapping):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError 回傳錯誤；未預期的錯誤只記 log，不把內部訊息交給客戶端
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// paramID 解析路徑中的數字 ID
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	}
	return userID, ok
}
