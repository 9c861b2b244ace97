package game

import "errors"

// 引擎回傳的錯誤，呼叫端以 errors.Is 判斷
var (
	ErrSessionNotFound      = errors.New("game session not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrInvalidActionForRole = errors.New("action not allowed for role")
	ErrActionByDeadPlayer   = errors.New("dead players cannot act")
	ErrDegenerateSession    = errors.New("session has no eligible players")
	ErrWrongPhase           = errors.New("action not allowed in current phase")
	ErrTargetNotAlive       = errors.New("target is not alive")
	ErrGameOver             = errors.New("game is over")
	ErrNotEnoughCharacters  = errors.New("not enough characters for members")
	ErrUnknownAction        = errors.New("unknown action kind")
)
