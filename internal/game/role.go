package game

import "fmt"

// Role 角色名稱，對應 Character.Name
type Role string

const (
	RoleWolf     Role = "Wolf"
	RoleHealer   Role = "Healer"
	RoleProphet  Role = "Prophet"
	RoleVillager Role = "Villager"
)

// ActionKind 夜晚行動種類
type ActionKind string

const (
	ActionNone          ActionKind = ""
	ActionWolfVote      ActionKind = "wolf_vote"
	ActionHealerProtect ActionKind = "healer_protect"
	ActionProphetQuery  ActionKind = "prophet_query"
)

// capabilities 角色 -> 夜晚可執行的行動；未列出的角色（村民等）沒有夜晚行動
var capabilities = map[Role]ActionKind{
	RoleWolf:    ActionWolfVote,
	RoleHealer:  ActionHealerProtect,
	RoleProphet: ActionProphetQuery,
}

// NightAction 回傳角色在夜晚可以執行的行動
func (r Role) NightAction() (ActionKind, bool) {
	kind, ok := capabilities[r]
	return kind, ok
}

// ParseActionKind 解析外部傳入的行動字串
func ParseActionKind(s string) (ActionKind, error) {
	switch k := ActionKind(s); k {
	case ActionWolfVote, ActionHealerProtect, ActionProphetQuery:
		return k, nil
	default:
		return ActionNone, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// Character 角色定義，遊戲進行中不會被修改
type Character struct {
	ID     uint
	Name   string
	IsGood bool
}

// Role 回傳角色對應的 Role
func (c Character) Role() Role {
	return Role(c.Name)
}

// DefaultRoster 啟動時寫入資料庫的預設角色表
func DefaultRoster() []Character {
	return []Character{
		{Name: string(RoleWolf), IsGood: false},
		{Name: string(RoleHealer), IsGood: true},
		{Name: string(RoleProphet), IsGood: true},
		{Name: string(RoleVillager), IsGood: true},
	}
}
