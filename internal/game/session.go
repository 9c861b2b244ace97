package game

import (
	"fmt"
	"sort"
)

// Phase 回合階段
type Phase string

const (
	PhaseNightActive Phase = "night_active" // 夜晚行動進行中
	PhaseDayPending  Phase = "day_pending"  // 夜晚結果已公布，等待白天處決
)

// Session 一個房間的一場遊戲。
// Session 本身不是並發安全的，呼叫端需保證同一場遊戲的操作不會交錯執行。
type Session struct {
	ID     uint
	RoomID uint
	Round  int

	players map[PlayerID]*Player
	order   []PlayerID

	// good 與 wolves 只在建立時計算一次，之後不隨死亡更新
	good   []PlayerID
	wolves []PlayerID

	wolfVotes     map[PlayerID]PlayerID // 狼人 -> 提名對象
	healerProtect PlayerID
	roundActive   bool
	winner        Alignment
}

// State 可序列化的 Session 快照，供持久層讀寫
type State struct {
	ID            uint
	RoomID        uint
	Round         int
	Players       []Player
	Good          []PlayerID
	Wolves        []PlayerID
	WolfVotes     map[PlayerID]PlayerID
	HealerProtect PlayerID
	RoundActive   bool
	Winner        Alignment
}

// NewSession 以房間目前的玩家建立新遊戲。
// 所有玩家都會進入 all_players；只有存活者會被分到好人或狼人。
// 沒有存活玩家，或建立當下勝負已定時回傳 ErrDegenerateSession。
func NewSession(id, roomID uint, players []Player) (*Session, error) {
	s := &Session{
		ID:          id,
		RoomID:      roomID,
		Round:       1,
		players:     make(map[PlayerID]*Player, len(players)),
		wolfVotes:   make(map[PlayerID]PlayerID),
		roundActive: true,
	}
	for i := range players {
		p := players[i]
		s.players[p.ID] = &p
	}
	s.sortOrder()

	for _, id := range s.order {
		p := s.players[id]
		if !p.IsAlive {
			continue
		}
		if p.IsGood {
			s.good = append(s.good, id)
		} else {
			s.wolves = append(s.wolves, id)
		}
	}
	if len(s.good)+len(s.wolves) == 0 {
		return nil, ErrDegenerateSession
	}
	// 沒有狼人或狼人一開始就不少於好人，遊戲在第一晚之前就已結束
	if winner := s.checkWinner(); winner != AlignmentNone {
		return nil, fmt.Errorf("%w: %s side wins before the first night", ErrDegenerateSession, winner)
	}
	return s, nil
}

// Restore 由持久層的快照還原 Session
func Restore(state State) (*Session, error) {
	if len(state.Players) == 0 {
		return nil, fmt.Errorf("restore session %d: %w", state.ID, ErrDegenerateSession)
	}
	s := &Session{
		ID:            state.ID,
		RoomID:        state.RoomID,
		Round:         state.Round,
		players:       make(map[PlayerID]*Player, len(state.Players)),
		good:          append([]PlayerID(nil), state.Good...),
		wolves:        append([]PlayerID(nil), state.Wolves...),
		wolfVotes:     make(map[PlayerID]PlayerID, len(state.WolfVotes)),
		healerProtect: state.HealerProtect,
		roundActive:   state.RoundActive,
		winner:        state.Winner,
	}
	for i := range state.Players {
		p := state.Players[i]
		s.players[p.ID] = &p
	}
	for voter, target := range state.WolfVotes {
		s.wolfVotes[voter] = target
	}
	s.sortOrder()
	return s, nil
}

// State 回傳目前狀態的深拷貝
func (s *Session) State() State {
	votes := make(map[PlayerID]PlayerID, len(s.wolfVotes))
	for voter, target := range s.wolfVotes {
		votes[voter] = target
	}
	return State{
		ID:            s.ID,
		RoomID:        s.RoomID,
		Round:         s.Round,
		Players:       s.Players(),
		Good:          append([]PlayerID(nil), s.good...),
		Wolves:        append([]PlayerID(nil), s.wolves...),
		WolfVotes:     votes,
		HealerProtect: s.healerProtect,
		RoundActive:   s.roundActive,
		Winner:        s.winner,
	}
}

func (s *Session) sortOrder() {
	s.order = s.order[:0]
	for id := range s.players {
		s.order = append(s.order, id)
	}
	sort.Slice(s.order, func(i, j int) bool { return s.order[i] < s.order[j] })
}

// Players 依 ID 排序回傳所有玩家
func (s *Session) Players() []Player {
	out := make([]Player, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.players[id])
	}
	return out
}

// Player 回傳單一玩家
func (s *Session) Player(id PlayerID) (Player, error) {
	p, ok := s.players[id]
	if !ok {
		return Player{}, fmt.Errorf("%w: %d", ErrPlayerNotFound, id)
	}
	return *p, nil
}

// PlayerByUser 依使用者 ID 找出其在本場遊戲中的玩家
func (s *Session) PlayerByUser(userID uint) (Player, error) {
	for _, id := range s.order {
		if p := s.players[id]; p.UserID == userID {
			return *p, nil
		}
	}
	return Player{}, fmt.Errorf("%w: user %d", ErrPlayerNotFound, userID)
}

// GoodPlayers 建立遊戲時存活的好人
func (s *Session) GoodPlayers() []PlayerID {
	return append([]PlayerID(nil), s.good...)
}

// Wolves 建立遊戲時存活的狼人
func (s *Session) Wolves() []PlayerID {
	return append([]PlayerID(nil), s.wolves...)
}

// LivingPlayers 依 ID 排序回傳存活玩家
func (s *Session) LivingPlayers() []PlayerID {
	var out []PlayerID
	for _, id := range s.order {
		if s.players[id].IsAlive {
			out = append(out, id)
		}
	}
	return out
}

// Phase 回傳目前階段
func (s *Session) Phase() Phase {
	if s.roundActive {
		return PhaseNightActive
	}
	return PhaseDayPending
}

// Winner 回傳獲勝陣營，遊戲未結束時為 AlignmentNone
func (s *Session) Winner() Alignment {
	return s.winner
}

// WolfVotes 回傳本夜狼人提名的拷貝
func (s *Session) WolfVotes() map[PlayerID]PlayerID {
	out := make(map[PlayerID]PlayerID, len(s.wolfVotes))
	for voter, target := range s.wolfVotes {
		out[voter] = target
	}
	return out
}

// HealerProtect 回傳本夜被守護的玩家
func (s *Session) HealerProtect() (PlayerID, bool) {
	return s.healerProtect, s.healerProtect != 0
}

func (s *Session) clearNight() {
	s.wolfVotes = make(map[PlayerID]PlayerID)
	s.healerProtect = 0
}

// checkWinner 狼人全滅則好人勝；存活狼人數不少於好人則狼人勝
func (s *Session) checkWinner() Alignment {
	var good, evil int
	for _, p := range s.players {
		if !p.IsAlive {
			continue
		}
		if p.IsGood {
			good++
		} else {
			evil++
		}
	}
	switch {
	case evil == 0:
		s.winner = AlignmentGood
	case evil >= good:
		s.winner = AlignmentEvil
	}
	return s.winner
}

func (s *Session) kill(id PlayerID) {
	s.players[id].IsAlive = false
}
