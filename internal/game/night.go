package game

import "fmt"

// ActionResult 夜晚行動的回應。只有預言家查驗會帶 Verdict。
type ActionResult struct {
	Kind         ActionKind
	Target       PlayerID
	Verdict      string
	TargetIsWolf bool
}

// NightView 玩家在夜晚看到的畫面
type NightView struct {
	Player     PlayerID
	Role       Role
	Phase      Phase
	Spectating bool
	Action     ActionKind
	Targets    []PlayerID
	// Current 玩家本夜目前的選擇，0 表示尚未選擇
	Current PlayerID
}

// Resolution 夜晚結算結果
type Resolution struct {
	Target         PlayerID
	Tied           bool
	SurvivorSpared bool
	Killed         PlayerID
	Winner         Alignment
}

// SubmitNightAction 依角色分派夜晚行動
func (s *Session) SubmitNightAction(actorID PlayerID, kind ActionKind, targetID PlayerID) (ActionResult, error) {
	actor, ok := s.players[actorID]
	if !ok {
		return ActionResult{}, fmt.Errorf("%w: actor %d", ErrPlayerNotFound, actorID)
	}
	if !actor.IsAlive {
		return ActionResult{}, ErrActionByDeadPlayer
	}
	if s.winner != AlignmentNone {
		return ActionResult{}, ErrGameOver
	}
	if !s.roundActive {
		return ActionResult{}, ErrWrongPhase
	}
	if allowed, ok := actor.Role.NightAction(); !ok || allowed != kind {
		return ActionResult{}, fmt.Errorf("%w: %s cannot %s", ErrInvalidActionForRole, actor.Role, kind)
	}
	target, ok := s.players[targetID]
	if !ok {
		return ActionResult{}, fmt.Errorf("%w: target %d", ErrPlayerNotFound, targetID)
	}

	result := ActionResult{Kind: kind, Target: targetID}
	switch kind {
	case ActionWolfVote:
		if !target.IsAlive {
			return ActionResult{}, ErrTargetNotAlive
		}
		s.wolfVotes[actorID] = targetID
	case ActionHealerProtect:
		if !target.IsAlive {
			return ActionResult{}, ErrTargetNotAlive
		}
		s.healerProtect = targetID
	case ActionProphetQuery:
		result.TargetIsWolf = !target.IsGood
		result.Verdict = prophetVerdict(*target)
	default:
		return ActionResult{}, ErrUnknownAction
	}
	return result, nil
}

func prophetVerdict(target Player) string {
	if target.IsGood {
		return fmt.Sprintf("%s is good player", target.Name)
	}
	return fmt.Sprintf("%s is WOLF", target.Name)
}

// NightView 回傳玩家可執行的行動與候選目標，死亡玩家只能旁觀
func (s *Session) NightView(playerID PlayerID) (NightView, error) {
	p, ok := s.players[playerID]
	if !ok {
		return NightView{}, fmt.Errorf("%w: %d", ErrPlayerNotFound, playerID)
	}
	view := NightView{
		Player: playerID,
		Role:   p.Role,
		Phase:  s.Phase(),
	}
	if !p.IsAlive {
		view.Spectating = true
		return view, nil
	}

	view.Targets = s.LivingPlayers()
	if !s.roundActive || s.winner != AlignmentNone {
		return view, nil
	}

	kind, ok := p.Role.NightAction()
	if !ok {
		return view, nil
	}
	view.Action = kind
	switch kind {
	case ActionWolfVote:
		view.Current = s.wolfVotes[playerID]
	case ActionHealerProtect:
		view.Current = s.healerProtect
	case ActionProphetQuery:
		view.Targets = view.Targets[:0:0]
		for _, id := range s.order {
			if id != playerID {
				view.Targets = append(view.Targets, id)
			}
		}
	}
	return view, nil
}

// ResolveNight 結算狼人投票與守護，結束夜晚進入白天
func (s *Session) ResolveNight() (Resolution, error) {
	if s.winner != AlignmentNone {
		return Resolution{}, ErrGameOver
	}
	if !s.roundActive {
		return Resolution{}, ErrWrongPhase
	}

	ballots := make([]PlayerID, 0, len(s.wolfVotes))
	for _, target := range s.wolfVotes {
		ballots = append(ballots, target)
	}

	var res Resolution
	if tally, ok := Tally(ballots); ok {
		res.Target = tally.Target
		res.Tied = tally.Tied
		if protected, ok := s.HealerProtect(); ok && protected == tally.Target {
			res.SurvivorSpared = true
		} else {
			s.kill(tally.Target)
			res.Killed = tally.Target
		}
	}

	s.clearNight()
	s.roundActive = false
	if res.Killed != 0 {
		res.Winner = s.checkWinner()
	}
	return res, nil
}

// SubmitDayElimination 處決白天選出的玩家；NoElimination 表示不處決。
// 不論結果都會進入下一個夜晚。
func (s *Session) SubmitDayElimination(selection PlayerID) error {
	if s.winner != AlignmentNone {
		return ErrGameOver
	}
	if s.roundActive {
		return ErrWrongPhase
	}
	if selection != NoElimination {
		p, ok := s.players[selection]
		if !ok {
			return fmt.Errorf("%w: %d", ErrPlayerNotFound, selection)
		}
		if !p.IsAlive {
			return ErrTargetNotAlive
		}
		s.kill(selection)
		s.checkWinner()
	}

	s.clearNight()
	s.roundActive = true
	s.Round++
	return nil
}
