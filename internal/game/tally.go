package game

import "sort"

// TallyResult 多數決計票結果
type TallyResult struct {
	Target PlayerID
	Votes  int
	// Tied 表示有多位候選人同票，Target 取 ID 最小者
	Tied   bool
	Counts map[PlayerID]int
}

// Tally 對提名清單做多數決。沒有任何票時回傳 false。
func Tally(ballots []PlayerID) (TallyResult, bool) {
	if len(ballots) == 0 {
		return TallyResult{}, false
	}

	counts := make(map[PlayerID]int, len(ballots))
	for _, id := range ballots {
		counts[id]++
	}

	candidates := make([]PlayerID, 0, len(counts))
	for id := range counts {
		candidates = append(candidates, id)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	result := TallyResult{Counts: counts}
	for _, id := range candidates {
		switch n := counts[id]; {
		case n > result.Votes:
			result.Target = id
			result.Votes = n
			result.Tied = false
		case n == result.Votes:
			result.Tied = true
		}
	}
	return result, true
}

// TallyDayVotes 將白天的多張選票合併為一個處決對象。
// 選票可以是 NoElimination；同票時取 ID 最小者，因此與「不處決」同票時不處決。
func TallyDayVotes(ballots []PlayerID) PlayerID {
	result, ok := Tally(ballots)
	if !ok {
		return NoElimination
	}
	return result.Target
}
