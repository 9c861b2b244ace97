package game

import (
	"math/rand"
	"time"
)

// Assignment 一位成員分配到的角色
type Assignment struct {
	UserID    uint
	Character Character
}

// AssignRoles 將角色牌組洗牌後依序發給成員。
// 牌組比成員少時回傳 ErrNotEnoughCharacters；多出的牌不會被使用。
func AssignRoles(members []uint, deck []Character, rng *rand.Rand) ([]Assignment, error) {
	if len(deck) < len(members) {
		return nil, ErrNotEnoughCharacters
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	shuffled := make([]Character, len(deck))
	copy(shuffled, deck)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	assignments := make([]Assignment, len(members))
	for i, userID := range members {
		assignments[i] = Assignment{UserID: userID, Character: shuffled[i]}
	}
	return assignments, nil
}

// BuildDeck 由角色表組出 n 張牌。狼人陣營的角色排在最前面，
// 因此只要 n > 0 牌組中一定有狼人；成員多於角色時循環使用角色表。
func BuildDeck(roster []Character, n int) []Character {
	if len(roster) == 0 || n <= 0 {
		return nil
	}
	ordered := make([]Character, 0, len(roster))
	for _, c := range roster {
		if !c.IsGood {
			ordered = append(ordered, c)
		}
	}
	for _, c := range roster {
		if c.IsGood {
			ordered = append(ordered, c)
		}
	}

	deck := make([]Character, n)
	for i := range deck {
		deck[i] = ordered[i%len(ordered)]
	}
	return deck
}
