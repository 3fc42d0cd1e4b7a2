package dice

import (
	"errors"
	"math/rand/v2"
)

var (
	errInvalidCount = errors.New("invalid dice count")
	errInvalidSides = errors.New("invalid dice size")
)

// randomRoller implements Roller with math/rand
type randomRoller struct{}

// NewRandomRoller creates a new random dice roller
func NewRandomRoller() Roller {
	return &randomRoller{}
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, errInvalidCount
	}
	if sides < 1 {
		return nil, errInvalidSides
	}

	total := 0
	rolls := make([]int, count)
	for i := range rolls {
		rolls[i] = rand.IntN(sides) + 1
		total += rolls[i]
	}

	return &RollResult{
		Total: total + bonus,
		Rolls: rolls,
		Bonus: bonus,
		Count: count,
		Sides: sides,
	}, nil
}
