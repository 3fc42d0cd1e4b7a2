package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=mockdice -source=roller.go

// RollResult is the outcome of rolling a set of dice
type RollResult struct {
	Total int
	Rolls []int
	Bonus int
	Count int
	Sides int
}

// Roller provides an interface for rolling dice.
// Producers draw all of their randomness from a Roller so tests can script it.
type Roller interface {
	// Roll rolls count dice with the given sides and adds bonus to the total
	Roll(count, sides, bonus int) (*RollResult, error)
}

// Between returns a value in [low, high] drawn from the roller
func Between(r Roller, low, high int) (int, error) {
	if high < low {
		low, high = high, low
	}

	result, err := r.Roll(1, high-low+1, low-1)
	if err != nil {
		return 0, err
	}
	return result.Total, nil
}

// Chance reports true with the given odds out of sides, e.g. Chance(r, 2, 10) is 20%
func Chance(r Roller, odds, sides int) (bool, error) {
	result, err := r.Roll(1, sides, 0)
	if err != nil {
		return false, err
	}
	return result.Total > sides-odds, nil
}
