package mockdice

import (
	"fmt"
	"sync"

	"github.com/KirkDiggler/gameiq/internal/dice"
)

// ManualMockRoller implements dice.Roller with predetermined results
type ManualMockRoller struct {
	mu           sync.Mutex
	rolls        []int
	rollIndex    int
	fallback     int
	haveFallback bool
}

// NewManualMockRoller creates a new mock dice roller
func NewManualMockRoller() *ManualMockRoller {
	return &ManualMockRoller{
		rolls: []int{},
	}
}

// SetNextRoll queues one die result
func (m *ManualMockRoller) SetNextRoll(roll int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = append(m.rolls, roll)
}

// SetRolls replaces the queued die results
func (m *ManualMockRoller) SetRolls(rolls []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = rolls
	m.rollIndex = 0
}

// SetFallback makes every die past the queued ones show roll, capped at the die size
func (m *ManualMockRoller) SetFallback(roll int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = roll
	m.haveFallback = true
}

// Roll implements dice.Roller
func (m *ManualMockRoller) Roll(count, sides, bonus int) (*dice.RollResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	rolls := make([]int, count)
	for i := range rolls {
		roll, err := m.nextLocked(sides)
		if err != nil {
			return nil, err
		}
		rolls[i] = roll
		total += roll
	}

	return &dice.RollResult{
		Total: total + bonus,
		Rolls: rolls,
		Bonus: bonus,
		Count: count,
		Sides: sides,
	}, nil
}

func (m *ManualMockRoller) nextLocked(sides int) (int, error) {
	if m.rollIndex >= len(m.rolls) {
		if !m.haveFallback {
			return 0, fmt.Errorf("no more predetermined rolls available (used %d of %d)", m.rollIndex, len(m.rolls))
		}
		return min(max(m.fallback, 1), sides), nil
	}

	roll := m.rolls[m.rollIndex]
	if roll < 1 || roll > sides {
		return 0, fmt.Errorf("predetermined roll %d is not valid for a d%d", roll, sides)
	}
	m.rollIndex++
	return roll, nil
}
