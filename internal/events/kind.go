package events

// Kind identifies what happened in a game
type Kind string

// Event kinds. The set is closed: producers and listeners agree on exactly these.
const (
	KindGoal      Kind = "goal"
	KindAssist    Kind = "assist"
	KindPenalty   Kind = "penalty"
	KindMilestone Kind = "milestone"
	KindHatTrick  Kind = "hat_trick"
	KindGameStart Kind = "game_start"
	KindGameEnd   Kind = "game_end"
)

// All is the wildcard subscription key. It is never the kind of an event.
const All Kind = "all"

var kinds = [...]Kind{
	KindGoal,
	KindAssist,
	KindPenalty,
	KindMilestone,
	KindHatTrick,
	KindGameStart,
	KindGameEnd,
}

// Kinds returns every event kind in declaration order
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds[:])
	return out
}

// Valid reports whether k is one of the closed set of event kinds
func (k Kind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k Kind) String() string { return string(k) }
