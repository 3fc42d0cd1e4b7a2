package entities

import "strconv"

// GameStatus represents where a game is in its lifecycle
type GameStatus string

const (
	GameStatusScheduled GameStatus = "scheduled"
	GameStatusLive      GameStatus = "live"
	GameStatusFinal     GameStatus = "final"
)

// Team is one side of a game with its running score
type Team struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Abbreviation string `json:"abbreviation"`
	Score        int    `json:"score" validate:"gte=0"`
}

// Game is a snapshot of a game at the moment an event was produced
type Game struct {
	ID            string     `json:"id" validate:"required"`
	HomeTeam      Team       `json:"home_team"`
	AwayTeam      Team       `json:"away_team"`
	Period        int        `json:"period" validate:"gte=1"`
	TimeRemaining string     `json:"time_remaining"`
	Status        GameStatus `json:"status" validate:"required,oneof=scheduled live final"`
	Date          string     `json:"date"`
}

// ScoreLine renders the score as "home-away"
func (g *Game) ScoreLine() string {
	return strconv.Itoa(g.HomeTeam.Score) + "-" + strconv.Itoa(g.AwayTeam.Score)
}

// TeamFor returns the side the named team plays on, or nil when it is not in the game
func (g *Game) TeamFor(name string) *Team {
	switch name {
	case g.HomeTeam.Name:
		return &g.HomeTeam
	case g.AwayTeam.Name:
		return &g.AwayTeam
	}
	return nil
}
