package entities

import "time"

// GameResult is the outcome of a game from the player's point of view
type GameResult string

const (
	GameResultWin      GameResult = "W"
	GameResultLoss     GameResult = "L"
	GameResultOvertime GameResult = "OT"
)

// GameSummary is the read model kept for a finished game
type GameSummary struct {
	GameID    string     `json:"game_id"`
	PlayerID  string     `json:"player_id"`
	Opponent  string     `json:"opponent"`
	Result    GameResult `json:"result"`
	Score     string     `json:"score"`
	Stats     GameStats  `json:"stats"`
	Summary   string     `json:"summary"`
	PlayedAt  time.Time  `json:"played_at"`
	CreatedAt time.Time  `json:"created_at"`
}
