package entities

import "math"

// RankingCategory is the stat a league ranking is computed on
type RankingCategory string

const (
	RankingGoals   RankingCategory = "goals"
	RankingAssists RankingCategory = "assists"
	RankingPoints  RankingCategory = "points"
	RankingPPG     RankingCategory = "ppg"
)

// SeasonStats is a player's season totals at a point in time
type SeasonStats struct {
	GamesPlayed        int     `json:"games_played" yaml:"games_played" validate:"gte=0"`
	Goals              int     `json:"goals" yaml:"goals" validate:"gte=0"`
	Assists            int     `json:"assists" yaml:"assists" validate:"gte=0"`
	Points             int     `json:"points" yaml:"points" validate:"gte=0"`
	PlusMinus          int     `json:"plus_minus" yaml:"plus_minus"`
	PenaltyMinutes     int     `json:"penalty_minutes" yaml:"penalty_minutes" validate:"gte=0"`
	PointsPerGame      float64 `json:"points_per_game" yaml:"points_per_game" validate:"gte=0"`
	ShotsOnGoal        int     `json:"shots_on_goal,omitempty" yaml:"shots_on_goal"`
	ShootingPercentage float64 `json:"shooting_percentage,omitempty" yaml:"shooting_percentage"`
}

// RecalculatePointsPerGame refreshes the derived per-game average
func (s *SeasonStats) RecalculatePointsPerGame() {
	if s.GamesPlayed == 0 {
		s.PointsPerGame = 0
		return
	}
	s.PointsPerGame = math.Round(float64(s.Points)/float64(s.GamesPlayed)*100) / 100
}

// LeagueRanking places a player within the league for one category
type LeagueRanking struct {
	Category     RankingCategory `json:"category" validate:"required,oneof=goals assists points ppg"`
	Rank         int             `json:"rank" validate:"gte=1"`
	PreviousRank *int            `json:"previous_rank,omitempty"`
	TotalPlayers int             `json:"total_players" validate:"gtefield=Rank"`
}

// GameStats is a player's line for a single game
type GameStats struct {
	Goals     int `json:"goals"`
	Assists   int `json:"assists"`
	Points    int `json:"points"`
	Shots     int `json:"shots"`
	PlusMinus int `json:"plus_minus"`
}
