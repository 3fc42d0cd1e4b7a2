package entities

// Position represents a player's position on the ice
type Position string

const (
	PositionCenter     Position = "C"
	PositionLeftWing   Position = "LW"
	PositionRightWing  Position = "RW"
	PositionDefense    Position = "D"
	PositionGoaltender Position = "G"
)

// Player identifies a single skater or goalie
type Player struct {
	ID       string   `json:"id" yaml:"id" validate:"required"`
	Name     string   `json:"name" yaml:"name" validate:"required"`
	Number   int      `json:"number" yaml:"number" validate:"gte=0,lte=99"`
	Position Position `json:"position" yaml:"position" validate:"required,oneof=C LW RW D G"`
	Team     string   `json:"team" yaml:"team" validate:"required"`
	TeamAbbr string   `json:"team_abbr,omitempty" yaml:"team_abbr"`
}

// PlayerProfile is a player together with the current season snapshot
type PlayerProfile struct {
	Player      `yaml:",inline"`
	SeasonStats SeasonStats `json:"season_stats" yaml:"season_stats"`
}
