package simulation

import (
	"strings"

	"github.com/KirkDiggler/gameiq/internal/entities"
)

var knownTeams = []entities.Team{
	{ID: "t1", Name: "Edmonton Oilers", Abbreviation: "EDM"},
	{ID: "t2", Name: "Toronto Maple Leafs", Abbreviation: "TOR"},
	{ID: "t3", Name: "Colorado Avalanche", Abbreviation: "COL"},
	{ID: "t4", Name: "Calgary Flames", Abbreviation: "CGY"},
	{ID: "t5", Name: "Boston Bruins", Abbreviation: "BOS"},
	{ID: "t6", Name: "New York Rangers", Abbreviation: "NYR"},
}

// LookupTeam finds a team by name or abbreviation, ignoring case.
// Unknown names get a team derived from the name.
func LookupTeam(name string) entities.Team {
	name = strings.TrimSpace(name)
	for _, team := range knownTeams {
		if strings.EqualFold(team.Name, name) || strings.EqualFold(team.Abbreviation, name) {
			return team
		}
	}

	abbr := strings.ToUpper(strings.ReplaceAll(name, " ", ""))
	if len(abbr) > 3 {
		abbr = abbr[:3]
	}
	return entities.Team{
		ID:           strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Name:         name,
		Abbreviation: abbr,
	}
}
