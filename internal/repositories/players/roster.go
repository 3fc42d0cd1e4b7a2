package players

import (
	"context"
	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/gameiq/internal/entities"
	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
)

//go:embed roster.yaml
var rosterYAML []byte

type rosterFile struct {
	Players []*entities.PlayerProfile `yaml:"players"`
}

// Roster returns fresh copies of the seed roster
func Roster() ([]*entities.PlayerProfile, error) {
	return parseRoster(rosterYAML)
}

func parseRoster(data []byte) ([]*entities.PlayerProfile, error) {
	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse roster")
	}

	for i, profile := range file.Players {
		if profile == nil || profile.ID == "" {
			return nil, apperrors.InvalidArgumentf("roster entry %d has no id", i)
		}
	}

	return file.Players, nil
}

func copyProfile(profile *entities.PlayerProfile) *entities.PlayerProfile {
	cp := *profile
	return &cp
}

// SeedRoster saves every roster player the repository does not hold yet
func SeedRoster(ctx context.Context, repo Repository) (int, error) {
	roster, err := Roster()
	if err != nil {
		return 0, err
	}

	seeded := 0
	for _, profile := range roster {
		_, err := repo.Get(ctx, profile.ID)
		if err == nil {
			continue
		}
		if !apperrors.IsNotFound(err) {
			return seeded, err
		}
		if err := repo.Save(ctx, profile); err != nil {
			return seeded, err
		}
		seeded++
	}

	return seeded, nil
}
