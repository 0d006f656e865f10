// Package store holds team and player records.
//
// The translation service only reads teams through teamtl.EntityStore; the
// write and player methods serve the CRUD side of the API.
package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ZaguanLabs/teamtl"
)

// PlayerFilter narrows a player query. Zero values match everything.
type PlayerFilter struct {
	Position  string
	IsCaptain *bool
}

func (f PlayerFilter) match(p *teamtl.Player) bool {
	if f.Position != "" && p.Position != f.Position {
		return false
	}
	if f.IsCaptain != nil && p.IsCaptain != *f.IsCaptain {
		return false
	}
	return true
}

// Writer is implemented by stores that accept team and player writes.
type Writer interface {
	PutTeam(ctx context.Context, team *teamtl.Team) error
	PutPlayer(ctx context.Context, player *teamtl.Player) error
}

// Seed is the sample data set shipped with the module.
type Seed struct {
	Teams   []teamtl.Team   `json:"teams"`
	Players []teamtl.Player `json:"players"`
}

//go:embed seed.json
var seedJSON []byte

// LoadSeed decodes the embedded sample data.
func LoadSeed() (*Seed, error) {
	var seed Seed
	if err := json.Unmarshal(seedJSON, &seed); err != nil {
		return nil, fmt.Errorf("decoding seed data: %w", err)
	}
	return &seed, nil
}

// SeedInto writes the sample data into w and returns how many teams and
// players were written.
func SeedInto(ctx context.Context, w Writer) (int, int, error) {
	seed, err := LoadSeed()
	if err != nil {
		return 0, 0, err
	}

	for i := range seed.Teams {
		if err := w.PutTeam(ctx, &seed.Teams[i]); err != nil {
			return i, 0, fmt.Errorf("seeding team %d: %w", seed.Teams[i].ID, err)
		}
	}
	for i := range seed.Players {
		if err := w.PutPlayer(ctx, &seed.Players[i]); err != nil {
			return len(seed.Teams), i, fmt.Errorf("seeding player %s/%s: %w",
				strconv.FormatInt(seed.Players[i].TeamID, 10), seed.Players[i].PlayerID, err)
		}
	}

	return len(seed.Teams), len(seed.Players), nil
}

// parseID converts an entity ID to a team ID. Non-numeric IDs name no team.
func parseID(entityID string) (int64, bool) {
	id, err := strconv.ParseInt(entityID, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
