package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ZaguanLabs/teamtl"
)

// MemoryStore is an in-process team store for tests and development.
type MemoryStore struct {
	mu      sync.RWMutex
	teams   map[int64]teamtl.Team
	players map[int64][]teamtl.Player
}

// NewMemoryStore creates an empty store, optionally pre-filled with teams.
func NewMemoryStore(teams ...teamtl.Team) *MemoryStore {
	s := &MemoryStore{
		teams:   make(map[int64]teamtl.Team),
		players: make(map[int64][]teamtl.Player),
	}
	for _, t := range teams {
		s.teams[t.ID] = t
	}
	return s
}

// Get returns a copy of the team, or nil if it does not exist.
func (s *MemoryStore) Get(ctx context.Context, entityID string) (*teamtl.Team, error) {
	id, ok := parseID(entityID)
	if !ok {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	team, ok := s.teams[id]
	if !ok {
		return nil, nil
	}
	return &team, nil
}

// PutTeam inserts or replaces a team.
func (s *MemoryStore) PutTeam(ctx context.Context, team *teamtl.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[team.ID] = *team
	return nil
}

// SetHistory replaces a team's history. It reports false if the team does not exist.
func (s *MemoryStore) SetHistory(id int64, history string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teams[id]
	if !ok {
		return false
	}
	team.History = history
	s.teams[id] = team
	return true
}

// PutPlayer inserts or replaces a player.
func (s *MemoryStore) PutPlayer(ctx context.Context, player *teamtl.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster := s.players[player.TeamID]
	for i := range roster {
		if roster[i].PlayerID == player.PlayerID {
			roster[i] = *player
			return nil
		}
	}
	s.players[player.TeamID] = append(roster, *player)
	return nil
}

// Players returns the team's players matching filter, ordered by player ID.
func (s *MemoryStore) Players(ctx context.Context, teamID int64, filter PlayerFilter) ([]teamtl.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []teamtl.Player{}
	for _, p := range s.players[teamID] {
		if filter.match(&p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

var (
	_ teamtl.EntityStore = (*MemoryStore)(nil)
	_ Writer             = (*MemoryStore)(nil)
)
