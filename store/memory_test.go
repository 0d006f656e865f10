package store

import (
	"context"
	"testing"

	"github.com/ZaguanLabs/teamtl"
)

func TestMemoryStore_Get(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(teamtl.Team{ID: 7, History: "Founded in 1970."})

	got, err := s.Get(ctx, "7")
	if err != nil || got == nil || got.History != "Founded in 1970." {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	got.History = "mutated"
	again, _ := s.Get(ctx, "7")
	if again.History != "Founded in 1970." {
		t.Error("Get must return a copy")
	}

	if got, _ := s.Get(ctx, "missing-id"); got != nil {
		t.Error("non-numeric id should not resolve")
	}
}

func TestMemoryStore_SetHistory(t *testing.T) {
	s := NewMemoryStore(teamtl.Team{ID: 7, History: "Founded in 1970."})

	if !s.SetHistory(7, "Founded in 1971.") {
		t.Fatal("SetHistory should succeed for existing team")
	}
	if s.SetHistory(8, "x") {
		t.Error("SetHistory should report false for missing team")
	}

	got, _ := s.Get(context.Background(), "7")
	if got.History != "Founded in 1971." {
		t.Errorf("History = %q", got.History)
	}
}

func TestMemoryStore_Players(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if _, _, err := SeedInto(ctx, s); err != nil {
		t.Fatalf("SeedInto failed: %v", err)
	}

	captain := false
	got, _ := s.Players(ctx, 2, PlayerFilter{IsCaptain: &captain})
	if len(got) != 1 || got[0].Name != "Sean Doyle" {
		t.Errorf("Players = %+v", got)
	}

	s.PutPlayer(ctx, &teamtl.Player{TeamID: 2, PlayerID: "2", Name: "Sean Doyle", Position: "Forward"})
	fwd, _ := s.Players(ctx, 2, PlayerFilter{Position: "Forward"})
	if len(fwd) != 2 {
		t.Errorf("PutPlayer should replace by player ID, got %+v", fwd)
	}
}

func TestLoadSeed(t *testing.T) {
	seed, err := LoadSeed()
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}
	for _, team := range seed.Teams {
		if team.ID == 0 || team.TeamName == "" || team.History == "" {
			t.Errorf("incomplete seed team: %+v", team)
		}
	}
}
