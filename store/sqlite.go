package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ZaguanLabs/teamtl"
)

// SQLiteStore is a SQLite-backed team and player store.
type SQLiteStore struct {
	db *sql.DB
}

// SQLiteConfig holds configuration for SQLite.
type SQLiteConfig struct {
	Path string // Path to the database file, or ":memory:"
}

// NewSQLiteStore opens the database and creates the schema if needed.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("Path is required")
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if cfg.Path == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS teams (
		id          INTEGER PRIMARY KEY,
		team_name   TEXT NOT NULL,
		country     TEXT NOT NULL DEFAULT '',
		league      TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		founded     INTEGER NOT NULL DEFAULT 0,
		stadium     TEXT NOT NULL DEFAULT '',
		titles_won  INTEGER NOT NULL DEFAULT 0,
		is_active   INTEGER NOT NULL DEFAULT 1,
		history     TEXT
	);

	CREATE TABLE IF NOT EXISTS players (
		team_id     INTEGER NOT NULL,
		player_id   TEXT NOT NULL,
		name        TEXT NOT NULL,
		position    TEXT NOT NULL DEFAULT '',
		nationality TEXT NOT NULL DEFAULT '',
		age         INTEGER NOT NULL DEFAULT 0,
		is_captain  INTEGER NOT NULL DEFAULT 0,

		PRIMARY KEY (team_id, player_id)
	);

	CREATE INDEX IF NOT EXISTS idx_players_team_position ON players(team_id, position);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Get returns the team, or nil if it does not exist.
func (s *SQLiteStore) Get(ctx context.Context, entityID string) (*teamtl.Team, error) {
	id, ok := parseID(entityID)
	if !ok {
		return nil, nil
	}

	var team teamtl.Team
	var history sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, team_name, country, league, location, founded, stadium, titles_won, is_active, history
		 FROM teams WHERE id = ?`, id,
	).Scan(&team.ID, &team.TeamName, &team.Country, &team.League, &team.Location,
		&team.Founded, &team.Stadium, &team.TitlesWon, &team.IsActive, &history)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query team: %w", err)
	}

	team.History = history.String
	return &team, nil
}

// PutTeam inserts or replaces a team.
func (s *SQLiteStore) PutTeam(ctx context.Context, team *teamtl.Team) error {
	var history sql.NullString
	if team.History != "" {
		history = sql.NullString{String: team.History, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO teams (id, team_name, country, league, location, founded, stadium, titles_won, is_active, history)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		team.ID, team.TeamName, team.Country, team.League, team.Location,
		team.Founded, team.Stadium, team.TitlesWon, team.IsActive, history,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}
	return nil
}

// PutPlayer inserts or replaces a player.
func (s *SQLiteStore) PutPlayer(ctx context.Context, player *teamtl.Player) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO players (team_id, player_id, name, position, nationality, age, is_captain)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		player.TeamID, player.PlayerID, player.Name, player.Position,
		player.Nationality, player.Age, player.IsCaptain,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

// Players returns the team's players matching filter, ordered by player ID.
func (s *SQLiteStore) Players(ctx context.Context, teamID int64, filter PlayerFilter) ([]teamtl.Player, error) {
	query := `SELECT team_id, player_id, name, position, nationality, age, is_captain
		FROM players WHERE team_id = ?`
	args := []any{teamID}

	if filter.Position != "" {
		query += ` AND position = ?`
		args = append(args, filter.Position)
	}
	if filter.IsCaptain != nil {
		query += ` AND is_captain = ?`
		args = append(args, *filter.IsCaptain)
	}
	query += ` ORDER BY player_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []teamtl.Player{}
	for rows.Next() {
		var p teamtl.Player
		if err := rows.Scan(&p.TeamID, &p.PlayerID, &p.Name, &p.Position,
			&p.Nationality, &p.Age, &p.IsCaptain); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}

	return players, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var (
	_ teamtl.EntityStore = (*SQLiteStore)(nil)
	_ Writer             = (*SQLiteStore)(nil)
)
