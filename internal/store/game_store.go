package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/JakeBellis/NFL-confidence-game/internal/pickem"
	"github.com/jmoiron/sqlx"
)

type GameStore struct {
	db *sqlx.DB
}

const (
	upsertTeamQuery = `
		INSERT INTO teams (id, name, abbreviation, logo_url)
		VALUES (:id, :name, :abbreviation, :logo_url)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			abbreviation = excluded.abbreviation,
			logo_url = excluded.logo_url
	`
	upsertGameQuery = `
		INSERT INTO games (id, season, week, start_time, status, home_team_id, away_team_id,
			home_score, away_score, winner_team_id)
		VALUES (:id, :season, :week, :start_time, :status, :home_team_id, :away_team_id,
			:home_score, :away_score, :winner_team_id)
		ON CONFLICT (id) DO UPDATE SET
			season = excluded.season,
			week = excluded.week,
			start_time = excluded.start_time,
			status = excluded.status,
			home_score = excluded.home_score,
			away_score = excluded.away_score,
			winner_team_id = excluded.winner_team_id,
			updated_at = CURRENT_TIMESTAMP
	`
	getGamesByWeekQuery = `
		SELECT * FROM games WHERE season = ? AND week = ? ORDER BY start_time ASC, id ASC
	`
	getTeamsByWeekQuery = `
		SELECT DISTINCT t.* FROM teams t
		JOIN games g ON t.id IN (g.home_team_id, g.away_team_id)
		WHERE g.season = ? AND g.week = ?
	`
	getWeekFetchQuery = `
		SELECT * FROM week_fetches WHERE season = ? AND week = ?
	`
	markWeekFetchedQuery = `
		INSERT INTO week_fetches (season, week, schedule_fetched_at, results_fetched_at)
		VALUES (:season, :week, :schedule_fetched_at, :results_fetched_at)
		ON CONFLICT (season, week) DO UPDATE SET
			schedule_fetched_at = excluded.schedule_fetched_at,
			results_fetched_at = excluded.results_fetched_at
	`
)

// WeekFetch records when a week was last pulled from the provider. It exists
// only so refreshes can skip redundant remote calls; it carries no scoring
// meaning.
type WeekFetch struct {
	Season            int        `db:"season"`
	Week              int        `db:"week"`
	ScheduleFetchedAt *time.Time `db:"schedule_fetched_at"`
	ResultsFetchedAt  *time.Time `db:"results_fetched_at"`
}

func NewGameStore(db *sqlx.DB) *GameStore {
	return &GameStore{db: db}
}

func (s *GameStore) UpsertTeams(ctx context.Context, tx *sqlx.Tx, teams []pickem.Team) error {
	for _, team := range teams {
		if _, err := tx.NamedExecContext(ctx, upsertTeamQuery, team); err != nil {
			return err
		}
	}
	return nil
}

func (s *GameStore) UpsertGames(ctx context.Context, tx *sqlx.Tx, games []pickem.Game) error {
	for _, game := range games {
		if _, err := tx.NamedExecContext(ctx, upsertGameQuery, game); err != nil {
			return err
		}
	}
	return nil
}

func (s *GameStore) GetGamesByWeek(ctx context.Context, season, week int) ([]pickem.Game, error) {
	var games []pickem.Game
	err := s.db.SelectContext(ctx, &games, getGamesByWeekQuery, season, week)
	return games, err
}

func (s *GameStore) GetTeamsByWeek(ctx context.Context, season, week int) (map[string]pickem.Team, error) {
	var teams []pickem.Team
	if err := s.db.SelectContext(ctx, &teams, getTeamsByWeekQuery, season, week); err != nil {
		return nil, err
	}
	byID := make(map[string]pickem.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	return byID, nil
}

// GetWeekFetch returns nil when the week has never been fetched.
func (s *GameStore) GetWeekFetch(ctx context.Context, season, week int) (*WeekFetch, error) {
	var fetch WeekFetch
	err := s.db.GetContext(ctx, &fetch, getWeekFetchQuery, season, week)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fetch, nil
}

func (s *GameStore) MarkWeekFetched(ctx context.Context, tx *sqlx.Tx, fetch WeekFetch) error {
	_, err := tx.NamedExecContext(ctx, markWeekFetchedQuery, fetch)
	return err
}
