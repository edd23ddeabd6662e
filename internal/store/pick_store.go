package store

import (
	"context"
	"errors"

	"github.com/JakeBellis/NFL-confidence-game/internal/pickem"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

type PickStore struct {
	db *sqlx.DB
}

const (
	deletePickQuery = `
		DELETE FROM picks WHERE user_name = ? AND game_id = ?
	`
	insertPickQuery = `
		INSERT INTO picks (id, user_name, season, week, game_id, team_id, side, confidence)
		VALUES (:id, :user_name, :season, :week, :game_id, :team_id, :side, :confidence)
	`
	getPicksQuery = `
		SELECT * FROM picks WHERE user_name = ? AND season = ? AND week = ?
		ORDER BY confidence DESC
	`
	getWeekPicksQuery = `
		SELECT * FROM picks WHERE season = ? AND week = ?
		ORDER BY user_name ASC, confidence DESC
	`
	seasonTotalsQuery = `
		SELECT p.user_name AS user_name,
		       COALESCE(SUM(CASE WHEN g.status = 'final' AND g.winner_team_id = p.team_id
		                         THEN p.confidence ELSE 0 END), 0) AS total
		FROM picks p
		JOIN games g ON g.id = p.game_id
		WHERE p.season = ?
		GROUP BY p.user_name
	`
)

func NewPickStore(db *sqlx.DB) *PickStore {
	return &PickStore{db: db}
}

// ReplacePicks writes one submission as a unit: each (user, game) row is
// cleared before its replacement goes in, so a confidence swap inside a
// resubmission does not trip the uniqueness index mid-write. A collision with
// a pick that is not part of this submission still fails the index, which is
// the storage-level guard against two writers racing past validation.
func (s *PickStore) ReplacePicks(ctx context.Context, tx *sqlx.Tx, picks []pickem.Pick) error {
	for _, p := range picks {
		if _, err := tx.ExecContext(ctx, deletePickQuery, p.UserName, p.GameID); err != nil {
			return err
		}
	}
	for _, p := range picks {
		if _, err := tx.NamedExecContext(ctx, insertPickQuery, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *PickStore) GetPicks(ctx context.Context, user string, season, week int) ([]pickem.Pick, error) {
	var picks []pickem.Pick
	err := s.db.SelectContext(ctx, &picks, getPicksQuery, user, season, week)
	return picks, err
}

func (s *PickStore) GetWeekPicks(ctx context.Context, season, week int) ([]pickem.Pick, error) {
	var picks []pickem.Pick
	err := s.db.SelectContext(ctx, &picks, getWeekPicksQuery, season, week)
	return picks, err
}

// SeasonTotals sums credited confidence per user across a whole season in one
// query. Only final games with a winner credit anything, so ties and games
// still in flight count for nobody. Every user with at least one stored pick
// shows up, zero totals included.
func (s *PickStore) SeasonTotals(ctx context.Context, season int) (map[string]int, error) {
	var rows []struct {
		UserName string `db:"user_name"`
		Total    int    `db:"total"`
	}
	if err := s.db.SelectContext(ctx, &rows, seasonTotalsQuery, season); err != nil {
		return nil, err
	}
	totals := make(map[string]int, len(rows))
	for _, row := range rows {
		totals[row.UserName] = row.Total
	}
	return totals, nil
}

// IsConfidenceConflict reports whether err is the picks uniqueness index
// firing, i.e. a confidence value already spent for that user and week.
func IsConfidenceConflict(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
