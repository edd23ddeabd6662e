package service

import (
	"context"
	"fmt"

	"github.com/JakeBellis/NFL-confidence-game/internal/pickem"
	"github.com/JakeBellis/NFL-confidence-game/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PickService struct {
	db    *sqlx.DB
	games *store.GameStore
	picks *store.PickStore
}

func NewPickService(db *sqlx.DB, games *store.GameStore, picks *store.PickStore) *PickService {
	return &PickService{db: db, games: games, picks: picks}
}

// SubmitPicks validates and persists one user's pick set for a week as a
// single atomic write: a rejected set leaves no trace. Season and week on each
// row come from the stored game, not the request, so the denormalized columns
// can never drift. A uniqueness race with a concurrent submission surfaces as
// the same duplicate-confidence rejection the validator produces, so the
// client always sees a fixable 400.
func (s *PickService) SubmitPicks(ctx context.Context, user string, season, week int, inputs []pickem.PickInput) error {
	games, err := s.games.GetGamesByWeek(ctx, season, week)
	if err != nil {
		return fmt.Errorf("failed to load games: %w", err)
	}

	if err := pickem.ValidatePicks(inputs, games); err != nil {
		return err
	}

	gamesByID := make(map[string]pickem.Game, len(games))
	for _, g := range games {
		gamesByID[g.ID] = g
	}

	picks := make([]pickem.Pick, 0, len(inputs))
	for _, in := range inputs {
		g := gamesByID[in.GameID]
		teamID := g.HomeTeamID
		if in.Side == pickem.SideAway {
			teamID = g.AwayTeamID
		}
		picks = append(picks, pickem.Pick{
			ID:         uuid.New(),
			UserName:   user,
			Season:     g.Season,
			Week:       g.Week,
			GameID:     g.ID,
			TeamID:     teamID,
			Side:       in.Side,
			Confidence: in.Confidence,
		})
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.picks.ReplacePicks(ctx, tx, picks); err != nil {
		if store.IsConfidenceConflict(err) {
			return fmt.Errorf("%w: value already used for another game this week", pickem.ErrDuplicateConfidence)
		}
		return fmt.Errorf("failed to write picks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if store.IsConfidenceConflict(err) {
			return fmt.Errorf("%w: value already used for another game this week", pickem.ErrDuplicateConfidence)
		}
		return err
	}
	return nil
}

// PicksFor returns a user's stored picks for one week.
func (s *PickService) PicksFor(ctx context.Context, user string, season, week int) ([]pickem.Pick, error) {
	return s.picks.GetPicks(ctx, user, season, week)
}
