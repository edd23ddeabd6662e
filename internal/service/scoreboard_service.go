package service

import (
	"context"
	"fmt"

	"github.com/JakeBellis/NFL-confidence-game/internal/pickem"
	"github.com/JakeBellis/NFL-confidence-game/internal/store"
)

type ScoreboardService struct {
	games *store.GameStore
	picks *store.PickStore
}

func NewScoreboardService(games *store.GameStore, picks *store.PickStore) *ScoreboardService {
	return &ScoreboardService{games: games, picks: picks}
}

// Week resolves each of the week's games and scores every user's stored picks
// against the outcomes. Everything is computed from the current snapshot; no
// state is written, so the scoreboard is always a pure re-derivation.
func (s *ScoreboardService) Week(ctx context.Context, season, week int) (map[string]int, map[string]pickem.Outcome, error) {
	games, err := s.games.GetGamesByWeek(ctx, season, week)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load games: %w", err)
	}

	outcomes := make(map[string]pickem.Outcome, len(games))
	for _, g := range games {
		outcomes[g.ID] = pickem.Resolve(g)
	}

	picks, err := s.picks.GetWeekPicks(ctx, season, week)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load picks: %w", err)
	}

	return pickem.ScoreWeek(outcomes, picks), outcomes, nil
}

// Season returns cumulative credited confidence per user across all weeks.
func (s *ScoreboardService) Season(ctx context.Context, season int) (map[string]int, error) {
	totals, err := s.picks.SeasonTotals(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to compute season totals: %w", err)
	}
	return totals, nil
}
