package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JakeBellis/NFL-confidence-game/internal/pickem"
	"github.com/JakeBellis/NFL-confidence-game/internal/provider"
	"github.com/JakeBellis/NFL-confidence-game/internal/store"
	"github.com/jmoiron/sqlx"
)

// WeekFetcher is the slice of the provider client the schedule service needs;
// tests swap in a fake.
type WeekFetcher interface {
	FetchWeek(ctx context.Context, season, week int) ([]provider.Event, error)
}

type ScheduleService struct {
	db       *sqlx.DB
	store    *store.GameStore
	provider WeekFetcher
}

func NewScheduleService(db *sqlx.DB, store *store.GameStore, provider WeekFetcher) *ScheduleService {
	return &ScheduleService{db: db, store: store, provider: provider}
}

// EnsureWeek returns a week's games and teams, fetching from the provider
// first if this week has never been seen.
func (s *ScheduleService) EnsureWeek(ctx context.Context, season, week int) ([]pickem.Game, map[string]pickem.Team, error) {
	fetch, err := s.store.GetWeekFetch(ctx, season, week)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read fetch marker: %w", err)
	}

	if fetch == nil || fetch.ScheduleFetchedAt == nil {
		if _, err := s.RefreshWeek(ctx, season, week); err != nil {
			return nil, nil, err
		}
	}

	games, err := s.store.GetGamesByWeek(ctx, season, week)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load games: %w", err)
	}
	teams, err := s.store.GetTeamsByWeek(ctx, season, week)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load teams: %w", err)
	}
	return games, teams, nil
}

// RefreshWeek forces a provider fetch for one week, persists teams and games
// in a single transaction, and returns the resolved outcome per game. Winner
// derivation and outcome resolution are pure re-derivations from the latest
// scores, so overlapping refreshes for the same week are harmless; the last
// write wins.
func (s *ScheduleService) RefreshWeek(ctx context.Context, season, week int) (map[string]pickem.Outcome, error) {
	events, err := s.provider.FetchWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("provider fetch for week %d of %d: %w", week, season, err)
	}

	teamsByID := make(map[string]pickem.Team)
	games := make([]pickem.Game, 0, len(events))
	for _, ev := range events {
		teamsByID[ev.Home.Team.ID] = ev.Home.Team
		teamsByID[ev.Away.Team.ID] = ev.Away.Team

		g := pickem.Game{
			ID:         ev.ID,
			Season:     season,
			Week:       week,
			StartTime:  ev.StartTime,
			Status:     ev.Status,
			HomeTeamID: ev.Home.Team.ID,
			AwayTeamID: ev.Away.Team.ID,
			HomeScore:  ev.Home.Score,
			AwayScore:  ev.Away.Score,
		}
		g.WinnerTeamID = pickem.WinnerID(g)
		games = append(games, g)
	}

	teams := make([]pickem.Team, 0, len(teamsByID))
	for _, t := range teamsByID {
		teams = append(teams, t)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.UpsertTeams(ctx, tx, teams); err != nil {
		return nil, fmt.Errorf("failed to upsert teams: %w", err)
	}
	if err := s.store.UpsertGames(ctx, tx, games); err != nil {
		return nil, fmt.Errorf("failed to upsert games: %w", err)
	}

	now := time.Now().UTC()
	marker := store.WeekFetch{
		Season:            season,
		Week:              week,
		ScheduleFetchedAt: &now,
		ResultsFetchedAt:  &now,
	}
	if err := s.store.MarkWeekFetched(ctx, tx, marker); err != nil {
		return nil, fmt.Errorf("failed to mark week fetched: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	outcomes := make(map[string]pickem.Outcome, len(games))
	for _, g := range games {
		outcomes[g.ID] = pickem.Resolve(g)
	}
	return outcomes, nil
}

// RefreshSeason sweeps every week of a season. Weeks fail independently: a
// provider hiccup on one is logged and the sweep moves on, since the next
// scheduled run retries everything anyway.
func (s *ScheduleService) RefreshSeason(ctx context.Context, season int) {
	for week := pickem.FirstWeek; week <= pickem.LastWeek; week++ {
		if _, err := s.RefreshWeek(ctx, season, week); err != nil {
			slog.Error("week refresh failed", "season", season, "week", week, "error", err)
			continue
		}
	}
}
