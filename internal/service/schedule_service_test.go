package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JakeBellis/NFL-confidence-game/internal/pickem"
	"github.com/JakeBellis/NFL-confidence-game/internal/provider"
	"github.com/JakeBellis/NFL-confidence-game/internal/store"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	// One connection keeps every query on the same in-memory database.
	database.SetMaxOpenConns(1)

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

// fakeFetcher stands in for the ESPN client.
type fakeFetcher struct {
	calls     int
	events    map[int][]provider.Event
	failWeeks map[int]bool
}

func (f *fakeFetcher) FetchWeek(ctx context.Context, season, week int) ([]provider.Event, error) {
	f.calls++
	if f.failWeeks[week] {
		return nil, errors.New("provider unavailable")
	}
	return f.events[week], nil
}

func fetchedEvent(id string, status pickem.GameStatus, home, away string, homeScore, awayScore int) provider.Event {
	side := func(teamID string, score int) provider.EventSide {
		return provider.EventSide{
			Team: pickem.Team{
				ID:           teamID,
				Name:         "Team " + teamID,
				Abbreviation: strings.ToUpper(teamID),
			},
			Score: score,
		}
	}
	return provider.Event{
		ID:        id,
		StartTime: time.Date(2025, time.September, 7, 17, 0, 0, 0, time.UTC),
		Status:    status,
		Home:      side(home, homeScore),
		Away:      side(away, awayScore),
	}
}

func TestEnsureWeekFetchesOnlyOnce(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	fetcher := &fakeFetcher{events: map[int][]provider.Event{
		1: {fetchedEvent("g1", pickem.GameScheduled, "ne", "nyj", 0, 0)},
	}}
	schedules := NewScheduleService(db, store.NewGameStore(db), fetcher)
	ctx := context.Background()

	games, teams, err := schedules.EnsureWeek(ctx, 2025, 1)
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Len(t, teams, 2)
	assert.Equal(t, "Team ne", teams["ne"].Name)
	assert.Equal(t, 1, fetcher.calls)

	// Second access is served from storage.
	games, _, err = schedules.EnsureWeek(ctx, 2025, 1)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, 1, fetcher.calls)
}

func TestRefreshWeekIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	fetcher := &fakeFetcher{events: map[int][]provider.Event{
		1: {
			fetchedEvent("g1", pickem.GameFinal, "ne", "nyj", 27, 13),
			fetchedEvent("g2", pickem.GameFinal, "dal", "phi", 21, 21),
		},
	}}
	gameStore := store.NewGameStore(db)
	schedules := NewScheduleService(db, gameStore, fetcher)
	ctx := context.Background()

	first, err := schedules.RefreshWeek(ctx, 2025, 1)
	require.NoError(t, err)
	second, err := schedules.RefreshWeek(ctx, 2025, 1)
	require.NoError(t, err)

	expected := map[string]pickem.Outcome{
		"g1": pickem.OutcomeHome,
		"g2": pickem.OutcomeTied,
	}
	assert.Equal(t, expected, first)
	assert.Equal(t, expected, second)

	games, err := gameStore.GetGamesByWeek(ctx, 2025, 1)
	require.NoError(t, err)
	require.Len(t, games, 2)
	for _, g := range games {
		if g.ID == "g1" {
			require.NotNil(t, g.WinnerTeamID)
			assert.Equal(t, "ne", *g.WinnerTeamID)
		} else {
			assert.Nil(t, g.WinnerTeamID, "tied game has no winner")
		}
	}
}

func TestRefreshWeekUpdatesScoresInPlace(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	fetcher := &fakeFetcher{events: map[int][]provider.Event{
		1: {fetchedEvent("g1", pickem.GameInProgress, "ne", "nyj", 14, 7)},
	}}
	gameStore := store.NewGameStore(db)
	schedules := NewScheduleService(db, gameStore, fetcher)
	ctx := context.Background()

	outcomes, err := schedules.RefreshWeek(ctx, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, pickem.OutcomeUndecided, outcomes["g1"])

	// The game goes final on the next fetch.
	fetcher.events[1] = []provider.Event{fetchedEvent("g1", pickem.GameFinal, "ne", "nyj", 14, 20)}
	outcomes, err = schedules.RefreshWeek(ctx, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, pickem.OutcomeAway, outcomes["g1"])

	games, err := gameStore.GetGamesByWeek(ctx, 2025, 1)
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.NotNil(t, games[0].WinnerTeamID)
	assert.Equal(t, "nyj", *games[0].WinnerTeamID)
}

func TestRefreshSeasonContinuesPastFailingWeeks(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	fetcher := &fakeFetcher{
		events: map[int][]provider.Event{
			1: {fetchedEvent("g1", pickem.GameFinal, "ne", "nyj", 27, 13)},
			3: {fetchedEvent("g3", pickem.GameScheduled, "dal", "phi", 0, 0)},
		},
		failWeeks: map[int]bool{2: true},
	}
	gameStore := store.NewGameStore(db)
	schedules := NewScheduleService(db, gameStore, fetcher)
	ctx := context.Background()

	schedules.RefreshSeason(ctx, 2025)
	assert.Equal(t, pickem.LastWeek, fetcher.calls, "every week attempted")

	for _, tc := range []struct {
		week    int
		fetched bool
	}{
		{week: 1, fetched: true},
		{week: 2, fetched: false},
		{week: 3, fetched: true},
	} {
		marker, err := gameStore.GetWeekFetch(ctx, 2025, tc.week)
		require.NoError(t, err)
		if tc.fetched {
			assert.NotNil(t, marker, "week %d", tc.week)
		} else {
			assert.Nil(t, marker, "failed week %d left untouched", tc.week)
		}
	}
}

func TestEnsureWeekSurfacesProviderFailure(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	fetcher := &fakeFetcher{failWeeks: map[int]bool{5: true}}
	schedules := NewScheduleService(db, store.NewGameStore(db), fetcher)

	_, _, err := schedules.EnsureWeek(context.Background(), 2025, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider")
}
