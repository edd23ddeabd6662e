package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JakeBellis/NFL-confidence-game/internal/pickem"
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

func testTeam(id string) pickem.Team {
	return pickem.Team{ID: id, Name: "Team " + id, Abbreviation: strings.ToUpper(id)}
}

func testGame(id string, season, week int, home, away string) pickem.Game {
	return pickem.Game{
		ID:         id,
		Season:     season,
		Week:       week,
		StartTime:  time.Date(season, time.September, 7, 17, 0, 0, 0, time.UTC),
		Status:     pickem.GameScheduled,
		HomeTeamID: home,
		AwayTeamID: away,
	}
}

// seedWeek persists teams and games in one transaction, the way the schedule
// service does after a provider fetch.
func seedWeek(t *testing.T, db *sqlx.DB, teams []pickem.Team, games []pickem.Game) {
	t.Helper()

	store := NewGameStore(db)
	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	require.NoError(t, store.UpsertTeams(context.Background(), tx, teams))
	require.NoError(t, store.UpsertGames(context.Background(), tx, games))
	require.NoError(t, tx.Commit())
}

func TestUpsertGamesIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewGameStore(db)
	teams := []pickem.Team{testTeam("ne"), testTeam("nyj")}
	game := testGame("g1", 2025, 1, "ne", "nyj")
	seedWeek(t, db, teams, []pickem.Game{game})

	// A later refresh reports the game final with a winner.
	game.Status = pickem.GameFinal
	game.HomeScore = 27
	game.AwayScore = 13
	game.WinnerTeamID = pickem.WinnerID(game)
	seedWeek(t, db, teams, []pickem.Game{game})
	seedWeek(t, db, teams, []pickem.Game{game})

	games, err := store.GetGamesByWeek(context.Background(), 2025, 1)
	require.NoError(t, err)
	require.Len(t, games, 1)

	fetched := games[0]
	assert.Equal(t, "g1", fetched.ID)
	assert.Equal(t, pickem.GameFinal, fetched.Status)
	assert.Equal(t, 27, fetched.HomeScore)
	assert.Equal(t, 13, fetched.AwayScore)
	require.NotNil(t, fetched.WinnerTeamID)
	assert.Equal(t, "ne", *fetched.WinnerTeamID)
}

func TestUpsertTeamsRefreshesMetadata(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewGameStore(db)
	team := testTeam("ne")
	seedWeek(t, db, []pickem.Team{team, testTeam("nyj")},
		[]pickem.Game{testGame("g1", 2025, 1, "ne", "nyj")})

	team.Name = "New England Patriots"
	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, store.UpsertTeams(context.Background(), tx, []pickem.Team{team}))
	require.NoError(t, tx.Commit())

	teams, err := store.GetTeamsByWeek(context.Background(), 2025, 1)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "New England Patriots", teams["ne"].Name)
}

func TestGetGamesByWeekOrdersByKickoff(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewGameStore(db)
	teams := []pickem.Team{testTeam("a"), testTeam("b"), testTeam("c"), testTeam("d")}
	early := testGame("late-id", 2025, 2, "a", "b")
	late := testGame("early-id", 2025, 2, "c", "d")
	late.StartTime = late.StartTime.Add(3 * time.Hour)
	seedWeek(t, db, teams, []pickem.Game{late, early})

	games, err := store.GetGamesByWeek(context.Background(), 2025, 2)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "late-id", games[0].ID)
	assert.Equal(t, "early-id", games[1].ID)
}

func TestWeekFetchMarkers(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewGameStore(db)
	ctx := context.Background()

	fetch, err := store.GetWeekFetch(ctx, 2025, 1)
	require.NoError(t, err)
	assert.Nil(t, fetch, "never-fetched week has no marker")

	now := time.Now().UTC()
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.MarkWeekFetched(ctx, tx, WeekFetch{
		Season:            2025,
		Week:              1,
		ScheduleFetchedAt: &now,
		ResultsFetchedAt:  &now,
	}))
	require.NoError(t, tx.Commit())

	fetch, err = store.GetWeekFetch(ctx, 2025, 1)
	require.NoError(t, err)
	require.NotNil(t, fetch)
	require.NotNil(t, fetch.ScheduleFetchedAt)
	assert.WithinDuration(t, now, *fetch.ScheduleFetchedAt, time.Second)
}
