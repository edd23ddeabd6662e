package pickem

import (
	"time"

	"github.com/google/uuid"
)

// Weeks of an NFL regular season.
const (
	FirstWeek = 1
	LastWeek  = 18
)

type GameStatus string

const (
	GameScheduled  GameStatus = "scheduled"
	GameInProgress GameStatus = "in_progress"
	GameFinal      GameStatus = "final"
)

type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// ParseSide converts a user-supplied side string into a Side.
func ParseSide(s string) (Side, bool) {
	switch Side(s) {
	case SideHome:
		return SideHome, true
	case SideAway:
		return SideAway, true
	}
	return "", false
}

type Team struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Abbreviation string  `db:"abbreviation" json:"abbreviation"`
	LogoURL      *string `db:"logo_url" json:"logoUrl,omitempty"`
}

type Game struct {
	ID         string     `db:"id" json:"id"`
	Season     int        `db:"season" json:"season"`
	Week       int        `db:"week" json:"week"`
	StartTime  time.Time  `db:"start_time" json:"startTime"`
	Status     GameStatus `db:"status" json:"status"`
	HomeTeamID string     `db:"home_team_id" json:"homeTeamId"`
	AwayTeamID string     `db:"away_team_id" json:"awayTeamId"`
	HomeScore  int        `db:"home_score" json:"homeScore"`
	AwayScore  int        `db:"away_score" json:"awayScore"`

	// Set if and only if the game is final and the scores differ.
	WinnerTeamID *string `db:"winner_team_id" json:"winnerTeamId,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Pick is one user's call on one game. Identity is (user, game); a
// resubmission for the same pair overwrites team, side and confidence.
type Pick struct {
	ID         uuid.UUID `db:"id" json:"-"`
	UserName   string    `db:"user_name" json:"user"`
	Season     int       `db:"season" json:"season"`
	Week       int       `db:"week" json:"week"`
	GameID     string    `db:"game_id" json:"game"`
	TeamID     string    `db:"team_id" json:"teamId"`
	Side       Side      `db:"side" json:"side"`
	Confidence int       `db:"confidence" json:"confidence"`
	CreatedAt  time.Time `db:"created_at" json:"-"`
	UpdatedAt  time.Time `db:"updated_at" json:"-"`
}

// PickInput is a candidate pick before it has been accepted and persisted.
type PickInput struct {
	GameID     string
	Side       Side
	Confidence int
}
