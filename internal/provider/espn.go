// Package provider wraps the ESPN site API scoreboard endpoint. The remote
// payload is loosely shaped, so everything is decoded into strict structs here
// at the boundary; nothing downstream ever re-interprets raw provider fields.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/JakeBellis/NFL-confidence-game/internal/pickem"
	"github.com/JakeBellis/NFL-confidence-game/internal/utils"
)

const DefaultBaseURL = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"

// ESPN serves kickoff times without seconds.
const espnTimeLayout = "2006-01-02T15:04Z"

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Event is one scheduled game as reported by the provider, already mapped to
// domain types.
type Event struct {
	ID        string
	StartTime time.Time
	Status    pickem.GameStatus
	Home      EventSide
	Away      EventSide
}

type EventSide struct {
	Team  pickem.Team
	Score int
}

type scoreboardResponse struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Status struct {
		Type struct {
			State string `json:"state"`
		} `json:"type"`
	} `json:"status"`
	Competitions []struct {
		Competitors []competitor `json:"competitors"`
	} `json:"competitions"`
}

type competitor struct {
	HomeAway string  `json:"homeAway"`
	Score    *string `json:"score"`
	Team     struct {
		ID           string `json:"id"`
		DisplayName  string `json:"displayName"`
		Abbreviation string `json:"abbreviation"`
		Logo         string `json:"logo"`
	} `json:"team"`
}

// FetchWeek returns the provider's view of one week's games. Timeouts and
// malformed payloads come back as errors, never panics; the caller decides
// whether to surface or skip them.
func (c *Client) FetchWeek(ctx context.Context, season, week int) ([]Event, error) {
	url := fmt.Sprintf("%s/scoreboard?seasontype=2&year=%d&week=%d", c.baseURL, season, week)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch scoreboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch scoreboard: unexpected status %d", resp.StatusCode)
	}

	var payload scoreboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode scoreboard: %w", err)
	}

	events := make([]Event, 0, len(payload.Events))
	for _, raw := range payload.Events {
		ev, err := convertEvent(raw)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", raw.ID, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func convertEvent(raw scoreboardEvent) (Event, error) {
	if raw.ID == "" {
		return Event{}, fmt.Errorf("missing event id")
	}

	startTime, err := parseEventTime(raw.Date)
	if err != nil {
		return Event{}, fmt.Errorf("bad date %q: %w", raw.Date, err)
	}

	status, err := convertState(raw.Status.Type.State)
	if err != nil {
		return Event{}, err
	}

	if len(raw.Competitions) == 0 {
		return Event{}, fmt.Errorf("no competitions")
	}

	var home, away *EventSide
	for _, c := range raw.Competitions[0].Competitors {
		side, err := convertCompetitor(c)
		if err != nil {
			return Event{}, err
		}
		switch c.HomeAway {
		case "home":
			home = &side
		case "away":
			away = &side
		default:
			return Event{}, fmt.Errorf("unknown homeAway value %q", c.HomeAway)
		}
	}
	if home == nil || away == nil {
		return Event{}, fmt.Errorf("missing home or away competitor")
	}

	return Event{
		ID:        raw.ID,
		StartTime: startTime,
		Status:    status,
		Home:      *home,
		Away:      *away,
	}, nil
}

func convertCompetitor(c competitor) (EventSide, error) {
	if c.Team.ID == "" {
		return EventSide{}, fmt.Errorf("competitor missing team id")
	}

	// Score is absent until the game kicks off.
	score := 0
	if c.Score != nil && *c.Score != "" {
		parsed, err := strconv.Atoi(*c.Score)
		if err != nil {
			return EventSide{}, fmt.Errorf("bad score %q for team %s: %w", *c.Score, c.Team.ID, err)
		}
		if parsed < 0 {
			return EventSide{}, fmt.Errorf("negative score %d for team %s", parsed, c.Team.ID)
		}
		score = parsed
	}

	return EventSide{
		Team: pickem.Team{
			ID:           c.Team.ID,
			Name:         c.Team.DisplayName,
			Abbreviation: c.Team.Abbreviation,
			LogoURL:      utils.StringOrNil(c.Team.Logo),
		},
		Score: score,
	}, nil
}

func convertState(state string) (pickem.GameStatus, error) {
	switch state {
	case "pre":
		return pickem.GameScheduled, nil
	case "in":
		return pickem.GameInProgress, nil
	case "post":
		return pickem.GameFinal, nil
	}
	return "", fmt.Errorf("unknown game state %q", state)
}

func parseEventTime(s string) (time.Time, error) {
	if t, err := time.Parse(espnTimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
