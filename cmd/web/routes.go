package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JakeBellis/NFL-confidence-game/internal/httputil"
	"github.com/JakeBellis/NFL-confidence-game/internal/middleware"
	"github.com/JakeBellis/NFL-confidence-game/internal/pickem"
	"github.com/JakeBellis/NFL-confidence-game/internal/service"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type submitPicksRequest struct {
	User   string `json:"user"`
	Season int    `json:"season"`
	Week   int    `json:"week"`
	Picks  []struct {
		Game       string `json:"game"`
		Side       string `json:"side"`
		Confidence int    `json:"confidence"`
	} `json:"picks"`
}

type updateResultsRequest struct {
	Season int `json:"season"`
	Week   int `json:"week"`
}

func newRouter(
	sessionManager *scs.SessionManager,
	defaultSeason int,
	schedules *service.ScheduleService,
	picks *service.PickService,
	scoreboards *service.ScoreboardService,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.WithRememberedUser(sessionManager))

	// Serve the pick form page and its assets
	fileServer := http.FileServer(http.Dir("./static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./static/index.html")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/period-info", func(w http.ResponseWriter, r *http.Request) {
			weeks := make([]int, 0, pickem.LastWeek)
			for week := pickem.FirstWeek; week <= pickem.LastWeek; week++ {
				weeks = append(weeks, week)
			}
			httputil.JSON(w, http.StatusOK, map[string]any{
				"season": defaultSeason,
				"weeks":  weeks,
			})
		})

		r.Get("/games", func(w http.ResponseWriter, r *http.Request) {
			season, week, err := seasonWeekParams(r, defaultSeason)
			if err != nil {
				httputil.BadRequest(w, err.Error(), nil)
				return
			}

			games, teams, err := schedules.EnsureWeek(r.Context(), season, week)
			if err != nil {
				httputil.InternalServerError(w, "Failed to load schedule", err)
				return
			}
			if games == nil {
				games = []pickem.Game{}
			}

			httputil.JSON(w, http.StatusOK, map[string]any{
				"season":          season,
				"week":            week,
				"games":           games,
				"teams":           teams,
				"legalConfidence": pickem.LegalConfidence(len(games)),
			})
		})

		r.Get("/picks", func(w http.ResponseWriter, r *http.Request) {
			season, week, err := seasonWeekParams(r, defaultSeason)
			if err != nil {
				httputil.BadRequest(w, err.Error(), nil)
				return
			}

			user := r.URL.Query().Get("user")
			if user == "" {
				user, _ = middleware.RememberedUser(r.Context())
			}
			if user == "" {
				httputil.JSON(w, http.StatusOK, map[string]any{"user": "", "picks": []pickem.Pick{}})
				return
			}

			stored, err := picks.PicksFor(r.Context(), user, season, week)
			if err != nil {
				httputil.InternalServerError(w, "Failed to load picks", err)
				return
			}
			if stored == nil {
				stored = []pickem.Pick{}
			}
			httputil.JSON(w, http.StatusOK, map[string]any{"user": user, "picks": stored})
		})

		r.Post("/picks", func(w http.ResponseWriter, r *http.Request) {
			var req submitPicksRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			if req.User == "" {
				httputil.BadRequest(w, "user is required", nil)
				return
			}
			if req.Week < pickem.FirstWeek || req.Week > pickem.LastWeek {
				httputil.BadRequest(w, "Missing or invalid week", nil)
				return
			}
			if req.Season <= 0 {
				httputil.BadRequest(w, "Missing or invalid season", nil)
				return
			}

			inputs := make([]pickem.PickInput, 0, len(req.Picks))
			for _, p := range req.Picks {
				side, ok := pickem.ParseSide(p.Side)
				if !ok {
					httputil.BadRequest(w, fmt.Sprintf("Invalid side %q", p.Side), nil)
					return
				}
				inputs = append(inputs, pickem.PickInput{
					GameID:     p.Game,
					Side:       side,
					Confidence: p.Confidence,
				})
			}

			if err := picks.SubmitPicks(r.Context(), req.User, req.Season, req.Week, inputs); err != nil {
				if errors.Is(err, pickem.ErrInvalidPickSet) {
					httputil.BadRequest(w, err.Error(), nil)
					return
				}
				httputil.InternalServerError(w, "Failed to save picks", err)
				return
			}

			middleware.RememberUser(r.Context(), sessionManager, req.User)
			httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/scoreboard", func(w http.ResponseWriter, r *http.Request) {
			season, week, err := seasonWeekParams(r, defaultSeason)
			if err != nil {
				httputil.BadRequest(w, err.Error(), nil)
				return
			}

			scores, outcomes, err := scoreboards.Week(r.Context(), season, week)
			if err != nil {
				httputil.InternalServerError(w, "Failed to compute scoreboard", err)
				return
			}
			httputil.JSON(w, http.StatusOK, map[string]any{
				"scores":    scores,
				"outcomes":  outcomes,
				"standings": pickem.Standings(scores),
			})
		})

		r.Get("/scoreboard/season", func(w http.ResponseWriter, r *http.Request) {
			season, err := seasonParam(r, defaultSeason)
			if err != nil {
				httputil.BadRequest(w, err.Error(), nil)
				return
			}

			scores, err := scoreboards.Season(r.Context(), season)
			if err != nil {
				httputil.InternalServerError(w, "Failed to compute season scoreboard", err)
				return
			}
			httputil.JSON(w, http.StatusOK, map[string]any{
				"scores":    scores,
				"standings": pickem.Standings(scores),
			})
		})

		r.Post("/update-results", func(w http.ResponseWriter, r *http.Request) {
			var req updateResultsRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			if req.Week < pickem.FirstWeek || req.Week > pickem.LastWeek {
				httputil.BadRequest(w, "Missing or invalid week", nil)
				return
			}
			season := req.Season
			if season == 0 {
				season = defaultSeason
			}

			outcomes, err := schedules.RefreshWeek(r.Context(), season, req.Week)
			if err != nil {
				httputil.InternalServerError(w, "Failed to refresh results", err)
				return
			}
			httputil.JSON(w, http.StatusOK, map[string]any{"outcomes": outcomes})
		})
	})

	return r
}

func seasonParam(r *http.Request, defaultSeason int) (int, error) {
	raw := r.URL.Query().Get("season")
	if raw == "" {
		return defaultSeason, nil
	}
	season, err := strconv.Atoi(raw)
	if err != nil || season <= 0 {
		return 0, fmt.Errorf("Missing or invalid season")
	}
	return season, nil
}

func seasonWeekParams(r *http.Request, defaultSeason int) (int, int, error) {
	season, err := seasonParam(r, defaultSeason)
	if err != nil {
		return 0, 0, err
	}
	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil || week < pickem.FirstWeek || week > pickem.LastWeek {
		return 0, 0, fmt.Errorf("Missing or invalid week")
	}
	return season, week, nil
}
