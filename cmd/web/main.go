package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/JakeBellis/NFL-confidence-game/internal/db"
	"github.com/JakeBellis/NFL-confidence-game/internal/pickem"
	"github.com/JakeBellis/NFL-confidence-game/internal/provider"
	"github.com/JakeBellis/NFL-confidence-game/internal/refresh"
	"github.com/JakeBellis/NFL-confidence-game/internal/service"
	"github.com/JakeBellis/NFL-confidence-game/internal/store"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	database := db.InitDB(envOr("DB_PATH", "confidence.db"))
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = 30 * 24 * time.Hour
	sessionManager.Store = sqlite3store.New(database.DB)

	gameStore := store.NewGameStore(database)
	pickStore := store.NewPickStore(database)
	espn := provider.NewClient(os.Getenv("PROVIDER_BASE_URL"))
	scheduleService := service.NewScheduleService(database, gameStore, espn)
	pickService := service.NewPickService(database, gameStore, pickStore)
	scoreboardService := service.NewScoreboardService(gameStore, pickStore)

	season := pickem.SeasonFor(time.Now())
	if v := os.Getenv("SEASON"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			log.Fatal("Invalid SEASON:", err)
		}
		season = parsed
	}

	runner := refresh.NewRunner(context.Background())
	if _, err := runner.Add(envOr("RESULTS_CRON", "@daily"), func(ctx context.Context) {
		scheduleService.RefreshSeason(ctx, season)
	}); err != nil {
		log.Fatal("Failed to schedule results sweep:", err)
	}
	runner.Start()
	defer runner.Stop()

	router := newRouter(sessionManager, season, scheduleService, pickService, scoreboardService)

	addr := envOr("ADDR", ":8080")
	log.Printf("Server starting on http://localhost%s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
