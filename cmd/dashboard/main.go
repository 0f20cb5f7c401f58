package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pitie-urgences/forecast/internal/dataset"
	"github.com/pitie-urgences/forecast/internal/pipeline"
	"github.com/pitie-urgences/forecast/internal/scenario"
	"github.com/pitie-urgences/forecast/internal/shared/config"
	"github.com/pitie-urgences/forecast/internal/shared/database"
	"github.com/pitie-urgences/forecast/internal/shared/logger"
	"github.com/pitie-urgences/forecast/internal/shared/metrics"
	secmiddleware "github.com/pitie-urgences/forecast/internal/shared/middleware"
)

// App holds all application dependencies
type App struct {
	Config  *config.Config
	Log     *logger.Logger
	DB      *database.DB
	Dataset *dataset.Dataset
	Engine  *pipeline.Engine
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	app := &App{Config: cfg, Log: log}

	// The database is only needed when the history lives in Postgres
	if cfg.Dataset.Source == "postgres" {
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			log.Fatal("database not available", "error", err)
		}
		app.DB = db
		defer db.Close()

		if err := database.Migrate(ctx, db.Pool, log); err != nil {
			log.Warn("migration failed", "error", err)
		}
	}

	src, err := dataset.NewSource(cfg, app.dbPool())
	if err != nil {
		log.Fatal("invalid dataset configuration", "error", err)
	}
	data, err := dataset.Load(ctx, src)
	if err != nil {
		log.Fatal("dataset unavailable", "source", src.Name(), "error", err)
	}
	app.Dataset = data
	metrics.SetDatasetRows(len(data.Records))
	log.Info("dataset loaded", "source", data.Source, "rows", len(data.Records))

	app.Engine = pipeline.NewFromConfig(ctx, cfg, log)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(secmiddleware.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(metrics.Middleware)
	r.Use(secmiddleware.CORS(secmiddleware.DefaultCORSConfig()))

	// Health checks
	r.Get("/health", healthHandler(app))
	r.Get("/ready", readyHandler(app))
	r.Handle("/metrics", metrics.Handler())

	// API info
	r.Get("/", infoHandler)

	limiter := secmiddleware.NewIPRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Use(secmiddleware.InputSanitizer)

		r.Mount("/scenarios", scenario.NewHandler().Routes())

		forecastHandler := pipeline.NewHandler(app.Engine)
		r.Mount("/forecast", forecastHandler.Routes())
		r.Get("/model", forecastHandler.Model)

		r.Mount("/dataset", dataset.NewHandler(app.Dataset).Routes())
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
		close(done)
	}()

	status := app.Engine.ModelStatus()
	log.Info("server starting",
		"env", cfg.Server.Env,
		"addr", srv.Addr,
		"dataset", data.Source,
		"model_loaded", status.Loaded,
	)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server error", "error", err)
	}

	<-done
	log.Info("server stopped")
}

func (a *App) dbPool() *pgxpool.Pool {
	if a.DB == nil {
		return nil
	}
	return a.DB.Pool
}

func infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":    "Pitié-Salpêtrière - Prédiction des admissions aux urgences",
		"version": "0.1.0",
		"docs":    "/api/v1",
	})
}

func healthHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
		})
	}
}

func readyHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"server": "ready",
		}

		if app.Dataset != nil && len(app.Dataset.Records) > 0 {
			checks["dataset"] = "ready"
		} else {
			checks["dataset"] = "not ready: no history loaded"
		}

		// The heuristic covers a missing model
		if app.Engine.ModelStatus().Loaded {
			checks["model"] = "ready"
		} else {
			checks["model"] = "simulation mode"
		}

		if app.DB != nil {
			if err := app.DB.Health(r.Context()); err != nil {
				checks["database"] = "not ready: " + err.Error()
			} else {
				checks["database"] = "ready"
			}
		} else {
			checks["database"] = "not configured"
		}

		allReady := true
		for _, status := range checks {
			if status != "ready" && status != "not configured" && status != "simulation mode" {
				allReady = false
				break
			}
		}

		status := http.StatusOK
		if !allReady {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"status": map[bool]string{true: "ready", false: "not ready"}[allReady],
			"checks": checks,
		})
	}
}
