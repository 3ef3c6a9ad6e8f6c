package sixhops

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	lib "github.com/sixhops/sixhops"
	"github.com/sixhops/sixhops/pkg/config"
	"github.com/sixhops/sixhops/pkg/logger"
	"github.com/sixhops/sixhops/pkg/store"
	"github.com/sixhops/sixhops/pkg/telemetry"
	"github.com/sixhops/sixhops/pkg/tmdb"
)

// buildClient wires config, logging, telemetry, store and provider into a
// ready client. The caller owns Close.
func buildClient(ctx context.Context) (*lib.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.TMDB.APIKey == "" {
		return nil, nil, fmt.Errorf("TMDB API key missing: set TMDB_API_KEY or tmdb.api_key")
	}

	log := logger.NewLogger(logger.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	if cfg.Telemetry.ParquetPath != "" {
		handler, err := telemetry.NewParquetHandler(log.Handler(), cfg.Telemetry.ParquetPath)
		if err != nil {
			log.Warn("telemetry disabled", "error", err)
		} else {
			log = slog.New(handler)
		}
	}
	if cfg.Telemetry.DbURL != "" {
		db, err := sql.Open("sqlite", cfg.Telemetry.DbURL)
		if err != nil {
			log.Warn("telemetry database disabled", "error", err)
		} else {
			handler, err := telemetry.NewSQLHandler(log.Handler(), db)
			if err != nil {
				log.Warn("telemetry database disabled", "error", err)
				_ = db.Close()
			} else {
				log = slog.New(handler)
			}
		}
	}

	st, err := store.New(ctx, store.Config{
		Driver:   store.Driver(cfg.Database.Driver),
		Path:     cfg.Database.Path,
		URI:      cfg.Database.URI,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	var adapter tmdb.Adapter = tmdb.NewClient(cfg.TMDB.APIKey,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithLogger(log),
	)
	if cfg.CircuitBreaker.Enabled {
		adapter = tmdb.NewBreakerAdapter(adapter, tmdb.BreakerConfig{
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
			Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
			ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		}, "tmdb", log)
	}

	client, err := lib.NewClient(st, adapter, &lib.Config{
		MinRequestInterval: cfg.TMDB.MinRequestInterval,
	}, log)
	if err != nil {
		_ = st.Close(ctx)
		return nil, nil, err
	}
	return client, cfg, nil
}
