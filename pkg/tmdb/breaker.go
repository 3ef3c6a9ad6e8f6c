package tmdb

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/sixhops/sixhops/pkg/types"
)

// BreakerConfig tunes the circuit breaker around the remote API.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	ReadyToTripRatio float64
}

// BreakerAdapter wraps an Adapter with circuit breaking: once the remote
// API fails often enough, further calls fail fast instead of piling onto a
// degraded upstream. Individual failures still propagate unchanged; there
// is no retry.
type BreakerAdapter struct {
	adapter Adapter
	cb      *gobreaker.CircuitBreaker
	log     *slog.Logger
}

// NewBreakerAdapter wraps adapter with a circuit breaker named name.
func NewBreakerAdapter(adapter Adapter, cfg BreakerConfig, name string, logger *slog.Logger) *BreakerAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	ratio := cfg.ReadyToTripRatio
	if ratio <= 0 {
		ratio = 0.6
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= ratio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerAdapter{adapter: adapter, cb: gobreaker.NewCircuitBreaker(st), log: logger}
}

func (b *BreakerAdapter) FetchMetadata(ctx context.Context, id types.ID) (*types.Metadata, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.adapter.FetchMetadata(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*types.Metadata), nil
}

func (b *BreakerAdapter) FetchSeason(ctx context.Context, series types.ID, season int) (*types.Season, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.adapter.FetchSeason(ctx, series, season)
	})
	if err != nil {
		return nil, err
	}
	return result.(*types.Season), nil
}

func (b *BreakerAdapter) FetchEpisode(ctx context.Context, series types.ID, ref types.EpisodeRef) (*types.Episode, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.adapter.FetchEpisode(ctx, series, ref)
	})
	if err != nil {
		return nil, err
	}
	return result.(*types.Episode), nil
}

func (b *BreakerAdapter) SearchPeople(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	return b.searchThrough(func() ([]SearchResult, error) {
		return b.adapter.SearchPeople(ctx, query, opts)
	})
}

func (b *BreakerAdapter) SearchMovies(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	return b.searchThrough(func() ([]SearchResult, error) {
		return b.adapter.SearchMovies(ctx, query, opts)
	})
}

func (b *BreakerAdapter) SearchSeries(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	return b.searchThrough(func() ([]SearchResult, error) {
		return b.adapter.SearchSeries(ctx, query, opts)
	})
}

func (b *BreakerAdapter) searchThrough(call func() ([]SearchResult, error)) ([]SearchResult, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return call()
	})
	if err != nil {
		return nil, err
	}
	return result.([]SearchResult), nil
}
