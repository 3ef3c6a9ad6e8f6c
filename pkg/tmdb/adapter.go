// Package tmdb talks to the remote media-metadata source. The exploration
// engine only ever sees the Adapter interface; the HTTP client below is the
// production implementation.
package tmdb

import (
	"context"

	"github.com/sixhops/sixhops/pkg/types"
)

// Adapter fetches provider metadata for identities. Results are opaque
// documents to the callers above the cache layer.
type Adapter interface {
	// FetchMetadata fetches the full document for one identity: info plus
	// combined credits for a person, info plus cast plus external ids merged
	// into the info blob for a movie or series.
	FetchMetadata(ctx context.Context, id types.ID) (*types.Metadata, error)

	// FetchSeason fetches one season of a series, episode stubs and guest
	// stars included.
	FetchSeason(ctx context.Context, series types.ID, season int) (*types.Season, error)

	// FetchEpisode fetches one episode together with its own credits.
	FetchEpisode(ctx context.Context, series types.ID, ref types.EpisodeRef) (*types.Episode, error)

	// SearchPeople, SearchMovies and SearchSeries resolve free-text queries
	// to candidate identities.
	SearchPeople(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
	SearchMovies(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
	SearchSeries(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}

// SearchOptions narrow a remote name search.
type SearchOptions struct {
	// Limit caps the number of results; 0 means DefaultSearchLimit.
	Limit int
	// Year filters movies by release year.
	Year int
	// FirstAirYear filters series by first air year.
	FirstAirYear int
}

// SearchResult is one candidate identity from a name search.
type SearchResult struct {
	ID   types.ID
	Name string
	Date string
}

// DefaultSearchLimit caps name searches when no limit is given.
const DefaultSearchLimit = 5
