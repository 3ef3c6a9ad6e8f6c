package sixhops

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sixhops/sixhops/pkg/cache"
	"github.com/sixhops/sixhops/pkg/explore"
	"github.com/sixhops/sixhops/pkg/store"
	"github.com/sixhops/sixhops/pkg/tmdb"
	"github.com/sixhops/sixhops/pkg/types"
)

// SixHops is the main interface for exploring the person/credit graph. It
// wraps a durable store, a memoizing node cache, and the remote metadata
// provider behind a handful of high-level operations.
type SixHops interface {
	// Explore walks the graph outward from the requested identities to at
	// most maxDepth degrees of separation, persists every explored depth,
	// and returns the requested nodes fully resolved.
	Explore(ctx context.Context, ids []types.ID, opts ExploreOptions) ([]types.Node, error)

	// LookupPerson, LookupMovie and LookupSeries resolve a free-text name
	// (or a numeric id) to a node.
	LookupPerson(ctx context.Context, nameOrID string) (*types.Person, error)
	LookupMovie(ctx context.Context, nameOrID string, year int) (*types.Movie, error)
	LookupSeries(ctx context.Context, nameOrID string, firstAirYear int) (*types.Series, error)

	// WhoPlayed ranks a credit's cast against a character name query.
	WhoPlayed(ctx context.Context, credit types.ID, query string, opts WhoPlayedOptions) ([]CharacterMatch, error)

	// RebuildCreditEdges repopulates the actor/credit edge tables from the
	// metadata already persisted in the store.
	RebuildCreditEdges(ctx context.Context) (int, error)

	// CoStars lists, for one person, every other person sharing at least
	// one stored credit, with the shared credit identities.
	CoStars(ctx context.Context, person types.ID) (map[types.ID][]types.ID, error)

	// Close closes the underlying store.
	Close(ctx context.Context) error
}

// Client is the main implementation of the SixHops interface.
type Client struct {
	store   store.Store
	cache   *cache.Cache
	engine  *explore.Engine
	adapter tmdb.Adapter
	limiter *cache.Limiter
	logger  *slog.Logger
}

// Config holds configuration for the sixhops client.
type Config struct {
	// MinRequestInterval spaces provider requests; zero disables throttling.
	MinRequestInterval time.Duration
	// Clock drives the rate limiter; nil means the system clock.
	Clock cache.Clock
}

// NewClient creates a client over the given store and provider adapter.
func NewClient(st store.Store, adapter tmdb.Adapter, config *Config, logger *slog.Logger) (*Client, error) {
	if st == nil {
		return nil, errors.New("sixhops: store is required")
	}
	if adapter == nil {
		return nil, errors.New("sixhops: adapter is required")
	}
	if config == nil {
		config = &Config{MinRequestInterval: time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}

	limiter := cache.NewLimiter(config.MinRequestInterval, config.Clock)
	nodeCache := cache.New(st, adapter, limiter, logger)

	return &Client{
		store:   st,
		cache:   nodeCache,
		engine:  explore.New(nodeCache, logger),
		adapter: adapter,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Cache exposes the node cache, mainly for tests and tooling.
func (c *Client) Cache() *cache.Cache {
	return c.cache
}

// Store exposes the underlying store.
func (c *Client) Store() store.Store {
	return c.store
}

func (c *Client) Close(ctx context.Context) error {
	return c.store.Close(ctx)
}

var (
	// ErrNotFound is returned when a lookup resolves to nothing.
	ErrNotFound = errors.New("not found")
	// ErrNotACredit is returned when a cast operation targets a person.
	ErrNotACredit = errors.New("identity is not a credit")
)
