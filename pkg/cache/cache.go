// Package cache sits between the exploration engine and the remote provider.
// It memoizes nodes for the lifetime of the process, fills misses from the
// durable store before ever touching the provider, and throttles the calls
// that do reach it.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sixhops/sixhops/pkg/store"
	"github.com/sixhops/sixhops/pkg/tmdb"
	"github.com/sixhops/sixhops/pkg/types"
)

// LoadOptions control how much of a node is materialized on load.
type LoadOptions struct {
	// LoadSeasons eagerly fetches every season of a series.
	LoadSeasons bool
	// LoadEpisodes additionally fetches full episode credits. Implies
	// LoadSeasons.
	LoadEpisodes bool
}

type entry struct {
	node  types.Node
	depth int
}

// Cache is the single resolver the rest of the module goes through. It
// implements types.Resolver; the store is the first fallback for a miss and
// the provider the last.
type Cache struct {
	store   store.Store
	adapter tmdb.Adapter
	limiter *Limiter
	log     *slog.Logger

	mu    sync.Mutex
	nodes map[types.ID]*entry
}

// New builds a cache over the given store and provider adapter.
func New(st store.Store, adapter tmdb.Adapter, limiter *Limiter, logger *slog.Logger) *Cache {
	return &Cache{
		store:   st,
		adapter: adapter,
		limiter: limiter,
		log:     logger,
		nodes:   map[types.ID]*entry{},
	}
}

// Load returns the node for id together with the depth to which it has
// already been explored. With useCache set, a previously loaded node is
// returned as-is; otherwise the store is consulted (creating a zero-depth
// record when the identity is new) and the node is rebuilt.
func (c *Cache) Load(ctx context.Context, id types.ID, useCache bool, opts LoadOptions) (types.Node, int, error) {
	c.mu.Lock()
	if e, ok := c.nodes[id]; ok && useCache {
		c.mu.Unlock()
		return e.node, e.depth, nil
	}
	c.mu.Unlock()

	meta, depth, err := c.store.LoadRecord(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	node, err := types.NewNode(id, meta, c)
	if err != nil {
		return nil, 0, err
	}

	if opts.LoadSeasons || opts.LoadEpisodes {
		if series, ok := node.(*types.Series); ok {
			if err := series.LoadSeasons(ctx, opts.LoadEpisodes); err != nil {
				return nil, 0, err
			}
		}
	}

	c.mu.Lock()
	c.nodes[id] = &entry{node: node, depth: depth}
	c.mu.Unlock()
	return node, depth, nil
}

// Depth returns the explored depth last seen for id, zero when the node has
// not been loaded this run.
func (c *Cache) Depth(id types.ID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.nodes[id]; ok {
		return e.depth
	}
	return 0
}

// SetDepth records a new explored depth for an already loaded node.
func (c *Cache) SetDepth(id types.ID, depth int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.nodes[id]; ok {
		e.depth = depth
	}
}

// Resolve fetches the metadata document for id from the provider, persists
// it, and memoizes it. The provider is reached at most once per identity and
// process.
func (c *Cache) Resolve(ctx context.Context, id types.ID) (*types.Metadata, error) {
	c.mu.Lock()
	if e, ok := c.nodes[id]; ok {
		if meta := e.node.Meta(); meta != nil {
			c.mu.Unlock()
			return meta, nil
		}
	}
	c.mu.Unlock()

	c.limiter.Wait()
	c.log.Debug("fetching metadata", "id", id.String())
	meta, err := c.adapter.FetchMetadata(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolving %v: %w", id, err)
	}
	if err := c.store.SaveRecord(ctx, id, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// ResolveSeason fetches one season sub-tree from the provider.
func (c *Cache) ResolveSeason(ctx context.Context, series types.ID, season int) (*types.Season, error) {
	c.limiter.Wait()
	c.log.Debug("fetching season", "series", series.String(), "season", season)
	s, err := c.adapter.FetchSeason(ctx, series, season)
	if err != nil {
		return nil, fmt.Errorf("resolving season %d of %v: %w", season, series, err)
	}
	return s, nil
}

// ResolveEpisode fetches one episode, credits included, from the provider.
func (c *Cache) ResolveEpisode(ctx context.Context, series types.ID, ref types.EpisodeRef) (*types.Episode, error) {
	c.limiter.Wait()
	c.log.Debug("fetching episode", "series", series.String(), "season", ref.Season, "episode", ref.Episode)
	ep, err := c.adapter.FetchEpisode(ctx, series, ref)
	if err != nil {
		return nil, fmt.Errorf("resolving %v s%de%d: %w", series, ref.Season, ref.Episode, err)
	}
	return ep, nil
}

// Persist writes an updated metadata document back to the store. Updates to
// documents the process already holds do not consult the provider and are
// not throttled.
func (c *Cache) Persist(ctx context.Context, id types.ID, meta *types.Metadata) error {
	return c.store.SaveRecord(ctx, id, meta)
}
