package sixhops

import (
	"context"
	"fmt"
	"sort"

	"github.com/sixhops/sixhops/pkg/cache"
	"github.com/sixhops/sixhops/pkg/explore"
	"github.com/sixhops/sixhops/pkg/types"
)

func cacheLoadOptions(opts ExploreOptions) cache.LoadOptions {
	return cache.LoadOptions{LoadSeasons: opts.LoadSeasons, LoadEpisodes: opts.LoadEpisodes}
}

// ExploreOptions configure one exploration run.
type ExploreOptions struct {
	// MaxDepth bounds the run in degrees of separation.
	MaxDepth int
	// Credits restricts which credit kinds are followed; empty means all.
	Credits []types.Kind
	// LoadSeasons and LoadEpisodes materialize series sub-trees while
	// walking, so cast views include guest stars.
	LoadSeasons  bool
	LoadEpisodes bool
	// Discipline selects the frontier order; the final ledger is the same
	// either way.
	Discipline explore.Discipline
}

// Explore runs the engine inside a single store transaction: either every
// touched identity's depth is persisted, or none is. The returned nodes are
// the requested identities, resolved.
func (c *Client) Explore(ctx context.Context, ids []types.ID, opts ExploreOptions) ([]types.Node, error) {
	if err := c.store.Begin(ctx); err != nil {
		return nil, err
	}

	ledger, err := c.engine.Run(ctx, ids, explore.Options{
		MaxDepth:     opts.MaxDepth,
		Credits:      opts.Credits,
		LoadSeasons:  opts.LoadSeasons,
		LoadEpisodes: opts.LoadEpisodes,
		Discipline:   opts.Discipline,
	})
	if err != nil {
		if rbErr := c.store.Rollback(ctx); rbErr != nil {
			c.logger.Error("rollback after failed run", "error", rbErr)
		}
		return nil, fmt.Errorf("exploration run aborted: %w", err)
	}

	// Deterministic persist order keeps debug traces stable.
	touched := make([]types.ID, 0, len(ledger))
	for id := range ledger {
		touched = append(touched, id)
	}
	sort.Slice(touched, func(i, j int) bool {
		if touched[i].Kind != touched[j].Kind {
			return touched[i].Kind < touched[j].Kind
		}
		return touched[i].N < touched[j].N
	})

	for _, id := range touched {
		if err := c.store.UpdateDepth(ctx, id, ledger[id]); err != nil {
			if rbErr := c.store.Rollback(ctx); rbErr != nil {
				c.logger.Error("rollback after failed depth write", "error", rbErr)
			}
			return nil, err
		}
		c.cache.SetDepth(id, ledger[id])
	}

	if err := c.store.Commit(ctx); err != nil {
		return nil, err
	}
	c.logger.Info("Persisted explored depths", "touched", len(touched), "max_depth", opts.MaxDepth)

	nodes := make([]types.Node, 0, len(ids))
	for _, id := range ids {
		node, _, err := c.cache.Load(ctx, id, true, cacheLoadOptions(opts))
		if err != nil {
			return nil, err
		}
		if err := node.Ensure(ctx); err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
