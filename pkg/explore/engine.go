// Package explore implements the depth-bounded traversal over the bipartite
// person/credit graph. The engine only reads nodes through the cache layer
// and reports a depth ledger; persisting the ledger is the caller's job.
package explore

import (
	"context"
	"log/slog"

	"github.com/sixhops/sixhops/pkg/cache"
	"github.com/sixhops/sixhops/pkg/types"
)

// Discipline is the frontier removal order. The final ledger does not depend
// on it; the number of provider fetches before a mid-run failure does.
type Discipline int

const (
	// FIFO explores breadth-first. This is the default: diagnostic output
	// follows degrees of separation outward from the requested nodes.
	FIFO Discipline = iota
	// LIFO explores depth-first. Useful to confirm order independence.
	LIFO
)

// Options configure one exploration run.
type Options struct {
	// MaxDepth bounds the traversal in degrees of separation. A degree is
	// consumed only when stepping from a credit to a person.
	MaxDepth int

	// Credits restricts which credit kinds are followed. Empty means all.
	Credits []types.Kind

	// LoadSeasons and LoadEpisodes materialize series sub-trees as series
	// nodes are loaded.
	LoadSeasons  bool
	LoadEpisodes bool

	Discipline Discipline
}

func (o Options) loadOptions() cache.LoadOptions {
	return cache.LoadOptions{LoadSeasons: o.LoadSeasons, LoadEpisodes: o.LoadEpisodes}
}

func (o Options) enabledCredits() map[types.Kind]bool {
	kinds := o.Credits
	if len(kinds) == 0 {
		kinds = types.CreditKinds()
	}
	enabled := make(map[types.Kind]bool, len(kinds))
	for _, k := range kinds {
		enabled[k] = true
	}
	return enabled
}

// Ledger maps every identity touched by a run to its final explored depth.
type Ledger map[types.ID]int

// Loader is the slice of the cache the engine needs.
type Loader interface {
	Load(ctx context.Context, id types.ID, useCache bool, opts cache.LoadOptions) (types.Node, int, error)
}

// Engine walks the graph outward from a set of seed identities.
type Engine struct {
	loader Loader
	log    *slog.Logger
}

func New(loader Loader, logger *slog.Logger) *Engine {
	return &Engine{loader: loader, log: logger}
}

// item is one pending unit of frontier work. The same identity may appear
// several times with different depth combinations before converging.
type item struct {
	node  types.Node
	known int
	start int
}

// Run explores outward from ids until the frontier empties and returns the
// union of the person and credit depth ledgers. A provider failure aborts the
// run; partial ledgers are never returned.
func (e *Engine) Run(ctx context.Context, ids []types.ID, opts Options) (Ledger, error) {
	people := Ledger{}
	credits := Ledger{}
	ledgerFor := func(id types.ID) Ledger {
		if id.Kind == types.KindPerson {
			return people
		}
		return credits
	}
	enabled := opts.enabledCredits()

	var frontier []item
	for _, id := range ids {
		node, depth, err := e.loader.Load(ctx, id, true, opts.loadOptions())
		if err != nil {
			return nil, err
		}
		frontier = append(frontier, item{node: node, known: depth, start: 0})
	}

	for len(frontier) > 0 {
		var it item
		if opts.Discipline == LIFO {
			it, frontier = frontier[len(frontier)-1], frontier[:len(frontier)-1]
		} else {
			it, frontier = frontier[0], frontier[1:]
		}

		id := it.node.ID()
		ledger := ledgerFor(id)
		merged := max(ledger[id], it.known)
		ledger[id] = merged

		budget := opts.MaxDepth - it.start
		if budget <= 0 {
			continue
		}

		neighbors, err := it.node.Related(ctx)
		if err != nil {
			return nil, err
		}
		e.log.Debug("expanding node", "id", id.String(), "budget", budget, "neighbors", len(neighbors))

		for _, nid := range neighbors {
			if nid.Kind.IsCredit() && !enabled[nid.Kind] {
				continue
			}
			hop := it.start
			if nid.Kind == types.KindPerson {
				hop++
			}

			neighbor, persisted, err := e.loader.Load(ctx, nid, true, opts.loadOptions())
			if err != nil {
				return nil, err
			}
			combined := max(ledgerFor(nid)[nid], persisted)
			if combined >= opts.MaxDepth {
				continue
			}
			frontier = append(frontier, item{node: neighbor, known: combined, start: hop})
		}

		// Expansion certifies the node to its full remaining budget, not
		// merely to whatever depth it carried in.
		ledger[id] = max(merged, budget)
	}

	out := make(Ledger, len(people)+len(credits))
	for id, depth := range people {
		out[id] = depth
	}
	for id, depth := range credits {
		out[id] = depth
	}
	return out, nil
}
