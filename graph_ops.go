package sixhops

import (
	"context"

	"github.com/sixhops/sixhops/pkg/types"
)

// RebuildCreditEdges repopulates the actor/credit edge tables from the
// metadata documents already persisted by past explorations. It is a
// maintenance pass, not part of exploration itself, and runs in its own
// transaction. Returns the number of edges written (duplicates included).
func (c *Client) RebuildCreditEdges(ctx context.Context) (int, error) {
	if err := c.store.Begin(ctx); err != nil {
		return 0, err
	}

	edges := 0
	err := func() error {
		people, err := c.store.ListIDs(ctx, types.KindPerson)
		if err != nil {
			return err
		}
		for _, person := range people {
			meta, _, err := c.store.LoadRecord(ctx, person)
			if err != nil {
				return err
			}
			if meta == nil {
				continue
			}
			for _, credit := range meta.Credits {
				kind, err := types.ParseMediaType(credit.MediaType)
				if err != nil {
					// Credits of other media types are not tracked.
					continue
				}
				if err := c.store.InsertCreditEdge(ctx, person.N, types.NewID(kind, credit.ID)); err != nil {
					return err
				}
				edges++
			}
		}
		return nil
	}()
	if err != nil {
		if rbErr := c.store.Rollback(ctx); rbErr != nil {
			c.logger.Error("rollback after failed edge rebuild", "error", rbErr)
		}
		return 0, err
	}

	if err := c.store.Commit(ctx); err != nil {
		return 0, err
	}
	c.logger.Info("Persisted credit edges", "edges", edges)
	return edges, nil
}

// CoStars lists every person sharing at least one stored credit with the
// given person, mapped to the credits they share. It only consults the edge
// tables; run RebuildCreditEdges first to bring them up to date.
func (c *Client) CoStars(ctx context.Context, person types.ID) (map[types.ID][]types.ID, error) {
	shared := map[types.ID][]types.ID{}

	for _, kind := range types.CreditKinds() {
		credits, err := c.store.ActorCredits(ctx, person.N, kind)
		if err != nil {
			return nil, err
		}
		for _, creditN := range credits {
			credit := types.NewID(kind, creditN)
			cast, err := c.store.CreditActors(ctx, credit)
			if err != nil {
				return nil, err
			}
			for _, actor := range cast {
				if actor == person.N {
					continue
				}
				costar := types.NewID(types.KindPerson, actor)
				shared[costar] = append(shared[costar], credit)
			}
		}
	}
	return shared, nil
}
