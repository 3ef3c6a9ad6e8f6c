package sixhops

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sixhops/sixhops/pkg/tmdb"
	"github.com/sixhops/sixhops/pkg/types"
)

// LookupPerson resolves a person by numeric id or by name. Name lookups hit
// the provider's search endpoint and take the best match.
func (c *Client) LookupPerson(ctx context.Context, nameOrID string) (*types.Person, error) {
	node, err := c.lookup(ctx, types.KindPerson, nameOrID, tmdb.SearchOptions{})
	if err != nil {
		return nil, err
	}
	return node.(*types.Person), nil
}

// LookupMovie resolves a movie by numeric id or title. A non-zero year
// narrows title searches.
func (c *Client) LookupMovie(ctx context.Context, nameOrID string, year int) (*types.Movie, error) {
	node, err := c.lookup(ctx, types.KindMovie, nameOrID, tmdb.SearchOptions{Year: year})
	if err != nil {
		return nil, err
	}
	return node.(*types.Movie), nil
}

// LookupSeries resolves a series by numeric id or name. A non-zero
// firstAirYear narrows name searches.
func (c *Client) LookupSeries(ctx context.Context, nameOrID string, firstAirYear int) (*types.Series, error) {
	node, err := c.lookup(ctx, types.KindSeries, nameOrID, tmdb.SearchOptions{FirstAirYear: firstAirYear})
	if err != nil {
		return nil, err
	}
	return node.(*types.Series), nil
}

func (c *Client) lookup(ctx context.Context, kind types.Kind, nameOrID string, opts tmdb.SearchOptions) (types.Node, error) {
	nameOrID = strings.TrimSpace(nameOrID)
	if nameOrID == "" {
		return nil, fmt.Errorf("%w: empty query", ErrNotFound)
	}

	var id types.ID
	if n, err := strconv.ParseInt(nameOrID, 10, 64); err == nil {
		id = types.NewID(kind, n)
	} else {
		found, err := c.Search(ctx, kind, nameOrID, opts)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("%w: no %v matches %q", ErrNotFound, kind, nameOrID)
		}
		c.logger.Debug("resolved name", "query", nameOrID, "id", found[0].ID.String(), "name", found[0].Name)
		id = found[0].ID
	}

	node, _, err := c.cache.Load(ctx, id, true, cacheLoadOptions(ExploreOptions{}))
	if err != nil {
		return nil, err
	}
	if err := node.Ensure(ctx); err != nil {
		return nil, err
	}
	return node, nil
}

// Search hits the provider's search endpoint for the given kind. Searches
// always reach the provider, so they pass through the rate-limit gate.
func (c *Client) Search(ctx context.Context, kind types.Kind, query string, opts tmdb.SearchOptions) ([]tmdb.SearchResult, error) {
	c.limiter.Wait()
	switch kind {
	case types.KindPerson:
		return c.adapter.SearchPeople(ctx, query, opts)
	case types.KindMovie:
		return c.adapter.SearchMovies(ctx, query, opts)
	case types.KindSeries:
		return c.adapter.SearchSeries(ctx, query, opts)
	default:
		return nil, fmt.Errorf("%w: %v", types.ErrUnknownMediaType, kind)
	}
}
