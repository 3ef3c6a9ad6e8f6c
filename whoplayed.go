package sixhops

import (
	"context"
	"fmt"

	"github.com/sixhops/sixhops/pkg/search"
	"github.com/sixhops/sixhops/pkg/types"
)

// CharacterMatch is one ranked answer to a "who played X" question.
type CharacterMatch = search.Match

// WhoPlayedOptions scope and tune a character search.
type WhoPlayedOptions struct {
	// Episode restricts the cast view to one episode, e.g. "s3e7" or "3x7".
	// Series only.
	Episode string
	// Season restricts the cast view to one season. Series only.
	Season int
	// LoadSeasons and LoadEpisodes fetch missing sub-trees before matching.
	LoadSeasons  bool
	LoadEpisodes bool
	// PlayedBy keeps only roles played by this person.
	PlayedBy *types.ID
	// Threshold and Limit tune the fuzzy ranking.
	Threshold int
	Limit     int
}

// WhoPlayed ranks the credit's cast against a character name query. The
// query may be empty to list the whole (scoped) cast.
func (c *Client) WhoPlayed(ctx context.Context, credit types.ID, query string, opts WhoPlayedOptions) ([]CharacterMatch, error) {
	if !credit.Kind.IsCredit() {
		return nil, fmt.Errorf("%w: %v", ErrNotACredit, credit)
	}

	node, _, err := c.cache.Load(ctx, credit, true, cacheLoadOptions(ExploreOptions{
		LoadSeasons:  opts.LoadSeasons,
		LoadEpisodes: opts.LoadEpisodes,
	}))
	if err != nil {
		return nil, err
	}
	acting, ok := node.(types.ActingCredit)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotACredit, credit)
	}

	castOpts := types.CastOptions{
		Season:       opts.Season,
		LoadSeasons:  opts.LoadSeasons,
		LoadEpisodes: opts.LoadEpisodes,
		PlayedBy:     opts.PlayedBy,
	}
	if opts.Episode != "" {
		ref, err := types.ParseEpisodeRef(opts.Episode)
		if err != nil {
			return nil, err
		}
		castOpts.Episode = &ref
	}

	cast, err := acting.CastView(ctx, castOpts)
	if err != nil {
		return nil, err
	}

	return search.Characters(cast, query, search.Options{
		Threshold: opts.Threshold,
		Limit:     opts.Limit,
	}), nil
}
