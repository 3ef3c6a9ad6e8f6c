package sixhops_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sixhops "github.com/sixhops/sixhops"
	"github.com/sixhops/sixhops/pkg/store"
	"github.com/sixhops/sixhops/pkg/tmdb"
	"github.com/sixhops/sixhops/pkg/types"
)

// fakeAdapter serves a canned graph and can be told to fail on chosen ids.
type fakeAdapter struct {
	metas   map[types.ID]*types.Metadata
	fail    map[types.ID]error
	fetches int
}

func (f *fakeAdapter) FetchMetadata(ctx context.Context, id types.ID) (*types.Metadata, error) {
	f.fetches++
	if err, ok := f.fail[id]; ok {
		return nil, err
	}
	if meta, ok := f.metas[id]; ok {
		return meta, nil
	}
	return nil, tmdb.ErrNotFound
}

func (f *fakeAdapter) FetchSeason(ctx context.Context, series types.ID, season int) (*types.Season, error) {
	return nil, tmdb.ErrNotFound
}

func (f *fakeAdapter) FetchEpisode(ctx context.Context, series types.ID, ref types.EpisodeRef) (*types.Episode, error) {
	return nil, tmdb.ErrNotFound
}

func (f *fakeAdapter) searchIn(kind types.Kind, query string) []tmdb.SearchResult {
	var found []tmdb.SearchResult
	for id, meta := range f.metas {
		if id.Kind != kind {
			continue
		}
		name := meta.Info.Str("name")
		if name == "" {
			name = meta.Info.Str("title")
		}
		if strings.Contains(strings.ToLower(name), strings.ToLower(query)) {
			found = append(found, tmdb.SearchResult{ID: id, Name: name})
		}
	}
	return found
}

func (f *fakeAdapter) SearchPeople(ctx context.Context, query string, opts tmdb.SearchOptions) ([]tmdb.SearchResult, error) {
	return f.searchIn(types.KindPerson, query), nil
}

func (f *fakeAdapter) SearchMovies(ctx context.Context, query string, opts tmdb.SearchOptions) ([]tmdb.SearchResult, error) {
	return f.searchIn(types.KindMovie, query), nil
}

func (f *fakeAdapter) SearchSeries(ctx context.Context, query string, opts tmdb.SearchOptions) ([]tmdb.SearchResult, error) {
	return f.searchIn(types.KindSeries, query), nil
}

var (
	p1 = types.NewID(types.KindPerson, 1)
	p2 = types.NewID(types.KindPerson, 2)
	p3 = types.NewID(types.KindPerson, 3)
	m1 = types.NewID(types.KindMovie, 10)
	m2 = types.NewID(types.KindMovie, 20)
)

// starGraph is P1-M1-P2 and P2-M2-P3: two movies chained through P2.
func starGraph() *fakeAdapter {
	return &fakeAdapter{
		fail: map[types.ID]error{},
		metas: map[types.ID]*types.Metadata{
			p1: {
				Info: types.Info{"name": "Alice Akker"},
				Credits: []types.CreditEntry{
					{ID: m1.N, MediaType: "movie", Character: "Hero", Title: "First Film"},
				},
			},
			p2: {
				Info: types.Info{"name": "Bob Breen"},
				Credits: []types.CreditEntry{
					{ID: m1.N, MediaType: "movie", Character: "Villain", Title: "First Film"},
					{ID: m2.N, MediaType: "movie", Character: "Captain", Title: "Second Film"},
				},
			},
			p3: {
				Info: types.Info{"name": "Cara Cole"},
				Credits: []types.CreditEntry{
					{ID: m2.N, MediaType: "movie", Character: "Navigator", Title: "Second Film"},
				},
			},
			m1: {
				Info: types.Info{"title": "First Film"},
				Cast: []types.CastEntry{
					{ID: p1.N, Name: "Alice Akker", Character: "Hero"},
					{ID: p2.N, Name: "Bob Breen", Character: "Villain"},
				},
			},
			m2: {
				Info: types.Info{"title": "Second Film"},
				Cast: []types.CastEntry{
					{ID: p2.N, Name: "Bob Breen", Character: "Captain"},
					{ID: p3.N, Name: "Cara Cole", Character: "Navigator"},
				},
			},
		},
	}
}

func newClient(t *testing.T, adapter tmdb.Adapter) *sixhops.Client {
	t.Helper()
	logger := slog.Default()
	st, err := store.NewSQLite(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	client, err := sixhops.NewClient(st, adapter, &sixhops.Config{}, logger)
	require.NoError(t, err)
	return client
}

func storedDepth(t *testing.T, client *sixhops.Client, id types.ID) int {
	t.Helper()
	_, depth, err := client.Store().LoadRecord(context.Background(), id)
	require.NoError(t, err)
	return depth
}

func TestExplorePersistsDepthLedger(t *testing.T) {
	client := newClient(t, starGraph())
	ctx := context.Background()

	nodes, err := client.Explore(ctx, []types.ID{p1}, sixhops.ExploreOptions{MaxDepth: 1})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Alice Akker", nodes[0].Name())

	assert.Equal(t, 1, storedDepth(t, client, p1))
	assert.Equal(t, 1, storedDepth(t, client, m1))
	assert.Equal(t, 0, storedDepth(t, client, p2))
}

func TestExploreAgainIsFree(t *testing.T) {
	adapter := starGraph()
	client := newClient(t, adapter)
	ctx := context.Background()

	_, err := client.Explore(ctx, []types.ID{p1}, sixhops.ExploreOptions{MaxDepth: 1})
	require.NoError(t, err)
	before := adapter.fetches

	_, err = client.Explore(ctx, []types.ID{p1}, sixhops.ExploreOptions{MaxDepth: 1})
	require.NoError(t, err)
	assert.Equal(t, before, adapter.fetches, "a re-run over explored ground fetches nothing")
}

func TestExploreRollsBackOnProviderFailure(t *testing.T) {
	adapter := starGraph()
	adapter.fail[m2] = errors.New("quota exhausted")
	client := newClient(t, adapter)
	ctx := context.Background()

	_, err := client.Explore(ctx, []types.ID{p1}, sixhops.ExploreOptions{MaxDepth: 3})
	require.Error(t, err)

	// All-or-nothing: nothing from the aborted run survives, not even the
	// depths of nodes explored before the failure.
	for _, id := range []types.ID{p1, p2, p3, m1, m2} {
		assert.Zero(t, storedDepth(t, client, id), "depth of %v must roll back", id)
	}
}

func TestExploreDeeperResumesWhereItStopped(t *testing.T) {
	adapter := starGraph()
	client := newClient(t, adapter)
	ctx := context.Background()

	_, err := client.Explore(ctx, []types.ID{p1}, sixhops.ExploreOptions{MaxDepth: 1})
	require.NoError(t, err)
	_, err = client.Explore(ctx, []types.ID{p1}, sixhops.ExploreOptions{MaxDepth: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, storedDepth(t, client, p1))
	assert.Equal(t, 1, storedDepth(t, client, p2))
	assert.Equal(t, 0, storedDepth(t, client, p3))
	assert.Equal(t, 2, storedDepth(t, client, m1))
	assert.Equal(t, 1, storedDepth(t, client, m2))
}

func TestLookupPersonByName(t *testing.T) {
	client := newClient(t, starGraph())

	person, err := client.LookupPerson(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, p1, person.ID())
	assert.Equal(t, "Alice Akker", person.Name())
}

func TestLookupUnknownNameFails(t *testing.T) {
	client := newClient(t, starGraph())

	_, err := client.LookupPerson(context.Background(), "nobody at all")
	assert.ErrorIs(t, err, sixhops.ErrNotFound)
}

func TestWhoPlayed(t *testing.T) {
	client := newClient(t, starGraph())

	matches, err := client.WhoPlayed(context.Background(), m1, "villain", sixhops.WhoPlayedOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Bob Breen", matches[0].PersonName)
	assert.Equal(t, p2, matches[0].Person)
}

func TestWhoPlayedRejectsPerson(t *testing.T) {
	client := newClient(t, starGraph())

	_, err := client.WhoPlayed(context.Background(), p1, "anyone", sixhops.WhoPlayedOptions{})
	assert.ErrorIs(t, err, sixhops.ErrNotACredit)
}

func TestRebuildCreditEdgesAndCoStars(t *testing.T) {
	client := newClient(t, starGraph())
	ctx := context.Background()

	_, err := client.Explore(ctx, []types.ID{p1}, sixhops.ExploreOptions{MaxDepth: 3})
	require.NoError(t, err)

	edges, err := client.RebuildCreditEdges(ctx)
	require.NoError(t, err)
	assert.Positive(t, edges)

	shared, err := client.CoStars(ctx, p2)
	require.NoError(t, err)
	assert.Equal(t, []types.ID{m1}, shared[p1])
	assert.Equal(t, []types.ID{m2}, shared[p3])
}
