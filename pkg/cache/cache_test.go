package cache

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixhops/sixhops/pkg/store"
	"github.com/sixhops/sixhops/pkg/tmdb"
	"github.com/sixhops/sixhops/pkg/types"
)

// fakeClock advances instantly and records every sleep.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Sleep(d time.Duration) {
	f.sleeps = append(f.sleeps, d)
	f.now = f.now.Add(d)
}

// fakeAdapter serves canned documents and counts provider round-trips.
type fakeAdapter struct {
	metas   map[types.ID]*types.Metadata
	fetches int
}

func (f *fakeAdapter) FetchMetadata(ctx context.Context, id types.ID) (*types.Metadata, error) {
	f.fetches++
	if meta, ok := f.metas[id]; ok {
		return meta, nil
	}
	return nil, tmdb.ErrNotFound
}

func (f *fakeAdapter) FetchSeason(ctx context.Context, series types.ID, season int) (*types.Season, error) {
	f.fetches++
	return &types.Season{Number: season}, nil
}

func (f *fakeAdapter) FetchEpisode(ctx context.Context, series types.ID, ref types.EpisodeRef) (*types.Episode, error) {
	f.fetches++
	return &types.Episode{Season: ref.Season, Number: ref.Episode, Cast: []types.CastEntry{}}, nil
}

func (f *fakeAdapter) SearchPeople(ctx context.Context, query string, opts tmdb.SearchOptions) ([]tmdb.SearchResult, error) {
	return nil, nil
}

func (f *fakeAdapter) SearchMovies(ctx context.Context, query string, opts tmdb.SearchOptions) ([]tmdb.SearchResult, error) {
	return nil, nil
}

func (f *fakeAdapter) SearchSeries(ctx context.Context, query string, opts tmdb.SearchOptions) ([]tmdb.SearchResult, error) {
	return nil, nil
}

func newTestCache(t *testing.T, adapter *fakeAdapter, clock Clock, interval time.Duration) *Cache {
	t.Helper()
	logger := slog.Default()
	st, err := store.NewSQLite(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return New(st, adapter, NewLimiter(interval, clock), logger)
}

func TestLoadDoesNotTouchProvider(t *testing.T) {
	id := types.NewID(types.KindPerson, 1)
	adapter := &fakeAdapter{metas: map[types.ID]*types.Metadata{
		id: {Info: types.Info{"name": "Alice"}},
	}}
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := newTestCache(t, adapter, clock, time.Second)

	node, depth, err := c.Load(context.Background(), id, true, LoadOptions{})
	require.NoError(t, err)
	assert.Zero(t, depth)
	assert.Nil(t, node.Meta(), "a fresh record carries no metadata")
	assert.Zero(t, adapter.fetches, "loading alone must not reach the provider")
	assert.Empty(t, clock.sleeps, "loading alone must not be throttled")
}

func TestResolveFetchesExactlyOnce(t *testing.T) {
	id := types.NewID(types.KindPerson, 1)
	adapter := &fakeAdapter{metas: map[types.ID]*types.Metadata{
		id: {Info: types.Info{"name": "Alice"}},
	}}
	c := newTestCache(t, adapter, &fakeClock{now: time.Unix(0, 0)}, time.Second)
	ctx := context.Background()

	node, _, err := c.Load(ctx, id, true, LoadOptions{})
	require.NoError(t, err)
	require.NoError(t, node.Ensure(ctx))
	require.NoError(t, node.Ensure(ctx))
	assert.Equal(t, 1, adapter.fetches)
	assert.Equal(t, "Alice", node.Name())

	// The fetched document was persisted: a cold load finds it in the store.
	cold, _, err := c.Load(ctx, id, false, LoadOptions{})
	require.NoError(t, err)
	require.NoError(t, cold.Ensure(ctx))
	assert.Equal(t, 1, adapter.fetches, "store hit must satisfy the reload")
}

func TestCacheHitReturnsSameNode(t *testing.T) {
	id := types.NewID(types.KindMovie, 5)
	c := newTestCache(t, &fakeAdapter{}, &fakeClock{now: time.Unix(0, 0)}, time.Second)
	ctx := context.Background()

	first, _, err := c.Load(ctx, id, true, LoadOptions{})
	require.NoError(t, err)
	second, _, err := c.Load(ctx, id, true, LoadOptions{})
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestDepthBookkeeping(t *testing.T) {
	id := types.NewID(types.KindPerson, 9)
	c := newTestCache(t, &fakeAdapter{}, &fakeClock{now: time.Unix(0, 0)}, 0)
	ctx := context.Background()

	_, depth, err := c.Load(ctx, id, true, LoadOptions{})
	require.NoError(t, err)
	assert.Zero(t, depth)

	c.SetDepth(id, 3)
	assert.Equal(t, 3, c.Depth(id))

	_, depth, err = c.Load(ctx, id, true, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, depth)
}

func TestLimiterEnforcesMinimumInterval(t *testing.T) {
	clock := &fakeClock{now: time.Unix(100, 0)}
	l := NewLimiter(time.Second, clock)

	l.Wait()
	assert.Empty(t, clock.sleeps, "first request goes straight through")

	clock.now = clock.now.Add(300 * time.Millisecond)
	l.Wait()
	require.Len(t, clock.sleeps, 1)
	assert.Equal(t, 700*time.Millisecond, clock.sleeps[0])

	clock.now = clock.now.Add(2 * time.Second)
	l.Wait()
	assert.Len(t, clock.sleeps, 1, "a slow caller never sleeps")
}

func TestLimiterDisabled(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	l := NewLimiter(0, clock)
	l.Wait()
	l.Wait()
	assert.Empty(t, clock.sleeps)
}

func TestResolvePersistsUnseenIdentity(t *testing.T) {
	id := types.NewID(types.KindPerson, 7)
	adapter := &fakeAdapter{metas: map[types.ID]*types.Metadata{
		id: {Info: types.Info{"name": "Greta Gale"}},
	}}
	logger := slog.Default()
	st, err := store.NewSQLite(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	c := New(st, adapter, NewLimiter(0, &fakeClock{now: time.Unix(0, 0)}), logger)
	ctx := context.Background()

	// Resolve without a prior Load: the fetched document must still reach
	// the store, not only the in-memory cache.
	_, err = c.Resolve(ctx, id)
	require.NoError(t, err)

	meta, _, err := st.LoadRecord(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "Greta Gale", meta.Info.Str("name"))
}

func TestResolveThrottlesProviderCalls(t *testing.T) {
	a := types.NewID(types.KindPerson, 1)
	b := types.NewID(types.KindPerson, 2)
	adapter := &fakeAdapter{metas: map[types.ID]*types.Metadata{
		a: {Info: types.Info{"name": "Alice"}},
		b: {Info: types.Info{"name": "Bob"}},
	}}
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := newTestCache(t, adapter, clock, time.Second)
	ctx := context.Background()

	_, err := c.Resolve(ctx, a)
	require.NoError(t, err)
	_, err = c.Resolve(ctx, b)
	require.NoError(t, err)

	require.Len(t, clock.sleeps, 1)
	assert.Equal(t, time.Second, clock.sleeps[0])
}
