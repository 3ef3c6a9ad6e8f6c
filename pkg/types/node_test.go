package types

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver serves canned metadata and records what was asked of it.
type fakeResolver struct {
	metas      map[ID]*Metadata
	seasons    map[int]*Season
	episodes   map[EpisodeRef]*Episode
	resolved   []ID
	persisted  int
	seasonHits int
}

func (f *fakeResolver) Resolve(ctx context.Context, id ID) (*Metadata, error) {
	f.resolved = append(f.resolved, id)
	meta, ok := f.metas[id]
	if !ok {
		return nil, fmt.Errorf("no metadata for %v", id)
	}
	return meta, nil
}

func (f *fakeResolver) ResolveSeason(ctx context.Context, series ID, season int) (*Season, error) {
	f.seasonHits++
	s, ok := f.seasons[season]
	if !ok {
		return nil, fmt.Errorf("no season %d", season)
	}
	return s, nil
}

func (f *fakeResolver) ResolveEpisode(ctx context.Context, series ID, ref EpisodeRef) (*Episode, error) {
	e, ok := f.episodes[ref]
	if !ok {
		return nil, fmt.Errorf("no episode %v", ref)
	}
	return e, nil
}

func (f *fakeResolver) Persist(ctx context.Context, id ID, meta *Metadata) error {
	f.persisted++
	return nil
}

func TestPersonRelated(t *testing.T) {
	id := NewID(KindPerson, 1)
	res := &fakeResolver{metas: map[ID]*Metadata{
		id: {
			Info: Info{"name": "Alice"},
			Credits: []CreditEntry{
				{ID: 10, MediaType: "movie", Character: "Hero"},
				{ID: 20, MediaType: "tv", Character: "Guest"},
				{ID: 30, MediaType: "podcast"},
			},
		},
	}}

	node, err := NewNode(id, nil, res)
	require.NoError(t, err)
	person, ok := node.(*Person)
	require.True(t, ok)

	assert.Empty(t, person.Name(), "name should be empty before Ensure")

	related, err := person.Related(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ID{NewID(KindMovie, 10), NewID(KindSeries, 20)}, related,
		"unknown media types are dropped")
	assert.Equal(t, "Alice", person.Name())

	// Ensure resolves at most once.
	require.NoError(t, person.Ensure(context.Background()))
	assert.Len(t, res.resolved, 1)
}

func TestMovieRelatedAndCastView(t *testing.T) {
	id := NewID(KindMovie, 5)
	meta := &Metadata{
		Info: Info{"title": "The Film"},
		Cast: []CastEntry{
			{ID: 1, Name: "Alice", Character: "Hero"},
			{ID: 2, Name: "Bob", Character: "Villain"},
		},
	}

	node, err := NewNode(id, meta, &fakeResolver{})
	require.NoError(t, err)
	movie := node.(*Movie)

	related, err := movie.Related(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ID{NewID(KindPerson, 1), NewID(KindPerson, 2)}, related)

	playedBy := NewID(KindPerson, 2)
	view, err := movie.CastView(context.Background(), CastOptions{PlayedBy: &playedBy})
	require.NoError(t, err)
	require.Len(t, view, 1)
	assert.Equal(t, "Bob", view[0].Name)

	// A non-person id never matches cast entries, even on a numeric collision.
	notAPerson := NewID(KindMovie, 2)
	view, err = movie.CastView(context.Background(), CastOptions{PlayedBy: &notAPerson})
	require.NoError(t, err)
	assert.Empty(t, view)
}

func seriesFixture(res *fakeResolver) *Series {
	id := NewID(KindSeries, 9)
	res.metas = map[ID]*Metadata{
		id: {
			Info: Info{
				"name": "The Show",
				"seasons": []any{
					map[string]any{"season_number": float64(0)},
					map[string]any{"season_number": float64(1)},
					map[string]any{"season_number": float64(2)},
				},
			},
			Cast: []CastEntry{{ID: 1, Name: "Alice", Character: "Lead"}},
		},
	}
	node, _ := NewNode(id, nil, res)
	return node.(*Series)
}

func TestSeriesSeasonLazyLoad(t *testing.T) {
	res := &fakeResolver{
		seasons: map[int]*Season{
			2: {Number: 2, Episodes: []*Episode{
				{Season: 2, Number: 1, GuestStars: []CastEntry{{ID: 7, Name: "Carol", Character: "Guest"}}},
			}},
		},
	}
	series := seriesFixture(res)
	ctx := context.Background()

	season, err := series.Season(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, season.Number)
	assert.Equal(t, 1, res.persisted, "season load persists the record")

	// Second access is served from the season tree.
	_, err = series.Season(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, res.seasonHits)

	// Seasons slice grew with a nil gap for season 1.
	assert.Nil(t, series.Meta().Season(1))

	// Guest stars are merged into the effective cast.
	cast := series.Cast()
	names := make([]string, 0, len(cast))
	for _, entry := range cast {
		names = append(names, entry.Name)
	}
	assert.ElementsMatch(t, []string{"Alice", "Carol"}, names)

	_, err = series.Season(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidEpisodeRef)
}

func TestSeriesEpisodeLazyLoad(t *testing.T) {
	ref := EpisodeRef{Season: 1, Episode: 2}
	res := &fakeResolver{
		seasons: map[int]*Season{
			1: {Number: 1, Episodes: []*Episode{
				{Season: 1, Number: 1},
				{Season: 1, Number: 2},
			}},
		},
		episodes: map[EpisodeRef]*Episode{
			ref: {Season: 1, Number: 2, Cast: []CastEntry{{ID: 3, Name: "Dan", Character: "Cameo"}}},
		},
	}
	series := seriesFixture(res)
	ctx := context.Background()

	episode, err := series.Episode(ctx, ref)
	require.NoError(t, err)
	require.True(t, episode.Loaded())
	assert.Equal(t, "Dan", episode.Cast[0].Name)

	view, err := series.CastView(ctx, CastOptions{Episode: &ref})
	require.NoError(t, err)
	require.Len(t, view, 1)
	assert.Equal(t, "Dan", view[0].Name)
}

func TestSeriesCastViewDefaultScope(t *testing.T) {
	res := &fakeResolver{}
	series := seriesFixture(res)

	view, err := series.CastView(context.Background(), CastOptions{})
	require.NoError(t, err)
	require.Len(t, view, 1)
	assert.Equal(t, "Alice", view[0].Name)
	assert.Zero(t, res.seasonHits, "default scope must not load seasons")
}
