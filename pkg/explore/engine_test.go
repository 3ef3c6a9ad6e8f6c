package explore

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixhops/sixhops/pkg/cache"
	"github.com/sixhops/sixhops/pkg/types"
)

// fakeNode is a graph node with a canned neighbor list. Resolving it counts
// as one provider fetch unless the fixture marks it pre-resolved.
type fakeNode struct {
	id       types.ID
	related  []types.ID
	resolved bool
	fetchErr error
	fetches  *int
}

func (n *fakeNode) ID() types.ID { return n.id }
func (n *fakeNode) Name() string { return n.id.String() }

func (n *fakeNode) Ensure(ctx context.Context) error {
	if n.resolved {
		return nil
	}
	if n.fetchErr != nil {
		return n.fetchErr
	}
	*n.fetches++
	n.resolved = true
	return nil
}

func (n *fakeNode) Meta() *types.Metadata {
	if !n.resolved {
		return nil
	}
	return &types.Metadata{}
}

func (n *fakeNode) Related(ctx context.Context) ([]types.ID, error) {
	if err := n.Ensure(ctx); err != nil {
		return nil, err
	}
	return n.related, nil
}

// fakeLoader hands out the fixture's nodes with their persisted depths.
type fakeLoader struct {
	nodes  map[types.ID]*fakeNode
	depths map[types.ID]int
}

func (l *fakeLoader) Load(ctx context.Context, id types.ID, useCache bool, opts cache.LoadOptions) (types.Node, int, error) {
	node, ok := l.nodes[id]
	if !ok {
		return nil, 0, errors.New("unknown identity in fixture")
	}
	return node, l.depths[id], nil
}

type fixture struct {
	loader  *fakeLoader
	fetches int
}

// newFixture builds a bipartite graph from adjacency lists. Related edges are
// symmetric: listing a credit under a person also lists the person in the
// credit's cast.
func newFixture(edges map[types.ID][]types.ID) *fixture {
	f := &fixture{loader: &fakeLoader{nodes: map[types.ID]*fakeNode{}, depths: map[types.ID]int{}}}
	add := func(id types.ID) *fakeNode {
		if n, ok := f.loader.nodes[id]; ok {
			return n
		}
		n := &fakeNode{id: id, fetches: &f.fetches}
		f.loader.nodes[id] = n
		return n
	}
	for id, related := range edges {
		n := add(id)
		for _, rid := range related {
			n.related = append(n.related, rid)
			add(rid).related = append(add(rid).related, id)
		}
	}
	return f
}

func newEngine(f *fixture) *Engine {
	return New(f.loader, slog.Default())
}

var (
	p1 = types.NewID(types.KindPerson, 1)
	p2 = types.NewID(types.KindPerson, 2)
	p3 = types.NewID(types.KindPerson, 3)
	m1 = types.NewID(types.KindMovie, 1)
	s1 = types.NewID(types.KindSeries, 1)
)

func TestZeroDepthRunIsLeafOnly(t *testing.T) {
	f := newFixture(map[types.ID][]types.ID{p1: {m1}})

	ledger, err := newEngine(f).Run(context.Background(), []types.ID{p1}, Options{MaxDepth: 0})
	require.NoError(t, err)

	assert.Equal(t, Ledger{p1: 0}, ledger)
	assert.Zero(t, f.fetches, "a leaf is never expanded")
}

func TestSingleHopTrace(t *testing.T) {
	// P1 appears in M1; M1's cast is P1 and P2.
	f := newFixture(map[types.ID][]types.ID{p1: {m1}, p2: {m1}})

	ledger, err := newEngine(f).Run(context.Background(), []types.ID{p1}, Options{MaxDepth: 1})
	require.NoError(t, err)

	assert.Equal(t, Ledger{p1: 1, m1: 1, p2: 0}, ledger)
}

func TestRerunAgainstExploredStoreFetchesNothing(t *testing.T) {
	f := newFixture(map[types.ID][]types.ID{p1: {m1}, p2: {m1}})
	for id, node := range f.loader.nodes {
		node.resolved = true
		f.loader.depths[id] = 1
	}
	f.loader.depths[p2] = 0

	ledger, err := newEngine(f).Run(context.Background(), []types.ID{p1}, Options{MaxDepth: 1})
	require.NoError(t, err)

	assert.Equal(t, Ledger{p1: 1}, ledger, "fully explored neighbors are skipped, not revisited")
	assert.Zero(t, f.fetches)
}

func TestFinalLedgerIsOrderIndependent(t *testing.T) {
	edges := map[types.ID][]types.ID{
		p1: {m1, s1},
		p2: {m1},
		p3: {m1, s1},
	}

	fifo, err := newEngine(newFixture(edges)).Run(context.Background(), []types.ID{p1}, Options{MaxDepth: 2})
	require.NoError(t, err)
	lifo, err := newEngine(newFixture(edges)).Run(context.Background(), []types.ID{p1}, Options{MaxDepth: 2, Discipline: LIFO})
	require.NoError(t, err)

	assert.Equal(t, fifo, lifo)
}

func TestDisabledCreditKindsArePruned(t *testing.T) {
	f := newFixture(map[types.ID][]types.ID{p1: {m1, s1}, p2: {s1}})

	ledger, err := newEngine(f).Run(context.Background(), []types.ID{p1}, Options{
		MaxDepth: 2,
		Credits:  []types.Kind{types.KindMovie},
	})
	require.NoError(t, err)

	assert.NotContains(t, ledger, s1, "series edges are pruned")
	assert.NotContains(t, ledger, p2, "nodes only reachable through pruned edges stay untouched")
	assert.Contains(t, ledger, m1)
}

func TestPersistedDepthNeverDecreases(t *testing.T) {
	f := newFixture(map[types.ID][]types.ID{p1: {m1}})
	f.loader.depths[p1] = 3

	ledger, err := newEngine(f).Run(context.Background(), []types.ID{p1}, Options{MaxDepth: 1})
	require.NoError(t, err)

	assert.Equal(t, 3, ledger[p1], "a deeper prior exploration is kept")
}

func TestProviderFailureAbortsRun(t *testing.T) {
	f := newFixture(map[types.ID][]types.ID{p1: {m1}, p2: {m1}})
	boom := errors.New("upstream down")
	f.loader.nodes[m1].fetchErr = boom

	_, err := newEngine(f).Run(context.Background(), []types.ID{p1}, Options{MaxDepth: 2})
	assert.ErrorIs(t, err, boom)
}
