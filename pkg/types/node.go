package types

import (
	"context"
	"fmt"
)

// Resolver materializes provider metadata for identities. The cache layer
// implements it; nodes call back into it from Ensure and from season and
// episode loading.
type Resolver interface {
	// Resolve returns the full metadata document for an identity, fetching
	// it from the remote source at most once per process lifetime.
	Resolve(ctx context.Context, id ID) (*Metadata, error)

	// ResolveSeason fetches one season sub-tree of a series.
	ResolveSeason(ctx context.Context, series ID, season int) (*Season, error)

	// ResolveEpisode fetches one episode, including its own credits.
	ResolveEpisode(ctx context.Context, series ID, ref EpisodeRef) (*Episode, error)

	// Persist writes an updated metadata document back to durable storage,
	// used after season/episode sub-trees have been appended.
	Persist(ctx context.Context, id ID, meta *Metadata) error
}

// Node is the polymorphic view over a fetched identity. Metadata resolution
// is explicit: Ensure must succeed before metadata-derived accessors return
// anything useful.
type Node interface {
	ID() ID

	// Name returns the display name, or "" while metadata is unresolved.
	Name() string

	// Ensure resolves the node's metadata if it is not resolved yet. Once
	// set, metadata is never replaced.
	Ensure(ctx context.Context) error

	// Meta returns the resolved metadata document, or nil before Ensure.
	Meta() *Metadata

	// Related enumerates the node's neighbor identities: a person's credits,
	// or a credit's cast. It resolves metadata first when needed.
	Related(ctx context.Context) ([]ID, error)
}

// CastOptions scope a cast view of an acting credit.
type CastOptions struct {
	// Season restricts the view to one season (series only); 0 means all.
	Season int
	// Episode restricts the view to a single episode (series only).
	Episode *EpisodeRef
	// LoadSeasons fetches missing season sub-trees before building the view.
	LoadSeasons bool
	// LoadEpisodes additionally fetches per-episode credits.
	LoadEpisodes bool
	// PlayedBy keeps only entries belonging to this person.
	PlayedBy *ID
}

// ActingCredit is a node that owns a cast: a movie or a series.
type ActingCredit interface {
	Node

	// CastView returns the credit's cast entries, scoped by opts. Season and
	// episode scoping may trigger on-demand sub-tree loading.
	CastView(ctx context.Context, opts CastOptions) ([]CastEntry, error)
}

// NewNode builds the node variant matching the identity's kind. meta may be
// nil for a not-yet-resolved node.
func NewNode(id ID, meta *Metadata, res Resolver) (Node, error) {
	b := base{id: id, meta: meta, res: res}
	switch id.Kind {
	case KindPerson:
		return &Person{base: b}, nil
	case KindMovie:
		return &Movie{base: b}, nil
	case KindSeries:
		return &Series{base: b}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMediaType, id.Kind)
	}
}

type base struct {
	id   ID
	meta *Metadata
	res  Resolver
}

func (b *base) ID() ID {
	return b.id
}

func (b *base) Meta() *Metadata {
	return b.meta
}

func (b *base) Ensure(ctx context.Context) error {
	if b.meta != nil {
		return nil
	}
	meta, err := b.res.Resolve(ctx, b.id)
	if err != nil {
		return fmt.Errorf("resolving %v: %w", b.id, err)
	}
	b.meta = meta
	return nil
}

func (b *base) infoStr(key string) string {
	if b.meta == nil {
		return ""
	}
	return b.meta.Info.Str(key)
}

// filterPlayedBy keeps only cast entries for one person, in place order.
func filterPlayedBy(entries []CastEntry, playedBy *ID) []CastEntry {
	if playedBy == nil {
		return entries
	}
	filtered := make([]CastEntry, 0, len(entries))
	for _, entry := range entries {
		// Cast entries are people; a non-person filter matches nothing.
		if playedBy.Kind == KindPerson && entry.ID == playedBy.N {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
