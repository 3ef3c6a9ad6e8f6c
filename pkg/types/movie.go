package types

import "context"

// Movie is an acting credit node holding a movie's info and cast.
type Movie struct {
	base
}

func (m *Movie) Name() string {
	return m.infoStr("title")
}

// OriginalTitle returns the movie's original-language title.
func (m *Movie) OriginalTitle() string {
	return m.infoStr("original_title")
}

// ReleaseDate returns the movie's release date, or "".
func (m *Movie) ReleaseDate() string {
	return m.infoStr("release_date")
}

// Cast returns the movie's cast. Requires resolved metadata.
func (m *Movie) Cast() []CastEntry {
	if m.meta == nil {
		return nil
	}
	return m.meta.Cast
}

// Related yields the person identity of every cast member.
func (m *Movie) Related(ctx context.Context) ([]ID, error) {
	if err := m.Ensure(ctx); err != nil {
		return nil, err
	}
	related := make([]ID, 0, len(m.meta.Cast))
	for _, cast := range m.meta.Cast {
		related = append(related, NewID(KindPerson, cast.ID))
	}
	return related, nil
}

// CastView returns the movie's cast, optionally restricted to one person.
// Season and episode scoping does not apply to movies and is ignored.
func (m *Movie) CastView(ctx context.Context, opts CastOptions) ([]CastEntry, error) {
	if err := m.Ensure(ctx); err != nil {
		return nil, err
	}
	return filterPlayedBy(m.meta.Cast, opts.PlayedBy), nil
}
