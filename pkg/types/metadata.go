package types

import (
	"fmt"
	"net/url"
)

// Info is the provider info document for a node. Apart from a handful of
// well-known keys it is treated as opaque and round-tripped through storage
// unchanged.
type Info map[string]any

// Str returns the string value stored under key, or "" when the key is
// absent or holds a different type.
func (i Info) Str(key string) string {
	if v, ok := i[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the integer value stored under key, or 0 when absent. JSON
// decoding produces float64 numbers, which is the common case here.
func (i Info) Int(key string) int {
	switch v := i[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

// CreditEntry is one acting credit on a person's record: the credit it
// points at, the character played, the media kind and the release date.
type CreditEntry struct {
	ID        int64  `json:"id"`
	MediaType string `json:"media_type"`
	Character string `json:"character,omitempty"`
	Title     string `json:"title,omitempty"`
	Date      string `json:"date,omitempty"`
}

// CastEntry is one cast member on a credit's record.
type CastEntry struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
}

// Episode is one episode of a season. Cast is nil until the episode's own
// credits have been fetched; GuestStars comes with the season document.
type Episode struct {
	Season     int         `json:"season"`
	Number     int         `json:"number"`
	Name       string      `json:"name,omitempty"`
	Cast       []CastEntry `json:"cast,omitempty"`
	GuestStars []CastEntry `json:"guest_stars,omitempty"`
}

// Loaded reports whether the episode's own credits have been fetched.
func (e *Episode) Loaded() bool {
	return e != nil && e.Cast != nil
}

// Season is a lazily populated season sub-tree of a series.
type Season struct {
	Number   int        `json:"number"`
	Name     string     `json:"name,omitempty"`
	Episodes []*Episode `json:"episodes"`
}

// Episode returns the season's episode with the given 1-based number, or
// nil when it has not been fetched yet.
func (s *Season) Episode(number int) *Episode {
	if s == nil || number < 1 || number > len(s.Episodes) {
		return nil
	}
	return s.Episodes[number-1]
}

// Metadata is the full provider document for one identity. Exactly one of
// Credits (people) or Cast (movies, series) is populated; Seasons is only
// used by series and grows on demand.
type Metadata struct {
	Info    Info          `json:"info"`
	Credits []CreditEntry `json:"credits,omitempty"`
	Cast    []CastEntry   `json:"cast,omitempty"`
	Seasons []*Season     `json:"seasons,omitempty"`
}

// Season returns the season with the given 1-based number, or nil when it
// has not been fetched yet.
func (m *Metadata) Season(number int) *Season {
	if m == nil || number < 1 || number > len(m.Seasons) {
		return nil
	}
	return m.Seasons[number-1]
}

// PutSeason stores a season at its 1-based position, growing the slice with
// nil gaps as needed.
func (m *Metadata) PutSeason(season *Season) {
	for len(m.Seasons) < season.Number {
		m.Seasons = append(m.Seasons, nil)
	}
	m.Seasons[season.Number-1] = season
}

// IMDbURL derives a stable IMDb link for the node from its external ids,
// falling back to an IMDb search link when no imdb_id is known.
func (m *Metadata) IMDbURL(kind Kind) string {
	imdbID := m.Info.Str("imdb_id")
	if imdbID == "" {
		title := m.Info.Str("name")
		if title == "" {
			title = m.Info.Str("title")
		}
		if title == "" {
			return ""
		}
		return "https://www.imdb.com/find/?q=" + url.QueryEscape(title)
	}
	path := "title"
	if kind == KindPerson {
		path = "name"
	}
	return fmt.Sprintf("https://www.imdb.com/%s/%s/", path, imdbID)
}
