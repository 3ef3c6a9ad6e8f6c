package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sixhops/sixhops/pkg/types"
)

// DefaultBaseURL is the TMDB v3 REST API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// Client is the HTTP implementation of Adapter against the TMDB v3 API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *slog.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient injects the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithBaseURL overrides the API root, used for tests and proxies.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.log = logger }
}

// NewClient creates a TMDB API client authenticated with apiKey.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http:    http.DefaultClient,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrFetch, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: GET %s", ErrNotFound, path)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: GET %s: unexpected status %s: %s", ErrFetch, path, resp.Status, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", ErrFetch, path, err)
	}
	return nil
}

type castJSON struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
}

type creditJSON struct {
	ID           int64  `json:"id"`
	MediaType    string `json:"media_type"`
	Character    string `json:"character"`
	Title        string `json:"title"`
	Name         string `json:"name"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
}

func castEntries(cast []castJSON) []types.CastEntry {
	entries := make([]types.CastEntry, 0, len(cast))
	for _, c := range cast {
		entries = append(entries, types.CastEntry{ID: c.ID, Name: c.Name, Character: c.Character})
	}
	return entries
}

// FetchMetadata fetches and assembles the full document for one identity.
func (c *Client) FetchMetadata(ctx context.Context, id types.ID) (*types.Metadata, error) {
	c.log.Debug("downloading metadata", "id", id.String())
	switch id.Kind {
	case types.KindPerson:
		return c.fetchPerson(ctx, id.N)
	case types.KindMovie:
		return c.fetchCredit(ctx, "/movie/"+strconv.FormatInt(id.N, 10))
	case types.KindSeries:
		return c.fetchCredit(ctx, "/tv/"+strconv.FormatInt(id.N, 10))
	default:
		return nil, fmt.Errorf("%w: %v", types.ErrUnknownMediaType, id.Kind)
	}
}

func (c *Client) fetchPerson(ctx context.Context, n int64) (*types.Metadata, error) {
	path := "/person/" + strconv.FormatInt(n, 10)

	var info types.Info
	if err := c.get(ctx, path, nil, &info); err != nil {
		return nil, err
	}

	var combined struct {
		Cast []creditJSON `json:"cast"`
	}
	if err := c.get(ctx, path+"/combined_credits", nil, &combined); err != nil {
		return nil, err
	}

	credits := make([]types.CreditEntry, 0, len(combined.Cast))
	for _, entry := range combined.Cast {
		title := entry.Title
		if title == "" {
			title = entry.Name
		}
		date := entry.ReleaseDate
		if date == "" {
			date = entry.FirstAirDate
		}
		credits = append(credits, types.CreditEntry{
			ID:        entry.ID,
			MediaType: entry.MediaType,
			Character: entry.Character,
			Title:     title,
			Date:      date,
		})
	}

	return &types.Metadata{Info: info, Credits: credits}, nil
}

// fetchCredit fetches a movie or series: info with external ids merged in,
// plus the cast.
func (c *Client) fetchCredit(ctx context.Context, path string) (*types.Metadata, error) {
	var info types.Info
	if err := c.get(ctx, path, nil, &info); err != nil {
		return nil, err
	}

	var external map[string]any
	if err := c.get(ctx, path+"/external_ids", nil, &external); err != nil {
		return nil, err
	}
	for key, value := range external {
		if key == "id" {
			continue
		}
		info[key] = value
	}

	var credits struct {
		Cast []castJSON `json:"cast"`
	}
	if err := c.get(ctx, path+"/credits", nil, &credits); err != nil {
		return nil, err
	}

	return &types.Metadata{Info: info, Cast: castEntries(credits.Cast)}, nil
}

type episodeJSON struct {
	EpisodeNumber int        `json:"episode_number"`
	SeasonNumber  int        `json:"season_number"`
	Name          string     `json:"name"`
	GuestStars    []castJSON `json:"guest_stars"`
}

// FetchSeason fetches one season with its episode stubs and guest stars.
func (c *Client) FetchSeason(ctx context.Context, series types.ID, season int) (*types.Season, error) {
	c.log.Debug("downloading season", "series", series.String(), "season", season)
	path := fmt.Sprintf("/tv/%d/season/%d", series.N, season)

	var doc struct {
		SeasonNumber int           `json:"season_number"`
		Name         string        `json:"name"`
		Episodes     []episodeJSON `json:"episodes"`
	}
	if err := c.get(ctx, path, nil, &doc); err != nil {
		return nil, err
	}

	episodes := make([]*types.Episode, 0, len(doc.Episodes))
	for _, ep := range doc.Episodes {
		episodes = append(episodes, &types.Episode{
			Season:     ep.SeasonNumber,
			Number:     ep.EpisodeNumber,
			Name:       ep.Name,
			GuestStars: castEntries(ep.GuestStars),
		})
	}
	return &types.Season{Number: season, Name: doc.Name, Episodes: episodes}, nil
}

// FetchEpisode fetches one episode together with its own credits.
func (c *Client) FetchEpisode(ctx context.Context, series types.ID, ref types.EpisodeRef) (*types.Episode, error) {
	c.log.Debug("downloading episode", "series", series.String(), "episode", ref.String())
	path := fmt.Sprintf("/tv/%d/season/%d/episode/%d", series.N, ref.Season, ref.Episode)

	var info episodeJSON
	if err := c.get(ctx, path, nil, &info); err != nil {
		return nil, err
	}

	var credits struct {
		Cast []castJSON `json:"cast"`
	}
	if err := c.get(ctx, path+"/credits", nil, &credits); err != nil {
		return nil, err
	}

	cast := castEntries(credits.Cast)
	if cast == nil {
		cast = []types.CastEntry{}
	}
	return &types.Episode{
		Season:     ref.Season,
		Number:     ref.Episode,
		Name:       info.Name,
		Cast:       cast,
		GuestStars: castEntries(info.GuestStars),
	}, nil
}

type searchResultsJSON struct {
	Results []struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		Title        string `json:"title"`
		ReleaseDate  string `json:"release_date"`
		FirstAirDate string `json:"first_air_date"`
	} `json:"results"`
}

func (c *Client) search(ctx context.Context, path string, kind types.Kind, query url.Values, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var doc searchResultsJSON
	if err := c.get(ctx, path, query, &doc); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, limit)
	for _, r := range doc.Results {
		if len(results) == limit {
			break
		}
		name := r.Name
		if name == "" {
			name = r.Title
		}
		date := r.ReleaseDate
		if date == "" {
			date = r.FirstAirDate
		}
		results = append(results, SearchResult{ID: types.NewID(kind, r.ID), Name: name, Date: date})
	}
	return results, nil
}

// SearchPeople resolves a free-text query to candidate people.
func (c *Client) SearchPeople(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	params := url.Values{"query": {query}}
	return c.search(ctx, "/search/person", types.KindPerson, params, opts.Limit)
}

// SearchMovies resolves a free-text query to candidate movies.
func (c *Client) SearchMovies(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	params := url.Values{"query": {query}}
	if opts.Year > 0 {
		params.Set("year", strconv.Itoa(opts.Year))
	}
	return c.search(ctx, "/search/movie", types.KindMovie, params, opts.Limit)
}

// SearchSeries resolves a free-text query to candidate series.
func (c *Client) SearchSeries(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	params := url.Values{"query": {query}}
	if opts.FirstAirYear > 0 {
		params.Set("first_air_date_year", strconv.Itoa(opts.FirstAirYear))
	}
	return c.search(ctx, "/search/tv", types.KindSeries, params, opts.Limit)
}
