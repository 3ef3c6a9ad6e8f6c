package types

import (
	"context"
	"fmt"
)

// Series is an acting credit node holding a series' info, its top-billed
// cast, and a lazily populated tree of seasons and episodes. Episode guest
// stars are merged into the series' effective cast once their seasons have
// been fetched.
type Series struct {
	base
}

func (s *Series) Name() string {
	return s.infoStr("name")
}

// FirstAirDate returns the series' first air date, or "".
func (s *Series) FirstAirDate() string {
	return s.infoStr("first_air_date")
}

// LastAirDate returns the series' last air date, or "".
func (s *Series) LastAirDate() string {
	return s.infoStr("last_air_date")
}

// Cast returns the series' effective cast: the top-billed cast plus every
// guest star and episode cast member of the seasons fetched so far.
func (s *Series) Cast() []CastEntry {
	if s.meta == nil {
		return nil
	}
	cast := make([]CastEntry, 0, len(s.meta.Cast))
	cast = append(cast, s.meta.Cast...)
	for _, season := range s.meta.Seasons {
		if season == nil {
			continue
		}
		for _, episode := range season.Episodes {
			if episode == nil {
				continue
			}
			cast = append(cast, episode.GuestStars...)
			cast = append(cast, episode.Cast...)
		}
	}
	return cast
}

// Related yields the person identity of every effective cast member.
func (s *Series) Related(ctx context.Context) ([]ID, error) {
	if err := s.Ensure(ctx); err != nil {
		return nil, err
	}
	cast := s.Cast()
	related := make([]ID, 0, len(cast))
	for _, entry := range cast {
		related = append(related, NewID(KindPerson, entry.ID))
	}
	return related, nil
}

// Season returns the season sub-tree with the given 1-based number,
// fetching and persisting it on first access.
func (s *Series) Season(ctx context.Context, number int) (*Season, error) {
	if number < 1 {
		return nil, fmt.Errorf("%w: season %d", ErrInvalidEpisodeRef, number)
	}
	if err := s.Ensure(ctx); err != nil {
		return nil, err
	}
	if season := s.meta.Season(number); season != nil {
		return season, nil
	}

	season, err := s.res.ResolveSeason(ctx, s.id, number)
	if err != nil {
		return nil, fmt.Errorf("loading %v s%d: %w", s.id, number, err)
	}
	s.meta.PutSeason(season)
	if err := s.res.Persist(ctx, s.id, s.meta); err != nil {
		return nil, err
	}
	return season, nil
}

// Episode returns one episode with its own credits, fetching and persisting
// it on first access. The containing season is loaded first when missing.
func (s *Series) Episode(ctx context.Context, ref EpisodeRef) (*Episode, error) {
	season, err := s.Season(ctx, ref.Season)
	if err != nil {
		return nil, err
	}
	if episode := season.Episode(ref.Episode); episode.Loaded() {
		return episode, nil
	}

	episode, err := s.res.ResolveEpisode(ctx, s.id, ref)
	if err != nil {
		return nil, fmt.Errorf("loading %v %v: %w", s.id, ref, err)
	}
	for len(season.Episodes) < ref.Episode {
		season.Episodes = append(season.Episodes, nil)
	}
	season.Episodes[ref.Episode-1] = episode
	if err := s.res.Persist(ctx, s.id, s.meta); err != nil {
		return nil, err
	}
	return episode, nil
}

// LoadSeasons fetches every regular season listed in the series info,
// optionally pulling per-episode credits as well. Season 0 (specials) is
// skipped.
func (s *Series) LoadSeasons(ctx context.Context, loadEpisodes bool) error {
	if err := s.Ensure(ctx); err != nil {
		return err
	}
	for _, number := range s.seasonNumbers() {
		season, err := s.Season(ctx, number)
		if err != nil {
			return err
		}
		if loadEpisodes {
			if err := s.loadEpisodes(ctx, season); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Series) loadEpisodes(ctx context.Context, season *Season) error {
	for _, episode := range season.Episodes {
		if episode == nil || episode.Loaded() {
			continue
		}
		ref := EpisodeRef{Season: season.Number, Episode: episode.Number}
		if _, err := s.Episode(ctx, ref); err != nil {
			return err
		}
	}
	return nil
}

// seasonNumbers lists regular season numbers from the provider info
// document.
func (s *Series) seasonNumbers() []int {
	seasons, ok := s.meta.Info["seasons"].([]any)
	if !ok {
		return nil
	}
	numbers := make([]int, 0, len(seasons))
	for _, raw := range seasons {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if number := Info(entry).Int("season_number"); number >= 1 {
			numbers = append(numbers, number)
		}
	}
	return numbers
}

// CastView returns the series' cast entries scoped by opts: a single
// episode, a single season, or the whole series, with optional on-demand
// season and episode loading.
func (s *Series) CastView(ctx context.Context, opts CastOptions) ([]CastEntry, error) {
	if err := s.Ensure(ctx); err != nil {
		return nil, err
	}

	var entries []CastEntry
	switch {
	case opts.Episode != nil:
		episode, err := s.Episode(ctx, *opts.Episode)
		if err != nil {
			return nil, err
		}
		entries = append(entries, episode.Cast...)
		entries = append(entries, episode.GuestStars...)

	case opts.Season > 0:
		season, err := s.Season(ctx, opts.Season)
		if err != nil {
			return nil, err
		}
		if opts.LoadEpisodes {
			if err := s.loadEpisodes(ctx, season); err != nil {
				return nil, err
			}
		}
		for _, episode := range season.Episodes {
			if episode == nil {
				continue
			}
			entries = append(entries, episode.Cast...)
			entries = append(entries, episode.GuestStars...)
		}
		if !opts.LoadEpisodes {
			entries = append(entries, s.meta.Cast...)
		}

	default:
		if opts.LoadSeasons {
			if err := s.LoadSeasons(ctx, opts.LoadEpisodes); err != nil {
				return nil, err
			}
			entries = s.Cast()
		} else {
			entries = s.meta.Cast
		}
	}

	return filterPlayedBy(entries, opts.PlayedBy), nil
}
