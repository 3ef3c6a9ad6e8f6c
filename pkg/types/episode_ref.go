package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidEpisodeRef is returned for episode specifiers that match neither
// the sNeM nor the NxM form, or that name a season or episode below 1.
var ErrInvalidEpisodeRef = errors.New("invalid episode reference")

// EpisodeRef addresses one episode of a series by 1-based season and
// episode numbers.
type EpisodeRef struct {
	Season  int
	Episode int
}

func (r EpisodeRef) String() string {
	return fmt.Sprintf("s%de%d", r.Season, r.Episode)
}

var (
	seasonEpisodeRe = regexp.MustCompile(`^s([0-9]+)e([0-9]+)$`)
	crossRe         = regexp.MustCompile(`^([0-9]+)x([0-9]+)$`)
)

// ParseEpisodeRef parses an episode specifier in either "s1e2" or "1x2"
// form (case insensitive).
func ParseEpisodeRef(s string) (EpisodeRef, error) {
	lowered := strings.ToLower(strings.TrimSpace(s))

	re := crossRe
	if strings.HasPrefix(lowered, "s") {
		re = seasonEpisodeRe
	}
	match := re.FindStringSubmatch(lowered)
	if match == nil {
		return EpisodeRef{}, fmt.Errorf("%w: %q", ErrInvalidEpisodeRef, s)
	}

	season, err := strconv.Atoi(match[1])
	if err != nil {
		return EpisodeRef{}, fmt.Errorf("%w: %q", ErrInvalidEpisodeRef, s)
	}
	episode, err := strconv.Atoi(match[2])
	if err != nil {
		return EpisodeRef{}, fmt.Errorf("%w: %q", ErrInvalidEpisodeRef, s)
	}
	if season < 1 || episode < 1 {
		return EpisodeRef{}, fmt.Errorf("%w: %q", ErrInvalidEpisodeRef, s)
	}
	return EpisodeRef{Season: season, Episode: episode}, nil
}
