package types

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the category of a node in the credits graph.
type Kind int

const (
	KindPerson Kind = iota + 1
	KindMovie
	KindSeries
)

// ErrUnknownMediaType is returned when a provider media_type value does not
// map onto a known credit kind.
var ErrUnknownMediaType = errors.New("unknown media type")

func (k Kind) String() string {
	switch k {
	case KindPerson:
		return "Person"
	case KindMovie:
		return "Movie"
	case KindSeries:
		return "Tv"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsCredit reports whether the kind is an acting credit (a movie or a
// series) rather than a person.
func (k Kind) IsCredit() bool {
	return k == KindMovie || k == KindSeries
}

// ParseMediaType maps a provider media_type value ("movie", "tv") onto a
// credit kind.
func ParseMediaType(mediaType string) (Kind, error) {
	switch strings.ToLower(mediaType) {
	case "movie":
		return KindMovie, nil
	case "tv":
		return KindSeries, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMediaType, mediaType)
	}
}

// CreditKinds returns every acting credit kind, used when no credit filter
// is configured.
func CreditKinds() []Kind {
	return []Kind{KindMovie, KindSeries}
}
