package store

import (
	"fmt"

	"github.com/sixhops/sixhops/pkg/types"
)

// tableFor maps a node kind to its record table.
func tableFor(kind types.Kind) (string, error) {
	switch kind {
	case types.KindPerson:
		return "people", nil
	case types.KindMovie:
		return "movies", nil
	case types.KindSeries:
		return "tv_series", nil
	default:
		return "", fmt.Errorf("%w: %v", types.ErrUnknownMediaType, kind)
	}
}

// creditsTableFor maps a credit kind to its actor/credit edge table.
func creditsTableFor(kind types.Kind) (string, error) {
	switch kind {
	case types.KindMovie:
		return "movie_credits", nil
	case types.KindSeries:
		return "tv_credits", nil
	default:
		return "", fmt.Errorf("%w: %v is not a credit kind", types.ErrUnknownMediaType, kind)
	}
}
