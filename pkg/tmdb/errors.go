package tmdb

import "errors"

var (
	// ErrNotFound marks identities the provider has no record of.
	ErrNotFound = errors.New("not found")

	// ErrFetch marks provider round-trips that failed for any other reason:
	// transport errors, non-2xx statuses, undecodable bodies.
	ErrFetch = errors.New("provider fetch failed")
)
