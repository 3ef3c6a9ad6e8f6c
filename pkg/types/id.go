package types

import "fmt"

// ID identifies a person, movie or series. It is a value type: two IDs are
// equal when kind and numeric id match, and an ID is usable as a map key.
type ID struct {
	Kind Kind
	N    int64
}

// NewID builds an identity for the given kind and provider numeric id.
func NewID(kind Kind, n int64) ID {
	return ID{Kind: kind, N: n}
}

func (id ID) String() string {
	return fmt.Sprintf("%s(%d)", id.Kind, id.N)
}

// IsZero reports whether the identity is the zero value.
func (id ID) IsZero() bool {
	return id.Kind == 0 && id.N == 0
}
