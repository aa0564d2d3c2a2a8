// Package models defines the core domain models of the incubator service:
// tenants (individuals and corporates), their formula assignments, financial
// years, relations, follow-ups and the search filter.
package models

import (
	"fmt"
	"strings"

	e "github.com/gartstein/incubator/internal/incubator/errors"
)

// Kind discriminates the two mutually exclusive tenant kinds.
type Kind string

const (
	// KindIndividual is a natural person ("personne physique").
	KindIndividual Kind = "PP"
	// KindCorporate is a legal entity ("personne morale").
	KindCorporate Kind = "PM"
)

// Kinds lists every tenant kind in display order.
var Kinds = []Kind{KindIndividual, KindCorporate}

// ParseKind converts a path or query discriminator into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindIndividual:
		return KindIndividual, nil
	case KindCorporate:
		return KindCorporate, nil
	default:
		return "", fmt.Errorf("%w: unknown tenant kind %q", e.ErrInvalidInput, s)
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindIndividual || k == KindCorporate
}

func (k Kind) String() string {
	return string(k)
}

// Require returns an error unless k equals want. Used by operations that only
// exist for one kind (workforce and revenue for corporates, follow-ups for
// individuals).
func (k Kind) Require(want Kind) error {
	if k != want {
		return fmt.Errorf("%w: operation only available for %s tenants", e.ErrInvalidInput, want)
	}
	return nil
}
