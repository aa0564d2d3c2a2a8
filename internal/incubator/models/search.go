package models

import (
	"fmt"
	"time"

	e "github.com/gartstein/incubator/internal/incubator/errors"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SearchFilter is the typed facet set of a tenant search.
type SearchFilter struct {
	BatimentID uint
	// Search is matched case-insensitively against the name columns of each kind.
	Search string
	// FormulaID restricts results to tenants holding that formula. When nil only
	// tenants without any formula assignment match.
	FormulaID *uint
	// SelectedDate picks the assignment in force on that day. Ignored without FormulaID.
	SelectedDate *time.Time
	Kinds        []Kind
	Limit        int
	Offset       int
}

// KindsFromFlags maps the pm/pp request flags onto kinds. Neither flag set
// means both kinds.
func KindsFromFlags(pm, pp bool) []Kind {
	switch {
	case pp && !pm:
		return []Kind{KindIndividual}
	case pm && !pp:
		return []Kind{KindCorporate}
	default:
		return []Kind{KindIndividual, KindCorporate}
	}
}

// Normalize validates the filter and fills defaults.
func (f *SearchFilter) Normalize() error {
	if f.BatimentID == 0 {
		return fmt.Errorf("%w: batiment_id is required", e.ErrInvalidInput)
	}
	if f.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", e.ErrInvalidInput)
	}
	if f.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", e.ErrInvalidInput)
	}
	if f.Limit == 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if len(f.Kinds) == 0 {
		f.Kinds = KindsFromFlags(false, false)
	}
	for _, k := range f.Kinds {
		if !k.Valid() {
			return fmt.Errorf("%w: unknown tenant kind %q", e.ErrInvalidInput, k)
		}
	}
	return nil
}

// DateFiltered reports whether the assignment date predicate applies.
func (f *SearchFilter) DateFiltered() bool {
	return f.SelectedDate != nil && f.FormulaID != nil
}

// SearchPage is one page of merged results.
type SearchPage struct {
	Data       []TenantSummary
	TotalCount int64
	Next       *int
	Prev       *int
}

// Cursors derives the next and previous offsets of a page.
func Cursors(offset, limit int, total int64) (next, prev *int) {
	if n := offset + limit; int64(n) < total {
		next = &n
	}
	if offset > 0 {
		p := offset - limit
		if p < 0 {
			p = 0
		}
		prev = &p
	}
	return next, prev
}
