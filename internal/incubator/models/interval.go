package models

import (
	"fmt"
	"time"

	e "github.com/gartstein/incubator/internal/incubator/errors"
)

// DateLayout is the wire format of civil dates.
const DateLayout = "2006-01-02"

// OpenEnd stands in for a missing end date in overlap computations.
var OpenEnd = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// ParseDate parses a YYYY-MM-DD civil date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", e.ErrInvalidInput, s)
	}
	return t, nil
}

// CivilDate drops the clock part of t, keeping its calendar day in t's location.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Interval is a closed date range. A nil End means the range is still open.
type Interval struct {
	Begin time.Time
	End   *time.Time
}

// EndOrMax returns End, or OpenEnd when the interval is open.
func (i Interval) EndOrMax() time.Time {
	if i.End == nil {
		return OpenEnd
	}
	return *i.End
}

// Validate rejects a missing begin date and an end date before the begin date.
func (i Interval) Validate() error {
	if i.Begin.IsZero() {
		return fmt.Errorf("%w: begin date is required", e.ErrInvalidInput)
	}
	if i.End != nil && i.End.Before(i.Begin) {
		return fmt.Errorf("%w: end date %s is before begin date %s",
			e.ErrInvalidInput, i.End.Format(DateLayout), i.Begin.Format(DateLayout))
	}
	return nil
}

// Overlaps implements NOT (a.begin > b.end OR a.end < b.begin) with open ends
// treated as OpenEnd.
func (i Interval) Overlaps(o Interval) bool {
	return !(i.Begin.After(o.EndOrMax()) || i.EndOrMax().Before(o.Begin))
}

// Contains reports whether d falls within the interval, bounds included.
func (i Interval) Contains(d time.Time) bool {
	return !d.Before(i.Begin) && (i.End == nil || !d.After(*i.End))
}
