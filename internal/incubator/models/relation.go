package models

import (
	"time"
)

// RelationStatus is derived from the relation end date, never stored.
type RelationStatus string

const (
	RelationActive  RelationStatus = "Active"
	RelationExpired RelationStatus = "Expiré"
)

// Relation is a typed, dated link between an individual and a corporate tenant.
type Relation struct {
	ID           uint
	IndividualID uint
	CorporateID  uint
	Type         string
	Period       Interval
	Audit
}

// StatusAt returns Active when the relation has no end date or ends on or after
// the calendar day of now in loc.
func (r *Relation) StatusAt(now time.Time, loc *time.Location) RelationStatus {
	if r.Period.End == nil {
		return RelationActive
	}
	today := CivilDate(now.In(loc))
	if !CivilDate(*r.Period.End).Before(today) {
		return RelationActive
	}
	return RelationExpired
}
