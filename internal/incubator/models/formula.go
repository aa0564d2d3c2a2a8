package models

import (
	"time"
)

// FormulaType is a membership plan offered by a company.
type FormulaType struct {
	ID        uint
	CompanyID uint
	Label     string
}

// Assignment links a tenant to a formula type over a period.
type Assignment struct {
	ID        uint
	Kind      Kind
	TenantID  uint
	FormulaID uint
	Period    Interval
	Audit
}

// AssignmentInput carries the fields of a create or update request.
type AssignmentInput struct {
	Kind      Kind
	TenantID  uint
	FormulaID uint
	Begin     time.Time
	End       *time.Time
}

// Period returns the requested interval.
func (in AssignmentInput) Period() Interval {
	return Interval{Begin: in.Begin, End: in.End}
}
