package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Workforce is the headcount of a corporate tenant for one year.
type Workforce struct {
	TenantID  uint
	Year      int
	Permanent int
	FixedTerm int
	Other     int
	Audit
}

// Total sums every contract type.
func (w *Workforce) Total() int {
	return w.Permanent + w.FixedTerm + w.Other
}

// Revenue is the turnover of a corporate tenant for one year.
type Revenue struct {
	TenantID uint
	Year     int
	Amount   decimal.Decimal
	Audit
}

// Exit records when and why a tenant left the incubator. One row per tenant.
type Exit struct {
	Kind     Kind
	TenantID uint
	Date     time.Time
	Reason   string
	Audit
}

// PostIncubation records what became of a tenant after leaving. One row per tenant.
type PostIncubation struct {
	Kind     Kind
	TenantID uint
	Status   string
	Comment  string
	Audit
}

// FirstMeeting is the single intake meeting of an individual tenant.
type FirstMeeting struct {
	TenantID   uint
	Date       time.Time
	Channel    string
	Prescriber string
	Notes      string
	Audit
}
