package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Building groups tenants; every tenant belongs to exactly one building.
type Building struct {
	ID        uint
	CompanyID uint
	Name      string
	Address   string
}

// Address is the postal address shared by both tenant kinds.
type Address struct {
	Street     string
	PostalCode string
	City       string
}

// Audit carries the acting principals and timestamps stamped on every write.
type Audit struct {
	CreationUser string
	UpdateUser   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Individual is a "PP" tenant.
type Individual struct {
	ID         uint
	CompanyID  uint
	BatimentID uint
	// Civility is the form of address (M., Mme).
	Civility   string
	LastName   string
	FirstName  string
	BirthDate  *time.Time
	BirthPlace string
	Email      string
	Phone      string
	Address    Address

	// SocioCategory is the INSEE socio-professional category.
	SocioCategory string
	Audit
}

// Label is the display label used for ordering and search.
func (i *Individual) Label() string {
	return i.LastName + " " + i.FirstName
}

// Corporate is a "PM" tenant.
type Corporate struct {
	ID         uint
	CompanyID  uint
	BatimentID uint
	LegalName  string
	LegalForm  string
	Siret      string
	Sector     string
	Address    Address
	Capital    decimal.Decimal
	CreatedOn  *time.Time
	Audit
}

// Label is the display label used for ordering and search.
func (c *Corporate) Label() string {
	return c.LegalName
}

// TenantRef identifies a tenant of either kind.
type TenantRef struct {
	Kind Kind
	ID   uint
}

// TenantSummary is the merged row shape returned by the search engine.
type TenantSummary struct {
	Kind       Kind
	ID         uint
	Label      string
	BatimentID uint
	FormulaID  *uint
}

// Project belongs to an individual tenant.
type Project struct {
	ID          uint
	TenantID    uint
	Title       string
	Description string
	StartDate   *time.Time
	Status      string
	Audit
}

// TenantDetail is a tenant of either kind with its formula history.
type TenantDetail struct {
	Kind        Kind
	Individual  *Individual
	Corporate   *Corporate
	Assignments []Assignment
}
