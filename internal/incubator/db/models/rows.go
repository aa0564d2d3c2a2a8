// Package models contains the persistence rows of the incubator service,
// configured to work using GORM as the ORM. Table names follow the
// historical schema (tiepp, tiepm, ...).
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Audit columns shared by every mutable row.
type Audit struct {
	CreationUser string `gorm:"size:64"`
	UpdateUser   string `gorm:"size:64"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Building struct {
	ID        uint   `gorm:"primaryKey"`
	CompanyID uint   `gorm:"not null;index"`
	Name      string `gorm:"size:255;not null"`
	Address   string `gorm:"size:255"`
}

func (Building) TableName() string { return "batiment" }

type FormulaType struct {
	ID        uint   `gorm:"primaryKey"`
	CompanyID uint   `gorm:"not null;index"`
	Label     string `gorm:"column:libelle;size:255;not null"`
}

func (FormulaType) TableName() string { return "formule" }

type Individual struct {
	ID            uint       `gorm:"primaryKey"`
	CompanyID     uint       `gorm:"not null;index"`
	BatimentID    uint       `gorm:"not null;index"`
	Civility      string     `gorm:"column:civilite;size:16"`
	LastName      string     `gorm:"column:nom;size:255;not null;default:''"`
	FirstName     string     `gorm:"column:prenom;size:255;not null;default:''"`
	BirthDate     *time.Time `gorm:"column:date_naissance;type:date"`
	BirthPlace    string     `gorm:"column:lieu_naissance;size:255"`
	Email         string     `gorm:"size:255"`
	Phone         string     `gorm:"column:telephone;size:32"`
	Street        string     `gorm:"column:adresse;size:255"`
	PostalCode    string     `gorm:"column:code_postal;size:16"`
	City          string     `gorm:"column:ville;size:255"`
	SocioCategory string     `gorm:"column:csp;size:64"`
	Audit
}

func (Individual) TableName() string { return "tiepp" }

type Corporate struct {
	ID         uint            `gorm:"primaryKey"`
	CompanyID  uint            `gorm:"not null;index"`
	BatimentID uint            `gorm:"not null;index"`
	LegalName  string          `gorm:"column:raison_sociale;size:255;not null;default:''"`
	LegalForm  string          `gorm:"column:forme_juridique;size:64"`
	Siret      string          `gorm:"size:14"`
	Sector     string          `gorm:"column:secteur;size:255"`
	Street     string          `gorm:"column:adresse;size:255"`
	PostalCode string          `gorm:"column:code_postal;size:16"`
	City       string          `gorm:"column:ville;size:255"`
	Capital    decimal.Decimal `gorm:"column:capital;type:decimal(15,2)"`
	CreatedOn  *time.Time      `gorm:"column:date_creation;type:date"`
	Audit
}

func (Corporate) TableName() string { return "tiepm" }

// FormulaAssignment is stored in tiepp_formule or tiepm_formule depending on
// the tenant kind; both tables share this shape.
type FormulaAssignment struct {
	ID        uint       `gorm:"primaryKey"`
	TiersID   uint       `gorm:"column:tiers_id;not null;index"`
	FormuleID uint       `gorm:"column:formule_id;not null;index"`
	DateDebut time.Time  `gorm:"column:date_debut_formule;type:date;not null"`
	DateFin   *time.Time `gorm:"column:date_fin_formule;type:date"`
	Audit
}

type Workforce struct {
	ID        uint `gorm:"primaryKey"`
	TiepmID   uint `gorm:"column:tiepm_id;not null;uniqueIndex:ux_tiepmeff_year"`
	Annee     int  `gorm:"column:annee;not null;uniqueIndex:ux_tiepmeff_year"`
	Permanent int  `gorm:"column:effectif_cdi;not null;default:0"`
	FixedTerm int  `gorm:"column:effectif_cdd;not null;default:0"`
	Other     int  `gorm:"column:effectif_autres;not null;default:0"`
	Audit
}

func (Workforce) TableName() string { return "tiepmeff" }

type Revenue struct {
	ID      uint            `gorm:"primaryKey"`
	TiepmID uint            `gorm:"column:tiepm_id;not null;uniqueIndex:ux_tiepmca_year"`
	Annee   int             `gorm:"column:annee;not null;uniqueIndex:ux_tiepmca_year"`
	Amount  decimal.Decimal `gorm:"column:ca;type:decimal(15,2);not null"`
	Audit
}

func (Revenue) TableName() string { return "tiepmca" }

type Exit struct {
	ID         uint      `gorm:"primaryKey"`
	Qualite    string    `gorm:"size:2;not null;uniqueIndex:ux_sortie_tiers"`
	TiersID    uint      `gorm:"column:tiers_id;not null;uniqueIndex:ux_sortie_tiers"`
	DateSortie time.Time `gorm:"column:date_sortie;type:date;not null"`
	Motif      string    `gorm:"size:255"`
	Audit
}

func (Exit) TableName() string { return "tiers_sortie" }

type PostIncubation struct {
	ID          uint   `gorm:"primaryKey"`
	Qualite     string `gorm:"size:2;not null;uniqueIndex:ux_postpep_tiers"`
	TiersID     uint   `gorm:"column:tiers_id;not null;uniqueIndex:ux_postpep_tiers"`
	Statut      string `gorm:"size:64;not null"`
	Commentaire string `gorm:"size:3000"`
	Audit
}

func (PostIncubation) TableName() string { return "tiers_postpep" }

type FirstMeeting struct {
	ID         uint      `gorm:"primaryKey"`
	TieppID    uint      `gorm:"column:tiepp_id;not null;uniqueIndex"`
	Date       time.Time `gorm:"column:date_rdv;type:date;not null"`
	Canal      string    `gorm:"size:64"`
	Prescriber string    `gorm:"column:prescripteur;size:255"`
	Notes      string    `gorm:"size:3000"`
	Audit
}

func (FirstMeeting) TableName() string { return "tiepp_premier_rdv" }

type Relation struct {
	ID           uint       `gorm:"primaryKey"`
	TieppID      uint       `gorm:"column:tiepp_id;not null;index"`
	TiepmID      uint       `gorm:"column:tiepm_id;not null;index"`
	TypeRelation string     `gorm:"column:type_relation;size:64;not null"`
	DateDebut    time.Time  `gorm:"column:date_debut;type:date;not null"`
	DateFin      *time.Time `gorm:"column:date_fin;type:date"`
	Audit
}

func (Relation) TableName() string { return "tiepp_tiepm" }

type FollowUp struct {
	ID         uint      `gorm:"primaryKey"`
	TieppID    uint      `gorm:"column:tiepp_id;not null;index"`
	Date       time.Time `gorm:"column:date_suivi;type:date;not null"`
	HeureDebut string    `gorm:"column:heure_debut;size:5"`
	HeureFin   string    `gorm:"column:heure_fin;size:5"`
	Type       string    `gorm:"column:type_suivi;size:64"`
	Sujet      string    `gorm:"size:255"`
	Retour     string    `gorm:"size:3000"`
	Audit
}

func (FollowUp) TableName() string { return "tiepp_suivi" }

type Project struct {
	ID          uint       `gorm:"primaryKey"`
	TieppID     uint       `gorm:"column:tiepp_id;not null;index"`
	Titre       string     `gorm:"size:255;not null"`
	Description string     `gorm:"size:3000"`
	DateDebut   *time.Time `gorm:"column:date_debut;type:date"`
	Statut      string     `gorm:"size:64"`
	Audit
}

func (Project) TableName() string { return "tiepp_projet" }
