package db

import (
	"context"
	"fmt"
	"time"

	rows "github.com/gartstein/incubator/internal/incubator/db/models"
	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/models"
	"gorm.io/gorm/clause"
)

func (r *Repository) CreateIndividual(ctx context.Context, i *models.Individual) error {
	row := individualToRow(i)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err)
	}
	i.ID = row.ID
	i.CreatedAt, i.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return nil
}

func (r *Repository) GetIndividual(ctx context.Context, id uint) (*models.Individual, error) {
	var row rows.Individual
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return individualToModel(&row), nil
}

// UpdateIndividual replaces every mutable column. CompanyID and creation
// stamps are left untouched.
func (r *Repository) UpdateIndividual(ctx context.Context, i *models.Individual) error {
	result := r.db.WithContext(ctx).Model(&rows.Individual{}).
		Where("id = ?", i.ID).
		Updates(map[string]interface{}{
			"batiment_id":    i.BatimentID,
			"civilite":       i.Civility,
			"nom":            i.LastName,
			"prenom":         i.FirstName,
			"date_naissance": nullable(i.BirthDate),
			"lieu_naissance": i.BirthPlace,
			"email":          i.Email,
			"telephone":      i.Phone,
			"adresse":        i.Address.Street,
			"code_postal":    i.Address.PostalCode,
			"ville":          i.Address.City,
			"csp":            i.SocioCategory,
			"update_user":    i.UpdateUser,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) CreateCorporate(ctx context.Context, c *models.Corporate) error {
	row := corporateToRow(c)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err)
	}
	c.ID = row.ID
	c.CreatedAt, c.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return nil
}

func (r *Repository) GetCorporate(ctx context.Context, id uint) (*models.Corporate, error) {
	var row rows.Corporate
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return corporateToModel(&row), nil
}

func (r *Repository) UpdateCorporate(ctx context.Context, c *models.Corporate) error {
	result := r.db.WithContext(ctx).Model(&rows.Corporate{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"batiment_id":     c.BatimentID,
			"raison_sociale":  c.LegalName,
			"forme_juridique": c.LegalForm,
			"siret":           c.Siret,
			"secteur":         c.Sector,
			"adresse":         c.Address.Street,
			"code_postal":     c.Address.PostalCode,
			"ville":           c.Address.City,
			"capital":         c.Capital,
			"date_creation":   nullable(c.CreatedOn),
			"update_user":     c.UpdateUser,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

type dependent struct {
	model interface{}
	where string
}

// DeleteTenant removes a tenant together with every row that references it.
// Callers run it inside WithTransaction.
func (r *Repository) DeleteTenant(ctx context.Context, kind models.Kind, id uint) error {
	s, err := schemaFor(kind)
	if err != nil {
		return err
	}
	db := r.db.WithContext(ctx)

	if err := db.Where("qualite = ? AND tiers_id = ?", string(kind), id).Delete(&rows.Exit{}).Error; err != nil {
		return fmt.Errorf("failed to delete exit record: %w", err)
	}
	if err := db.Where("qualite = ? AND tiers_id = ?", string(kind), id).Delete(&rows.PostIncubation{}).Error; err != nil {
		return fmt.Errorf("failed to delete post-incubation record: %w", err)
	}

	var tenant interface{}
	var dependents []dependent
	switch kind {
	case models.KindIndividual:
		tenant = &rows.Individual{}
		dependents = []dependent{
			{&rows.Relation{}, "tiepp_id = ?"},
			{&rows.FollowUp{}, "tiepp_id = ?"},
			{&rows.Project{}, "tiepp_id = ?"},
			{&rows.FirstMeeting{}, "tiepp_id = ?"},
		}
	case models.KindCorporate:
		tenant = &rows.Corporate{}
		dependents = []dependent{
			{&rows.Relation{}, "tiepm_id = ?"},
			{&rows.Workforce{}, "tiepm_id = ?"},
			{&rows.Revenue{}, "tiepm_id = ?"},
		}
	}
	for _, d := range dependents {
		if err := db.Where(d.where, id).Delete(d.model).Error; err != nil {
			return fmt.Errorf("failed to delete dependents: %w", err)
		}
	}
	if err := db.Table(s.formulaTable).Where("tiers_id = ?", id).Delete(&rows.FormulaAssignment{}).Error; err != nil {
		return fmt.Errorf("failed to delete formula assignments: %w", err)
	}

	result := db.Where("id = ?", id).Delete(tenant)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// TenantBelongsToCompany reports whether the tenant exists under companyID.
func (r *Repository) TenantBelongsToCompany(ctx context.Context, kind models.Kind, id, companyID uint) (bool, error) {
	s, err := schemaFor(kind)
	if err != nil {
		return false, err
	}
	var count int64
	result := r.db.WithContext(ctx).Table(s.table).
		Where("id = ? AND company_id = ?", id, companyID).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

// LockTenant takes a row lock on the tenant for the rest of the transaction so
// concurrent writers of the same tenant run one after the other. SQLite has no
// row locks; its single writer already serializes transactions.
func (r *Repository) LockTenant(ctx context.Context, kind models.Kind, id uint) error {
	s, err := schemaFor(kind)
	if err != nil {
		return err
	}
	var found struct{ ID uint }
	err = r.db.WithContext(ctx).Table(s.table).
		Select("id").
		Where("id = ?", id).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&found).Error
	return translate(err)
}
