package db

import (
	"context"
	"time"

	rows "github.com/gartstein/incubator/internal/incubator/db/models"
	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/models"
)

// relationSide returns the column holding the tenant on its side of the link.
func relationSide(kind models.Kind) string {
	if kind == models.KindCorporate {
		return "tiepm_id"
	}
	return "tiepp_id"
}

// ListRelations returns the relations of a tenant, whichever side it is on.
func (r *Repository) ListRelations(ctx context.Context, kind models.Kind, tenantID uint) ([]models.Relation, error) {
	var found []rows.Relation
	if err := r.db.WithContext(ctx).
		Where(relationSide(kind)+" = ?", tenantID).
		Order("date_debut DESC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	out := make([]models.Relation, 0, len(found))
	for i := range found {
		out = append(out, relationToModel(&found[i]))
	}
	return out, nil
}

func (r *Repository) CreateRelation(ctx context.Context, rel *models.Relation) error {
	row := &rows.Relation{
		TieppID:      rel.IndividualID,
		TiepmID:      rel.CorporateID,
		TypeRelation: rel.Type,
		DateDebut:    rel.Period.Begin,
		DateFin:      rel.Period.End,
		Audit:        auditToRow(rel.Audit),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err)
	}
	rel.ID = row.ID
	rel.CreatedAt, rel.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return nil
}

// UpdateRelation rewrites type and period of a relation the tenant takes part in.
func (r *Repository) UpdateRelation(ctx context.Context, kind models.Kind, tenantID uint, rel *models.Relation) error {
	result := r.db.WithContext(ctx).Model(&rows.Relation{}).
		Where("id = ? AND "+relationSide(kind)+" = ?", rel.ID, tenantID).
		Updates(map[string]interface{}{
			"type_relation": rel.Type,
			"date_debut":    rel.Period.Begin,
			"date_fin":      nullable(rel.Period.End),
			"update_user":   rel.UpdateUser,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) GetRelation(ctx context.Context, kind models.Kind, tenantID, id uint) (*models.Relation, error) {
	var row rows.Relation
	if err := r.db.WithContext(ctx).
		Where("id = ? AND "+relationSide(kind)+" = ?", id, tenantID).
		First(&row).Error; err != nil {
		return nil, translate(err)
	}
	rel := relationToModel(&row)
	return &rel, nil
}

func (r *Repository) DeleteRelation(ctx context.Context, kind models.Kind, tenantID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND "+relationSide(kind)+" = ?", id, tenantID).
		Delete(&rows.Relation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
