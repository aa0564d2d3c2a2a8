package db

import (
	"context"
	"time"

	rows "github.com/gartstein/incubator/internal/incubator/db/models"
	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/models"
)

// overlapPredicate is the standard interval intersection test with a missing
// end date read as models.OpenEnd.
const overlapPredicate = "NOT (? > COALESCE(date_fin_formule, ?) OR ? < date_debut_formule)"

func (r *Repository) ListAssignments(ctx context.Context, kind models.Kind, tenantID uint) ([]models.Assignment, error) {
	s, err := schemaFor(kind)
	if err != nil {
		return nil, err
	}
	var found []rows.FormulaAssignment
	if err := r.db.WithContext(ctx).Table(s.formulaTable).
		Where("tiers_id = ?", tenantID).
		Order("date_debut_formule ASC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	out := make([]models.Assignment, 0, len(found))
	for i := range found {
		out = append(out, assignmentToModel(kind, &found[i]))
	}
	return out, nil
}

func (r *Repository) GetAssignment(ctx context.Context, kind models.Kind, tenantID, id uint) (*models.Assignment, error) {
	s, err := schemaFor(kind)
	if err != nil {
		return nil, err
	}
	var row rows.FormulaAssignment
	if err := r.db.WithContext(ctx).Table(s.formulaTable).
		Where("id = ? AND tiers_id = ?", id, tenantID).
		First(&row).Error; err != nil {
		return nil, translate(err)
	}
	a := assignmentToModel(kind, &row)
	return &a, nil
}

// CountOverlappingAssignments counts the assignments of a tenant whose period
// intersects period. excludeID, when non zero, is left out of the count so an
// assignment never conflicts with its own previous state.
func (r *Repository) CountOverlappingAssignments(
	ctx context.Context,
	kind models.Kind,
	tenantID uint,
	period models.Interval,
	excludeID uint,
) (int64, error) {
	s, err := schemaFor(kind)
	if err != nil {
		return 0, err
	}
	q := r.db.WithContext(ctx).Table(s.formulaTable).
		Where("tiers_id = ?", tenantID).
		Where(overlapPredicate, period.Begin, models.OpenEnd, period.EndOrMax())
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	s, err := schemaFor(a.Kind)
	if err != nil {
		return err
	}
	row := &rows.FormulaAssignment{
		TiersID:   a.TenantID,
		FormuleID: a.FormulaID,
		DateDebut: a.Period.Begin,
		DateFin:   a.Period.End,
		Audit:     auditToRow(a.Audit),
	}
	if err := r.db.WithContext(ctx).Table(s.formulaTable).Create(row).Error; err != nil {
		return translate(err)
	}
	a.ID = row.ID
	a.CreatedAt, a.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return nil
}

// UpdateAssignment rewrites formula and period of an assignment owned by a.TenantID.
func (r *Repository) UpdateAssignment(ctx context.Context, a *models.Assignment) error {
	s, err := schemaFor(a.Kind)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Table(s.formulaTable).
		Where("id = ? AND tiers_id = ?", a.ID, a.TenantID).
		Updates(map[string]interface{}{
			"formule_id":         a.FormulaID,
			"date_debut_formule": a.Period.Begin,
			"date_fin_formule":   nullable(a.Period.End),
			"update_user":        a.UpdateUser,
			"updated_at":         time.Now().UTC(),
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteAssignment(ctx context.Context, kind models.Kind, tenantID, id uint) error {
	s, err := schemaFor(kind)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Table(s.formulaTable).
		Where("id = ? AND tiers_id = ?", id, tenantID).
		Delete(&rows.FormulaAssignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
