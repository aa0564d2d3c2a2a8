package db

import (
	"context"
	"time"

	rows "github.com/gartstein/incubator/internal/incubator/db/models"
	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/models"
)

func (r *Repository) ListWorkforce(ctx context.Context, tenantID uint) ([]models.Workforce, error) {
	var found []rows.Workforce
	if err := r.db.WithContext(ctx).Where("tiepm_id = ?", tenantID).Order("annee DESC").Find(&found).Error; err != nil {
		return nil, err
	}
	out := make([]models.Workforce, 0, len(found))
	for i := range found {
		out = append(out, workforceToModel(&found[i]))
	}
	return out, nil
}

// WorkforceExists reports whether a row already holds tenantID and year.
func (r *Repository) WorkforceExists(ctx context.Context, tenantID uint, year int) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&rows.Workforce{}).
		Where("tiepm_id = ? AND annee = ?", tenantID, year).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

// CreateWorkforce inserts a year. A duplicate (tenant, year) yields ErrConflict.
func (r *Repository) CreateWorkforce(ctx context.Context, w *models.Workforce) error {
	row := &rows.Workforce{
		TiepmID:   w.TenantID,
		Annee:     w.Year,
		Permanent: w.Permanent,
		FixedTerm: w.FixedTerm,
		Other:     w.Other,
		Audit:     auditToRow(w.Audit),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err)
	}
	w.CreatedAt, w.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return nil
}

func (r *Repository) UpdateWorkforce(ctx context.Context, w *models.Workforce) error {
	result := r.db.WithContext(ctx).Model(&rows.Workforce{}).
		Where("tiepm_id = ? AND annee = ?", w.TenantID, w.Year).
		Updates(map[string]interface{}{
			"effectif_cdi":    w.Permanent,
			"effectif_cdd":    w.FixedTerm,
			"effectif_autres": w.Other,
			"update_user":     w.UpdateUser,
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

func (r *Repository) DeleteWorkforce(ctx context.Context, tenantID uint, year int) error {
	result := r.db.WithContext(ctx).Where("tiepm_id = ? AND annee = ?", tenantID, year).Delete(&rows.Workforce{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) ListRevenue(ctx context.Context, tenantID uint) ([]models.Revenue, error) {
	var found []rows.Revenue
	if err := r.db.WithContext(ctx).Where("tiepm_id = ?", tenantID).Order("annee DESC").Find(&found).Error; err != nil {
		return nil, err
	}
	out := make([]models.Revenue, 0, len(found))
	for i := range found {
		out = append(out, revenueToModel(&found[i]))
	}
	return out, nil
}

func (r *Repository) RevenueExists(ctx context.Context, tenantID uint, year int) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&rows.Revenue{}).
		Where("tiepm_id = ? AND annee = ?", tenantID, year).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

// CreateRevenue inserts a year. A duplicate (tenant, year) yields ErrConflict.
func (r *Repository) CreateRevenue(ctx context.Context, rev *models.Revenue) error {
	row := &rows.Revenue{
		TiepmID: rev.TenantID,
		Annee:   rev.Year,
		Amount:  rev.Amount,
		Audit:   auditToRow(rev.Audit),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err)
	}
	rev.CreatedAt, rev.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return nil
}

func (r *Repository) UpdateRevenue(ctx context.Context, rev *models.Revenue) error {
	result := r.db.WithContext(ctx).Model(&rows.Revenue{}).
		Where("tiepm_id = ? AND annee = ?", rev.TenantID, rev.Year).
		Updates(map[string]interface{}{
			"ca":          rev.Amount,
			"update_user": rev.UpdateUser,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteRevenue(ctx context.Context, tenantID uint, year int) error {
	result := r.db.WithContext(ctx).Where("tiepm_id = ? AND annee = ?", tenantID, year).Delete(&rows.Revenue{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
