package db

import (
	"context"
	"time"

	rows "github.com/gartstein/incubator/internal/incubator/db/models"
	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/models"
)

func (r *Repository) ListFollowUps(ctx context.Context, tenantID uint) ([]models.FollowUp, error) {
	var found []rows.FollowUp
	if err := r.db.WithContext(ctx).
		Where("tiepp_id = ?", tenantID).
		Order("date_suivi DESC, heure_debut DESC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	out := make([]models.FollowUp, 0, len(found))
	for i := range found {
		out = append(out, followUpToModel(&found[i]))
	}
	return out, nil
}

func (r *Repository) GetFollowUp(ctx context.Context, tenantID, id uint) (*models.FollowUp, error) {
	var row rows.FollowUp
	if err := r.db.WithContext(ctx).Where("id = ? AND tiepp_id = ?", id, tenantID).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	f := followUpToModel(&row)
	return &f, nil
}

func (r *Repository) CreateFollowUp(ctx context.Context, f *models.FollowUp) error {
	row := &rows.FollowUp{
		TieppID:    f.TenantID,
		Date:       f.Date,
		HeureDebut: f.StartTime,
		HeureFin:   f.EndTime,
		Type:       f.Type,
		Sujet:      f.Subject,
		Retour:     f.Feedback,
		Audit:      auditToRow(f.Audit),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err)
	}
	f.ID = row.ID
	f.CreatedAt, f.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return nil
}

func (r *Repository) UpdateFollowUp(ctx context.Context, f *models.FollowUp) error {
	result := r.db.WithContext(ctx).Model(&rows.FollowUp{}).
		Where("id = ? AND tiepp_id = ?", f.ID, f.TenantID).
		Updates(map[string]interface{}{
			"date_suivi":  f.Date,
			"heure_debut": f.StartTime,
			"heure_fin":   f.EndTime,
			"type_suivi":  f.Type,
			"sujet":       f.Subject,
			"retour":      f.Feedback,
			"update_user": f.UpdateUser,
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

func (r *Repository) DeleteFollowUp(ctx context.Context, tenantID, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ? AND tiepp_id = ?", id, tenantID).Delete(&rows.FollowUp{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) ListProjects(ctx context.Context, tenantID uint) ([]models.Project, error) {
	var found []rows.Project
	if err := r.db.WithContext(ctx).Where("tiepp_id = ?", tenantID).Order("id ASC").Find(&found).Error; err != nil {
		return nil, err
	}
	out := make([]models.Project, 0, len(found))
	for i := range found {
		out = append(out, projectToModel(&found[i]))
	}
	return out, nil
}

func (r *Repository) CreateProject(ctx context.Context, p *models.Project) error {
	row := &rows.Project{
		TieppID:     p.TenantID,
		Titre:       p.Title,
		Description: p.Description,
		DateDebut:   p.StartDate,
		Statut:      p.Status,
		Audit:       auditToRow(p.Audit),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err)
	}
	p.ID = row.ID
	p.CreatedAt, p.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return nil
}

func (r *Repository) UpdateProject(ctx context.Context, p *models.Project) error {
	result := r.db.WithContext(ctx).Model(&rows.Project{}).
		Where("id = ? AND tiepp_id = ?", p.ID, p.TenantID).
		Updates(map[string]interface{}{
			"titre":       p.Title,
			"description": p.Description,
			"date_debut":  nullable(p.StartDate),
			"statut":      p.Status,
			"update_user": p.UpdateUser,
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

func (r *Repository) DeleteProject(ctx context.Context, tenantID, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ? AND tiepp_id = ?", id, tenantID).Delete(&rows.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
