package db

import (
	"context"
	"time"

	rows "github.com/gartstein/incubator/internal/incubator/db/models"
	"github.com/gartstein/incubator/internal/incubator/models"
	"gorm.io/gorm/clause"
)

// Exit, post-incubation and first-meeting records hold one row per tenant.
// They are written with a native INSERT .. ON CONFLICT DO UPDATE so that
// concurrent writers for the same tenant cannot create a second row.

var tenantKeyColumns = []clause.Column{{Name: "qualite"}, {Name: "tiers_id"}}

func (r *Repository) UpsertExit(ctx context.Context, x *models.Exit) error {
	now := time.Now().UTC()
	row := &rows.Exit{
		Qualite:    string(x.Kind),
		TiersID:    x.TenantID,
		DateSortie: x.Date,
		Motif:      x.Reason,
		Audit: rows.Audit{
			CreationUser: x.UpdateUser,
			UpdateUser:   x.UpdateUser,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   tenantKeyColumns,
		DoUpdates: clause.AssignmentColumns([]string{"date_sortie", "motif", "update_user", "updated_at"}),
	}).Create(row).Error
}

func (r *Repository) GetExit(ctx context.Context, kind models.Kind, tenantID uint) (*models.Exit, error) {
	var row rows.Exit
	if err := r.db.WithContext(ctx).Where("qualite = ? AND tiers_id = ?", string(kind), tenantID).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return &models.Exit{
		Kind:     kind,
		TenantID: row.TiersID,
		Date:     row.DateSortie,
		Reason:   row.Motif,
		Audit:    auditToModel(row.Audit),
	}, nil
}

// CountExits returns the number of exit rows stored for a tenant.
func (r *Repository) CountExits(ctx context.Context, kind models.Kind, tenantID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&rows.Exit{}).
		Where("qualite = ? AND tiers_id = ?", string(kind), tenantID).
		Count(&count).Error
	return count, err
}

func (r *Repository) UpsertPostIncubation(ctx context.Context, p *models.PostIncubation) error {
	now := time.Now().UTC()
	row := &rows.PostIncubation{
		Qualite:     string(p.Kind),
		TiersID:     p.TenantID,
		Statut:      p.Status,
		Commentaire: p.Comment,
		Audit: rows.Audit{
			CreationUser: p.UpdateUser,
			UpdateUser:   p.UpdateUser,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   tenantKeyColumns,
		DoUpdates: clause.AssignmentColumns([]string{"statut", "commentaire", "update_user", "updated_at"}),
	}).Create(row).Error
}

func (r *Repository) GetPostIncubation(ctx context.Context, kind models.Kind, tenantID uint) (*models.PostIncubation, error) {
	var row rows.PostIncubation
	if err := r.db.WithContext(ctx).Where("qualite = ? AND tiers_id = ?", string(kind), tenantID).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return &models.PostIncubation{
		Kind:     kind,
		TenantID: row.TiersID,
		Status:   row.Statut,
		Comment:  row.Commentaire,
		Audit:    auditToModel(row.Audit),
	}, nil
}

func (r *Repository) UpsertFirstMeeting(ctx context.Context, m *models.FirstMeeting) error {
	now := time.Now().UTC()
	row := &rows.FirstMeeting{
		TieppID:    m.TenantID,
		Date:       m.Date,
		Canal:      m.Channel,
		Prescriber: m.Prescriber,
		Notes:      m.Notes,
		Audit: rows.Audit{
			CreationUser: m.UpdateUser,
			UpdateUser:   m.UpdateUser,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tiepp_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"date_rdv", "canal", "prescripteur", "notes", "update_user", "updated_at"}),
	}).Create(row).Error
}

func (r *Repository) GetFirstMeeting(ctx context.Context, tenantID uint) (*models.FirstMeeting, error) {
	var row rows.FirstMeeting
	if err := r.db.WithContext(ctx).Where("tiepp_id = ?", tenantID).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return &models.FirstMeeting{
		TenantID:   row.TieppID,
		Date:       row.Date,
		Channel:    row.Canal,
		Prescriber: row.Prescriber,
		Notes:      row.Notes,
		Audit:      auditToModel(row.Audit),
	}, nil
}
