package db

import (
	"context"

	rows "github.com/gartstein/incubator/internal/incubator/db/models"
	"github.com/gartstein/incubator/internal/incubator/models"
)

func (r *Repository) ListBuildings(ctx context.Context, companyID uint) ([]models.Building, error) {
	var found []rows.Building
	if err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Order("name ASC").Find(&found).Error; err != nil {
		return nil, err
	}
	out := make([]models.Building, 0, len(found))
	for _, b := range found {
		out = append(out, models.Building{ID: b.ID, CompanyID: b.CompanyID, Name: b.Name, Address: b.Address})
	}
	return out, nil
}

func (r *Repository) CreateBuilding(ctx context.Context, b *models.Building) error {
	row := &rows.Building{CompanyID: b.CompanyID, Name: b.Name, Address: b.Address}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err)
	}
	b.ID = row.ID
	return nil
}

func (r *Repository) BuildingBelongsToCompany(ctx context.Context, id, companyID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&rows.Building{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) ListFormulaTypes(ctx context.Context, companyID uint) ([]models.FormulaType, error) {
	var found []rows.FormulaType
	if err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Order("libelle ASC").Find(&found).Error; err != nil {
		return nil, err
	}
	out := make([]models.FormulaType, 0, len(found))
	for _, f := range found {
		out = append(out, models.FormulaType{ID: f.ID, CompanyID: f.CompanyID, Label: f.Label})
	}
	return out, nil
}

func (r *Repository) CreateFormulaType(ctx context.Context, f *models.FormulaType) error {
	row := &rows.FormulaType{CompanyID: f.CompanyID, Label: f.Label}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err)
	}
	f.ID = row.ID
	return nil
}

func (r *Repository) FormulaTypeBelongsToCompany(ctx context.Context, id, companyID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&rows.FormulaType{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}
