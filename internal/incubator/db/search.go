package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/gartstein/incubator/internal/incubator/models"
	"gorm.io/gorm"
)

// tenantRow is the projection shared by every kind sub-query so that the
// sub-queries can be combined with UNION.
type tenantRow struct {
	Qualite    string
	ID         uint
	Label      string
	BatimentID uint
	FormuleID  *uint
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// kindQuery builds the filtered, grouped sub-query of one tenant kind.
func (r *Repository) kindQuery(ctx context.Context, kind models.Kind, f *models.SearchFilter) (*gorm.DB, error) {
	s, err := schemaFor(kind)
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Table(s.table).
		Select(fmt.Sprintf(
			"'%s' AS qualite, %s.id AS id, %s AS label, %s.batiment_id AS batiment_id, f.formule_id AS formule_id",
			kind, s.table, s.label, s.table,
		)).
		Joins(fmt.Sprintf("LEFT JOIN %s f ON f.tiers_id = %s.id", s.formulaTable, s.table)).
		Where(s.table+".batiment_id = ?", f.BatimentID)

	if f.DateFiltered() {
		q = q.Where("f.date_debut_formule <= ? AND (f.date_fin_formule >= ? OR f.date_fin_formule IS NULL)",
			*f.SelectedDate, *f.SelectedDate)
	}

	// Without a formula facet the search lists tenants that never had a formula.
	if f.FormulaID != nil {
		q = q.Where("f.formule_id = ?", *f.FormulaID)
	} else {
		q = q.Where("f.formule_id IS NULL")
	}

	if term := strings.TrimSpace(f.Search); term != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		columns := append([]string{s.label}, s.nameColumns...)
		conds := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, c := range columns {
			conds = append(conds, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, c))
			args = append(args, pattern)
		}
		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	group := append(append([]string{}, s.groupColumns...), "f.formule_id")
	return q.Group(strings.Join(group, ", ")), nil
}

// searchSource returns the row source for a filter: the single kind sub-query,
// or the UNION of all requested kinds. Page and count are both read from it.
func (r *Repository) searchSource(ctx context.Context, f *models.SearchFilter) (*gorm.DB, error) {
	subs := make([]interface{}, 0, len(f.Kinds))
	parts := make([]string, 0, len(f.Kinds))
	for i, k := range f.Kinds {
		q, err := r.kindQuery(ctx, k, f)
		if err != nil {
			return nil, err
		}
		subs = append(subs, q)
		parts = append(parts, fmt.Sprintf("SELECT * FROM (?) AS k%d", i))
	}
	switch len(subs) {
	case 0:
		return nil, fmt.Errorf("no tenant kind requested")
	case 1:
		return subs[0].(*gorm.DB), nil
	default:
		return r.db.WithContext(ctx).Raw(strings.Join(parts, " UNION "), subs...), nil
	}
}

// CountTenants counts the distinct tenants matching f.
func (r *Repository) CountTenants(ctx context.Context, f *models.SearchFilter) (int64, error) {
	source, err := r.searchSource(ctx, f)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := r.db.WithContext(ctx).Table("(?) AS tiers", source).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SearchTenants returns one page of tenants matching f, ordered by label.
// A limit of zero or less returns every match.
func (r *Repository) SearchTenants(ctx context.Context, f *models.SearchFilter) ([]models.TenantSummary, error) {
	source, err := r.searchSource(ctx, f)
	if err != nil {
		return nil, err
	}
	q := r.db.WithContext(ctx).Table("(?) AS tiers", source).
		Order("label ASC").
		Order("qualite ASC").
		Order("id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var found []tenantRow
	if err := q.Scan(&found).Error; err != nil {
		return nil, err
	}
	out := make([]models.TenantSummary, 0, len(found))
	for _, row := range found {
		out = append(out, models.TenantSummary{
			Kind:       models.Kind(row.Qualite),
			ID:         row.ID,
			Label:      row.Label,
			BatimentID: row.BatimentID,
			FormulaID:  row.FormuleID,
		})
	}
	return out, nil
}
