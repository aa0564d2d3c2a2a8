package db

import (
	rows "github.com/gartstein/incubator/internal/incubator/db/models"
	"github.com/gartstein/incubator/internal/incubator/models"
)

func auditToModel(a rows.Audit) models.Audit {
	return models.Audit{
		CreationUser: a.CreationUser,
		UpdateUser:   a.UpdateUser,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func auditToRow(a models.Audit) rows.Audit {
	return rows.Audit{
		CreationUser: a.CreationUser,
		UpdateUser:   a.UpdateUser,
	}
}

func individualToRow(i *models.Individual) *rows.Individual {
	return &rows.Individual{
		ID:            i.ID,
		CompanyID:     i.CompanyID,
		BatimentID:    i.BatimentID,
		Civility:      i.Civility,
		LastName:      i.LastName,
		FirstName:     i.FirstName,
		BirthDate:     i.BirthDate,
		BirthPlace:    i.BirthPlace,
		Email:         i.Email,
		Phone:         i.Phone,
		Street:        i.Address.Street,
		PostalCode:    i.Address.PostalCode,
		City:          i.Address.City,
		SocioCategory: i.SocioCategory,
		Audit:         auditToRow(i.Audit),
	}
}

func individualToModel(r *rows.Individual) *models.Individual {
	return &models.Individual{
		ID:         r.ID,
		CompanyID:  r.CompanyID,
		BatimentID: r.BatimentID,
		Civility:   r.Civility,
		LastName:   r.LastName,
		FirstName:  r.FirstName,
		BirthDate:  r.BirthDate,
		BirthPlace: r.BirthPlace,
		Email:      r.Email,
		Phone:      r.Phone,
		Address: models.Address{
			Street:     r.Street,
			PostalCode: r.PostalCode,
			City:       r.City,
		},
		SocioCategory: r.SocioCategory,
		Audit:         auditToModel(r.Audit),
	}
}

func corporateToRow(c *models.Corporate) *rows.Corporate {
	return &rows.Corporate{
		ID:         c.ID,
		CompanyID:  c.CompanyID,
		BatimentID: c.BatimentID,
		LegalName:  c.LegalName,
		LegalForm:  c.LegalForm,
		Siret:      c.Siret,
		Sector:     c.Sector,
		Street:     c.Address.Street,
		PostalCode: c.Address.PostalCode,
		City:       c.Address.City,
		Capital:    c.Capital,
		CreatedOn:  c.CreatedOn,
		Audit:      auditToRow(c.Audit),
	}
}

func corporateToModel(r *rows.Corporate) *models.Corporate {
	return &models.Corporate{
		ID:         r.ID,
		CompanyID:  r.CompanyID,
		BatimentID: r.BatimentID,
		LegalName:  r.LegalName,
		LegalForm:  r.LegalForm,
		Siret:      r.Siret,
		Sector:     r.Sector,
		Address: models.Address{
			Street:     r.Street,
			PostalCode: r.PostalCode,
			City:       r.City,
		},
		Capital:   r.Capital,
		CreatedOn: r.CreatedOn,
		Audit:     auditToModel(r.Audit),
	}
}

func assignmentToModel(k models.Kind, r *rows.FormulaAssignment) models.Assignment {
	return models.Assignment{
		ID:        r.ID,
		Kind:      k,
		TenantID:  r.TiersID,
		FormulaID: r.FormuleID,
		Period:    models.Interval{Begin: r.DateDebut, End: r.DateFin},
		Audit:     auditToModel(r.Audit),
	}
}

func workforceToModel(r *rows.Workforce) models.Workforce {
	return models.Workforce{
		TenantID:  r.TiepmID,
		Year:      r.Annee,
		Permanent: r.Permanent,
		FixedTerm: r.FixedTerm,
		Other:     r.Other,
		Audit:     auditToModel(r.Audit),
	}
}

func revenueToModel(r *rows.Revenue) models.Revenue {
	return models.Revenue{
		TenantID: r.TiepmID,
		Year:     r.Annee,
		Amount:   r.Amount,
		Audit:    auditToModel(r.Audit),
	}
}

func relationToModel(r *rows.Relation) models.Relation {
	return models.Relation{
		ID:           r.ID,
		IndividualID: r.TieppID,
		CorporateID:  r.TiepmID,
		Type:         r.TypeRelation,
		Period:       models.Interval{Begin: r.DateDebut, End: r.DateFin},
		Audit:        auditToModel(r.Audit),
	}
}

func followUpToModel(r *rows.FollowUp) models.FollowUp {
	return models.FollowUp{
		ID:        r.ID,
		TenantID:  r.TieppID,
		Date:      r.Date,
		StartTime: r.HeureDebut,
		EndTime:   r.HeureFin,
		Type:      r.Type,
		Subject:   r.Sujet,
		Feedback:  r.Retour,
		Audit:     auditToModel(r.Audit),
	}
}

func projectToModel(r *rows.Project) models.Project {
	return models.Project{
		ID:          r.ID,
		TenantID:    r.TieppID,
		Title:       r.Titre,
		Description: r.Description,
		StartDate:   r.DateDebut,
		Status:      r.Statut,
		Audit:       auditToModel(r.Audit),
	}
}

// nullable turns a nil pointer into an untyped nil so map based updates write NULL.
func nullable[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
