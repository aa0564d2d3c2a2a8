package handlers

import (
	"strings"
	"time"

	"github.com/gartstein/incubator/internal/incubator/controller"
	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/shopspring/decimal"
)

type auditResponse struct {
	CreationUser string    `json:"creation_user,omitempty"`
	UpdateUser   string    `json:"update_user,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toAudit(a models.Audit) auditResponse {
	return auditResponse{
		CreationUser: a.CreationUser,
		UpdateUser:   a.UpdateUser,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// Dates travel as YYYY-MM-DD strings; the validator checks the layout, so
// the parse helpers below only fail on values that skipped validation.

func parseDate(s string) (time.Time, error) {
	return models.ParseDate(s)
}

func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := models.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

// --- tenants ---

type individualRequest struct {
	BatimentID    uint   `json:"batiment_id" validate:"required"`
	Civilite      string `json:"civilite" validate:"max=10"`
	Nom           string `json:"nom" validate:"required,max=100"`
	Prenom        string `json:"prenom" validate:"required,max=100"`
	DateNaissance string `json:"date_naissance" validate:"omitempty,datetime=2006-01-02"`
	LieuNaissance string `json:"lieu_naissance" validate:"max=100"`
	Email         string `json:"email" validate:"omitempty,email"`
	Telephone     string `json:"telephone" validate:"max=20"`
	Adresse       string `json:"adresse"`
	CodePostal    string `json:"code_postal" validate:"max=10"`
	Ville         string `json:"ville"`
	CSP           string `json:"csp"`
}

func (req *individualRequest) toModel(id uint) (*models.Individual, error) {
	birth, err := parseOptionalDate(req.DateNaissance)
	if err != nil {
		return nil, err
	}
	return &models.Individual{
		ID:            id,
		BatimentID:    req.BatimentID,
		Civility:      req.Civilite,
		LastName:      req.Nom,
		FirstName:     req.Prenom,
		BirthDate:     birth,
		BirthPlace:    req.LieuNaissance,
		Email:         req.Email,
		Phone:         req.Telephone,
		Address:       models.Address{Street: req.Adresse, PostalCode: req.CodePostal, City: req.Ville},
		SocioCategory: req.CSP,
	}, nil
}

type corporateRequest struct {
	BatimentID     uint            `json:"batiment_id" validate:"required"`
	RaisonSociale  string          `json:"raison_sociale" validate:"required,max=200"`
	FormeJuridique string          `json:"forme_juridique" validate:"max=50"`
	Siret          string          `json:"siret" validate:"omitempty,numeric,len=14"`
	Secteur        string          `json:"secteur"`
	Adresse        string          `json:"adresse"`
	CodePostal     string          `json:"code_postal" validate:"max=10"`
	Ville          string          `json:"ville"`
	Capital        decimal.Decimal `json:"capital"`
	DateCreation   string          `json:"date_creation" validate:"omitempty,datetime=2006-01-02"`
}

func (req *corporateRequest) toModel(id uint) (*models.Corporate, error) {
	created, err := parseOptionalDate(req.DateCreation)
	if err != nil {
		return nil, err
	}
	return &models.Corporate{
		ID:         id,
		BatimentID: req.BatimentID,
		LegalName:  req.RaisonSociale,
		LegalForm:  req.FormeJuridique,
		Siret:      req.Siret,
		Sector:     req.Secteur,
		Address:    models.Address{Street: req.Adresse, PostalCode: req.CodePostal, City: req.Ville},
		Capital:    req.Capital,
		CreatedOn:  created,
	}, nil
}

type individualResponse struct {
	ID            uint    `json:"id"`
	Qualite       string  `json:"qualite"`
	BatimentID    uint    `json:"batiment_id"`
	Civilite      string  `json:"civilite"`
	Nom           string  `json:"nom"`
	Prenom        string  `json:"prenom"`
	DateNaissance *string `json:"date_naissance"`
	LieuNaissance string  `json:"lieu_naissance"`
	Email         string  `json:"email"`
	Telephone     string  `json:"telephone"`
	Adresse       string  `json:"adresse"`
	CodePostal    string  `json:"code_postal"`
	Ville         string  `json:"ville"`
	CSP           string  `json:"csp"`
	auditResponse
}

func toIndividualResponse(i *models.Individual) individualResponse {
	return individualResponse{
		ID:            i.ID,
		Qualite:       models.KindIndividual.String(),
		BatimentID:    i.BatimentID,
		Civilite:      i.Civility,
		Nom:           i.LastName,
		Prenom:        i.FirstName,
		DateNaissance: formatOptionalDate(i.BirthDate),
		LieuNaissance: i.BirthPlace,
		Email:         i.Email,
		Telephone:     i.Phone,
		Adresse:       i.Address.Street,
		CodePostal:    i.Address.PostalCode,
		Ville:         i.Address.City,
		CSP:           i.SocioCategory,
		auditResponse: toAudit(i.Audit),
	}
}

type corporateResponse struct {
	ID             uint            `json:"id"`
	Qualite        string          `json:"qualite"`
	BatimentID     uint            `json:"batiment_id"`
	RaisonSociale  string          `json:"raison_sociale"`
	FormeJuridique string          `json:"forme_juridique"`
	Siret          string          `json:"siret"`
	Secteur        string          `json:"secteur"`
	Adresse        string          `json:"adresse"`
	CodePostal     string          `json:"code_postal"`
	Ville          string          `json:"ville"`
	Capital        decimal.Decimal `json:"capital"`
	DateCreation   *string         `json:"date_creation"`
	auditResponse
}

func toCorporateResponse(c *models.Corporate) corporateResponse {
	return corporateResponse{
		ID:             c.ID,
		Qualite:        models.KindCorporate.String(),
		BatimentID:     c.BatimentID,
		RaisonSociale:  c.LegalName,
		FormeJuridique: c.LegalForm,
		Siret:          c.Siret,
		Secteur:        c.Sector,
		Adresse:        c.Address.Street,
		CodePostal:     c.Address.PostalCode,
		Ville:          c.Address.City,
		Capital:        c.Capital,
		DateCreation:   formatOptionalDate(c.CreatedOn),
		auditResponse:  toAudit(c.Audit),
	}
}

type tenantDetailResponse struct {
	Tiers    interface{}          `json:"tiers"`
	Formules []assignmentResponse `json:"formules"`
}

func toTenantDetailResponse(d *models.TenantDetail) tenantDetailResponse {
	out := tenantDetailResponse{Formules: toAssignmentResponses(d.Assignments)}
	switch {
	case d.Individual != nil:
		out.Tiers = toIndividualResponse(d.Individual)
	case d.Corporate != nil:
		out.Tiers = toCorporateResponse(d.Corporate)
	}
	return out
}

// --- formula assignments ---

type assignmentRequest struct {
	FormuleID uint   `json:"formule_id" validate:"required"`
	DateDebut string `json:"date_debut_formule" validate:"required,datetime=2006-01-02"`
	DateFin   string `json:"date_fin_formule" validate:"omitempty,datetime=2006-01-02"`
}

func (req *assignmentRequest) toInput(kind models.Kind, tenantID uint) (models.AssignmentInput, error) {
	begin, err := parseDate(req.DateDebut)
	if err != nil {
		return models.AssignmentInput{}, err
	}
	end, err := parseOptionalDate(req.DateFin)
	if err != nil {
		return models.AssignmentInput{}, err
	}
	return models.AssignmentInput{
		Kind:      kind,
		TenantID:  tenantID,
		FormulaID: req.FormuleID,
		Begin:     begin,
		End:       end,
	}, nil
}

type assignmentResponse struct {
	ID        uint    `json:"id"`
	Qualite   string  `json:"qualite"`
	TiersID   uint    `json:"tiers_id"`
	FormuleID uint    `json:"formule_id"`
	DateDebut string  `json:"date_debut_formule"`
	DateFin   *string `json:"date_fin_formule"`
	auditResponse
}

func toAssignmentResponse(a *models.Assignment) assignmentResponse {
	return assignmentResponse{
		ID:            a.ID,
		Qualite:       a.Kind.String(),
		TiersID:       a.TenantID,
		FormuleID:     a.FormulaID,
		DateDebut:     formatDate(a.Period.Begin),
		DateFin:       formatOptionalDate(a.Period.End),
		auditResponse: toAudit(a.Audit),
	}
}

func toAssignmentResponses(list []models.Assignment) []assignmentResponse {
	out := make([]assignmentResponse, 0, len(list))
	for i := range list {
		out = append(out, toAssignmentResponse(&list[i]))
	}
	return out
}

// --- search ---

type tenantSummaryResponse struct {
	Qualite    string `json:"qualite"`
	ID         uint   `json:"id"`
	Libelle    string `json:"libelle"`
	BatimentID uint   `json:"batiment_id"`
	FormuleID  *uint  `json:"formule_id"`
}

type searchResponse struct {
	Data       []tenantSummaryResponse `json:"data"`
	TotalCount int64                   `json:"totalCount"`
	Next       *int                    `json:"next"`
	Prev       *int                    `json:"prev"`
}

func toSearchResponse(page *models.SearchPage) searchResponse {
	data := make([]tenantSummaryResponse, 0, len(page.Data))
	for _, t := range page.Data {
		data = append(data, tenantSummaryResponse{
			Qualite:    t.Kind.String(),
			ID:         t.ID,
			Libelle:    t.Label,
			BatimentID: t.BatimentID,
			FormuleID:  t.FormulaID,
		})
	}
	return searchResponse{
		Data:       data,
		TotalCount: page.TotalCount,
		Next:       page.Next,
		Prev:       page.Prev,
	}
}

// --- financial years ---

type workforceRequest struct {
	Annee  int `json:"annee" validate:"required,min=1900,max=2100"`
	CDI    int `json:"cdi" validate:"min=0"`
	CDD    int `json:"cdd" validate:"min=0"`
	Autres int `json:"autres" validate:"min=0"`
}

func (req *workforceRequest) toModel(tenantID uint) *models.Workforce {
	return &models.Workforce{
		TenantID:  tenantID,
		Year:      req.Annee,
		Permanent: req.CDI,
		FixedTerm: req.CDD,
		Other:     req.Autres,
	}
}

type workforceResponse struct {
	TiersID uint `json:"tiepm_id"`
	Annee   int  `json:"annee"`
	CDI     int  `json:"cdi"`
	CDD     int  `json:"cdd"`
	Autres  int  `json:"autres"`
	Total   int  `json:"total"`
	auditResponse
}

func toWorkforceResponses(list []models.Workforce) []workforceResponse {
	out := make([]workforceResponse, 0, len(list))
	for i := range list {
		w := &list[i]
		out = append(out, workforceResponse{
			TiersID:       w.TenantID,
			Annee:         w.Year,
			CDI:           w.Permanent,
			CDD:           w.FixedTerm,
			Autres:        w.Other,
			Total:         w.Total(),
			auditResponse: toAudit(w.Audit),
		})
	}
	return out
}

type revenueRequest struct {
	Annee   int             `json:"annee" validate:"required,min=1900,max=2100"`
	Montant decimal.Decimal `json:"montant"`
}

type revenueResponse struct {
	TiersID uint            `json:"tiepm_id"`
	Annee   int             `json:"annee"`
	Montant decimal.Decimal `json:"montant"`
	auditResponse
}

func toRevenueResponses(list []models.Revenue) []revenueResponse {
	out := make([]revenueResponse, 0, len(list))
	for i := range list {
		out = append(out, revenueResponse{
			TiersID:       list[i].TenantID,
			Annee:         list[i].Year,
			Montant:       list[i].Amount,
			auditResponse: toAudit(list[i].Audit),
		})
	}
	return out
}

type exitRequest struct {
	DateSortie string `json:"date_sortie" validate:"required,datetime=2006-01-02"`
	Motif      string `json:"motif" validate:"max=500"`
}

type exitResponse struct {
	Qualite    string `json:"qualite"`
	TiersID    uint   `json:"tiers_id"`
	DateSortie string `json:"date_sortie"`
	Motif      string `json:"motif"`
	auditResponse
}

func toExitResponse(x *models.Exit) exitResponse {
	return exitResponse{
		Qualite:       x.Kind.String(),
		TiersID:       x.TenantID,
		DateSortie:    formatDate(x.Date),
		Motif:         x.Reason,
		auditResponse: toAudit(x.Audit),
	}
}

type postIncubationRequest struct {
	Statut      string `json:"statut" validate:"required,max=100"`
	Commentaire string `json:"commentaire"`
}

type postIncubationResponse struct {
	Qualite     string `json:"qualite"`
	TiersID     uint   `json:"tiers_id"`
	Statut      string `json:"statut"`
	Commentaire string `json:"commentaire"`
	auditResponse
}

type firstMeetingRequest struct {
	DateRdv      string `json:"date_rdv" validate:"required,datetime=2006-01-02"`
	Canal        string `json:"canal"`
	Prescripteur string `json:"prescripteur"`
	Notes        string `json:"notes"`
}

type firstMeetingResponse struct {
	TiersID      uint   `json:"tiepp_id"`
	DateRdv      string `json:"date_rdv"`
	Canal        string `json:"canal"`
	Prescripteur string `json:"prescripteur"`
	Notes        string `json:"notes"`
	auditResponse
}

// --- relations ---

type relationRequest struct {
	TieppID      uint   `json:"tiepp_id"`
	TiepmID      uint   `json:"tiepm_id"`
	TypeRelation string `json:"type_relation" validate:"required,max=100"`
	DateDebut    string `json:"date_debut" validate:"required,datetime=2006-01-02"`
	DateFin      string `json:"date_fin" validate:"omitempty,datetime=2006-01-02"`
}

func (req *relationRequest) toModel(id uint) (*models.Relation, error) {
	begin, err := parseDate(req.DateDebut)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate(req.DateFin)
	if err != nil {
		return nil, err
	}
	return &models.Relation{
		ID:           id,
		IndividualID: req.TieppID,
		CorporateID:  req.TiepmID,
		Type:         req.TypeRelation,
		Period:       models.Interval{Begin: begin, End: end},
	}, nil
}

type relationResponse struct {
	ID           uint    `json:"id"`
	TieppID      uint    `json:"tiepp_id"`
	TiepmID      uint    `json:"tiepm_id"`
	TypeRelation string  `json:"type_relation"`
	DateDebut    string  `json:"date_debut"`
	DateFin      *string `json:"date_fin"`
	Statut       string  `json:"statut"`
	auditResponse
}

func toRelationResponse(v *controller.RelationView) relationResponse {
	return relationResponse{
		ID:            v.ID,
		TieppID:       v.IndividualID,
		TiepmID:       v.CorporateID,
		TypeRelation:  v.Type,
		DateDebut:     formatDate(v.Period.Begin),
		DateFin:       formatOptionalDate(v.Period.End),
		Statut:        string(v.Status),
		auditResponse: toAudit(v.Audit),
	}
}

// --- follow-ups, files and projects ---

type followUpRequest struct {
	DateSuivi  string `json:"date_suivi" validate:"required,datetime=2006-01-02"`
	HeureDebut string `json:"heure_debut" validate:"omitempty,datetime=15:04"`
	HeureFin   string `json:"heure_fin" validate:"omitempty,datetime=15:04"`
	TypeSuivi  string `json:"type_suivi" validate:"required,max=100"`
	Objet      string `json:"objet" validate:"max=255"`
	Retour     string `json:"retour"`
}

func (req *followUpRequest) toModel(tenantID, id uint) (*models.FollowUp, error) {
	date, err := parseDate(req.DateSuivi)
	if err != nil {
		return nil, err
	}
	return &models.FollowUp{
		ID:        id,
		TenantID:  tenantID,
		Date:      date,
		StartTime: req.HeureDebut,
		EndTime:   req.HeureFin,
		Type:      req.TypeSuivi,
		Subject:   req.Objet,
		Feedback:  req.Retour,
	}, nil
}

type followUpResponse struct {
	ID         uint   `json:"id"`
	TieppID    uint   `json:"tiepp_id"`
	DateSuivi  string `json:"date_suivi"`
	HeureDebut string `json:"heure_debut"`
	HeureFin   string `json:"heure_fin"`
	TypeSuivi  string `json:"type_suivi"`
	Objet      string `json:"objet"`
	Retour     string `json:"retour"`
	auditResponse
}

func toFollowUpResponse(f *models.FollowUp) followUpResponse {
	return followUpResponse{
		ID:            f.ID,
		TieppID:       f.TenantID,
		DateSuivi:     formatDate(f.Date),
		HeureDebut:    f.StartTime,
		HeureFin:      f.EndTime,
		TypeSuivi:     f.Type,
		Objet:         f.Subject,
		Retour:        f.Feedback,
		auditResponse: toAudit(f.Audit),
	}
}

type fileResponse struct {
	Nom              string    `json:"nom"`
	Dossier          string    `json:"dossier"`
	Cle              string    `json:"cle"`
	Taille           int64     `json:"taille"`
	DateModification time.Time `json:"date_modification"`
	URL              string    `json:"url,omitempty"`
}

func toFileResponse(f *models.FollowUpFile) fileResponse {
	return fileResponse{
		Nom:              f.Name,
		Dossier:          string(f.Folder),
		Cle:              f.Key,
		Taille:           f.Size,
		DateModification: f.LastModified,
		URL:              f.URL,
	}
}

type projectRequest struct {
	Titre       string `json:"titre" validate:"required,max=200"`
	Description string `json:"description"`
	DateDebut   string `json:"date_debut" validate:"omitempty,datetime=2006-01-02"`
	Statut      string `json:"statut" validate:"max=50"`
}

func (req *projectRequest) toModel(tenantID, id uint) (*models.Project, error) {
	start, err := parseOptionalDate(req.DateDebut)
	if err != nil {
		return nil, err
	}
	return &models.Project{
		ID:          id,
		TenantID:    tenantID,
		Title:       req.Titre,
		Description: req.Description,
		StartDate:   start,
		Status:      req.Statut,
	}, nil
}

type projectResponse struct {
	ID          uint    `json:"id"`
	TieppID     uint    `json:"tiepp_id"`
	Titre       string  `json:"titre"`
	Description string  `json:"description"`
	DateDebut   *string `json:"date_debut"`
	Statut      string  `json:"statut"`
	auditResponse
}

func toProjectResponse(p *models.Project) projectResponse {
	return projectResponse{
		ID:            p.ID,
		TieppID:       p.TenantID,
		Titre:         p.Title,
		Description:   p.Description,
		DateDebut:     formatOptionalDate(p.StartDate),
		Statut:        p.Status,
		auditResponse: toAudit(p.Audit),
	}
}

// --- reference data ---

type buildingRequest struct {
	Nom     string `json:"nom" validate:"required,max=100"`
	Adresse string `json:"adresse"`
}

type buildingResponse struct {
	ID      uint   `json:"id"`
	Nom     string `json:"nom"`
	Adresse string `json:"adresse"`
}

type formulaTypeRequest struct {
	Libelle string `json:"libelle" validate:"required,max=100"`
}

type formulaTypeResponse struct {
	ID      uint   `json:"id"`
	Libelle string `json:"libelle"`
}
