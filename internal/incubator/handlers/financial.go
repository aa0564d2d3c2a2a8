package handlers

import (
	"net/http"

	"github.com/gartstein/incubator/internal/incubator/models"
)

// GET /tiers/effectif/{qualite}/{id}
func (h *Handler) ListWorkforce(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	list, err := h.svc.Financial.ListWorkforce(r.Context(), kind, id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Effectifs récupérés avec succès", toWorkforceResponses(list))
}

// POST /tiers/effectif/{qualite}/{id}
func (h *Handler) CreateWorkforce(w http.ResponseWriter, r *http.Request) {
	h.saveWorkforce(w, r, false)
}

// PUT /tiers/effectif/{qualite}/{id}/{year}
func (h *Handler) UpdateWorkforce(w http.ResponseWriter, r *http.Request) {
	h.saveWorkforce(w, r, true)
}

func (h *Handler) saveWorkforce(w http.ResponseWriter, r *http.Request, update bool) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	var req workforceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Corps de requête JSON invalide")
		return
	}
	if update {
		if req.Annee, err = pathYear(r); err != nil {
			h.mapServiceError(w, r, err)
			return
		}
	}
	if !h.check(w, &req) {
		return
	}

	wf := req.toModel(id)
	if update {
		err = h.svc.Financial.UpdateWorkforce(r.Context(), actor, kind, wf)
	} else {
		err = h.svc.Financial.CreateWorkforce(r.Context(), actor, kind, wf)
	}
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	if update {
		writeMessage(w, http.StatusOK, "Effectif mis à jour avec succès", toWorkforceResponses([]models.Workforce{*wf})[0])
		return
	}
	writeMessage(w, http.StatusCreated, "Effectif ajouté avec succès", toWorkforceResponses([]models.Workforce{*wf})[0])
}

// DELETE /tiers/effectif/{qualite}/{id}/{year}
func (h *Handler) DeleteWorkforce(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	year, err := pathYear(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	if err := h.svc.Financial.DeleteWorkforce(r.Context(), kind, id, year); err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Effectif supprimé avec succès", nil)
}

// GET /tiers/ca/{qualite}/{id}
func (h *Handler) ListRevenue(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	list, err := h.svc.Financial.ListRevenue(r.Context(), kind, id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Chiffres d'affaires récupérés avec succès", toRevenueResponses(list))
}

// POST /tiers/ca/{qualite}/{id}
func (h *Handler) CreateRevenue(w http.ResponseWriter, r *http.Request) {
	h.saveRevenue(w, r, false)
}

// PUT /tiers/ca/{qualite}/{id}/{year}
func (h *Handler) UpdateRevenue(w http.ResponseWriter, r *http.Request) {
	h.saveRevenue(w, r, true)
}

func (h *Handler) saveRevenue(w http.ResponseWriter, r *http.Request, update bool) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	var req revenueRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Corps de requête JSON invalide")
		return
	}
	if update {
		if req.Annee, err = pathYear(r); err != nil {
			h.mapServiceError(w, r, err)
			return
		}
	}
	if !h.check(w, &req) {
		return
	}

	rev := &models.Revenue{TenantID: id, Year: req.Annee, Amount: req.Montant}
	if update {
		err = h.svc.Financial.UpdateRevenue(r.Context(), actor, kind, rev)
	} else {
		err = h.svc.Financial.CreateRevenue(r.Context(), actor, kind, rev)
	}
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	resp := toRevenueResponses([]models.Revenue{*rev})[0]
	if update {
		writeMessage(w, http.StatusOK, "Chiffre d'affaires mis à jour avec succès", resp)
		return
	}
	writeMessage(w, http.StatusCreated, "Chiffre d'affaires ajouté avec succès", resp)
}

// DELETE /tiers/ca/{qualite}/{id}/{year}
func (h *Handler) DeleteRevenue(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	year, err := pathYear(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	if err := h.svc.Financial.DeleteRevenue(r.Context(), kind, id, year); err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Chiffre d'affaires supprimé avec succès", nil)
}

// GET /tiers/sortie/{qualite}/{id}
func (h *Handler) GetExit(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	x, err := h.svc.Financial.GetExit(r.Context(), kind, id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Sortie récupérée avec succès", toExitResponse(x))
}

// PUT /tiers/sortie/{qualite}/{id}
func (h *Handler) RecordExit(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	var req exitRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := parseDate(req.DateSortie)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	x := &models.Exit{Kind: kind, TenantID: id, Date: date, Reason: req.Motif}
	if err := h.svc.Financial.RecordExit(r.Context(), actor, x); err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Sortie enregistrée avec succès", toExitResponse(x))
}

// GET /tiers/postpep/{qualite}/{id}
func (h *Handler) GetPostIncubation(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	p, err := h.svc.Financial.GetPostIncubation(r.Context(), kind, id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Statut post-pépinière récupéré avec succès", postIncubationResponse{
		Qualite:       p.Kind.String(),
		TiersID:       p.TenantID,
		Statut:        p.Status,
		Commentaire:   p.Comment,
		auditResponse: toAudit(p.Audit),
	})
}

// PUT /tiers/postpep/{qualite}/{id}
func (h *Handler) RecordPostIncubation(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	var req postIncubationRequest
	if !h.decode(w, r, &req) {
		return
	}

	p := &models.PostIncubation{Kind: kind, TenantID: id, Status: req.Statut, Comment: req.Commentaire}
	if err := h.svc.Financial.RecordPostIncubation(r.Context(), actor, p); err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Statut post-pépinière enregistré avec succès", nil)
}

// GET /tiers/premier-rdv/{qualite}/{id}
func (h *Handler) GetFirstMeeting(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	m, err := h.svc.Financial.GetFirstMeeting(r.Context(), kind, id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Premier rendez-vous récupéré avec succès", firstMeetingResponse{
		TiersID:       m.TenantID,
		DateRdv:       formatDate(m.Date),
		Canal:         m.Channel,
		Prescripteur:  m.Prescriber,
		Notes:         m.Notes,
		auditResponse: toAudit(m.Audit),
	})
}

// PUT /tiers/premier-rdv/{qualite}/{id}
func (h *Handler) RecordFirstMeeting(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	var req firstMeetingRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := parseDate(req.DateRdv)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	m := &models.FirstMeeting{
		TenantID:   id,
		Date:       date,
		Channel:    req.Canal,
		Prescriber: req.Prescripteur,
		Notes:      req.Notes,
	}
	if err := h.svc.Financial.RecordFirstMeeting(r.Context(), actor, kind, m); err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Premier rendez-vous enregistré avec succès", nil)
}
