package handlers

import (
	"net/http"

	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/gorilla/mux"
)

// POST /tiers/{qualite}
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, err := models.ParseKind(mux.Vars(r)["qualite"])
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	switch kind {
	case models.KindIndividual:
		var req individualRequest
		if !h.decode(w, r, &req) {
			return
		}
		in, err := req.toModel(0)
		if err != nil {
			h.mapServiceError(w, r, err)
			return
		}
		created, err := h.svc.Tenants.CreateIndividual(r.Context(), actor, in)
		if err != nil {
			h.mapServiceError(w, r, err)
			return
		}
		writeMessage(w, http.StatusCreated, "Tiers créé avec succès", toIndividualResponse(created))
	case models.KindCorporate:
		var req corporateRequest
		if !h.decode(w, r, &req) {
			return
		}
		in, err := req.toModel(0)
		if err != nil {
			h.mapServiceError(w, r, err)
			return
		}
		created, err := h.svc.Tenants.CreateCorporate(r.Context(), actor, in)
		if err != nil {
			h.mapServiceError(w, r, err)
			return
		}
		writeMessage(w, http.StatusCreated, "Tiers créé avec succès", toCorporateResponse(created))
	}
}

// GET /tiers/{qualite}/{id}
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	detail, err := h.svc.Tenants.Get(r.Context(), kind, id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Tiers récupéré avec succès", toTenantDetailResponse(detail))
}

// PUT /tiers/{qualite}/{id}
func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	switch kind {
	case models.KindIndividual:
		var req individualRequest
		if !h.decode(w, r, &req) {
			return
		}
		in, err := req.toModel(id)
		if err != nil {
			h.mapServiceError(w, r, err)
			return
		}
		updated, err := h.svc.Tenants.UpdateIndividual(r.Context(), actor, in)
		if err != nil {
			h.mapServiceError(w, r, err)
			return
		}
		writeMessage(w, http.StatusOK, "Tiers mis à jour avec succès", toIndividualResponse(updated))
	case models.KindCorporate:
		var req corporateRequest
		if !h.decode(w, r, &req) {
			return
		}
		in, err := req.toModel(id)
		if err != nil {
			h.mapServiceError(w, r, err)
			return
		}
		updated, err := h.svc.Tenants.UpdateCorporate(r.Context(), actor, in)
		if err != nil {
			h.mapServiceError(w, r, err)
			return
		}
		writeMessage(w, http.StatusOK, "Tiers mis à jour avec succès", toCorporateResponse(updated))
	}
}

// DELETE /tiers/{qualite}/{id}
func (h *Handler) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	if err := h.svc.Tenants.Delete(r.Context(), kind, id); err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Tiers supprimé avec succès", nil)
}
