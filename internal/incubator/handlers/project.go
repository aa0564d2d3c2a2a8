package handlers

import (
	"net/http"
)

// GET /tiers/projet/{qualite}/{id}
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	list, err := h.svc.Projects.List(r.Context(), kind, id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	out := make([]projectResponse, 0, len(list))
	for i := range list {
		out = append(out, toProjectResponse(&list[i]))
	}
	writeMessage(w, http.StatusOK, "Projets récupérés avec succès", out)
}

// POST /tiers/projet/{qualite}/{id}
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	var req projectRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := req.toModel(id, 0)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	created, err := h.svc.Projects.Create(r.Context(), actor, kind, p)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Projet créé avec succès", toProjectResponse(created))
}

// PUT /tiers/projet/{qualite}/{id}/{projet_id}
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	projetID, err := pathUint(r, "projet_id")
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	var req projectRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := req.toModel(id, projetID)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	if err := h.svc.Projects.Update(r.Context(), actor, kind, p); err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Projet mis à jour avec succès", nil)
}

// DELETE /tiers/projet/{qualite}/{id}/{projet_id}
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	projetID, err := pathUint(r, "projet_id")
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	if err := h.svc.Projects.Delete(r.Context(), kind, id, projetID); err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Projet supprimé avec succès", nil)
}
