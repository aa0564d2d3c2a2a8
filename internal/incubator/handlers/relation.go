package handlers

import (
	"net/http"
)

// GET /tiers/relation/{qualite}/{id}
func (h *Handler) ListRelations(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	list, err := h.svc.Relations.List(r.Context(), kind, id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	out := make([]relationResponse, 0, len(list))
	for i := range list {
		out = append(out, toRelationResponse(&list[i]))
	}
	writeMessage(w, http.StatusOK, "Relations récupérées avec succès", out)
}

// POST /tiers/relation/{qualite}/{id}
func (h *Handler) CreateRelation(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	var req relationRequest
	if !h.decode(w, r, &req) {
		return
	}
	rel, err := req.toModel(0)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	view, err := h.svc.Relations.Create(r.Context(), actor, kind, id, rel)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Relation créée avec succès", toRelationResponse(view))
}

// PUT /tiers/relation/{qualite}/{id}/{rel_id}
func (h *Handler) UpdateRelation(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	relID, err := pathUint(r, "rel_id")
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	var req relationRequest
	if !h.decode(w, r, &req) {
		return
	}
	rel, err := req.toModel(relID)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	view, err := h.svc.Relations.Update(r.Context(), actor, kind, id, rel)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Relation mise à jour avec succès", toRelationResponse(view))
}

// DELETE /tiers/relation/{qualite}/{id}/{rel_id}
func (h *Handler) DeleteRelation(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	relID, err := pathUint(r, "rel_id")
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	if err := h.svc.Relations.Delete(r.Context(), kind, id, relID); err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Relation supprimée avec succès", nil)
}
