package handlers

import (
	"net/http"
)

// GET /tiers/formule/{qualite}/{id}
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	list, err := h.svc.Formulas.List(r.Context(), kind, id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Formules récupérées avec succès", toAssignmentResponses(list))
}

// POST /tiers/formule/{qualite}/{id}
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	var req assignmentRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, err := req.toInput(kind, id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	created, err := h.svc.Formulas.Create(r.Context(), actor, in)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Formule ajoutée avec succès", toAssignmentResponse(created))
}

// PUT /tiers/formule/{qualite}/{id}/{form_id}
func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	formID, err := pathUint(r, "form_id")
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	var req assignmentRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, err := req.toInput(kind, id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	updated, err := h.svc.Formulas.Update(r.Context(), actor, formID, in)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Formule mise à jour avec succès", toAssignmentResponse(updated))
}

// DELETE /tiers/formule/{qualite}/{id}/{form_id}
func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	formID, err := pathUint(r, "form_id")
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	if err := h.svc.Formulas.Delete(r.Context(), actor, kind, id, formID); err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Formule supprimée avec succès", nil)
}
