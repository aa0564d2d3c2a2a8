package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// GET /tiers/suivi/{qualite}/{id}
func (h *Handler) ListFollowUps(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	list, err := h.svc.FollowUps.List(r.Context(), kind, id)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	out := make([]followUpResponse, 0, len(list))
	for i := range list {
		out = append(out, toFollowUpResponse(&list[i]))
	}
	writeMessage(w, http.StatusOK, "Suivis récupérés avec succès", out)
}

// POST /tiers/suivi/{qualite}/{id}
func (h *Handler) CreateFollowUp(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	var req followUpRequest
	if !h.decode(w, r, &req) {
		return
	}
	f, err := req.toModel(id, 0)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	created, err := h.svc.FollowUps.Create(r.Context(), actor, kind, f)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Suivi créé avec succès", toFollowUpResponse(created))
}

// PUT /tiers/suivi/{qualite}/{id}/{suivi_id}
func (h *Handler) UpdateFollowUp(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	suiviID, err := pathUint(r, "suivi_id")
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	var req followUpRequest
	if !h.decode(w, r, &req) {
		return
	}
	f, err := req.toModel(id, suiviID)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	updated, err := h.svc.FollowUps.Update(r.Context(), actor, kind, f)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Suivi mis à jour avec succès", toFollowUpResponse(updated))
}

// DELETE /tiers/suivi/{qualite}/{id}/{suivi_id}
func (h *Handler) DeleteFollowUp(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	suiviID, err := pathUint(r, "suivi_id")
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	if err := h.svc.FollowUps.Delete(r.Context(), kind, id, suiviID); err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Suivi supprimé avec succès", nil)
}

// GET /tiers/suivi/{qualite}/{id}/{suivi_id}/fichiers
func (h *Handler) ListFollowUpFiles(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	suiviID, err := pathUint(r, "suivi_id")
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	files, err := h.svc.FollowUps.ListFiles(r.Context(), kind, id, suiviID)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	out := make([]fileResponse, 0, len(files))
	for i := range files {
		out = append(out, toFileResponse(&files[i]))
	}
	writeMessage(w, http.StatusOK, "Fichiers récupérés avec succès", out)
}

// POST /tiers/suivi/{qualite}/{id}/{suivi_id}/fichiers
func (h *Handler) UploadFollowUpFile(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	suiviID, err := pathUint(r, "suivi_id")
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide : fichier manquant")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	stored, err := h.svc.FollowUps.Upload(r.Context(), kind, id, suiviID, header.Filename, file, header.Size, contentType)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Fichier importé avec succès", toFileResponse(stored))
}

// POST /tiers/suivi/{qualite}/{id}/{suivi_id}/fichiers/{name}/archive
func (h *Handler) ArchiveFollowUpFile(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	suiviID, err := pathUint(r, "suivi_id")
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	if err := h.svc.FollowUps.Archive(r.Context(), kind, id, suiviID, mux.Vars(r)["name"]); err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Fichier archivé avec succès", nil)
}

// DELETE /tiers/suivi/{qualite}/{id}/{suivi_id}/fichiers/{name}
func (h *Handler) DeleteFollowUpFile(w http.ResponseWriter, r *http.Request) {
	kind, id, err := tenantPath(r)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	suiviID, err := pathUint(r, "suivi_id")
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	if err := h.svc.FollowUps.DeleteFile(r.Context(), kind, id, suiviID, mux.Vars(r)["name"]); err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Fichier supprimé avec succès", nil)
}
