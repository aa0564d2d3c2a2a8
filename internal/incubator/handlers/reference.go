package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gartstein/incubator/internal/incubator/models"
	"go.uber.org/zap"
)

// GET /batiments
func (h *Handler) ListBuildings(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	list, err := h.svc.Reference.ListBuildings(r.Context(), actor)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	out := make([]buildingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, buildingResponse{ID: b.ID, Nom: b.Name, Adresse: b.Address})
	}
	writeMessage(w, http.StatusOK, "Bâtiments récupérés avec succès", out)
}

// POST /batiments
func (h *Handler) CreateBuilding(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	var req buildingRequest
	if !h.decode(w, r, &req) {
		return
	}
	b, err := h.svc.Reference.CreateBuilding(r.Context(), actor, &models.Building{Name: req.Nom, Address: req.Adresse})
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Bâtiment créé avec succès", buildingResponse{ID: b.ID, Nom: b.Name, Adresse: b.Address})
}

// GET /formules
func (h *Handler) ListFormulaTypes(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	list, err := h.svc.Reference.ListFormulaTypes(r.Context(), actor)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	out := make([]formulaTypeResponse, 0, len(list))
	for _, f := range list {
		out = append(out, formulaTypeResponse{ID: f.ID, Libelle: f.Label})
	}
	writeMessage(w, http.StatusOK, "Formules récupérées avec succès", out)
}

// POST /formules
func (h *Handler) CreateFormulaType(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	var req formulaTypeRequest
	if !h.decode(w, r, &req) {
		return
	}
	f, err := h.svc.Reference.CreateFormulaType(r.Context(), actor, &models.FormulaType{Label: req.Libelle})
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Formule créée avec succès", formulaTypeResponse{ID: f.ID, Libelle: f.Label})
}

// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.svc.Health.Ping(ctx); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
