package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/gartstein/incubator/internal/pkg/utils"
	"github.com/gorilla/mux"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxUploadSize   = 32 << 20
)

// searchFilter reads the query string of the search and export routes.
func searchFilter(q url.Values) (models.SearchFilter, error) {
	var f models.SearchFilter

	batimentID, err := parseUint(q.Get("batiment_id"))
	if err != nil {
		return f, fmt.Errorf("%w: batiment_id is required", e.ErrInvalidInput)
	}
	f.BatimentID = batimentID
	f.Search = q.Get("search")

	if raw := q.Get("formule_id"); raw != "" {
		id, err := parseUint(raw)
		if err != nil {
			return f, err
		}
		f.FormulaID = utils.Ptr(id)
	}
	if raw := q.Get("selectedDate"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			return f, err
		}
		f.SelectedDate = &d
	}
	if f.Limit, err = queryInt(q, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = queryInt(q, "offset"); err != nil {
		return f, err
	}

	pm, err := queryBool(q, "pm")
	if err != nil {
		return f, err
	}
	pp, err := queryBool(q, "pp")
	if err != nil {
		return f, err
	}
	f.Kinds = models.KindsFromFlags(pm, pp)
	return f, nil
}

func queryInt(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", e.ErrInvalidInput, key, raw)
	}
	return v, nil
}

func queryBool(q url.Values, key string) (bool, error) {
	raw := q.Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: invalid %s %q", e.ErrInvalidInput, key, raw)
	}
	return v, nil
}

// GET /tiers/
func (h *Handler) SearchTenants(w http.ResponseWriter, r *http.Request) {
	f, err := searchFilter(r.URL.Query())
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	page, err := h.svc.Search.Search(r.Context(), f)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSearchResponse(page))
}

// GET /tiers/export
func (h *Handler) ExportTenants(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	f, err := searchFilter(r.URL.Query())
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}

	// Buffered so a failure can still be reported with a proper status.
	var buf bytes.Buffer
	if err := h.svc.Spreadsheets.Export(r.Context(), actor, f, &buf); err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="tiers.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// POST /tiers/import/{qualite}?batiment_id=
func (h *Handler) ImportTenants(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	kind, err := models.ParseKind(mux.Vars(r)["qualite"])
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	batimentID, err := parseUint(r.URL.Query().Get("batiment_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide : batiment_id est obligatoire")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide : fichier manquant")
		return
	}
	defer file.Close()

	count, err := h.svc.Spreadsheets.Import(r.Context(), actor, kind, batimentID, file)
	if err != nil {
		h.mapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": fmt.Sprintf("%d tiers importé(s) avec succès", count),
		"count":   count,
	})
}
